package eval

import (
	. "github.com/avolkov/zenith/pkg/common"
)

const (
	valueKnownWin = 10000

	// Tempo is the side-to-move bonus; the search relies on the same value
	// when it substitutes a null-moved eval.
	Tempo = 20

	lazyThreshold  = 1500
	spaceThreshold = 12222
)

// trace term indices
const (
	termMaterial = iota
	termImbalance
	termPawns
	termKnight
	termBishop
	termRook
	termQueen
	termMobility
	termKing
	termThreats
	termPassed
	termSpace
	termInitiative
	termTotal
	termNB
)

var mobilityBonus = [...][32]Score{
	{S(-75, -76), S(-57, -54), S(-9, -28), S(-2, -10), S(6, 5), S(14, 12), // Knights
		S(22, 26), S(29, 29), S(36, 29)},
	{S(-48, -59), S(-20, -23), S(16, -3), S(26, 13), S(38, 24), S(51, 42), // Bishops
		S(55, 54), S(63, 57), S(63, 65), S(68, 73), S(81, 78), S(81, 86),
		S(91, 88), S(98, 97)},
	{S(-58, -76), S(-27, -18), S(-15, 28), S(-10, 55), S(-5, 69), S(-2, 82), // Rooks
		S(9, 112), S(16, 118), S(30, 132), S(29, 142), S(32, 155), S(38, 165),
		S(46, 166), S(48, 169), S(58, 171)},
	{S(-39, -36), S(-21, -15), S(3, 8), S(3, 18), S(14, 34), S(22, 54), // Queens
		S(28, 61), S(41, 73), S(43, 79), S(48, 92), S(56, 94), S(60, 104),
		S(60, 113), S(66, 120), S(67, 123), S(70, 126), S(71, 133), S(73, 136),
		S(79, 140), S(88, 143), S(88, 148), S(99, 166), S(102, 170), S(102, 175),
		S(106, 184), S(109, 191), S(113, 206), S(116, 212)},
}

var outpostBonus = [2][2]Score{
	{S(22, 6), S(36, 12)}, // Knight
	{S(9, 2), S(15, 5)},   // Bishop
}

var rookOnFile = [2]Score{S(20, 7), S(45, 20)}

var threatByMinor = [PIECE_NB]Score{
	S(0, 0), S(0, 33), S(45, 43), S(46, 47), S(72, 107), S(48, 118),
}

var threatByRook = [PIECE_NB]Score{
	S(0, 0), S(0, 25), S(40, 62), S(40, 59), S(0, 34), S(35, 48),
}

var threatByKing = [2]Score{S(3, 62), S(9, 138)}

var passedRankBonus = [2][RANK_NB]int{
	{0, 5, 5, 31, 73, 166, 252},
	{0, 7, 14, 38, 73, 166, 252},
}

var passedFileBonus = [FILE_NB]Score{
	S(9, 10), S(2, 10), S(1, -8), S(-20, -12),
	S(-20, -12), S(1, -8), S(2, 10), S(9, 10),
}

var passedRankFactor = [RANK_NB]int{0, 0, 0, 2, 6, 11, 16}

var kingProtector = [4]Score{S(-3, -5), S(-4, -3), S(-3, 0), S(-1, 1)}

var (
	minorBehindPawn       = S(16, 0)
	bishopPawns           = S(8, 12)
	longRangedBishop      = S(22, 0)
	rookOnPawn            = S(8, 24)
	trappedRook           = S(92, 0)
	weakQueen             = S(50, 10)
	closeEnemies          = S(7, 0)
	pawnlessFlank         = S(20, 80)
	threatBySafePawn      = S(192, 175)
	threatByRank          = S(16, 3)
	hanging               = S(48, 27)
	weakUnopposedPawn     = S(5, 25)
	threatByPawnPush      = S(38, 22)
	threatByAttackOnQueen = S(38, 22)
	hinderPassedPawn      = S(7, 0)
)

var kingAttackWeights = [PIECE_NB]int{0, 0, 78, 56, 45, 11}

const (
	queenSafeCheck  = 780
	rookSafeCheck   = 880
	bishopSafeCheck = 435
	knightSafeCheck = 790
)

// EvaluationService is the classical evaluator. Instances are not safe for
// concurrent use; the engine builds one per search thread.
type EvaluationService struct {
	TraceEnabled bool
	trace        [termNB][COLOUR_NB]Score

	pawnTable []pawnEntry
	pe        *pawnEntry
	phase     int

	mobilityArea  [COLOUR_NB]uint64
	mobility      [COLOUR_NB]Score
	attackedBy    [COLOUR_NB][PIECE_NB]uint64
	attackedByAll [COLOUR_NB]uint64
	attackedBy2   [COLOUR_NB]uint64
	queenDiagonal [COLOUR_NB]uint64
	kingRing      [COLOUR_NB]uint64
	pinned        [COLOUR_NB]uint64

	kingAttackersCount           [COLOUR_NB]int
	kingAttackersWeight          [COLOUR_NB]int
	kingAdjacentZoneAttacksCount [COLOUR_NB]int
}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{
		pawnTable: make([]pawnEntry, 1<<14),
	}
}

func (e *EvaluationService) addTrace(term, side int, s Score) {
	if e.TraceEnabled {
		e.trace[term][side] = s
	}
}

// Evaluate scores the position from the side to move perspective, in the
// engine's internal units.
func (e *EvaluationService) Evaluate(p *Position) int {
	if v, ok := specializedEval(p); ok {
		return v + Tempo
	}

	var material = psqScore(p)
	var imbalance = materialImbalance(p)
	var score = material + imbalance
	e.addTrace(termMaterial, SideWhite, material)
	e.addTrace(termImbalance, SideWhite, imbalance)

	e.pe = e.probePawns(p)
	score += e.pe.score
	e.addTrace(termPawns, SideWhite, e.pe.score)

	e.phase = gamePhase(p)

	// Lazy exit: a position this lopsided does not need the full pass.
	var lazy = (score.Mg() + score.Eg()) / 2
	if abs(lazy) > lazyThreshold && !e.TraceEnabled {
		if !p.WhiteMove {
			lazy = -lazy
		}
		return lazy + Tempo
	}

	e.initialize(p, SideWhite)
	e.initialize(p, SideBlack)

	for pt := Knight; pt <= Queen; pt++ {
		score += e.evaluatePieces(p, SideWhite, pt) - e.evaluatePieces(p, SideBlack, pt)
	}

	score += e.mobility[SideWhite] - e.mobility[SideBlack]
	e.addTrace(termMobility, SideWhite, e.mobility[SideWhite])
	e.addTrace(termMobility, SideBlack, e.mobility[SideBlack])

	score += e.evaluateKing(p, SideWhite) - e.evaluateKing(p, SideBlack)
	score += e.evaluateThreats(p, SideWhite) - e.evaluateThreats(p, SideBlack)
	score += e.evaluatePassed(p, SideWhite) - e.evaluatePassed(p, SideBlack)

	if p.AllNonPawnMaterial() >= spaceThreshold {
		var ws = e.evaluateSpace(p, SideWhite)
		var bs = e.evaluateSpace(p, SideBlack)
		score += ws - bs
		e.addTrace(termSpace, SideWhite, ws)
		e.addTrace(termSpace, SideBlack, bs)
	}

	score += e.evaluateInitiative(p, score.Eg())

	e.addTrace(termTotal, SideWhite, score)

	// Interpolate between the middlegame and the scaled endgame component.
	var sf = e.evaluateScaleFactor(p, score.Eg())
	var v = score.Mg()*e.phase +
		score.Eg()*(phaseMidgame-e.phase)*sf/scaleFactorNormal
	v /= phaseMidgame

	if !p.WhiteMove {
		v = -v
	}
	return v + Tempo
}

func (e *EvaluationService) initialize(p *Position, side int) {
	var them = side ^ 1
	var kingSq = p.KingSq(side)
	var ourPawns = p.Pawns & p.Colours(side)

	var down uint64
	if side == SideWhite {
		down = Down(p.AllPieces())
	} else {
		down = Up(p.AllPieces())
	}
	var blocked = ourPawns & (down | lowRanksMask[side])

	e.mobilityArea[side] = ^(blocked | SquareMask[kingSq] | e.pe.attacks[them])
	e.mobility[side] = 0

	for pt := Empty; pt < PIECE_NB; pt++ {
		e.attackedBy[side][pt] = 0
	}
	var kingAttacks = KingAttacks[kingSq]
	e.attackedBy[side][King] = kingAttacks
	e.attackedBy[side][Pawn] = e.pe.attacks[side]
	e.attackedBy2[side] = kingAttacks & e.pe.attacks[side]
	e.attackedByAll[side] = kingAttacks | e.pe.attacks[side]
	e.queenDiagonal[side] = 0
	e.pinned[side] = p.PinnedPieces(side)

	if p.NonPawnMaterial(them) >= RookValueMg+KnightValueMg {
		e.kingRing[side] = kingAttacks
		if RelativeRankOf(side, kingSq) == Rank1 {
			e.kingRing[side] |= shiftUp(side, kingAttacks)
		}
		e.kingAttackersCount[them] = PopCount(e.kingRing[side] & e.pe.attacks[them])
	} else {
		e.kingRing[side] = 0
		e.kingAttackersCount[them] = 0
	}
	e.kingAttackersWeight[them] = 0
	e.kingAdjacentZoneAttacksCount[them] = 0
}

func (e *EvaluationService) evaluatePieces(p *Position, side, pieceType int) Score {
	var score Score
	var them = side ^ 1
	var friendly = p.Colours(side)
	var occ = p.AllPieces()
	var kingSq = p.KingSq(side)

	var pieces uint64
	switch pieceType {
	case Knight:
		pieces = p.Knights & friendly
	case Bishop:
		pieces = p.Bishops & friendly
	case Rook:
		pieces = p.Rooks & friendly
	case Queen:
		pieces = p.Queens & friendly
	}

	for x := pieces; x != 0; x &= x - 1 {
		var sq = FirstOne(x)

		// attack set with x-ray through own queen, and through own rooks
		// for rooks
		var attacks uint64
		switch pieceType {
		case Knight:
			attacks = KnightAttacks[sq]
		case Bishop:
			attacks = BishopAttacks(sq, occ^(p.Queens&friendly))
		case Rook:
			attacks = RookAttacks(sq, occ^(p.Queens&friendly)^(p.Rooks&friendly))
		case Queen:
			attacks = QueenAttacks(sq, occ)
		}

		if e.pinned[side]&SquareMask[sq] != 0 {
			attacks &= Line(kingSq, sq)
		}

		e.attackedBy2[side] |= e.attackedByAll[side] & attacks
		e.attackedBy[side][pieceType] |= attacks
		e.attackedByAll[side] |= attacks

		if pieceType == Queen {
			e.queenDiagonal[side] |= attacks & BishopAttacks(sq, 0)
		}

		if attacks&e.kingRing[them] != 0 {
			e.kingAttackersCount[side]++
			e.kingAttackersWeight[side] += kingAttackWeights[pieceType]
			e.kingAdjacentZoneAttacksCount[side] += PopCount(attacks & e.attackedBy[them][King])
		}

		var mob = PopCount(attacks & e.mobilityArea[side])
		e.mobility[side] += mobilityBonus[pieceType-Knight][mob]

		score += kingProtector[pieceType-Knight] * Score(distanceBetween[sq][kingSq])

		if pieceType == Knight || pieceType == Bishop {
			var outposts = outpostRanksMask[side] &^ e.pe.attackSpan[them]
			if outposts&SquareMask[sq] != 0 {
				score += outpostBonus[boolToInt(pieceType == Bishop)][boolToInt(e.attackedBy[side][Pawn]&SquareMask[sq] != 0)] * 2
			} else if reachable := outposts & attacks &^ friendly; reachable != 0 {
				score += outpostBonus[boolToInt(pieceType == Bishop)][boolToInt(e.attackedBy[side][Pawn]&reachable != 0)]
			}

			if RelativeRankOf(side, sq) < Rank5 &&
				p.Pawns&SquareMask[sq+forward(side)] != 0 {
				score += minorBehindPawn
			}

			if pieceType == Bishop {
				score -= bishopPawns * Score(e.pe.pawnsOnSquares[side][boolToInt(!IsDarkSquare(sq))])

				if MoreThanOne(centerBB & (BishopAttacks(sq, p.Pawns) | SquareMask[sq])) {
					score += longRangedBishop
				}
			}
		}

		if pieceType == Rook {
			if RelativeRankOf(side, sq) >= Rank5 {
				score += rookOnPawn * Score(PopCount(p.Pawns&p.Colours(them)&RookAttacks(sq, 0)))
			}

			if e.pe.semiopenFiles[side]&(1<<File(sq)) != 0 {
				score += rookOnFile[boolToInt(e.pe.semiopenFiles[them]&(1<<File(sq)) != 0)]
			} else if mob := PopCount(attacks & e.mobilityArea[side]); mob <= 3 {
				var kf = File(kingSq)
				if (kf < FileE) == (File(sq) < kf) && !e.semiopenSide(side, kf, File(sq) < kf) {
					score -= (trappedRook - S(mob*22, 0)) * Score(1+boolToInt(!canCastle(p, side)))
				}
			}
		}

		if pieceType == Queen {
			var blockers, _ = p.SliderBlockers((p.Rooks|p.Bishops)&p.Colours(them), sq)
			if blockers != 0 {
				score -= weakQueen
			}
		}
	}

	e.addTrace(termKnight-Knight+pieceType, side, score)
	return score
}

func (e *EvaluationService) semiopenSide(side, kingFile int, leftSide bool) bool {
	var files int
	if leftSide {
		files = (1 << kingFile) - 1
	} else {
		files = ^((1 << (kingFile + 1)) - 1) & 0xFF
	}
	return e.pe.semiopenFiles[side]&files != 0
}

func canCastle(p *Position, side int) bool {
	if side == SideWhite {
		return p.CastleRights&(WhiteKingSide|WhiteQueenSide) != 0
	}
	return p.CastleRights&(BlackKingSide|BlackQueenSide) != 0
}

func (e *EvaluationService) evaluateKing(p *Position, side int) Score {
	var them = side ^ 1
	var kingSq = p.KingSq(side)
	var occ = p.AllPieces()

	var score = e.kingShelter(e.pe, side, kingSq)

	if e.kingAttackersCount[them] > 1-PopCount(p.Queens&p.Colours(them)) {
		// Attacked squares defended at most once by our queen or king
		var weak = e.attackedByAll[them] &
			^e.attackedBy2[side] &
			(e.attackedBy[side][King] | e.attackedBy[side][Queen] | ^e.attackedByAll[side])

		var kingDanger = 0
		var unsafeChecks = uint64(0)

		var safe = ^p.Colours(them) &
			(^e.attackedByAll[side] | (weak & e.attackedBy2[them]))

		var b1 = RookAttacks(kingSq, occ^(p.Queens&p.Colours(side)))
		var b2 = BishopAttacks(kingSq, occ^(p.Queens&p.Colours(side)))

		if (b1|b2)&e.attackedBy[them][Queen]&safe&^e.attackedBy[side][Queen] != 0 {
			kingDanger += queenSafeCheck
		}

		b1 &= e.attackedBy[them][Rook]
		b2 &= e.attackedBy[them][Bishop]

		if b1&safe != 0 {
			kingDanger += rookSafeCheck
		} else {
			unsafeChecks |= b1
		}

		if b2&safe != 0 {
			kingDanger += bishopSafeCheck
		} else {
			unsafeChecks |= b2
		}

		var knightChecks = KnightAttacks[kingSq] & e.attackedBy[them][Knight]
		if knightChecks&safe != 0 {
			kingDanger += knightSafeCheck
		} else {
			unsafeChecks |= knightChecks
		}

		unsafeChecks &= e.mobilityArea[them]

		kingDanger += e.kingAttackersCount[them]*e.kingAttackersWeight[them] +
			102*e.kingAdjacentZoneAttacksCount[them] +
			191*PopCount(e.kingRing[side]&weak) +
			143*PopCount(e.pinned[side]|unsafeChecks) -
			848*boolToInt(p.Queens&p.Colours(them) == 0) -
			9*score.Mg()/8 +
			40

		if kingDanger > 0 {
			var mobilityDanger = (e.mobility[them] - e.mobility[side]).Mg()
			kingDanger = Max(0, kingDanger+mobilityDanger)
			score -= S(kingDanger*kingDanger/4096, kingDanger/16)
		}
	}

	// King tropism: squares the enemy attacks in our king's flank
	var kf = File(kingSq)
	var flankAttacks = e.attackedByAll[them] & kingFlank[kf] & campMask[side]
	var doubledFlank = flankAttacks & e.attackedBy2[them] &^ e.attackedBy[side][Pawn]
	score -= closeEnemies * Score(PopCount(flankAttacks)+PopCount(doubledFlank))

	if p.Pawns&kingFlank[kf] == 0 {
		score -= pawnlessFlank
	}

	e.addTrace(termKing, side, score)
	return score
}

func (e *EvaluationService) evaluateThreats(p *Position, side int) Score {
	var score Score
	var them = side ^ 1
	var friendly = p.Colours(side)
	var enemy = p.Colours(them)
	var theirRank3 = RankMask[Rank3]
	if side == SideBlack {
		theirRank3 = RankMask[Rank6]
	}

	// Non-pawn enemies attacked by a pawn
	var weak = (enemy ^ enemy&p.Pawns) & e.attackedBy[side][Pawn]
	if weak != 0 {
		var b = p.Pawns & friendly &
			(^e.attackedByAll[them] | e.attackedByAll[side])
		var safeThreats uint64
		if side == SideWhite {
			safeThreats = AllWhitePawnAttacks(b) & weak
		} else {
			safeThreats = AllBlackPawnAttacks(b) & weak
		}
		score += threatBySafePawn * Score(PopCount(safeThreats))
	}

	// Squares strongly protected by the enemy
	var stronglyProtected = e.attackedBy[them][Pawn] |
		(e.attackedBy2[them] &^ e.attackedBy2[side])

	var defended = (enemy ^ enemy&p.Pawns) & stronglyProtected

	weak = enemy &^ stronglyProtected & e.attackedByAll[side]

	if defended|weak != 0 {
		for b := (defended | weak) & (e.attackedBy[side][Knight] | e.attackedBy[side][Bishop]); b != 0; b &= b - 1 {
			var sq = FirstOne(b)
			var piece = p.WhatPiece(sq)
			score += threatByMinor[piece]
			if piece != Pawn {
				score += threatByRank * Score(RelativeRankOf(them, sq))
			}
		}

		for b := (enemy&p.Queens | weak) & e.attackedBy[side][Rook]; b != 0; b &= b - 1 {
			var sq = FirstOne(b)
			var piece = p.WhatPiece(sq)
			score += threatByRook[piece]
			if piece != Pawn {
				score += threatByRank * Score(RelativeRankOf(them, sq))
			}
		}

		score += hanging * Score(PopCount(weak&^e.attackedByAll[them]))

		if b := weak & e.attackedBy[side][King]; b != 0 {
			score += threatByKing[boolToInt(MoreThanOne(b))]
		}
	}

	if p.Colours(side)&(p.Rooks|p.Queens) != 0 {
		score += weakUnopposedPawn * Score(e.pe.weakUnopposed[them])
	}

	// Squares our pawns can safely push to next move
	var pushes = shiftUp(side, p.Pawns&friendly) &^ p.AllPieces()
	pushes |= shiftUp(side, pushes&theirRank3) &^ p.AllPieces()
	pushes &= ^e.attackedBy[them][Pawn] &
		(e.attackedByAll[side] | ^e.attackedByAll[them])

	var pushThreats uint64
	if side == SideWhite {
		pushThreats = AllWhitePawnAttacks(pushes) & enemy &^ e.attackedBy[side][Pawn]
	} else {
		pushThreats = AllBlackPawnAttacks(pushes) & enemy &^ e.attackedBy[side][Pawn]
	}
	score += threatByPawnPush * Score(PopCount(pushThreats))

	// Safe slider attacks on the enemy queen
	var safeSpots = ^p.Colours(side) &^ e.attackedBy2[them] & e.attackedBy2[side]
	var queenThreats = (e.attackedBy[side][Bishop] & e.queenDiagonal[them]) |
		(e.attackedBy[side][Rook] & e.attackedBy[them][Queen] &^ e.queenDiagonal[them])
	score += threatByAttackOnQueen * Score(PopCount(queenThreats&safeSpots))

	e.addTrace(termThreats, side, score)
	return score
}

func (e *EvaluationService) evaluatePassed(p *Position, side int) Score {
	var score Score
	var them = side ^ 1
	var up = forward(side)

	for x := e.pe.passed[side] & p.Colours(side); x != 0; x &= x - 1 {
		var sq = FirstOne(x)

		var hinder = forwardFileMask[side][sq] & (e.attackedByAll[them] | p.Colours(them))
		score -= hinderPassedPawn * Score(PopCount(hinder))

		var r = RelativeRankOf(side, sq)
		var rr = passedRankFactor[r]

		var mbonus = passedRankBonus[0][r]
		var ebonus = passedRankBonus[1][r]

		if rr != 0 {
			var blockSq = sq + up

			ebonus += kingDistance(p, them, blockSq)*5*rr -
				kingDistance(p, side, blockSq)*2*rr

			if r != Rank7 {
				ebonus -= kingDistance(p, side, blockSq+up) * rr
			}

			if p.WhatPiece(blockSq) == Empty {
				var squaresToQueen = forwardFileMask[side][sq]
				var defendedSquares = squaresToQueen
				var unsafeSquares = squaresToQueen

				var behind = forwardFileMask[them][sq] & (p.Rooks | p.Queens) & RookAttacks(sq, p.AllPieces())

				if p.Colours(side)&behind == 0 {
					defendedSquares &= e.attackedByAll[side]
				}
				if p.Colours(them)&behind == 0 {
					unsafeSquares &= e.attackedByAll[them] | p.Colours(them)
				}

				var k = 0
				if unsafeSquares == 0 {
					k = 18
				} else if unsafeSquares&SquareMask[blockSq] == 0 {
					k = 8
				}
				if defendedSquares == squaresToQueen {
					k += 6
				} else if defendedSquares&SquareMask[blockSq] != 0 {
					k += 4
				}

				mbonus += k * rr
				ebonus += k * rr
			} else if p.Colours(side)&SquareMask[blockSq] != 0 {
				mbonus += rr + r*2
				ebonus += rr + r*2
			}
		}

		// Candidate passers and doubled passers only get half.
		if p.Pawns&forwardFileMask[side][sq] != 0 ||
			p.Pawns&p.Colours(them)&passedPawnMask[side][sq] != 0 {
			mbonus /= 2
			ebonus /= 2
		}

		score += S(mbonus, ebonus) + passedFileBonus[File(sq)]
	}

	e.addTrace(termPassed, side, score)
	return score
}

func kingDistance(p *Position, side, sq int) int {
	return Min(distanceBetween[p.KingSq(side)][sq], 5)
}

func (e *EvaluationService) evaluateSpace(p *Position, side int) Score {
	var them = side ^ 1
	var friendly = p.Colours(side)

	var safe = spaceMask[side] &^
		(p.Pawns & friendly) &^
		e.attackedBy[them][Pawn] &
		(e.attackedByAll[side] | ^e.attackedByAll[them])

	var behind = p.Pawns & friendly
	if side == SideWhite {
		behind |= behind>>8 | behind>>16
	} else {
		behind |= behind<<8 | behind<<16
	}

	var bonus = PopCount(safe) + PopCount(behind&safe)
	var weight = PopCount(friendly) - 2*e.pe.openFiles

	return S(bonus*weight*weight/16, 0)
}

// evaluateInitiative shifts the endgame component toward the attacking side,
// capped so it never flips the sign.
func (e *EvaluationService) evaluateInitiative(p *Position, eg int) Score {
	var wk = p.KingSq(SideWhite)
	var bk = p.KingSq(SideBlack)
	var kingSeparation = AbsDelta(File(wk), File(bk)) - AbsDelta(Rank(wk), Rank(bk))
	var bothFlanks = p.Pawns&queenSideBB != 0 && p.Pawns&kingSideBB != 0

	var initiative = 8*(e.pe.asymmetry+kingSeparation-17) +
		12*PopCount(p.Pawns) +
		16*boolToInt(bothFlanks)

	var v = sign(eg) * Max(initiative, -abs(eg))

	e.addTrace(termInitiative, SideWhite, S(0, v))
	return S(0, v)
}

func (e *EvaluationService) evaluateScaleFactor(p *Position, eg int) int {
	var strongSide = SideWhite
	if eg < 0 {
		strongSide = SideBlack
	}

	var sf = materialScaleFactor(p, strongSide)
	if sf != scaleFactorNormal && sf != scaleFactorOnePawn {
		return sf
	}

	if p.OppositeBishops() {
		// Pure opposite bishops are nearly drawn, more so without pawns.
		if p.NonPawnMaterial(SideWhite) == BishopValueMg &&
			p.NonPawnMaterial(SideBlack) == BishopValueMg {
			if MoreThanOne(p.Pawns) {
				return 31
			}
			return 9
		}
		return 46
	}

	// The weak king parked in front of the pawns holds the draw.
	if abs(eg) <= BishopValueEg &&
		PopCount(p.Pawns&p.Colours(strongSide)) <= 2 &&
		p.Pawns&p.Colours(strongSide)&passedPawnMask[strongSide^1][p.KingSq(strongSide^1)] != 0 {
		return 37 + 7*PopCount(p.Pawns&p.Colours(strongSide))
	}

	return sf
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
