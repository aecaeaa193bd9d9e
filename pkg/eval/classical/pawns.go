package eval

import (
	. "github.com/avolkov/zenith/pkg/common"
)

// pawnEntry caches everything the evaluation derives from pawn placement
// alone. Probing hashes the two pawn bitboards, so a stale slot can simply be
// overwritten; king shelter is computed outside the cache.
type pawnEntry struct {
	pawns           [COLOUR_NB]uint64
	score           Score
	passed          [COLOUR_NB]uint64
	attacks         [COLOUR_NB]uint64
	attackSpan      [COLOUR_NB]uint64
	semiopenFiles   [COLOUR_NB]int
	weakUnopposed   [COLOUR_NB]int
	pawnsOnSquares  [COLOUR_NB][2]int // [side][dark, light]
	asymmetry       int
	openFiles       int
}

var (
	pawnIsolated = S(13, 18)
	pawnBackward = S(24, 12)
	pawnDoubled  = S(18, 38)

	connectedSeed = [RANK_NB]int{0, 13, 17, 24, 59, 96, 171, 0}
)

func murmurMix(k, h uint64) uint64 {
	h ^= k
	h *= 0xc6a4a7935bd1e995
	return h ^ (h >> 51)
}

func (e *EvaluationService) probePawns(p *Position) *pawnEntry {
	var key = murmurMix(p.Pawns&p.White, murmurMix(p.Pawns&p.Black, 0x9e3779b97f4a7c15))
	var pe = &e.pawnTable[key%uint64(len(e.pawnTable))]
	if pe.pawns[SideWhite] == p.Pawns&p.White &&
		pe.pawns[SideBlack] == p.Pawns&p.Black &&
		(pe.pawns[SideWhite]|pe.pawns[SideBlack]) != 0 {
		return pe
	}

	*pe = pawnEntry{}
	pe.pawns[SideWhite] = p.Pawns & p.White
	pe.pawns[SideBlack] = p.Pawns & p.Black

	pe.score = e.evalPawnStructure(p, pe, SideWhite) - e.evalPawnStructure(p, pe, SideBlack)

	pe.asymmetry = PopCount(uint64(pe.semiopenFiles[SideWhite] ^ pe.semiopenFiles[SideBlack]))
	pe.openFiles = PopCount(uint64(pe.semiopenFiles[SideWhite] & pe.semiopenFiles[SideBlack]))
	return pe
}

func (e *EvaluationService) evalPawnStructure(p *Position, pe *pawnEntry, side int) Score {
	var s Score
	var us = pe.pawns[side]
	var them = pe.pawns[side^1]

	if side == SideWhite {
		pe.attacks[side] = AllWhitePawnAttacks(us)
	} else {
		pe.attacks[side] = AllBlackPawnAttacks(us)
	}

	pe.semiopenFiles[side] = 0xFF
	for f := FileA; f <= FileH; f++ {
		if us&FileMask[f] != 0 {
			pe.semiopenFiles[side] &^= 1 << f
		}
	}

	pe.pawnsOnSquares[side][0] = PopCount(us & darkSquares)
	pe.pawnsOnSquares[side][1] = PopCount(us &^ darkSquares)

	for x := us; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var f = File(sq)
		var r = RelativeRankOf(side, sq)

		pe.attackSpan[side] |= pawnAttackSpan[side][sq]

		var opposed = them&forwardFileMask[side][sq] != 0
		var stoppers = them & passedPawnMask[side][sq]
		var lever = them & pawnAttacksBySide(side, sq)
		var doubled = us&forwardFileMask[side][sq] != 0
		var neighbours = us & adjacentFilesMask[f]
		var phalanx = neighbours & RankMask[Rank(sq)]
		var supported = neighbours & RankMask[Rank(sq-forward(side))]

		// backward: every neighbour is behind and the stop square is
		// controlled by an enemy pawn
		var backward = false
		if neighbours != 0 && lever == 0 && r < Rank6 {
			var stopSq = sq + forward(side)
			backward = neighbours&(RankMask[Rank(sq)]|forwardRanksMask[side][Rank(sq)]) == 0 &&
				them&pawnAttacksBySide(side, stopSq) != 0
		}

		if stoppers == 0 {
			pe.passed[side] |= SquareMask[sq]
		} else if stoppers == lever && MoreThanOne(phalanx|supported) {
			// candidate passer: the levers are outnumbered
			pe.passed[side] |= SquareMask[sq]
		}

		if supported != 0 || phalanx != 0 {
			var v = connectedSeed[r] + connectedSeed[r]*boolToInt(phalanx != 0)/2 +
				17*PopCount(supported)
			s += S(v, v*(r-2)/4)
		} else if neighbours == 0 {
			s -= pawnIsolated
			if !opposed {
				pe.weakUnopposed[side]++
			}
		} else if backward {
			s -= pawnBackward
			if !opposed {
				pe.weakUnopposed[side]++
			}
		}

		if doubled && supported == 0 {
			s -= pawnDoubled
		}
	}

	return s
}

// Shelter strength and storm danger, indexed by distance from the board edge
// and the relevant pawn's relative rank.
var shelterStrength = [4][RANK_NB]int{
	{-6, 81, 93, 58, 39, 18, 25, 0},
	{-43, 61, 35, -49, -29, -11, -63, 0},
	{-10, 75, 23, -2, 32, 3, -45, 0},
	{-39, -13, -29, -52, -48, -67, -166, 0},
}

var unblockedStorm = [4][RANK_NB]int{
	{89, 107, 123, 93, 57, 45, 51, 0},
	{44, -18, 123, 46, 39, -7, 23, 0},
	{4, 52, 162, 37, 7, -14, -2, 0},
	{-10, -14, 90, 15, 2, -7, -16, 0},
}

var blockedStorm = S(82, 82)

// kingShelter scores pawn cover and enemy pawn storms on the three files
// around the king.
func (e *EvaluationService) kingShelter(pe *pawnEntry, side, kingSq int) Score {
	var s = S(5, 5)

	var forwardZone = forwardRanksMask[side][Rank(kingSq)] | RankMask[Rank(kingSq)]
	var ourPawns = pe.pawns[side] & forwardZone &^ pe.attacks[side^1]
	var theirPawns = pe.pawns[side^1] & forwardZone

	var center = Limit(File(kingSq), FileB, FileG)
	for f := center - 1; f <= center + 1; f++ {
		var d = Min(f, FileH-f)

		var ours = ourPawns & FileMask[f]
		var ourRank = 0
		if ours != 0 {
			ourRank = RelativeRankOf(side, backmost(side, ours))
		}

		var theirs = theirPawns & FileMask[f]
		var theirRank = 0
		if theirs != 0 {
			theirRank = RelativeRankOf(side, frontmost(side^1, theirs))
		}

		s += S(shelterStrength[d][ourRank], 0)
		if ourRank != 0 && ourRank == theirRank-1 {
			if theirRank == Rank3 {
				s -= blockedStorm
			}
		} else {
			s -= S(unblockedStorm[d][theirRank], 0)
		}
	}

	// keep the king close to its pawns in the endgame
	if pe.pawns[side] != 0 {
		var minDist = 6
		for x := pe.pawns[side]; x != 0; x &= x - 1 {
			minDist = Min(minDist, distanceBetween[kingSq][FirstOne(x)])
		}
		s -= S(0, 16*minDist)
	}

	return s
}
