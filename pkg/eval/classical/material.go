package eval

import (
	. "github.com/avolkov/zenith/pkg/common"
)

const (
	phaseMidgame = 128

	midgameLimit = 15258
	endgameLimit = 3915
)

const (
	scaleFactorDraw   = 0
	scaleFactorOnePawn = 48
	scaleFactorNormal = 64
)

// gamePhase maps total non-pawn material into [0, phaseMidgame].
func gamePhase(p *Position) int {
	var npm = Limit(p.AllNonPawnMaterial(), endgameLimit, midgameLimit)
	return (npm - endgameLimit) * phaseMidgame / (midgameLimit - endgameLimit)
}

// Polynomial material imbalance coefficients: own-piece and enemy-piece
// interaction terms, the leading row is the bishop pair.
var quadraticOurs = [6][6]int{
	{1667},
	{40, 0},
	{32, 255, -3},
	{0, 104, 4, 0},
	{-26, -2, 47, 105, -149},
	{-189, 24, 117, 133, -134, -10},
}

var quadraticTheirs = [6][6]int{
	{0},
	{36, 0},
	{9, 63, 0},
	{59, 65, 42, 0},
	{46, 39, 24, -24, 0},
	{97, 100, -42, 137, 268, 0},
}

func materialImbalance(p *Position) Score {
	var counts [COLOUR_NB][6]int
	for side := SideWhite; side <= SideBlack; side++ {
		var own = p.Colours(side)
		counts[side][1] = PopCount(p.Pawns & own)
		counts[side][2] = PopCount(p.Knights & own)
		counts[side][3] = PopCount(p.Bishops & own)
		counts[side][4] = PopCount(p.Rooks & own)
		counts[side][5] = PopCount(p.Queens & own)
		counts[side][0] = boolToInt(counts[side][3] > 1)
	}

	var v = imbalanceSide(&counts[SideWhite], &counts[SideBlack]) -
		imbalanceSide(&counts[SideBlack], &counts[SideWhite])
	return S(v/16, v/16)
}

func imbalanceSide(us, them *[6]int) int {
	var bonus = 0
	for pt1 := 0; pt1 < 6; pt1++ {
		if us[pt1] == 0 {
			continue
		}
		var v = 0
		for pt2 := 0; pt2 <= pt1; pt2++ {
			v += quadraticOurs[pt1][pt2]*us[pt2] + quadraticTheirs[pt1][pt2]*them[pt2]
		}
		bonus += us[pt1] * v
	}
	return bonus
}

// specializedEval recognizes trivial KXK endings: the bare king gets mated
// eventually, the score only has to drive the strong king in.
func specializedEval(p *Position) (int, bool) {
	var weak int
	if p.White == p.Kings&p.White {
		weak = SideWhite
	} else if p.Black == p.Kings&p.Black {
		weak = SideBlack
	} else {
		return 0, false
	}
	var strong = weak ^ 1

	var npm = p.NonPawnMaterial(strong)
	var pawns = PopCount(p.Pawns & p.Colours(strong))
	if npm < RookValueMg && pawns == 0 {
		// KNK, KBK and the like are covered by draw detection upstream
		return 0, false
	}

	var winnerKing = p.KingSq(strong)
	var loserKing = p.KingSq(weak)

	var result = valueKnownWin + npm + pawns*PawnValueEg +
		pushToEdge(loserKing) + 10*(7-distanceBetween[winnerKing][loserKing])

	if p.SideToMove() != strong {
		result = -result
	}
	return result, true
}

func pushToEdge(sq int) int {
	var fd = Min(File(sq), FileH-File(sq))
	var rd = Min(Rank(sq), Rank8-Rank(sq))
	return 90 - 7*fd*fd/2 - 7*rd*rd/2
}

// materialScaleFactor covers pawnless endings where the nominal material
// advantage does not convert.
func materialScaleFactor(p *Position, strongSide int) int {
	if PopCount(p.Pawns&p.Colours(strongSide)) == 0 &&
		p.NonPawnMaterial(strongSide)-p.NonPawnMaterial(strongSide^1) <= BishopValueMg {
		if p.NonPawnMaterial(strongSide) < RookValueMg {
			return scaleFactorDraw
		}
		if p.NonPawnMaterial(strongSide^1) <= BishopValueMg {
			return 4
		}
		return 14
	}
	return scaleFactorNormal
}
