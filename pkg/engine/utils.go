package engine

import (
	. "github.com/avolkov/zenith/pkg/common"
)

const (
	stackSize  = 128
	maxHeight  = stackSize - 1
	stackGuard = 4 // frames reachable at height-1..height-4

	valueDraw     = 0
	valueKnownWin = 10000
	valueMate     = 32000
	valueInfinity = valueMate + 1
	valueNone     = valueMate + 2

	valueWin  = valueMate - 2*maxHeight
	valueLoss = -valueWin
)

const (
	depthQsChecks   = 0
	depthQsNoChecks = -1
	depthNone       = -6
)

const tempo = 20

func winIn(height int) int {
	return valueMate - height
}

func lossIn(height int) int {
	return -valueMate + height
}

// The transposition table stores mate scores as plies from the entry's
// position; the search works in plies from the root.
func valueToTT(v, height int) int {
	if v >= valueWin {
		return v + height
	}
	if v <= valueLoss {
		return v - height
	}
	return v
}

func valueFromTT(v, height int) int {
	if v == valueNone {
		return valueNone
	}
	if v >= valueWin {
		return v - height
	}
	if v <= valueLoss {
		return v + height
	}
	return v
}

func statBonus(depth int) int {
	if depth > 17 {
		return 0
	}
	return depth*depth + 2*depth - 2
}

func newUciScore(v int) UciScore {
	if v >= valueWin {
		return UciScore{Mate: (valueMate - v + 1) / 2}
	} else if v <= valueLoss {
		return UciScore{Mate: (-valueMate - v) / 2}
	}
	return UciScore{Centipawns: v * 100 / PawnValueEg}
}

func isCaptureOrPromotion(move Move) bool {
	return move.CapturedPiece() != Empty ||
		move.Promotion() != Empty
}

// advanced pawn push: a pawn move deep into enemy territory
func isAdvancedPawnPush(move Move, side int) bool {
	if move.MovingPiece() != Pawn {
		return false
	}
	return RelativeRankOf(side, move.To()) > Rank6
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
