package engine

import . "github.com/avolkov/zenith/pkg/common"

// Heuristic tables are per thread; no synchronization is needed. Update rule
// is the usual saturating exponential: v += 32*bonus - v*|bonus|/d, which
// keeps |v| below 32*d.
const (
	butterflyD    = 324
	continuationD = 936
)

const counterMovePruneThreshold = 0

type butterflyHistory [COLOUR_NB][SQUARE_NB * SQUARE_NB]int16
type captureHistory [COLOUR_NB * PIECE_NB][SQUARE_NB][PIECE_NB]int16
type continuationHistory [COLOUR_NB * PIECE_NB * SQUARE_NB][COLOUR_NB * PIECE_NB * SQUARE_NB]int16
type counterMoveTable [COLOUR_NB * PIECE_NB][SQUARE_NB]Move

// pieceSquareIndex keys continuation histories and counter moves by the
// colored moving piece and its destination.
func pieceSquareIndex(side int, move Move) int {
	return (side*PIECE_NB+move.MovingPiece())*SQUARE_NB + move.To()
}

func pieceIndex(side, piece int) int {
	return side*PIECE_NB + piece
}

func updateStat(v *int16, bonus, d int) {
	*v += int16(32*bonus - int(*v)*abs(bonus)/d)
}

func (t *thread) mainHistoryValue(side int, move Move) int {
	return int(t.mainHistory[side][move.FromTo()])
}

func (t *thread) updateMainHistory(side int, move Move, bonus int) {
	updateStat(&t.mainHistory[side][move.FromTo()], bonus, butterflyD)
}

func (t *thread) captureHistoryValue(side int, move Move) int {
	return int(t.captureHistory[pieceIndex(side, move.MovingPiece())][move.To()][move.CapturedPiece()])
}

func (t *thread) updateCaptureHistory(side int, move Move, bonus int) {
	updateStat(&t.captureHistory[pieceIndex(side, move.MovingPiece())][move.To()][move.CapturedPiece()], bonus, butterflyD)
}

// contHistValue reads the continuation history at the given ply offset for a
// move of the side to move at height.
func (t *thread) contHistValue(height, offset int, pieceToIdx int) int {
	var f = t.at(height - offset)
	return int(t.contHistory[f.contIndex][pieceToIdx])
}

// updateContinuationHistories bonuses the move pairs formed with the moves
// played 1, 2 and 4 plies above.
func (t *thread) updateContinuationHistories(height int, pieceToIdx, bonus int) {
	for _, offset := range [...]int{1, 2, 4} {
		var f = t.at(height - offset)
		if f.currentMove.IsOk() {
			updateStat(&t.contHistory[f.contIndex][pieceToIdx], bonus, continuationD)
		}
	}
}

// updateQuietStats is invoked for a quiet move that caused a beta cutoff:
// killer shuffle, butterfly and continuation bonus, counter move record.
func (t *thread) updateQuietStats(height int, move Move, bonus int) {
	var ss = t.at(height)
	if ss.killer1 != move {
		ss.killer2 = ss.killer1
		ss.killer1 = move
	}

	var side = ss.position.SideToMove()
	t.updateMainHistory(side, move, bonus)
	t.updateContinuationHistories(height, pieceSquareIndex(side, move), bonus)

	var prev = t.at(height - 1).currentMove
	if prev.IsOk() {
		t.counterMoves[pieceIndex(side^1, prev.MovingPiece())][prev.To()] = move
	}
}

func (t *thread) clearHistory() {
	t.mainHistory = butterflyHistory{}
	t.captureHistory = captureHistory{}
	*t.contHistory = continuationHistory{}
	t.counterMoves = counterMoveTable{}
}
