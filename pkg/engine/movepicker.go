package engine

import . "github.com/avolkov/zenith/pkg/common"

// Score bands keep the stages ordered: tt move, good captures, killers and
// counter move, quiets by history, bad captures last. Quiet history sums stay
// far below the killer band, so band membership can be read off the key.
const (
	sortKeyTT          = 1 << 30
	sortKeyGoodCapture = 1 << 29
	sortKeyKiller      = 1 << 28
	sortKeyBadCapture  = -(1 << 29)
)

var sortPieceValues = [...]int{Empty: 0, Pawn: 1, Knight: 2, Bishop: 3, Rook: 4, Queen: 5, King: 6}

func mvvlva(move Move) int {
	return 8*(sortPieceValues[move.CapturedPiece()]+
		sortPieceValues[move.Promotion()]) -
		sortPieceValues[move.MovingPiece()]
}

// movePicker yields the pseudo-legal moves of a node in staged order using
// selection sort: most nodes cut off after a few moves, so a full sort would
// be wasted work.
type movePicker struct {
	buffer [MaxMoves]OrderedMove
	moves  []OrderedMove
	index  int
}

func (mi *movePicker) Init(t *thread, height int, ttMove Move) {
	var ss = t.at(height)
	var p = &ss.position
	var side = p.SideToMove()

	var counter = MoveEmpty
	var prev = t.at(height - 1).currentMove
	if prev.IsOk() {
		counter = t.counterMoves[pieceIndex(side^1, prev.MovingPiece())][prev.To()]
	}

	var cont1, cont2, cont4 = t.at(height - 1).contIndex, t.at(height - 2).contIndex, t.at(height - 4).contIndex

	mi.moves = p.GenerateMoves(mi.buffer[:])
	for i := range mi.moves {
		var m = mi.moves[i].Move
		var score int
		if m == ttMove {
			score = sortKeyTT
		} else if isCaptureOrPromotion(m) {
			if seeGEZero(p, m) {
				score = sortKeyGoodCapture + t.captureHistoryValue(side, m) + mvvlva(m)
			} else {
				score = sortKeyBadCapture + mvvlva(m)
			}
		} else if m == ss.killer1 {
			score = sortKeyKiller + 2
		} else if m == ss.killer2 {
			score = sortKeyKiller + 1
		} else if m == counter {
			score = sortKeyKiller
		} else {
			var pieceToIdx = pieceSquareIndex(side, m)
			score = t.mainHistoryValue(side, m) +
				int(t.contHistory[cont1][pieceToIdx]) +
				int(t.contHistory[cont2][pieceToIdx]) +
				int(t.contHistory[cont4][pieceToIdx])
		}
		mi.moves[i].Key = int32(score)
	}
	mi.index = 0
}

func (mi *movePicker) Next(skipQuiets bool) Move {
	for mi.index < len(mi.moves) {
		moveToTop(mi.moves[mi.index:])
		var om = mi.moves[mi.index]
		mi.index++
		if skipQuiets && om.Key < sortKeyKiller && om.Key > -sortKeyKiller {
			continue
		}
		return om.Move
	}
	return MoveEmpty
}

// moveToTop brings the best remaining move to the front of the slice.
func moveToTop(ml []OrderedMove) {
	var bestIndex = 0
	for i := 1; i < len(ml); i++ {
		if ml[i].Key > ml[bestIndex].Key {
			bestIndex = i
		}
	}
	if bestIndex != 0 {
		ml[0], ml[bestIndex] = ml[bestIndex], ml[0]
	}
}

// qsMovePicker yields evasions when in check, otherwise captures plus, when
// requested, quiet checking moves.
type qsMovePicker struct {
	buffer [MaxMoves]OrderedMove
	moves  []OrderedMove
	index  int
}

func (mi *qsMovePicker) Init(t *thread, height int, genChecks bool) {
	var ss = t.at(height)
	var p = &ss.position
	var side = p.SideToMove()

	if p.IsCheck() {
		mi.moves = p.GenerateMoves(mi.buffer[:])
	} else {
		mi.moves = p.GenerateCaptures(mi.buffer[:], genChecks)
	}

	for i := range mi.moves {
		var m = mi.moves[i].Move
		var score int
		if isCaptureOrPromotion(m) {
			score = sortKeyGoodCapture + t.captureHistoryValue(side, m) + mvvlva(m)
		} else {
			score = t.mainHistoryValue(side, m)
		}
		mi.moves[i].Key = int32(score)
	}
	mi.index = 0
}

func (mi *qsMovePicker) Next() Move {
	if mi.index >= len(mi.moves) {
		return MoveEmpty
	}
	moveToTop(mi.moves[mi.index:])
	var m = mi.moves[mi.index].Move
	mi.index++
	return m
}

// capturePicker feeds ProbCut: captures only, best exchange first.
type capturePicker struct {
	buffer [MaxMoves]OrderedMove
	moves  []OrderedMove
	index  int
}

func (mi *capturePicker) Init(t *thread, height int) {
	var ss = t.at(height)
	var p = &ss.position
	var side = p.SideToMove()
	mi.moves = p.GenerateCaptures(mi.buffer[:], false)
	for i := range mi.moves {
		var m = mi.moves[i].Move
		mi.moves[i].Key = int32(t.captureHistoryValue(side, m) + mvvlva(m))
	}
	mi.index = 0
}

func (mi *capturePicker) Next() Move {
	if mi.index >= len(mi.moves) {
		return MoveEmpty
	}
	moveToTop(mi.moves[mi.index:])
	var m = mi.moves[mi.index].Move
	mi.index++
	return m
}
