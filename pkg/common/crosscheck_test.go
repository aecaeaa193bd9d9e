package common

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// Differential test of the move generator against dragontoothmg.

func dragonPerft(b *dragontoothmg.Board, depth int) int {
	if depth <= 0 {
		return 1
	}
	var result = 0
	for _, m := range b.GenerateLegalMoves() {
		var unapply = b.Apply(m)
		if depth > 1 {
			result += dragonPerft(b, depth-1)
		} else {
			result++
		}
		unapply()
	}
	return result
}

func TestMovegenAgainstDragontooth(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"8/7p/p5pb/4k3/P1pPn3/8/P5PP/1rB2RK1 b - d3 0 28",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	}
	for _, fen := range fens {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var board = dragontoothmg.ParseFen(fen)
		for depth := 1; depth <= 4; depth++ {
			var want = dragonPerft(&board, depth)
			var got = Perft(&p, depth)
			if got != want {
				t.Errorf("%v depth %d: got %d want %d", fen, depth, got, want)
			}
		}
	}
}
