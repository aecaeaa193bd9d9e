package engine

import (
	"testing"

	. "github.com/avolkov/zenith/pkg/common"
)

var seeTestFENs = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1",
	"1k1r3q/1ppn3p/p4b2/4p3/8/P2N2P1/1PP1R1BP/2K1Q3 w - - 0 1",
	"8/8/3p4/4r3/2RKP3/5k2/8/8 b - - 0 1",
	"1rr3k1/4ppb1/2q1bnp1/1p2B1Q1/6P1/2p2P2/2P1B2R/2K4R w - - 0 1",
	"6k1/Qp1r1pp1/p1rP3p/P3q3/2Bnb1P1/1P3PNP/4p1K1/R1R5 b - - 0 1",
	"2r3k1/5p1n/6p1/pp3n2/2BPp2P/4P2P/q1rN1PQb/R1BKR3 b - - 0 1",
	"2rqkb1r/p1pnpppp/3p3n/3B4/2BPP3/1QP5/PP3PPP/RN2K1NR w KQk - 0 1",
	"4k3/8/2n5/4b3/8/3N4/8/4K3 w - - 0 1",
	"5kn1/7P/8/8/8/8/8/4K3 w - - 0 1",
}

// Verify the swap algorithm against a plain recapture search: SeeGE must
// accept exactly the thresholds up to the true exchange value.
func TestSeeGE(t *testing.T) {
	var buffer [MaxMoves]OrderedMove
	var child = &Position{}
	for _, fen := range seeTestFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		for _, om := range p.GenerateCaptures(buffer[:], false) {
			var move = om.Move
			if move.Promotion() != Empty {
				continue
			}
			if !p.MakeMove(move, child) {
				continue
			}
			if child.IsDiscoveredCheck() {
				continue
			}
			var directSEE = -exchangeSearch(child) - seeMaterial(&p)
			if !SeeGE(&p, move, directSEE) || SeeGE(&p, move, directSEE+1) {
				t.Error(fen, move.String(), directSEE)
			}
		}
	}
}

// seeMaterial is the material balance in SEE units for the side to move.
func seeMaterial(p *Position) int {
	var score = 0
	score += pieceValuesSEE[Pawn] * (PopCount(p.Pawns&p.White) - PopCount(p.Pawns&p.Black))
	score += pieceValuesSEE[Knight] * (PopCount(p.Knights&p.White) - PopCount(p.Knights&p.Black))
	score += pieceValuesSEE[Bishop] * (PopCount(p.Bishops&p.White) - PopCount(p.Bishops&p.Black))
	score += pieceValuesSEE[Rook] * (PopCount(p.Rooks&p.White) - PopCount(p.Rooks&p.Black))
	score += pieceValuesSEE[Queen] * (PopCount(p.Queens&p.White) - PopCount(p.Queens&p.Black))
	if !p.WhiteMove {
		score = -score
	}
	return score
}

// exchangeSearch resolves the capture sequence on the last move's target
// square with least valuable attackers first.
func exchangeSearch(p *Position) int {
	var alpha = seeMaterial(p)
	var buffer [MaxMoves]OrderedMove
	var child = &Position{}
	var move = lvaRecapture(p, child, p.GenerateCaptures(buffer[:], false), p.LastMove.To())
	if move != MoveEmpty && p.MakeMove(move, child) {
		if score := -exchangeSearch(child); score > alpha {
			alpha = score
		}
	}
	return alpha
}

func lvaRecapture(p *Position, child *Position, ml []OrderedMove, square int) Move {
	var piece = King + 1
	var bestMove = MoveEmpty
	for _, om := range ml {
		var move = om.Move
		if move.To() == square &&
			move.Promotion() == Empty &&
			move.MovingPiece() < piece &&
			p.MakeMove(move, child) {
			bestMove = move
			piece = move.MovingPiece()
		}
	}
	return bestMove
}
