package common

import (
	"math/rand"
	"testing"
)

var testFENs = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"8/p1P5/P7/3p4/5p1p/3p1P1P/K2p2pp/3R2nk w - - 0 1",
	"8/7p/p5pb/4k3/P1pPn3/8/P5PP/1rB2RK1 b - d3 0 28",
	"2rqkb1r/p1pnpppp/3p3n/3B4/2BPP3/1QP5/PP3PPP/RN2K1NR w KQk - 0 1",
	"1rr3k1/4ppb1/2q1bnp1/1p2B1Q1/6P1/2p2P2/2P1B2R/2K4R w - - 0 1",
	"r2qk2r/pppb1ppp/2np4/1Bb5/4n3/5N2/PPP2PPP/RNBQR1K1 b kq - 1 1",
	"6k1/Qp1r1pp1/p1rP3p/P3q3/2Bnb1P1/1P3PNP/4p1K1/R1R5 b - - 0 1",
	"r3r3/bpp1Nk1p/p1bq1Bp1/5p2/PPP3n1/R7/3QBPPP/5RK1 w - - 0 1",
}

func TestFenRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var p2, err2 = NewPositionFromFEN(p.String())
		if err2 != nil {
			t.Fatal(p.String(), err2)
		}
		if p.Key != p2.Key {
			t.Error(fen, p.String())
		}
	}
}

// Walk random games and verify the incrementally maintained zobrist key and
// checkers bitboard always match a recomputation from scratch.
func TestIncrementalState(t *testing.T) {
	var r = rand.New(rand.NewSource(1))
	for game := 0; game < 50; game++ {
		var p, err = NewPositionFromFEN(InitialPositionFen)
		if err != nil {
			t.Fatal(err)
		}
		for move := 0; move < 80; move++ {
			var ml = p.GenerateLegalMoves()
			if len(ml) == 0 {
				break
			}
			var child Position
			if !p.MakeMove(ml[r.Intn(len(ml))], &child) {
				t.Fatal("legal move rejected")
			}
			if child.Key != child.ComputeKey() {
				t.Fatal("zobrist drift after", child.LastMove)
			}
			if child.Checkers != child.computeCheckers() {
				t.Fatal("checkers drift after", child.LastMove)
			}
			p = child
		}
	}
}

func TestMirrorInvolution(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var m = MirrorPosition(&p)
		var back = MirrorPosition(&m)
		if back.String() != p.String() {
			t.Error(fen, back.String())
		}
	}
}

func TestIsMoveCheck(t *testing.T) {
	var child = &Position{}
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var buffer [MaxMoves]OrderedMove
		for _, om := range p.GenerateMoves(buffer[:]) {
			if !p.MakeMove(om.Move, child) {
				continue
			}
			if om.Move.MovingPiece() == King &&
				AbsDelta(File(om.Move.From()), File(om.Move.To())) == 2 {
				continue
			}
			if p.IsMoveCheck(om.Move) != child.IsCheck() {
				t.Error(fen, om.Move.String(), "givesCheck mismatch")
			}
		}
	}
}

func TestMoveFromTo(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		for _, m := range p.GenerateLegalMoves() {
			var rebuilt = p.MoveFromTo(m.From(), m.To(), m.Promotion())
			if rebuilt != m {
				t.Error(fen, m.String(), rebuilt.String())
			}
		}
	}
}
