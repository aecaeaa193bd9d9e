package eval

import (
	"strings"
	"testing"

	. "github.com/avolkov/zenith/pkg/common"
)

var testFENs = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"8/p1P5/P7/3p4/5p1p/3p1P1P/K2p2pp/3R2nk w - - 0 1",
	"8/7p/p5pb/4k3/P1pPn3/8/P5PP/1rB2RK1 b - d3 0 28",
	"1K1k4/8/5n2/3p4/8/1BN2B2/6b1/7b w - - 0 1",
	"6k1/5ppp/3r4/8/3R2b1/8/5PPP/R3qB1K b - - 0 1",
	"2rqkb1r/p1pnpppp/3p3n/3B4/2BPP3/1QP5/PP3PPP/RN2K1NR w KQk - 0 1",
	"1rr3k1/4ppb1/2q1bnp1/1p2B1Q1/6P1/2p2P2/2P1B2R/2K4R w - - 0 1",
	"1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1",
	"1k1r3q/1ppn3p/p4b2/4p3/8/P2N2P1/1PP1R1BP/2K1Q3 w - - 0 1",
	"8/8/3p4/4r3/2RKP3/5k2/8/8 b - - 0 1",
	"r2qk2r/pppb1ppp/2np4/1Bb5/4n3/5N2/PPP2PPP/RNBQR1K1 b kq - 1 1",
	"8/K5p1/1P1k1p1p/5P1P/2R3P1/8/8/8 b - - 0 78",
	"8/1P6/5ppp/3k1P1P/6P1/8/1K6/8 w - - 0 78",
	"r3kb2/ppp2pp1/6n1/7Q/8/2P1BN1b/1q2PPB1/3R1K1R b q - 0 1",
	"r7/1p4p1/2p2kb1/3r4/3N3n/4P2P/1p2BP2/3RK1R1 w - - 0 1",
	"r1bk3r/ppp2p1p/4pp2/4n3/1b2P3/2N5/PPP2PPP/R3KBNR w KQ - 0 9",
	"6k1/Qp1r1pp1/p1rP3p/P3q3/2Bnb1P1/1P3PNP/4p1K1/R1R5 b - - 0 1",
	"3r2k1/2Q2pb1/2n1r3/1p1p4/pB1PP3/n1N2p2/B1q2P1R/6RK b - - 0 1",
	"r3r3/bpp1Nk1p/p1bq1Bp1/5p2/PPP3n1/R7/3QBPPP/5RK1 w - - 0 1",
	"7r/1p2k3/2bpp3/p3np2/P1PR4/2N2PP1/1P4K1/3B4 b - - 0 1",
	"4k3/p1P3p1/2q1np1p/3N4/8/1Q3PP1/6KP/8 w - - 0 1",
	"3q4/pp3pkp/5npN/2bpr1B1/4r3/2P2Q2/PP3PPP/R4RK1 w - - 0 1",
	"4k3/ppp2ppp/3p4/8/8/3B3Q/P3N3/4R2K w - - 0 1",
	"8/8/8/3k4/8/4P3/2P5/4K3 w - - 0 1",
	"4k3/ppp3pp/8/8/4B3/8/P3R3/1N2K3 w - - 0 1",
}

// Mirroring the board and swapping colors must preserve the score: the
// evaluation is written from the side to move perspective.
func TestEvalSymmetry(t *testing.T) {
	var e = NewEvaluationService()
	for _, fen := range testFENs {
		var p1, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var score1 = e.Evaluate(&p1)
		var p2 = MirrorPosition(&p1)
		var score2 = e.Evaluate(&p2)
		if score1 != score2 {
			t.Error(fen, p2.String(), score1, score2)
		}
	}
}

func TestEvalStartPosition(t *testing.T) {
	var e = NewEvaluationService()
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	var v = e.Evaluate(&p)
	// the start position is balanced: tempo plus noise
	if v < -50 || v > 150 {
		t.Error("start position eval out of range:", v)
	}
}

func TestEvalKnownWin(t *testing.T) {
	var e = NewEvaluationService()
	var p, err = NewPositionFromFEN("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if v := e.Evaluate(&p); v < valueKnownWin {
		t.Error("KQK not recognized as won:", v)
	}
	// stay out of the proven mate range
	if v := e.Evaluate(&p); v >= 31000 {
		t.Error("KQK eval too high:", v)
	}
}

func TestTrace(t *testing.T) {
	var e = NewEvaluationService()
	var p, err = NewPositionFromFEN("3rr1k1/2q2pb1/p1p3p1/2N1p2p/2P3bN/1P2B1Q1/P2R1P2/4R1K1 w - - 2 19")
	if err != nil {
		t.Fatal(err)
	}
	var out = e.Trace(&p)
	for _, term := range []string{"Material", "Mobility", "King safety", "Total evaluation"} {
		if !strings.Contains(out, term) {
			t.Error("trace misses term", term)
		}
	}
}

func TestPawnCacheStability(t *testing.T) {
	var e = NewEvaluationService()
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var first = e.Evaluate(&p)
		var second = e.Evaluate(&p)
		if first != second {
			t.Error(fen, "eval not deterministic:", first, second)
		}
	}
}
