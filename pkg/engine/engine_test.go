package engine

import (
	"context"
	"testing"
	"time"

	. "github.com/avolkov/zenith/pkg/common"
	classical "github.com/avolkov/zenith/pkg/eval/classical"
)

func newTestEngine() *Engine {
	var e = NewEngine(func() Evaluator {
		return classical.NewEvaluationService()
	})
	e.Options.Hash = 16
	e.Options.Threads = 1
	e.Options.ProgressMinNodes = 0
	return e
}

func searchFEN(t *testing.T, e *Engine, fen string, limits LimitsType) SearchInfo {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return e.Search(context.Background(), SearchParams{
		Positions: []Position{p},
		Limits:    limits,
	})
}

func TestSearchDepth1(t *testing.T) {
	var e = newTestEngine()
	var si = searchFEN(t, e, InitialPositionFen, LimitsType{Depth: 1})
	if len(si.MainLine) == 0 {
		t.Fatal("no best move")
	}
	if si.Score.Mate != 0 || si.Score.Centipawns < -50 || si.Score.Centipawns > 50 {
		t.Error("start position score out of range:", si.Score)
	}
	if si.SelDepth < 1 {
		t.Error("seldepth:", si.SelDepth)
	}
}

func TestScholarsMate(t *testing.T) {
	var e = newTestEngine()
	var si = searchFEN(t, e,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 2 3",
		LimitsType{Depth: 6, Mate: 2})
	if si.Score.Mate != 1 {
		t.Error("expected mate 1, got", si.Score)
	}
	if len(si.MainLine) == 0 || si.MainLine[0].String() != "f3f7" {
		t.Error("expected f3f7, got", si.MainLine)
	}
}

func TestMateIn1(t *testing.T) {
	var e = newTestEngine()
	var si = searchFEN(t, e, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
		LimitsType{Depth: 4})
	if si.Score.Mate != 1 {
		t.Error("expected mate 1, got", si.Score)
	}
	if len(si.MainLine) == 0 || si.MainLine[0].String() != "a1a8" {
		t.Error("expected a1a8, got", si.MainLine)
	}
}

func TestKPKDrawish(t *testing.T) {
	var e = newTestEngine()
	var si = searchFEN(t, e, "8/8/8/8/8/6k1/6p1/6K1 w - - 0 1", LimitsType{Depth: 16})
	if si.Score.Mate != 0 {
		t.Fatal("draw position scored as mate:", si.Score)
	}
	if si.Score.Centipawns < -50 || si.Score.Centipawns > 50 {
		t.Error("KPK fortress score out of range:", si.Score)
	}
}

func TestBestMoveLegal(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"2rqkb1r/p1pnpppp/3p3n/3B4/2BPP3/1QP5/PP3PPP/RN2K1NR w KQk - 0 1",
	}
	for _, fen := range fens {
		var e = newTestEngine()
		var si = searchFEN(t, e, fen, LimitsType{Depth: 6})
		if len(si.MainLine) == 0 {
			t.Fatal(fen, "no best move")
		}
		var p, _ = NewPositionFromFEN(fen)
		var legal = false
		for _, m := range p.GenerateLegalMoves() {
			if m == si.MainLine[0] {
				legal = true
			}
		}
		if !legal {
			t.Error(fen, "illegal best move", si.MainLine[0])
		}
	}
}

// Playing out the reported main line must stay inside the legal move tree.
func TestPVIntegrity(t *testing.T) {
	var e = newTestEngine()
	var si = searchFEN(t, e,
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		LimitsType{Depth: 8})
	var p, _ = NewPositionFromFEN("r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10")
	for i, move := range si.MainLine {
		var found = false
		for _, m := range p.GenerateLegalMoves() {
			if m == move {
				found = true
			}
		}
		if !found {
			t.Fatalf("pv move %d (%v) is illegal", i, move)
		}
		var child Position
		if !p.MakeMove(move, &child) {
			t.Fatalf("pv move %d (%v) rejected", i, move)
		}
		p = child
	}
}

func TestDeterminismSingleThread(t *testing.T) {
	var fen = "1k1r4/pp1b1R2/3q2pp/4p3/2B5/4Q3/PPP2B2/2K5 b - - 0 1"
	var first = searchFEN(t, newTestEngine(), fen, LimitsType{Depth: 9})
	var second = searchFEN(t, newTestEngine(), fen, LimitsType{Depth: 9})
	if first.MainLine[0] != second.MainLine[0] {
		t.Error("single threaded search not deterministic:",
			first.MainLine[0], second.MainLine[0])
	}
	if first.Nodes != second.Nodes {
		t.Error("node counts differ:", first.Nodes, second.Nodes)
	}
}

func TestStopResponsiveness(t *testing.T) {
	var e = newTestEngine()
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	var done = make(chan SearchInfo, 1)
	go func() {
		done <- e.Search(context.Background(), SearchParams{
			Positions: []Position{p},
			Limits:    LimitsType{Infinite: true},
		})
	}()
	time.Sleep(200 * time.Millisecond)
	e.Stop()
	select {
	case si := <-done:
		if len(si.MainLine) == 0 {
			t.Error("stopped search returned no best move")
		}
	case <-time.After(time.Second):
		t.Fatal("search did not stop")
	}
}

func TestSearchMultiThreaded(t *testing.T) {
	var e = newTestEngine()
	e.Options.Threads = 2
	var si = searchFEN(t, e,
		"2rr3k/pp3pp1/1nnqbN1p/3pN3/2pP4/2P3Q1/PPB4P/R4RK1 w - - 0 1",
		LimitsType{Depth: 8})
	if len(si.MainLine) == 0 {
		t.Fatal("no best move")
	}
}

func TestMultiPV(t *testing.T) {
	var e = newTestEngine()
	e.Options.MultiPV = 3
	var lines = make(map[int]SearchInfo)
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	e.Search(context.Background(), SearchParams{
		Positions: []Position{p},
		Limits:    LimitsType{Depth: 6},
		Progress: func(si SearchInfo) {
			lines[si.MultiPV] = si
		},
	})
	if len(lines) < 3 {
		t.Error("expected three pv lines, got", len(lines))
	}
}

func TestStalemateRoot(t *testing.T) {
	// black to move, stalemate
	var e = newTestEngine()
	var si = searchFEN(t, e, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", LimitsType{Depth: 4})
	if len(si.MainLine) != 0 {
		t.Error("stalemate produced a move:", si.MainLine)
	}
	if si.Score.Centipawns != 0 || si.Score.Mate != 0 {
		t.Error("stalemate score:", si.Score)
	}
}

func TestValueTTRoundTrip(t *testing.T) {
	for _, v := range []int{0, 10, -10, valueKnownWin, winIn(5), lossIn(3), valueMate - 1, -valueMate + 1} {
		for _, height := range []int{0, 1, 17, maxHeight} {
			if got := valueFromTT(valueToTT(v, height), height); got != v {
				t.Error(v, height, got)
			}
		}
	}
	if valueFromTT(valueNone, 10) != valueNone {
		t.Error("valueNone must pass through")
	}
}
