package common

import "testing"

//https://www.chessprogramming.org/Perft_Results
func TestPerft(t *testing.T) {
	if testing.Short() {
		t.Skip("perft suite is slow")
	}
	var tests = []struct {
		fen   string
		depth int
		nodes int
	}{
		{
			fen:   InitialPositionFen,
			depth: 6,
			nodes: 119060324,
		},
		{
			fen:   "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
			depth: 5,
			nodes: 193690690,
		},
		{
			fen:   "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
			depth: 6,
			nodes: 11030083,
		},
		{
			fen:   "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
			depth: 5,
			nodes: 15833292,
		},
		{
			fen:   "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
			depth: 5,
			nodes: 89941194,
		},
		{
			fen:   "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
			depth: 5,
			nodes: 164075551,
		},
	}
	for i, test := range tests {
		var p, err = NewPositionFromFEN(test.fen)
		if err != nil {
			t.Fatal(i, err)
		}
		var nodes = Perft(&p, test.depth)
		if nodes != test.nodes {
			t.Error(i, test, nodes)
		}
	}
}

func TestPerftDivide(t *testing.T) {
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	var items = PerftDivide(&p, 5)
	if len(items) != 20 {
		t.Error("root move count", len(items))
	}
	var total = 0
	for _, item := range items {
		total += item.Nodes
	}
	if total != 4865609 {
		t.Error("perft 5", total)
	}
}

func BenchmarkPerft(b *testing.B) {
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Perft(&p, 5)
	}
}
