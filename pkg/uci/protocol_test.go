package uci

import (
	"testing"

	"github.com/avolkov/zenith/pkg/common"
)

func TestParseLimits(t *testing.T) {
	var limits = parseLimits([]string{
		"wtime", "60000", "btime", "55000", "winc", "1000", "binc", "900",
		"movestogo", "33", "depth", "12", "nodes", "777", "mate", "3",
		"movetime", "5000", "perft", "4", "ponder", "infinite",
	})
	var want = common.LimitsType{
		Ponder:         true,
		Infinite:       true,
		WhiteTime:      60000,
		BlackTime:      55000,
		WhiteIncrement: 1000,
		BlackIncrement: 900,
		MovesToGo:      33,
		Depth:          12,
		Nodes:          777,
		Mate:           3,
		MoveTime:       5000,
		Perft:          4,
	}
	if limits != want {
		t.Errorf("got %+v", limits)
	}
}

func TestPositionCommand(t *testing.T) {
	var uci = New("test", "test", "dev", nil, nil)
	var err = uci.positionCommand([]string{"startpos", "moves", "e2e4", "e7e5", "g1f3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(uci.positions) != 4 {
		t.Fatal("positions:", len(uci.positions))
	}
	var last = uci.positions[len(uci.positions)-1]
	if last.WhiteMove {
		t.Error("expected black to move")
	}

	err = uci.positionCommand([]string{"fen",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R", "w", "KQkq", "-", "0", "1"})
	if err != nil {
		t.Fatal(err)
	}
	err = uci.positionCommand([]string{"startpos", "moves", "e2e5"})
	if err == nil {
		t.Error("illegal move accepted")
	}
}

func TestOptions(t *testing.T) {
	var hash = 16
	var opt = &IntOption{Name: "Hash", Min: 4, Max: 1024, Value: &hash}
	if err := opt.Set("128"); err != nil {
		t.Fatal(err)
	}
	if hash != 128 {
		t.Error("hash:", hash)
	}
	if err := opt.Set("4096"); err == nil {
		t.Error("out of range accepted")
	}

	var experiment = false
	var bopt = &BoolOption{Name: "ExperimentSettings", Value: &experiment}
	if err := bopt.Set("true"); err != nil {
		t.Fatal(err)
	}
	if !experiment {
		t.Error("bool option not applied")
	}
}

func TestSearchInfoToUci(t *testing.T) {
	var si = common.SearchInfo{
		Depth:    10,
		SelDepth: 14,
		MultiPV:  1,
		Score:    common.UciScore{Centipawns: 23},
		Nodes:    100000,
		MainLine: nil,
	}
	var line = searchInfoToUci(si)
	if line != "info depth 10 seldepth 14 multipv 1 score cp 23 nodes 100000 nps 100000000 time 0" {
		t.Error(line)
	}
}
