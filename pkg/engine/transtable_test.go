package engine

import (
	"testing"

	. "github.com/avolkov/zenith/pkg/common"
)

func TestTransTableRoundTrip(t *testing.T) {
	var tt = newTransTable(1)
	tt.NewSearch()

	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	var move = p.GenerateLegalMoves()[0]

	tt.Save(p.Key, 33, boundExact, 7, move, 15)

	var found, depth, value, eval, bound, move16 = tt.Probe(p.Key)
	if !found {
		t.Fatal("entry lost")
	}
	if depth != 7 || value != 33 || eval != 15 || bound != boundExact {
		t.Error("entry fields:", depth, value, eval, bound)
	}
	var rebuilt = p.MoveFromTo(int(move16&63), int(move16>>6&63), int(move16>>12&7))
	if rebuilt != move {
		t.Error("move lost in compaction:", move, rebuilt)
	}
}

func TestTransTableMateScores(t *testing.T) {
	var tt = newTransTable(1)
	tt.NewSearch()

	const height = 9
	var v = winIn(height + 4) // mate found below this node
	var key = uint64(0xDEADBEEFCAFEBABE)
	tt.Save(key, valueToTT(v, height), boundExact, 12, MoveEmpty, valueNone)

	var found, _, stored, _, _, _ = tt.Probe(key)
	if !found {
		t.Fatal("entry lost")
	}
	if got := valueFromTT(stored, height); got != v {
		t.Error("mate score distorted:", v, got)
	}
}

func TestTransTableReplacement(t *testing.T) {
	var tt = newTransTable(1)
	tt.NewSearch()

	// same cluster, deeper entry must survive a shallow overwrite attempt
	var key = uint64(0x1234567812345678)
	tt.Save(key, 100, boundLower, 20, MoveEmpty, 0)
	tt.Save(key, 5, boundUpper, 2, MoveEmpty, 0)

	var found, depth, value, _, _, _ = tt.Probe(key)
	if !found {
		t.Fatal("entry lost")
	}
	if depth != 20 || value != 100 {
		t.Error("deep entry overwritten by shallow one:", depth, value)
	}

	// an exact bound may replace it
	tt.Save(key, 7, boundExact, 3, MoveEmpty, 0)
	_, depth, value, _, _, _ = tt.Probe(key)
	if depth != 3 || value != 7 {
		t.Error("exact bound did not replace:", depth, value)
	}
}

func TestTransTableGenerations(t *testing.T) {
	var tt = newTransTable(1)
	tt.NewSearch()
	tt.Save(1, 10, boundExact, 10, MoveEmpty, 0)
	if tt.Hashfull() == 0 {
		t.Skip("sampled region missed the entry")
	}
	tt.NewSearch()
	if tt.Hashfull() != 0 {
		t.Error("stale generation counted as full")
	}
}
