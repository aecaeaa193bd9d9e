package engine

import (
	"time"

	"golang.org/x/sync/errgroup"

	. "github.com/avolkov/zenith/pkg/common"
)

// searchRoot coordinates the Lazy-SMP worker pool: all threads search the
// same root over the shared transposition table, divergence comes from the
// skip schedule and table races.
func (e *Engine) searchRoot() SearchInfo {
	var mainThread = e.threads[0]
	mainThread.rootMoves = mainThread.genRootMoves()

	if len(mainThread.rootMoves) == 0 {
		var score = valueDraw
		if mainThread.at(0).position.IsCheck() {
			score = -valueMate
		}
		return SearchInfo{
			Depth: 0,
			Score: newUciScore(score),
			Nodes: 0,
			Time:  time.Since(e.start),
		}
	}

	for _, t := range e.threads[1:] {
		t.at(0).position = mainThread.at(0).position
		t.rootMoves = cloneRootMoves(mainThread.rootMoves)
	}

	var g errgroup.Group
	for _, t := range e.threads[1:] {
		var t = t
		g.Go(func() error {
			t.iterativeDeepening()
			return nil
		})
	}

	mainThread.iterativeDeepening()

	// The protocol forbids printing a best move while pondering or in an
	// infinite search until the GUI releases us.
	e.stopOnPonderhit.Store(true)
	for !e.stop.Load() && (e.ponder.Load() || e.limits.Infinite) {
		time.Sleep(time.Millisecond)
	}
	e.stop.Store(true)
	g.Wait()

	var best = mainThread
	if e.Options.MultiPV == 1 {
		for _, t := range e.threads[1:] {
			if t.completedDepth == 0 || len(t.rootMoves) == 0 {
				continue
			}
			var depthDiff = t.completedDepth - best.completedDepth
			var scoreDiff = t.rootMoves[0].Score - best.rootMoves[0].Score
			// Prefer another thread only on a strictly better score, and
			// only when it searched at least as deep or proved a mate.
			if scoreDiff > 0 && (depthDiff >= 0 || t.rootMoves[0].Score >= valueWin) {
				best = t
			}
		}
	}

	return e.searchResult(best)
}

func cloneRootMoves(rm []RootMove) []RootMove {
	var result = make([]RootMove, len(rm))
	copy(result, rm)
	for i := range result {
		result[i].PV = []Move{result[i].Move}
	}
	return result
}

func (e *Engine) searchResult(t *thread) SearchInfo {
	var rm = &t.rootMoves[0]
	var mainLine = rm.PV
	if len(mainLine) == 1 {
		if ponder, ok := e.extractPonderFromTT(&t.at(0).position, rm.Move); ok {
			mainLine = append(mainLine, ponder)
		}
	}
	return SearchInfo{
		Depth:    Max(t.completedDepth, 1),
		SelDepth: rm.SelDepth,
		MultiPV:  1,
		Score:    newUciScore(rm.Score),
		Nodes:    e.nodesSearched(),
		Hashfull: e.transTable.Hashfull(),
		Time:     time.Since(e.start),
		MainLine: mainLine,
	}
}

// extractPonderFromTT recovers a ponder move when the PV got cut short, for
// instance after a stop during a root fail high.
func (e *Engine) extractPonderFromTT(p *Position, bestMove Move) (Move, bool) {
	var child Position
	if !bestMove.IsOk() || !p.MakeMove(bestMove, &child) {
		return MoveEmpty, false
	}
	var found, _, _, _, _, move16 = e.transTable.Probe(child.Key)
	if !found || move16 == 0 {
		return MoveEmpty, false
	}
	var move = child.MoveFromTo(int(move16&63), int(move16>>6&63), int(move16>>12&7))
	for _, legal := range child.GenerateLegalMoves() {
		if legal == move {
			return move, true
		}
	}
	return MoveEmpty, false
}
