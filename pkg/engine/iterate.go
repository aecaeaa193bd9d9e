package engine

import (
	"slices"
	"time"

	. "github.com/avolkov/zenith/pkg/common"
)

// iterativeDeepening is the per-thread search loop: staggered depth skips for
// the helpers, aspiration windows around the previous score, one full root
// search per MultiPV line.
func (t *thread) iterativeDeepening() {
	var e = t.engine
	var mainThread = t.idx == 0

	t.multiPV = Min(Max(e.Options.MultiPV, 1), len(t.rootMoves))
	var lastBestMove = t.rootMoves[0].Move
	var lastBestMoveDepth = 0
	var bestValue = -valueInfinity

	for t.rootDepth = 1; t.rootDepth < stackSize; t.rootDepth++ {
		if e.stop.Load() {
			break
		}
		if e.limits.Depth != 0 && mainThread && t.rootDepth > e.limits.Depth {
			break
		}

		// Helpers skip a staggered subset of depths, Lazy-SMP style.
		if !mainThread {
			var i = (t.idx - 1) % len(skipSize)
			if ((t.rootDepth+e.gamePly+skipPhase[i])/skipSize[i])%2 != 0 {
				continue
			}
		}

		if mainThread {
			t.failedLow = false
		}

		for i := range t.rootMoves {
			t.rootMoves[i].PreviousScore = t.rootMoves[i].Score
		}

		for t.pvIdx = 0; t.pvIdx < t.multiPV && !e.stop.Load(); t.pvIdx++ {
			t.selDepth = 0

			var alpha, beta = -valueInfinity, valueInfinity
			var delta = 0
			if t.rootDepth >= 5 {
				delta = 18
				alpha = Max(t.rootMoves[t.pvIdx].PreviousScore-delta, -valueInfinity)
				beta = Min(t.rootMoves[t.pvIdx].PreviousScore+delta, valueInfinity)
			}

			// Widen the window on fail high/low until the score is inside.
			for {
				bestValue = t.alphaBeta(alpha, beta, t.rootDepth, 0, false, false)

				// Stable sort keeps the order of equal entries: all scores
				// but the searched ones are -infinite and must not move.
				sortRootMoves(t.rootMoves[t.pvIdx:])

				if e.stop.Load() {
					break
				}

				if mainThread && t.multiPV == 1 &&
					(bestValue <= alpha || bestValue >= beta) &&
					time.Since(e.start) > 3*time.Second {
					e.reportProgress(t, t.rootDepth, bestValue, alpha, beta)
				}

				if bestValue <= alpha {
					beta = (alpha + beta) / 2
					alpha = Max(bestValue-delta, -valueInfinity)
					if mainThread {
						t.failedLow = true
						e.stopOnPonderhit.Store(false)
					}
				} else if bestValue >= beta {
					beta = Min(bestValue+delta, valueInfinity)
				} else {
					break
				}

				delta += delta/4 + 5
			}

			sortRootMoves(t.rootMoves[:t.pvIdx+1])

			if mainThread &&
				(e.stop.Load() || t.pvIdx+1 == t.multiPV || time.Since(e.start) > 3*time.Second) {
				e.reportProgress(t, t.rootDepth, bestValue, -valueInfinity, valueInfinity)
			}
		}

		if !e.stop.Load() {
			t.completedDepth = t.rootDepth
		}

		if t.rootMoves[0].Move != lastBestMove {
			lastBestMove = t.rootMoves[0].Move
			lastBestMoveDepth = t.rootDepth
		}

		if e.limits.Mate > 0 &&
			bestValue >= valueWin &&
			valueMate-bestValue <= 2*e.limits.Mate {
			e.stop.Store(true)
		}

		if !mainThread {
			continue
		}

		if e.timeManager.useTimeManagement() && !e.stop.Load() && !e.stopOnPonderhit.Load() {
			if len(t.rootMoves) == 1 ||
				e.timeManager.softExceeded(t.failedLow, t.completedDepth, lastBestMoveDepth) {
				// Keep pondering until the GUI resolves it.
				if e.ponder.Load() {
					e.stopOnPonderhit.Store(true)
				} else {
					e.stop.Store(true)
				}
			}
		}
	}
}

func sortRootMoves(rm []RootMove) {
	slices.SortStableFunc(rm, func(a, b RootMove) int {
		return b.Score - a.Score
	})
}

// reportProgress emits one info line per MultiPV entry through the progress
// callback.
func (e *Engine) reportProgress(t *thread, depth, value, alpha, beta int) {
	if e.progress == nil {
		return
	}
	var nodes = e.nodesSearched()
	if nodes < int64(e.Options.ProgressMinNodes) {
		return
	}
	for i := 0; i < t.multiPV; i++ {
		var updated = i <= t.pvIdx && t.rootMoves[i].Score != -valueInfinity
		if depth == 1 && !updated {
			continue
		}
		var d = depth
		var v = t.rootMoves[i].Score
		if !updated {
			d = depth - 1
			v = t.rootMoves[i].PreviousScore
		}
		var bound = ""
		if i == t.pvIdx {
			if v >= beta {
				bound = "lowerbound"
			} else if v <= alpha {
				bound = "upperbound"
			}
		}
		e.progress(SearchInfo{
			Depth:    d,
			SelDepth: t.rootMoves[i].SelDepth,
			MultiPV:  i + 1,
			Score:    newUciScore(v),
			Bound:    bound,
			Nodes:    nodes,
			Hashfull: e.transTable.Hashfull(),
			Time:     time.Since(e.start),
			MainLine: t.rootMoves[i].PV,
		})
	}
}
