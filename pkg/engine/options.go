package engine

import (
	"math"

	"github.com/avolkov/zenith/pkg/common"
)

type Options struct {
	Hash               int
	Threads            int
	MultiPV            int
	ExperimentSettings bool
	ProgressMinNodes   int
}

func NewOptions() Options {
	return Options{
		Hash:             16,
		Threads:          1,
		MultiPV:          1,
		ProgressMinNodes: 200_000,
	}
}

// Lazy-SMP depth skip schedule: worker i skips iterations so the pool covers
// a staggered set of depths.
var skipSize = [20]int{1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4, 4, 4}
var skipPhase = [20]int{0, 1, 0, 1, 2, 3, 0, 1, 2, 3, 4, 5, 0, 1, 2, 3, 4, 5, 6, 7}

var reductions [2][2][64][64]int // [pv][improving][depth][moveCount]
var futilityMoveCounts [2][16]int

func reduction(pvNode, improving bool, depth, moveCount int) int {
	var pv, imp int
	if pvNode {
		pv = 1
	}
	if improving {
		imp = 1
	}
	return reductions[pv][imp][common.Min(depth, 63)][common.Min(moveCount, 63)]
}

func init() {
	for imp := 0; imp <= 1; imp++ {
		for d := 1; d < 64; d++ {
			for mc := 1; mc < 64; mc++ {
				var r = math.Log(float64(d)) * math.Log(float64(mc)) / 1.95

				reductions[0][imp][d][mc] = int(math.Round(r))
				reductions[1][imp][d][mc] = common.Max(reductions[0][imp][d][mc]-1, 0)

				if imp == 0 && reductions[0][imp][d][mc] >= 2 {
					reductions[0][imp][d][mc]++
				}
			}
		}
	}

	for d := 0; d < 16; d++ {
		futilityMoveCounts[0][d] = int(2.4 + 0.74*math.Pow(float64(d), 1.78))
		futilityMoveCounts[1][d] = int(5.0 + 1.00*math.Pow(float64(d), 2.00))
	}
}
