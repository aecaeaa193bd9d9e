// Bench runs a small tactic suite at fixed depth and records the outcome, so
// search changes can be compared across builds.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avolkov/zenith/internal/evalbuilder"
	"github.com/avolkov/zenith/internal/storage"
	"github.com/avolkov/zenith/pkg/common"
	"github.com/avolkov/zenith/pkg/engine"
)

// positions from the win-at-chess suite, "fen bm move"
var suite = []string{
	"2rr3k/pp3pp1/1nnqbN1p/3pN3/2pP4/2P3Q1/PPB4P/R4RK1 w - - bm g3g6",
	"1k1r4/pp1b1R2/3q2pp/4p3/2B5/4Q3/PPP2B2/2K5 b - - bm d6d1",
	"3r1k2/4npp1/1ppr3p/p6P/P2PPPP1/1NR5/5K2/2R5 w - - bm f4f5",
	"rnbqkb1r/p3pppp/1p6/2ppP3/3N4/2P5/PPP1QPPP/R1B1KB1R w KQkq - bm e5e6",
	"r1b2rk1/2q1b1pp/p2ppn2/1p6/3QP3/1BN1B3/PPP3PP/R4RK1 w - - bm c3d5",
	"2r3k1/pppR1pp1/4p3/4P1P1/5P2/1P4K1/P1P5/8 w - - bm d7d8",
	"1nk1r1r1/pp2n1pp/4p3/q2pPp1N/b1pP1P2/B1P2R2/2P1B1PP/R2Q2K1 w - - bm h5f6",
	"4b3/p3kp2/6p1/3pP2p/2pP1P2/4K1P1/P3N2P/8 w - - bm f4f5",
	"2kr1bnr/pbpq4/2n1pp2/3p3p/3P1P1B/2N2N1Q/PPP3PP/2KR1B1R w - - bm f4f5",
	"3rr1k1/pp3pp1/1qn2np1/8/3p4/PP1R1P2/2P1NQPP/R1B3K1 b - - bm c6e5",
	"2r1nrk1/p2q1ppp/bp1p4/n1pPp3/P1P1P3/2PBB1N1/4QPPP/R4RK1 w - - bm f2f4",
	"r3r1k1/ppqb1ppp/8/4p1NQ/8/2P5/PP3PPP/R3R1K1 b - - bm d7f5",
}

func main() {
	var depth = flag.Int("depth", 10, "search depth per position")
	var hash = flag.Int("hash", 64, "hash size per worker, MB")
	var workers = flag.Int("workers", runtime.NumCPU(), "parallel workers")
	var history = flag.Bool("history", false, "print the stored run history and exit")
	var dbDir = flag.String("db", defaultDbDir(), "bench result database directory")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags)

	var store, err = storage.Open(*dbDir)
	if err != nil {
		logger.Fatal(err)
	}
	defer store.Close()

	if *history {
		printHistory(store)
		return
	}

	var start = time.Now()
	var solved, nodes atomic.Int64

	var g, ctx = errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	for _, line := range suite {
		var line = line
		g.Go(func() error {
			var fen, bestMove, ok = parseSuiteLine(line)
			if !ok {
				return fmt.Errorf("bad suite line: %v", line)
			}
			var p, err = common.NewPositionFromFEN(fen)
			if err != nil {
				return err
			}

			var eng = engine.NewEngine(evalbuilder.Get(""))
			eng.Options.Hash = *hash
			var si = eng.Search(ctx, common.SearchParams{
				Positions: []common.Position{p},
				Limits:    common.LimitsType{Depth: *depth},
			})
			nodes.Add(si.Nodes)

			var got = "(none)"
			if len(si.MainLine) > 0 {
				got = si.MainLine[0].String()
			}
			var status = "FAIL"
			if got == bestMove {
				solved.Add(1)
				status = "ok"
			}
			logger.Printf("%-4s %-72s got %v", status, fen, got)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal(err)
	}

	var result = storage.BenchResult{
		Suite:     "wac-mini",
		Version:   "dev",
		Depth:     *depth,
		Positions: len(suite),
		Solved:    int(solved.Load()),
		Nodes:     nodes.Load(),
		Elapsed:   time.Since(start),
		Date:      time.Now(),
	}
	if err := store.SaveBenchResult(result); err != nil {
		logger.Fatal(err)
	}

	fmt.Printf("solved %v/%v nodes %v time %v\n",
		result.Solved, result.Positions, result.Nodes, result.Elapsed.Round(time.Millisecond))
}

func parseSuiteLine(line string) (fen, bestMove string, ok bool) {
	var i = strings.Index(line, " bm ")
	if i < 0 {
		return "", "", false
	}
	return line[:i], strings.TrimSpace(line[i+4:]), true
}

func printHistory(store *storage.Storage) {
	var results, err = store.BenchHistory("wac-mini")
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range results {
		fmt.Printf("%v depth %v solved %v/%v nodes %v time %v\n",
			r.Date.Format("2006-01-02 15:04"), r.Depth, r.Solved, r.Positions,
			r.Nodes, r.Elapsed.Round(time.Millisecond))
	}
}

func defaultDbDir() string {
	var cache, err = os.UserCacheDir()
	if err != nil {
		return ".zenith-bench"
	}
	return filepath.Join(cache, "zenith", "bench")
}
