package engine

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	. "github.com/avolkov/zenith/pkg/common"
)

// Evaluator scores a position from the side to move perspective.
type Evaluator interface {
	Evaluate(p *Position) int
}

type Engine struct {
	Options     Options
	evalBuilder func() Evaluator

	transTable  *transTable
	timeManager *timeManager
	historyKeys map[uint64]int
	threads     []*thread
	progress    func(SearchInfo)
	start       time.Time
	gamePly     int
	limits      LimitsType

	stop            atomic.Bool
	ponder          atomic.Bool
	stopOnPonderhit atomic.Bool
}

type RootMove struct {
	Move          Move
	Score         int
	PreviousScore int
	SelDepth      int
	PV            []Move
}

type stackFrame struct {
	position         Position
	pv               pv
	quietsSearched   [64]Move
	capturesSearched [32]Move
	currentMove      Move
	excludedMove     Move
	killer1          Move
	killer2          Move
	staticEval       int
	statScore        int
	moveCount        int
	contIndex        int
}

type thread struct {
	engine         *Engine
	idx            int
	nodes          atomic.Int64
	callsCnt       int
	selDepth       int
	rootDepth      int
	completedDepth int
	pvIdx          int
	multiPV        int
	nmpPly         int
	nmpOdd         int
	failedLow      bool
	rootMoves      []RootMove
	evaluator      Evaluator

	mainHistory    butterflyHistory
	captureHistory captureHistory
	contHistory    *continuationHistory
	counterMoves   counterMoveTable

	// 4 zeroed guard frames before ply 0 and 2 after maxHeight; the search
	// reaches heights -4..-1 and +1..+2 relative to the current ply.
	stack [stackGuard + stackSize + 2]stackFrame
}

func (t *thread) at(height int) *stackFrame {
	return &t.stack[stackGuard+height]
}

type pv struct {
	items [stackSize]Move
	size  int
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}

func NewEngine(evalBuilder func() Evaluator) *Engine {
	return &Engine{
		Options:     NewOptions(),
		evalBuilder: evalBuilder,
	}
}

// Prepare materializes the transposition table and worker threads according
// to the current options.
func (e *Engine) Prepare() {
	if e.transTable == nil || e.transTable.Megabytes() != e.Options.Hash {
		if e.transTable != nil {
			e.transTable = nil
			runtime.GC()
		}
		e.transTable = newTransTable(e.Options.Hash)
	}
	if len(e.threads) != e.Options.Threads {
		e.threads = make([]*thread, e.Options.Threads)
		for i := range e.threads {
			var t = &thread{
				engine:      e,
				idx:         i,
				contHistory: &continuationHistory{},
				evaluator:   e.evalBuilder(),
			}
			e.threads[i] = t
		}
	}
}

// Clear resets the transposition table and the per-thread heuristics; bound
// to ucinewgame.
func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	for _, t := range e.threads {
		t.clearHistory()
	}
}

// Stop requests all threads to abandon the current search.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// PonderHit switches a ponder search into a normal one.
func (e *Engine) PonderHit() {
	e.ponder.Store(false)
	if e.stopOnPonderhit.Load() {
		e.stop.Store(true)
	}
}

func (e *Engine) nodesSearched() int64 {
	var result int64
	for _, t := range e.threads {
		result += t.nodes.Load()
	}
	return result
}

func getHistoryKeys(positions []Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := len(positions) - 1; i >= 0; i-- {
		var p = &positions[i]
		result[p.Key]++
		if p.Rule50 == 0 {
			break
		}
	}
	return result
}

func (t *thread) incNodes() {
	t.nodes.Add(1)
	if t.idx == 0 {
		t.callsCnt--
		if t.callsCnt <= 0 {
			t.callsCnt = 4096
			t.engine.checkTime()
		}
	}
}

// checkTime runs on the main thread roughly every 4096 nodes.
func (e *Engine) checkTime() {
	if e.ponder.Load() {
		return
	}
	if e.timeManager.hardExceeded() ||
		(e.limits.Nodes > 0 && e.nodesSearched() >= int64(e.limits.Nodes)) {
		e.stop.Store(true)
	}
}

// makeMove writes the child of frame height into frame height+1 and records
// the move for the continuation histories. Returns false for illegal moves.
func (t *thread) makeMove(move Move, height int) bool {
	var ss = t.at(height)
	var child = t.at(height + 1)
	if move == MoveNull {
		ss.position.MakeNullMove(&child.position)
		ss.currentMove = MoveNull
		ss.contIndex = 0
	} else {
		if !ss.position.MakeMove(move, &child.position) {
			return false
		}
		ss.currentMove = move
		ss.contIndex = pieceSquareIndex(ss.position.SideToMove(), move)
	}
	t.incNodes()
	return true
}

func (t *thread) legal(height int, move Move) bool {
	var child Position
	return t.at(height).position.MakeMove(move, &child)
}

func (t *thread) clearPV(height int) {
	t.at(height).pv.clear()
}

func (t *thread) assignPV(height int, move Move) {
	t.at(height).pv.assign(move, &t.at(height+1).pv)
}

// isDraw covers the 50-move rule, insufficient material and repetitions
// inside the search path or against the game history.
func (t *thread) isDraw(height int) bool {
	var p = &t.at(height).position

	if p.Rule50 > 100 {
		return true
	}

	if (p.Pawns|p.Rooks|p.Queens) == 0 &&
		!MoreThanOne(p.Knights|p.Bishops) {
		return true
	}

	if p.Rule50 == 0 || p.LastMove == MoveEmpty {
		return false
	}
	for i := height - 1; i >= 0; i-- {
		var temp = &t.at(i).position
		if temp.Key == p.Key {
			return true
		}
		if temp.Rule50 == 0 || temp.LastMove == MoveEmpty {
			break
		}
	}
	return t.engine.historyKeys[p.Key] >= 2
}

// genRootMoves builds the root move list, tt move first.
func (t *thread) genRootMoves() []RootMove {
	const height = 0
	var p = &t.at(height).position
	var ttMove = MoveEmpty
	if found, _, _, _, _, move16 := t.engine.transTable.Probe(p.Key); found && move16 != 0 {
		ttMove = p.MoveFromTo(int(move16&63), int(move16>>6&63), int(move16>>12&7))
	}

	var mp movePicker
	mp.Init(t, height, ttMove)

	var result []RootMove
	var child Position
	for {
		var move = mp.Next(false)
		if move == MoveEmpty {
			break
		}
		if p.MakeMove(move, &child) {
			result = append(result, RootMove{Move: move, Score: -valueInfinity, PreviousScore: -valueInfinity, PV: []Move{move}})
		}
	}
	return result
}

func (e *Engine) Search(ctx context.Context, searchParams SearchParams) SearchInfo {
	e.start = time.Now()
	e.Prepare()
	var p = &searchParams.Positions[len(searchParams.Positions)-1]
	e.limits = searchParams.Limits
	e.gamePly = len(searchParams.Positions) - 1
	e.timeManager = newTimeManager(e.start, searchParams.Limits, p)
	e.historyKeys = getHistoryKeys(searchParams.Positions)
	e.progress = searchParams.Progress
	e.transTable.NewSearch()

	e.stop.Store(false)
	e.ponder.Store(searchParams.Limits.Ponder)
	e.stopOnPonderhit.Store(false)

	var done = make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			e.stop.Store(true)
		case <-done:
		}
	}()

	for _, t := range e.threads {
		t.nodes.Store(0)
		t.callsCnt = 0
		t.rootDepth = 0
		t.completedDepth = 0
		t.selDepth = 0
		t.nmpPly = 0
		t.nmpOdd = 0
		t.stack = [stackGuard + stackSize + 2]stackFrame{}
		t.at(0).position = *p
		t.rootMoves = nil
	}

	return e.searchRoot()
}
