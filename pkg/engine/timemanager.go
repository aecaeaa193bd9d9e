package engine

import (
	"time"

	. "github.com/avolkov/zenith/pkg/common"
)

// timeManager turns the go command limits into an optimum (soft) and maximum
// (hard) budget. The hard bound is enforced by checkTime, the soft bound is
// consulted between iterations.
type timeManager struct {
	start   time.Time
	limits  LimitsType
	optimum time.Duration
	maximum time.Duration
}

func newTimeManager(start time.Time, limits LimitsType, p *Position) *timeManager {
	var tm = &timeManager{
		start:  start,
		limits: limits,
	}

	if limits.MoveTime > 0 {
		tm.maximum = time.Duration(limits.MoveTime) * time.Millisecond
		tm.optimum = tm.maximum
	} else if limits.WhiteTime > 0 || limits.BlackTime > 0 {
		var main, inc time.Duration
		if p.WhiteMove {
			main = time.Duration(limits.WhiteTime) * time.Millisecond
			inc = time.Duration(limits.WhiteIncrement) * time.Millisecond
		} else {
			main = time.Duration(limits.BlackTime) * time.Millisecond
			inc = time.Duration(limits.BlackIncrement) * time.Millisecond
		}
		tm.optimum, tm.maximum = calcLimits(main, inc, limits.MovesToGo)
	}

	return tm
}

func (tm *timeManager) useTimeManagement() bool {
	return tm.maximum > 0 && tm.limits.MoveTime == 0 && !tm.limits.Infinite
}

func (tm *timeManager) hardExceeded() bool {
	if tm.maximum == 0 {
		return false
	}
	var margin time.Duration
	if tm.limits.MoveTime == 0 {
		margin = 10 * time.Millisecond
	}
	return time.Since(tm.start) >= tm.maximum-margin
}

// softExceeded scales the optimum budget: a fail low asks for more time, a
// best move stable over many iterations asks for less.
func (tm *timeManager) softExceeded(failedLow bool, completedDepth, lastBestMoveDepth int) bool {
	if tm.optimum == 0 {
		return false
	}
	var budget = tm.optimum
	if failedLow {
		budget += budget / 3
	}
	for _, i := range [...]int{3, 4, 5} {
		if lastBestMoveDepth*i < completedDepth {
			budget = budget * 10 / 13
		}
	}
	return time.Since(tm.start) >= budget
}

func calcLimits(main, inc time.Duration, moves int) (soft, hard time.Duration) {
	const (
		defaultMovesToGo = 40
		moveOverhead     = 30 * time.Millisecond
		minTimeLimit     = 1 * time.Millisecond
	)

	main -= moveOverhead
	if main < minTimeLimit {
		main = minTimeLimit
	}

	if moves == 0 {
		var ideal = main/35 + inc/2
		soft = ideal * 7 / 10
		hard = ideal * 21 / 10
	} else {
		moves = Min(moves, defaultMovesToGo)
		soft = (main/time.Duration(moves+1) + inc) * 7 / 10
		hard = (main/time.Duration(moves+1) + inc) * 21 / 10
	}

	hard = limitDuration(hard, minTimeLimit, main)
	soft = limitDuration(soft, minTimeLimit, main)

	return
}

func limitDuration(v, min, max time.Duration) time.Duration {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
