package engine

import (
	"time"

	"github.com/hailam/boxchess/internal/board"
)

// ClockLimits contains UCI time control parameters.
type ClockLimits struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each color)
	Inc       [2]time.Duration // winc, binc (increment per move)
	MovesToGo int              // moves until next time control (0 = sudden death)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
	Infinite  bool             // search until stopped
}

// TimeManager turns clock limits into a soft and a hard budget for one
// move.
type TimeManager struct {
	optimumTime time.Duration // no new iteration after this
	maximumTime time.Duration // hard stop, 0 = none
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init computes the budgets for the side us. ply is the game ply (half-move
// number).
func (tm *TimeManager) Init(limits ClockLimits, us board.Color, ply int) {
	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}

	if limits.Infinite || limits.Time[us] == 0 {
		tm.optimumTime = 0
		tm.maximumTime = 0
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		// Sudden death: expect fewer remaining moves as the game goes on.
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
		if mtg > 50 {
			mtg = 50
		}
	}

	baseTime := timeLeft/time.Duration(mtg) + inc*9/10
	tm.optimumTime = baseTime
	if ply < 8 {
		tm.optimumTime = baseTime * 85 / 100
	}

	// 5x optimum or 80% of remaining, whichever is smaller.
	tm.maximumTime = min(tm.optimumTime*5, timeLeft*8/10)
	tm.maximumTime = min(tm.maximumTime, timeLeft*95/100)

	tm.optimumTime = max(tm.optimumTime, 10*time.Millisecond)
	tm.maximumTime = max(tm.maximumTime, 50*time.Millisecond)
	tm.optimumTime = min(tm.optimumTime, tm.maximumTime)
}

// OptimumTime returns the soft budget.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the hard budget; zero means unlimited.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// Limits converts the budgets and the depth cap into SearchLimits.
func (tm *TimeManager) Limits(depth int) SearchLimits {
	return SearchLimits{
		Depth:    depth,
		MoveTime: tm.maximumTime,
		Optimum:  tm.optimumTime,
	}
}
