package engine

import (
	"testing"
	"time"

	"github.com/hailam/boxchess/internal/board"
)

func TestTimeManagerInit(t *testing.T) {
	tests := []struct {
		name    string
		limits  ClockLimits
		us      board.Color
		ply     int
		optimum time.Duration
		maximum time.Duration
	}{
		{
			name:    "fixed move time",
			limits:  ClockLimits{MoveTime: 500 * time.Millisecond, Time: [2]time.Duration{time.Minute, time.Minute}},
			optimum: 500 * time.Millisecond,
			maximum: 500 * time.Millisecond,
		},
		{
			name:   "infinite",
			limits: ClockLimits{Infinite: true, Time: [2]time.Duration{time.Minute, time.Minute}},
		},
		{
			name:   "no clock for side",
			limits: ClockLimits{Time: [2]time.Duration{time.Minute, 0}},
			us:     board.Black,
		},
		{
			name:    "opening sudden death",
			limits:  ClockLimits{Time: [2]time.Duration{10 * time.Second, 10 * time.Second}},
			optimum: 170 * time.Millisecond,
			maximum: 850 * time.Millisecond,
		},
		{
			name:    "middlegame sudden death",
			limits:  ClockLimits{Time: [2]time.Duration{time.Minute, time.Minute}},
			ply:     20,
			optimum: time.Minute / 45,
			maximum: time.Minute / 45 * 5,
		},
		{
			name:    "moves to go with increment",
			limits:  ClockLimits{Time: [2]time.Duration{0, 20 * time.Second}, Inc: [2]time.Duration{0, time.Second}, MovesToGo: 20},
			us:      board.Black,
			ply:     30,
			optimum: time.Second + 900*time.Millisecond,
			maximum: 9500 * time.Millisecond,
		},
		{
			name:    "nearly flagged",
			limits:  ClockLimits{Time: [2]time.Duration{100 * time.Millisecond, time.Minute}},
			ply:     40,
			optimum: 10 * time.Millisecond,
			maximum: 50 * time.Millisecond,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tm := NewTimeManager()
			tm.Init(tc.limits, tc.us, tc.ply)
			if got := tm.OptimumTime(); got != tc.optimum {
				t.Errorf("OptimumTime() = %v, want %v", got, tc.optimum)
			}
			if got := tm.MaximumTime(); got != tc.maximum {
				t.Errorf("MaximumTime() = %v, want %v", got, tc.maximum)
			}
			if tm.OptimumTime() > tm.MaximumTime() {
				t.Errorf("optimum %v exceeds maximum %v", tm.OptimumTime(), tm.MaximumTime())
			}
		})
	}
}

func TestTimeManagerLimits(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(ClockLimits{MoveTime: time.Second}, board.White, 0)
	want := SearchLimits{Depth: 7, MoveTime: time.Second, Optimum: time.Second}
	if got := tm.Limits(7); got != want {
		t.Errorf("Limits(7) = %+v, want %+v", got, want)
	}
}
