package engine

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/boxchess/internal/board"
)

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = no limit)
	MoveTime time.Duration // Hard time budget (0 = no limit)
	Optimum  time.Duration // No new iteration starts after this (0 = no limit)
}

// Result reports the deepest completed iteration of a search.
type Result struct {
	Move          board.Move
	Score         int
	Depth         int
	Nodes         uint64
	FailHigh      uint64
	FailHighFirst uint64
	Elapsed       time.Duration
	PV            []board.Move
}

// Ordering returns the share of beta cutoffs produced by the first move
// searched, a measure of move ordering quality.
func (r Result) Ordering() float64 {
	if r.FailHigh == 0 {
		return 0
	}
	return float64(r.FailHighFirst) / float64(r.FailHigh)
}

// ScoreString formats the score for display.
func (r Result) ScoreString() string {
	return ScoreToString(r.Score)
}

// PVString returns the principal variation in coordinate notation.
func (r Result) PVString() string {
	parts := make([]string, len(r.PV))
	for i, m := range r.PV {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// Engine owns the best-move cache and the external stop signal. One search
// runs at a time; Stop may be called from any goroutine.
type Engine struct {
	pv       *PVTable
	stopFlag atomic.Bool
	log      zerolog.Logger

	// OnInfo, when set, is called after every completed iteration.
	OnInfo func(Result)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-iteration debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates an engine with a best-move cache of pvEntries slots
// (DefaultPVEntries when pvEntries <= 0).
func NewEngine(pvEntries int, opts ...Option) *Engine {
	e := &Engine{
		pv:  NewPVTable(pvEntries),
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs iterative deepening on pos and returns the result of the
// deepest completed iteration. An interrupted iteration is discarded. The
// search stops at the limits, when ctx is done, or after Stop.
//
// pos is used as scratch space and is restored before Search returns. If not
// even depth one completes, the first legal move is returned with depth 0.
func (e *Engine) Search(ctx context.Context, pos *board.Position, limits SearchLimits) Result {
	e.stopFlag.Store(false)
	pos.Ply = 0
	clearOrdering(pos)
	e.pv.Clear()

	sc := newSearchContext(ctx, pos, e.pv, &e.stopFlag, e.log)
	if limits.MoveTime > 0 {
		sc.deadline = sc.start.Add(limits.MoveTime)
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > board.MaxDepth {
		maxDepth = board.MaxDepth
	}

	var res Result
	for depth := 1; depth <= maxDepth; depth++ {
		score := sc.AlphaBeta(-Infinite, Infinite, depth)
		if sc.Stopped() {
			break
		}

		best := e.pv.Probe(pos.Key)
		if best == board.NoMove {
			best = sc.rootBest
		}
		res = Result{
			Move:          best,
			Score:         score,
			Depth:         depth,
			Nodes:         sc.Nodes,
			FailHigh:      sc.FailHigh,
			FailHighFirst: sc.FailHighFirst,
			Elapsed:       sc.Elapsed(),
			PV:            e.pv.Line(pos, depth),
		}

		sc.log.Debug().
			Int("depth", depth).
			Int("score", score).
			Uint64("nodes", sc.Nodes).
			Float64("ordering", res.Ordering()).
			Str("pv", res.PVString()).
			Msg("iteration complete")
		if e.OnInfo != nil {
			e.OnInfo(res)
		}

		if best == board.NoMove || IsMateScore(score) {
			break
		}
		if limits.Optimum > 0 && sc.Elapsed() >= limits.Optimum {
			break
		}
	}

	res.Nodes = sc.Nodes
	res.FailHigh = sc.FailHigh
	res.FailHighFirst = sc.FailHighFirst
	res.Elapsed = sc.Elapsed()

	if res.Move == board.NoMove {
		if moves := pos.LegalMoves(); len(moves) > 0 {
			res.Move = moves[0]
			res.PV = moves[:1]
			sc.log.Warn().Str("move", res.Move.String()).Msg("no iteration completed, playing first legal move")
		}
	}
	return res
}

// Stop asks a running search to return at its next poll.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Clear empties the best-move cache.
func (e *Engine) Clear() {
	e.pv.Clear()
}

// IsMateScore reports whether score encodes a forced mate for either side.
func IsMateScore(score int) bool {
	return score > Mate-board.MaxDepth || score < -Mate+board.MaxDepth
}

// ScoreToString converts a score to a human-readable string: "mate in N",
// "mated in N" (N in moves), or pawns such as "+0.35".
func ScoreToString(score int) string {
	if score > Mate-board.MaxDepth {
		return fmt.Sprintf("mate in %d", (Mate-score+1)/2)
	}
	if score < -Mate+board.MaxDepth {
		return fmt.Sprintf("mated in %d", (Mate+score+1)/2)
	}
	return fmt.Sprintf("%+.2f", float64(score)/100)
}
