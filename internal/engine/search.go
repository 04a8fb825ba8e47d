package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/boxchess/internal/board"
)

// Search constants
const (
	Infinite = 30000
	Mate     = 29000

	// checkInterval is the node mask between clock and cancellation polls.
	checkInterval = 2047
)

// SearchContext carries the state of one search call. A fresh context is
// built for every search; nothing survives between calls except the
// engine's best-move cache.
type SearchContext struct {
	pos *board.Position
	pv  *PVTable
	log zerolog.Logger

	Nodes         uint64
	FailHigh      uint64
	FailHighFirst uint64

	start    time.Time
	deadline time.Time // zero means no time limit
	ctx      context.Context
	external *atomic.Bool
	stopped  bool

	rootBest board.Move
}

func newSearchContext(ctx context.Context, pos *board.Position, pv *PVTable, external *atomic.Bool, log zerolog.Logger) *SearchContext {
	return &SearchContext{
		pos:      pos,
		pv:       pv,
		log:      log,
		start:    time.Now(),
		ctx:      ctx,
		external: external,
	}
}

// Stopped reports whether the search was interrupted.
func (sc *SearchContext) Stopped() bool {
	return sc.stopped
}

// Elapsed returns the time since the search started.
func (sc *SearchContext) Elapsed() time.Duration {
	return time.Since(sc.start)
}

// checkUp raises the stop flag once the deadline passed, the context was
// cancelled or an external stop was requested.
func (sc *SearchContext) checkUp() {
	switch {
	case !sc.deadline.IsZero() && time.Now().After(sc.deadline):
		sc.stopped = true
	case sc.external != nil && sc.external.Load():
		sc.stopped = true
	case sc.ctx != nil && sc.ctx.Err() != nil:
		sc.stopped = true
	}
}

// AlphaBeta searches the current position to depth plies and returns a
// score relative to the side to move.
func (sc *SearchContext) AlphaBeta(alpha, beta, depth int) int {
	if depth <= 0 {
		return sc.Quiescence(alpha, beta)
	}

	if sc.Nodes&checkInterval == 0 {
		sc.checkUp()
	}
	if sc.stopped {
		return 0
	}
	sc.Nodes++

	pos := sc.pos
	if pos.Ply > 0 && (pos.IsRepetition() || pos.FiftyMove >= 100) {
		return 0
	}
	if pos.Ply > board.MaxDepth-1 {
		return Evaluate(pos)
	}

	inCheck := pos.InCheck()
	if inCheck {
		depth++
	}

	pos.GenerateMoves()
	start, end := pos.Moves()
	boostPVMove(pos, sc.pv.Probe(pos.Key), start, end)

	legal := 0
	oldAlpha := alpha
	bestMove := board.NoMove

	for i := start; i < end; i++ {
		pickNextMove(pos, i, end)
		m := pos.MoveAt(i)
		if !pos.MakeMove(m) {
			continue
		}
		legal++
		score := -sc.AlphaBeta(-beta, -alpha, depth-1)
		pos.TakeMove()

		if sc.stopped {
			return 0
		}

		if score > alpha {
			if score >= beta {
				if legal == 1 {
					sc.FailHighFirst++
				}
				sc.FailHigh++
				if !m.IsCapture() {
					storeKiller(pos, m)
				}
				return beta
			}
			alpha = score
			bestMove = m
			if !m.IsCapture() {
				addHistory(pos, m, depth)
			}
		}
	}

	if legal == 0 {
		if inCheck {
			return -Mate + pos.Ply
		}
		return 0
	}

	if alpha != oldAlpha {
		sc.pv.Store(pos.Key, bestMove)
		if pos.Ply == 0 {
			sc.rootBest = bestMove
		}
	}
	return alpha
}

// Quiescence extends the search along captures until the position is quiet,
// using the static evaluation as a stand-pat lower bound.
func (sc *SearchContext) Quiescence(alpha, beta int) int {
	if sc.Nodes&checkInterval == 0 {
		sc.checkUp()
	}
	if sc.stopped {
		return 0
	}
	sc.Nodes++

	pos := sc.pos
	if pos.Ply > 0 && (pos.IsRepetition() || pos.FiftyMove >= 100) {
		return 0
	}
	if pos.Ply > board.MaxDepth-1 {
		return Evaluate(pos)
	}

	score := Evaluate(pos)
	if score >= beta {
		return beta
	}
	if score > alpha {
		alpha = score
	}

	pos.GenerateCaptures()
	start, end := pos.Moves()

	legal := 0
	oldAlpha := alpha
	bestMove := board.NoMove

	for i := start; i < end; i++ {
		pickNextMove(pos, i, end)
		m := pos.MoveAt(i)
		if !pos.MakeMove(m) {
			continue
		}
		legal++
		score = -sc.Quiescence(-beta, -alpha)
		pos.TakeMove()

		if sc.stopped {
			return 0
		}

		if score > alpha {
			if score >= beta {
				if legal == 1 {
					sc.FailHighFirst++
				}
				sc.FailHigh++
				return beta
			}
			alpha = score
			bestMove = m
		}
	}

	if alpha != oldAlpha {
		sc.pv.Store(pos.Key, bestMove)
	}
	return alpha
}
