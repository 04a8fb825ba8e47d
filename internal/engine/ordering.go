package engine

import (
	"github.com/hailam/boxchess/internal/board"
)

// clearOrdering resets killers and history before a new search.
func clearOrdering(pos *board.Position) {
	for i := range pos.Killers {
		clear(pos.Killers[i][:])
	}
	for i := range pos.History {
		clear(pos.History[i][:])
	}
}

// pickNextMove swaps the highest scored move in [i, end) into slot i.
// Selection instead of a sort: most nodes cut off after a move or two.
func pickNextMove(pos *board.Position, i, end int) {
	best, bestScore := i, pos.MoveScore(i)
	for j := i + 1; j < end; j++ {
		if s := pos.MoveScore(j); s > bestScore {
			best, bestScore = j, s
		}
	}
	if best != i {
		pos.SwapMoves(i, best)
	}
}

// boostPVMove lifts the cached best move above every other move in
// [start, end). It reports whether the move was found.
func boostPVMove(pos *board.Position, pvMove board.Move, start, end int) bool {
	if pvMove == board.NoMove {
		return false
	}
	for i := start; i < end; i++ {
		if pos.MoveAt(i) == pvMove {
			pos.SetMoveScore(i, board.PVBonus)
			return true
		}
	}
	return false
}

// storeKiller records a quiet move that caused a beta cutoff at the current
// ply, shifting the previous first killer down.
func storeKiller(pos *board.Position, m board.Move) {
	ply := pos.Ply
	if ply >= board.MaxDepth || pos.Killers[0][ply] == m {
		return
	}
	pos.Killers[1][ply] = pos.Killers[0][ply]
	pos.Killers[0][ply] = m
}

// addHistory rewards a quiet move that raised alpha.
func addHistory(pos *board.Position, m board.Move, depth int) {
	pce := pos.PieceAt(m.From())
	pos.History[pce][m.To()] += depth * depth
}
