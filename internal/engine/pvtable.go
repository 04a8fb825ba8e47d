package engine

import (
	"github.com/hailam/boxchess/internal/board"
)

// DefaultPVEntries is the best-move cache size used when none is configured.
const DefaultPVEntries = 1 << 17

type pvEntry struct {
	key  uint64
	move board.Move
}

// PVTable is a single-slot best-move cache indexed by key modulo its size.
// Stores overwrite unconditionally; a probe only returns a move when the
// full stored key equals the position key.
type PVTable struct {
	entries []pvEntry
}

// NewPVTable allocates a table with n slots.
func NewPVTable(n int) *PVTable {
	if n <= 0 {
		n = DefaultPVEntries
	}
	return &PVTable{entries: make([]pvEntry, n)}
}

// Len returns the number of slots.
func (t *PVTable) Len() int {
	return len(t.entries)
}

func (t *PVTable) index(key uint64) uint64 {
	return key % uint64(len(t.entries))
}

// Probe returns the cached move for key, or NoMove.
func (t *PVTable) Probe(key uint64) board.Move {
	e := &t.entries[t.index(key)]
	if e.key != key {
		return board.NoMove
	}
	return e.move
}

// Store records move as the best move for key.
func (t *PVTable) Store(key uint64, move board.Move) {
	e := &t.entries[t.index(key)]
	e.key = key
	e.move = move
}

// Clear empties every slot.
func (t *PVTable) Clear() {
	clear(t.entries)
}

// Line follows cached moves from pos for at most depth plies, stopping at the
// first move that is missing or not legal. pos is restored before returning.
func (t *PVTable) Line(pos *board.Position, depth int) []board.Move {
	var line []board.Move
	for len(line) < depth && pos.Ply < board.MaxDepth-1 {
		m := t.Probe(pos.Key)
		if m == board.NoMove || !pos.MoveExists(m) {
			break
		}
		pos.MakeMove(m)
		line = append(line, m)
	}
	for range line {
		pos.TakeMove()
	}
	return line
}
