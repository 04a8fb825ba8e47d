package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	p.GenerateMoves()
	start, end := p.Moves()
	var nodes uint64
	for i := start; i < end; i++ {
		if !p.MakeMove(p.moveList[i]) {
			continue
		}
		if depth == 1 {
			nodes++
		} else {
			nodes += p.Perft(depth - 1)
		}
		p.TakeMove()
	}
	return nodes
}

// DivideEntry is the subtree size below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// PerftDivide returns the perft count below each legal root move, in
// generation order.
func (p *Position) PerftDivide(depth int) []DivideEntry {
	if depth <= 0 {
		return nil
	}
	moves := p.LegalMoves()
	entries := make([]DivideEntry, 0, len(moves))
	for _, m := range moves {
		p.MakeMove(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: p.Perft(depth - 1)})
		p.TakeMove()
	}
	return entries
}
