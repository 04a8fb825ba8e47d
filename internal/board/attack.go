package board

// SqAttacked reports whether any piece of color by attacks sq.
func (p *Position) SqAttacked(sq Square, by Color) bool {
	if by == White {
		if p.pieces[sq-11] == WhitePawn || p.pieces[sq-9] == WhitePawn {
			return true
		}
	} else {
		if p.pieces[sq+11] == BlackPawn || p.pieces[sq+9] == BlackPawn {
			return true
		}
	}

	for _, d := range knightDirs {
		pce := p.pieces[sq+d]
		if pce != OffBoard && pieceKnight[pce] && pce.Color() == by {
			return true
		}
	}

	for _, d := range rookDirs {
		t := sq + d
		pce := p.pieces[t]
		for pce != OffBoard {
			if pce != Empty {
				if pieceRookQueen[pce] && pce.Color() == by {
					return true
				}
				break
			}
			t += d
			pce = p.pieces[t]
		}
	}

	for _, d := range bishopDirs {
		t := sq + d
		pce := p.pieces[t]
		for pce != OffBoard {
			if pce != Empty {
				if pieceBishopQ[pce] && pce.Color() == by {
					return true
				}
				break
			}
			t += d
			pce = p.pieces[t]
		}
	}

	for _, d := range kingDirs {
		pce := p.pieces[sq+d]
		if pce != OffBoard && pieceKing[pce] && pce.Color() == by {
			return true
		}
	}
	return false
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.SqAttacked(p.KingSquare(p.Side), p.Side.Other())
}
