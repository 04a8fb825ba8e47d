package board

// MakeMove plays a pseudo-legal move. If it leaves the mover's king attacked
// the move is taken back before returning false, and the position is exactly
// as it was; the caller must not call TakeMove in that case.
func (p *Position) MakeMove(m Move) bool {
	if p.Ply >= MaxDepth {
		panic("board: search ply exceeds MaxDepth")
	}
	if p.HisPly >= MaxGameMoves-1 {
		panic("board: game history exhausted")
	}

	from, to := m.From(), m.To()
	side := p.Side

	h := &p.history[p.HisPly]
	h.Key = p.Key

	if m.IsEnPassant() {
		if side == White {
			p.clearPiece(to - 10)
		} else {
			p.clearPiece(to + 10)
		}
	} else if m.IsCastling() {
		switch to {
		case C1:
			p.movePiece(A1, D1)
		case G1:
			p.movePiece(H1, F1)
		case C8:
			p.movePiece(A8, D8)
		case G8:
			p.movePiece(H8, F8)
		default:
			panic("board: castling move to " + to.String())
		}
	}

	if p.EnPassant != NoSquare {
		p.hashEnPassant()
	}
	p.hashCastle()

	h.Move = m
	h.FiftyMove = p.FiftyMove
	h.EnPassant = p.EnPassant
	h.Castle = p.Castle

	p.Castle &= castlePerm[from] & castlePerm[to]
	p.EnPassant = NoSquare
	p.hashCastle()

	p.FiftyMove++
	if captured := m.Captured(); captured != Empty {
		p.clearPiece(to)
		p.FiftyMove = 0
	}

	p.HisPly++
	p.Ply++

	if p.pieces[from].IsPawn() {
		p.FiftyMove = 0
		if m.IsPawnStart() {
			if side == White {
				p.EnPassant = from + 10
			} else {
				p.EnPassant = from - 10
			}
			p.hashEnPassant()
		}
	}

	p.movePiece(from, to)

	if promoted := m.Promoted(); promoted != Empty {
		p.clearPiece(to)
		p.addPiece(to, promoted)
	}

	p.Side = side.Other()
	p.hashSide()

	if DebugValidation {
		p.mustValidate()
	}

	if p.SqAttacked(p.KingSquare(side), p.Side) {
		p.TakeMove()
		return false
	}
	return true
}

// TakeMove reverts the last move made with MakeMove. It panics when there is
// no move to take back.
func (p *Position) TakeMove() {
	if p.HisPly == 0 {
		panic("board: TakeMove with empty history")
	}
	p.HisPly--
	if p.Ply > 0 {
		p.Ply--
	}

	h := &p.history[p.HisPly]
	m := h.Move
	from, to := m.From(), m.To()

	if p.EnPassant != NoSquare {
		p.hashEnPassant()
	}
	p.hashCastle()

	p.Castle = h.Castle
	p.FiftyMove = h.FiftyMove
	p.EnPassant = h.EnPassant

	if p.EnPassant != NoSquare {
		p.hashEnPassant()
	}
	p.hashCastle()

	p.Side = p.Side.Other()
	p.hashSide()

	if m.IsEnPassant() {
		if p.Side == White {
			p.addPiece(to-10, BlackPawn)
		} else {
			p.addPiece(to+10, WhitePawn)
		}
	} else if m.IsCastling() {
		switch to {
		case C1:
			p.movePiece(D1, A1)
		case G1:
			p.movePiece(F1, H1)
		case C8:
			p.movePiece(D8, A8)
		case G8:
			p.movePiece(F8, H8)
		}
	}

	p.movePiece(to, from)

	if captured := m.Captured(); captured != Empty {
		p.addPiece(to, captured)
	}

	if m.Promoted() != Empty {
		p.clearPiece(from)
		p.addPiece(from, Pawns[p.Side])
	}

	if DebugValidation {
		p.mustValidate()
	}
}

// CommitMove plays m as a game move: it becomes part of the history used
// for repetition detection and the search ply is reset to zero.
func (p *Position) CommitMove(m Move) bool {
	if !p.MakeMove(m) {
		return false
	}
	p.Ply = 0
	return true
}

// UndoMove takes back the last committed move. It returns false when no
// move has been played.
func (p *Position) UndoMove() bool {
	if p.HisPly == 0 {
		return false
	}
	p.TakeMove()
	p.Ply = 0
	return true
}
