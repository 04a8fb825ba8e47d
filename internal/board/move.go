package board

// Move packs a move into 25 bits:
//
//	bits 0-6:   from square (padded index)
//	bits 7-13:  to square
//	bits 14-17: captured piece
//	bit  18:    en passant capture
//	bit  19:    pawn double step
//	bits 20-23: promotion piece
//	bit  24:    castling
type Move uint32

// Move flags and masks.
const (
	FlagEnPassant Move = 0x40000
	FlagPawnStart Move = 0x80000
	FlagCastling  Move = 0x1000000

	captureMask   Move = 0x7C000
	promotionMask Move = 0xF00000
)

// NoMove is the absent move. No legal move encodes to zero because from and
// to are always on-board squares.
const NoMove Move = 0

// NewMove encodes a move from its parts. flags is any combination of
// FlagEnPassant, FlagPawnStart and FlagCastling.
func NewMove(from, to Square, captured, promoted Piece, flags Move) Move {
	return Move(from) | Move(to)<<7 | Move(captured)<<14 | Move(promoted)<<20 | flags
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x7F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 7) & 0x7F)
}

// Captured returns the captured piece, Empty for quiet moves and en passant.
func (m Move) Captured() Piece {
	return Piece((m >> 14) & 0xF)
}

// Promoted returns the promotion piece, or Empty.
func (m Move) Promoted() Piece {
	return Piece((m >> 20) & 0xF)
}

func (m Move) IsEnPassant() bool { return m&FlagEnPassant != 0 }
func (m Move) IsPawnStart() bool { return m&FlagPawnStart != 0 }
func (m Move) IsCastling() bool  { return m&FlagCastling != 0 }

// IsCapture reports whether the move captures, en passant included.
func (m Move) IsCapture() bool {
	return m&captureMask != 0
}

func (m Move) IsPromotion() bool {
	return m&promotionMask != 0
}

// IsQuiet reports whether the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return m&(captureMask|promotionMask) == 0
}

// String returns coordinate notation (e.g., "e2e4", "e7e8q"), or "0000"
// for NoMove.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	switch m.Promoted() {
	case WhiteKnight, BlackKnight:
		s += "n"
	case WhiteBishop, BlackBishop:
		s += "b"
	case WhiteRook, BlackRook:
		s += "r"
	case WhiteQueen, BlackQueen:
		s += "q"
	}
	return s
}
