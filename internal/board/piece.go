package board

// Color represents the side owning a piece or the side to move.
type Color uint8

const (
	White Color = iota
	Black
	Both
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "both"
	}
}

// Piece is the content of a mailbox cell: empty, one of the twelve piece
// kinds, or the off-board sentinel.
type Piece uint8

const (
	Empty Piece = iota
	WhitePawn
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	OffBoard
)

// NumPieces counts Empty plus the twelve piece kinds.
const NumPieces = 13

// Piece property tables, indexed by Piece.
var (
	pieceColor = [14]Color{Both, White, White, White, White, White, White, Black, Black, Black, Black, Black, Black, Both}
	pieceValue = [14]int{0, 100, 325, 325, 550, 1000, 50000, 100, 325, 325, 550, 1000, 50000, 0}

	piecePawn      = [14]bool{false, true, false, false, false, false, false, true, false, false, false, false, false, false}
	pieceKnight    = [14]bool{false, false, true, false, false, false, false, false, true, false, false, false, false, false}
	pieceKing      = [14]bool{false, false, false, false, false, false, true, false, false, false, false, false, true, false}
	pieceRookQueen = [14]bool{false, false, false, false, true, true, false, false, false, false, true, true, false, false}
	pieceBishopQ   = [14]bool{false, false, false, true, false, true, false, false, false, true, false, true, false, false}
)

// Kings and Pawns index the king/pawn piece of each color.
var (
	Kings = [2]Piece{WhiteKing, BlackKing}
	Pawns = [2]Piece{WhitePawn, BlackPawn}
)

// Color returns the owner of the piece; Both for Empty and OffBoard.
func (p Piece) Color() Color {
	return pieceColor[p]
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return pieceValue[p]
}

// IsPawn reports whether p is a pawn of either color.
func (p Piece) IsPawn() bool { return piecePawn[p] }

// IsKing reports whether p is a king of either color.
func (p Piece) IsKing() bool { return pieceKing[p] }

// String returns the FEN letter (uppercase for white) or "." when empty.
func (p Piece) String() string {
	if p == Empty || p >= OffBoard {
		return "."
	}
	return string(".PNBRQKpnbrqk"[p])
}

// PieceFromChar converts a FEN letter to a Piece.
func PieceFromChar(c byte) (Piece, bool) {
	switch c {
	case 'P':
		return WhitePawn, true
	case 'N':
		return WhiteKnight, true
	case 'B':
		return WhiteBishop, true
	case 'R':
		return WhiteRook, true
	case 'Q':
		return WhiteQueen, true
	case 'K':
		return WhiteKing, true
	case 'p':
		return BlackPawn, true
	case 'n':
		return BlackKnight, true
	case 'b':
		return BlackBishop, true
	case 'r':
		return BlackRook, true
	case 'q':
		return BlackQueen, true
	case 'k':
		return BlackKing, true
	}
	return Empty, false
}

// Step directions on the 10x12 board.
var (
	knightDirs = [8]Square{-8, -19, -21, -12, 8, 19, 21, 12}
	rookDirs   = [4]Square{-1, -10, 1, 10}
	bishopDirs = [4]Square{-9, -11, 11, 9}
	kingDirs   = [8]Square{-1, -10, 1, 10, -9, -11, 11, 9}
)

// Piece loops used by the generator, one list per side.
var (
	nonSliders = [2][2]Piece{{WhiteKnight, WhiteKing}, {BlackKnight, BlackKing}}
	sliders    = [2][3]Piece{{WhiteBishop, WhiteRook, WhiteQueen}, {BlackBishop, BlackRook, BlackQueen}}
)

// pieceDirs returns the step directions for a non-pawn piece.
func pieceDirs(p Piece) []Square {
	switch p {
	case WhiteKnight, BlackKnight:
		return knightDirs[:]
	case WhiteBishop, BlackBishop:
		return bishopDirs[:]
	case WhiteRook, BlackRook:
		return rookDirs[:]
	case WhiteQueen, BlackQueen, WhiteKing, BlackKing:
		return kingDirs[:]
	}
	return nil
}
