// Package board implements a 10x12 mailbox chess position with incremental
// make/unmake, Zobrist hashing and pseudo-legal move generation.
package board

import "fmt"

// Square indexes the 120-cell padded board. The playable 8x8 area starts at
// A1=21 and ends at H8=98; every other index is an off-board border cell.
type Square int

// NumSquares is the size of the padded board.
const NumSquares = 120

// Named playable squares, rank by rank.
const (
	A1 Square = 21 + iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	A2 Square = 31 + iota
	B2
	C2
	D2
	E2
	F2
	G2
	H2
)

const (
	A3 Square = 41 + iota
	B3
	C3
	D3
	E3
	F3
	G3
	H3
)

const (
	A4 Square = 51 + iota
	B4
	C4
	D4
	E4
	F4
	G4
	H4
)

const (
	A5 Square = 61 + iota
	B5
	C5
	D5
	E5
	F5
	G5
	H5
)

const (
	A6 Square = 71 + iota
	B6
	C6
	D6
	E6
	F6
	G6
	H6
)

const (
	A7 Square = 81 + iota
	B7
	C7
	D7
	E7
	F7
	G7
	H7
)

const (
	A8 Square = 91 + iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NoSquare marks an absent square (no en passant target). It is an
// off-board index so it can always be used to index board-sized tables.
const NoSquare Square = 99

const offBoardCoord = 8

var (
	fileOf    [NumSquares]int
	rankOf    [NumSquares]int
	sq120To64 [NumSquares]int
	sq64To120 [64]Square
)

func init() {
	initSquares()
}

func initSquares() {
	for i := 0; i < NumSquares; i++ {
		fileOf[i] = offBoardCoord
		rankOf[i] = offBoardCoord
		sq120To64[i] = 64
	}
	i64 := 0
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			fileOf[sq] = file
			rankOf[sq] = rank
			sq120To64[sq] = i64
			sq64To120[i64] = sq
			i64++
		}
	}
}

// NewSquare returns the padded index of file/rank (both 0-7).
func NewSquare(file, rank int) Square {
	return Square(21 + file + rank*10)
}

// SquareFrom64 converts a 0-63 index (a1=0, h8=63) into a padded square.
func SquareFrom64(i int) Square {
	return sq64To120[i]
}

// File returns 0-7 for a-h, or 8 for off-board cells.
func (sq Square) File() int {
	return fileOf[sq]
}

// Rank returns 0-7 for ranks 1-8, or 8 for off-board cells.
func (sq Square) Rank() int {
	return rankOf[sq]
}

// OnBoard reports whether sq is one of the 64 playable squares.
func (sq Square) OnBoard() bool {
	return sq >= 0 && sq < NumSquares && fileOf[sq] != offBoardCoord
}

// Index64 returns the 0-63 index of an on-board square.
func (sq Square) Index64() int {
	return sq120To64[sq]
}

// String returns the algebraic name ("e4"), or "-" for off-board squares.
func (sq Square) String() string {
	if !sq.OnBoard() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4").
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	return NewSquare(file, rank), nil
}
