// Package engine implements the static evaluator and the iterative-deepening
// alpha-beta search.
package engine

import (
	"github.com/hailam/boxchess/internal/board"
)

// BishopPair is the bonus for holding two or more bishops.
const BishopPair = 40

// Piece-square tables from white's point of view, index 0 = a1, 63 = h8.
// Black pieces read the vertically mirrored square.
var (
	pawnTable = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		10, 10, 0, -10, -10, 0, 10, 10,
		5, 0, 0, 5, 5, 0, 0, 5,
		0, 0, 10, 20, 20, 10, 0, 0,
		5, 5, 5, 10, 10, 5, 5, 5,
		10, 10, 10, 20, 20, 10, 10, 10,
		20, 20, 20, 30, 30, 20, 20, 20,
		0, 0, 0, 0, 0, 0, 0, 0,
	}

	knightTable = [64]int{
		0, -10, 0, 0, 0, 0, -10, 0,
		0, 0, 0, 5, 5, 0, 0, 0,
		0, 0, 10, 10, 10, 10, 0, 0,
		0, 0, 10, 20, 20, 10, 5, 0,
		5, 10, 15, 20, 20, 15, 10, 5,
		5, 10, 10, 20, 20, 10, 10, 5,
		0, 0, 5, 10, 10, 5, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}

	bishopTable = [64]int{
		0, 0, -10, 0, 0, -10, 0, 0,
		0, 0, 0, 10, 10, 0, 0, 0,
		0, 0, 10, 15, 15, 10, 0, 0,
		0, 10, 15, 20, 20, 15, 10, 0,
		0, 10, 15, 20, 20, 15, 10, 0,
		0, 0, 10, 15, 15, 10, 0, 0,
		0, 0, 0, 10, 10, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}

	rookTable = [64]int{
		0, 0, 5, 10, 10, 5, 0, 0,
		0, 0, 5, 10, 10, 5, 0, 0,
		0, 0, 5, 10, 10, 5, 0, 0,
		0, 0, 5, 10, 10, 5, 0, 0,
		0, 0, 5, 10, 10, 5, 0, 0,
		0, 0, 5, 10, 10, 5, 0, 0,
		25, 25, 25, 25, 25, 25, 25, 25,
		0, 0, 5, 10, 10, 5, 0, 0,
	}
)

func mirror64(i int) int {
	return i ^ 56
}

// pstSum adds table values for every white piece of kind w and subtracts the
// mirrored values for every black piece of kind b. div scales the table.
func pstSum(pos *board.Position, table *[64]int, w, b board.Piece, div int) int {
	score := 0
	for _, sq := range pos.PieceSquares(w) {
		score += table[sq.Index64()] / div
	}
	for _, sq := range pos.PieceSquares(b) {
		score -= table[mirror64(sq.Index64())] / div
	}
	return score
}

// Evaluate returns the static score of pos in centipawns from the side to
// move's point of view.
func Evaluate(pos *board.Position) int {
	score := pos.Material(board.White) - pos.Material(board.Black)

	score += pstSum(pos, &pawnTable, board.WhitePawn, board.BlackPawn, 1)
	score += pstSum(pos, &knightTable, board.WhiteKnight, board.BlackKnight, 1)
	score += pstSum(pos, &bishopTable, board.WhiteBishop, board.BlackBishop, 1)
	score += pstSum(pos, &rookTable, board.WhiteRook, board.BlackRook, 1)
	score += pstSum(pos, &rookTable, board.WhiteQueen, board.BlackQueen, 2)

	if pos.Count(board.WhiteBishop) >= 2 {
		score += BishopPair
	}
	if pos.Count(board.BlackBishop) >= 2 {
		score -= BishopPair
	}

	if pos.Side == board.Black {
		return -score
	}
	return score
}
