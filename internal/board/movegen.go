package board

import (
	"errors"
	"fmt"
)

// Ordering scores assigned at generation time. The search adds PVBonus to
// the cached best move so it is always tried first.
const (
	CaptureBonus   = 1_000_000
	EnPassantScore = 1_000_105
	Killer1Score   = 900_000
	Killer2Score   = 800_000
	PVBonus        = 2_000_000
)

// ErrIllegalMove is returned by ParseMoveString for moves that are not legal
// in the current position.
var ErrIllegalMove = errors.New("illegal move")

var victimScore = [NumPieces]int{0, 100, 200, 300, 400, 500, 600, 100, 200, 300, 400, 500, 600}

// mvvLva[victim][attacker]: most valuable victim first, cheaper attacker
// breaks ties.
var mvvLva [NumPieces][NumPieces]int

func init() {
	for attacker := WhitePawn; attacker <= BlackKing; attacker++ {
		for victim := WhitePawn; victim <= BlackKing; victim++ {
			mvvLva[victim][attacker] = victimScore[victim] + 6 - victimScore[attacker]/100
		}
	}
}

var promotionPieces = [2][4]Piece{
	{WhiteQueen, WhiteRook, WhiteBishop, WhiteKnight},
	{BlackQueen, BlackRook, BlackBishop, BlackKnight},
}

// moveBuilder appends to the current ply's slice of the arena.
type moveBuilder struct {
	p     *Position
	start int
	n     int
}

func (p *Position) newBuilder() moveBuilder {
	if p.Ply >= MaxDepth {
		panic("board: move generation beyond MaxDepth")
	}
	return moveBuilder{p: p, start: p.moveListStart[p.Ply]}
}

func (b *moveBuilder) push(m Move, score int) {
	if b.n >= MaxPositionMoves {
		panic("board: move arena exhausted")
	}
	i := b.start + b.n
	b.p.moveList[i] = m
	b.p.moveScores[i] = score
	b.n++
}

func (b *moveBuilder) quiet(m Move) {
	p := b.p
	switch m {
	case p.Killers[0][p.Ply]:
		b.push(m, Killer1Score)
	case p.Killers[1][p.Ply]:
		b.push(m, Killer2Score)
	default:
		b.push(m, p.History[p.pieces[m.From()]][m.To()])
	}
}

func (b *moveBuilder) capture(m Move) {
	b.push(m, mvvLva[m.Captured()][b.p.pieces[m.From()]]+CaptureBonus)
}

func (b *moveBuilder) enPassant(m Move) {
	b.push(m, EnPassantScore)
}

func (b *moveBuilder) finish() {
	b.p.moveListStart[b.p.Ply+1] = b.start + b.n
}

// pawnMove adds a pawn push, expanding to the four promotions on the last
// rank.
func (b *moveBuilder) pawnMove(side Color, from, to Square) {
	if to.Rank() == 0 || to.Rank() == 7 {
		for _, promo := range promotionPieces[side] {
			b.quiet(NewMove(from, to, Empty, promo, 0))
		}
		return
	}
	b.quiet(NewMove(from, to, Empty, Empty, 0))
}

func (b *moveBuilder) pawnCapture(side Color, from, to Square, captured Piece) {
	if to.Rank() == 0 || to.Rank() == 7 {
		for _, promo := range promotionPieces[side] {
			b.capture(NewMove(from, to, captured, promo, 0))
		}
		return
	}
	b.capture(NewMove(from, to, captured, Empty, 0))
}

// GenerateMoves fills the current ply's arena slice with every pseudo-legal
// move for the side to move. Own-king safety is left to MakeMove.
func (p *Position) GenerateMoves() {
	b := p.newBuilder()
	p.generate(&b, false)
	b.finish()
}

// GenerateCaptures is GenerateMoves restricted to captures, en passant
// included.
func (p *Position) GenerateCaptures() {
	b := p.newBuilder()
	p.generate(&b, true)
	b.finish()
}

func (p *Position) generate(b *moveBuilder, capturesOnly bool) {
	side := p.Side
	them := side.Other()

	pawn, push, startRank := WhitePawn, Square(10), 1
	captureDirs := [2]Square{9, 11}
	if side == Black {
		pawn, push, startRank = BlackPawn, -10, 6
		captureDirs = [2]Square{-9, -11}
	}

	for _, sq := range p.PieceSquares(pawn) {
		if !capturesOnly && p.pieces[sq+push] == Empty {
			b.pawnMove(side, sq, sq+push)
			if sq.Rank() == startRank && p.pieces[sq+2*push] == Empty {
				b.quiet(NewMove(sq, sq+2*push, Empty, Empty, FlagPawnStart))
			}
		}
		for _, d := range captureDirs {
			t := sq + d
			if pce := p.pieces[t]; pce != OffBoard && pce != Empty && pce.Color() == them {
				b.pawnCapture(side, sq, t, pce)
			}
			if p.EnPassant != NoSquare && t == p.EnPassant {
				b.enPassant(NewMove(sq, t, Empty, Empty, FlagEnPassant))
			}
		}
	}

	if !capturesOnly {
		p.generateCastling(b)
	}

	for _, pce := range sliders[side] {
		for _, sq := range p.PieceSquares(pce) {
			for _, d := range pieceDirs(pce) {
				t := sq + d
				for p.pieces[t] != OffBoard {
					target := p.pieces[t]
					if target != Empty {
						if target.Color() == them {
							b.capture(NewMove(sq, t, target, Empty, 0))
						}
						break
					}
					if !capturesOnly {
						b.quiet(NewMove(sq, t, Empty, Empty, 0))
					}
					t += d
				}
			}
		}
	}

	for _, pce := range nonSliders[side] {
		for _, sq := range p.PieceSquares(pce) {
			for _, d := range pieceDirs(pce) {
				t := sq + d
				target := p.pieces[t]
				if target == OffBoard {
					continue
				}
				if target == Empty {
					if !capturesOnly {
						b.quiet(NewMove(sq, t, Empty, Empty, 0))
					}
				} else if target.Color() == them {
					b.capture(NewMove(sq, t, target, Empty, 0))
				}
			}
		}
	}
}

// generateCastling adds castling moves. The king's square and the square it
// passes are checked here; the destination is covered by MakeMove.
func (p *Position) generateCastling(b *moveBuilder) {
	if p.Side == White {
		if p.Castle&WhiteKingSide != 0 &&
			p.pieces[F1] == Empty && p.pieces[G1] == Empty &&
			!p.SqAttacked(E1, Black) && !p.SqAttacked(F1, Black) {
			b.quiet(NewMove(E1, G1, Empty, Empty, FlagCastling))
		}
		if p.Castle&WhiteQueenSide != 0 &&
			p.pieces[D1] == Empty && p.pieces[C1] == Empty && p.pieces[B1] == Empty &&
			!p.SqAttacked(E1, Black) && !p.SqAttacked(D1, Black) {
			b.quiet(NewMove(E1, C1, Empty, Empty, FlagCastling))
		}
		return
	}
	if p.Castle&BlackKingSide != 0 &&
		p.pieces[F8] == Empty && p.pieces[G8] == Empty &&
		!p.SqAttacked(E8, White) && !p.SqAttacked(F8, White) {
		b.quiet(NewMove(E8, G8, Empty, Empty, FlagCastling))
	}
	if p.Castle&BlackQueenSide != 0 &&
		p.pieces[D8] == Empty && p.pieces[C8] == Empty && p.pieces[B8] == Empty &&
		!p.SqAttacked(E8, White) && !p.SqAttacked(D8, White) {
		b.quiet(NewMove(E8, C8, Empty, Empty, FlagCastling))
	}
}

// Moves returns the arena index range [start, end) of the moves generated
// at the current ply.
func (p *Position) Moves() (start, end int) {
	return p.moveListStart[p.Ply], p.moveListStart[p.Ply+1]
}

// MoveAt returns the arena move at index i.
func (p *Position) MoveAt(i int) Move { return p.moveList[i] }

// MoveScore returns the ordering score of the arena move at index i.
func (p *Position) MoveScore(i int) int { return p.moveScores[i] }

// SetMoveScore overwrites the ordering score at index i.
func (p *Position) SetMoveScore(i, score int) { p.moveScores[i] = score }

// SwapMoves exchanges two arena entries together with their scores.
func (p *Position) SwapMoves(i, j int) {
	p.moveList[i], p.moveList[j] = p.moveList[j], p.moveList[i]
	p.moveScores[i], p.moveScores[j] = p.moveScores[j], p.moveScores[i]
}

// LegalMoves returns a fresh slice of the legal moves. It overwrites the
// arena slice of the current ply, so it must not be called while a search
// is iterating that ply.
func (p *Position) LegalMoves() []Move {
	p.GenerateMoves()
	start, end := p.Moves()
	moves := make([]Move, 0, end-start)
	for i := start; i < end; i++ {
		m := p.moveList[i]
		if !p.MakeMove(m) {
			continue
		}
		p.TakeMove()
		moves = append(moves, m)
	}
	return moves
}

// HasLegalMove reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMove() bool {
	p.GenerateMoves()
	start, end := p.Moves()
	for i := start; i < end; i++ {
		if p.MakeMove(p.moveList[i]) {
			p.TakeMove()
			return true
		}
	}
	return false
}

// MoveExists reports whether m is legal in the current position.
func (p *Position) MoveExists(m Move) bool {
	if m == NoMove {
		return false
	}
	p.GenerateMoves()
	start, end := p.Moves()
	for i := start; i < end; i++ {
		if p.moveList[i] != m {
			continue
		}
		if !p.MakeMove(m) {
			return false
		}
		p.TakeMove()
		return true
	}
	return false
}

// ParseMove resolves a from/to pair against the legal moves. Promotions
// default to a queen. It returns NoMove when no legal move matches.
func (p *Position) ParseMove(from, to Square) Move {
	found := NoMove
	for _, m := range p.LegalMoves() {
		if m.From() != from || m.To() != to {
			continue
		}
		promo := m.Promoted()
		if promo == Empty || promo == WhiteQueen || promo == BlackQueen {
			return m
		}
		if found == NoMove {
			found = m
		}
	}
	return found
}

// ParseMoveString parses coordinate notation ("e2e4", "e7e8n") and resolves
// it against the legal moves.
func (p *Position) ParseMoveString(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	promo := Empty
	if len(s) == 5 {
		var ok bool
		if promo, ok = PieceFromChar(s[4]); !ok || promo.IsPawn() || promo.IsKing() {
			return NoMove, fmt.Errorf("invalid promotion piece: %q", s[4])
		}
	}
	for _, m := range p.LegalMoves() {
		if m.From() != from || m.To() != to {
			continue
		}
		got := m.Promoted()
		if promo == Empty && got == Empty {
			return m, nil
		}
		if promo != Empty && got != Empty && sameKind(got, promo) {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

// sameKind reports whether a and b are the same piece kind ignoring color.
func sameKind(a, b Piece) bool {
	if a > WhiteKing {
		a -= 6
	}
	if b > WhiteKing {
		b -= 6
	}
	return a == b
}
