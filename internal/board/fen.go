package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every FEN parse error.
var ErrInvalidFEN = errors.New("invalid FEN")

// ParseFEN parses a FEN string into a new Position. Only the piece placement
// field is required; missing trailing fields take their usual defaults
// (white to move, no castling, no en passant, clocks 0 and 1).
func ParseFEN(fen string) (*Position, error) {
	pos := &Position{}
	pos.reset()

	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidFEN)
	}
	if len(parts) > 6 {
		return nil, fmt.Errorf("%w: %d fields", ErrInvalidFEN, len(parts))
	}

	if err := parsePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	pos.Side = White
	if len(parts) > 1 {
		switch parts[1] {
		case "w":
		case "b":
			pos.Side = Black
			pos.startBlack = true
		default:
			return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, parts[1])
		}
	}

	if len(parts) > 2 {
		cr, err := parseCastling(parts[2])
		if err != nil {
			return nil, err
		}
		pos.Castle = cr & pos.possibleCastling()
	}

	if len(parts) > 3 && parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, parts[3])
		}
		want := 5
		if pos.Side == Black {
			want = 2
		}
		if sq.Rank() != want {
			return nil, fmt.Errorf("%w: en passant square %v with %v to move", ErrInvalidFEN, sq, pos.Side)
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: half-move clock %q", ErrInvalidFEN, parts[4])
		}
		pos.FiftyMove = n
	}

	if len(parts) > 5 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: full-move number %q", ErrInvalidFEN, parts[5])
		}
		if n > 0 {
			pos.startFullMove = n
		}
	}

	pos.Key = pos.ComputeKey()

	if pos.SqAttacked(pos.KingSquare(pos.Side.Other()), pos.Side) {
		return nil, fmt.Errorf("%w: side not to move is in check", ErrInvalidFEN)
	}
	return pos, nil
}

// SetFEN replaces the position with the one described by fen. On error the
// position is left untouched.
func (p *Position) SetFEN(fen string) error {
	pos, err := ParseFEN(fen)
	if err != nil {
		return err
	}
	*p = *pos
	return nil
}

func parsePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pce, ok := PieceFromChar(c)
			if !ok {
				return fmt.Errorf("%w: invalid piece character %q", ErrInvalidFEN, c)
			}
			if file > 7 {
				return fmt.Errorf("%w: rank %d has more than 8 squares", ErrInvalidFEN, rank+1)
			}
			if pce.IsPawn() && (rank == 0 || rank == 7) {
				return fmt.Errorf("%w: pawn on rank %d", ErrInvalidFEN, rank+1)
			}
			if pce.IsKing() && pos.pceNum[pce] > 0 {
				return fmt.Errorf("%w: more than one %v king", ErrInvalidFEN, pce.Color())
			}
			pos.addPiece(NewSquare(file, rank), pce)
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}
	if pos.pceNum[WhiteKing] != 1 || pos.pceNum[BlackKing] != 1 {
		return fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}
	return nil
}

func parseCastling(s string) (CastlingRights, error) {
	if s == "-" {
		return NoCastling, nil
	}
	var cr CastlingRights
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'K':
			cr |= WhiteKingSide
		case 'Q':
			cr |= WhiteQueenSide
		case 'k':
			cr |= BlackKingSide
		case 'q':
			cr |= BlackQueenSide
		default:
			return NoCastling, fmt.Errorf("%w: castling rights %q", ErrInvalidFEN, s)
		}
	}
	return cr, nil
}

// possibleCastling returns the rights whose king and rook stand on their
// home squares.
func (p *Position) possibleCastling() CastlingRights {
	var cr CastlingRights
	if p.pieces[E1] == WhiteKing {
		if p.pieces[H1] == WhiteRook {
			cr |= WhiteKingSide
		}
		if p.pieces[A1] == WhiteRook {
			cr |= WhiteQueenSide
		}
	}
	if p.pieces[E8] == BlackKing {
		if p.pieces[H8] == BlackRook {
			cr |= BlackKingSide
		}
		if p.pieces[A8] == BlackRook {
			cr |= BlackQueenSide
		}
	}
	return cr
}

// FEN returns the FEN string of the position.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pce := p.pieces[NewSquare(file, rank)]
			if pce == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(pce.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	if p.Side == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(p.Castle.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	fmt.Fprintf(&sb, " %d %d", p.FiftyMove, p.FullMove())
	return sb.String()
}
