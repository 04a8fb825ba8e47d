package board

import (
	"fmt"
	"strings"
)

// SAN returns m in Standard Algebraic Notation. m must be legal.
func (p *Position) SAN(m Move) string {
	if m == NoMove {
		return "-"
	}
	from, to := m.From(), m.To()
	pce := p.pieces[from]
	if pce == Empty || pce == OffBoard {
		return m.String()
	}

	var sb strings.Builder
	if m.IsCastling() {
		if to > from {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		if !pce.IsPawn() {
			sb.WriteByte(upperLetter(pce))
			sb.WriteString(p.disambiguation(m, pce))
		}
		if m.IsCapture() {
			if pce.IsPawn() {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if promo := m.Promoted(); promo != Empty {
			sb.WriteByte('=')
			sb.WriteByte(upperLetter(promo))
		}
	}

	if p.MakeMove(m) {
		if p.InCheck() {
			if p.HasLegalMove() {
				sb.WriteByte('+')
			} else {
				sb.WriteByte('#')
			}
		}
		p.TakeMove()
	}
	return sb.String()
}

func upperLetter(pce Piece) byte {
	return strings.ToUpper(pce.String())[0]
}

// disambiguation returns the file, rank or square needed to tell m apart
// from other legal moves of the same piece kind to the same square.
func (p *Position) disambiguation(m Move, pce Piece) string {
	from, to := m.From(), m.To()
	var sameFile, sameRank, ambiguous bool
	for _, other := range p.LegalMoves() {
		of := other.From()
		if other.To() != to || of == from || p.pieces[of] != pce {
			continue
		}
		ambiguous = true
		if of.File() == from.File() {
			sameFile = true
		}
		if of.Rank() == from.Rank() {
			sameRank = true
		}
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// ParseSAN resolves a SAN string against the legal moves.
func (p *Position) ParseSAN(s string) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	legal := p.LegalMoves()
	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		long := len(s) == 5
		for _, m := range legal {
			if m.IsCastling() && (m.To() < m.From()) == long {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, orig)
	}

	promo := byte(0)
	if i := strings.IndexByte(s, '='); i >= 0 && i+1 < len(s) {
		promo = s[i+1]
		s = s[:i]
	}
	capture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	kind := byte('P')
	if len(s) > 0 && strings.IndexByte("NBRQK", s[0]) >= 0 {
		kind = s[0]
		s = s[1:]
	}
	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid SAN: %q", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("invalid SAN: %q", orig)
	}
	fileHint, rankHint := -1, -1
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			fileHint = int(c - 'a')
		case c >= '1' && c <= '8':
			rankHint = int(c - '1')
		}
	}

	for _, m := range legal {
		from := m.From()
		if m.To() != dest || m.IsCastling() || upperLetter(p.pieces[from]) != kind {
			continue
		}
		if fileHint >= 0 && from.File() != fileHint || rankHint >= 0 && from.Rank() != rankHint {
			continue
		}
		if capture && !m.IsCapture() {
			continue
		}
		if promo != 0 {
			if !m.IsPromotion() || upperLetter(m.Promoted()) != promo {
				continue
			}
		} else if m.IsPromotion() && upperLetter(m.Promoted()) != 'Q' {
			continue
		}
		return m, nil
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, orig)
}

// MovesToSAN converts a sequence of moves played from pos to SAN. pos is
// not modified.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, 0, len(moves))
	p := pos.Copy()
	p.Ply = 0
	for _, m := range moves {
		result = append(result, p.SAN(m))
		if !p.CommitMove(m) {
			break
		}
	}
	return result
}
