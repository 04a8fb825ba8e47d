package engine

import (
	"strings"
	"testing"

	"github.com/hailam/boxchess/internal/board"
)

// mirrorFEN flips the board vertically, swaps piece colors and the side to
// move. Castling and en passant are dropped.
func mirrorFEN(fen string) string {
	fields := strings.Fields(fen)
	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	placement := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		}
		return r
	}, strings.Join(ranks, "/"))
	side := "b"
	if fields[1] == "b" {
		side = "w"
	}
	return placement + " " + side + " - - 0 1"
}

func TestEvaluateStartPosition(t *testing.T) {
	if got := Evaluate(board.NewPosition()); got != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", got)
	}
}

func TestEvaluateMaterial(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		// Queen 1000 plus half the rook table value on d1.
		{"white queen, white to move", "4k3/8/8/8/8/8/8/3QK3 w - - 0 1", 1005},
		{"white queen, black to move", "4k3/8/8/8/8/8/8/3QK3 b - - 0 1", -1005},
		// Two bishops on c1 and f1 score -10 each from the table.
		{"bishop pair", "4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1", 650 - 20 + BishopPair},
		{"lone pawn on seventh", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", 100 + 20},
		{"black pawn on second", "4k3/8/8/8/8/8/p7/4K3 b - - 0 1", 100 + 20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(mustParseFEN(t, tc.fen)); got != tc.want {
				t.Errorf("Evaluate(%s) = %d, want %d", tc.fen, got, tc.want)
			}
		})
	}
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbqkb1r/pp1p1ppp/5n2/2p1p3/4P3/2N2N2/PPPP1PPP/R1BQKB1R w KQkq - 0 4",
	}
	for _, fen := range fens {
		pos := mustParseFEN(t, fen)
		mirrored := mustParseFEN(t, mirrorFEN(fen))
		if a, b := Evaluate(pos), Evaluate(mirrored); a != b {
			t.Errorf("%s: %d, mirrored %d", fen, a, b)
		}
	}
}
