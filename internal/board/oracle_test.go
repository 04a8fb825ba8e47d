package board

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

// Cross-checks against two independent move generators.

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += dragontoothPerft(b, depth-1)
		unapply()
	}
	return nodes
}

func TestPerftMatchesDragontooth(t *testing.T) {
	fens := []string{
		StartFEN,
		kiwipeteFEN,
		position3FEN,
		position4FEN,
		position5FEN,
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	}
	depth := 3
	if testing.Short() {
		depth = 2
	}
	for _, fen := range fens {
		pos := mustParseFEN(t, fen)
		ref := dragontoothmg.ParseFen(fen)
		if got, want := pos.Perft(depth), dragontoothPerft(&ref, depth); got != want {
			t.Errorf("%s: Perft(%d) = %d, reference %d", fen, depth, got, want)
		}
	}
}

func sortedStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	slices.Sort(out)
	return out
}

// Random playouts compare the legal move set at every step with
// notnil/chess, and the game-over verdict at the end.
func TestLegalMovesMatchReferenceOnPlayouts(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for game := 0; game < 12; game++ {
		pos := NewPosition()
		ref := chess.NewGame()

		for ply := 0; ply < 160; ply++ {
			got := sortedStrings(pos.LegalMoves())

			valid := ref.ValidMoves()
			want := make([]string, len(valid))
			for i, m := range valid {
				want[i] = m.String()
			}
			slices.Sort(want)

			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("game %d ply %d (%s): legal moves differ (-reference +got):\n%s", game, ply, pos.FEN(), diff)
			}
			if len(got) == 0 {
				break
			}

			pick := got[rng.Intn(len(got))]
			m, err := pos.ParseMoveString(pick)
			if err != nil {
				t.Fatalf("ParseMoveString(%q): %v", pick, err)
			}
			pos.CommitMove(m)
			for _, rm := range valid {
				if rm.String() == pick {
					if err := ref.Move(rm); err != nil {
						t.Fatalf("reference rejected %s: %v", pick, err)
					}
					break
				}
			}
			if pos.Key != pos.ComputeKey() {
				t.Fatalf("game %d ply %d: incremental key drifted", game, ply)
			}
		}

		mated := pos.InCheck() && !pos.HasLegalMove()
		if (ref.Method() == chess.Checkmate) != mated {
			t.Errorf("game %d: reference method %v, checkmate here %v", game, ref.Method(), mated)
		}
	}
}
