package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/boxchess/internal/board"
)

func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, s := range moves {
		if _, err := g.PlayMove(s); err != nil {
			t.Fatalf("PlayMove(%q): %v", s, err)
		}
	}
}

func TestNewGame(t *testing.T) {
	g := New()
	if g.FEN() != board.StartFEN {
		t.Errorf("FEN() = %s", g.FEN())
	}
	if g.SideToMove() != board.White {
		t.Error("white should move first")
	}

	pieces := g.Pieces()
	if len(pieces) != 32 {
		t.Fatalf("%d pieces, want 32", len(pieces))
	}
	if diff := cmp.Diff(PieceInfo{Square: "a1", Piece: "R"}, pieces[0]); diff != "" {
		t.Errorf("first piece (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(PieceInfo{Square: "h8", Piece: "r"}, pieces[31]); diff != "" {
		t.Errorf("last piece (-want +got):\n%s", diff)
	}

	want := []string{"a2", "b1", "b2", "c2", "d2", "e2", "f2", "g1", "g2", "h2"}
	if diff := cmp.Diff(want, g.MovableSquares()); diff != "" {
		t.Errorf("MovableSquares (-want +got):\n%s", diff)
	}
}

func TestTargets(t *testing.T) {
	g := New()
	tests := []struct {
		from string
		want []string
	}{
		{"g1", []string{"f3", "h3"}},
		{"e2", []string{"e3", "e4"}},
		{"e1", []string{}},
		{"e4", []string{}},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, g.Targets(tc.from)); diff != "" {
			t.Errorf("Targets(%s) (-want +got):\n%s", tc.from, diff)
		}
	}
	if got := g.Targets("z9"); got != nil {
		t.Errorf("Targets(z9) = %v, want nil", got)
	}
}

func TestTryMove(t *testing.T) {
	g := New()
	if m := g.TryMove("e2", "e5"); m != board.NoMove {
		t.Errorf("illegal e2e5 returned %v", m)
	}
	if m := g.TryMove("e2", "x9"); m != board.NoMove {
		t.Errorf("malformed square returned %v", m)
	}
	if g.FEN() != board.StartFEN {
		t.Fatalf("rejected move changed position: %s", g.FEN())
	}
	if m := g.TryMove("e2", "e4"); m.String() != "e2e4" {
		t.Errorf("TryMove(e2, e4) = %v", m)
	}
	if g.SideToMove() != board.Black {
		t.Error("side did not switch")
	}
	// White pieces cannot move on black's turn.
	if m := g.TryMove("d2", "d4"); m != board.NoMove {
		t.Errorf("out of turn move returned %v", m)
	}
}

func TestTryMovePromotesToQueen(t *testing.T) {
	g := New()
	if err := g.LoadFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	m := g.TryMove("a7", "a8")
	if m.String() != "a7a8q" {
		t.Errorf("TryMove(a7, a8) = %v, want a7a8q", m)
	}
	if g.FEN() != "Q7/7k/8/8/8/8/8/K7 b - - 0 1" {
		t.Errorf("FEN() = %s", g.FEN())
	}
}

func TestPlayMoveNotations(t *testing.T) {
	g := New()
	play(t, g, "e2e4", "c5", "Nf3", "d7d6")
	if diff := cmp.Diff([]string{"e2e4", "c7c5", "g1f3", "d7d6"}, g.Moves()); diff != "" {
		t.Errorf("Moves() (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"e4", "c5", "Nf3", "d6"}, g.History()); diff != "" {
		t.Errorf("History() (-want +got):\n%s", diff)
	}
	if _, err := g.PlayMove("Ke3"); err == nil {
		t.Error("PlayMove(Ke3) succeeded")
	}
}

func TestUndo(t *testing.T) {
	g := New()
	if g.Undo() {
		t.Error("Undo on a new game returned true")
	}
	play(t, g, "e2e4")
	after := g.FEN()
	play(t, g, "e7e5")
	if !g.Undo() {
		t.Fatal("Undo returned false")
	}
	if g.FEN() != after {
		t.Errorf("FEN after undo = %s, want %s", g.FEN(), after)
	}
	if !g.Undo() || g.FEN() != board.StartFEN {
		t.Errorf("second undo left %s", g.FEN())
	}
}

func TestLoadFEN(t *testing.T) {
	g := New()
	play(t, g, "d2d4")
	before := g.FEN()
	if err := g.LoadFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1"); !errors.Is(err, board.ErrInvalidFEN) {
		t.Errorf("LoadFEN error = %v, want ErrInvalidFEN", err)
	}
	if g.FEN() != before {
		t.Errorf("failed LoadFEN changed position to %s", g.FEN())
	}

	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	if err := g.LoadFEN(fen); err != nil {
		t.Fatal(err)
	}
	if g.FEN() != fen || g.StartFEN() != fen || len(g.Moves()) != 0 {
		t.Errorf("after LoadFEN: fen %s start %s moves %v", g.FEN(), g.StartFEN(), g.Moves())
	}
	if got := g.Perft(2); got != 2039 {
		t.Errorf("Perft(2) = %d, want 2039", got)
	}
}

func TestStatusAfterCheckmate(t *testing.T) {
	g := New()
	play(t, g, "f2f3", "e7e5", "g2g4", "Qh4")

	if got := g.Status().String(); got != "checkmate:black" {
		t.Errorf("Status() = %q, want checkmate:black", got)
	}
	if diff := cmp.Diff([]string{"f3", "e5", "g4", "Qh4#"}, g.History()); diff != "" {
		t.Errorf("History() (-want +got):\n%s", diff)
	}
	if m := g.TryMove("e1", "f2"); m != board.NoMove {
		t.Errorf("move after mate returned %v", m)
	}
	if _, err := g.PlayMove("a2a3"); !errors.Is(err, ErrGameOver) {
		t.Errorf("PlayMove after mate error = %v", err)
	}
	if _, err := g.EngineMove(context.Background(), 10*time.Millisecond); !errors.Is(err, ErrGameOver) {
		t.Errorf("EngineMove after mate error = %v", err)
	}
}

func TestStatusThreefold(t *testing.T) {
	g := New()
	play(t, g, "g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1")
	if g.Status().IsOver() {
		t.Fatalf("draw declared early: %v", g.Status())
	}
	play(t, g, "f6g8")
	if got := g.Status().String(); got != "draw:threefold repetition" {
		t.Errorf("Status() = %q", got)
	}
}

func TestEngineMove(t *testing.T) {
	g := New(WithMaxDepth(4))
	if err := g.LoadFEN("k7/8/1K6/8/8/8/8/7R w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	res, err := g.EngineMove(context.Background(), 5*time.Second)
	if err != nil {
		t.Fatalf("EngineMove: %v", err)
	}
	if res.Move.String() != "h1h8" {
		t.Errorf("engine played %v, want h1h8", res.Move)
	}
	if got := g.Status().String(); got != "checkmate:white" {
		t.Errorf("Status() = %q", got)
	}
}

func TestReplay(t *testing.T) {
	src := New()
	play(t, src, "e2e4", "e7e5", "g1f3", "b8c6", "f1b5")

	g := New()
	if err := replay(g, src.StartFEN(), src.Moves()); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if g.FEN() != src.FEN() {
		t.Errorf("replayed FEN %s, want %s", g.FEN(), src.FEN())
	}
	if err := replay(New(), board.StartFEN, []string{"e2e4", "e2e4"}); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("replay of illegal move error = %v", err)
	}
}
