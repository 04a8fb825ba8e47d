package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hailam/boxchess/internal/board"
	"github.com/hailam/boxchess/internal/game"
	"github.com/hailam/boxchess/internal/storage"
)

func TestSession(t *testing.T) {
	mgr := game.NewManager(game.WithGameOptions(game.WithMaxDepth(3)))
	id, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	s := &session{
		mgr:      mgr,
		id:       id,
		human:    board.White,
		moveTime: time.Second,
		in:       bufio.NewScanner(strings.NewReader("e2e4\nbogus\nundo\nfen\nquit\n")),
		out:      &out,
	}
	if err := s.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Engine plays ",
		`Illegal move "bogus"`,
		board.StartFEN + "\n",
		"Saved as " + id,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestSessionEndsOnMate(t *testing.T) {
	mgr := game.NewManager()
	id, _ := mgr.Create()
	mgr.Do(id, func(g *game.Game) error {
		return g.LoadFEN("k7/8/1K6/8/8/8/8/7R w - - 0 1")
	})

	var out bytes.Buffer
	s := &session{
		mgr:      mgr,
		id:       id,
		human:    board.Black,
		moveTime: 2 * time.Second,
		in:       bufio.NewScanner(strings.NewReader("")),
		out:      &out,
	}
	if err := s.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if !strings.Contains(out.String(), "Game over: white wins by checkmate") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestListGames(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	store.SaveGame(&storage.GameRecord{ID: "abc", StartFEN: board.StartFEN, Moves: []string{"e2e4"}})
	store.RecordResult("draw:stalemate")

	var out bytes.Buffer
	if err := listGames(store, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "abc") || !strings.Contains(out.String(), "1 finished") {
		t.Errorf("output:\n%s", out.String())
	}
	if err := listGames(nil, &out); err == nil {
		t.Error("listGames without store succeeded")
	}
}
