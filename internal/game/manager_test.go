package game

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/boxchess/internal/board"
	"github.com/hailam/boxchess/internal/storage"
)

var _ Store = (*storage.Storage)(nil)

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	id, err := m.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(id) != 16 {
		t.Errorf("id %q, want 16 hex digits", id)
	}
	if diff := cmp.Diff([]string{id}, m.IDs()); diff != "" {
		t.Errorf("IDs() (-want +got):\n%s", diff)
	}

	err = m.Do(id, func(g *Game) error {
		if g.TryMove("e2", "e4") == board.NoMove {
			return errors.New("e2e4 rejected")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	wantErr := errors.New("boom")
	if err := m.Do(id, func(*Game) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("Do error = %v, want %v", err, wantErr)
	}

	if err := m.Do("nope", func(*Game) error { return nil }); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Do(unknown) error = %v", err)
	}
	if err := m.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := m.Remove(id); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("second Remove error = %v", err)
	}
	if len(m.IDs()) != 0 {
		t.Errorf("IDs() after remove = %v", m.IDs())
	}
}

func TestManagerSerializesPerGame(t *testing.T) {
	m := NewManager()
	ids := make([]string, 3)
	for i := range ids {
		id, err := m.Create()
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = id
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for w := 0; w < 12; w++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				err := m.Do(id, func(g *Game) error {
					if g.TryMove("g1", "f3") == board.NoMove {
						return fmt.Errorf("g1f3 rejected in %s", g.FEN())
					}
					if !g.Undo() {
						return errors.New("undo failed")
					}
					return nil
				})
				if err != nil {
					errs <- err
					return
				}
			}
		}(ids[w%len(ids)])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	for _, id := range ids {
		m.Do(id, func(g *Game) error {
			if g.FEN() != board.StartFEN {
				t.Errorf("game %s ended at %s", id, g.FEN())
			}
			return nil
		})
	}
}

func TestManagerPersistence(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	m := NewManager(WithStore(store))
	id, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}
	foolsMate := []string{"f2f3", "e7e5", "g2g4", "d8h4"}
	for _, s := range foolsMate {
		if err := m.Do(id, func(g *Game) error {
			_, err := g.PlayMove(s)
			return err
		}); err != nil {
			t.Fatalf("Do(%s): %v", s, err)
		}
	}
	// A call on a finished game must not count the result again.
	m.Do(id, func(*Game) error { return nil })

	rec, err := store.LoadGame(id)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if diff := cmp.Diff(foolsMate, rec.Moves); diff != "" {
		t.Errorf("stored moves (-want +got):\n%s", diff)
	}
	if rec.Result != "checkmate:black" || rec.StartFEN != board.StartFEN {
		t.Errorf("stored record = %+v", rec)
	}

	// A second manager restores the game from the store.
	m2 := NewManager(WithStore(store))
	err = m2.Do(id, func(g *Game) error {
		if diff := cmp.Diff(foolsMate, g.Moves()); diff != "" {
			t.Errorf("restored moves (-want +got):\n%s", diff)
		}
		if got := g.Status().String(); got != "checkmate:black" {
			t.Errorf("restored status %q", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	stats, err := store.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 1 || stats.BlackWins != 1 {
		t.Errorf("stats = %+v, want one black win", stats)
	}

	// Undoing the mate and playing it again counts a second result.
	for _, step := range []func(g *Game) error{
		func(g *Game) error {
			if !g.Undo() {
				return errors.New("undo failed")
			}
			return nil
		},
		func(g *Game) error {
			_, err := g.PlayMove("d8h4")
			return err
		},
		func(*Game) error { return nil },
	} {
		if err := m2.Do(id, step); err != nil {
			t.Fatalf("Do after restore: %v", err)
		}
	}
	stats, err = store.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 2 || stats.BlackWins != 2 {
		t.Errorf("stats after replaying the mate = %+v, want two black wins", stats)
	}

	if err := m2.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.LoadGame(id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("LoadGame after Remove error = %v", err)
	}
}
