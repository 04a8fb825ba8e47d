package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hailam/boxchess/internal/storage"
)

// ErrUnknownGame is returned for an id that names no session.
var ErrUnknownGame = errors.New("unknown game")

// Store persists sessions. *storage.Storage satisfies it.
type Store interface {
	SaveGame(rec *storage.GameRecord) error
	LoadGame(id string) (*storage.GameRecord, error)
	DeleteGame(id string) error
	RecordResult(result string) error
}

type entry struct {
	mu       sync.Mutex
	game     *Game
	recorded bool // current result already counted in the store
}

// Manager owns games by id. Calls for the same id are serialized; calls for
// different ids run in parallel.
type Manager struct {
	mu    sync.Mutex
	games map[string]*entry

	store    Store
	gameOpts []Option
	log      zerolog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStore persists every game after each call and restores games that are
// not in memory.
func WithStore(s Store) ManagerOption {
	return func(m *Manager) { m.store = s }
}

// WithGameOptions applies opts to every game the manager creates.
func WithGameOptions(opts ...Option) ManagerOption {
	return func(m *Manager) { m.gameOpts = append(m.gameOpts, opts...) }
}

// WithManagerLogger sets the logger for session lifecycle events.
func WithManagerLogger(l zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.log = l }
}

// NewManager creates an empty manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		games: make(map[string]*entry),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// Create starts a new game at the standard position and returns its id.
func (m *Manager) Create() (string, error) {
	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("create game: %w", err)
	}
	e := &entry{game: New(m.gameOpts...)}
	e.mu.Lock()
	defer e.mu.Unlock()

	m.mu.Lock()
	m.games[id] = e
	m.mu.Unlock()

	if err := m.persist(id, e); err != nil {
		return "", err
	}
	m.log.Info().Str("game", id).Msg("game created")
	return id, nil
}

// lookup returns the entry for id, restoring it from the store when it is
// not in memory.
func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.games[id]; ok {
		return e, nil
	}
	if m.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, id)
	}

	rec, err := m.store.LoadGame(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, id)
	}
	if err != nil {
		return nil, err
	}
	g := New(m.gameOpts...)
	if err := replay(g, rec.StartFEN, rec.Moves); err != nil {
		return nil, fmt.Errorf("restore game %s: %w", id, err)
	}
	e := &entry{game: g, recorded: rec.Result != ""}
	m.games[id] = e
	m.log.Info().Str("game", id).Int("moves", len(rec.Moves)).Msg("game restored")
	return e, nil
}

// Do runs fn with exclusive access to the game id. When a store is
// configured the game is saved afterwards, and a finished game's result is
// counted once.
func (m *Manager) Do(id string, fn func(*Game) error) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	fnErr := fn(e.game)
	if err := m.persist(id, e); err != nil {
		return errors.Join(fnErr, err)
	}
	return fnErr
}

// persist saves the game and records its result. The caller holds e.mu.
func (m *Manager) persist(id string, e *entry) error {
	if m.store == nil {
		return nil
	}
	status := e.game.Status()
	rec := &storage.GameRecord{
		ID:       id,
		StartFEN: e.game.StartFEN(),
		Moves:    e.game.Moves(),
		Result:   status.String(),
	}
	if err := m.store.SaveGame(rec); err != nil {
		return fmt.Errorf("save game %s: %w", id, err)
	}

	switch {
	case !status.IsOver():
		// An undo reopened the game; its next result counts again.
		e.recorded = false
	case !e.recorded:
		if err := m.store.RecordResult(status.String()); err != nil {
			return fmt.Errorf("record result %s: %w", id, err)
		}
		e.recorded = true
		m.log.Info().Str("game", id).Str("result", status.String()).Msg("game finished")
	}
	return nil
}

// Remove forgets the game id and deletes it from the store.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	_, ok := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()

	if m.store != nil {
		if _, err := m.store.LoadGame(id); err == nil {
			ok = true
		}
		if err := m.store.DeleteGame(id); err != nil {
			return err
		}
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGame, id)
	}
	m.log.Info().Str("game", id).Msg("game removed")
	return nil
}

// IDs returns the ids of the games held in memory, sorted.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
