package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keySettings   = "settings"
	keyStats      = "stats"
	gameKeyPrefix = "game/"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Settings stores engine configuration shared by the binaries.
type Settings struct {
	MoveTime time.Duration `json:"move_time"`
	MaxDepth int           `json:"max_depth"`
}

// DefaultSettings returns the settings used when none were saved.
func DefaultSettings() *Settings {
	return &Settings{
		MoveTime: 3 * time.Second,
		MaxDepth: 0,
	}
}

// GameRecord is a persisted game: the starting position plus the moves
// played from it in coordinate notation. Replaying the moves restores the
// game, including its repetition history.
type GameRecord struct {
	ID        string    `json:"id"`
	StartFEN  string    `json:"start_fen"`
	Moves     []string  `json:"moves"`
	Result    string    `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stats stores finished game counts.
type Stats struct {
	GamesPlayed int            `json:"games_played"`
	WhiteWins   int            `json:"white_wins"`
	BlackWins   int            `json:"black_wins"`
	Draws       int            `json:"draws"`
	DrawReasons map[string]int `json:"draw_reasons"`
}

// NewStats returns empty statistics
func NewStats() *Stats {
	return &Stats{DrawReasons: make(map[string]int)}
}

// DrawRate returns the share of drawn games as a percentage (0-100)
func (s *Stats) DrawRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesPlayed) * 100
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// OpenInMemory opens a database that lives only in memory.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value at key into v. It returns ErrNotFound for a
// missing key.
func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// SaveSettings saves engine settings
func (s *Storage) SaveSettings(settings *Settings) error {
	return s.put(keySettings, settings)
}

// LoadSettings loads engine settings, returns defaults if not found
func (s *Storage) LoadSettings() (*Settings, error) {
	settings := DefaultSettings()
	if err := s.get(keySettings, settings); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return settings, nil
}

// SaveGame stores rec under its id, replacing any previous version.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == "" {
		return errors.New("storage: game record without id")
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	return s.put(gameKeyPrefix+rec.ID, rec)
}

// LoadGame returns the record stored under id.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	rec := &GameRecord{}
	if err := s.get(gameKeyPrefix+id, rec); err != nil {
		return nil, fmt.Errorf("load game %q: %w", id, err)
	}
	return rec, nil
}

// DeleteGame removes the record stored under id. Deleting a missing game is
// not an error.
func (s *Storage) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(gameKeyPrefix + id))
	})
}

// ListGames returns every stored game, most recently updated first.
func (s *Storage) ListGames() ([]*GameRecord, error) {
	var recs []*GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gameKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			rec := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].UpdatedAt.After(recs[j].UpdatedAt)
	})
	return recs, nil
}

// LoadStats loads statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()
	if err := s.get(keyStats, stats); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if stats.DrawReasons == nil {
		stats.DrawReasons = make(map[string]int)
	}
	return stats, nil
}

// RecordResult adds a finished game to the statistics. result uses the
// outcome notation "checkmate:<white|black>" or "draw:<reason>".
func (s *Storage) RecordResult(result string) error {
	kind, detail, ok := strings.Cut(result, ":")
	if !ok {
		return fmt.Errorf("storage: malformed result %q", result)
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	switch {
	case kind == "checkmate" && detail == "white":
		stats.WhiteWins++
	case kind == "checkmate" && detail == "black":
		stats.BlackWins++
	case kind == "draw":
		stats.Draws++
		stats.DrawReasons[detail]++
	default:
		return fmt.Errorf("storage: malformed result %q", result)
	}
	stats.GamesPlayed++

	return s.put(keyStats, stats)
}
