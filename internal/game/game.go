// Package game is the boundary facade over the board and the engine: one
// Game per session, and a Manager that owns sessions by id.
package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/boxchess/internal/board"
	"github.com/hailam/boxchess/internal/engine"
)

// ErrGameOver is returned when a move is requested in a finished game.
var ErrGameOver = errors.New("game is over")

// PieceInfo describes one occupied square.
type PieceInfo struct {
	Square string // "e4"
	Piece  string // FEN letter, upper case for white
}

// Game pairs a position with the engine that plays in it. A Game is not safe
// for concurrent use; the Manager serializes access per session.
type Game struct {
	pos      *board.Position
	startFEN string
	eng      *engine.Engine
	maxDepth int
	log      zerolog.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger for the game and its engine.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) { g.log = l }
}

// WithEngine makes the game search with eng instead of a private engine.
func WithEngine(eng *engine.Engine) Option {
	return func(g *Game) { g.eng = eng }
}

// WithMaxDepth caps the depth of engine searches (0 = no cap).
func WithMaxDepth(depth int) Option {
	return func(g *Game) { g.maxDepth = depth }
}

// New creates a game at the standard starting position.
func New(opts ...Option) *Game {
	g := &Game{
		pos:      board.NewPosition(),
		startFEN: board.StartFEN,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.eng == nil {
		g.eng = engine.NewEngine(0, engine.WithLogger(g.log))
	}
	return g
}

// LoadFEN replaces the game with the position described by fen. On error the
// game is left unchanged.
func (g *Game) LoadFEN(fen string) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	g.pos = pos
	g.startFEN = pos.FEN()
	g.eng.Clear()
	return nil
}

// FEN returns the current position.
func (g *Game) FEN() string {
	return g.pos.FEN()
}

// StartFEN returns the position the game was started or loaded from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	return g.pos.Copy()
}

// SideToMove returns the color to move.
func (g *Game) SideToMove() board.Color {
	return g.pos.Side
}

// Pieces lists every occupied square from a1 to h8.
func (g *Game) Pieces() []PieceInfo {
	var out []PieceInfo
	for i := 0; i < 64; i++ {
		sq := board.SquareFrom64(i)
		if pce := g.pos.PieceAt(sq); pce != board.Empty {
			out = append(out, PieceInfo{Square: sq.String(), Piece: pce.String()})
		}
	}
	return out
}

// MovableSquares returns the squares holding a piece with at least one legal
// move, sorted.
func (g *Game) MovableSquares() []string {
	seen := make(map[board.Square]bool)
	for _, m := range g.pos.LegalMoves() {
		seen[m.From()] = true
	}
	out := make([]string, 0, len(seen))
	for sq := range seen {
		out = append(out, sq.String())
	}
	sort.Strings(out)
	return out
}

// Targets returns the legal destination squares of the piece on from,
// sorted. An unknown square yields nil.
func (g *Game) Targets(from string) []string {
	sq, err := board.ParseSquare(from)
	if err != nil {
		return nil
	}
	seen := make(map[board.Square]bool)
	for _, m := range g.pos.LegalMoves() {
		if m.From() == sq {
			seen[m.To()] = true
		}
	}
	out := make([]string, 0, len(seen))
	for to := range seen {
		out = append(out, to.String())
	}
	sort.Strings(out)
	return out
}

// TryMove plays the move from -> to if it is legal and returns it. A pawn
// reaching the last rank promotes to a queen. It returns NoMove for an
// illegal move, a malformed square, or a finished game.
func (g *Game) TryMove(from, to string) board.Move {
	f, err := board.ParseSquare(from)
	if err != nil {
		return board.NoMove
	}
	t, err := board.ParseSquare(to)
	if err != nil {
		return board.NoMove
	}
	if g.Status().IsOver() {
		return board.NoMove
	}
	m := g.pos.ParseMove(f, t)
	if m == board.NoMove || !g.pos.CommitMove(m) {
		return board.NoMove
	}
	return m
}

// PlayMove plays a move given in coordinate ("e7e8q") or algebraic ("Nf3")
// notation.
func (g *Game) PlayMove(s string) (board.Move, error) {
	if g.Status().IsOver() {
		return board.NoMove, ErrGameOver
	}
	m, err := g.pos.ParseMoveString(s)
	if err != nil {
		var sanErr error
		if m, sanErr = g.pos.ParseSAN(s); sanErr != nil {
			return board.NoMove, err
		}
	}
	if !g.pos.CommitMove(m) {
		return board.NoMove, fmt.Errorf("%w: %s", board.ErrIllegalMove, s)
	}
	return m, nil
}

// EngineMove searches the current position for at most moveTime, plays the
// best move and returns the search result.
func (g *Game) EngineMove(ctx context.Context, moveTime time.Duration) (engine.Result, error) {
	if g.Status().IsOver() {
		return engine.Result{}, ErrGameOver
	}
	res := g.eng.Search(ctx, g.pos, engine.SearchLimits{Depth: g.maxDepth, MoveTime: moveTime})
	if res.Move == board.NoMove {
		return res, ErrGameOver
	}
	if !g.pos.CommitMove(res.Move) {
		return res, fmt.Errorf("%w: engine move %v", board.ErrIllegalMove, res.Move)
	}
	g.log.Debug().
		Str("move", res.Move.String()).
		Str("score", res.ScoreString()).
		Int("depth", res.Depth).
		Dur("elapsed", res.Elapsed).
		Msg("engine move")
	return res, nil
}

// Undo takes back the last move. It reports false when there is none.
func (g *Game) Undo() bool {
	return g.pos.UndoMove()
}

// Status returns the game-over verdict for the current position.
func (g *Game) Status() board.Outcome {
	return g.pos.Outcome()
}

// Moves returns the moves played so far in coordinate notation.
func (g *Game) Moves() []string {
	hist := g.pos.MoveHistory()
	out := make([]string, len(hist))
	for i, m := range hist {
		out[i] = m.String()
	}
	return out
}

// History returns the moves played so far in standard algebraic notation.
func (g *Game) History() []string {
	start, err := board.ParseFEN(g.startFEN)
	if err != nil {
		return nil
	}
	return board.MovesToSAN(start, g.pos.MoveHistory())
}

// Perft counts leaf nodes of the legal move tree from the current position.
func (g *Game) Perft(depth int) uint64 {
	return g.pos.Perft(depth)
}

// replay rebuilds a game from its starting position and move list.
func replay(g *Game, startFEN string, moves []string) error {
	if err := g.LoadFEN(startFEN); err != nil {
		return err
	}
	for i, s := range moves {
		m, err := g.pos.ParseMoveString(s)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		if !g.pos.CommitMove(m) {
			return fmt.Errorf("move %d: %w: %s", i+1, board.ErrIllegalMove, s)
		}
	}
	return nil
}
