// Package uci implements the Universal Chess Interface front-end.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/boxchess/internal/board"
	"github.com/hailam/boxchess/internal/engine"
)

// DefaultMoveTime is the budget for a "go" without time information.
const DefaultMoveTime = 3 * time.Second

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	tm       *engine.TimeManager

	in    io.Reader
	out   io.Writer
	outMu sync.Mutex
	log   zerolog.Logger

	moveTime time.Duration
	maxDepth int

	// Search state
	cancel     context.CancelFunc
	searchDone chan struct{}

	// CPU profiling
	profileFile *os.File
}

// Option configures a UCI handler.
type Option func(*UCI)

// WithLogger sets the diagnostic logger. Protocol output never goes to it.
func WithLogger(l zerolog.Logger) Option {
	return func(u *UCI) { u.log = l }
}

// WithMoveTime sets the budget used when "go" carries no time control.
func WithMoveTime(d time.Duration) Option {
	return func(u *UCI) { u.moveTime = d }
}

// WithMaxDepth caps the depth of searches that have no explicit depth.
func WithMaxDepth(depth int) Option {
	return func(u *UCI) { u.maxDepth = depth }
}

// New creates a UCI protocol handler reading commands from in and writing
// responses to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer, opts ...Option) *UCI {
	u := &UCI{
		engine:   eng,
		position: board.NewPosition(),
		tm:       engine.NewTimeManager(),
		in:       in,
		out:      out,
		log:      zerolog.Nop(),
		moveTime: DefaultMoveTime,
	}
	for _, opt := range opts {
		opt(u)
	}
	eng.OnInfo = u.sendInfo
	return u
}

func (u *UCI) send(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format+"\n", args...)
}

// Run reads commands until "quit" or end of input. A search still running at
// end of input is allowed to finish.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.send("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "eval":
			u.send("Evaluation: %d (side to move)", engine.Evaluate(u.position))
		case "perft":
			u.handlePerft(args)
		default:
			u.log.Debug().Str("command", line).Msg("unknown command")
		}
	}

	u.waitSearch()
	return scanner.Err()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.send("id name boxchess")
	u.send("id author boxchess developers")
	u.send("")
	u.send("option name MoveTime type spin default %d min 10 max 600000", DefaultMoveTime.Milliseconds())
	u.send("option name Depth type spin default 0 min 0 max %d", board.MaxDepth)
	u.send("option name Debug type check default false")
	u.send("option name CPUProfile type string default <empty>")
	u.send("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.engine.Clear()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// Moves are committed to the game history so repetitions are detected.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.handleStop()

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		fenStr := strings.Join(args[1:movesAt], " ")
		p, err := board.ParseFEN(fenStr)
		if err != nil {
			u.log.Warn().Err(err).Str("fen", fenStr).Msg("rejected position")
			u.send("info string invalid fen: %v", err)
			return
		}
		pos = p
	default:
		return
	}
	u.position = pos

	if movesAt >= len(args) {
		return
	}
	for _, moveStr := range args[movesAt+1:] {
		m, err := pos.ParseMoveString(moveStr)
		if err != nil || !pos.CommitMove(m) {
			u.log.Warn().Str("move", moveStr).Msg("rejected move")
			u.send("info string invalid move: %s", moveStr)
			return
		}
		if pos.HisPly >= board.MaxGameMoves-board.MaxDepth-1 {
			u.send("info string move history full")
			return
		}
	}
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// ClockLimits converts the options for the time manager.
func (o GoOptions) ClockLimits() engine.ClockLimits {
	return engine.ClockLimits{
		Time:      [2]time.Duration{o.WTime, o.BTime},
		Inc:       [2]time.Duration{o.WInc, o.BInc},
		MovesToGo: o.MovesToGo,
		MoveTime:  o.MoveTime,
		Infinite:  o.Infinite,
	}
}

func (o GoOptions) hasClock() bool {
	return o.Infinite || o.MoveTime > 0 || o.WTime > 0 || o.BTime > 0
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	u.handleStop()

	opts := ParseGoOptions(args)
	limits := u.searchLimits(opts)

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()
	done := u.searchDone

	go func() {
		defer close(done)
		defer cancel()

		res := u.engine.Search(ctx, pos, limits)
		u.log.Debug().
			Str("move", res.Move.String()).
			Int("depth", res.Depth).
			Uint64("nodes", res.Nodes).
			Dur("elapsed", res.Elapsed).
			Msg("search finished")
		// NoMove prints as 0000, the protocol's null move.
		u.send("bestmove %s", res.Move)
	}()
}

// searchLimits turns go options into engine limits.
func (u *UCI) searchLimits(opts GoOptions) engine.SearchLimits {
	depth := opts.Depth
	if depth == 0 {
		depth = u.maxDepth
	}
	if !opts.hasClock() {
		if opts.Depth > 0 {
			return engine.SearchLimits{Depth: depth}
		}
		opts.MoveTime = u.moveTime
	}

	ply := (u.position.FullMove()-1)*2 + int(u.position.Side)
	u.tm.Init(opts.ClockLimits(), u.position.Side, ply)
	u.log.Debug().
		Dur("optimum", u.tm.OptimumTime()).
		Dur("maximum", u.tm.MaximumTime()).
		Msg("time allocated")
	return u.tm.Limits(depth)
}

// ParseGoOptions parses "go" command arguments.
func ParseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	millis := func(i int) time.Duration {
		ms, _ := strconv.Atoi(args[i])
		return time.Duration(ms) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		if args[i] == "infinite" {
			opts.Infinite = true
			continue
		}
		if i+1 >= len(args) {
			break
		}
		switch args[i] {
		case "depth":
			opts.Depth, _ = strconv.Atoi(args[i+1])
		case "movetime":
			opts.MoveTime = millis(i + 1)
		case "wtime":
			opts.WTime = millis(i + 1)
		case "btime":
			opts.BTime = millis(i + 1)
		case "winc":
			opts.WInc = millis(i + 1)
		case "binc":
			opts.BInc = millis(i + 1)
		case "movestogo":
			opts.MovesToGo, _ = strconv.Atoi(args[i+1])
		default:
			continue
		}
		i++
	}

	return opts
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(res engine.Result) {
	parts := []string{fmt.Sprintf("depth %d", res.Depth)}

	switch {
	case res.Score > engine.Mate-board.MaxDepth:
		parts = append(parts, fmt.Sprintf("score mate %d", (engine.Mate-res.Score+1)/2))
	case res.Score < -engine.Mate+board.MaxDepth:
		parts = append(parts, fmt.Sprintf("score mate %d", -(engine.Mate+res.Score+1)/2))
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", res.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", res.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", res.Elapsed.Milliseconds()))
	if res.Elapsed > 0 {
		nps := uint64(float64(res.Nodes) / res.Elapsed.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if len(res.PV) > 0 {
		parts = append(parts, "pv "+res.PVString())
	}

	u.send("info %s", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.cancel == nil {
		return
	}
	u.cancel()
	u.engine.Stop()
	u.waitSearch()
}

func (u *UCI) waitSearch() {
	if u.searchDone != nil {
		<-u.searchDone
	}
	u.cancel = nil
	u.searchDone = nil
}

// handleQuit stops any search and profiling.
func (u *UCI) handleQuit() {
	u.handleStop()
	u.stopProfile()
}

func (u *UCI) stopProfile() {
	if u.profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	u.profileFile.Close()
	u.log.Info().Str("file", u.profileFile.Name()).Msg("CPU profile saved")
	u.profileFile = nil
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}
	val := strings.Join(value, " ")

	switch strings.ToLower(strings.Join(name, " ")) {
	case "movetime":
		if ms, err := strconv.Atoi(val); err == nil && ms > 0 {
			u.moveTime = time.Duration(ms) * time.Millisecond
		}
	case "depth":
		if d, err := strconv.Atoi(val); err == nil && d >= 0 && d <= board.MaxDepth {
			u.maxDepth = d
		}
	case "debug":
		board.DebugValidation = strings.EqualFold(val, "true")
		u.log.Info().Bool("enabled", board.DebugValidation).Msg("board validation")
	case "cpuprofile":
		u.stopProfile()
		if val == "" || val == "stop" || val == "<empty>" {
			return
		}
		f, err := os.Create(val)
		if err != nil {
			u.send("info string failed to create profile: %v", err)
			return
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			u.send("info string failed to start profile: %v", err)
			return
		}
		u.profileFile = f
		u.log.Info().Str("file", val).Msg("CPU profiling started")
	default:
		u.log.Debug().Strs("option", name).Msg("unknown option")
	}
}

// handleDisplay prints the board, its FEN and its key.
func (u *UCI) handleDisplay() {
	u.send("%s", strings.TrimRight(u.position.String(), "\n"))
	u.send("Fen: %s", u.position.FEN())
	u.send("Key: %016x", u.position.Key)
	if o := u.position.Outcome(); o.IsOver() {
		u.send("Result: %s", o)
	}
}

// handlePerft runs a perft test, listing the node count below each root
// move.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}
	if depth < 1 {
		return
	}

	start := time.Now()
	var nodes uint64
	for _, e := range u.position.PerftDivide(depth) {
		u.send("%s: %d", e.Move, e.Nodes)
		nodes += e.Nodes
	}
	elapsed := time.Since(start)

	u.send("")
	u.send("Nodes: %d", nodes)
	u.send("Time: %v", elapsed)
	if elapsed > 0 {
		u.send("NPS: %.0f", float64(nodes)/elapsed.Seconds())
	}
}
