// boxchess - play chess against the engine in a terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/boxchess/internal/board"
	"github.com/hailam/boxchess/internal/game"
	"github.com/hailam/boxchess/internal/storage"
)

var (
	dbDir    = flag.String("db", "", "database directory (default: platform data directory)")
	noDB     = flag.Bool("no-db", false, "do not persist games")
	color    = flag.String("color", "white", "side played by the human: white or black")
	moveTime = flag.Duration("movetime", 0, "engine time per move (default: saved setting)")
	depth    = flag.Int("depth", -1, "engine depth cap, 0 = none (default: saved setting)")
	resume   = flag.String("resume", "", "resume the saved game with this id")
	list     = flag.Bool("list", false, "list saved games and exit")
	fen      = flag.String("fen", "", "start from this position")
	logLevel = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level: %v\n", err)
		os.Exit(2)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	if err := run(logger, os.Stdin, os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("boxchess")
	}
}

func run(logger zerolog.Logger, in io.Reader, out io.Writer) error {
	human := board.White
	switch *color {
	case "white":
	case "black":
		human = board.Black
	default:
		return fmt.Errorf("invalid -color %q", *color)
	}

	var store *storage.Storage
	settings := storage.DefaultSettings()
	if !*noDB {
		var err error
		if *dbDir != "" {
			store, err = storage.Open(*dbDir)
		} else {
			store, err = storage.OpenDefault()
		}
		if err != nil {
			return err
		}
		defer store.Close()

		if settings, err = store.LoadSettings(); err != nil {
			return err
		}
	}
	if *moveTime > 0 {
		settings.MoveTime = *moveTime
	}
	if *depth >= 0 {
		settings.MaxDepth = *depth
	}

	if *list {
		return listGames(store, out)
	}

	opts := []game.ManagerOption{
		game.WithManagerLogger(logger),
		game.WithGameOptions(game.WithLogger(logger), game.WithMaxDepth(settings.MaxDepth)),
	}
	if store != nil {
		opts = append(opts, game.WithStore(store))
	}
	mgr := game.NewManager(opts...)

	id := *resume
	if id == "" {
		var err error
		if id, err = mgr.Create(); err != nil {
			return err
		}
		if *fen != "" {
			if err := mgr.Do(id, func(g *game.Game) error { return g.LoadFEN(*fen) }); err != nil {
				return err
			}
		}
	}
	fmt.Fprintf(out, "Game %s. Enter moves as e2e4 or Nf3; 'undo', 'moves', 'fen', 'quit'.\n", id)

	s := &session{mgr: mgr, id: id, human: human, moveTime: settings.MoveTime, in: bufio.NewScanner(in), out: out}
	return s.loop()
}

type session struct {
	mgr      *game.Manager
	id       string
	human    board.Color
	moveTime time.Duration
	in       *bufio.Scanner
	out      io.Writer
}

func (s *session) loop() error {
	for {
		var over bool
		var humanTurn bool
		err := s.mgr.Do(s.id, func(g *game.Game) error {
			fmt.Fprint(s.out, g.Position().String())
			if st := g.Status(); st.IsOver() {
				fmt.Fprintf(s.out, "Game over: %s\n", describe(st))
				over = true
			}
			humanTurn = g.SideToMove() == s.human
			return nil
		})
		if err != nil || over {
			return err
		}

		if !humanTurn {
			if err := s.engineTurn(); err != nil {
				return err
			}
			continue
		}

		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			return s.in.Err()
		}
		if quit, err := s.command(strings.TrimSpace(s.in.Text())); quit || err != nil {
			return err
		}
	}
}

func (s *session) engineTurn() error {
	return s.mgr.Do(s.id, func(g *game.Game) error {
		res, err := g.EngineMove(context.Background(), s.moveTime)
		if errors.Is(err, game.ErrGameOver) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Engine plays %s (%s, depth %d, %d nodes)\n",
			res.Move, res.ScoreString(), res.Depth, res.Nodes)
		return nil
	})
}

// command handles one line of input. It reports true when the session
// should end.
func (s *session) command(line string) (bool, error) {
	switch line {
	case "":
		return false, nil
	case "quit", "exit":
		fmt.Fprintf(s.out, "Saved as %s\n", s.id)
		return true, nil
	}

	err := s.mgr.Do(s.id, func(g *game.Game) error {
		switch line {
		case "undo":
			// Take back the engine reply and the human move.
			g.Undo()
			if g.SideToMove() != s.human {
				g.Undo()
			}
		case "moves":
			fmt.Fprintln(s.out, strings.Join(g.History(), " "))
		case "fen":
			fmt.Fprintln(s.out, g.FEN())
		default:
			if _, err := g.PlayMove(line); err != nil {
				fmt.Fprintf(s.out, "Illegal move %q. Legal from: %s\n", line, strings.Join(g.MovableSquares(), " "))
			}
		}
		return nil
	})
	return false, err
}

func describe(o board.Outcome) string {
	if o.Kind == board.Checkmate {
		return fmt.Sprintf("%s wins by checkmate", o.Winner)
	}
	return "draw by " + o.Reason
}

func listGames(store *storage.Storage, out io.Writer) error {
	if store == nil {
		return errors.New("-list needs a database")
	}
	recs, err := store.ListGames()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		result := rec.Result
		if result == "" {
			result = "in progress"
		}
		fmt.Fprintf(out, "%s  %s  %3d moves  %s\n", rec.ID, rec.UpdatedAt.Format(time.DateTime), len(rec.Moves), result)
	}
	stats, err := store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d finished: %d white wins, %d black wins, %d draws (%.0f%%)\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.DrawRate())
	return nil
}
