// Command perft counts move-generation leaf nodes, optionally split by root
// move across several goroutines.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/boxchess/internal/board"
)

var (
	fen    = flag.String("fen", board.StartFEN, "position to count from")
	depth  = flag.Int("depth", 5, "perft depth")
	divide = flag.Bool("divide", false, "print the count below each root move")
	jobs   = flag.Int("jobs", runtime.NumCPU(), "parallel root moves")
)

func main() {
	flag.Parse()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid position")
	}
	if *depth < 1 {
		logger.Fatal().Int("depth", *depth).Msg("depth must be at least 1")
	}

	start := time.Now()
	entries, err := parallelDivide(pos, *depth, *jobs)
	if err != nil {
		logger.Fatal().Err(err).Msg("perft")
	}
	elapsed := time.Since(start)

	var total uint64
	for _, e := range entries {
		total += e.Nodes
		if *divide {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
		}
	}
	if *divide {
		fmt.Println()
	}
	fmt.Printf("Nodes: %d\n", total)
	logger.Info().
		Dur("elapsed", elapsed).
		Float64("nps", float64(total)/elapsed.Seconds()).
		Int("jobs", *jobs).
		Msg("perft done")
}

// parallelDivide counts each root move on its own copy of pos. Entries are
// sorted by move text.
func parallelDivide(pos *board.Position, depth, jobs int) ([]board.DivideEntry, error) {
	moves := pos.LegalMoves()
	entries := make([]board.DivideEntry, len(moves))

	var g errgroup.Group
	g.SetLimit(max(jobs, 1))
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			p := pos.Copy()
			if !p.CommitMove(m) {
				return fmt.Errorf("root move %v rejected", m)
			}
			entries[i] = board.DivideEntry{Move: m, Nodes: p.Perft(depth - 1)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	return entries, nil
}
