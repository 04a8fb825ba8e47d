package uci

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/boxchess/internal/board"
	"github.com/hailam/boxchess/internal/engine"
)

// runScript feeds commands to a fresh handler and returns everything it
// wrote.
func runScript(t *testing.T, script string, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	u := New(engine.NewEngine(1<<14), strings.NewReader(script), &out, opts...)
	if err := u.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func bestMove(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if m, ok := strings.CutPrefix(line, "bestmove "); ok {
			return m
		}
	}
	t.Fatalf("no bestmove in output:\n%s", out)
	return ""
}

func TestHandshake(t *testing.T) {
	out := runScript(t, "uci\nisready\nquit\n")
	for _, want := range []string{"id name boxchess", "option name MoveTime", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPositionCommand(t *testing.T) {
	tests := []struct {
		name   string
		script string
		fen    string
	}{
		{
			name:   "startpos",
			script: "position startpos\nd\n",
			fen:    board.StartFEN,
		},
		{
			name:   "startpos with moves",
			script: "position startpos moves e2e4 e7e5 g1f3\nd\n",
			fen:    "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2",
		},
		{
			name:   "fen with moves",
			script: "position fen 4k3/P7/8/8/8/8/8/4K3 w - - 0 1 moves a7a8r\nd\n",
			fen:    "R3k3/8/8/8/8/8/8/4K3 b - - 0 1",
		},
		{
			name:   "illegal move stops replay",
			script: "position startpos moves e2e4 e7e4 d7d5\nd\n",
			fen:    "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		},
		{
			name:   "invalid fen keeps position",
			script: "position startpos moves d2d4\nposition fen 8/8/8 w - - 0 1\nd\n",
			fen:    "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := runScript(t, tc.script)
			if !strings.Contains(out, "Fen: "+tc.fen+"\n") {
				t.Errorf("want Fen: %s in output:\n%s", tc.fen, out)
			}
		})
	}
}

func TestGoFindsMate(t *testing.T) {
	out := runScript(t, "position fen k7/8/1K6/8/8/8/8/7R w - - 0 1\ngo depth 4\n")
	if got := bestMove(t, out); got != "h1h8" {
		t.Errorf("bestmove %s, want h1h8", got)
	}
	if !strings.Contains(out, "score mate 1") {
		t.Errorf("no mate score in output:\n%s", out)
	}
}

func TestGoMoveTime(t *testing.T) {
	start := time.Now()
	out := runScript(t, "position startpos moves e2e4\ngo movetime 100\n")
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("go movetime 100 took %v", elapsed)
	}
	pos, _ := board.ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if _, err := pos.ParseMoveString(bestMove(t, out)); err != nil {
		t.Errorf("bestmove is not legal: %v", err)
	}
	if !strings.Contains(out, "info depth 1 ") {
		t.Errorf("no info lines in output:\n%s", out)
	}
}

func TestGoInfiniteStop(t *testing.T) {
	out := runScript(t, "position startpos\ngo infinite\nstop\nquit\n")
	if got := bestMove(t, out); got == "" || got == "0000" {
		t.Errorf("bestmove %q after stop", got)
	}
	if n := strings.Count(out, "bestmove"); n != 1 {
		t.Errorf("%d bestmove lines, want 1", n)
	}
}

func TestGoMatedPosition(t *testing.T) {
	out := runScript(t, "position fen R6k/6pp/8/8/8/8/8/K7 b - - 0 1\ngo depth 2\n")
	if got := bestMove(t, out); got != "0000" {
		t.Errorf("bestmove %s in mated position, want 0000", got)
	}
}

func TestSetOption(t *testing.T) {
	var out bytes.Buffer
	u := New(engine.NewEngine(1<<10), strings.NewReader(""), &out)
	u.handleSetOption(strings.Fields("name MoveTime value 250"))
	u.handleSetOption(strings.Fields("name Depth value 7"))
	u.handleSetOption(strings.Fields("name Depth value 999"))
	if u.moveTime != 250*time.Millisecond {
		t.Errorf("moveTime = %v", u.moveTime)
	}
	if u.maxDepth != 7 {
		t.Errorf("maxDepth = %d", u.maxDepth)
	}

	limits := u.searchLimits(GoOptions{})
	want := engine.SearchLimits{Depth: 7, MoveTime: 250 * time.Millisecond, Optimum: 250 * time.Millisecond}
	if diff := cmp.Diff(want, limits); diff != "" {
		t.Errorf("searchLimits (-want +got):\n%s", diff)
	}
}

func TestParseGoOptions(t *testing.T) {
	tests := []struct {
		args string
		want GoOptions
	}{
		{"depth 6", GoOptions{Depth: 6}},
		{"movetime 1500", GoOptions{MoveTime: 1500 * time.Millisecond}},
		{"infinite", GoOptions{Infinite: true}},
		{
			"wtime 60000 btime 30000 winc 1000 binc 500 movestogo 12",
			GoOptions{
				WTime:     time.Minute,
				BTime:     30 * time.Second,
				WInc:      time.Second,
				BInc:      500 * time.Millisecond,
				MovesToGo: 12,
			},
		},
		{"ponder wtime 1000", GoOptions{WTime: time.Second}},
		{"depth", GoOptions{}},
	}
	for _, tc := range tests {
		t.Run(tc.args, func(t *testing.T) {
			got := ParseGoOptions(strings.Fields(tc.args))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseGoOptions (-want +got):\n%s", diff)
			}
		})
	}

	clock := ParseGoOptions(strings.Fields("wtime 60000 btime 30000 binc 500 movestogo 12 depth 9")).ClockLimits()
	wantClock := engine.ClockLimits{
		Time:      [2]time.Duration{time.Minute, 30 * time.Second},
		Inc:       [2]time.Duration{0, 500 * time.Millisecond},
		MovesToGo: 12,
	}
	if diff := cmp.Diff(wantClock, clock); diff != "" {
		t.Errorf("ClockLimits() (-want +got):\n%s", diff)
	}
}

func TestPerftCommand(t *testing.T) {
	out := runScript(t, "perft 3\n")
	if !strings.Contains(out, "Nodes: 8902\n") {
		t.Errorf("perft 3 output:\n%s", out)
	}
	if !strings.Contains(out, "e2e4: 600\n") {
		t.Errorf("missing divide line for e2e4:\n%s", out)
	}
}
