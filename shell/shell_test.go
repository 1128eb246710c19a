package shell

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/matryer/is"

	"github.com/flipside/reversi/board"
	"github.com/flipside/reversi/config"
	"github.com/flipside/reversi/runner"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -file /path/to/log.csv",
			&shellcmd{"autoplay", nil, map[string]string{"file": "/path/to/log.csv"}},
			nil},
		{"autoplay stop",
			&shellcmd{"autoplay", []string{"stop"}, map[string]string{}},
			nil},
		{"new greedy white -delay 500ms ",
			&shellcmd{"new",
				[]string{"greedy", "white"},
				map[string]string{"delay": "500ms"}},
			nil,
		},
		{`analyze "/tmp/my games.csv" -yaml true`,
			&shellcmd{"analyze", []string{"/tmp/my games.csv"}, map[string]string{"yaml": "true"}},
			nil},
		{"autoplay -ai1 greedy -file",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigThinkDelay, "0s")
	return cfg
}

func output(sc *ShellController) string {
	sw := sc.out.(*syncWriter)
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.(*bytes.Buffer).String()
}

func waitForTurn(t *testing.T, sc *ShellController, ply int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		g, err := sc.snapshot()
		if err != nil {
			t.Fatal(err)
		}
		if g.Turn() >= ply {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("game never reached ply %d", ply)
}

func TestPlayAgainstComputer(t *testing.T) {
	is := is.New(t)
	sc := newShellController(testConfig(), &bytes.Buffer{})
	defer sc.Cleanup()

	_, err := sc.handle("show")
	is.True(errors.Is(err, errNoGame))

	_, err = sc.handle("new")
	is.NoErr(err)
	is.Equal(sc.settings.AI.String(), "first-legal")

	_, err = sc.handle("c4")
	is.NoErr(err)
	waitForTurn(t, sc, 2)

	resp, err := sc.handle("show")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Ply 2"))
	is.True(strings.Contains(resp.message, "-> black"))

	resp, err = sc.handle("moves")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Black to move"))

	// a1 captures nothing
	_, err = sc.handle("play a1")
	is.NoErr(err)
	is.True(strings.Contains(output(sc), "You cannot place a disc there."))

	out := output(sc)
	is.True(strings.Contains(out, "New game: First legal move vs white (human plays black)"))
	is.True(strings.Contains(out, "Black to move (c4 d3 e6 f5)."))

	_, err = sc.handle("play")
	is.True(err != nil)
	_, err = sc.handle("play z9")
	is.True(errors.Is(err, board.ErrOutOfBounds))
	_, err = sc.handle("xyzzy")
	is.True(err != nil)
}

func TestNewGameSettings(t *testing.T) {
	is := is.New(t)
	sc := newShellController(testConfig(), &bytes.Buffer{})
	defer sc.Cleanup()

	_, err := sc.handle("new greedy purple")
	is.True(errors.Is(err, runner.ErrInvalidSettings))
	is.Equal(sc.ctrl, nil)

	_, err = sc.handle("new 3 white")
	is.NoErr(err)
	is.Equal(sc.settings.HumanColor, board.White)
	// the computer opens for black
	waitForTurn(t, sc, 1)

	first := sc.ctrl
	_, err = sc.handle("new")
	is.NoErr(err)
	is.True(sc.ctrl != first)
	select {
	case <-first.Done():
	default:
		t.Fatal("previous game still running")
	}
	is.Equal(sc.settings.HumanColor, board.White)

	resp, err := sc.handle("ai")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "* 3  weighted-greedy-capture"))
	is.True(strings.Contains(resp.message, "  1  first-legal"))
}

func TestAutoplayAndAnalyze(t *testing.T) {
	is := is.New(t)
	sc := newShellController(testConfig(), &bytes.Buffer{})
	defer sc.Cleanup()

	_, err := sc.handle("autoplay stop")
	is.True(err != nil)

	logfile := filepath.Join(t.TempDir(), "games.csv")
	resp, err := sc.handle("autoplay -games 4 -threads 2 -random 2 -ai1 greedy -ai2 first -file " +
		shellquote.Join(logfile))
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Playing 4 games of greedy-capture vs first-legal"))
	sc.background.Wait()
	is.True(strings.Contains(output(sc), "Games played: 4"))

	resp, err = sc.handle("analyze " + shellquote.Join(logfile) + " -yaml true")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "games: 4"))

	_, err = sc.handle("analyze")
	is.True(err != nil)
	_, err = sc.handle("autoplay -games many")
	is.True(err != nil)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := newShellController(testConfig(), &bytes.Buffer{})
	_, err := sc.handle("help")
	is.NoErr(err)
	_, err = sc.handle("help autoplay")
	is.NoErr(err)
	_, err = sc.handle("help castling")
	is.NoErr(err)
	out := output(sc)
	is.True(strings.Contains(out, "Usage:"))
	is.True(strings.Contains(out, "autoplay stop"))
	is.True(strings.Contains(out, "There is no help text for the topic castling"))
}

func TestTerminalView(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	v := newTerminalView(&buf)
	b, err := board.FromPosition(board.ForcedPassPosition)
	is.NoErr(err)

	v.ShowBoard(b)
	v.ShowStoneCounts(3, 1)
	v.ShowCurrentPlayer(board.Black)
	v.UpdateCandidates([]board.Point{{X: 2, Y: 0}, {X: 5, Y: 7}})
	v.ShowPassed(board.White)
	v.ShowWarning(runner.WarningCannotPlaceHere)
	v.BeginThinking()
	v.EndThinking()
	v.GameFinished(board.BlackWin, 6, 0)

	out := buf.String()
	is.True(strings.Contains(out, b.ToDisplayText([]board.Point{{X: 2, Y: 0}, {X: 5, Y: 7}})))
	is.True(strings.Contains(out, "Black 3  White 1\nBlack to move (c1 f8).\n"))
	is.True(strings.Contains(out, "White has no legal move and passes.\n"))
	is.True(strings.Contains(out, "Thinking...\n"))
	is.True(strings.HasSuffix(out, "Game over. Black wins, 6 to 0.\n"))

	is.Equal(resultMessage(board.Draw, 32, 32), "Game over. It's a draw, 32 to 32.")
	is.Equal(resultMessage(board.WhiteWin, 20, 44), "Game over. White wins, 44 to 20.")
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	sc := newShellController(testConfig(), &bytes.Buffer{})
	defer sc.Cleanup()
	c := NewShellCompleter(sc)

	complete := func(line string) []string {
		matches, _ := c.Do([]rune(line), len(line))
		var out []string
		for _, m := range matches {
			out = append(out, string(m))
		}
		return out
	}
	is.Equal(complete("auto"), []string{"play"})
	is.Equal(complete("autoplay -ai1 we"), []string{"ighted-greedy-capture"})
	is.Equal(complete("new first-legal wh"), []string{"ite"})
	is.Equal(complete("analyze x.csv -yaml t"), []string{"rue"})
	is.Equal(len(complete("new ")), 3)
	is.Equal(complete("play "), nil)

	_, err := sc.handle("new")
	is.NoErr(err)
	is.Equal(complete("play "), []string{"c4", "d3", "e6", "f5"})
	is.Equal(complete("play e"), []string{"6"})
}
