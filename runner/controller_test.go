package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/flipside/reversi/board"
	"github.com/flipside/reversi/config"
	"github.com/flipside/reversi/game"
	"github.com/flipside/reversi/strategy"
)

type event struct {
	kind   string
	player board.CellState
	cells  []board.Point
	result board.Result
	counts [2]int
	warn   Warning
}

// recordingView passes every call on to a channel so tests can wait for
// them in order.
type recordingView struct {
	events chan event
}

func newRecordingView() *recordingView {
	return &recordingView{events: make(chan event, 1000)}
}

func (v *recordingView) ShowBoard(b *board.GameBoard) { v.events <- event{kind: "board"} }
func (v *recordingView) UpdateCandidates(cells []board.Point) {
	v.events <- event{kind: "candidates", cells: cells}
}
func (v *recordingView) ShowCurrentPlayer(p board.CellState) {
	v.events <- event{kind: "current", player: p}
}
func (v *recordingView) ShowStoneCounts(black, white int) {
	v.events <- event{kind: "counts", counts: [2]int{black, white}}
}
func (v *recordingView) ShowPassed(p board.CellState) { v.events <- event{kind: "passed", player: p} }
func (v *recordingView) ShowWarning(w Warning)        { v.events <- event{kind: "warning", warn: w} }
func (v *recordingView) BeginThinking()               { v.events <- event{kind: "begin-thinking"} }
func (v *recordingView) EndThinking()                 { v.events <- event{kind: "end-thinking"} }
func (v *recordingView) GameFinished(r board.Result, black, white int) {
	v.events <- event{kind: "finished", result: r, counts: [2]int{black, white}}
}

func (v *recordingView) waitFor(t *testing.T, kind string) event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e := <-v.events:
			if e.kind == kind {
				return e
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", kind)
		}
	}
}

// drain returns the events recorded so far without waiting.
func (v *recordingView) drain() []event {
	var evts []event
	for {
		select {
		case e := <-v.events:
			evts = append(evts, e)
		default:
			return evts
		}
	}
}

func startController(t *testing.T, settings Settings, g *game.Game) (*Controller, *recordingView, chan error, context.CancelFunc) {
	t.Helper()
	v := newRecordingView()
	if g == nil {
		g = game.NewGame()
	}
	c, err := NewControllerFromGame(settings, v, g)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() { errs <- c.Run(ctx) }()
	t.Cleanup(cancel)
	return c, v, errs, cancel
}

func TestHumanMoveThenAIReply(t *testing.T) {
	is := is.New(t)
	c, v, _, _ := startController(t, Settings{AI: strategy.WeightedGreedyCapture, HumanColor: board.Black}, nil)
	ctx := context.Background()

	e := v.waitFor(t, "candidates")
	is.Equal(e.cells, []board.Point{{X: 2, Y: 3}, {X: 3, Y: 2}, {X: 4, Y: 5}, {X: 5, Y: 4}})

	is.NoErr(c.SelectCell(ctx, board.Point{X: 2, Y: 3}))
	v.waitFor(t, "begin-thinking")
	v.waitFor(t, "end-thinking")
	e = v.waitFor(t, "current")
	is.Equal(e.player, board.Black)
	e = v.waitFor(t, "candidates")
	is.True(len(e.cells) > 0)

	g, err := c.Snapshot(ctx)
	is.NoErr(err)
	is.Equal(g.Turn(), 2)
	is.Equal(g.PlayerOnTurn(), board.Black)
	// c3 is worth the most to white after c4.
	is.Equal(g.Board().State(2, 2), board.White)
}

func TestAIMovesFirstWhenHumanIsWhite(t *testing.T) {
	is := is.New(t)
	c, v, _, _ := startController(t, Settings{AI: strategy.FirstLegal, HumanColor: board.White}, nil)
	v.waitFor(t, "begin-thinking")
	v.waitFor(t, "end-thinking")
	e := v.waitFor(t, "current")
	is.Equal(e.player, board.White)
	g, err := c.Snapshot(context.Background())
	is.NoErr(err)
	is.Equal(g.Board().State(2, 3), board.Black)
}

func TestIllegalCellWarns(t *testing.T) {
	is := is.New(t)
	c, v, _, _ := startController(t, Settings{AI: strategy.GreedyCapture, HumanColor: board.Black}, nil)
	v.waitFor(t, "candidates")

	is.NoErr(c.SelectCell(context.Background(), board.Point{X: 0, Y: 0}))
	e := v.waitFor(t, "warning")
	is.Equal(e.warn, WarningCannotPlaceHere)
	is.Equal(e.warn.String(), "You cannot place a disc there.")

	g, err := c.Snapshot(context.Background())
	is.NoErr(err)
	is.Equal(g.Turn(), 0)
}

func TestNotYourTurnWhileThinking(t *testing.T) {
	is := is.New(t)
	c, v, errs, cancel := startController(t, Settings{
		AI:         strategy.GreedyCapture,
		HumanColor: board.White,
		ThinkDelay: time.Hour,
	}, nil)
	v.waitFor(t, "begin-thinking")
	err := c.SelectCell(context.Background(), board.Point{X: 2, Y: 4})
	is.True(errors.Is(err, ErrNotYourTurn))

	// The think delay gives way to cancellation.
	cancel()
	select {
	case err := <-errs:
		is.True(errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	_, err = c.Snapshot(context.Background())
	is.NoErr(err)
	err = c.SelectCell(context.Background(), board.Point{X: 2, Y: 4})
	is.True(errors.Is(err, ErrGameFinished))
}

func TestStaleAIResultDropped(t *testing.T) {
	is := is.New(t)
	c, v, _, _ := startController(t, Settings{
		AI:         strategy.FirstLegal,
		HumanColor: board.White,
		ThinkDelay: time.Hour,
	}, nil)
	v.waitFor(t, "begin-thinking")

	g, err := c.Snapshot(context.Background())
	is.NoErr(err)
	// An answer for another position must be ignored.
	c.aiResults <- aiResult{p: board.Point{X: 2, Y: 3}, hash: g.Hash() + 1, ply: g.Turn()}
	c.aiResults <- aiResult{p: board.Point{X: 2, Y: 3}, hash: g.Hash(), ply: g.Turn() + 1}

	g, err = c.Snapshot(context.Background())
	is.NoErr(err)
	is.Equal(g.Turn(), 0)
	is.Equal(g.PlayerOnTurn(), board.Black)

	// A current one is applied.
	c.aiResults <- aiResult{p: board.Point{X: 5, Y: 4}, hash: g.Hash(), ply: g.Turn()}
	v.waitFor(t, "end-thinking")
	g, err = c.Snapshot(context.Background())
	is.NoErr(err)
	is.Equal(g.Turn(), 1)
	is.Equal(g.Board().State(5, 4), board.Black)
}

func TestForcedPassAndFinish(t *testing.T) {
	is := is.New(t)
	b, err := board.FromPosition(board.ForcedPassPosition)
	is.NoErr(err)
	g, err := game.NewGameFromBoard(b, board.Black)
	is.NoErr(err)
	c, v, errs, _ := startController(t, Settings{AI: strategy.GreedyCapture, HumanColor: board.Black}, g)
	ctx := context.Background()

	v.waitFor(t, "candidates")
	is.NoErr(c.SelectCell(ctx, board.Point{X: 2, Y: 0}))
	e := v.waitFor(t, "passed")
	is.Equal(e.player, board.White)
	e = v.waitFor(t, "current")
	is.Equal(e.player, board.Black)
	e = v.waitFor(t, "candidates")
	is.Equal(e.cells, []board.Point{{X: 5, Y: 7}})

	is.NoErr(c.SelectCell(ctx, board.Point{X: 5, Y: 7}))
	e = v.waitFor(t, "finished")
	is.Equal(e.result, board.BlackWin)
	is.Equal(e.counts, [2]int{6, 0})

	select {
	case err := <-errs:
		is.NoErr(err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the game finished")
	}
	err = c.SelectCell(ctx, board.Point{X: 0, Y: 7})
	is.True(errors.Is(err, ErrGameFinished))
	for _, e := range v.drain() {
		is.True(e.kind != "finished") // reported once
	}
	final, err := c.Snapshot(ctx)
	is.NoErr(err)
	is.Equal(final.Playing(), game.PlayStateGameOver)
}

func TestFullGameAgainstAI(t *testing.T) {
	is := is.New(t)
	c, v, errs, _ := startController(t, Settings{AI: strategy.WeightedGreedyCapture, HumanColor: board.Black}, nil)
	ctx := context.Background()
	for i := 0; i < 10000; i++ {
		g, err := c.Snapshot(ctx)
		is.NoErr(err)
		if g.Playing() == game.PlayStateGameOver {
			break
		}
		if g.PlayerOnTurn() != board.Black {
			time.Sleep(time.Millisecond)
			continue
		}
		moves := g.LegalMoves(board.Black)
		err = c.SelectCell(ctx, moves[len(moves)-1])
		if errors.Is(err, ErrGameFinished) {
			break
		}
		is.NoErr(err)
	}
	e := v.waitFor(t, "finished")
	is.Equal(e.counts[0]+e.counts[1] <= 64, true)
	is.NoErr(<-errs)
}

func TestFinishedGameReportsImmediately(t *testing.T) {
	is := is.New(t)
	b, err := board.FromPosition(board.FullBoard33To31)
	is.NoErr(err)
	g, err := game.NewGameFromBoard(b, board.Black)
	is.NoErr(err)
	_, v, errs, _ := startController(t, Settings{AI: strategy.FirstLegal, HumanColor: board.White}, g)
	e := v.waitFor(t, "finished")
	is.Equal(e.result, board.BlackWin)
	is.Equal(e.counts, [2]int{33, 31})
	is.NoErr(<-errs)
}

func TestSettings(t *testing.T) {
	is := is.New(t)
	_, err := NewController(Settings{AI: strategy.FirstLegal}, newRecordingView())
	is.True(errors.Is(err, ErrInvalidSettings))
	_, err = NewController(Settings{AI: strategy.FirstLegal, HumanColor: board.Black, ThinkDelay: -time.Second}, newRecordingView())
	is.True(errors.Is(err, ErrInvalidSettings))

	s := Settings{}
	is.True(errors.Is(s.SetColor("green"), ErrInvalidSettings))
	is.NoErr(s.SetColor("White"))
	is.Equal(s.HumanColor, board.White)
	s.SetAI("3")
	is.Equal(s.AI, strategy.WeightedGreedyCapture)
	s.SetAI("bogus")
	is.Equal(s.AI, strategy.FirstLegal)

	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigAI, "greedy")
	cfg.Set(config.ConfigPlayerColor, "purple")
	s = SettingsFromConfig(cfg)
	is.Equal(s.AI, strategy.GreedyCapture)
	is.Equal(s.HumanColor, board.Black)
	is.Equal(s.ThinkDelay, time.Second)
	is.Equal(s.String(), "Greedy capture vs white (human plays black)")
}
