// Package runner drives a game between a human and a computer opponent. A
// single goroutine owns the game; human input and AI answers reach it over
// channels.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flipside/reversi/board"
	"github.com/flipside/reversi/game"
	"github.com/flipside/reversi/strategy"
)

var (
	ErrNotYourTurn  = errors.New("it is not the human's turn")
	ErrGameFinished = errors.New("game is finished")
)

type humanMove struct {
	p     board.Point
	reply chan error
}

// aiResult carries the AI's answer along with the position it was asked
// about, so that the owner can tell whether it still applies.
type aiResult struct {
	p    board.Point
	err  error
	hash uint64
	ply  int
}

// Controller is the single owner of a Game.
type Controller struct {
	settings Settings
	view     View
	game     *game.Game
	ai       strategy.Strategy

	moves     chan humanMove
	aiResults chan aiResult
	snapshots chan chan *game.Game
	done      chan struct{}

	thinking bool
	finished bool
}

// NewController sets up a game from the standard start.
func NewController(settings Settings, view View) (*Controller, error) {
	return NewControllerFromGame(settings, view, game.NewGame())
}

// NewControllerFromGame hands an existing game to a new controller, which
// owns it from then on.
func NewControllerFromGame(settings Settings, view View, g *game.Game) (*Controller, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	ai, err := strategy.NewForColor(settings.AI, settings.HumanColor.Opponent())
	if err != nil {
		return nil, err
	}
	return &Controller{
		settings:  settings,
		view:      view,
		game:      g,
		ai:        ai,
		moves:     make(chan humanMove),
		aiResults: make(chan aiResult, 1),
		snapshots: make(chan chan *game.Game),
		done:      make(chan struct{}),
	}, nil
}

func (c *Controller) Settings() Settings {
	return c.settings
}

// Run is the game loop. It returns nil once the game is over and reported,
// or the context's error if ctx is done first. In-flight AI work is
// cancelled when Run returns.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	aiCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Debug().Str("uid", c.game.Uid()).Str("settings", c.settings.String()).Msg("controller-start")
	c.refresh(aiCtx)
	for !c.finished {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case hm := <-c.moves:
			hm.reply <- c.handleHuman(aiCtx, hm.p)
		case res := <-c.aiResults:
			if err := c.handleAI(aiCtx, res); err != nil {
				return err
			}
		case snap := <-c.snapshots:
			snap <- c.game.Copy()
		}
	}
	return nil
}

// SelectCell forwards the human's chosen cell to the game loop. An illegal
// cell is reported to the view as a warning and is not an error.
func (c *Controller) SelectCell(ctx context.Context, p board.Point) error {
	hm := humanMove{p: p, reply: make(chan error, 1)}
	select {
	case c.moves <- hm:
	case <-c.done:
		return ErrGameFinished
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-hm.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the game as it currently stands.
func (c *Controller) Snapshot(ctx context.Context) (*game.Game, error) {
	reply := make(chan *game.Game, 1)
	select {
	case c.snapshots <- reply:
	case <-c.done:
		// Run has returned; nothing writes to the game any more.
		return c.game.Copy(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case g := <-reply:
		return g, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed when Run returns.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) handleHuman(ctx context.Context, p board.Point) error {
	if c.game.Playing() == game.PlayStateGameOver {
		return ErrGameFinished
	}
	human := c.settings.HumanColor
	if c.game.PlayerOnTurn() != human {
		return ErrNotYourTurn
	}
	if !c.game.IsLegalMove(human, p.X, p.Y) {
		log.Debug().Str("cell", p.String()).Msg("cannot-place-here")
		c.view.ShowWarning(WarningCannotPlaceHere)
		return nil
	}
	turn, err := c.game.PlayMove(human, p.X, p.Y)
	if err != nil {
		return err
	}
	log.Debug().Str("turn", turn.String()).Msg("human-move")
	c.afterTurn(ctx, turn)
	return nil
}

func (c *Controller) handleAI(ctx context.Context, res aiResult) error {
	if c.game.Playing() == game.PlayStateGameOver ||
		res.hash != c.game.Hash() || res.ply != c.game.Turn() {

		log.Debug().Uint64("hash", res.hash).Int("ply", res.ply).Msg("stale-ai-result")
		return nil
	}
	if c.thinking {
		c.thinking = false
		c.view.EndThinking()
	}
	if res.err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%v could not move: %w", c.ai.Name(), res.err)
	}
	turn, err := c.game.PlayMove(c.ai.Color(), res.p.X, res.p.Y)
	if err != nil {
		return fmt.Errorf("%v chose %v: %w", c.ai.Name(), res.p, err)
	}
	log.Debug().Str("turn", turn.String()).Msg("ai-move")
	c.afterTurn(ctx, turn)
	return nil
}

func (c *Controller) afterTurn(ctx context.Context, turn *game.Turn) {
	if turn.Passed != board.Empty {
		c.view.ShowPassed(turn.Passed)
	}
	c.refresh(ctx)
}

// refresh pushes the whole state to the view and, if the computer is on
// turn, starts it thinking.
func (c *Controller) refresh(ctx context.Context) {
	c.view.ShowBoard(c.game.Board().Copy())
	black, white := c.game.Counts()
	c.view.ShowStoneCounts(black, white)
	if c.game.Playing() == game.PlayStateGameOver {
		c.view.UpdateCandidates([]board.Point{})
		c.view.GameFinished(c.game.Result(), black, white)
		c.finished = true
		return
	}
	onturn := c.game.PlayerOnTurn()
	c.view.ShowCurrentPlayer(onturn)
	if onturn == c.settings.HumanColor {
		c.view.UpdateCandidates(c.game.LegalMoves(onturn))
		return
	}
	c.view.UpdateCandidates([]board.Point{})
	c.startAI(ctx)
}

// startAI computes the AI's move on a worker goroutine, against a copy of
// the board.
func (c *Controller) startAI(ctx context.Context) {
	pos := c.game.Board().Copy()
	res := aiResult{hash: c.game.Hash(), ply: c.game.Turn()}
	delay := c.settings.ThinkDelay
	c.thinking = true
	c.view.BeginThinking()

	go func() {
		if delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
			}
		}
		res.p, res.err = c.ai.Compute(ctx, pos)
		select {
		case c.aiResults <- res:
		case <-ctx.Done():
		}
	}()
}
