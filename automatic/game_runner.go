// Package automatic contains the logic for computer vs computer games,
// which are used to compare the strategies against each other.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/flipside/reversi/board"
	"github.com/flipside/reversi/game"
	"github.com/flipside/reversi/strategy"
)

// LogHeader is the first line of an autoplay log file.
const LogHeader = "gameID,black,white,blackDiscs,whiteDiscs,winner,plies,passes\n"

// GameRunner is the master struct here for the automatic game logic.
type GameRunner struct {
	game        *game.Game
	aiplayers   [2]strategy.Strategy
	randomPlies int

	logchan chan string
}

func colorIdx(c board.CellState) int {
	if c == board.White {
		return 1
	}
	return 0
}

// NewGameRunner sets up a runner with black played by ai1 and white by
// ai2. Each game opens with randomPlies random legal moves so that
// deterministic strategies don't replay the same game.
func NewGameRunner(logchan chan string, ai1, ai2 strategy.AIName, randomPlies int) (*GameRunner, error) {
	r := &GameRunner{logchan: logchan, randomPlies: randomPlies}
	for idx, name := range []strategy.AIName{ai1, ai2} {
		color := board.Black
		if idx == 1 {
			color = board.White
		}
		s, err := strategy.NewForColor(name, color)
		if err != nil {
			return nil, err
		}
		r.aiplayers[idx] = s
	}
	return r, nil
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}

// StartGame sets up a fresh game and plays the random opening.
func (r *GameRunner) StartGame() {
	r.game = game.NewGame()
	for i := 0; i < r.randomPlies && r.game.Playing() == game.PlayStatePlaying; i++ {
		onturn := r.game.PlayerOnTurn()
		moves := r.game.LegalMoves(onturn)
		m := moves[frand.Intn(len(moves))]
		if _, err := r.game.PlayMove(onturn, m.X, m.Y); err != nil {
			// only legal moves are offered, so this is a bug.
			panic(err)
		}
	}
}

// PlayBestStaticTurn asks the strategy on turn for its move and plays it.
func (r *GameRunner) PlayBestStaticTurn(ctx context.Context) (*game.Turn, error) {
	onturn := r.game.PlayerOnTurn()
	ai := r.aiplayers[colorIdx(onturn)]
	m, err := ai.Compute(ctx, r.game.Board())
	if err != nil {
		return nil, err
	}
	turn, err := r.game.PlayMove(onturn, m.X, m.Y)
	if err != nil {
		return nil, fmt.Errorf("%v chose %v: %w", ai.Name(), m, err)
	}
	return turn, nil
}

func winnerString(res board.Result) string {
	if res == board.Draw {
		return "draw"
	}
	return res.Winner().String()
}

// CompVsCompStatic plays out a game to the end using best static turns.
func (r *GameRunner) CompVsCompStatic(ctx context.Context) error {
	r.StartGame()
	for r.game.Playing() == game.PlayStatePlaying {
		if _, err := r.PlayBestStaticTurn(ctx); err != nil {
			return err
		}
	}
	black, white := r.game.Counts()
	log.Debug().Str("uid", r.game.Uid()).Int("black", black).Int("white", white).
		Msg("autoplay-game-over")

	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%v,%v,%v,%d,%d,%v,%d,%d\n",
			r.game.Uid(),
			r.aiplayers[0].Name(),
			r.aiplayers[1].Name(),
			black,
			white,
			winnerString(r.game.Result()),
			r.game.Turn(),
			r.game.Passes())
	}
	return nil
}
