package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/flipside/reversi/board"
)

// A Turn describes what happened when a move was played.
type Turn struct {
	Player  board.CellState
	Move    board.Point
	Flipped []board.Point
	// Passed is the color that had to pass after this move, or Empty.
	Passed board.CellState
	// Over is set when this move ended the game; Result is only valid then.
	Over   bool
	Result board.Result
	// Next is the side to move afterwards. Empty once the game is over.
	Next board.CellState
	Ply  int
}

// PlayMove plays a disc for player and moves the game on: the opponent moves
// next if they can, otherwise player goes again if they can, otherwise the
// game is over.
func (g *Game) PlayMove(player board.CellState, x, y int) (*Turn, error) {
	if g.playing == PlayStateGameOver {
		return nil, ErrGameOver
	}
	if player != g.onturn {
		return nil, fmt.Errorf("%w: %v to move, not %v", ErrWrongPlayer, g.onturn, player)
	}
	flipped, err := g.ApplyMove(player, x, y)
	if err != nil {
		return nil, err
	}
	t := &Turn{
		Player:  player,
		Move:    board.Point{X: x, Y: y},
		Flipped: flipped,
		Ply:     g.turnnum,
	}
	opp := player.Opponent()
	switch {
	case g.board.HasLegalMove(opp):
		g.ChangeTurn()
		t.Next = opp
	case g.board.HasLegalMove(player):
		// opp passes; the turn goes around and back to player.
		g.passes++
		t.Passed = opp
		t.Next = player
		log.Debug().Str("uid", g.uid).Str("passed", opp.String()).Msg("forced-pass")
	default:
		g.endGame()
		t.Over = true
		t.Result = g.result
	}
	return t, nil
}

func (t *Turn) String() string {
	s := fmt.Sprintf("%v plays %v, flipping %d", t.Player, t.Move, len(t.Flipped))
	if t.Passed != board.Empty {
		s += fmt.Sprintf("; %v must pass", t.Passed)
	}
	if t.Over {
		s += "; " + t.Result.String()
	}
	return s
}
