// Package game encapsulates the turn mechanics of a reversi game: whose move
// it is, forced passes, and when the game is over.
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/flipside/reversi/board"
	"github.com/flipside/reversi/zobrist"
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrWrongPlayer = errors.New("it is not that player's turn")
)

type PlayState int

const (
	PlayStatePlaying PlayState = iota
	PlayStateGameOver
)

func (p PlayState) String() string {
	if p == PlayStateGameOver {
		return "game over"
	}
	return "playing"
}

// Game is the internal game structure that controls the business logic of
// the game: placing discs, changing turns and deciding when it ends.
// Note: a Game doesn't care how it is played. AI players, human players etc
// play a game outside of the scope of this package.
type Game struct {
	board *board.GameBoard

	onturn  board.CellState
	playing PlayState
	result  board.Result

	// turnnum counts placements; passes counts forced passes.
	turnnum int
	passes  int

	uid  string
	z    *zobrist.Zobrist
	hash uint64
}

// NewGame is how one instantiates a brand new game. Black moves first.
func NewGame() *Game {
	g, err := NewGameFromBoard(board.NewGameBoard(), board.Black)
	if err != nil {
		// the starting position always has moves for black.
		panic(err)
	}
	return g
}

// NewGameFromBoard starts a game from an arbitrary position with onturn to
// move. The board is copied. If onturn has no legal move the game settles
// right away: the other side moves instead, or the game is over.
func NewGameFromBoard(b *board.GameBoard, onturn board.CellState) (*Game, error) {
	if !onturn.IsPlayer() {
		return nil, fmt.Errorf("cannot start game with %v to move: %w", onturn,
			board.ErrInvalidPlayer)
	}
	g := &Game{
		board:  b.Copy(),
		onturn: onturn,
		uid:    uuid.NewString(),
		z:      zobrist.Default,
	}
	g.hash = g.z.Hash(g.board, g.onturn)
	if !g.board.HasLegalMove(g.onturn) {
		if g.board.HasLegalMove(g.onturn.Opponent()) {
			g.passes++
			g.ChangeTurn()
		} else {
			g.endGame()
		}
	}
	log.Debug().Str("uid", g.uid).Str("onturn", g.onturn.String()).
		Str("state", g.playing.String()).Msg("new-game")
	return g, nil
}

// Copy returns a deep copy with the same uid.
func (g *Game) Copy() *Game {
	cp := *g
	cp.board = g.board.Copy()
	return &cp
}

func (g *Game) Board() *board.GameBoard {
	return g.board
}

func (g *Game) Uid() string {
	return g.uid
}

func (g *Game) Playing() PlayState {
	return g.playing
}

func (g *Game) PlayerOnTurn() board.CellState {
	return g.onturn
}

// Turn returns the number of discs placed so far.
func (g *Game) Turn() int {
	return g.turnnum
}

// Passes returns how many times a side was forced to pass.
func (g *Game) Passes() int {
	return g.passes
}

// Hash is the zobrist key of the current position and side to move.
func (g *Game) Hash() uint64 {
	return g.hash
}

// Counts returns the number of black and white discs on the board.
func (g *Game) Counts() (black, white int) {
	return g.board.Count(board.Black), g.board.Count(board.White)
}

// Result compares disc counts. It can be called at any time but only means
// something once the game is over.
func (g *Game) Result() board.Result {
	if g.playing == PlayStateGameOver {
		return g.result
	}
	return g.board.Result()
}

func (g *Game) IsLegalMove(player board.CellState, x, y int) bool {
	return g.board.IsLegalMove(player, x, y)
}

func (g *Game) LegalMoves(player board.CellState) []board.Point {
	return g.board.LegalMoves(player)
}

// ApplyMove places a disc without changing the turn. Most callers want
// PlayMove instead.
func (g *Game) ApplyMove(player board.CellState, x, y int) ([]board.Point, error) {
	if g.playing == PlayStateGameOver {
		return nil, ErrGameOver
	}
	flipped, err := g.board.ApplyMove(player, x, y)
	if err != nil {
		return nil, fmt.Errorf("cannot place %v at %v: %w", player,
			board.Point{X: x, Y: y}, err)
	}
	g.hash = g.z.AddMove(g.hash, player, board.Point{X: x, Y: y}, flipped)
	g.turnnum++
	return flipped, nil
}

// ChangeTurn hands the move to the other side.
func (g *Game) ChangeTurn() {
	g.onturn = g.onturn.Opponent()
	g.hash = g.z.ToggleTurn(g.hash)
}

func (g *Game) endGame() {
	g.playing = PlayStateGameOver
	g.result = g.board.Result()
	black, white := g.Counts()
	log.Debug().Str("uid", g.uid).Int("black", black).Int("white", white).
		Str("result", g.result.String()).Msg("game-over")
}
