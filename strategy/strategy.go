// Package strategy holds the computer opponents. Every strategy is a static
// evaluator: it scores each legal move on the current position and picks
// the best, with no look-ahead.
package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/flipside/reversi/board"
)

var (
	ErrNotInitialized = errors.New("strategy has not been initialized with a color")
	ErrInvalidColor   = errors.New("strategy color must be black or white")
	ErrNoLegalMove    = errors.New("no legal move to choose from")
)

// Position is the read-only view of a board that a strategy needs.
// *board.GameBoard satisfies it.
type Position interface {
	LegalMoves(player board.CellState) []board.Point
	CaptureCount(player board.CellState, x, y int) int
}

// Strategy picks a move for one color.
type Strategy interface {
	// Initialize assigns the color the strategy plays.
	Initialize(color board.CellState) error
	// Compute returns the chosen move for the assigned color.
	Compute(ctx context.Context, pos Position) (board.Point, error)
	Name() AIName
	Label() string
	Color() board.CellState
}

type scoredMove struct {
	p     board.Point
	score int
}

// evaluator is the shared plumbing of every static strategy. score rates a
// single legal move; the highest rating wins and ties go to the move found
// first in x-major order.
type evaluator struct {
	name  AIName
	color board.CellState
	score func(pos Position, color board.CellState, p board.Point) int
}

func (e *evaluator) Initialize(color board.CellState) error {
	if !color.IsPlayer() {
		return fmt.Errorf("%w: got %v", ErrInvalidColor, color)
	}
	e.color = color
	return nil
}

func (e *evaluator) Name() AIName {
	return e.name
}

func (e *evaluator) Label() string {
	return e.name.Label()
}

func (e *evaluator) Color() board.CellState {
	return e.color
}

func (e *evaluator) Compute(ctx context.Context, pos Position) (board.Point, error) {
	if !e.color.IsPlayer() {
		return board.Point{}, ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return board.Point{}, err
	}
	moves := pos.LegalMoves(e.color)
	if len(moves) == 0 {
		return board.Point{}, fmt.Errorf("%w for %v", ErrNoLegalMove, e.color)
	}
	if e.score == nil {
		return moves[0], nil
	}
	scored := lo.Map(moves, func(p board.Point, _ int) scoredMove {
		return scoredMove{p, e.score(pos, e.color, p)}
	})
	best := lo.MaxBy(scored, func(a, b scoredMove) bool {
		return a.score > b.score
	})
	return best.p, nil
}

// NewFirstLegal plays the first legal move in x-major order.
func NewFirstLegal() Strategy {
	return &evaluator{name: FirstLegal}
}

// NewGreedyCapture plays the move that flips the most discs.
func NewGreedyCapture() Strategy {
	return &evaluator{name: GreedyCapture, score: captureScore}
}

// NewWeightedGreedyCapture adds a positional weight for the target cell to
// the square of the number of flips.
func NewWeightedGreedyCapture() Strategy {
	return &evaluator{name: WeightedGreedyCapture, score: weightedScore}
}

func captureScore(pos Position, color board.CellState, p board.Point) int {
	return pos.CaptureCount(color, p.X, p.Y)
}

func weightedScore(pos Position, color board.CellState, p board.Point) int {
	n := pos.CaptureCount(color, p.X, p.Y)
	return cellWeights[p.X][p.Y] + n*n
}
