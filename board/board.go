// Package board implements the 8x8 reversi grid: cell storage, legal move
// detection and the capture (flip) algorithm.
package board

import (
	"errors"
	"math/bits"
)

var (
	ErrOutOfBounds   = errors.New("coordinates are off the board")
	ErrInvalidPlayer = errors.New("player must be black or white")
	ErrIllegalMove   = errors.New("not a legal move")
)

const allCells = ^uint64(0)

// GameBoard holds the contents of every cell along with an occupancy mask
// per cell state. The masks are indexed x*Dim+y, so walking the set bits in
// ascending order visits cells column by column with y varying fastest.
// The masks are kept up to date on every write; there is nothing to
// recompute lazily.
type GameBoard struct {
	cells [Dim][Dim]CellState
	sets  [3]uint64
}

// NewGameBoard returns a board set up with the standard starting cross.
func NewGameBoard() *GameBoard {
	b := newEmptyBoard()
	s := Dim/2 - 1
	b.SetCell(s, s, White)
	b.SetCell(s+1, s+1, White)
	b.SetCell(s+1, s, Black)
	b.SetCell(s, s+1, Black)
	return b
}

func newEmptyBoard() *GameBoard {
	b := &GameBoard{}
	b.sets[Empty] = allCells
	return b
}

// Copy returns an independent copy of the board.
func (b *GameBoard) Copy() *GameBoard {
	cp := *b
	return &cp
}

// Clear empties every cell.
func (b *GameBoard) Clear() {
	*b = *newEmptyBoard()
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Dim && y >= 0 && y < Dim
}

// State returns the contents of a cell. Cells off the board read as Empty.
func (b *GameBoard) State(x, y int) CellState {
	if !inBounds(x, y) {
		return Empty
	}
	return b.cells[x][y]
}

// SetCell overwrites a cell. It is meant for setting up positions; game
// play should go through ApplyMove.
func (b *GameBoard) SetCell(x, y int, state CellState) error {
	if !inBounds(x, y) {
		return ErrOutOfBounds
	}
	if state > White {
		return ErrInvalidPlayer
	}
	b.set(x, y, state)
	return nil
}

func (b *GameBoard) set(x, y int, state CellState) {
	mask := uint64(1) << uint(x*Dim+y)
	b.sets[b.cells[x][y]] &^= mask
	b.cells[x][y] = state
	b.sets[state] |= mask
}

// Count returns how many cells are in the given state.
func (b *GameBoard) Count(state CellState) int {
	if state > White {
		return 0
	}
	return bits.OnesCount64(b.sets[state])
}

// Cells returns every cell in the given state, in x-major order.
func (b *GameBoard) Cells(state CellState) []Point {
	if state > White {
		return nil
	}
	return pointsOf(b.sets[state])
}

func pointsOf(set uint64) []Point {
	pts := make([]Point, 0, bits.OnesCount64(set))
	for set != 0 {
		idx := bits.TrailingZeros64(set)
		pts = append(pts, pointFromIndex(idx))
		set &= set - 1
	}
	return pts
}

// bracketed returns the length of the run of opponent discs at the start of
// ray that player would capture, or 0 if the run is not closed off by one
// of player's own discs.
func (b *GameBoard) bracketed(player CellState, ray []Point) int {
	if len(ray) < 2 {
		return 0
	}
	enemy := player.Opponent()
	for i, p := range ray {
		switch b.cells[p.X][p.Y] {
		case enemy:
			continue
		case player:
			return i
		default:
			return 0
		}
	}
	return 0
}

// IsLegalMove returns true if player may place a disc on (x, y). Invalid
// players and coordinates are simply not legal.
func (b *GameBoard) IsLegalMove(player CellState, x, y int) bool {
	if !player.IsPlayer() || !inBounds(x, y) || b.cells[x][y] != Empty {
		return false
	}
	for _, ray := range rayTable[x][y] {
		if b.bracketed(player, ray) > 0 {
			return true
		}
	}
	return false
}

// LegalMoves lists every cell player may place a disc on, in x-major order.
func (b *GameBoard) LegalMoves(player CellState) []Point {
	if !player.IsPlayer() {
		return []Point{}
	}
	moves := []Point{}
	for _, p := range pointsOf(b.sets[Empty]) {
		if b.IsLegalMove(player, p.X, p.Y) {
			moves = append(moves, p)
		}
	}
	return moves
}

// HasLegalMove is a cheaper form of len(LegalMoves(player)) > 0.
func (b *GameBoard) HasLegalMove(player CellState) bool {
	if !player.IsPlayer() {
		return false
	}
	set := b.sets[Empty]
	for set != 0 {
		p := pointFromIndex(bits.TrailingZeros64(set))
		if b.IsLegalMove(player, p.X, p.Y) {
			return true
		}
		set &= set - 1
	}
	return false
}

// CaptureCount returns how many discs a placement by player on (x, y) would
// flip. The board is not modified. Illegal placements capture nothing.
func (b *GameBoard) CaptureCount(player CellState, x, y int) int {
	if !player.IsPlayer() || !inBounds(x, y) || b.cells[x][y] != Empty {
		return 0
	}
	n := 0
	for _, ray := range rayTable[x][y] {
		n += b.bracketed(player, ray)
	}
	return n
}

// ApplyMove places a disc for player on (x, y) and flips every bracketed
// run of opponent discs along the eight lines through it. It returns the
// flipped cells. On error the board is left untouched.
func (b *GameBoard) ApplyMove(player CellState, x, y int) ([]Point, error) {
	if !player.IsPlayer() {
		return nil, ErrInvalidPlayer
	}
	if !inBounds(x, y) {
		return nil, ErrOutOfBounds
	}
	if !b.IsLegalMove(player, x, y) {
		return nil, ErrIllegalMove
	}
	flipped := []Point{}
	b.set(x, y, player)
	// The eight rays from a cell are disjoint, so each can be resolved on
	// its own.
	for _, ray := range rayTable[x][y] {
		n := b.bracketed(player, ray)
		for _, p := range ray[:n] {
			b.set(p.X, p.Y, player)
			flipped = append(flipped, p)
		}
	}
	return flipped, nil
}

// Result compares disc counts.
func (b *GameBoard) Result() Result {
	black, white := b.Count(Black), b.Count(White)
	switch {
	case black == white:
		return Draw
	case black > white:
		return BlackWin
	}
	return WhiteWin
}
