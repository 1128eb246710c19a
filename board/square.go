package board

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ColorSupport = os.Getenv("REVERSI_DISABLE_COLOR") != "on"
)

// Dim is the length of a side of the board.
const Dim = 8

// CellState is the content of a single cell.
type CellState uint8

const (
	Empty CellState = iota
	Black
	White
)

var ErrBadCoords = errors.New("coordinates not understood")

func init() {
	if ColorSupport {
		log.Debug().Msg("Terminal color support is on.")
	}
}

func (c CellState) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// Opponent returns the other color. Empty has no opponent.
func (c CellState) Opponent() CellState {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

// IsPlayer is true for the two colors that can be placed on the board.
func (c CellState) IsPlayer() bool {
	return c == Black || c == White
}

func (c CellState) symbol() string {
	switch c {
	case Black:
		if ColorSupport {
			return "\033[1;30mX\033[0m"
		}
		return "X"
	case White:
		if ColorSupport {
			return "\033[1;37mO\033[0m"
		}
		return "O"
	}
	return "."
}

// ParseColor turns a user-supplied color name into a CellState. Anything
// that isn't a recognizable color comes back as Empty.
func ParseColor(s string) CellState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b", "x", "2":
		return Black
	case "white", "w", "o", "3":
		return White
	}
	return Empty
}

// A Point is a cell coordinate. X is the column and Y the row.
type Point struct {
	X int
	Y int
}

// InBounds returns true if the point lies on the board.
func (p Point) InBounds() bool {
	return p.X >= 0 && p.X < Dim && p.Y >= 0 && p.Y < Dim
}

// String returns the point in Othello notation, i.e. column letter and
// 1-based row number; (2, 3) is c4.
func (p Point) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return string(rune('a'+p.X)) + strconv.Itoa(p.Y+1)
}

// Index is the position of the point in x-major order.
func (p Point) Index() int {
	return p.X*Dim + p.Y
}

func pointFromIndex(idx int) Point {
	return Point{X: idx / Dim, Y: idx % Dim}
}

// ParsePoint parses "c4" style coordinates as well as "x,y" pairs.
func ParsePoint(s string) (Point, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if xs, ys, found := strings.Cut(s, ","); found {
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return Point{}, fmt.Errorf("%w: %v", ErrBadCoords, s)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return Point{}, fmt.Errorf("%w: %v", ErrBadCoords, s)
		}
		p := Point{x, y}
		if !p.InBounds() {
			return Point{}, fmt.Errorf("%w: %v", ErrOutOfBounds, s)
		}
		return p, nil
	}
	if len(s) < 2 || s[0] < 'a' || s[0] > 'z' {
		return Point{}, fmt.Errorf("%w: %v", ErrBadCoords, s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrBadCoords, s)
	}
	p := Point{X: int(s[0] - 'a'), Y: row - 1}
	if !p.InBounds() {
		return Point{}, fmt.Errorf("%w: %v", ErrOutOfBounds, s)
	}
	return p, nil
}

// Result is the outcome of a finished game.
type Result int

const (
	Draw Result = iota
	BlackWin
	WhiteWin
)

func (r Result) String() string {
	switch r {
	case BlackWin:
		return "black wins"
	case WhiteWin:
		return "white wins"
	}
	return "draw"
}

// Winner returns the winning color, or Empty for a draw.
func (r Result) Winner() CellState {
	switch r {
	case BlackWin:
		return Black
	case WhiteWin:
		return White
	}
	return Empty
}
