package board

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrBadPosition = errors.New("position text not understood")

var boardPlaintextRegex = regexp.MustCompile(`\|(.+)\|`)

// ToDisplayText renders the board. Cells listed in marks (typically the
// legal moves for the side to move) are shown with a '*'.
func (b *GameBoard) ToDisplayText(marks []Point) string {
	marked := map[Point]bool{}
	for _, p := range marks {
		marked[p] = true
	}
	var sb strings.Builder
	sb.WriteString("\n   ")
	for x := 0; x < Dim; x++ {
		sb.WriteString(fmt.Sprintf("%c ", 'a'+x))
	}
	sb.WriteString("\n   " + strings.Repeat("-", Dim*2) + "\n")
	for y := 0; y < Dim; y++ {
		sb.WriteString(fmt.Sprintf("%2d|", y+1))
		for x := 0; x < Dim; x++ {
			if marked[Point{x, y}] && b.cells[x][y] == Empty {
				sb.WriteString("*")
			} else {
				sb.WriteString(b.cells[x][y].symbol())
			}
			if x < Dim-1 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", Dim*2) + "\n")
	return sb.String()
}

// SetToPosition sets the board from a plain-text diagram. Only the text
// between pipes on each line is read, one line per row from the top. In a
// row, 'X' or 'B' is black, 'O' or 'W' is white and '.' or '*' is empty;
// whitespace between cells is ignored.
func (b *GameBoard) SetToPosition(diagram Position) error {
	rows := boardPlaintextRegex.FindAllStringSubmatch(string(diagram), -1)
	if len(rows) != Dim {
		return fmt.Errorf("%w: expected %d rows, found %d", ErrBadPosition, Dim, len(rows))
	}
	next := newEmptyBoard()
	for y, row := range rows {
		cells := strings.Fields(row[1])
		if len(cells) == 1 && len(cells[0]) == Dim {
			cells = strings.Split(cells[0], "")
		}
		if len(cells) != Dim {
			return fmt.Errorf("%w: row %d has %d cells", ErrBadPosition, y+1, len(cells))
		}
		for x, c := range cells {
			switch c {
			case "X", "x", "B", "b":
				next.set(x, y, Black)
			case "O", "o", "W", "w":
				next.set(x, y, White)
			case ".", "*":
			default:
				return fmt.Errorf("%w: row %d has %q", ErrBadPosition, y+1, c)
			}
		}
	}
	*b = *next
	return nil
}

// FromPosition builds a new board from a diagram; see SetToPosition.
func FromPosition(diagram Position) (*GameBoard, error) {
	b := newEmptyBoard()
	if err := b.SetToPosition(diagram); err != nil {
		return nil, err
	}
	return b, nil
}

// String returns the board as a compact diagram that SetToPosition reads
// back.
func (b *GameBoard) String() string {
	var sb strings.Builder
	for y := 0; y < Dim; y++ {
		sb.WriteString("|")
		for x := 0; x < Dim; x++ {
			switch b.cells[x][y] {
			case Black:
				sb.WriteString("X")
			case White:
				sb.WriteString("O")
			default:
				sb.WriteString(".")
			}
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}
