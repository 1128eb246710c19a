package game

import (
	"fmt"
	"strings"

	"github.com/flipside/reversi/board"
)

func addText(lines []string, row int, hpad int, text string) {
	if row >= len(lines) {
		return
	}
	lines[row] = lines[row] + strings.Repeat(" ", hpad) + text
}

// ToDisplayText turns the current state of the game into a displayable
// string, with the legal moves of the side to move marked on the board.
func (g *Game) ToDisplayText() string {
	var marks []board.Point
	if g.playing == PlayStatePlaying {
		marks = g.board.LegalMoves(g.onturn)
	}
	bts := strings.Split(g.board.ToDisplayText(marks), "\n")
	hpadding := 3
	vpadding := 3

	black, white := g.Counts()
	addText(bts, vpadding, hpadding, stateString("black", black,
		g.playing == PlayStatePlaying && g.onturn == board.Black))
	addText(bts, vpadding+1, hpadding, stateString("white", white,
		g.playing == PlayStatePlaying && g.onturn == board.White))

	if g.playing == PlayStateGameOver {
		addText(bts, vpadding+3, hpadding, "Game is over: "+g.result.String())
	} else {
		addText(bts, vpadding+3, hpadding, fmt.Sprintf("Ply %d, %d legal moves",
			g.turnnum, len(marks)))
	}
	return strings.Join(bts, "\n")
}

func stateString(name string, discs int, onturn bool) string {
	onturnMarker := ""
	if onturn {
		onturnMarker = "-> "
	}
	return fmt.Sprintf("%4s%-6s %2d discs", onturnMarker, name, discs)
}
