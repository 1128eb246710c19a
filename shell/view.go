package shell

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/flipside/reversi/board"
	"github.com/flipside/reversi/runner"
)

// colorName title-cases a color. A Caser keeps state, so each call gets its
// own.
func colorName(c board.CellState) string {
	return cases.Title(language.English).String(c.String())
}

func resultMessage(r board.Result, black, white int) string {
	outcome := "It's a draw"
	if w := r.Winner(); w != board.Empty {
		outcome = colorName(w) + " wins"
	}
	return fmt.Sprintf("Game over. %s, %d to %d.", outcome, max(black, white), min(black, white))
}

// terminalView prints the game as the controller reports it. The board is
// held back until the candidate cells arrive so that it is drawn once per
// turn, with the candidates marked.
type terminalView struct {
	w io.Writer

	board   *board.GameBoard
	black   int
	white   int
	current board.CellState
}

func newTerminalView(w io.Writer) *terminalView {
	return &terminalView{w: w}
}

var _ runner.View = (*terminalView)(nil)

func (v *terminalView) ShowBoard(b *board.GameBoard) {
	v.board = b
}

func (v *terminalView) ShowStoneCounts(black, white int) {
	v.black, v.white = black, white
}

func (v *terminalView) ShowCurrentPlayer(player board.CellState) {
	v.current = player
}

func (v *terminalView) UpdateCandidates(cells []board.Point) {
	if v.board == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(v.board.ToDisplayText(cells))
	fmt.Fprintf(&sb, "Black %d  White %d\n", v.black, v.white)
	if v.current != board.Empty {
		fmt.Fprintf(&sb, "%s to move", colorName(v.current))
		if len(cells) > 0 {
			names := make([]string, len(cells))
			for i, c := range cells {
				names[i] = c.String()
			}
			fmt.Fprintf(&sb, " (%s)", strings.Join(names, " "))
		}
		sb.WriteString(".\n")
	}
	io.WriteString(v.w, sb.String())
	v.board = nil
	v.current = board.Empty
}

func (v *terminalView) ShowPassed(player board.CellState) {
	writeln(fmt.Sprintf("%s has no legal move and passes.", colorName(player)), v.w)
}

func (v *terminalView) ShowWarning(w runner.Warning) {
	writeln(w.String(), v.w)
}

func (v *terminalView) BeginThinking() {
	writeln("Thinking...", v.w)
}

func (v *terminalView) EndThinking() {}

func (v *terminalView) GameFinished(result board.Result, black, white int) {
	writeln(resultMessage(result, black, white), v.w)
}
