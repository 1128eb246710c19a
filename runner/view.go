package runner

import "github.com/flipside/reversi/board"

// Warning is a problem with the human's input that the view should show.
type Warning int

const (
	WarningCannotPlaceHere Warning = iota + 1
)

func (w Warning) String() string {
	switch w {
	case WarningCannotPlaceHere:
		return "You cannot place a disc there."
	}
	return "unknown warning"
}

// View is the display surface the controller drives. All methods are
// called from the controller's Run goroutine, one at a time.
type View interface {
	ShowBoard(b *board.GameBoard)
	// UpdateCandidates lists the cells the human may play; it is empty
	// while the computer is on turn.
	UpdateCandidates(cells []board.Point)
	ShowCurrentPlayer(player board.CellState)
	ShowStoneCounts(black, white int)
	ShowPassed(player board.CellState)
	ShowWarning(w Warning)
	BeginThinking()
	EndThinking()
	GameFinished(result board.Result, black, white int)
}
