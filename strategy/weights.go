package strategy

import "github.com/flipside/reversi/board"

// cellWeights rates every cell by position, indexed [x][y]. Corners are
// prized and the cells next to them are avoided.
var cellWeights = [board.Dim][board.Dim]int{
	{70, -10, 50, 5, 5, 50, -10, 70},
	{-10, -20, 10, 10, 10, 10, -20, -10},
	{50, 10, 30, 20, 20, 30, 10, 50},
	{5, 10, 20, 0, 0, 20, 10, 5},
	{5, 10, 20, 0, 0, 20, 10, 5},
	{50, 10, 30, 20, 20, 30, 10, 50},
	{-10, -20, 10, 10, 10, 10, -20, -10},
	{70, -10, 50, 5, 5, 50, -10, 70},
}

// CellWeight returns the positional weight of a cell.
func CellWeight(p board.Point) int {
	if !p.InBounds() {
		return 0
	}
	return cellWeights[p.X][p.Y]
}
