package board

// Direction is one of the eight compass directions a line can extend in.
type Direction int

const (
	Left Direction = iota
	Up
	Right
	Down
	UpLeft
	UpRight
	DownRight
	DownLeft

	NumDirections = 8
)

var directionDeltas = [NumDirections][2]int{
	Left:      {-1, 0},
	Up:        {0, -1},
	Right:     {1, 0},
	Down:      {0, 1},
	UpLeft:    {-1, -1},
	UpRight:   {1, -1},
	DownRight: {1, 1},
	DownLeft:  {-1, 1},
}

func (d Direction) String() string {
	return [...]string{"left", "up", "right", "down", "up-left", "up-right",
		"down-right", "down-left"}[d]
}

// Rays returns, for the cell (x, y) on an n*n board, the eight lines of
// cells leading away from it to the edge. Each ray starts with the
// neighbouring cell; a ray is empty when the cell sits on that edge.
func Rays(x, y, n int) [NumDirections][]Point {
	var rays [NumDirections][]Point
	for d, delta := range directionDeltas {
		ray := []Point{}
		cx, cy := x+delta[0], y+delta[1]
		for cx >= 0 && cx < n && cy >= 0 && cy < n {
			ray = append(ray, Point{cx, cy})
			cx += delta[0]
			cy += delta[1]
		}
		rays[d] = ray
	}
	return rays
}

// rayTable is built once and shared by every board. It must never be
// written to after init.
var rayTable = buildRayTable()

func buildRayTable() *[Dim][Dim][NumDirections][]Point {
	t := &[Dim][Dim][NumDirections][]Point{}
	for x := 0; x < Dim; x++ {
		for y := 0; y < Dim; y++ {
			t[x][y] = Rays(x, y, Dim)
		}
	}
	return t
}

// RaysFrom returns the precomputed rays for a point on the board. The
// returned slices are shared; callers must not modify them.
func RaysFrom(p Point) *[NumDirections][]Point {
	return &rayTable[p.X][p.Y]
}
