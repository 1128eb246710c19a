package zobrist

import (
	"lukechampine.com/frand"

	"github.com/flipside/reversi/board"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for a reversi position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	whiteToMove uint64

	// posTable is indexed by cell (x-major) then by color. The Empty column
	// is left zero so that empty cells do not contribute.
	posTable [][3]uint64

	boardDim int
}

func (z *Zobrist) Initialize(boardDim int) {
	z.boardDim = boardDim
	z.posTable = make([][3]uint64, boardDim*boardDim)
	for i := 0; i < boardDim*boardDim; i++ {
		z.posTable[i][board.Black] = frand.Uint64n(bignum) + 1
		z.posTable[i][board.White] = frand.Uint64n(bignum) + 1
	}
	z.whiteToMove = frand.Uint64n(bignum) + 1
}

// Hash computes the key of a position from scratch.
func (z *Zobrist) Hash(b *board.GameBoard, onturn board.CellState) uint64 {
	key := uint64(0)
	for _, color := range []board.CellState{board.Black, board.White} {
		for _, p := range b.Cells(color) {
			key ^= z.posTable[p.Index()][color]
		}
	}
	if onturn == board.White {
		key ^= z.whiteToMove
	}
	return key
}

// AddMove updates key for a disc placed by player at p together with the
// discs it flipped. The side to move is not touched; see ToggleTurn.
func (z *Zobrist) AddMove(key uint64, player board.CellState, p board.Point,
	flipped []board.Point) uint64 {

	key ^= z.posTable[p.Index()][player]
	opp := player.Opponent()
	for _, f := range flipped {
		idx := f.Index()
		key ^= z.posTable[idx][opp]
		key ^= z.posTable[idx][player]
	}
	return key
}

// ToggleTurn hands the move to the other side.
func (z *Zobrist) ToggleTurn(key uint64) uint64 {
	return key ^ z.whiteToMove
}

// Default is a table shared by every game in the process. Hashes are only
// comparable when they come from the same table.
var Default = func() *Zobrist {
	z := &Zobrist{}
	z.Initialize(board.Dim)
	return z
}()
