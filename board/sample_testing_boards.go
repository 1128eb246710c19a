package board

// This file contains some sample boards, used solely for testing.

// Position is a plain-text board diagram; see SetToPosition.
type Position string

const (
	// OpeningPosition is the standard start.
	OpeningPosition Position = `
|........|
|........|
|........|
|...OX...|
|...XO...|
|........|
|........|
|........|
`

	// ForcedPassPosition: black's only moves are c1 and f8. After c1 white
	// has nothing, but black can still play f8, so white must pass.
	ForcedPassPosition Position = `
|XO......|
|........|
|........|
|........|
|........|
|........|
|........|
|......OX|
`

	// DivergentPosition gives black three legal moves that the three
	// strategies rank differently: b1 flips one disc and comes first in
	// scan order, d6 flips three, and h1 flips one but takes a corner.
	DivergentPosition Position = `
|........|
|.O.....O|
|.X.....X|
|........|
|........|
|....OOOX|
|........|
|........|
`

	// FullBoard33To31 is a finished game that black won 33-31.
	FullBoard33To31 Position = `
|XXXXOOOO|
|XXXXOOOO|
|XXXXOOOO|
|XXXXOOOO|
|XXXXOOOO|
|XXXXOOOO|
|XXXXOOOO|
|XXXXXOOO|
`

	// FullBoardDraw is a finished game tied 32-32.
	FullBoardDraw Position = `
|XXXXOOOO|
|XXXXOOOO|
|XXXXOOOO|
|XXXXOOOO|
|XXXXOOOO|
|XXXXOOOO|
|XXXXOOOO|
|XXXXOOOO|
`

	// WipeoutPosition has empty cells left but no white discs, so neither
	// side can move.
	WipeoutPosition Position = `
|........|
|........|
|........|
|...XX...|
|...XX...|
|........|
|........|
|........|
`
)
