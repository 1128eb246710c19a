package strategy

import (
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/flipside/reversi/board"
)

// AIName identifies a strategy. The numeric values are stable and can be
// stored or passed around as plain integers.
type AIName int

const (
	FirstLegal AIName = iota + 1
	GreedyCapture
	WeightedGreedyCapture
)

// Fallback is used whenever a name is not recognized.
const Fallback = FirstLegal

type registration struct {
	ident   string
	label   string
	aliases []string
	factory func() Strategy
}

var registry = map[AIName]registration{
	FirstLegal: {
		ident:   "first-legal",
		label:   "First legal move",
		aliases: []string{"simple", "first"},
		factory: NewFirstLegal,
	},
	GreedyCapture: {
		ident:   "greedy-capture",
		label:   "Greedy capture",
		aliases: []string{"normal1", "greedy"},
		factory: NewGreedyCapture,
	},
	WeightedGreedyCapture: {
		ident:   "weighted-greedy-capture",
		label:   "Weighted greedy capture",
		aliases: []string{"normal2", "weighted"},
		factory: NewWeightedGreedyCapture,
	},
}

func lookup(n AIName) registration {
	if r, ok := registry[n]; ok {
		return r
	}
	return registry[Fallback]
}

// String returns the identifier used in config files and on the command
// line.
func (n AIName) String() string {
	return lookup(n).ident
}

// Label is the human-readable name.
func (n AIName) Label() string {
	return lookup(n).label
}

// Valid is true for registered names.
func (n AIName) Valid() bool {
	_, ok := registry[n]
	return ok
}

// New returns a fresh, uninitialized strategy. Unknown names get the
// fallback strategy.
func New(n AIName) Strategy {
	r, ok := registry[n]
	if !ok {
		log.Warn().Int("ai", int(n)).Str("fallback", Fallback.String()).
			Msg("unknown-ai-name")
		r = registry[Fallback]
	}
	return r.factory()
}

// NewForColor is New followed by Initialize.
func NewForColor(n AIName, color board.CellState) (Strategy, error) {
	s := New(n)
	if err := s.Initialize(color); err != nil {
		return nil, err
	}
	return s, nil
}

// Names lists the registered names in numeric order.
func Names() []AIName {
	names := lo.Keys(registry)
	slices.Sort(names)
	return names
}

// ParseAIName accepts an identifier, an alias or the numeric code. Anything
// else gives the fallback.
func ParseAIName(s string) AIName {
	s = strings.ToLower(strings.TrimSpace(s))
	if i, err := strconv.Atoi(s); err == nil {
		if AIName(i).Valid() {
			return AIName(i)
		}
		return Fallback
	}
	name, ok := lo.FindKeyBy(registry, func(_ AIName, r registration) bool {
		return r.ident == s || slices.Contains(r.aliases, s)
	})
	if !ok {
		return Fallback
	}
	return name
}
