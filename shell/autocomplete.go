package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/flipside/reversi/board"
	"github.com/flipside/reversi/strategy"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"autoplay": {
		Options: []string{"-games", "-threads", "-ai1", "-ai2", "-random", "-file"},
		Args:    []string{"stop"},
	},
	"analyze": {
		Options: []string{"-yaml"},
	},
	"new": {
		Options: []string{"-delay"},
	},
	"help": {
		Args: []string{"new", "play", "autoplay", "analyze"},
	},
}

var commandNames = []string{
	"new", "play", "show", "moves", "ai", "autoplay", "analyze", "help", "exit",
}

var boolValues = []string{"true", "false"}

var colorValues = []string{"black", "white"}

func aiIdents() []string {
	return lo.Map(strategy.Names(), func(n strategy.AIName, _ int) string {
		return n.String()
	})
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}
		// Position of the argument being typed, not counting the command.
		argPos := len(fields) - 1
		if endsWithSpace {
			argPos++
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "ai1", "ai2":
				completions = aiIdents()
			case "yaml":
				completions = boolValues
			}
		} else {
			switch {
			case cmdName == "new" && argPos == 1:
				completions = aiIdents()
			case cmdName == "new" && argPos == 2:
				completions = colorValues
			case cmdName == "play" && argPos == 1:
				completions = c.candidates()
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}
	return matches, len(prefix)
}

// candidates lists the human's legal cells in the current game.
func (c *ShellCompleter) candidates() []string {
	g, err := c.sc.snapshot()
	if err != nil || g.PlayerOnTurn() != c.sc.settings.HumanColor {
		return nil
	}
	return lo.Map(g.LegalMoves(g.PlayerOnTurn()), func(p board.Point, _ int) string {
		return p.String()
	})
}
