package runner

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flipside/reversi/board"
	"github.com/flipside/reversi/config"
	"github.com/flipside/reversi/strategy"
)

var ErrInvalidSettings = errors.New("invalid game settings")

// Settings are fixed for the lifetime of one game.
type Settings struct {
	AI         strategy.AIName
	HumanColor board.CellState
	// ThinkDelay is how long the computer waits before answering.
	ThinkDelay time.Duration
}

func (s Settings) String() string {
	return fmt.Sprintf("%s vs %v (human plays %v)", s.AI.Label(), s.HumanColor.Opponent(), s.HumanColor)
}

// SettingsFromConfig reads the AI, the human's color and the think delay
// from the configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := Settings{
		AI:         strategy.ParseAIName(cfg.GetString(config.ConfigAI)),
		ThinkDelay: cfg.ThinkDelay(),
	}
	if err := s.SetColor(cfg.GetString(config.ConfigPlayerColor)); err != nil {
		log.Warn().Err(err).Msg("using black for the human")
		s.HumanColor = board.Black
	}
	return s
}

// SetAI picks the AI by identifier, alias or number. Unknown names fall
// back to the default AI.
func (s *Settings) SetAI(name string) {
	s.AI = strategy.ParseAIName(name)
	log.Info().Msgf("using AI %v", s.AI.Label())
}

func (s *Settings) SetColor(color string) error {
	c := board.ParseColor(color)
	if c == board.Empty {
		return fmt.Errorf("%w: %q is not a color; valid options are 'black' and 'white'",
			ErrInvalidSettings, color)
	}
	s.HumanColor = c
	return nil
}

func (s Settings) Validate() error {
	if !s.HumanColor.IsPlayer() {
		return fmt.Errorf("%w: human color must be black or white", ErrInvalidSettings)
	}
	if s.ThinkDelay < 0 {
		return fmt.Errorf("%w: negative think delay", ErrInvalidSettings)
	}
	return nil
}
