package automatic

// Data collection for automatic games. Allow computer vs computer games, etc.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/flipside/reversi/config"
	"github.com/flipside/reversi/strategy"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

type CompVCompOptions struct {
	NumGames    int
	Threads     int
	RandomPlies int
	AI1         strategy.AIName
	AI2         strategy.AIName
	OutputFile  string
}

// OptionsFromConfig fills in the autoplay options from the configuration.
// Both sides default to the configured AI.
func OptionsFromConfig(cfg *config.Config) CompVCompOptions {
	ai := strategy.ParseAIName(cfg.GetString(config.ConfigAI))
	return CompVCompOptions{
		NumGames:    cfg.GetInt(config.ConfigAutoplayGames),
		Threads:     cfg.GetInt(config.ConfigAutoplayThreads),
		RandomPlies: cfg.GetInt(config.ConfigAutoplayRandPlies),
		AI1:         ai,
		AI2:         ai,
		OutputFile:  cfg.GetString(config.ConfigAutoplayLogfile),
	}
}

// PlayCompVComp plays opts.NumGames games between the two AIs on
// opts.Threads workers, swapping colors every game, and writes one line per
// game to opts.OutputFile. It blocks until every game is done or ctx is
// cancelled.
func PlayCompVComp(ctx context.Context, opts CompVCompOptions) error {
	if IsPlaying.Value() > 0 {
		return ErrAlreadyPlaying
	}
	if opts.NumGames <= 0 || opts.Threads <= 0 {
		return fmt.Errorf("need at least one game and one thread, got %d and %d",
			opts.NumGames, opts.Threads)
	}
	logfile, err := os.Create(opts.OutputFile)
	if err != nil {
		return err
	}
	log.Debug().Msgf("Starting %v games, %v threads", opts.NumGames, opts.Threads)
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)
	CVCCounter.Set(0)

	logChan := make(chan string, 100)
	writer := errgroup.Group{}
	writer.Go(func() error {
		defer logfile.Close()
		_, werr := logfile.WriteString(LogHeader)
		// Keep draining after a write error so that no game blocks.
		for msg := range logChan {
			if werr == nil {
				_, werr = logfile.WriteString(msg)
			}
		}
		log.Info().Msg("Exiting game logger goroutine!")
		return werr
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Threads)
gameLoop:
	for i := 0; i < opts.NumGames; i++ {
		ai1, ai2 := opts.AI1, opts.AI2
		if i%2 == 1 {
			ai1, ai2 = ai2, ai1
		}
		select {
		case <-gctx.Done():
			log.Info().Msg("Got stop signal, exiting soon...")
			break gameLoop
		default:
		}
		g.Go(func() error {
			r, err := NewGameRunner(logChan, ai1, ai2, opts.RandomPlies)
			if err != nil {
				return err
			}
			if err := r.CompVsCompStatic(gctx); err != nil {
				return err
			}
			CVCCounter.Add(1)
			if n := CVCCounter.Value(); n%1000 == 0 {
				log.Info().Int64("games", n).Msg("autoplay-progress")
			}
			return nil
		})
	}
	err = g.Wait()
	close(logChan)
	log.Info().Int64("games", CVCCounter.Value()).Msg("All games finished.")
	if werr := writer.Wait(); werr != nil && err == nil {
		err = werr
	}
	if err == nil {
		err = ctx.Err()
	}
	return err
}
