package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/flipside/reversi/automatic"
	"github.com/flipside/reversi/board"
	"github.com/flipside/reversi/config"
	"github.com/flipside/reversi/game"
	"github.com/flipside/reversi/runner"
	"github.com/flipside/reversi/strategy"
)

type CmdOptions map[string]string

func (c CmdOptions) String(key string) string {
	return c[key]
}

func (c CmdOptions) Int(key string) (int, error) {
	v, ok := c[key]
	if !ok {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) Bool(key string) bool {
	return strings.ToLower(c[key]) == "true"
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	settings := sc.settings
	if len(cmd.args) > 2 {
		return nil, errors.New("usage: new [ai] [color]")
	}
	if len(cmd.args) > 0 {
		settings.SetAI(cmd.args[0])
	}
	if len(cmd.args) > 1 {
		if err := settings.SetColor(cmd.args[1]); err != nil {
			return nil, err
		}
	}
	if d := cmd.options.String("delay"); d != "" {
		sc.config.Set(config.ConfigThinkDelay, d)
		settings.ThinkDelay = sc.config.ThinkDelay()
	}

	ctrl, err := runner.NewController(settings, sc.view)
	if err != nil {
		return nil, err
	}
	sc.stopGame()
	sc.settings = settings
	sc.ctrl = ctrl
	ctx, cancel := context.WithCancel(context.Background())
	sc.gameCancel = cancel

	sc.showMessage("New game: " + settings.String())
	sc.background.Add(1)
	go func() {
		defer sc.background.Done()
		err := ctrl.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("game-loop")
			sc.showError(err)
		}
	}()
	return nil, nil
}

func (sc *ShellController) stopGame() {
	if sc.gameCancel == nil {
		return
	}
	sc.gameCancel()
	<-sc.ctrl.Done()
	sc.gameCancel = nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <coord>, for example play c4")
	}
	p, err := board.ParsePoint(cmd.args[0])
	if err != nil {
		return nil, err
	}
	return sc.selectCell(p)
}

func (sc *ShellController) selectCell(p board.Point) (*Response, error) {
	if sc.ctrl == nil {
		return nil, errNoGame
	}
	err := sc.ctrl.SelectCell(context.Background(), p)
	if errors.Is(err, runner.ErrNotYourTurn) {
		return nil, errors.New("wait for the computer to move")
	}
	return nil, err
}

func (sc *ShellController) snapshot() (*game.Game, error) {
	if sc.ctrl == nil {
		return nil, errNoGame
	}
	return sc.ctrl.Snapshot(context.Background())
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	g, err := sc.snapshot()
	if err != nil {
		return nil, err
	}
	return msg(g.ToDisplayText()), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	g, err := sc.snapshot()
	if err != nil {
		return nil, err
	}
	if g.Playing() == game.PlayStateGameOver {
		return msg("Game is over: " + g.Result().String()), nil
	}
	onturn := g.PlayerOnTurn()
	moves := g.LegalMoves(onturn)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s to move, %d legal moves:\n", colorName(onturn), len(moves))
	sb.WriteString("  Cell  Flips  Weight\n")
	for _, m := range moves {
		fmt.Fprintf(&sb, "  %-4s  %5d  %6d\n", m, g.Board().CaptureCount(onturn, m.X, m.Y),
			strategy.CellWeight(m))
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) listAIs(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	for _, n := range strategy.Names() {
		marker := " "
		if n == sc.settings.AI {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %d  %-24s %s\n", marker, int(n), n, n.Label())
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

// autoplayOptions starts from the configured autoplay options and applies
// any given on the command line.
func (sc *ShellController) autoplayOptions(cmd *shellcmd) (automatic.CompVCompOptions, error) {
	opts := automatic.OptionsFromConfig(sc.config)
	var err error
	if opts.NumGames, err = cmd.options.IntDefault("games", opts.NumGames); err != nil {
		return opts, err
	}
	if opts.Threads, err = cmd.options.IntDefault("threads", opts.Threads); err != nil {
		return opts, err
	}
	if opts.RandomPlies, err = cmd.options.IntDefault("random", opts.RandomPlies); err != nil {
		return opts, err
	}
	if ai := cmd.options.String("ai1"); ai != "" {
		opts.AI1 = strategy.ParseAIName(ai)
	}
	if ai := cmd.options.String("ai2"); ai != "" {
		opts.AI2 = strategy.ParseAIName(ai)
	}
	if f := cmd.options.String("file"); f != "" {
		opts.OutputFile = f
	}
	return opts, nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 1 && cmd.args[0] == "stop" {
		if !sc.stopAutoplay() {
			return nil, errors.New("no autoplay is running")
		}
		return msg("Stopping autoplay..."), nil
	}
	opts, err := sc.autoplayOptions(cmd)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	sc.autoplayMu.Lock()
	if sc.autoplayCancel != nil || automatic.IsPlaying.Value() > 0 {
		sc.autoplayMu.Unlock()
		cancel()
		return nil, automatic.ErrAlreadyPlaying
	}
	sc.autoplayCancel = cancel
	sc.autoplayMu.Unlock()

	sc.background.Add(1)
	go func() {
		defer sc.background.Done()
		defer func() {
			sc.autoplayMu.Lock()
			sc.autoplayCancel = nil
			sc.autoplayMu.Unlock()
			cancel()
		}()
		err := automatic.PlayCompVComp(ctx, opts)
		if errors.Is(err, context.Canceled) {
			sc.showMessage(fmt.Sprintf("Autoplay stopped after %d games.", automatic.CVCCounter.Value()))
			return
		} else if err != nil {
			sc.showError(err)
			return
		}
		resp, err := sc.summarize(opts.OutputFile, sc.config.GetBool(config.ConfigAutoplayReportYAML))
		if err != nil {
			sc.showError(err)
			return
		}
		sc.showMessage(resp.message)
	}()

	return msg(fmt.Sprintf("Playing %d games of %v vs %v on %d threads; logging to %v.",
		opts.NumGames, opts.AI1, opts.AI2, opts.Threads, opts.OutputFile)), nil
}

// stopAutoplay reports whether there was an autoplay to stop.
func (sc *ShellController) stopAutoplay() bool {
	sc.autoplayMu.Lock()
	defer sc.autoplayMu.Unlock()
	if sc.autoplayCancel == nil {
		return false
	}
	sc.autoplayCancel()
	return true
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: analyze <file> [-yaml true]")
	}
	asYAML := sc.config.GetBool(config.ConfigAutoplayReportYAML)
	if _, ok := cmd.options["yaml"]; ok {
		asYAML = cmd.options.Bool("yaml")
	}
	return sc.summarize(cmd.args[0], asYAML)
}

func (sc *ShellController) summarize(path string, asYAML bool) (*Response, error) {
	summary, err := automatic.AnalyzeLogFile(path)
	if err != nil {
		return nil, err
	}
	if !asYAML {
		return msg(summary.String()), nil
	}
	var buf bytes.Buffer
	if err := summary.WriteYAML(&buf); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(buf.String(), "\n")), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		usage(sc.out)
	} else {
		usageTopic(sc.out, cmd.args[0])
	}
	return nil, nil
}
