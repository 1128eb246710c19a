package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/flipside/reversi/board"
	"github.com/flipside/reversi/config"
	"github.com/flipside/reversi/runner"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; start one with `new`")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

// syncWriter serializes writes from the shell and from the game loop, which
// runs on its own goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	settings runner.Settings
	view     *terminalView

	ctrl       *runner.Controller
	gameCancel context.CancelFunc

	autoplayCancel context.CancelFunc
	autoplayMu     sync.Mutex

	// background tracks the game loop and autoplay goroutines.
	background sync.WaitGroup
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := newShellController(cfg, nil)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mreversi>\033[0m ",
		HistoryFile:     "/tmp/reversi-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.setOutput(l.Stderr())
	return sc
}

// newShellController builds a controller that writes to w and has no
// readline instance attached.
func newShellController(cfg *config.Config, w io.Writer) *ShellController {
	sc := &ShellController{
		config:   cfg,
		settings: runner.SettingsFromConfig(cfg),
	}
	sc.setOutput(w)
	return sc
}

func (sc *ShellController) setOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	sc.out = &syncWriter{w: w}
	sc.view = newTerminalView(sc.out)
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into a command, its positional arguments and
// its -key value options. Quoting follows shell rules.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") && len(fields[idx]) > 1 {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{
		cmd:     cmd,
		args:    args,
		options: options,
	}, nil
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "new", "n":
		return sc.newGame(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "moves", "m":
		return sc.moves(cmd)
	case "ai":
		return sc.listAIs(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "analyze":
		return sc.analyze(cmd)
	case "help":
		return sc.help(cmd)
	}
	// A bare coordinate is a move.
	if p, perr := board.ParsePoint(cmd.cmd); perr == nil && len(cmd.args) == 0 {
		return sc.selectCell(p)
	}
	msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
	log.Info().Msg(msg)
	return nil, errors.New(msg)
}

// Execute runs a single command and waits for any work it started in the
// background, such as an autoplay run.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.handle(line)
	if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
	sc.autoplayMu.Lock()
	running := sc.autoplayCancel != nil
	sc.autoplayMu.Unlock()
	if running {
		sc.waitForAutoplay(sig)
	}
}

func (sc *ShellController) waitForAutoplay(sig chan os.Signal) {
	done := make(chan struct{})
	go func() {
		sc.background.Wait()
		close(done)
	}()
	select {
	case <-done:
	case s := <-sig:
		log.Info().Msgf("got %v, stopping autoplay", s)
		sc.stopAutoplay()
		<-done
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.handle(line)
		if errors.Is(err, errNoData) {
			continue
		} else if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops the current game and any autoplay, and waits for them.
func (sc *ShellController) Cleanup() {
	log.Info().Msg("cleaning up shell")
	sc.stopGame()
	sc.stopAutoplay()
	sc.background.Wait()
}
