package core

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/labsh/core/config"
	"github.com/josephlewis42/labsh/core/shell"
	"github.com/josephlewis42/labsh/core/vos"
	"golang.org/x/sys/unix"
)

const (
	EnvHome = "HOME"
	EnvPath = "PATH"

	// ExitFailure is the status of a command that could not be run.
	ExitFailure = 1
)

var (
	// ErrNoHomeDirectory is reported by cd when neither HOME nor the user
	// database names a home directory.
	ErrNoHomeDirectory = errors.New("cannot determine home directory")
	// ErrDirectoryChangeFailed wraps chdir errors.
	ErrDirectoryChangeFailed = errors.New("chdir failed")
	// ErrForkFailed means no child process could be created. The shell can't
	// continue after it.
	ErrForkFailed = errors.New("fork failed")
)

var diagColor = color.New(color.FgRed)

// LineReader supplies input lines and keeps the recall history.
type LineReader interface {
	// Readline returns the next line, io.EOF at the end of input or
	// readline.ErrInterrupt if the line was abandoned.
	Readline() (string, error)
	SaveHistory(content string) error
	ResetHistory()
	Close() error
}

// Shell is an interactive session bound to a terminal.
type Shell struct {
	VirtualOS vos.VOS
	Readline  LineReader
	Config    *config.Configuration

	interactive bool
	pgid        int
	prompt      string
	history     []string
	lastStatus  Status
	log         *log.Logger
	closed      bool

	// Set to true to quit the shell
	Quit bool
}

// NewShell initializes a session on virtualOS and attaches line editing to
// its standard streams.
func NewShell(virtualOS vos.VOS, configuration *config.Configuration) (*Shell, error) {
	s := newShell(virtualOS, configuration, nil)
	if err := s.Init(); err != nil {
		return nil, err
	}

	cfg := &readline.Config{
		Prompt:                 s.prompt,
		Stdin:                  readline.NewCancelableStdin(virtualOS.Stdin()),
		Stdout:                 virtualOS.Stdout(),
		Stderr:                 virtualOS.Stderr(),
		HistoryLimit:           configuration.HistoryLimit,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        configuration.InterruptPrompt,
		FuncIsTerminal: func() bool {
			return s.interactive
		},
	}

	if err := cfg.Init(); err != nil {
		s.Close()
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Readline = readlineInput{rl}

	return s, nil
}

func newShell(virtualOS vos.VOS, configuration *config.Configuration, input LineReader) *Shell {
	return &Shell{
		VirtualOS: virtualOS,
		Readline:  input,
		Config:    configuration,
		log:       log.New(virtualOS.Stderr(), "lab: ", 0),
	}
}

// Init captures the terminal for the shell: it waits until the shell is in
// the terminal's foreground group, shields the shell from job-control
// signals, snapshots the terminal mode and resolves the prompt.
func (s *Shell) Init() error {
	s.interactive = s.VirtualOS.IsTerminal()
	s.pgid = s.VirtualOS.Getpgrp()

	if s.interactive {
		if err := s.waitForForeground(); err != nil {
			return err
		}
		s.VirtualOS.Shield()
		if err := s.VirtualOS.SaveMode(); err != nil {
			s.VirtualOS.Release()
			return fmt.Errorf("saving terminal mode: %w", err)
		}
	}

	s.prompt = s.Config.Prompt(s.VirtualOS.LookupEnv)
	return nil
}

// waitForForeground stops the shell with SIGTTIN until whoever started it
// puts it in the foreground. SIGTTIN must still have its default disposition.
func (s *Shell) waitForForeground() error {
	for {
		s.pgid = s.VirtualOS.Getpgrp()
		fg, err := s.VirtualOS.Foreground()
		if err != nil {
			return fmt.Errorf("reading terminal foreground group: %w", err)
		}
		if fg == s.pgid {
			return nil
		}
		if err := s.VirtualOS.Kill(-s.pgid, unix.SIGTTIN); err != nil {
			return err
		}
	}
}

// Interactive reports whether the session controls a terminal.
func (s *Shell) Interactive() bool {
	return s.interactive
}

// Pgid returns the process group the shell belongs to.
func (s *Shell) Pgid() int {
	return s.pgid
}

// Prompt returns the prompt resolved at initialization.
func (s *Shell) Prompt() string {
	return s.prompt
}

// LastStatus returns the status of the last command that completed.
func (s *Shell) LastStatus() Status {
	return s.lastStatus
}

// History returns the accepted lines, oldest first.
func (s *Shell) History() []string {
	return append([]string(nil), s.history...)
}

// Run reads and executes lines until the input ends or the shell quits.
func (s *Shell) Run() error {
	for !s.Quit {
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue // Line abandoned with ^C.

		case err != nil:
			s.log.Printf("reading input: %v", err)
			return err

		default:
			if err := s.Execute(line); err != nil {
				return err
			}
		}
	}

	return nil
}

// Execute runs a single input line. Only errors that make continuing
// impossible are returned, everything else is reported on stderr.
func (s *Shell) Execute(line string) error {
	line = shell.Trim(line)
	if line == "" {
		return nil
	}
	s.addHistory(line)

	cmd := shell.Parse(line)
	if s.runBuiltin(cmd) {
		return nil
	}

	_, err := s.Launch(cmd)
	return err
}

func (s *Shell) addHistory(line string) {
	s.history = append(s.history, line)
	if s.Readline != nil {
		if err := s.Readline.SaveHistory(line); err != nil {
			s.log.Printf("saving history: %v", err)
		}
	}
}

// Close restores the terminal mode and signal dispositions saved by Init.
// It is safe to call more than once.
func (s *Shell) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var lastErr error
	if s.Readline != nil {
		if err := s.Readline.Close(); err != nil {
			lastErr = err
		}
	}
	if s.interactive {
		if err := s.VirtualOS.RestoreMode(); err != nil {
			lastErr = err
		}
		s.VirtualOS.Release()
	}
	s.prompt = ""

	return lastErr
}

// errorf writes a diagnostic line to the error stream.
func (s *Shell) errorf(format string, a ...interface{}) {
	diagColor.Fprintf(s.VirtualOS.Stderr(), format+"\n", a...)
}

type readlineInput struct {
	*readline.Instance
}

func (r readlineInput) ResetHistory() {
	r.Operation.ResetHistory()
}
