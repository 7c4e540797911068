package core

import (
	"fmt"

	"github.com/josephlewis42/labsh/core/shell"
	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// runBuiltin executes cmd if it names a builtin and reports whether it did.
func (s *Shell) runBuiltin(cmd shell.Command) bool {
	builtin, ok := AllBuiltins[cmd.Name()]
	if !ok || cmd.Empty() {
		return false
	}

	code := builtin.Main(s, cmd)
	s.setStatus(Status{Kind: StatusExited, Code: code})
	return true
}

// Cd is the cd shell builtin
func Cd(s *Shell, args []string) int {
	if err := s.changeDir(args); err != nil {
		s.errorf("%s: %v", args[0], err)
		return 1
	}
	return 0
}

// changeDir moves to args[1], or home if it's missing. Extra arguments are
// ignored.
func (s *Shell) changeDir(args []string) error {
	var target string
	if len(args) < 2 {
		home, err := s.homeDir()
		if err != nil {
			return err
		}
		target = home
	} else {
		target = args[1]
	}

	if err := s.VirtualOS.Chdir(target); err != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryChangeFailed, err)
	}
	return nil
}

// homeDir prefers HOME, even when empty, over the user database.
func (s *Shell) homeDir() (string, error) {
	if home, ok := s.VirtualOS.LookupEnv(EnvHome); ok {
		return home, nil
	}

	home, err := s.VirtualOS.UserHomeDir(s.VirtualOS.Getuid())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHomeDirectory, err)
	}
	return home, nil
}

// Exit tears the session down and quits the shell
func Exit(s *Shell, args []string) int {
	if err := s.Close(); err != nil {
		s.log.Printf("closing session: %v", err)
	}
	s.Quit = true
	return 0
}

// History prints the accepted lines oldest first.
func History(s *Shell, args []string) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.VirtualOS.Stderr()
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: history [-c]")
		fmt.Fprintln(w, "Display the history list, oldest first.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		if err != nil {
			return 1
		}
		return 0
	}

	if *clear {
		s.history = nil
		if s.Readline != nil {
			s.Readline.ResetHistory()
		}
		return 0
	}

	w := s.VirtualOS.Stdout()
	for _, line := range s.history {
		fmt.Fprintln(w, line)
	}
	return 0
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["history"] = ShellBuiltinFunc(History)
}
