package core

import (
	"fmt"
	"os"

	"github.com/josephlewis42/labsh/core/shell"
	"github.com/josephlewis42/labsh/core/vos"
)

// Launch runs cmd as an external program in its own process group, gives it
// the terminal and blocks until it exits, is killed, stops or continues.
//
// The returned error is only set when the shell can't go on (ErrForkFailed).
// Programs that can't be found or executed are reported on stderr and
// yield a status of ExitFailure.
func (s *Shell) Launch(cmd shell.Command) (Status, error) {
	if cmd.Empty() {
		return s.lastStatus, nil
	}

	path, err := vos.LookPath(s.VirtualOS.Fs(), s.VirtualOS, cmd.Name())
	if err != nil {
		s.errorf("lab: %s: %v", cmd.Name(), err)
		return s.setStatus(Status{Kind: StatusExited, Code: ExitFailure}), nil
	}

	pid, err := s.VirtualOS.StartProcess(path, cmd, &os.ProcAttr{
		Env:   s.VirtualOS.Environ(),
		Files: vos.Files(s.VirtualOS),
		Sys:   s.VirtualOS.ChildAttr(s.interactive),
	})
	switch {
	case err != nil && vos.IsForkFailure(err):
		return Status{}, fmt.Errorf("%w: %v", ErrForkFailed, err)
	case err != nil:
		// The child ran but could not exec, it has already exited.
		s.errorf("lab: %s: %v", cmd.Name(), err)
		return s.setStatus(Status{Kind: StatusExited, Code: ExitFailure}), nil
	}

	if s.interactive {
		defer s.reclaimTerminal()

		// The child does the same before exec, whichever runs first closes
		// the window where the terminal belongs to neither. Once the child
		// has exec'd setpgid fails with EACCES, and both fail with ESRCH if
		// it already exited, so errors are expected and ignored.
		s.VirtualOS.IgnoringTTOU(func() {
			_ = s.VirtualOS.Setpgid(pid, pid)
			_ = s.VirtualOS.SetForeground(pid)
		})
	}

	ws, err := s.VirtualOS.Wait(pid)
	if err != nil {
		s.errorf("lab: wait: %v", err)
		return Status{}, nil
	}

	status := DecodeWaitStatus(ws)
	if status.Kind != StatusExited {
		s.errorf("lab: %s: %s", cmd.Name(), status)
	}
	return s.setStatus(status), nil
}

// reclaimTerminal makes the shell's process group the foreground group
// again.
func (s *Shell) reclaimTerminal() {
	s.VirtualOS.IgnoringTTOU(func() {
		if err := s.VirtualOS.SetForeground(s.pgid); err != nil {
			s.log.Printf("restoring terminal: %v", err)
		}
	})
}

func (s *Shell) setStatus(status Status) Status {
	s.lastStatus = status
	return status
}
