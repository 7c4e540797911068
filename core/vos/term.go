package vos

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNotInteractive is returned by terminal operations on a descriptor that
// isn't a terminal.
var ErrNotInteractive = errors.New("not a terminal")

// VTerm is the controlling terminal of the shell.
type VTerm interface {
	IsTerminal() bool

	// Foreground returns the terminal's foreground process group (tcgetpgrp).
	Foreground() (int, error)
	// SetForeground hands the terminal to a process group (tcsetpgrp).
	SetForeground(pgid int) error

	// SaveMode snapshots the terminal attributes.
	SaveMode() error
	// RestoreMode applies the snapshot immediately.
	RestoreMode() error

	// ChildAttr returns the attributes a new child is started with: its own
	// process group and, if foreground is set, ownership of the terminal.
	ChildAttr(foreground bool) *syscall.SysProcAttr
}

// HostTerm is the terminal attached to a host file descriptor.
type HostTerm struct {
	Fd int

	saved *term.State
}

var _ VTerm = (*HostTerm)(nil)

// IsTerminal implements VTerm.IsTerminal.
func (t *HostTerm) IsTerminal() bool {
	return term.IsTerminal(t.Fd)
}

// Foreground implements VTerm.Foreground.
func (t *HostTerm) Foreground() (int, error) {
	return unix.IoctlGetInt(t.Fd, unix.TIOCGPGRP)
}

// SetForeground implements VTerm.SetForeground. A caller outside the
// foreground group must have SIGTTOU ignored, see VSignals.IgnoringTTOU.
func (t *HostTerm) SetForeground(pgid int) error {
	return unix.IoctlSetPointerInt(t.Fd, unix.TIOCSPGRP, pgid)
}

// SaveMode implements VTerm.SaveMode.
func (t *HostTerm) SaveMode() error {
	state, err := term.GetState(t.Fd)
	if err != nil {
		return err
	}
	t.saved = state
	return nil
}

// RestoreMode implements VTerm.RestoreMode.
func (t *HostTerm) RestoreMode() error {
	if t.saved == nil {
		return ErrNotInteractive
	}
	return term.Restore(t.Fd, t.saved)
}

// ChildAttr implements VTerm.ChildAttr.
//
// The Go runtime applies these in the child between fork and exec:
// setpgid(0, 0), then TIOCSPGRP on Ctty with all signals blocked, then it
// resets every signal the parent catches to SIG_DFL. Ctty is a descriptor
// number in the child, the terminal is always passed as its stdin.
func (t *HostTerm) ChildAttr(foreground bool) *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:    true,
		Pgid:       0,
		Foreground: foreground,
		Ctty:       0,
	}
}
