package core

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// StatusKind is the kind of state change a child reported.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusExited
	StatusSignaled
	StatusStopped
	StatusContinued
)

// Status is a decoded wait status.
type Status struct {
	Kind StatusKind
	// Code is the exit status, valid for StatusExited.
	Code int
	// Signal is the terminating or stopping signal.
	Signal unix.Signal
}

// DecodeWaitStatus interprets a raw wait status.
func DecodeWaitStatus(ws unix.WaitStatus) Status {
	switch {
	case ws.Exited():
		return Status{Kind: StatusExited, Code: ws.ExitStatus()}
	case ws.Signaled():
		return Status{Kind: StatusSignaled, Signal: ws.Signal()}
	case ws.Stopped():
		return Status{Kind: StatusStopped, Signal: ws.StopSignal()}
	case ws.Continued():
		return Status{Kind: StatusContinued}
	default:
		return Status{}
	}
}

// Success reports whether the child exited with status 0.
func (s Status) Success() bool {
	return s.Kind == StatusExited && s.Code == 0
}

func (s Status) String() string {
	switch s.Kind {
	case StatusExited:
		return fmt.Sprintf("exited with status %d", s.Code)
	case StatusSignaled:
		return fmt.Sprintf("terminated by signal %d (%v)", int(s.Signal), s.Signal)
	case StatusStopped:
		return fmt.Sprintf("stopped by signal %d (%v)", int(s.Signal), s.Signal)
	case StatusContinued:
		return "continued"
	default:
		return "unknown status"
	}
}
