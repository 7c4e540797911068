package vos

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// JobControlSignals are the signals the terminal driver delivers to the
// foreground process group.
var JobControlSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGQUIT,
	syscall.SIGTSTP,
	syscall.SIGTTIN,
	syscall.SIGTTOU,
}

// VSignals configures how the shell itself disposes of job-control signals.
//
// The shell catches and discards job-control signals rather than ignoring
// them: ignored dispositions survive exec, caught ones are reset to the
// default in every child. SIGTTOU is the exception, it has to be ignored
// while a background shell changes the terminal's foreground group.
type VSignals interface {
	// Shield stops job-control signals from affecting the shell.
	Shield()
	// Release restores the default dispositions.
	Release()
	// IgnoringTTOU runs fn with SIGTTOU ignored. fn must not start processes.
	IgnoringTTOU(fn func())
}

// HostSignals configures the signal dispositions of the running process.
type HostSignals struct {
	mu sync.Mutex
	ch chan os.Signal
}

var _ VSignals = (*HostSignals)(nil)

// Shield implements VSignals.Shield.
func (h *HostSignals) Shield() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ch != nil {
		return
	}
	h.ch = make(chan os.Signal, len(JobControlSignals))
	signal.Notify(h.ch, JobControlSignals...)
	go func(ch <-chan os.Signal) {
		for range ch {
			// Discard, the foreground child receives its own copy.
		}
	}(h.ch)
}

// Release implements VSignals.Release.
func (h *HostSignals) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ch == nil {
		return
	}
	signal.Stop(h.ch)
	signal.Reset(JobControlSignals...)
	close(h.ch)
	h.ch = nil
}

// IgnoringTTOU implements VSignals.IgnoringTTOU.
func (h *HostSignals) IgnoringTTOU(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	signal.Ignore(syscall.SIGTTOU)
	defer func() {
		if h.ch != nil {
			signal.Notify(h.ch, syscall.SIGTTOU)
		} else {
			signal.Reset(syscall.SIGTTOU)
		}
	}()

	fn()
}

// Shielded reports whether Shield is in effect.
func (h *HostSignals) Shielded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ch != nil
}
