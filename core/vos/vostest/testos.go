// Package vostest provides a scripted VOS for tests.
package vostest

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"

	"github.com/josephlewis42/labsh/core/vos"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// Pgid is the process group the fake shell belongs to.
const Pgid = 4242

// UID is the real user id of the fake shell.
const UID = 1000

// FakeOS is a VOS whose terminal, signals and process groups are simulated
// and recorded while programs, directories and files are real so children
// can actually run.
type FakeOS struct {
	*vos.MapEnv
	vos.MapUsers
	*vos.VIOAdapter

	// Interactive makes the fake terminal report itself as a terminal.
	Interactive bool
	// Background starts the shell outside the terminal's foreground group,
	// it is brought forward by the first SIGTTIN it sends itself.
	Background bool
	// WaitFunc replaces the real wait4 when set.
	WaitFunc func(pid int) (unix.WaitStatus, error)
	// StartFunc replaces the real process creation when set.
	StartFunc func(path string, argv []string, attr *os.ProcAttr) (int, error)

	mu         sync.Mutex
	events     []string
	foreground int
	lastPid    int
	shielded   bool
	modeSaved  bool
	stdoutPath string
	stderrPath string
}

var _ vos.VOS = (*FakeOS)(nil)

// NewFakeOS creates a non-interactive FakeOS whose standard output and error
// are temporary files. The environment only holds PATH from the host.
func NewFakeOS(t testing.TB) *FakeOS {
	t.Helper()

	dir := t.TempDir()
	stdin, err := os.Open(os.DevNull)
	require.NoError(t, err)
	stdoutPath := filepath.Join(dir, "stdout")
	stderrPath := filepath.Join(dir, "stderr")
	stdout, err := os.Create(stdoutPath)
	require.NoError(t, err)
	stderr, err := os.Create(stderrPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		stdin.Close()
		stdout.Close()
		stderr.Close()
	})

	return &FakeOS{
		MapEnv:     vos.NewMapEnvFrom(vos.EnvList{"PATH=" + os.Getenv("PATH")}),
		MapUsers:   vos.MapUsers{},
		VIOAdapter: vos.NewVIOAdapter(stdin, stdout, stderr),
		foreground: Pgid,
		stdoutPath: stdoutPath,
		stderrPath: stderrPath,
	}
}

func (f *FakeOS) record(format string, a ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, fmt.Sprintf(format, a...))
}

func (f *FakeOS) label(pid int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case pid == Pgid:
		return "shell"
	case pid == f.lastPid && pid != 0:
		return "child"
	default:
		return fmt.Sprint(pid)
	}
}

// Events returns the recorded terminal, signal and process operations.
func (f *FakeOS) Events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

// LastPid returns the pid of the most recently started child.
func (f *FakeOS) LastPid() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPid
}

// StdoutString returns everything written to standard output so far.
func (f *FakeOS) StdoutString() string {
	return readFile(f.stdoutPath)
}

// StderrString returns everything written to standard error so far.
func (f *FakeOS) StderrString() string {
	return readFile(f.stderrPath)
}

func readFile(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(b)
}

// Fs implements vos.VOS.Fs.
func (f *FakeOS) Fs() vos.VFS {
	return afero.NewOsFs()
}

// IsTerminal implements vos.VTerm.IsTerminal.
func (f *FakeOS) IsTerminal() bool {
	return f.Interactive
}

// Foreground implements vos.VTerm.Foreground.
func (f *FakeOS) Foreground() (int, error) {
	if !f.Interactive {
		return 0, vos.ErrNotInteractive
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Background {
		return 1, nil
	}
	return f.foreground, nil
}

// SetForeground implements vos.VTerm.SetForeground.
func (f *FakeOS) SetForeground(pgid int) error {
	f.record("tcsetpgrp %s", f.label(pgid))
	if !f.Interactive {
		return vos.ErrNotInteractive
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.foreground = pgid
	return nil
}

// SaveMode implements vos.VTerm.SaveMode.
func (f *FakeOS) SaveMode() error {
	f.record("save mode")
	if !f.Interactive {
		return vos.ErrNotInteractive
	}
	f.modeSaved = true
	return nil
}

// RestoreMode implements vos.VTerm.RestoreMode.
func (f *FakeOS) RestoreMode() error {
	f.record("restore mode")
	if !f.modeSaved {
		return vos.ErrNotInteractive
	}
	return nil
}

// ChildAttr implements vos.VTerm.ChildAttr. The fake terminal can't be
// handed to a real child, so only the process group is set.
func (f *FakeOS) ChildAttr(foreground bool) *syscall.SysProcAttr {
	f.record("child attr foreground=%t", foreground)
	return &syscall.SysProcAttr{Setpgid: true}
}

// Shield implements vos.VSignals.Shield.
func (f *FakeOS) Shield() {
	f.record("shield signals")
	f.mu.Lock()
	f.shielded = true
	f.mu.Unlock()
}

// Release implements vos.VSignals.Release.
func (f *FakeOS) Release() {
	f.record("release signals")
	f.mu.Lock()
	f.shielded = false
	f.mu.Unlock()
}

// Shielded reports whether Shield is in effect.
func (f *FakeOS) Shielded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shielded
}

// IgnoringTTOU implements vos.VSignals.IgnoringTTOU.
func (f *FakeOS) IgnoringTTOU(fn func()) {
	f.record("ignore SIGTTOU")
	fn()
	f.record("catch SIGTTOU")
}

// Getuid implements vos.VProc.Getuid.
func (f *FakeOS) Getuid() int {
	return UID
}

// Getpgrp implements vos.VProc.Getpgrp.
func (f *FakeOS) Getpgrp() int {
	return Pgid
}

// Setpgid implements vos.VProc.Setpgid. Children have always exec'd by the
// time the shell calls it, so it fails like the kernel does.
func (f *FakeOS) Setpgid(pid, pgid int) error {
	f.record("setpgid %s %s", f.label(pid), f.label(pgid))
	return unix.EACCES
}

// Kill implements vos.VProc.Kill. A SIGTTIN sent to the shell's own group
// moves it to the foreground, as the job-control shell that started it
// would.
func (f *FakeOS) Kill(pid int, sig unix.Signal) error {
	f.record("kill %d %s", pid, unix.SignalName(sig))
	if pid == -Pgid && sig == unix.SIGTTIN {
		f.mu.Lock()
		f.Background = false
		f.mu.Unlock()
	}
	return nil
}

// Chdir implements vos.VProc.Chdir.
func (f *FakeOS) Chdir(dir string) error {
	return os.Chdir(dir)
}

// StartProcess implements vos.VProc.StartProcess.
func (f *FakeOS) StartProcess(path string, argv []string, attr *os.ProcAttr) (int, error) {
	start := f.StartFunc
	if start == nil {
		start = startProcess
	}
	pid, err := start(path, argv, attr)
	if err != nil {
		f.record("start %s failed", filepath.Base(path))
		return 0, err
	}
	f.mu.Lock()
	f.lastPid = pid
	f.mu.Unlock()
	f.record("start %s", filepath.Base(path))
	return pid, nil
}

func startProcess(path string, argv []string, attr *os.ProcAttr) (int, error) {
	proc, err := os.StartProcess(path, argv, attr)
	if err != nil {
		return 0, err
	}
	pid := proc.Pid
	_ = proc.Release()
	return pid, nil
}

// Wait implements vos.VProc.Wait.
func (f *FakeOS) Wait(pid int) (unix.WaitStatus, error) {
	f.record("wait %s", f.label(pid))
	if f.WaitFunc != nil {
		return f.WaitFunc(pid)
	}
	return vos.Wait4(pid)
}
