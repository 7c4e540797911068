package vos

import (
	"os"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// HostOS is the VOS of the running process. The terminal is its standard
// input.
type HostOS struct {
	HostEnv
	HostUsers
	*HostTerm
	*HostSignals
	*VIOAdapter

	fs VFS
}

var _ VOS = (*HostOS)(nil)

// NewHostOS creates a VOS backed by the process's environment, standard
// streams and controlling terminal.
func NewHostOS() *HostOS {
	return &HostOS{
		HostTerm:    &HostTerm{Fd: int(os.Stdin.Fd())},
		HostSignals: &HostSignals{},
		VIOAdapter:  NewVIOAdapter(os.Stdin, os.Stdout, os.Stderr),
		fs:          afero.NewOsFs(),
	}
}

// Fs implements VOS.Fs.
func (h *HostOS) Fs() VFS {
	return h.fs
}

// Getuid implements VProc.Getuid.
func (*HostOS) Getuid() int {
	return unix.Getuid()
}

// Getpgrp implements VProc.Getpgrp.
func (*HostOS) Getpgrp() int {
	return unix.Getpgrp()
}

// Setpgid implements VProc.Setpgid.
func (*HostOS) Setpgid(pid, pgid int) error {
	return unix.Setpgid(pid, pgid)
}

// Kill implements VProc.Kill.
func (*HostOS) Kill(pid int, sig unix.Signal) error {
	return unix.Kill(pid, sig)
}

// Chdir implements VProc.Chdir.
func (*HostOS) Chdir(dir string) error {
	return os.Chdir(dir)
}

// StartProcess implements VProc.StartProcess.
func (*HostOS) StartProcess(path string, argv []string, attr *os.ProcAttr) (int, error) {
	proc, err := os.StartProcess(path, argv, attr)
	if err != nil {
		return 0, err
	}
	pid := proc.Pid
	// The child is reaped with Wait4, the handle is not needed.
	_ = proc.Release()
	return pid, nil
}

// Wait implements VProc.Wait.
func (*HostOS) Wait(pid int) (unix.WaitStatus, error) {
	return Wait4(pid)
}
