package vos

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

// WaitOptions reports stopped and continued children as well as exits.
const WaitOptions = unix.WUNTRACED | unix.WCONTINUED

// VProc is the process-level part of the virtual OS.
type VProc interface {
	// Getuid returns the real user id.
	Getuid() int
	// Getpgrp returns the process group of the calling process.
	Getpgrp() int
	// Setpgid puts process pid into process group pgid.
	Setpgid(pid, pgid int) error
	// Kill sends sig to pid, a negative pid names a process group.
	Kill(pid int, sig unix.Signal) error

	Chdir(dir string) error

	// StartProcess creates a child running the program at path and returns
	// its pid.
	StartProcess(path string, argv []string, attr *os.ProcAttr) (int, error)
	// Wait blocks until the child changes state, see WaitOptions.
	Wait(pid int) (unix.WaitStatus, error)
}

func findExecutable(vfs VFS, file string) error {
	d, err := vfs.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// DefaultPath is searched when PATH is unset, as execvp does.
const DefaultPath = "/bin:/usr/bin"

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable, or DefaultPath if it's unset. If file
// contains a slash, it is tried directly and the PATH is not consulted. The
// result may be an absolute path or a path relative to the current directory.
func LookPath(vfs VFS, env VEnv, file string) (string, error) {
	if strings.Contains(file, "/") {
		err := findExecutable(vfs, file)
		if err == nil {
			return file, nil
		}
		return "", err
	}
	path, ok := env.LookupEnv("PATH")
	if !ok {
		path = DefaultPath
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(vfs, path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// Wait4 waits for pid with WaitOptions, retrying when interrupted.
func Wait4(pid int) (unix.WaitStatus, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, WaitOptions, nil)
		if err == unix.EINTR {
			continue
		}
		return ws, err
	}
}

// IsForkFailure reports whether a StartProcess error means no child could be
// created at all, as opposed to the child failing to exec.
//
// The runtime reports fork and execve errors the same way, so an execve that
// fails with EAGAIN or ENOMEM is also classified as a fork failure.
func IsForkFailure(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.ENOMEM)
}
