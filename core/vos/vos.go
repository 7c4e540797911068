// Package vos is the narrow view of the operating system the shell runs on.
//
// Everything the shell needs from the kernel goes through a VOS so the
// session and launcher logic can be exercised with vostest's fake while the
// real implementation (HostOS) stays a thin layer over golang.org/x/sys/unix.
package vos

import "github.com/spf13/afero"

// VFS is the filesystem used to resolve programs.
type VFS = afero.Fs

// VOS provides a virtual OS interface.
type VOS interface {
	VEnv
	VIO
	VProc
	VUsers
	VTerm
	VSignals

	// Fs returns the filesystem used for program lookup.
	Fs() VFS
}
