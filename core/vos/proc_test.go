package vos

import (
	"io/fs"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestLookPath(t *testing.T) {
	memFs := afero.NewMemMapFs()
	afero.WriteFile(memFs, "/usr/bin/ls", []byte("#!/bin/sh\n"), 0755)
	afero.WriteFile(memFs, "/bin/ls", []byte("#!/bin/sh\n"), 0755)
	afero.WriteFile(memFs, "/usr/bin/notes.txt", []byte("text"), 0644)
	memFs.MkdirAll("/usr/bin/dir", 0755)

	env := NewMapEnv()
	env.Setenv("PATH", "/usr/bin:/bin")

	cases := map[string]struct {
		file     string
		expected string
		err      error
	}{
		"first match wins":     {file: "ls", expected: "/usr/bin/ls"},
		"missing":              {file: "nope", err: ErrNotFound},
		"not executable":       {file: "notes.txt", err: ErrNotFound},
		"directory":            {file: "dir", err: ErrNotFound},
		"slash skips PATH":     {file: "/bin/ls", expected: "/bin/ls"},
		"slash missing":        {file: "/bin/nope", err: ErrNotFound},
		"slash not executable": {file: "/usr/bin/notes.txt", err: fs.ErrPermission},
		"slash is directory":   {file: "/usr/bin/dir", err: fs.ErrPermission},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual, err := LookPath(memFs, env, tc.file)

			assert.Equal(t, tc.expected, actual)
			if tc.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestLookPath_emptyPathElementIsCwd(t *testing.T) {
	memFs := afero.NewMemMapFs()
	afero.WriteFile(memFs, "tool", []byte("#!/bin/sh\n"), 0755)

	env := NewMapEnv()
	env.Setenv("PATH", ":/bin")

	actual, err := LookPath(memFs, env, "tool")
	assert.NoError(t, err)
	assert.Equal(t, "tool", actual)
}

func TestLookPath_unsetPath(t *testing.T) {
	memFs := afero.NewMemMapFs()
	afero.WriteFile(memFs, "/usr/bin/ls", []byte("#!/bin/sh\n"), 0755)
	afero.WriteFile(memFs, "/usr/local/bin/tool", []byte("#!/bin/sh\n"), 0755)

	t.Run("unset uses default", func(t *testing.T) {
		actual, err := LookPath(memFs, NewMapEnv(), "ls")
		assert.NoError(t, err)
		assert.Equal(t, "/usr/bin/ls", actual)

		_, err = LookPath(memFs, NewMapEnv(), "tool")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty searches nothing", func(t *testing.T) {
		env := NewMapEnv()
		env.Setenv("PATH", "")

		_, err := LookPath(memFs, env, "ls")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestIsForkFailure(t *testing.T) {
	assert.True(t, IsForkFailure(&os.PathError{Op: "fork/exec", Path: "/bin/ls", Err: unix.EAGAIN}))
	assert.True(t, IsForkFailure(&os.PathError{Op: "fork/exec", Path: "/bin/ls", Err: unix.ENOMEM}))
	assert.False(t, IsForkFailure(&os.PathError{Op: "fork/exec", Path: "/bin/ls", Err: unix.ENOENT}))
	assert.False(t, IsForkFailure(&os.PathError{Op: "fork/exec", Path: "/bin/ls", Err: unix.EACCES}))
	assert.False(t, IsForkFailure(nil))
}

func TestHostOS_startAndWait(t *testing.T) {
	truePath, err := LookPath(afero.NewOsFs(), HostEnv{}, "true")
	if err != nil {
		t.Skip("true not available:", err)
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	require.NoError(t, err)
	defer devNull.Close()

	host := NewHostOS()
	pid, err := host.StartProcess(truePath, []string{"true"}, &os.ProcAttr{
		Files: []*os.File{devNull, devNull, devNull},
		Sys:   host.ChildAttr(false),
	})
	assert.NoError(t, err)

	ws, err := host.Wait(pid)
	assert.NoError(t, err)
	assert.True(t, ws.Exited())
	assert.Equal(t, 0, ws.ExitStatus())
}
