package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/josephlewis42/labsh/core/shell"
	"github.com/josephlewis42/labsh/core/vos/vostest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func realpath(t *testing.T, path string) string {
	t.Helper()

	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

func getwd(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return realpath(t, wd)
}

func TestAllBuiltins(t *testing.T) {
	for _, name := range []string{"cd", "exit", "history"} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, AllBuiltins, name)
		})
	}
	assert.Len(t, AllBuiltins, 3)
}

func TestCd(t *testing.T) {
	cases := map[string]struct {
		setup    func(t *testing.T, fake *vostest.FakeOS) []string
		expected func(t *testing.T, start string) string
		err      error
	}{
		"no argument uses HOME": {
			setup: func(t *testing.T, fake *vostest.FakeOS) []string {
				home := t.TempDir()
				fake.Setenv("HOME", home)
				return []string{"cd"}
			},
		},
		"no argument falls back to user database": {
			setup: func(t *testing.T, fake *vostest.FakeOS) []string {
				fake.MapUsers[vostest.UID] = t.TempDir()
				return []string{"cd"}
			},
		},
		"HOME wins over user database": {
			setup: func(t *testing.T, fake *vostest.FakeOS) []string {
				fake.Setenv("HOME", t.TempDir())
				fake.MapUsers[vostest.UID] = "/nonexistent"
				return []string{"cd"}
			},
		},
		"no home directory": {
			setup: func(t *testing.T, fake *vostest.FakeOS) []string {
				return []string{"cd"}
			},
			err: ErrNoHomeDirectory,
		},
		"root": {
			setup: func(t *testing.T, fake *vostest.FakeOS) []string {
				return []string{"cd", "/"}
			},
		},
		"extra arguments ignored": {
			setup: func(t *testing.T, fake *vostest.FakeOS) []string {
				return []string{"cd", "/", "/tmp"}
			},
		},
		"nonexistent path": {
			setup: func(t *testing.T, fake *vostest.FakeOS) []string {
				return []string{"cd", filepath.Join(t.TempDir(), "missing")}
			},
			err: ErrDirectoryChangeFailed,
		},
		"not a directory": {
			setup: func(t *testing.T, fake *vostest.FakeOS) []string {
				file := filepath.Join(t.TempDir(), "file")
				require.NoError(t, os.WriteFile(file, nil, 0600))
				return []string{"cd", file}
			},
			err: ErrDirectoryChangeFailed,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			keepWd(t)
			fake := vostest.NewFakeOS(t)
			s, _ := newTestShell(t, fake)
			args := tc.setup(t, fake)
			start := getwd(t)

			err := s.changeDir(args)

			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.Equal(t, start, getwd(t), "working directory unchanged")
				return
			}
			assert.NoError(t, err)

			var expected string
			switch {
			case len(args) > 1:
				expected = args[1]
			case fake.Getenv("HOME") != "":
				expected = fake.Getenv("HOME")
			default:
				expected = fake.MapUsers[vostest.UID]
			}
			assert.Equal(t, realpath(t, expected), getwd(t))
		})
	}
}

func TestCd_reportsAndContinues(t *testing.T) {
	keepWd(t)
	fake := vostest.NewFakeOS(t)
	s, _ := newTestShell(t, fake)

	assert.True(t, s.runBuiltin(shell.Parse("cd /nonexistent/lab/dir")))

	assert.Equal(t, Status{Kind: StatusExited, Code: 1}, s.LastStatus())
	assert.Contains(t, fake.StderrString(), "cd: chdir failed:")
	assert.False(t, s.Quit)

	assert.True(t, s.runBuiltin(shell.Parse("cd")))
	assert.Contains(t, fake.StderrString(), "cd: cannot determine home directory")
}

func TestHistory(t *testing.T) {
	fake := vostest.NewFakeOS(t)
	s, _ := newTestShell(t, fake)
	s.addHistory("ls")
	s.addHistory("pwd")

	assert.Equal(t, 0, History(s, []string{"history"}))
	assert.Equal(t, 0, History(s, []string{"history"}))

	assert.Equal(t, "ls\npwd\nls\npwd\n", fake.StdoutString())
	assert.Equal(t, []string{"ls", "pwd"}, s.History(), "printing doesn't change history")
}

func TestHistory_clear(t *testing.T) {
	fake := vostest.NewFakeOS(t)
	s, input := newTestShell(t, fake)
	s.addHistory("ls")

	assert.Equal(t, 0, History(s, []string{"history", "-c"}))
	assert.Equal(t, 0, History(s, []string{"history"}))

	assert.Empty(t, s.History())
	assert.Equal(t, 1, input.resets)
	assert.Empty(t, fake.StdoutString())
}

func TestHistory_badOption(t *testing.T) {
	fake := vostest.NewFakeOS(t)
	s, _ := newTestShell(t, fake)
	s.addHistory("ls")

	assert.Equal(t, 1, History(s, []string{"history", "-x"}))
	assert.Contains(t, fake.StderrString(), "usage: history")
	assert.Empty(t, fake.StdoutString())

	assert.Equal(t, 0, History(s, []string{"history", "--help"}))
	assert.Empty(t, fake.StdoutString())
}

func TestExit(t *testing.T) {
	fake := vostest.NewFakeOS(t)
	fake.Interactive = true
	s, input := newTestShell(t, fake)

	assert.True(t, s.runBuiltin(shell.Parse("exit 3")))

	assert.True(t, s.Quit)
	assert.True(t, s.LastStatus().Success(), "exit codes are not supported")
	assert.Equal(t, 1, input.closed)
	assert.Contains(t, fake.Events(), "restore mode")
	assert.NoError(t, s.Close())
}

func TestRunBuiltin_notHandled(t *testing.T) {
	fake := vostest.NewFakeOS(t)
	s, _ := newTestShell(t, fake)

	for _, line := range []string{"", "ls -a", "CD /", "exit2"} {
		assert.False(t, s.runBuiltin(shell.Parse(line)), "%q", line)
	}
	assert.Equal(t, Status{}, s.LastStatus())
	assert.Empty(t, fake.StdoutString())
	assert.Empty(t, fake.StderrString())
}
