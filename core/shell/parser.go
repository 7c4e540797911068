// Package shell turns raw input lines into commands.
//
// Only the first steps of
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
// are performed: the line is trimmed and broken into words on whitespace.
// There are no operators, quotes, expansions or redirections, so every
// word is passed to the command verbatim.
package shell

import (
	"strings"
)

// Command is the argument vector of a single input line. Element zero is
// the name of the command; a blank line parses to an empty Command.
type Command []string

// Name returns the command name, or "" if the command is empty.
func (c Command) Name() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Args returns the arguments following the command name.
func (c Command) Args() []string {
	if len(c) < 2 {
		return nil
	}
	return c[1:]
}

// Empty reports whether the command has no words.
func (c Command) Empty() bool {
	return len(c) == 0
}

// Trim strips leading and trailing whitespace. The result shares memory with
// line.
func Trim(line string) string {
	return strings.TrimSpace(line)
}

// Parse splits a line into words. Any run of whitespace (including tabs)
// separates words, so no word is ever empty or contains whitespace.
func Parse(line string) Command {
	return Command(strings.Fields(line))
}
