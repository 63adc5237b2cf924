// Package bot turns chat commands into report replies.
package bot

import (
	"errors"
	"strings"
)

// ErrNotACommand is returned for chat text that does not start with '/'.
var ErrNotACommand = errors.New("not a command")

// Command is a parsed chat command.
type Command struct {
	// Name is lowercased, without the leading slash or @botname suffix.
	Name string
	Args []string
}

// Keyword returns the first argument lowercased, or "".
func (c Command) Keyword() string {
	if len(c.Args) == 0 {
		return ""
	}
	return strings.ToLower(c.Args[0])
}

// Rest joins the arguments with single spaces, as region names are typed.
func (c Command) Rest() string {
	return strings.Join(c.Args, " ")
}

// ParseCommand parses "/name[@bot] args...".
func ParseCommand(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{}, ErrNotACommand
	}

	name := strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return Command{}, ErrNotACommand
	}

	return Command{Name: strings.ToLower(name), Args: fields[1:]}, nil
}
