package console

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/nerrad567/handlerhub/internal/thing"
)

// RunFunc executes a command against a handler whose capability set has
// already been checked to contain the command's required capability.
type RunFunc func(ctx context.Context, h thing.Handler, args []string) ([]string, error)

// Arg describes one positional argument.
type Arg struct {
	Name     string
	Choices  []string // when non-empty the argument must be one of these
	Optional bool     // optional arguments must come last

	// Validate, when set, checks the value after the choices check.
	Validate func(string) error
}

// IntRange returns an Arg validator accepting base-10 integers in [lo, hi].
func IntRange(lo, hi int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("must be an integer")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// Command is one row of an extension's static command table.
type Command struct {
	Name        string
	Args        []Arg
	Requires    thing.Capability
	Description string
	Run         RunFunc
}

// Syntax renders the command and its arguments, e.g. "switch <on|off>".
func (c Command) Syntax() string {
	parts := []string{c.Name}
	for _, a := range c.Args {
		label := a.Name
		if len(a.Choices) > 0 {
			label = strings.Join(a.Choices, "|")
		}
		if a.Optional {
			parts = append(parts, "["+label+"]")
		} else {
			parts = append(parts, "<"+label+">")
		}
	}
	return strings.Join(parts, " ")
}

// checkArgs validates arity, choices and per-argument validators. It returns a detail message, or "" when args fit.
func (c Command) checkArgs(args []string) string {
	required := 0
	for _, a := range c.Args {
		if !a.Optional {
			required++
		}
	}
	if len(args) < required || len(args) > len(c.Args) {
		if required == len(c.Args) {
			return fmt.Sprintf("expected %d argument(s), got %d", required, len(args))
		}
		return fmt.Sprintf("expected %d to %d argument(s), got %d", required, len(c.Args), len(args))
	}
	for i, v := range args {
		arg := c.Args[i]
		if len(arg.Choices) > 0 && !slices.Contains(arg.Choices, v) {
			return fmt.Sprintf("%s must be one of %s, got %q", arg.Name, strings.Join(arg.Choices, ", "), v)
		}
		if arg.Validate != nil {
			if err := arg.Validate(v); err != nil {
				return fmt.Sprintf("%s %v, got %q", arg.Name, err, v)
			}
		}
	}
	return ""
}

// Report returns a RunFunc calling Reporter.Report with a fixed subject.
func Report(subject string) RunFunc {
	return func(ctx context.Context, h thing.Handler, _ []string) ([]string, error) {
		r, ok := h.(thing.Reporter)
		if !ok {
			return nil, fmt.Errorf("%s does not implement Reporter", h.Kind())
		}
		return r.Report(ctx, subject)
	}
}

// Invoke returns a RunFunc calling Commander.Command with name and the dispatched args.
func Invoke(name string) RunFunc {
	return func(ctx context.Context, h thing.Handler, args []string) ([]string, error) {
		c, ok := h.(thing.Commander)
		if !ok {
			return nil, fmt.Errorf("%s does not implement Commander", h.Kind())
		}
		return c.Command(ctx, name, args)
	}
}
