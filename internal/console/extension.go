package console

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nerrad567/handlerhub/internal/registry"
	"github.com/nerrad567/handlerhub/internal/thing"
)

// Lookuper is the part of the registry the console needs.
type Lookuper interface {
	Lookup(uid thing.UID) (*registry.Handle, bool)
}

// Result is a successful dispatch: zero or more output lines.
type Result struct {
	Lines []string `json:"lines"`
}

// Outcome describes one finished dispatch for observers (audit, metrics).
type Outcome struct {
	Extension string
	Origin    string // thing.OriginFrom(ctx) at dispatch time
	Actor     string // thing.ActorFrom(ctx), empty when anonymous
	UID       string
	Command   string
	Args      []string
	Err       *Error // nil on success
	Duration  time.Duration
}

// Options configures an Extension.
type Options struct {
	// Name is the console command ("lgwebos").
	Name string
	// Description is shown next to the extension in listings.
	Description string
	// Label names the binding in the wrong-kind diagnostic ("LG webOS").
	Label string
	// Kinds restricts the handler kinds served. Empty serves every kind.
	Kinds []thing.Kind
}

// Extension dispatches one binding's commands.
type Extension struct {
	opts     Options
	reg      Lookuper
	kinds    map[thing.Kind]struct{}
	commands []Command
	index    map[string]int

	obsMu     sync.RWMutex
	observers []func(Outcome)
}

// New creates an extension over reg with a static command table.
// It panics on duplicate command names, which is a programming error.
func New(opts Options, reg Lookuper, commands ...Command) *Extension {
	if opts.Label == "" {
		opts.Label = opts.Name
	}
	e := &Extension{
		opts:     opts,
		reg:      reg,
		kinds:    make(map[thing.Kind]struct{}, len(opts.Kinds)),
		commands: commands,
		index:    make(map[string]int, len(commands)),
	}
	for _, k := range opts.Kinds {
		e.kinds[k] = struct{}{}
	}
	for i, c := range commands {
		if _, dup := e.index[c.Name]; dup {
			panic(fmt.Sprintf("console: duplicate command %q in extension %q", c.Name, opts.Name))
		}
		e.index[c.Name] = i
	}
	return e
}

// Name returns the extension name.
func (e *Extension) Name() string { return e.opts.Name }

// Description returns the extension description.
func (e *Extension) Description() string { return e.opts.Description }

// Commands returns a copy of the command table.
func (e *Extension) Commands() []Command {
	out := make([]Command, len(e.commands))
	copy(out, e.commands)
	return out
}

// OnDispatch registers an observer called after every Dispatch.
func (e *Extension) OnDispatch(fn func(Outcome)) {
	e.obsMu.Lock()
	e.observers = append(e.observers, fn)
	e.obsMu.Unlock()
}

// Usages returns one usage line per command, in table order.
func (e *Extension) Usages() []string {
	out := make([]string, len(e.commands))
	for i, c := range e.commands {
		out[i] = fmt.Sprintf("%s <thingUID> %s - %s", e.opts.Name, c.Syntax(), c.Description)
	}
	return out
}

// Dispatch runs command against the handler registered under rawUID.
func (e *Extension) Dispatch(ctx context.Context, rawUID, command string, args []string) (Result, error) {
	start := time.Now()
	res, derr := e.dispatch(ctx, rawUID, command, args)
	e.notify(Outcome{
		Extension: e.opts.Name,
		Origin:    thing.OriginFrom(ctx),
		Actor:     thing.ActorFrom(ctx),
		UID:       rawUID,
		Command:   command,
		Args:      args,
		Err:       derr,
		Duration:  time.Since(start),
	})
	if derr != nil {
		return Result{}, derr
	}
	return res, nil
}

func (e *Extension) dispatch(ctx context.Context, rawUID, command string, args []string) (Result, *Error) {
	uid, err := thing.ParseUID(rawUID)
	if err != nil {
		return Result{}, &Error{Code: CodeInvalidID, UID: rawUID, Command: command, Err: err}
	}

	handle, ok := e.reg.Lookup(uid)
	if !ok {
		return Result{}, &Error{Code: CodeUnknownDevice, UID: rawUID, Command: command}
	}
	defer handle.Release()
	h := handle.Handler()

	if len(e.kinds) > 0 {
		if _, served := e.kinds[h.Kind()]; !served {
			return Result{}, &Error{Code: CodeUnsupportedCommand, Reason: ReasonWrongKind, UID: rawUID, Command: command, Label: e.opts.Label}
		}
	}

	idx, ok := e.index[command]
	if !ok {
		return Result{}, &Error{Code: CodeUnsupportedCommand, Reason: ReasonUnknownCommand, UID: rawUID, Command: command}
	}
	cmd := e.commands[idx]

	if !h.Capabilities().Has(cmd.Requires) {
		return Result{}, &Error{Code: CodeUnsupportedCommand, Reason: ReasonMissingCapability, UID: rawUID, Command: command}
	}

	if detail := cmd.checkArgs(args); detail != "" {
		return Result{}, &Error{Code: CodeBadArguments, UID: rawUID, Command: command, Detail: detail}
	}

	lines, err := run(ctx, cmd, h, args)
	if err != nil {
		return Result{}, &Error{Code: CodeHandlerFailed, UID: rawUID, Command: command, Err: err}
	}
	if lines == nil {
		lines = []string{}
	}
	return Result{Lines: lines}, nil
}

// run invokes the command, converting a handler panic into an error.
func run(ctx context.Context, cmd Command, h thing.Handler, args []string) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return cmd.Run(ctx, h, args)
}

func (e *Extension) notify(o Outcome) {
	e.obsMu.RLock()
	observers := e.observers
	e.obsMu.RUnlock()
	for _, fn := range observers {
		fn(o)
	}
}

// Execute is the console entry point: args[0] is the thing UID, args[1] the
// command and the rest its arguments. Output lines, or a diagnostic
// followed by the usage, are written to w.
func (e *Extension) Execute(ctx context.Context, args []string, w io.Writer) {
	if len(args) < 2 {
		e.printUsage(w)
		return
	}

	res, err := e.Dispatch(ctx, args[0], args[1], args[2:])
	if err != nil {
		fmt.Fprintln(w, err.Error())
		e.printUsage(w)
		return
	}
	for _, line := range res.Lines {
		fmt.Fprintln(w, line)
	}
}

func (e *Extension) printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, u := range e.Usages() {
		fmt.Fprintln(w, "  "+u)
	}
}
