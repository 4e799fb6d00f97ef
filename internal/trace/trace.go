// Package trace generalizes the teacher's g.traceExec/g.traceVars/
// g.traceStack booleans (basic.go's definitions.go, toggled in utils.go,
// consulted in execute.go/symtab.go) into independently togglable
// channels keyed by name instead of one-boolean-per-concern, since the
// interpreter core has more than three things worth tracing (register
// mutation and buffer switches, on top of execution and the stacks).
package trace

import (
	"fmt"
	"io"
	"os"

	"github.com/goforj/godump"
)

// Channel names settable from the 'ED' flags command.
const (
	Exec     = "exec"
	Undo     = "undo"
	Register = "register"
	Buffer   = "buffer"
)

// Logger prints trace lines for whichever channels are enabled, the same
// way the teacher's traceVar/printErrorLocStmt calls print straight to
// fmt rather than through a level-based logging library — no pack repo
// reaches for one of those for this kind of developer trace output, so we
// keep the teacher's fmt.Fprintf idiom (see DESIGN.md).
type Logger struct {
	out      io.Writer
	enabled  map[string]bool
}

// New returns a Logger writing to w with every channel disabled.
func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{out: w, enabled: make(map[string]bool)}
}

// Set enables or disables channel.
func (l *Logger) Set(channel string, on bool) { l.enabled[channel] = on }

// Enabled reports whether channel is currently on.
func (l *Logger) Enabled(channel string) bool { return l.enabled[channel] }

// Printf writes a trace line on channel if it is enabled, prefixed with
// the channel name the way the teacher prefixes traced variable changes
// with "Variable %s".
func (l *Logger) Printf(channel, format string, args ...any) {
	if !l.enabled[channel] {
		return
	}
	fmt.Fprintf(l.out, "[%s] "+format+"\n", append([]any{channel}, args...)...)
}

// Dump pretty-prints a structured value (expression stack, loop stack,
// register table) on channel if it is enabled, replacing the teacher's
// ad hoc fmt.Printf dumps of arrays of frames with a real structured
// dumper now that the values being traced are nested Go structs rather
// than the teacher's flat numeric slices.
func (l *Logger) Dump(channel string, label string, v any) {
	if !l.enabled[channel] {
		return
	}
	fmt.Fprintf(l.out, "[%s] %s:\n", channel, label)
	godump.Dump(v)
}
