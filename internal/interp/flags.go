package interp

import (
	"github.com/dswartz/teco-core/internal/trace"
	"github.com/dswartz/teco-core/internal/widget"
)

// Flags holds the ED bit settings spec.md §4.1's Meta family exposes,
// generalized from the teacher's handful of g.trace* booleans
// (basic.go) into one bitfield the way real TECO's ED actually works.
type Flags struct {
	Bits int64
}

const (
	EDNoAutoNewline  int64 = 1 << 0
	EDAddTrailingNL  int64 = 1 << 1
	EDYankOnLoad     int64 = 1 << 2
	EDKeepSavepoints int64 = 1 << 3

	// Trace channel bits, generalizing g.traceExec/g.traceVars/
	// g.traceStack into settable ED flags rather than a separate
	// command.
	EDTraceExec     int64 = 1 << 4
	EDTraceUndo     int64 = 1 << 5
	EDTraceRegister int64 = 1 << 6
	EDTraceBuffer   int64 = 1 << 7
)

// cmdFlags implements 'ED': with an argument, sets the flag bitfield
// and pushes the prior value; with none, pushes the current value, per
// spec.md §4.1's Meta family. Setting bumps the interpreter's trace
// logger channels to match, the same moment the teacher's toggle keys
// flip g.traceExec et al. in utils.go.
func (it *Interpreter) cmdFlags() error {
	if it.Expr.Args() == 0 {
		it.Expr.Push(it.Flags.Bits)
		return nil
	}
	n, err := it.Expr.PopNumCalc(0, 1)
	if err != nil {
		return err
	}
	prev := it.Flags.Bits
	it.Flags.Bits = n
	if it.Trace != nil {
		it.Trace.Set(trace.Exec, n&EDTraceExec != 0)
		it.Trace.Set(trace.Undo, n&EDTraceUndo != 0)
		it.Trace.Set(trace.Register, n&EDTraceRegister != 0)
		it.Trace.Set(trace.Buffer, n&EDTraceBuffer != 0)
	}
	it.Expr.Push(prev)
	return nil
}

// cmdSystemInfo implements 'EJ': with one argument, pushes a system
// property selected by the popped value (0 = process id placeholder,
// 1-3 = sysconf(3) values via internal/sysinfo, SysInfoMemoryLimit =
// the current memory limit); with two arguments, sets the property
// named by the second and pushes its prior value. Only
// SysInfoMemoryLimit is settable, mirroring the get/set split of the
// original's EJ_MEMORY_LIMIT case in its 'J' dispatch, per spec.md
// §4.1's Meta family.
func (it *Interpreter) cmdSystemInfo() error {
	if err := it.Expr.Eval(); err != nil {
		return err
	}
	which, err := it.Expr.PopNumCalc(0, 1)
	if err != nil {
		return err
	}
	if it.Expr.Args() > 0 {
		value, err := it.Expr.PopNumCalc(0, 1)
		if err != nil {
			return err
		}
		if which != SysInfoMemoryLimit {
			return NewError(KindArgExpected, "cannot set property %d for <EJ>", which)
		}
		prev := it.MemLimit.Bytes
		it.MemLimit.SetLimit(value)
		it.Expr.Push(prev)
		return nil
	}
	if which == SysInfoMemoryLimit {
		it.Expr.Push(it.MemLimit.Bytes)
		return nil
	}
	it.Expr.Push(it.SysInfo(which))
	return nil
}

// cmdEOLMode implements 'EL': with an argument, sets the widget's EOL
// mode and pushes the prior mode; with none, pushes the current mode,
// per spec.md §4.1's Meta family and §6's SETEOLMODE/GETEOLMODE
// messages.
func (it *Interpreter) cmdEOLMode() error {
	if it.Widget == nil {
		return nil
	}
	if it.Expr.Args() == 0 {
		it.Expr.Push(it.Widget.SSM(widget.SciGetEOLMode, 0, 0))
		return nil
	}
	n, err := it.Expr.PopNumCalc(0, 1)
	if err != nil {
		return err
	}
	prev := it.Widget.SSM(widget.SciGetEOLMode, 0, 0)
	it.Widget.SSM(widget.SciSetEOLMode, n, 0)
	it.Expr.Push(prev)
	return nil
}

// cmdExitRequest implements 'EX': requests a clean exit after the
// current command line finishes, per spec.md §4.1's Return/exit family.
func (it *Interpreter) cmdExitRequest() error {
	it.Exiting = true
	return nil
}

// cmdExit implements '^C': immediate exit, legal only in batch mode,
// per spec.md §4.1 and §4.3's Quit control-flow kind. Interactive mode
// has no notion of "the process is done" separate from the user simply
// closing the session, so ^C there raises instead of quietly exiting.
func (it *Interpreter) cmdExit() error {
	code := 0
	if it.Expr.Args() > 0 {
		n, err := it.Expr.PopNumCalc(0, 1)
		if err != nil {
			return err
		}
		code = int(n)
	}
	if !it.BatchMode {
		return NewError(KindSyntax, "<^C> not allowed in interactive mode")
	}
	panic(&QuitSignal{Code: code})
}
