package interp

import (
	"sync/atomic"

	"github.com/dswartz/teco-core/internal/buffer"
	"github.com/dswartz/teco-core/internal/expr"
	"github.com/dswartz/teco-core/internal/loopstack"
	"github.com/dswartz/teco-core/internal/parser"
	"github.com/dswartz/teco-core/internal/program"
	"github.com/dswartz/teco-core/internal/register"
	"github.com/dswartz/teco-core/internal/strbuild"
	"github.com/dswartz/teco-core/internal/trace"
	"github.com/dswartz/teco-core/internal/undo"
	"github.com/dswartz/teco-core/internal/widget"
)

// Interpreter is the single value carrying every field the teacher scatters
// across package-level globals (g, r, p, s in basic.go): current register,
// current buffer, mode, program counter, and so on all live here so
// snapshot/restore across macro entry/exit is an explicit copy of fields,
// per spec.md §9's design note.
type Interpreter struct {
	Widget widget.Widget

	Ring     *program.Ring
	Globals  *register.Table
	RegStack *register.Stack

	Expr  *expr.Stack
	Loops *loopstack.Stack

	Journal *undo.Journal
	UndoCtx *undo.Context

	// Trace is the developer trace logger, its channels settable from
	// 'ED', generalizing the teacher's g.traceExec/g.traceVars booleans.
	Trace *trace.Logger

	Machine *parser.Machine[*Interpreter]

	Mode  parser.Mode
	Radix int64
	Flags Flags

	// MemLimit backs 'EJ's memory-limit property and the Executor's
	// per-character check, per spec.md §4.6 step 2.
	MemLimit MemLimit

	// Single-shot modifiers consumed by the next command, per spec.md §4.1.
	Colon   bool
	At      bool
	AtDelim byte // 0 unless '@' chose a custom delimiter

	// Sign is the pending unary sign accumulated by one or more leading
	// '-' characters before any digits or an operand, per spec.md §4.1's
	// "unary '-' when no args negates pending sign".
	Sign int64

	numberInProgress bool
	numberSign       int64 // sign latched for the number currently being typed

	// CurrentRegister is non-nil when a register (rather than a ring
	// buffer) is the actively edited entity, per spec.md §4.4.
	CurrentRegister *register.Register

	Frames []*MacroFrame

	// PC/Body are the running macro/command-line's program counter and
	// source bytes, advanced by Executor between characters (spec §4.6)
	// and consulted by loop/conditional actions that need to jump.
	PC   int
	Body []byte

	// JumpTo, when non-nil after an action runs, tells Executor to set
	// PC to *JumpTo instead of PC+1 before fetching the next byte — the
	// mechanism behind '<'/'>' loop iteration and restart.
	JumpTo *int

	interrupted atomic.Bool
	BatchMode   bool
	Exiting     bool
	ExitCode    int

	// nestSkip counts nested nesting depth while mode != ModeNormal:
	// unmatched '<'s still open under ModeParseOnlyLoop, or unmatched
	// '"'s still open under ModeParseOnlyCond, per spec.md §4.1.
	nestSkip int
	// skipElse selects what a depth-0 '|' does while skipping a failed
	// conditional's body: stop and execute the else branch (true), or
	// keep skipping toward the matching endif (false), per spec.md §4.1.
	skipElse bool
	// skipPopFrame records whether the loop frame skipped to find a
	// syntactic '>' (';' break, 'F>' last iteration) must be popped when
	// that '>' is reached, as opposed to a zero-count '<' that never
	// pushed a frame at all.
	skipPopFrame bool
	// condOpen counts conditional bodies currently executing in
	// ModeNormal, so 'F'' knows how many enclosing endifs to skip past.
	condOpen int

	// dollarSeen implements the two-step '$'/'$$' lookahead escape
	// described in spec.md §4.1 and §9 design note 6.
	dollarSeen bool

	// cmdLine is the text of the command line currently being typed,
	// used by '{'/'}' to copy it out for editing and replay it, per
	// spec.md §4.1.
	cmdLine       []byte
	escapeForEdit []byte

	StrSource *regSource
	Escaper   strbuild.Escaper

	// regParser/regContinuation back the register-specifier sub-machine
	// (regSpecState) shared by every command that takes a bare register
	// operand ([ ] Q U % M G X), per spec.md §4.2.
	regParser       *strbuild.RegSpecParser
	regContinuation func(it *Interpreter, reg *register.Register) (*parser.State[*Interpreter], error)

	// strBuilder/strKind/strTarget back the string-argument sub-machine
	// (stringArgState) shared by I, ^U, EQ, EU, EB and EW, per spec.md
	// §4.2; EI's rawArgState reuses strAccum only.
	strBuilder *strbuild.Builder
	strKind    byte
	strTarget  *register.Register
	strAccum   []byte
	rawDelim   byte
}

// MacroFrame snapshots what Executor restores on macro entry/exit/error,
// per spec.md §4.6: program counter, parser state, loop-frame pointer,
// brace level, and (on error) enough to resume.
type MacroFrame struct {
	Source    string
	PC        int
	Body      []byte
	State     *parser.State[*Interpreter]
	LoopFP    int
	BraceFP   int
	Locals    *register.Table
	GotoTable map[string]int
}

// New builds a ready-to-run Interpreter wired to w. Its global register
// table comes from register.NewGlobal: A-Z and 0-9 pre-created, ad-hoc
// names auto-created on first lookup.
func New(w widget.Widget) *Interpreter {
	it := &Interpreter{
		Widget:   w,
		Ring:     program.New(),
		Globals:  register.NewGlobal(),
		RegStack: register.NewStack(),
		Expr:     expr.New(),
		Loops:    loopstack.New(),
		Journal:  undo.New(),
		Radix:    10,
		Sign:     1,
	}
	it.UndoCtx = &undo.Context{Widget: w}
	it.Trace = trace.New(nil)
	it.StrSource = &regSource{it: it}
	it.Escaper = defaultEscaper{}
	it.Machine = parser.NewMachine(startState)
	it.Machine.OnTransition = it.onTransition
	return it
}

// stateRestoreToken restores the parser's active state on rubout, per
// spec.md §4.1: "the prior state is journaled so rubout restores it."
type stateRestoreToken struct {
	machine *parser.Machine[*Interpreter]
	prev    *parser.State[*Interpreter]
}

func (t *stateRestoreToken) Undo(ctx *undo.Context) { t.machine.SetCurrent(t.prev) }
func (t *stateRestoreToken) Discard()                {}

func (it *Interpreter) onTransition(prev, next *parser.State[*Interpreter]) {
	it.Journal.Push(&stateRestoreToken{machine: it.Machine, prev: prev})
}

// currentDoc returns whichever Document is currently being edited: the
// ring's current buffer, or the current register's payload, per
// spec.md §4.4.
func (it *Interpreter) currentDoc() *buffer.Document {
	if it.CurrentRegister != nil {
		return it.CurrentRegister.Payload
	}
	d, _ := it.Ring.Current()
	return d
}

// IsFailure implements TECO's boolean convention: negative is truth or
// success, non-negative is failure, per spec.md §4.1.
func IsFailure(v int64) bool { return v >= 0 }

// BoolValue encodes a Go bool as a TECO boolean: -1 for true, 0 for false.
func BoolValue(b bool) int64 {
	if b {
		return -1
	}
	return 0
}

// SetInterrupted is called from the signal handler goroutine; Interrupted
// is polled once per character by the executor, per spec.md §4.6 and §5.
func (it *Interpreter) SetInterrupted() { it.interrupted.Store(true) }

func (it *Interpreter) checkAndClearInterrupted() bool {
	return it.interrupted.CompareAndSwap(true, false)
}

// SetCommandLine records the text of the command line about to run, so
// that a subsequent '{' inside it can copy the right bytes into the
// Escape register, per spec.md §4.1.
func (it *Interpreter) SetCommandLine(line string) { it.cmdLine = []byte(line) }

// TakeEscapeForEdit returns and clears whatever '}' staged for the front
// end to feed back into the input stream, or "" if nothing is pending.
func (it *Interpreter) TakeEscapeForEdit() string {
	s := string(it.escapeForEdit)
	it.escapeForEdit = nil
	return s
}

// SeedRegisterString sets reg's string payload directly, bypassing the
// undo journal, used once at startup to seed $HOME/$ from the process
// environment before any command line (and therefore any rubout
// history) exists, per spec.md §6.
func (it *Interpreter) SeedRegisterString(reg *register.Register, s string) error {
	enabled := it.Journal.Enabled()
	it.Journal.SetEnabled(false)
	defer it.Journal.SetEnabled(enabled)
	return it.setRegisterString(reg, s)
}
