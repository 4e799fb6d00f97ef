package interp

import (
	"github.com/dswartz/teco-core/internal/buffer"
	"github.com/dswartz/teco-core/internal/register"
	"github.com/dswartz/teco-core/internal/strbuild"
	"github.com/dswartz/teco-core/internal/trace"
	"github.com/dswartz/teco-core/internal/undo"
	"github.com/dswartz/teco-core/internal/widget"
)

// regSpecState is the singleton driving the tiny register-name
// sub-machine (one byte, or '.'+one byte for local, or '#'+two bytes,
// per spec.md §4.2) for every command that takes a register operand
// directly (as opposed to one embedded inside a string-building
// escape, which strbuild.RegSpecParser already serves on its own).
// Once the name is complete, it looks the register up and hands off to
// whatever continuation the arming command installed, so the same
// sub-machine serves both immediate commands (Q, U, %, ...) and
// commands that need the register before reading a further string
// argument (EQ, EU, ^U).
var regSpecState = &st{Name: "regSpec"}

func init() {
	regSpecState.Custom = func(it *Interpreter, ch byte) (*st, error) {
		if it.regParser.Feed(ch) {
			name, local := it.regParser.Name(), it.regParser.Local()
			reg := it.regTable(local).Lookup(name)
			cont := it.regContinuation
			it.regContinuation = nil
			return cont(it, reg)
		}
		return regSpecState, nil
	}
	regSpecState.EndOfMacro = func(it *Interpreter) error {
		return NewError(KindSyntax, "unterminated register specifier")
	}
}

// regSpecStateFor arms regSpecState for the immediate register command
// cmd and transitions to it.
func regSpecStateFor(it *Interpreter, cmd byte) (*st, error) {
	it.regContinuation = func(it *Interpreter, reg *register.Register) (*st, error) {
		return startState, it.doRegisterCommand(cmd, reg)
	}
	it.regParser = strbuild.NewRegSpecParser()
	return regSpecState, nil
}

func (it *Interpreter) regTable(local bool) *register.Table {
	if local {
		if f := it.topFrame(); f != nil && f.Locals != nil {
			return f.Locals
		}
		return it.Globals
	}
	return it.Globals
}

// doRegisterCommand implements the Registers family -- [ ] Q U % M G X
// -- per spec.md §4.1's table: push, pop, read-integer, set-integer,
// increment, execute macro, get string, copy.
func (it *Interpreter) doRegisterCommand(cmd byte, reg *register.Register) error {
	colon := it.Colon
	it.Colon = false

	switch cmd {
	case 'v': // '['
		it.RegStack.Push(reg)
		it.Journal.Push(&regPopUndoToken{it: it, reg: reg})
		return nil

	case '^': // ']'
		priorVal, priorPayload, ok := it.RegStack.Pop(reg)
		if !ok {
			if colon {
				it.Expr.Push(BoolValue(false))
				return nil
			}
			return NewError(KindSyntax, "']' with empty register stack")
		}
		it.Journal.Push(&regPushBackUndoToken{stack: it.RegStack, reg: reg, priorVal: priorVal, priorPayload: priorPayload})
		if colon {
			it.Expr.Push(BoolValue(true))
		}
		return nil

	case 'Q':
		it.Expr.Push(reg.Value)
		return nil

	case 'U':
		n, err := it.Expr.PopNumCalc(0, 1)
		if err != nil {
			return err
		}
		undo.PushVar(it.Journal, &reg.Value)
		it.Trace.Printf(trace.Register, "%s changed from %d to %d", reg.Name, reg.Value, n)
		reg.Value = n
		return nil

	case '%':
		n, err := it.Expr.PopNumCalc(1, 1)
		if err != nil {
			return err
		}
		undo.PushVar(it.Journal, &reg.Value)
		it.Trace.Printf(trace.Register, "%s changed from %d to %d", reg.Name, reg.Value, reg.Value+n)
		reg.Value += n
		it.Expr.Push(reg.Value)
		return nil

	case 'M':
		return it.execRegisterMacro(reg)

	case 'G':
		s, err := it.getRegisterString(reg)
		if err != nil {
			return err
		}
		return it.insertText(it.dot(), s)

	case 'X':
		return it.copyIntoRegister(reg)
	}
	return nil
}

// execRegisterMacro implements 'M': runs reg's string payload as a
// nested macro invocation, per spec.md §4.1's Registers family and
// §4.6's re-entrant Executor contract.
func (it *Interpreter) execRegisterMacro(reg *register.Register) error {
	s, err := it.getRegisterString(reg)
	if err != nil {
		return err
	}
	return it.Execute(reg.Name, []byte(s))
}

// copyIntoRegister implements 'X': copies a range of the current
// document's text into reg's string payload, per spec.md §4.1's
// "copy" semantics. A two-argument form copies the absolute range
// [m,n); a one-argument form copies n lines from dot; with no argument
// it copies from dot to the start of the next line, as 1X does.
func (it *Interpreter) copyIntoRegister(reg *register.Register) error {
	var from, to int64
	switch {
	case it.Expr.Args() >= 2:
		n, err := it.Expr.PopNumCalc(0, 1)
		if err != nil {
			return err
		}
		m, err := it.Expr.PopNumCalc(0, 1)
		if err != nil {
			return err
		}
		from, to = m, n
	default:
		n, err := it.Expr.PopNumCalc(1, 1)
		if err != nil {
			return err
		}
		from = it.dot()
		to = from
		if it.Widget != nil {
			line := it.Widget.SSM(widget.SciLineFromPosition, from, 0)
			to = it.Widget.SSM(widget.SciPositionFromLine, line+n, 0)
		}
	}
	if to < from {
		from, to = to, from
	}
	s := ""
	if it.Widget != nil {
		s = it.Widget.GetRange(from, to)
	}
	return it.setRegisterString(reg, s)
}

// regPopUndoToken reverses '[' by popping the pushed entry back off,
// per spec.md §4.4's RegisterStack contract.
type regPopUndoToken struct {
	it  *Interpreter
	reg *register.Register
}

func (t *regPopUndoToken) Undo(ctx *undo.Context) { t.it.RegStack.Pop(t.reg) }
func (t *regPopUndoToken) Discard()                {}

// regPushBackUndoToken reverses ']' by pushing the popped entry back
// onto the register stack and restoring the register's own contents to
// what they were immediately before the pop, per spec.md §4.4's
// RegisterStack contract: "pop(reg) ... pushes a reverse-push undo
// token that retains entry ownership for possible redo."
type regPushBackUndoToken struct {
	stack        *register.Stack
	reg          *register.Register
	priorVal     int64
	priorPayload *buffer.Document
}

func (t *regPushBackUndoToken) Undo(ctx *undo.Context) {
	entry := &register.Register{Value: t.reg.Value, Payload: t.reg.Payload}
	t.stack.Push(entry)
	t.reg.Value, t.reg.Payload = t.priorVal, t.priorPayload
}
func (t *regPushBackUndoToken) Discard() {}
