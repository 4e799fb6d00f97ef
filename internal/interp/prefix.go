package interp

import (
	"github.com/dswartz/teco-core/internal/expr"
	"github.com/dswartz/teco-core/internal/register"
	"github.com/dswartz/teco-core/internal/strbuild"
)

// caretPrefixState reads the byte following a bare '^'. Letters convert
// to the corresponding control byte via toctl and dispatch exactly as if
// that control byte had been typed directly, per spec.md §4.2's toctl
// latch and §4.1's Insertion/Registers/Return families (^I, ^U, ^C).
// '_', '/', and '*' are not letters and never go through toctl: they are
// the Arithmetic family's binary-NOT, modulo, and power operators, per
// spec.md §4.1's "& # ^_ ^/ ^*" table entry.
var caretPrefixState = &st{Name: "caretPrefix"}

func init() {
	caretPrefixState.Custom = func(it *Interpreter, ch byte) (*st, error) {
		switch ch {
		case '_':
			return startState, it.cmdBinaryNot()
		case '/':
			return startState, it.Expr.PushCalc(expr.OpMod)
		case '*':
			return startState, it.Expr.PushCalc(expr.OpPow)
		}
		upper := ch
		if upper >= 'a' && upper <= 'z' {
			upper -= 'a' - 'A'
		}
		ctl := upper & 0x1F
		return dispatchControl(it, ctl)
	}
}

// cmdBinaryNot implements '^_': n^_ -> ~n, the one's-complement form
// TECO booleans are often negated with, per spec.md §4.1.
func (it *Interpreter) cmdBinaryNot() error {
	n, err := it.Expr.PopNumCalc(0, 1)
	if err != nil {
		return err
	}
	it.Expr.Push(^n)
	return nil
}

// dispatchControl implements the handful of control-code commands the
// core recognizes directly, per spec.md §4.1.
func dispatchControl(it *Interpreter, ctl byte) (*st, error) {
	switch ctl {
	case 0x09: // ^I: insert a tab at dot
		return startState, it.cmdIndentInsert()
	case 0x15: // ^U: set-string, reg then string argument
		it.regContinuation = func(it *Interpreter, reg *register.Register) (*st, error) {
			it.strTarget = reg
			return it.beginStringArg('S')
		}
		it.regParser = strbuild.NewRegSpecParser()
		return regSpecState, nil
	case 0x03: // ^C: batch-mode immediate exit
		return startState, it.cmdExit()
	default:
		return nil, NewError(KindSyntax, "unrecognized ^%c command", ctl|0x40)
	}
}

// ePrefixState reads the letter following 'E' and dispatches the
// E-prefixed command families: ED/EJ/EL/EX (meta), EB/EW/EF (buffers),
// EQ/EU (register file I/O), per spec.md §4.1.
var ePrefixState = &st{Name: "ePrefix"}

func init() {
	ePrefixState.Custom = func(it *Interpreter, ch byte) (*st, error) {
		upper := ch
		if upper >= 'a' && upper <= 'z' {
			upper -= 'a' - 'A'
		}
		switch upper {
		case 'D':
			return startState, it.cmdFlags()
		case 'J':
			return startState, it.cmdSystemInfo()
		case 'L':
			return startState, it.cmdEOLMode()
		case 'X':
			return startState, it.cmdExitRequest()
		case 'B':
			it.strKind = 'e'
			return it.beginStringArg('e')
		case 'W':
			it.strKind = 'w'
			return it.beginStringArg('w')
		case 'F':
			return startState, it.cmdCloseBuffer()
		case 'I':
			return it.beginRawArg()
		case 'Q':
			it.regContinuation = func(it *Interpreter, reg *register.Register) (*st, error) {
				it.strTarget = reg
				return it.beginStringArg('L')
			}
			it.regParser = strbuild.NewRegSpecParser()
			return regSpecState, nil
		case 'U':
			it.regContinuation = func(it *Interpreter, reg *register.Register) (*st, error) {
				it.strTarget = reg
				return it.beginStringArg('O')
			}
			it.regParser = strbuild.NewRegSpecParser()
			return regSpecState, nil
		default:
			return nil, NewError(KindSyntax, "unrecognized E%c command", ch)
		}
	}
}

// fPrefixState reads the letter following 'F' and dispatches the loop
// restart/exit and conditional unwind variants, per spec.md §4.1.
var fPrefixState = &st{Name: "fPrefix"}

func init() {
	fPrefixState.Custom = func(it *Interpreter, ch byte) (*st, error) {
		switch ch {
		case '<':
			return startState, it.loopRestartF()
		case '>':
			return startState, it.loopExitF()
		case '\'':
			return startState, it.condExitAllF()
		case '|':
			return startState, it.condJumpElseF()
		default:
			return nil, NewError(KindSyntax, "unrecognized F%c command", ch)
		}
	}
}

// cmdIndentInsert implements '^I', spec.md §4.1's "insert indent"
// Insertion-family member: it inserts a single tab character at dot.
// The indentation of the current line is not examined.
func (it *Interpreter) cmdIndentInsert() error {
	if it.Widget == nil {
		return nil
	}
	return it.insertText(it.dot(), "\t")
}
