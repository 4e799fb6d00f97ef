// Executor: drives the parser one byte at a time, manages macro
// invocation frames, and turns the three non-local transfer kinds
// (Return, Quit, Error) into the right unwinding behavior, per
// spec.md §4.6. Grounded on the teacher's executeStmt/executeStmtInternal
// dispatch loop and call()/decodePanic() top-level recovery in execute.go:
// the same shape of "recover a typed control signal at exactly one frame
// boundary, let everything else propagate" generalizes from "one BASIC
// statement" to "one input character."
package interp

import (
	"bytes"

	"github.com/dswartz/teco-core/internal/register"
	"github.com/dswartz/teco-core/internal/trace"
)

// Execute runs body (a macro or command line read from source) to
// completion, or until a Return signal ends it early. It is re-entrant:
// 'M' recurses into it for register macros, and the front end calls it
// directly for each command line.
func (it *Interpreter) Execute(source string, body []byte) (rv error) {
	lineOffset := 0
	if stripped, ok := stripShebang(body); ok {
		body = stripped
		lineOffset = 1
	}

	frame := &MacroFrame{
		Source:  source,
		Body:    body,
		State:   it.Machine.Current(),
		LoopFP:  it.Loops.Depth(),
		BraceFP: it.Expr.BraceLevel(),
		// defaults=true: local-frame registers are created on first
		// use exactly like ad-hoc global ones, per spec.md §3's
		// lifecycle rule -- they just vanish with this frame instead
		// of outliving it.
		Locals: register.NewTable(true),
	}
	savedPC, savedBody := it.PC, it.Body
	it.Frames = append(it.Frames, frame)
	it.PC, it.Body = 0, body
	it.Machine.Reset()

	defer func() {
		it.Frames = it.Frames[:len(it.Frames)-1]
		it.PC, it.Body = savedPC, savedBody
		it.Machine.SetCurrent(frame.State)

		if r := recover(); r != nil {
			switch sig := r.(type) {
			case *ReturnSignal:
				if err := it.Expr.BraceReturn(frame.BraceFP, sig.Args); err != nil {
					rv = WrapError(err)
					return
				}
				it.Loops.TruncateTo(frame.LoopFP)
				rv = nil
			default:
				// QuitSignal and anything else unwind past this
				// frame unchanged; only the top-level Run boundary
				// recovers Quit.
				panic(sig)
			}
		}

		if rv == nil {
			if err := it.danglingRegisterError(frame); err != nil {
				rv = err
			}
		}
	}()

	for it.PC < len(it.Body) {
		if it.checkAndClearInterrupted() {
			return WrapError(InterruptSignal{})
		}
		if err := it.MemLimit.Check(); err != nil {
			return err
		}

		ch := it.Body[it.PC]
		it.Trace.Printf(trace.Exec, "%s pc=%d char=%q", source, it.PC, ch)
		it.Journal.Mark()
		err := it.Machine.Input(it, ch)
		if err != nil {
			it.Trace.Printf(trace.Undo, "%s pc=%d rubout after error: %v", source, it.PC, err)
			it.Journal.RubOut(it.UndoCtx, 1)
			if ierr, ok := AsError(err); ok {
				line, col := lineCol(body, it.PC)
				return ierr.WithFrame(Frame{Source: source, PC: it.PC, Line: line + lineOffset, Col: col})
			}
			return err
		}
		it.Journal.Close()

		if it.JumpTo != nil {
			it.PC = *it.JumpTo
			it.JumpTo = nil
			continue
		}
		it.PC++
	}

	if s := it.Machine.Current(); s != nil {
		if s.EndOfMacro != nil {
			if err := s.EndOfMacro(it); err != nil {
				if ierr, ok := AsError(err); ok {
					line, col := lineCol(body, it.PC)
					return ierr.WithFrame(Frame{Source: source, PC: it.PC, Line: line + lineOffset, Col: col})
				}
				return err
			}
		}
		if s.Refresh != nil {
			s.Refresh(it)
		}
	}
	it.Trace.Dump(trace.Exec, "expr stack after "+source, it.Expr)
	return nil
}

// danglingRegisterError raises a Range-kind Error if CurrentRegister
// belongs to frame's locals table, per spec.md §8's "attempting to edit
// a local register after its owning macro returned raises on macro-exit
// cleanup." frame's locals are about to go out of scope along with the
// frame itself; a pointer to one of them left in CurrentRegister would
// otherwise silently keep working against a register nothing else can
// reach by name anymore.
func (it *Interpreter) danglingRegisterError(frame *MacroFrame) error {
	if !frame.Locals.Owns(it.CurrentRegister) {
		return nil
	}
	name := it.CurrentRegister.Name
	it.CurrentRegister = nil
	return NewError(KindRange, "register .%s no longer exists: its owning macro returned", name)
}

// Run is the top-level macro-invocation boundary (the teacher's call()):
// it recovers a batch-mode QuitSignal that Execute deliberately lets
// propagate past every nested frame.
func (it *Interpreter) Run(source string, body []byte) (rv error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		sig, ok := r.(*QuitSignal)
		if !ok {
			panic(r)
		}
		it.Exiting = true
		it.ExitCode = sig.Code
	}()
	return it.Execute(source, body)
}

// stripShebang removes a leading "#!...\n" line from a file-based
// macro body, per spec.md §4.6.
func stripShebang(body []byte) ([]byte, bool) {
	if len(body) < 2 || body[0] != '#' || body[1] != '!' {
		return body, false
	}
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		return body[i+1:], true
	}
	return nil, true
}

// lineCol converts a byte offset into body to a 1-based line and column,
// for Error frame annotation.
func lineCol(body []byte, pos int) (line, col int) {
	line, col = 1, 1
	if pos > len(body) {
		pos = len(body)
	}
	for i := 0; i < pos; i++ {
		if body[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
