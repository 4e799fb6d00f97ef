package interp

import (
	"github.com/dswartz/teco-core/internal/expr"
	"github.com/dswartz/teco-core/internal/loopstack"
	"github.com/dswartz/teco-core/internal/parser"
)

// loopStart implements '<': pops the iteration count (default -1, i.e.
// infinite/pass-through, per spec.md §4.1's "-1<...> is infinite"),
// pushes a loop frame, and falls through to executing the body. A
// zero count skips the body entirely by entering ModeParseOnlyLoop with
// skipPopFrame false, since no frame is pushed for a loop that never
// runs, per spec.md §8's boundary behavior.
func (it *Interpreter) loopStart() error {
	n, err := it.Expr.PopNumCalc(-1, 1)
	if err != nil {
		return err
	}
	if n == 0 {
		it.Mode = parser.ModeParseOnlyLoop
		it.nestSkip = 0
		it.skipPopFrame = false
		return nil
	}
	// PC+1, not PC: the restart target is the first byte of the loop
	// body, so a jump-back never re-executes '<' itself and re-pops a
	// bogus count from whatever the previous iteration left behind.
	it.Loops.Push(loopstack.Frame{Counter: n, PC: it.PC + 1, PassThrough: n == -1})
	return nil
}

// loopEnd implements '>': decrements the innermost loop's counter (a
// pass-through/-1 frame never decrements) and either jumps PC back to
// the loop's start for another iteration, or pops the frame and falls
// through past the loop. Colon-modified (':>') aggregates: it evaluates
// the expression stack and inserts a NEW barrier so each iteration's
// leftover value survives as a separate argument instead of being
// discarded, per spec.md §4.1's ":>" rule and §8 scenario 2.
func (it *Interpreter) loopEnd() error {
	if err := it.Expr.Eval(); err != nil {
		return err
	}
	colon := it.Colon
	it.Colon = false
	if colon {
		it.Expr.PushMarker(expr.OpNew)
	}

	top := it.Loops.Top()
	if top == nil {
		return NewError(KindSyntax, "'>' outside any loop")
	}
	if top.PassThrough {
		pc := top.PC
		it.JumpTo = &pc
		return nil
	}
	top.Counter--
	if top.Counter > 0 {
		pc := top.PC
		it.JumpTo = &pc
		return nil
	}
	it.Loops.Pop()
	return nil
}

// loopBreak implements ';': pops a test value (falling back to the
// global search register "_" when the stack is empty, per spec.md
// §4.1), and when that value signals failure (non-negative; ':;'
// inverts this and breaks on success, a negative value), exits the
// innermost loop by skipping forward (in ModeParseOnlyLoop) to its
// matching '>' rather than jumping back for another iteration.
func (it *Interpreter) loopBreak() error {
	top := it.Loops.Top()
	if top == nil {
		return NewError(KindSyntax, "';' outside any loop")
	}

	var n int64
	if it.Expr.Args() == 0 {
		n = it.Globals.Lookup("_").Value
	} else {
		v, err := it.Expr.PopNumCalc(0, 1)
		if err != nil {
			return err
		}
		n = v
	}

	colon := it.Colon
	it.Colon = false
	truth := IsFailure(n) // ';' breaks on failure (non-negative)
	if colon {
		truth = !truth
	}
	if !truth {
		return nil
	}

	it.Mode = parser.ModeParseOnlyLoop
	it.nestSkip = 0
	it.skipPopFrame = true
	return nil
}

// loopRestartF implements 'F<': unconditionally jumps back to the
// innermost loop's start without consuming an iteration, per spec.md
// §4.1's loop command family.
func (it *Interpreter) loopRestartF() error {
	top := it.Loops.Top()
	if top == nil {
		return NewError(KindSyntax, "'F<' outside any loop")
	}
	pc := top.PC
	it.JumpTo = &pc
	return nil
}

// loopExitF implements 'F>': forces the innermost loop's last
// iteration by skipping forward to its syntactic end — the same
// ModeParseOnlyLoop machinery '>' (skip mode branch) and ';' use. At
// that '>' the frame is popped and execution continues past the loop,
// whatever count the frame had left, per spec.md §4.1's "F>
// last-iteration semantics" design note.
func (it *Interpreter) loopExitF() error {
	top := it.Loops.Top()
	if top == nil {
		return NewError(KindSyntax, "'F>' outside any loop")
	}
	it.Mode = parser.ModeParseOnlyLoop
	it.nestSkip = 0
	it.skipPopFrame = true
	return nil
}

// condTestState reads the one-byte test kind that follows '"', per
// spec.md §4.1, evaluates it against the popped top-of-stack value, and
// either continues executing (test true) or enters ModeParseOnlyCond to
// skip the true-branch body (test false).
var condTestState = &st{Name: "condTest"}

func init() {
	condTestState.Custom = func(it *Interpreter, ch byte) (*st, error) {
		n, err := it.Expr.PopNumCalc(0, 1)
		if err != nil {
			return nil, err
		}
		truth, err := evalCondTest(ch, n)
		if err != nil {
			return nil, err
		}
		if truth {
			it.condOpen++
			return startState, nil
		}
		it.Mode = parser.ModeParseOnlyCond
		it.nestSkip = 0
		it.skipElse = true
		return startState, nil
	}
}

// evalCondTest implements the test-kind letters enumerated in spec.md
// §4.1: A (alphabetic), C (symbol-constituent), D (digit), I
// (identifier-start), S/T (string-search success), F/U (failure), E/=
// (equal), G/> (greater), L/< (less), N (not equal), R (alphanumeric),
// V (lowercase letter), W (uppercase letter), ~ (true when n is
// non-negative, the inverse of TECO truth).
func evalCondTest(ch byte, n int64) (bool, error) {
	upper := ch
	if upper >= 'a' && upper <= 'z' {
		upper -= 'a' - 'A'
	}
	switch upper {
	case 'A':
		return isAlpha(n), nil
	case 'C':
		return isSymbolConstituent(n), nil
	case 'D':
		return n >= '0' && n <= '9', nil
	case 'I':
		return isAlpha(n) || n == '_', nil
	case 'S', 'T':
		return IsFailure(n), nil
	case 'F', 'U':
		return !IsFailure(n), nil
	case 'E', '=':
		return n == 0, nil
	case 'G', '>':
		return n > 0, nil
	case 'L', '<':
		return n < 0, nil
	case 'N':
		return n != 0, nil
	case 'R':
		return isAlpha(n) || (n >= '0' && n <= '9'), nil
	case 'V':
		return n >= 'a' && n <= 'z', nil
	case 'W':
		return n >= 'A' && n <= 'Z', nil
	case '~':
		return n >= 0, nil
	default:
		return false, NewError(KindSyntax, "unknown conditional test %q", ch)
	}
}

func isAlpha(n int64) bool {
	return (n >= 'A' && n <= 'Z') || (n >= 'a' && n <= 'z')
}

func isSymbolConstituent(n int64) bool {
	return isAlpha(n) || (n >= '0' && n <= '9') || n == '.' || n == '$' || n == '_'
}

// condElse implements '|' reached in ModeNormal: the true branch just
// finished executing and hit its else-separator, so the else body must
// be skipped, per spec.md §4.1.
func (it *Interpreter) condElse() error {
	it.condOpen--
	it.Mode = parser.ModeParseOnlyCond
	it.nestSkip = 0
	it.skipElse = false
	return nil
}

// condEnd implements ''' reached in ModeNormal: the conditional (true
// branch with no else, or an else branch) is simply over.
func (it *Interpreter) condEnd() error {
	if it.condOpen > 0 {
		it.condOpen--
	}
	return nil
}

// condExitAllF implements "F'": unwinds every conditional body
// currently open in ModeNormal, skipping forward past that many
// matching endifs without stopping at any intervening '|', per
// spec.md §4.1.
func (it *Interpreter) condExitAllF() error {
	if it.condOpen <= 0 {
		return nil
	}
	it.Mode = parser.ModeParseOnlyCond
	it.nestSkip = it.condOpen - 1
	it.skipElse = false
	it.condOpen = 0
	return nil
}

// condJumpElseF implements "F|": jumps from inside the innermost open
// true branch straight to its matching else, exactly as if the rest of
// the true branch had executed and naturally reached '|', per
// spec.md §4.1.
func (it *Interpreter) condJumpElseF() error {
	if it.condOpen <= 0 {
		return NewError(KindSyntax, "'F|' with no open conditional")
	}
	it.condOpen--
	it.Mode = parser.ModeParseOnlyCond
	it.nestSkip = 0
	it.skipElse = true
	return nil
}
