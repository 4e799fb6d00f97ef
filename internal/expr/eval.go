package expr

import "errors"

// ErrDivisionByZero is raised by Eval when a pending division or modulo
// operator's right operand is zero.
var ErrDivisionByZero = errors.New("division by zero")

// PushCalc evaluates any operators already pending above the top-most
// barrier, then either appends op as the new pending operator, or, if two
// bare integers are already sitting adjacent above the barrier with
// nothing pending between them, applies op to them immediately. The
// second case is what makes "1 2 +" (two numbers pushed separately, with
// no operator typed between them — e.g. across whitespace, or a loop's
// leftover sitting next to a fresh push) add up instead of leaving a
// dangling operator that never sees a right-hand operand: TECO
// expressions have no precedence, so "2+3*4" (operator between each
// pushed operand) still evaluates strictly left to right via the deferred
// path, while a bare adjacent pair resolves like an RPN stack would.
func (s *Stack) PushCalc(op Op) error {
	if err := s.Eval(); err != nil {
		return err
	}
	if n := len(s.entries); n >= 2 {
		barrier := s.topBarrier()
		a, b := s.entries[n-2], s.entries[n-1]
		if n-2 >= barrier && !a.IsOp && !b.IsOp {
			result, err := apply(op, a.Num, b.Num)
			if err != nil {
				return err
			}
			s.entries = append(s.entries[:n-2], Entry{Num: result})
			return nil
		}
	}
	s.entries = append(s.entries, Entry{IsOp: true, Op: op})
	return nil
}

// Eval collapses every resolvable [int, op, int] run above the top-most
// barrier into a single integer, repeating until nothing more can
// collapse. It is idempotent: calling it twice in a row leaves the stack
// unchanged, per spec.md §8.
func (s *Stack) Eval() error {
	barrier := s.topBarrier()
	for {
		n := len(s.entries)
		if n < barrier+3 {
			return nil
		}
		a, opEnt, b := s.entries[n-3], s.entries[n-2], s.entries[n-1]
		if a.IsOp || !opEnt.IsOp || b.IsOp || isMarker(opEnt.Op) {
			return nil
		}
		result, err := apply(opEnt.Op, a.Num, b.Num)
		if err != nil {
			return err
		}
		s.entries = s.entries[:n-3]
		s.entries = append(s.entries, Entry{Num: result})
	}
}

func isMarker(op Op) bool { return op == OpNew || op == OpLoop || op == OpBrace }

func apply(op Op, a, b int64) (int64, error) {
	switch op {
	case OpAdd:
		return a + b, nil
	case OpSub:
		return a - b, nil
	case OpMul:
		return a * b, nil
	case OpDiv:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	case OpMod:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a % b, nil
	case OpPow:
		return intPow(a, b), nil
	case OpAnd:
		return a & b, nil
	case OpOr:
		return a | b, nil
	case OpXor:
		return a ^ b, nil
	default:
		return 0, nil
	}
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	var result int64 = 1
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

// PopNumCalc evaluates pending operators, then returns and removes the
// top integer above the barrier. If nothing is left above the barrier it
// returns def*sign instead, per spec.md §4.3.
func (s *Stack) PopNumCalc(def, sign int64) (int64, error) {
	if err := s.Eval(); err != nil {
		return 0, err
	}
	barrier := s.topBarrier()
	if len(s.entries) <= barrier || s.entries[len(s.entries)-1].IsOp {
		return def * sign, nil
	}
	n := len(s.entries) - 1
	v := s.entries[n].Num
	s.entries = s.entries[:n]
	return v, nil
}

// BraceOpen pushes a BRACE barrier, opening a nested subexpression.
func (s *Stack) BraceOpen() { s.PushMarker(OpBrace) }

// BraceClose evaluates the contents of the innermost open brace and
// removes its marker, letting whatever value resulted participate in the
// enclosing expression.
func (s *Stack) BraceClose() error {
	if err := s.Eval(); err != nil {
		return err
	}
	idx := s.lastBraceIndex()
	if idx < 0 {
		return errors.New("unmatched )")
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.braceLevel--
	return nil
}

func (s *Stack) lastBraceIndex() int {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if e := s.entries[i]; e.IsOp && e.Op == OpBrace {
			return i
		}
	}
	return -1
}

// BraceReturn collapses open braces back down to level open braces,
// retaining the top keep integers across the unwind. Used at macro-return
// boundaries to discard any parenthesization the macro body left open
// while preserving the values it explicitly returned, per spec.md §4.3.
func (s *Stack) BraceReturn(level, keep int) error {
	if err := s.Eval(); err != nil {
		return err
	}
	n := len(s.entries)
	var kept []Entry
	if keep > 0 && keep <= n {
		kept = append(kept, s.entries[n-keep:]...)
		s.entries = s.entries[:n-keep]
	}
	for s.braceLevel > level {
		idx := s.lastBraceIndex()
		if idx < 0 {
			break
		}
		s.entries = s.entries[:idx]
		s.braceLevel--
	}
	s.entries = append(s.entries, kept...)
	return nil
}
