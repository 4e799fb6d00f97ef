// Command dispatch: the concrete TECO command table driving
// parser.Machine[*Interpreter], per spec.md §4.1. Grounded on the
// teacher's per-token action functions referenced by table in
// execute.go, generalized from "one action per BASIC statement keyword"
// to "one action per TECO command character."
package interp

import (
	"github.com/dswartz/teco-core/internal/expr"
	"github.com/dswartz/teco-core/internal/parser"
	"github.com/dswartz/teco-core/internal/widget"
)

type st = parser.State[*Interpreter]

// startState is the parser's single top-level state: every command
// character not inside a string argument, register specifier, or
// multi-character prefix is dispatched from here.
var startState = &st{Name: "start"}

func init() {
	startState.Custom = dispatchStart
}

// quoteSkipState eats exactly one byte (the test-kind character of a
// '"' opened while already skipping a conditional body) and returns to
// startState, per spec.md §4.1's "structurally significant characters
// must record themselves even during skipping" rule: the '"' itself is
// tracked by nestSkip, but its argument byte carries no structure and is
// simply discarded.
var quoteSkipState = &st{Name: "quoteSkip"}

func init() {
	quoteSkipState.Custom = func(it *Interpreter, ch byte) (*st, error) {
		return startState, nil
	}
}

func dispatchStart(it *Interpreter, ch byte) (*st, error) {
	upper := ch
	if upper >= 'a' && upper <= 'z' {
		upper -= 'a' - 'A'
	}

	switch it.Mode {
	case parser.ModeParseOnlyLoop:
		return it.skipLoopByte(upper)
	case parser.ModeParseOnlyCond:
		return it.skipCondByte(upper)
	}

	switch {
	case upper >= '0' && upper <= '9':
		return it.digit(int64(upper - '0'))
	case upper >= 'A' && upper <= 'Z' && int64(upper-'A'+10) < it.Radix:
		return it.digit(int64(upper - 'A' + 10))
	}

	switch upper {
	case ' ', '\t', '\r', '\n':
		it.numberInProgress = false
		return startState, nil
	case '-':
		return it.minus()
	case '+':
		it.numberInProgress = false
		return startState, pushCalcErr(it, expr.OpAdd)
	case '*':
		it.numberInProgress = false
		return startState, pushCalcErr(it, expr.OpMul)
	case '/':
		it.numberInProgress = false
		return startState, pushCalcErr(it, expr.OpDiv)
	case '&':
		it.numberInProgress = false
		return startState, pushCalcErr(it, expr.OpAnd)
	case '#':
		it.numberInProgress = false
		return startState, pushCalcErr(it, expr.OpOr)
	case '(':
		it.numberInProgress = false
		it.Expr.BraceOpen()
		return startState, nil
	case ')':
		it.numberInProgress = false
		return startState, it.Expr.BraceClose()
	case ',':
		it.numberInProgress = false
		it.Expr.PushMarker(expr.OpNew)
		return startState, nil
	case '.':
		it.Expr.Push(it.dot())
		return startState, nil
	case 'Z':
		it.Expr.Push(it.docLength())
		return startState, nil
	case 'H':
		it.Expr.Push(0)
		it.Expr.Push(it.docLength())
		return startState, nil
	case ':':
		it.Colon = true
		return startState, nil
	case '@':
		it.At = true
		return startState, nil
	case '^':
		return caretPrefixState, nil
	case 'E':
		return ePrefixState, nil
	case 'F':
		return fPrefixState, nil
	case 'J':
		return startState, it.cmdMove('J')
	case 'C':
		return startState, it.cmdMove('C')
	case 'R':
		return startState, it.cmdMove('R')
	case 'L':
		return startState, it.cmdMove('L')
	case 'B':
		return startState, it.cmdMove('B')
	case 'W':
		return startState, it.cmdMove('W')
	case 'K':
		return startState, it.cmdDelete('K')
	case 'D':
		return startState, it.cmdDelete('D')
	case 'V':
		return startState, it.cmdDelete('V')
	case 'Y':
		return startState, it.cmdDelete('Y')
	case 'I':
		return it.beginStringArg('I')
	case '\\':
		return startState, it.cmdBackslash()
	case '<':
		return startState, it.loopStart()
	case '>':
		return startState, it.loopEnd()
	case ';':
		return startState, it.loopBreak()
	case '"':
		return condTestState, nil
	case '|':
		return startState, it.condElse()
	case '\'':
		return startState, it.condEnd()
	case '[':
		return regSpecStateFor(it, 'v')
	case ']':
		return regSpecStateFor(it, '^')
	case 'Q':
		return regSpecStateFor(it, 'Q')
	case 'U':
		return regSpecStateFor(it, 'U')
	case '%':
		return regSpecStateFor(it, '%')
	case 'M':
		return regSpecStateFor(it, 'M')
	case 'G':
		return regSpecStateFor(it, 'G')
	case 'X':
		return regSpecStateFor(it, 'X')
	case '{':
		return startState, it.cmdlineEscapeOpen()
	case '}':
		return startState, it.cmdlineEscapeClose()
	case '$':
		return it.dollar()
	default:
		return nil, &parser.SyntaxError{Ch: ch, State: "start"}
	}
}

func pushCalcErr(it *Interpreter, op expr.Op) error { return it.Expr.PushCalc(op) }

// digit pushes a fresh stack entry for a number's first digit and folds
// every digit after that into it via AccumulateDigit, per spec.md §4.1's
// "stack_top := stack_top*radix + digit". The first-digit case pushes
// explicitly rather than leaving it to AccumulateDigit's own top-of-stack
// check: numberInProgress, not the stack's current top, is what says
// whether this digit starts a new number, since a prior completed number
// can be sitting on top of the stack (e.g. across a whitespace break)
// when the next one starts.
func (it *Interpreter) digit(d int64) (*st, error) {
	if !it.numberInProgress {
		it.numberSign = it.Sign
		it.Sign = 1
		it.Expr.Push(it.numberSign * d)
	} else {
		it.Expr.AccumulateDigit(d, it.Radix, it.numberSign)
	}
	it.numberInProgress = true
	return startState, nil
}

// minus implements spec.md §4.1's "unary - when no args negates pending
// sign" vs the binary subtract operator.
func (it *Interpreter) minus() (*st, error) {
	it.numberInProgress = false
	if it.Expr.Args() == 0 {
		it.Sign = -it.Sign
		return startState, nil
	}
	return startState, it.Expr.PushCalc(expr.OpSub)
}

// skipLoopByte implements ModeParseOnlyLoop's per-byte tracking: only
// '<' and '>' carry structure, per spec.md §4.1.
func (it *Interpreter) skipLoopByte(upper byte) (*st, error) {
	switch upper {
	case '<':
		it.nestSkip++
	case '>':
		if it.nestSkip == 0 {
			it.Mode = parser.ModeNormal
			if it.skipPopFrame {
				it.Loops.Pop()
			}
		} else {
			it.nestSkip--
		}
	}
	return startState, nil
}

// skipCondByte implements ModeParseOnlyCond's per-byte tracking: '"'
// opens nesting (its test-kind argument byte is swallowed separately by
// quoteSkipState), '|' stops at depth 0 only when skipElse requests it,
// ''' closes, per spec.md §4.1.
func (it *Interpreter) skipCondByte(upper byte) (*st, error) {
	switch upper {
	case '"':
		it.nestSkip++
		return quoteSkipState, nil
	case '|':
		if it.nestSkip == 0 && it.skipElse {
			it.Mode = parser.ModeNormal
			it.condOpen++
		}
	case '\'':
		if it.nestSkip == 0 {
			it.Mode = parser.ModeNormal
		} else {
			it.nestSkip--
		}
	}
	return startState, nil
}

// cmdMove implements the Movement family: J (absolute jump), C/R
// (character step forward/backward), L (line step), B/W (word
// backward/forward via the widget's word-boundary messages), per
// spec.md §4.1. With the colon modifier, a failing move returns a
// boolean instead of raising.
func (it *Interpreter) cmdMove(which byte) error {
	colon := it.Colon
	it.Colon = false

	var err error
	switch which {
	case 'J':
		n, e := it.Expr.PopNumCalc(0, 1)
		if e != nil {
			return e
		}
		err = it.setDot(n)
	case 'C':
		n, e := it.Expr.PopNumCalc(1, it.sign1())
		if e != nil {
			return e
		}
		err = it.setDot(it.dot() + n)
	case 'R':
		n, e := it.Expr.PopNumCalc(1, it.sign1())
		if e != nil {
			return e
		}
		err = it.setDot(it.dot() - n)
	case 'L':
		n, e := it.Expr.PopNumCalc(1, it.sign1())
		if e != nil {
			return e
		}
		err = it.moveLines(n)
	case 'B':
		err = it.moveWord(false)
	case 'W':
		err = it.moveWord(true)
	}

	if err == nil {
		return nil
	}
	if colon {
		it.Expr.Push(BoolValue(false))
		return nil
	}
	return err
}

func (it *Interpreter) sign1() int64 {
	s := it.Sign
	it.Sign = 1
	return s
}

func (it *Interpreter) moveLines(n int64) error {
	if it.Widget == nil {
		return NewError(KindMove, "no widget attached")
	}
	line := it.Widget.SSM(widget.SciLineFromPosition, it.dot(), 0)
	target := it.Widget.SSM(widget.SciPositionFromLine, line+n, 0)
	if target < 0 {
		return NewError(KindMove, "move failed")
	}
	return it.setDot(target)
}

func (it *Interpreter) moveWord(forward bool) error {
	if it.Widget == nil {
		return NewError(KindMove, "no widget attached")
	}
	msg := widget.SciWordLeftEnd
	if forward {
		msg = widget.SciWordRightEnd
	}
	target := it.Widget.SSM(msg, it.dot(), 0)
	return it.setDot(target)
}

// cmdDelete implements the Deletion family: K (lines), D (characters),
// V/Y (word forward/backward); a two-argument form (m,nD or m,nK)
// deletes the absolute range [m,n), per spec.md §4.1.
func (it *Interpreter) cmdDelete(which byte) error {
	if it.Expr.Args() >= 2 {
		n, e := it.Expr.PopNumCalc(0, 1)
		if e != nil {
			return e
		}
		m, e := it.Expr.PopNumCalc(0, 1)
		if e != nil {
			return e
		}
		if n < m {
			m, n = n, m
		}
		return it.deleteRange(m, n-m)
	}

	switch which {
	case 'K':
		n, e := it.Expr.PopNumCalc(1, it.sign1())
		if e != nil {
			return e
		}
		line := it.Widget.SSM(widget.SciLineFromPosition, it.dot(), 0)
		end := it.Widget.SSM(widget.SciPositionFromLine, line+n, 0)
		return it.deleteSpan(end)
	case 'D':
		n, e := it.Expr.PopNumCalc(1, it.sign1())
		if e != nil {
			return e
		}
		return it.deleteSpan(it.dot() + n)
	case 'V':
		end := it.Widget.SSM(widget.SciWordRightEnd, it.dot(), 0)
		return it.deleteSpan(end)
	case 'Y':
		end := it.Widget.SSM(widget.SciWordLeftEnd, it.dot(), 0)
		return it.deleteSpan(end)
	}
	return nil
}

// deleteSpan deletes the bytes between dot and end, in whichever
// direction end lies.
func (it *Interpreter) deleteSpan(end int64) error {
	pos := it.dot()
	if end < pos {
		pos, end = end, pos
	}
	return it.deleteRange(pos, end-pos)
}

// cmdBackslash implements '\': with no pending argument it reads the
// decimal number at dot onto the stack; with an argument n it inserts
// n's text, formatted in the current radix, at dot, per spec.md §4.1.
func (it *Interpreter) cmdBackslash() error {
	if it.Expr.Args() == 0 {
		n, ok := it.readNumberAtDot()
		if !ok {
			return NewError(KindRange, "no number at dot")
		}
		it.Expr.Push(n)
		return nil
	}
	n, err := it.Expr.PopNumCalc(0, 1)
	if err != nil {
		return err
	}
	return it.insertText(it.dot(), formatRadix(n, it.Radix))
}

func (it *Interpreter) readNumberAtDot() (int64, bool) {
	if it.Widget == nil {
		return 0, false
	}
	length := it.docLength()
	pos := it.dot()
	neg := false
	if pos < length {
		c := it.Widget.SSM(widget.SciGetCharAt, pos, 0)
		if c == '-' {
			neg = true
			pos++
		}
	}
	var n int64
	found := false
	for pos < length {
		c := it.Widget.SSM(widget.SciGetCharAt, pos, 0)
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + (c - '0')
		found = true
		pos++
	}
	if !found {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func formatRadix(n, radix int64) string {
	if radix == 10 || radix == 0 {
		return itoa(n)
	}
	neg := n < 0
	if neg {
		n = -n
	}
	if n == 0 {
		return "0"
	}
	var buf [64]byte
	i := len(buf)
	for n > 0 {
		i--
		d := n % radix
		if d < 10 {
			buf[i] = byte('0' + d)
		} else {
			buf[i] = byte('A' + d - 10)
		}
		n /= radix
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [24]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// cmdlineEscapeOpen/Close implement '{'/'}': copying the command line
// typed so far into the global "Escape" register for editing, and
// replaying an edited line back into the input stream, per spec.md
// §4.1. The actual line-editing happens in the front end (cmd/teco's
// liner integration); the core's contract is just the register
// roundtrip.
func (it *Interpreter) cmdlineEscapeOpen() error {
	reg := it.Globals.Lookup("Escape")
	if reg.Payload == nil {
		reg.Payload = newScratchDoc(it)
	}
	return it.setRegisterString(reg, string(it.cmdLine))
}

func (it *Interpreter) cmdlineEscapeClose() error {
	reg := it.Globals.Lookup("Escape")
	s, err := it.getRegisterString(reg)
	if err != nil {
		return err
	}
	it.escapeForEdit = []byte(s)
	return nil
}
