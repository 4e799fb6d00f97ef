package interp

import (
	"github.com/dswartz/teco-core/internal/buffer"
	"github.com/dswartz/teco-core/internal/register"
	"github.com/dswartz/teco-core/internal/strbuild"
	"github.com/dswartz/teco-core/internal/undo"
	"github.com/dswartz/teco-core/internal/widget"
)

// beginStringArg arms the string-building sub-machine for kind ('I'
// insert-with-escapes, 'S' set-string, 'L' load-from-file, 'O'
// store-to-file) and transitions into it, honoring a pending '@'
// modifier's custom delimiter, per spec.md §4.2.
func (it *Interpreter) beginStringArg(kind byte) (*st, error) {
	it.strKind = kind
	if it.At {
		it.At = false
		return atDelimState, nil
	}
	it.startStringBuilder(27, 27, false)
	return stringArgState, nil
}

// atDelimState reads the single byte (or '{' for balanced-brace
// nesting) that follows an '@' modifier and becomes the string
// argument's terminator, per spec.md §4.2.
var atDelimState = &st{Name: "atDelim"}

func init() {
	atDelimState.Custom = func(it *Interpreter, ch byte) (*st, error) {
		if ch == '{' {
			it.startStringBuilder('{', '}', true)
		} else {
			it.startStringBuilder(ch, ch, false)
		}
		return stringArgState, nil
	}
}

func (it *Interpreter) startStringBuilder(open, close byte, paired bool) {
	it.strBuilder = strbuild.New(strbuild.Options{
		OpenDelim:  open,
		CloseDelim: close,
		Paired:     paired,
		Source:     it.StrSource,
		Escaper:    it.Escaper,
		Radix:      func() int64 { return it.Radix },
	})
	it.strAccum = nil
}

// stringArgState feeds bytes through the armed Builder until it
// signals completion, then dispatches on strKind, per spec.md §4.2.
var stringArgState = &st{Name: "stringArg"}

func init() {
	stringArgState.Custom = func(it *Interpreter, ch byte) (*st, error) {
		out, done, err := it.strBuilder.Feed(ch)
		if err != nil {
			return nil, err
		}
		it.strAccum = append(it.strAccum, out...)
		if !done {
			return stringArgState, nil
		}
		s := string(it.strAccum)
		it.strBuilder, it.strAccum = nil, nil
		return startState, it.finishStringArg(s)
	}
	stringArgState.EndOfMacro = func(it *Interpreter) error {
		return NewError(KindSyntax, "unterminated string argument")
	}
}

// rawArgState is EI's "without string-building" counterpart to
// stringArgState: it copies bytes verbatim until the terminator (no
// escape interpretation at all), per spec.md §4.1's Insertion family.
var rawArgState = &st{Name: "rawArg"}

func init() {
	rawArgState.Custom = func(it *Interpreter, ch byte) (*st, error) {
		if ch == it.rawDelim {
			s := string(it.strAccum)
			it.strAccum = nil
			return startState, it.insertText(it.dot(), s)
		}
		it.strAccum = append(it.strAccum, ch)
		return rawArgState, nil
	}
	rawArgState.EndOfMacro = func(it *Interpreter) error {
		return NewError(KindSyntax, "unterminated string argument")
	}
}

func (it *Interpreter) beginRawArg() (*st, error) {
	it.rawDelim = byte(27)
	if it.At {
		it.At = false
		return rawAtDelimState, nil
	}
	it.strAccum = nil
	return rawArgState, nil
}

var rawAtDelimState = &st{Name: "rawAtDelim"}

func init() {
	rawAtDelimState.Custom = func(it *Interpreter, ch byte) (*st, error) {
		it.rawDelim = ch
		it.strAccum = nil
		return rawArgState, nil
	}
}

// finishStringArg implements what happens once a full string argument
// has been read, keyed by strKind.
func (it *Interpreter) finishStringArg(s string) error {
	switch it.strKind {
	case 'I':
		return it.insertText(it.dot(), s)
	case 'S':
		colon := it.Colon
		it.Colon = false
		if colon {
			return it.appendRegisterString(it.strTarget, s)
		}
		return it.setRegisterString(it.strTarget, s)
	case 'L':
		return it.loadRegisterFromFile(it.strTarget, s)
	case 'O':
		return it.storeRegisterToFile(it.strTarget, s)
	case 'e': // EB: edit/open a buffer by filename
		return it.cmdEditBuffer(s)
	case 'w': // EW: save current buffer under filename (or current name if empty)
		return it.cmdSaveBuffer(s)
	}
	return nil
}

// setRegisterString replaces reg's Document payload with s, wrapped in
// editor-widget begin/end-undo brackets so the widget's own undo
// collapses the whole replacement into one step, per spec.md §4.4.
func (it *Interpreter) setRegisterString(reg *register.Register, s string) error {
	it.ensureRegisterPayload(reg)
	if it.Widget == nil {
		return nil
	}
	prev := it.Widget.SetDocPointer(reg.Payload.Handle)
	it.Widget.SSM(widget.SciBeginUndoAction, 0, 0)
	it.Widget.SetText(s)
	it.Widget.SSM(widget.SciEndUndoAction, 0, 0)
	it.Widget.SetDocPointer(prev)
	it.Journal.Push(&registerUndoToken{it: it, handle: reg.Payload.Handle})
	return nil
}

// appendRegisterString extends reg's payload with s instead of
// replacing it, per spec.md §4.4's colon-modified set-string.
func (it *Interpreter) appendRegisterString(reg *register.Register, s string) error {
	it.ensureRegisterPayload(reg)
	if it.Widget == nil {
		return nil
	}
	prev := it.Widget.SetDocPointer(reg.Payload.Handle)
	it.Widget.SSM(widget.SciBeginUndoAction, 0, 0)
	it.Widget.InsertText(it.Widget.DocLength(reg.Payload.Handle), s)
	it.Widget.SSM(widget.SciEndUndoAction, 0, 0)
	it.Widget.SetDocPointer(prev)
	it.Journal.Push(&registerUndoToken{it: it, handle: reg.Payload.Handle})
	return nil
}

// ensureRegisterPayload lazily allocates reg's string payload,
// journaling both the pointer write and the new document's eventual
// release, per spec.md §4.5's "a register either has no payload or
// owns exactly one Document" lifecycle.
func (it *Interpreter) ensureRegisterPayload(reg *register.Register) {
	if reg.Payload != nil {
		return
	}
	undo.PushVar(it.Journal, &reg.Payload)
	reg.Payload = newScratchDoc(it)
	it.Journal.Push(&undo.CloseToken{Buffer: reg.Payload})
}

// registerUndoToken replays the editor widget's own undo stack against
// a specific document by handle, rather than against whatever document
// happens to be current, per spec.md §4.4's "wrapped in editor-widget
// begin/end-undo-action brackets so the editor's own undo collapses
// them into a single step."
type registerUndoToken struct {
	it     *Interpreter
	handle widget.DocPointer
}

func (t *registerUndoToken) Undo(ctx *undo.Context) {
	if ctx.Widget == nil {
		return
	}
	prev := ctx.Widget.SetDocPointer(t.handle)
	ctx.Widget.SSM(widget.SciUndo, 0, 0)
	ctx.Widget.SetDocPointer(prev)
}
func (t *registerUndoToken) Discard() {}

func (it *Interpreter) getRegisterString(reg *register.Register) (string, error) {
	if reg.Payload == nil || it.Widget == nil {
		return "", nil
	}
	prev := it.Widget.SetDocPointer(reg.Payload.Handle)
	defer it.Widget.SetDocPointer(prev)
	return it.Widget.GetText(), nil
}

func newScratchDoc(it *Interpreter) *buffer.Document {
	if it.Widget == nil {
		return buffer.New(0)
	}
	return buffer.New(it.Widget.NewDocument())
}
