package interp

import (
	"github.com/dswartz/teco-core/internal/undo"
	"github.com/dswartz/teco-core/internal/widget"
)

// docLength returns the length in bytes of the currently edited document.
func (it *Interpreter) docLength() int64 {
	d := it.currentDoc()
	if d == nil || it.Widget == nil {
		return 0
	}
	return it.Widget.SSM(widget.SciGetLength, 0, 0)
}

// dot returns the caret position of the currently edited document.
func (it *Interpreter) dot() int64 {
	d := it.currentDoc()
	if d == nil {
		return 0
	}
	return d.Dot
}

// setDot moves dot, journaling its prior value, per spec.md §4.5's
// var<T> token kind.
func (it *Interpreter) setDot(pos int64) error {
	d := it.currentDoc()
	if d == nil {
		return NewError(KindMove, "no current document")
	}
	length := it.docLength()
	if pos < 0 || pos > length {
		return NewError(KindMove, "move failed")
	}
	undo.PushVar(it.Journal, &d.Dot)
	undo.PushMsg(it.Journal, widget.SciGotoPos, d.Dot, 0)
	d.Dot = pos
	if it.Widget != nil {
		it.Widget.SSM(widget.SciGotoPos, pos, 0)
	}
	return nil
}

// deleteRange removes length bytes starting at pos from the current
// document, journaling the deleted text for reinsertion on undo.
func (it *Interpreter) deleteRange(pos, length int64) error {
	d := it.currentDoc()
	if d == nil {
		return NewError(KindRange, "no current document")
	}
	if length == 0 {
		return nil
	}
	if pos < 0 || pos+length > it.docLength() {
		return NewError(KindRange, "range out of buffer")
	}
	removed := it.Widget.GetRange(pos, pos+length)
	it.Widget.DeleteRange(pos, length)
	it.markDirty()
	it.Journal.Push(&deleteUndoToken{it: it, pos: pos, text: removed})
	return nil
}

// insertText inserts s at pos in the current document, journaling the
// insertion for deletion on undo.
func (it *Interpreter) insertText(pos int64, s string) error {
	if s == "" {
		return nil
	}
	d := it.currentDoc()
	if d == nil {
		return NewError(KindRange, "no current document")
	}
	it.Widget.InsertText(pos, s)
	it.markDirty()
	it.Journal.Push(&insertUndoToken{it: it, pos: pos, n: int64(len(s))})
	return nil
}

func (it *Interpreter) markDirty() {
	d := it.currentDoc()
	if d == nil || d.Dirty {
		return
	}
	undo.PushVar(it.Journal, &d.Dirty)
	d.Dirty = true
}

type deleteUndoToken struct {
	it   *Interpreter
	pos  int64
	text string
}

func (t *deleteUndoToken) Undo(ctx *undo.Context) {
	t.it.Widget.InsertText(t.pos, t.text)
}
func (t *deleteUndoToken) Discard() {}

type insertUndoToken struct {
	it  *Interpreter
	pos int64
	n   int64
}

func (t *insertUndoToken) Undo(ctx *undo.Context) {
	t.it.Widget.DeleteRange(t.pos, t.n)
}
func (t *insertUndoToken) Discard() {}
