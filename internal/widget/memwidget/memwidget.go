// Package memwidget is a minimal in-process stand-in for the opaque
// text-rendering widget described by widget.Widget. It exists so the
// interpreter core and its tests can run without a real GUI control
// attached, the way rjkroege-edwood's undo.Buffer stands in for a real
// Scintilla-style piece table in that project's own tests.
package memwidget

import (
	"strings"

	"github.com/dswartz/teco-core/internal/widget"
)

type editOp struct {
	insert bool
	pos    int64
	data   string // inserted or removed bytes, for reversal
}

type document struct {
	content []byte
	history []editOp
}

// Memory is a reference widget.Widget backed by plain byte slices. It
// implements just enough of SCI_UNDO semantics (one level of undo per
// InsertText or DeleteRange call; SetText and SCI_CLEARALL replace the
// text and clear that history) for the interpreter's own undo journal
// tests to exercise SciUndo tokens realistically.
type Memory struct {
	docs    map[widget.DocPointer]*document
	next    widget.DocPointer
	current widget.DocPointer
}

// New returns a Memory widget with one empty document already attached.
func New() *Memory {
	m := &Memory{docs: make(map[widget.DocPointer]*document)}
	m.current = m.NewDocument()
	return m
}

func (m *Memory) NewDocument() widget.DocPointer {
	m.next++
	m.docs[m.next] = &document{}
	return m.next
}

func (m *Memory) doc(p widget.DocPointer) *document {
	d, ok := m.docs[p]
	if !ok {
		panic("memwidget: unknown document handle")
	}
	return d
}

func (m *Memory) cur() *document { return m.doc(m.current) }

func (m *Memory) CurrentDoc() widget.DocPointer { return m.current }

func (m *Memory) SetDocPointer(doc widget.DocPointer) widget.DocPointer {
	prev := m.current
	if doc != 0 {
		m.doc(doc) // panics if unknown
		m.current = doc
	} else {
		m.current = 0
	}
	return prev
}

func (m *Memory) DocLength(doc widget.DocPointer) int64 {
	return int64(len(m.doc(doc).content))
}

func (m *Memory) SetText(s string) {
	d := m.cur()
	d.content = []byte(s)
	d.history = nil
}

func (m *Memory) GetText() string { return string(m.cur().content) }

func (m *Memory) GetRange(from, to int64) string {
	c := m.cur().content
	if from < 0 {
		from = 0
	}
	if to > int64(len(c)) {
		to = int64(len(c))
	}
	if from >= to {
		return ""
	}
	return string(c[from:to])
}

func (m *Memory) DeleteRange(from, length int64) {
	d := m.cur()
	if length <= 0 {
		return
	}
	end := from + length
	if end > int64(len(d.content)) {
		end = int64(len(d.content))
	}
	removed := string(d.content[from:end])
	d.content = append(d.content[:from:from], d.content[end:]...)
	d.history = append(d.history, editOp{insert: false, pos: from, data: removed})
}

func (m *Memory) InsertText(pos int64, s string) {
	if s == "" {
		return
	}
	d := m.cur()
	buf := make([]byte, 0, len(d.content)+len(s))
	buf = append(buf, d.content[:pos]...)
	buf = append(buf, s...)
	buf = append(buf, d.content[pos:]...)
	d.content = buf
	d.history = append(d.history, editOp{insert: true, pos: pos, data: s})
}

// SSM implements widget.Widget's sole RPC entry point for the handful of
// messages the core drives directly rather than through a typed helper
// (GETLENGTH, GETCHARAT, UNDO, and friends).
func (m *Memory) SSM(msg widget.Message, wParam, lParam int64) int64 {
	switch msg {
	case widget.SciGetLength:
		return int64(len(m.cur().content))
	case widget.SciGetCharAt:
		c := m.cur().content
		if wParam < 0 || wParam >= int64(len(c)) {
			return -1
		}
		return int64(c[wParam])
	case widget.SciGetCurrentPos:
		return wParam
	case widget.SciLineFromPosition:
		return int64(strings.Count(string(m.cur().content[:min64(wParam, int64(len(m.cur().content)))]), "\n"))
	case widget.SciClearAll:
		d := m.cur()
		d.content = nil
		d.history = nil
		return 0
	case widget.SciUndo:
		m.undoLast()
		return 0
	case widget.SciSetDocPointer:
		return int64(m.SetDocPointer(widget.DocPointer(lParam)))
	case widget.SciBeginUndoAction, widget.SciEndUndoAction,
		widget.SciSetEOLMode, widget.SciGetEOLMode, widget.SciScrollCaret,
		widget.SciGotoPos, widget.SciGotoLine:
		return 0
	default:
		return 0
	}
}

func (m *Memory) undoLast() {
	d := m.cur()
	n := len(d.history)
	if n == 0 {
		return
	}
	op := d.history[n-1]
	d.history = d.history[:n-1]
	if op.insert {
		pos, l := op.pos, int64(len(op.data))
		d.content = append(d.content[:pos:pos], d.content[pos+l:]...)
	} else {
		buf := make([]byte, 0, len(d.content)+len(op.data))
		buf = append(buf, d.content[:op.pos]...)
		buf = append(buf, op.data...)
		buf = append(buf, d.content[op.pos:]...)
		d.content = buf
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
