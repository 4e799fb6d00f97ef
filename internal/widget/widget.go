// Package widget defines the narrow contract the interpreter core uses to
// talk to the opaque text-rendering component (a Scintilla-like editor
// widget in the original system). The core never reaches past this single
// message-passing entry point.
package widget

// Message identifies one of the SCI_* operations the core is allowed to
// send. Only the subset actually exercised by the interpreter is named;
// a real front end answers many more messages that the core never sends.
type Message int

const (
	SciSetText Message = iota
	SciGetText
	SciGetLength
	SciAppendText
	SciAddText
	SciClearAll
	SciDeleteRange
	SciGetCharAt
	SciGetCurrentPos
	SciGotoPos
	SciGotoLine
	SciLineFromPosition
	SciPositionFromLine
	SciGetCharacterPointer
	SciSetDocPointer
	SciBeginUndoAction
	SciEndUndoAction
	SciUndo
	SciSetEOLMode
	SciGetEOLMode
	SciWordRightEnd
	SciWordLeftEnd
	SciDelWordRightEnd
	SciScrollCaret
)

// DocPointer is the opaque handle a widget uses to identify one document's
// backing store. The core stores these on buffer.Document and register
// payloads but never dereferences them.
type DocPointer uintptr

// Widget is the sole RPC surface of the text-rendering component.
//
// SSM ("send a Scintilla message") takes an integer wParam and lParam,
// exactly mirroring the real control's message-passing API, and returns a
// single integer result (sptr_t in the original). Callers that need a
// string result use the paired GetText/SetText convenience methods instead
// of decoding a pointer out of lParam, since Go has no use for raw buffer
// pointers across a message boundary.
type Widget interface {
	SSM(msg Message, wParam, lParam int64) int64

	// SetText replaces the entire contents of the currently attached
	// document with s.
	SetText(s string)
	// GetText returns the entire contents of the currently attached
	// document.
	GetText() string
	// GetRange returns the bytes in [from, to) of the currently attached
	// document.
	GetRange(from, to int64) string
	// DeleteRange removes the bytes in [from, from+length) from the
	// currently attached document.
	DeleteRange(from, length int64)
	// InsertText inserts s at pos in the currently attached document.
	InsertText(pos int64, s string)

	// CurrentDoc returns the handle of the document currently attached to
	// the widget, or 0 if none.
	CurrentDoc() DocPointer
	// SetDocPointer attaches doc as the widget's current document, as if
	// by SCI_SETDOCPOINTER, and returns the previously attached handle.
	SetDocPointer(doc DocPointer) DocPointer
	// NewDocument allocates a fresh, empty document and returns its
	// handle. The document is not attached until SetDocPointer is called.
	NewDocument() DocPointer
	// DocLength returns the length, in bytes, of doc without requiring it
	// to be the currently attached document.
	DocLength(doc DocPointer) int64
}
