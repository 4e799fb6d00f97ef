// Package buffer defines Document, the handle the interpreter core holds
// for one open text buffer: a pointer into the opaque editor widget plus
// the bookkeeping fields (dot, filename, dirty) the core itself owns.
package buffer

import "github.com/dswartz/teco-core/internal/widget"

// Document is an opaque editor-widget handle plus the caret position,
// filename, and dirty flag spec.md §3 requires. It never holds the text
// itself; that lives behind Handle in the editor widget.
type Document struct {
	Handle   widget.DocPointer
	Dot      int64
	Filename string // canonical absolute path, "" if unnamed
	Dirty    bool

	// savepointSeq counts how many times this document has been saved in
	// the current session, so repeated saves to the same path don't
	// collide on the hidden savepoint sibling's name. Supplemented from
	// original_source/qbuffers.cpp, which keys savepoints the same way.
	savepointSeq int
}

// New wraps a freshly allocated widget document handle.
func New(h widget.DocPointer) *Document {
	return &Document{Handle: h}
}

// NextSavepointSeq returns the next savepoint sequence number for this
// document and advances the counter.
func (d *Document) NextSavepointSeq() int {
	d.savepointSeq++
	return d.savepointSeq
}

// CheckDot reports whether pos is a valid dot for a document of the given
// length, per spec.md §3's invariant 0 <= dot <= length.
func CheckDot(pos, length int64) bool {
	return pos >= 0 && pos <= length
}

// Close releases this document's ties to the ring. It implements
// undo.CloseBuffer so a discarded EditToken (a buffer re-insertion that
// is itself later rubbed forward past, e.g. on command-line commit) can
// drop the buffer for good instead of leaving it reachable only by a
// dangling undo token, per spec.md §4.5's deferred-destruction rule.
func (d *Document) Close() {
	d.Handle = 0
}
