// Package program implements the BufferRing: the ordered sequence of open
// Documents addressable by ordinal or by resolved filename, per
// spec.md §3. The ordinal index is backed by an AVL tree the same way the
// teacher's stmt.go threads BASIC-PLUS line numbers through one (there,
// statement number -> *stmtNode; here, ordinal -> *buffer.Document).
package program

import (
	"fmt"
	"path/filepath"

	"github.com/danswartzendruber/avl"
	"github.com/dswartz/teco-core/internal/buffer"
)

type ordNode struct {
	avl avl.AvlNode
	ord int
	doc *buffer.Document
}

func cmpOrdKey(key, node any) int {
	k, n := key.(int), node.(*ordNode).ord
	switch {
	case k < n:
		return -1
	case k > n:
		return 1
	default:
		return 0
	}
}

func cmpOrdNode(a, b any) int {
	return cmpOrdKey(a.(*ordNode).ord, b)
}

// Ring is the ordered sequence of Documents. Ordinal 1 is the first
// buffer; ordinal 0 denotes "show chooser" per spec.md §3.
type Ring struct {
	byOrd    *avl.AvlNode
	byFile   map[string]*buffer.Document
	nextOrd  int
	current  *buffer.Document
	currOrd  int
}

// New returns an empty ring.
func New() *Ring {
	return &Ring{byFile: make(map[string]*buffer.Document), nextOrd: 1}
}

// ErrDuplicateFilename is returned by Add when filename is already open.
type ErrDuplicateFilename struct{ Filename string }

func (e *ErrDuplicateFilename) Error() string {
	return fmt.Sprintf("buffer already open: %s", e.Filename)
}

// Add inserts doc at the end of the ring and returns its assigned ordinal.
// filename, if non-empty, is canonicalized and checked for uniqueness
// against the other open buffers, per spec.md §3's ring invariant.
func (r *Ring) Add(doc *buffer.Document, filename string) (int, error) {
	if filename != "" {
		abs, err := filepath.Abs(filename)
		if err != nil {
			abs = filename
		}
		if _, exists := r.byFile[abs]; exists {
			return 0, &ErrDuplicateFilename{Filename: abs}
		}
		doc.Filename = abs
		r.byFile[abs] = doc
	}

	ord := r.nextOrd
	r.nextOrd++
	n := &ordNode{ord: ord, doc: doc}
	if p := avl.AvlTreeInsert(&r.byOrd, &n.avl, n, cmpOrdNode); p != nil {
		panic("program: duplicate ordinal in ring")
	}
	return ord, nil
}

// ReinsertAt re-adds doc at a specific ordinal, used by undo.EditToken to
// reverse a close(buffer) mutation. It bypasses the monotonic-ordinal
// counter since the slot being restored may no longer be at the tail.
func (r *Ring) ReinsertAt(ord int, docAny any) {
	doc := docAny.(*buffer.Document)
	n := &ordNode{ord: ord, doc: doc}
	if p := avl.AvlTreeInsert(&r.byOrd, &n.avl, n, cmpOrdNode); p != nil {
		panic("program: reinsert collides with live ordinal")
	}
	if doc.Filename != "" {
		r.byFile[doc.Filename] = doc
	}
	if ord >= r.nextOrd {
		r.nextOrd = ord + 1
	}
}

// Edit implements undo.Reinserter: it makes doc the ring's current
// document without touching the editor widget (callers that need the
// widget swapped use Interpreter.editBuffer instead, which wraps this).
func (r *Ring) Edit(docAny any) {
	doc := docAny.(*buffer.Document)
	r.current = doc
	if n := r.lookupNodeByDoc(doc); n != nil {
		r.currOrd = n.ord
	}
}

func (r *Ring) lookupNodeByDoc(doc *buffer.Document) *ordNode {
	for p := avl.AvlTreeFirstInOrder(r.byOrd); p != nil; p = avl.AvlTreeNextInOrder(&p.(*ordNode).avl) {
		n := p.(*ordNode)
		if n.doc == doc {
			return n
		}
	}
	return nil
}

// ByOrdinal returns the document at the given 1-based ordinal, or nil.
func (r *Ring) ByOrdinal(ord int) *buffer.Document {
	p := avl.AvlTreeLookup(r.byOrd, ord, cmpOrdKey)
	if p == nil {
		return nil
	}
	return p.(*ordNode).doc
}

// ByFilename returns the document with the given canonical filename, or
// nil.
func (r *Ring) ByFilename(filename string) *buffer.Document {
	abs, err := filepath.Abs(filename)
	if err != nil {
		abs = filename
	}
	return r.byFile[abs]
}

// Current returns the ring's current document and its ordinal, or
// (nil, 0) if none (either the ring is empty, or the currently edited
// entity is a register rather than a ring buffer).
func (r *Ring) Current() (*buffer.Document, int) { return r.current, r.currOrd }

// ClearCurrent clears the ring's current pointer, called when editing
// switches to a register instead of a ring buffer, per spec.md §4.4.
func (r *Ring) ClearCurrent() { r.current, r.currOrd = nil, 0 }

// Close removes doc from the ring and assigns current to its neighbor
// (the next ordinal, or the previous if doc was last), per spec.md §4.4.
// It returns the ordinal doc occupied, for the caller to build an undo
// token that can reinsert it there.
func (r *Ring) Close(doc *buffer.Document) (ordinal int, ok bool) {
	n := r.lookupNodeByDoc(doc)
	if n == nil {
		return 0, false
	}
	ordinal = n.ord

	next := avl.AvlTreeNextInOrder(&n.avl)
	avl.AvlTreeRemove(&r.byOrd, &n.avl)
	if doc.Filename != "" {
		delete(r.byFile, doc.Filename)
	}

	if r.current == doc {
		switch {
		case next != nil:
			nn := next.(*ordNode)
			r.current, r.currOrd = nn.doc, nn.ord
		default:
			if last := avl.AvlTreeLastInOrder(r.byOrd); last != nil {
				ln := last.(*ordNode)
				r.current, r.currOrd = ln.doc, ln.ord
			} else {
				r.current, r.currOrd = nil, 0
			}
		}
	}
	return ordinal, true
}

// Len reports how many documents are currently open.
func (r *Ring) Len() int {
	n := 0
	for p := avl.AvlTreeFirstInOrder(r.byOrd); p != nil; p = avl.AvlTreeNextInOrder(&p.(*ordNode).avl) {
		n++
	}
	return n
}
