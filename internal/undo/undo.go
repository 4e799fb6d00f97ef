// Package undo implements the interpreter's rubout journal: an append-only
// LIFO stack of reversal tokens recorded by every mutating operation so an
// interactive front end can roll back arbitrary prefixes of the command
// line and land on exactly the editor state that existed before those
// characters were typed.
//
// The shape mirrors the teacher's forStack/gosubStack push-on-entry,
// pop-on-scope-exit bookkeeping, generalized from "one frame per active
// loop or GOSUB" to "one token per observable mutation."
package undo

import "github.com/dswartz/teco-core/internal/widget"

// Token is one reversible fact. Undo restores whatever it captured.
// Implementations own any resources they captured (file handles, closed
// buffers) and must release them from Discard if they are never executed.
type Token interface {
	// Undo reverses the captured mutation against ctx.
	Undo(ctx *Context)
	// Discard releases any resources this token owns without reversing
	// the mutation, called when the token is dropped without ever being
	// undone (the journal was trimmed forward, e.g. on command-line
	// commit).
	Discard()
}

// Context threads whatever a Token needs to reverse itself: a handle back
// to the editor widget, a working-directory restorer, and a UI metadata
// refresh hook. Kept as an explicit parameter, per design, rather than
// package globals.
type Context struct {
	Widget       widget.Widget
	NotifyInfoFn func(subject any)
	RestoreDirFn func(path string) error
}

// Journal is the per-interpreter rubout stack. Tokens pushed while
// processing one input character are contiguous; Mark/RubOut operate on
// those character-sized groups.
type Journal struct {
	tokens  []Token
	marks   []int // stack of token-count boundaries, one per open character
	enabled bool
}

// New returns an enabled Journal. Batch-mode execution disables it via
// SetEnabled(false), at which point Push becomes a no-op and mutations
// become irreversible, exactly as spec.md §4.5 requires.
func New() *Journal {
	return &Journal{enabled: true}
}

func (j *Journal) SetEnabled(v bool) { j.enabled = v }
func (j *Journal) Enabled() bool     { return j.enabled }

// Push records a reversal token. No-op when the journal is disabled.
func (j *Journal) Push(t Token) {
	if !j.enabled {
		return
	}
	j.tokens = append(j.tokens, t)
}

// Mark opens a new boundary: the input-character group about to be
// processed. Call Close when the character's action has completed
// successfully, or RubOut(1) to unwind it on error/interactive rubout.
func (j *Journal) Mark() {
	if !j.enabled {
		return
	}
	j.marks = append(j.marks, len(j.tokens))
}

// Close discards the most recently opened boundary without disturbing the
// tokens pushed inside it: the character committed successfully and its
// tokens become part of the enclosing group. If this was the outermost
// boundary, the tokens stay on the journal below any later mark, where
// RubOut does not reach them; only Discard releases them.
func (j *Journal) Close() {
	if !j.enabled || len(j.marks) == 0 {
		return
	}
	j.marks = j.marks[:len(j.marks)-1]
}

// RubOut executes, in LIFO order, every token pushed since the most recent
// n open marks, then drops those marks. Used both for interactive rubout
// of typed characters and for the automatic rollback of a character whose
// action raised an error mid-way.
func (j *Journal) RubOut(ctx *Context, n int) {
	for i := 0; i < n && len(j.marks) > 0; i++ {
		boundary := j.marks[len(j.marks)-1]
		j.marks = j.marks[:len(j.marks)-1]
		for len(j.tokens) > boundary {
			last := len(j.tokens) - 1
			tok := j.tokens[last]
			j.tokens = j.tokens[:last]
			tok.Undo(ctx)
		}
	}
}

// Depth reports the number of tokens currently on the journal, mainly for
// tests asserting that a sequence of operations balances back to zero.
func (j *Journal) Depth() int { return len(j.tokens) }

// Discard drops every token back to the most recent mark without undoing
// them, releasing any resources they own. Used when a command-line is
// committed and its rubout history is no longer needed.
func (j *Journal) Discard() {
	if len(j.marks) == 0 {
		for _, t := range j.tokens {
			t.Discard()
		}
		j.tokens = nil
		return
	}
	boundary := j.marks[len(j.marks)-1]
	j.marks = j.marks[:len(j.marks)-1]
	for len(j.tokens) > boundary {
		last := len(j.tokens) - 1
		j.tokens[last].Discard()
		j.tokens = j.tokens[:last]
	}
}
