package undo

import (
	"os"

	"github.com/dswartz/teco-core/internal/widget"
)

// VarToken snapshots an arbitrary addressable value and writes it back on
// Undo. T is almost always int64, bool, or string, matching the three
// scalar fields (dot, dirty, filename) spec.md §4.5 calls out for var<T>.
type VarToken[T any] struct {
	addr *T
	old  T
}

// PushVar records addr's current value by pushing a token that restores
// it. Call before mutating *addr.
func PushVar[T any](j *Journal, addr *T) {
	j.Push(&VarToken[T]{addr: addr, old: *addr})
}

func (t *VarToken[T]) Undo(ctx *Context) { *t.addr = t.old }
func (t *VarToken[T]) Discard()          {}

// MsgToken replays a single widget SSM call on undo: SCI_UNDO,
// SCI_GOTOPOS, and SCI_SETDOCPOINTER are the three the interpreter
// actually needs, per spec.md §4.5.
type MsgToken struct {
	Msg            widget.Message
	WParam, LParam int64
}

func PushMsg(j *Journal, msg widget.Message, wParam, lParam int64) {
	j.Push(&MsgToken{Msg: msg, WParam: wParam, LParam: lParam})
}

func (t *MsgToken) Undo(ctx *Context) {
	if ctx.Widget != nil {
		ctx.Widget.SSM(t.Msg, t.WParam, t.LParam)
	}
}
func (t *MsgToken) Discard() {}

// StrToken snapshots an owned string pointer (a register's ad-hoc name or
// a document's filename) for restoration.
type StrToken struct {
	addr *string
	old  string
}

func PushStr(j *Journal, addr *string) {
	j.Push(&StrToken{addr: addr, old: *addr})
}

func (t *StrToken) Undo(ctx *Context) { *t.addr = t.old }
func (t *StrToken) Discard()          {}

// CloseBuffer is implemented by whatever document type the ring manages;
// kept minimal to avoid a dependency from undo on program/buffer.
type CloseBuffer interface {
	Close()
}

// CloseToken closes a freshly created buffer on undo, reversing its
// creation. The interpreter pushes it when it lazily allocates a
// register's string payload, so rubbing that allocation out releases the
// document again.
type CloseToken struct {
	Buffer CloseBuffer
}

func (t *CloseToken) Undo(ctx *Context) { t.Buffer.Close() }
func (t *CloseToken) Discard()          {}

// Reinserter is implemented by the buffer ring so EditToken can reinsert a
// closed buffer at its previous ordinal and re-edit it.
type Reinserter interface {
	ReinsertAt(ord int, doc any)
	Edit(doc any)
}

// EditToken reinserts a buffer into the ring and re-edits it, reversing a
// close(buffer) mutation.
type EditToken struct {
	Ring     Reinserter
	Ordinal  int
	Document any
}

func (t *EditToken) Undo(ctx *Context) {
	t.Ring.ReinsertAt(t.Ordinal, t.Document)
	t.Ring.Edit(t.Document)
}

// Discard releases the closed buffer for good once the rubout history
// that could have reopened it is trimmed away, per spec.md §3's
// deferred-destruction lifecycle: "destroyed only when the rubout
// journal discards its closing token."
func (t *EditToken) Discard() {
	if cb, ok := t.Document.(CloseBuffer); ok {
		cb.Close()
	}
}

// RestoreSavepointToken renames a savepoint file back over the original
// on undo, reversing the rename-aside step of a save to an existing file.
// Grounded on original_source/qbuffers.cpp's UndoTokenRestoreSavePoint,
// which additionally restores OS-level file attributes; Go's os.Rename
// preserves the target inode's metadata implicitly since no new file is
// created, so no separate attribute-restore step is needed here.
type RestoreSavepointToken struct {
	SavepointPath string
	OriginalPath  string
	discarded     bool
}

func (t *RestoreSavepointToken) Undo(ctx *Context) {
	if t.discarded {
		return
	}
	_ = os.Remove(t.OriginalPath)
	_ = os.Rename(t.SavepointPath, t.OriginalPath)
	t.discarded = true
}

func (t *RestoreSavepointToken) Discard() {
	if t.discarded {
		return
	}
	_ = os.Remove(t.SavepointPath)
	t.discarded = true
}

// RemoveFileToken unlinks a file written by a save-of-new-file when that
// save is rolled back.
type RemoveFileToken struct {
	Path      string
	discarded bool
}

func (t *RemoveFileToken) Undo(ctx *Context) {
	if t.discarded {
		return
	}
	_ = os.Remove(t.Path)
	t.discarded = true
}
func (t *RemoveFileToken) Discard() { t.discarded = true }

// InfoUpdateToken refreshes UI metadata (buffer-list sidebar, title bar)
// for subject on undo, grounded on original_source's
// interface.undo_info_update hook.
type InfoUpdateToken struct {
	Subject any
}

func (t *InfoUpdateToken) Undo(ctx *Context) {
	if ctx.NotifyInfoFn != nil {
		ctx.NotifyInfoFn(t.Subject)
	}
}
func (t *InfoUpdateToken) Discard() {}

// ChangeDirToken restores the process working directory on undo.
type ChangeDirToken struct {
	Path string
}

func (t *ChangeDirToken) Undo(ctx *Context) {
	if ctx.RestoreDirFn != nil {
		_ = ctx.RestoreDirFn(t.Path)
	}
}
func (t *ChangeDirToken) Discard() {}
