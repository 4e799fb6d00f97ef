// Package register implements the Q-register model: named integer/string
// slots, the global and per-macro-frame tables that hold them, and the
// save/restore stack used by register push ([) and pop (]) commands.
//
// The table's ad-hoc-name ordering is backed by an AVL tree the same way
// the teacher's stmt.go threads BASIC-PLUS line numbers through one, so
// that listing registers (EH-style introspection) walks them in order
// without a separate sort step.
package register

import (
	"strings"

	"github.com/danswartzendruber/avl"
	"github.com/dswartz/teco-core/internal/buffer"
)

// Register is a named slot carrying an integer value and, lazily, a
// Document payload (its "string"). Per spec.md §3, a register either has
// no payload or owns exactly one Document, and that Document is never
// shared with the buffer ring.
type Register struct {
	avl avl.AvlNode

	Name     string
	Value    int64
	Payload  *buffer.Document
	MustUndo bool
}

// Normalize upper-cases single-letter register names and leaves
// multi-character control names (e.g. a two-letter #-prefixed name)
// verbatim, per spec.md §3.
func Normalize(name string) string {
	if len(name) == 1 {
		return strings.ToUpper(name)
	}
	return name
}

func cmpNameKey(key, node any) int {
	return strings.Compare(key.(string), node.(*Register).Name)
}

func cmpNameNode(a, b any) int {
	return strings.Compare(a.(*Register).Name, b.(*Register).Name)
}

// Table maps a register name to its Register. defaults controls whether
// looking up an unknown name auto-creates it (true for the global table
// and for macro frame locals; false for a strict table, where an
// undeclared name is an error).
type Table struct {
	byName   map[string]*Register
	order    *avl.AvlNode
	defaults bool
}

// NewTable returns an empty table. When defaults is true, Lookup creates
// general-purpose registers on first reference instead of returning nil.
func NewTable(defaults bool) *Table {
	return &Table{byName: make(map[string]*Register), defaults: defaults}
}

// NewGlobal returns the table of general-purpose registers A-Z, 0-9 that
// exist from initialization, per spec.md §3.
func NewGlobal() *Table {
	t := NewTable(true)
	for c := 'A'; c <= 'Z'; c++ {
		t.create(string(c))
	}
	for c := '0'; c <= '9'; c++ {
		t.create(string(c))
	}
	return t
}

func (t *Table) create(name string) *Register {
	name = Normalize(name)
	r := &Register{Name: name, MustUndo: true}
	t.byName[name] = r
	if p := avl.AvlTreeInsert(&t.order, &r.avl, r, cmpNameNode); p != nil {
		// Name already present: drop the duplicate node, keep the
		// existing register object that byName already points at.
		t.byName[name] = p.(*Register)
		return t.byName[name]
	}
	return r
}

// Lookup returns the named register, creating it if the table allows
// defaults and it doesn't exist yet (ad-hoc named registers, per
// spec.md §3's lifecycle rule). Returns nil when the table is strict and
// the name is undeclared.
func (t *Table) Lookup(name string) *Register {
	name = Normalize(name)
	if r, ok := t.byName[name]; ok {
		return r
	}
	if !t.defaults {
		return nil
	}
	return t.create(name)
}

// Exists reports whether name has been referenced in this table without
// creating it.
func (t *Table) Exists(name string) bool {
	_, ok := t.byName[Normalize(name)]
	return ok
}

// Delete removes name from the table, used when a macro frame returns and
// its local registers vanish (spec.md §3).
func (t *Table) Delete(name string) {
	name = Normalize(name)
	r, ok := t.byName[name]
	if !ok {
		return
	}
	avl.AvlTreeRemove(&t.order, &r.avl)
	delete(t.byName, name)
}

// Owns reports whether reg is still the register registered under its own
// name in t, as opposed to one that used to live here but whose table has
// since been torn down (e.g. a macro frame's locals after the frame
// returns). A register looked up from a different table, or a stale
// pointer no longer reachable by its own name, reports false.
func (t *Table) Owns(reg *Register) bool {
	if reg == nil {
		return false
	}
	return t.byName[Normalize(reg.Name)] == reg
}

// Names returns every registered name in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for p := avl.AvlTreeFirstInOrder(t.order); p != nil; p = avl.AvlTreeNextInOrder(&p.(*Register).avl) {
		names = append(names, p.(*Register).Name)
	}
	return names
}
