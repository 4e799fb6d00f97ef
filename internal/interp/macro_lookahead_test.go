package interp

import (
	"testing"

	"github.com/dswartz/teco-core/internal/widget/memwidget"
)

// TestDollarDollarReturnsFromMacro exercises the two-step '$'/'$$'
// lookahead's return form, per spec.md §9 design note 6: the second
// '$' commits to a macro return instead of the bare-'$' discard.
func TestDollarDollarReturnsFromMacro(t *testing.T) {
	it := New(memwidget.New())
	reg := it.Globals.Lookup("1")
	if err := it.SeedRegisterString(reg, "1UA$$2UA"); err != nil {
		t.Fatalf("SeedRegisterString() = %v", err)
	}
	if err := it.Run("test", []byte("M1")); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	// the return must have cut the macro body short before "2UA" ran.
	if got, want := it.Globals.Lookup("A").Value, int64(1); got != want {
		t.Errorf("A = %d, want %d", got, want)
	}
}

// TestBareDollarDiscardsArgs exercises the other half of the two-step
// lookahead: a '$' not immediately followed by a second '$' just
// discards pending expression-stack arguments and re-dispatches the
// byte that follows it normally.
func TestBareDollarDiscardsArgs(t *testing.T) {
	it := New(memwidget.New())
	if err := it.Run("test", []byte("5$2UA")); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got, want := it.Globals.Lookup("A").Value, int64(2); got != want {
		t.Errorf("A = %d, want %d", got, want)
	}
}

// TestDanglingDollarAtEndOfMacroRaises exercises spec.md §9 design note
// 6's unresolved case: a macro body ending on a bare '$' with no
// second character to decide the lookahead must raise, not vanish.
func TestDanglingDollarAtEndOfMacroRaises(t *testing.T) {
	it := New(memwidget.New())
	err := it.Run("test", []byte("5$"))
	if err == nil {
		t.Fatal("Run() = nil, want an error")
	}
	ierr, ok := AsError(err)
	if !ok {
		t.Fatalf("error = %v (%T), want *Error", err, err)
	}
	if ierr.Kind != KindSyntax {
		t.Errorf("Kind = %v, want %v", ierr.Kind, KindSyntax)
	}
}

// TestUnterminatedStringArgumentRaises exercises the same EndOfMacro
// hook for the string-argument sub-machine: a command line ending
// mid-'I' (no closing delimiter) must raise instead of the insert
// silently never happening.
func TestUnterminatedStringArgumentRaises(t *testing.T) {
	it := New(memwidget.New())
	err := it.Run("test", []byte("Ihello"))
	if err == nil {
		t.Fatal("Run() = nil, want an error")
	}
	if _, ok := AsError(err); !ok {
		t.Fatalf("error = %v (%T), want *Error", err, err)
	}
}

// TestUnterminatedRegisterSpecifierRaises exercises the EndOfMacro hook
// for the register-specifier sub-machine: a command line ending right
// after 'Q.' (a local-register prefix with no name byte yet) must
// raise instead of silently dropping the command.
func TestUnterminatedRegisterSpecifierRaises(t *testing.T) {
	it := New(memwidget.New())
	err := it.Run("test", []byte("Q."))
	if err == nil {
		t.Fatal("Run() = nil, want an error")
	}
	if _, ok := AsError(err); !ok {
		t.Fatalf("error = %v (%T), want *Error", err, err)
	}
}
