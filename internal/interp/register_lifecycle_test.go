package interp

import (
	"testing"

	"github.com/dswartz/teco-core/internal/register"
	"github.com/dswartz/teco-core/internal/widget/memwidget"
)

// TestDanglingLocalRegisterRaisesOnFrameExit exercises spec.md §8's
// "attempting to edit a local register after its owning macro returned
// raises on macro-exit cleanup": a register still held as CurrentRegister
// when its owning frame's locals table is torn down must raise, and
// CurrentRegister must be cleared so nothing downstream can keep using it.
func TestDanglingLocalRegisterRaisesOnFrameExit(t *testing.T) {
	it := New(memwidget.New())
	frame := &MacroFrame{Locals: register.NewTable(true)}
	it.CurrentRegister = frame.Locals.Lookup(".A")

	err := it.danglingRegisterError(frame)
	if err == nil {
		t.Fatal("danglingRegisterError() = nil, want an error")
	}
	ierr, ok := AsError(err)
	if !ok {
		t.Fatalf("error = %v (%T), want *Error", err, err)
	}
	if ierr.Kind != KindRange {
		t.Errorf("Kind = %v, want %v", ierr.Kind, KindRange)
	}
	if it.CurrentRegister != nil {
		t.Errorf("CurrentRegister after dangling check = %v, want nil", it.CurrentRegister)
	}
}

// TestForeignRegisterSurvivesFrameExit confirms the check only fires for
// registers actually owned by the exiting frame's locals, not any
// register that merely happens to be current (the global table, or
// another frame's locals).
func TestForeignRegisterSurvivesFrameExit(t *testing.T) {
	it := New(memwidget.New())
	unrelatedFrame := &MacroFrame{Locals: register.NewTable(true)}

	it.CurrentRegister = it.Globals.Lookup("A")
	if err := it.danglingRegisterError(unrelatedFrame); err != nil {
		t.Errorf("danglingRegisterError() on a global register = %v, want nil", err)
	}
	if it.CurrentRegister == nil {
		t.Error("CurrentRegister cleared for a register the exiting frame never owned")
	}

	it.CurrentRegister = nil
	if err := it.danglingRegisterError(unrelatedFrame); err != nil {
		t.Errorf("danglingRegisterError() with no current register = %v, want nil", err)
	}
}

// TestLocalRegisterCreatedOnFirstUse guards the lifecycle rule
// danglingRegisterError depends on: a frame's locals table must actually
// create registers on first reference, the same as the global table does
// for ad-hoc names, per spec.md §3.
func TestLocalRegisterCreatedOnFirstUse(t *testing.T) {
	locals := register.NewTable(true)
	if locals.Exists(".A") {
		t.Fatal("local register exists before first reference")
	}
	reg := locals.Lookup(".A")
	if reg == nil {
		t.Fatal("Lookup() on a fresh local table = nil, want an auto-created register")
	}
	if !locals.Owns(reg) {
		t.Error("Owns() false for a register this table just created")
	}
}
