package interp

import (
	"testing"

	"github.com/dswartz/teco-core/internal/widget/memwidget"
)

// TestMemoryLimitGetSet exercises 'EJ's get/set form for the memory-limit
// property: setting it returns the prior value, and a bare query returns
// whatever was last set. The limit is set far above the test process's
// heap so the per-character check during the second Run does not fire.
func TestMemoryLimitGetSet(t *testing.T) {
	it := New(memwidget.New())

	if err := it.Run("test", []byte("1000000000000 4EJ")); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got, want := it.MemLimit.Bytes, int64(1000000000000); got != want {
		t.Errorf("MemLimit.Bytes = %d, want %d", got, want)
	}
	if got, ok := it.Expr.Pop(); !ok || got != 0 {
		t.Errorf("prior limit pushed = %d, %v, want 0, true", got, ok)
	}

	if err := it.Run("test", []byte("4EJ")); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got, ok := it.Expr.Pop(); !ok || got != 1000000000000 {
		t.Errorf("queried limit = %d, %v, want 1000000000000, true", got, ok)
	}
}

// TestMemoryLimitRaisesWhenExceeded exercises spec.md §4.6 step 2: once a
// nonzero limit is set well below the process's actual heap usage, the
// very next character the Executor feeds the parser raises a Memory-kind
// Error instead of running.
func TestMemoryLimitRaisesWhenExceeded(t *testing.T) {
	it := New(memwidget.New())

	err := it.Run("test", []byte("1 4EJA"))
	if err == nil {
		t.Fatal("Run() = nil, want a memory limit error")
	}
	ierr, ok := AsError(err)
	if !ok {
		t.Fatalf("error = %v (%T), want *Error", err, err)
	}
	if ierr.Kind != KindMemory {
		t.Errorf("Kind = %v, want %v", ierr.Kind, KindMemory)
	}
}

// TestMemoryLimitDisabledByDefault confirms a limit of 0 (the zero
// value) never raises, regardless of actual heap usage.
func TestMemoryLimitDisabledByDefault(t *testing.T) {
	it := New(memwidget.New())
	if err := it.MemLimit.Check(); err != nil {
		t.Errorf("Check() with no limit set = %v, want nil", err)
	}
}
