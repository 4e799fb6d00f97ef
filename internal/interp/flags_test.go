package interp

import (
	"testing"

	"github.com/dswartz/teco-core/internal/widget/memwidget"
)

// TestExitInteractiveModeRaises exercises spec.md §4.3: '^C' is only
// legal in batch mode; in interactive mode it must raise instead of
// quietly exiting.
func TestExitInteractiveModeRaises(t *testing.T) {
	it := New(memwidget.New())
	err := it.Run("test", []byte("^C"))
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
	if it.Exiting {
		t.Error("Exiting = true, want false: '^C' must not succeed in interactive mode")
	}
}

// TestExitBatchModeQuits confirms the batch-mode path is unaffected:
// '^C' still unwinds via QuitSignal, and Run turns that into
// Exiting/ExitCode.
func TestExitBatchModeQuits(t *testing.T) {
	it := New(memwidget.New())
	it.BatchMode = true
	if err := it.Run("test", []byte("7^C")); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if !it.Exiting {
		t.Error("Exiting = false, want true")
	}
	if it.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", it.ExitCode)
	}
}
