package register

import "testing"

func TestGlobalTableSeedsAZ09(t *testing.T) {
	tb := NewGlobal()
	if !tb.Exists("A") || !tb.Exists("Z") || !tb.Exists("5") {
		t.Fatal("NewGlobal() should pre-create A-Z and 0-9")
	}
	if tb.Exists("AB") {
		t.Fatal("multi-letter names should not be pre-created")
	}
}

func TestLookupNormalizesCase(t *testing.T) {
	tb := NewGlobal()
	if tb.Lookup("a") != tb.Lookup("A") {
		t.Error("single-letter names should be normalized to upper case")
	}
}

func TestLookupPreservesMultiCharName(t *testing.T) {
	tb := NewGlobal()
	r := tb.Lookup("$HOME")
	if r.Name != "$HOME" {
		t.Errorf("Name = %q, want %q (multi-char names stay verbatim)", r.Name, "$HOME")
	}
}

func TestStrictTableDoesNotAutocreate(t *testing.T) {
	tb := NewTable(false)
	if tb.Lookup("Q") != nil {
		t.Error("a strict table must not auto-create unknown names")
	}
}

func TestDeleteRemovesFromNamesOrder(t *testing.T) {
	tb := NewTable(true)
	tb.Lookup("X")
	tb.Lookup("Y")
	tb.Delete("X")
	names := tb.Names()
	for _, n := range names {
		if n == "X" {
			t.Fatalf("Names() = %v, should not contain deleted X", names)
		}
	}
}

func TestNamesIsSorted(t *testing.T) {
	tb := NewTable(true)
	tb.Lookup("Z")
	tb.Lookup("A")
	tb.Lookup("M")
	names := tb.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Names() not sorted: %v", names)
		}
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	r := &Register{Name: "Q", Value: 5}
	s := NewStack()
	s.Push(r)
	r.Value = 99

	priorValue, priorPayload, ok := s.Pop(r)
	if !ok {
		t.Fatal("Pop() on a non-empty stack should succeed")
	}
	if priorValue != 99 {
		t.Errorf("priorValue = %d, want 99", priorValue)
	}
	if priorPayload != nil {
		t.Errorf("priorPayload = %v, want nil", priorPayload)
	}
	if r.Value != 5 {
		t.Errorf("r.Value after Pop = %d, want 5 (restored)", r.Value)
	}
	if s.Depth() != 0 {
		t.Errorf("Depth() after Pop = %d, want 0", s.Depth())
	}
}

func TestPopOnEmptyStack(t *testing.T) {
	r := &Register{Name: "Q"}
	s := NewStack()
	if _, _, ok := s.Pop(r); ok {
		t.Error("Pop() on an empty stack should report ok=false")
	}
}
