package loopstack

import "testing"

func TestPushPop(t *testing.T) {
	s := New()
	s.Push(Frame{Counter: 3, PC: 10})
	s.Push(Frame{Counter: -1, PC: 20, PassThrough: true})

	top, ok := s.Pop()
	if !ok || top.PC != 20 || !top.PassThrough {
		t.Fatalf("Pop() = %+v, %v", top, ok)
	}
	if s.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", s.Depth())
	}
}

func TestTopMutatesInPlace(t *testing.T) {
	s := New()
	s.Push(Frame{Counter: 5, PC: 1})
	s.Top().Counter--
	if got := s.Top().Counter; got != 4 {
		t.Errorf("Counter after decrement = %d, want 4", got)
	}
}

func TestTopOnEmptyIsNil(t *testing.T) {
	s := New()
	if s.Top() != nil {
		t.Error("Top() on empty stack should be nil")
	}
}

func TestTruncateTo(t *testing.T) {
	s := New()
	s.Push(Frame{PC: 1})
	s.Push(Frame{PC: 2})
	s.Push(Frame{PC: 3})
	s.TruncateTo(1)
	if s.Depth() != 1 {
		t.Errorf("Depth() after TruncateTo(1) = %d, want 1", s.Depth())
	}
	// TruncateTo must never grow the stack.
	s.TruncateTo(5)
	if s.Depth() != 1 {
		t.Errorf("Depth() after TruncateTo(5) = %d, want 1 (no growth)", s.Depth())
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := New()
	s.Push(Frame{PC: 1})
	snap := s.Snapshot()
	s.Push(Frame{PC: 2})
	s.Restore(snap)
	if s.Depth() != 1 {
		t.Errorf("Depth() after Restore = %d, want 1", s.Depth())
	}
	if s.Top().PC != 1 {
		t.Errorf("Top().PC = %d, want 1", s.Top().PC)
	}
}
