package expr

import "testing"

func TestPushCalcLeftToRight(t *testing.T) {
	s := New()
	s.Push(2)
	if err := s.PushCalc(OpAdd); err != nil {
		t.Fatal(err)
	}
	s.Push(3)
	if err := s.PushCalc(OpMul); err != nil {
		t.Fatal(err)
	}
	s.Push(4)
	if err := s.Eval(); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Pop()
	if !ok {
		t.Fatal("expected a value on the stack")
	}
	if want := int64((2+3)*4); got != want {
		t.Errorf("(2+3)*4 left to right = %d, want %d", got, want)
	}
}

func TestPushCalcCombinesBareAdjacentInts(t *testing.T) {
	s := New()
	s.Push(1)
	s.Push(2) // no operator typed between these two, e.g. across whitespace
	if err := s.PushCalc(OpAdd); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Pop()
	if !ok || got != 3 {
		t.Errorf("PushCalc(Add) on a bare adjacent pair = %d, %v, want 3, true", got, ok)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (nothing left pending)", s.Len())
	}
}

func TestPushCalcDoesNotCombineAcrossABarrier(t *testing.T) {
	s := New()
	s.Push(1)
	s.PushMarker(OpNew)
	s.Push(2)
	if err := s.PushCalc(OpAdd); err != nil {
		t.Fatal(err)
	}
	// only "2" is above the barrier, so Add must defer, not reach past
	// the marker to combine with the "1" underneath it.
	if s.Args() != 0 {
		t.Errorf("Args() = %d, want 0 (Add is still pending, not collapsed)", s.Args())
	}
}

func TestEvalIsIdempotent(t *testing.T) {
	s := New()
	s.Push(5)
	s.PushCalc(OpAdd)
	s.Push(7)
	if err := s.Eval(); err != nil {
		t.Fatal(err)
	}
	first := s.Snapshot()
	if err := s.Eval(); err != nil {
		t.Fatal(err)
	}
	second := s.Snapshot()
	if len(first) != len(second) || first[0].Num != second[0].Num {
		t.Errorf("Eval not idempotent: %v then %v", first, second)
	}
}

func TestDivisionByZero(t *testing.T) {
	s := New()
	s.Push(10)
	s.PushCalc(OpDiv)
	s.Push(0)
	if err := s.Eval(); err != ErrDivisionByZero {
		t.Errorf("Eval() = %v, want ErrDivisionByZero", err)
	}
}

func TestArgsRespectsBarrier(t *testing.T) {
	s := New()
	s.Push(1)
	s.PushMarker(OpNew)
	s.Push(2)
	s.Push(3)
	if got := s.Args(); got != 2 {
		t.Errorf("Args() = %d, want 2", got)
	}
}

func TestDiscardArgs(t *testing.T) {
	s := New()
	s.PushMarker(OpLoop)
	s.Push(1)
	s.Push(2)
	s.DiscardArgs()
	if got := s.Args(); got != 0 {
		t.Errorf("Args() after DiscardArgs = %d, want 0", got)
	}
}

func TestPopNumCalcDefault(t *testing.T) {
	s := New()
	got, err := s.PopNumCalc(42, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got != -42 {
		t.Errorf("PopNumCalc on empty stack = %d, want -42", got)
	}
}

func TestBraceOpenClose(t *testing.T) {
	s := New()
	s.Push(1)
	s.PushCalc(OpAdd)
	s.BraceOpen()
	s.Push(2)
	s.PushCalc(OpMul)
	s.Push(3)
	if err := s.BraceClose(); err != nil {
		t.Fatal(err)
	}
	if err := s.Eval(); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Pop()
	if !ok || got != 7 {
		t.Errorf("1+(2*3) = %d, want 7", got)
	}
	if s.BraceLevel() != 0 {
		t.Errorf("BraceLevel() = %d, want 0", s.BraceLevel())
	}
}

func TestBraceReturnKeepsTopValues(t *testing.T) {
	s := New()
	s.BraceOpen()
	s.Push(1)
	s.Push(2)
	if err := s.BraceReturn(0, 2); err != nil {
		t.Fatal(err)
	}
	if s.BraceLevel() != 0 {
		t.Errorf("BraceLevel() = %d, want 0", s.BraceLevel())
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (the two kept values)", s.Len())
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := New()
	s.Push(9)
	s.BraceOpen()
	snap := s.Snapshot()
	s.Push(99)
	s.Restore(snap)
	if s.BraceLevel() != 1 {
		t.Errorf("BraceLevel() after Restore = %d, want 1", s.BraceLevel())
	}
	if s.Len() != 2 {
		t.Errorf("Len() after Restore = %d, want 2", s.Len())
	}
}
