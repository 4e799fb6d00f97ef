package parser

import "testing"

// ctx is a minimal stand-in for *Interpreter: a counter the Custom
// functions below mutate so transitions are observable.
type ctx struct {
	hits int
	last byte
}

func TestTransitionsTableWinsOverCustom(t *testing.T) {
	var called bool
	digit := &State[*ctx]{Name: "digit"}
	var start *State[*ctx]
	start = &State[*ctx]{
		Name: "start",
		Custom: func(c *ctx, ch byte) (*State[*ctx], error) {
			called = true
			return start, nil
		},
	}
	start.Transitions['5'] = digit

	m := NewMachine(start)
	if err := m.Input(&ctx{}, '5'); err != nil {
		t.Fatalf("Input() = %v", err)
	}
	if m.Current() != digit {
		t.Errorf("Current() = %v, want digit state", m.Current())
	}
	if called {
		t.Error("Custom should not run when Transitions has a hit")
	}
}

func TestTransitionsLookupUppercasesInput(t *testing.T) {
	target := &State[*ctx]{Name: "target"}
	start := &State[*ctx]{Name: "start"}
	start.Transitions['A'] = target

	m := NewMachine(start)
	if err := m.Input(&ctx{}, 'a'); err != nil {
		t.Fatalf("Input() = %v", err)
	}
	if m.Current() != target {
		t.Error("lower-case input should match an upper-case table entry")
	}
}

func TestCustomRunsOnTableMiss(t *testing.T) {
	var start *State[*ctx]
	start = &State[*ctx]{
		Name: "start",
		Custom: func(c *ctx, ch byte) (*State[*ctx], error) {
			c.hits++
			c.last = ch
			return start, nil
		},
	}
	m := NewMachine(start)
	c := &ctx{}
	if err := m.Input(c, 'x'); err != nil {
		t.Fatalf("Input() = %v", err)
	}
	if c.hits != 1 || c.last != 'x' {
		t.Errorf("ctx = %+v, want hits=1 last='x'", c)
	}
}

func TestNoTransitionAndNoCustomIsSyntaxError(t *testing.T) {
	start := &State[*ctx]{Name: "start"}
	m := NewMachine(start)
	err := m.Input(&ctx{}, 'Q')
	if err == nil {
		t.Fatal("expected a SyntaxError")
	}
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("err = %T, want *SyntaxError", err)
	}
	if se.Ch != 'Q' || se.State != "start" {
		t.Errorf("SyntaxError = %+v, want Ch='Q' State=start", se)
	}
}

func TestCustomReturningNilStateIsSyntaxError(t *testing.T) {
	start := &State[*ctx]{
		Name: "start",
		Custom: func(c *ctx, ch byte) (*State[*ctx], error) {
			return nil, nil
		},
	}
	m := NewMachine(start)
	if err := m.Input(&ctx{}, 'x'); err == nil {
		t.Fatal("expected a SyntaxError when Custom returns a nil state")
	}
}

func TestOnTransitionFiresOnlyOnStateChange(t *testing.T) {
	a := &State[*ctx]{Name: "a"}
	b := &State[*ctx]{Name: "b"}
	a.Transitions['1'] = b
	a.Transitions['2'] = a

	var transitions int
	m := NewMachine(a)
	m.OnTransition = func(prev, next *State[*ctx]) { transitions++ }

	m.Input(&ctx{}, '2') // a -> a, no-op transition
	if transitions != 0 {
		t.Errorf("transitions after a self-loop = %d, want 0", transitions)
	}
	m.Input(&ctx{}, '1') // a -> b
	if transitions != 1 {
		t.Errorf("transitions after a real move = %d, want 1", transitions)
	}
}

func TestSetCurrentAndReset(t *testing.T) {
	start := &State[*ctx]{Name: "start"}
	other := &State[*ctx]{Name: "other"}
	m := NewMachine(start)

	m.SetCurrent(other)
	if m.Current() != other {
		t.Fatal("SetCurrent did not take effect")
	}
	m.Reset()
	if m.Current() != start {
		t.Error("Reset() should return to the start state")
	}
}
