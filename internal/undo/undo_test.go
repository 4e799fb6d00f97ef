package undo

import "testing"

func TestPushVarUndo(t *testing.T) {
	j := New()
	ctx := &Context{}

	x := int64(5)
	j.Mark()
	PushVar(j, &x)
	x = 9
	j.RubOut(ctx, 1)

	if x != 5 {
		t.Errorf("x after RubOut = %d, want 5", x)
	}
}

func TestCloseKeepsTokensLive(t *testing.T) {
	j := New()
	ctx := &Context{}

	x := int64(1)
	j.Mark() // enclosing group
	j.Mark()
	PushVar(j, &x)
	x = 2
	j.Close()

	if j.Depth() != 1 {
		t.Fatalf("Depth() after Close = %d, want 1 (token stays on the journal)", j.Depth())
	}

	// A later RubOut of the enclosing mark still reverses it.
	j.RubOut(ctx, 1)
	if x != 1 {
		t.Errorf("x after RubOut = %d, want 1", x)
	}
}

func TestDisabledJournalIsNoOp(t *testing.T) {
	j := New()
	j.SetEnabled(false)

	x := int64(1)
	j.Mark()
	PushVar(j, &x)
	x = 2

	if j.Depth() != 0 {
		t.Errorf("Depth() with journal disabled = %d, want 0", j.Depth())
	}
}

type discardToken struct{ discarded *bool }

func (t *discardToken) Undo(ctx *Context) {}
func (t *discardToken) Discard()          { *t.discarded = true }

func TestDiscardReleasesWithoutUndo(t *testing.T) {
	j := New()
	var released bool
	j.Mark()
	j.Push(&discardToken{discarded: &released})
	j.Discard()

	if !released {
		t.Error("Discard() should have called the token's Discard, not Undo")
	}
	if j.Depth() != 0 {
		t.Errorf("Depth() after Discard = %d, want 0", j.Depth())
	}
}

func TestRubOutOrderIsLIFO(t *testing.T) {
	j := New()
	ctx := &Context{}
	var order []int

	j.Mark()
	j.Push(recordToken{order: &order, id: 1})
	j.Push(recordToken{order: &order, id: 2})
	j.Push(recordToken{order: &order, id: 3})
	j.RubOut(ctx, 1)

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
		}
	}
}

type recordToken struct {
	order *[]int
	id    int
}

func (t recordToken) Undo(ctx *Context) { *t.order = append(*t.order, t.id) }
func (t recordToken) Discard()          {}
