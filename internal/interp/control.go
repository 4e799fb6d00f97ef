package interp

// ReturnSignal is the non-local transfer raised by '$$' (macro return). It
// carries the number of expression-stack values the caller asked to
// preserve across the brace unwinding that follows, per spec.md §4.3.
type ReturnSignal struct {
	Args int
}

// QuitSignal unwinds every open macro frame. Only legal in batch mode,
// per spec.md §4.3; interactive mode never raises it.
type QuitSignal struct {
	Code int
}

// InterruptSignal is raised when the per-character interrupt poll (spec
// §4.6 step 1) finds the interrupt flag set. It is caught at the same
// boundary as Error, restoring state exactly like any other aborted
// character, per spec.md §5.
type InterruptSignal struct{}

func (InterruptSignal) Error() string { return "Interrupted" }
