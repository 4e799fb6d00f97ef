package register

import "github.com/dswartz/teco-core/internal/buffer"

// stackEntry backs one pushed register's saved state.
type stackEntry struct {
	value   int64
	dot     int64
	payload *buffer.Document
}

// Stack is the save/restore backing store for the register push ([) and
// pop (]) commands, per spec.md §4.4.
type Stack struct {
	entries []stackEntry
}

// NewStack returns an empty register save stack.
func NewStack() *Stack { return &Stack{} }

// Push copies r's integer, dot, and Document ownership onto a new entry.
// The caller is responsible for recording an undo.Token that calls Pop to
// reverse this.
func (s *Stack) Push(r *Register) {
	var dot int64
	if r.Payload != nil {
		dot = r.Payload.Dot
	}
	s.entries = append(s.entries, stackEntry{value: r.Value, dot: dot, payload: r.Payload})
}

// Pop atomically exchanges the top entry's Document with r's, and updates
// r's integer and dot from the entry. It returns the register's prior
// state so the caller can build a reverse-push undo token that retains
// entry ownership for a possible redo.
func (s *Stack) Pop(r *Register) (priorValue int64, priorPayload *buffer.Document, ok bool) {
	n := len(s.entries)
	if n == 0 {
		return 0, nil, false
	}
	top := s.entries[n-1]
	s.entries = s.entries[:n-1]

	priorValue, priorPayload = r.Value, r.Payload

	r.Value = top.value
	r.Payload = top.payload
	if r.Payload != nil {
		r.Payload.Dot = top.dot
	}
	return priorValue, priorPayload, true
}

// Depth reports how many entries are currently saved.
func (s *Stack) Depth() int { return len(s.entries) }
