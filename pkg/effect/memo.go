package effect

import (
	"slices"

	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// State is the resolution state of one code range.
type State uint8

// Memo states.
const (
	Unseen State = iota
	InProgress
	Resolved
)

func (s State) String() string {
	switch s {
	case Unseen:
		return "unseen"
	case InProgress:
		return "in-progress"
	case Resolved:
		return "resolved"
	}

	return "unknown"
}

type memoEntry struct {
	state  State
	text   string
	output *Output
}

// Memo records, per code range, whether its linearized text is unknown,
// being computed further up the call stack, or already known. One Memo
// serves exactly one linearization run.
type Memo struct {
	entries map[syntax.CodeRange]memoEntry
}

// NewMemo creates an empty Memo.
func NewMemo() *Memo {
	return &Memo{entries: make(map[syntax.CodeRange]memoEntry)}
}

// Get returns the state of r and, when Resolved, its text.
func (m *Memo) Get(r syntax.CodeRange) (State, string) {
	e, ok := m.entries[r]
	if !ok {
		return Unseen, ""
	}

	return e.state, e.text
}

// State returns the state of r.
func (m *Memo) State(r syntax.CodeRange) State {
	s, _ := m.Get(r)

	return s
}

// MarkInProgress flags r as being resolved.
func (m *Memo) MarkInProgress(r syntax.CodeRange) {
	m.entries[r] = memoEntry{state: InProgress}
}

// Resolve stores the final text of r.
func (m *Memo) Resolve(r syntax.CodeRange, text string) {
	m.entries[r] = memoEntry{state: Resolved, text: text}
}

// ResolveOutput stores the full linearization of anchor r, so a later
// request for the same anchor returns the same range mappings.
func (m *Memo) ResolveOutput(r syntax.CodeRange, out Output) {
	m.entries[r] = memoEntry{state: Resolved, text: out.Text, output: &out}
}

// Output returns the linearization stored for anchor r. It reports false
// when r is not resolved or only its text is known.
func (m *Memo) Output(r syntax.CodeRange) (Output, bool) {
	e, ok := m.entries[r]
	if !ok || e.state != Resolved || e.output == nil {
		return Output{}, false
	}

	out := *e.output
	out.Ranges = slices.Clone(out.Ranges)
	out.Replacements = slices.Clone(out.Replacements)

	return out, true
}

// Len returns the number of ranges recorded in any state.
func (m *Memo) Len() int { return len(m.entries) }

// Reset forgets every range.
func (m *Memo) Reset() {
	clear(m.entries)
}
