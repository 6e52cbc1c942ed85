// Package automaton implements the per-element DFA simulator (spec §4.3)
// and the global table builder (spec §4.4) that together turn a compiled
// pattern DAG into the NameMap/States lookup tables the validator uses.
package automaton

// State is one node of the per-element DFA (spec §3's "State" record).
// States are created lazily by Simulate and shared across elements: two
// elements whose content derives to the same underlying Pattern get the
// same State.
type State struct {
	// id is assigned only once in the final numbering pass (see
	// BuildTables); zero until then.
	id int

	// AttrStates maps an attribute key ("{ns}local" or bare "local",
	// see pattern.AttrKey) to the successor state reached by consuming
	// that attribute.
	AttrStates map[string]*State

	// ChildStates maps a define-name to the successor state reached by
	// consuming a child satisfying that define. Rewritten into
	// ChildElems (keyed by child state id) during BuildTables; see
	// spec §4.4 step 5.
	ChildStates map[string]*State

	// NullableDefines is the set of define-names that appear
	// syntactically inside this state's pattern and are nullable in
	// this state.
	NullableDefines map[string]bool

	// IsNullable is the precomputed nullability of the pattern this
	// state represents.
	IsNullable bool
}

func newState(nullable bool) *State {
	return &State{
		AttrStates:      make(map[string]*State),
		ChildStates:     make(map[string]*State),
		NullableDefines: make(map[string]bool),
		IsNullable:      nullable,
	}
}

// ID returns the dense integer id assigned to this state by BuildTables.
// Zero until BuildTables has run.
func (s *State) ID() int { return s.id }
