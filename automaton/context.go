package automaton

import "github.com/client9/srng2tab/pattern"

// Context holds the compile-scoped, mutable state the simulator needs:
// the Pattern→State memo table and the set of patterns whose outgoing
// transitions have already been computed (spec §5's "group into one
// context value", grounded on engine.Context in the teacher repo). One
// Context is shared across every element simulated during one compile,
// which is what lets States be shared across elements (spec §3
// Lifecycles).
type Context struct {
	patterns *pattern.Context

	// pattern2state memoizes Pattern.ID() -> State across the whole
	// compile.
	pattern2state map[int32]*State

	// seen marks patterns whose transitions have already been explored,
	// so the BFS in Simulate never reprocesses a pattern.
	seen map[int32]bool

	// order records States in creation order, which BuildTables uses to
	// assign dense ids deterministically (spec §4.4 step 3).
	order []*State
}

// NewContext creates a fresh compile-scoped automaton context over the
// given pattern context. Use one automaton.Context per compile (and per
// pattern.Context), matching spec §5.
func NewContext(patterns *pattern.Context) *Context {
	return &Context{
		patterns:      patterns,
		pattern2state: make(map[int32]*State),
		seen:          make(map[int32]bool),
	}
}

// stateFor returns the memoized State for p, creating and registering one
// if this is the first time p has been seen.
func (c *Context) stateFor(p pattern.Pattern) (*State, bool) {
	if s, ok := c.pattern2state[p.ID()]; ok {
		return s, false
	}
	s := newState(p.Nullable())
	c.pattern2state[p.ID()] = s
	c.order = append(c.order, s)
	return s, true
}

// walk traverses the DAG reachable from p without crossing Ref/Attribute
// leaves (spec §4.3's leaves() stops there) or revisiting a node, calling
// onLeaf for each distinct Attribute/Ref subpattern and onDefine for each
// distinct Define subpattern encountered along the way.
func walk(p pattern.Pattern, visited map[int32]bool, onLeaf, onDefine func(pattern.Pattern)) {
	if p.IsZero() || visited[p.ID()] {
		return
	}
	visited[p.ID()] = true

	switch p.Kind() {
	case pattern.Ref, pattern.Attribute:
		onLeaf(p)
	case pattern.Define:
		onDefine(p)
		walk(p.P1(), visited, onLeaf, onDefine)
	case pattern.NotAllowed, pattern.Empty, pattern.Text, pattern.AnyName, pattern.NsName, pattern.LnName:
		// no children
	default: // OneOrMore, Not: P1 only; Choice, Group, Interleave, And, Element: P1 and P2
		walk(p.P1(), visited, onLeaf, onDefine)
		walk(p.P2(), visited, onLeaf, onDefine)
	}
}

// leavesOf returns the distinct Attribute/Ref subpatterns of p (spec
// §4.3's leaves(p)).
func leavesOf(p pattern.Pattern) (leaves []pattern.Pattern) {
	visited := make(map[int32]bool)
	walk(p, visited, func(l pattern.Pattern) {
		leaves = append(leaves, l)
	}, func(pattern.Pattern) {})
	return leaves
}

// definesOf returns the distinct Define subpatterns of p.
func definesOf(p pattern.Pattern) (defines []pattern.Pattern) {
	visited := make(map[int32]bool)
	walk(p, visited, func(pattern.Pattern) {}, func(d pattern.Pattern) {
		defines = append(defines, d)
	})
	return defines
}
