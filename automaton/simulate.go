package automaton

import "github.com/client9/srng2tab/pattern"

// Simulate builds the State reachable from p (the content pattern of one
// element, or the union pattern of several defines sharing a tag) and all
// states reachable via attribute- and ref-transitions (spec §4.3).
//
// The leaf set used to drive every derivative in this exploration is
// fixed at p's own leaves, not recomputed per derivative (spec §4.3's
// "Rationale for the leaf set"): this is an intentional
// over-approximation, and dead transitions it produces (deriving to
// NotAllowed) are silently dropped.
func (c *Context) Simulate(p pattern.Pattern) (*State, error) {
	root, _ := c.stateFor(p)

	leaves := leavesOf(p)

	queue := []pattern.Pattern{p}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if c.seen[current.ID()] {
			continue
		}

		currentState, _ := c.stateFor(current)

		for _, d := range definesOf(current) {
			if d.Nullable() {
				currentState.NullableDefines[d.Name()] = true
			}
		}

		c.seen[current.ID()] = true

		for _, leaf := range leaves {
			derived, err := c.patterns.Deriv(current, leaf)
			if err != nil {
				return nil, err
			}
			if derived.Kind() == pattern.NotAllowed {
				continue
			}

			derivedState, isNew := c.stateFor(derived)
			if isNew {
				queue = append(queue, derived)
			}

			switch leaf.Kind() {
			case pattern.Attribute:
				key := pattern.AttrKey(leaf.NS(), leaf.Name())
				currentState.AttrStates[key] = derivedState
			case pattern.Ref:
				currentState.ChildStates[leaf.Name()] = derivedState
			}
		}
	}

	return root, nil
}
