package automaton

import (
	"sort"
	"strconv"

	"github.com/client9/srng2tab/pattern"
	"github.com/client9/srng2tab/srngerr"
)

// ElementDefine is one top-level define whose pattern is itself an Element
// (spec §4.4 step 2): the only shape of define that can ever be the target
// of a child-element transition.
type ElementDefine struct {
	Name      string
	NameClass pattern.Pattern
	Body      pattern.Pattern
}

// CollectElementDefines filters defines (name -> compiled pattern, as
// produced by the schema loader) down to the element-shaped ones, sorted
// by name for deterministic union construction.
func CollectElementDefines(defines map[string]pattern.Pattern) []ElementDefine {
	var out []ElementDefine
	for name, p := range defines {
		if p.Kind() == pattern.Element {
			out = append(out, ElementDefine{Name: name, NameClass: p.P1(), Body: p.P2()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Tables is the final {NameMap, States} output (spec §4.4, §6): the shape
// JSON-marshaled verbatim to the compiler's --out file.
type Tables struct {
	NameMap map[string]map[string]int `json:"NameMap"`
	States  []*StateJSON              `json:"States"`
}

// StateJSON is one entry of Tables.States. States[0] is always nil: ids
// are 1-based, so a zero id (the Go zero value) reads as "no such state".
type StateJSON struct {
	Attributes map[string]int `json:"Attributes"`
	IsNullable bool           `json:"IsNullable"`
	ChildElems map[string]int `json:"ChildElems"`
}

// BuildTables runs the global table builder (spec §4.4) over every
// element-shaped define in the schema, producing the dense NameMap/States
// tables the validator uses. pctx must be the same pattern.Context the
// defines were built in.
func BuildTables(pctx *pattern.Context, defines map[string]pattern.Pattern) (*Tables, error) {
	elemDefines := CollectElementDefines(defines)
	if len(elemDefines) == 0 {
		return &Tables{NameMap: map[string]map[string]int{}, States: []*StateJSON{nil}}, nil
	}

	namespaces, localnames := enumerateNameTokens(elemDefines)

	ac := NewContext(pctx)
	nameMapStates := make(map[string]map[string]*State)

	for _, ns := range namespaces {
		for _, ln := range localnames {
			matched, err := matchingDefines(pctx, elemDefines, ns, ln)
			if err != nil {
				return nil, err
			}
			if len(matched) == 0 {
				continue
			}

			union := pctx.NotAllowedPattern
			for _, m := range matched {
				union = pctx.Choice(union, pctx.Define(m.Name, m.Body))
			}

			start, err := ac.Simulate(union)
			if err != nil {
				return nil, err
			}
			if nameMapStates[ns] == nil {
				nameMapStates[ns] = make(map[string]*State)
			}
			nameMapStates[ns][ln] = start
		}
	}

	// Dense numbering in creation order (spec §4.4 step 3): every State in
	// ac.order was reached by BFS from some NameMap root, so this is
	// exactly the reachable set.
	for i, s := range ac.order {
		s.id = i + 1
	}

	defNull := buildDefNull(ac.order)

	states := make([]*StateJSON, len(ac.order)+1)
	for _, s := range ac.order {
		childElems, err := rewriteChildStates(s, defNull)
		if err != nil {
			return nil, err
		}
		states[s.id] = &StateJSON{
			Attributes: idsOf(s.AttrStates),
			IsNullable: s.IsNullable,
			ChildElems: childElems,
		}
	}

	nameMap := make(map[string]map[string]int, len(nameMapStates))
	for ns, byLocal := range nameMapStates {
		nameMap[ns] = make(map[string]int, len(byLocal))
		for ln, s := range byLocal {
			nameMap[ns][ln] = s.id
		}
	}

	return &Tables{NameMap: nameMap, States: states}, nil
}

// enumerateNameTokens collects every concrete namespace and local name
// appearing under any element define's name-class (spec §4.4 step 1).
// AnyName contributes no concrete token of its own; it matches whichever
// (ns,ln) pairs the rest of the schema names.
func enumerateNameTokens(elemDefines []ElementDefine) (namespaces, localnames []string) {
	nsSet := make(map[string]bool)
	lnSet := make(map[string]bool)
	for _, ed := range elemDefines {
		collectNameClassTokens(ed.NameClass, make(map[int32]bool), nsSet, lnSet)
	}
	return sortedKeys(nsSet), sortedKeys(lnSet)
}

func collectNameClassTokens(nc pattern.Pattern, visited map[int32]bool, nsSet, lnSet map[string]bool) {
	if nc.IsZero() || visited[nc.ID()] {
		return
	}
	visited[nc.ID()] = true

	switch nc.Kind() {
	case pattern.NsName:
		nsSet[nc.NS()] = true
	case pattern.LnName:
		lnSet[nc.Name()] = true
	case pattern.AnyName:
		// matches any name; no concrete token to record
	case pattern.Not:
		collectNameClassTokens(nc.P1(), visited, nsSet, lnSet)
	default: // Choice, Group, And over name-class parts
		collectNameClassTokens(nc.P1(), visited, nsSet, lnSet)
		collectNameClassTokens(nc.P2(), visited, nsSet, lnSet)
	}
}

// matchingDefines computes M(ns,ln) (spec §4.4 step 2): the element
// defines whose name-class matches the given namespace and local name,
// i.e. deriv(deriv(nc, NsName(ns)), LnName(ln)) is nullable.
func matchingDefines(pctx *pattern.Context, elemDefines []ElementDefine, ns, ln string) ([]ElementDefine, error) {
	var matched []ElementDefine
	for _, ed := range elemDefines {
		afterNS, err := pctx.Deriv(ed.NameClass, pctx.NsName(ns))
		if err != nil {
			return nil, err
		}
		afterLN, err := pctx.Deriv(afterNS, pctx.LnName(ln))
		if err != nil {
			return nil, err
		}
		if afterLN.Nullable() {
			matched = append(matched, ed)
		}
	}
	return matched, nil
}

// buildDefNull inverts NullableDefines into defineName -> sorted state ids
// (spec §4.4 step 4): the set of states in which that define is satisfied.
func buildDefNull(order []*State) map[string][]int {
	defNull := make(map[string][]int)
	for _, s := range order {
		for name := range s.NullableDefines {
			defNull[name] = append(defNull[name], s.id)
		}
	}
	for name := range defNull {
		sort.Ints(defNull[name])
	}
	return defNull
}

// rewriteChildStates turns one State's define-keyed ChildStates into the
// state-id-keyed ChildElems a validator actually dispatches on (spec §4.4
// step 5): the central trick of this design. A child in state x satisfies
// define d iff x is in defNull[d]; every such x is wired to s's successor
// for d. Two defines disagreeing about the successor for the same x is an
// ambiguity the compiler rejects rather than guesses at.
func rewriteChildStates(s *State, defNull map[string][]int) (map[string]int, error) {
	childElems := make(map[string]int)
	for defName, succ := range s.ChildStates {
		for _, x := range defNull[defName] {
			key := strconv.Itoa(x)
			if existing, ok := childElems[key]; ok && existing != succ.id {
				return nil, srngerr.Newf(srngerr.AmbiguousChildTransition,
					"state %d: child state %d satisfies multiple defines with conflicting successors (%d vs %d)",
					s.id, x, existing, succ.id)
			}
			childElems[key] = succ.id
		}
	}
	return childElems, nil
}

func idsOf(m map[string]*State) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v.id
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
