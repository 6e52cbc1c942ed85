package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/client9/srng2tab/automaton"
)

// fixtureTables builds a small Tables by hand: one element "r" (no
// namespace) with an "id" attribute transitioning to state 2, and a child
// transition (keyed by the child's own start-state id, 2) back to state 2.
func fixtureTables() *automaton.Tables {
	return &automaton.Tables{
		NameMap: map[string]map[string]int{
			"": {"r": 1},
		},
		States: []*automaton.StateJSON{
			nil,
			{Attributes: map[string]int{"id": 2}, IsNullable: true, ChildElems: map[string]int{"2": 2}},
			{Attributes: map[string]int{}, IsNullable: true, ChildElems: map[string]int{}},
		},
	}
}

func newTestExplorer() (*explorer, *bytes.Buffer) {
	var out bytes.Buffer
	e := &explorer{
		tbl:     fixtureTables(),
		output:  &out,
		prompt:  "> ",
		current: 0,
	}
	return e, &out
}

func TestProcessLineGo(t *testing.T) {
	e, out := newTestExplorer()
	if !e.processLine(`:go "" r`) {
		t.Fatalf(":go should not stop the loop")
	}
	if e.current != 1 {
		t.Errorf("expected current=1 after :go, got %d", e.current)
	}
	if !strings.Contains(out.String(), "state 1:") {
		t.Errorf("expected printCurrent output, got %q", out.String())
	}
}

func TestProcessLineGoEmptyNamespaceLiteral(t *testing.T) {
	e, _ := newTestExplorer()
	e.processLine(`:go "" r`)
	if e.current != 1 {
		t.Fatalf(`:go "" r should resolve the literal "" to the empty namespace, got current=%d`, e.current)
	}
}

func TestProcessLineGoUnknownNamespace(t *testing.T) {
	e, out := newTestExplorer()
	e.processLine(":go urn:bogus r")
	if e.current != 0 {
		t.Errorf("unknown namespace should not move current, got %d", e.current)
	}
	if !strings.Contains(out.String(), "no elements in namespace") {
		t.Errorf("expected an error message, got %q", out.String())
	}
}

func TestProcessLineGoUnknownLocalName(t *testing.T) {
	e, out := newTestExplorer()
	e.processLine(`:go "" bogus`)
	if !strings.Contains(out.String(), "no element") {
		t.Errorf("expected an error message, got %q", out.String())
	}
}

func TestProcessLineGoWrongArgCount(t *testing.T) {
	e, out := newTestExplorer()
	e.processLine(":go r")
	if !strings.Contains(out.String(), "usage: :go") {
		t.Errorf("expected usage message, got %q", out.String())
	}
}

func TestProcessLineAttr(t *testing.T) {
	e, out := newTestExplorer()
	e.current = 1
	if !e.processLine(":attr id") {
		t.Fatalf(":attr should not stop the loop")
	}
	if e.current != 2 {
		t.Errorf("expected current=2 after :attr id, got %d", e.current)
	}
	if !strings.Contains(out.String(), "state 2:") {
		t.Errorf("expected printCurrent output, got %q", out.String())
	}
}

func TestProcessLineAttrNoCurrentState(t *testing.T) {
	e, out := newTestExplorer()
	e.current = 0
	e.processLine(":attr id")
	if !strings.Contains(out.String(), "no current state") {
		t.Errorf("expected a no-current-state message, got %q", out.String())
	}
}

func TestProcessLineAttrUnknown(t *testing.T) {
	e, out := newTestExplorer()
	e.current = 1
	e.processLine(":attr bogus")
	if !strings.Contains(out.String(), "no attribute transition") {
		t.Errorf("expected an error message, got %q", out.String())
	}
}

func TestProcessLineChild(t *testing.T) {
	e, _ := newTestExplorer()
	e.current = 1
	if !e.processLine(":child 2") {
		t.Fatalf(":child should not stop the loop")
	}
	if e.current != 2 {
		t.Errorf("expected current=2 after :child 2, got %d", e.current)
	}
}

func TestProcessLineChildNotANumber(t *testing.T) {
	e, out := newTestExplorer()
	e.current = 1
	e.processLine(":child notanumber")
	if !strings.Contains(out.String(), "not a state id") {
		t.Errorf("expected an error message, got %q", out.String())
	}
}

func TestProcessLineChildUnknown(t *testing.T) {
	e, out := newTestExplorer()
	e.current = 1
	e.processLine(":child 99")
	if !strings.Contains(out.String(), "no child transition") {
		t.Errorf("expected an error message, got %q", out.String())
	}
}

func TestProcessLineShow(t *testing.T) {
	e, out := newTestExplorer()
	e.current = 1
	e.processLine(":show")
	if !strings.Contains(out.String(), "state 1:") {
		t.Errorf("expected printCurrent output, got %q", out.String())
	}
}

func TestProcessLineNames(t *testing.T) {
	e, out := newTestExplorer()
	e.processLine(":names")
	if !strings.Contains(out.String(), "r -> state 1") {
		t.Errorf("expected a NameMap listing, got %q", out.String())
	}
}

func TestProcessLineUnknownCommand(t *testing.T) {
	e, out := newTestExplorer()
	e.processLine(":bogus")
	if !strings.Contains(out.String(), "unknown command") {
		t.Errorf("expected an unknown-command message, got %q", out.String())
	}
}

func TestProcessLineQuit(t *testing.T) {
	e, _ := newTestExplorer()
	if e.processLine(":quit") {
		t.Errorf(":quit should stop the loop")
	}
	e2, _ := newTestExplorer()
	if e2.processLine(":q") {
		t.Errorf(":q should stop the loop")
	}
}
