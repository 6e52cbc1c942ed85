package pattern

import (
	"testing"

	"github.com/client9/srng2tab/srngerr"
)

func TestDerivRefMatch(t *testing.T) {
	c := NewContext()
	p := c.Ref("A")

	got, err := c.Deriv(p, c.Ref("A"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(c.EmptyPattern) {
		t.Errorf("deriv(Ref(A), Ref(A)) = %v, want Empty", got.Kind())
	}

	got, err = c.Deriv(p, c.Ref("B"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(c.NotAllowedPattern) {
		t.Errorf("deriv(Ref(A), Ref(B)) = %v, want NotAllowed", got.Kind())
	}
}

func TestDerivAttributeIgnoresNamespace(t *testing.T) {
	c := NewContext()
	p := c.Attribute("urn:x", "id")

	// Same local name, different namespace: matches anyway (Open Question #1).
	got, err := c.Deriv(p, c.Attribute("urn:y", "id"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != Choice {
		t.Errorf("deriv(Attribute, same-local-diff-ns) should be Optional(Attribute) i.e. a Choice, got %v", got.Kind())
	}
	if !got.Nullable() {
		t.Errorf("Optional(x) must be nullable")
	}
}

func TestDerivOneOrMore(t *testing.T) {
	c := NewContext()
	a := c.Ref("A")
	p := c.OneOrMore(a)

	d, err := c.Deriv(p, c.Ref("A"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// deriv(A+, A) = Group(Empty, Optional(A+)) = Optional(A+), nullable true
	if !d.Nullable() {
		t.Errorf("deriv(A+, A) should be nullable (it can stop after one A)")
	}
}

func TestDerivSequence(t *testing.T) {
	c := NewContext()
	a, b := c.Ref("A"), c.Ref("B")
	seq := c.Group(a, b)

	d1, err := c.Deriv(seq, c.Ref("A"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d1.Equal(b) {
		t.Errorf("deriv(A.B, A) = %v, want B", d1.Kind())
	}
	if d1.Nullable() {
		t.Errorf("deriv(A.B, A) should not be nullable (B still required)")
	}

	d2, err := c.Deriv(d1, c.Ref("B"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d2.Equal(c.EmptyPattern) {
		t.Errorf("deriv(B, B) = %v, want Empty", d2.Kind())
	}
}

func TestDerivElementIsInvariantViolation(t *testing.T) {
	c := NewContext()
	el := c.Element(c.LnName("r"), c.EmptyPattern)

	_, err := c.Deriv(el, c.Ref("whatever"))
	if err == nil {
		t.Fatalf("expected an error deriving an Element pattern directly")
	}
	ce, ok := err.(*srngerr.CompileError)
	if !ok || ce.Kind != srngerr.InternalInvariantViolated {
		t.Errorf("expected INTERNAL_INVARIANT_VIOLATED, got %v", err)
	}
}

func TestDerivNullabilitySoundness(t *testing.T) {
	// Property 3 (spec §8): deriv(p,c).nullable iff <c> in L(p).
	c := NewContext()
	a, b := c.Ref("A"), c.Ref("B")

	choice := c.Choice(a, b)
	for _, tok := range []Pattern{c.Ref("A"), c.Ref("B"), c.Ref("C")} {
		want := tok.Equal(a) || tok.Equal(b)
		d, err := c.Deriv(choice, tok)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Nullable() != want {
			t.Errorf("deriv(A|B, %s).Nullable() = %v, want %v", tok.Name(), d.Nullable(), want)
		}
	}
}
