package pattern

import "testing"

func TestSingletonsNullable(t *testing.T) {
	c := NewContext()
	tests := []struct {
		name     string
		p        Pattern
		nullable bool
	}{
		{"NotAllowed", c.NotAllowedPattern, false},
		{"Empty", c.EmptyPattern, true},
		{"Text", c.TextPattern, true},
		{"AnyName", c.AnyNamePattern, true},
	}
	for _, tt := range tests {
		if got := tt.p.Nullable(); got != tt.nullable {
			t.Errorf("%s.Nullable() = %v, want %v", tt.name, got, tt.nullable)
		}
	}
}

func TestHashConsUniqueness(t *testing.T) {
	c := NewContext()

	r1 := c.Ref("A")
	r2 := c.Ref("A")
	if !r1.Equal(r2) {
		t.Errorf("Ref(A) built twice should share identity")
	}

	r3 := c.Ref("B")
	if r1.Equal(r3) {
		t.Errorf("Ref(A) and Ref(B) must not share identity")
	}

	g1 := c.Group(r1, r3)
	g2 := c.Group(c.Ref("A"), c.Ref("B"))
	if !g1.Equal(g2) {
		t.Errorf("structurally equal Group patterns should share identity")
	}
}

func TestChoiceAbsorbsNotAllowed(t *testing.T) {
	c := NewContext()
	r := c.Ref("A")
	if got := c.Choice(c.NotAllowedPattern, r); !got.Equal(r) {
		t.Errorf("Choice(NotAllowed, r) = %v, want r", got.Kind())
	}
	if got := c.Choice(r, c.NotAllowedPattern); !got.Equal(r) {
		t.Errorf("Choice(r, NotAllowed) = %v, want r", got.Kind())
	}
}

func TestChoiceRightAssociatesAndDedups(t *testing.T) {
	c := NewContext()
	a, b, d := c.Ref("A"), c.Ref("B"), c.Ref("D")

	left := c.Choice(c.Choice(a, b), d)
	right := c.Choice(a, c.Choice(b, d))
	if !left.Equal(right) {
		t.Errorf("Choice should right-associate to a single canonical shape")
	}

	dup := c.Choice(a, c.Choice(b, a))
	if !dup.Equal(c.Choice(b, a)) {
		t.Errorf("Choice should elide duplicate operands: got kind chain not collapsed")
	}
}

func TestGroupUnitAndAbsorbing(t *testing.T) {
	c := NewContext()
	r := c.Ref("A")

	if got := c.Group(c.EmptyPattern, r); !got.Equal(r) {
		t.Errorf("Group(Empty, r) should be r")
	}
	if got := c.Group(r, c.EmptyPattern); !got.Equal(r) {
		t.Errorf("Group(r, Empty) should be r")
	}
	if got := c.Group(c.NotAllowedPattern, r); !got.Equal(c.NotAllowedPattern) {
		t.Errorf("Group(NotAllowed, r) should be NotAllowed")
	}
	if got := c.Group(r, c.NotAllowedPattern); !got.Equal(c.NotAllowedPattern) {
		t.Errorf("Group(r, NotAllowed) should be NotAllowed")
	}
}

func TestNullableAgreement(t *testing.T) {
	c := NewContext()
	a := c.Ref("A") // not nullable
	grp := c.Group(c.EmptyPattern, c.EmptyPattern)
	if !grp.Nullable() {
		t.Errorf("Group(Empty, Empty) should be nullable")
	}
	oom := c.OneOrMore(a)
	if oom.Nullable() {
		t.Errorf("OneOrMore(non-nullable) should not be nullable")
	}
	oomEmpty := c.OneOrMore(c.EmptyPattern)
	if !oomEmpty.Nullable() {
		t.Errorf("OneOrMore(Empty) should be nullable")
	}
}

func TestAttrKeyEncoding(t *testing.T) {
	if got := AttrKey("", "id"); got != "id" {
		t.Errorf("AttrKey(\"\", id) = %q, want id", got)
	}
	if got := AttrKey("urn:x", "id"); got != "{urn:x}id" {
		t.Errorf("AttrKey(urn:x, id) = %q, want {urn:x}id", got)
	}
}
