// Package pattern implements the RELAX NG pattern algebra: a small set of
// smart constructors building a canonical, hash-consed DAG of patterns
// (spec §3, §4.1), plus the Brzozowski-style derivative engine (§4.2,
// see deriv.go).
//
// Names (define names, attribute/element local names, namespace URIs) are
// interned with the stdlib unique package, the same technique the teacher
// repo uses for its symbol atoms (core/symbol.SymbolExpr).
package pattern

import "unique"

// Name is an interned string: two Names compare equal iff their
// underlying strings are equal.
type Name = unique.Handle[string]

// Intern returns the canonical Name for s.
func Intern(s string) Name {
	return unique.Make(s)
}

// node is the hash-consed representation of one Pattern. It must remain
// comparable (no slices/maps) so it can key Context.intern.
type node struct {
	kind     Kind
	p1, p2   int32 // index into Context.nodes, or -1 if unused
	name, ns Name
	nullable bool
}

const noChild = int32(-1)

// Context owns one compile's hash-cons table. Patterns from different
// Contexts are never comparable: a caller compiling multiple schemas
// concurrently must use one Context per schema (spec §5).
type Context struct {
	nodes  []node
	intern map[node]int32

	// Singletons, built once per Context.
	NotAllowedPattern Pattern
	EmptyPattern      Pattern
	TextPattern       Pattern
	AnyNamePattern    Pattern
}

// Len returns the number of distinct patterns interned in c so far (the
// hash-cons table's size), for compile-time statistics.
func (c *Context) Len() int { return len(c.nodes) }

// NewContext creates a fresh, empty compile context.
func NewContext() *Context {
	ctx := &Context{intern: make(map[node]int32)}
	ctx.NotAllowedPattern = ctx.intern0(node{kind: NotAllowed, p1: noChild, p2: noChild, nullable: false})
	ctx.EmptyPattern = ctx.intern0(node{kind: Empty, p1: noChild, p2: noChild, nullable: true})
	ctx.TextPattern = ctx.intern0(node{kind: Text, p1: noChild, p2: noChild, nullable: true})
	ctx.AnyNamePattern = ctx.intern0(node{kind: AnyName, p1: noChild, p2: noChild, nullable: true})
	return ctx
}

// Pattern is a reference to one interned node within a Context. The zero
// Pattern is invalid; use Context accessors to obtain one.
type Pattern struct {
	ctx *Context
	id  int32
}

// IsZero reports whether p is the zero Pattern (no node).
func (p Pattern) IsZero() bool { return p.ctx == nil }

// Equal implements the canonicalization contract (spec §8 invariant 1):
// two patterns from the same Context are equal iff they have the same
// identity.
func (p Pattern) Equal(q Pattern) bool {
	return p.ctx == q.ctx && p.id == q.id
}

// ID returns a small dense-ish integer unique to this pattern within its
// Context, suitable for use as a map key without touching the Context.
func (p Pattern) ID() int32 { return p.id }

func (p Pattern) n() node { return p.ctx.nodes[p.id] }

func (p Pattern) Kind() Kind     { return p.n().kind }
func (p Pattern) Nullable() bool { return p.n().nullable }

// Name returns the interned name for Ref/Attribute/Define/LnName kinds.
// Callers must only call this for kinds that carry a name; other kinds
// leave the underlying handle at its zero value.
func (p Pattern) Name() string { return p.n().name.Value() }

// NS returns the interned namespace for Attribute/NsName kinds. Same
// caveat as Name.
func (p Pattern) NS() string { return p.n().ns.Value() }
func (p Pattern) NameHandle() Name { return p.n().name }
func (p Pattern) NSHandle() Name   { return p.n().ns }

func (p Pattern) child(id int32) Pattern {
	if id == noChild {
		return Pattern{}
	}
	return Pattern{ctx: p.ctx, id: id}
}

// P1 returns the first child pattern (the "x" of OneOrMore/Not, the "a" of
// Choice/Group/Interleave/And, the name-class of Element, the body of
// Define). The zero Pattern if unused by this Kind.
func (p Pattern) P1() Pattern { return p.child(p.n().p1) }

// P2 returns the second child pattern (the "b" of Choice/Group/
// Interleave/And, the body of Element). The zero Pattern if unused.
func (p Pattern) P2() Pattern { return p.child(p.n().p2) }

func (c *Context) intern0(n node) Pattern {
	if id, ok := c.intern[n]; ok {
		return Pattern{ctx: c, id: id}
	}
	id := int32(len(c.nodes))
	c.nodes = append(c.nodes, n)
	c.intern[n] = id
	return Pattern{ctx: c, id: id}
}

func idOf(p Pattern) int32 {
	if p.IsZero() {
		return noChild
	}
	return p.id
}

// --- Leaf constructors ---

func (c *Context) Ref(name string) Pattern {
	return c.intern0(node{kind: Ref, p1: noChild, p2: noChild, name: Intern(name), nullable: false})
}

func (c *Context) Attribute(ns, name string) Pattern {
	return c.intern0(node{kind: Attribute, p1: noChild, p2: noChild, name: Intern(name), ns: Intern(ns), nullable: false})
}

func (c *Context) NsName(ns string) Pattern {
	return c.intern0(node{kind: NsName, p1: noChild, p2: noChild, ns: Intern(ns), nullable: false})
}

func (c *Context) LnName(name string) Pattern {
	return c.intern0(node{kind: LnName, p1: noChild, p2: noChild, name: Intern(name), nullable: false})
}

// --- Smart constructors with the normal forms of spec §3/§4.1 ---

// Choice builds a ∨ b. NotAllowed is absorbed (it is the identity for
// union), the result is right-associated, and duplicate operands
// (compared along the right spine only, per the Design Notes' warning
// against over-normalizing) are elided.
func (c *Context) Choice(a, b Pattern) Pattern {
	if a.Kind() == NotAllowed {
		return b
	}
	if b.Kind() == NotAllowed {
		return a
	}
	if a.Kind() == Choice {
		return c.Choice(a.P1(), c.Choice(a.P2(), b))
	}
	for cur := b; ; {
		if cur.Kind() != Choice {
			if cur.Equal(a) {
				return b
			}
			break
		}
		if cur.P1().Equal(a) {
			return b
		}
		cur = cur.P2()
	}
	return c.intern0(node{kind: Choice, p1: idOf(a), p2: idOf(b), nullable: a.Nullable() || b.Nullable()})
}

// Group builds a · b (sequence). NotAllowed is absorbing (a sequence
// containing an impossible sub-pattern is itself impossible), Empty is
// the unit, and the result is right-associated.
func (c *Context) Group(a, b Pattern) Pattern {
	if a.Kind() == NotAllowed || b.Kind() == NotAllowed {
		return c.NotAllowedPattern
	}
	if a.Kind() == Empty {
		return b
	}
	if b.Kind() == Empty {
		return a
	}
	if a.Kind() == Group {
		return c.Group(a.P1(), c.Group(a.P2(), b))
	}
	return c.intern0(node{kind: Group, p1: idOf(a), p2: idOf(b), nullable: a.Nullable() && b.Nullable()})
}

// Interleave builds a unordered-merged-with b. Same absorbing/unit/
// right-associate treatment as Group.
func (c *Context) Interleave(a, b Pattern) Pattern {
	if a.Kind() == NotAllowed || b.Kind() == NotAllowed {
		return c.NotAllowedPattern
	}
	if a.Kind() == Empty {
		return b
	}
	if b.Kind() == Empty {
		return a
	}
	if a.Kind() == Interleave {
		return c.Interleave(a.P1(), c.Interleave(a.P2(), b))
	}
	return c.intern0(node{kind: Interleave, p1: idOf(a), p2: idOf(b), nullable: a.Nullable() && b.Nullable()})
}

// And builds the intersection of a and b. Short-circuits to NotAllowed if
// either side already is, and right-associates.
func (c *Context) And(a, b Pattern) Pattern {
	if a.Kind() == NotAllowed || b.Kind() == NotAllowed {
		return c.NotAllowedPattern
	}
	if a.Kind() == And {
		return c.And(a.P1(), c.And(a.P2(), b))
	}
	return c.intern0(node{kind: And, p1: idOf(a), p2: idOf(b), nullable: a.Nullable() && b.Nullable()})
}

// OneOrMore builds x, x·x, x·x·x, ... (one or more repetitions of x).
func (c *Context) OneOrMore(x Pattern) Pattern {
	return c.intern0(node{kind: OneOrMore, p1: idOf(x), p2: noChild, nullable: x.Nullable()})
}

// Not builds the complement of x.
func (c *Context) Not(x Pattern) Pattern {
	return c.intern0(node{kind: Not, p1: idOf(x), p2: noChild, nullable: !x.Nullable()})
}

// Element builds an element pattern with the given name-class and body.
func (c *Context) Element(nameClass, body Pattern) Pattern {
	return c.intern0(node{kind: Element, p1: idOf(nameClass), p2: idOf(body), nullable: body.Nullable()})
}

// Define builds a named, reusable pattern.
func (c *Context) Define(name string, x Pattern) Pattern {
	return c.intern0(node{kind: Define, p1: idOf(x), p2: noChild, name: Intern(name), nullable: x.Nullable()})
}

// Optional builds Choice(Empty, x), as used throughout §4.2.
func (c *Context) Optional(x Pattern) Pattern {
	return c.Choice(c.EmptyPattern, x)
}

// AttrKey formats the attribute-key encoding of spec §3/§8 invariant 6:
// "{ns}local" when ns is nonempty, else bare "local".
func AttrKey(ns, local string) string {
	if ns == "" {
		return local
	}
	return "{" + ns + "}" + local
}
