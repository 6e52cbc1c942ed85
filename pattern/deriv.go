package pattern

import "github.com/client9/srng2tab/srngerr"

// Deriv computes the derivative of p with respect to the one-token leaf c
// (spec §4.2): the pattern recognizing the remaining language after
// consuming a token matching c. c must be one of Ref, Attribute, LnName,
// or NsName (c.Kind().IsLeafToken()).
//
// Deriv never receives an Element as p during normal operation: elements
// are discharged by the simulator (package automaton), never derived
// directly (spec §4.2, §8 Open Question re: Element). Reaching that case,
// or any unrecognized Kind, is reported as INTERNAL_INVARIANT_VIOLATED
// rather than a panic.
func (c *Context) Deriv(p, token Pattern) (Pattern, error) {
	if !token.Kind().IsLeafToken() {
		return Pattern{}, srngerr.Newf(srngerr.InternalInvariantViolated, "Deriv called with a non-leaf token of kind %v", token.Kind())
	}

	switch p.Kind() {
	case NotAllowed, Empty, Text:
		return c.NotAllowedPattern, nil

	case Ref:
		if token.Kind() == Ref && token.NameHandle() == p.NameHandle() {
			return c.EmptyPattern, nil
		}
		return c.NotAllowedPattern, nil

	case Attribute:
		// Namespace is intentionally not compared here: the rule this
		// is grounded on checks only the local name (spec §4.2, §8 Open
		// Question #1). Preserved verbatim, not "fixed".
		if token.Kind() == Attribute && token.NameHandle() == p.NameHandle() {
			return c.Optional(p), nil
		}
		return c.NotAllowedPattern, nil

	case LnName:
		if token.Kind() == LnName && token.NameHandle() == p.NameHandle() {
			return c.EmptyPattern, nil
		}
		return c.NotAllowedPattern, nil

	case NsName:
		if token.Kind() == NsName && token.NSHandle() == p.NSHandle() {
			return c.EmptyPattern, nil
		}
		return c.NotAllowedPattern, nil

	case AnyName:
		return c.AnyNamePattern, nil

	case OneOrMore:
		x := p.P1()
		dx, err := c.Deriv(x, token)
		if err != nil {
			return Pattern{}, err
		}
		return c.Group(dx, c.Optional(c.OneOrMore(x))), nil

	case Choice:
		da, err := c.Deriv(p.P1(), token)
		if err != nil {
			return Pattern{}, err
		}
		db, err := c.Deriv(p.P2(), token)
		if err != nil {
			return Pattern{}, err
		}
		return c.Choice(da, db), nil

	case And:
		da, err := c.Deriv(p.P1(), token)
		if err != nil {
			return Pattern{}, err
		}
		db, err := c.Deriv(p.P2(), token)
		if err != nil {
			return Pattern{}, err
		}
		return c.And(da, db), nil

	case Not:
		dx, err := c.Deriv(p.P1(), token)
		if err != nil {
			return Pattern{}, err
		}
		return c.Not(dx), nil

	case Interleave:
		a, b := p.P1(), p.P2()
		da, err := c.Deriv(a, token)
		if err != nil {
			return Pattern{}, err
		}
		db, err := c.Deriv(b, token)
		if err != nil {
			return Pattern{}, err
		}
		return c.Choice(c.Interleave(da, b), c.Interleave(a, db)), nil

	case Define:
		dx, err := c.Deriv(p.P1(), token)
		if err != nil {
			return Pattern{}, err
		}
		return c.Define(p.Name(), dx), nil

	case Group:
		a, b := p.P1(), p.P2()
		if token.Kind() == Attribute {
			da, err := c.Deriv(a, token)
			if err != nil {
				return Pattern{}, err
			}
			db, err := c.Deriv(b, token)
			if err != nil {
				return Pattern{}, err
			}
			return c.Choice(c.Group(da, b), c.Group(a, db)), nil
		}
		if a.Nullable() {
			db, err := c.Deriv(b, token)
			if err != nil {
				return Pattern{}, err
			}
			da, err := c.Deriv(a, token)
			if err != nil {
				return Pattern{}, err
			}
			return c.Choice(db, c.Group(da, b)), nil
		}
		da, err := c.Deriv(a, token)
		if err != nil {
			return Pattern{}, err
		}
		return c.Group(da, b), nil

	case Element:
		return Pattern{}, srngerr.New(srngerr.InternalInvariantViolated,
			"Deriv called on an Element pattern; elements must be discharged by the simulator")

	default:
		return Pattern{}, srngerr.Newf(srngerr.InternalInvariantViolated, "Deriv: unrecognized pattern kind %v", p.Kind())
	}
}
