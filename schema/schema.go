// Package schema is the loader that walks a RELAX NG simple-syntax XML
// document and builds, for each top-level define, a pattern.Pattern via
// the pattern package's constructors (spec §2 step 2, §6).
package schema

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/client9/srng2tab/pattern"
	"github.com/client9/srng2tab/srngerr"
)

// relaxNGNamespace is the namespace every recognized element must be in.
const relaxNGNamespace = "http://relaxng.org/ns/structure/1.0"

// Schema is the loader's output: every top-level define, by name, built
// into a pattern.Pattern. automaton.BuildTables consumes this directly.
type Schema struct {
	Defines map[string]pattern.Pattern
}

// elem is a minimal parsed XML element tree node, enough to drive the
// recursive descent below without re-parsing attributes or character
// data from a stream token-by-token at each call site.
type elem struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*elem
	chardata string
	line     int
	col      int
}

func (e *elem) attr(local string) string {
	for _, a := range e.attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// Load reads a RELAX NG simple-syntax document from r and builds a
// Schema. The document's root element is treated as an untyped
// container; its direct children must each be a <define name="..."> in
// the RELAX NG namespace (spec §6's "top-level define").
func Load(r io.Reader, pc *pattern.Context) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, srngerr.Wrap(srngerr.IOError, err, "reading schema")
	}

	root, err := parseTree(data)
	if err != nil {
		return nil, err
	}

	defines := make(map[string]pattern.Pattern)
	for _, child := range root.children {
		if child.name.Space != relaxNGNamespace {
			return nil, schemaErr(srngerr.SchemaWrongNamespace, child,
				fmt.Sprintf("top-level element %q is not in the RELAX NG namespace", child.name.Local))
		}
		if child.name.Local != "define" {
			return nil, schemaErr(srngerr.SchemaUnknownElement, child,
				fmt.Sprintf("expected a top-level <define>, found <%s>", child.name.Local))
		}
		name := child.attr("name")
		body, err := foldGroupSeq(pc, child.children)
		if err != nil {
			return nil, err
		}
		defines[name] = body
	}

	return &Schema{Defines: defines}, nil
}

// LoadFile opens path and calls Load, wrapping open failures as IO_ERROR.
func LoadFile(path string, pc *pattern.Context) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, srngerr.Wrap(srngerr.IOError, err, "opening schema file "+path)
	}
	defer f.Close()
	return Load(f, pc)
}

// build converts one simple-syntax node into a pattern, dispatching on
// local name per spec §6's table. The same function handles both
// content-pattern nodes (group, choice, element, ...) and name-class
// nodes (name, anyName, nsName, except): the pattern algebra already
// treats NsName/LnName/AnyName/Choice/Not/And as ordinary constructors,
// so one recursive walker serves both contexts.
func build(pc *pattern.Context, e *elem) (pattern.Pattern, error) {
	if e.name.Space != relaxNGNamespace {
		return pattern.Pattern{}, schemaErr(srngerr.SchemaWrongNamespace, e,
			fmt.Sprintf("element %q is not in the RELAX NG namespace", e.name.Local))
	}

	switch e.name.Local {
	case "empty":
		return pc.EmptyPattern, nil

	case "notAllowed":
		return pc.NotAllowedPattern, nil

	case "text", "value", "data", "list":
		// No datatype/value/list validation (spec's Non-goals): every one
		// of these collapses to the universally-acceptable Text leaf.
		return pc.TextPattern, nil

	case "anyName":
		return withExcept(pc, e, pc.AnyNamePattern)

	case "nsName":
		return withExcept(pc, e, pc.NsName(e.attr("ns")))

	case "name":
		local := strings.TrimSpace(e.chardata)
		return pc.Group(pc.NsName(e.attr("ns")), pc.LnName(local)), nil

	case "choice":
		return foldChoice(pc, e.children)

	case "interleave":
		return foldInterleave(pc, e.children)

	case "group":
		return foldGroupSeq(pc, e.children)

	case "optional":
		body, err := foldGroupSeq(pc, e.children)
		if err != nil {
			return pattern.Pattern{}, err
		}
		return pc.Optional(body), nil

	case "zeroOrMore":
		body, err := foldGroupSeq(pc, e.children)
		if err != nil {
			return pattern.Pattern{}, err
		}
		return pc.Optional(pc.OneOrMore(body)), nil

	case "oneOrMore":
		body, err := foldGroupSeq(pc, e.children)
		if err != nil {
			return pattern.Pattern{}, err
		}
		return pc.OneOrMore(body), nil

	case "element":
		if len(e.children) < 1 {
			return pattern.Pattern{}, schemaErr(srngerr.SchemaUnknownElement, e, "element has no name-class child")
		}
		nc, err := build(pc, e.children[0])
		if err != nil {
			return pattern.Pattern{}, err
		}
		body, err := foldGroupSeq(pc, e.children[1:])
		if err != nil {
			return pattern.Pattern{}, err
		}
		return pc.Element(nc, body), nil

	case "attribute":
		// Only trivial name-class support for attributes (spec's
		// Non-goals): the first child must be a single <name>, anything
		// else (anyName, nsName, choice) is a fatal loader error.
		if len(e.children) < 1 || e.children[0].name.Local != "name" {
			return pattern.Pattern{}, schemaErr(srngerr.AttrNameClassUnsupported, e,
				"attribute requires a single <name> child, not a general name-class")
		}
		nameElem := e.children[0]
		local := strings.TrimSpace(nameElem.chardata)
		return pc.Attribute(nameElem.attr("ns"), local), nil

	case "ref":
		return pc.Ref(e.attr("name")), nil

	case "define":
		body, err := foldGroupSeq(pc, e.children)
		if err != nil {
			return pattern.Pattern{}, err
		}
		return pc.Define(e.attr("name"), body), nil

	default:
		return pattern.Pattern{}, schemaErr(srngerr.SchemaUnknownElement, e,
			fmt.Sprintf("unrecognized element <%s>", e.name.Local))
	}
}

// withExcept handles the optional <except> child of anyName/nsName
// (spec §6: "except under a name-class is Not(x)"): the result is
// base AND NOT(except-body).
func withExcept(pc *pattern.Context, e *elem, base pattern.Pattern) (pattern.Pattern, error) {
	for _, child := range e.children {
		if child.name.Local != "except" {
			continue
		}
		if len(child.children) != 1 {
			return pattern.Pattern{}, schemaErr(srngerr.SchemaUnknownElement, child,
				"except must wrap exactly one name-class")
		}
		excluded, err := build(pc, child.children[0])
		if err != nil {
			return pattern.Pattern{}, err
		}
		return pc.And(base, pc.Not(excluded)), nil
	}
	return base, nil
}

// foldGroupSeq right-folds children into a single Group chain (spec §6:
// "group/define → right-fold of Group"). Zero children fold to Empty.
func foldGroupSeq(pc *pattern.Context, children []*elem) (pattern.Pattern, error) {
	acc := pc.EmptyPattern
	for i := len(children) - 1; i >= 0; i-- {
		p, err := build(pc, children[i])
		if err != nil {
			return pattern.Pattern{}, err
		}
		acc = pc.Group(p, acc)
	}
	return acc, nil
}

// foldChoice right-folds children into a Choice chain. Zero children
// (an empty choice, no alternatives) fold to NotAllowed.
func foldChoice(pc *pattern.Context, children []*elem) (pattern.Pattern, error) {
	acc := pc.NotAllowedPattern
	for i := len(children) - 1; i >= 0; i-- {
		p, err := build(pc, children[i])
		if err != nil {
			return pattern.Pattern{}, err
		}
		acc = pc.Choice(p, acc)
	}
	return acc, nil
}

// foldInterleave right-folds children into an Interleave chain. Zero
// children fold to Empty, matching Interleave's unit.
func foldInterleave(pc *pattern.Context, children []*elem) (pattern.Pattern, error) {
	acc := pc.EmptyPattern
	for i := len(children) - 1; i >= 0; i-- {
		p, err := build(pc, children[i])
		if err != nil {
			return pattern.Pattern{}, err
		}
		acc = pc.Interleave(p, acc)
	}
	return acc, nil
}

// parseTree parses the whole document into an elem tree up front, so
// build() can freely look ahead at a node's children and attributes
// (RELAX NG's own folding rules need that) instead of driving off a
// single forward-only token stream.
func parseTree(data []byte) (*elem, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *elem
	var stack []*elem

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, srngerr.Wrap(srngerr.IOError, err, "parsing schema XML")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			line, col := lineCol(data, dec.InputOffset())
			el := &elem{
				name:  t.Name,
				attrs: append([]xml.Attr(nil), t.Attr...),
				line:  line,
				col:   col,
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else {
				root = el
			}
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].chardata += string(t)
			}
		}
	}

	if root == nil {
		return nil, srngerr.New(srngerr.IOError, "schema document has no root element")
	}
	return root, nil
}

// lineCol converts a byte offset into a 1-based line/column, for
// locating loader errors (SPEC_FULL supplement: schema diagnostics).
// offset is taken right after a StartElement token, i.e. the end of the
// opening tag rather than its start — close enough for a diagnostic.
func lineCol(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line = 1
	lastNL := -1
	for i := int64(0); i < offset; i++ {
		if data[i] == '\n' {
			line++
			lastNL = int(i)
		}
	}
	return line, int(offset) - lastNL
}

func schemaErr(kind srngerr.Kind, e *elem, message string) *srngerr.CompileError {
	return srngerr.New(kind, message).AtLocation(fmt.Sprintf("line %d, col %d", e.line, e.col))
}
