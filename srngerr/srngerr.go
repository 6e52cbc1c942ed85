// Package srngerr defines the fatal error taxonomy shared by the schema
// loader and the compile-time core (see spec §7).
package srngerr

import "fmt"

// Kind tags the category of a compile error.
type Kind string

const (
	// SchemaWrongNamespace: an element in the input is not under the
	// RELAX NG namespace.
	SchemaWrongNamespace Kind = "SCHEMA_WRONG_NAMESPACE"

	// SchemaUnknownElement: an element has a local name the loader does
	// not recognize.
	SchemaUnknownElement Kind = "SCHEMA_UNKNOWN_ELEMENT"

	// AttrNameClassUnsupported: an attribute construct uses a name class
	// other than a single name.
	AttrNameClassUnsupported Kind = "ATTR_NAME_CLASS_UNSUPPORTED"

	// AmbiguousChildTransition: two defines in a child state's
	// NullableDefines yield conflicting successor states in the parent.
	AmbiguousChildTransition Kind = "AMBIGUOUS_CHILD_TRANSITION"

	// InternalInvariantViolated: an impossible state was reached.
	InternalInvariantViolated Kind = "INTERNAL_INVARIANT_VIOLATED"

	// IOError: reading the schema or writing the output failed.
	IOError Kind = "IO_ERROR"
)

// CompileError is the single error type surfaced to the CLI boundary.
// Modeled on core.ErrorExpr in the teacher repo: a tag, a message, and an
// optional wrapped cause.
type CompileError struct {
	Kind    Kind
	Message string
	Where   string // optional location, e.g. "line 12, col 4"
	Err     error
}

func New(kind Kind, message string) *CompileError {
	return &CompileError{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *CompileError {
	return &CompileError{Kind: kind, Message: message, Err: err}
}

func (e *CompileError) Error() string {
	if e.Where != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Message, e.Where, e.Err)
		}
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Where)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// AtLocation returns a copy of e with Where set, for loaders that only
// learn the source location after constructing the error.
func (e *CompileError) AtLocation(where string) *CompileError {
	cp := *e
	cp.Where = where
	return &cp
}
