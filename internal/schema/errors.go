package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedSchemaShape marks a declared type outside the supported set,
	// a non-string enumeration, a composition keyword or a boolean wildcard.
	ErrUnsupportedSchemaShape = errors.New("unsupported schema shape")

	// ErrConflictingSchemaShape marks an object declaring both properties and
	// a wildcard value schema.
	ErrConflictingSchemaShape = errors.New("conflicting schema shape")

	// ErrUnresolvedReference marks a reference path with no top-level schema.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrNamingCollision marks two declared types ending up with one name.
	// The naming policy never produces it; seeing it is an internal bug.
	ErrNamingCollision = errors.New("naming collision unresolvable")

	// ErrRecursiveEmbedding marks a schema that embeds itself inline.
	ErrRecursiveEmbedding = errors.New("recursive embedding")
)

// Error is a fatal problem found while resolving, naming or lowering a schema
type Error struct {
	Kind     error    // one of the Err* sentinels
	Location Location // location hint of the offending schema
	Line     int      // source line, 0 when unknown
	Column   int
	Message  string
}

// Error implements the error interface
func (e *Error) Error() string {
	where := e.Location.String()
	if e.Line > 0 {
		where = fmt.Sprintf("%s (line %d, column %d)", where, e.Line, e.Column)
	}
	if where == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%v at %s: %s", e.Kind, where, e.Message)
}

// Unwrap returns the error kind so errors.Is matches the sentinels
func (e *Error) Unwrap() error {
	return e.Kind
}

// Errorf creates an Error of the given kind at a location.
func Errorf(kind error, loc Location, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	}
}
