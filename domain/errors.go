package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEscape is returned when a string span contains an escape
	// sequence that cannot be decoded.
	ErrInvalidEscape = errors.New("invalid escape sequence")
	// ErrTargetNil is returned when the passed target, which should be a
	// pointer, is passed as a nil value.
	ErrTargetNil = errors.New("target interface is nil")
	// ErrNonPointer is returned when a decoding target is not a pointer.
	ErrNonPointer = errors.New("target must be a pointer")
	// ErrNilValue is returned when an operation needs a node but receives
	// an absent value.
	ErrNilValue = errors.New("value is absent")
	// ErrNotObject is returned when an operation needs an object node.
	ErrNotObject = errors.New("value is not an object")
)

// ErrDecode is returned by [Decoder.Decode] to wrap third party decoding
// errors.
type ErrDecode struct {
	Source any
	Target any
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("cannot decode %T into %T", e.Source, e.Target)
}

// ErrSyntax is returned when the text is not valid JSON. Offset is the byte
// position where matching failed.
type ErrSyntax struct {
	Offset int
	Reason string
}

func (e *ErrSyntax) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Reason)
}

// ErrCapacityExceeded is returned when a parse needs more nodes (or a deeper
// nesting) than its budget allows. It is distinct from [ErrSyntax] so callers
// can tell bad input apart from a budget that is too small.
type ErrCapacityExceeded struct {
	Offset   int
	Capacity int
	// Resource is "nodes", "depth" or "bytes".
	Resource string
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("capacity exceeded at offset %d: %s limit is %d", e.Offset, e.Resource, e.Capacity)
}

// ErrTrailingContent is returned when non-whitespace content follows the root
// value and trailing content was not allowed.
type ErrTrailingContent struct {
	Offset int
}

func (e *ErrTrailingContent) Error() string {
	return fmt.Sprintf("unexpected trailing content at offset %d", e.Offset)
}

// ErrPath is returned by the path resolver when a path step is malformed.
// Offset points into Path.
type ErrPath struct {
	Path   string
	Offset int
	Reason string
}

func (e *ErrPath) Error() string {
	return fmt.Sprintf("invalid path %q at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// ErrorOffset returns the byte offset carried by a parse or path error and
// true, or -1 and false for errors that carry none.
func ErrorOffset(err error) (int, bool) {
	var (
		syn   *ErrSyntax
		capEx *ErrCapacityExceeded
		trail *ErrTrailingContent
		path  *ErrPath
	)
	switch {
	case errors.As(err, &syn):
		return syn.Offset, true
	case errors.As(err, &capEx):
		return capEx.Offset, true
	case errors.As(err, &trail):
		return trail.Offset, true
	case errors.As(err, &path):
		return path.Offset, true
	default:
		return -1, false
	}
}
