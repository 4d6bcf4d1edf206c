// Package nanojson provides a small JSON codec that parses text into a flat
// pool of fixed-width nodes.
//
// A parse never allocates per value: every value becomes one [Node] taken
// from a pool, strings are decoded in place inside the input buffer and
// containers link their children through index deltas. The pool can
// therefore be a caller provided slice ([Parse]) or a growable one owned by
// the resulting [Document] ([AutoParse]).
//
// Reading goes through [Value], a handle to one node of a document. Values
// coerce between types following a fixed table (see [Value.Number]) and can
// be navigated with [Value.Item], [Value.Cell] or a path such as
// `.obj.list[2]` passed to [Value.Get].
package nanojson

import (
	"github.com/sirupsen/logrus"

	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/accessor"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/persistence"
)

var (
	// ErrInvalidEscape is returned when a string contains an escape
	// sequence that cannot be decoded.
	ErrInvalidEscape = domain.ErrInvalidEscape
	// ErrTargetNil is returned when user provides a nil value as a target
	// to decode data, for example, calling [Unmarshal].
	ErrTargetNil = domain.ErrTargetNil
	// ErrNonPointer is returned when a decoding target is not a pointer.
	ErrNonPointer = domain.ErrNonPointer
	// ErrNilValue is returned when an operation needs a node but receives an
	// absent [Value].
	ErrNilValue = domain.ErrNilValue
	// ErrNotObject is returned by [NewIndex] for values that are not
	// objects.
	ErrNotObject = domain.ErrNotObject
)

// ErrSyntax is returned when the text is not valid JSON. It carries the
// offset where matching failed.
type ErrSyntax = domain.ErrSyntax

// ErrCapacityExceeded is returned when a parse needs more nodes or a deeper
// nesting than allowed. Callers can use [errors.As] to tell it apart from
// [ErrSyntax] and retry with a larger budget.
type ErrCapacityExceeded = domain.ErrCapacityExceeded

// ErrTrailingContent is returned when something other than whitespace
// follows the root value.
type ErrTrailingContent = domain.ErrTrailingContent

// ErrPath is returned by [Value.Lookup] for malformed paths.
type ErrPath = domain.ErrPath

// ErrDecode is returned by [Value.Decode] to easily wrap third party decoding
// errors.
type ErrDecode = domain.ErrDecode

// ErrorOffset returns the byte offset carried by a parse or path error.
func ErrorOffset(err error) (int, bool) {
	return domain.ErrorOffset(err)
}

// Node is one fixed-width record of a pool.
type Node = domain.Node

// Type is the type of a [Value].
type Type = domain.Type

// Value types. An absent [Value] has type [TypeUndefined].
const (
	TypeUndefined = domain.TypeUndefined
	TypeNull      = domain.TypeNull
	TypeBoolean   = domain.TypeBoolean
	TypeNumber    = domain.TypeNumber
	TypeFloat     = domain.TypeFloat
	TypeString    = domain.TypeString
	TypeArray     = domain.TypeArray
	TypeObject    = domain.TypeObject
)

// Placeholders returned by [Value.String] for containers and absent values.
const (
	ArrayText     = accessor.ArrayText
	ObjectText    = accessor.ObjectText
	UndefinedText = accessor.UndefinedText
)

// Overflow selects how integers that do not fit the number width are stored.
type Overflow = domain.Overflow

const (
	// OverflowSaturate clamps to the nearest bound. It is the default.
	OverflowSaturate = domain.OverflowSaturate
	// OverflowWrap keeps the low bits.
	OverflowWrap = domain.OverflowWrap
)

// Parser reads JSON text into a pool.
type Parser = domain.Parser

// Stringifier renders values back into JSON text.
type Stringifier = domain.Stringifier

// Persistence moves JSON text between streams and documents.
type Persistence = domain.Persistence

// ParseOption configures [Parse], [AutoParse] and the functions built on
// them.
type ParseOption = domain.ParseOption

// WithNumberWidth sets the integer width, 32 or 64 bits. Defaults to 64.
func WithNumberWidth(bits int) ParseOption {
	return domain.WithNumberWidth(bits)
}

// WithOverflow sets how integers outside the width are stored. Defaults to
// [OverflowSaturate].
func WithOverflow(o Overflow) ParseOption {
	return domain.WithOverflow(o)
}

// WithFloats enables fractions and exponents. Enabled by default; when
// disabled such numbers are syntax errors.
func WithFloats(f bool) ParseOption {
	return domain.WithFloats(f)
}

// WithHexNumbers enables 0x prefixed integers. Disabled by default.
func WithHexNumbers(h bool) ParseOption {
	return domain.WithHexNumbers(h)
}

// WithAllowTrailing makes a parse stop after the root value instead of
// failing with [ErrTrailingContent].
func WithAllowTrailing(a bool) ParseOption {
	return domain.WithAllowTrailing(a)
}

// WithMaxDepth bounds container nesting. Defaults to 512.
func WithMaxDepth(d int) ParseOption {
	return domain.WithMaxDepth(d)
}

// WithInitialCapacity sets the starting size of the pool used by
// [AutoParse].
func WithInitialCapacity(c int) ParseOption {
	return domain.WithInitialCapacity(c)
}

// WithGrowIncrement sets how many nodes the pool used by [AutoParse] adds
// when it runs out of room.
func WithGrowIncrement(i int) ParseOption {
	return domain.WithGrowIncrement(i)
}

// WithMaxNodes sets a ceiling on the pool used by [AutoParse]. Zero means no
// ceiling.
func WithMaxNodes(m int) ParseOption {
	return domain.WithMaxNodes(m)
}

// WithTrim enables or disables releasing the unused tail of the pool after
// [AutoParse]. Enabled by default.
func WithTrim(t bool) ParseOption {
	return domain.WithTrim(t)
}

// WithLogger sets the logger receiving debug events such as pool growth and
// parse failures. Nothing is logged by default.
func WithLogger(l logrus.FieldLogger) ParseOption {
	return domain.WithParseLogger(l)
}

// StringifyOption configures [Stringify], [Marshal] and [Encode].
type StringifyOption = domain.StringifyOption

// WithEscapeUnicode writes every non ASCII character as a \u escape.
func WithEscapeUnicode(e bool) StringifyOption {
	return domain.WithEscapeUnicode(e)
}

// WithIndent enables pretty printing. Each element starts on a new line with
// prefix followed by one indent per nesting level.
func WithIndent(prefix, indent string) StringifyOption {
	return domain.WithIndent(prefix, indent)
}

// PersistenceOption configures [NewPersistence].
type PersistenceOption = domain.PersistenceOption

// WithMaxBytes bounds how much text is read from a stream.
func WithMaxBytes(n int64) PersistenceOption {
	return domain.WithMaxBytes(n)
}

// WithStringifier sets the renderer used when writing to a stream.
func WithStringifier(s Stringifier) PersistenceOption {
	return domain.WithStringifier(s)
}

// NewPersistence returns the stream reader and writer used by
// [ReadDocument] and [Encode], configured with options.
func NewPersistence(options ...PersistenceOption) Persistence {
	return persistence.NewPersistence(options...)
}
