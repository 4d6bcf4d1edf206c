package domain

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Overflow selects what happens to integers that do not fit the configured
// number width.
type Overflow uint8

const (
	// OverflowSaturate clamps out of range integers to the nearest bound.
	OverflowSaturate Overflow = iota
	// OverflowWrap keeps the low bits, as a C cast would.
	OverflowWrap
)

// Default values used by [NewParseOptions].
const (
	DefaultNumberWidth     = 64
	DefaultMaxDepth        = 512
	DefaultInitialCapacity = 16
	DefaultGrowIncrement   = 16
)

// ParseOption configures a parse through the functional options pattern.
type ParseOption func(*ParseOptions)

// ParseOptions contains parameters for customizing parsing.
type ParseOptions struct {
	// NumberWidth is either 32 or 64 and bounds integer payloads.
	NumberWidth int
	// Overflow decides how out of range integers are stored.
	Overflow Overflow
	// Floats enables fractional and exponent suffixes. When disabled,
	// such numbers are syntax errors.
	Floats bool
	// HexNumbers enables the 0x prefix.
	HexNumbers bool
	// AllowTrailing disables the trailing content check.
	AllowTrailing bool
	// MaxDepth bounds container nesting.
	MaxDepth int
	// InitialCapacity is the starting size of a growable pool.
	InitialCapacity int
	// GrowIncrement is the number of nodes a growable pool adds each time
	// it runs out of room.
	GrowIncrement int
	// MaxNodes is a hard ceiling for growable pools. Zero means no
	// ceiling.
	MaxNodes int
	// Trim releases the unused tail of a growable pool after a successful
	// parse.
	Trim bool
	// Logger receives debug events. It is never nil after
	// [NewParseOptions].
	Logger logrus.FieldLogger
}

// NewParseOptions returns the defaults with the given options applied.
func NewParseOptions(options ...ParseOption) ParseOptions {
	opts := ParseOptions{
		NumberWidth:     DefaultNumberWidth,
		Overflow:        OverflowSaturate,
		Floats:          true,
		HexNumbers:      false,
		AllowTrailing:   false,
		MaxDepth:        DefaultMaxDepth,
		InitialCapacity: DefaultInitialCapacity,
		GrowIncrement:   DefaultGrowIncrement,
		MaxNodes:        0,
		Trim:            true,
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.NumberWidth != 32 {
		opts.NumberWidth = 64
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.InitialCapacity <= 0 {
		opts.InitialCapacity = DefaultInitialCapacity
	}
	if opts.GrowIncrement <= 0 {
		opts.GrowIncrement = DefaultGrowIncrement
	}
	if opts.Logger == nil {
		opts.Logger = DiscardLogger()
	}
	return opts
}

// WithNumberWidth sets the integer width, 32 or 64 bits. Any other value
// selects 64.
func WithNumberWidth(bits int) ParseOption {
	return func(po *ParseOptions) {
		po.NumberWidth = bits
	}
}

// WithOverflow sets how integers outside the configured width are stored.
func WithOverflow(o Overflow) ParseOption {
	return func(po *ParseOptions) {
		po.Overflow = o
	}
}

// WithFloats enables or disables float numbers.
func WithFloats(f bool) ParseOption {
	return func(po *ParseOptions) {
		po.Floats = f
	}
}

// WithHexNumbers enables or disables 0x prefixed integers.
func WithHexNumbers(h bool) ParseOption {
	return func(po *ParseOptions) {
		po.HexNumbers = h
	}
}

// WithAllowTrailing makes the parser stop after the root value instead of
// failing on trailing content.
func WithAllowTrailing(a bool) ParseOption {
	return func(po *ParseOptions) {
		po.AllowTrailing = a
	}
}

// WithMaxDepth bounds the container nesting depth.
func WithMaxDepth(d int) ParseOption {
	return func(po *ParseOptions) {
		po.MaxDepth = d
	}
}

// WithInitialCapacity sets the starting size of a growable pool.
func WithInitialCapacity(c int) ParseOption {
	return func(po *ParseOptions) {
		po.InitialCapacity = c
	}
}

// WithGrowIncrement sets how many nodes a growable pool adds at once.
func WithGrowIncrement(i int) ParseOption {
	return func(po *ParseOptions) {
		po.GrowIncrement = i
	}
}

// WithMaxNodes sets a hard ceiling on growable pools.
func WithMaxNodes(m int) ParseOption {
	return func(po *ParseOptions) {
		po.MaxNodes = m
	}
}

// WithTrim enables or disables trimming a growable pool after parsing.
func WithTrim(t bool) ParseOption {
	return func(po *ParseOptions) {
		po.Trim = t
	}
}

// WithParseLogger sets the logger receiving debug events.
func WithParseLogger(l logrus.FieldLogger) ParseOption {
	return func(po *ParseOptions) {
		po.Logger = l
	}
}

// StringifyOption configures rendering through the functional options
// pattern.
type StringifyOption func(*StringifyOptions)

// StringifyOptions contains parameters for customizing rendering.
type StringifyOptions struct {
	// EscapeUnicode writes every non ASCII character as a \u escape.
	EscapeUnicode bool
	// Prefix starts every indented line.
	Prefix string
	// Indent is repeated once per nesting level. Empty means compact
	// output.
	Indent string
}

// NewStringifyOptions returns the defaults with the given options applied.
func NewStringifyOptions(options ...StringifyOption) StringifyOptions {
	var opts StringifyOptions
	for _, option := range options {
		option(&opts)
	}
	return opts
}

// WithEscapeUnicode enables ASCII only output.
func WithEscapeUnicode(e bool) StringifyOption {
	return func(so *StringifyOptions) {
		so.EscapeUnicode = e
	}
}

// WithIndent enables pretty printing. Each element begins on a new line
// starting with prefix followed by one copy of indent per nesting level.
func WithIndent(prefix, indent string) StringifyOption {
	return func(so *StringifyOptions) {
		so.Prefix = prefix
		so.Indent = indent
	}
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// PersistenceOption configures stream I/O through the functional options
// pattern.
type PersistenceOption func(*PersistenceOptions)

// PersistenceOptions contains parameters for customizing stream I/O.
type PersistenceOptions struct {
	// MaxBytes bounds how much text is read from a stream. Zero means no
	// bound.
	MaxBytes int64
	// Stringifier renders trees before they are written. A nil value
	// selects the compact renderer.
	Stringifier Stringifier
}

// WithMaxBytes bounds the text read from a stream.
func WithMaxBytes(n int64) PersistenceOption {
	return func(po *PersistenceOptions) {
		po.MaxBytes = n
	}
}

// WithStringifier sets the renderer used when writing trees.
func WithStringifier(s Stringifier) PersistenceOption {
	return func(po *PersistenceOptions) {
		po.Stringifier = s
	}
}
