// Package scanner contains the lexical matchers used by the parser and the
// path resolver. Every matcher advances the cursor only when it succeeds.
package scanner

import (
	"errors"
	"math"
	"strconv"

	"github.com/vinicius-lino-figueiredo/nanojson/domain"
)

// NumberFormat selects which number syntaxes are accepted and how integers
// are stored.
type NumberFormat struct {
	Width      int
	Overflow   domain.Overflow
	Floats     bool
	HexNumbers bool
}

// NewNumberFormat extracts the number settings from parse options.
func NewNumberFormat(opts domain.ParseOptions) NumberFormat {
	return NumberFormat{
		Width:      opts.NumberWidth,
		Overflow:   opts.Overflow,
		Floats:     opts.Floats,
		HexNumbers: opts.HexNumbers,
	}
}

// Cursor is a read position over a byte buffer.
type Cursor struct {
	Data []byte
	Pos  int
}

// New returns a cursor at the start of data.
func New(data []byte) *Cursor {
	return &Cursor{Data: data}
}

// EOF reports whether the cursor reached the end of the buffer.
func (c *Cursor) EOF() bool {
	return c.Pos >= len(c.Data)
}

// Peek returns the byte under the cursor, or 0 at the end.
func (c *Cursor) Peek() byte {
	if c.Pos >= len(c.Data) {
		return 0
	}
	return c.Data[c.Pos]
}

func (c *Cursor) at(i int) byte {
	if i >= len(c.Data) {
		return 0
	}
	return c.Data[i]
}

// SkipSpace moves past spaces, tabs, carriage returns and line feeds and
// returns the byte under the cursor, or 0 at the end.
func (c *Cursor) SkipSpace() byte {
	for c.Pos < len(c.Data) {
		switch c.Data[c.Pos] {
		case ' ', '\t', '\n', '\r':
			c.Pos++
		default:
			return c.Data[c.Pos]
		}
	}
	return 0
}

// MatchChar skips spaces and consumes ch if it comes next.
func (c *Cursor) MatchChar(ch byte) bool {
	if c.SkipSpace() != ch || c.EOF() {
		return false
	}
	c.Pos++
	return true
}

// MatchLiteral matches true, false or null under the cursor and stores it in
// n. A literal directly followed by an identifier character does not match,
// so "nullx" is not null.
func (c *Cursor) MatchLiteral(n *domain.Node) bool {
	var lit string
	switch c.Peek() {
	case 't':
		lit = "true"
	case 'f':
		lit = "false"
	case 'n':
		lit = "null"
	default:
		return false
	}
	end := c.Pos + len(lit)
	if end > len(c.Data) || string(c.Data[c.Pos:end]) != lit || IsIdentChar(c.at(end)) {
		return false
	}
	switch lit {
	case "true":
		n.SetBool(true)
	case "false":
		n.SetBool(false)
	default:
		n.SetNull()
	}
	c.Pos = end
	return true
}

// MatchNumber matches a number under the cursor and commits it into n as a
// [domain.TypeNumber] or [domain.TypeFloat] node.
func (c *Cursor) MatchNumber(n *domain.Node, f NumberFormat) bool {
	i := c.Pos
	neg := false
	if c.at(i) == '-' {
		neg = true
		i++
	}
	if !isDigit(c.at(i)) {
		return false
	}

	if c.at(i) == '0' && (c.at(i+1) == 'x' || c.at(i+1) == 'X') {
		if !f.HexNumbers || hexValue(c.at(i+2)) < 0 {
			return false
		}
		mag, overflow, end := c.hexDigits(i + 2)
		if IsIdentChar(c.at(end)) || c.at(end) == '.' {
			return false
		}
		n.SetInt(f.fit(mag, neg, overflow))
		c.Pos = end
		return true
	}

	mag, overflow, i := c.decDigits(i)
	if ch := c.at(i); ch == '.' || ch == 'e' || ch == 'E' {
		if !f.Floats {
			return false
		}
		end, ok := c.floatSuffix(i)
		if !ok {
			return false
		}
		if !c.setFloat(n, c.Pos, end) {
			return false
		}
		c.Pos = end
		return true
	}

	if IsIdentChar(c.at(i)) {
		return false
	}
	n.SetInt(f.fit(mag, neg, overflow))
	c.Pos = i
	return true
}

// MatchLeadingNumber matches the longest number at the start of the
// remaining data and ignores whatever follows it, so "12px" reads as 12 and
// "1.5.3" as 1.5. Leading whitespace and a '+' sign are accepted. It backs
// the string to number coercions; parsing uses the strict [Cursor.MatchNumber].
func (c *Cursor) MatchLeadingNumber(n *domain.Node, f NumberFormat) bool {
	i := c.Pos
	for isSpace(c.at(i)) {
		i++
	}
	start := i
	neg := false
	switch c.at(i) {
	case '-':
		neg = true
		i++
	case '+':
		i++
	}

	if f.HexNumbers && c.at(i) == '0' && (c.at(i+1) == 'x' || c.at(i+1) == 'X') && hexValue(c.at(i+2)) >= 0 {
		mag, overflow, end := c.hexDigits(i + 2)
		n.SetInt(f.fit(mag, neg, overflow))
		c.Pos = end
		return true
	}

	mag, overflow, end := c.decDigits(i)
	digits := end > i
	float := false
	if f.Floats {
		if c.at(end) == '.' {
			j := end + 1
			for isDigit(c.at(j)) {
				j++
			}
			if digits || j > end+1 {
				end = j
				float = true
			}
		}
		if (digits || float) && (c.at(end) == 'e' || c.at(end) == 'E') {
			j := end + 1
			if c.at(j) == '+' || c.at(j) == '-' {
				j++
			}
			if isDigit(c.at(j)) {
				for isDigit(c.at(j)) {
					j++
				}
				end = j
				float = true
			}
		}
	}

	switch {
	case float:
		if !c.setFloat(n, start, end) {
			return false
		}
	case digits:
		n.SetInt(f.fit(mag, neg, overflow))
	default:
		return false
	}
	c.Pos = end
	return true
}

// decDigits accumulates the decimal digits starting at i.
func (c *Cursor) decDigits(i int) (mag uint64, overflow bool, end int) {
	for isDigit(c.at(i)) {
		d := uint64(c.at(i) - '0')
		if mag > (math.MaxUint64-d)/10 {
			overflow = true
		}
		mag = mag*10 + d
		i++
	}
	return mag, overflow, i
}

// hexDigits accumulates the hex digits starting at i.
func (c *Cursor) hexDigits(i int) (mag uint64, overflow bool, end int) {
	for d := hexValue(c.at(i)); d >= 0; d = hexValue(c.at(i)) {
		if mag > (math.MaxUint64-uint64(d))>>4 {
			overflow = true
		}
		mag = mag<<4 | uint64(d)
		i++
	}
	return mag, overflow, i
}

// setFloat converts Data[start:end] into a float node. Out of range values
// saturate like integers do.
func (c *Cursor) setFloat(n *domain.Node, start, end int) bool {
	v, err := strconv.ParseFloat(string(c.Data[start:end]), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return false
	}
	if math.IsInf(v, 1) {
		v = math.MaxFloat64
	} else if math.IsInf(v, -1) {
		v = -math.MaxFloat64
	}
	n.SetFloat(v)
	return true
}

// floatSuffix validates a fraction and/or exponent starting at i.
func (c *Cursor) floatSuffix(i int) (int, bool) {
	if c.at(i) == '.' {
		i++
		if !isDigit(c.at(i)) {
			return i, false
		}
		for isDigit(c.at(i)) {
			i++
		}
	}
	if ch := c.at(i); ch == 'e' || ch == 'E' {
		i++
		if ch := c.at(i); ch == '+' || ch == '-' {
			i++
		}
		if !isDigit(c.at(i)) {
			return i, false
		}
		for isDigit(c.at(i)) {
			i++
		}
	}
	if IsIdentChar(c.at(i)) || c.at(i) == '.' {
		return i, false
	}
	return i, true
}

// fit reduces a magnitude to the configured width.
func (f NumberFormat) fit(mag uint64, neg, overflow bool) int64 {
	if f.Width == 32 {
		if f.Overflow == domain.OverflowWrap {
			w := int32(uint32(mag))
			if neg {
				w = -w
			}
			return int64(w)
		}
		switch {
		case overflow || (!neg && mag > math.MaxInt32):
			if neg {
				return math.MinInt32
			}
			return math.MaxInt32
		case neg && mag > uint64(math.MaxInt32)+1:
			return math.MinInt32
		case neg:
			return -int64(mag)
		default:
			return int64(mag)
		}
	}

	if f.Overflow == domain.OverflowWrap {
		w := int64(mag)
		if neg {
			w = -w
		}
		return w
	}
	switch {
	case overflow || (!neg && mag > math.MaxInt64):
		if neg {
			return math.MinInt64
		}
		return math.MaxInt64
	case neg && mag >= uint64(math.MaxInt64)+1:
		return math.MinInt64
	case neg:
		return -int64(mag)
	default:
		return int64(mag)
	}
}

// MatchString matches a quoted string under the cursor and returns the span
// of its raw content, escapes included. Escapes are validated but not
// decoded: `\"`, `\/`, `\\`, `\b`, `\f`, `\n`, `\r`, `\t` and `\u` followed by
// exactly four hex digits. Anything else, or a missing closing quote, fails.
func (c *Cursor) MatchString() (domain.Span, bool) {
	if c.Peek() != '"' {
		return domain.Span{}, false
	}
	start := c.Pos + 1
	for i := start; i < len(c.Data); {
		switch c.Data[i] {
		case '"':
			c.Pos = i + 1
			return domain.Span{Off: int32(start), Len: int32(i - start)}, true
		case '\\':
			switch c.at(i + 1) {
			case '"', '/', '\\', 'b', 'f', 'n', 'r', 't':
				i += 2
			case 'u':
				for k := i + 2; k < i+6; k++ {
					if hexValue(c.at(k)) < 0 {
						return domain.Span{}, false
					}
				}
				i += 6
			default:
				return domain.Span{}, false
			}
		default:
			i++
		}
	}
	return domain.Span{}, false
}

// MatchIdent matches [A-Za-z][A-Za-z0-9_]* under the cursor.
func (c *Cursor) MatchIdent() ([]byte, bool) {
	ch := c.Peek()
	if !(ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z') {
		return nil, false
	}
	i := c.Pos + 1
	for IsIdentChar(c.at(i)) {
		i++
	}
	id := c.Data[c.Pos:i]
	c.Pos = i
	return id, true
}

// MatchIndex matches an unsigned decimal integer under the cursor. Values
// beyond the int32 range saturate.
func (c *Cursor) MatchIndex() (int, bool) {
	i := c.Pos
	if !isDigit(c.at(i)) {
		return 0, false
	}
	v := 0
	for isDigit(c.at(i)) {
		if v < math.MaxInt32 {
			v = v*10 + int(c.at(i)-'0')
		}
		i++
	}
	if IsIdentChar(c.at(i)) {
		return 0, false
	}
	if v > math.MaxInt32 {
		v = math.MaxInt32
	}
	c.Pos = i
	return v, true
}

// IsIdentChar reports whether ch may continue an identifier.
func IsIdentChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' ||
		ch >= 'A' && ch <= 'Z' ||
		ch >= '0' && ch <= '9' ||
		ch == '_'
}

// isSpace matches the characters C's isspace accepts.
func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// hexValue returns the value of a hex digit, or -1.
func hexValue(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	default:
		return -1
	}
}
