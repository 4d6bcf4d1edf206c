// Package accessor reads values out of a parsed tree. Every function takes the
// tree and a node index; a negative or out of range index is an absent node.
package accessor

import (
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/scanner"
)

// Placeholder texts returned by [String] for containers and unset nodes.
const (
	ArrayText     = "[object Array]"
	ObjectText    = "[object Object]"
	UndefinedText = "undefined"
)

// stringNumber is the number syntax accepted when a string is coerced into a
// number.
var stringNumber = scanner.NumberFormat{
	Width:      64,
	Overflow:   domain.OverflowSaturate,
	Floats:     true,
	HexNumbers: true,
}

// TypeOf returns the type of the node at the given index, or
// [domain.TypeUndefined] when it is absent.
func TypeOf(t *domain.Tree, at int) domain.Type {
	if !t.Valid(at) {
		return domain.TypeUndefined
	}
	return t.Node(at).Type()
}

// Length returns the number of direct children of a container, or 0.
func Length(t *domain.Tree, at int) int {
	if !t.Valid(at) {
		return 0
	}
	_, length, _ := t.Node(at).Container()
	return int(length)
}

// Children yields the position and node index of every direct child of a
// container, in source order.
func Children(t *domain.Tree, at int) domain.Children {
	return func(yield func(int, int) bool) {
		if !t.Valid(at) {
			return
		}
		first, _, ok := t.Node(at).Container()
		if !ok {
			return
		}
		pos := 0
		for d := first; d != domain.NoSibling; d = t.Node(at + int(d)).Next() {
			if !yield(pos, at+int(d)) {
				return
			}
			pos++
		}
	}
}

// Item returns the index of the first member of an object whose key is key,
// or -1.
func Item(t *domain.Tree, at int, key string) int {
	if TypeOf(t, at) != domain.TypeObject {
		return -1
	}
	for _, i := range Children(t, at) {
		span, _ := t.Node(i).Key()
		if string(t.Bytes(span)) == key {
			return i
		}
	}
	return -1
}

// Cell returns the index of the child at position i of an array or object, or
// -1 when i is out of range.
func Cell(t *domain.Tree, at int, i int) int {
	if i < 0 || i >= Length(t, at) {
		return -1
	}
	for pos, child := range Children(t, at) {
		if pos == i {
			return child
		}
	}
	return -1
}

// Key returns the member name of a node whose parent is an object.
func Key(t *domain.Tree, at int) (string, bool) {
	if !t.Valid(at) {
		return "", false
	}
	span, ok := t.Node(at).Key()
	if !ok {
		return "", false
	}
	return string(t.Bytes(span)), true
}

// Position returns the ordinal of a node whose parent is an array.
func Position(t *domain.Tree, at int) (int, bool) {
	if !t.Valid(at) {
		return 0, false
	}
	return t.Node(at).Position()
}

// Text returns the decoded bytes of a string node without copying them.
func Text(t *domain.Tree, at int) ([]byte, bool) {
	if !t.Valid(at) {
		return nil, false
	}
	span, ok := t.Node(at).Str()
	if !ok {
		return nil, false
	}
	return t.Bytes(span), true
}

// Boolean coerces the node into a boolean.
func Boolean(t *domain.Tree, at int, absent bool) bool {
	if !t.Valid(at) {
		return absent
	}
	n := t.Node(at)
	switch n.Type() {
	case domain.TypeUndefined, domain.TypeNull:
		return false
	case domain.TypeBoolean:
		b, _ := n.Bool()
		return b
	case domain.TypeNumber:
		v, _ := n.Int()
		return v != 0
	case domain.TypeFloat:
		f, _ := n.Float()
		return math.Round(f) != 0
	case domain.TypeString:
		s, _ := n.Str()
		return s.Len > 0
	case domain.TypeArray, domain.TypeObject:
		return true
	}
	return absent
}

// Number coerces the node into an integer. Floats are rounded, strings are
// parsed when they start with a number and an array holding exactly one
// element takes that element's value.
func Number(t *domain.Tree, at int, absent int64) int64 {
	if !t.Valid(at) {
		return absent
	}
	n := t.Node(at)
	switch n.Type() {
	case domain.TypeUndefined, domain.TypeNull, domain.TypeObject:
		return 0
	case domain.TypeBoolean:
		if b, _ := n.Bool(); b {
			return 1
		}
		return 0
	case domain.TypeNumber:
		v, _ := n.Int()
		return v
	case domain.TypeFloat:
		f, _ := n.Float()
		return roundInt(f)
	case domain.TypeString:
		num, ok := leadingNumber(t, n)
		if !ok {
			return 0
		}
		if f, ok := num.Float(); ok {
			return roundInt(f)
		}
		v, _ := num.Int()
		return v
	case domain.TypeArray:
		if first, length, _ := n.Container(); length == 1 {
			return Number(t, at+int(first), absent)
		}
		return 0
	}
	return absent
}

// Float coerces the node into a float. A string that is not a number yields
// NaN, an empty string yields 0.
func Float(t *domain.Tree, at int, absent float64) float64 {
	if !t.Valid(at) {
		return absent
	}
	n := t.Node(at)
	switch n.Type() {
	case domain.TypeUndefined, domain.TypeNull, domain.TypeObject:
		return 0
	case domain.TypeBoolean:
		if b, _ := n.Bool(); b {
			return 1
		}
		return 0
	case domain.TypeNumber:
		v, _ := n.Int()
		return float64(v)
	case domain.TypeFloat:
		f, _ := n.Float()
		return f
	case domain.TypeString:
		if s, _ := n.Str(); s.Len == 0 {
			return 0
		}
		num, ok := leadingNumber(t, n)
		if !ok {
			return math.NaN()
		}
		if f, ok := num.Float(); ok {
			return f
		}
		v, _ := num.Int()
		return float64(v)
	case domain.TypeArray:
		if first, length, _ := n.Container(); length == 1 {
			return Float(t, at+int(first), absent)
		}
		return 0
	}
	return absent
}

// String coerces the node into a string.
func String(t *domain.Tree, at int, absent string) string {
	if !t.Valid(at) {
		return absent
	}
	n := t.Node(at)
	switch n.Type() {
	case domain.TypeUndefined:
		return UndefinedText
	case domain.TypeNull:
		return "null"
	case domain.TypeBoolean:
		if b, _ := n.Bool(); b {
			return "true"
		}
		return "false"
	case domain.TypeNumber:
		v, _ := n.Int()
		return strconv.FormatInt(v, 10)
	case domain.TypeFloat:
		f, _ := n.Float()
		return string(AppendFloat(nil, f))
	case domain.TypeString:
		s, _ := n.Str()
		return string(t.Bytes(s))
	case domain.TypeArray:
		return ArrayText
	case domain.TypeObject:
		return ObjectText
	}
	return absent
}

// UUID parses a string node as a UUID. Any other node, or a string that is not
// a UUID, yields absent.
func UUID(t *domain.Tree, at int, absent uuid.UUID) uuid.UUID {
	b, ok := Text(t, at)
	if !ok {
		return absent
	}
	id, err := uuid.ParseBytes(b)
	if err != nil {
		return absent
	}
	return id
}

// AppendFloat appends the shortest decimal form of f that reads back to the
// same value.
func AppendFloat(dst []byte, f float64) []byte {
	return strconv.AppendFloat(dst, f, 'g', -1, 64)
}

func leadingNumber(t *domain.Tree, n *domain.Node) (domain.Node, bool) {
	var num domain.Node
	s, _ := n.Str()
	c := scanner.New(t.Bytes(s))
	if !c.MatchLeadingNumber(&num, stringNumber) {
		return num, false
	}
	return num, true
}

func roundInt(f float64) int64 {
	r := math.Round(f)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(r)
	}
}

// Interface converts the subtree at the given index into plain Go values:
// map[string]any, []any, int64, float64, string, bool or nil. When an object
// repeats a key, the first member wins, as with [Item].
func Interface(t *domain.Tree, at int) any {
	if !t.Valid(at) {
		return nil
	}
	n := t.Node(at)
	switch n.Type() {
	case domain.TypeBoolean:
		b, _ := n.Bool()
		return b
	case domain.TypeNumber:
		v, _ := n.Int()
		return v
	case domain.TypeFloat:
		f, _ := n.Float()
		return f
	case domain.TypeString:
		s, _ := n.Str()
		return string(t.Bytes(s))
	case domain.TypeArray:
		out := make([]any, 0, Length(t, at))
		for _, child := range Children(t, at) {
			out = append(out, Interface(t, child))
		}
		return out
	case domain.TypeObject:
		out := make(map[string]any, Length(t, at))
		for _, child := range Children(t, at) {
			span, _ := t.Node(child).Key()
			key := string(t.Bytes(span))
			if _, dup := out[key]; !dup {
				out[key] = Interface(t, child)
			}
		}
		return out
	default:
		return nil
	}
}
