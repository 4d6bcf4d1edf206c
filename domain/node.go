package domain

import "math"

// NoSibling terminates a sibling chain. It is also stored as the first-child
// delta of an empty container.
const NoSibling int32 = -1

// Type is the tag of a [Node].
type Type uint8

const (
	// TypeUndefined marks a node that was allocated but never filled, which
	// only happens in a pool left behind by a failed parse.
	TypeUndefined Type = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeFloat
	TypeString
	TypeArray
	TypeObject
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "undefined"
	}
}

// IsContainer reports whether t is [TypeArray] or [TypeObject].
func (t Type) IsContainer() bool {
	return t == TypeArray || t == TypeObject
}

// Span addresses a byte range of the text buffer a tree was parsed from.
type Span struct {
	Off int32
	Len int32
}

// End returns the offset right after the span.
func (s Span) End() int {
	return int(s.Off) + int(s.Len)
}

// Node is a fixed-width tree record. It holds no pointers: strings are spans
// into the text buffer and edges are deltas relative to the owning
// container's index, so a pool of nodes can be copied or relocated as a
// whole without invalidating the tree.
//
// The payload word is interpreted according to the node type. Reading it
// through the tag-checked accessors ([Node.Int], [Node.Float], [Node.Bool],
// [Node.Str], [Node.Container]) is the only supported way.
type Node struct {
	payload uint64
	key     Span
	next    int32
	typ     Type
	keyStr  bool
}

// Reset turns n back into an undefined node with no key and no sibling.
func (n *Node) Reset() {
	*n = Node{next: NoSibling}
}

// Type returns the node tag.
func (n *Node) Type() Type {
	return n.typ
}

// Next returns the delta between the owning container and the next sibling,
// or [NoSibling].
func (n *Node) Next() int32 {
	return n.next
}

// SetNext sets the sibling delta.
func (n *Node) SetNext(delta int32) {
	n.next = delta
}

// KeyIsString reports whether the node is an object member.
func (n *Node) KeyIsString() bool {
	return n.keyStr
}

// Key returns the member key span when the parent is an object.
func (n *Node) Key() (Span, bool) {
	if !n.keyStr {
		return Span{}, false
	}
	return n.key, true
}

// SetKey marks n as an object member named by the given span.
func (n *Node) SetKey(s Span) {
	n.key = s
	n.keyStr = true
}

// Position returns the ordinal of n when the parent is an array.
func (n *Node) Position() (int, bool) {
	if n.keyStr {
		return 0, false
	}
	return int(n.key.Off), true
}

// SetPosition marks n as the element at position i of an array.
func (n *Node) SetPosition(i int32) {
	n.key = Span{Off: i}
	n.keyStr = false
}

// SetNull makes n a null node.
func (n *Node) SetNull() {
	n.typ = TypeNull
	n.payload = 0
}

// Bool returns the value of a boolean node.
func (n *Node) Bool() (bool, bool) {
	if n.typ != TypeBoolean {
		return false, false
	}
	return n.payload != 0, true
}

// SetBool makes n a boolean node.
func (n *Node) SetBool(b bool) {
	n.typ = TypeBoolean
	n.payload = 0
	if b {
		n.payload = 1
	}
}

// Int returns the value of a number node.
func (n *Node) Int() (int64, bool) {
	if n.typ != TypeNumber {
		return 0, false
	}
	return int64(n.payload), true
}

// SetInt makes n a number node.
func (n *Node) SetInt(v int64) {
	n.typ = TypeNumber
	n.payload = uint64(v)
}

// Float returns the value of a float node.
func (n *Node) Float() (float64, bool) {
	if n.typ != TypeFloat {
		return 0, false
	}
	return math.Float64frombits(n.payload), true
}

// SetFloat makes n a float node.
func (n *Node) SetFloat(f float64) {
	n.typ = TypeFloat
	n.payload = math.Float64bits(f)
}

// Str returns the text span of a string node.
func (n *Node) Str() (Span, bool) {
	if n.typ != TypeString {
		return Span{}, false
	}
	return unpackSpan(n.payload), true
}

// SetStr makes n a string node.
func (n *Node) SetStr(s Span) {
	n.typ = TypeString
	n.payload = packSpan(s)
}

// Container returns the first child delta and the number of direct children
// of an array or object node. An empty container has first == [NoSibling].
func (n *Node) Container() (first int32, length int32, ok bool) {
	if !n.typ.IsContainer() {
		return NoSibling, 0, false
	}
	return int32(uint32(n.payload >> 32)), int32(uint32(n.payload)), true
}

// SetContainer makes n an array or object node. Any other type panics, since
// it can only come from a programming error.
func (n *Node) SetContainer(t Type, first, length int32) {
	if !t.IsContainer() {
		panic("domain: SetContainer called with " + t.String())
	}
	n.typ = t
	n.payload = uint64(uint32(first))<<32 | uint64(uint32(length))
}

func packSpan(s Span) uint64 {
	return uint64(uint32(s.Off))<<32 | uint64(uint32(s.Len))
}

func unpackSpan(p uint64) Span {
	return Span{Off: int32(uint32(p >> 32)), Len: int32(uint32(p))}
}
