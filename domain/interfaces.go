// Package domain contains the node model, interfaces, option types and errors
// shared by every nanojson component.
//
// The node model is a flat pool of fixed-width [Node] records. Containers
// address their children through deltas relative to their own index, so a
// pool can be grown or copied without fixing up any link.
package domain

import (
	"context"
	"io"
	"iter"
)

// Pool is the storage a parse allocates nodes from.
type Pool interface {
	// Alloc reserves the next node and returns its index. The node is
	// reset to [TypeUndefined] with no sibling.
	Alloc() (int, error)
	// Node returns the node at index i. The pointer is only valid until
	// the next call to Alloc, which may relocate the storage.
	Node(i int) *Node
	// Len returns the number of allocated nodes.
	Len() int
	// Cap returns the number of nodes that can be allocated without
	// growing, or the hard limit of a bounded pool.
	Cap() int
	// Nodes returns the allocated prefix of the storage.
	Nodes() []Node
}

// Parser builds a tree from a JSON text.
type Parser interface {
	// Parse parses text into pool and returns the number of nodes
	// written. Strings are decoded in place, so text is modified.
	Parse(text []byte, pool Pool) (int, error)
	// ParseTree is like Parse but returns the resulting [Tree].
	ParseTree(text []byte, pool Pool) (*Tree, error)
}

// Stringifier renders a tree back into JSON text.
type Stringifier interface {
	// Stringify renders the subtree at the given index into dst, always
	// leaving a zero terminator in bounds. It returns the length the full
	// rendering needs, which is larger than len(dst)-1 when the output
	// was truncated.
	Stringify(dst []byte, t *Tree, at int) int
	// Marshal renders the subtree into a new exactly sized slice.
	Marshal(t *Tree, at int) []byte
}

// Step is one element of a parsed path.
type Step struct {
	// Key is set for '.ident' and '["key"]' steps.
	Key string
	// Index is set for '[n]' steps.
	Index int
	// IsIndex tells which of Key and Index is used.
	IsIndex bool
}

// FieldNavigator resolves path queries over a tree.
type FieldNavigator interface {
	// GetAddress splits a path into steps.
	GetAddress(path string) ([]Step, error)
	// GetField follows path from the node at index at. It returns the
	// target index, or -1 when a step has no target.
	GetField(t *Tree, at int, path string) (int, error)
}

// Decoder converts a subtree into a Go value.
type Decoder interface {
	// Decode stores the subtree at the given index into target.
	Decode(t *Tree, at int, target any) error
}

// Deserializer converts JSON text into a Go value.
type Deserializer interface {
	// Deserialize parses b and decodes the root into target.
	Deserialize(ctx context.Context, b []byte, target any) error
}

// KeyIndex offers ordered lookups over the members of one object.
type KeyIndex interface {
	// Lookup returns the index of the first member named key, or -1.
	Lookup(key string) int
	// Keys returns the distinct keys in ascending order.
	Keys() []string
	// Len returns the number of distinct keys.
	Len() int
}

// Persistence moves JSON text between the codec and I/O streams.
type Persistence interface {
	// ReadText reads the whole stream into a buffer suitable for parsing.
	ReadText(ctx context.Context, r io.Reader) ([]byte, error)
	// WriteTree renders the subtree and writes it to w.
	WriteTree(ctx context.Context, w io.Writer, t *Tree, at int) (int, error)
}

// Children is the sequence type yielding (position, node index) pairs in
// source order.
type Children = iter.Seq2[int, int]
