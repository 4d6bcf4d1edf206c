package domain

// Tree is a parsed document: the used prefix of a node pool plus the text
// buffer its spans point into. Node 0 is the root.
type Tree struct {
	// Nodes holds exactly the nodes written by the parse.
	Nodes []Node
	// Text is the source buffer, with string spans already decoded in
	// place.
	Text []byte
	// End is the offset right after the root value and the whitespace
	// that follows it.
	End int
}

// Valid reports whether at addresses a node of t.
func (t *Tree) Valid(at int) bool {
	return t != nil && at >= 0 && at < len(t.Nodes)
}

// Node returns the node at the given index. It does not check bounds.
func (t *Tree) Node(at int) *Node {
	return &t.Nodes[at]
}

// Bytes returns the text addressed by s.
func (t *Tree) Bytes(s Span) []byte {
	return t.Text[s.Off:s.End()]
}
