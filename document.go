package nanojson

import (
	"context"
	"io"

	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/deserializer"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/parser"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/persistence"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/pool"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/serializer"
)

// Document is a parsed JSON text: its node pool and the buffer its strings
// point into.
type Document struct {
	tree *domain.Tree
}

// Parse parses text into nodes and returns how many nodes were used. Node 0
// is the root. Strings are decoded in place, so text is modified and must
// outlive any use of the nodes; copy it first if the original must stay
// intact.
//
// When nodes is too short the parse fails with [ErrCapacityExceeded]. Any
// other failure is an [ErrSyntax] or [ErrTrailingContent]. On failure the
// count is 0 and text is left untouched.
func Parse(text []byte, nodes []Node, options ...ParseOption) (int, error) {
	return parser.NewParser(options...).Parse(text, pool.NewBounded(nodes))
}

// AutoParse parses text into a pool it allocates and grows as needed. Like
// [Parse], it decodes strings in place inside text.
func AutoParse(text []byte, options ...ParseOption) (*Document, error) {
	opts := domain.NewParseOptions(options...)
	t, err := parser.NewParser(options...).ParseTree(text, pool.NewGrowable(opts))
	if err != nil {
		return nil, err
	}
	return &Document{tree: t}, nil
}

// ParseString is like [AutoParse] but parses a copy of s.
func ParseString(s string, options ...ParseOption) (*Document, error) {
	return AutoParse([]byte(s), options...)
}

// NewDocument wraps the result of a successful [Parse]. Pass the nodes
// actually used, that is nodes[:n].
func NewDocument(text []byte, nodes []Node) *Document {
	return &Document{tree: &domain.Tree{Nodes: nodes, Text: text, End: len(text)}}
}

// FromValue builds a document out of a Go value. Maps need string keys and
// their members come out sorted. Struct fields follow their "json" tags,
// including "-", "omitempty" and "omitzero". Only the pool and depth options
// apply.
func FromValue(in any, options ...ParseOption) (*Document, error) {
	t, err := data.NewTree(in, options...)
	if err != nil {
		return nil, err
	}
	return &Document{tree: t}, nil
}

// ReadDocument reads r until EOF and parses the text. The read stops early
// when ctx is done.
func ReadDocument(ctx context.Context, r io.Reader, options ...ParseOption) (*Document, error) {
	text, err := persistence.NewPersistence().ReadText(ctx, r)
	if err != nil {
		return nil, err
	}
	return AutoParse(text, options...)
}

// Unmarshal parses text and decodes it into target, which must be a
// non-nil pointer. Unlike [AutoParse], text is not modified.
func Unmarshal(text []byte, target any, options ...ParseOption) error {
	de := deserializer.NewDeserializer(decoder.NewDecoder(), options...)
	return de.Deserialize(context.Background(), text, target)
}

// Root returns the root value.
func (d *Document) Root() Value {
	return Value{tree: d.tree, at: 0}
}

// Len returns the number of nodes.
func (d *Document) Len() int {
	return len(d.tree.Nodes)
}

// End returns the offset right after the root value and its trailing
// whitespace. With [WithAllowTrailing] it tells where the rest of the text
// begins.
func (d *Document) End() int {
	return d.tree.End
}

// Nodes returns the node pool.
func (d *Document) Nodes() []Node {
	return d.tree.Nodes
}

// Text returns the buffer the document was parsed from, with strings
// decoded.
func (d *Document) Text() []byte {
	return d.tree.Text
}

// Stringify renders v into dst and returns the length the whole rendering
// needs. At most len(dst)-1 bytes are written, followed by a zero byte; a
// result of len(dst) or more means the output was truncated. Escape
// sequences are never split.
func Stringify(dst []byte, v Value, options ...StringifyOption) int {
	return serializer.NewSerializer(options...).Stringify(dst, v.tree, v.at)
}

// Marshal renders v into a new slice. An absent value renders as nothing.
func Marshal(v Value, options ...StringifyOption) []byte {
	return serializer.NewSerializer(options...).Marshal(v.tree, v.at)
}

// Encode renders v and writes it to w, stopping early when ctx is done.
func Encode(ctx context.Context, w io.Writer, v Value, options ...StringifyOption) (int, error) {
	p := persistence.NewPersistence(domain.WithStringifier(serializer.NewSerializer(options...)))
	return p.WriteTree(ctx, w, v.tree, v.at)
}
