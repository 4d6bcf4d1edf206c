// Package parser contains the default [domain.Parser] implementation, a
// recursive descent tree builder writing into a node pool.
package parser

import (
	"errors"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/scanner"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/strcodec"
)

// maxText is the longest text a tree can address: spans and positions are
// stored as int32 offsets.
var maxText = math.MaxInt32

// Parser implements [domain.Parser].
type Parser struct {
	format        scanner.NumberFormat
	maxDepth      int
	allowTrailing bool
	trim          bool
	log           logrus.FieldLogger
}

// NewParser returns a new implementation of [domain.Parser].
func NewParser(options ...domain.ParseOption) domain.Parser {
	opts := domain.NewParseOptions(options...)
	return &Parser{
		format:        scanner.NewNumberFormat(opts),
		maxDepth:      opts.MaxDepth,
		allowTrailing: opts.AllowTrailing,
		trim:          opts.Trim,
		log:           opts.Logger,
	}
}

// Parse implements [domain.Parser].
func (p *Parser) Parse(text []byte, pool domain.Pool) (int, error) {
	t, err := p.ParseTree(text, pool)
	if err != nil {
		return 0, err
	}
	return len(t.Nodes), nil
}

// ParseTree implements [domain.Parser].
func (p *Parser) ParseTree(text []byte, pool domain.Pool) (*domain.Tree, error) {
	if len(text) > maxText {
		err := &domain.ErrCapacityExceeded{Offset: maxText, Capacity: maxText, Resource: "bytes"}
		p.fail(err)
		return nil, err
	}

	b := &builder{
		c:        scanner.New(text),
		pool:     pool,
		format:   p.format,
		maxDepth: p.maxDepth,
	}

	end, err := b.document(p.allowTrailing)
	if err != nil {
		p.fail(err)
		return nil, err
	}

	nodes := pool.Nodes()
	if err := decodeStrings(text, nodes); err != nil {
		p.fail(err)
		return nil, err
	}

	if t, ok := pool.(trimmer); ok && p.trim {
		t.Trim()
		nodes = pool.Nodes()
	}

	return &domain.Tree{Nodes: nodes, Text: text, End: end}, nil
}

func (p *Parser) fail(err error) {
	off, _ := domain.ErrorOffset(err)
	p.log.WithError(err).WithField("offset", off).Debug("parse failed")
}

type trimmer interface {
	Trim()
}

type builder struct {
	c        *scanner.Cursor
	pool     domain.Pool
	format   scanner.NumberFormat
	maxDepth int
}

func (b *builder) document(allowTrailing bool) (int, error) {
	b.c.SkipSpace()
	root, err := b.alloc()
	if err != nil {
		return 0, err
	}
	if err := b.value(root, 0); err != nil {
		return 0, err
	}
	b.c.SkipSpace()
	if !allowTrailing && !b.c.EOF() {
		return 0, &domain.ErrTrailingContent{Offset: b.c.Pos}
	}
	return b.c.Pos, nil
}

// alloc reserves a node and stamps capacity failures with the current
// offset.
func (b *builder) alloc() (int, error) {
	i, err := b.pool.Alloc()
	if err != nil {
		var capErr *domain.ErrCapacityExceeded
		if errors.As(err, &capErr) {
			capErr.Offset = b.c.Pos
		}
		return -1, err
	}
	return i, nil
}

func (b *builder) syntax(offset int, reason string) error {
	return &domain.ErrSyntax{Offset: offset, Reason: reason}
}

func (b *builder) value(at, depth int) error {
	ch := b.c.SkipSpace()
	start := b.c.Pos
	switch {
	case ch == '"':
		span, ok := b.c.MatchString()
		if !ok {
			return b.syntax(start, "invalid string")
		}
		b.pool.Node(at).SetStr(span)
	case ch == 't', ch == 'f', ch == 'n':
		if !b.c.MatchLiteral(b.pool.Node(at)) {
			return b.syntax(start, "invalid literal")
		}
	case ch == '-', ch >= '0' && ch <= '9':
		if !b.c.MatchNumber(b.pool.Node(at), b.format) {
			return b.syntax(start, "invalid number")
		}
	case ch == '[':
		return b.container(at, depth, domain.TypeArray, ']')
	case ch == '{':
		return b.container(at, depth, domain.TypeObject, '}')
	case b.c.EOF():
		return b.syntax(start, "unexpected end of input")
	default:
		return b.syntax(start, "unexpected character")
	}
	return nil
}

// container builds an array or object at index at. Children are allocated
// after their container, so every delta is positive.
func (b *builder) container(at, depth int, typ domain.Type, closer byte) error {
	if depth >= b.maxDepth {
		return &domain.ErrCapacityExceeded{Offset: b.c.Pos, Capacity: b.maxDepth, Resource: "depth"}
	}
	b.c.Pos++

	if b.c.MatchChar(closer) {
		b.pool.Node(at).SetContainer(typ, domain.NoSibling, 0)
		return nil
	}

	var (
		first  = domain.NoSibling
		prev   = domain.NoSibling
		length int32
	)
	for {
		b.c.SkipSpace()
		i, err := b.alloc()
		if err != nil {
			return err
		}

		if typ == domain.TypeObject {
			start := b.c.Pos
			key, ok := b.c.MatchString()
			if !ok {
				return b.syntax(start, "expected member name")
			}
			b.pool.Node(i).SetKey(key)
			if !b.c.MatchChar(':') {
				return b.syntax(b.c.Pos, "expected ':'")
			}
		} else {
			b.pool.Node(i).SetPosition(length)
		}

		if err := b.value(i, depth+1); err != nil {
			return err
		}

		delta := int32(i - at)
		if prev == domain.NoSibling {
			first = delta
		} else {
			b.pool.Node(at + int(prev)).SetNext(delta)
		}
		prev = delta
		length++

		if !b.c.MatchChar(',') {
			break
		}
	}

	if !b.c.MatchChar(closer) {
		return b.syntax(b.c.Pos, "expected ',' or '"+string(closer)+"'")
	}
	b.pool.Node(at).SetContainer(typ, first, length)
	return nil
}

// decodeStrings unescapes every key and string span in place. It only runs
// after the whole text was accepted.
func decodeStrings(text []byte, nodes []domain.Node) error {
	for i := range nodes {
		n := &nodes[i]
		if key, ok := n.Key(); ok {
			dec, err := unescapeSpan(text, key)
			if err != nil {
				return err
			}
			n.SetKey(dec)
		}
		if str, ok := n.Str(); ok {
			dec, err := unescapeSpan(text, str)
			if err != nil {
				return err
			}
			n.SetStr(dec)
		}
	}
	return nil
}

func unescapeSpan(text []byte, s domain.Span) (domain.Span, error) {
	n, err := strcodec.Unescape(text[s.Off:s.End()])
	if err != nil {
		return s, &domain.ErrSyntax{Offset: int(s.Off), Reason: err.Error()}
	}
	s.Len = int32(n)
	return s, nil
}
