// Package data builds trees out of Go values. The resulting tree has the same
// layout as a parsed one, so every accessor and the stringifier work on it.
package data

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	goreflect "github.com/goccy/go-reflect"
	"github.com/google/uuid"

	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/pool"
)

// TagName is the struct tag read for member names and omission rules.
const TagName = "json"

var (
	timeTyp = goreflect.TypeOf(*new(time.Time))
	uuidTyp = goreflect.TypeOf(*new(uuid.UUID))
)

// NewTree converts in into a tree. Maps need string keys and are emitted in
// key order. Structs follow their json tags, including "-", omitempty and
// omitzero. Times become RFC 3339 strings and UUIDs their canonical text.
//
// Only the node budget and depth options are used: MaxNodes bounds the pool
// and MaxDepth stops runaway recursion on cyclic values.
func NewTree(in any, options ...domain.ParseOption) (*domain.Tree, error) {
	opts := domain.NewParseOptions(options...)
	p := pool.NewGrowable(opts)
	b := &builder{pool: p, maxDepth: opts.MaxDepth}

	root, err := p.Alloc()
	if err != nil {
		return nil, err
	}
	if err := b.value(root, goreflect.ValueNoEscapeOf(in), 0); err != nil {
		return nil, err
	}
	if opts.Trim {
		p.Trim()
	}
	return &domain.Tree{Nodes: p.Nodes(), Text: b.text, End: len(b.text)}, nil
}

type builder struct {
	pool     domain.Pool
	text     []byte
	maxDepth int
}

// chain links the children of one container in insertion order.
type chain struct {
	at     int
	first  int32
	prev   int32
	length int32
}

func newChain(at int) *chain {
	return &chain{at: at, first: domain.NoSibling, prev: domain.NoSibling}
}

func (c *chain) add(p domain.Pool, i int) {
	delta := int32(i - c.at)
	if c.prev == domain.NoSibling {
		c.first = delta
	} else {
		p.Node(c.at + int(c.prev)).SetNext(delta)
	}
	c.prev = delta
	c.length++
}

func (b *builder) span(s string) domain.Span {
	off := len(b.text)
	b.text = append(b.text, s...)
	return domain.Span{Off: int32(off), Len: int32(len(s))}
}

func (b *builder) value(at int, r goreflect.Value, depth int) error {
	for r.Kind() == reflect.Pointer || r.Kind() == reflect.Interface {
		if r.IsNil() {
			b.pool.Node(at).SetNull()
			return nil
		}
		r = r.Elem()
	}

	switch r.Kind() {
	case reflect.Invalid:
		b.pool.Node(at).SetNull()
	case reflect.Bool:
		b.pool.Node(at).SetBool(r.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.pool.Node(at).SetInt(r.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := r.Uint()
		if u > math.MaxInt64 {
			u = math.MaxInt64
		}
		b.pool.Node(at).SetInt(int64(u))
	case reflect.Float32, reflect.Float64:
		b.pool.Node(at).SetFloat(r.Float())
	case reflect.String:
		b.pool.Node(at).SetStr(b.span(r.String()))
	case reflect.Struct:
		if r.Type() == timeTyp {
			t := r.Interface().(time.Time)
			b.pool.Node(at).SetStr(b.span(t.Format(time.RFC3339Nano)))
			return nil
		}
		return b.structure(at, r, depth)
	case reflect.Array:
		if r.Type() == uuidTyp {
			id := r.Interface().(uuid.UUID)
			b.pool.Node(at).SetStr(b.span(id.String()))
			return nil
		}
		return b.list(at, r, depth)
	case reflect.Slice:
		if r.IsNil() {
			b.pool.Node(at).SetNull()
			return nil
		}
		return b.list(at, r, depth)
	case reflect.Map:
		if r.IsNil() {
			b.pool.Node(at).SetNull()
			return nil
		}
		return b.mapping(at, r, depth)
	default:
		return fmt.Errorf("unsupported type %s", r.Type().String())
	}
	return nil
}

func (b *builder) enter(depth int) error {
	if depth >= b.maxDepth {
		return &domain.ErrCapacityExceeded{Capacity: b.maxDepth, Resource: "depth"}
	}
	return nil
}

func (b *builder) list(at int, r goreflect.Value, depth int) error {
	if err := b.enter(depth); err != nil {
		return err
	}
	c := newChain(at)
	for n := range r.Len() {
		i, err := b.pool.Alloc()
		if err != nil {
			return err
		}
		b.pool.Node(i).SetPosition(int32(n))
		if err := b.value(i, r.Index(n), depth+1); err != nil {
			return err
		}
		c.add(b.pool, i)
	}
	b.pool.Node(at).SetContainer(domain.TypeArray, c.first, c.length)
	return nil
}

func (b *builder) member(c *chain, name string, v goreflect.Value, depth int) error {
	i, err := b.pool.Alloc()
	if err != nil {
		return err
	}
	b.pool.Node(i).SetKey(b.span(name))
	if err := b.value(i, v, depth+1); err != nil {
		return err
	}
	c.add(b.pool, i)
	return nil
}

func (b *builder) mapping(at int, r goreflect.Value, depth int) error {
	if err := b.enter(depth); err != nil {
		return err
	}
	if r.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("unsupported map key type %s", r.Type().Key().String())
	}
	keys := r.MapKeys()
	slices.SortFunc(keys, func(x, y goreflect.Value) int {
		return strings.Compare(x.String(), y.String())
	})

	c := newChain(at)
	for _, k := range keys {
		if err := b.member(c, k.String(), r.MapIndex(k), depth); err != nil {
			return err
		}
	}
	b.pool.Node(at).SetContainer(domain.TypeObject, c.first, c.length)
	return nil
}

func (b *builder) structure(at int, r goreflect.Value, depth int) error {
	if err := b.enter(depth); err != nil {
		return err
	}
	typ := r.Type()
	c := newChain(at)
	for n := range r.NumField() {
		field := typ.Field(n)
		if field.PkgPath != "" {
			continue
		}
		name, ok := fieldName(r.Field(n), field)
		if !ok {
			continue
		}
		if err := b.member(c, name, r.Field(n), depth); err != nil {
			return err
		}
	}
	b.pool.Node(at).SetContainer(domain.TypeObject, c.first, c.length)
	return nil
}

// fieldName returns the member name of a struct field, or false when the
// field is omitted.
func fieldName(r goreflect.Value, typ goreflect.StructField) (string, bool) {
	name := typ.Name
	var tagSegments []string
	if tag, ok := typ.Tag.Lookup(TagName); ok {
		if tag == "-" {
			return "", false
		}
		tagSegments = strings.Split(tag, ",")
		if tagSegments[0] != "" {
			name = tagSegments[0]
		}
		tagSegments = tagSegments[1:]
	}
	if slices.Contains(tagSegments, "omitempty") && isEmpty(r) {
		return "", false
	}
	if slices.Contains(tagSegments, "omitzero") && r.IsZero() {
		return "", false
	}
	return name, true
}

func isEmpty(r goreflect.Value) bool {
	switch r.Kind() {
	case reflect.Pointer, reflect.Interface:
		return r.IsNil()
	case reflect.Slice, reflect.Map, reflect.String, reflect.Array:
		return r.Len() == 0
	case reflect.Bool:
		return !r.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return r.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return r.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return r.Float() == 0
	default:
		return false
	}
}
