package nanojson

import (
	"iter"

	"github.com/google/uuid"

	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/accessor"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/fieldnavigator"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/index"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/serializer"
)

var navigator = fieldnavigator.NewFieldNavigator()

// Value is a handle to one node of a [Document]. The zero Value is absent:
// every lookup on it returns another absent value and every coercion returns
// the default passed by the caller.
type Value struct {
	tree *domain.Tree
	at   int
}

func (v Value) with(at int) Value {
	if at < 0 {
		return Value{}
	}
	return Value{tree: v.tree, at: at}
}

// Exists reports whether v refers to a node.
func (v Value) Exists() bool {
	return v.tree.Valid(v.at)
}

// Type returns the node type, or [TypeUndefined] when v is absent.
func (v Value) Type() Type {
	return accessor.TypeOf(v.tree, v.at)
}

// Len returns the number of children of an array or object, or 0.
func (v Value) Len() int {
	return accessor.Length(v.tree, v.at)
}

// Key returns the member name of a value whose parent is an object.
func (v Value) Key() (string, bool) {
	return accessor.Key(v.tree, v.at)
}

// Position returns the ordinal of a value whose parent is an array.
func (v Value) Position() (int, bool) {
	return accessor.Position(v.tree, v.at)
}

// Item returns the first member of an object named key.
func (v Value) Item(key string) Value {
	return v.with(accessor.Item(v.tree, v.at, key))
}

// Cell returns the i-th child of an array or object.
func (v Value) Cell(i int) Value {
	return v.with(accessor.Cell(v.tree, v.at, i))
}

// Get follows a path made of `.name`, `[index]` and `["name"]` steps, such as
// `.obj.list[2]`. Malformed paths and missing targets both give an absent
// value; use [Value.Lookup] to tell them apart.
func (v Value) Get(path string) Value {
	r, _ := v.Lookup(path)
	return r
}

// Lookup is like [Value.Get] but reports malformed paths as [ErrPath].
func (v Value) Lookup(path string) (Value, error) {
	at, err := navigator.GetField(v.tree, v.at, path)
	if err != nil {
		return Value{}, err
	}
	return v.with(at), nil
}

// Children iterates over the children of an array or object in source
// order, yielding each child with its ordinal.
func (v Value) Children() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, at := range accessor.Children(v.tree, v.at) {
			if !yield(i, v.with(at)) {
				return
			}
		}
	}
}

// Boolean coerces v into a boolean: null is false, numbers are true unless
// zero, floats are rounded first, strings are true unless empty and
// containers are always true.
func (v Value) Boolean(absent bool) bool {
	return accessor.Boolean(v.tree, v.at, absent)
}

// Number coerces v into an integer:
//
//   - null is 0 and booleans are 0 or 1;
//   - floats are rounded half away from zero and clamped;
//   - strings give their leading number, or 0 when they do not start with
//     one;
//   - an array with exactly one element gives the element's number, any
//     other container gives 0.
func (v Value) Number(absent int64) int64 {
	return accessor.Number(v.tree, v.at, absent)
}

// Float coerces v into a float following the same rules as [Value.Number],
// except floats are kept as they are, and strings that do not start with a
// number give NaN.
func (v Value) Float(absent float64) float64 {
	return accessor.Float(v.tree, v.at, absent)
}

// String coerces v into a string. Scalars give their JSON text without
// quotes, arrays give [ArrayText] and objects [ObjectText].
func (v Value) String(absent string) string {
	return accessor.String(v.tree, v.at, absent)
}

// UUID parses a string value as a UUID, returning absent when v is not a
// string or not a valid UUID.
func (v Value) UUID(absent uuid.UUID) uuid.UUID {
	return accessor.UUID(v.tree, v.at, absent)
}

// Interface converts v into map[string]any, []any, int64, float64, string,
// bool or nil.
func (v Value) Interface() any {
	return accessor.Interface(v.tree, v.at)
}

// Decode stores v into target, which must be a non-nil pointer. Struct
// fields are matched through their "json" tags.
func (v Value) Decode(target any) error {
	return decoder.NewDecoder().Decode(v.tree, v.at, target)
}

// MarshalJSON implements [json.Marshaler]. An absent or undefined value is
// null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Type() == TypeUndefined {
		return []byte("null"), nil
	}
	return serializer.NewSerializer().Marshal(v.tree, v.at), nil
}

// Item returns the first member of v named key.
func Item(v Value, key string) Value {
	return v.Item(key)
}

// Cell returns the i-th child of v.
func Cell(v Value, i int) Value {
	return v.Cell(i)
}

// Length returns the number of children of v.
func Length(v Value) int {
	return v.Len()
}

// TypeOf returns the type of v.
func TypeOf(v Value) Type {
	return v.Type()
}

// Get follows path from v. See [Value.Get].
func Get(v Value, path string) Value {
	return v.Get(path)
}

// AsBoolean coerces v into a boolean. See [Value.Boolean].
func AsBoolean(v Value, absent bool) bool {
	return v.Boolean(absent)
}

// AsNumber coerces v into an integer. See [Value.Number].
func AsNumber(v Value, absent int64) int64 {
	return v.Number(absent)
}

// AsFloat coerces v into a float. See [Value.Float].
func AsFloat(v Value, absent float64) float64 {
	return v.Float(absent)
}

// AsString coerces v into a string. See [Value.String].
func AsString(v Value, absent string) string {
	return v.String(absent)
}

// Index gives logarithmic lookups over the members of one object.
type Index struct {
	v   Value
	idx domain.KeyIndex
}

// NewIndex indexes the members of the object v. It fails with [ErrNotObject]
// when v is anything else.
func NewIndex(v Value) (*Index, error) {
	idx, err := index.NewIndex(v.tree, v.at)
	if err != nil {
		return nil, err
	}
	return &Index{v: v, idx: idx}, nil
}

// Lookup returns the first member named key, the same one [Value.Item]
// returns.
func (i *Index) Lookup(key string) Value {
	return i.v.with(i.idx.Lookup(key))
}

// Keys returns the distinct member names in ascending order.
func (i *Index) Keys() []string {
	return i.idx.Keys()
}

// Len returns the number of distinct member names.
func (i *Index) Len() int {
	return i.idx.Len()
}
