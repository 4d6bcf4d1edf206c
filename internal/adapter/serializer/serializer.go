// Package serializer contains the default [domain.Stringifier]
// implementation.
package serializer

import (
	"math"
	"strconv"

	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/accessor"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/strcodec"
)

// Serializer implements [domain.Stringifier].
type Serializer struct {
	escapeUnicode bool
	prefix        string
	indent        string
}

// NewSerializer returns a new implementation of [domain.Stringifier].
func NewSerializer(options ...domain.StringifyOption) domain.Stringifier {
	opts := domain.NewStringifyOptions(options...)
	return &Serializer{
		escapeUnicode: opts.EscapeUnicode,
		prefix:        opts.Prefix,
		indent:        opts.Indent,
	}
}

// Stringify implements [domain.Stringifier]. Output that does not fit is
// still measured, so the result can be used to size a second call.
func (s *Serializer) Stringify(dst []byte, t *domain.Tree, at int) int {
	w := &writer{dst: dst, limit: len(dst) - 1, ascii: s.escapeUnicode}
	if w.limit < 0 {
		w.limit = 0
		w.full = true
	}
	if t.Valid(at) {
		s.render(w, t, at, 0)
	}
	if len(dst) > 0 {
		dst[w.pos] = 0
	}
	return w.n
}

// Marshal implements [domain.Stringifier].
func (s *Serializer) Marshal(t *domain.Tree, at int) []byte {
	need := s.Stringify(nil, t, at)
	dst := make([]byte, need+1)
	s.Stringify(dst, t, at)
	return dst[:need]
}

func (s *Serializer) render(w *writer, t *domain.Tree, at, depth int) {
	n := t.Node(at)
	switch n.Type() {
	case domain.TypeBoolean:
		if b, _ := n.Bool(); b {
			w.writeString("true")
		} else {
			w.writeString("false")
		}
	case domain.TypeNumber:
		v, _ := n.Int()
		w.write(strconv.AppendInt(w.scratch[:0], v, 10))
	case domain.TypeFloat:
		f, _ := n.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			w.writeString("null")
			return
		}
		w.write(accessor.AppendFloat(w.scratch[:0], f))
	case domain.TypeString:
		span, _ := n.Str()
		w.quoted(t.Bytes(span))
	case domain.TypeArray, domain.TypeObject:
		s.container(w, t, at, depth)
	case domain.TypeUndefined:
		w.writeString(accessor.UndefinedText)
	default:
		w.writeString("null")
	}
}

func (s *Serializer) container(w *writer, t *domain.Tree, at, depth int) {
	obj := t.Node(at).Type() == domain.TypeObject
	if obj {
		w.writeByte('{')
	} else {
		w.writeByte('[')
	}

	empty := true
	for pos, child := range accessor.Children(t, at) {
		if pos > 0 {
			w.writeByte(',')
		}
		s.newline(w, depth+1)
		if obj {
			key, _ := t.Node(child).Key()
			w.quoted(t.Bytes(key))
			w.writeByte(':')
			if s.indent != "" {
				w.writeByte(' ')
			}
		}
		s.render(w, t, child, depth+1)
		empty = false
	}

	if !empty {
		s.newline(w, depth)
	}
	if obj {
		w.writeByte('}')
	} else {
		w.writeByte(']')
	}
}

func (s *Serializer) newline(w *writer, depth int) {
	if s.indent == "" {
		return
	}
	w.writeByte('\n')
	w.writeString(s.prefix)
	for range depth {
		w.writeString(s.indent)
	}
}

// writer copies output into dst[:limit] until it runs out of room and keeps
// counting afterwards.
type writer struct {
	dst     []byte
	limit   int
	pos     int
	n       int
	full    bool
	ascii   bool
	scratch [32]byte
}

func (w *writer) write(b []byte) {
	w.n += len(b)
	if w.full {
		return
	}
	room := w.limit - w.pos
	if len(b) > room {
		w.pos += copy(w.dst[w.pos:w.limit], b[:room])
		w.full = true
		return
	}
	w.pos += copy(w.dst[w.pos:], b)
}

func (w *writer) writeString(s string) {
	w.n += len(s)
	if w.full {
		return
	}
	room := w.limit - w.pos
	if len(s) > room {
		w.pos += copy(w.dst[w.pos:w.limit], s[:room])
		w.full = true
		return
	}
	w.pos += copy(w.dst[w.pos:], s)
}

func (w *writer) writeByte(c byte) {
	w.n++
	if w.full {
		return
	}
	if w.pos >= w.limit {
		w.full = true
		return
	}
	w.dst[w.pos] = c
	w.pos++
}

// quoted writes a JSON string. Escape sequences are never split: when the
// next one does not fit, writing stops before it.
func (w *writer) quoted(src []byte) {
	w.writeByte('"')
	need := strcodec.EscapedLen(src, w.ascii)
	w.n += need
	if !w.full {
		written := strcodec.Escape(w.dst[w.pos:w.limit], src, w.ascii)
		w.pos += written
		if written < need {
			w.full = true
		}
	}
	w.writeByte('"')
}
