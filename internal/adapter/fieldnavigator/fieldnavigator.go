// Package fieldnavigator resolves path queries such as .obj.list[2] or
// ["a key"][0] over a parsed tree.
package fieldnavigator

import (
	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/accessor"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/scanner"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/strcodec"
)

// FieldNavigator implements [domain.FieldNavigator].
type FieldNavigator struct{}

// NewFieldNavigator returns a new instance of [domain.FieldNavigator].
func NewFieldNavigator() domain.FieldNavigator {
	return &FieldNavigator{}
}

// GetAddress implements [domain.FieldNavigator]. The accepted grammar is
//
//	path := ( '.' ident | '[' ( integer | string ) ']' )*
//	ident := [A-Za-z][A-Za-z0-9_]*
//
// with whitespace allowed between steps and inside brackets. String steps use
// JSON string syntax and are unescaped.
func (fn *FieldNavigator) GetAddress(path string) ([]domain.Step, error) {
	c := scanner.New([]byte(path))
	var steps []domain.Step
	for {
		ch := c.SkipSpace()
		if c.EOF() {
			return steps, nil
		}
		switch ch {
		case '.':
			c.Pos++
			id, ok := c.MatchIdent()
			if !ok {
				return nil, pathError(path, c.Pos, "expected identifier")
			}
			steps = append(steps, domain.Step{Key: string(id)})
		case '[':
			c.Pos++
			step, err := fn.bracket(c, path)
			if err != nil {
				return nil, err
			}
			if !c.MatchChar(']') {
				return nil, pathError(path, c.Pos, "expected ']'")
			}
			steps = append(steps, step)
		default:
			return nil, pathError(path, c.Pos, "expected '.' or '['")
		}
	}
}

func (fn *FieldNavigator) bracket(c *scanner.Cursor, path string) (domain.Step, error) {
	if c.SkipSpace() != '"' {
		i, ok := c.MatchIndex()
		if !ok {
			return domain.Step{}, pathError(path, c.Pos, "expected index or string")
		}
		return domain.Step{Index: i, IsIndex: true}, nil
	}

	start := c.Pos
	span, ok := c.MatchString()
	if !ok {
		return domain.Step{}, pathError(path, start, "invalid string")
	}
	key := make([]byte, span.Len)
	copy(key, c.Data[span.Off:span.End()])
	n, err := strcodec.Unescape(key)
	if err != nil {
		return domain.Step{}, pathError(path, start, err.Error())
	}
	return domain.Step{Key: string(key[:n])}, nil
}

// GetField implements [domain.FieldNavigator]. Key steps select object
// members, index steps select children by position. A step without a
// target makes the whole lookup return -1.
func (fn *FieldNavigator) GetField(t *domain.Tree, at int, path string) (int, error) {
	steps, err := fn.GetAddress(path)
	if err != nil {
		return -1, err
	}
	if !t.Valid(at) {
		return -1, nil
	}
	for _, step := range steps {
		if step.IsIndex {
			at = accessor.Cell(t, at, step.Index)
		} else {
			at = accessor.Item(t, at, step.Key)
		}
		if at < 0 {
			return -1, nil
		}
	}
	return at, nil
}

func pathError(path string, offset int, reason string) error {
	return &domain.ErrPath{Path: path, Offset: offset, Reason: reason}
}
