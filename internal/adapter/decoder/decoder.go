// Package decoder contains the default [domain.Decoder] implementation.
package decoder

import (
	"fmt"

	"github.com/goccy/go-reflect"
	"github.com/mitchellh/mapstructure"
	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/accessor"
)

// TagName is the struct tag read when decoding into structs.
const TagName = "json"

// Decoder implements domain.Decoder.
type Decoder struct{}

// NewDecoder returns a new implementation of domain.Decoder.
func NewDecoder() domain.Decoder {
	return &Decoder{}
}

// Decode implements domain.Decoder. The subtree is first converted with
// [accessor.Interface] and then mapped onto target, so struct fields match
// member names case-insensitively or through their json tag.
func (d *Decoder) Decode(t *domain.Tree, at int, target any) error {
	if target == nil {
		return domain.ErrTargetNil
	}

	value := reflect.ValueNoEscapeOf(target)
	if value.Kind() != reflect.Ptr {
		return domain.ErrNonPointer
	}
	if !t.Valid(at) {
		return domain.ErrNilValue
	}

	source := accessor.Interface(t, at)
	switch p := target.(type) {
	case *any:
		*p = source
		return nil
	case *map[string]any:
		if m, ok := source.(map[string]any); ok {
			*p = m
			return nil
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: TagName,
		Result:  target,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(source); err != nil {
		errDec := domain.ErrDecode{Source: source, Target: target}
		return fmt.Errorf("%w: %w", errDec, err)
	}
	return nil
}
