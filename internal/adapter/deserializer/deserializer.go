// Package deserializer contains the default [domain.Deserializer]
// implementation.
package deserializer

import (
	"bytes"
	"context"

	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/parser"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/pool"
)

// NewDeserializer returns a new instance of domain.Deserializer.
func NewDeserializer(decoder domain.Decoder, options ...domain.ParseOption) domain.Deserializer {
	return &Deserializer{
		decoder: decoder,
		parser:  parser.NewParser(options...),
		opts:    domain.NewParseOptions(options...),
	}
}

// Deserializer implements domain.Deserializer.
type Deserializer struct {
	decoder domain.Decoder
	parser  domain.Parser
	opts    domain.ParseOptions
}

// Deserialize implements domain.Deserializer. The input is copied before
// parsing, so b is left untouched.
func (d *Deserializer) Deserialize(ctx context.Context, b []byte, target any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if target == nil {
		return domain.ErrTargetNil
	}

	t, err := d.parser.ParseTree(bytes.Clone(b), pool.NewGrowable(d.opts))
	if err != nil {
		return err
	}
	return d.decoder.Decode(t, 0, target)
}
