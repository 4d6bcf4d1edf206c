// Package persistence moves JSON text between streams and the codec. Reads
// and writes go through [contextio] so a canceled context interrupts them.
package persistence

import (
	"bytes"
	"context"
	"io"

	"github.com/dolmen-go/contextio"
	"github.com/pkg/errors"

	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/serializer"
)

// Persistence implements [domain.Persistence].
type Persistence struct {
	maxBytes    int64
	stringifier domain.Stringifier
}

// NewPersistence returns a new implementation of [domain.Persistence].
func NewPersistence(options ...domain.PersistenceOption) domain.Persistence {
	opts := domain.PersistenceOptions{
		MaxBytes:    0,
		Stringifier: serializer.NewSerializer(),
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.Stringifier == nil {
		opts.Stringifier = serializer.NewSerializer()
	}
	return &Persistence{
		maxBytes:    opts.MaxBytes,
		stringifier: opts.Stringifier,
	}
}

// ReadText implements [domain.Persistence]. When a byte limit is set and the
// stream is longer, it fails with [domain.ErrCapacityExceeded] reporting the
// limit as the offset.
func (p *Persistence) ReadText(ctx context.Context, r io.Reader) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rd := contextio.NewReader(ctx, r)
	if p.maxBytes > 0 {
		rd = io.LimitReader(rd, p.maxBytes+1)
	}

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(rd); err != nil {
		return nil, errors.Wrap(err, "reading text")
	}
	if p.maxBytes > 0 && int64(buf.Len()) > p.maxBytes {
		return nil, &domain.ErrCapacityExceeded{
			Offset:   int(p.maxBytes),
			Capacity: int(p.maxBytes),
			Resource: "bytes",
		}
	}
	return buf.Bytes(), nil
}

// WriteTree implements [domain.Persistence].
func (p *Persistence) WriteTree(ctx context.Context, w io.Writer, t *domain.Tree, at int) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	if !t.Valid(at) {
		return 0, domain.ErrNilValue
	}

	wr := contextio.NewWriter(ctx, w)
	n, err := wr.Write(p.stringifier.Marshal(t, at))
	if err != nil {
		return n, errors.Wrap(err, "writing text")
	}
	return n, nil
}
