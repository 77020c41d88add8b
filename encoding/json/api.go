// Package json reconstructs Go values from JSON through the databind mapper.
package json

import (
	"context"
	"errors"
	"io"

	"github.com/viant/databind/deserialize"
	"github.com/viant/databind/internal/lru"
	"github.com/viant/databind/source/gojson"
	"github.com/viant/databind/token"
)

var mappers = lru.New[mapperKey, *deserialize.Mapper](64)

// UnmarshalContext unmarshals with an explicit context.
func UnmarshalContext(ctx context.Context, data []byte, dest interface{}, opts ...Option) error {
	cfg := resolveOptions(ctx, opts)
	m, err := mapperFor(&cfg, cfg.features())
	if err != nil {
		return err
	}
	return m.Decode(cfg.Ctx, gojson.NewBytesCursor(data), dest)
}

// Unmarshal unmarshals using context.Background unless overridden by options.
func Unmarshal(data []byte, dest interface{}, opts ...Option) error {
	return UnmarshalContext(nil, data, dest, opts...)
}

// Decoder reads consecutive JSON values from a stream.
type Decoder struct {
	ctx    context.Context
	mapper *deserialize.Mapper
	cursor *token.Stream
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) (*Decoder, error) {
	cfg := resolveOptions(nil, opts)
	m, err := mapperFor(&cfg, cfg.features().Without(deserialize.FailOnTrailingTokens))
	if err != nil {
		return nil, err
	}
	return &Decoder{ctx: cfg.Ctx, mapper: m, cursor: gojson.NewCursor(r)}, nil
}

// Decode reads the next value into dest; io.EOF is returned once input is exhausted.
func (d *Decoder) Decode(dest interface{}) error {
	if _, err := d.cursor.Next(); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return err
	}
	return d.mapper.Decode(d.ctx, d.cursor, dest)
}

// mapperFor returns the configured mapper; mappers of shareable option sets are reused.
func mapperFor(cfg *Options, features deserialize.Feature) (*deserialize.Mapper, error) {
	if cfg.Mapper != nil {
		return cfg.Mapper, nil
	}
	key, ok := cfg.key(features)
	if !ok {
		return deserialize.New(cfg.mapperOptions(features)...), nil
	}
	return mappers.GetOrCreate(key, func() (*deserialize.Mapper, error) {
		return deserialize.New(cfg.mapperOptions(features)...), nil
	})
}
