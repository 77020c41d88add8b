// Package yaml reconstructs Go values from YAML documents through the databind mapper.
package yaml

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/viant/databind/deserialize"
	"github.com/viant/databind/source/goyaml"
	"github.com/viant/databind/token"
)

// DefaultFeatures ignore unknown properties and read untyped mappings as plain maps.
const DefaultFeatures = deserialize.DefaultFeatures &^ (deserialize.FailOnUnknownProperties | deserialize.UseOrderedObjects)

var defaultMapper = sync.OnceValue(func() *deserialize.Mapper {
	return deserialize.New(deserialize.WithFeatures(DefaultFeatures))
})

// Unmarshal reads the first YAML document of data into dest.
func Unmarshal(data []byte, dest any, opts ...deserialize.Option) error {
	return UnmarshalContext(context.Background(), data, dest, opts...)
}

// UnmarshalContext reads the first YAML document of data into dest; options configure a dedicated mapper.
func UnmarshalContext(ctx context.Context, data []byte, dest any, opts ...deserialize.Option) error {
	return mapperFor(opts).Decode(ctx, goyaml.NewBytesCursor(data), dest)
}

// Decoder reads consecutive YAML documents.
type Decoder struct {
	mapper *deserialize.Mapper
	cursor *token.Stream
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader, opts ...deserialize.Option) *Decoder {
	return &Decoder{mapper: mapperFor(opts), cursor: goyaml.NewCursor(r)}
}

// Decode reads the next document into dest; io.EOF is returned once input is exhausted.
func (d *Decoder) Decode(ctx context.Context, dest any) error {
	if _, err := d.cursor.Next(); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return err
	}
	return d.mapper.Decode(ctx, d.cursor, dest)
}

func mapperFor(opts []deserialize.Option) *deserialize.Mapper {
	if len(opts) == 0 {
		return defaultMapper()
	}
	return deserialize.New(append([]deserialize.Option{deserialize.WithFeatures(DefaultFeatures)}, opts...)...)
}
