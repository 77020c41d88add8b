package deserialize

import (
	"reflect"

	"github.com/viant/databind/internal/chunk"
	"github.com/viant/databind/token"
)

type collector func(ctx *Context, s *arrayStrategy) (reflect.Value, error)

type arrayStrategy struct {
	rType   reflect.Type
	elem    *Strategy
	fixed   bool
	bytes   bool
	collect collector
}

// primitiveCollector returns a collector reading slices of predeclared element type t into typed chunk builders.
func primitiveCollector(t reflect.Type) (collector, bool) {
	switch t {
	case reflect.TypeOf(false):
		return collectTyped[bool], true
	case reflect.TypeOf(int(0)):
		return collectTyped[int], true
	case reflect.TypeOf(int8(0)):
		return collectTyped[int8], true
	case reflect.TypeOf(int16(0)):
		return collectTyped[int16], true
	case reflect.TypeOf(int32(0)):
		return collectTyped[int32], true
	case reflect.TypeOf(int64(0)):
		return collectTyped[int64], true
	case reflect.TypeOf(uint(0)):
		return collectTyped[uint], true
	case reflect.TypeOf(uint8(0)):
		return collectTyped[uint8], true
	case reflect.TypeOf(uint16(0)):
		return collectTyped[uint16], true
	case reflect.TypeOf(uint32(0)):
		return collectTyped[uint32], true
	case reflect.TypeOf(uint64(0)):
		return collectTyped[uint64], true
	case reflect.TypeOf(float32(0)):
		return collectTyped[float32], true
	case reflect.TypeOf(float64(0)):
		return collectTyped[float64], true
	case reflect.TypeOf(""):
		return collectTyped[string], true
	}
	return nil, false
}

func newArrayStrategy(t reflect.Type, elem *Strategy) *arrayStrategy {
	ret := &arrayStrategy{rType: t, elem: elem, fixed: t.Kind() == reflect.Array}
	if ret.fixed {
		return ret
	}
	ret.bytes = t.Elem().Kind() == reflect.Uint8 && elem.kind == KindScalar
	ret.collect = collectValues
	if typed, ok := primitiveCollector(t.Elem()); ok && elem.kind == KindScalar {
		ret.collect = typed
	}
	return ret
}

func (s *arrayStrategy) decode(ctx *Context, dst reflect.Value) error {
	tok := ctx.Token()
	switch tok.Kind {
	case token.ArrayStart:
		if s.fixed {
			return s.decodeFixed(ctx, dst)
		}
		ret, err := s.collect(ctx, s)
		if err != nil {
			return err
		}
		dst.Set(ret)
		return nil
	case token.Null:
		dst.SetZero()
		return nil
	case token.String:
		if tok.Text == "" && ctx.Enabled(AcceptEmptyStringAsNull) {
			dst.SetZero()
			return nil
		}
		if s.bytes {
			data, err := tok.Binary()
			if err != nil {
				mErr := ctx.mappingError(dst.Type(), "cannot decode base64 value into %v", dst.Type())
				mErr.Err = err
				return mErr
			}
			dst.SetBytes(data)
			return nil
		}
	case token.Embedded:
		if data, ok := tok.Value.([]byte); ok && s.bytes {
			dst.SetBytes(data)
			return nil
		}
	}
	if ctx.Enabled(AcceptSingleValueAsArray) && !tok.Kind.IsEnd() && tok.Kind != token.FieldName && tok.Kind != token.None {
		return s.single(ctx, dst)
	}
	return ctx.unexpectedToken(dst.Type())
}

func (s *arrayStrategy) single(ctx *Context, dst reflect.Value) error {
	if s.fixed {
		dst.SetZero()
		if dst.Len() == 0 {
			return nil
		}
		ctx.pushIndex(0)
		defer ctx.pop()
		return s.elem.decode(ctx, dst.Index(0))
	}
	ret := reflect.MakeSlice(s.rType, 1, 1)
	ctx.pushIndex(0)
	defer ctx.pop()
	if err := s.elem.decode(ctx, ret.Index(0)); err != nil {
		return err
	}
	dst.Set(ret)
	return nil
}

// decodeFixed fills [N]E in place; surplus input elements are skipped, missing ones are zeroed.
func (s *arrayStrategy) decodeFixed(ctx *Context, dst reflect.Value) error {
	n := dst.Len()
	index := 0
	for {
		kind, err := ctx.Next()
		if err != nil {
			return err
		}
		if kind == token.ArrayEnd {
			break
		}
		if index >= n {
			if err := ctx.Skip(); err != nil {
				return err
			}
			index++
			continue
		}
		ctx.pushIndex(index)
		err = s.elem.decode(ctx, dst.Index(index))
		ctx.pop()
		if err != nil {
			return err
		}
		index++
	}
	for ; index < n; index++ {
		dst.Index(index).SetZero()
	}
	return nil
}

func collectValues(ctx *Context, s *arrayStrategy) (reflect.Value, error) {
	kind, err := ctx.Next()
	if err != nil {
		return reflect.Value{}, err
	}
	if kind == token.ArrayEnd {
		return reflect.MakeSlice(s.rType, 0, 0), nil
	}
	builder := ctx.pool.Values(s.rType)
	defer ctx.pool.ReturnValues(builder)
	buffer := builder.Start()
	pos, index := 0, 0
	for kind != token.ArrayEnd {
		if pos == buffer.Len() {
			buffer = builder.Append(buffer)
			pos = 0
		}
		ctx.pushIndex(index)
		err = s.elem.decode(ctx, buffer.Index(pos))
		ctx.pop()
		if err != nil {
			return reflect.Value{}, err
		}
		pos++
		index++
		if kind, err = ctx.Next(); err != nil {
			return reflect.Value{}, err
		}
	}
	return builder.Complete(buffer, pos), nil
}

func collectTyped[T any](ctx *Context, s *arrayStrategy) (reflect.Value, error) {
	kind, err := ctx.Next()
	if err != nil {
		return reflect.Value{}, err
	}
	if kind == token.ArrayEnd {
		return reflect.ValueOf([]T{}).Convert(s.rType), nil
	}
	builder := chunk.Lease[T](ctx.pool)
	defer chunk.Return(ctx.pool, builder)
	buffer := builder.Start()
	pos, index := 0, 0
	for kind != token.ArrayEnd {
		if pos == len(buffer) {
			buffer = builder.Append(buffer)
			pos = 0
		}
		ctx.pushIndex(index)
		err = s.elem.decode(ctx, reflect.ValueOf(&buffer[pos]).Elem())
		ctx.pop()
		if err != nil {
			return reflect.Value{}, err
		}
		pos++
		index++
		if kind, err = ctx.Next(); err != nil {
			return reflect.Value{}, err
		}
	}
	return reflect.ValueOf(builder.Complete(buffer, pos)).Convert(s.rType), nil
}
