package deserialize

import (
	"reflect"

	"github.com/viant/databind/internal/chunk"
	"github.com/viant/databind/token"
	"github.com/viant/databind/tree"
)

// decodeUntyped reconstructs generic values: *tree.Object or map[string]any for objects,
// []any for arrays, strings, bools, nil, and numbers narrowed to int32, int64, *big.Int or float64.
func decodeUntyped(ctx *Context, dst reflect.Value) error {
	v, err := readUntyped(ctx)
	if err != nil {
		return err
	}
	if v == nil {
		dst.SetZero()
		return nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(dst.Type()) {
		return ctx.mappingError(dst.Type(), "cannot assign %T to %v", v, dst.Type())
	}
	dst.Set(rv)
	return nil
}

// ReadUntyped reconstructs the value at the current token as a generic value.
func (c *Context) ReadUntyped() (any, error) {
	return readUntyped(c)
}

func readUntyped(ctx *Context) (any, error) {
	tok := ctx.Token()
	switch tok.Kind {
	case token.ObjectStart:
		if ctx.Enabled(UseOrderedObjects) {
			return readObject(ctx)
		}
		return readMap(ctx)
	case token.ArrayStart:
		return readArray(ctx)
	case token.String:
		return tok.Text, nil
	case token.Int:
		return untypedInt(ctx, tok)
	case token.Float:
		if ctx.Enabled(UseBigDecimalForFloats) {
			v, err := tok.Decimal()
			if err != nil {
				return nil, numberError(ctx, untypedStrategy.rType, tok.Text, err)
			}
			return v, nil
		}
		v, err := tok.Float64()
		if err != nil {
			return nil, numberError(ctx, untypedStrategy.rType, tok.Text, err)
		}
		return v, nil
	case token.True:
		return true, nil
	case token.False:
		return false, nil
	case token.Null:
		return nil, nil
	case token.Embedded:
		return tok.Value, nil
	}
	return nil, ctx.unexpectedToken(untypedStrategy.rType)
}

func untypedInt(ctx *Context, tok token.Token) (any, error) {
	if ctx.Enabled(UseBigIntegerForInts) {
		return bigInt(ctx, tok)
	}
	switch tok.NumberType() {
	case token.Int32Number:
		return tok.Int32()
	case token.Int64Number:
		return tok.Int64()
	}
	return bigInt(ctx, tok)
}

func bigInt(ctx *Context, tok token.Token) (any, error) {
	v, err := tok.BigInt()
	if err != nil {
		return nil, numberError(ctx, untypedStrategy.rType, tok.Text, err)
	}
	return v, nil
}

func readObject(ctx *Context) (any, error) {
	ret := tree.NewObject(0)
	err := readFields(ctx, func(name string, value any) (any, bool) {
		prev, ok := ret.Get(name)
		if !ok {
			ret.Set(name, value)
		}
		return prev, ok
	}, func(name string, value any) {
		ret.Set(name, value)
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func readMap(ctx *Context) (any, error) {
	ret := map[string]any{}
	err := readFields(ctx, func(name string, value any) (any, bool) {
		prev, ok := ret[name]
		if !ok {
			ret[name] = value
		}
		return prev, ok
	}, func(name string, value any) {
		ret[name] = value
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// readFields reads object members; insert stores a new key and reports a previous value,
// replace overwrites a repeated key.
func readFields(ctx *Context, insert func(name string, value any) (any, bool), replace func(name string, value any)) error {
	for {
		kind, err := ctx.Next()
		if err != nil {
			return err
		}
		if kind == token.ObjectEnd {
			return nil
		}
		if kind != token.FieldName {
			return ctx.unexpectedToken(untypedStrategy.rType)
		}
		name := ctx.Token().Text
		if _, err = ctx.Next(); err != nil {
			return err
		}
		ctx.pushField(name)
		value, err := readUntyped(ctx)
		if err != nil {
			ctx.pop()
			return err
		}
		prev, exists := insert(name, value)
		if exists {
			if value, err = duplicate(ctx, name, prev, value); err != nil {
				ctx.pop()
				return err
			}
			replace(name, value)
		}
		ctx.pop()
	}
}

func duplicate(ctx *Context, name string, prev, value any) (any, error) {
	if ctx.Enabled(FailOnDuplicateKeys) {
		return nil, ctx.mappingError(untypedStrategy.rType, "duplicate field %q", name)
	}
	if handler := ctx.mapper.cfg.duplicates; handler != nil {
		return handler(ctx, name, prev, value)
	}
	return value, nil
}

func readArray(ctx *Context) (any, error) {
	kind, err := ctx.Next()
	if err != nil {
		return nil, err
	}
	if kind == token.ArrayEnd {
		return []any{}, nil
	}
	builder := chunk.Lease[any](ctx.pool)
	defer chunk.Return(ctx.pool, builder)
	buffer := builder.Start()
	pos, index := 0, 0
	for kind != token.ArrayEnd {
		if pos == len(buffer) {
			buffer = builder.Append(buffer)
			pos = 0
		}
		ctx.pushIndex(index)
		buffer[pos], err = readUntyped(ctx)
		ctx.pop()
		if err != nil {
			return nil, err
		}
		pos++
		index++
		if kind, err = ctx.Next(); err != nil {
			return nil, err
		}
	}
	return builder.Complete(buffer, pos), nil
}
