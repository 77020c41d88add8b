package deserialize

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/viant/databind/token"
)

type mapStrategy struct {
	rType reflect.Type
	key   KeyDecoder
	value *Strategy
}

func (s *mapStrategy) decode(ctx *Context, dst reflect.Value) error {
	tok := ctx.Token()
	switch tok.Kind {
	case token.ObjectStart:
	case token.Null:
		dst.SetZero()
		return nil
	case token.String:
		if tok.Text == "" && ctx.Enabled(AcceptEmptyStringAsNull) {
			dst.SetZero()
			return nil
		}
		return ctx.unexpectedToken(s.rType)
	default:
		return ctx.unexpectedToken(s.rType)
	}
	if dst.IsNil() || !ctx.Enabled(UseGettersAsSetters) {
		dst.Set(reflect.MakeMap(s.rType))
	}
	valueType := s.rType.Elem()
	var seen map[string]bool
	for {
		kind, err := ctx.Next()
		if err != nil {
			return err
		}
		if kind == token.ObjectEnd {
			return nil
		}
		if kind != token.FieldName {
			return ctx.unexpectedToken(s.rType)
		}
		name := ctx.Token().Text
		if ctx.Enabled(FailOnDuplicateKeys) {
			if seen == nil {
				seen = map[string]bool{}
			}
			if seen[name] {
				return ctx.mappingError(s.rType, "duplicate field %q", name)
			}
			seen[name] = true
		}
		key, err := s.key(name)
		if err != nil {
			mErr := ctx.mappingError(s.rType, "cannot deserialize map key of type %v from %q", s.rType.Key(), name)
			mErr.Err = err
			return mErr
		}
		if _, err = ctx.Next(); err != nil {
			return err
		}
		value := reflect.New(valueType).Elem()
		ctx.pushField(name)
		err = s.value.decode(ctx, value)
		ctx.pop()
		if err != nil {
			return err
		}
		dst.SetMapIndex(key, value)
	}
}

func (b *builder) keyDecoder(t reflect.Type) (KeyDecoder, error) {
	if custom, ok := b.m.registry.keys[t]; ok {
		return custom, nil
	}
	if values, ok := b.m.registry.enums[t]; ok {
		enum := newEnumStrategy(t, values)
		return func(key string) (reflect.Value, error) {
			if i, ok := enum.lookup(key, false); ok {
				return enum.values[i], nil
			}
			return reflect.Value{}, fmt.Errorf("not one of the values accepted for enum %v: %s", t, quoteNames(enum.names))
		}, nil
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return func(key string) (reflect.Value, error) {
			ret := reflect.New(t)
			if err := ret.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(key)); err != nil {
				return reflect.Value{}, err
			}
			return ret.Elem(), nil
		}, nil
	}
	switch t.Kind() {
	case reflect.String:
		return func(key string) (reflect.Value, error) {
			return reflect.ValueOf(key).Convert(t), nil
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(key string) (reflect.Value, error) {
			ret := reflect.New(t).Elem()
			v, err := strconv.ParseInt(key, 10, 64)
			if err != nil || ret.OverflowInt(v) {
				return reflect.Value{}, fmt.Errorf("not a valid %v representation", t)
			}
			ret.SetInt(v)
			return ret, nil
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(key string) (reflect.Value, error) {
			ret := reflect.New(t).Elem()
			v, err := strconv.ParseUint(key, 10, 64)
			if err != nil || ret.OverflowUint(v) {
				return reflect.Value{}, fmt.Errorf("not a valid %v representation", t)
			}
			ret.SetUint(v)
			return ret, nil
		}, nil
	case reflect.Float32, reflect.Float64:
		return func(key string) (reflect.Value, error) {
			ret := reflect.New(t).Elem()
			v, err := strconv.ParseFloat(key, t.Bits())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("not a valid %v representation", t)
			}
			ret.SetFloat(v)
			return ret, nil
		}, nil
	case reflect.Bool:
		return func(key string) (reflect.Value, error) {
			v, err := strconv.ParseBool(key)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("not a valid %v representation", t)
			}
			return reflect.ValueOf(v).Convert(t), nil
		}, nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return func(key string) (reflect.Value, error) {
				return reflect.ValueOf(key), nil
			}, nil
		}
	}
	return nil, unsupported(t, "cannot be used as a map key")
}
