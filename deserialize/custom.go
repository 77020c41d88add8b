package deserialize

import (
	"encoding"
	"reflect"

	"github.com/viant/databind/token"
)

// Unmarshaler is implemented by types reconstructing themselves from the context cursor.
// On entry the cursor is on the first token of the value; on return it must be on its last token.
type Unmarshaler interface {
	UnmarshalTokens(ctx *Context) error
}

type jsonUnmarshaler interface {
	UnmarshalJSON(data []byte) error
}

// interfaceStrategy returns strategy for value types whose pointer implements a decoding interface.
func interfaceStrategy(t reflect.Type) Custom {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return nil
	}
	ptr := reflect.PointerTo(t)
	switch {
	case ptr.Implements(unmarshalerType):
		return CustomFunc(decodeUnmarshaler)
	case ptr.Implements(jsonUnmarshalerType):
		return CustomFunc(decodeJSONUnmarshaler)
	case ptr.Implements(textUnmarshalerType):
		return CustomFunc(decodeTextUnmarshaler)
	}
	return nil
}

func decodeUnmarshaler(ctx *Context, dst reflect.Value) error {
	if ctx.Token().Kind == token.Null {
		dst.SetZero()
		return nil
	}
	return dst.Addr().Interface().(Unmarshaler).UnmarshalTokens(ctx)
}

func decodeJSONUnmarshaler(ctx *Context, dst reflect.Value) error {
	node, err := ctx.ReadNode()
	if err != nil {
		return err
	}
	data, err := node.MarshalJSON()
	if err != nil {
		return err
	}
	if err = dst.Addr().Interface().(jsonUnmarshaler).UnmarshalJSON(data); err != nil {
		mErr := ctx.mappingError(dst.Type(), "cannot deserialize value of type %v", dst.Type())
		mErr.Err = err
		return mErr
	}
	return nil
}

func decodeTextUnmarshaler(ctx *Context, dst reflect.Value) error {
	tok := ctx.Token()
	switch tok.Kind {
	case token.Null:
		dst.SetZero()
		return nil
	case token.String:
	case token.Int, token.Float, token.True, token.False:
		if err := coercible(ctx, tok, dst); err != nil {
			return err
		}
	default:
		return ctx.unexpectedToken(dst.Type())
	}
	if err := dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(scalarText(tok))); err != nil {
		mErr := ctx.mappingError(dst.Type(), "cannot deserialize value of type %v from %q", dst.Type(), tok.Text)
		mErr.Err = err
		return mErr
	}
	return nil
}
