package deserialize

import (
	"reflect"

	"github.com/viant/databind/token"
)

// referenceStrategy reconstructs pointers and abstract types mapped to a concrete type.
type referenceStrategy struct {
	rType    reflect.Type
	concrete reflect.Type
	elem     *Strategy
	pointer  bool
}

func (s *referenceStrategy) decode(ctx *Context, dst reflect.Value) error {
	if ctx.Token().Kind == token.Null {
		dst.SetZero()
		return nil
	}
	if s.pointer {
		if dst.IsNil() {
			dst.Set(reflect.New(s.concrete))
		}
		return s.elem.decode(ctx, dst.Elem())
	}
	value := reflect.New(s.concrete).Elem()
	if !dst.IsNil() && ctx.Enabled(UseGettersAsSetters) && dst.Elem().Type() == s.concrete {
		value.Set(dst.Elem())
	}
	if err := s.elem.decode(ctx, value); err != nil {
		return err
	}
	dst.Set(value)
	return nil
}
