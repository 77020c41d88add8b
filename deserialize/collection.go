package deserialize

import (
	"reflect"

	"github.com/viant/databind/token"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type adder func(container, elem reflect.Value) error

// collectionStrategy fills containers exposing Add(E), or map[K]struct{} sets.
type collectionStrategy struct {
	rType    reflect.Type
	elemType reflect.Type
	elem     *Strategy
	add      adder
	object   *mapStrategy
}

// isAddable returns true for types with Add(E) or Add(E) error methods.
func isAddable(t reflect.Type) bool {
	_, _, ok := addMethod(t)
	return ok
}

func addMethod(t reflect.Type) (adder, reflect.Type, bool) {
	method, ok := t.MethodByName("Add")
	if !ok {
		return nil, nil, false
	}
	mType := method.Type
	offset := 1
	if t.Kind() == reflect.Interface {
		offset = 0
	}
	if mType.NumIn() != offset+1 || mType.IsVariadic() {
		return nil, nil, false
	}
	switch mType.NumOut() {
	case 0:
	case 1:
		if mType.Out(0) != errorType {
			return nil, nil, false
		}
	default:
		return nil, nil, false
	}
	elemType := mType.In(offset)
	index := method.Index
	return func(container, elem reflect.Value) error {
		out := container.Method(index).Call([]reflect.Value{elem})
		if len(out) == 1 && !out[0].IsNil() {
			return out[0].Interface().(error)
		}
		return nil
	}, elemType, true
}

func setAdd(container, elem reflect.Value) error {
	set := container.Elem()
	set.SetMapIndex(elem, reflect.Zero(set.Type().Elem()))
	return nil
}

// skipSetValue ignores an object member value of a set read from an object.
func skipSetValue(ctx *Context, dst reflect.Value) error {
	dst.SetZero()
	return ctx.Skip()
}

func (s *collectionStrategy) decode(ctx *Context, dst reflect.Value) error {
	tok := ctx.Token()
	switch tok.Kind {
	case token.Null:
		dst.SetZero()
		return nil
	case token.ObjectStart:
		if s.object != nil {
			return s.object.decode(ctx, dst)
		}
	case token.String:
		if tok.Text == "" && ctx.Enabled(AcceptEmptyStringAsNull) {
			dst.SetZero()
			return nil
		}
	}
	if !ctx.Enabled(UseGettersAsSetters) {
		dst.SetZero()
	}
	if dst.Kind() == reflect.Map && dst.IsNil() {
		dst.Set(reflect.MakeMap(s.rType))
	}
	container := dst.Addr()
	if tok.Kind != token.ArrayStart {
		if !ctx.Enabled(AcceptSingleValueAsArray) || tok.Kind.IsStart() || tok.Kind.IsEnd() || tok.Kind == token.FieldName {
			return ctx.unexpectedToken(s.rType)
		}
		return s.addOne(ctx, container, 0)
	}
	for index := 0; ; index++ {
		kind, err := ctx.Next()
		if err != nil {
			return err
		}
		if kind == token.ArrayEnd {
			return nil
		}
		if err := s.addOne(ctx, container, index); err != nil {
			return err
		}
	}
}

func (s *collectionStrategy) addOne(ctx *Context, container reflect.Value, index int) error {
	ctx.pushIndex(index)
	defer ctx.pop()
	elem := reflect.New(s.elemType).Elem()
	if err := s.elem.decode(ctx, elem); err != nil {
		return err
	}
	if err := s.add(container, elem); err != nil {
		mErr := ctx.mappingError(s.rType, "cannot add element to %v", s.rType)
		mErr.Err = err
		return mErr
	}
	return nil
}
