package deserialize

import (
	"fmt"
	"reflect"

	"github.com/viant/databind"
)

// Custom reconstructs a value at the current token into dst; on return the
// cursor must be on the last token of the value.
type Custom interface {
	Decode(ctx *Context, dst reflect.Value) error
}

// CustomFunc adapts a function to Custom.
type CustomFunc func(ctx *Context, dst reflect.Value) error

// Decode calls f.
func (f CustomFunc) Decode(ctx *Context, dst reflect.Value) error { return f(ctx, dst) }

// KeyDecoder converts an object key into a map key.
type KeyDecoder func(key string) (reflect.Value, error)

// Module groups registrations added to a Mapper with WithModule.
type Module struct {
	name       string
	strategies map[reflect.Type]Custom
	abstract   map[reflect.Type]reflect.Type
	creators   map[reflect.Type][]*databind.Creator
	enums      map[reflect.Type][]reflect.Value
	keys       map[reflect.Type]KeyDecoder
}

// NewModule creates a module.
func NewModule(name string) *Module {
	return &Module{
		name:       name,
		strategies: map[reflect.Type]Custom{},
		abstract:   map[reflect.Type]reflect.Type{},
		creators:   map[reflect.Type][]*databind.Creator{},
		enums:      map[reflect.Type][]reflect.Value{},
		keys:       map[reflect.Type]KeyDecoder{},
	}
}

// Name returns module name.
func (m *Module) Name() string { return m.name }

// AddStrategy registers a custom strategy for t.
func (m *Module) AddStrategy(t reflect.Type, custom Custom) *Module {
	m.strategies[t] = custom
	return m
}

// AddAbstractType maps an interface type to the concrete type it is reconstructed as.
func (m *Module) AddAbstractType(abstract, concrete reflect.Type) *Module {
	m.abstract[abstract] = concrete
	return m
}

// AddCreators registers creators for t.
func (m *Module) AddCreators(t reflect.Type, creators ...*databind.Creator) *Module {
	m.creators[t] = append(m.creators[t], creators...)
	return m
}

// AddKeyDecoder registers map key conversion for t.
func (m *Module) AddKeyDecoder(t reflect.Type, decoder KeyDecoder) *Module {
	m.keys[t] = decoder
	return m
}

// AddEnumValues registers enumerated values of t in ordinal order.
func (m *Module) AddEnumValues(t reflect.Type, values ...any) *Module {
	items := make([]reflect.Value, 0, len(values))
	for _, v := range values {
		rv := reflect.ValueOf(v)
		if rv.Type() != t {
			panic(fmt.Sprintf("invalid enum value %v: expected %v, but had %v", v, t, rv.Type()))
		}
		items = append(items, rv)
	}
	m.enums[t] = items
	return m
}

// AddEnum registers enumerated values of E in ordinal order.
func AddEnum[E comparable](m *Module, values ...E) *Module {
	items := make([]any, len(values))
	for i, v := range values {
		items[i] = v
	}
	return m.AddEnumValues(reflect.TypeFor[E](), items...)
}

// AddStrategyFunc registers fn as strategy of T.
func AddStrategyFunc[T any](m *Module, fn func(ctx *Context) (T, error)) *Module {
	return m.AddStrategy(reflect.TypeFor[T](), CustomFunc(func(ctx *Context, dst reflect.Value) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(&v).Elem())
		return nil
	}))
}

// AddKeyFunc registers fn as key decoder of K.
func AddKeyFunc[K any](m *Module, fn func(key string) (K, error)) *Module {
	return m.AddKeyDecoder(reflect.TypeFor[K](), func(key string) (reflect.Value, error) {
		v, err := fn(key)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(&v).Elem(), nil
	})
}

// AddAbstract maps interface A to concrete C.
func AddAbstract[A, C any](m *Module) *Module {
	return m.AddAbstractType(reflect.TypeFor[A](), reflect.TypeFor[C]())
}

// registry merges modules; later registrations override earlier ones.
type registry struct {
	strategies map[reflect.Type]Custom
	abstract   map[reflect.Type]reflect.Type
	enums      map[reflect.Type][]reflect.Value
	keys       map[reflect.Type]KeyDecoder
}

func newRegistry(modules []*Module) (*registry, []databind.Option) {
	ret := &registry{
		strategies: map[reflect.Type]Custom{},
		abstract:   map[reflect.Type]reflect.Type{},
		enums:      map[reflect.Type][]reflect.Value{},
		keys:       map[reflect.Type]KeyDecoder{},
	}
	var creators []databind.Option
	for _, m := range modules {
		for t, s := range m.strategies {
			ret.strategies[t] = s
		}
		for t, c := range m.abstract {
			ret.abstract[t] = c
		}
		for t, v := range m.enums {
			ret.enums[t] = v
		}
		for t, k := range m.keys {
			ret.keys[t] = k
		}
		for t, c := range m.creators {
			creators = append(creators, databind.WithCreators(t, c...))
		}
	}
	return ret, creators
}

func (r *registry) overrides(t reflect.Type) bool {
	if _, ok := r.strategies[t]; ok {
		return true
	}
	_, ok := r.enums[t]
	return ok
}
