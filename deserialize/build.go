package deserialize

import (
	"encoding"
	"reflect"

	"github.com/viant/databind"
	"github.com/viant/databind/tree"
)

var (
	unmarshalerType     = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	jsonUnmarshalerType = reflect.TypeOf((*jsonUnmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	nodeType            = reflect.TypeOf(tree.Node{})
	objectType          = reflect.TypeOf(tree.Object{})
)

// builder resolves strategies for one Strategy call under the mapper build lock.
// Every strategy that can take part in a cycle is registered as pending before
// its children resolve; pending strategies are published only when the whole graph resolved.
type builder struct {
	m       *Mapper
	pending map[databind.Type]*Strategy
	order   []databind.Type
}

func newBuilder(m *Mapper) *builder {
	return &builder{m: m, pending: map[databind.Type]*Strategy{}}
}

func (b *builder) strategy(t reflect.Type) (*Strategy, error) {
	key := databind.TypeFor(t)
	if s, ok := b.m.cache.Find(key); ok {
		return s, nil
	}
	if s, ok := b.pending[key]; ok {
		return s, nil
	}
	if !b.m.registry.overrides(t) {
		if s := staticStrategy(t); s != nil {
			return s, nil
		}
	}
	return b.create(t)
}

func (b *builder) register(kind Kind, t reflect.Type) *Strategy {
	s := newStrategy(kind, t)
	key := databind.TypeFor(t)
	b.pending[key] = s
	b.order = append(b.order, key)
	return s
}

func (b *builder) commit() {
	for _, key := range b.order {
		s := b.pending[key]
		s.state.Store(int32(Ready))
		b.m.logger.Debug("strategy built", "type", key.String(), "kind", s.kind.String())
	}
	b.m.cache.insertAll(b.pending)
}

func (b *builder) create(t reflect.Type) (*Strategy, error) {
	reg := b.m.registry
	if custom, ok := reg.strategies[t]; ok {
		s := b.register(KindCustom, t)
		s.custom = custom
		s.state.Store(int32(Resolved))
		return s, nil
	}
	if values, ok := reg.enums[t]; ok {
		s := b.register(KindEnum, t)
		s.enum = newEnumStrategy(t, values)
		s.state.Store(int32(Resolved))
		return s, nil
	}
	switch t {
	case nodeType, objectType:
		s := b.register(KindTree, t)
		s.tree = &treeStrategy{object: t == objectType}
		s.state.Store(int32(Resolved))
		return s, nil
	}
	if concrete, ok := reg.abstract[t]; ok {
		return b.abstract(t, concrete)
	}
	if b.m.introspector.HasCreators(t) {
		return b.structured(t)
	}
	if custom := interfaceStrategy(t); custom != nil {
		s := b.register(KindCustom, t)
		s.custom = custom
		s.state.Store(int32(Resolved))
		return s, nil
	}
	switch t.Kind() {
	case reflect.Pointer:
		if declaresCreators(t) {
			return b.structured(t)
		}
		return b.pointer(t)
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return untypedStrategy, nil
		}
		if declaresCreators(t) {
			return b.structured(t)
		}
		if isAddable(t) {
			return nil, unsupported(t, "abstract container type without registered concrete type")
		}
		return nil, unsupported(t, "abstract type without registered concrete type or creators")
	case reflect.Struct:
		if isAddable(reflect.PointerTo(t)) {
			return b.collection(t)
		}
		return b.structured(t)
	case reflect.Slice:
		if isAddable(reflect.PointerTo(t)) {
			return b.collection(t)
		}
		return b.array(t)
	case reflect.Array:
		return b.array(t)
	case reflect.Map:
		if t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0 {
			return b.set(t)
		}
		return b.mapping(t)
	}
	if shared := scalarByKind(t); shared != nil {
		s := b.register(KindScalar, t)
		s.scalar = shared.scalar
		s.state.Store(int32(Resolved))
		return s, nil
	}
	return nil, unsupported(t, "no strategy for kind %v", t.Kind())
}

// declaresCreators returns true when a pointer or interface type is the creation target of its own provider.
func declaresCreators(t reflect.Type) bool {
	if t.Kind() == reflect.Interface {
		return false
	}
	base := t.Elem()
	if !reflect.PointerTo(base).Implements(creatorProviderType) {
		return false
	}
	provider := reflect.New(base).Interface().(databind.CreatorProvider)
	for _, c := range provider.Creators() {
		if c != nil && c.Type() == t {
			return true
		}
	}
	return false
}

var creatorProviderType = reflect.TypeOf((*databind.CreatorProvider)(nil)).Elem()

func (b *builder) pointer(t reflect.Type) (*Strategy, error) {
	s := b.register(KindReference, t)
	elem, err := b.strategy(t.Elem())
	if err != nil {
		return nil, err
	}
	s.reference = &referenceStrategy{rType: t, concrete: t.Elem(), elem: elem, pointer: true}
	s.state.Store(int32(Resolved))
	return s, nil
}

func (b *builder) abstract(t, concrete reflect.Type) (*Strategy, error) {
	if t.Kind() != reflect.Interface {
		return nil, unsupported(t, "abstract type mapping requires an interface type")
	}
	if !concrete.Implements(t) {
		return nil, unsupported(t, "mapped concrete type %v does not implement it", concrete)
	}
	s := b.register(KindReference, t)
	elem, err := b.strategy(concrete)
	if err != nil {
		return nil, err
	}
	s.reference = &referenceStrategy{rType: t, concrete: concrete, elem: elem}
	s.state.Store(int32(Resolved))
	return s, nil
}

func (b *builder) array(t reflect.Type) (*Strategy, error) {
	s := b.register(KindArray, t)
	elem, err := b.strategy(t.Elem())
	if err != nil {
		return nil, err
	}
	s.array = newArrayStrategy(t, elem)
	s.state.Store(int32(Resolved))
	return s, nil
}

func (b *builder) collection(t reflect.Type) (*Strategy, error) {
	add, elemType, ok := addMethod(reflect.PointerTo(t))
	if !ok {
		return nil, unsupported(t, "invalid Add method")
	}
	s := b.register(KindCollection, t)
	elem, err := b.strategy(elemType)
	if err != nil {
		return nil, err
	}
	s.collection = &collectionStrategy{rType: t, elemType: elemType, elem: elem, add: add}
	s.state.Store(int32(Resolved))
	return s, nil
}

// set builds map[K]struct{} strategy reading arrays of keys, or objects whose values are ignored.
func (b *builder) set(t reflect.Type) (*Strategy, error) {
	key, err := b.keyDecoder(t.Key())
	if err != nil {
		return nil, err
	}
	s := b.register(KindCollection, t)
	elem, err := b.strategy(t.Key())
	if err != nil {
		return nil, err
	}
	value := readyStrategy(KindCustom, t.Elem())
	value.custom = CustomFunc(skipSetValue)
	s.collection = &collectionStrategy{rType: t, elemType: t.Key(), elem: elem, add: setAdd,
		object: &mapStrategy{rType: t, key: key, value: value}}
	s.state.Store(int32(Resolved))
	return s, nil
}

func (b *builder) mapping(t reflect.Type) (*Strategy, error) {
	key, err := b.keyDecoder(t.Key())
	if err != nil {
		return nil, err
	}
	s := b.register(KindMap, t)
	value, err := b.strategy(t.Elem())
	if err != nil {
		return nil, err
	}
	s.mapping = &mapStrategy{rType: t, key: key, value: value}
	s.state.Store(int32(Resolved))
	return s, nil
}
