package deserialize

import (
	"reflect"
	"strings"
	"unsafe"

	"github.com/viant/databind"
	"github.com/viant/databind/token"
)

type propertyStrategy struct {
	property *databind.Property
	value    *Strategy
}

type paramStrategy struct {
	param databind.Param
	index int
	value *Strategy
}

// structuredStrategy reconstructs struct values and types constructed by creators.
// Object input uses the delegating creator, then the properties creator, then the default creator.
// Scalar input uses the matching scalar creator or falls back to the delegating creator.
type structuredStrategy struct {
	rType      reflect.Type
	desc       *databind.Description
	properties []*propertyStrategy
	any        *Strategy
	params     []*paramStrategy
	paramIndex map[string]int
	delegate   *Strategy
	abstract   bool
	pointer    bool
}

func (b *builder) structured(t reflect.Type) (*Strategy, error) {
	desc, err := b.m.introspector.Describe(t)
	if err != nil {
		return nil, &UnsupportedTypeError{Type: t, Reason: err.Error()}
	}
	abstract := t.Kind() == reflect.Interface
	if abstract && !desc.Creators.Any() {
		return nil, unsupported(t, "abstract type without registered concrete type or creators")
	}
	s := b.register(KindStructured, t)
	ret := &structuredStrategy{rType: t, desc: desc, abstract: abstract, pointer: t.Kind() == reflect.Pointer, paramIndex: map[string]int{}}
	s.structured = ret
	for _, p := range desc.Properties {
		value, err := b.propertyStrategy(p)
		if err != nil {
			return nil, err
		}
		ret.properties = append(ret.properties, &propertyStrategy{property: p, value: value})
	}
	switch {
	case desc.Any != nil:
		if ret.any, err = b.strategy(desc.Any.Type.Elem()); err != nil {
			return nil, err
		}
	case desc.AnySetter:
		ret.any = untypedStrategy
	}
	if creator := desc.Creators.Properties; creator != nil {
		for i, param := range creator.Params() {
			value, err := b.strategy(param.Type)
			if err != nil {
				return nil, err
			}
			ret.params = append(ret.params, &paramStrategy{param: param, index: i, value: value})
			ret.paramIndex[param.Name] = i
		}
	}
	if creator := desc.Creators.Delegating; creator != nil {
		if ret.delegate, err = b.strategy(creator.Delegate()); err != nil {
			return nil, err
		}
	}
	s.state.Store(int32(Resolved))
	return s, nil
}

func (b *builder) propertyStrategy(p *databind.Property) (*Strategy, error) {
	if p.TimeLayout == "" || !databind.IsTime(p.Type) {
		return b.strategy(p.Type)
	}
	switch {
	case p.Type == timeType:
		return newTimeStrategy(p.TimeLayout), nil
	case p.Type.Kind() == reflect.Pointer && p.Type.Elem() == timeType:
		ret := readyStrategy(KindReference, p.Type)
		ret.reference = &referenceStrategy{rType: p.Type, concrete: timeType, elem: newTimeStrategy(p.TimeLayout), pointer: true}
		return ret, nil
	}
	return b.strategy(p.Type)
}

func (s *structuredStrategy) decode(ctx *Context, dst reflect.Value) error {
	tok := ctx.Token()
	creators := &s.desc.Creators
	switch tok.Kind {
	case token.ObjectStart:
		switch {
		case creators.Delegating != nil:
			return s.delegated(ctx, dst)
		case creators.Properties != nil:
			return s.decodeWithCreator(ctx, dst)
		}
		return s.decodeDefault(ctx, dst)
	case token.Null:
		dst.SetZero()
		return nil
	case token.String, token.Int, token.Float:
		return s.decodeScalar(ctx, dst, tok)
	}
	if creators.Delegating != nil && tok.Kind != token.FieldName && !tok.Kind.IsEnd() {
		return s.delegated(ctx, dst)
	}
	return ctx.unexpectedToken(s.rType)
}

func (s *structuredStrategy) decodeScalar(ctx *Context, dst reflect.Value, tok token.Token) error {
	creators := &s.desc.Creators
	var creator *databind.Creator
	var arg any
	switch tok.Kind {
	case token.String:
		if creators.String != nil {
			creator, arg = creators.String, tok.Text
		}
	case token.Int:
		if v, err := tok.Int32(); err == nil && creators.Int32 != nil {
			creator, arg = creators.Int32, v
		} else if v, err := tok.Int64(); err == nil && creators.Int64 != nil {
			creator, arg = creators.Int64, v
		} else if v, err := tok.Float64(); err == nil && creators.Float != nil && creators.Delegating == nil {
			creator, arg = creators.Float, v
		}
	case token.Float:
		if v, err := tok.Float64(); err == nil && creators.Float != nil {
			creator, arg = creators.Float, v
		}
	}
	if creator == nil {
		if creators.Delegating != nil {
			return s.delegated(ctx, dst)
		}
		if tok.Kind == token.String && tok.Text == "" && ctx.Enabled(AcceptEmptyStringAsNull) {
			dst.SetZero()
			return nil
		}
		return ctx.mappingError(s.rType, "cannot construct instance of %v: no %v creator to deserialize from %v value %q", s.rType, scalarCreatorKind(tok), tok.Kind, tok.Text)
	}
	ret, err := creator.Call(arg)
	if err != nil {
		return ctx.instantiationError(s.rType, err)
	}
	value, err := s.result(ctx, ret)
	if err != nil {
		return err
	}
	dst.Set(value)
	return nil
}

func scalarCreatorKind(tok token.Token) databind.CreatorKind {
	switch tok.Kind {
	case token.Int:
		if tok.NumberType() == token.Int32Number {
			return databind.CreatorInt32
		}
		return databind.CreatorInt64
	case token.Float:
		return databind.CreatorFloat
	}
	return databind.CreatorString
}

// delegated reconstructs the delegate value and passes it to the delegating creator.
func (s *structuredStrategy) delegated(ctx *Context, dst reflect.Value) error {
	creator := s.desc.Creators.Delegating
	arg := reflect.New(creator.Delegate()).Elem()
	if err := s.delegate.decode(ctx, arg); err != nil {
		return err
	}
	ret, err := creator.Call(arg.Interface())
	if err != nil {
		return ctx.instantiationError(s.rType, err)
	}
	value, err := s.result(ctx, ret)
	if err != nil {
		return err
	}
	dst.Set(value)
	return nil
}

// result validates a creator result against the strategy type.
func (s *structuredStrategy) result(ctx *Context, ret any) (reflect.Value, error) {
	if ret == nil {
		return reflect.Value{}, ctx.instantiationError(s.rType, errNilInstance)
	}
	value := reflect.ValueOf(ret)
	if value.Kind() == reflect.Pointer && value.IsNil() {
		return reflect.Value{}, ctx.instantiationError(s.rType, errNilInstance)
	}
	if !value.Type().AssignableTo(s.rType) {
		return reflect.Value{}, ctx.mappingError(s.rType, "creator of %v returned %v", s.rType, value.Type())
	}
	return value, nil
}

// decodeDefault creates or reuses the instance, then populates it from the object.
func (s *structuredStrategy) decodeDefault(ctx *Context, dst reflect.Value) error {
	creator := s.desc.Creators.Default
	if s.abstract {
		if creator == nil {
			return ctx.mappingError(s.rType, "cannot construct instance of %v: abstract types need a registered concrete type or creators", s.rType)
		}
		ret, err := creator.Call(nil)
		if err != nil {
			return ctx.instantiationError(s.rType, err)
		}
		instance, err := s.result(ctx, ret)
		if err != nil {
			return err
		}
		return s.polymorphic(ctx, dst, instance, nil, s.memberNames(ctx), true)
	}
	holder := dst
	switch {
	case creator != nil && (!s.pointer || dst.IsNil()):
		ret, err := creator.Call(nil)
		if err != nil {
			return ctx.instantiationError(s.rType, err)
		}
		value, err := s.result(ctx, ret)
		if err != nil {
			return err
		}
		dst.Set(value)
	case s.pointer && dst.IsNil():
		dst.Set(reflect.New(s.rType.Elem()))
	}
	if s.pointer {
		holder = dst.Elem()
	}
	if holder.Kind() != reflect.Struct {
		return ctx.unexpectedToken(s.rType)
	}
	if s.desc.Initializer {
		if err := holder.Addr().Interface().(databind.Initializer).Initialize(); err != nil {
			return ctx.instantiationError(s.rType, err)
		}
	}
	return s.populate(ctx, holder, s.memberNames(ctx))
}

// memberNames returns a set tracking member names when duplicates are rejected, nil otherwise.
func (s *structuredStrategy) memberNames(ctx *Context) map[string]bool {
	if ctx.Enabled(FailOnDuplicateKeys) {
		return map[string]bool{}
	}
	return nil
}

// visit records name in seen, failing when it was already read.
func (s *structuredStrategy) visit(ctx *Context, seen map[string]bool, name string) error {
	if seen == nil {
		return nil
	}
	if seen[name] {
		return ctx.mappingError(s.rType, "duplicate field %q", name)
	}
	seen[name] = true
	return nil
}

// populate reads object members into holder until the closing token. The cursor may be
// on the object start or on the last token of a previously read member; seen holds names
// already read from the same object.
func (s *structuredStrategy) populate(ctx *Context, holder reflect.Value, seen map[string]bool) error {
	ptr := holder.Addr().UnsafePointer()
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
		if err = s.visit(ctx, seen, name); err != nil {
			return err
		}
		if _, err = ctx.Next(); err != nil {
			return err
		}
		if err = s.member(ctx, holder, ptr, name); err != nil {
			return err
		}
	}
}

func (s *structuredStrategy) member(ctx *Context, holder reflect.Value, ptr unsafe.Pointer, name string) error {
	ctx.pushField(name)
	defer ctx.pop()
	if p := s.lookup(ctx, name); p != nil {
		if err := p.value.decode(ctx, p.property.Value(ptr)); err != nil {
			return err
		}
		s.desc.MarkPresent(ptr, p.property)
		return nil
	}
	if s.desc.IsIgnored(name) {
		return ctx.Skip()
	}
	if s.any != nil {
		value := reflect.New(s.anyType()).Elem()
		if err := s.any.decode(ctx, value); err != nil {
			return err
		}
		return s.setAny(ctx, holder, ptr, name, value)
	}
	return ctx.unknownProperty(holder, s.rType, name, s.desc.Names())
}

func (s *structuredStrategy) lookup(ctx *Context, name string) *propertyStrategy {
	if p := s.desc.Lookup(name, ctx.Enabled(CaseInsensitiveProperties)); p != nil {
		return s.properties[p.Index]
	}
	return nil
}

func (s *structuredStrategy) anyType() reflect.Type {
	if s.desc.Any != nil {
		return s.desc.Any.Type.Elem()
	}
	return untypedStrategy.rType
}

func (s *structuredStrategy) setAny(ctx *Context, holder reflect.Value, ptr unsafe.Pointer, name string, value reflect.Value) error {
	if field := s.desc.Any; field != nil {
		m := field.Value(ptr)
		if m.IsNil() {
			m.Set(reflect.MakeMap(field.Type))
		}
		m.SetMapIndex(reflect.ValueOf(name).Convert(field.Type.Key()), value)
		return nil
	}
	if err := holder.Addr().Interface().(databind.AnySetter).SetProperty(name, value.Interface()); err != nil {
		mErr := ctx.mappingError(s.rType, "cannot set property %q of %v", name, s.rType)
		mErr.Err = err
		return mErr
	}
	return nil
}

func (s *structuredStrategy) param(ctx *Context, name string) (*paramStrategy, bool) {
	if i, ok := s.paramIndex[name]; ok {
		return s.params[i], true
	}
	if ctx.Enabled(CaseInsensitiveProperties) {
		for _, p := range s.params {
			if strings.EqualFold(p.param.Name, name) {
				return p, true
			}
		}
	}
	return nil, false
}

// decodeWithCreator gathers creator parameters, buffering other members, and builds the
// instance as soon as every parameter is known. Remaining members are read directly.
func (s *structuredStrategy) decodeWithCreator(ctx *Context, dst reflect.Value) error {
	buffer := newPropertyBuffer(s.params)
	seen := s.memberNames(ctx)
	for {
		kind, err := ctx.Next()
		if err != nil {
			return err
		}
		if kind == token.ObjectEnd {
			break
		}
		if kind != token.FieldName {
			return ctx.unexpectedToken(s.rType)
		}
		name := ctx.Token().Text
		if err = s.visit(ctx, seen, name); err != nil {
			return err
		}
		if _, err = ctx.Next(); err != nil {
			return err
		}
		complete, err := s.gather(ctx, buffer, name)
		if err != nil {
			return err
		}
		if complete {
			return s.finish(ctx, dst, buffer, seen, true)
		}
	}
	return s.finish(ctx, dst, buffer, seen, false)
}

func (s *structuredStrategy) gather(ctx *Context, buffer *propertyBuffer, name string) (bool, error) {
	ctx.pushField(name)
	defer ctx.pop()
	if p, ok := s.param(ctx, name); ok {
		value := reflect.New(p.param.Type).Elem()
		if err := p.value.decode(ctx, value); err != nil {
			return false, err
		}
		return buffer.assign(p.index, value), nil
	}
	if p := s.lookup(ctx, name); p != nil {
		value := reflect.New(p.property.Type).Elem()
		if err := p.value.decode(ctx, value); err != nil {
			return false, err
		}
		buffer.bufferProperty(p, value)
		return false, nil
	}
	if s.desc.IsIgnored(name) {
		return false, ctx.Skip()
	}
	if s.any != nil {
		value := reflect.New(s.anyType()).Elem()
		if err := s.any.decode(ctx, value); err != nil {
			return false, err
		}
		buffer.bufferAny(name, value)
		return false, nil
	}
	tokens := token.NewBuffer()
	if err := tokens.Copy(ctx.cursor); err != nil {
		return false, ctx.readError(err)
	}
	buffer.bufferRaw(name, tokens)
	return false, nil
}

// finish builds the instance, replays buffered members and, when live, reads the rest of the object.
func (s *structuredStrategy) finish(ctx *Context, dst reflect.Value, buffer *propertyBuffer, seen map[string]bool, live bool) error {
	instance, err := buffer.build(ctx, s)
	if err != nil {
		return err
	}
	if s.abstract {
		return s.polymorphic(ctx, dst, instance, buffer, seen, live)
	}
	dst.Set(instance)
	holder := dst
	if s.pointer {
		holder = dst.Elem()
	}
	if holder.Kind() != reflect.Struct {
		if len(buffer.entries) == 0 && !live {
			return nil
		}
		return ctx.mappingError(s.rType, "cannot populate properties of %v", s.rType)
	}
	if err = buffer.replay(ctx, s, holder); err != nil {
		return err
	}
	if live {
		return s.populate(ctx, holder, seen)
	}
	return nil
}

// polymorphic populates the runtime type of an abstract creator result: buffered raw
// members are replayed ahead of the rest of the live object through the concrete strategy.
func (s *structuredStrategy) polymorphic(ctx *Context, dst reflect.Value, instance reflect.Value, buffer *propertyBuffer, seen map[string]bool, live bool) error {
	runtime := instance.Type()
	var holder reflect.Value
	result := instance
	switch {
	case runtime.Kind() == reflect.Pointer && runtime.Elem().Kind() == reflect.Struct:
		holder = instance.Elem()
	case runtime.Kind() == reflect.Struct:
		result = reflect.New(runtime).Elem()
		result.Set(instance)
		holder = result
	}
	replay := token.NewBuffer()
	replay.Append(token.Token{Kind: token.ObjectStart})
	if buffer != nil {
		replay = buffer.replayTokens(seen)
	}
	pendingMembers := replay.Len() > 1
	if !holder.IsValid() {
		if pendingMembers || live {
			return ctx.mappingError(s.rType, "cannot populate properties of %v", runtime)
		}
		dst.Set(result)
		return nil
	}
	concrete, err := ctx.mapper.Strategy(databind.TypeFor(holder.Type()))
	if err != nil {
		return err
	}
	if concrete.kind != KindStructured {
		return ctx.mappingError(s.rType, "cannot populate properties of %v", runtime)
	}
	var cursor token.Cursor
	if live {
		cursor = token.Sequence(replay.Cursor(), ctx.cursor)
	} else {
		replay.Append(token.Token{Kind: token.ObjectEnd})
		cursor = replay.Cursor()
	}
	err = ctx.withCursor(cursor, func() error {
		if _, err := ctx.Next(); err != nil {
			return err
		}
		return concrete.structured.populate(ctx, holder, seen)
	})
	if err != nil {
		return err
	}
	dst.Set(result)
	return nil
}
