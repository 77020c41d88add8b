package deserialize

import (
	"reflect"

	"github.com/viant/databind"
	"github.com/viant/databind/token"
)

type entryKind int

const (
	regularEntry entryKind = iota
	anyEntry
	rawEntry
)

// bufferedEntry is a property read before its instance exists.
type bufferedEntry struct {
	kind     entryKind
	name     string
	property *propertyStrategy
	value    reflect.Value
	tokens   *token.Buffer
}

// propertyBuffer gathers properties creator parameters and defers every other
// property until the instance is built; entries replay in arrival order.
type propertyBuffer struct {
	params    []*paramStrategy
	values    []reflect.Value
	assigned  []bool
	remaining int
	entries   []bufferedEntry
}

func newPropertyBuffer(params []*paramStrategy) *propertyBuffer {
	return &propertyBuffer{
		params:    params,
		values:    make([]reflect.Value, len(params)),
		assigned:  make([]bool, len(params)),
		remaining: len(params),
	}
}

// assign stores parameter value and returns true once every parameter is assigned.
func (b *propertyBuffer) assign(index int, value reflect.Value) bool {
	if !b.assigned[index] {
		b.assigned[index] = true
		b.remaining--
	}
	b.values[index] = value
	return b.remaining == 0
}

func (b *propertyBuffer) bufferProperty(p *propertyStrategy, value reflect.Value) {
	b.entries = append(b.entries, bufferedEntry{kind: regularEntry, name: p.property.Name, property: p, value: value})
}

func (b *propertyBuffer) bufferAny(name string, value reflect.Value) {
	b.entries = append(b.entries, bufferedEntry{kind: anyEntry, name: name, value: value})
}

func (b *propertyBuffer) bufferRaw(name string, tokens *token.Buffer) {
	b.entries = append(b.entries, bufferedEntry{kind: rawEntry, name: name, tokens: tokens})
}

// build calls the properties creator with gathered parameters; absent parameters get zero values
// unless required.
func (b *propertyBuffer) build(ctx *Context, s *structuredStrategy) (reflect.Value, error) {
	creator := s.desc.Creators.Properties
	args := databind.NewArgs(creator.Params())
	for i, p := range b.params {
		if b.assigned[i] {
			args.Set(i, b.values[i].Interface())
			continue
		}
		if p.param.Required || ctx.Enabled(FailOnMissingCreatorProperties) {
			return reflect.Value{}, ctx.mappingError(s.rType, "missing required creator property %q (index %d) of %v", p.param.Name, i, s.rType)
		}
		args.SetDefault(i, reflect.Zero(p.param.Type).Interface())
	}
	ret, err := creator.Call(args)
	if err != nil {
		return reflect.Value{}, ctx.instantiationError(s.rType, err)
	}
	return s.result(ctx, ret)
}

// replay applies regular and any entries to holder; raw entries go through unknown property handling.
func (b *propertyBuffer) replay(ctx *Context, s *structuredStrategy, holder reflect.Value) error {
	ptr := holder.Addr().UnsafePointer()
	for _, e := range b.entries {
		switch e.kind {
		case regularEntry:
			e.property.property.Value(ptr).Set(e.value)
			s.desc.MarkPresent(ptr, e.property.property)
		case anyEntry:
			if err := s.setAny(ctx, holder, ptr, e.name, e.value); err != nil {
				return err
			}
		case rawEntry:
			err := ctx.withCursor(e.tokens.Cursor(), func() error {
				if _, err := ctx.Next(); err != nil {
					return err
				}
				ctx.pushField(e.name)
				defer ctx.pop()
				return ctx.unknownProperty(holder, s.rType, e.name, s.desc.Names())
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// replayTokens returns tokens of a synthetic object holding raw entries; the object is left open.
// Replayed names are removed from seen as they are read again.
func (b *propertyBuffer) replayTokens(seen map[string]bool) *token.Buffer {
	ret := token.NewBuffer()
	ret.Append(token.Token{Kind: token.ObjectStart})
	for _, e := range b.entries {
		if e.kind != rawEntry {
			continue
		}
		delete(seen, e.name)
		ret.AppendName(e.name)
		ret.AppendBuffer(e.tokens)
	}
	return ret
}
