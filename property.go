package databind

import (
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

// Property is an injectable struct property. Field holds the Go field path,
// e.g. Meta.TraceID for an inlined struct.
type Property struct {
	Name       string
	Field      string
	Type       reflect.Type
	Index      int
	Required   bool
	TimeLayout string
	leaf       string
	chain      []*xunsafe.Field
}

// Pointer returns address of the property within holder, allocating nil inlined struct pointers.
func (p *Property) Pointer(holder unsafe.Pointer) unsafe.Pointer {
	current := holder
	last := len(p.chain) - 1
	for i, f := range p.chain {
		ptr := f.Pointer(current)
		if i == last {
			return ptr
		}
		if f.Type.Kind() == reflect.Pointer {
			next := (*unsafe.Pointer)(ptr)
			if *next == nil {
				*next = reflect.New(f.Type.Elem()).UnsafePointer()
			}
			current = *next
			continue
		}
		current = ptr
	}
	return current
}

// Value returns an addressable value of the property within holder.
func (p *Property) Value(holder unsafe.Pointer) reflect.Value {
	return reflect.NewAt(p.Type, p.Pointer(holder)).Elem()
}
