package databind

import (
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

// SetMarkerTag marks a struct field (struct or pointer to struct of bool fields) holding presence flags.
const SetMarkerTag = "setMarker"

// IsSetMarker returns true when the field tag declares a presence holder.
func IsSetMarker(tag reflect.StructTag) bool {
	return tag.Get(SetMarkerTag) == "true"
}

// Marker records which properties were present in input.
type Marker struct {
	holder     *xunsafe.Field
	holderType reflect.Type
	flags      map[string]*xunsafe.Field //property field name -> flag
}

func newMarker(field reflect.StructField) *Marker {
	holderType := EnsureStruct(field.Type)
	if holderType == nil {
		return nil
	}
	ret := &Marker{holder: xunsafe.NewField(field), holderType: field.Type, flags: map[string]*xunsafe.Field{}}
	for i := 0; i < holderType.NumField(); i++ {
		flag := holderType.Field(i)
		if flag.Type.Kind() == reflect.Bool {
			ret.flags[flag.Name] = xunsafe.NewField(flag)
		}
	}
	return ret
}

// Mark sets presence flag of field, allocating a nil pointer holder.
func (m *Marker) Mark(holder unsafe.Pointer, field string) {
	flag, ok := m.flags[field]
	if !ok {
		return
	}
	flag.SetBool(m.flagsPointer(holder, true), true)
}

// IsSet returns presence flag of field; fields without a flag are reported as set.
func (m *Marker) IsSet(holder unsafe.Pointer, field string) bool {
	flag, ok := m.flags[field]
	if !ok {
		return true
	}
	ptr := m.flagsPointer(holder, false)
	if ptr == nil {
		return false
	}
	return flag.Bool(ptr)
}

func (m *Marker) flagsPointer(holder unsafe.Pointer, alloc bool) unsafe.Pointer {
	if m.holderType.Kind() != reflect.Pointer {
		return m.holder.Pointer(holder)
	}
	if ptr := m.holder.ValuePointer(holder); ptr != nil || !alloc {
		return ptr
	}
	m.holder.SetValue(holder, reflect.New(m.holderType.Elem()).Interface())
	return m.holder.ValuePointer(holder)
}
