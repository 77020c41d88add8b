// Package databind describes Go types for type-directed reconstruction from token streams.
package databind

import (
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Type is a comparable, immutable descriptor of a target type.
type Type struct {
	rType reflect.Type
}

// TypeOf returns descriptor of T.
func TypeOf[T any]() Type {
	return Type{rType: reflect.TypeFor[T]()}
}

// TypeFor returns descriptor of t.
func TypeFor(t reflect.Type) Type {
	return Type{rType: t}
}

// SliceOf returns descriptor of a slice with elem elements.
func SliceOf(elem Type) Type {
	return Type{rType: reflect.SliceOf(elem.rType)}
}

// MapOf returns descriptor of a map.
func MapOf(key, elem Type) Type {
	return Type{rType: reflect.MapOf(key.rType, elem.rType)}
}

// PointerTo returns descriptor of a pointer to t.
func PointerTo(t Type) Type {
	return Type{rType: reflect.PointerTo(t.rType)}
}

// Reflect returns the underlying reflect type.
func (t Type) Reflect() reflect.Type { return t.rType }

// IsZero returns true for an empty descriptor.
func (t Type) IsZero() bool { return t.rType == nil }

// Kind returns the raw shape.
func (t Type) Kind() reflect.Kind {
	if t.rType == nil {
		return reflect.Invalid
	}
	return t.rType.Kind()
}

// Elem returns element type parameter of pointer, slice, array or map types.
func (t Type) Elem() Type {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return Type{rType: t.rType.Elem()}
	}
	return Type{}
}

// Key returns map key type.
func (t Type) Key() Type {
	if t.Kind() != reflect.Map {
		return Type{}
	}
	return Type{rType: t.rType.Key()}
}

// IsAbstract returns true for interface types.
func (t Type) IsAbstract() bool {
	return t.Kind() == reflect.Interface
}

func (t Type) String() string {
	if t.rType == nil {
		return "<nil>"
	}
	return t.rType.String()
}

// EnsureStruct returns struct type behind pointers or nil.
func EnsureStruct(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

// IsTime returns true for time.Time and pointers to it.
func IsTime(t reflect.Type) bool {
	return EnsureStruct(t) == timeType
}
