// Package tree holds generic containers produced by untyped reconstruction.
package tree

import (
	"bytes"
	"iter"

	"github.com/goccy/go-json"
)

// Object is an insertion ordered string keyed map.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an object with capacity hint.
func NewObject(capacity int) *Object {
	return &Object{keys: make([]string, 0, capacity), values: make(map[string]any, capacity)}
}

// Set stores value under key and returns the previous value, if any.
// An existing key keeps its original position.
func (o *Object) Set(key string, value any) (any, bool) {
	if o.values == nil {
		o.values = map[string]any{}
	}
	prev, ok := o.values[key]
	if !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return prev, ok
}

// Get returns value for key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Delete removes key.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Len returns number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns keys in insertion order.
func (o *Object) Keys() []string { return o.keys }

// All iterates entries in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// Map returns entries as a plain map.
func (o *Object) Map() map[string]any {
	ret := make(map[string]any, len(o.keys))
	for k, v := range o.values {
		ret[k] = v
	}
	return ret
}

// MarshalJSON encodes entries in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
