package chunk

import "reflect"

// Values is the reflective counterpart of Builder for element types known only at runtime.
// Chunks are reflect.Value slices of the element type.
type Values struct {
	sliceType reflect.Type
	chunks    []reflect.Value
	count     int
	free      reflect.Value
}

// NewValues creates a builder producing slices of type sliceType.
func NewValues(sliceType reflect.Type) *Values {
	return &Values{sliceType: sliceType}
}

// Type returns produced slice type.
func (v *Values) Type() reflect.Type { return v.sliceType }

// Start resets the builder and returns the first chunk.
func (v *Values) Start() reflect.Value {
	v.reset()
	if v.free.IsValid() {
		ret := v.free
		v.free = reflect.Value{}
		return ret
	}
	return reflect.MakeSlice(v.sliceType, InitialSize, InitialSize)
}

// Append retains a filled chunk and returns the next one.
func (v *Values) Append(full reflect.Value) reflect.Value {
	v.chunks = append(v.chunks, full)
	v.count += full.Len()
	size := NextSize(full.Len())
	return reflect.MakeSlice(v.sliceType, size, size)
}

// Complete returns all appended elements followed by the first n elements of last.
func (v *Values) Complete(last reflect.Value, n int) reflect.Value {
	total := v.count + n
	ret := reflect.MakeSlice(v.sliceType, total, total)
	offset := 0
	for _, c := range v.chunks {
		offset += reflect.Copy(ret.Slice(offset, total), c)
	}
	if n > 0 {
		reflect.Copy(ret.Slice(offset, total), last.Slice(0, n))
	}
	v.recycle(last)
	return ret
}

func (v *Values) recycle(last reflect.Value) {
	largest := last
	for _, c := range v.chunks {
		if !largest.IsValid() || c.Len() > largest.Len() {
			largest = c
		}
	}
	if largest.IsValid() {
		largest.Clear()
		if !v.free.IsValid() || largest.Len() > v.free.Len() {
			v.free = largest
		}
	}
	v.reset()
}

func (v *Values) reset() {
	clear(v.chunks)
	v.chunks = v.chunks[:0]
	v.count = 0
}
