package chunk

import "reflect"

type lease struct {
	builder any
	leased  bool
}

// Pool leases builders for the duration of one array build.
// A builder that is already leased (nested arrays of the same element type) is never handed out twice;
// a transient builder is returned instead. A Pool is owned by one goroutine at a time.
type Pool struct {
	typed  map[reflect.Type]*lease
	values map[reflect.Type]*lease
}

// NewPool creates a pool.
func NewPool() *Pool {
	return &Pool{typed: map[reflect.Type]*lease{}, values: map[reflect.Type]*lease{}}
}

// Lease returns a typed builder for T.
func Lease[T any](p *Pool) *Builder[T] {
	key := reflect.TypeFor[T]()
	e, ok := p.typed[key]
	if !ok {
		e = &lease{builder: NewBuilder[T]()}
		p.typed[key] = e
	}
	if e.leased {
		return NewBuilder[T]()
	}
	e.leased = true
	return e.builder.(*Builder[T])
}

// Return releases a builder obtained with Lease.
func Return[T any](p *Pool, b *Builder[T]) {
	if e, ok := p.typed[reflect.TypeFor[T]()]; ok && e.builder == b {
		e.leased = false
	}
}

// Values returns a reflective builder producing sliceType.
func (p *Pool) Values(sliceType reflect.Type) *Values {
	e, ok := p.values[sliceType]
	if !ok {
		e = &lease{builder: NewValues(sliceType)}
		p.values[sliceType] = e
	}
	if e.leased {
		return NewValues(sliceType)
	}
	e.leased = true
	return e.builder.(*Values)
}

// ReturnValues releases a builder obtained with Values.
func (p *Pool) ReturnValues(v *Values) {
	if e, ok := p.values[v.sliceType]; ok && e.builder == v {
		e.leased = false
	}
}

// Reset releases every lease.
func (p *Pool) Reset() {
	for _, e := range p.typed {
		e.leased = false
	}
	for _, e := range p.values {
		e.leased = false
	}
}
