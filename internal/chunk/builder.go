// Package chunk collects sequences of unknown length in exponentially growing chunks.
package chunk

const (
	// InitialSize is the length of the first chunk.
	InitialSize = 12
	// SmallSize is the chunk length below which chunks double.
	SmallSize = 1 << 14
	// MaxSize is the chunk length at which growth stops.
	MaxSize = 1 << 18
)

// NextSize returns the length of the chunk following a full chunk of length size.
func NextSize(size int) int {
	switch {
	case size < InitialSize:
		return InitialSize
	case size < SmallSize:
		return size + size
	case size < MaxSize:
		return size + size>>2
	}
	return size
}

type node[T any] struct {
	data []T
	next *node[T]
}

// Builder assembles a []T from chunks: Start, Append for each filled chunk, then Complete.
// A Builder is not safe for concurrent use.
type Builder[T any] struct {
	head, tail *node[T]
	count      int
	free       []T
}

// NewBuilder creates a builder.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{}
}

// Start resets the builder and returns the first chunk, reusing the retained chunk if any.
func (b *Builder[T]) Start() []T {
	b.reset()
	if b.free != nil {
		ret := b.free
		b.free = nil
		return ret
	}
	return make([]T, InitialSize)
}

// Append retains a completely filled chunk and returns the next, larger one.
func (b *Builder[T]) Append(full []T) []T {
	n := &node[T]{data: full}
	if b.tail == nil {
		b.head = n
	} else {
		b.tail.next = n
	}
	b.tail = n
	b.count += len(full)
	return make([]T, NextSize(len(full)))
}

// Complete returns every appended element followed by the first n elements of last,
// in a slice of exact length and capacity. The largest chunk is kept for the next Start.
func (b *Builder[T]) Complete(last []T, n int) []T {
	total := b.count + n
	ret := make([]T, total)
	offset := 0
	for curr := b.head; curr != nil; curr = curr.next {
		offset += copy(ret[offset:], curr.data)
	}
	copy(ret[offset:], last[:n])
	b.recycle(last)
	return ret
}

// Count returns number of elements in appended chunks.
func (b *Builder[T]) Count() int { return b.count }

func (b *Builder[T]) recycle(last []T) {
	largest := last
	for curr := b.head; curr != nil; curr = curr.next {
		if len(curr.data) > len(largest) {
			largest = curr.data
		}
	}
	if largest != nil {
		clear(largest)
		if len(largest) > len(b.free) {
			b.free = largest
		}
	}
	b.reset()
}

func (b *Builder[T]) reset() {
	b.head, b.tail = nil, nil
	b.count = 0
}
