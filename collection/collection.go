// Package collection defines abstract collection types and the defaults they are reconstructed as.
package collection

import (
	"cmp"
	"iter"
	"slices"

	"github.com/viant/databind/deserialize"
)

// Sequence is an ordered collection allowing duplicates.
type Sequence[E any] interface {
	Add(e E)
	Len() int
	All() iter.Seq[E]
}

// Set is a collection of distinct elements.
type Set[E comparable] interface {
	Add(e E)
	Contains(e E) bool
	Len() int
	All() iter.Seq[E]
}

// SortedSet is a set iterated in ascending order.
type SortedSet[E cmp.Ordered] interface {
	Set[E]
	First() (E, bool)
	Last() (E, bool)
}

// List is the default Sequence.
type List[E any] struct {
	items []E
}

// Add appends e.
func (l *List[E]) Add(e E) { l.items = append(l.items, e) }

// Len returns number of elements.
func (l *List[E]) Len() int { return len(l.items) }

// At returns element at index.
func (l *List[E]) At(index int) E { return l.items[index] }

// Items returns elements in insertion order.
func (l *List[E]) Items() []E { return l.items }

// All iterates elements in insertion order.
func (l *List[E]) All() iter.Seq[E] { return slices.Values(l.items) }

// HashSet is the default Set; iteration follows first insertion order.
type HashSet[E comparable] struct {
	index map[E]struct{}
	items []E
}

// Add inserts e unless present.
func (s *HashSet[E]) Add(e E) {
	if s.index == nil {
		s.index = map[E]struct{}{}
	}
	if _, ok := s.index[e]; ok {
		return
	}
	s.index[e] = struct{}{}
	s.items = append(s.items, e)
}

// Contains returns true when e is present.
func (s *HashSet[E]) Contains(e E) bool {
	_, ok := s.index[e]
	return ok
}

// Len returns number of elements.
func (s *HashSet[E]) Len() int { return len(s.items) }

// Items returns elements in insertion order.
func (s *HashSet[E]) Items() []E { return s.items }

// All iterates elements in insertion order.
func (s *HashSet[E]) All() iter.Seq[E] { return slices.Values(s.items) }

// TreeSet is the default SortedSet.
type TreeSet[E cmp.Ordered] struct {
	items []E
}

// Add inserts e keeping ascending order.
func (s *TreeSet[E]) Add(e E) {
	i, found := slices.BinarySearch(s.items, e)
	if found {
		return
	}
	s.items = slices.Insert(s.items, i, e)
}

// Contains returns true when e is present.
func (s *TreeSet[E]) Contains(e E) bool {
	_, found := slices.BinarySearch(s.items, e)
	return found
}

// Len returns number of elements.
func (s *TreeSet[E]) Len() int { return len(s.items) }

// Items returns elements in ascending order.
func (s *TreeSet[E]) Items() []E { return s.items }

// All iterates elements in ascending order.
func (s *TreeSet[E]) All() iter.Seq[E] { return slices.Values(s.items) }

// First returns the smallest element.
func (s *TreeSet[E]) First() (E, bool) {
	if len(s.items) == 0 {
		var zero E
		return zero, false
	}
	return s.items[0], true
}

// Last returns the largest element.
func (s *TreeSet[E]) Last() (E, bool) {
	if len(s.items) == 0 {
		var zero E
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// RegisterSequence maps Sequence[E] to *List[E].
func RegisterSequence[E any](m *deserialize.Module) *deserialize.Module {
	return deserialize.AddAbstract[Sequence[E], *List[E]](m)
}

// Register maps Sequence[E] to *List[E] and Set[E] to *HashSet[E].
func Register[E comparable](m *deserialize.Module) *deserialize.Module {
	RegisterSequence[E](m)
	return deserialize.AddAbstract[Set[E], *HashSet[E]](m)
}

// RegisterSorted additionally maps SortedSet[E] to *TreeSet[E].
func RegisterSorted[E cmp.Ordered](m *deserialize.Module) *deserialize.Module {
	Register[E](m)
	return deserialize.AddAbstract[SortedSet[E], *TreeSet[E]](m)
}
