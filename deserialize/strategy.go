package deserialize

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// Kind identifies strategy variant.
type Kind int

const (
	KindScalar Kind = iota
	KindArray
	KindCollection
	KindMap
	KindEnum
	KindTree
	KindStructured
	KindUntyped
	KindReference
	KindCustom
)

var kindNames = [...]string{"scalar", "array", "collection", "map", "enum", "tree", "structured", "untyped", "reference", "custom"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// State is strategy resolution state.
type State int32

const (
	// Unresolved strategies are registered but their children are not yet resolved.
	Unresolved State = iota
	// Resolved strategies have every child strategy linked but are not yet published.
	Resolved
	// Ready strategies are published and usable.
	Ready
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Strategy reconstructs values of one type.
type Strategy struct {
	kind  Kind
	rType reflect.Type
	state atomic.Int32

	scalar     *scalarStrategy
	array      *arrayStrategy
	collection *collectionStrategy
	mapping    *mapStrategy
	enum       *enumStrategy
	tree       *treeStrategy
	structured *structuredStrategy
	reference  *referenceStrategy
	custom     Custom
}

func newStrategy(kind Kind, t reflect.Type) *Strategy {
	return &Strategy{kind: kind, rType: t}
}

func readyStrategy(kind Kind, t reflect.Type) *Strategy {
	ret := newStrategy(kind, t)
	ret.state.Store(int32(Ready))
	return ret
}

// Kind returns strategy variant.
func (s *Strategy) Kind() Kind { return s.kind }

// Type returns the reconstructed type.
func (s *Strategy) Type() reflect.Type { return s.rType }

// State returns resolution state.
func (s *Strategy) State() State { return State(s.state.Load()) }

func (s *Strategy) String() string {
	return fmt.Sprintf("%v strategy of %v", s.kind, s.rType)
}

// decode reconstructs the value starting at the current token into addressable dst.
func (s *Strategy) decode(ctx *Context, dst reflect.Value) error {
	switch s.kind {
	case KindScalar:
		return s.scalar.decode(ctx, dst)
	case KindArray:
		return s.array.decode(ctx, dst)
	case KindCollection:
		return s.collection.decode(ctx, dst)
	case KindMap:
		return s.mapping.decode(ctx, dst)
	case KindEnum:
		return s.enum.decode(ctx, dst)
	case KindTree:
		return s.tree.decode(ctx, dst)
	case KindStructured:
		if s.State() != Ready {
			return fmt.Errorf("%v is %v", s, s.State())
		}
		return s.structured.decode(ctx, dst)
	case KindUntyped:
		return decodeUntyped(ctx, dst)
	case KindReference:
		return s.reference.decode(ctx, dst)
	case KindCustom:
		return s.custom.Decode(ctx, dst)
	}
	return fmt.Errorf("unsupported strategy kind: %v", s.kind)
}
