package databind

import (
	"reflect"

	"github.com/viant/tagly/format/text"
)

// Option configures an Introspector.
type Option interface{ apply(*Introspector) }

type optionFn func(*Introspector)

func (o optionFn) apply(i *Introspector) { o(i) }

// WithCaseFormat adds case formatted aliases for properties without an explicit name.
func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return optionFn(func(i *Introspector) { i.caseFormat = caseFormat })
}

// WithCreators registers creators for t in addition to those declared by the type itself.
func WithCreators(t reflect.Type, creators ...*Creator) Option {
	return optionFn(func(i *Introspector) {
		i.creators[t] = append(i.creators[t], creators...)
	})
}

// WithCacheSize sets number of cached descriptions.
func WithCacheSize(size int) Option {
	return optionFn(func(i *Introspector) { i.cacheSize = size })
}
