package json

import (
	"context"
	"log/slog"

	"github.com/viant/tagly/format"
	"github.com/viant/tagly/format/text"

	"github.com/viant/databind/deserialize"
)

// Mode controls compatibility vs strict behavior.
type Mode int

const (
	ModeCompat Mode = iota
	ModeStrict
)

// UnknownFieldPolicy controls unknown key handling.
type UnknownFieldPolicy int

const (
	IgnoreUnknown UnknownFieldPolicy = iota
	ErrorOnUnknown
)

// NumberPolicy controls numeric coercion behavior.
type NumberPolicy int

const (
	CoerceNumbers NumberPolicy = iota
	ExactNumbers
)

// NullPolicy controls null assignment behavior.
type NullPolicy int

const (
	CompatNulls NullPolicy = iota
	StrictNulls
)

// DuplicateKeyPolicy controls duplicate object key behavior.
type DuplicateKeyPolicy int

const (
	LastWins DuplicateKeyPolicy = iota
	ErrorOnDuplicate
)

// Option configures unmarshalling.
type Option interface {
	apply(*Options)
}

// Options holds resolved unmarshal settings.
type Options struct {
	Ctx                context.Context
	Mode               Mode
	UnknownFieldPolicy UnknownFieldPolicy
	NumberPolicy       NumberPolicy
	NullPolicy         NullPolicy
	DuplicateKeyPolicy DuplicateKeyPolicy
	CaseFormat         text.CaseFormat
	FormatTag          *format.Tag
	TimeLayout         string
	Enabled            deserialize.Feature
	Disabled           deserialize.Feature
	Modules            []*deserialize.Module
	Logger             *slog.Logger
	Mapper             *deserialize.Mapper

	setUnknownFieldPolicy bool
	setNumberPolicy       bool
	setNullPolicy         bool
	setDuplicateKeyPolicy bool
	setCaseFormat         bool
}

// mapperKey identifies option sets that can share one mapper.
type mapperKey struct {
	features   deserialize.Feature
	caseFormat text.CaseFormat
	timeLayout string
}

// key returns mapper key and false when options carry values mappers cannot be shared for.
func (o *Options) key(features deserialize.Feature) (mapperKey, bool) {
	if len(o.Modules) > 0 || o.Logger != nil {
		return mapperKey{}, false
	}
	return mapperKey{features: features, caseFormat: o.CaseFormat, timeLayout: o.TimeLayout}, true
}

// features maps policies onto mapper features; explicit feature options are applied last.
// Untyped objects are plain maps unless UseOrderedObjects is enabled.
func (o *Options) features() deserialize.Feature {
	ret := deserialize.DefaultFeatures.Without(deserialize.UseOrderedObjects)
	switch o.UnknownFieldPolicy {
	case ErrorOnUnknown:
		ret = ret.With(deserialize.FailOnUnknownProperties)
	default:
		ret = ret.Without(deserialize.FailOnUnknownProperties)
	}
	switch o.NumberPolicy {
	case ExactNumbers:
		ret = ret.Without(deserialize.CoerceScalars, deserialize.AcceptFloatAsInt)
	default:
		ret = ret.With(deserialize.CoerceScalars, deserialize.AcceptFloatAsInt)
	}
	if o.NullPolicy == StrictNulls {
		ret = ret.With(deserialize.FailOnNullForPrimitives)
	}
	if o.DuplicateKeyPolicy == ErrorOnDuplicate {
		ret = ret.With(deserialize.FailOnDuplicateKeys)
	}
	if o.Mode == ModeStrict {
		ret = ret.With(deserialize.FailOnTrailingTokens, deserialize.FailOnMissingCreatorProperties)
	}
	return ret.With(o.Enabled).Without(o.Disabled)
}

func (o *Options) mapperOptions(features deserialize.Feature) []deserialize.Option {
	ret := []deserialize.Option{
		deserialize.WithFeatures(features),
		deserialize.WithCaseFormat(o.CaseFormat),
		deserialize.WithTimeLayout(o.TimeLayout),
	}
	if o.Logger != nil {
		ret = append(ret, deserialize.WithLogger(o.Logger))
	}
	for _, module := range o.Modules {
		ret = append(ret, deserialize.WithModule(module))
	}
	return ret
}
