package json

import (
	"context"
	"log/slog"
	"time"

	"github.com/viant/tagly/format"
	"github.com/viant/tagly/format/text"
	ftime "github.com/viant/tagly/format/time"

	"github.com/viant/databind/deserialize"
)

type optionFn func(*Options)

func (o optionFn) apply(opts *Options) { o(opts) }

func WithContext(ctx context.Context) Option {
	return optionFn(func(o *Options) { o.Ctx = ctx })
}

func WithMode(mode Mode) Option {
	return optionFn(func(o *Options) { o.Mode = mode })
}

func WithUnknownFieldPolicy(policy UnknownFieldPolicy) Option {
	return optionFn(func(o *Options) {
		o.UnknownFieldPolicy = policy
		o.setUnknownFieldPolicy = true
	})
}

func WithNumberPolicy(policy NumberPolicy) Option {
	return optionFn(func(o *Options) {
		o.NumberPolicy = policy
		o.setNumberPolicy = true
	})
}

func WithNullPolicy(policy NullPolicy) Option {
	return optionFn(func(o *Options) {
		o.NullPolicy = policy
		o.setNullPolicy = true
	})
}

func WithDuplicateKeyPolicy(policy DuplicateKeyPolicy) Option {
	return optionFn(func(o *Options) {
		o.DuplicateKeyPolicy = policy
		o.setDuplicateKeyPolicy = true
	})
}

func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return optionFn(func(o *Options) {
		o.CaseFormat = caseFormat
		o.setCaseFormat = true
	})
}

func WithFormatTag(tag *format.Tag) Option {
	return optionFn(func(o *Options) { o.FormatTag = tag })
}

func WithTimeLayout(layout string) Option {
	return optionFn(func(o *Options) { o.TimeLayout = layout })
}

// WithFeatures enables mapper features on top of policies.
func WithFeatures(features ...deserialize.Feature) Option {
	return optionFn(func(o *Options) { o.Enabled = o.Enabled.With(features...) })
}

// WithoutFeatures disables mapper features on top of policies.
func WithoutFeatures(features ...deserialize.Feature) Option {
	return optionFn(func(o *Options) { o.Disabled = o.Disabled.With(features...) })
}

func WithModule(module *deserialize.Module) Option {
	return optionFn(func(o *Options) {
		if module != nil {
			o.Modules = append(o.Modules, module)
		}
	})
}

func WithLogger(logger *slog.Logger) Option {
	return optionFn(func(o *Options) { o.Logger = logger })
}

// WithMapper uses mapper as is; policy and feature options are ignored.
func WithMapper(mapper *deserialize.Mapper) Option {
	return optionFn(func(o *Options) { o.Mapper = mapper })
}

func defaultOptions() Options {
	return Options{
		Mode:               ModeCompat,
		UnknownFieldPolicy: IgnoreUnknown,
		NumberPolicy:       CoerceNumbers,
		NullPolicy:         CompatNulls,
		DuplicateKeyPolicy: LastWins,
		CaseFormat:         text.CaseFormatUndefined,
		TimeLayout:         time.RFC3339Nano,
	}
}

func resolveOptions(ctx context.Context, opts []Option) Options {
	result := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&result)
	}
	if ctx != nil {
		result.Ctx = ctx
	}
	if result.Ctx == nil {
		result.Ctx = context.Background()
	}
	if result.TimeLayout == "" {
		result.TimeLayout = time.RFC3339Nano
	}
	if result.FormatTag != nil {
		if result.FormatTag.TimeLayout != "" {
			result.TimeLayout = result.FormatTag.TimeLayout
		} else if result.FormatTag.DateFormat != "" {
			result.TimeLayout = ftime.DateFormatToTimeLayout(result.FormatTag.DateFormat)
		}
		if !result.setCaseFormat {
			cf := text.CaseFormat(result.FormatTag.CaseFormat)
			if cf != "" && cf != "-" {
				result.CaseFormat = cf
				result.setCaseFormat = true
			}
		}
	}
	if result.Mode == ModeStrict {
		if !result.setUnknownFieldPolicy {
			result.UnknownFieldPolicy = ErrorOnUnknown
		}
		if !result.setNumberPolicy {
			result.NumberPolicy = ExactNumbers
		}
		if !result.setNullPolicy {
			result.NullPolicy = StrictNulls
		}
		if !result.setDuplicateKeyPolicy {
			result.DuplicateKeyPolicy = ErrorOnDuplicate
		}
	}
	return result
}
