package deserialize

import (
	"log/slog"
	"time"

	"github.com/viant/tagly/format/text"

	"github.com/viant/databind"
)

// Option configures a Mapper.
type Option interface{ apply(*config) }

type optionFn func(*config)

func (o optionFn) apply(c *config) { o(c) }

type config struct {
	features     Feature
	modules      []*Module
	logger       *slog.Logger
	caseFormat   text.CaseFormat
	timeLayout   string
	problems     []ProblemHandler
	duplicates   DuplicateKeyHandler
	introspector *databind.Introspector
}

// Enable turns features on.
func Enable(features ...Feature) Option {
	return optionFn(func(c *config) { c.features = c.features.With(features...) })
}

// Disable turns features off.
func Disable(features ...Feature) Option {
	return optionFn(func(c *config) { c.features = c.features.Without(features...) })
}

// WithFeatures replaces the feature set.
func WithFeatures(features Feature) Option {
	return optionFn(func(c *config) { c.features = features })
}

// WithModule registers custom strategies, creators, enums and type mappings.
// Later modules override earlier ones.
func WithModule(module *Module) Option {
	return optionFn(func(c *config) {
		if module != nil {
			c.modules = append(c.modules, module)
		}
	})
}

// WithLogger sets structured logger.
func WithLogger(logger *slog.Logger) Option {
	return optionFn(func(c *config) { c.logger = logger })
}

// WithCaseFormat matches untagged properties by their name in caseFormat too.
func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return optionFn(func(c *config) { c.caseFormat = caseFormat })
}

// WithTimeLayout sets default time.Time layout.
func WithTimeLayout(layout string) Option {
	return optionFn(func(c *config) { c.timeLayout = layout })
}

// WithProblemHandler adds a handler consulted before the unknown property policy applies.
func WithProblemHandler(handler ProblemHandler) Option {
	return optionFn(func(c *config) {
		if handler != nil {
			c.problems = append(c.problems, handler)
		}
	})
}

// WithDuplicateKeyHandler resolves repeated keys of untyped objects.
func WithDuplicateKeyHandler(handler DuplicateKeyHandler) Option {
	return optionFn(func(c *config) { c.duplicates = handler })
}

// WithIntrospector replaces the property and creator introspector.
func WithIntrospector(introspector *databind.Introspector) Option {
	return optionFn(func(c *config) { c.introspector = introspector })
}

func newConfig(opts []Option) *config {
	ret := &config{features: DefaultFeatures, timeLayout: time.RFC3339Nano}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(ret)
		}
	}
	if ret.logger == nil {
		ret.logger = slog.New(slog.DiscardHandler)
	}
	if ret.timeLayout == "" {
		ret.timeLayout = time.RFC3339Nano
	}
	return ret
}
