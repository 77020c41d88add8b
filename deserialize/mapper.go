// Package deserialize reconstructs typed values from token cursors.
package deserialize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"

	"github.com/viant/databind"
	"github.com/viant/databind/internal/chunk"
	"github.com/viant/databind/token"
)

// Mapper dispatches types to strategies and runs reconstruction. It is safe for concurrent use.
type Mapper struct {
	cfg          *config
	registry     *registry
	introspector *databind.Introspector
	cache        *Cache
	buildMu      sync.Mutex
	contexts     sync.Pool
	logger       *slog.Logger
}

// New creates a mapper.
func New(opts ...Option) *Mapper {
	cfg := newConfig(opts)
	reg, creators := newRegistry(cfg.modules)
	ret := &Mapper{cfg: cfg, registry: reg, cache: NewCache(), logger: cfg.logger}
	ret.introspector = cfg.introspector
	if ret.introspector == nil {
		introspectorOpts := append([]databind.Option{databind.WithCaseFormat(cfg.caseFormat)}, creators...)
		ret.introspector = databind.NewIntrospector(introspectorOpts...)
	} else if len(creators) > 0 {
		ret.logger.Warn("module creators ignored with custom introspector")
	}
	ret.contexts.New = func() any {
		return &Context{mapper: ret, pool: chunk.NewPool()}
	}
	return ret
}

// Features returns enabled features.
func (m *Mapper) Features() Feature { return m.cfg.features }

// Introspector returns property and creator introspector.
func (m *Mapper) Introspector() *databind.Introspector { return m.introspector }

// Strategy returns a ready strategy for t, building and caching it on first use.
func (m *Mapper) Strategy(t databind.Type) (*Strategy, error) {
	if t.IsZero() {
		return nil, fmt.Errorf("invalid type: nil")
	}
	if s, ok := m.cache.Find(t); ok {
		return s, nil
	}
	if !m.registry.overrides(t.Reflect()) {
		if s := staticStrategy(t.Reflect()); s != nil {
			return s, nil
		}
	}
	m.buildMu.Lock()
	defer m.buildMu.Unlock()
	if s, ok := m.cache.Find(t); ok {
		return s, nil
	}
	b := newBuilder(m)
	s, err := b.strategy(t.Reflect())
	if err != nil {
		return nil, err
	}
	b.commit()
	return s, nil
}

// FlushCache discards every cached strategy.
func (m *Mapper) FlushCache() {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()
	n := m.cache.Flush()
	m.introspector.Purge()
	m.logger.Info("strategy cache flushed", "count", n)
}

// CachedStrategyCount returns number of cached strategies.
func (m *Mapper) CachedStrategyCount() int { return m.cache.Len() }

// Reconstruct reads one value of type t from cursor.
func (m *Mapper) Reconstruct(ctx context.Context, t databind.Type, cursor token.Cursor) (any, error) {
	if t.IsZero() {
		return nil, fmt.Errorf("invalid type: nil")
	}
	dst := reflect.New(t.Reflect()).Elem()
	if err := m.run(ctx, cursor, dst); err != nil {
		return nil, err
	}
	return dst.Interface(), nil
}

// Decode reads one value from cursor into dest, a non-nil pointer.
// Existing containers of dest are extended when UseGettersAsSetters is enabled.
func (m *Mapper) Decode(ctx context.Context, cursor token.Cursor, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("invalid destination: expected non-nil pointer, but had %T", dest)
	}
	return m.run(ctx, cursor, rv.Elem())
}

// Read reads one value of type T from cursor.
func Read[T any](ctx context.Context, m *Mapper, cursor token.Cursor) (T, error) {
	var ret T
	err := m.run(ctx, cursor, reflect.ValueOf(&ret).Elem())
	return ret, err
}

func (m *Mapper) run(ctx context.Context, cursor token.Cursor, dst reflect.Value) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := m.Strategy(databind.TypeFor(dst.Type()))
	if err != nil {
		return err
	}
	dc := m.contexts.Get().(*Context)
	dc.ctx = ctx
	dc.cursor = cursor
	dc.features = m.cfg.features
	defer func() {
		dc.reset()
		m.contexts.Put(dc)
	}()
	if cursor.Current().Kind == token.None {
		if _, err := cursor.Next(); err != nil {
			if errors.Is(err, io.EOF) {
				return &MappingError{Type: dst.Type(), Message: "no content to map due to end-of-input", Err: io.EOF}
			}
			return dc.readError(err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.decode(dc, dst); err != nil {
		return err
	}
	if dc.Enabled(FailOnTrailingTokens) {
		kind, err := cursor.Next()
		if err == nil {
			return dc.mappingError(dst.Type(), "trailing token %v found after value of type %v", kind, dst.Type())
		}
		if !errors.Is(err, io.EOF) {
			return dc.readError(err)
		}
	}
	return nil
}
