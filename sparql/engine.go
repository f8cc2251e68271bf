package sparql

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is how long a parsed query stays cached.
const DefaultCacheTTL = 10 * time.Minute

// Engine parses and evaluates queries. Parsed queries are cached by their
// text, so repeated template executions skip the parser.
type Engine struct {
	ttl    time.Duration
	cache  *gocache.Cache
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCacheTTL sets the parse cache TTL. A non-positive TTL keeps entries
// until the engine is discarded.
func WithCacheTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) {
		e.ttl = ttl
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine returns an engine with an empty parse cache.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		ttl:    DefaultCacheTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.ttl > 0 {
		e.cache = gocache.New(e.ttl, 2*e.ttl)
	} else {
		e.cache = gocache.New(gocache.NoExpiration, 0)
	}
	return e
}

// Prepare parses src, consulting the cache first.
func (e *Engine) Prepare(src string) (*Query, error) {
	if v, ok := e.cache.Get(src); ok {
		return v.(*Query), nil
	}
	q, err := Parse(src)
	if err != nil {
		return nil, err
	}
	e.cache.SetDefault(src, q)
	e.logger.Debug("Cached parsed query", "form", q.form.String(), "cached", e.cache.ItemCount())
	return q, nil
}

// Query parses and evaluates src against ds.
func (e *Engine) Query(ctx context.Context, ds Dataset, src string) (*Result, error) {
	q, err := e.Prepare(src)
	if err != nil {
		return nil, err
	}
	return Evaluate(ctx, ds, q)
}

// CachedQueries returns the number of parsed queries currently cached.
func (e *Engine) CachedQueries() int {
	return e.cache.ItemCount()
}
