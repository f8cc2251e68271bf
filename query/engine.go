package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/c360studio/factgraph/graph"
	"github.com/c360studio/factgraph/schema"
	"github.com/c360studio/factgraph/sparql"
)

// Defaults for execution limits.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultLimit    = 50
	DefaultMaxLimit = 1000
)

// ShapeError marks a result whose execution failed.
const ShapeError = "error"

// Row is one result row keyed by variable name. Values are the lexical
// form of the bound term; unbound variables are absent.
type Row map[string]string

// Result is the tabular outcome of one query. On failure Rows is empty,
// Shape is ShapeError and Error describes the failure.
type Result struct {
	Query          string        `json:"query"`
	Shape          string        `json:"query_type"`
	Vars           []string      `json:"vars"`
	Rows           []Row         `json:"results"`
	RowCount       int           `json:"result_count"`
	Boolean        bool          `json:"boolean,omitempty"`
	LanguagesFound []string      `json:"languages_found"`
	ExecutionTime  time.Duration `json:"-"`
	Error          string        `json:"error,omitempty"`
	ErrorKind      string        `json:"error_kind,omitempty"`
}

// MarshalJSON writes ExecutionTime as execution_time in seconds.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return json.Marshal(struct {
		plain
		ExecutionTime float64 `json:"execution_time"`
	}{plain: plain(r), ExecutionTime: r.ExecutionTime.Seconds()})
}

// Engine renders templates and executes queries against a dataset. It
// never mutates the dataset, and concurrent Execute calls are safe while
// no writer is active.
type Engine struct {
	ds           sparql.Dataset
	sparql       *sparql.Engine
	timeout      time.Duration
	defaultLimit int
	maxLimit     int
	schema       schema.Resolver
	metrics      *Metrics
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-query time budget. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLimits sets the default and maximum LIMIT applied to templates.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(e *Engine) {
		if defaultLimit > 0 {
			e.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			e.maxLimit = maxLimit
		}
	}
}

// WithSPARQL sets the underlying query engine.
func WithSPARQL(s *sparql.Engine) Option {
	return func(e *Engine) {
		if s != nil {
			e.sparql = s
		}
	}
}

// WithSchema sets the resolver used to label entity types.
func WithSchema(r schema.Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.schema = r
		}
	}
}

// WithMetrics enables query metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an engine over ds.
func New(ds sparql.Dataset, opts ...Option) *Engine {
	e := &Engine{
		ds:           ds,
		timeout:      DefaultTimeout,
		defaultLimit: DefaultLimit,
		maxLimit:     DefaultMaxLimit,
		schema:       schema.Vocabulary{},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sparql == nil {
		e.sparql = sparql.NewEngine(sparql.WithLogger(e.logger))
	}
	if e.defaultLimit > e.maxLimit {
		e.defaultLimit = e.maxLimit
	}
	return e
}

// Render substitutes params into the named template and appends a LIMIT.
// A non-positive limit selects the template default; limits above the
// engine maximum are clamped.
func (e *Engine) Render(name string, params Params, limit int) (string, error) {
	t, ok := catalogue[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	for _, req := range t.Required {
		if params.text(req) == "" {
			return "", fmt.Errorf("%w: %s requires %s", ErrMissingParameter, name, req)
		}
	}
	body, err := t.build(params)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	if limit <= 0 {
		limit = e.defaultLimit
		if t.DefaultLimit > 0 {
			limit = t.DefaultLimit
		}
	}
	if limit > e.maxLimit {
		limit = e.maxLimit
	}
	var b Builder
	b.Fragment(Fragment(body)).Clause("LIMIT %s", Integer(limit))
	return b.String(), nil
}

// Run renders and executes a template.
func (e *Engine) Run(ctx context.Context, name string, params Params, limit int) (*Result, error) {
	q, err := e.Render(name, params, limit)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, q)
}

// Execute runs a complete query. Failures are captured in the returned
// Result and reported as ErrQueryExecution or ErrQueryTimeout; the
// underlying engine error is never returned unwrapped.
func (e *Engine) Execute(ctx context.Context, q string) (*Result, error) {
	start := time.Now()
	shape := sparql.ClassifyShape(q)
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	res, err := e.sparql.Query(ctx, e.ds, q)
	elapsed := time.Since(start)
	if err != nil {
		kind, status := ErrQueryExecution, statusError
		if errors.Is(err, context.DeadlineExceeded) {
			kind, status = ErrQueryTimeout, statusTimeout
		}
		e.metrics.observe(shape, status, elapsed)
		e.logger.Warn("Query failed", "kind", kind.Error(), "shape", shape, "error", err)
		return &Result{
			Query:          q,
			Shape:          ShapeError,
			Rows:           []Row{},
			LanguagesFound: []string{},
			ExecutionTime:  elapsed,
			Error:          err.Error(),
			ErrorKind:      kind.Error(),
		}, fmt.Errorf("%w: %s", kind, err.Error())
	}

	out := tabulate(res)
	out.Query = q
	out.Shape = shape
	out.ExecutionTime = elapsed
	e.metrics.observe(shape, statusOK, elapsed)
	e.logger.Debug("Query executed", "shape", shape, "rows", out.RowCount, "duration", elapsed)
	return out, nil
}

// tabulate converts an engine result to rows. CONSTRUCT and DESCRIBE
// triples become subject/predicate/object rows.
func tabulate(res *sparql.Result) *Result {
	out := &Result{Rows: []Row{}}
	langs := make(map[string]struct{})
	note := func(t graph.Term) {
		if t.IsLiteral() && t.Lang != "" {
			langs[t.Lang] = struct{}{}
		}
	}
	switch res.Form {
	case sparql.FormAsk:
		out.Boolean = res.Boolean
		out.Vars = []string{"result"}
		out.Rows = append(out.Rows, Row{"result": fmt.Sprint(res.Boolean)})
	case sparql.FormConstruct, sparql.FormDescribe:
		out.Vars = []string{"subject", "predicate", "object"}
		for _, t := range res.Triples {
			note(t.Object)
			out.Rows = append(out.Rows, Row{
				"subject":   t.Subject.Value,
				"predicate": t.Predicate.Value,
				"object":    t.Object.Value,
			})
		}
	default:
		out.Vars = res.Vars
		for _, sol := range res.Solutions {
			row := make(Row, len(sol))
			for k, t := range sol {
				note(t)
				row[k] = t.Value
			}
			out.Rows = append(out.Rows, row)
		}
	}
	out.RowCount = len(out.Rows)
	out.LanguagesFound = make([]string, 0, len(langs))
	for l := range langs {
		out.LanguagesFound = append(out.LanguagesFound, l)
	}
	sort.Strings(out.LanguagesFound)
	return out
}
