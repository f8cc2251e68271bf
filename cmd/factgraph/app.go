package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/c360studio/factgraph/config"
	"github.com/c360studio/factgraph/export"
	"github.com/c360studio/factgraph/extract"
	"github.com/c360studio/factgraph/ingest"
	"github.com/c360studio/factgraph/language"
	"github.com/c360studio/factgraph/query"
	"github.com/c360studio/factgraph/schema"
	"github.com/c360studio/factgraph/sparql"
	"github.com/c360studio/factgraph/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// App wires the store and every component around it for one process.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	registry *prometheus.Registry

	store     *storage.Store
	loader    *ingest.Loader
	converter *ingest.Converter
	queries   *query.Engine
	exporter  *export.Exporter
	formats   []export.Format
}

// NewApp builds the components described by cfg around an empty store.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	classifier, err := language.NewClassifier(language.WithFallback(cfg.Language.Default))
	if err != nil {
		return nil, fmt.Errorf("create classifier: %w", err)
	}

	var extractOpts []extract.Option
	if cfg.Extraction.PatternsFile != "" {
		extractOpts = append(extractOpts, extract.WithRulesFile(cfg.Extraction.PatternsFile))
	}
	extractor, err := extract.New(extractOpts...)
	if err != nil {
		return nil, fmt.Errorf("create extractor: %w", err)
	}

	profile, err := export.ParseProfile(cfg.Export.Profile)
	if err != nil {
		return nil, err
	}
	formats := make([]export.Format, 0, len(cfg.Export.Formats))
	for _, f := range cfg.Export.Formats {
		format, err := export.ParseFormat(f)
		if err != nil {
			return nil, err
		}
		formats = append(formats, format)
	}

	registry := prometheus.NewRegistry()
	store := storage.NewStore(storage.WithLogger(logger))
	ingestMetrics := ingest.NewMetrics(registry)

	writer := ingest.NewWriter(store,
		ingest.WithEntityMaxLength(cfg.Extraction.EntityMaxLength),
		ingest.WithLanguageAnnotations(cfg.Extraction.AnnotateLanguages),
		ingest.WithSchema(schema.Vocabulary{}),
		ingest.WithWriterMetrics(ingestMetrics),
		ingest.WithWriterLogger(logger))

	converter := ingest.NewConverter(classifier, extractor, writer,
		ingest.WithWorkers(cfg.Extraction.Workers),
		ingest.WithMetrics(ingestMetrics),
		ingest.WithLogger(logger))

	sparqlEngine := sparql.NewEngine(
		sparql.WithCacheTTL(cfg.Query.CacheTTL),
		sparql.WithLogger(logger))

	queries := query.New(store,
		query.WithSPARQL(sparqlEngine),
		query.WithTimeout(cfg.Query.Timeout),
		query.WithLimits(cfg.Query.DefaultLimit, cfg.Query.MaxLimit),
		query.WithSchema(schema.Vocabulary{}),
		query.WithMetrics(query.NewMetrics(registry)),
		query.WithLogger(logger))

	exporter := export.NewExporter(cfg.Export.Dir,
		export.WithBaseIRI(cfg.Graph.BaseIRI),
		export.WithProfile(profile),
		export.WithLogger(logger))

	return &App{
		cfg:       cfg,
		logger:    logger,
		registry:  registry,
		store:     store,
		loader:    ingest.NewLoader(),
		converter: converter,
		queries:   queries,
		exporter:  exporter,
		formats:   formats,
	}, nil
}

// Ingest loads the corpus files matching patterns and converts them.
func (a *App) Ingest(ctx context.Context, patterns ...string) (ingest.Summary, error) {
	docs, err := a.loader.LoadCorpus(patterns...)
	if err != nil {
		return ingest.Summary{}, fmt.Errorf("load corpus: %w", err)
	}
	return a.Convert(ctx, docs)
}

// Convert converts docs under the configured annotator and records that
// annotator's profile.
func (a *App) Convert(ctx context.Context, docs []ingest.Document) (ingest.Summary, error) {
	annotator := a.cfg.Extraction.Annotator
	summary, err := a.converter.ConvertCorpus(ctx, docs, annotator)
	if err != nil {
		return summary, err
	}
	if err := a.recordAnnotator(annotator, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

// recordAnnotator keeps the automated annotator's profile current with the
// languages it has produced statements in.
func (a *App) recordAnnotator(id string, summary ingest.Summary) error {
	profile, ok := a.store.Annotator(id)
	if !ok {
		profile = storage.AnnotatorProfile{
			ID:               id,
			Name:             "Automated corpus processor",
			ExpertiseDomains: []string{"pattern_extraction"},
			ReliabilityScore: 1.0,
		}
	}
	seen := make(map[string]bool, len(profile.Languages))
	for _, code := range profile.Languages {
		seen[code] = true
	}
	for _, code := range summary.LanguagesDetected {
		if !seen[code] {
			profile.Languages = append(profile.Languages, code)
			seen[code] = true
		}
	}
	profile.AnnotationCount += summary.StatementsWritten
	if err := a.store.RegisterAnnotator(profile); err != nil {
		return fmt.Errorf("register annotator: %w", err)
	}
	return nil
}

// Export writes every partition in the configured formats.
func (a *App) Export() (export.Locations, error) {
	return a.exporter.ExportPartitions(a.store, a.formats)
}

// Store returns the process store.
func (a *App) Store() *storage.Store { return a.store }

// Queries returns the query engine.
func (a *App) Queries() *query.Engine { return a.queries }
