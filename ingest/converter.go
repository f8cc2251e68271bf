package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/c360studio/factgraph/extract"
	"github.com/c360studio/factgraph/graph"
	"github.com/c360studio/factgraph/ident"
	"github.com/c360studio/factgraph/language"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Default conversion settings.
const (
	DefaultWorkers   = 4
	DefaultAnnotator = "corpus_processor"
)

// Document is one corpus unit.
type Document struct {
	ID   string `json:"_id"`
	Text string `json:"text"`
	// Language, when set, skips classification.
	Language string `json:"language,omitempty"`
	// Source is the file the document was loaded from, if any.
	Source string `json:"-"`
}

// Summary reports the outcome of one corpus conversion.
type Summary struct {
	StatementsWritten  int      `json:"triples_count"`
	LanguagesDetected  []string `json:"languages_detected"`
	DocumentsProcessed int      `json:"documents_processed"`
	DocumentsSkipped   int      `json:"documents_skipped"`
	Annotators         []string `json:"annotators"`
}

// Converter runs classification, extraction and writing over a corpus.
// Classification and extraction of different documents run concurrently;
// writes happen on the calling goroutine in document order.
type Converter struct {
	classifier *language.Classifier
	extractor  *extract.Extractor
	writer     *Writer
	workers    int
	metrics    *Metrics
	logger     *slog.Logger
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithWorkers bounds the number of documents analysed at once.
func WithWorkers(n int) ConverterOption {
	return func(c *Converter) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMetrics sets the metrics updated per document.
func WithMetrics(m *Metrics) ConverterOption {
	return func(c *Converter) {
		c.metrics = m
	}
}

// WithLogger sets the converter logger.
func WithLogger(logger *slog.Logger) ConverterOption {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConverter wires a classifier, an extractor and a writer.
func NewConverter(classifier *language.Classifier, extractor *extract.Extractor, writer *Writer, opts ...ConverterOption) *Converter {
	c := &Converter{
		classifier: classifier,
		extractor:  extractor,
		writer:     writer,
		workers:    DefaultWorkers,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// analysis is the per-document work done off the writer goroutine.
type analysis struct {
	doc        Document
	lang       string
	score      float64
	candidates []extract.Candidate
	skipped    bool
}

// ConvertCorpus converts every document and returns the summary. Documents
// with blank text are skipped and counted. An empty corpus writes nothing.
// Cancellation stops the conversion before any write happens; once writing
// has started it runs to completion.
func (c *Converter) ConvertCorpus(ctx context.Context, docs []Document, annotatorID string) (Summary, error) {
	if annotatorID == "" {
		annotatorID = DefaultAnnotator
	}
	summary := Summary{
		LanguagesDetected: []string{},
		Annotators:        []string{annotatorID},
	}
	if len(docs) == 0 {
		return summary, nil
	}

	results := make([]analysis, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.analyse(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, fmt.Errorf("analyse corpus: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("analyse corpus: %w", err)
	}

	langs := make(map[string]struct{})
	for _, a := range results {
		if a.skipped {
			summary.DocumentsSkipped++
			c.metrics.document(outcomeSkipped)
			c.logger.Info("Skipping blank document", slog.String("document_id", a.doc.ID))
			continue
		}
		langs[a.lang] = struct{}{}
		summary.StatementsWritten += c.write(a, annotatorID)
		summary.DocumentsProcessed++
		c.metrics.document(outcomeConverted)
	}

	for code := range langs {
		summary.LanguagesDetected = append(summary.LanguagesDetected, code)
	}
	sort.Strings(summary.LanguagesDetected)

	c.logger.Info("Corpus converted",
		slog.Int("documents", summary.DocumentsProcessed),
		slog.Int("skipped", summary.DocumentsSkipped),
		slog.Int("statements", summary.StatementsWritten),
		slog.Any("languages", summary.LanguagesDetected))
	return summary, nil
}

func (c *Converter) analyse(doc Document) analysis {
	if doc.ID == "" {
		doc.ID = "doc_" + uuid.NewString()
	}
	a := analysis{doc: doc}
	if strings.TrimSpace(doc.Text) == "" {
		a.skipped = true
		return a
	}

	a.lang = doc.Language
	if a.lang == "" {
		d := c.classifier.Detect(doc.Text)
		a.lang, a.score = d.Code, d.Score
	}
	a.candidates = c.extractor.Extract(doc.Text, doc.ID, a.lang)
	return a
}

// write records the document entity and every candidate, returning the
// number of statements written.
func (c *Converter) write(a analysis, annotatorID string) int {
	doc := graph.IRI(ident.Mint(extract.DocumentPrefix+a.doc.ID, fg.DataNamespace))
	c.writer.Store().AddFacts(
		graph.Triple{Subject: doc, Predicate: graph.IRI(fg.RDFType), Object: graph.IRI(fg.ClassDocument)},
		graph.Triple{Subject: doc, Predicate: graph.IRI(fg.RDFSLabel), Object: graph.LangLiteral("Document "+a.doc.ID, a.lang)},
		graph.Triple{Subject: doc, Predicate: graph.IRI(fg.PropContent), Object: graph.LangLiteral(a.doc.Text, a.lang)},
		graph.Triple{Subject: doc, Predicate: graph.IRI(fg.PropDocumentID), Object: graph.Literal(a.doc.ID)},
		graph.Triple{Subject: doc, Predicate: graph.IRI(fg.PropLanguage), Object: graph.Literal(a.lang)},
	)
	c.logger.Debug("Writing document",
		slog.String("document_id", a.doc.ID),
		slog.String("language", a.lang),
		slog.Float64("score", a.score),
		slog.Int("candidates", len(a.candidates)))

	for _, cand := range a.candidates {
		c.writer.Write(Candidate{
			Candidate:  cand,
			Language:   a.lang,
			DocumentID: a.doc.ID,
		}, annotatorID, a.doc.Text)
	}
	return len(a.candidates)
}
