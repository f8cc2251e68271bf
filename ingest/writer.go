// Package ingest turns corpus documents into statements in the partitioned
// store: language classification, pattern extraction, identifier minting and
// provenance writing. It also loads corpus files and watches a directory for
// new ones.
package ingest

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/c360studio/factgraph/extract"
	"github.com/c360studio/factgraph/graph"
	"github.com/c360studio/factgraph/ident"
	"github.com/c360studio/factgraph/schema"
	"github.com/c360studio/factgraph/storage"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
)

// Provenance detail values written with every statement.
const (
	ExtractionMethod = "pattern_extraction"
	SourceSystem     = "factgraph"
	DetectionMethod  = "stopword_lexicon"
)

// DefaultEntityMaxLength is the rune count at or above which an inferred
// object is written as a literal.
const DefaultEntityMaxLength = 50

// sentencePunctuation marks an object as running text rather than a name.
const sentencePunctuation = ".!?,"

// Candidate is an extracted fact with the context needed to write it.
type Candidate struct {
	extract.Candidate
	// Language tags literal objects and entity labels.
	Language   string
	DocumentID string
	// Feedback, when set, is written as a feedback record linked from the
	// statement.
	Feedback map[string]any
}

// Writer mints identifiers for candidates and writes them to a store with
// full provenance. It is not safe for concurrent use; the store assumes a
// single writer.
type Writer struct {
	store     *storage.Store
	schema    schema.Resolver
	maxEntity int
	annotate  bool
	now       func() time.Time
	metrics   *Metrics
	logger    *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithEntityMaxLength sets the entity-or-literal length threshold.
func WithEntityMaxLength(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.maxEntity = n
		}
	}
}

// WithLanguageAnnotations toggles the language annotation written alongside
// every statement.
func WithLanguageAnnotations(enabled bool) WriterOption {
	return func(w *Writer) {
		w.annotate = enabled
	}
}

// WithSchema sets the resolver consulted to record whether a predicate is
// declared. The write never depends on the answer.
func WithSchema(r schema.Resolver) WriterOption {
	return func(w *Writer) {
		if r != nil {
			w.schema = r
		}
	}
}

// WithWriterClock overrides the time source for conversion timestamps.
func WithWriterClock(now func() time.Time) WriterOption {
	return func(w *Writer) {
		if now != nil {
			w.now = now
		}
	}
}

// WithWriterMetrics sets the metrics updated on every write.
func WithWriterMetrics(m *Metrics) WriterOption {
	return func(w *Writer) {
		w.metrics = m
	}
}

// WithWriterLogger sets the writer logger.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWriter returns a writer over store. Language annotations are enabled
// by default.
func NewWriter(store *storage.Store, opts ...WriterOption) *Writer {
	w := &Writer{
		store:     store,
		schema:    schema.Vocabulary{},
		maxEntity: DefaultEntityMaxLength,
		annotate:  true,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Store returns the store the writer appends to.
func (w *Writer) Store() *storage.Store { return w.store }

// Write inserts the candidate's fact into the main partition and its
// provenance envelope into the provenance partition, and returns the new
// statement ID. It never rejects input.
func (w *Writer) Write(c Candidate, annotatorID, sourceText string) string {
	subj := graph.IRI(ident.Mint(c.Subject, fg.DataNamespace))
	pred := graph.IRI(fg.PropertyIRI(ident.LocalName(c.Predicate)))
	obj := w.object(c)

	if c.Predicate != extract.PredicateContainsText {
		w.labelEntity(subj, c.Subject, c.Language)
		if obj.IsIRI() {
			w.labelEntity(obj, c.Object, c.Language)
		}
	}

	_, declared := w.schema.Resolve(pred.Value)
	details := map[string]any{
		"extraction_method":    ExtractionMethod,
		"extraction_rule":      c.Rule,
		"source_system":        SourceSystem,
		"conversion_timestamp": w.now(),
		"source_text":          sourceText,
		"predicate_declared":   declared,
	}
	if c.DocumentID != "" {
		details["document_id"] = c.DocumentID
	}

	id := w.store.AddStatement(storage.Statement{
		Subject:        subj,
		Predicate:      pred,
		Object:         obj,
		Confidence:     c.Confidence,
		SourceLanguage: c.Language,
		AnnotatorID:    annotatorID,
		Details:        details,
		Feedback:       c.Feedback,
	})
	w.metrics.statementWritten()

	if w.annotate && c.Language != "" {
		_, err := w.store.AddLanguageAnnotation(id, storage.LanguageAnnotation{
			Text:            sourceText,
			Code:            c.Language,
			Confidence:      c.Confidence,
			DetectionMethod: DetectionMethod,
		})
		if err != nil {
			w.logger.Warn("Language annotation rejected",
				slog.String("statement_id", id),
				slog.String("error", err.Error()))
		}
	}
	return id
}

func (w *Writer) object(c Candidate) graph.Term {
	switch c.ObjectKind {
	case extract.ObjectEntity:
		return graph.IRI(ident.Mint(c.Object, fg.DataNamespace))
	case extract.ObjectLiteral:
		return graph.LangLiteral(c.Object, c.Language)
	}
	if LooksLikeEntity(c.Object, w.maxEntity) {
		return graph.IRI(ident.Mint(c.Object, fg.DataNamespace))
	}
	return graph.LangLiteral(c.Object, c.Language)
}

func (w *Writer) labelEntity(iri graph.Term, surface, lang string) {
	w.store.AddFacts(
		graph.Triple{Subject: iri, Predicate: graph.IRI(fg.RDFType), Object: graph.IRI(fg.ClassEntity)},
		graph.Triple{Subject: iri, Predicate: graph.IRI(fg.RDFSLabel), Object: graph.LangLiteral(surface, lang)},
	)
}

// LooksLikeEntity reports whether value reads as a short name: fewer than
// maxLen runes and no sentence punctuation.
func LooksLikeEntity(value string, maxLen int) bool {
	if maxLen <= 0 {
		maxLen = DefaultEntityMaxLength
	}
	return utf8.RuneCountInString(value) < maxLen && !strings.ContainsAny(value, sentencePunctuation)
}
