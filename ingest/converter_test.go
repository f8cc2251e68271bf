package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/c360studio/factgraph/extract"
	"github.com/c360studio/factgraph/graph"
	"github.com/c360studio/factgraph/language"
	"github.com/c360studio/factgraph/storage"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConverter(t *testing.T, st *storage.Store, m *Metrics, opts ...ConverterOption) *Converter {
	t.Helper()
	ex, err := extract.New()
	require.NoError(t, err)
	w := NewWriter(st, WithWriterMetrics(m))
	return NewConverter(language.MustClassifier(), ex, w, append([]ConverterOption{WithMetrics(m)}, opts...)...)
}

func TestConvertCorpus(t *testing.T) {
	st := storage.NewStore(storage.WithClock(stepClock()))
	m := NewMetrics(nil)
	c := newTestConverter(t, st, m)

	docs := []Document{
		{ID: "d1", Text: "A Andrés le gustan las manzanas."},
		{ID: "d2", Text: "The dog is in the garden."},
		{ID: "d3", Text: "   "},
		{ID: "d4", Text: "Bob likes the sea.", Language: "en"},
	}
	summary, err := c.ConvertCorpus(context.Background(), docs, "")
	require.NoError(t, err)

	assert.Equal(t, 5, summary.StatementsWritten)
	assert.Equal(t, []string{"en", "es"}, summary.LanguagesDetected)
	assert.Equal(t, 3, summary.DocumentsProcessed)
	assert.Equal(t, 1, summary.DocumentsSkipped)
	assert.Equal(t, []string{DefaultAnnotator}, summary.Annotators)

	rows := st.QueryByAnnotator(DefaultAnnotator)
	require.Len(t, rows, 5)

	var fromD1 []storage.StatementRow
	for _, r := range rows {
		if r.Details["document_id"] == "d1" {
			fromD1 = append(fromD1, r)
		}
	}
	require.Len(t, fromD1, 2)
	for _, r := range fromD1 {
		assert.Equal(t, "es", r.SourceLanguage)
	}

	assert.Equal(t, 5.0, testutil.ToFloat64(m.statements))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.documents.WithLabelValues(outcomeConverted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues(outcomeSkipped)))
}

func TestConvertCorpusDocumentEntity(t *testing.T) {
	st := storage.NewStore()
	c := newTestConverter(t, st, nil)

	_, err := c.ConvertCorpus(context.Background(), []Document{
		{ID: "d1", Text: "A Andrés le gustan las manzanas."},
	}, "ann1")
	require.NoError(t, err)

	doc := graph.IRI(fg.DataNamespace + "document_d1")
	main := st.Main()
	for _, tt := range []struct {
		pred string
		obj  graph.Term
	}{
		{fg.RDFType, graph.IRI(fg.ClassDocument)},
		{fg.RDFSLabel, graph.LangLiteral("Document d1", "es")},
		{fg.PropContent, graph.LangLiteral("A Andrés le gustan las manzanas.", "es")},
		{fg.PropDocumentID, graph.Literal("d1")},
		{fg.PropLanguage, graph.Literal("es")},
		{fg.PropContainsText, graph.LangLiteral("A Andrés le gustan las manzanas.", "es")},
	} {
		assert.True(t, main.Contains(graph.Triple{Subject: doc, Predicate: graph.IRI(tt.pred), Object: tt.obj}), tt.pred)
	}
	assert.True(t, main.Contains(graph.Triple{
		Subject:   graph.IRI(fg.DataNamespace + "Andrés"),
		Predicate: graph.IRI(fg.PropertyIRI("likes")),
		Object:    graph.IRI(fg.DataNamespace + "las_manzanas"),
	}))
}

func TestConvertEmptyCorpus(t *testing.T) {
	st := storage.NewStore()
	c := newTestConverter(t, st, nil)

	for _, docs := range [][]Document{nil, {}} {
		summary, err := c.ConvertCorpus(context.Background(), docs, "ann1")
		require.NoError(t, err)
		assert.Zero(t, summary.StatementsWritten)
		assert.Empty(t, summary.LanguagesDetected)
	}
	assert.Zero(t, st.Stats().TotalTriples)
}

func TestConvertCorpusCancelled(t *testing.T) {
	st := storage.NewStore()
	c := newTestConverter(t, st, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ConvertCorpus(ctx, []Document{{ID: "d1", Text: "Bob likes tea."}}, "ann1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, st.Stats().TotalTriples)
}

func TestConvertCorpusWritesInDocumentOrder(t *testing.T) {
	st := storage.NewStore(storage.WithClock(stepClock()))
	c := newTestConverter(t, st, nil, WithWorkers(8))

	var docs []Document
	for i := range 20 {
		docs = append(docs, Document{
			ID:       fmt.Sprintf("doc-%02d", i),
			Text:     fmt.Sprintf("Ana likes item%d.", i),
			Language: "en",
		})
	}
	summary, err := c.ConvertCorpus(context.Background(), docs, "ann1")
	require.NoError(t, err)
	assert.Equal(t, 40, summary.StatementsWritten)

	rows := st.QueryByAnnotator("ann1")
	require.Len(t, rows, 40)
	assert.Equal(t, "doc-19", rows[0].Details["document_id"])
	assert.Equal(t, "doc-00", rows[len(rows)-1].Details["document_id"])
}

func TestConvertCorpusMissingID(t *testing.T) {
	st := storage.NewStore()
	c := newTestConverter(t, st, nil)

	_, err := c.ConvertCorpus(context.Background(), []Document{{Text: "Bob likes tea."}}, "ann1")
	require.NoError(t, err)

	docs := st.Main().Subjects(graph.IRI(fg.RDFType), graph.IRI(fg.ClassDocument))
	require.Len(t, docs, 1)
	id, ok := st.Main().Value(docs[0], graph.IRI(fg.PropDocumentID))
	require.True(t, ok)
	assert.Regexp(t, `^doc_[0-9a-f-]{36}$`, id.Value)
}

func TestConvertCorpusReachesSpanishTener(t *testing.T) {
	st := storage.NewStore()
	c := newTestConverter(t, st, nil)

	summary, err := c.ConvertCorpus(context.Background(), []Document{
		{ID: "es", Text: "Juan tiene un perro en la casa."},
		{ID: "bare", Text: "Juan tiene un perro."},
	}, "ann1")
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "es"}, summary.LanguagesDetected)

	var has []storage.StatementRow
	for _, r := range st.QueryByAnnotator("ann1") {
		if r.Predicate == graph.IRI(fg.PropertyIRI("has")) {
			has = append(has, r)
		}
	}
	// Without a Spanish function word the second document falls back to en
	// and only its contains_text statement is written.
	require.Len(t, has, 1)
	assert.Equal(t, "es", has[0].Details["document_id"])
	assert.Equal(t, "es", has[0].SourceLanguage)
	assert.Equal(t, graph.IRI(fg.DataNamespace+"Juan"), has[0].Subject)
	assert.Equal(t, graph.IRI(fg.DataNamespace+"un_perro_en_la_casa"), has[0].Object)
}
