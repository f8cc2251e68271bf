package query

import (
	"testing"
	"time"

	"github.com/c360studio/factgraph/graph"
	"github.com/c360studio/factgraph/storage"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
	"github.com/stretchr/testify/require"
)

func stepClock() func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func triple(s, p string, o graph.Term) graph.Triple {
	return graph.Triple{Subject: graph.IRI(s), Predicate: graph.IRI(p), Object: o}
}

// newFixture builds a store with two statements, their language
// annotations, one registered annotator and two feedback traces, one of
// which references an unregistered annotator.
func newFixture(t *testing.T) *storage.Store {
	t.Helper()
	st := storage.NewStore(storage.WithClock(stepClock()))

	andres := fg.DataNamespace + "Andrés"
	manzanas := fg.DataNamespace + "las_manzanas"
	bob := fg.DataNamespace + "Bob"
	entity := graph.IRI(fg.ClassEntity)
	st.AddFacts(
		triple(andres, fg.RDFType, entity),
		triple(andres, fg.RDFSLabel, graph.LangLiteral("Andrés", "es")),
		triple(andres, fg.SkosAltLabel, graph.LangLiteral("Andrew", "en")),
		triple(manzanas, fg.RDFType, entity),
		triple(manzanas, fg.RDFSLabel, graph.LangLiteral("las manzanas", "es")),
		triple(bob, fg.RDFType, entity),
		triple(bob, fg.RDFSLabel, graph.LangLiteral("Bob", "en")),
	)

	s1 := st.AddStatement(storage.Statement{
		Subject:        graph.IRI(andres),
		Predicate:      graph.IRI(fg.PropertyIRI("likes")),
		Object:         graph.IRI(manzanas),
		Confidence:     0.9,
		SourceLanguage: "es",
		AnnotatorID:    "corpus_processor",
	})
	_, err := st.AddLanguageAnnotation(s1, storage.LanguageAnnotation{
		Text:            "A Andrés le gustan las manzanas.",
		Code:            "es",
		Confidence:      0.9,
		DetectionMethod: "stopword_lexicon",
		CulturalContext: "latam",
	})
	require.NoError(t, err)

	s2 := st.AddStatement(storage.Statement{
		Subject:        graph.IRI(bob),
		Predicate:      graph.IRI(fg.PropertyIRI("owns")),
		Object:         graph.LangLiteral("a car", "en"),
		Confidence:     0.8,
		SourceLanguage: "en",
		AnnotatorID:    "corpus_processor",
	})
	_, err = st.AddLanguageAnnotation(s2, storage.LanguageAnnotation{
		Text:            "Bob owns a car.",
		Code:            "en",
		Confidence:      0.4,
		DetectionMethod: "stopword_lexicon",
	})
	require.NoError(t, err)

	require.NoError(t, st.RegisterAnnotator(storage.AnnotatorProfile{
		ID:               "expert_1",
		Name:             "Dr. Ana",
		Languages:        []string{"es"},
		ReliabilityScore: 0.95,
		AnnotationCount:  10,
	}))
	require.NoError(t, st.AddFeedback(storage.FeedbackTrace{
		ID:                      "fb1",
		StatementID:             s1,
		Type:                    storage.FeedbackPositive,
		QualityScore:            0.9,
		RelevanceScore:          0.8,
		CulturalAppropriateness: 0.95,
		AnnotatorID:             "expert_1",
	}))
	require.NoError(t, st.AddFeedback(storage.FeedbackTrace{
		ID:                      "fb2",
		StatementID:             s2,
		Type:                    storage.FeedbackNegative,
		QualityScore:            0.3,
		RelevanceScore:          0.5,
		CulturalAppropriateness: 0.7,
		AnnotatorID:             "ghost",
	}))
	return st
}
