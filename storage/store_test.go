package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/c360studio/factgraph/graph"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore() *Store {
	return NewStore(WithClock(stepClock()))
}

func fact(subj, pred, obj string) Statement {
	return Statement{
		Subject:        graph.IRI(fg.DataNamespace + subj),
		Predicate:      graph.IRI(fg.PropertyIRI(pred)),
		Object:         graph.LangLiteral(obj, "en"),
		Confidence:     0.9,
		SourceLanguage: "en",
		AnnotatorID:    "ann1",
	}
}

func validFeedback(id string) FeedbackTrace {
	return FeedbackTrace{
		ID:                      id,
		StatementID:             "stmt-1",
		Type:                    FeedbackPositive,
		QualityScore:            0.8,
		RelevanceScore:          0.7,
		CulturalAppropriateness: 0.9,
		AnnotatorID:             "ann1",
	}
}

func TestNewStoreIsEmpty(t *testing.T) {
	s := newTestStore()
	for _, p := range Partitions() {
		assert.Equal(t, 0, s.Graph(p).Len(), "partition %s", p)
	}
	st := s.Stats()
	assert.Equal(t, 0, st.TotalTriples)
	assert.Len(t, st.Partitions, 6)
}

func TestAddStatement(t *testing.T) {
	s := newTestStore()

	st := fact("John", "likes", "pizza")
	st.Details = map[string]any{
		"extraction_method": "pattern",
		"document_index":    3,
		"verified":          true,
	}
	id := s.AddStatement(st)

	require.True(t, strings.HasPrefix(id, fg.ProvenanceNamespace+"statement_"), id)
	assert.True(t, s.Main().Contains(graph.Triple{Subject: st.Subject, Predicate: st.Predicate, Object: st.Object}))

	prov := s.Provenance()
	ref := graph.IRI(id)
	conf, ok := prov.Value(ref, graph.IRI(fg.PropConfidence))
	require.True(t, ok)
	assert.Equal(t, graph.Float(0.9), conf)

	lang, _ := prov.Value(ref, graph.IRI(fg.PropSourceLanguage))
	assert.Equal(t, "en", lang.Value)

	attributed, _ := prov.Value(ref, graph.IRI(fg.PropAttributedTo))
	assert.Equal(t, graph.IRI(fg.AnnotatorIRI("ann1")), attributed)

	idx, _ := prov.Value(ref, graph.IRI(fg.DetailIRI("document_index")))
	assert.Equal(t, graph.Integer(3), idx)
	verified, _ := prov.Value(ref, graph.IRI(fg.DetailIRI("verified")))
	assert.Equal(t, graph.Boolean(true), verified)

	_, hasFeedback := prov.Value(ref, graph.IRI(fg.PropHasFeedback))
	assert.False(t, hasFeedback)
}

func TestAddStatementSameFactTwice(t *testing.T) {
	s := newTestStore()
	a := s.AddStatement(fact("John", "likes", "pizza"))
	b := s.AddStatement(fact("John", "likes", "pizza"))

	assert.NotEqual(t, a, b, "each write gets a new statement")
	assert.Equal(t, 1, s.Main().Len(), "the fact itself is stored once")
	assert.Len(t, s.QueryByAnnotator("ann1"), 2)
}

func TestAddStatementWithFeedback(t *testing.T) {
	s := newTestStore()
	st := fact("Ann", "likes", "tea")
	st.Feedback = map[string]any{
		"feedback_type": "positive",
		"quality_score": 0.75,
		"reviewer_note": "looks right",
	}
	id := s.AddStatement(st)

	prov := s.Provenance()
	rec, ok := prov.Value(graph.IRI(id), graph.IRI(fg.PropHasFeedback))
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(rec.Value, fg.FeedbackNamespace+"feedback_"))

	kind, _ := prov.Value(rec, graph.IRI(fg.PropFeedbackType))
	assert.Equal(t, "positive", kind.Value)
	quality, _ := prov.Value(rec, graph.IRI(fg.PropQualityScore))
	n, _ := quality.Number()
	assert.Equal(t, 0.75, n)
	note, _ := prov.Value(rec, graph.IRI(fg.DetailIRI("reviewer_note")))
	assert.Equal(t, "looks right", note.Value)

	assert.Equal(t, 0, s.Feedback().Len(), "statement feedback stays with its provenance")
}

func TestRegisterAnnotator(t *testing.T) {
	s := newTestStore()

	profile := AnnotatorProfile{
		ID:               "ann1",
		Name:             "Ana",
		ExpertiseDomains: []string{"food", "health"},
		Languages:        []string{"es", "en"},
		ReliabilityScore: 0.9,
		AnnotationCount:  120,
	}
	require.NoError(t, s.RegisterAnnotator(profile))

	ann := graph.IRI(fg.AnnotatorIRI("ann1"))
	g := s.Annotators()
	name, _ := g.Value(ann, graph.IRI(fg.PropName))
	assert.Equal(t, "Ana", name.Value)
	assert.Len(t, g.Objects(ann, graph.IRI(fg.PropExpertiseIn)), 2)
	assert.Len(t, g.Objects(ann, graph.IRI(fg.PropSpeaksLanguage)), 2)

	got, ok := s.Annotator("ann1")
	require.True(t, ok)
	assert.False(t, got.CreatedAt.IsZero(), "created_at defaults to the clock")

	t.Run("re-register replaces", func(t *testing.T) {
		before := g.Len()
		profile.Name = "Ana María"
		profile.ExpertiseDomains = []string{"food"}
		require.NoError(t, s.RegisterAnnotator(profile))

		name, _ := g.Value(ann, graph.IRI(fg.PropName))
		assert.Equal(t, "Ana María", name.Value)
		assert.Len(t, g.Objects(ann, graph.IRI(fg.PropName)), 1)
		assert.Len(t, g.Objects(ann, graph.IRI(fg.PropExpertiseIn)), 1)
		assert.Equal(t, before-1, g.Len())
		assert.Len(t, s.AnnotatorProfiles(), 1)
	})

	t.Run("colliding ids rejected", func(t *testing.T) {
		require.NoError(t, s.RegisterAnnotator(AnnotatorProfile{ID: "a-b", Name: "First"}))
		before := s.Annotators().Len()

		err := s.RegisterAnnotator(AnnotatorProfile{ID: "a b", Name: "Second"})
		assert.ErrorIs(t, err, ErrAnnotatorConflict)
		assert.Equal(t, before, s.Annotators().Len())
		_, ok := s.Annotator("a b")
		assert.False(t, ok)

		node := graph.IRI(fg.AnnotatorIRI("a_b"))
		owner, _ := s.Annotators().Value(node, graph.IRI(fg.PropAnnotatorID))
		assert.Equal(t, "a-b", owner.Value)
		name, _ := s.Annotators().Value(node, graph.IRI(fg.PropName))
		assert.Equal(t, "First", name.Value)

		require.NoError(t, s.RegisterAnnotator(AnnotatorProfile{ID: "a-b", Name: "First again"}))
	})

	t.Run("invalid profiles", func(t *testing.T) {
		tests := []struct {
			name    string
			profile AnnotatorProfile
		}{
			{"missing id", AnnotatorProfile{Name: "x"}},
			{"reliability above one", AnnotatorProfile{ID: "a", ReliabilityScore: 1.5}},
			{"negative count", AnnotatorProfile{ID: "a", AnnotationCount: -1}},
			{"empty language", AnnotatorProfile{ID: "a", Languages: []string{""}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := s.RegisterAnnotator(tt.profile)
				assert.ErrorIs(t, err, ErrInvalidAnnotator)
			})
		}
	})
}

func TestAddLanguageAnnotation(t *testing.T) {
	s := newTestStore()
	stmt := s.AddStatement(fact("A", "likes", "b"))

	id, err := s.AddLanguageAnnotation(stmt, LanguageAnnotation{
		Text:            "A le gusta b",
		Code:            "es",
		Confidence:      0.8,
		DetectionMethod: "stopword_lexicon",
		CulturalContext: "iberian",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(id, fg.LanguageNamespace+"annotation_"))

	g := s.Languages()
	text, _ := g.Value(graph.IRI(id), graph.IRI(fg.PropText))
	assert.Equal(t, graph.LangLiteral("A le gusta b", "es"), text)

	meta := graph.IRI(fg.LanguageIRI("es"))
	name, ok := g.Value(meta, graph.IRI(fg.PropLanguageName))
	require.True(t, ok)
	assert.Equal(t, "Spanish", name.Value)

	before := g.Len()
	_, err = s.AddLanguageAnnotation(stmt, LanguageAnnotation{Text: "otra", Code: "es", Confidence: 0.5})
	require.NoError(t, err)
	assert.Len(t, g.Objects(meta, graph.IRI(fg.PropLanguageName)), 1, "metadata written once per code")
	assert.Equal(t, before+7, g.Len(), "second annotation adds only its own triples")

	_, err = s.AddLanguageAnnotation(stmt, LanguageAnnotation{Text: "x"})
	assert.ErrorIs(t, err, ErrInvalidAnnotation)

	assert.Equal(t, 1, s.Stats().Languages)
}

func TestAddFeedback(t *testing.T) {
	s := newTestStore()

	t.Run("valid feedback adds one audit entry", func(t *testing.T) {
		for i, kind := range FeedbackKinds() {
			before := len(s.AuditEntries())
			tr := validFeedback("fb-" + kind)
			tr.Type = kind
			require.NoError(t, s.AddFeedback(tr))
			assert.Equal(t, before+1, len(s.AuditEntries()), "iteration %d", i)
		}

		latest := s.AuditEntries()[0]
		assert.Equal(t, ActionFeedbackAdded, latest.Action)
		assert.Equal(t, "fb-correction", latest.Details["feedback_id"])
		assert.Equal(t, "ann1", latest.Details["annotator_id"])
		assert.Equal(t, "correction", latest.Details["feedback_type"])
	})

	t.Run("invalid kind writes nothing", func(t *testing.T) {
		for _, kind := range []string{"", "neutral", "POSITIVE", "positive "} {
			fbBefore := s.Feedback().Len()
			auditBefore := s.Audit().Len()

			tr := validFeedback("bad-" + kind)
			tr.Type = kind
			err := s.AddFeedback(tr)

			assert.ErrorIs(t, err, ErrInvalidFeedbackKind, "kind %q", kind)
			assert.Equal(t, fbBefore, s.Feedback().Len())
			assert.Equal(t, auditBefore, s.Audit().Len())
		}
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		auditBefore := s.Audit().Len()
		err := s.AddFeedback(validFeedback("fb-positive"))
		assert.ErrorIs(t, err, ErrDuplicateFeedback)
		assert.Equal(t, auditBefore, s.Audit().Len())
	})

	t.Run("out of range score rejected", func(t *testing.T) {
		tr := validFeedback("fb-range")
		tr.QualityScore = 1.2
		err := s.AddFeedback(tr)
		assert.ErrorIs(t, err, ErrInvalidFeedback)
		assert.NotErrorIs(t, err, ErrInvalidFeedbackKind)
	})

	t.Run("colliding local names stay separate", func(t *testing.T) {
		require.NoError(t, s.AddFeedback(validFeedback("same id")))
		require.NoError(t, s.AddFeedback(validFeedback("same_id")))
		ids := s.Feedback().Match(graph.Term{}, graph.IRI(fg.PropFeedbackID), graph.Term{})
		seen := map[string]bool{}
		for _, tr := range ids {
			seen[tr.Object.Value] = true
		}
		assert.True(t, seen["same id"])
		assert.True(t, seen["same_id"])
	})
}

func TestAddProvenance(t *testing.T) {
	s := newTestStore()
	stmt := s.AddStatement(fact("A", "likes", "b"))
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	id := s.AddProvenance(stmt, map[string]any{
		"score":       0.5,
		"count":       7,
		"reviewed":    false,
		"reviewed_at": ts,
		"note":        "manual",
	})

	prov := s.Provenance()
	ref := graph.IRI(id)
	traced, _ := prov.Value(ref, graph.IRI(fg.PropTracesStatement))
	assert.Equal(t, stmt, traced.Value)

	tests := []struct {
		key  string
		want graph.Term
	}{
		{"score", graph.TypedLiteral("0.5", graph.XSDDouble)},
		{"count", graph.Integer(7)},
		{"reviewed", graph.Boolean(false)},
		{"reviewed_at", graph.DateTime(ts)},
		{"note", graph.Literal("manual")},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := prov.Value(ref, graph.IRI(fg.DetailIRI(tt.key)))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNamedGraph(t *testing.T) {
	s := newTestStore()
	s.AddStatement(fact("A", "likes", "b"))

	g, ok := s.NamedGraph(PartitionMain.IRI())
	require.True(t, ok)
	assert.Equal(t, 1, g.Len())

	_, ok = s.NamedGraph("main")
	assert.False(t, ok, "short names are not graph IRIs")
	_, ok = s.NamedGraph(fg.GraphIRI("other"))
	assert.False(t, ok)

	assert.Len(t, s.GraphNames(), 6)
}
