package factgraph

import (
	"testing"

	"github.com/c360studio/semstreams/vocabulary"
)

func TestPredicatesRegistered(t *testing.T) {
	for iri, pred := range predicatesByIRI {
		t.Run(pred, func(t *testing.T) {
			meta := vocabulary.GetPredicateMetadata(pred)
			if meta == nil {
				t.Fatalf("predicate %s not registered", pred)
			}
			if meta.Description == "" {
				t.Errorf("predicate %s missing description", pred)
			}
			if meta.StandardIRI != iri {
				t.Errorf("predicate %s: expected IRI %s, got %s", pred, iri, meta.StandardIRI)
			}
		})
	}
}

func TestStandardAlignment(t *testing.T) {
	tests := []struct {
		predicate   string
		expectedIRI string
	}{
		{StatementTimestamp, "http://www.w3.org/ns/prov#generatedAtTime"},
		{StatementAttributed, "http://www.w3.org/ns/prov#wasAttributedTo"},
		{RecordCreated, "http://purl.org/dc/terms/created"},
		{AnnotatorName, "http://xmlns.com/foaf/0.1/name"},
		{RecordLabel, "http://www.w3.org/2000/01/rdf-schema#label"},
		{RecordPrefLabel, "http://www.w3.org/2004/02/skos/core#prefLabel"},
	}

	for _, tt := range tests {
		t.Run(tt.predicate, func(t *testing.T) {
			meta := vocabulary.GetPredicateMetadata(tt.predicate)
			if meta == nil {
				t.Fatalf("predicate %s not registered", tt.predicate)
			}
			if meta.StandardIRI != tt.expectedIRI {
				t.Errorf("predicate %s: expected IRI %s, got %s", tt.predicate, tt.expectedIRI, meta.StandardIRI)
			}
		})
	}
}

func TestPredicateDataTypes(t *testing.T) {
	tests := []struct {
		predicate    string
		expectedType string
	}{
		{StatementConfidence, "float64"},
		{StatementTimestamp, "datetime"},
		{StatementSubject, "entity_id"},
		{AnnotatorCount, "int"},
		{LanguageRightToLeft, "bool"},
		{FeedbackType, "string"},
	}

	for _, tt := range tests {
		t.Run(tt.predicate, func(t *testing.T) {
			meta := vocabulary.GetPredicateMetadata(tt.predicate)
			if meta == nil {
				t.Fatalf("predicate %s not registered", tt.predicate)
			}
			if meta.DataType != tt.expectedType {
				t.Errorf("predicate %s: expected type %s, got %s", tt.predicate, tt.expectedType, meta.DataType)
			}
		})
	}
}

func TestPredicateForIRI(t *testing.T) {
	if p, ok := PredicateForIRI(PropertyIRI("likes")); !ok || p != FactLikes {
		t.Errorf("PredicateForIRI(likes) = %q, %v", p, ok)
	}
	if _, ok := PredicateForIRI(Namespace + "undeclared"); ok {
		t.Error("undeclared IRI should not resolve")
	}
}

func TestClassLabels(t *testing.T) {
	for _, class := range Classes() {
		labels, ok := ClassLabels[class]
		if !ok {
			t.Errorf("class %s has no labels", class)
			continue
		}
		for _, lang := range []string{"en", "es", "ar", "id"} {
			if labels[lang] == "" {
				t.Errorf("class %s missing %s label", class, lang)
			}
		}
	}
}

func TestIRIHelpers(t *testing.T) {
	if got := GraphIRI("main"); got != "https://factgraph.dev/graphs/main" {
		t.Errorf("GraphIRI = %s", got)
	}
	if got := AnnotatorIRI("ann1"); got != "https://factgraph.dev/annotators/ann1" {
		t.Errorf("AnnotatorIRI = %s", got)
	}
	if got := LanguageIRI("es"); got != "https://factgraph.dev/languages/es" {
		t.Errorf("LanguageIRI = %s", got)
	}
	if got := DetailIRI("source_text"); got != "https://factgraph.dev/ontology/detail/source_text" {
		t.Errorf("DetailIRI = %s", got)
	}
}
