package schema

import (
	"testing"

	"github.com/c360studio/factgraph/vocabulary/factgraph"
)

func TestVocabularyResolve(t *testing.T) {
	var r Resolver = Vocabulary{}

	tests := []struct {
		name       string
		identifier string
		wantKind   Kind
		wantOK     bool
	}{
		{"class", factgraph.ClassStatement, KindClass, true},
		{"property by iri", factgraph.PropConfidence, KindProperty, true},
		{"property by dotted name", factgraph.StatementConfidence, KindProperty, true},
		{"standard aligned property", factgraph.PropCreated, KindProperty, true},
		{"extracted predicate", factgraph.PropertyIRI("likes"), KindProperty, true},
		{"undeclared", factgraph.PropertyIRI("invented"), "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := r.Resolve(tt.identifier)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.identifier, ok, tt.wantOK)
			}
			if m.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", m.Kind, tt.wantKind)
			}
		})
	}
}

func TestVocabularyPropertyMetadata(t *testing.T) {
	m, ok := Vocabulary{}.Resolve(factgraph.StatementConfidence)
	if !ok {
		t.Fatal("confidence should resolve")
	}
	if m.Identifier != factgraph.PropConfidence {
		t.Errorf("identifier = %s, want %s", m.Identifier, factgraph.PropConfidence)
	}
	if m.DataType != "float64" || m.Description == "" {
		t.Errorf("unexpected metadata %+v", m)
	}
}

func TestMetadataLabel(t *testing.T) {
	m, _ := Vocabulary{}.Resolve(factgraph.ClassDocument)
	if got := m.Label("es"); got != "Documento" {
		t.Errorf("es label = %q", got)
	}
	if got := m.Label("sw"); got != "Document" {
		t.Errorf("fallback label = %q", got)
	}

	bare := Metadata{Identifier: "https://example.org/ns#Thing"}
	if got := bare.Label("en"); got != "Thing" {
		t.Errorf("local name label = %q", got)
	}
}

func TestEmptyAndStatic(t *testing.T) {
	if _, ok := (Empty{}).Resolve(factgraph.ClassStatement); ok {
		t.Error("empty schema should resolve nothing")
	}

	s := Static{"urn:x": {Identifier: "urn:x", Kind: KindClass}}
	if _, ok := s.Resolve("urn:x"); !ok {
		t.Error("static entry should resolve")
	}
	if _, ok := s.Resolve("urn:y"); ok {
		t.Error("missing static entry should not resolve")
	}
}

func TestChain(t *testing.T) {
	c := Chain{Empty{}, nil, Static{"urn:x": {Identifier: "urn:x"}}, Vocabulary{}}
	if m, ok := c.Resolve("urn:x"); !ok || m.Identifier != "urn:x" {
		t.Errorf("chain did not reach static resolver: %+v %v", m, ok)
	}
	if _, ok := c.Resolve(factgraph.ClassEntity); !ok {
		t.Error("chain did not reach vocabulary resolver")
	}
	if _, ok := c.Resolve("urn:none"); ok {
		t.Error("unknown identifier resolved")
	}
}

func TestLocalName(t *testing.T) {
	tests := map[string]string{
		"https://factgraph.dev/ontology/Statement":   "Statement",
		"http://www.w3.org/2000/01/rdf-schema#label": "label",
		"plain":     "plain",
		"trailing/": "trailing/",
	}
	for in, want := range tests {
		if got := LocalName(in); got != want {
			t.Errorf("LocalName(%q) = %q, want %q", in, got, want)
		}
	}
}
