package export_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/c360studio/factgraph/export"
	"github.com/c360studio/factgraph/graph"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/c360studio/semstreams/vocabulary/cco"
)

func TestGetProfileConfig(t *testing.T) {
	tests := []struct {
		profile  export.Profile
		wantBFO  bool
		wantCCO  bool
		wantPROV bool
	}{
		{export.ProfileMinimal, false, false, true},
		{export.ProfileBFO, true, false, true},
		{export.ProfileCCO, true, true, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.profile), func(t *testing.T) {
			config := export.GetProfileConfig(tc.profile)
			if config.IncludeBFO != tc.wantBFO {
				t.Errorf("IncludeBFO = %v, want %v", config.IncludeBFO, tc.wantBFO)
			}
			if config.IncludeCCO != tc.wantCCO {
				t.Errorf("IncludeCCO = %v, want %v", config.IncludeCCO, tc.wantCCO)
			}
			if config.IncludePROV != tc.wantPROV {
				t.Errorf("IncludePROV = %v, want %v", config.IncludePROV, tc.wantPROV)
			}
		})
	}
}

func TestGetProfileConfigUnknown(t *testing.T) {
	config := export.GetProfileConfig("unknown")
	if config.Name != export.ProfileMinimal {
		t.Errorf("Unknown profile should default to minimal, got %s", config.Name)
	}
}

func TestParseProfile(t *testing.T) {
	for in, want := range map[string]export.Profile{"": export.ProfileMinimal, "BFO": export.ProfileBFO, " cco ": export.ProfileCCO} {
		got, err := export.ParseProfile(in)
		if err != nil || got != want {
			t.Errorf("ParseProfile(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := export.ParseProfile("owl"); !errors.Is(err, export.ErrUnknownProfile) {
		t.Errorf("expected ErrUnknownProfile, got %v", err)
	}
}

func TestTypeAsserter(t *testing.T) {
	tests := []struct {
		profile export.Profile
		class   string
		want    []string
	}{
		{export.ProfileMinimal, fg.ClassStatement, []string{vocabulary.ProvEntity}},
		{export.ProfileBFO, fg.ClassStatement, []string{vocabulary.ProvEntity, bfo.GenericallyDependentContinuant}},
		{export.ProfileCCO, fg.ClassStatement, []string{vocabulary.ProvEntity, bfo.GenericallyDependentContinuant, cco.InformationContentEntity}},
		{export.ProfileCCO, fg.ClassAnnotator, []string{vocabulary.ProvAgent, bfo.IndependentContinuant, cco.Person}},
		{export.ProfileCCO, fg.ClassFeedback, []string{vocabulary.ProvActivity, bfo.Process, cco.ActOfCommunication}},
		{export.ProfileCCO, fg.ClassEntity, []string{vocabulary.ProvEntity, bfo.Entity}},
		{export.ProfileCCO, "http://example.org/Other", []string{}},
	}

	for _, tc := range tests {
		t.Run(string(tc.profile)+" "+tc.class, func(t *testing.T) {
			got := export.NewTypeAsserter(tc.profile).GetTypeIRIs(tc.class)
			if !slices.Equal(got, tc.want) {
				t.Errorf("GetTypeIRIs() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEveryClassAligned(t *testing.T) {
	asserter := export.NewTypeAsserter(export.ProfileBFO)
	for _, class := range fg.Classes() {
		if len(asserter.GetTypeIRIs(class)) != 2 {
			t.Errorf("class %s should have PROV and BFO alignment", class)
		}
	}
}

func TestTypeTriples(t *testing.T) {
	g := graph.New()
	s := graph.IRI(fg.ProvenanceNamespace + "statement_1")
	g.Add(graph.Triple{Subject: s, Predicate: graph.IRI(graph.RDFType), Object: graph.IRI(fg.ClassStatement)})
	g.Add(graph.Triple{Subject: s, Predicate: graph.IRI(fg.PropConfidence), Object: graph.Float(0.9)})

	got := export.NewTypeAsserter(export.ProfileBFO).TypeTriples(g)
	if len(got) != 2 {
		t.Fatalf("expected 2 alignment triples, got %d", len(got))
	}
	for _, tr := range got {
		if tr.Subject != s || tr.Predicate.Value != graph.RDFType {
			t.Errorf("unexpected triple %v", tr)
		}
	}
}
