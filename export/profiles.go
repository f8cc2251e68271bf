package export

import (
	"fmt"
	"strings"

	"github.com/c360studio/factgraph/graph"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
)

// Profile determines which ontology type assertions are added on export.
type Profile string

const (
	// ProfileMinimal adds PROV-O type assertions only.
	ProfileMinimal Profile = "minimal"

	// ProfileBFO adds BFO type assertions plus the minimal profile.
	ProfileBFO Profile = "bfo"

	// ProfileCCO adds CCO type assertions plus the BFO profile.
	ProfileCCO Profile = "cco"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description describes the profile.
	Description string

	// IncludePROV indicates whether to include PROV-O type assertions.
	IncludePROV bool

	// IncludeBFO indicates whether to include BFO type assertions.
	IncludeBFO bool

	// IncludeCCO indicates whether to include CCO type assertions.
	IncludeCCO bool
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileMinimal: {
		Name:        ProfileMinimal,
		Description: "PROV-O type assertions only",
		IncludePROV: true,
	},
	ProfileBFO: {
		Name:        ProfileBFO,
		Description: "BFO type assertions plus minimal profile",
		IncludePROV: true,
		IncludeBFO:  true,
	},
	ProfileCCO: {
		Name:        ProfileCCO,
		Description: "Full CCO/BFO/PROV-O alignment",
		IncludePROV: true,
		IncludeBFO:  true,
		IncludeCCO:  true,
	},
}

// ParseProfile accepts a profile name. An empty string selects the minimal
// profile.
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return ProfileMinimal, nil
	}
	if _, ok := Profiles[p]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProfile, s)
	}
	return p, nil
}

// GetProfileConfig returns the configuration for a profile, falling back to
// the minimal profile.
func GetProfileConfig(profile Profile) ProfileConfig {
	if config, ok := Profiles[profile]; ok {
		return config
	}
	return Profiles[ProfileMinimal]
}

// TypeAsserter generates alignment type assertions for factgraph classes.
type TypeAsserter struct {
	profile ProfileConfig
}

// NewTypeAsserter creates a new type asserter for the given profile.
func NewTypeAsserter(profile Profile) *TypeAsserter {
	return &TypeAsserter{profile: GetProfileConfig(profile)}
}

// GetTypeIRIs returns the aligned type IRIs of a factgraph class. Classes
// outside the factgraph ontology yield nothing.
func (t *TypeAsserter) GetTypeIRIs(classIRI string) []string {
	types := make([]string, 0, 3)
	if t.profile.IncludePROV {
		if c, ok := fg.PROVClassMap[classIRI]; ok {
			types = append(types, c)
		}
	}
	if t.profile.IncludeBFO {
		if c, ok := fg.BFOClassMap[classIRI]; ok {
			types = append(types, c)
		}
	}
	if t.profile.IncludeCCO {
		if c, ok := fg.CCOClassMap[classIRI]; ok {
			types = append(types, c)
		}
	}
	return types
}

// TypeTriples returns the alignment rdf:type triples for every typed
// resource in g, in the order the resources' type triples appear.
func (t *TypeAsserter) TypeTriples(g graph.View) []graph.Triple {
	rdfType := graph.IRI(graph.RDFType)
	var out []graph.Triple
	for _, tr := range g.Match(graph.Term{}, rdfType, graph.Term{}) {
		for _, iri := range t.GetTypeIRIs(tr.Object.Value) {
			out = append(out, graph.Triple{Subject: tr.Subject, Predicate: rdfType, Object: graph.IRI(iri)})
		}
	}
	return out
}
