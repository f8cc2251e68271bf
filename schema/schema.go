// Package schema is the read-only boundary to the class and property
// taxonomy. The rest of the system depends only on Resolver, so it runs
// unchanged against a full, partial or empty schema.
package schema

import (
	"strings"

	"github.com/c360studio/factgraph/vocabulary/factgraph"
	"github.com/c360studio/semstreams/vocabulary"
)

// Kind tells classes from properties.
type Kind string

const (
	KindClass    Kind = "class"
	KindProperty Kind = "property"
)

// Metadata describes one schema identifier.
type Metadata struct {
	Identifier  string
	Kind        Kind
	Predicate   string
	Description string
	DataType    string
	// Labels maps language codes to display labels.
	Labels map[string]string
}

// Label returns the label for lang, falling back to English and then to the
// identifier's local name.
func (m Metadata) Label(lang string) string {
	if l := m.Labels[lang]; l != "" {
		return l
	}
	if l := m.Labels["en"]; l != "" {
		return l
	}
	return LocalName(m.Identifier)
}

// Resolver looks up schema metadata for an identifier. A false result means
// the identifier is not declared, which callers must tolerate.
type Resolver interface {
	Resolve(identifier string) (Metadata, bool)
}

// Empty declares nothing.
type Empty struct{}

// Resolve always reports false.
func (Empty) Resolve(string) (Metadata, bool) { return Metadata{}, false }

// Static resolves from a fixed map keyed by identifier.
type Static map[string]Metadata

// Resolve implements Resolver.
func (s Static) Resolve(identifier string) (Metadata, bool) {
	m, ok := s[identifier]
	return m, ok
}

// Vocabulary resolves factgraph classes from their label table and
// properties through the semstreams predicate registry. Both IRIs and
// dotted predicate names are accepted.
type Vocabulary struct{}

// Resolve implements Resolver.
func (Vocabulary) Resolve(identifier string) (Metadata, bool) {
	if labels, ok := factgraph.ClassLabels[identifier]; ok {
		return Metadata{
			Identifier: identifier,
			Kind:       KindClass,
			Labels:     labels,
		}, true
	}

	pred := identifier
	if p, ok := factgraph.PredicateForIRI(identifier); ok {
		pred = p
	}
	meta := vocabulary.GetPredicateMetadata(pred)
	if meta == nil || (meta.Description == "" && meta.StandardIRI == "") {
		return Metadata{}, false
	}
	iri := meta.StandardIRI
	if iri == "" {
		iri = identifier
	}
	return Metadata{
		Identifier:  iri,
		Kind:        KindProperty,
		Predicate:   pred,
		Description: meta.Description,
		DataType:    meta.DataType,
	}, true
}

// Chain tries each resolver in order.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(identifier string) (Metadata, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if m, ok := r.Resolve(identifier); ok {
			return m, true
		}
	}
	return Metadata{}, false
}

// LocalName returns the part of an IRI after the last '#' or '/'.
func LocalName(iri string) string {
	if i := strings.LastIndexAny(iri, "#/"); i >= 0 && i < len(iri)-1 {
		return iri[i+1:]
	}
	return iri
}
