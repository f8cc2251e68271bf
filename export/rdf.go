// Package export serializes store partitions to RDF files, with optional
// PROV-O/BFO/CCO type alignment.
package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/c360studio/factgraph/graph"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/vocabulary"
	ssexport "github.com/c360studio/semstreams/vocabulary/export"
	"github.com/google/uuid"
)

// DefaultPrefixes returns the namespace prefixes declared in Turtle output.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  graph.RDF,
		"rdfs": graph.RDFS,
		"xsd":  graph.XSD,
		"dc":   "http://purl.org/dc/terms/",
		"skos": "http://www.w3.org/2004/02/skos/core#",
		"prov": "http://www.w3.org/ns/prov#",
		"foaf": "http://xmlns.com/foaf/0.1/",
		"fg":   fg.Namespace,
		"fgd":  fg.DataNamespace,
		"fgp":  fg.ProvenanceNamespace,
		"fgr":  fg.FeedbackNamespace,
		"fga":  fg.AnnotatorNamespace,
		"fgl":  fg.LanguageNamespace,
		"fgx":  fg.AuditNamespace,
		"fgg":  fg.GraphNamespace,
	}
}

// sortTriples orders triples by subject, then predicate, then object.
func sortTriples(triples []graph.Triple) []graph.Triple {
	out := make([]graph.Triple, len(triples))
	copy(out, triples)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Subject.Value != b.Subject.Value {
			return a.Subject.Value < b.Subject.Value
		}
		if a.Predicate.Value != b.Predicate.Value {
			// rdf:type first within a subject block.
			if a.Predicate.Value == graph.RDFType || b.Predicate.Value == graph.RDFType {
				return a.Predicate.Value == graph.RDFType
			}
			return a.Predicate.Value < b.Predicate.Value
		}
		return a.Object.String() < b.Object.String()
	})
	return out
}

// WriteNTriples writes one line per triple, sorted.
func WriteNTriples(w io.Writer, triples []graph.Triple) error {
	bw := bufio.NewWriter(w)
	for _, t := range sortTriples(triples) {
		if _, err := fmt.Fprintf(bw, "%s %s %s .\n", t.Subject, t.Predicate, t.Object); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// TurtleWriter writes RDF in Turtle format, grouping triples by subject and
// abbreviating IRIs with its prefixes.
type TurtleWriter struct {
	prefixes map[string]string
}

// NewTurtleWriter creates a Turtle writer with the default prefixes.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{prefixes: DefaultPrefixes()}
}

// SetPrefix sets a namespace prefix.
func (tw *TurtleWriter) SetPrefix(prefix, iri string) {
	tw.prefixes[prefix] = iri
}

// Write serializes triples. Language tags and datatypes are preserved.
func (tw *TurtleWriter) Write(w io.Writer, triples []graph.Triple) error {
	bw := bufio.NewWriter(w)

	keys := make([]string, 0, len(tw.prefixes))
	for k := range tw.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		fmt.Fprintf(bw, "@prefix %s: <%s> .\n", prefix, tw.prefixes[prefix])
	}

	sorted := sortTriples(triples)
	for i, t := range sorted {
		newSubject := i == 0 || sorted[i-1].Subject != t.Subject
		newPredicate := newSubject || sorted[i-1].Predicate != t.Predicate
		switch {
		case newSubject:
			fmt.Fprintf(bw, "\n%s\n    %s %s", tw.term(t.Subject), tw.predicate(t.Predicate), tw.term(t.Object))
		case newPredicate:
			fmt.Fprintf(bw, " ;\n    %s %s", tw.predicate(t.Predicate), tw.term(t.Object))
		default:
			fmt.Fprintf(bw, " ,\n        %s", tw.term(t.Object))
		}
		if i == len(sorted)-1 || sorted[i+1].Subject != t.Subject {
			bw.WriteString(" .\n")
		}
	}
	return bw.Flush()
}

func (tw *TurtleWriter) predicate(p graph.Term) string {
	if p.Value == graph.RDFType {
		return "a"
	}
	return tw.term(p)
}

func (tw *TurtleWriter) term(t graph.Term) string {
	switch {
	case t.IsIRI():
		return tw.compact(t.Value)
	case t.IsLiteral() && t.Datatype != "" && t.Lang == "":
		return `"` + graph.EscapeString(t.Value) + `"^^` + tw.compact(t.Datatype)
	default:
		return t.String()
	}
}

// compact abbreviates iri with the longest matching prefix when the
// remainder is a safe local name.
func (tw *TurtleWriter) compact(iri string) string {
	best, bestNS := "", ""
	for prefix, ns := range tw.prefixes {
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS != "" {
		if local := iri[len(bestNS):]; safeLocalName(local) {
			return best + ":" + local
		}
	}
	return "<" + iri + ">"
}

func safeLocalName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// JSONLDSerializer renders a message graph as a JSON-LD document.
type JSONLDSerializer func(g *MessageGraph, baseIRI string) (string, error)

// SemstreamsJSONLD serializes through the semstreams vocabulary exporter.
// Entity IDs assigned by MessageTriples resolve back to their original IRIs.
func SemstreamsJSONLD(g *MessageGraph, baseIRI string) (string, error) {
	return ssexport.SerializeToString(g.Triples, ssexport.JSONLD,
		ssexport.WithBaseIRI(baseIRI),
		ssexport.WithSubjectIRIFunc(g.ResolveIRI))
}

// messageIDPrefix leaves one dotted part for the term index, so every
// assigned ID is a six-part semstreams entity ID.
const messageIDPrefix = "factgraph.export.rdf.term.iri."

// MessageGraph is a partition converted to semstreams message triples.
// semstreams only treats six-part entity IDs as resources, so every IRI
// subject and object is replaced by an assigned ID.
type MessageGraph struct {
	Triples []message.Triple
	iris    map[string]string
}

// ResolveIRI returns the IRI behind an assigned entity ID. Unknown IDs are
// returned unchanged.
func (g *MessageGraph) ResolveIRI(id string) string {
	if iri, ok := g.iris[id]; ok {
		return iri
	}
	return id
}

// MessageTriples converts graph triples to semstreams message triples.
// Registered factgraph predicates use their dotted names; any other predicate
// IRI is registered under an alias that maps back to it. Literals carry an
// explicit datatype, and language tags do not survive the conversion.
func MessageTriples(triples []graph.Triple, source string) *MessageGraph {
	g := &MessageGraph{
		Triples: make([]message.Triple, 0, len(triples)),
		iris:    make(map[string]string),
	}
	ids := make(map[string]string)
	entityID := func(iri string) string {
		if id, ok := ids[iri]; ok {
			return id
		}
		id := messageIDPrefix + "t" + strconv.Itoa(len(ids))
		ids[iri] = id
		g.iris[id] = iri
		return id
	}

	for _, t := range triples {
		mt := message.Triple{
			Subject:    entityID(t.Subject.Value),
			Predicate:  messagePredicate(t.Predicate.Value),
			Source:     source,
			Confidence: 1.0,
		}
		switch {
		case t.Object.IsIRI():
			mt.Object = entityID(t.Object.Value)
		case t.Object.Datatype != "":
			mt.Object = t.Object.Value
			mt.Datatype = t.Object.Datatype
		default:
			mt.Object = t.Object.Value
			mt.Datatype = "xsd:string"
		}
		g.Triples = append(g.Triples, mt)
	}
	return g
}

// messagePredicate returns a dotted predicate whose registered standard IRI
// is iri.
func messagePredicate(iri string) string {
	if dotted, ok := fg.PredicateForIRI(iri); ok {
		return dotted
	}
	alias := "factgraph.alias." + uuid.NewSHA1(uuid.NameSpaceURL, []byte(iri)).String()
	if meta := vocabulary.GetPredicateMetadata(alias); meta == nil || meta.StandardIRI != iri {
		vocabulary.Register(alias, vocabulary.WithIRI(iri))
	}
	return alias
}
