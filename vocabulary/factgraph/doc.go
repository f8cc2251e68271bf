// Package factgraph provides the vocabulary of the fact graph: namespaces,
// class IRIs and the properties written by the ingest and storage layers.
//
// # Semstreams Integration
//
// Every property is registered in init() with vocabulary.Register using a
// dotted predicate name (factgraph.<category>.<property>) and its IRI via
// vocabulary.WithIRI. The IRI is what the graph stores; the dotted name is
// what semstreams metadata lookups use. PredicateForIRI maps back.
//
// # Ontology Alignment
//
// Timestamps, attribution, labels, names and creation dates reuse PROV-O,
// RDFS, FOAF and Dublin Core properties. Everything else lives under
// Namespace.
//
// # Namespaces
//
//	Namespace           ontology classes and properties
//	DataNamespace       minted entities and documents
//	ProvenanceNamespace statement wrappers and provenance traces
//	FeedbackNamespace   feedback traces and statement feedback records
//	AnnotatorNamespace  annotator profiles
//	LanguageNamespace   language metadata and language annotations
//	AuditNamespace      audit entries
//	GraphNamespace      partition names
package factgraph
