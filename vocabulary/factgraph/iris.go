package factgraph

// Base is the root of every factgraph IRI.
const Base = "https://factgraph.dev/"

// Namespaces for ontology terms and minted resources.
const (
	Namespace           = Base + "ontology/"
	DetailNamespace     = Namespace + "detail/"
	DataNamespace       = Base + "data/"
	ProvenanceNamespace = Base + "provenance/"
	FeedbackNamespace   = Base + "rlhf/"
	AnnotatorNamespace  = Base + "annotators/"
	LanguageNamespace   = Base + "languages/"
	AuditNamespace      = Base + "audit/"
	GraphNamespace      = Base + "graphs/"
)

// Standard vocabulary IRIs used directly by factgraph properties.
const (
	RDFType             = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFSLabel           = "http://www.w3.org/2000/01/rdf-schema#label"
	FOAFName            = "http://xmlns.com/foaf/0.1/name"
	DcCreated           = "http://purl.org/dc/terms/created"
	ProvGeneratedAtTime = "http://www.w3.org/ns/prov#generatedAtTime"
	ProvWasAttributedTo = "http://www.w3.org/ns/prov#wasAttributedTo"
	SkosPrefLabel       = "http://www.w3.org/2004/02/skos/core#prefLabel"
	SkosAltLabel        = "http://www.w3.org/2004/02/skos/core#altLabel"
)

// Class IRIs.
const (
	// ClassStatement is a provenance envelope around one fact.
	ClassStatement = Namespace + "Statement"

	// ClassDocument is a corpus unit.
	ClassDocument = Namespace + "Document"

	// ClassEntity is a resource minted from an extracted label.
	ClassEntity = Namespace + "Entity"

	// ClassAnnotator is a registered annotator profile.
	ClassAnnotator = Namespace + "Annotator"

	ClassLanguage           = Namespace + "Language"
	ClassLanguageAnnotation = Namespace + "LanguageAnnotation"

	// ClassFeedback is a human feedback trace or a statement feedback record.
	ClassFeedback = Namespace + "RLHFFeedback"

	ClassProvenanceRecord = Namespace + "ProvenanceRecord"
	ClassAuditEntry       = Namespace + "AuditEntry"
)

// Property IRIs.
const (
	PropHasSubject       = Namespace + "hasSubject"
	PropHasPredicate     = Namespace + "hasPredicate"
	PropHasObject        = Namespace + "hasObject"
	PropConfidence       = Namespace + "confidence"
	PropSourceLanguage   = Namespace + "sourceLanguage"
	PropAnnotatorID      = Namespace + "annotatorId"
	PropHasFeedback      = Namespace + "hasRLHFFeedback"
	PropContainsText     = Namespace + "contains_text"
	PropDocumentID       = Namespace + "documentId"
	PropContent          = Namespace + "content"
	PropLanguage         = Namespace + "language"
	PropReliabilityScore = Namespace + "reliabilityScore"
	PropAnnotationCount  = Namespace + "annotationCount"
	PropExpertiseIn      = Namespace + "expertiseIn"
	PropSpeaksLanguage   = Namespace + "speaksLanguage"
	PropAnnotates        = Namespace + "annotatesStatement"
	PropText             = Namespace + "text"
	PropLanguageCode     = Namespace + "languageCode"
	PropDetectionMethod  = Namespace + "detectionMethod"
	PropCulturalContext  = Namespace + "culturalContext"
	PropDialectVariant   = Namespace + "dialectVariant"
	PropLanguageName     = Namespace + "languageName"
	PropScript           = Namespace + "script"
	PropRightToLeft      = Namespace + "rightToLeft"
	PropFeedbackID       = Namespace + "feedbackId"
	PropStatementID      = Namespace + "statementId"
	PropFeedbackType     = Namespace + "feedbackType"
	PropQualityScore     = Namespace + "qualityScore"
	PropRelevanceScore   = Namespace + "relevanceScore"
	PropCulturalFit      = Namespace + "culturalAppropriateness"
	PropFeedbackText     = Namespace + "feedbackText"
	PropSessionID        = Namespace + "sessionId"
	PropProvidedBy       = Namespace + "providedBy"
	PropTracesStatement  = Namespace + "tracesStatement"
	PropAction           = Namespace + "action"
	PropTimestamp        = ProvGeneratedAtTime
	PropAttributedTo     = ProvWasAttributedTo
	PropCreated          = DcCreated
	PropName             = FOAFName
	PropLabel            = RDFSLabel
	PropPreferredLabel   = SkosPrefLabel
	PropAlternativeLabel = SkosAltLabel
)

// PropertyIRI returns the ontology IRI for an extracted predicate label.
func PropertyIRI(label string) string {
	return Namespace + label
}

// DetailIRI returns the property IRI for a free-form provenance detail key.
func DetailIRI(key string) string {
	return DetailNamespace + key
}

// GraphIRI returns the IRI naming a partition.
func GraphIRI(name string) string {
	return GraphNamespace + name
}

// AnnotatorIRI returns the resource IRI of an annotator.
func AnnotatorIRI(id string) string {
	return AnnotatorNamespace + id
}

// LanguageIRI returns the resource IRI of a language metadata row.
func LanguageIRI(code string) string {
	return LanguageNamespace + code
}
