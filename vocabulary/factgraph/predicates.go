package factgraph

import "github.com/c360studio/semstreams/vocabulary"

// Statement predicates describe the provenance envelope of one fact.
const (
	StatementSubject    = "factgraph.statement.subject"
	StatementPredicate  = "factgraph.statement.predicate"
	StatementObject     = "factgraph.statement.object"
	StatementConfidence = "factgraph.statement.confidence"
	StatementLanguage   = "factgraph.statement.language"
	StatementTimestamp  = "factgraph.statement.timestamp"
	StatementAttributed = "factgraph.statement.attributed_to"
	StatementFeedback   = "factgraph.statement.feedback"
	StatementTraces     = "factgraph.statement.traces"
)

// Document predicates.
const (
	DocumentContainsText = "factgraph.document.contains_text"
	DocumentID           = "factgraph.document.id"
	DocumentContent      = "factgraph.document.content"
	DocumentLanguage     = "factgraph.document.language"
)

// Annotator predicates.
const (
	AnnotatorID          = "factgraph.annotator.id"
	AnnotatorName        = "factgraph.annotator.name"
	AnnotatorReliability = "factgraph.annotator.reliability"
	AnnotatorCount       = "factgraph.annotator.count"
	AnnotatorExpertise   = "factgraph.annotator.expertise"
	AnnotatorSpeaks      = "factgraph.annotator.speaks"
)

// Language predicates cover language metadata rows and language annotations.
const (
	LanguageAnnotates       = "factgraph.language.annotates"
	LanguageText            = "factgraph.language.text"
	LanguageCode            = "factgraph.language.code"
	LanguageDetectionMethod = "factgraph.language.detection_method"
	LanguageCulturalContext = "factgraph.language.cultural_context"
	LanguageDialect         = "factgraph.language.dialect"
	LanguageName            = "factgraph.language.name"
	LanguageScript          = "factgraph.language.script"
	LanguageRightToLeft     = "factgraph.language.rtl"
)

// Feedback predicates.
const (
	FeedbackID        = "factgraph.feedback.id"
	FeedbackStatement = "factgraph.feedback.statement"
	FeedbackType      = "factgraph.feedback.type"
	FeedbackQuality   = "factgraph.feedback.quality"
	FeedbackRelevance = "factgraph.feedback.relevance"
	FeedbackCultural  = "factgraph.feedback.cultural_appropriateness"
	FeedbackText      = "factgraph.feedback.text"
	FeedbackSession   = "factgraph.feedback.session"
	FeedbackBy        = "factgraph.feedback.provided_by"
)

// Record predicates shared by several record kinds.
const (
	RecordCreated   = "factgraph.record.created"
	RecordAction    = "factgraph.record.action"
	RecordLabel     = "factgraph.record.label"
	RecordPrefLabel = "factgraph.record.pref_label"
	RecordAltLabel  = "factgraph.record.alt_label"
)

// Fact predicates produced by the built-in extraction rules.
const (
	FactLikes      = "factgraph.fact.likes"
	FactAllergicTo = "factgraph.fact.allergic_to"
	FactHas        = "factgraph.fact.has"
	FactOwns       = "factgraph.fact.owns"
)

func init() {
	registerStatementPredicates()
	registerDocumentPredicates()
	registerAnnotatorPredicates()
	registerLanguagePredicates()
	registerFeedbackPredicates()
	registerRecordPredicates()
	registerFactPredicates()
}

func registerStatementPredicates() {
	vocabulary.Register(StatementSubject,
		vocabulary.WithDescription("Subject of the wrapped fact"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropHasSubject))

	vocabulary.Register(StatementPredicate,
		vocabulary.WithDescription("Predicate of the wrapped fact"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropHasPredicate))

	vocabulary.Register(StatementObject,
		vocabulary.WithDescription("Object of the wrapped fact, entity or literal"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropHasObject))

	vocabulary.Register(StatementConfidence,
		vocabulary.WithDescription("Extraction or detection confidence in [0,1]"),
		vocabulary.WithDataType("float64"),
		vocabulary.WithIRI(PropConfidence))

	vocabulary.Register(StatementLanguage,
		vocabulary.WithDescription("Language of the source text"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropSourceLanguage))

	vocabulary.Register(StatementTimestamp,
		vocabulary.WithDescription("When the statement was written"),
		vocabulary.WithDataType("datetime"),
		vocabulary.WithIRI(PropTimestamp))

	vocabulary.Register(StatementAttributed,
		vocabulary.WithDescription("Annotator the statement is attributed to"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropAttributedTo))

	vocabulary.Register(StatementFeedback,
		vocabulary.WithDescription("Feedback record attached at write time"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropHasFeedback))

	vocabulary.Register(StatementTraces,
		vocabulary.WithDescription("Statement a provenance record traces"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropTracesStatement))

}

func registerDocumentPredicates() {
	vocabulary.Register(DocumentContainsText,
		vocabulary.WithDescription("Raw text of a document"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropContainsText))

	vocabulary.Register(DocumentID,
		vocabulary.WithDescription("Caller-assigned document identifier"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropDocumentID))

	vocabulary.Register(DocumentContent,
		vocabulary.WithDescription("Document text"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropContent))

	vocabulary.Register(DocumentLanguage,
		vocabulary.WithDescription("Detected document language"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropLanguage))
}

func registerAnnotatorPredicates() {
	vocabulary.Register(AnnotatorID,
		vocabulary.WithDescription("Annotator identifier"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropAnnotatorID))

	vocabulary.Register(AnnotatorName,
		vocabulary.WithDescription("Annotator display name"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropName))

	vocabulary.Register(AnnotatorReliability,
		vocabulary.WithDescription("Caller-supplied reliability snapshot in [0,1]"),
		vocabulary.WithDataType("float64"),
		vocabulary.WithIRI(PropReliabilityScore))

	vocabulary.Register(AnnotatorCount,
		vocabulary.WithDescription("Caller-supplied annotation count"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(PropAnnotationCount))

	vocabulary.Register(AnnotatorExpertise,
		vocabulary.WithDescription("Expertise domain"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropExpertiseIn))

	vocabulary.Register(AnnotatorSpeaks,
		vocabulary.WithDescription("Language the annotator works in"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropSpeaksLanguage))
}

func registerLanguagePredicates() {
	vocabulary.Register(LanguageAnnotates,
		vocabulary.WithDescription("Statement a language annotation describes"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropAnnotates))

	vocabulary.Register(LanguageText,
		vocabulary.WithDescription("Annotated text, tagged with its language"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropText))

	vocabulary.Register(LanguageCode,
		vocabulary.WithDescription("Language code"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropLanguageCode))

	vocabulary.Register(LanguageDetectionMethod,
		vocabulary.WithDescription("How the language was determined"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropDetectionMethod))

	vocabulary.Register(LanguageCulturalContext,
		vocabulary.WithDescription("Cultural context of the annotated text"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropCulturalContext))

	vocabulary.Register(LanguageDialect,
		vocabulary.WithDescription("Dialect variant of the annotated text"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropDialectVariant))

	vocabulary.Register(LanguageName,
		vocabulary.WithDescription("Language display name"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropLanguageName))

	vocabulary.Register(LanguageScript,
		vocabulary.WithDescription("Writing system"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropScript))

	vocabulary.Register(LanguageRightToLeft,
		vocabulary.WithDescription("Whether the script is written right to left"),
		vocabulary.WithDataType("bool"),
		vocabulary.WithIRI(PropRightToLeft))
}

func registerFeedbackPredicates() {
	vocabulary.Register(FeedbackID,
		vocabulary.WithDescription("Caller-assigned feedback identifier"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropFeedbackID))

	vocabulary.Register(FeedbackStatement,
		vocabulary.WithDescription("Statement the feedback targets"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropStatementID))

	vocabulary.Register(FeedbackType,
		vocabulary.WithDescription("Feedback kind: positive, negative or correction"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropFeedbackType))

	vocabulary.Register(FeedbackQuality,
		vocabulary.WithDescription("Quality score in [0,1]"),
		vocabulary.WithDataType("float64"),
		vocabulary.WithIRI(PropQualityScore))

	vocabulary.Register(FeedbackRelevance,
		vocabulary.WithDescription("Relevance score in [0,1]"),
		vocabulary.WithDataType("float64"),
		vocabulary.WithIRI(PropRelevanceScore))

	vocabulary.Register(FeedbackCultural,
		vocabulary.WithDescription("Cultural appropriateness score in [0,1]"),
		vocabulary.WithDataType("float64"),
		vocabulary.WithIRI(PropCulturalFit))

	vocabulary.Register(FeedbackText,
		vocabulary.WithDescription("Free-text feedback"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropFeedbackText))

	vocabulary.Register(FeedbackSession,
		vocabulary.WithDescription("Feedback session identifier"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropSessionID))

	vocabulary.Register(FeedbackBy,
		vocabulary.WithDescription("Annotator who provided the feedback"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropProvidedBy))
}

func registerRecordPredicates() {
	vocabulary.Register(RecordCreated,
		vocabulary.WithDescription("Creation timestamp"),
		vocabulary.WithDataType("datetime"),
		vocabulary.WithIRI(PropCreated))

	vocabulary.Register(RecordAction,
		vocabulary.WithDescription("Audited action name"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropAction))

	vocabulary.Register(RecordLabel,
		vocabulary.WithDescription("Human-readable label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropLabel))

	vocabulary.Register(RecordPrefLabel,
		vocabulary.WithDescription("Preferred concept label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropPreferredLabel))

	vocabulary.Register(RecordAltLabel,
		vocabulary.WithDescription("Alternative concept label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropAlternativeLabel))
}

func registerFactPredicates() {
	vocabulary.Register(FactLikes,
		vocabulary.WithDescription("Subject likes the object"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyIRI("likes")))

	vocabulary.Register(FactAllergicTo,
		vocabulary.WithDescription("Subject is allergic to the object"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyIRI("allergic_to")))

	vocabulary.Register(FactHas,
		vocabulary.WithDescription("Subject has the object"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyIRI("has")))

	vocabulary.Register(FactOwns,
		vocabulary.WithDescription("Subject owns the object"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropertyIRI("owns")))
}
