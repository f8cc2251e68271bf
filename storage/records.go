package storage

import (
	"time"

	"github.com/c360studio/factgraph/graph"
)

// Feedback kinds accepted by AddFeedback.
const (
	FeedbackPositive   = "positive"
	FeedbackNegative   = "negative"
	FeedbackCorrection = "correction"
)

// FeedbackKinds lists the accepted feedback kinds.
func FeedbackKinds() []string {
	return []string{FeedbackPositive, FeedbackNegative, FeedbackCorrection}
}

// Statement is the input to AddStatement: one fact plus its provenance.
type Statement struct {
	Subject    graph.Term
	Predicate  graph.Term
	Object     graph.Term
	Confidence float64
	// SourceLanguage is the language of the text the fact came from.
	SourceLanguage string
	AnnotatorID    string
	// CreatedAt defaults to the store clock when zero.
	CreatedAt time.Time
	// Details is an open bag of provenance metadata, serialised by value type.
	Details map[string]any
	// Feedback, when set, is written as a feedback record linked from the
	// statement.
	Feedback map[string]any
}

// AnnotatorProfile is a registered annotator. Reliability and annotation
// count are caller-supplied snapshots.
type AnnotatorProfile struct {
	ID               string    `json:"annotator_id" validate:"required"`
	Name             string    `json:"name"`
	ExpertiseDomains []string  `json:"expertise_domains,omitempty"`
	Languages        []string  `json:"languages,omitempty" validate:"dive,required"`
	ReliabilityScore float64   `json:"reliability_score" validate:"gte=0,lte=1"`
	AnnotationCount  int       `json:"annotation_count" validate:"gte=0"`
	CreatedAt        time.Time `json:"created_at"`
}

// LanguageAnnotation describes the language of a statement's text.
type LanguageAnnotation struct {
	Text            string  `json:"text"`
	Code            string  `json:"language_code" validate:"required"`
	Confidence      float64 `json:"confidence" validate:"gte=0,lte=1"`
	DetectionMethod string  `json:"detection_method"`
	CulturalContext string  `json:"cultural_context,omitempty"`
	DialectVariant  string  `json:"dialect_variant,omitempty"`
}

// FeedbackTrace is one human feedback submission.
type FeedbackTrace struct {
	ID                      string    `json:"feedback_id" validate:"required"`
	StatementID             string    `json:"statement_id" validate:"required"`
	Type                    string    `json:"feedback_type" validate:"required,oneof=positive negative correction"`
	QualityScore            float64   `json:"quality_score" validate:"gte=0,lte=1"`
	RelevanceScore          float64   `json:"relevance_score" validate:"gte=0,lte=1"`
	CulturalAppropriateness float64   `json:"cultural_appropriateness" validate:"gte=0,lte=1"`
	Text                    string    `json:"feedback_text,omitempty"`
	AnnotatorID             string    `json:"annotator_id" validate:"required"`
	Timestamp               time.Time `json:"timestamp"`
	SessionID               string    `json:"session_id,omitempty"`
}

// StatementRow is one result of QueryByAnnotator.
type StatementRow struct {
	ID             string
	Subject        graph.Term
	Predicate      graph.Term
	Object         graph.Term
	Confidence     float64
	SourceLanguage string
	AnnotatorID    string
	Timestamp      time.Time
	Details        map[string]string
}

// AnnotationRow is one result of QueryByLanguage.
type AnnotationRow struct {
	ID              string
	StatementID     string
	Text            string
	Code            string
	LanguageName    string
	Confidence      float64
	DetectionMethod string
	CulturalContext string
	DialectVariant  string
	CreatedAt       time.Time
}

// FeedbackRow is one result of QueryFeedback.
type FeedbackRow struct {
	ID                      string
	StatementID             string
	Type                    string
	QualityScore            float64
	RelevanceScore          float64
	CulturalAppropriateness float64
	Text                    string
	SessionID               string
	AnnotatorID             string
	AnnotatorName           string
	AnnotatorReliability    float64
	Timestamp               time.Time
}

// AuditRow is one audit log entry.
type AuditRow struct {
	ID        string
	Action    string
	CreatedAt time.Time
	Details   map[string]string
}

// FeedbackFilter narrows QueryFeedback. Zero values match everything.
type FeedbackFilter struct {
	Type       string
	MinQuality *float64
}
