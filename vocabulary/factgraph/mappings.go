package factgraph

import (
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/c360studio/semstreams/vocabulary/cco"
)

// predicatesByIRI maps each registered IRI back to its dotted predicate name.
var predicatesByIRI = map[string]string{
	PropHasSubject:             StatementSubject,
	PropHasPredicate:           StatementPredicate,
	PropHasObject:              StatementObject,
	PropConfidence:             StatementConfidence,
	PropSourceLanguage:         StatementLanguage,
	PropTimestamp:              StatementTimestamp,
	PropAttributedTo:           StatementAttributed,
	PropHasFeedback:            StatementFeedback,
	PropTracesStatement:        StatementTraces,
	PropContainsText:           DocumentContainsText,
	PropDocumentID:             DocumentID,
	PropContent:                DocumentContent,
	PropLanguage:               DocumentLanguage,
	PropAnnotatorID:            AnnotatorID,
	PropName:                   AnnotatorName,
	PropReliabilityScore:       AnnotatorReliability,
	PropAnnotationCount:        AnnotatorCount,
	PropExpertiseIn:            AnnotatorExpertise,
	PropSpeaksLanguage:         AnnotatorSpeaks,
	PropAnnotates:              LanguageAnnotates,
	PropText:                   LanguageText,
	PropLanguageCode:           LanguageCode,
	PropDetectionMethod:        LanguageDetectionMethod,
	PropCulturalContext:        LanguageCulturalContext,
	PropDialectVariant:         LanguageDialect,
	PropLanguageName:           LanguageName,
	PropScript:                 LanguageScript,
	PropRightToLeft:            LanguageRightToLeft,
	PropFeedbackID:             FeedbackID,
	PropStatementID:            FeedbackStatement,
	PropFeedbackType:           FeedbackType,
	PropQualityScore:           FeedbackQuality,
	PropRelevanceScore:         FeedbackRelevance,
	PropCulturalFit:            FeedbackCultural,
	PropFeedbackText:           FeedbackText,
	PropSessionID:              FeedbackSession,
	PropProvidedBy:             FeedbackBy,
	PropCreated:                RecordCreated,
	PropAction:                 RecordAction,
	PropLabel:                  RecordLabel,
	PropPreferredLabel:         RecordPrefLabel,
	PropAlternativeLabel:       RecordAltLabel,
	PropertyIRI("likes"):       FactLikes,
	PropertyIRI("allergic_to"): FactAllergicTo,
	PropertyIRI("has"):         FactHas,
	PropertyIRI("owns"):        FactOwns,
}

// PredicateForIRI returns the dotted predicate registered for iri.
func PredicateForIRI(iri string) (string, bool) {
	p, ok := predicatesByIRI[iri]
	return p, ok
}

// ClassLabels holds display labels for each class, keyed by language code.
var ClassLabels = map[string]map[string]string{
	ClassStatement: {
		"en": "Statement", "es": "Declaración", "ar": "بيان", "id": "Pernyataan",
	},
	ClassDocument: {
		"en": "Document", "es": "Documento", "ar": "وثيقة", "id": "Dokumen",
	},
	ClassEntity: {
		"en": "Entity", "es": "Entidad", "ar": "كيان", "id": "Entitas",
	},
	ClassAnnotator: {
		"en": "Annotator", "es": "Anotador", "ar": "المعلق", "id": "Anotator",
	},
	ClassLanguage: {
		"en": "Language", "es": "Idioma", "ar": "لغة", "id": "Bahasa",
	},
	ClassLanguageAnnotation: {
		"en": "Language annotation", "es": "Anotación de idioma", "ar": "تعليق لغوي", "id": "Anotasi bahasa",
	},
	ClassFeedback: {
		"en": "Human feedback", "es": "Retroalimentación humana", "ar": "ملاحظات بشرية", "id": "Umpan balik manusia",
	},
	ClassProvenanceRecord: {
		"en": "Provenance record", "es": "Registro de procedencia", "ar": "سجل المصدر", "id": "Catatan asal",
	},
	ClassAuditEntry: {
		"en": "Audit entry", "es": "Entrada de auditoría", "ar": "إدخال تدقيق", "id": "Entri audit",
	},
}

// Classes returns every class IRI in a stable order.
func Classes() []string {
	return []string{
		ClassStatement,
		ClassDocument,
		ClassEntity,
		ClassAnnotator,
		ClassLanguage,
		ClassLanguageAnnotation,
		ClassFeedback,
		ClassProvenanceRecord,
		ClassAuditEntry,
	}
}

// PROVClassMap aligns each class with PROV-O.
var PROVClassMap = map[string]string{
	ClassStatement:          vocabulary.ProvEntity,
	ClassDocument:           vocabulary.ProvEntity,
	ClassEntity:             vocabulary.ProvEntity,
	ClassAnnotator:          vocabulary.ProvAgent,
	ClassLanguage:           vocabulary.ProvEntity,
	ClassLanguageAnnotation: vocabulary.ProvEntity,
	ClassFeedback:           vocabulary.ProvActivity,
	ClassProvenanceRecord:   vocabulary.ProvEntity,
	ClassAuditEntry:         vocabulary.ProvActivity,
}

// BFOClassMap aligns each class with BFO.
var BFOClassMap = map[string]string{
	// Information entities
	ClassStatement:          bfo.GenericallyDependentContinuant,
	ClassDocument:           bfo.GenericallyDependentContinuant,
	ClassLanguage:           bfo.GenericallyDependentContinuant,
	ClassLanguageAnnotation: bfo.GenericallyDependentContinuant,
	ClassProvenanceRecord:   bfo.GenericallyDependentContinuant,

	// Processes
	ClassFeedback:   bfo.Process,
	ClassAuditEntry: bfo.Process,

	ClassAnnotator: bfo.IndependentContinuant,
	ClassEntity:    bfo.Entity,
}

// CCOClassMap aligns each class with the Common Core Ontologies. Extracted
// entities have no CCO counterpart.
var CCOClassMap = map[string]string{
	ClassStatement:          cco.InformationContentEntity,
	ClassDocument:           cco.InformationContentEntity,
	ClassLanguage:           cco.InformationContentEntity,
	ClassLanguageAnnotation: cco.InformationContentEntity,
	ClassProvenanceRecord:   cco.InformationContentEntity,
	ClassFeedback:           cco.ActOfCommunication,
	ClassAuditEntry:         cco.ActOfArtifactProcessing,
	ClassAnnotator:          cco.Person,
}
