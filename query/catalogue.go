package query

import (
	"context"
	"strconv"
	"strings"

	"github.com/c360studio/factgraph/language"
	"github.com/c360studio/factgraph/schema"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
)

// FindEntitiesByType lists entities of an ontology class, optionally
// restricted to labels in one language.
func (e *Engine) FindEntitiesByType(ctx context.Context, entityType, lang string, limit int) (*Result, error) {
	return e.Run(ctx, TemplateEntitiesByType, Params{"entity_type": entityType, "language": lang}, limit)
}

// FindRelationships lists statements whose subject label contains subject
// and whose predicate IRI contains predicate. Empty filters match all.
func (e *Engine) FindRelationships(ctx context.Context, subject, predicate, lang string, limit int) (*Result, error) {
	return e.Run(ctx, TemplateRelationships, Params{"subject": subject, "predicate": predicate, "language": lang}, limit)
}

// MultilingualSearch finds annotated statement text containing term in
// any of languages, with annotation confidence at least minConfidence.
func (e *Engine) MultilingualSearch(ctx context.Context, term string, languages []string, minConfidence float64, limit int) (*Result, error) {
	return e.Run(ctx, TemplateMultilingualSearch, Params{
		"search_term":    term,
		"languages":      languages,
		"min_confidence": minConfidence,
	}, limit)
}

// AnalyzeFeedback lists feedback traces by descending quality. An empty
// feedbackType matches every kind. Feedback whose annotator is not
// registered is still listed, without a name.
func (e *Engine) AnalyzeFeedback(ctx context.Context, feedbackType string, minQuality float64, limit int) (*Result, error) {
	return e.Run(ctx, TemplateFeedbackAnalysis, Params{"feedback_type": feedbackType, "min_quality": minQuality}, limit)
}

// CrossCulturalAnalysis compares a concept's labels across languages.
func (e *Engine) CrossCulturalAnalysis(ctx context.Context, concept string, languages []string, limit int) (*Result, error) {
	return e.Run(ctx, TemplateCrossCultural, Params{"concept_term": concept, "languages": languages}, limit)
}

// Suggestion documents one template for display.
type Suggestion struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  []string       `json:"parameters"`
	Examples    map[string]any `json:"example_values"`
}

// Suggestions lists every template with its description in lang, falling
// back to English.
func Suggestions(lang string) []Suggestion {
	ts := Templates()
	out := make([]Suggestion, len(ts))
	for i, t := range ts {
		out[i] = Suggestion{
			Name:        t.Name,
			Description: t.Describe(lang),
			Parameters:  t.Parameters,
			Examples:    t.Examples,
		}
	}
	return out
}

// LanguageCount is the number of language annotations for one code.
type LanguageCount struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	AnnotationCount int    `json:"annotation_count"`
}

const availableLanguagesQuery = prologue + `SELECT ?language ?languageName (COUNT(?annotation) AS ?count)
WHERE {
  GRAPH fgg:languages {
    ?annotation a fg:LanguageAnnotation ;
      fg:languageCode ?language .
    OPTIONAL {
      ?lang a fg:Language ;
        fg:languageCode ?language ;
        fg:languageName ?languageName .
    }
  }
}
GROUP BY ?language ?languageName
ORDER BY DESC(?count) ?language
`

// AvailableLanguages counts language annotations per code, most used
// first. Codes without a metadata row fall back to the built-in name table.
func (e *Engine) AvailableLanguages(ctx context.Context) ([]LanguageCount, error) {
	res, err := e.Execute(ctx, string(availableLanguagesQuery))
	if err != nil {
		return nil, err
	}
	out := make([]LanguageCount, 0, len(res.Rows))
	for _, row := range res.Rows {
		code := row["language"]
		name := row["languageName"]
		if name == "" {
			info, _ := language.Lookup(code)
			name = info.Name
		}
		n, _ := strconv.Atoi(row["count"])
		out = append(out, LanguageCount{Code: code, Name: name, AnnotationCount: n})
	}
	return out, nil
}

// EntityType is one ontology class in use and how many resources have it.
type EntityType struct {
	URI   string `json:"uri"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

const entityTypesQuery = prologue + `SELECT ?type (COUNT(?entity) AS ?count)
WHERE {
  ?entity a ?type .
  FILTER(STRSTARTS(STR(?type), STR(fg:)))
}
GROUP BY ?type
ORDER BY DESC(?count) ?type
`

// EntityTypes counts typed resources per ontology class across every
// partition. Labels come from the schema resolver in lang; classes the
// schema does not declare are labelled by their local name.
func (e *Engine) EntityTypes(ctx context.Context, lang string) ([]EntityType, error) {
	res, err := e.Execute(ctx, string(entityTypesQuery))
	if err != nil {
		return nil, err
	}
	out := make([]EntityType, 0, len(res.Rows))
	for _, row := range res.Rows {
		uri := row["type"]
		name := strings.TrimPrefix(uri, fg.Namespace)
		label := schema.LocalName(uri)
		if md, ok := e.schema.Resolve(uri); ok {
			label = md.Label(lang)
		}
		n, _ := strconv.Atoi(row["count"])
		out = append(out, EntityType{URI: uri, Name: name, Label: label, Count: n})
	}
	return out, nil
}
