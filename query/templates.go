package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/factgraph/graph"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
)

// Template names.
const (
	TemplateEntitiesByType     = "entities_by_type"
	TemplateRelationships      = "relationships"
	TemplateMultilingualSearch = "multilingual_search"
	TemplateFeedbackAnalysis   = "rlhf_analysis"
	TemplateCrossCultural      = "cross_cultural"
)

// AllLanguages disables language filtering when passed as a language.
const AllLanguages = "all"

const prologue Fragment = "PREFIX fg: <" + fg.Namespace + ">\n" +
	"PREFIX fgg: <" + fg.GraphNamespace + ">\n" +
	"PREFIX rdfs: <" + graph.RDFS + ">\n"

// Params holds caller-supplied template parameters. Values may be strings,
// numbers or string slices; every value is rendered through a Value.
type Params map[string]any

func (p Params) text(key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func (p Params) number(key string, def float64) (float64, error) {
	switch v := p[key].(type) {
	case nil:
		return def, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return def, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, key, err)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidParameter, key)
}

// languages reads a language list from "languages" or the single-valued
// "language". A nil result, or one containing AllLanguages, means no filter.
func (p Params) languages() []string {
	var raw []string
	switch v := p["languages"].(type) {
	case []string:
		raw = v
	case []any:
		for _, x := range v {
			raw = append(raw, fmt.Sprint(x))
		}
	case string:
		raw = strings.Split(v, ",")
	}
	if len(raw) == 0 {
		if l := p.text("language"); l != "" {
			raw = []string{l}
		}
	}
	var out []string
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == AllLanguages {
			return nil
		}
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func stringValues(ss []string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}
	return out
}

// Template is a named, parameterized query.
type Template struct {
	Name string `json:"name"`
	// Description maps language codes to a description.
	Description map[string]string `json:"description"`
	Parameters  []string          `json:"parameters"`
	Required    []string          `json:"required"`
	// Examples documents a typical parameter set. It is never used for
	// execution.
	Examples     map[string]any `json:"example_values"`
	DefaultLimit int            `json:"default_limit,omitempty"`
	build        func(Params) (string, error)
}

// Describe returns the description in lang, falling back to English.
func (t *Template) Describe(lang string) string {
	if d, ok := t.Description[lang]; ok {
		return d
	}
	return t.Description["en"]
}

var catalogue = map[string]*Template{
	TemplateEntitiesByType: {
		Name: TemplateEntitiesByType,
		Description: map[string]string{
			"en": "Find all entities of a specific type",
			"es": "Encontrar todas las entidades de un tipo específico",
			"ar": "العثور على جميع الكيانات من نوع معين",
			"id": "Temukan semua entitas dengan jenis tertentu",
		},
		Parameters: []string{"entity_type", "language"},
		Required:   []string{"entity_type"},
		Examples:   map[string]any{"entity_type": "Entity", "language": "en"},
		build:      buildEntitiesByType,
	},
	TemplateRelationships: {
		Name: TemplateRelationships,
		Description: map[string]string{
			"en": "Find relationships between entities",
			"es": "Encontrar relaciones entre entidades",
			"ar": "العثور على العلاقات بين الكيانات",
			"id": "Temukan hubungan antar entitas",
		},
		Parameters: []string{"subject", "predicate", "language"},
		Examples:   map[string]any{"subject": "Andrés", "predicate": "likes", "language": "es"},
		build:      buildRelationships,
	},
	TemplateMultilingualSearch: {
		Name: TemplateMultilingualSearch,
		Description: map[string]string{
			"en": "Search across multiple languages",
			"es": "Buscar en múltiples idiomas",
			"ar": "البحث عبر لغات متعددة",
			"id": "Cari di berbagai bahasa",
		},
		Parameters: []string{"search_term", "languages", "min_confidence"},
		Required:   []string{"search_term"},
		Examples:   map[string]any{"search_term": "manzanas", "languages": []string{"es", "en"}, "min_confidence": 0.5},
		build:      buildMultilingualSearch,
	},
	TemplateFeedbackAnalysis: {
		Name: TemplateFeedbackAnalysis,
		Description: map[string]string{
			"en": "Analyze RLHF feedback patterns",
			"es": "Analizar patrones de retroalimentación RLHF",
			"ar": "تحليل أنماط التغذية الراجعة RLHF",
			"id": "Analisis pola umpan balik RLHF",
		},
		Parameters:   []string{"feedback_type", "min_quality"},
		Examples:     map[string]any{"feedback_type": "positive", "min_quality": 0.8},
		DefaultLimit: 100,
		build:        buildFeedbackAnalysis,
	},
	TemplateCrossCultural: {
		Name: TemplateCrossCultural,
		Description: map[string]string{
			"en": "Compare concepts across cultures and languages",
			"es": "Comparar conceptos entre culturas e idiomas",
			"ar": "مقارنة المفاهيم عبر الثقافات واللغات",
			"id": "Bandingkan konsep lintas budaya dan bahasa",
		},
		Parameters: []string{"concept_term", "languages"},
		Required:   []string{"concept_term"},
		Examples:   map[string]any{"concept_term": "apple", "languages": AllLanguages},
		build:      buildCrossCultural,
	},
}

// Templates returns the catalogue sorted by name.
func Templates() []*Template {
	out := make([]*Template, 0, len(catalogue))
	for _, t := range catalogue {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the template with the given name.
func Lookup(name string) (*Template, bool) {
	t, ok := catalogue[name]
	return t, ok
}

func buildEntitiesByType(p Params) (string, error) {
	var b Builder
	b.Fragment(prologue).
		Fragment("SELECT ?entity ?label ?type\nWHERE {\n").
		Fragment("  ?entity a ?type .\n").
		Fragment("  ?entity rdfs:label ?label .\n").
		Clause("  FILTER(?type = fg:%s)", LocalName(p.text("entity_type")))
	if langs := p.languages(); len(langs) > 0 {
		b.AnyOf("LANG(?label)", stringValues(langs))
	}
	b.Fragment("}\nORDER BY ?label\n")
	return b.String(), nil
}

func buildRelationships(p Params) (string, error) {
	var b Builder
	b.Fragment(prologue).
		Fragment("SELECT ?statement ?subject ?predicate ?object ?subjectLabel ?objectLabel ?confidence\nWHERE {\n").
		Fragment("  GRAPH fgg:provenance {\n").
		Fragment("    ?statement a fg:Statement ;\n").
		Fragment("      fg:hasSubject ?subject ;\n").
		Fragment("      fg:hasPredicate ?predicate ;\n").
		Fragment("      fg:hasObject ?object ;\n").
		Fragment("      fg:confidence ?confidence .\n").
		Fragment("  }\n").
		Fragment("  GRAPH fgg:main {\n").
		Fragment("    ?subject rdfs:label ?subjectLabel .\n").
		Fragment("    OPTIONAL { ?object rdfs:label ?objectLabel }\n").
		Fragment("  }\n")
	if s := p.text("subject"); s != "" {
		b.Clause("  FILTER(CONTAINS(LCASE(?subjectLabel), LCASE(%s)))", String(s))
	}
	if pred := p.text("predicate"); pred != "" {
		b.Clause("  FILTER(CONTAINS(STR(?predicate), %s))", String(pred))
	}
	if langs := p.languages(); len(langs) > 0 {
		vals := stringValues(langs)
		b.Fragment("  FILTER(")
		for i, v := range vals {
			if i > 0 {
				b.Fragment(" || ")
			}
			b.Clause("LANG(?subjectLabel) = %s || LANG(?objectLabel) = %s", v, v)
		}
		b.Fragment(")\n")
	}
	b.Fragment("}\nORDER BY ?subjectLabel\n")
	return b.String(), nil
}

func buildMultilingualSearch(p Params) (string, error) {
	minConfidence, err := p.number("min_confidence", 0.5)
	if err != nil {
		return "", err
	}
	var b Builder
	b.Fragment(prologue).
		Fragment("SELECT ?entity ?label ?language ?text ?confidence\nWHERE {\n").
		Fragment("  GRAPH fgg:languages {\n").
		Fragment("    ?annotation fg:annotatesStatement ?statement ;\n").
		Fragment("      fg:text ?text ;\n").
		Fragment("      fg:languageCode ?language ;\n").
		Fragment("      fg:confidence ?confidence .\n").
		Fragment("  }\n").
		Fragment("  GRAPH fgg:provenance { ?statement fg:hasSubject ?entity }\n").
		Fragment("  GRAPH fgg:main { ?entity rdfs:label ?label }\n").
		Clause("  FILTER(CONTAINS(LCASE(?text), LCASE(%s)))", String(p.text("search_term"))).
		AnyOf("?language", stringValues(p.languages())).
		Clause("  FILTER(?confidence >= %s)", Number(minConfidence)).
		Fragment("}\nORDER BY DESC(?confidence)\n")
	return b.String(), nil
}

func buildFeedbackAnalysis(p Params) (string, error) {
	minQuality, err := p.number("min_quality", 0)
	if err != nil {
		return "", err
	}
	var b Builder
	b.Fragment(prologue).
		Fragment("SELECT ?feedback ?statementId ?feedbackType ?qualityScore ?relevanceScore ?culturalScore ?annotator ?annotatorName ?timestamp\nWHERE {\n").
		Fragment("  GRAPH fgg:feedback {\n").
		Fragment("    ?feedback a fg:RLHFFeedback ;\n").
		Fragment("      fg:statementId ?statementId ;\n").
		Fragment("      fg:feedbackType ?feedbackType ;\n").
		Fragment("      fg:qualityScore ?qualityScore ;\n").
		Fragment("      fg:relevanceScore ?relevanceScore ;\n").
		Fragment("      fg:culturalAppropriateness ?culturalScore ;\n").
		Fragment("      fg:providedBy ?annotator ;\n").
		Fragment("      <" + fg.DcCreated + "> ?timestamp .\n").
		Fragment("  }\n").
		Fragment("  OPTIONAL { GRAPH fgg:annotators { ?annotator <" + fg.FOAFName + "> ?annotatorName } }\n")
	if ft := p.text("feedback_type"); ft != "" {
		b.Clause("  FILTER(?feedbackType = %s)", String(ft))
	}
	if minQuality > 0 {
		b.Clause("  FILTER(?qualityScore >= %s)", Number(minQuality))
	}
	b.Fragment("}\nORDER BY DESC(?qualityScore) DESC(?timestamp)\n")
	return b.String(), nil
}

func buildCrossCultural(p Params) (string, error) {
	term := String(p.text("concept_term"))
	var b Builder
	b.Fragment(prologue).
		Fragment("SELECT DISTINCT ?concept ?label ?altLabel ?language ?culturalContext\nWHERE {\n").
		Fragment("  GRAPH fgg:main {\n").
		Fragment("    ?concept rdfs:label ?label .\n").
		Fragment("    OPTIONAL { ?concept <"+fg.SkosAltLabel+"> ?altLabel }\n").
		Fragment("  }\n").
		Fragment("  GRAPH fgg:provenance { ?statement fg:hasSubject ?concept }\n").
		Fragment("  GRAPH fgg:languages {\n").
		Fragment("    ?annotation fg:annotatesStatement ?statement ;\n").
		Fragment("      fg:languageCode ?language .\n").
		Fragment("    OPTIONAL { ?annotation fg:culturalContext ?culturalContext }\n").
		Fragment("  }\n").
		Clause("  FILTER(CONTAINS(LCASE(?label), LCASE(%s)) || CONTAINS(LCASE(?altLabel), LCASE(%s)))", term, term).
		AnyOf("?language", stringValues(p.languages())).
		Fragment("}\nORDER BY ?language ?culturalContext\n")
	return b.String(), nil
}
