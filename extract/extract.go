// Package extract pulls candidate facts out of short sentences using
// per-language surface patterns.
//
// Pattern sets are data (see rules.yaml). Adding a language means adding a
// rule list; the extraction loop does not change.
package extract

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// PredicateContainsText links a document to its raw text.
const PredicateContainsText = "contains_text"

// DocumentPrefix is prepended to document IDs to form the subject label of
// the contains_text fact.
const DocumentPrefix = "document_"

//go:embed rules.yaml
var builtinRules []byte

// ObjectKind tells the writer how to represent a candidate's object.
type ObjectKind int

const (
	// ObjectInferred leaves the entity-or-literal decision to the writer.
	ObjectInferred ObjectKind = iota
	// ObjectEntity forces an entity reference.
	ObjectEntity
	// ObjectLiteral forces a language-tagged literal.
	ObjectLiteral
)

var objectKindNames = map[string]ObjectKind{
	"inferred": ObjectInferred,
	"entity":   ObjectEntity,
	"literal":  ObjectLiteral,
}

// String returns the name used for k in rule files.
func (k ObjectKind) String() string {
	for name, kind := range objectKindNames {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("ObjectKind(%d)", int(k))
}

// UnmarshalYAML accepts inferred, entity or literal. An empty value is
// inferred.
func (k *ObjectKind) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	if name == "" {
		*k = ObjectInferred
		return nil
	}
	kind, ok := objectKindNames[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("line %d: unknown object_kind %q", node.Line, name)
	}
	*k = kind
	return nil
}

// Candidate is one extracted fact before identifiers are minted.
type Candidate struct {
	Subject    string
	Predicate  string
	Object     string
	ObjectKind ObjectKind
	Confidence float64
	// Rule names the pattern that produced the candidate.
	Rule string
}

// Rule is one surface pattern.
type Rule struct {
	Name       string  `yaml:"name"`
	Predicate  string  `yaml:"predicate"`
	Confidence float64 `yaml:"confidence"`
	Pattern    string  `yaml:"pattern"`
	// ObjectKind overrides the writer's entity-or-literal heuristic for
	// every match of the rule.
	ObjectKind ObjectKind `yaml:"object_kind"`

	re      *regexp.Regexp
	subject int
	object  int
}

// RuleSet maps a language code to its ordered rules.
type RuleSet map[string][]Rule

// Extractor applies compiled rule sets. It is immutable after construction
// and safe for concurrent use.
type Extractor struct {
	rules RuleSet
}

// Option configures an Extractor.
type Option func(*extractorOptions)

type extractorOptions struct {
	overrides []RuleSet
	files     []string
}

// WithRules replaces the rule lists of the languages present in rs.
func WithRules(rs RuleSet) Option {
	return func(o *extractorOptions) {
		o.overrides = append(o.overrides, rs)
	}
}

// WithRulesFile loads rule overrides from a YAML file shaped like the
// built-in rule data. An empty path is ignored.
func WithRulesFile(path string) Option {
	return func(o *extractorOptions) {
		if path != "" {
			o.files = append(o.files, path)
		}
	}
}

// New compiles the built-in rules plus any overrides.
func New(opts ...Option) (*Extractor, error) {
	var o extractorOptions
	for _, opt := range opts {
		opt(&o)
	}

	rules, err := ParseRules(builtinRules)
	if err != nil {
		return nil, fmt.Errorf("parse built-in rules: %w", err)
	}
	for _, path := range o.files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rules file: %w", err)
		}
		rs, err := ParseRules(data)
		if err != nil {
			return nil, fmt.Errorf("parse rules file %s: %w", path, err)
		}
		o.overrides = append(o.overrides, rs)
	}
	for _, rs := range o.overrides {
		for lang, list := range rs {
			rules[lang] = list
		}
	}

	for lang, list := range rules {
		compiled := make([]Rule, len(list))
		for i, r := range list {
			if err := r.compile(); err != nil {
				return nil, fmt.Errorf("compile rule %s/%s: %w", lang, r.Name, err)
			}
			compiled[i] = r
		}
		rules[lang] = compiled
	}

	return &Extractor{rules: rules}, nil
}

// ParseRules decodes a YAML rule set without compiling it.
func ParseRules(data []byte) (RuleSet, error) {
	rs := make(RuleSet)
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func (r *Rule) compile() error {
	if r.Predicate == "" {
		return fmt.Errorf("predicate is required")
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", r.Confidence)
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return err
	}
	r.re = re
	r.subject = re.SubexpIndex("subject")
	r.object = re.SubexpIndex("object")
	if r.subject < 0 || r.object < 0 {
		return fmt.Errorf("pattern must declare subject and object groups")
	}
	return nil
}

// Extract returns the candidate facts found in text for the given language,
// followed by exactly one contains_text candidate linking the document to
// text. Rules run in declared order and matches within a rule in text
// order. Extract never fails: unknown languages and empty text yield only
// the contains_text candidate.
func (e *Extractor) Extract(text, documentID, lang string) []Candidate {
	var out []Candidate
	for _, r := range e.rules[lang] {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			subject := strings.TrimSpace(m[r.subject])
			object := strings.TrimSpace(m[r.object])
			if subject == "" || object == "" {
				continue
			}
			out = append(out, Candidate{
				Subject:    subject,
				Predicate:  r.Predicate,
				Object:     object,
				ObjectKind: r.ObjectKind,
				Confidence: r.Confidence,
				Rule:       lang + "/" + r.Name,
			})
		}
	}

	return append(out, Candidate{
		Subject:    DocumentPrefix + documentID,
		Predicate:  PredicateContainsText,
		Object:     text,
		ObjectKind: ObjectLiteral,
		Confidence: 1.0,
		Rule:       PredicateContainsText,
	})
}

// Languages returns the codes that have rules, sorted.
func (e *Extractor) Languages() []string {
	langs := make([]string, 0, len(e.rules))
	for lang := range e.rules {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Predicates returns every predicate a rule can produce, plus contains_text,
// sorted and deduplicated.
func (e *Extractor) Predicates() []string {
	seen := map[string]bool{PredicateContainsText: true}
	for _, list := range e.rules {
		for _, r := range list {
			seen[r.Predicate] = true
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
