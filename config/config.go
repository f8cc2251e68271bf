// Package config provides configuration loading and management for factgraph.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

// Config represents the complete factgraph configuration
type Config struct {
	Graph      GraphConfig      `yaml:"graph"`
	Language   LanguageConfig   `yaml:"language"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Query      QueryConfig      `yaml:"query"`
	Export     ExportConfig     `yaml:"export"`
	Watch      WatchConfig      `yaml:"watch"`
}

// GraphConfig configures identifier and export namespaces
type GraphConfig struct {
	// BaseIRI is the base IRI handed to the JSON-LD serializer
	BaseIRI string `yaml:"base_iri" validate:"required,url"`
}

// LanguageConfig configures language classification
type LanguageConfig struct {
	// Default is the code returned when no lexicon matches
	Default string `yaml:"default" validate:"required,min=2"`
}

// ExtractionConfig configures corpus conversion
type ExtractionConfig struct {
	// PatternsFile optionally replaces the built-in extraction rules
	PatternsFile string `yaml:"patterns_file,omitempty"`
	// EntityMaxLength is the rune length below which a value is treated as an entity
	EntityMaxLength int `yaml:"entity_max_length" validate:"min=1"`
	// Workers bounds concurrent document analysis
	Workers int `yaml:"workers" validate:"min=1"`
	// Annotator is the annotator ID recorded on converted statements
	Annotator string `yaml:"annotator" validate:"required"`
	// AnnotateLanguages adds a language annotation to every statement
	AnnotateLanguages bool `yaml:"annotate_languages"`
}

// QueryConfig configures the query template engine
type QueryConfig struct {
	Timeout      time.Duration `yaml:"timeout" validate:"min=0"`
	DefaultLimit int           `yaml:"default_limit" validate:"min=1"`
	MaxLimit     int           `yaml:"max_limit" validate:"gtefield=DefaultLimit"`
	// CacheTTL is how long parsed queries stay cached
	CacheTTL time.Duration `yaml:"cache_ttl" validate:"min=0"`
}

// ExportConfig configures partition export
type ExportConfig struct {
	Dir     string   `yaml:"dir" validate:"required"`
	Formats []string `yaml:"formats" validate:"min=1,dive,oneof=turtle ntriples jsonld"`
	Profile string   `yaml:"profile" validate:"omitempty,oneof=minimal bfo cco"`
}

// WatchConfig configures the corpus directory watcher
type WatchConfig struct {
	Dir        string        `yaml:"dir,omitempty"`
	Debounce   time.Duration `yaml:"debounce" validate:"min=0"`
	Extensions []string      `yaml:"extensions" validate:"dive,startswith=."`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			BaseIRI: "https://factgraph.dev/",
		},
		Language: LanguageConfig{
			Default: "en",
		},
		Extraction: ExtractionConfig{
			EntityMaxLength:   50,
			Workers:           4,
			Annotator:         "corpus_processor",
			AnnotateLanguages: true,
		},
		Query: QueryConfig{
			Timeout:      30 * time.Second,
			DefaultLimit: 50,
			MaxLimit:     1000,
			CacheTTL:     10 * time.Minute,
		},
		Export: ExportConfig{
			Dir:     "output/rdf/named_graphs",
			Formats: []string{"turtle", "ntriples", "jsonld"},
			Profile: "minimal",
		},
		Watch: WatchConfig{
			Dir:        "corpus",
			Debounce:   500 * time.Millisecond,
			Extensions: []string{".json", ".jsonl", ".txt", ".html"},
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, formatFieldError(e))
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}
	return nil
}

// formatFieldError renders one field error with its yaml-ish path, e.g.
// "query.max_limit must be at least default_limit".
func formatFieldError(e validator.FieldError) string {
	field := fieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gtefield":
		return fmt.Sprintf("%s must be at least %s", field, snake(e.Param()))
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// fieldPath turns "Config.Query.MaxLimit" into "query.max_limit".
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			// Keep acronyms such as IRI together.
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				sb.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values).
// AnnotateLanguages is a bool and always taken from other, since a loaded file
// starts from the defaults.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Graph.BaseIRI != "" {
		c.Graph.BaseIRI = other.Graph.BaseIRI
	}
	if other.Language.Default != "" {
		c.Language.Default = other.Language.Default
	}

	// Extraction
	if other.Extraction.PatternsFile != "" {
		c.Extraction.PatternsFile = other.Extraction.PatternsFile
	}
	if other.Extraction.EntityMaxLength != 0 {
		c.Extraction.EntityMaxLength = other.Extraction.EntityMaxLength
	}
	if other.Extraction.Workers != 0 {
		c.Extraction.Workers = other.Extraction.Workers
	}
	if other.Extraction.Annotator != "" {
		c.Extraction.Annotator = other.Extraction.Annotator
	}
	c.Extraction.AnnotateLanguages = other.Extraction.AnnotateLanguages

	// Query
	if other.Query.Timeout != 0 {
		c.Query.Timeout = other.Query.Timeout
	}
	if other.Query.DefaultLimit != 0 {
		c.Query.DefaultLimit = other.Query.DefaultLimit
	}
	if other.Query.MaxLimit != 0 {
		c.Query.MaxLimit = other.Query.MaxLimit
	}
	if other.Query.CacheTTL != 0 {
		c.Query.CacheTTL = other.Query.CacheTTL
	}

	// Export
	if other.Export.Dir != "" {
		c.Export.Dir = other.Export.Dir
	}
	if len(other.Export.Formats) > 0 {
		c.Export.Formats = other.Export.Formats
	}
	if other.Export.Profile != "" {
		c.Export.Profile = other.Export.Profile
	}

	// Watch
	if other.Watch.Dir != "" {
		c.Watch.Dir = other.Watch.Dir
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if len(other.Watch.Extensions) > 0 {
		c.Watch.Extensions = other.Watch.Extensions
	}
}
