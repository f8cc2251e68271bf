package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Graph.BaseIRI != "https://factgraph.dev/" {
		t.Errorf("expected default base IRI https://factgraph.dev/, got %s", cfg.Graph.BaseIRI)
	}
	if cfg.Language.Default != "en" {
		t.Errorf("expected default language en, got %s", cfg.Language.Default)
	}
	if cfg.Extraction.Workers != 4 || cfg.Extraction.EntityMaxLength != 50 {
		t.Errorf("unexpected extraction defaults %+v", cfg.Extraction)
	}
	if !cfg.Extraction.AnnotateLanguages {
		t.Error("expected language annotations by default")
	}
	if cfg.Query.Timeout != 30*time.Second || cfg.Query.DefaultLimit != 50 || cfg.Query.MaxLimit != 1000 {
		t.Errorf("unexpected query defaults %+v", cfg.Query)
	}
	if len(cfg.Export.Formats) != 3 {
		t.Errorf("expected 3 export formats, got %v", cfg.Export.Formats)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantMsg string
	}{
		{
			name:   "valid default config",
			modify: func(c *Config) {},
		},
		{
			name:    "missing base IRI",
			modify:  func(c *Config) { c.Graph.BaseIRI = "" },
			wantMsg: "graph.base_iri is required",
		},
		{
			name:    "base IRI not a URL",
			modify:  func(c *Config) { c.Graph.BaseIRI = "factgraph" },
			wantMsg: "graph.base_iri must be a valid URL",
		},
		{
			name:    "zero workers",
			modify:  func(c *Config) { c.Extraction.Workers = 0 },
			wantMsg: "extraction.workers must be at least 1",
		},
		{
			name:    "max limit below default limit",
			modify:  func(c *Config) { c.Query.MaxLimit = 10 },
			wantMsg: "query.max_limit must be at least default_limit",
		},
		{
			name:    "unknown export format",
			modify:  func(c *Config) { c.Export.Formats = []string{"turtle", "xml"} },
			wantMsg: "export.formats[1] must be one of: turtle ntriples jsonld",
		},
		{
			name:    "unknown profile",
			modify:  func(c *Config) { c.Export.Profile = "owl" },
			wantMsg: "export.profile must be one of",
		},
		{
			name:    "extension without dot",
			modify:  func(c *Config) { c.Watch.Extensions = []string{"json"} },
			wantMsg: "watch.extensions[0] must start with",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() error = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
graph:
  base_iri: "https://example.org/kb/"
extraction:
  workers: 8
  annotator: "batch_2024"
  annotate_languages: false
query:
  timeout: 5s
  cache_ttl: 1m
export:
  dir: "out"
  formats: [turtle]
  profile: cco
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Graph.BaseIRI != "https://example.org/kb/" {
		t.Errorf("expected base IRI https://example.org/kb/, got %s", cfg.Graph.BaseIRI)
	}
	if cfg.Extraction.Workers != 8 || cfg.Extraction.Annotator != "batch_2024" {
		t.Errorf("unexpected extraction %+v", cfg.Extraction)
	}
	if cfg.Extraction.AnnotateLanguages {
		t.Error("expected language annotations disabled")
	}
	if cfg.Query.Timeout != 5*time.Second || cfg.Query.CacheTTL != time.Minute {
		t.Errorf("unexpected query durations %+v", cfg.Query)
	}
	// Unset fields keep their defaults.
	if cfg.Query.MaxLimit != 1000 {
		t.Errorf("expected default max limit, got %d", cfg.Query.MaxLimit)
	}
	if cfg.Export.Profile != "cco" || len(cfg.Export.Formats) != 1 {
		t.Errorf("unexpected export %+v", cfg.Export)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("query: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := DefaultConfig()
	override.Language.Default = "es"
	override.Export.Formats = []string{"jsonld"}
	override.Extraction.AnnotateLanguages = false

	base.Merge(override)

	if base.Language.Default != "es" {
		t.Errorf("expected language es, got %s", base.Language.Default)
	}
	if len(base.Export.Formats) != 1 || base.Export.Formats[0] != "jsonld" {
		t.Errorf("expected formats [jsonld], got %v", base.Export.Formats)
	}
	if base.Extraction.AnnotateLanguages {
		t.Error("expected annotate_languages override")
	}
	if base.Graph.BaseIRI != "https://factgraph.dev/" {
		t.Errorf("expected base IRI to remain default, got %s", base.Graph.BaseIRI)
	}

	base.Merge(nil)
	if base.Language.Default != "es" {
		t.Error("merging nil should be a no-op")
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Extraction.Annotator = "saved"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Extraction.Annotator != "saved" {
		t.Errorf("expected annotator saved, got %s", loaded.Extraction.Annotator)
	}
	if loaded.Query.CacheTTL != 10*time.Minute {
		t.Errorf("expected cache TTL to round-trip, got %v", loaded.Query.CacheTTL)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderLayers(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "nested", "dir")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), "language:\n  default: es\nextraction:\n  workers: 2\n")
	writeFile(t, filepath.Join(project, ProjectConfigFile), "extraction:\n  workers: 6\n")

	cfg, err := NewLoader(nil).WithDirs(home, work).Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Language.Default != "es" {
		t.Errorf("expected user language es, got %s", cfg.Language.Default)
	}
	if cfg.Extraction.Workers != 6 {
		t.Errorf("project config should win over user config, got %d workers", cfg.Extraction.Workers)
	}

	explicit := filepath.Join(t.TempDir(), "run.yaml")
	writeFile(t, explicit, "extraction:\n  workers: 12\n")
	cfg, err = NewLoader(nil).WithDirs(home, work).Load(explicit)
	if err != nil {
		t.Fatalf("Load(explicit) error = %v", err)
	}
	if cfg.Extraction.Workers != 12 {
		t.Errorf("explicit file should win, got %d workers", cfg.Extraction.Workers)
	}
}

func TestLoaderRejectsInvalid(t *testing.T) {
	home := t.TempDir()
	explicit := filepath.Join(home, "bad.yaml")
	writeFile(t, explicit, "query:\n  default_limit: 500\n  max_limit: 100\n")

	_, err := NewLoader(nil).WithDirs(home, home).Load(explicit)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewLoader(nil).WithDirs(home, home).Load(filepath.Join(home, "missing.yaml")); err == nil {
		t.Error("missing explicit config file should fail")
	}
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	l := NewLoader(nil).WithDirs(home, home)
	if err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, UserConfigDir, UserConfigFile)); err != nil {
		t.Errorf("user config not created: %v", err)
	}
	if err := l.EnsureUserConfig(); err != nil {
		t.Errorf("second EnsureUserConfig() error = %v", err)
	}
}
