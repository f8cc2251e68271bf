package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/factgraph/config"
	"github.com/c360studio/factgraph/export"
	"github.com/c360studio/factgraph/ingest"
	"github.com/c360studio/factgraph/query"
)

const testCorpus = `{"_id": "d1", "text": "A Andrés le gustan las manzanas."}
{"_id": "d2", "text": "The dog is in the garden."}
{"_id": "d3", "text": "  "}
`

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.jsonl")
	if err := os.WriteFile(path, []byte(testCorpus), 0644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Export.Dir = filepath.Join(t.TempDir(), "graphs")
	return cfg
}

func TestAppIngestAndQuery(t *testing.T) {
	app, err := NewApp(testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	summary, err := app.Ingest(context.Background(), writeCorpus(t))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if summary.DocumentsProcessed != 2 || summary.DocumentsSkipped != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}

	profile, ok := app.Store().Annotator(ingest.DefaultAnnotator)
	if !ok {
		t.Fatal("corpus annotator should be registered")
	}
	if profile.AnnotationCount != summary.StatementsWritten {
		t.Errorf("annotation count = %d, want %d", profile.AnnotationCount, summary.StatementsWritten)
	}
	if strings.Join(profile.Languages, ",") != "en,es" {
		t.Errorf("annotator languages = %v", profile.Languages)
	}

	res, err := app.Queries().Run(context.Background(), query.TemplateRelationships,
		query.Params{"subject": "Andrés", "predicate": "likes"}, 0)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.RowCount != 1 {
		t.Fatalf("expected 1 relationship, got %d", res.RowCount)
	}
	if res.Rows[0]["subjectLabel"] != "Andrés" {
		t.Errorf("subjectLabel = %q", res.Rows[0]["subjectLabel"])
	}
}

func TestAppConvertAccumulatesAnnotator(t *testing.T) {
	app, err := NewApp(testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	ctx := context.Background()

	first, err := app.Convert(ctx, []ingest.Document{{ID: "a", Text: "Bob likes the sea.", Language: "en"}})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	second, err := app.Convert(ctx, []ingest.Document{{ID: "b", Text: "A Andrés le gustan las manzanas."}})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	profile, _ := app.Store().Annotator(ingest.DefaultAnnotator)
	if profile.AnnotationCount != first.StatementsWritten+second.StatementsWritten {
		t.Errorf("annotation count = %d", profile.AnnotationCount)
	}
	if strings.Join(profile.Languages, ",") != "en,es" {
		t.Errorf("annotator languages = %v", profile.Languages)
	}
}

func TestAppExport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Export.Formats = []string{"turtle", "ntriples"}
	app, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if _, err := app.Ingest(context.Background(), writeCorpus(t)); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	files, err := app.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if files.Count() != 12 {
		t.Errorf("expected 12 files, got %d", files.Count())
	}
	if _, err := os.Stat(filepath.Join(cfg.Export.Dir, "main_graph.ttl")); err != nil {
		t.Errorf("main graph not exported: %v", err)
	}
}

func TestNewAppRejectsBadExportSettings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Export.Profile = "owl"
	if _, err := NewApp(cfg, nil); err == nil {
		t.Error("unknown profile should fail")
	}

	cfg = testConfig(t)
	cfg.Export.Formats = []string{"xml"}
	if _, err := NewApp(cfg, nil); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestWatchHandler(t *testing.T) {
	cfg := testConfig(t)
	app, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	bad := filepath.Join(t.TempDir(), "notes.csv")
	if err := os.WriteFile(bad, []byte("a,b"), 0644); err != nil {
		t.Fatal(err)
	}
	app.watchHandler(true)(context.Background(), []string{bad, writeCorpus(t)})

	if len(app.Store().QueryByAnnotator(ingest.DefaultAnnotator)) == 0 {
		t.Error("valid files in the batch should still be converted")
	}
	if _, err := os.Stat(filepath.Join(cfg.Export.Dir, "provenance_graph.nt")); err != nil {
		t.Errorf("batch should be exported: %v", err)
	}
}

func TestParseParams(t *testing.T) {
	p, err := parseParams([]string{"subject=Andrés", "languages=es,en", "expr=a=b"})
	if err != nil {
		t.Fatalf("parseParams() error = %v", err)
	}
	if p["subject"] != "Andrés" || p["languages"] != "es,en" || p["expr"] != "a=b" {
		t.Errorf("unexpected params %v", p)
	}
	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseParams([]string{bad}); err == nil {
			t.Errorf("parseParams(%q) should fail", bad)
		}
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfigFile(t *testing.T, exportDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factgraph.yaml")
	content := "export:\n  dir: " + exportDir + "\n  formats: [ntriples]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCLIVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "factgraph version "+Version) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCLITemplates(t *testing.T) {
	out, err := runCLI(t, "templates", "--lang", "es")
	if err != nil {
		t.Fatalf("templates error = %v", err)
	}
	if !strings.Contains(out, query.TemplateCrossCultural) || !strings.Contains(out, "Encontrar relaciones entre entidades") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCLIConvert(t *testing.T) {
	exportDir := filepath.Join(t.TempDir(), "out")
	cfgPath := writeConfigFile(t, exportDir)

	out, err := runCLI(t, "--log-level", "error", "convert", "-c", cfgPath, writeCorpus(t))
	if err != nil {
		t.Fatalf("convert error = %v", err)
	}

	var report struct {
		Count     int                          `json:"triples_count"`
		Languages []string                     `json:"languages_detected"`
		Files     map[string]map[string]string `json:"files"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.Count == 0 || len(report.Languages) != 2 {
		t.Errorf("unexpected report %+v", report)
	}
	if len(report.Files) != 6 {
		t.Errorf("expected 6 partitions exported, got %d", len(report.Files))
	}
}

func TestCLIConvertFailsOnExportError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cfgPath := writeConfigFile(t, filepath.Join(blocker, "out"))

	out, err := runCLI(t, "--log-level", "error", "convert", "-c", cfgPath, writeCorpus(t))
	if !errors.Is(err, export.ErrExportFailure) {
		t.Fatalf("convert error = %v, want ErrExportFailure", err)
	}

	var report struct {
		Count    int      `json:"triples_count"`
		Warnings []string `json:"warnings"`
	}
	if err := json.NewDecoder(strings.NewReader(out)).Decode(&report); err != nil {
		t.Fatalf("report should still be printed: %v\n%s", err, out)
	}
	if report.Count == 0 || len(report.Warnings) == 0 {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestCLIQuery(t *testing.T) {
	cfgPath := writeConfigFile(t, filepath.Join(t.TempDir(), "out"))
	corpus := writeCorpus(t)

	out, err := runCLI(t, "--log-level", "error", "query", "-c", cfgPath, "--corpus", corpus,
		"-t", query.TemplateRelationships, "-p", "subject=Andrés", "-o", "csv")
	if err != nil {
		t.Fatalf("query error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "statement,subject,predicate") {
		t.Errorf("unexpected csv output %q", out)
	}

	if _, err := runCLI(t, "query", "-c", cfgPath); err == nil {
		t.Error("query without template or sparql should fail")
	}

	_, err = runCLI(t, "--log-level", "error", "query", "-c", cfgPath, "-t", "nope")
	if err == nil {
		t.Error("unknown template should fail")
	}
}
