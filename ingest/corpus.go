package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions lists the corpus file types the loader reads.
var DefaultExtensions = []string{".json", ".jsonl", ".txt", ".html"}

// maxLineSize bounds one JSONL record.
const maxLineSize = 4 * 1024 * 1024

// corpusRecord accepts both "_id" and "id" document keys.
type corpusRecord struct {
	UnderscoreID string `json:"_id"`
	ID           string `json:"id"`
	Text         string `json:"text"`
	Language     string `json:"language"`
}

func (r corpusRecord) document(source string) Document {
	id := r.UnderscoreID
	if id == "" {
		id = r.ID
	}
	return Document{ID: id, Text: r.Text, Language: r.Language, Source: source}
}

// Loader reads corpus files into documents.
type Loader struct {
	html *HTMLConverter
}

// NewLoader returns a loader.
func NewLoader() *Loader {
	return &Loader{html: NewHTMLConverter()}
}

// Expand resolves glob patterns (with ** support) to a sorted,
// deduplicated list of regular files.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() || seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadCorpus loads every file matched by patterns, in path order.
func (l *Loader) LoadCorpus(patterns ...string) ([]Document, error) {
	files, err := Expand(patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCorpusFiles, strings.Join(patterns, ", "))
	}

	var docs []Document
	for _, path := range files {
		loaded, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}
	return docs, nil
}

// LoadFile reads one corpus file. JSON files hold one document or an array
// of documents, JSONL files one document per line. Text and HTML files are
// a single document named after the file.
func (l *Loader) LoadFile(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON(data, path)
	case ".jsonl":
		return decodeJSONL(data, path)
	case ".txt":
		return []Document{{ID: fileID(path), Text: strings.TrimSpace(string(data)), Source: path}}, nil
	case ".html", ".htm":
		_, text, err := l.html.Text(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCorpus, path, err)
		}
		return []Document{{ID: fileID(path), Text: text, Source: path}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func decodeJSON(data []byte, path string) ([]Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []corpusRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCorpus, path, err)
		}
		docs := make([]Document, 0, len(records))
		for _, r := range records {
			docs = append(docs, r.document(path))
		}
		return docs, nil
	}

	var r corpusRecord
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCorpus, path, err)
	}
	return []Document{r.document(path)}, nil
}

func decodeJSONL(data []byte, path string) ([]Document, error) {
	var docs []Document
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var r corpusRecord
		if err := json.Unmarshal(text, &r); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrInvalidCorpus, path, line, err)
		}
		docs = append(docs, r.document(path))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCorpus, path, err)
	}
	return docs, nil
}

func fileID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
