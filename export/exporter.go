package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/c360studio/factgraph/graph"
	"github.com/c360studio/factgraph/storage"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
)

// DefaultDir is where partition files are written unless configured.
const DefaultDir = "output/rdf/named_graphs"

// Locations maps partition name to format to written file path.
type Locations map[string]map[Format]string

// Count returns the number of files written.
func (l Locations) Count() int {
	n := 0
	for _, byFormat := range l {
		n += len(byFormat)
	}
	return n
}

// Exporter writes store partitions to files, one per (partition, format).
type Exporter struct {
	dir     string
	baseIRI string
	profile Profile
	jsonld  JSONLDSerializer
	logger  *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithBaseIRI sets the base IRI passed to the JSON-LD serializer.
func WithBaseIRI(iri string) Option {
	return func(e *Exporter) {
		if iri != "" {
			e.baseIRI = iri
		}
	}
}

// WithProfile selects the type alignment added to each partition.
func WithProfile(p Profile) Option {
	return func(e *Exporter) {
		e.profile = p
	}
}

// WithJSONLDSerializer replaces the JSON-LD serializer.
func WithJSONLDSerializer(s JSONLDSerializer) Option {
	return func(e *Exporter) {
		if s != nil {
			e.jsonld = s
		}
	}
}

// WithLogger sets the exporter logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExporter returns an exporter writing into dir.
func NewExporter(dir string, opts ...Option) *Exporter {
	if dir == "" {
		dir = DefaultDir
	}
	e := &Exporter{
		dir:     dir,
		baseIRI: fg.Base,
		profile: ProfileMinimal,
		jsonld:  SemstreamsJSONLD,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportPartitions writes every partition of st in every format. A failure
// for one (partition, format) pair does not stop the others: the returned
// locations list what was written, and the error joins every failure, each
// wrapping ErrExportFailure.
func (e *Exporter) ExportPartitions(st *storage.Store, formats []Format) (Locations, error) {
	locations := make(Locations)
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return locations, fmt.Errorf("%w: create %s: %v", ErrExportFailure, e.dir, err)
	}

	var errs []error
	for _, p := range storage.Partitions() {
		triples := e.withAlignment(st.Graph(p))
		for _, format := range formats {
			path, err := e.exportOne(p.String(), triples, format)
			if err != nil {
				e.logger.Warn("Partition export failed",
					slog.String("partition", p.String()),
					slog.String("format", string(format)),
					slog.String("error", err.Error()))
				errs = append(errs, fmt.Errorf("%w: %s (%s): %w", ErrExportFailure, p, format, err))
				continue
			}
			if locations[p.String()] == nil {
				locations[p.String()] = make(map[Format]string)
			}
			locations[p.String()][format] = path
			e.logger.Debug("Partition exported",
				slog.String("partition", p.String()),
				slog.String("format", string(format)),
				slog.String("path", path))
		}
	}
	return locations, errors.Join(errs...)
}

func (e *Exporter) withAlignment(g graph.View) []graph.Triple {
	triples := g.Triples()
	return append(triples, NewTypeAsserter(e.profile).TypeTriples(g)...)
}

func (e *Exporter) exportOne(name string, triples []graph.Triple, format Format) (string, error) {
	info, ok := GetFormatInfo(format)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	data, err := e.Serialize(triples, format, name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(e.dir, name+"_graph"+info.Extension)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Serialize renders triples in format. source tags JSON-LD message triples.
func (e *Exporter) Serialize(triples []graph.Triple, format Format, source string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTurtle:
		if err := NewTurtleWriter().Write(&buf, triples); err != nil {
			return nil, err
		}
	case FormatNTriples:
		if err := WriteNTriples(&buf, triples); err != nil {
			return nil, err
		}
	case FormatJSONLD:
		out, err := e.jsonld(MessageTriples(triples, "factgraph."+source), e.baseIRI)
		if err != nil {
			return nil, err
		}
		buf.WriteString(out)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}
