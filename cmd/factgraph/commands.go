package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/c360studio/factgraph/config"
	"github.com/c360studio/factgraph/export"
	"github.com/c360studio/factgraph/ingest"
	"github.com/c360studio/factgraph/query"
	"github.com/spf13/cobra"
)

func newApp(flags *globalFlags) (*App, error) {
	cfg, err := config.NewLoader(slog.Default()).Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewApp(cfg, slog.Default())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// convertReport is printed by the convert command.
type convertReport struct {
	ingest.Summary
	Files    export.Locations `json:"files,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

func convertCmd(flags *globalFlags) *cobra.Command {
	var noExport bool

	cmd := &cobra.Command{
		Use:   "convert <glob>...",
		Short: "Convert corpus files into the graph and export every partition",
		Example: `  factgraph convert 'corpus/**/*.jsonl'
  factgraph convert docs/*.html --no-export`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(flags)
			if err != nil {
				return err
			}
			summary, err := app.Ingest(cmd.Context(), args...)
			if err != nil {
				return err
			}
			report := convertReport{Summary: summary}
			var exportErr error
			if !noExport {
				files, err := app.Export()
				report.Files = files
				if err != nil {
					// Partial exports still report what was written.
					report.Warnings = strings.Split(err.Error(), "\n")
					exportErr = fmt.Errorf("export incomplete: %w", err)
				}
			}
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			return exportErr
		},
	}

	cmd.Flags().BoolVar(&noExport, "no-export", false, "Skip writing partition files")
	return cmd
}

func queryCmd(flags *globalFlags) *cobra.Command {
	var (
		corpus   []string
		template string
		raw      string
		params   []string
		limit    int
		format   string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a query template or a raw query against a converted corpus",
		Example: `  factgraph query --corpus 'corpus/*.jsonl' -t relationships -p subject=Andrés -p language=es
  factgraph query --corpus 'corpus/*.jsonl' --sparql 'SELECT ?s WHERE { ?s a fg:Entity }' -o csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (template == "") == (raw == "") {
				return errors.New("exactly one of --template or --sparql is required")
			}
			p, err := parseParams(params)
			if err != nil {
				return err
			}
			app, err := newApp(flags)
			if err != nil {
				return err
			}
			if len(corpus) > 0 {
				if _, err := app.Ingest(cmd.Context(), corpus...); err != nil {
					return err
				}
			}

			var res *query.Result
			var qerr error
			if template != "" {
				res, qerr = app.Queries().Run(cmd.Context(), template, p, limit)
			} else {
				res, qerr = app.Queries().Execute(cmd.Context(), raw)
			}
			if res == nil {
				return qerr
			}
			if err := query.ExportResult(cmd.OutOrStdout(), res, format); err != nil {
				return err
			}
			return qerr
		},
	}

	cmd.Flags().StringSliceVar(&corpus, "corpus", nil, "Corpus globs to convert before querying")
	cmd.Flags().StringVarP(&template, "template", "t", "", "Template name (see 'factgraph templates')")
	cmd.Flags().StringVar(&raw, "sparql", "", "Raw query text")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Template parameter as key=value (repeatable)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Row limit (0 uses the template default)")
	cmd.Flags().StringVarP(&format, "output", "o", query.FormatJSON, "Output format (json, csv)")
	return cmd
}

// parseParams turns key=value pairs into template parameters. Values stay
// strings; templates parse numbers and comma-separated language lists.
func parseParams(pairs []string) (query.Params, error) {
	p := make(query.Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: want key=value", pair)
		}
		p[key] = value
	}
	return p, nil
}

func templatesCmd() *cobra.Command {
	var (
		lang   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the query templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			suggestions := query.Suggestions(lang)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), suggestions)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPARAMETERS\tDESCRIPTION")
			for _, s := range suggestions {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, strings.Join(s.Parameters, ","), s.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "Description language (en, es, ar, id)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON including example values")
	return cmd
}

// statsReport is printed by the stats command.
type statsReport struct {
	TotalTriples int                        `json:"total_triples"`
	Annotators   int                        `json:"annotators_registered"`
	Languages    int                        `json:"languages_supported"`
	Partitions   map[string]partitionCounts `json:"partitions"`
	ByLanguage   []query.LanguageCount      `json:"language_annotations"`
	EntityTypes  []query.EntityType         `json:"entity_types"`
}

type partitionCounts struct {
	IRI        string `json:"iri"`
	Triples    int    `json:"triples"`
	Subjects   int    `json:"subjects"`
	Predicates int    `json:"predicates"`
	Objects    int    `json:"objects"`
}

func statsCmd(flags *globalFlags) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "stats <glob>...",
		Short: "Convert a corpus and print store statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(flags)
			if err != nil {
				return err
			}
			if _, err := app.Ingest(cmd.Context(), args...); err != nil {
				return err
			}
			report, err := buildStats(cmd.Context(), app, lang)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "Language of class labels")
	return cmd
}

func buildStats(ctx context.Context, app *App, lang string) (statsReport, error) {
	st := app.Store().Stats()
	report := statsReport{
		TotalTriples: st.TotalTriples,
		Annotators:   st.Annotators,
		Languages:    st.Languages,
		Partitions:   make(map[string]partitionCounts, len(st.Partitions)),
	}
	for _, p := range st.Partitions {
		report.Partitions[p.Partition.String()] = partitionCounts{
			IRI:        p.IRI,
			Triples:    p.Triples,
			Subjects:   p.Subjects,
			Predicates: p.Predicates,
			Objects:    p.Objects,
		}
	}

	var err error
	if report.ByLanguage, err = app.Queries().AvailableLanguages(ctx); err != nil {
		return report, err
	}
	if report.EntityTypes, err = app.Queries().EntityTypes(ctx, lang); err != nil {
		return report, err
	}
	return report, nil
}

func watchCmd(flags *globalFlags) *cobra.Command {
	var (
		dir      string
		noExport bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convert corpus files as they appear in a directory",
		Long: `Watch a directory tree and convert every corpus file created or changed in it.
After each batch the partitions are exported again unless --no-export is set.
Stops on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(flags)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = app.cfg.Watch.Dir
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			w, err := ingest.NewWatcher(ingest.WatchConfig{
				Dir:        dir,
				Debounce:   app.cfg.Watch.Debounce,
				Extensions: app.cfg.Watch.Extensions,
			}, app.watchHandler(!noExport), app.logger)
			if err != nil {
				return err
			}
			app.logger.Info("Watching corpus directory", slog.String("dir", dir))
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to watch (default from config)")
	cmd.Flags().BoolVar(&noExport, "no-export", false, "Skip writing partition files after each batch")
	return cmd
}

// watchHandler converts a batch of changed files. Files that fail to load
// are logged and skipped; the rest of the batch is still converted.
func (a *App) watchHandler(exportAfter bool) ingest.Handler {
	return func(ctx context.Context, paths []string) {
		var docs []ingest.Document
		for _, path := range paths {
			loaded, err := a.loader.LoadFile(path)
			if err != nil {
				a.logger.Warn("Skipping corpus file", slog.String("path", path), slog.String("error", err.Error()))
				continue
			}
			docs = append(docs, loaded...)
		}
		if len(docs) == 0 {
			return
		}

		summary, err := a.Convert(ctx, docs)
		if err != nil {
			a.logger.Warn("Batch conversion failed", slog.String("error", err.Error()))
			return
		}
		a.logger.Info("Batch converted",
			slog.Int("files", len(paths)),
			slog.Int("statements", summary.StatementsWritten))

		if !exportAfter {
			return
		}
		files, err := a.Export()
		if err != nil {
			a.logger.Warn("Export incomplete", slog.String("error", err.Error()))
		}
		names := make([]string, 0, len(files))
		for name := range files {
			names = append(names, name)
		}
		sort.Strings(names)
		a.logger.Debug("Partitions exported", slog.Int("files", files.Count()), slog.Any("partitions", names))
	}
}
