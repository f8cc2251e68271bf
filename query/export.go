package query

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Result export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ExportResult writes r to w as indented JSON or as CSV with one column per
// result variable. An empty result produces empty CSV output.
func ExportResult(w io.Writer, r *Result, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		return nil
	case FormatCSV:
		if len(r.Rows) == 0 {
			return nil
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(r.Vars); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		record := make([]string, len(r.Vars))
		for _, row := range r.Rows {
			for i, v := range r.Vars {
				record[i] = row[v]
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
