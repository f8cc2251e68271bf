package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/c360studio/factgraph/ident"
)

// Fragment is query text written by this package. Caller input never
// becomes a Fragment; it enters a query only as a Value.
type Fragment string

// Value is an untrusted caller value. Each constructor fixes how the value
// is rendered, so escaping happens at the boundary and cannot be skipped.
type Value struct {
	text string
}

// String renders s as a quoted, escaped string literal.
func String(s string) Value {
	return Value{text: `"` + escapeString(s) + `"`}
}

// Number renders f as a decimal literal. NaN and infinities render as 0.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return Value{text: s}
}

// Integer renders i as an integer literal.
func Integer(i int) Value {
	return Value{text: strconv.Itoa(i)}
}

// LocalName renders s as the local part of a prefixed name. Characters
// outside letters, digits and '_' are removed.
func LocalName(s string) Value {
	return Value{text: ident.LocalName(s)}
}

func (v Value) String() string { return v.text }

// escapeString escapes a string for a double-quoted query literal.
func escapeString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04X`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Builder assembles a query from trusted fragments and rendered values.
type Builder struct {
	sb strings.Builder
}

// Fragment appends trusted text.
func (b *Builder) Fragment(f Fragment) *Builder {
	b.sb.WriteString(string(f))
	return b
}

// Clause appends format with each %s replaced by the next rendered value.
// It panics if the placeholder count does not match len(args), which is a
// programming error in a template.
func (b *Builder) Clause(format Fragment, args ...Value) *Builder {
	parts := strings.Split(string(format), "%s")
	if len(parts)-1 != len(args) {
		panic(fmt.Sprintf("query: clause %q has %d placeholders, got %d values", format, len(parts)-1, len(args)))
	}
	b.sb.WriteString(parts[0])
	for i, v := range args {
		b.sb.WriteString(v.text)
		b.sb.WriteString(parts[i+1])
	}
	b.sb.WriteByte('\n')
	return b
}

// AnyOf appends FILTER(expr = v1 || expr = v2 ...) for the given values.
// Nothing is appended when values is empty.
func (b *Builder) AnyOf(expr Fragment, values []Value) *Builder {
	if len(values) == 0 {
		return b
	}
	b.sb.WriteString("  FILTER(")
	for i, v := range values {
		if i > 0 {
			b.sb.WriteString(" || ")
		}
		b.sb.WriteString(string(expr))
		b.sb.WriteString(" = ")
		b.sb.WriteString(v.text)
	}
	b.sb.WriteString(")\n")
	return b
}

// String returns the assembled query.
func (b *Builder) String() string {
	return b.sb.String()
}
