// Package graph provides the RDF term model and an indexed in-memory triple
// set used for every store partition.
package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Standard namespaces used by term serialisation.
const (
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	XSD  = "http://www.w3.org/2001/XMLSchema#"
)

// XSD datatypes assigned by typed literal construction.
const (
	XSDString   = XSD + "string"
	XSDInteger  = XSD + "integer"
	XSDFloat    = XSD + "float"
	XSDDouble   = XSD + "double"
	XSDBoolean  = XSD + "boolean"
	XSDDateTime = XSD + "dateTime"
)

// RDFType is rdf:type.
const RDFType = RDF + "type"

// RDFSLabel is rdfs:label.
const RDFSLabel = RDFS + "label"

// Kind distinguishes IRIs from literals. The zero Kind marks an unbound
// term, which matches anything in pattern lookups.
type Kind uint8

const (
	KindIRI Kind = iota + 1
	KindLiteral
)

// Term is an IRI or a literal. Literals carry either a language tag or a
// datatype, never both; a literal with neither is a plain string.
type Term struct {
	Kind     Kind
	Value    string
	Lang     string
	Datatype string
}

// IRI returns an IRI term.
func IRI(v string) Term {
	return Term{Kind: KindIRI, Value: v}
}

// Literal returns a plain string literal.
func Literal(v string) Term {
	return Term{Kind: KindLiteral, Value: v}
}

// LangLiteral returns a language-tagged literal. An empty tag yields a plain
// literal.
func LangLiteral(v, lang string) Term {
	return Term{Kind: KindLiteral, Value: v, Lang: strings.ToLower(lang)}
}

// TypedLiteral returns a literal with an explicit datatype. xsd:string is
// normalised to a plain literal.
func TypedLiteral(v, datatype string) Term {
	if datatype == XSDString {
		datatype = ""
	}
	return Term{Kind: KindLiteral, Value: v, Datatype: datatype}
}

// Float returns an xsd:float literal.
func Float(f float64) Term {
	return TypedLiteral(strconv.FormatFloat(f, 'f', -1, 64), XSDFloat)
}

// Integer returns an xsd:integer literal.
func Integer(i int64) Term {
	return TypedLiteral(strconv.FormatInt(i, 10), XSDInteger)
}

// Boolean returns an xsd:boolean literal.
func Boolean(b bool) Term {
	return TypedLiteral(strconv.FormatBool(b), XSDBoolean)
}

// DateTime returns an xsd:dateTime literal in UTC.
func DateTime(t time.Time) Term {
	return TypedLiteral(t.UTC().Format(time.RFC3339Nano), XSDDateTime)
}

// ValueLiteral serialises v by its dynamic type: integers as xsd:integer,
// floats as xsd:double, booleans as xsd:boolean, times as xsd:dateTime and
// everything else as a plain string.
func ValueLiteral(v any) Term {
	switch x := v.(type) {
	case Term:
		return x
	case string:
		return Literal(x)
	case bool:
		return Boolean(x)
	case int:
		return Integer(int64(x))
	case int8:
		return Integer(int64(x))
	case int16:
		return Integer(int64(x))
	case int32:
		return Integer(int64(x))
	case int64:
		return Integer(x)
	case uint:
		return TypedLiteral(strconv.FormatUint(uint64(x), 10), XSDInteger)
	case uint8:
		return Integer(int64(x))
	case uint16:
		return Integer(int64(x))
	case uint32:
		return Integer(int64(x))
	case uint64:
		return TypedLiteral(strconv.FormatUint(x, 10), XSDInteger)
	case float32:
		return TypedLiteral(strconv.FormatFloat(float64(x), 'g', -1, 32), XSDDouble)
	case float64:
		return TypedLiteral(strconv.FormatFloat(x, 'g', -1, 64), XSDDouble)
	case time.Time:
		return DateTime(x)
	case *time.Time:
		if x == nil {
			return Literal("")
		}
		return DateTime(*x)
	case fmt.Stringer:
		return Literal(x.String())
	case nil:
		return Literal("")
	default:
		return Literal(fmt.Sprint(x))
	}
}

// IsZero reports whether t is unbound.
func (t Term) IsZero() bool { return t.Kind == 0 }

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsNumeric reports whether t is a literal with a numeric datatype.
func (t Term) IsNumeric() bool {
	if t.Kind != KindLiteral {
		return false
	}
	switch t.Datatype {
	case XSDInteger, XSDFloat, XSDDouble, XSD + "decimal", XSD + "int", XSD + "long":
		return true
	}
	return false
}

// Number parses a numeric literal.
func (t Term) Number() (float64, bool) {
	if !t.IsNumeric() {
		return 0, false
	}
	f, err := strconv.ParseFloat(t.Value, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Time parses an xsd:dateTime literal.
func (t Term) Time() (time.Time, bool) {
	if t.Kind != KindLiteral || t.Datatype != XSDDateTime {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, t.Value)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// String renders t in N-Triples syntax.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindLiteral:
		s := `"` + EscapeString(t.Value) + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	default:
		return "?"
	}
}

// EscapeString escapes a literal's lexical form for N-Triples and Turtle.
func EscapeString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
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
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}
