package graph

import (
	"testing"
	"time"
)

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestValueLiteral(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.FixedZone("x", 3600))

	tests := []struct {
		name  string
		input any
		want  Term
	}{
		{"string", "hello", Literal("hello")},
		{"int", 42, TypedLiteral("42", XSDInteger)},
		{"int64", int64(-7), TypedLiteral("-7", XSDInteger)},
		{"uint64", uint64(9), TypedLiteral("9", XSDInteger)},
		{"float64", 0.25, TypedLiteral("0.25", XSDDouble)},
		{"bool", true, TypedLiteral("true", XSDBoolean)},
		{"time", ts, TypedLiteral("2025-03-04T04:06:07Z", XSDDateTime)},
		{"stringer", stringer{}, Literal("stringer")},
		{"nil", nil, Literal("")},
		{"slice falls back to text", []int{1, 2}, Literal("[1 2]")},
		{"term passes through", IRI("urn:x"), IRI("urn:x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueLiteral(tt.input); got != tt.want {
				t.Errorf("ValueLiteral(%v) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTermString(t *testing.T) {
	tests := []struct {
		name string
		term Term
		want string
	}{
		{"iri", IRI("https://example.org/a"), "<https://example.org/a>"},
		{"plain", Literal("hi"), `"hi"`},
		{"lang", LangLiteral("hola", "ES"), `"hola"@es`},
		{"typed", Float(0.9), `"0.9"^^<http://www.w3.org/2001/XMLSchema#float>`},
		{"escaped", Literal("say \"hi\"\n\\"), `"say \"hi\"\n\\"`},
		{"control", Literal("a\x01b"), `"a\u0001b"`},
		{"xsd string normalised", TypedLiteral("x", XSDString), `"x"`},
		{"unbound", Term{}, "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.term.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTermNumber(t *testing.T) {
	if n, ok := Float(0.5).Number(); !ok || n != 0.5 {
		t.Errorf("Float number = %v, %v", n, ok)
	}
	ts := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	if got, ok := DateTime(ts).Time(); !ok || !got.Equal(ts) {
		t.Errorf("DateTime time = %v, %v", got, ok)
	}
	if _, ok := Literal("1").Number(); ok {
		t.Error("plain literal should not be numeric")
	}
	if n, ok := Integer(3).Number(); !ok || n != 3 {
		t.Errorf("Integer number = %v, %v", n, ok)
	}
}
