package ident

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces become connector", "las manzanas", "las_manzanas"},
		{"hyphens become connector", "well-known", "well_known"},
		{"punctuation dropped", "O\"Brien's <tag>!", "OBriens_tag"},
		{"accented letters kept", "Andrés", "Andrés"},
		{"arabic kept", "أحمد يحب", "أحمد_يحب"},
		{"digits kept", "doc 42", "doc_42"},
		{"tabs and newlines", "a\tb\nc", "a_b_c"},
		{"connector kept", "already_clean", "already_clean"},
		{"empty", "", ""},
		{"nothing survives", "?!.,", ""},
		{"decomposed input normalised", "Andre\u0301s", "Andr\u00e9s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMint(t *testing.T) {
	const ns = "https://example.org/data/"

	if got := Mint("las manzanas", ns); got != ns+"las_manzanas" {
		t.Errorf("Mint = %q", got)
	}
	if Mint("Andrés", ns) != Mint("Andrés", ns) {
		t.Error("Mint should be deterministic")
	}
	if Mint("x", ns) == Mint("x", "https://example.org/other/") {
		t.Error("identifiers from different namespaces should differ")
	}
	if got := Mint("...", ns); got != ns+Unnamed {
		t.Errorf("Mint of unusable label = %q, want %q", got, ns+Unnamed)
	}
}

func TestMintUnique(t *testing.T) {
	const ns = "https://example.org/provenance/"

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := MintUnique("statement", ns)
		if !strings.HasPrefix(id, ns+"statement_") {
			t.Fatalf("unexpected identifier shape: %s", id)
		}
		if seen[id] {
			t.Fatalf("duplicate identifier minted: %s", id)
		}
		seen[id] = true
	}
}

func TestSuffix(t *testing.T) {
	s := Suffix()
	if len(s) != 32 {
		t.Fatalf("expected 32 characters, got %d (%s)", len(s), s)
	}
	if Clean(s) != s {
		t.Errorf("suffix should survive cleaning: %s", s)
	}
}

func TestLocalPart(t *testing.T) {
	if got := LocalPart("https://example.org/data/x", "https://example.org/data/"); got != "x" {
		t.Errorf("LocalPart = %q", got)
	}
	if got := LocalPart("urn:x", "https://example.org/data/"); got != "urn:x" {
		t.Errorf("LocalPart of foreign IRI = %q", got)
	}
}
