package language

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	c := MustClassifier()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"spanish sentence", "A Andrés le gustan las manzanas.", "es"},
		{"spanish allergy", "María es alérgica a los cacahuetes.", "es"},
		{"english sentence", "The cat is on the mat.", "en"},
		{"arabic sentence", "الكتاب في المكتبة من الصباح", "ar"},
		{"indonesian sentence", "Budi suka makan nasi dan ini enak", "id"},
		{"uppercase tokens", "THE DOG AND THE CAT", "en"},
		{"empty text", "", DefaultCode},
		{"whitespace only", "   \t\n", DefaultCode},
		{"no lexicon hits", "zzz qqq xxx", DefaultCode},
		{"unrecognised script", "東京タワー", DefaultCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyTieBreak(t *testing.T) {
	c := MustClassifier()

	// One English and one Spanish hit.
	got := c.Detect("the los")
	if got.Code != "en" {
		t.Errorf("tie should go to the alphabetically first code, got %q", got.Code)
	}
	if got.Score != 0.5 {
		t.Errorf("expected score 0.5, got %v", got.Score)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := MustClassifier()
	texts := []string{
		"A Andrés le gustan las manzanas.",
		"the and los las",
		"dan di ke the",
		"hello world",
	}
	for _, text := range texts {
		first := c.Classify(text)
		for i := 0; i < 20; i++ {
			if got := c.Classify(text); got != first {
				t.Fatalf("Classify(%q) changed from %q to %q", text, first, got)
			}
		}
	}
}

func TestClassifyReturnsSupportedCode(t *testing.T) {
	c := MustClassifier()
	supported := make(map[string]bool)
	for _, code := range c.Codes() {
		supported[code] = true
	}
	supported[c.Fallback()] = true

	for _, text := range []string{"x", "de la", "في", "yang", "?", strings.Repeat("a ", 100)} {
		if code := c.Classify(text); !supported[code] {
			t.Errorf("Classify(%q) returned unsupported code %q", text, code)
		}
	}
}

func TestDetectScore(t *testing.T) {
	c := MustClassifier()
	d := c.Detect("A Andrés le gustan las manzanas.")
	// Tokens: a andrés le gustan las manzanas; only "las" is a Spanish stop word.
	want := 1.0 / 6.0
	if d.Score != want {
		t.Errorf("score = %v, want %v", d.Score, want)
	}

	if d := c.Detect(""); d.Score != 0 || d.Code != DefaultCode {
		t.Errorf("empty text detection = %+v", d)
	}
}

func TestOptions(t *testing.T) {
	c, err := NewClassifier(
		WithFallback("xx"),
		WithLexicon(Lexicon{Code: "fr", Words: []string{"le", "les", "et", "des"}}),
	)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	if got := c.Classify("nothing here"); got != "xx" {
		t.Errorf("fallback = %q, want xx", got)
	}
	if got := c.Classify("les chats et des chiens"); got != "fr" {
		t.Errorf("added lexicon not used, got %q", got)
	}

	if _, err := NewClassifier(WithLexicon(Lexicon{Words: []string{"a"}})); err == nil {
		t.Error("expected error for lexicon without code")
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  Hello, WORLD!  ... ")
	want := []string{"hello", "world", "..."}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}
