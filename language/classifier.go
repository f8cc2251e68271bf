// Package language guesses the language of short texts from function-word
// lexicons.
//
// Classification is a best-effort heuristic: it counts how many tokens of the
// text appear in each language's fixed stop-word list and picks the highest
// ratio. It is not statistical language identification and makes no accuracy
// claims; short or mixed texts are routinely misclassified.
package language

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultCode is returned when no lexicon matches.
const DefaultCode = "en"

//go:embed lexicons.yaml
var builtinLexicons []byte

// Lexicon is the stop-word set of one language.
type Lexicon struct {
	Code  string   `yaml:"code"`
	Words []string `yaml:"words"`
}

// Detection is the outcome of classifying one text.
type Detection struct {
	Code string
	// Score is the fraction of tokens found in the winning lexicon. It is
	// zero when the fallback code was returned.
	Score float64
}

// Classifier assigns language codes to texts. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	fallback string
	codes    []string
	words    map[string]map[string]struct{}
}

// Option configures a Classifier.
type Option func(*classifierOptions)

type classifierOptions struct {
	fallback string
	extra    []Lexicon
}

// WithFallback sets the code returned when no lexicon matches.
func WithFallback(code string) Option {
	return func(o *classifierOptions) {
		if code != "" {
			o.fallback = code
		}
	}
}

// WithLexicon adds a language, or replaces the words of a built-in one.
func WithLexicon(lex Lexicon) Option {
	return func(o *classifierOptions) {
		o.extra = append(o.extra, lex)
	}
}

// NewClassifier builds a classifier from the built-in lexicons plus any
// supplied through options.
func NewClassifier(opts ...Option) (*Classifier, error) {
	o := classifierOptions{fallback: DefaultCode}
	for _, opt := range opts {
		opt(&o)
	}

	var lexicons []Lexicon
	if err := yaml.Unmarshal(builtinLexicons, &lexicons); err != nil {
		return nil, fmt.Errorf("parse built-in lexicons: %w", err)
	}
	lexicons = append(lexicons, o.extra...)

	c := &Classifier{
		fallback: o.fallback,
		words:    make(map[string]map[string]struct{}),
	}
	caser := cases.Lower(xlanguage.Und)
	for _, lex := range lexicons {
		if lex.Code == "" {
			return nil, fmt.Errorf("lexicon without code")
		}
		set := make(map[string]struct{}, len(lex.Words))
		for _, w := range lex.Words {
			set[caser.String(w)] = struct{}{}
		}
		if _, exists := c.words[lex.Code]; !exists {
			c.codes = append(c.codes, lex.Code)
		}
		c.words[lex.Code] = set
	}
	// Ties are broken by code order.
	sort.Strings(c.codes)

	return c, nil
}

// MustClassifier is NewClassifier for the built-in lexicons. It panics only
// if the embedded data is malformed.
func MustClassifier() *Classifier {
	c, err := NewClassifier()
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the best-guess language code for text.
func (c *Classifier) Classify(text string) string {
	return c.Detect(text).Code
}

// Detect classifies text and reports the winning score. Empty text and text
// with no lexicon hits yield the fallback code with score zero. Among equal
// positive scores the alphabetically first code wins.
func (c *Classifier) Detect(text string) Detection {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return Detection{Code: c.fallback}
	}

	best := Detection{Code: c.fallback}
	for _, code := range c.codes {
		set := c.words[code]
		hits := 0
		for _, tok := range tokens {
			if _, ok := set[tok]; ok {
				hits++
			}
		}
		score := float64(hits) / float64(len(tokens))
		if score > best.Score {
			best = Detection{Code: code, Score: score}
		}
	}
	return best
}

// Codes returns the codes that have a lexicon, in tie-break order.
func (c *Classifier) Codes() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

// Fallback returns the code used when nothing matches.
func (c *Classifier) Fallback() string {
	return c.fallback
}

// Tokenize splits text on whitespace, lower-cases each token and trims
// leading and trailing punctuation. Tokens made only of punctuation are kept
// as-is so they still count toward the total.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	caser := cases.Lower(xlanguage.Und)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(f, unicode.IsPunct)
		if tok == "" {
			tok = f
		}
		tokens = append(tokens, caser.String(tok))
	}
	return tokens
}
