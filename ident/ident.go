// Package ident mints resource identifiers from free-text labels.
//
// Identifiers are namespace-prefixed IRIs. Content-derived identifiers are
// deterministic; identifiers for high-churn records (statements, annotations,
// feedback-derived audit entries) carry a random suffix instead.
package ident

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Connector replaces whitespace and hyphens in cleaned labels.
const Connector = '_'

// Unnamed is the local name used when a label cleans to nothing.
const Unnamed = "unnamed"

// Clean normalises a label to NFC, replaces every whitespace or hyphen rune
// with Connector and drops every rune that is neither a letter, a digit nor
// the connector. Letters and digits from any script are kept.
func Clean(label string) string {
	label = norm.NFC.String(label)

	var sb strings.Builder
	sb.Grow(len(label))
	for _, r := range label {
		switch {
		case unicode.IsSpace(r) || r == '-':
			sb.WriteRune(Connector)
		case r == Connector || unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// LocalName returns the cleaned label, or Unnamed when nothing survives cleaning.
func LocalName(label string) string {
	if name := Clean(label); name != "" {
		return name
	}
	return Unnamed
}

// Mint derives an identifier for label within namespace. The same label and
// namespace always produce the same identifier.
func Mint(label, namespace string) string {
	return namespace + LocalName(label)
}

// MintUnique returns a fresh identifier in namespace whose local name starts
// with the cleaned prefix and ends in 128 bits of random hex.
func MintUnique(prefix, namespace string) string {
	return namespace + LocalName(prefix) + string(Connector) + Suffix()
}

// Suffix returns a random identifier suffix of 32 lowercase hex characters.
func Suffix() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

// LocalPart returns the portion of iri after namespace, or iri unchanged
// when it does not belong to namespace.
func LocalPart(iri, namespace string) string {
	return strings.TrimPrefix(iri, namespace)
}
