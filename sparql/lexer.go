package sparql

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIRI
	tokPName
	tokVar
	tokString
	tokLangTag
	tokInteger
	tokDecimal
	tokDouble
	tokKeyword
	tokPunct
)

type token struct {
	kind tokenKind
	val  string
	pos  int
}

// lex splits a query into tokens. Keywords are returned upper-cased except
// the rdf:type shorthand "a", which is case-sensitive.
func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.toks = append(l.toks, tok)
		if tok.kind == tokEOF {
			return l.toks, nil
		}
	}
}

type lexer struct {
	src  string
	pos  int
	toks []token
}

func (l *lexer) peekRune(off int) rune {
	i := l.pos + off
	if i >= len(l.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.src[i:])
	return r
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		switch {
		case unicode.IsSpace(r):
			l.pos += size
		case r == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	switch {
	case r == '<':
		if iri, ok := l.scanIRI(); ok {
			return token{kind: tokIRI, val: iri, pos: start}, nil
		}
		if l.peekRune(1) == '=' {
			l.pos += 2
			return token{kind: tokPunct, val: "<=", pos: start}, nil
		}
		l.pos++
		return token{kind: tokPunct, val: "<", pos: start}, nil
	case r == '?' || r == '$':
		l.pos += size
		name := l.scanWhile(isNameRune)
		if name == "" {
			return token{}, syntaxErrorf(start, "empty variable name")
		}
		return token{kind: tokVar, val: name, pos: start}, nil
	case r == '"' || r == '\'':
		s, err := l.scanString(r)
		if err != nil {
			return token{}, err
		}
		return token{kind: tokString, val: s, pos: start}, nil
	case r == '@':
		l.pos++
		tag := l.scanWhile(func(r rune) bool {
			return r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-')
		})
		if tag == "" {
			return token{}, syntaxErrorf(start, "empty language tag")
		}
		return token{kind: tokLangTag, val: strings.ToLower(tag), pos: start}, nil
	case isDigit(r) || (r == '.' && isDigit(l.peekRune(1))):
		return l.scanNumber(), nil
	case r == ':' || unicode.IsLetter(r) || r == '_':
		return l.scanName()
	}
	two := ""
	if l.pos+1 < len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}
	switch two {
	case "^^", "&&", "||", "!=", ">=":
		l.pos += 2
		return token{kind: tokPunct, val: two, pos: start}, nil
	}
	switch r {
	case '{', '}', '(', ')', '.', ';', ',', '*', '=', '>', '!', '+', '-', '/':
		l.pos++
		return token{kind: tokPunct, val: string(r), pos: start}, nil
	}
	return token{}, syntaxErrorf(start, "unexpected character %q", r)
}

func (l *lexer) scanWhile(ok func(rune) bool) string {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !ok(r) {
			break
		}
		l.pos += size
	}
	return l.src[start:l.pos]
}

// scanIRI consumes an IRIREF if one starts at the cursor. A '<' that is
// not followed by a well-formed IRI is a comparison operator.
func (l *lexer) scanIRI() (string, bool) {
	for i := l.pos + 1; i < len(l.src); i++ {
		switch c := l.src[i]; c {
		case '>':
			iri := l.src[l.pos+1 : i]
			l.pos = i + 1
			return iri, true
		case ' ', '\t', '\n', '\r', '<', '"', '{', '}', '|', '^', '`', '\\':
			return "", false
		}
	}
	return "", false
}

func (l *lexer) scanString(quote rune) (string, error) {
	start := l.pos
	long := strings.Repeat(string(quote), 3)
	if strings.HasPrefix(l.src[l.pos:], long) {
		l.pos += 3
		var sb strings.Builder
		for l.pos < len(l.src) {
			if strings.HasPrefix(l.src[l.pos:], long) {
				l.pos += 3
				return sb.String(), nil
			}
			if err := l.scanChar(&sb); err != nil {
				return "", err
			}
		}
		return "", syntaxErrorf(start, "unterminated string")
	}
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		switch r {
		case quote:
			l.pos += size
			return sb.String(), nil
		case '\n', '\r':
			return "", syntaxErrorf(l.pos, "newline in string")
		}
		if err := l.scanChar(&sb); err != nil {
			return "", err
		}
	}
	return "", syntaxErrorf(start, "unterminated string")
}

// scanChar appends one possibly escaped character to sb.
func (l *lexer) scanChar(sb *strings.Builder) error {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	if r != '\\' {
		sb.WriteRune(r)
		l.pos += size
		return nil
	}
	if l.pos+1 >= len(l.src) {
		return syntaxErrorf(l.pos, "dangling escape")
	}
	esc := l.src[l.pos+1]
	l.pos += 2
	switch esc {
	case 't':
		sb.WriteByte('\t')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case '"', '\'', '\\':
		sb.WriteByte(esc)
	case 'u', 'U':
		n := 4
		if esc == 'U' {
			n = 8
		}
		if l.pos+n > len(l.src) {
			return syntaxErrorf(l.pos, "short unicode escape")
		}
		var cp rune
		for _, c := range l.src[l.pos : l.pos+n] {
			d, ok := hexValue(c)
			if !ok {
				return syntaxErrorf(l.pos, "invalid unicode escape")
			}
			cp = cp<<4 | d
		}
		l.pos += n
		sb.WriteRune(cp)
	default:
		return syntaxErrorf(l.pos-2, "unknown escape \\%c", esc)
	}
	return nil
}

func (l *lexer) scanNumber() token {
	start := l.pos
	kind := tokInteger
	l.scanWhile(isDigit)
	if l.pos < len(l.src) && l.src[l.pos] == '.' && isDigit(l.peekRune(1)) {
		kind = tokDecimal
		l.pos++
		l.scanWhile(isDigit)
	}
	if c := l.peekRune(0); c == 'e' || c == 'E' {
		save := l.pos
		l.pos++
		if c := l.peekRune(0); c == '+' || c == '-' {
			l.pos++
		}
		if digits := l.scanWhile(isDigit); digits == "" {
			l.pos = save
		} else {
			kind = tokDouble
		}
	}
	return token{kind: kind, val: l.src[start:l.pos], pos: start}
}

// scanName reads a keyword or a prefixed name. Local names may contain
// letters from any script; a trailing '.' is left for the triple terminator.
func (l *lexer) scanName() (token, error) {
	start := l.pos
	prefix := l.scanWhile(func(r rune) bool {
		return isNameRune(r) || r == '-'
	})
	if l.peekRune(0) != ':' {
		if prefix == "a" {
			return token{kind: tokKeyword, val: "a", pos: start}, nil
		}
		return token{kind: tokKeyword, val: strings.ToUpper(prefix), pos: start}, nil
	}
	l.pos++
	local := l.scanWhile(func(r rune) bool {
		return isNameRune(r) || r == '-' || r == '.' || r == '%'
	})
	for strings.HasSuffix(local, ".") {
		local = local[:len(local)-1]
		l.pos--
	}
	return token{kind: tokPName, val: prefix + ":" + local, pos: start}, nil
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func hexValue(c rune) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
