package sparql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/factgraph/graph"
)

// Parse parses a query in the supported SPARQL subset.
func Parse(src string) (*Query, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks:     toks,
		prefixes: make(map[string]string),
		seen:     make(map[string]bool),
		aggAt:    -1,
	}
	return p.parseQuery()
}

type parser struct {
	toks     []token
	pos      int
	prefixes map[string]string
	base     string
	q        *Query
	seen     map[string]bool
	// aggAt is the token index where an aggregate may start, or -1.
	aggAt   int
	aggSeen bool
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isKeyword(kw string) bool {
	t := p.peek()
	return t.kind == tokKeyword && t.val == kw
}

func (p *parser) isPunct(s string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.val == s
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) acceptPunct(s string) bool {
	if p.isPunct(s) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectPunct(s string) error {
	if !p.acceptPunct(s) {
		return p.errorf("expected %q", s)
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	t := p.peek()
	msg := fmt.Sprintf(format, args...)
	if t.kind == tokEOF {
		return syntaxErrorf(t.pos, "%s, found end of query", msg)
	}
	return syntaxErrorf(t.pos, "%s, found %q", msg, t.val)
}

func (p *parser) mention(name string) {
	if !p.seen[name] {
		p.seen[name] = true
		p.q.mentioned = append(p.q.mentioned, name)
	}
}

func (p *parser) parseQuery() (*Query, error) {
	p.q = &Query{limit: -1}
	if err := p.parsePrologue(); err != nil {
		return nil, err
	}
	var err error
	switch {
	case p.acceptKeyword("SELECT"):
		p.q.form = FormSelect
		err = p.parseSelect()
	case p.acceptKeyword("CONSTRUCT"):
		p.q.form = FormConstruct
		err = p.parseConstruct()
	case p.acceptKeyword("ASK"):
		p.q.form = FormAsk
		err = p.parseWhere(true)
	case p.acceptKeyword("DESCRIBE"):
		p.q.form = FormDescribe
		err = p.parseDescribe()
	default:
		return nil, p.errorf("expected SELECT, CONSTRUCT, ASK or DESCRIBE")
	}
	if err != nil {
		return nil, err
	}
	if err := p.parseModifiers(); err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected trailing input")
	}
	return p.q, nil
}

func (p *parser) parsePrologue() error {
	for {
		switch {
		case p.acceptKeyword("BASE"):
			t := p.advance()
			if t.kind != tokIRI {
				return syntaxErrorf(t.pos, "BASE requires an IRI")
			}
			p.base = t.val
		case p.acceptKeyword("PREFIX"):
			t := p.advance()
			if t.kind != tokPName || !strings.HasSuffix(t.val, ":") {
				return syntaxErrorf(t.pos, "PREFIX requires a prefix name ending in ':'")
			}
			iri := p.advance()
			if iri.kind != tokIRI {
				return syntaxErrorf(iri.pos, "PREFIX requires an IRI")
			}
			p.prefixes[strings.TrimSuffix(t.val, ":")] = p.resolveIRI(iri.val)
		default:
			return nil
		}
	}
}

func (p *parser) resolveIRI(iri string) string {
	if p.base == "" || strings.Contains(iri, ":") {
		return iri
	}
	return p.base + iri
}

func (p *parser) expandPName(t token) (string, error) {
	prefix, local, _ := strings.Cut(t.val, ":")
	ns, ok := p.prefixes[prefix]
	if !ok {
		return "", syntaxErrorf(t.pos, "undefined prefix %q", prefix)
	}
	return ns + local, nil
}

func (p *parser) parseSelect() error {
	if p.acceptKeyword("DISTINCT") || p.acceptKeyword("REDUCED") {
		p.q.distinct = true
	}
	if p.acceptPunct("*") {
		p.q.star = true
	} else {
		for {
			t := p.peek()
			if t.kind == tokVar {
				p.advance()
				p.q.projections = append(p.q.projections, projection{variable: t.val})
				continue
			}
			if t.kind != tokPunct || t.val != "(" {
				break
			}
			p.advance()
			p.aggAt, p.aggSeen = p.pos, false
			e, err := p.parseExpr()
			p.aggAt = -1
			if err != nil {
				return err
			}
			if _, ok := e.(*aggregateExpr); p.aggSeen && !ok {
				return syntaxErrorf(t.pos, "an aggregate must be the whole projection expression")
			}
			if !p.acceptKeyword("AS") {
				return p.errorf("expected AS")
			}
			v := p.advance()
			if v.kind != tokVar {
				return syntaxErrorf(v.pos, "expected variable after AS")
			}
			if err := p.expectPunct(")"); err != nil {
				return err
			}
			p.q.projections = append(p.q.projections, projection{variable: v.val, expr: e})
		}
		if len(p.q.projections) == 0 {
			return p.errorf("expected projection")
		}
	}
	return p.parseWhere(true)
}

func (p *parser) parseConstruct() error {
	if err := p.expectPunct("{"); err != nil {
		return err
	}
	for !p.acceptPunct("}") {
		if p.acceptPunct(".") {
			continue
		}
		tps, err := p.parseTriplesSameSubject()
		if err != nil {
			return err
		}
		p.q.template = append(p.q.template, tps...)
	}
	return p.parseWhere(true)
}

func (p *parser) parseDescribe() error {
	if p.acceptPunct("*") {
		p.q.star = true
	} else {
		for {
			t := p.peek()
			if t.kind != tokVar && t.kind != tokIRI && t.kind != tokPName {
				break
			}
			n, err := p.parseVarOrIRI()
			if err != nil {
				return err
			}
			p.q.describe = append(p.q.describe, n)
		}
		if len(p.q.describe) == 0 {
			return p.errorf("expected DESCRIBE target")
		}
	}
	return p.parseWhere(false)
}

func (p *parser) parseWhere(required bool) error {
	hasWhere := p.acceptKeyword("WHERE")
	if !hasWhere && !p.isPunct("{") {
		if required {
			return p.errorf("expected WHERE clause")
		}
		p.q.where = &group{}
		return nil
	}
	g, err := p.parseGroup()
	if err != nil {
		return err
	}
	p.q.where = g
	return nil
}

func (p *parser) parseModifiers() error {
	if p.acceptKeyword("GROUP") {
		if !p.acceptKeyword("BY") {
			return p.errorf("expected BY")
		}
		for p.startsCondition() {
			e, err := p.parseCondition()
			if err != nil {
				return err
			}
			p.q.groupBy = append(p.q.groupBy, e)
		}
		if len(p.q.groupBy) == 0 {
			return p.errorf("expected GROUP BY condition")
		}
	}
	if p.acceptKeyword("ORDER") {
		if !p.acceptKeyword("BY") {
			return p.errorf("expected BY")
		}
		for {
			desc := false
			var e expr
			var err error
			switch {
			case p.acceptKeyword("ASC"):
				e, err = p.parseBracketted()
			case p.acceptKeyword("DESC"):
				desc = true
				e, err = p.parseBracketted()
			case p.startsCondition():
				e, err = p.parseCondition()
			default:
				if len(p.q.order) == 0 {
					return p.errorf("expected ORDER BY condition")
				}
			}
			if err != nil {
				return err
			}
			if e == nil {
				break
			}
			p.q.order = append(p.q.order, orderCondition{expr: e, desc: desc})
		}
	}
	for i := 0; i < 2; i++ {
		switch {
		case p.acceptKeyword("LIMIT"):
			n, err := p.parseCount()
			if err != nil {
				return err
			}
			p.q.limit = n
		case p.acceptKeyword("OFFSET"):
			n, err := p.parseCount()
			if err != nil {
				return err
			}
			p.q.offset = n
		}
	}
	if p.q.aggregated() && p.q.form == FormSelect {
		if p.q.star {
			return syntaxErrorf(0, "SELECT * cannot be combined with grouping")
		}
		grouped := make(map[string]bool)
		for _, e := range p.q.groupBy {
			if v, ok := e.(varExpr); ok {
				grouped[string(v)] = true
			}
		}
		for _, pr := range p.q.projections {
			if pr.expr == nil && !grouped[pr.variable] {
				return syntaxErrorf(0, "variable ?%s is neither grouped nor aggregated", pr.variable)
			}
		}
	}
	return nil
}

func (p *parser) parseCount() (int, error) {
	t := p.advance()
	if t.kind != tokInteger {
		return 0, syntaxErrorf(t.pos, "expected integer")
	}
	n, err := strconv.Atoi(t.val)
	if err != nil {
		return 0, syntaxErrorf(t.pos, "invalid integer %q", t.val)
	}
	return n, nil
}

func (p *parser) startsCondition() bool {
	t := p.peek()
	switch t.kind {
	case tokVar:
		return true
	case tokPunct:
		return t.val == "("
	case tokKeyword:
		_, ok := builtins[t.val]
		return ok
	}
	return false
}

func (p *parser) parseCondition() (expr, error) {
	t := p.peek()
	if t.kind == tokVar {
		p.advance()
		return varExpr(t.val), nil
	}
	return p.parsePrimary()
}

func (p *parser) parseBracketted() (expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return e, p.expectPunct(")")
}

func (p *parser) parseGroup() (*group, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	g := &group{}
	for !p.acceptPunct("}") {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return nil, p.errorf("expected '}'")
		case p.acceptPunct("."):
		case p.acceptKeyword("OPTIONAL"):
			body, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			g.elements = append(g.elements, &optionalPattern{body: body})
		case p.acceptKeyword("GRAPH"):
			name, err := p.parseVarOrIRI()
			if err != nil {
				return nil, err
			}
			body, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			g.elements = append(g.elements, &graphPattern{name: name, body: body})
		case p.acceptKeyword("FILTER"):
			e, err := p.parseConstraint()
			if err != nil {
				return nil, err
			}
			g.filters = append(g.filters, e)
		case p.isPunct("{"):
			first, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			if !p.isKeyword("UNION") {
				g.elements = append(g.elements, first)
				continue
			}
			u := &unionPattern{branches: []*group{first}}
			for p.acceptKeyword("UNION") {
				next, err := p.parseGroup()
				if err != nil {
					return nil, err
				}
				u.branches = append(u.branches, next)
			}
			g.elements = append(g.elements, u)
		default:
			tps, err := p.parseTriplesSameSubject()
			if err != nil {
				return nil, err
			}
			if n := len(g.elements); n > 0 {
				if bp, ok := g.elements[n-1].(*basicPattern); ok {
					bp.triples = append(bp.triples, tps...)
					continue
				}
			}
			g.elements = append(g.elements, &basicPattern{triples: tps})
		}
	}
	return g, nil
}

func (p *parser) parseConstraint() (expr, error) {
	if p.isPunct("(") {
		return p.parseBracketted()
	}
	t := p.peek()
	if t.kind == tokKeyword {
		if _, ok := builtins[t.val]; ok {
			return p.parsePrimary()
		}
	}
	return nil, p.errorf("expected FILTER constraint")
}

func (p *parser) parseTriplesSameSubject() ([]triplePattern, error) {
	subj, err := p.parseVarOrIRI()
	if err != nil {
		return nil, err
	}
	var out []triplePattern
	for {
		verb, err := p.parseVerb()
		if err != nil {
			return nil, err
		}
		for {
			obj, err := p.parseObject()
			if err != nil {
				return nil, err
			}
			out = append(out, triplePattern{s: subj, p: verb, o: obj})
			if !p.acceptPunct(",") {
				break
			}
		}
		if !p.acceptPunct(";") {
			return out, nil
		}
		for p.acceptPunct(";") {
		}
		if p.isPunct(".") || p.isPunct("}") {
			return out, nil
		}
	}
}

func (p *parser) parseVerb() (node, error) {
	if p.acceptKeyword("a") {
		return node{term: graph.IRI(graph.RDFType)}, nil
	}
	return p.parseVarOrIRI()
}

func (p *parser) parseVarOrIRI() (node, error) {
	t := p.peek()
	switch t.kind {
	case tokVar:
		p.advance()
		p.mention(t.val)
		return node{variable: t.val}, nil
	case tokIRI:
		p.advance()
		return node{term: graph.IRI(p.resolveIRI(t.val))}, nil
	case tokPName:
		p.advance()
		iri, err := p.expandPName(t)
		if err != nil {
			return node{}, err
		}
		return node{term: graph.IRI(iri)}, nil
	}
	return node{}, p.errorf("expected variable or IRI")
}

func (p *parser) parseObject() (node, error) {
	t := p.peek()
	switch t.kind {
	case tokVar, tokIRI, tokPName:
		return p.parseVarOrIRI()
	}
	lit, ok, err := p.parseLiteral()
	if err != nil {
		return node{}, err
	}
	if !ok {
		return node{}, p.errorf("expected object")
	}
	return node{term: lit}, nil
}

// parseLiteral consumes an RDF literal if one starts at the cursor.
func (p *parser) parseLiteral() (graph.Term, bool, error) {
	t := p.peek()
	switch t.kind {
	case tokString:
		p.advance()
		next := p.peek()
		switch {
		case next.kind == tokLangTag:
			p.advance()
			return graph.LangLiteral(t.val, next.val), true, nil
		case next.kind == tokPunct && next.val == "^^":
			p.advance()
			dt, err := p.parseVarOrIRI()
			if err != nil {
				return graph.Term{}, false, err
			}
			if dt.isVar() {
				return graph.Term{}, false, syntaxErrorf(next.pos, "datatype must be an IRI")
			}
			return graph.TypedLiteral(t.val, dt.term.Value), true, nil
		}
		return graph.Literal(t.val), true, nil
	case tokInteger:
		p.advance()
		return graph.TypedLiteral(t.val, graph.XSDInteger), true, nil
	case tokDecimal:
		p.advance()
		return graph.TypedLiteral(t.val, graph.XSD+"decimal"), true, nil
	case tokDouble:
		p.advance()
		return graph.TypedLiteral(t.val, graph.XSDDouble), true, nil
	case tokKeyword:
		switch t.val {
		case "TRUE":
			p.advance()
			return graph.Boolean(true), true, nil
		case "FALSE":
			p.advance()
			return graph.Boolean(false), true, nil
		}
	}
	return graph.Term{}, false, nil
}

func (p *parser) parseExpr() (expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.acceptPunct("||") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.acceptPunct("&&") {
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &andExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseRelational() (expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind == tokPunct {
		switch t.val {
		case "=", "!=", "<", "<=", ">", ">=":
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return &compareExpr{op: t.val, left: left, right: right}, nil
		}
	}
	return left, nil
}

func (p *parser) parseAdditive() (expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.isPunct("+") || p.isPunct("-") {
		op := p.advance().val
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &arithExpr{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("*") || p.isPunct("/") {
		op := p.advance().val
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &arithExpr{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (expr, error) {
	switch {
	case p.acceptPunct("!"):
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &notExpr{x: x}, nil
	case p.acceptPunct("-"):
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &negExpr{x: x}, nil
	case p.acceptPunct("+"):
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (expr, error) {
	t := p.peek()
	switch t.kind {
	case tokPunct:
		if t.val == "(" {
			return p.parseBracketted()
		}
	case tokVar:
		p.advance()
		return varExpr(t.val), nil
	case tokIRI, tokPName:
		n, err := p.parseVarOrIRI()
		if err != nil {
			return nil, err
		}
		return constExpr{term: n.term}, nil
	case tokKeyword:
		if _, ok := aggregates[t.val]; ok {
			return p.parseAggregate()
		}
		if _, ok := builtins[t.val]; ok {
			return p.parseCall()
		}
	}
	lit, ok, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if ok {
		return constExpr{term: lit}, nil
	}
	return nil, p.errorf("expected expression")
}

func (p *parser) parseCall() (expr, error) {
	name := p.advance()
	spec := builtins[name.val]
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []expr
	if !p.acceptPunct(")") {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
			if p.acceptPunct(")") {
				break
			}
			if err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}
	}
	if len(args) < spec.minArgs || (spec.maxArgs >= 0 && len(args) > spec.maxArgs) {
		return nil, syntaxErrorf(name.pos, "wrong number of arguments to %s", name.val)
	}
	return newCall(name.val, args, name.pos)
}

func (p *parser) parseAggregate() (expr, error) {
	if p.pos != p.aggAt {
		return nil, p.errorf("aggregates are only allowed as a projection")
	}
	name := p.advance()
	p.aggAt, p.aggSeen = -1, true
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	agg := &aggregateExpr{fn: name.val}
	if p.acceptKeyword("DISTINCT") {
		agg.distinct = true
	}
	if !p.acceptPunct("*") {
		if name.val != "COUNT" && p.isPunct(")") {
			return nil, p.errorf("expected expression")
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		agg.arg = e
	} else if name.val != "COUNT" {
		return nil, syntaxErrorf(name.pos, "%s(*) is not allowed", name.val)
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return agg, nil
}
