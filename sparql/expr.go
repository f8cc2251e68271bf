package sparql

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/c360studio/factgraph/graph"
)

// binding maps variable names to the terms bound in one solution.
type binding map[string]graph.Term

func (b binding) clone() binding {
	out := make(binding, len(b)+2)
	for k, v := range b {
		out[k] = v
	}
	return out
}

type expr interface {
	eval(b binding) (graph.Term, error)
}

type varExpr string

func (v varExpr) eval(b binding) (graph.Term, error) {
	t, ok := b[string(v)]
	if !ok {
		return graph.Term{}, errUnbound
	}
	return t, nil
}

type constExpr struct {
	term graph.Term
}

func (c constExpr) eval(binding) (graph.Term, error) { return c.term, nil }

type orExpr struct {
	left, right expr
}

func (e *orExpr) eval(b binding) (graph.Term, error) {
	l, lerr := ebvOf(e.left, b)
	if lerr == nil && l {
		return graph.Boolean(true), nil
	}
	r, rerr := ebvOf(e.right, b)
	if rerr == nil && r {
		return graph.Boolean(true), nil
	}
	if lerr != nil {
		return graph.Term{}, lerr
	}
	if rerr != nil {
		return graph.Term{}, rerr
	}
	return graph.Boolean(false), nil
}

type andExpr struct {
	left, right expr
}

func (e *andExpr) eval(b binding) (graph.Term, error) {
	l, lerr := ebvOf(e.left, b)
	if lerr == nil && !l {
		return graph.Boolean(false), nil
	}
	r, rerr := ebvOf(e.right, b)
	if rerr == nil && !r {
		return graph.Boolean(false), nil
	}
	if lerr != nil {
		return graph.Term{}, lerr
	}
	if rerr != nil {
		return graph.Term{}, rerr
	}
	return graph.Boolean(true), nil
}

type notExpr struct {
	x expr
}

func (e *notExpr) eval(b binding) (graph.Term, error) {
	v, err := ebvOf(e.x, b)
	if err != nil {
		return graph.Term{}, err
	}
	return graph.Boolean(!v), nil
}

type negExpr struct {
	x expr
}

func (e *negExpr) eval(b binding) (graph.Term, error) {
	v, err := e.x.eval(b)
	if err != nil {
		return graph.Term{}, err
	}
	if v.Datatype == graph.XSDInteger {
		if i, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			return graph.Integer(-i), nil
		}
	}
	f, ok := v.Number()
	if !ok {
		return graph.Term{}, errType
	}
	return graph.ValueLiteral(-f), nil
}

type compareExpr struct {
	op          string
	left, right expr
}

func (e *compareExpr) eval(b binding) (graph.Term, error) {
	l, err := e.left.eval(b)
	if err != nil {
		return graph.Term{}, err
	}
	r, err := e.right.eval(b)
	if err != nil {
		return graph.Term{}, err
	}
	switch e.op {
	case "=", "!=":
		eq, err := termsEqual(l, r)
		if err != nil {
			return graph.Term{}, err
		}
		return graph.Boolean(eq == (e.op == "=")), nil
	}
	c, err := compareTerms(l, r)
	if err != nil {
		return graph.Term{}, err
	}
	var v bool
	switch e.op {
	case "<":
		v = c < 0
	case "<=":
		v = c <= 0
	case ">":
		v = c > 0
	case ">=":
		v = c >= 0
	}
	return graph.Boolean(v), nil
}

type arithExpr struct {
	op          string
	left, right expr
}

func (e *arithExpr) eval(b binding) (graph.Term, error) {
	l, err := e.left.eval(b)
	if err != nil {
		return graph.Term{}, err
	}
	r, err := e.right.eval(b)
	if err != nil {
		return graph.Term{}, err
	}
	if l.Datatype == graph.XSDInteger && r.Datatype == graph.XSDInteger && e.op != "/" {
		li, lerr := strconv.ParseInt(l.Value, 10, 64)
		ri, rerr := strconv.ParseInt(r.Value, 10, 64)
		if lerr == nil && rerr == nil {
			switch e.op {
			case "+":
				return graph.Integer(li + ri), nil
			case "-":
				return graph.Integer(li - ri), nil
			case "*":
				return graph.Integer(li * ri), nil
			}
		}
	}
	lf, lok := l.Number()
	rf, rok := r.Number()
	if !lok || !rok {
		return graph.Term{}, errType
	}
	var v float64
	switch e.op {
	case "+":
		v = lf + rf
	case "-":
		v = lf - rf
	case "*":
		v = lf * rf
	case "/":
		if rf == 0 {
			return graph.Term{}, errType
		}
		v = lf / rf
	}
	return graph.ValueLiteral(v), nil
}

type builtinSpec struct {
	minArgs, maxArgs int
}

var builtins = map[string]builtinSpec{
	"STR":         {1, 1},
	"LANG":        {1, 1},
	"LANGMATCHES": {2, 2},
	"DATATYPE":    {1, 1},
	"LCASE":       {1, 1},
	"UCASE":       {1, 1},
	"CONTAINS":    {2, 2},
	"STRSTARTS":   {2, 2},
	"STRENDS":     {2, 2},
	"STRLEN":      {1, 1},
	"REGEX":       {2, 3},
	"BOUND":       {1, 1},
	"ISIRI":       {1, 1},
	"ISURI":       {1, 1},
	"ISLITERAL":   {1, 1},
	"ISNUMERIC":   {1, 1},
	"SAMETERM":    {2, 2},
	"COALESCE":    {1, -1},
}

var aggregates = map[string]struct{}{
	"COUNT": {},
	"SUM":   {},
	"AVG":   {},
	"MIN":   {},
	"MAX":   {},
}

type callExpr struct {
	fn   string
	args []expr
	// re is the precompiled pattern of a REGEX call with constant arguments.
	re *regexp.Regexp
}

func newCall(fn string, args []expr, pos int) (expr, error) {
	c := &callExpr{fn: fn, args: args}
	switch fn {
	case "BOUND":
		if _, ok := args[0].(varExpr); !ok {
			return nil, syntaxErrorf(pos, "BOUND requires a variable")
		}
	case "REGEX":
		pattern, ok := args[1].(constExpr)
		if !ok {
			break
		}
		flags := ""
		if len(args) == 3 {
			f, ok := args[2].(constExpr)
			if !ok {
				break
			}
			flags = f.term.Value
		}
		re, err := compileRegex(pattern.term.Value, flags)
		if err != nil {
			return nil, syntaxErrorf(pos, "%v", err)
		}
		c.re = re
	}
	return c, nil
}

func compileRegex(pattern, flags string) (*regexp.Regexp, error) {
	var mods strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 's', 'm':
			mods.WriteRune(f)
		default:
			return nil, fmt.Errorf("unsupported regex flag %q", f)
		}
	}
	if mods.Len() > 0 {
		pattern = "(?" + mods.String() + ")" + pattern
	}
	return regexp.Compile(pattern)
}

func (c *callExpr) eval(b binding) (graph.Term, error) {
	switch c.fn {
	case "BOUND":
		_, ok := b[string(c.args[0].(varExpr))]
		return graph.Boolean(ok), nil
	case "COALESCE":
		for _, a := range c.args {
			if t, err := a.eval(b); err == nil && !t.IsZero() {
				return t, nil
			}
		}
		return graph.Term{}, errUnbound
	}
	vals := make([]graph.Term, len(c.args))
	for i, a := range c.args {
		v, err := a.eval(b)
		if err != nil {
			return graph.Term{}, err
		}
		vals[i] = v
	}
	x := vals[0]
	switch c.fn {
	case "STR":
		return graph.Literal(x.Value), nil
	case "LANG":
		if !x.IsLiteral() {
			return graph.Term{}, errType
		}
		return graph.Literal(x.Lang), nil
	case "DATATYPE":
		if !x.IsLiteral() {
			return graph.Term{}, errType
		}
		switch {
		case x.Datatype != "":
			return graph.IRI(x.Datatype), nil
		case x.Lang != "":
			return graph.IRI(graph.RDF + "langString"), nil
		}
		return graph.IRI(graph.XSDString), nil
	case "LANGMATCHES":
		if !x.IsLiteral() || !vals[1].IsLiteral() {
			return graph.Term{}, errType
		}
		return graph.Boolean(langMatches(x.Value, vals[1].Value)), nil
	case "LCASE", "UCASE":
		if !x.IsLiteral() {
			return graph.Term{}, errType
		}
		out := x
		if c.fn == "LCASE" {
			out.Value = strings.ToLower(x.Value)
		} else {
			out.Value = strings.ToUpper(x.Value)
		}
		return out, nil
	case "CONTAINS", "STRSTARTS", "STRENDS":
		if !isStringLiteral(x) || !isStringLiteral(vals[1]) {
			return graph.Term{}, errType
		}
		var v bool
		switch c.fn {
		case "CONTAINS":
			v = strings.Contains(x.Value, vals[1].Value)
		case "STRSTARTS":
			v = strings.HasPrefix(x.Value, vals[1].Value)
		default:
			v = strings.HasSuffix(x.Value, vals[1].Value)
		}
		return graph.Boolean(v), nil
	case "STRLEN":
		if !x.IsLiteral() {
			return graph.Term{}, errType
		}
		return graph.Integer(int64(utf8.RuneCountInString(x.Value))), nil
	case "REGEX":
		if !isStringLiteral(x) {
			return graph.Term{}, errType
		}
		re := c.re
		if re == nil {
			flags := ""
			if len(vals) == 3 {
				flags = vals[2].Value
			}
			var err error
			if re, err = compileRegex(vals[1].Value, flags); err != nil {
				return graph.Term{}, errType
			}
		}
		return graph.Boolean(re.MatchString(x.Value)), nil
	case "ISIRI", "ISURI":
		return graph.Boolean(x.IsIRI()), nil
	case "ISLITERAL":
		return graph.Boolean(x.IsLiteral()), nil
	case "ISNUMERIC":
		return graph.Boolean(x.IsNumeric()), nil
	case "SAMETERM":
		return graph.Boolean(x == vals[1]), nil
	}
	return graph.Term{}, fmt.Errorf("%w: unknown function %s", ErrEvaluation, c.fn)
}

type aggregateExpr struct {
	fn       string
	distinct bool
	// arg is nil for COUNT(*).
	arg expr
}

// eval rejects per-row evaluation; aggregates are computed over groups.
func (a *aggregateExpr) eval(binding) (graph.Term, error) {
	return graph.Term{}, errType
}

func (a *aggregateExpr) over(rows []binding, vars []string) (graph.Term, error) {
	var vals []graph.Term
	seen := make(map[string]bool)
	for _, row := range rows {
		var v graph.Term
		key := ""
		if a.arg == nil {
			key = rowKey(row, vars)
		} else {
			t, err := a.arg.eval(row)
			if err != nil {
				continue
			}
			v, key = t, t.String()
		}
		if a.distinct {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		vals = append(vals, v)
	}
	switch a.fn {
	case "COUNT":
		return graph.Integer(int64(len(vals))), nil
	case "SUM", "AVG":
		allInt := true
		var sum float64
		var isum int64
		for _, v := range vals {
			f, ok := v.Number()
			if !ok {
				return graph.Term{}, errType
			}
			sum += f
			if v.Datatype == graph.XSDInteger {
				if i, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
					isum += i
					continue
				}
			}
			allInt = false
		}
		if a.fn == "AVG" {
			if len(vals) == 0 {
				return graph.Integer(0), nil
			}
			return graph.ValueLiteral(sum / float64(len(vals))), nil
		}
		if allInt {
			return graph.Integer(isum), nil
		}
		return graph.ValueLiteral(sum), nil
	case "MIN", "MAX":
		if len(vals) == 0 {
			return graph.Term{}, errUnbound
		}
		best := vals[0]
		for _, v := range vals[1:] {
			c := orderCompare(v, best)
			if (a.fn == "MIN" && c < 0) || (a.fn == "MAX" && c > 0) {
				best = v
			}
		}
		return best, nil
	}
	return graph.Term{}, fmt.Errorf("%w: unknown aggregate %s", ErrEvaluation, a.fn)
}

func ebvOf(e expr, b binding) (bool, error) {
	t, err := e.eval(b)
	if err != nil {
		return false, err
	}
	return ebv(t)
}

// ebv computes the effective boolean value of a term.
func ebv(t graph.Term) (bool, error) {
	if !t.IsLiteral() {
		return false, errType
	}
	switch {
	case t.Datatype == graph.XSDBoolean:
		return t.Value == "true" || t.Value == "1", nil
	case t.IsNumeric():
		f, ok := t.Number()
		return ok && f != 0, nil
	case t.Datatype == "":
		return t.Value != "", nil
	}
	return false, errType
}

func isStringLiteral(t graph.Term) bool {
	return t.IsLiteral() && t.Datatype == ""
}

func langMatches(tag, rng string) bool {
	if rng == "*" {
		return tag != ""
	}
	tag, rng = strings.ToLower(tag), strings.ToLower(rng)
	return tag == rng || strings.HasPrefix(tag, rng+"-")
}

func termsEqual(a, b graph.Term) (bool, error) {
	if a.IsNumeric() && b.IsNumeric() {
		fa, oka := a.Number()
		fb, okb := b.Number()
		if !oka || !okb {
			return false, errType
		}
		return fa == fb, nil
	}
	if ta, ok := a.Time(); ok {
		if tb, ok := b.Time(); ok {
			return ta.Equal(tb), nil
		}
	}
	return a == b, nil
}

// compareTerms orders numbers, dateTimes, booleans and strings. Other
// combinations are a type error.
func compareTerms(a, b graph.Term) (int, error) {
	if a.IsNumeric() && b.IsNumeric() {
		fa, oka := a.Number()
		fb, okb := b.Number()
		if !oka || !okb {
			return 0, errType
		}
		return cmp.Compare(fa, fb), nil
	}
	if ta, ok := a.Time(); ok {
		if tb, ok := b.Time(); ok {
			return ta.Compare(tb), nil
		}
		return 0, errType
	}
	if a.Datatype == graph.XSDBoolean && b.Datatype == graph.XSDBoolean {
		av, _ := ebv(a)
		bv, _ := ebv(b)
		switch {
		case av == bv:
			return 0, nil
		case bv:
			return -1, nil
		}
		return 1, nil
	}
	if isStringLiteral(a) && isStringLiteral(b) {
		return strings.Compare(a.Value, b.Value), nil
	}
	return 0, errType
}

// orderCompare is the total order used by ORDER BY: unbound, then IRIs,
// then literals.
func orderCompare(a, b graph.Term) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	if a.IsLiteral() {
		if c, err := compareTerms(a, b); err == nil {
			return c
		}
	}
	return strings.Compare(a.String(), b.String())
}
