package sparql

import (
	"context"
	"sort"
	"strings"

	"github.com/c360studio/factgraph/graph"
)

// Dataset is the collection of named graphs a query runs against. Patterns
// outside GRAPH match the union of every named graph.
type Dataset interface {
	GraphNames() []string
	NamedGraph(iri string) (graph.View, bool)
}

// Result is the outcome of evaluating a query. Which fields are set depends
// on Form: SELECT fills Vars and Solutions, ASK fills Boolean, CONSTRUCT and
// DESCRIBE fill Triples.
type Result struct {
	Form      Form
	Vars      []string
	Solutions []map[string]graph.Term
	Boolean   bool
	Triples   []graph.Triple
}

type matcher interface {
	Match(s, p, o graph.Term) []graph.Triple
}

// unionGraph matches across several graphs, dropping duplicate triples.
type unionGraph []graph.View

func (u unionGraph) Match(s, p, o graph.Term) []graph.Triple {
	if len(u) == 1 {
		return u[0].Match(s, p, o)
	}
	var out []graph.Triple
	seen := make(map[graph.Triple]struct{})
	for _, g := range u {
		for _, t := range g.Match(s, p, o) {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func defaultGraph(ds Dataset) matcher {
	names := ds.GraphNames()
	views := make(unionGraph, 0, len(names))
	for _, name := range names {
		if g, ok := ds.NamedGraph(name); ok {
			views = append(views, g)
		}
	}
	return views
}

// Evaluate runs a parsed query against ds. Cancellation of ctx aborts
// evaluation with ctx's error.
func Evaluate(ctx context.Context, ds Dataset, q *Query) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ev := &evaluator{ctx: ctx, ds: ds}
	def := defaultGraph(ds)
	sols, err := ev.evalGroup(q.where, def, []binding{{}})
	if err != nil {
		return nil, err
	}
	switch q.form {
	case FormAsk:
		return &Result{Form: FormAsk, Boolean: len(sols) > 0}, nil
	case FormConstruct:
		sortSolutions(q.order, sols)
		return &Result{Form: FormConstruct, Triples: construct(q.template, window(sols, q.offset, q.limit))}, nil
	case FormDescribe:
		sortSolutions(q.order, sols)
		return &Result{Form: FormDescribe, Triples: describe(q, def, window(sols, q.offset, q.limit))}, nil
	}
	return ev.selectRows(q, sols)
}

type evaluator struct {
	ctx   context.Context
	ds    Dataset
	steps uint
}

// tick checks for cancellation every 256 steps.
func (ev *evaluator) tick() error {
	ev.steps++
	if ev.steps&0xff == 0 {
		return ev.ctx.Err()
	}
	return nil
}

func (ev *evaluator) evalGroup(g *group, active matcher, input []binding) ([]binding, error) {
	sols := input
	var err error
	for _, el := range g.elements {
		if len(sols) == 0 {
			return nil, nil
		}
		switch el := el.(type) {
		case *basicPattern:
			for _, tp := range el.triples {
				if sols, err = ev.join(tp, active, sols); err != nil {
					return nil, err
				}
			}
		case *group:
			if sols, err = ev.evalGroup(el, active, sols); err != nil {
				return nil, err
			}
		case *optionalPattern:
			var out []binding
			for _, s := range sols {
				if err := ev.tick(); err != nil {
					return nil, err
				}
				ext, err := ev.evalGroup(el.body, active, []binding{s})
				if err != nil {
					return nil, err
				}
				if len(ext) == 0 {
					out = append(out, s)
					continue
				}
				out = append(out, ext...)
			}
			sols = out
		case *graphPattern:
			if sols, err = ev.evalGraph(el, sols); err != nil {
				return nil, err
			}
		case *unionPattern:
			var out []binding
			for _, branch := range el.branches {
				r, err := ev.evalGroup(branch, active, sols)
				if err != nil {
					return nil, err
				}
				out = append(out, r...)
			}
			sols = out
		}
	}
	if len(g.filters) == 0 {
		return sols, nil
	}
	kept := make([]binding, 0, len(sols))
	for _, s := range sols {
		if passes(g.filters, s) {
			kept = append(kept, s)
		}
	}
	return kept, nil
}

// passes applies FILTER semantics: errors count as false.
func passes(filters []expr, b binding) bool {
	for _, f := range filters {
		ok, err := ebvOf(f, b)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func (ev *evaluator) evalGraph(gp *graphPattern, sols []binding) ([]binding, error) {
	var out []binding
	for _, s := range sols {
		name := gp.name
		if name.isVar() {
			if t, ok := s[name.variable]; ok {
				name = node{term: t}
			}
		}
		if !name.isVar() {
			if !name.term.IsIRI() {
				continue
			}
			g, ok := ev.ds.NamedGraph(name.term.Value)
			if !ok {
				continue
			}
			r, err := ev.evalGroup(gp.body, g, []binding{s})
			if err != nil {
				return nil, err
			}
			out = append(out, r...)
			continue
		}
		for _, iri := range ev.ds.GraphNames() {
			g, ok := ev.ds.NamedGraph(iri)
			if !ok {
				continue
			}
			scoped := s.clone()
			scoped[name.variable] = graph.IRI(iri)
			r, err := ev.evalGroup(gp.body, g, []binding{scoped})
			if err != nil {
				return nil, err
			}
			out = append(out, r...)
		}
	}
	return out, nil
}

func (ev *evaluator) join(tp triplePattern, active matcher, sols []binding) ([]binding, error) {
	var out []binding
	for _, s := range sols {
		if err := ev.tick(); err != nil {
			return nil, err
		}
		for _, t := range active.Match(resolve(tp.s, s), resolve(tp.p, s), resolve(tp.o, s)) {
			if ext, ok := extend(s, tp, t); ok {
				out = append(out, ext)
			}
		}
	}
	return out, nil
}

func resolve(n node, b binding) graph.Term {
	if !n.isVar() {
		return n.term
	}
	return b[n.variable]
}

// extend binds the variables of tp to t, rejecting a triple that binds one
// variable to two different terms.
func extend(b binding, tp triplePattern, t graph.Triple) (binding, bool) {
	out := b.clone()
	pairs := [3]struct {
		n node
		t graph.Term
	}{{tp.s, t.Subject}, {tp.p, t.Predicate}, {tp.o, t.Object}}
	for _, pr := range pairs {
		if !pr.n.isVar() {
			continue
		}
		if cur, ok := out[pr.n.variable]; ok {
			if cur != pr.t {
				return nil, false
			}
			continue
		}
		out[pr.n.variable] = pr.t
	}
	return out, true
}

func (ev *evaluator) selectRows(q *Query, sols []binding) (*Result, error) {
	vars := q.Vars()
	if q.aggregated() {
		sols = groupSolutions(q, sols)
	} else {
		for _, pr := range q.projections {
			if pr.expr == nil {
				continue
			}
			for _, s := range sols {
				if v, err := pr.expr.eval(s); err == nil && !v.IsZero() {
					s[pr.variable] = v
				}
			}
		}
	}
	if err := ev.ctx.Err(); err != nil {
		return nil, err
	}
	sortSolutions(q.order, sols)
	rows := make([]map[string]graph.Term, 0, len(sols))
	seen := make(map[string]bool)
	for _, s := range sols {
		row := make(map[string]graph.Term, len(vars))
		for _, v := range vars {
			if t, ok := s[v]; ok {
				row[v] = t
			}
		}
		if q.distinct {
			key := rowKey(row, vars)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		rows = append(rows, row)
	}
	return &Result{Form: FormSelect, Vars: vars, Solutions: window(rows, q.offset, q.limit)}, nil
}

// groupSolutions partitions solutions by the GROUP BY keys, in order of
// first appearance, and computes one solution per group. Without GROUP BY
// every solution falls into a single group, which exists even when empty.
func groupSolutions(q *Query, sols []binding) []binding {
	type bucket struct {
		key  []graph.Term
		rows []binding
	}
	var buckets []*bucket
	index := make(map[string]*bucket)
	if len(q.groupBy) == 0 {
		buckets = append(buckets, &bucket{rows: sols})
	} else {
		for _, s := range sols {
			key := make([]graph.Term, len(q.groupBy))
			parts := make([]string, len(q.groupBy))
			for i, e := range q.groupBy {
				if v, err := e.eval(s); err == nil {
					key[i] = v
				}
				parts[i] = key[i].String()
			}
			k := strings.Join(parts, "\x00")
			b, ok := index[k]
			if !ok {
				b = &bucket{key: key}
				index[k] = b
				buckets = append(buckets, b)
			}
			b.rows = append(b.rows, s)
		}
	}
	out := make([]binding, 0, len(buckets))
	for _, b := range buckets {
		sol := make(binding)
		for i, e := range q.groupBy {
			if v, ok := e.(varExpr); ok && !b.key[i].IsZero() {
				sol[string(v)] = b.key[i]
			}
		}
		for _, pr := range q.projections {
			switch e := pr.expr.(type) {
			case nil:
			case *aggregateExpr:
				if v, err := e.over(b.rows, q.mentioned); err == nil {
					sol[pr.variable] = v
				}
			default:
				if len(b.rows) > 0 {
					if v, err := e.eval(b.rows[0]); err == nil {
						sol[pr.variable] = v
					}
				}
			}
		}
		out = append(out, sol)
	}
	return out
}

func sortSolutions(order []orderCondition, sols []binding) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(sols, func(i, j int) bool {
		for _, oc := range order {
			a, _ := oc.expr.eval(sols[i])
			b, _ := oc.expr.eval(sols[j])
			c := orderCompare(a, b)
			if oc.desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func window[T any](xs []T, offset, limit int) []T {
	if offset >= len(xs) {
		return xs[:0]
	}
	xs = xs[offset:]
	if limit >= 0 && limit < len(xs) {
		xs = xs[:limit]
	}
	return xs
}

func rowKey[M ~map[string]graph.Term](row M, vars []string) string {
	var sb strings.Builder
	for _, v := range vars {
		sb.WriteString(row[v].String())
		sb.WriteByte(0)
	}
	return sb.String()
}

func construct(template []triplePattern, sols []binding) []graph.Triple {
	var out []graph.Triple
	seen := make(map[graph.Triple]struct{})
	for _, s := range sols {
		for _, tp := range template {
			t := graph.Triple{Subject: resolve(tp.s, s), Predicate: resolve(tp.p, s), Object: resolve(tp.o, s)}
			if !t.Subject.IsIRI() || !t.Predicate.IsIRI() || t.Object.IsZero() {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func describe(q *Query, def matcher, sols []binding) []graph.Triple {
	var resources []graph.Term
	targets := q.describe
	if q.star {
		for _, v := range q.mentioned {
			targets = append(targets, node{variable: v})
		}
	}
	for _, n := range targets {
		if !n.isVar() {
			resources = append(resources, n.term)
			continue
		}
		for _, s := range sols {
			if t, ok := s[n.variable]; ok {
				resources = append(resources, t)
			}
		}
	}
	var out []graph.Triple
	done := make(map[graph.Term]bool)
	seen := make(map[graph.Triple]struct{})
	for _, r := range resources {
		if !r.IsIRI() || done[r] {
			continue
		}
		done[r] = true
		for _, t := range def.Match(r, graph.Term{}, graph.Term{}) {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
