package sparql

import "github.com/c360studio/factgraph/graph"

// Form is the top-level kind of a query.
type Form uint8

const (
	FormSelect Form = iota + 1
	FormConstruct
	FormAsk
	FormDescribe
)

// String returns the lower-case form name, which doubles as the query shape.
func (f Form) String() string {
	switch f {
	case FormSelect:
		return ShapeSelect
	case FormConstruct:
		return ShapeConstruct
	case FormAsk:
		return ShapeAsk
	case FormDescribe:
		return ShapeDescribe
	}
	return ShapeUnknown
}

// node is a variable or a fixed term in a triple pattern.
type node struct {
	variable string
	term     graph.Term
}

func (n node) isVar() bool { return n.variable != "" }

type triplePattern struct {
	s, p, o node
}

// element is one member of a group graph pattern: *basicPattern, *group,
// *optionalPattern, *graphPattern or *unionPattern.
type element interface{}

type group struct {
	elements []element
	filters  []expr
}

type basicPattern struct {
	triples []triplePattern
}

type optionalPattern struct {
	body *group
}

type graphPattern struct {
	name node
	body *group
}

type unionPattern struct {
	branches []*group
}

type projection struct {
	variable string
	// expr is nil for a plain variable.
	expr expr
}

type orderCondition struct {
	expr expr
	desc bool
}

// Query is a parsed query. It is immutable after parsing and may be
// evaluated concurrently.
type Query struct {
	form        Form
	distinct    bool
	star        bool
	projections []projection
	template    []triplePattern
	describe    []node
	where       *group
	groupBy     []expr
	order       []orderCondition
	limit       int
	offset      int
	// mentioned lists variables in order of first appearance.
	mentioned []string
}

// Form returns the query form.
func (q *Query) Form() Form { return q.form }

// Vars returns the projected variable names of a SELECT query.
func (q *Query) Vars() []string {
	if q.form != FormSelect {
		return nil
	}
	if q.star {
		return append([]string(nil), q.mentioned...)
	}
	out := make([]string, len(q.projections))
	for i, p := range q.projections {
		out[i] = p.variable
	}
	return out
}

func (q *Query) aggregated() bool {
	if len(q.groupBy) > 0 {
		return true
	}
	for _, p := range q.projections {
		if _, ok := p.expr.(*aggregateExpr); ok {
			return true
		}
	}
	return false
}
