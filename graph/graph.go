package graph

// Triple is one subject-predicate-object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// String renders the triple as one N-Triples line without the newline.
func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// Graph is a set of triples with subject, predicate and object indexes.
// Iteration follows insertion order. Graph does no locking: concurrent
// readers are safe, writers must be serialised by the caller.
type Graph struct {
	triples []Triple
	keys    map[Triple]int
	bySubj  map[Term][]int
	byPred  map[Term][]int
	byObj   map[Term][]int
}

// New returns an empty graph.
func New() *Graph {
	g := &Graph{}
	g.reset(0)
	return g
}

func (g *Graph) reset(capacity int) {
	g.triples = make([]Triple, 0, capacity)
	g.keys = make(map[Triple]int, capacity)
	g.bySubj = make(map[Term][]int)
	g.byPred = make(map[Term][]int)
	g.byObj = make(map[Term][]int)
}

// Add inserts t and reports whether it was new.
func (g *Graph) Add(t Triple) bool {
	if _, ok := g.keys[t]; ok {
		return false
	}
	i := len(g.triples)
	g.triples = append(g.triples, t)
	g.keys[t] = i
	g.bySubj[t.Subject] = append(g.bySubj[t.Subject], i)
	g.byPred[t.Predicate] = append(g.byPred[t.Predicate], i)
	g.byObj[t.Object] = append(g.byObj[t.Object], i)
	return true
}

// AddAll inserts every triple and returns how many were new.
func (g *Graph) AddAll(ts []Triple) int {
	n := 0
	for _, t := range ts {
		if g.Add(t) {
			n++
		}
	}
	return n
}

// Contains reports whether t is in the graph.
func (g *Graph) Contains(t Triple) bool {
	_, ok := g.keys[t]
	return ok
}

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns a copy of every triple in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// RemoveSubject deletes every triple whose subject is s and returns how
// many were removed.
func (g *Graph) RemoveSubject(s Term) int {
	if len(g.bySubj[s]) == 0 {
		return 0
	}
	kept := make([]Triple, 0, len(g.triples))
	for _, t := range g.triples {
		if t.Subject != s {
			kept = append(kept, t)
		}
	}
	removed := len(g.triples) - len(kept)
	g.reset(len(kept))
	g.AddAll(kept)
	return removed
}

// Match returns the triples matching the pattern in insertion order. Zero
// terms are wildcards.
func (g *Graph) Match(s, p, o Term) []Triple {
	var candidates []int
	indexed := false
	pick := func(idx map[Term][]int, t Term) {
		if t.IsZero() {
			return
		}
		list := idx[t]
		if !indexed || len(list) < len(candidates) {
			candidates = list
		}
		indexed = true
	}
	pick(g.bySubj, s)
	pick(g.byPred, p)
	pick(g.byObj, o)

	if !indexed {
		return g.Triples()
	}
	var out []Triple
	for _, i := range candidates {
		t := g.triples[i]
		if matches(s, t.Subject) && matches(p, t.Predicate) && matches(o, t.Object) {
			out = append(out, t)
		}
	}
	return out
}

func matches(pattern, t Term) bool {
	return pattern.IsZero() || pattern == t
}

// Objects returns the objects of (s, p, *).
func (g *Graph) Objects(s, p Term) []Term {
	ts := g.Match(s, p, Term{})
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = t.Object
	}
	return out
}

// Value returns the first object of (s, p, *).
func (g *Graph) Value(s, p Term) (Term, bool) {
	if s.IsZero() || p.IsZero() {
		return Term{}, false
	}
	for _, i := range g.bySubj[s] {
		if t := g.triples[i]; t.Predicate == p {
			return t.Object, true
		}
	}
	return Term{}, false
}

// Subjects returns the distinct subjects of (*, p, o) in first-seen order.
func (g *Graph) Subjects(p, o Term) []Term {
	seen := make(map[Term]bool)
	var out []Term
	for _, t := range g.Match(Term{}, p, o) {
		if !seen[t.Subject] {
			seen[t.Subject] = true
			out = append(out, t.Subject)
		}
	}
	return out
}

// HasSubject reports whether s is the subject of any triple.
func (g *Graph) HasSubject(s Term) bool {
	return len(g.bySubj[s]) > 0
}

// Counts summarises a graph.
type Counts struct {
	Triples    int `json:"triples"`
	Subjects   int `json:"subjects"`
	Predicates int `json:"predicates"`
	Objects    int `json:"objects"`
}

// Counts returns triple and distinct subject, predicate and object counts.
func (g *Graph) Counts() Counts {
	return Counts{
		Triples:    len(g.triples),
		Subjects:   len(g.bySubj),
		Predicates: len(g.byPred),
		Objects:    len(g.byObj),
	}
}

// View is the read-only surface of a Graph.
type View interface {
	Match(s, p, o Term) []Triple
	Triples() []Triple
	Len() int
	Contains(t Triple) bool
	Value(s, p Term) (Term, bool)
	Objects(s, p Term) []Term
	Subjects(p, o Term) []Term
	HasSubject(s Term) bool
	Counts() Counts
}

var _ View = (*Graph)(nil)
