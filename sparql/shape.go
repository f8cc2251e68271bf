package sparql

// Query shapes reported for a query text.
const (
	ShapeSelect    = "select"
	ShapeConstruct = "construct"
	ShapeAsk       = "ask"
	ShapeDescribe  = "describe"
	ShapeUnknown   = "unknown"
)

// ClassifyShape reports the form of a query from its leading keyword,
// skipping the prologue. It does not validate the rest of the query.
func ClassifyShape(src string) string {
	l := &lexer{src: src}
	for {
		t, err := l.next()
		if err != nil || t.kind == tokEOF {
			return ShapeUnknown
		}
		switch {
		case t.kind == tokKeyword && t.val == "SELECT":
			return ShapeSelect
		case t.kind == tokKeyword && t.val == "CONSTRUCT":
			return ShapeConstruct
		case t.kind == tokKeyword && t.val == "ASK":
			return ShapeAsk
		case t.kind == tokKeyword && t.val == "DESCRIBE":
			return ShapeDescribe
		case t.kind == tokKeyword && (t.val == "PREFIX" || t.val == "BASE"):
		case t.kind == tokPName || t.kind == tokIRI:
		default:
			return ShapeUnknown
		}
	}
}
