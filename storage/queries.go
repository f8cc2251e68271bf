package storage

import (
	"sort"
	"strings"
	"time"

	"github.com/c360studio/factgraph/graph"
	"github.com/c360studio/factgraph/ident"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
)

var (
	rdfType = graph.IRI(fg.RDFType)
)

func literalValue(g graph.View, s graph.Term, p string) string {
	v, _ := g.Value(s, graph.IRI(p))
	return v.Value
}

func numberValue(g graph.View, s graph.Term, p string) float64 {
	v, _ := g.Value(s, graph.IRI(p))
	n, _ := v.Number()
	return n
}

func timeValue(g graph.View, s graph.Term, p string) time.Time {
	v, _ := g.Value(s, graph.IRI(p))
	t, _ := v.Time()
	return t
}

// details collects the detail-namespace properties of s as text.
func details(g graph.View, s graph.Term) map[string]string {
	out := make(map[string]string)
	for _, t := range g.Match(s, graph.Term{}, graph.Term{}) {
		if key, ok := strings.CutPrefix(t.Predicate.Value, fg.DetailNamespace); ok {
			out[key] = t.Object.Value
		}
	}
	return out
}

// newestFirst orders by descending time, then by descending write order.
func (s *Store) newestFirst(ti, tj time.Time, ri, rj graph.Term) bool {
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return s.seq[ri] > s.seq[rj]
}

// QueryByAnnotator returns the statements attributed to annotatorID, newest
// first. It joins the provenance partition with the main partition:
// statements whose fact is missing from the main partition are silently
// dropped, so callers may see fewer rows than were written.
func (s *Store) QueryByAnnotator(annotatorID string) []StatementRow {
	prov := s.partitions[PartitionProvenance]
	main := s.partitions[PartitionMain]

	var (
		rows []StatementRow
		refs []graph.Term
	)
	for _, id := range prov.Subjects(graph.IRI(fg.PropAnnotatorID), graph.Literal(annotatorID)) {
		if !prov.Contains(graph.Triple{Subject: id, Predicate: rdfType, Object: graph.IRI(fg.ClassStatement)}) {
			continue
		}
		subj, _ := prov.Value(id, graph.IRI(fg.PropHasSubject))
		pred, _ := prov.Value(id, graph.IRI(fg.PropHasPredicate))
		obj, _ := prov.Value(id, graph.IRI(fg.PropHasObject))
		if !main.Contains(graph.Triple{Subject: subj, Predicate: pred, Object: obj}) {
			continue
		}
		rows = append(rows, StatementRow{
			ID:             id.Value,
			Subject:        subj,
			Predicate:      pred,
			Object:         obj,
			Confidence:     numberValue(prov, id, fg.PropConfidence),
			SourceLanguage: literalValue(prov, id, fg.PropSourceLanguage),
			AnnotatorID:    annotatorID,
			Timestamp:      timeValue(prov, id, fg.PropTimestamp),
			Details:        details(prov, id),
		})
		refs = append(refs, id)
	}

	sortRows(rows, refs, func(i, j int) bool {
		return s.newestFirst(rows[i].Timestamp, rows[j].Timestamp, refs[i], refs[j])
	})
	return rows
}

// QueryByLanguage returns the language annotations for code ordered by
// descending confidence, newest first among equals. Each row carries the
// language's display name from its metadata row.
func (s *Store) QueryByLanguage(code string) []AnnotationRow {
	g := s.partitions[PartitionLanguages]
	name := literalValue(g, graph.IRI(fg.LanguageIRI(ident.LocalName(code))), fg.PropLanguageName)

	var (
		rows []AnnotationRow
		refs []graph.Term
	)
	for _, id := range g.Subjects(graph.IRI(fg.PropLanguageCode), graph.Literal(code)) {
		if !g.Contains(graph.Triple{Subject: id, Predicate: rdfType, Object: graph.IRI(fg.ClassLanguageAnnotation)}) {
			continue
		}
		stmt, _ := g.Value(id, graph.IRI(fg.PropAnnotates))
		rows = append(rows, AnnotationRow{
			ID:              id.Value,
			StatementID:     stmt.Value,
			Text:            literalValue(g, id, fg.PropText),
			Code:            code,
			LanguageName:    name,
			Confidence:      numberValue(g, id, fg.PropConfidence),
			DetectionMethod: literalValue(g, id, fg.PropDetectionMethod),
			CulturalContext: literalValue(g, id, fg.PropCulturalContext),
			DialectVariant:  literalValue(g, id, fg.PropDialectVariant),
			CreatedAt:       timeValue(g, id, fg.PropCreated),
		})
		refs = append(refs, id)
	}

	sortRows(rows, refs, func(i, j int) bool {
		if rows[i].Confidence != rows[j].Confidence {
			return rows[i].Confidence > rows[j].Confidence
		}
		return s.newestFirst(rows[i].CreatedAt, rows[j].CreatedAt, refs[i], refs[j])
	})
	return rows
}

// QueryFeedback returns feedback traces matching filter, newest first. It
// joins the feedback partition with the annotator registry: traces whose
// annotator is not registered are silently dropped.
func (s *Store) QueryFeedback(filter FeedbackFilter) []FeedbackRow {
	fb := s.partitions[PartitionFeedback]
	ann := s.partitions[PartitionAnnotators]

	var (
		rows []FeedbackRow
		refs []graph.Term
	)
	for _, id := range fb.Subjects(rdfType, graph.IRI(fg.ClassFeedback)) {
		kind := literalValue(fb, id, fg.PropFeedbackType)
		if filter.Type != "" && kind != filter.Type {
			continue
		}
		quality := numberValue(fb, id, fg.PropQualityScore)
		if filter.MinQuality != nil && quality < *filter.MinQuality {
			continue
		}
		by, ok := fb.Value(id, graph.IRI(fg.PropProvidedBy))
		if !ok || !ann.HasSubject(by) {
			continue
		}
		rows = append(rows, FeedbackRow{
			ID:                      literalValue(fb, id, fg.PropFeedbackID),
			StatementID:             literalValue(fb, id, fg.PropStatementID),
			Type:                    kind,
			QualityScore:            quality,
			RelevanceScore:          numberValue(fb, id, fg.PropRelevanceScore),
			CulturalAppropriateness: numberValue(fb, id, fg.PropCulturalFit),
			Text:                    literalValue(fb, id, fg.PropFeedbackText),
			SessionID:               literalValue(fb, id, fg.PropSessionID),
			AnnotatorID:             literalValue(ann, by, fg.PropAnnotatorID),
			AnnotatorName:           literalValue(ann, by, fg.PropName),
			AnnotatorReliability:    numberValue(ann, by, fg.PropReliabilityScore),
			Timestamp:               timeValue(fb, id, fg.PropCreated),
		})
		refs = append(refs, id)
	}

	sortRows(rows, refs, func(i, j int) bool {
		return s.newestFirst(rows[i].Timestamp, rows[j].Timestamp, refs[i], refs[j])
	})
	return rows
}

// AuditEntries returns the audit log, newest first.
func (s *Store) AuditEntries() []AuditRow {
	g := s.partitions[PartitionAudit]

	var (
		rows []AuditRow
		refs []graph.Term
	)
	for _, id := range g.Subjects(rdfType, graph.IRI(fg.ClassAuditEntry)) {
		rows = append(rows, AuditRow{
			ID:        id.Value,
			Action:    literalValue(g, id, fg.PropAction),
			CreatedAt: timeValue(g, id, fg.PropCreated),
			Details:   details(g, id),
		})
		refs = append(refs, id)
	}

	sortRows(rows, refs, func(i, j int) bool {
		return s.newestFirst(rows[i].CreatedAt, rows[j].CreatedAt, refs[i], refs[j])
	})
	return rows
}

// sortRows sorts rows and their parallel record references together.
func sortRows[T any](rows []T, refs []graph.Term, less func(i, j int) bool) {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return less(idx[a], idx[b]) })

	sortedRows := make([]T, len(rows))
	sortedRefs := make([]graph.Term, len(refs))
	for i, j := range idx {
		sortedRows[i] = rows[j]
		sortedRefs[i] = refs[j]
	}
	copy(rows, sortedRows)
	copy(refs, sortedRefs)
}
