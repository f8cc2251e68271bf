package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/c360studio/factgraph/graph"
	"github.com/c360studio/factgraph/ident"
	"github.com/c360studio/factgraph/language"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
	"github.com/go-playground/validator/v10"
)

// Audit actions recorded by the store.
const (
	ActionFeedbackAdded = "rlhf_feedback_added"
)

// Store is the partitioned graph store. It is constructed once, mutated only
// through its methods and discarded with the process; nothing persists
// beyond an explicit export.
type Store struct {
	partitions  [numPartitions]*graph.Graph
	annotators  map[string]AnnotatorProfile
	feedbackIDs map[string]struct{}
	// seq records write order so equal timestamps sort deterministically.
	seq      map[graph.Term]uint64
	next     uint64
	now      func() time.Time
	logger   *slog.Logger
	validate *validator.Validate
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		annotators:  make(map[string]AnnotatorProfile),
		feedbackIDs: make(map[string]struct{}),
		seq:         make(map[graph.Term]uint64),
		now:         time.Now,
		logger:      slog.Default(),
		validate:    validator.New(),
	}
	for i := range s.partitions {
		s.partitions[i] = graph.New()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Graph returns the read-only view of partition p. It panics on an invalid
// partition, which can only come from an unchecked conversion.
func (s *Store) Graph(p Partition) graph.View {
	return s.partitions[p]
}

// Main returns the fact partition.
func (s *Store) Main() graph.View { return s.partitions[PartitionMain] }

// Provenance returns the statement provenance partition.
func (s *Store) Provenance() graph.View { return s.partitions[PartitionProvenance] }

// Annotators returns the annotator registry partition.
func (s *Store) Annotators() graph.View { return s.partitions[PartitionAnnotators] }

// Languages returns the language metadata partition.
func (s *Store) Languages() graph.View { return s.partitions[PartitionLanguages] }

// Feedback returns the human feedback partition.
func (s *Store) Feedback() graph.View { return s.partitions[PartitionFeedback] }

// Audit returns the audit log partition.
func (s *Store) Audit() graph.View { return s.partitions[PartitionAudit] }

// GraphNames returns the IRIs of every partition in declaration order.
func (s *Store) GraphNames() []string {
	names := make([]string, 0, numPartitions)
	for _, p := range Partitions() {
		names = append(names, p.IRI())
	}
	return names
}

// NamedGraph resolves a partition by IRI.
func (s *Store) NamedGraph(iri string) (graph.View, bool) {
	p, err := ParsePartition(iri)
	if err != nil || !strings.HasPrefix(iri, fg.GraphNamespace) {
		return nil, false
	}
	return s.partitions[p], true
}

func (s *Store) add(p Partition, subj, pred, obj graph.Term) {
	s.partitions[p].Add(graph.Triple{Subject: subj, Predicate: pred, Object: obj})
}

func (s *Store) mark(record graph.Term) {
	s.next++
	s.seq[record] = s.next
}

func (s *Store) timestamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

// AddFacts inserts triples into the main partition and returns how many
// were new. It performs no validation.
func (s *Store) AddFacts(triples ...graph.Triple) int {
	return s.partitions[PartitionMain].AddAll(triples)
}

// AddStatement writes a fact into the main partition and its provenance
// envelope into the provenance partition, and returns the new statement ID.
// It never rejects input; subject and predicate are not checked against any
// schema.
func (s *Store) AddStatement(st Statement) string {
	created := s.timestamp(st.CreatedAt)
	id := graph.IRI(ident.MintUnique("statement", fg.ProvenanceNamespace))

	s.add(PartitionMain, st.Subject, st.Predicate, st.Object)

	prov := PartitionProvenance
	s.add(prov, id, graph.IRI(fg.RDFType), graph.IRI(fg.ClassStatement))
	s.add(prov, id, graph.IRI(fg.PropHasSubject), st.Subject)
	s.add(prov, id, graph.IRI(fg.PropHasPredicate), st.Predicate)
	s.add(prov, id, graph.IRI(fg.PropHasObject), st.Object)
	s.add(prov, id, graph.IRI(fg.PropConfidence), graph.Float(st.Confidence))
	s.add(prov, id, graph.IRI(fg.PropSourceLanguage), graph.Literal(st.SourceLanguage))
	s.add(prov, id, graph.IRI(fg.PropAnnotatorID), graph.Literal(st.AnnotatorID))
	if st.AnnotatorID != "" {
		s.add(prov, id, graph.IRI(fg.PropAttributedTo), graph.IRI(fg.AnnotatorIRI(ident.LocalName(st.AnnotatorID))))
	}
	s.add(prov, id, graph.IRI(fg.PropTimestamp), graph.DateTime(created))
	s.addDetails(prov, id, st.Details)

	if len(st.Feedback) > 0 {
		rec := graph.IRI(ident.MintUnique("feedback", fg.FeedbackNamespace))
		s.add(prov, id, graph.IRI(fg.PropHasFeedback), rec)
		s.add(prov, rec, graph.IRI(fg.RDFType), graph.IRI(fg.ClassFeedback))
		s.add(prov, rec, graph.IRI(fg.PropCreated), graph.DateTime(created))
		for _, k := range sortedKeys(st.Feedback) {
			s.add(prov, rec, graph.IRI(feedbackProperty(k)), graph.ValueLiteral(st.Feedback[k]))
		}
	}

	s.mark(id)
	return id.Value
}

// RegisterAnnotator adds or replaces the profile with the same ID. A
// replaced profile's triples are removed before the new ones are written.
// An ID whose registry node already belongs to a different ID is rejected
// with ErrAnnotatorConflict and nothing is written.
func (s *Store) RegisterAnnotator(profile AnnotatorProfile) error {
	if err := s.validate.Struct(profile); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAnnotator, formatValidationError(err))
	}

	g := s.partitions[PartitionAnnotators]
	ann := graph.IRI(fg.AnnotatorIRI(ident.LocalName(profile.ID)))
	if owner, ok := g.Value(ann, graph.IRI(fg.PropAnnotatorID)); ok && owner.Value != profile.ID {
		return fmt.Errorf("%w: %q and %q share %s", ErrAnnotatorConflict, owner.Value, profile.ID, ann.Value)
	}

	profile.CreatedAt = s.timestamp(profile.CreatedAt)
	if g.RemoveSubject(ann) > 0 {
		s.logger.Debug("Replacing annotator profile", slog.String("annotator_id", profile.ID))
	}

	p := PartitionAnnotators
	s.add(p, ann, graph.IRI(fg.RDFType), graph.IRI(fg.ClassAnnotator))
	s.add(p, ann, graph.IRI(fg.PropAnnotatorID), graph.Literal(profile.ID))
	s.add(p, ann, graph.IRI(fg.PropName), graph.Literal(profile.Name))
	s.add(p, ann, graph.IRI(fg.PropReliabilityScore), graph.Float(profile.ReliabilityScore))
	s.add(p, ann, graph.IRI(fg.PropAnnotationCount), graph.Integer(int64(profile.AnnotationCount)))
	s.add(p, ann, graph.IRI(fg.PropCreated), graph.DateTime(profile.CreatedAt))
	for _, domain := range profile.ExpertiseDomains {
		s.add(p, ann, graph.IRI(fg.PropExpertiseIn), graph.Literal(domain))
	}
	for _, code := range profile.Languages {
		s.add(p, ann, graph.IRI(fg.PropSpeaksLanguage), graph.IRI(fg.LanguageIRI(ident.LocalName(code))))
	}

	s.annotators[profile.ID] = profile
	s.mark(ann)
	return nil
}

// Annotator returns a registered profile.
func (s *Store) Annotator(id string) (AnnotatorProfile, bool) {
	p, ok := s.annotators[id]
	return p, ok
}

// AnnotatorProfiles returns every registered profile sorted by ID.
func (s *Store) AnnotatorProfiles() []AnnotatorProfile {
	out := make([]AnnotatorProfile, 0, len(s.annotators))
	for _, p := range s.annotators {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddLanguageAnnotation records the language of a statement's text and
// returns the annotation ID. The language's metadata row is created the
// first time its code is used.
func (s *Store) AddLanguageAnnotation(statementRef string, a LanguageAnnotation) (string, error) {
	if err := s.validate.Struct(a); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAnnotation, formatValidationError(err))
	}
	s.ensureLanguage(a.Code)

	p := PartitionLanguages
	id := graph.IRI(ident.MintUnique("annotation", fg.LanguageNamespace))
	s.add(p, id, graph.IRI(fg.RDFType), graph.IRI(fg.ClassLanguageAnnotation))
	s.add(p, id, graph.IRI(fg.PropAnnotates), graph.IRI(statementRef))
	s.add(p, id, graph.IRI(fg.PropText), graph.LangLiteral(a.Text, a.Code))
	s.add(p, id, graph.IRI(fg.PropLanguageCode), graph.Literal(a.Code))
	s.add(p, id, graph.IRI(fg.PropConfidence), graph.Float(a.Confidence))
	s.add(p, id, graph.IRI(fg.PropDetectionMethod), graph.Literal(a.DetectionMethod))
	s.add(p, id, graph.IRI(fg.PropCreated), graph.DateTime(s.now()))
	if a.CulturalContext != "" {
		s.add(p, id, graph.IRI(fg.PropCulturalContext), graph.Literal(a.CulturalContext))
	}
	if a.DialectVariant != "" {
		s.add(p, id, graph.IRI(fg.PropDialectVariant), graph.Literal(a.DialectVariant))
	}

	s.mark(id)
	return id.Value, nil
}

// ensureLanguage writes the metadata row for code unless it exists.
func (s *Store) ensureLanguage(code string) {
	g := s.partitions[PartitionLanguages]
	lang := graph.IRI(fg.LanguageIRI(ident.LocalName(code)))
	if g.HasSubject(lang) {
		return
	}
	info, _ := language.Lookup(code)

	p := PartitionLanguages
	s.add(p, lang, graph.IRI(fg.RDFType), graph.IRI(fg.ClassLanguage))
	s.add(p, lang, graph.IRI(fg.PropLanguageCode), graph.Literal(code))
	s.add(p, lang, graph.IRI(fg.PropLanguageName), graph.Literal(info.Name))
	s.add(p, lang, graph.IRI(fg.PropScript), graph.Literal(info.Script))
	s.add(p, lang, graph.IRI(fg.PropRightToLeft), graph.Boolean(info.RightToLeft))
}

// AddFeedback records a feedback trace and exactly one audit entry. An
// unrecognised feedback type fails with ErrInvalidFeedbackKind and nothing
// is written. The referenced statement and annotator are not checked.
func (s *Store) AddFeedback(tr FeedbackTrace) error {
	if err := s.validate.Var(tr.Type, "oneof=positive negative correction"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFeedbackKind, tr.Type)
	}
	if err := s.validate.Struct(tr); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFeedback, formatValidationError(err))
	}
	if _, dup := s.feedbackIDs[tr.ID]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateFeedback, tr.ID)
	}
	created := s.timestamp(tr.Timestamp)

	g := s.partitions[PartitionFeedback]
	id := graph.IRI(fg.FeedbackNamespace + "feedback_" + ident.LocalName(tr.ID))
	if g.HasSubject(id) {
		// Two IDs that clean to the same local name.
		id = graph.IRI(ident.MintUnique("feedback_"+ident.LocalName(tr.ID), fg.FeedbackNamespace))
	}

	p := PartitionFeedback
	s.add(p, id, graph.IRI(fg.RDFType), graph.IRI(fg.ClassFeedback))
	s.add(p, id, graph.IRI(fg.PropFeedbackID), graph.Literal(tr.ID))
	s.add(p, id, graph.IRI(fg.PropStatementID), graph.Literal(tr.StatementID))
	s.add(p, id, graph.IRI(fg.PropFeedbackType), graph.Literal(tr.Type))
	s.add(p, id, graph.IRI(fg.PropQualityScore), graph.Float(tr.QualityScore))
	s.add(p, id, graph.IRI(fg.PropRelevanceScore), graph.Float(tr.RelevanceScore))
	s.add(p, id, graph.IRI(fg.PropCulturalFit), graph.Float(tr.CulturalAppropriateness))
	s.add(p, id, graph.IRI(fg.PropCreated), graph.DateTime(created))
	s.add(p, id, graph.IRI(fg.PropProvidedBy), graph.IRI(fg.AnnotatorIRI(ident.LocalName(tr.AnnotatorID))))
	if tr.Text != "" {
		s.add(p, id, graph.IRI(fg.PropFeedbackText), graph.Literal(tr.Text))
	}
	if tr.SessionID != "" {
		s.add(p, id, graph.IRI(fg.PropSessionID), graph.Literal(tr.SessionID))
	}
	s.feedbackIDs[tr.ID] = struct{}{}
	s.mark(id)

	s.RecordAudit(ActionFeedbackAdded, map[string]any{
		"feedback_id":   tr.ID,
		"annotator_id":  tr.AnnotatorID,
		"feedback_type": tr.Type,
	})
	return nil
}

// AddProvenance attaches a provenance record to a statement and returns the
// record ID. Detail values keep their type: numbers, booleans and times
// become typed literals, anything else text.
func (s *Store) AddProvenance(statementRef string, details map[string]any) string {
	p := PartitionProvenance
	id := graph.IRI(ident.MintUnique("provenance", fg.ProvenanceNamespace))
	s.add(p, id, graph.IRI(fg.RDFType), graph.IRI(fg.ClassProvenanceRecord))
	s.add(p, id, graph.IRI(fg.PropTracesStatement), graph.IRI(statementRef))
	s.add(p, id, graph.IRI(fg.PropCreated), graph.DateTime(s.now()))
	s.addDetails(p, id, details)
	s.mark(id)
	return id.Value
}

// RecordAudit appends an audit entry and returns its ID. Detail values are
// stored as text.
func (s *Store) RecordAudit(action string, details map[string]any) string {
	p := PartitionAudit
	id := graph.IRI(ident.MintUnique("audit", fg.AuditNamespace))
	s.add(p, id, graph.IRI(fg.RDFType), graph.IRI(fg.ClassAuditEntry))
	s.add(p, id, graph.IRI(fg.PropAction), graph.Literal(action))
	s.add(p, id, graph.IRI(fg.PropCreated), graph.DateTime(s.now()))
	for _, k := range sortedKeys(details) {
		s.add(p, id, graph.IRI(fg.DetailIRI(ident.LocalName(k))), graph.Literal(fmt.Sprint(details[k])))
	}
	s.mark(id)
	return id.Value
}

func (s *Store) addDetails(p Partition, id graph.Term, details map[string]any) {
	for _, k := range sortedKeys(details) {
		s.add(p, id, graph.IRI(fg.DetailIRI(ident.LocalName(k))), graph.ValueLiteral(details[k]))
	}
}

// feedbackProperty maps a statement feedback key to its property IRI.
func feedbackProperty(key string) string {
	switch key {
	case "feedback_type", "type":
		return fg.PropFeedbackType
	case "quality_score", "quality":
		return fg.PropQualityScore
	case "relevance_score", "relevance":
		return fg.PropRelevanceScore
	case "cultural_appropriateness":
		return fg.PropCulturalFit
	case "feedback_text", "text":
		return fg.PropFeedbackText
	case "session_id":
		return fg.PropSessionID
	default:
		return fg.DetailIRI(ident.LocalName(key))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatValidationError joins validator field errors into one message.
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
