package storage

import (
	"github.com/c360studio/factgraph/graph"
	fg "github.com/c360studio/factgraph/vocabulary/factgraph"
)

// PartitionStats summarises one partition.
type PartitionStats struct {
	Partition Partition
	IRI       string
	graph.Counts
}

// Stats summarises the whole store.
type Stats struct {
	Partitions   []PartitionStats
	TotalTriples int
	Annotators   int
	Languages    int
}

// Stats returns per-partition counts and store totals.
func (s *Store) Stats() Stats {
	st := Stats{Annotators: len(s.annotators)}
	for _, p := range Partitions() {
		c := s.partitions[p].Counts()
		st.Partitions = append(st.Partitions, PartitionStats{Partition: p, IRI: p.IRI(), Counts: c})
		st.TotalTriples += c.Triples
	}
	st.Languages = len(s.partitions[PartitionLanguages].Subjects(rdfType, graph.IRI(fg.ClassLanguage)))
	return st
}
