// Package storage provides the partitioned in-memory graph store.
//
// A Store owns six partitions, each an independent graph.Graph: main facts,
// statement provenance, the annotator registry, language metadata, human
// feedback and the audit log. The store is single-writer: it does no
// locking, so writes must be serialised by the caller. Concurrent reads are
// safe when no write is in progress.
package storage

import (
	"fmt"

	"github.com/c360studio/factgraph/vocabulary/factgraph"
)

// Partition identifies one of the store's graphs.
type Partition uint8

const (
	PartitionMain Partition = iota
	PartitionProvenance
	PartitionAnnotators
	PartitionLanguages
	PartitionFeedback
	PartitionAudit

	numPartitions = int(PartitionAudit) + 1
)

var partitionNames = [numPartitions]string{
	PartitionMain:       "main",
	PartitionProvenance: "provenance",
	PartitionAnnotators: "annotators",
	PartitionLanguages:  "languages",
	PartitionFeedback:   "feedback",
	PartitionAudit:      "audit",
}

// Partitions returns every partition in declaration order.
func Partitions() []Partition {
	out := make([]Partition, numPartitions)
	for i := range out {
		out[i] = Partition(i)
	}
	return out
}

// String returns the partition's short name.
func (p Partition) String() string {
	if int(p) < numPartitions {
		return partitionNames[p]
	}
	return fmt.Sprintf("partition(%d)", uint8(p))
}

// IRI returns the IRI naming the partition.
func (p Partition) IRI() string {
	return factgraph.GraphIRI(p.String())
}

// Valid reports whether p is one of the six partitions.
func (p Partition) Valid() bool {
	return int(p) < numPartitions
}

// ParsePartition accepts a short name or a partition IRI.
func ParsePartition(s string) (Partition, error) {
	for i, name := range partitionNames {
		if s == name || s == factgraph.GraphIRI(name) {
			return Partition(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownPartition, s)
}

// MarshalText encodes the partition as its short name.
func (p Partition) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
