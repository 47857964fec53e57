package diarize

import (
	"github.com/rs/zerolog/log"
)

// Clusterer derives the speaker count for a run and partitions window
// embeddings into that many groups. The partitioning algorithm is
// injected; the count policy is fixed here.
type Clusterer struct {
	partitioner Partitioner
	maxSpeakers int
}

func NewClusterer(partitioner Partitioner, maxSpeakers int) *Clusterer {
	return &Clusterer{
		partitioner: partitioner,
		maxSpeakers: maxSpeakers,
	}
}

// Assign returns one cluster label per embedding, in input order.
// Speaker count: an explicit positive expected count wins, capped by the
// number of embeddings; otherwise assume up to maxSpeakers, again capped
// by available evidence. Fewer than 2 embeddings cannot be clustered, so
// everything gets label 0.
func (c *Clusterer) Assign(embeddings [][]float64, expected int) ([]int, error) {
	n := len(embeddings)
	if n < 2 {
		return make([]int, n), nil
	}

	var k int
	if expected > 0 {
		k = expected
		if k > n {
			k = n
		}
	} else {
		k = c.maxSpeakers
		if k > n {
			k = n
		}
		if k < 1 {
			k = 1
		}
	}

	labels, err := c.partitioner.Partition(embeddings, k)
	if err != nil {
		// Unreachable given the clamping above; a configuration bug,
		// not a user input problem.
		return nil, err
	}

	log.Debug().
		Int("embeddings", n).
		Int("k", k).
		Msg("Clustered speaker embeddings")

	return labels, nil
}
