package diarize

import (
	"fmt"
	"math"
	"math/rand"
)

// Partitioner groups embedding vectors into k clusters and returns one
// label per vector, in input order. Implementations must be deterministic
// for a fixed configuration; tests pin expected assignments.
type Partitioner interface {
	Partition(vectors [][]float64, k int) ([]int, error)
}

// KMeans is the default Partitioner: Lloyd's algorithm with seeded
// random initialization. The same seed, vectors, and k always produce
// the same labels.
type KMeans struct {
	Seed     int64
	MaxIters int
}

func NewKMeans(seed int64) *KMeans {
	return &KMeans{Seed: seed, MaxIters: 100}
}

func (km *KMeans) Partition(vectors [][]float64, k int) ([]int, error) {
	n := len(vectors)
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: k=%d for %d vectors", ErrClustering, k, n)
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrClustering, i, len(v), dim)
		}
	}

	if k == 1 {
		return make([]int, n), nil
	}

	centroids := km.seedCentroids(vectors, k)

	labels := make([]int, n)
	maxIters := km.MaxIters
	if maxIters <= 0 {
		maxIters = 100
	}

	for iter := 0; iter < maxIters; iter++ {
		changed := false
		for i, v := range vectors {
			best := nearestCentroid(v, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids; an emptied cluster keeps its previous
		// position rather than being reseeded, to stay deterministic.
		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, v := range vectors {
			c := labels[i]
			counts[c]++
			for d, x := range v {
				sums[c][d] += x
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := range sums[c] {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	return labels, nil
}

// seedCentroids picks initial centroids k-means++ style with the seeded
// source: the first at random, each next proportional to squared
// distance from the nearest chosen one. Exact duplicates carry zero
// weight, so tight groups each seed a centroid before any group gets
// two. When every remaining point duplicates a centroid, the rest are
// copies of the first, which assignment then ignores.
func (km *KMeans) seedCentroids(vectors [][]float64, k int) [][]float64 {
	rng := rand.New(rand.NewSource(km.Seed))
	n := len(vectors)

	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), vectors[rng.Intn(n)]...))

	dists := make([]float64, n)
	for len(centroids) < k {
		var total float64
		last := centroids[len(centroids)-1]
		for i, v := range vectors {
			d := sqDist(v, last)
			if len(centroids) == 1 || d < dists[i] {
				dists[i] = d
			}
			total += dists[i]
		}
		if total == 0 {
			centroids = append(centroids, append([]float64(nil), centroids[0]...))
			continue
		}

		r := rng.Float64() * total
		pick := n - 1
		var cum float64
		for i, d := range dists {
			cum += d
			if cum >= r && d > 0 {
				pick = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), vectors[pick]...))
	}
	return centroids
}

func sqDist(a, b []float64) float64 {
	var dist float64
	for d, x := range a {
		diff := x - b[d]
		dist += diff * diff
	}
	return dist
}

// nearestCentroid returns the index of the closest centroid by squared
// euclidean distance. Ties resolve to the lowest index.
func nearestCentroid(v []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		var dist float64
		for d, x := range v {
			diff := x - centroid[d]
			dist += diff * diff
		}
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}
