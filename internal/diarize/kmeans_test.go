package diarize

import (
	"errors"
	"testing"
)

func twoBlobVectors() [][]float64 {
	// two tight groups around (0,0) and (10,10)
	return [][]float64{
		{0.1, 0.0}, {0.0, 0.2}, {-0.1, 0.1},
		{10.1, 9.9}, {9.8, 10.2}, {10.0, 10.0},
	}
}

func TestKMeansSeparatesTightClusters(t *testing.T) {
	labels, err := NewKMeans(42).Partition(twoBlobVectors(), 2)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(labels) != 6 {
		t.Fatalf("got %d labels, want 6", len(labels))
	}

	if labels[0] != labels[1] || labels[1] != labels[2] {
		t.Errorf("first blob split across clusters: %v", labels)
	}
	if labels[3] != labels[4] || labels[4] != labels[5] {
		t.Errorf("second blob split across clusters: %v", labels)
	}
	if labels[0] == labels[3] {
		t.Errorf("blobs collapsed into one cluster: %v", labels)
	}
}

func TestKMeansDeterministicForSeed(t *testing.T) {
	vectors := twoBlobVectors()

	a, err := NewKMeans(7).Partition(vectors, 3)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	b, err := NewKMeans(7).Partition(vectors, 3)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different labels: %v vs %v", a, b)
		}
	}
}

func TestKMeansSingleCluster(t *testing.T) {
	labels, err := NewKMeans(42).Partition(twoBlobVectors(), 1)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	for i, l := range labels {
		if l != 0 {
			t.Errorf("label %d is %d, want 0", i, l)
		}
	}
}

func TestKMeansRejectsDegenerateInput(t *testing.T) {
	if _, err := NewKMeans(42).Partition(twoBlobVectors(), 0); !errors.Is(err, ErrClustering) {
		t.Errorf("k=0: got %v, want ErrClustering", err)
	}
	if _, err := NewKMeans(42).Partition(twoBlobVectors(), 7); !errors.Is(err, ErrClustering) {
		t.Errorf("k>n: got %v, want ErrClustering", err)
	}

	mismatched := [][]float64{{1, 2}, {1, 2, 3}}
	if _, err := NewKMeans(42).Partition(mismatched, 2); !errors.Is(err, ErrClustering) {
		t.Errorf("dimension mismatch: got %v, want ErrClustering", err)
	}
}

func TestKMeansLabelsWithinRange(t *testing.T) {
	labels, err := NewKMeans(1).Partition(twoBlobVectors(), 4)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	for i, l := range labels {
		if l < 0 || l >= 4 {
			t.Errorf("label %d out of range: %d", i, l)
		}
	}
}
