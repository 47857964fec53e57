package diarize

import "testing"

func TestMergeEmptyAndSingle(t *testing.T) {
	m := &Merger{MaxGap: 0.6}

	if got := m.Merge(nil); got != nil {
		t.Fatalf("empty input: got %v, want nil", got)
	}

	one := []Assignment{{Start: 1, End: 1.5, Label: 0}}
	got := m.Merge(one)
	if len(got) != 1 || got[0] != one[0] {
		t.Fatalf("single input: got %v, want %v", got, one)
	}
}

func TestMergeJoinsSameLabelWithinGap(t *testing.T) {
	m := &Merger{MaxGap: 0.6}
	windows := []Assignment{
		{Start: 0, End: 0.5, Label: 0},
		{Start: 0.5, End: 1.0, Label: 0},
		{Start: 1.1, End: 1.6, Label: 0}, // 0.1s gap, still joins
	}

	turns := m.Merge(windows)
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1: %v", len(turns), turns)
	}
	if turns[0].Start != 0 || turns[0].End != 1.6 {
		t.Errorf("got [%v, %v], want [0, 1.6]", turns[0].Start, turns[0].End)
	}
}

func TestMergeSplitsOnLabelChange(t *testing.T) {
	m := &Merger{MaxGap: 0.6}
	windows := []Assignment{
		{Start: 0, End: 0.5, Label: 0},
		{Start: 0.5, End: 1.0, Label: 1},
		{Start: 1.0, End: 1.5, Label: 0},
	}

	turns := m.Merge(windows)
	if len(turns) != 3 {
		t.Fatalf("got %d turns, want 3: %v", len(turns), turns)
	}
}

func TestMergeSplitsOnWideGap(t *testing.T) {
	m := &Merger{MaxGap: 0.6}
	windows := []Assignment{
		{Start: 0, End: 0.5, Label: 0},
		{Start: 1.5, End: 2.0, Label: 0}, // same label, 1s gap
	}

	turns := m.Merge(windows)
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2: %v", len(turns), turns)
	}
}

func TestMergeAdjacentTurnInvariant(t *testing.T) {
	m := &Merger{MaxGap: 0.6}
	windows := []Assignment{
		{Start: 0, End: 0.5, Label: 0},
		{Start: 0.6, End: 1.1, Label: 0},
		{Start: 1.2, End: 1.7, Label: 1},
		{Start: 3.0, End: 3.5, Label: 1},
		{Start: 3.5, End: 4.0, Label: 0},
	}

	turns := m.Merge(windows)
	for i := 1; i < len(turns); i++ {
		prev, cur := turns[i-1], turns[i]
		gap := cur.Start - prev.End
		if prev.Label == cur.Label && gap < m.MaxGap {
			t.Errorf("adjacent turns %d and %d share label %d with gap %v below threshold",
				i-1, i, cur.Label, gap)
		}
	}
}
