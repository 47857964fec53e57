package diarize

import "testing"

func TestNameSpeakersSortedAssignment(t *testing.T) {
	turns := []Assignment{
		{Start: 0, End: 1, Label: 4},
		{Start: 1, End: 2, Label: 1},
		{Start: 2, End: 3, Label: 4},
	}

	named := NameSpeakers(turns)
	if len(named) != 3 {
		t.Fatalf("got %d turns, want 3", len(named))
	}

	// label 1 sorts first, so it becomes SPEAKER_00
	want := []string{"SPEAKER_01", "SPEAKER_00", "SPEAKER_01"}
	for i, turn := range named {
		if turn.Speaker != want[i] {
			t.Errorf("turn %d: got %q, want %q", i, turn.Speaker, want[i])
		}
	}
}

func TestNameSpeakersZeroPadding(t *testing.T) {
	turns := []Assignment{{Start: 0, End: 1, Label: 0}}
	named := NameSpeakers(turns)
	if named[0].Speaker != "SPEAKER_00" {
		t.Errorf("got %q, want SPEAKER_00", named[0].Speaker)
	}
}

func TestNameSpeakersPreservesBounds(t *testing.T) {
	turns := []Assignment{{Start: 1.5, End: 4.25, Label: 2}}
	named := NameSpeakers(turns)
	if named[0].Start != 1.5 || named[0].End != 4.25 {
		t.Errorf("bounds changed: got [%v, %v]", named[0].Start, named[0].End)
	}
}

func TestNameSpeakersEmpty(t *testing.T) {
	if got := NameSpeakers(nil); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
