package store

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/user/stt-diarizer/internal/pipeline"
	"github.com/user/stt-diarizer/internal/stt"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "transcripts.db"), filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		Text:     "hello world how are you",
		Language: "en",
		Speakers: []string{"SPEAKER_00", "SPEAKER_01"},
		Segments: []stt.Segment{
			{Start: 0, End: 2.5, Text: "hello world", Speaker: "SPEAKER_00"},
			{Start: 2.5, End: 6.1, Text: "how are you", Speaker: "SPEAKER_01"},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Save("job-1", "meeting.wav", "upload", sampleResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.WordCount != 5 {
		t.Errorf("word count = %d, want 5", rec.WordCount)
	}
	if rec.SpeakerCount != 2 {
		t.Errorf("speaker count = %d, want 2", rec.SpeakerCount)
	}
	if rec.Duration != 6.1 {
		t.Errorf("duration = %v, want 6.1", rec.Duration)
	}

	got, err := s.Get("job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.JobID != "job-1" || got.Name != "meeting.wav" || got.Source != "upload" {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := sampleResult()

	if _, err := s.Save("job-2", "call.wav", "url", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("job-2")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Text != want.Text || got.Language != want.Language {
		t.Errorf("transcript mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.Speakers, want.Speakers) {
		t.Errorf("speakers = %v, want %v", got.Speakers, want.Speakers)
	}
	if !reflect.DeepEqual(got.Segments, want.Segments) {
		t.Errorf("segments = %v, want %v", got.Segments, want.Segments)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("nope"); err == nil {
		t.Fatal("Get on missing job returned no error")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.Save(id, id+".wav", "upload", sampleResult()); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	records, err := s.List(2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Errorf("records out of order: %v before %v", records[i-1].CreatedAt, records[i].CreatedAt)
		}
	}
}
