package stt

import "context"

// Segment is one timed piece of transcript. The Speaker field stays
// empty until alignment attaches it; nothing else about a segment is
// ever mutated after transcription.
type Segment struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Speaker    string   `json:"speaker,omitempty"`
	AvgLogProb *float64 `json:"avg_logprob,omitempty"`
}

// Result is the output of one transcription run.
type Result struct {
	Language string    `json:"language"`
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// Transcriber converts a normalized WAV file into timed text segments.
// The diarization core never calls it directly; it only consumes the
// segments for alignment.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, language string) (*Result, error)
	Close() error
}
