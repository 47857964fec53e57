// Package pipeline runs the full request-scoped chain: normalized WAV in,
// speaker-tagged transcript out. Each call is independent; the only
// shared state is read-only configuration and the injected providers.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/user/stt-diarizer/internal/align"
	"github.com/user/stt-diarizer/internal/audio"
	"github.com/user/stt-diarizer/internal/diarize"
	"github.com/user/stt-diarizer/internal/stt"
	"github.com/user/stt-diarizer/internal/vad"
)

// Result is the payload the service serializes into its response:
// speaker-tagged segments plus a sorted roster of distinct speakers.
type Result struct {
	Text     string         `json:"text"`
	Language string         `json:"language"`
	Speakers []string       `json:"speakers"`
	Segments []stt.Segment  `json:"segments"`
	Turns    []diarize.Turn `json:"-"`
}

// Pipeline wires the transcription collaborator and the diarization
// core together.
type Pipeline struct {
	format      audio.Format
	transcriber stt.Transcriber
	segmenter   *vad.Segmenter
	diarizer    *diarize.Diarizer
}

func New(format audio.Format, transcriber stt.Transcriber, segmenter *vad.Segmenter, diarizer *diarize.Diarizer) *Pipeline {
	return &Pipeline{
		format:      format,
		transcriber: transcriber,
		segmenter:   segmenter,
		diarizer:    diarizer,
	}
}

// Process runs transcription and diarization over one normalized WAV and
// aligns the two. expectedSpeakers <= 0 means discover the count.
// Failures anywhere before alignment abort the whole run; alignment
// itself always succeeds.
func (p *Pipeline) Process(ctx context.Context, wavPath, language string, expectedSpeakers int) (*Result, error) {
	pcm, format, err := audio.ReadWAV(wavPath)
	if err != nil {
		return nil, err
	}
	if err := format.Validate(p.format); err != nil {
		return nil, err
	}

	asr, err := p.transcriber.Transcribe(ctx, wavPath, language)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	intervals, err := p.segmenter.Segment(pcm, format)
	if err != nil {
		return nil, err
	}

	turns, err := p.diarizer.Diarize(ctx, pcm, format.SampleRate, intervals, expectedSpeakers)
	if err != nil {
		return nil, fmt.Errorf("diarization failed: %w", err)
	}

	segments := align.AssignSpeakers(asr.Segments, turns)
	speakers := align.DistinctSpeakers(turns)

	log.Info().
		Str("language", asr.Language).
		Int("segments", len(segments)).
		Int("turns", len(turns)).
		Int("speakers", len(speakers)).
		Msg("Pipeline run completed")

	return &Result{
		Text:     asr.Text,
		Language: asr.Language,
		Speakers: speakers,
		Segments: segments,
		Turns:    turns,
	}, nil
}

// Transcribe runs only the transcription collaborator, with no
// diarization. Used by the streaming endpoint's partial flushes.
func (p *Pipeline) Transcribe(ctx context.Context, wavPath, language string) (*stt.Result, error) {
	return p.transcriber.Transcribe(ctx, wavPath, language)
}
