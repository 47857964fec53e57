package vad

import (
	"context"
	"time"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog/log"

	"github.com/user/stt-diarizer/internal/audio"
)

// Interval is a span of continuous speech, in seconds from stream start.
// Segmenter output is ordered and non-overlapping by construction.
type Interval struct {
	Start float64
	End   float64
}

// Segmenter states and events. Segmentation is a two-state machine:
// idle until a speech frame opens an interval, speaking until a
// non-speech frame closes it.
const (
	stateIdle     = "idle"
	stateSpeaking = "speaking"

	eventSpeech  = "speech"
	eventSilence = "silence"
)

// Segmenter converts PCM audio into speech intervals using a frame-level
// classifier. It is stateless across calls; each Segment run gets a fresh
// state machine.
type Segmenter struct {
	classifier FrameClassifier
	format     audio.Format
	frameDur   time.Duration
}

func NewSegmenter(classifier FrameClassifier, format audio.Format, frameDur time.Duration) *Segmenter {
	return &Segmenter{
		classifier: classifier,
		format:     format,
		frameDur:   frameDur,
	}
}

// Segment classifies pcm frame by frame and returns the speech intervals.
// Audio whose format does not match the configured contract is rejected
// with audio.ErrInvalidFormat before any frame is touched. The final
// partial frame is dropped.
func (s *Segmenter) Segment(pcm []int16, format audio.Format) ([]Interval, error) {
	if err := format.Validate(s.format); err != nil {
		return nil, err
	}

	var (
		intervals []Interval
		openedAt  float64
	)

	machine := fsm.NewFSM(
		stateIdle,
		fsm.Events{
			{Name: eventSpeech, Src: []string{stateIdle}, Dst: stateSpeaking},
			{Name: eventSilence, Src: []string{stateSpeaking}, Dst: stateIdle},
		},
		fsm.Callbacks{
			"enter_" + stateSpeaking: func(_ context.Context, e *fsm.Event) {
				openedAt = e.Args[0].(float64)
			},
			"enter_" + stateIdle: func(_ context.Context, e *fsm.Event) {
				intervals = append(intervals, Interval{Start: openedAt, End: e.Args[0].(float64)})
			},
		},
	)

	ctx := context.Background()
	frameSamples := s.format.SamplesFor(s.frameDur)
	frameSeconds := s.frameDur.Seconds()

	for i, frame := range audio.Frames(pcm, frameSamples) {
		t := float64(i) * frameSeconds
		isSpeech := s.classifier.IsSpeech(frame, s.format.SampleRate)

		switch {
		case isSpeech && machine.Is(stateIdle):
			if err := machine.Event(ctx, eventSpeech, t); err != nil {
				return nil, err
			}
		case !isSpeech && machine.Is(stateSpeaking):
			if err := machine.Event(ctx, eventSilence, t); err != nil {
				return nil, err
			}
		}
	}

	// Stream ended mid-speech: close the interval at end of stream.
	if machine.Is(stateSpeaking) {
		end := float64(len(pcm)/frameSamples) * frameSeconds
		if err := machine.Event(ctx, eventSilence, end); err != nil {
			return nil, err
		}
	}

	log.Debug().
		Int("samples", len(pcm)).
		Int("intervals", len(intervals)).
		Msg("Voice activity segmentation completed")

	return intervals, nil
}
