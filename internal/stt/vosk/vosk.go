package vosk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"
	"github.com/rs/zerolog/log"

	"github.com/user/stt-diarizer/internal/audio"
	"github.com/user/stt-diarizer/internal/stt"
)

// Transcriber runs a local Vosk model over the normalized WAV. The model
// is loaded once and shared; each call gets its own recognizer, because
// recognizer word timestamps count from recognizer creation and never
// rewind, and downstream alignment needs times relative to the file.
// Runs are still serialized: decoding is memory-heavy.
type Transcriber struct {
	model  *vosk.VoskModel
	format audio.Format
	mu     sync.Mutex
}

type voskResult struct {
	Text   string `json:"text"`
	Result []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Conf  float64 `json:"conf"`
	} `json:"result"`
}

func New(modelPath string, format audio.Format) (*Transcriber, error) {
	log.Info().Str("model_path", modelPath).Msg("Loading Vosk model")

	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load Vosk model from %s: %w", modelPath, err)
	}

	log.Info().Msg("Vosk model loaded successfully")

	return &Transcriber{
		model:  model,
		format: format,
	}, nil
}

// Transcribe feeds the file's PCM to a fresh recognizer and turns each
// finalized utterance into a segment bounded by its word times. The
// language argument is ignored; a Vosk model speaks one language.
func (t *Transcriber) Transcribe(ctx context.Context, wavPath, language string) (*stt.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pcm, format, err := audio.ReadWAV(wavPath)
	if err != nil {
		return nil, err
	}
	if err := format.Validate(t.format); err != nil {
		return nil, err
	}

	recognizer, err := vosk.NewRecognizer(t.model, float64(t.format.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("failed to create Vosk recognizer: %w", err)
	}
	defer recognizer.Free()
	recognizer.SetWords(1)

	var segments []stt.Segment

	// Quarter-second feed chunks; the exact size only affects latency.
	chunkSamples := t.format.SampleRate / 4
	for off := 0; off < len(pcm); off += chunkSamples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := off + chunkSamples
		if end > len(pcm) {
			end = len(pcm)
		}
		state := recognizer.AcceptWaveform(audio.Int16ToBytes(pcm[off:end]))
		if state == -1 {
			return nil, fmt.Errorf("vosk failed to process audio at sample %d", off)
		}
		if state == 1 {
			if seg, ok := parseSegment(recognizer.Result()); ok {
				segments = append(segments, seg)
			}
		}
	}

	if seg, ok := parseSegment(recognizer.FinalResult()); ok {
		segments = append(segments, seg)
	}

	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}

	log.Debug().
		Int("segments", len(segments)).
		Msg("Vosk transcription completed")

	return &stt.Result{
		Language: language,
		Text:     strings.Join(parts, " "),
		Segments: segments,
	}, nil
}

// parseSegment converts one recognizer result into a segment bounded by
// its first and last word timestamps.
func parseSegment(raw string) (stt.Segment, bool) {
	var res voskResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		log.Warn().Err(err).Str("json", raw).Msg("Failed to parse Vosk result")
		return stt.Segment{}, false
	}
	if res.Text == "" || len(res.Result) == 0 {
		return stt.Segment{}, false
	}
	return stt.Segment{
		Start: res.Result[0].Start,
		End:   res.Result[len(res.Result)-1].End,
		Text:  res.Text,
	}, true
}

func (t *Transcriber) Close() error {
	if t.model != nil {
		t.model.Free()
	}
	return nil
}
