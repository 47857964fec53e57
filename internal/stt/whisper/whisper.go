package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/user/stt-diarizer/internal/stt"
)

// Transcriber shells out to OpenAI Whisper's Python CLI and parses its
// JSON output. Runs are serialized with a mutex: the model is loaded per
// invocation and parallel runs just thrash memory.
type Transcriber struct {
	model string
	mu    sync.Mutex
}

// whisperOutput matches Python Whisper's JSON output format.
type whisperOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		Text       string  `json:"text"`
		AvgLogProb float64 `json:"avg_logprob"`
	} `json:"segments"`
}

func New(model string) *Transcriber {
	log.Info().Str("model", model).Msg("Using Python Whisper transcription backend")
	return &Transcriber{model: model}
}

func (t *Transcriber) Transcribe(ctx context.Context, wavPath, language string) (*stt.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	outDir, err := os.MkdirTemp("", "whisper_out_")
	if err != nil {
		return nil, fmt.Errorf("failed to create whisper output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	absPath, err := filepath.Abs(wavPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve audio path: %w", err)
	}

	args := []string{
		"-m", "whisper",
		absPath,
		"--model", t.model,
		"--output_dir", outDir,
		"--output_format", "json",
		"--fp16", "False",
	}
	if language != "" {
		args = append(args, "--language", language)
	}

	cmd := exec.CommandContext(ctx, "python", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper transcription failed: %w\noutput: %s", err, string(output))
	}

	base := strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))
	raw, err := os.ReadFile(filepath.Join(outDir, base+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper output: %w", err)
	}

	var parsed whisperOutput
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse whisper JSON: %w", err)
	}

	segments := make([]stt.Segment, len(parsed.Segments))
	for i, seg := range parsed.Segments {
		lp := seg.AvgLogProb
		segments[i] = stt.Segment{
			Start:      seg.Start,
			End:        seg.End,
			Text:       strings.TrimSpace(seg.Text),
			AvgLogProb: &lp,
		}
	}

	lang := parsed.Language
	if lang == "" {
		lang = language
	}

	log.Debug().
		Int("segments", len(segments)).
		Str("language", lang).
		Msg("Whisper transcription completed")

	return &stt.Result{
		Language: lang,
		Text:     strings.TrimSpace(parsed.Text),
		Segments: segments,
	}, nil
}

func (t *Transcriber) Close() error {
	return nil
}
