package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/user/stt-diarizer/internal/stt"
)

const listenURL = "https://api.deepgram.com/v1/listen"

// Transcriber sends the normalized WAV to Deepgram's prerecorded API
// and maps its utterances to transcript segments.
type Transcriber struct {
	apiKey string
	model  string
	client *http.Client
}

type response struct {
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
		Utterances []struct {
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
			Transcript string  `json:"transcript"`
		} `json:"utterances"`
	} `json:"results"`
}

func New(apiKey, model string) *Transcriber {
	return &Transcriber{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{},
	}
}

func (t *Transcriber) Transcribe(ctx context.Context, wavPath, language string) (*stt.Result, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	params := url.Values{}
	if t.model != "" {
		params.Set("model", t.model)
	}
	params.Set("punctuate", "true")
	params.Set("utterances", "true")
	params.Set("smart_format", "true")
	if language != "" {
		params.Set("language", language)
	} else {
		params.Set("detect_language", "true")
	}

	fullURL := listenURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, f)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+t.apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Deepgram API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn().
			Int("status_code", resp.StatusCode).
			Str("response_body", string(body)).
			Msg("Deepgram API error response")
		return nil, fmt.Errorf("Deepgram API error %d: %s", resp.StatusCode, string(body))
	}

	var result response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	segments := make([]stt.Segment, 0, len(result.Results.Utterances))
	var parts []string
	for _, u := range result.Results.Utterances {
		text := strings.TrimSpace(u.Transcript)
		if text == "" {
			continue
		}
		segments = append(segments, stt.Segment{Start: u.Start, End: u.End, Text: text})
		parts = append(parts, text)
	}

	lang := language
	if len(result.Results.Channels) > 0 && result.Results.Channels[0].DetectedLanguage != "" {
		lang = result.Results.Channels[0].DetectedLanguage
	}

	log.Debug().
		Int("segments", len(segments)).
		Str("model", t.model).
		Str("language", lang).
		Msg("Deepgram transcription completed")

	return &stt.Result{
		Language: lang,
		Text:     strings.Join(parts, " "),
		Segments: segments,
	}, nil
}

func (t *Transcriber) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}
