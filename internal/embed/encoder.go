package embed

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/user/stt-diarizer/internal/audio"
)

// Encoder maps a short audio clip to a fixed-length speaker-characteristic
// vector. Implementations must be deterministic for identical input and
// safe for concurrent use; the model behind it may hold internal state.
type Encoder interface {
	Embed(ctx context.Context, clip []int16, sampleRate int) ([]float64, error)
	Close() error
}

// HTTPEncoder calls a voice-encoder sidecar over HTTP. The sidecar wraps
// the actual embedding model; this process never loads it.
type HTTPEncoder struct {
	baseURL string
	client  *http.Client
}

type embedRequest struct {
	PCM        string `json:"pcm"` // base64 s16le
	SampleRate int    `json:"sample_rate"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

func NewHTTPEncoder(baseURL string) *HTTPEncoder {
	return &HTTPEncoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *HTTPEncoder) Embed(ctx context.Context, clip []int16, sampleRate int) ([]float64, error) {
	if len(clip) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{
		PCM:        base64.StdEncoding.EncodeToString(audio.Int16ToBytes(clip)),
		SampleRate: sampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		log.Warn().
			Int("status_code", resp.StatusCode).
			Str("response_body", string(b)).
			Msg("Voice encoder error response")
		return nil, fmt.Errorf("voice encoder error %d: %s", resp.StatusCode, string(b))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}
	return out.Embedding, nil
}

func (e *HTTPEncoder) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}
