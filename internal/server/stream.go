package server

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/user/stt-diarizer/internal/audio"
	"github.com/user/stt-diarizer/internal/media"
	"github.com/user/stt-diarizer/internal/pipeline"
)

// flushSeconds is how much buffered audio triggers a transcription
// flush. The stream path is a crude fixed-size buffer: each flush is an
// independent transcription-only run, with no diarization carried
// across flushes.
const flushSeconds = 5

type streamHandler struct {
	pipeline *pipeline.Pipeline
	tmpDir   string
	format   audio.Format
}

type partialResult struct {
	Partial  bool             `json:"partial"`
	Text     string           `json:"text"`
	Segments []partialSegment `json:"segments"`
}

type partialSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Handle accumulates raw s16le 16 kHz mono PCM from the socket and
// transcribes each full buffer, sending partial results back as JSON.
func (h *streamHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	connID := uuid.New().String()
	flushSamples := h.format.SampleRate * flushSeconds
	var buffer []int16

	log.Info().Str("conn_id", connID).Msg("Stream connection established")

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("conn_id", connID).Msg("Stream connection closed")
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		buffer = append(buffer, audio.BytesToInt16(message)...)
		if len(buffer) < flushSamples {
			continue
		}

		if err := h.flush(c, connID, buffer); err != nil {
			log.Error().Err(err).Str("conn_id", connID).Msg("Stream flush failed")
			_ = c.WriteJSON(fiberMapError(err))
		}
		buffer = buffer[:0]
	}
}

func (h *streamHandler) flush(c *websocket.Conn, connID string, buffer []int16) error {
	wavPath := filepath.Join(h.tmpDir, fmt.Sprintf("live_%s.wav", connID))
	if err := audio.WriteWAV(wavPath, buffer, h.format); err != nil {
		return err
	}
	defer media.Cleanup(wavPath)

	result, err := h.pipeline.Transcribe(context.Background(), wavPath, "")
	if err != nil {
		return err
	}

	out := partialResult{Partial: true, Text: result.Text}
	for _, seg := range result.Segments {
		out.Segments = append(out.Segments, partialSegment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return c.WriteJSON(out)
}

func fiberMapError(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
