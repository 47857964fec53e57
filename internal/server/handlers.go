package server

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/user/stt-diarizer/internal/audio"
	"github.com/user/stt-diarizer/internal/config"
	"github.com/user/stt-diarizer/internal/media"
	"github.com/user/stt-diarizer/internal/pipeline"
	"github.com/user/stt-diarizer/internal/store"
	"github.com/user/stt-diarizer/internal/summary"
)

type transcribeRequest struct {
	AudioURL         string `json:"audio_url"`
	Language         string `json:"language"`
	ExpectedSpeakers int    `json:"expected_speakers"`
}

type transcribeResponse struct {
	JobID string `json:"job_id"`
	*pipeline.Result
}

type transcribeHandler struct {
	pipeline *pipeline.Pipeline
	fetcher  *media.Fetcher
	store    *store.Store
	cfg      *config.Config
}

// TranscribeURL downloads remote media, runs the pipeline and returns
// the speaker-tagged transcript synchronously.
func (h *transcribeHandler) TranscribeURL(c *fiber.Ctx) error {
	var req transcribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.AudioURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "audio_url is required"})
	}

	inPath, err := h.fetcher.Download(c.Context(), req.AudioURL)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("audio fetch failed: %v", err)})
	}
	defer media.Cleanup(inPath)

	return h.run(c, inPath, "url", "remote", req.Language, req.ExpectedSpeakers)
}

// Upload accepts a multipart media file and runs the same pipeline.
func (h *transcribeHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no file uploaded"})
	}
	if !media.SupportedFormat(file.Filename) {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": "unsupported media format"})
	}

	name := c.FormValue("name")
	if name == "" {
		name = file.Filename
	}
	language := c.FormValue("language")
	expected := 0
	if v := c.FormValue("expected_speakers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expected_speakers must be an integer"})
		}
		expected = n
	}

	inPath := filepath.Join(h.cfg.TmpDir, fmt.Sprintf("upload_%s%s", uuid.New().String(), filepath.Ext(file.Filename)))
	if err := c.SaveFile(file, inPath); err != nil {
		log.Error().Err(err).Msg("Failed to save uploaded file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}
	defer media.Cleanup(inPath)

	return h.run(c, inPath, name, "upload", language, expected)
}

// run is the shared tail of both ingestion paths: normalize, process,
// persist, respond.
func (h *transcribeHandler) run(c *fiber.Ctx, inPath, name, source, language string, expectedSpeakers int) error {
	wavPath, err := h.fetcher.Normalize(c.Context(), inPath)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": fmt.Sprintf("convert failed: %v", err)})
	}
	defer media.Cleanup(wavPath)

	result, err := h.pipeline.Process(c.Context(), wavPath, language, expectedSpeakers)
	if err != nil {
		if errors.Is(err, audio.ErrInvalidFormat) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().Err(err).Str("source", source).Msg("Pipeline run failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	jobID := uuid.New().String()
	if _, err := h.store.Save(jobID, name, source, result); err != nil {
		// The transcript still exists in memory; persisting is best-effort.
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to persist transcript")
	}

	return c.JSON(transcribeResponse{JobID: jobID, Result: result})
}

// List returns recent transcript metadata.
func (h *transcribeHandler) List(c *fiber.Ctx) error {
	records, err := h.store.List(c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}

// Get returns a stored transcript payload.
func (h *transcribeHandler) Get(c *fiber.Ctx) error {
	result, err := h.store.Load(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "transcript not found"})
	}
	return c.JSON(result)
}

type summaryHandler struct {
	store      *store.Store
	summariser *summary.GeminiSummariser
}

func (h *summaryHandler) Summarise(c *fiber.Ctx) error {
	result, err := h.store.Load(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "transcript not found"})
	}

	notes, err := h.summariser.Summarise(c.Context(), result.Segments)
	if err != nil {
		log.Error().Err(err).Str("job_id", c.Params("id")).Msg("Summary generation failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "summary generation failed"})
	}

	return c.JSON(fiber.Map{"summary": notes})
}
