// Package server exposes the pipeline over HTTP and WebSocket. It owns
// request/response shapes and temp-file lifecycle; everything
// interesting happens in the packages it calls.
package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/user/stt-diarizer/internal/audio"
	"github.com/user/stt-diarizer/internal/config"
	"github.com/user/stt-diarizer/internal/media"
	"github.com/user/stt-diarizer/internal/pipeline"
	"github.com/user/stt-diarizer/internal/store"
	"github.com/user/stt-diarizer/internal/summary"
)

type Server struct {
	app *fiber.App
	cfg *config.Config
}

func New(cfg *config.Config, pl *pipeline.Pipeline, fetcher *media.Fetcher, st *store.Store, summariser *summary.GeminiSummariser, format audio.Format) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.MaxUploadMB * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	th := &transcribeHandler{
		pipeline: pl,
		fetcher:  fetcher,
		store:    st,
		cfg:      cfg,
	}
	sh := &streamHandler{
		pipeline: pl,
		tmpDir:   cfg.TmpDir,
		format:   format,
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"backend": cfg.STTBackend,
		})
	})

	app.Post("/v1/stt/transcribe", th.TranscribeURL)
	app.Post("/v1/stt/upload", th.Upload)
	app.Get("/ws/stt/stream", websocket.New(sh.Handle))

	app.Get("/transcripts", th.List)
	app.Get("/transcripts/:id", th.Get)

	if summariser != nil {
		nh := &summaryHandler{store: st, summariser: summariser}
		app.Post("/transcripts/:id/summary", nh.Summarise)
	}

	return &Server{app: app, cfg: cfg}
}

func (s *Server) Listen() error {
	return s.app.Listen(fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
