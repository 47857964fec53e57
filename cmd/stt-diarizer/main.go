package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/user/stt-diarizer/internal/audio"
	"github.com/user/stt-diarizer/internal/cleanup"
	"github.com/user/stt-diarizer/internal/config"
	"github.com/user/stt-diarizer/internal/diarize"
	"github.com/user/stt-diarizer/internal/embed"
	"github.com/user/stt-diarizer/internal/media"
	"github.com/user/stt-diarizer/internal/pipeline"
	"github.com/user/stt-diarizer/internal/server"
	"github.com/user/stt-diarizer/internal/store"
	"github.com/user/stt-diarizer/internal/stt"
	"github.com/user/stt-diarizer/internal/stt/deepgram"
	"github.com/user/stt-diarizer/internal/stt/vosk"
	"github.com/user/stt-diarizer/internal/stt/whisper"
	"github.com/user/stt-diarizer/internal/summary"
	"github.com/user/stt-diarizer/internal/vad"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg.LogLevel)
	log.Info().Str("backend", cfg.STTBackend).Msg("Starting STT diarization service")

	format := audio.Format{SampleRate: cfg.SampleRate, Channels: 1, BitDepth: 16}

	if err := os.MkdirAll(cfg.TmpDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create temp directory")
	}

	transcriber, err := newTranscriber(cfg, format)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize transcription backend")
	}
	defer transcriber.Close()

	classifier, err := vad.NewWebRTCClassifier(cfg.VADMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize VAD")
	}
	defer classifier.Close()

	encoder := embed.NewHTTPEncoder(cfg.EmbedServiceURL)
	defer encoder.Close()

	segmenter := vad.NewSegmenter(classifier, format, time.Duration(cfg.VADFrameMS)*time.Millisecond)
	diarizer := diarize.NewDiarizer(
		&diarize.Sampler{Step: cfg.WindowStep, MinWindow: cfg.MinWindow},
		encoder,
		diarize.NewClusterer(diarize.NewKMeans(cfg.ClusterSeed), cfg.MaxSpeakers),
		&diarize.Merger{MaxGap: cfg.MergeGap},
	)
	pl := pipeline.New(format, transcriber, segmenter, diarizer)

	st, err := store.New(cfg.DBPath, cfg.OutputDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize transcript store")
	}
	defer st.Close()

	var summariser *summary.GeminiSummariser
	if cfg.GenAIAPIKey != "" {
		summariser, err = summary.NewGeminiSummariser(context.Background(), cfg.GenAIAPIKey, cfg.GenAIModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize summariser")
		}
		defer summariser.Close()
	} else {
		log.Info().Msg("GENAI_API_KEY not set, summaries disabled")
	}

	sweeper := cleanup.NewScheduler(cfg.TmpDir, cfg.CleanupInterval, cfg.CleanupMaxAge)
	sweeper.Start()
	defer sweeper.Stop()

	srv := server.New(cfg, pl, media.NewFetcher(cfg.TmpDir), st, summariser, format)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info().Msg("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Error during shutdown")
		}
	}()

	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("Server listening")
	if err := srv.Listen(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func newTranscriber(cfg *config.Config, format audio.Format) (stt.Transcriber, error) {
	switch cfg.STTBackend {
	case "deepgram":
		return deepgram.New(cfg.DeepgramAPIKey, cfg.DeepgramModel), nil
	case "vosk":
		return vosk.New(cfg.VoskModelPath, format)
	default:
		return whisper.New(cfg.WhisperModel), nil
	}
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
