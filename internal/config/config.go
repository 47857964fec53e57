package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Server
	Host        string
	Port        int
	MaxUploadMB int

	// STT backend
	STTBackend     string // "whisper", "deepgram" or "vosk"
	WhisperModel   string
	DeepgramAPIKey string
	DeepgramModel  string
	VoskModelPath  string

	// Voice encoder sidecar
	EmbedServiceURL string

	// Gemini (optional summaries)
	GenAIAPIKey string
	GenAIModel  string

	// Audio contract
	SampleRate int
	VADFrameMS int
	VADMode    int

	// Diarization
	WindowStep  float64
	MinWindow   float64
	MergeGap    float64
	MaxSpeakers int
	ClusterSeed int64

	// Storage
	TmpDir    string
	OutputDir string
	DBPath    string

	// Cleanup
	CleanupInterval time.Duration
	CleanupMaxAge   time.Duration

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file found, using environment variables only")
	}

	cfg := &Config{
		Host:        getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
		Port:        getIntEnvOrDefault("SERVER_PORT", 8080),
		MaxUploadMB: getIntEnvOrDefault("MAX_UPLOAD_MB", 1024),

		STTBackend:     getEnvOrDefault("STT_BACKEND", "whisper"),
		WhisperModel:   getEnvOrDefault("WHISPER_MODEL", "medium"),
		DeepgramAPIKey: os.Getenv("DEEPGRAM_API_KEY"),
		DeepgramModel:  getEnvOrDefault("DEEPGRAM_MODEL", "nova-2"),
		VoskModelPath:  getEnvOrDefault("VOSK_MODEL_PATH", "./models/vosk/en"),

		EmbedServiceURL: getEnvOrDefault("EMBED_SERVICE_URL", "http://localhost:9002"),

		GenAIAPIKey: os.Getenv("GENAI_API_KEY"),
		GenAIModel:  getEnvOrDefault("GENAI_MODEL", "gemini-1.5-flash"),

		SampleRate: getIntEnvOrDefault("SAMPLE_RATE", 16000),
		VADFrameMS: getIntEnvOrDefault("VAD_FRAME_MS", 30),
		VADMode:    getIntEnvOrDefault("VAD_MODE", 2),

		WindowStep:  getFloatEnvOrDefault("DIAR_WINDOW_STEP", 0.5),
		MinWindow:   getFloatEnvOrDefault("DIAR_MIN_WINDOW", 0.3),
		MergeGap:    getFloatEnvOrDefault("DIAR_MERGE_GAP", 0.6),
		MaxSpeakers: getIntEnvOrDefault("DIAR_MAX_SPEAKERS", 8),
		ClusterSeed: int64(getIntEnvOrDefault("DIAR_SEED", 42)),

		// A dedicated subdirectory: the cleanup sweeper deletes aged
		// files under TmpDir, so it must never point at a shared dir.
		TmpDir:    getEnvOrDefault("TMP_DIR", filepath.Join(os.TempDir(), "stt-diarizer")),
		OutputDir: getEnvOrDefault("OUTPUT_DIR", "./output"),
		DBPath:    getEnvOrDefault("DB_PATH", "./transcripts.db"),

		CleanupInterval: time.Duration(getIntEnvOrDefault("CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute,
		CleanupMaxAge:   time.Duration(getIntEnvOrDefault("CLEANUP_MAX_AGE_HOURS", 6)) * time.Hour,

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.STTBackend {
	case "whisper", "vosk":
	case "deepgram":
		if c.DeepgramAPIKey == "" {
			return fmt.Errorf("DEEPGRAM_API_KEY is required when using deepgram backend")
		}
	default:
		return fmt.Errorf("STT_BACKEND must be 'whisper', 'deepgram' or 'vosk'")
	}

	if c.EmbedServiceURL == "" {
		return fmt.Errorf("EMBED_SERVICE_URL is required")
	}

	if c.SampleRate != 16000 {
		return fmt.Errorf("SAMPLE_RATE must be 16000, the pipeline's fixed PCM contract")
	}

	if c.VADMode < 0 || c.VADMode > 3 {
		return fmt.Errorf("VAD_MODE must be between 0 and 3")
	}

	if c.MaxSpeakers < 1 {
		return fmt.Errorf("DIAR_MAX_SPEAKERS must be at least 1")
	}

	if c.WindowStep <= 0 {
		return fmt.Errorf("DIAR_WINDOW_STEP must be positive")
	}

	if c.MinWindow > c.WindowStep {
		return fmt.Errorf("DIAR_MIN_WINDOW must not exceed DIAR_WINDOW_STEP")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
