// Package media handles getting source audio onto disk and into the
// fixed PCM contract. Container and codec work is delegated to ffmpeg;
// nothing else in the system touches compressed audio.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// supported upload/download extensions, mirroring what ffmpeg is asked
// to handle.
var supportedExtensions = []string{".mp4", ".mov", ".webm", ".wav", ".mp3", ".m4a", ".ogg", ".flac", ".aac"}

// SupportedFormat reports whether the filename's extension is one we
// accept for ingestion.
func SupportedFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range supportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Fetcher downloads remote media and normalizes local media into
// 16 kHz mono 16-bit WAV files under tmpDir.
type Fetcher struct {
	tmpDir string
	client *http.Client
}

func NewFetcher(tmpDir string) *Fetcher {
	return &Fetcher{
		tmpDir: tmpDir,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// Download streams the URL into a temp file and returns its path.
// The caller owns cleanup.
func (f *Fetcher) Download(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("audio fetch returned status %d", resp.StatusCode)
	}

	path := filepath.Join(f.tmpDir, fmt.Sprintf("in_%s", uuid.New().String()))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save downloaded audio: %w", err)
	}

	log.Debug().Str("path", path).Int64("bytes", n).Msg("Downloaded source media")
	return path, nil
}

// Normalize converts any media file into a 16 kHz mono 16-bit PCM WAV
// next to the input and returns the new path.
func (f *Fetcher) Normalize(ctx context.Context, inputPath string) (string, error) {
	outputPath := filepath.Join(f.tmpDir, fmt.Sprintf("normalized_%s.wav", uuid.New().String()))

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", inputPath,
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg convert failed: %w\noutput: %s", err, string(output))
	}

	return outputPath, nil
}

// Cleanup removes a temp file, logging rather than failing when it is
// already gone.
func Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("Failed to clean up temp file")
	}
}
