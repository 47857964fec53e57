package audio

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFormat is returned when input audio does not match the fixed
// PCM contract (16 kHz, mono, 16-bit). Nothing downstream of ingest ever
// sees audio in another format.
var ErrInvalidFormat = errors.New("audio: invalid format")

// Format describes PCM audio. The whole pipeline runs on one fixed
// format, set once at process start.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat is the system-wide PCM contract.
var DefaultFormat = Format{SampleRate: 16000, Channels: 1, BitDepth: 16}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit", f.SampleRate, f.Channels, f.BitDepth)
}

// Validate checks f against the expected format.
func (f Format) Validate(want Format) error {
	if f != want {
		return fmt.Errorf("%w: got %s, want %s", ErrInvalidFormat, f, want)
	}
	return nil
}

// SamplesFor returns the number of samples covering d at f's sample rate.
func (f Format) SamplesFor(d time.Duration) int {
	return int(d * time.Duration(f.SampleRate) / time.Second)
}

// Duration returns the play time of n samples at f's sample rate, in seconds.
func (f Format) Duration(n int) float64 {
	return float64(n) / float64(f.SampleRate)
}
