package vad

import (
	"math"

	"github.com/maxhawkins/go-webrtcvad"

	"github.com/user/stt-diarizer/internal/audio"
)

// FrameClassifier decides whether a single audio frame contains speech.
type FrameClassifier interface {
	IsSpeech(frame []int16, sampleRate int) bool
	Close() error
}

// WebRTCClassifier wraps the WebRTC VAD. Frames too short for the
// detector, or frames it rejects, fall back to an RMS energy gate so a
// bad frame never aborts segmentation.
type WebRTCClassifier struct {
	vad          *webrtcvad.VAD
	rmsThreshold float64
}

// NewWebRTCClassifier creates a classifier with the given aggressiveness
// mode (0-3, where 3 filters the most non-speech).
func NewWebRTCClassifier(mode int) (*WebRTCClassifier, error) {
	v, err := webrtcvad.New()
	if err != nil {
		return nil, err
	}
	if err := v.SetMode(mode); err != nil {
		v.Close()
		return nil, err
	}

	return &WebRTCClassifier{
		vad:          v,
		rmsThreshold: 500.0,
	}, nil
}

func (c *WebRTCClassifier) IsSpeech(frame []int16, sampleRate int) bool {
	raw := audio.Int16ToBytes(frame)

	// WebRTC VAD needs at least a 10ms frame
	if len(raw) < sampleRate/100*2 {
		return c.rmsIsSpeech(frame)
	}

	ok, err := c.vad.Process(sampleRate, raw)
	if err != nil {
		return c.rmsIsSpeech(frame)
	}
	return ok
}

func (c *WebRTCClassifier) rmsIsSpeech(frame []int16) bool {
	if len(frame) == 0 {
		return false
	}

	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum/float64(len(frame))) > c.rmsThreshold
}

func (c *WebRTCClassifier) Close() error {
	if c.vad != nil {
		c.vad.Close()
	}
	return nil
}
