package diarize

import (
	"github.com/user/stt-diarizer/internal/vad"
)

// Sampler slices speech intervals into fixed-length sub-windows for
// embedding. Windows never cross interval boundaries, so silence gaps
// are never embedded.
type Sampler struct {
	// Step is the window length in seconds.
	Step float64
	// MinWindow is the shortest clip worth embedding, in seconds.
	// Anything shorter is dropped as unreliable.
	MinWindow float64
}

// Sample walks each interval in step-sized hops and cuts the matching
// clip out of pcm. The final window of an interval shares the interval's
// end; if that leaves it under MinWindow it is skipped.
func (s *Sampler) Sample(pcm []int16, sampleRate int, intervals []vad.Interval) []Window {
	var windows []Window
	minSamples := int(s.MinWindow * float64(sampleRate))

	for _, iv := range intervals {
		for t := iv.Start; t < iv.End; t += s.Step {
			end := min(iv.End, t+s.Step)
			lo := int(t * float64(sampleRate))
			hi := int(end * float64(sampleRate))
			if hi > len(pcm) {
				hi = len(pcm)
			}
			if hi-lo < minSamples {
				continue
			}
			windows = append(windows, Window{Start: t, End: end, Clip: pcm[lo:hi]})
		}
	}
	return windows
}
