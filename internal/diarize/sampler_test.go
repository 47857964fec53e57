package diarize

import (
	"math"
	"testing"

	"github.com/user/stt-diarizer/internal/vad"
)

const testRate = 16000

func TestSampleFixedWindows(t *testing.T) {
	s := &Sampler{Step: 0.5, MinWindow: 0.3}
	pcm := make([]int16, 2*testRate)

	windows := s.Sample(pcm, testRate, []vad.Interval{{Start: 0, End: 2}})
	if len(windows) != 4 {
		t.Fatalf("got %d windows, want 4", len(windows))
	}
	for i, w := range windows {
		wantStart := float64(i) * 0.5
		if !almostEqual(w.Start, wantStart) || !almostEqual(w.End, wantStart+0.5) {
			t.Errorf("window %d: got [%v, %v], want [%v, %v]", i, w.Start, w.End, wantStart, wantStart+0.5)
		}
		if len(w.Clip) != testRate/2 {
			t.Errorf("window %d clip has %d samples, want %d", i, len(w.Clip), testRate/2)
		}
	}
}

func TestSampleDropsShortFinalWindow(t *testing.T) {
	s := &Sampler{Step: 0.5, MinWindow: 0.3}
	pcm := make([]int16, 2*testRate)

	// 1.2s interval: two full windows plus a 0.2s tail, which is dropped
	windows := s.Sample(pcm, testRate, []vad.Interval{{Start: 0, End: 1.2}})
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
}

func TestSampleKeepsPartialAboveMinimum(t *testing.T) {
	s := &Sampler{Step: 0.5, MinWindow: 0.3}
	pcm := make([]int16, 2*testRate)

	// 0.9s interval: one full window and a 0.4s tail sharing the interval end
	windows := s.Sample(pcm, testRate, []vad.Interval{{Start: 0, End: 0.9}})
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if !almostEqual(windows[1].End, 0.9) {
		t.Errorf("final window ends at %v, want 0.9", windows[1].End)
	}
}

func TestSampleDropsIntervalBelowMinimum(t *testing.T) {
	s := &Sampler{Step: 0.5, MinWindow: 0.3}
	pcm := make([]int16, testRate)

	windows := s.Sample(pcm, testRate, []vad.Interval{{Start: 0, End: 0.2}})
	if len(windows) != 0 {
		t.Fatalf("got %d windows, want 0", len(windows))
	}
}

func TestSampleNeverCrossesIntervals(t *testing.T) {
	s := &Sampler{Step: 0.5, MinWindow: 0.3}
	pcm := make([]int16, 4*testRate)

	intervals := []vad.Interval{{Start: 0, End: 1}, {Start: 2.5, End: 3.5}}
	for _, w := range s.Sample(pcm, testRate, intervals) {
		inside := false
		for _, iv := range intervals {
			if w.Start >= iv.Start-1e-9 && w.End <= iv.End+1e-9 {
				inside = true
				break
			}
		}
		if !inside {
			t.Errorf("window [%v, %v] crosses interval boundaries", w.Start, w.End)
		}
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
