// Package align reconciles two independently-timed segmentations: the
// transcript segments produced by the speech-to-text collaborator and
// the speaker turns produced by diarization. It only annotates
// transcript segments, never re-times, merges, or splits them.
package align

import (
	"sort"

	"github.com/user/stt-diarizer/internal/diarize"
	"github.com/user/stt-diarizer/internal/stt"
)

// FallbackSpeaker is assigned when no turn overlaps a segment at all,
// including the degenerate case of zero turns. Never surfaced as an
// error; a transcript with no diarization evidence is still a transcript.
const FallbackSpeaker = "SPEAKER_00"

// AssignSpeakers labels each transcript segment with the speaker whose
// turn shares the most time with it. Exact ties resolve to the first
// turn encountered in iteration order, which keeps assignment stable.
func AssignSpeakers(segments []stt.Segment, turns []diarize.Turn) []stt.Segment {
	out := make([]stt.Segment, len(segments))
	for i, seg := range segments {
		out[i] = seg
		out[i].Speaker = bestSpeaker(seg, turns)
	}
	return out
}

func bestSpeaker(seg stt.Segment, turns []diarize.Turn) string {
	best := ""
	bestOverlap := 0.0
	for _, t := range turns {
		if ol := overlap(seg.Start, seg.End, t.Start, t.End); ol > bestOverlap {
			bestOverlap = ol
			best = t.Speaker
		}
	}
	if best == "" {
		return FallbackSpeaker
	}
	return best
}

func overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	if hi < lo {
		return 0
	}
	return hi - lo
}

// DistinctSpeakers returns the sorted set of speaker names across turns,
// used as the response-level roster. An empty turn list yields the
// fallback roster so the response never advertises zero speakers.
func DistinctSpeakers(turns []diarize.Turn) []string {
	if len(turns) == 0 {
		return []string{FallbackSpeaker}
	}

	seen := make(map[string]struct{}, len(turns))
	for _, t := range turns {
		seen[t.Speaker] = struct{}{}
	}

	speakers := make([]string, 0, len(seen))
	for s := range seen {
		speakers = append(speakers, s)
	}
	sort.Strings(speakers)
	return speakers
}
