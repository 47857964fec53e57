package diarize

import "errors"

// ErrClustering marks an invariant violation in cluster-count derivation
// (k < 1 after clamping, or inconsistent embedding dimensions). Given the
// clamping policy in the clusterer it should never fire on user input;
// when it does, the configuration is broken, not the audio.
var ErrClustering = errors.New("diarize: clustering invariant violated")

// Window is one fixed-length slice of a speech interval, sampled for
// embedding. Windows exist only between sampling and turn assignment.
type Window struct {
	Start float64
	End   float64
	Clip  []int16
}

// Assignment pairs a window's bounds with its cluster label. Labels are
// raw indices in [0, k); they become stable SPEAKER_NN names only after
// merging, and only within a single diarization run.
type Assignment struct {
	Start float64
	End   float64
	Label int
}

// Turn is a merged span of audio attributed to one named speaker.
// Immutable once emitted.
type Turn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}
