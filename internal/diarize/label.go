package diarize

import (
	"fmt"
	"sort"
)

// NameSpeakers rewrites raw cluster labels as human-readable speaker
// names. Distinct labels are sorted ascending and named SPEAKER_00,
// SPEAKER_01, ... in that order, so naming is deterministic for a run
// but carries no meaning across runs.
func NameSpeakers(turns []Assignment) []Turn {
	seen := make(map[int]struct{}, len(turns))
	for _, t := range turns {
		seen[t.Label] = struct{}{}
	}

	labels := make([]int, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Ints(labels)

	names := make(map[int]string, len(labels))
	for i, l := range labels {
		names[l] = fmt.Sprintf("SPEAKER_%02d", i)
	}

	named := make([]Turn, len(turns))
	for i, t := range turns {
		named[i] = Turn{Start: t.Start, End: t.End, Speaker: names[t.Label]}
	}
	return named
}
