package diarize

import "math"

// Merger collapses consecutive same-label windows into turns. Two
// windows join when their labels match and the gap between them stays
// under MaxGap seconds; merged turns may still be separated by silence,
// the output never needs to cover the full timeline.
type Merger struct {
	MaxGap float64
}

// Merge scans assignments in time order, extending a running turn while
// the label holds and the gap is small, flushing it otherwise. The final
// running turn is always flushed.
func (m *Merger) Merge(assignments []Assignment) []Assignment {
	if len(assignments) == 0 {
		return nil
	}

	var turns []Assignment
	cur := assignments[0]

	for _, a := range assignments[1:] {
		if a.Label == cur.Label && math.Abs(a.Start-cur.End) < m.MaxGap {
			cur.End = a.End
			continue
		}
		turns = append(turns, cur)
		cur = a
	}
	return append(turns, cur)
}
