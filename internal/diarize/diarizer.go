package diarize

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/user/stt-diarizer/internal/embed"
	"github.com/user/stt-diarizer/internal/vad"
)

// Diarizer runs the full window→embedding→cluster→merge→name chain for
// one audio buffer. It holds only read-only configuration and injected
// providers, so concurrent runs are safe as long as the encoder is.
type Diarizer struct {
	sampler   *Sampler
	encoder   embed.Encoder
	clusterer *Clusterer
	merger    *Merger
}

func NewDiarizer(sampler *Sampler, encoder embed.Encoder, clusterer *Clusterer, merger *Merger) *Diarizer {
	return &Diarizer{
		sampler:   sampler,
		encoder:   encoder,
		clusterer: clusterer,
		merger:    merger,
	}
}

// Diarize attributes speech intervals to anonymous speakers.
// expectedSpeakers <= 0 means "unknown, discover up to the configured
// maximum". Windows whose embedding comes back empty are skipped
// silently; encoder transport failures abort the run, since a partial
// diarization is not meaningful.
func (d *Diarizer) Diarize(ctx context.Context, pcm []int16, sampleRate int, intervals []vad.Interval, expectedSpeakers int) ([]Turn, error) {
	windows := d.sampler.Sample(pcm, sampleRate, intervals)

	var (
		embeddings [][]float64
		kept       []Window
	)
	for _, w := range windows {
		if len(w.Clip) == 0 {
			continue
		}
		vec, err := d.encoder.Embed(ctx, w.Clip, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("failed to embed window [%.2f, %.2f]: %w", w.Start, w.End, err)
		}
		if len(vec) == 0 {
			// Degenerate clip, not an error; just thinner evidence.
			continue
		}
		embeddings = append(embeddings, vec)
		kept = append(kept, w)
	}

	if len(embeddings) == 0 {
		log.Debug().Int("windows", len(windows)).Msg("No usable embedding windows, no turns")
		return nil, nil
	}

	labels, err := d.clusterer.Assign(embeddings, expectedSpeakers)
	if err != nil {
		return nil, err
	}

	assignments := make([]Assignment, len(kept))
	for i, w := range kept {
		assignments[i] = Assignment{Start: w.Start, End: w.End, Label: labels[i]}
	}

	turns := NameSpeakers(d.merger.Merge(assignments))

	log.Debug().
		Int("windows", len(windows)).
		Int("embedded", len(kept)).
		Int("turns", len(turns)).
		Msg("Diarization completed")

	return turns, nil
}
