// Package summary generates meeting-notes style summaries of
// speaker-tagged transcripts via Gemini. Entirely optional; the service
// runs without it when no API key is configured.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/user/stt-diarizer/internal/stt"
)

type GeminiSummariser struct {
	client *genai.Client
	model  string
}

func NewGeminiSummariser(ctx context.Context, apiKey, model string) (*GeminiSummariser, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSummariser{
		client: client,
		model:  model,
	}, nil
}

func (g *GeminiSummariser) Summarise(ctx context.Context, segments []stt.Segment) (string, error) {
	if len(segments) == 0 {
		return "# Notes\n\nNo transcript available.", nil
	}

	prompt := buildPrompt(buildTranscript(segments))

	genModel := g.client.GenerativeModel(g.model)
	resp, err := genModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no summary generated")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}

	log.Info().
		Int("segments", len(segments)).
		Int("summary_length", out.Len()).
		Msg("Generated transcript summary")

	return out.String(), nil
}

func buildTranscript(segments []stt.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = "Unknown"
		}
		fmt.Fprintf(&b, "[%.1fs] %s: %s\n", seg.Start, speaker, seg.Text)
	}
	return b.String()
}

func buildPrompt(transcript string) string {
	return fmt.Sprintf(`You are a meeting notetaker. Given a diarized transcript with timestamps, produce:

1) **Summary** - bullet point summary (max 12 bullets)
2) **Decisions** - key decisions made
3) **Action Items** - tasks with assignee if mentioned
4) **Open Questions** - unresolved questions or topics

Format the output as clean Markdown. Be concise but comprehensive.

**TRANSCRIPT:**
%s

**NOTES:**`, transcript)
}

func (g *GeminiSummariser) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
