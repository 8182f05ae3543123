package usecase

import (
	"context"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
)

func generateAnswer(ctx context.Context, generator ports.Generator, question string, evidence []domain.EvidenceChunk) (string, error) {
	return generator.Generate(ctx, answerSystemPrompt, buildAnswerPrompt(question, evidence))
}

// extractSources deduplicates evidence provenance by (label, locator),
// preserving retrieval order.
func extractSources(evidence []domain.EvidenceChunk) []domain.SourceRef {
	type sourceKey struct {
		label   string
		locator string
	}

	seen := make(map[sourceKey]struct{}, len(evidence))
	out := make([]domain.SourceRef, 0, len(evidence))
	for _, chunk := range evidence {
		ref := chunk.Ref()
		key := sourceKey{label: ref.Label, locator: ref.Locator}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ref)
	}
	return out
}
