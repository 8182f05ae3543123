package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
)

// GroundednessVerifier judges whether a generated answer is supported by the
// evidence it was generated from. A lexical refusal detector runs before the
// judge call: an answer that is itself a refusal is classified hallucinated
// so the controller escalates to web research instead of surfacing
// "I don't know". On judge failure the verifier fails open to grounded.
type GroundednessVerifier struct {
	judge          ports.Judge
	refusalPhrases []string
}

func NewGroundednessVerifier(judge ports.Judge, refusalPhrases []string) *GroundednessVerifier {
	if len(refusalPhrases) == 0 {
		refusalPhrases = domain.DefaultRefusalPhrases
	}
	return &GroundednessVerifier{
		judge:          judge,
		refusalPhrases: refusalPhrases,
	}
}

func (v *GroundednessVerifier) Verify(ctx context.Context, answer string, evidence []domain.EvidenceChunk) domain.Groundedness {
	// Nothing to contradict. Also avoids false hallucination flags when the
	// evidence legitimately came from elsewhere, e.g. web synthesis.
	if len(evidence) == 0 {
		return domain.GroundednessGrounded
	}

	if v.isRefusal(answer) {
		return domain.GroundednessHallucinated
	}

	contents := make([]string, 0, len(evidence))
	for _, chunk := range evidence {
		contents = append(contents, chunk.Content)
	}

	verdict, err := v.judge.Judge(ctx, groundednessSystemPrompt, buildGroundednessPrompt(answer, strings.Join(contents, "\n\n")))
	if err != nil {
		slog.Warn("groundedness_check_failed", "error", err)
		return domain.GroundednessGrounded
	}

	if strings.Contains(strings.ToLower(verdict), "yes") {
		return domain.GroundednessGrounded
	}
	return domain.GroundednessHallucinated
}

func (v *GroundednessVerifier) isRefusal(answer string) bool {
	lowered := strings.ToLower(answer)
	for _, phrase := range v.refusalPhrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
