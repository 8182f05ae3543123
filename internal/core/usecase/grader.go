package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
)

const (
	gradePreviewChunks = 3
	gradePreviewChars  = 500
)

// EvidenceGrader makes a binary relevance judgment over a small preview of
// the retrieved evidence. It fails open: only an explicit negative judgment
// yields irrelevant, so a flaky judge never blocks a potentially valid answer.
type EvidenceGrader struct {
	judge ports.Judge
}

func NewEvidenceGrader(judge ports.Judge) *EvidenceGrader {
	return &EvidenceGrader{judge: judge}
}

func (g *EvidenceGrader) Grade(ctx context.Context, question string, evidence []domain.EvidenceChunk) domain.Grade {
	if len(evidence) == 0 {
		return domain.GradeIrrelevant
	}

	verdict, err := g.judge.Judge(ctx, relevanceSystemPrompt, buildRelevancePrompt(question, previewEvidence(evidence)))
	if err != nil {
		slog.Warn("relevance_grading_failed", "error", err)
		return domain.GradeRelevant
	}

	if strings.Contains(strings.ToLower(verdict), "yes") {
		return domain.GradeRelevant
	}
	if strings.Contains(strings.ToLower(verdict), "no") {
		return domain.GradeIrrelevant
	}
	// Ambiguous judge output counts as relevant.
	return domain.GradeRelevant
}

func previewEvidence(evidence []domain.EvidenceChunk) string {
	n := len(evidence)
	if n > gradePreviewChunks {
		n = gradePreviewChunks
	}

	parts := make([]string, 0, n)
	for _, chunk := range evidence[:n] {
		content := chunk.Content
		if len(content) > gradePreviewChars {
			content = content[:gradePreviewChars]
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n\n")
}
