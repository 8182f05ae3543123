package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/docqa/internal/core/ports"
)

const maxResearchQueries = 3

// ResearchPlanner decomposes a question into search-engine-style sub-queries
// when local evidence is insufficient. The workflow must always have at least
// one query to search, so planner failure degrades to the question itself.
type ResearchPlanner struct {
	generator ports.Generator
}

func NewResearchPlanner(generator ports.Generator) *ResearchPlanner {
	return &ResearchPlanner{generator: generator}
}

func (p *ResearchPlanner) Plan(ctx context.Context, question string) []string {
	raw, err := p.generator.Generate(ctx, researchPlanSystemPrompt, buildResearchPlanPrompt(question))
	if err != nil {
		slog.Warn("research_planning_failed", "error", err)
		return []string{question}
	}

	queries := parsePlannedQueries(raw)
	if len(queries) == 0 {
		return []string{question}
	}
	return queries
}

func parsePlannedQueries(raw string) []string {
	lines := strings.Split(raw, "\n")
	queries := make([]string, 0, maxResearchQueries)
	for _, line := range lines {
		query := stripListMarker(line)
		if query == "" {
			continue
		}
		queries = append(queries, query)
		if len(queries) == maxResearchQueries {
			break
		}
	}
	return queries
}

// stripListMarker removes leading bullets or numbering the model may emit
// despite the instruction not to.
func stripListMarker(line string) string {
	out := strings.TrimSpace(line)
	out = strings.TrimLeft(out, "-*• ")
	for i, r := range out {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '.' || r == ')' {
			out = out[i+1:]
		}
		break
	}
	return strings.TrimSpace(out)
}

// ResearchSynthesizer composes a cited answer from raw web-search snippets.
// It never returns an error: on generator failure the caller still gets an
// explanatory string to show the user.
type ResearchSynthesizer struct {
	generator ports.Generator
}

func NewResearchSynthesizer(generator ports.Generator) *ResearchSynthesizer {
	return &ResearchSynthesizer{generator: generator}
}

func (s *ResearchSynthesizer) Synthesize(ctx context.Context, question, webContext string) string {
	answer, err := s.generator.Generate(ctx, researchSynthesisSystemPrompt, buildResearchSynthesisPrompt(question, webContext))
	if err != nil {
		slog.Warn("research_synthesis_failed", "error", err)
		return fmt.Sprintf("Error synthesizing research: %v", err)
	}
	return answer
}
