package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
)

// WorkflowStep identifies a state of the question-answering state machine.
type WorkflowStep string

const (
	StepRetrieve           WorkflowStep = "retrieve"
	StepGradeDocuments     WorkflowStep = "grade_documents"
	StepTransformQuery     WorkflowStep = "transform_query"
	StepGenerate           WorkflowStep = "generate"
	StepCheckHallucination WorkflowStep = "check_hallucination"
	StepPlanResearch       WorkflowStep = "plan_research"
	StepWebSearch          WorkflowStep = "web_search"
	StepSynthesizeResearch WorkflowStep = "synthesize_research"
	StepEnd                WorkflowStep = "end"
)

// broadenQuerySuffix is the deterministic query transformation applied when
// retrieval comes back empty and a retry is still allowed.
const broadenQuerySuffix = " overview details"

// maxWorkflowSteps caps the state machine loop. The transition table is
// bounded by construction (retry and fallback limits), so the cap only
// matters if a future edit breaks that.
const maxWorkflowSteps = 16

// AgentController sequences retrieval, grading, generation, verification and
// web research into a bounded workflow:
//
//	Retrieve -> GradeDocuments -> {Generate | TransformQuery | PlanResearch}
//	Generate -> CheckHallucination -> {End | PlanResearch}
//	PlanResearch -> WebSearch -> SynthesizeResearch -> End
//
// All collaborators are injected at construction; the controller keeps no
// state between questions.
type AgentController struct {
	retriever   *HybridRetriever
	grader      *EvidenceGrader
	verifier    *GroundednessVerifier
	planner     *ResearchPlanner
	synthesizer *ResearchSynthesizer
	generator   ports.Generator
	web         ports.WebSearcher
	limits      domain.WorkflowLimits
}

func NewAgentController(
	retriever *HybridRetriever,
	grader *EvidenceGrader,
	verifier *GroundednessVerifier,
	planner *ResearchPlanner,
	synthesizer *ResearchSynthesizer,
	generator ports.Generator,
	web ports.WebSearcher,
	limits domain.WorkflowLimits,
) *AgentController {
	return &AgentController{
		retriever:   retriever,
		grader:      grader,
		verifier:    verifier,
		planner:     planner,
		synthesizer: synthesizer,
		generator:   generator,
		web:         web,
		limits:      limits.Normalize(),
	}
}

// Answer runs the workflow for one question to its terminal state. Each
// question gets a fresh WorkflowState; questions are independent and may run
// fully in parallel.
func (c *AgentController) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "answer question", fmt.Errorf("question is empty"))
	}

	ws := domain.NewWorkflowState(question)
	step := StepRetrieve
	for i := 0; step != StepEnd; i++ {
		if i >= maxWorkflowSteps {
			return nil, fmt.Errorf("workflow exceeded %d steps at %s", maxWorkflowSteps, step)
		}

		next, err := c.step(ctx, step, ws)
		if err != nil {
			return nil, err
		}
		slog.Debug("workflow_transition", "from", step, "to", next, "retry_count", ws.RetryCount, "evidence", len(ws.Evidence))
		step = next
	}

	return &domain.Answer{
		Text:            ws.Answer,
		Sources:         ws.Sources,
		EvidenceCount:   ws.EvidenceCount,
		UsedWebFallback: ws.UsedWebFallback,
		LowConfidence:   ws.Groundedness == domain.GroundednessHallucinated,
	}, nil
}

// step advances the state machine by one transition, mutating ws in place.
func (c *AgentController) step(ctx context.Context, step WorkflowStep, ws *domain.WorkflowState) (WorkflowStep, error) {
	switch step {
	case StepRetrieve:
		ws.Evidence = c.retriever.Retrieve(ctx, ws.Question, c.limits.TopK)
		return StepGradeDocuments, nil

	case StepGradeDocuments:
		ws.Grade = c.grader.Grade(ctx, ws.Question, ws.Evidence)
		if ws.Grade == domain.GradeIrrelevant {
			// Irrelevant evidence is treated identically to nothing retrieved.
			ws.Evidence = nil
		}
		switch {
		case len(ws.Evidence) > 0:
			return StepGenerate, nil
		case ws.RetryCount < c.limits.MaxRetries:
			return StepTransformQuery, nil
		default:
			return StepPlanResearch, nil
		}

	case StepTransformQuery:
		ws.Question += broadenQuerySuffix
		ws.RetryCount++
		return StepRetrieve, nil

	case StepGenerate:
		answer, err := generateAnswer(ctx, c.generator, ws.Question, ws.Evidence)
		if err != nil {
			// Generation only runs on the corpus path, so escalating to web
			// research here cannot loop.
			slog.Warn("answer_generation_failed", "error", err)
			return StepPlanResearch, nil
		}
		ws.Answer = answer
		ws.Sources = extractSources(ws.Evidence)
		ws.EvidenceCount = len(ws.Evidence)
		return StepCheckHallucination, nil

	case StepCheckHallucination:
		ws.Groundedness = c.verifier.Verify(ctx, ws.Answer, ws.Evidence)
		if ws.Groundedness == domain.GroundednessGrounded {
			return StepEnd, nil
		}
		if ws.UsedWebFallback {
			// Deliver the best-effort answer rather than loop forever; the
			// caller sees it flagged as low confidence.
			return StepEnd, nil
		}
		return StepPlanResearch, nil

	case StepPlanResearch:
		ws.ResearchQueries = c.planner.Plan(ctx, ws.Question)
		return StepWebSearch, nil

	case StepWebSearch:
		queries := ws.ResearchQueries
		if len(queries) == 0 {
			queries = []string{ws.Question}
		}
		results, err := c.web.Search(ctx, queries)
		if err != nil {
			slog.Warn("web_search_failed", "error", err)
			results = nil
		}
		ws.WebResults = results
		ws.Evidence = webEvidence(results)
		ws.UsedWebFallback = true
		return StepSynthesizeResearch, nil

	case StepSynthesizeResearch:
		ws.Answer = c.synthesizer.Synthesize(ctx, ws.Question, formatWebContext(ws.WebResults))
		ws.Sources = extractSources(ws.Evidence)
		ws.EvidenceCount = len(ws.Evidence)
		// Synthesized research is terminal without a second groundedness
		// check; a hallucinated verdict from the corpus path does not stick
		// to the web-sourced answer.
		ws.Groundedness = domain.GroundednessUnchecked
		return StepEnd, nil

	default:
		return StepEnd, fmt.Errorf("unknown workflow step: %s", step)
	}
}

func webEvidence(results []domain.WebResult) []domain.EvidenceChunk {
	out := make([]domain.EvidenceChunk, 0, len(results))
	for _, res := range results {
		out = append(out, domain.EvidenceChunk{
			Content: res.Title + "\n" + res.Snippet,
			Source: domain.ChunkSource{
				DocumentID: "Web Search",
				Locator:    res.URL,
				Section:    res.Query,
				Kind:       domain.SourceWeb,
			},
		})
	}
	return out
}
