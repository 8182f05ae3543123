package domain

// Grade is the relevance verdict over retrieved evidence.
type Grade string

const (
	GradeRelevant   Grade = "relevant"
	GradeIrrelevant Grade = "irrelevant"
)

// Groundedness is the verdict on whether an answer is supported by the
// evidence it was generated from.
type Groundedness string

const (
	GroundednessUnchecked    Groundedness = "unchecked"
	GroundednessGrounded     Groundedness = "grounded"
	GroundednessHallucinated Groundedness = "hallucinated"
)

// WorkflowState is the mutable record threaded through one question workflow.
// It is created fresh per question and owned exclusively by its workflow
// instance; independent questions never share one.
type WorkflowState struct {
	Question         string
	OriginalQuestion string
	Evidence         []EvidenceChunk
	WebResults       []WebResult
	ResearchQueries  []string
	RetryCount       int
	UsedWebFallback  bool
	Answer           string
	Sources          []SourceRef
	EvidenceCount    int
	Grade            Grade
	Groundedness     Groundedness
}

// NewWorkflowState returns the initial state for an incoming question.
func NewWorkflowState(question string) *WorkflowState {
	return &WorkflowState{
		Question:         question,
		OriginalQuestion: question,
		Groundedness:     GroundednessUnchecked,
	}
}

// WorkflowLimits bounds the retry and fallback behaviour of the controller.
type WorkflowLimits struct {
	TopK            int
	MaxRetries      int
	SimilarityFloor float64
	RRFConstant     int
	WebMaxResults   int
}

// Normalize fills zero values with the defaults the workflow was tuned for.
func (l WorkflowLimits) Normalize() WorkflowLimits {
	out := l
	if out.TopK <= 0 {
		out.TopK = 5
	}
	if out.MaxRetries <= 0 {
		out.MaxRetries = 1
	}
	if out.SimilarityFloor <= 0 {
		out.SimilarityFloor = 0.7
	}
	if out.RRFConstant <= 0 {
		out.RRFConstant = 60
	}
	if out.WebMaxResults <= 0 {
		out.WebMaxResults = 5
	}
	return out
}

// DefaultRefusalPhrases is the shipped refusal detector list. A generated
// answer containing any of these is treated as insufficient grounding so the
// controller escalates to web research instead of surfacing "I don't know".
// Overridable via the policy file, see config.Policy.
var DefaultRefusalPhrases = []string{
	"i don't have enough information",
	"context does not contain",
	"information is not available",
	"cannot provide an answer",
	"cannot answer",
	"answer based on the context provided",
}
