package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/docqa/internal/core/domain"
)

func TestVerifierNoEvidenceIsTriviallyGrounded(t *testing.T) {
	judge := &fakeJudge{verdict: "no"}
	v := NewGroundednessVerifier(judge, nil)

	if got := v.Verify(context.Background(), "anything", nil); got != domain.GroundednessGrounded {
		t.Fatalf("expected grounded with no evidence, got %s", got)
	}
	if judge.calls != 0 {
		t.Fatalf("expected zero judge calls with no evidence, got %d", judge.calls)
	}
}

func TestVerifierRefusalFastPathSkipsJudge(t *testing.T) {
	judge := &fakeJudge{verdict: "yes"}
	v := NewGroundednessVerifier(judge, nil)

	answer := "I cannot answer based on the context provided."
	got := v.Verify(context.Background(), answer, []domain.EvidenceChunk{textChunk("c")})
	if got != domain.GroundednessHallucinated {
		t.Fatalf("expected hallucinated via refusal fast path, got %s", got)
	}
	if judge.calls != 0 {
		t.Fatalf("refusal fast path must not call the judge, got %d calls", judge.calls)
	}
}

func TestVerifierConfiguredPhrasesReplaceDefaults(t *testing.T) {
	judge := &fakeJudge{verdict: "yes"}
	v := NewGroundednessVerifier(judge, []string{"insufficient data"})

	got := v.Verify(context.Background(), "Insufficient data for a verdict.", []domain.EvidenceChunk{textChunk("c")})
	if got != domain.GroundednessHallucinated {
		t.Fatalf("expected configured phrase to trigger the fast path, got %s", got)
	}

	// Default phrases no longer apply once a custom list is injected.
	got = v.Verify(context.Background(), "I cannot answer that.", []domain.EvidenceChunk{textChunk("c")})
	if got != domain.GroundednessGrounded {
		t.Fatalf("expected default phrases to be replaced, got %s", got)
	}
}

func TestVerifierPositiveJudgment(t *testing.T) {
	judge := &fakeJudge{verdict: "yes"}
	v := NewGroundednessVerifier(judge, nil)

	got := v.Verify(context.Background(), "Revenue was 10M.", []domain.EvidenceChunk{textChunk("Revenue was 10M.")})
	if got != domain.GroundednessGrounded {
		t.Fatalf("expected grounded, got %s", got)
	}
	if judge.calls != 1 {
		t.Fatalf("expected exactly one judge call, got %d", judge.calls)
	}
}

func TestVerifierNegativeJudgment(t *testing.T) {
	judge := &fakeJudge{verdict: "no"}
	v := NewGroundednessVerifier(judge, nil)

	got := v.Verify(context.Background(), "Revenue was 99M.", []domain.EvidenceChunk{textChunk("Revenue was 10M.")})
	if got != domain.GroundednessHallucinated {
		t.Fatalf("expected hallucinated, got %s", got)
	}
}

func TestVerifierFailsOpenOnJudgeError(t *testing.T) {
	judge := &fakeJudge{err: errors.New("judge down")}
	v := NewGroundednessVerifier(judge, nil)

	got := v.Verify(context.Background(), "any answer", []domain.EvidenceChunk{textChunk("c")})
	if got != domain.GroundednessGrounded {
		t.Fatalf("expected grounded on judge failure, got %s", got)
	}
}
