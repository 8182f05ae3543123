package usecase

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/kirillkom/docqa/internal/core/domain"
)

func textChunk(content string) domain.EvidenceChunk {
	return domain.EvidenceChunk{
		Content: content,
		Source:  domain.ChunkSource{DocumentID: "doc-" + content, Locator: "chunk 0", Kind: domain.SourceText},
	}
}

func TestFuseRankedRRFNonOverlappingLists(t *testing.T) {
	a := []domain.EvidenceChunk{textChunk("a1"), textChunk("a2"), textChunk("a3")}
	b := []domain.EvidenceChunk{textChunk("b1"), textChunk("b2"), textChunk("b3")}

	fused := fuseRankedRRF([][]domain.EvidenceChunk{a, b}, 10, 60)
	if len(fused) != 6 {
		t.Fatalf("expected 6 fused chunks from non-overlapping lists, got %d", len(fused))
	}

	truncated := fuseRankedRRF([][]domain.EvidenceChunk{a, b}, 4, 60)
	if len(truncated) != 4 {
		t.Fatalf("expected limit to truncate to 4, got %d", len(truncated))
	}
}

func TestFuseRankedRRFDeduplicatesByContent(t *testing.T) {
	list := []domain.EvidenceChunk{textChunk("same"), textChunk("other")}

	fused := fuseRankedRRF([][]domain.EvidenceChunk{list, list}, 10, 60)
	if len(fused) != 2 {
		t.Fatalf("fusing a list with itself must not duplicate keys, got %d chunks", len(fused))
	}

	// Both lists contribute rank 1 for "same": 2 * 1/61.
	want := 2.0 / 61.0
	if diff := fused[0].Score - want; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("expected accumulated score %.12f, got %.12f", want, fused[0].Score)
	}
}

func TestFuseRankedRRFSharedItemRanksFirst(t *testing.T) {
	keyword := []domain.EvidenceChunk{textChunk("alpha"), textChunk("shared")}
	vector := []domain.EvidenceChunk{textChunk("shared"), textChunk("beta")}

	fused := fuseRankedRRF([][]domain.EvidenceChunk{keyword, vector}, 10, 60)
	if fused[0].Content != "shared" {
		t.Fatalf("expected chunk found by both methods to rank first, got %q", fused[0].Content)
	}
}

func TestFuseRankedRRFTieBreakFirstSeen(t *testing.T) {
	// Same rank in disjoint lists produces identical scores; first-seen list
	// order must win.
	a := []domain.EvidenceChunk{textChunk("from-a")}
	b := []domain.EvidenceChunk{textChunk("from-b")}

	fused := fuseRankedRRF([][]domain.EvidenceChunk{a, b}, 10, 60)
	if fused[0].Content != "from-a" || fused[1].Content != "from-b" {
		t.Fatalf("expected first-seen tie break, got %q then %q", fused[0].Content, fused[1].Content)
	}
}

func TestFuseRankedRRFDeterministic(t *testing.T) {
	a := make([]domain.EvidenceChunk, 0, 8)
	b := make([]domain.EvidenceChunk, 0, 8)
	for i := 0; i < 8; i++ {
		a = append(a, textChunk(fmt.Sprintf("a%d", i)))
		b = append(b, textChunk(fmt.Sprintf("b%d", i)))
	}

	first := fuseRankedRRF([][]domain.EvidenceChunk{a, b}, 12, 60)
	for i := 0; i < 50; i++ {
		again := fuseRankedRRF([][]domain.EvidenceChunk{a, b}, 12, 60)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("fusion output changed between identical runs on iteration %d", i)
		}
	}
}

func TestFuseRankedRRFInvalidLimit(t *testing.T) {
	list := []domain.EvidenceChunk{textChunk("a")}
	if got := fuseRankedRRF([][]domain.EvidenceChunk{list}, 0, 60); got != nil {
		t.Fatalf("expected nil for limit=0, got %v", got)
	}
	if got := fuseRankedRRF([][]domain.EvidenceChunk{list}, -1, 60); got != nil {
		t.Fatalf("expected nil for negative limit, got %v", got)
	}
}
