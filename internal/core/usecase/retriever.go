package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
)

// HybridRetriever merges keyword and vector search into one ranked list.
// When no keyword index is configured it degrades to vector-only search with
// a similarity floor. Search collaborator failures never fail the call: the
// hybrid path falls back to whichever collaborator answered, and if both
// fail the result is simply empty evidence.
type HybridRetriever struct {
	keyword         ports.KeywordSearcher
	vector          ports.VectorSearcher
	rrfConstant     int
	similarityFloor float64
}

func NewHybridRetriever(
	keyword ports.KeywordSearcher,
	vector ports.VectorSearcher,
	rrfConstant int,
	similarityFloor float64,
) *HybridRetriever {
	if rrfConstant <= 0 {
		rrfConstant = 60
	}
	if similarityFloor <= 0 {
		similarityFloor = 0.7
	}
	return &HybridRetriever{
		keyword:         keyword,
		vector:          vector,
		rrfConstant:     rrfConstant,
		similarityFloor: similarityFloor,
	}
}

// Retrieve returns at most k fused chunks for the query. An empty result
// means "no evidence found" and is a normal state, not an error.
func (r *HybridRetriever) Retrieve(ctx context.Context, query string, k int) []domain.EvidenceChunk {
	if k <= 0 {
		k = 5
	}
	if r.keyword == nil {
		return r.retrieveSemantic(ctx, query, k)
	}
	return r.retrieveHybrid(ctx, query, k)
}

func (r *HybridRetriever) retrieveSemantic(ctx context.Context, query string, k int) []domain.EvidenceChunk {
	results, err := r.vector.Search(ctx, query, k)
	if err != nil {
		slog.Warn("vector_search_failed", "error", err)
		return nil
	}

	out := make([]domain.EvidenceChunk, 0, len(results))
	for _, chunk := range results {
		if chunk.Score >= r.similarityFloor {
			out = append(out, chunk)
		}
	}
	if len(out) == 0 {
		slog.Info("no_results_above_similarity_floor", "floor", r.similarityFloor, "candidates", len(results))
	}
	return out
}

func (r *HybridRetriever) retrieveHybrid(ctx context.Context, query string, k int) []domain.EvidenceChunk {
	var (
		keywordList []domain.EvidenceChunk
		vectorList  []domain.EvidenceChunk
		keywordErr  error
		vectorErr   error
	)

	// The two searches have no data dependency; issuing them concurrently
	// bounds latency to the slower of the two. Errors are held, not
	// returned, so one failing collaborator cannot cancel the other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		keywordList, keywordErr = r.keyword.Search(gctx, query, k)
		return nil
	})
	g.Go(func() error {
		vectorList, vectorErr = r.vector.Search(gctx, query, k)
		return nil
	})
	_ = g.Wait()

	switch {
	case keywordErr != nil && vectorErr != nil:
		slog.Warn("hybrid_search_failed", "keyword_error", keywordErr, "vector_error", vectorErr)
		return nil
	case keywordErr != nil:
		slog.Warn("keyword_search_failed", "error", keywordErr)
		return trimChunks(vectorList, k)
	case vectorErr != nil:
		slog.Warn("vector_search_failed", "error", vectorErr)
		return trimChunks(keywordList, k)
	}

	return fuseRankedRRF([][]domain.EvidenceChunk{keywordList, vectorList}, k, r.rrfConstant)
}

func trimChunks(chunks []domain.EvidenceChunk, limit int) []domain.EvidenceChunk {
	if limit <= 0 || len(chunks) <= limit {
		return chunks
	}
	return chunks[:limit]
}
