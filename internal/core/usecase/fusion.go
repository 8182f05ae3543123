package usecase

import (
	"sort"

	"github.com/kirillkom/docqa/internal/core/domain"
)

type fusedCandidate struct {
	chunk domain.EvidenceChunk
	score float64
	order int
}

// fuseRankedRRF merges independently ordered result lists into one ranked
// list with reciprocal rank fusion: an item at 1-based rank r contributes
// 1/(c+r) to its fused score, accumulated across lists. Keyword and vector
// scores are not on comparable scales, so fusion works on rank, never on the
// raw scores. The merge key is chunk content: two chunks with identical text
// are the same evidence item even when both searches returned them.
func fuseRankedRRF(lists [][]domain.EvidenceChunk, limit, rrfC int) []domain.EvidenceChunk {
	if limit <= 0 {
		return nil
	}
	if rrfC <= 0 {
		rrfC = 60
	}

	acc := make(map[string]*fusedCandidate)
	seen := 0
	for _, list := range lists {
		for rank, chunk := range list {
			candidate, ok := acc[chunk.Content]
			if !ok {
				candidate = &fusedCandidate{chunk: chunk, order: seen}
				acc[chunk.Content] = candidate
				seen++
			}
			candidate.score += 1.0 / float64(rrfC+rank+1)
		}
	}

	fused := make([]*fusedCandidate, 0, len(acc))
	for _, candidate := range acc {
		fused = append(fused, candidate)
	}

	// Ties break by first-seen order so the output is deterministic.
	sort.SliceStable(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].order < fused[j].order
	})

	if len(fused) > limit {
		fused = fused[:limit]
	}

	out := make([]domain.EvidenceChunk, 0, len(fused))
	for _, candidate := range fused {
		chunk := candidate.chunk
		chunk.Score = candidate.score
		out = append(out, chunk)
	}
	return out
}
