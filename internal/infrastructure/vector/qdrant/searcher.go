package qdrant

import (
	"context"
	"fmt"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
)

// Searcher adapts the raw vector client to query-text search by embedding the
// query first.
type Searcher struct {
	embedder ports.Embedder
	client   *Client
}

func NewSearcher(embedder ports.Embedder, client *Client) *Searcher {
	return &Searcher{embedder: embedder, client: client}
}

func (s *Searcher) Search(ctx context.Context, query string, k int) ([]domain.EvidenceChunk, error) {
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.client.SearchByVector(ctx, vector, k)
}
