package ports

import (
	"context"
	"io"

	"github.com/kirillkom/docqa/internal/core/domain"
)

// KeywordSearcher ranks corpus chunks lexically. Results come back in the
// searcher's own order; rank position is what the fusion step consumes, the
// raw scores are not comparable with vector-search scores.
type KeywordSearcher interface {
	Search(ctx context.Context, query string, k int) ([]domain.EvidenceChunk, error)
}

// VectorSearcher ranks corpus chunks by embedding similarity. Returned chunks
// carry the similarity score so vector-only mode can apply its floor.
type VectorSearcher interface {
	Search(ctx context.Context, query string, k int) ([]domain.EvidenceChunk, error)
}

// Judge is a constrained LLM call returning a short categorical token.
// Used by the evidence grader and the groundedness verifier.
type Judge interface {
	Judge(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator is an open-ended LLM call. Used by answer generation, the
// research planner, and the research synthesizer.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// WebSearcher queries the external search provider for each sub-query.
type WebSearcher interface {
	Search(ctx context.Context, queries []string) ([]domain.WebResult, error)
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits extracted text into indexable chunks.
type Chunker interface {
	Split(text string) []string
}

// VectorIndexer persists chunk embeddings for semantic search.
type VectorIndexer interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []string, vectors [][]float32) error
}

// KeywordIndexer persists chunk text for lexical search.
type KeywordIndexer interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []string) error
}

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	UpdateChunkCount(ctx context.Context, id string, chunkCount int) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}
