package bleveindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/blevesearch/bleve"

	"github.com/kirillkom/docqa/internal/core/domain"
)

// Index is the lexical half of hybrid retrieval: a BM25-ranked full-text
// index over the same chunks the vector store holds. Raw BM25 scores are not
// comparable with cosine similarities; the fusion step consumes rank
// positions only.
type Index struct {
	index bleve.Index
}

type indexedChunk struct {
	Text       string `json:"text"`
	Filename   string `json:"filename"`
	DocID      string `json:"doc_id"`
	ChunkIndex int    `json:"chunk_index"`
}

// Open opens the index at path, creating it on first use.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open bleve index: %w", err)
	}
	return &Index{index: idx}, nil
}

// OpenMemOnly builds a non-persistent index. Used in tests.
func OpenMemOnly() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("open in-memory bleve index: %w", err)
	}
	return &Index{index: idx}, nil
}

func (i *Index) IndexChunks(ctx context.Context, doc *domain.Document, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := i.index.NewBatch()
	for idx, chunk := range chunks {
		id := fmt.Sprintf("%s#%d", doc.ID, idx)
		err := batch.Index(id, indexedChunk{
			Text:       chunk,
			Filename:   doc.Filename,
			DocID:      doc.ID,
			ChunkIndex: idx,
		})
		if err != nil {
			return fmt.Errorf("batch chunk %s: %w", id, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("index batch: %w", err)
	}
	return nil
}

func (i *Index) Search(ctx context.Context, query string, k int) ([]domain.EvidenceChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matchQuery := bleve.NewMatchQuery(query)
	request := bleve.NewSearchRequestOptions(matchQuery, k, 0, false)
	request.Fields = []string{"text", "filename", "chunk_index"}

	result, err := i.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	out := make([]domain.EvidenceChunk, 0, len(result.Hits))
	for _, hit := range result.Hits {
		out = append(out, domain.EvidenceChunk{
			Content: fieldString(hit.Fields, "text"),
			Score:   hit.Score,
			Source: domain.ChunkSource{
				DocumentID: fieldString(hit.Fields, "filename"),
				Locator:    fmt.Sprintf("chunk %d", fieldInt(hit.Fields, "chunk_index")),
				Kind:       domain.SourceText,
			},
		})
	}
	return out, nil
}

func (i *Index) Close() error {
	return i.index.Close()
}

func fieldString(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}

func fieldInt(fields map[string]interface{}, key string) int {
	// Numeric stored fields come back as float64.
	f, _ := fields[key].(float64)
	return int(f)
}
