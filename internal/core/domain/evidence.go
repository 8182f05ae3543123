package domain

// SourceKind classifies where an evidence chunk came from.
type SourceKind string

const (
	SourceText  SourceKind = "text"
	SourceTable SourceKind = "table"
	SourceImage SourceKind = "image"
	SourceWeb   SourceKind = "web"
)

// ChunkSource carries provenance for one evidence chunk. It is attached at
// retrieval time and never edited afterwards.
type ChunkSource struct {
	DocumentID string     `json:"document_id"`
	Locator    string     `json:"locator"`
	Section    string     `json:"section,omitempty"`
	Kind       SourceKind `json:"kind"`
}

// EvidenceChunk is a retrievable unit of source text. Chunks are immutable
// once produced by a search collaborator.
type EvidenceChunk struct {
	Content string      `json:"content"`
	Source  ChunkSource `json:"source"`
	Score   float64     `json:"score,omitempty"`
}

// SourceRef is the user-facing citation attached to an answer.
type SourceRef struct {
	Label   string     `json:"label"`
	Locator string     `json:"locator"`
	Kind    SourceKind `json:"kind"`
}

// Ref projects a chunk's provenance into a citation.
func (c EvidenceChunk) Ref() SourceRef {
	return SourceRef{
		Label:   c.Source.DocumentID,
		Locator: c.Source.Locator,
		Kind:    c.Source.Kind,
	}
}

// WebResult is one raw hit from the external web-search provider.
type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Query   string `json:"query"`
}

// Answer is the structured result of one question workflow. The caller always
// receives one of these: partial failures show up as empty sources or an
// apologetic text, never as a propagated fault.
type Answer struct {
	Text            string      `json:"text"`
	Sources         []SourceRef `json:"sources"`
	EvidenceCount   int         `json:"evidence_count"`
	UsedWebFallback bool        `json:"used_web_fallback"`
	LowConfidence   bool        `json:"low_confidence,omitempty"`
}
