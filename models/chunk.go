package models

import (
	"github.com/google/uuid"
)

// CorpusChunk represents a chunk of constitutional text from the indexed corpus
type CorpusChunk struct {
	ID              uuid.UUID              `json:"id"`
	Text            string                 `json:"text"`
	SourceReference string                 `json:"source_reference"` // e.g. "Article 21", "Preamble"
	PartNumber      string                 `json:"part_number"`      // e.g. "Part III"
	SectionType     string                 `json:"section_type"`     // "article", "part", "schedule", "preamble"
	ChunkIndex      int                    `json:"chunk_index"`      // position within its source reference
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	Embedding       []float32              `json:"-"`
}
