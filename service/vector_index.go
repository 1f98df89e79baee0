package service

import (
	"math"
	"sort"
	"strings"

	"samvidhan-backend/models"

	"github.com/google/uuid"
)

// ScoredChunk pairs a corpus chunk with its similarity to a query
type ScoredChunk struct {
	Chunk      models.CorpusChunk
	Similarity float64
}

// RetrievalResult is an ordered sequence of scored chunks, descending by
// similarity, ties broken by corpus insertion order
type RetrievalResult []ScoredChunk

// VectorIndex is the in-memory view of the constitutional corpus. It is built
// once at startup from the chunk table and is read-only afterwards, so it is
// safe for unsynchronized concurrent use.
type VectorIndex struct {
	chunks []models.CorpusChunk
	byID   map[uuid.UUID]int
	refs   map[string]struct{}
}

// NewVectorIndex builds an index over chunks. Chunk order is preserved as the
// corpus insertion order used for tie-breaking.
func NewVectorIndex(chunks []models.CorpusChunk) *VectorIndex {
	ix := &VectorIndex{
		chunks: chunks,
		byID:   make(map[uuid.UUID]int, len(chunks)),
		refs:   make(map[string]struct{}),
	}
	for i, c := range chunks {
		ix.byID[c.ID] = i
		if ref := NormalizeReference(c.SourceReference); ref != "" {
			ix.refs[ref] = struct{}{}
		}
		if part := NormalizeReference(c.PartNumber); part != "" {
			ix.refs[part] = struct{}{}
		}
	}
	return ix
}

// Len returns the number of indexed chunks
func (ix *VectorIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.chunks)
}

// GetChunk returns the chunk with the given id
func (ix *VectorIndex) GetChunk(id uuid.UUID) (models.CorpusChunk, bool) {
	if ix == nil {
		return models.CorpusChunk{}, false
	}
	i, ok := ix.byID[id]
	if !ok {
		return models.CorpusChunk{}, false
	}
	return ix.chunks[i], true
}

// HasReference reports whether a normalized reference (e.g. "article 21")
// exists in the corpus metadata
func (ix *VectorIndex) HasReference(ref string) bool {
	if ix == nil {
		return false
	}
	_, ok := ix.refs[NormalizeReference(ref)]
	return ok
}

// Search returns the k most similar chunks by cosine similarity. The scan is
// linear over the whole corpus; the corpus is small enough (a few thousand
// chunks) that this stays in the low milliseconds.
func (ix *VectorIndex) Search(embedding []float32, k int) RetrievalResult {
	if ix == nil || len(ix.chunks) == 0 || len(embedding) == 0 || k <= 0 {
		return nil
	}

	scored := make(RetrievalResult, 0, len(ix.chunks))
	for _, c := range ix.chunks {
		sim, ok := cosineSimilarity(embedding, c.Embedding)
		if !ok {
			continue
		}
		scored = append(scored, ScoredChunk{Chunk: c, Similarity: sim})
	}

	// Stable sort keeps insertion order for equal similarities.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// cosineSimilarity returns the similarity in [0,1] for non-degenerate inputs.
// Raw cosine lands in [-1,1]; it is rescaled so downstream scoring can treat
// scores as a [0,1] signal.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2, true
}

// NormalizeReference lower-cases and collapses whitespace so "Article  21"
// and "article 21" compare equal
func NormalizeReference(ref string) string {
	return strings.Join(strings.Fields(strings.ToLower(ref)), " ")
}
