package service

import (
	"context"
	"fmt"
)

// Retriever finds the corpus chunks most relevant to a query. The index and
// embedder are injected so the retriever is testable with fakes.
type Retriever struct {
	index    *VectorIndex
	embedder Embedder
}

// NewRetriever creates a retriever over the given index
func NewRetriever(index *VectorIndex, embedder Embedder) *Retriever {
	return &Retriever{index: index, embedder: embedder}
}

// Retrieve embeds the query text and returns the k most similar chunks.
// Returns ErrIndexUnavailable when the corpus was never loaded; every
// downstream step depends on this precondition.
func (r *Retriever) Retrieve(ctx context.Context, queryText string, k int) (RetrievalResult, error) {
	if r.index.Len() == 0 {
		return nil, ErrIndexUnavailable
	}
	if r.embedder == nil {
		return nil, fmt.Errorf("embedder not set")
	}

	embedding, err := r.embedder.EmbedQuery(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return r.index.Search(embedding, k), nil
}
