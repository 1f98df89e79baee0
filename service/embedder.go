package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"
)

const (
	embeddingAPI = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:embedContent"

	// embeddingDims must match the corpus table's vector(768) column; the
	// model defaults to 3072 without the explicit pin, and a query embedded
	// at the wrong width matches nothing.
	embeddingDims = 768

	embedMaxRetries     = 3
	embedInitialBackoff = 500 * time.Millisecond
)

// Embedder turns query text into the same vector space the corpus was
// indexed with
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type embedContentRequest struct {
	Model                string       `json:"model"`
	Content              embedContent `json:"content"`
	TaskType             string       `json:"task_type,omitempty"`
	OutputDimensionality int          `json:"output_dimensionality,omitempty"`
}

type embedContent struct {
	Parts []embedPart `json:"parts"`
}

type embedPart struct {
	Text string `json:"text"`
}

type embedContentResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// GeminiEmbedder embeds queries with the Gemini embedding model over HTTP,
// pinned to the corpus dimensionality
type GeminiEmbedder struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewGeminiEmbedder creates an embedder reading GEMINI_API_KEY from the
// environment
func NewGeminiEmbedder() *GeminiEmbedder {
	return &GeminiEmbedder{
		apiKey:   os.Getenv("GEMINI_API_KEY"),
		endpoint: embeddingAPI,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// EmbedQuery embeds a single query string at the corpus width, L2-normalized.
// Transient failures are retried with doubling backoff; 400/401 are not.
func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	jsonData, err := json.Marshal(embedContentRequest{
		Model: "models/gemini-embedding-001",
		Content: embedContent{
			Parts: []embedPart{{Text: text}},
		},
		TaskType:             "RETRIEVAL_QUERY",
		OutputDimensionality: embeddingDims,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := embedInitialBackoff
	var lastErr error
	for attempt := 0; attempt < embedMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		values, retryable, err := e.call(ctx, jsonData)
		if err == nil {
			return values, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed to embed query after %d attempts: %w", embedMaxRetries, lastErr)
}

func (e *GeminiEmbedder) call(ctx context.Context, body []byte) (values []float32, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, "POST", e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Bad request and bad key do not get better on retry.
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, false, fmt.Errorf("embedding API error: %d", resp.StatusCode)
		}
		return nil, true, fmt.Errorf("embedding API error: %d", resp.StatusCode)
	}

	var apiResp embedContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, true, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(apiResp.Embedding.Values) != embeddingDims {
		return nil, false, fmt.Errorf("embedding has %d dimensions, want %d", len(apiResp.Embedding.Values), embeddingDims)
	}

	return normalizeVector(apiResp.Embedding.Values), false, nil
}

// normalizeVector scales a vector to unit length. The corpus embeddings are
// normalized the same way at index-build time.
func normalizeVector(values []float32) []float32 {
	var norm float64
	for _, v := range values {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return values
	}
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
