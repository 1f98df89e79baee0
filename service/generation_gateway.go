package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"
)

const generationAPI = "https://generativelanguage.googleapis.com/v1beta/models/gemini-3-pro-preview:generateContent"

// GenerationResult carries the raw model output or the provider failure.
// ProviderError is never raised past the gateway boundary; the orchestrator
// turns it into a degraded result.
type GenerationResult struct {
	RawText       string
	Latency       time.Duration
	ProviderError error
}

// Gateway wraps the single network call to the generation service
type Gateway interface {
	Generate(ctx context.Context, req GenerationRequest) GenerationResult
}

// GeminiGateway calls the Gemini generation API over HTTP. Provider latency
// for this class of request is high and variable, so the timeout defaults to
// two minutes.
type GeminiGateway struct {
	apiKey   string
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

// NewGeminiGateway creates a gateway reading GEMINI_API_KEY from the
// environment
func NewGeminiGateway(cfg Config) *GeminiGateway {
	timeout := cfg.GenerationTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().GenerationTimeout
	}
	return &GeminiGateway{
		apiKey:   os.Getenv("GEMINI_API_KEY"),
		endpoint: generationAPI,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

// Generate performs the remote call. Transient transport failures are retried
// once; timeouts and provider-reported content errors are not retried.
func (g *GeminiGateway) Generate(ctx context.Context, req GenerationRequest) GenerationResult {
	start := time.Now()

	if g.apiKey == "" {
		return GenerationResult{
			Latency:       time.Since(start),
			ProviderError: fmt.Errorf("%w: GEMINI_API_KEY not set", ErrProviderContent),
		}
	}

	body, err := json.Marshal(buildRequestBody(req))
	if err != nil {
		return GenerationResult{
			Latency:       time.Since(start),
			ProviderError: fmt.Errorf("%w: %v", ErrProviderContent, err),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := g.call(ctx, body)
		if err == nil {
			return GenerationResult{RawText: text, Latency: time.Since(start)}
		}

		if errors.Is(err, context.Canceled) {
			return GenerationResult{Latency: time.Since(start), ProviderError: context.Canceled}
		}
		if errors.Is(err, ErrProviderTimeout) || errors.Is(err, ErrProviderContent) {
			return GenerationResult{Latency: time.Since(start), ProviderError: err}
		}

		// Transient transport failure: one retry, then give up.
		lastErr = err
		log.Printf("Warning: generation transport failure (attempt %d): %v", attempt+1, err)
	}

	return GenerationResult{
		Latency:       time.Since(start),
		ProviderError: fmt.Errorf("%w: %v", ErrProviderTransport, lastErr),
	}
}

func (g *GeminiGateway) call(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderContent, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrProviderContent, resp.StatusCode, truncateForLog(bodyBytes))
	}

	return parseGenerationResponse(bodyBytes)
}

// classifyTransportError separates timeouts (not retried) from transient
// transport failures (retried once)
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled {
		return context.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	return err
}

func buildRequestBody(req GenerationRequest) map[string]interface{} {
	prompt := req.SystemInstructions
	if req.ContextText != "" {
		prompt += "\n\n" + req.ContextText
	}
	prompt += "\n\n" + req.UserQuery

	return map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
		},
	}
}

func parseGenerationResponse(bodyBytes []byte) (string, error) {
	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason,omitempty"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason,omitempty"`
		} `json:"promptFeedback,omitempty"`
		Error struct {
			Code    int    `json:"code,omitempty"`
			Message string `json:"message,omitempty"`
		} `json:"error,omitempty"`
	}

	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrProviderContent, err)
	}

	if apiResp.Error.Message != "" {
		return "", fmt.Errorf("%w: %s (code %d)", ErrProviderContent, apiResp.Error.Message, apiResp.Error.Code)
	}
	if apiResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s", ErrProviderContent, apiResp.PromptFeedback.BlockReason)
	}
	if len(apiResp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", ErrProviderContent)
	}

	var text bytes.Buffer
	for i, candidate := range apiResp.Candidates {
		if candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			log.Printf("Warning: candidate %d finished with reason %s", i, candidate.FinishReason)
		}
		for _, part := range candidate.Content.Parts {
			text.WriteString(part.Text)
		}
	}

	if text.Len() == 0 {
		return "", fmt.Errorf("%w: empty content", ErrProviderContent)
	}
	return text.String(), nil
}

func truncateForLog(b []byte) string {
	const max = 500
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
