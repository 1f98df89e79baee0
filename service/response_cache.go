package service

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"samvidhan-backend/models"
)

// ResponseCache memoizes completed pipeline results by normalized query key.
// Concurrent identical queries are collapsed into a single computation via
// singleflight, so a burst of the same question costs one generation call.
type ResponseCache struct {
	entries *lru.Cache[string, models.PipelineResult]
	group   singleflight.Group
}

// NewResponseCache creates a cache with the configured capacity
func NewResponseCache(cfg Config) (*ResponseCache, error) {
	capacity := cfg.CacheCapacity
	if capacity <= 0 {
		capacity = DefaultConfig().CacheCapacity
	}
	entries, err := lru.New[string, models.PipelineResult](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}
	return &ResponseCache{entries: entries}, nil
}

// CacheKey normalizes a query into its cache identity. Queries differing only
// in case or whitespace share an entry; audience and scenario are part of the
// key because they change the generated answer.
func CacheKey(query models.Query) string {
	return NormalizeReference(query.Text) + "|" + string(query.Audience) + "|" + string(query.Scenario)
}

// GetOrCompute returns the cached result for the query, or runs compute and
// caches the outcome. Degraded results are never cached so a provider outage
// does not poison later requests. If ctx is canceled while another caller is
// computing the same key, the computation continues for the other caller and
// ctx.Err is returned here.
func (c *ResponseCache) GetOrCompute(ctx context.Context, query models.Query, compute func() (models.PipelineResult, error)) (models.PipelineResult, bool, error) {
	key := CacheKey(query)

	if result, ok := c.entries.Get(key); ok {
		return result, true, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		result, err := compute()
		if err != nil {
			return models.PipelineResult{}, err
		}
		if result.Status == models.StatusCompleted {
			c.entries.Add(key, result)
		}
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return models.PipelineResult{}, false, res.Err
		}
		return res.Val.(models.PipelineResult), false, nil
	case <-ctx.Done():
		return models.PipelineResult{}, false, ctx.Err()
	}
}

// Len returns the number of cached entries
func (c *ResponseCache) Len() int {
	return c.entries.Len()
}

// Purge drops all cached entries. Used when the corpus index is rebuilt.
func (c *ResponseCache) Purge() {
	c.entries.Purge()
}
