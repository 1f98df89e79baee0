package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"samvidhan-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheQuery(text string) models.Query {
	return models.Query{
		Text:     text,
		Audience: models.AudienceGeneralPublic,
		Scenario: models.ScenarioNone,
	}
}

func completedResult(answer string) models.PipelineResult {
	return models.PipelineResult{
		Answer:     answer,
		Disclaimer: Disclaimer,
		Status:     models.StatusCompleted,
	}
}

func TestCacheKeyNormalization(t *testing.T) {
	a := CacheKey(cacheQuery("What is Article 21?"))
	b := CacheKey(cacheQuery("  what IS   article 21? "))
	assert.Equal(t, a, b)

	other := models.Query{
		Text:     "What is Article 21?",
		Audience: models.AudienceStudent,
		Scenario: models.ScenarioNone,
	}
	assert.NotEqual(t, a, CacheKey(other))
}

func TestCacheReturnsStoredResult(t *testing.T) {
	cache, err := NewResponseCache(Config{CacheCapacity: 4})
	require.NoError(t, err)

	calls := 0
	compute := func() (models.PipelineResult, error) {
		calls++
		return completedResult("answer"), nil
	}

	first, hit, err := cache.GetOrCompute(context.Background(), cacheQuery("what is article 21"), compute)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := cache.GetOrCompute(context.Background(), cacheQuery("What is Article 21"), compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCacheDoesNotStoreDegradedResults(t *testing.T) {
	cache, err := NewResponseCache(Config{CacheCapacity: 4})
	require.NoError(t, err)

	calls := 0
	compute := func() (models.PipelineResult, error) {
		calls++
		return models.PipelineResult{
			Answer:     "service unavailable",
			Disclaimer: Disclaimer,
			Status:     models.StatusDegraded,
		}, nil
	}

	_, _, err = cache.GetOrCompute(context.Background(), cacheQuery("what is article 21"), compute)
	require.NoError(t, err)
	_, hit, err := cache.GetOrCompute(context.Background(), cacheQuery("what is article 21"), compute)
	require.NoError(t, err)

	assert.False(t, hit)
	assert.Equal(t, 2, calls)
	assert.Zero(t, cache.Len())
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache, err := NewResponseCache(Config{CacheCapacity: 2})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		q := cacheQuery(fmt.Sprintf("question number %d", i))
		_, _, err := cache.GetOrCompute(context.Background(), q, func() (models.PipelineResult, error) {
			return completedResult("answer"), nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, cache.Len())

	// The oldest entry is gone and recomputes.
	calls := 0
	_, hit, err := cache.GetOrCompute(context.Background(), cacheQuery("question number 0"), func() (models.PipelineResult, error) {
		calls++
		return completedResult("answer"), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, calls)
}

func TestCacheCollapsesConcurrentIdenticalQueries(t *testing.T) {
	cache, err := NewResponseCache(Config{CacheCapacity: 4})
	require.NoError(t, err)

	var calls atomic.Int64
	release := make(chan struct{})
	compute := func() (models.PipelineResult, error) {
		calls.Add(1)
		<-release
		return completedResult("answer"), nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]models.PipelineResult, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = cache.GetOrCompute(context.Background(), cacheQuery("what is article 21"), compute)
		}(i)
	}

	// Let all workers reach the singleflight group before the computation
	// finishes.
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "answer", results[i].Answer)
	}
}

func TestCacheHonorsContextCancellation(t *testing.T) {
	cache, err := NewResponseCache(Config{CacheCapacity: 4})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = cache.GetOrCompute(ctx, cacheQuery("what is article 21"), func() (models.PipelineResult, error) {
		time.Sleep(100 * time.Millisecond)
		return completedResult("answer"), nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCachePurge(t *testing.T) {
	cache, err := NewResponseCache(Config{CacheCapacity: 4})
	require.NoError(t, err)

	_, _, err = cache.GetOrCompute(context.Background(), cacheQuery("what is article 21"), func() (models.PipelineResult, error) {
		return completedResult("answer"), nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	cache.Purge()
	assert.Zero(t, cache.Len())
}
