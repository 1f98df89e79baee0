package service

import (
	"os"
	"strconv"
	"time"
)

// Config holds the engine tunables. Zero values are replaced by defaults in
// the constructors that consume them.
type Config struct {
	RetrievalK         int           // chunks fetched per query
	ContextTokenBudget int           // cap on assembled context size
	MinSimilarity      float64       // floor below which chunks are dropped
	GenerationTimeout  time.Duration // cap on one generation call
	CacheCapacity      int           // LRU entry bound
}

// DefaultConfig returns the tunables used when nothing is configured
func DefaultConfig() Config {
	return Config{
		RetrievalK:         5,
		ContextTokenBudget: 3000,
		MinSimilarity:      0.25,
		GenerationTimeout:  120 * time.Second,
		CacheCapacity:      128,
	}
}

// ConfigFromEnv reads overrides from the environment, falling back to defaults
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := envInt("RETRIEVAL_K"); v > 0 {
		cfg.RetrievalK = v
	}
	if v := envInt("CONTEXT_TOKEN_BUDGET"); v > 0 {
		cfg.ContextTokenBudget = v
	}
	if v := os.Getenv("MIN_SIMILARITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.MinSimilarity = f
		}
	}
	if v := envInt("GENERATION_TIMEOUT_SECONDS"); v > 0 {
		cfg.GenerationTimeout = time.Duration(v) * time.Second
	}
	if v := envInt("CACHE_CAPACITY"); v > 0 {
		cfg.CacheCapacity = v
	}
	return cfg
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
