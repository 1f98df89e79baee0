package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// CorpusSource provides the chunked constitutional corpus documents that the
// index builder embeds and loads into Postgres. Keys are source-relative
// paths to chunk JSON files.
type CorpusSource interface {
	// List returns the keys of all chunk documents in the source
	List(ctx context.Context) ([]string, error)

	// Open retrieves one chunk document by key
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// SourceType represents the corpus source backend
type SourceType string

const (
	SourceTypeLocal SourceType = "local"
	SourceTypeS3    SourceType = "s3"
)

// SourceConfig holds configuration for a corpus source
type SourceConfig struct {
	Type         SourceType
	LocalPath    string // for local sources
	S3Bucket     string // for S3 sources
	S3Prefix     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewCorpusSource creates a corpus source based on configuration
func NewCorpusSource(cfg SourceConfig) (CorpusSource, error) {
	switch cfg.Type {
	case SourceTypeLocal:
		return NewLocalSource(cfg.LocalPath)
	case SourceTypeS3:
		return NewS3Source(cfg)
	default:
		return nil, fmt.Errorf("unknown corpus source type: %s", cfg.Type)
	}
}

// NewCorpusSourceFromEnv creates a corpus source from environment variables
func NewCorpusSourceFromEnv() (CorpusSource, error) {
	sourceType := os.Getenv("CORPUS_SOURCE")
	if sourceType == "" {
		sourceType = "local" // default for development
	}

	switch SourceType(sourceType) {
	case SourceTypeLocal:
		localPath := os.Getenv("CORPUS_LOCAL_PATH")
		if localPath == "" {
			localPath = "./corpus"
		}
		return NewLocalSource(localPath)

	case SourceTypeS3:
		cfg := SourceConfig{
			Type:         SourceTypeS3,
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Prefix:     os.Getenv("CORPUS_S3_PREFIX"),
			S3Region:     os.Getenv("AWS_REGION"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "ap-south-1"
		}
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 corpus source")
		}
		return NewS3Source(cfg)

	default:
		return nil, fmt.Errorf("unknown corpus source type: %s", sourceType)
	}
}
