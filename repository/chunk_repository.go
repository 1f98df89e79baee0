package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"samvidhan-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChunkRepository handles database operations for constitutional corpus chunks
type ChunkRepository struct {
	db *pgxpool.Pool
}

// NewChunkRepository creates a new chunk repository
func NewChunkRepository(db *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// formatVector formats an embedding vector as a string for pgx
func formatVector(embedding []float32) string {
	if len(embedding) == 0 {
		return "[]"
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// parseVector parses a pgvector text representation back into a slice
func parseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	values := make([]float32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", f, err)
		}
		values = append(values, float32(v))
	}
	return values, nil
}

// Insert stores a single corpus chunk with its embedding
func (r *ChunkRepository) Insert(ctx context.Context, chunk *models.CorpusChunk) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO constitution_chunks (
			id, source_reference, part_number, section_type,
			chunk_index, chunk_text, metadata, embedding
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::vector)`,
		chunk.ID,
		chunk.SourceReference,
		chunk.PartNumber,
		chunk.SectionType,
		chunk.ChunkIndex,
		chunk.Text,
		chunk.Metadata,
		formatVector(chunk.Embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to insert corpus chunk: %w", err)
	}
	return nil
}

// LoadAll reads the full corpus ordered by (source_reference, chunk_index),
// the table's unique key, so the index sees the same order on every restart.
// The result is loaded into the in-memory vector index once at startup and
// never re-read afterwards.
func (r *ChunkRepository) LoadAll(ctx context.Context) ([]models.CorpusChunk, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			source_reference,
			part_number,
			section_type,
			chunk_index,
			chunk_text,
			metadata,
			embedding::text
		FROM constitution_chunks
		ORDER BY source_reference, chunk_index`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.CorpusChunk
	for rows.Next() {
		var chunk models.CorpusChunk
		var embeddingText string
		err := rows.Scan(
			&chunk.ID,
			&chunk.SourceReference,
			&chunk.PartNumber,
			&chunk.SectionType,
			&chunk.ChunkIndex,
			&chunk.Text,
			&chunk.Metadata,
			&embeddingText,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan corpus chunk: %w", err)
		}
		chunk.Embedding, err = parseVector(embeddingText)
		if err != nil {
			return nil, fmt.Errorf("failed to parse embedding for chunk %s: %w", chunk.ID, err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating corpus chunks: %w", err)
	}

	return chunks, nil
}

// Count returns the number of indexed chunks
func (r *ChunkRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM constitution_chunks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count corpus chunks: %w", err)
	}
	return count, nil
}

// CountBySource returns how many chunks one source document contributed
func (r *ChunkRepository) CountBySource(ctx context.Context, sourceDocument string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM constitution_chunks WHERE metadata->>'source_document' = $1",
		sourceDocument).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks for %s: %w", sourceDocument, err)
	}
	return count, nil
}

// DeleteBySource removes all chunks from one source document so the indexer
// can re-process it
func (r *ChunkRepository) DeleteBySource(ctx context.Context, sourceDocument string) error {
	_, err := r.db.Exec(ctx,
		"DELETE FROM constitution_chunks WHERE metadata->>'source_document' = $1",
		sourceDocument)
	if err != nil {
		return fmt.Errorf("failed to delete chunks for %s: %w", sourceDocument, err)
	}
	return nil
}
