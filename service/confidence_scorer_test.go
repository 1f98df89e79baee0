package service

import (
	"testing"

	"samvidhan-backend/models"

	"github.com/stretchr/testify/assert"
)

func citation(ref string, valid bool) models.Citation {
	return models.Citation{
		Kind:          models.CitationConstitutionalArticle,
		ReferenceText: ref,
		IsValid:       valid,
	}
}

func TestScoreIsZeroWithNoSignals(t *testing.T) {
	scorer := NewConfidenceScorer()
	assert.Zero(t, scorer.Score(nil, AssembledContext{}, nil))
}

func TestScoreWithinUnitInterval(t *testing.T) {
	scorer := NewConfidenceScorer()

	retrieved := RetrievalResult{
		scored("Article 21", "text", 1.0),
		scored("Article 14", "text", 1.0),
		scored("Article 19", "text", 1.0),
	}
	context := AssembledContext{Chunks: retrieved}
	citations := []models.Citation{
		citation("Article 21", true),
		citation("Article 14", true),
		citation("Article 19", true),
	}

	score := scorer.Score(retrieved, context, citations)
	assert.Greater(t, score, 0.9)
	assert.LessOrEqual(t, score, 1.0)
}

func TestScoreIncreasesWithSimilarity(t *testing.T) {
	scorer := NewConfidenceScorer()
	citations := []models.Citation{citation("Article 21", true)}

	low := scorer.Score(
		RetrievalResult{scored("Article 21", "text", 0.4)},
		AssembledContext{Chunks: []ScoredChunk{scored("Article 21", "text", 0.4)}},
		citations,
	)
	high := scorer.Score(
		RetrievalResult{scored("Article 21", "text", 0.9)},
		AssembledContext{Chunks: []ScoredChunk{scored("Article 21", "text", 0.9)}},
		citations,
	)

	assert.Greater(t, high, low)
}

func TestScoreIncreasesWithCitationValidity(t *testing.T) {
	scorer := NewConfidenceScorer()
	retrieved := RetrievalResult{scored("Article 21", "text", 0.8)}
	context := AssembledContext{Chunks: retrieved}

	allInvalid := scorer.Score(retrieved, context, []models.Citation{
		citation("Article 21", false),
		citation("Article 999", false),
	})
	halfValid := scorer.Score(retrieved, context, []models.Citation{
		citation("Article 21", true),
		citation("Article 999", false),
	})
	allValid := scorer.Score(retrieved, context, []models.Citation{
		citation("Article 21", true),
		citation("Article 14", true),
	})

	assert.Greater(t, halfValid, allInvalid)
	assert.Greater(t, allValid, halfValid)
}

func TestScoreRewardsContextCoverage(t *testing.T) {
	scorer := NewConfidenceScorer()
	retrieved := RetrievalResult{
		scored("Article 21", "text", 0.8),
		scored("Article 14", "text", 0.8),
	}
	context := AssembledContext{Chunks: retrieved}

	// Valid citation from model memory, not from the assembled context.
	uncovered := scorer.Score(retrieved, context, []models.Citation{citation("Article 32", true)})
	covered := scorer.Score(retrieved, context, []models.Citation{citation("Article 21", true)})

	assert.Greater(t, covered, uncovered)
}

func TestScoreNoCitationsLowersScore(t *testing.T) {
	scorer := NewConfidenceScorer()
	retrieved := RetrievalResult{scored("Article 21", "text", 0.9)}
	context := AssembledContext{Chunks: retrieved}

	without := scorer.Score(retrieved, context, nil)
	with := scorer.Score(retrieved, context, []models.Citation{citation("Article 21", true)})

	assert.Greater(t, with, without)
	assert.InDelta(t, weightSimilarity*0.9, without, 1e-9)
}
