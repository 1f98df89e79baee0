package service

import (
	"samvidhan-backend/models"
)

// Confidence blends three [0,1] signals. The weights are tunable constants;
// they favor retrieval quality, then citation validity, then coverage.
const (
	weightSimilarity    = 0.50
	weightCitationValid = 0.35
	weightCoverage      = 0.15

	// topSimilarityCount is how many of the best retrieval scores feed the
	// similarity signal.
	topSimilarityCount = 3
)

// ConfidenceScorer derives a single [0,1] confidence score for an answer
type ConfidenceScorer struct{}

// NewConfidenceScorer creates a scorer
func NewConfidenceScorer() *ConfidenceScorer {
	return &ConfidenceScorer{}
}

// Score computes confidence from retrieval similarity, citation validity and
// how much of the assembled context the answer actually cites. No retrieval
// hits or no citations both drive the score down, never to an error.
func (s *ConfidenceScorer) Score(retrieved RetrievalResult, context AssembledContext, citations []models.Citation) float64 {
	score := weightSimilarity*meanTopSimilarity(retrieved) +
		weightCitationValid*citationValidity(citations) +
		weightCoverage*contextCoverage(context, citations)
	return clamp01(score)
}

// meanTopSimilarity averages the strongest retrieval scores. Retrieval
// results arrive sorted descending, so the head of the slice is the top.
func meanTopSimilarity(retrieved RetrievalResult) float64 {
	if len(retrieved) == 0 {
		return 0
	}
	n := topSimilarityCount
	if len(retrieved) < n {
		n = len(retrieved)
	}
	var sum float64
	for _, sc := range retrieved[:n] {
		sum += sc.Similarity
	}
	return sum / float64(n)
}

// citationValidity is the fraction of extracted citations that validated.
// An answer with no citations at all scores zero on this factor.
func citationValidity(citations []models.Citation) float64 {
	if len(citations) == 0 {
		return 0
	}
	valid := 0
	for _, c := range citations {
		if c.IsValid {
			valid++
		}
	}
	return float64(valid) / float64(len(citations))
}

// contextCoverage is the fraction of assembled context references that the
// answer cited back. It rewards answers grounded in the retrieved material
// over answers citing from model memory.
func contextCoverage(context AssembledContext, citations []models.Citation) float64 {
	if context.Empty() {
		return 0
	}

	cited := make(map[string]struct{}, len(citations))
	for _, c := range citations {
		if !c.IsValid {
			continue
		}
		cited[NormalizedReference(c)] = struct{}{}
	}

	refs := make(map[string]struct{}, len(context.Chunks))
	for _, sc := range context.Chunks {
		if ref := NormalizeReference(sc.Chunk.SourceReference); ref != "" {
			refs[ref] = struct{}{}
		}
	}
	if len(refs) == 0 {
		return 0
	}

	covered := 0
	for ref := range refs {
		if _, ok := cited[ref]; ok {
			covered++
		}
	}
	return float64(covered) / float64(len(refs))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
