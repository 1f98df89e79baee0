package service

// AssembledContext is the deduplicated, budget-bounded slice of retrieved
// chunks handed to the prompt builder. It references chunks, it does not copy
// their text.
type AssembledContext struct {
	Chunks     []ScoredChunk
	TokenCount int
}

// Empty reports whether nothing cleared the similarity floor. Callers treat
// this as a low-confidence signal, not an error.
func (c AssembledContext) Empty() bool {
	return len(c.Chunks) == 0
}

// ContextAssembler bounds retrieved chunks into a token budget
type ContextAssembler struct {
	TokenBudget   int
	MinSimilarity float64
}

// NewContextAssembler creates an assembler with the configured budget and floor
func NewContextAssembler(cfg Config) *ContextAssembler {
	def := DefaultConfig()
	if cfg.ContextTokenBudget <= 0 {
		cfg.ContextTokenBudget = def.ContextTokenBudget
	}
	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = def.MinSimilarity
	}
	return &ContextAssembler{
		TokenBudget:   cfg.ContextTokenBudget,
		MinSimilarity: cfg.MinSimilarity,
	}
}

// Assemble walks chunks in descending similarity order, skipping chunks whose
// source reference was already included (overlapping index windows make
// same-article duplicates common) and stopping before the budget would be
// exceeded. Relevance order is preserved.
func (a *ContextAssembler) Assemble(result RetrievalResult) AssembledContext {
	var assembled AssembledContext
	seen := make(map[string]struct{})

	for _, sc := range result {
		if sc.Similarity < a.MinSimilarity {
			continue
		}
		ref := NormalizeReference(sc.Chunk.SourceReference)
		if ref != "" {
			if _, dup := seen[ref]; dup {
				continue
			}
		}
		tokens := estimateTokens(sc.Chunk.Text)
		if assembled.TokenCount+tokens > a.TokenBudget {
			break
		}
		if ref != "" {
			seen[ref] = struct{}{}
		}
		assembled.Chunks = append(assembled.Chunks, sc)
		assembled.TokenCount += tokens
	}

	return assembled
}

// estimateTokens approximates token count as chars/4, the same rough ratio
// used to cap prompt length before a generation call
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}
