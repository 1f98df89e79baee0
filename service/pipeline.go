package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"samvidhan-backend/models"
)

// Query text bounds. Below the floor there is nothing to retrieve against;
// above the ceiling the query itself would crowd out the context budget.
const (
	minQueryLength = 5
	maxQueryLength = 2000
)

const snippetLength = 200

// RAGPipeline orchestrates one query end to end: validate, check cache,
// retrieve, assemble, generate, extract citations, score, classify. Provider
// failures degrade the result instead of failing the request; precondition
// failures fail fast.
type RAGPipeline struct {
	index    *VectorIndex
	embedder Embedder
	gateway  Gateway

	retriever  *Retriever
	assembler  *ContextAssembler
	extractor  *CitationExtractor
	scorer     *ConfidenceScorer
	classifier *ScenarioClassifier
	cache      *ResponseCache
	retrievalK int
}

// PipelineOption configures a RAGPipeline
type PipelineOption func(*RAGPipeline)

// PipelineWithIndex sets the corpus index
func PipelineWithIndex(index *VectorIndex) PipelineOption {
	return func(p *RAGPipeline) {
		p.index = index
	}
}

// PipelineWithEmbedder sets the query embedder
func PipelineWithEmbedder(embedder Embedder) PipelineOption {
	return func(p *RAGPipeline) {
		p.embedder = embedder
	}
}

// PipelineWithGateway sets the generation gateway
func PipelineWithGateway(gateway Gateway) PipelineOption {
	return func(p *RAGPipeline) {
		p.gateway = gateway
	}
}

// NewRAGPipeline wires the pipeline stages together. An embedder and a
// gateway are required; an empty index is allowed and makes every query fail
// with ErrIndexUnavailable until the index is built.
func NewRAGPipeline(cfg Config, opts ...PipelineOption) (*RAGPipeline, error) {
	p := &RAGPipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.embedder == nil {
		return nil, errors.New("pipeline requires an embedder")
	}
	if p.gateway == nil {
		return nil, errors.New("pipeline requires a generation gateway")
	}

	k := cfg.RetrievalK
	if k <= 0 {
		k = DefaultConfig().RetrievalK
	}
	cache, err := NewResponseCache(cfg)
	if err != nil {
		return nil, err
	}

	p.retriever = NewRetriever(p.index, p.embedder)
	p.assembler = NewContextAssembler(cfg)
	p.extractor = NewCitationExtractor(p.index)
	p.scorer = NewConfidenceScorer()
	p.classifier = NewScenarioClassifier()
	p.cache = cache
	p.retrievalK = k
	return p, nil
}

// Answer runs the full pipeline for a query. Returns an error only for
// precondition failures and context cancellation; provider-side faults come
// back as a degraded result with a nil error.
func (p *RAGPipeline) Answer(ctx context.Context, query models.Query) (models.PipelineResult, error) {
	query.Text = SanitizeQueryText(query.Text)
	if err := validateQuery(query); err != nil {
		return models.PipelineResult{}, err
	}

	result, cached, err := p.cache.GetOrCompute(ctx, query, func() (models.PipelineResult, error) {
		return p.run(ctx, query)
	})
	if err != nil {
		return models.PipelineResult{}, err
	}
	if cached {
		log.Printf("Cache hit for audience=%s scenario=%s", query.Audience, query.Scenario)
	}
	return result, nil
}

func (p *RAGPipeline) run(ctx context.Context, query models.Query) (models.PipelineResult, error) {
	start := time.Now()

	retrieved, err := p.retriever.Retrieve(ctx, query.Text, p.retrievalK)
	if err != nil {
		if errors.Is(err, ErrIndexUnavailable) || ctx.Err() != nil {
			return models.PipelineResult{}, err
		}
		// Embedding is a provider call too; treat its failure like a
		// generation failure.
		log.Printf("Warning: retrieval failed, degrading: %v", err)
		return p.degraded(query, start), nil
	}

	assembled := p.assembler.Assemble(retrieved)
	if assembled.Empty() {
		log.Printf("Warning: no chunks cleared the similarity floor for query (len=%d)", len(query.Text))
	}

	gen := p.gateway.Generate(ctx, BuildPrompt(query, assembled))
	if gen.ProviderError != nil {
		if errors.Is(gen.ProviderError, context.Canceled) {
			return models.PipelineResult{}, context.Canceled
		}
		log.Printf("Warning: generation failed after %v, degrading: %v", gen.Latency, gen.ProviderError)
		return p.degraded(query, start), nil
	}

	citations := p.extractor.Extract(gen.RawText)

	return models.PipelineResult{
		Answer:            gen.RawText,
		Citations:         citations,
		Confidence:        p.scorer.Score(retrieved, assembled, citations),
		Urgency:           p.classifier.Classify(query),
		FollowUpQuestions: followUpQuestions(query.Scenario),
		Sources:           sourceSnippets(assembled),
		Disclaimer:        Disclaimer,
		Status:            models.StatusCompleted,
		ElapsedTime:       time.Since(start),
	}, nil
}

// degraded builds the fallback result for provider failures. The urgency
// classification still runs because it depends only on the user's own text.
func (p *RAGPipeline) degraded(query models.Query, start time.Time) models.PipelineResult {
	return models.PipelineResult{
		Answer:      fallbackAnswer(query.Scenario),
		Citations:   nil,
		Confidence:  0,
		Urgency:     p.classifier.Classify(query),
		Disclaimer:  Disclaimer,
		Status:      models.StatusDegraded,
		ElapsedTime: time.Since(start),
	}
}

// validateQuery enforces the precondition checks before any provider call
func validateQuery(query models.Query) error {
	text := strings.TrimSpace(query.Text)
	if utf8.RuneCountInString(text) < minQueryLength {
		return ErrQueryTooShort
	}
	if utf8.RuneCountInString(text) > maxQueryLength {
		return ErrQueryTooLong
	}
	if !query.Audience.Valid() {
		return ErrInvalidAudience
	}
	if !query.Scenario.Valid() {
		return ErrInvalidScenario
	}
	return nil
}

// sourceSnippets truncates assembled chunks for the presentation layer
func sourceSnippets(assembled AssembledContext) []models.SourceSnippet {
	if assembled.Empty() {
		return nil
	}
	snippets := make([]models.SourceSnippet, 0, len(assembled.Chunks))
	for _, sc := range assembled.Chunks {
		ref := sc.Chunk.SourceReference
		if ref == "" {
			ref = "Constitution of India"
		}
		snippets = append(snippets, models.SourceSnippet{
			Reference:  ref,
			Snippet:    truncateSnippet(sc.Chunk.Text),
			Similarity: sc.Similarity,
		})
	}
	return snippets
}

func truncateSnippet(text string) string {
	if len(text) <= snippetLength {
		return text
	}
	cut := snippetLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

// followUpQuestions suggests what the user may want to ask next for each
// rights scenario. Plain constitutional questions get none.
func followUpQuestions(scenario models.Scenario) []string {
	switch scenario {
	case models.ScenarioBribe:
		return []string{
			"How do I file a complaint with the Anti-Corruption Bureau?",
			"What evidence should I collect before reporting a bribe demand?",
			"Can I be punished for reporting a bribe I was asked to pay?",
		}
	case models.ScenarioThreat:
		return []string{
			"How do I get police protection against threats?",
			"What is the punishment for criminal intimidation?",
			"Can I get a restraining order in India?",
		}
	case models.ScenarioHarassment:
		return []string{
			"How do I file an FIR for harassment?",
			"What should I document about each incident?",
			"Where can I get free legal aid?",
		}
	case models.ScenarioOnlineHarassment:
		return []string{
			"How do I report cyber harassment to the cyber cell?",
			"What digital evidence should I preserve?",
			"Can I remain anonymous when reporting online abuse?",
		}
	case models.ScenarioWorkplace:
		return []string{
			"What should I raise with my internal complaints committee?",
			"Can my employer retaliate against me for complaining?",
			"Which labour authority handles my kind of complaint?",
		}
	case models.ScenarioOther:
		return []string{
			"Which fundamental rights apply to my situation?",
			"How do I approach the courts under Article 32 or Article 226?",
			"Where can I get free legal aid?",
		}
	default:
		return nil
	}
}

// fallbackAnswer is the safe generic guidance returned when generation is
// unavailable. It stays deliberately general and points at offline help.
func fallbackAnswer(scenario models.Scenario) string {
	var b strings.Builder
	b.WriteString("The answering service is temporarily unavailable, so a specific answer could not be generated. ")

	switch scenario {
	case models.ScenarioBribe:
		b.WriteString("If someone is demanding a bribe, do not pay. Note the date, place, amount and person involved, keep any proof, and report the demand to the Anti-Corruption Bureau or the Central Vigilance Commission. ")
	case models.ScenarioThreat:
		b.WriteString("If you are being threatened and are in immediate danger, call the police at 112 right away. Keep a record of every threat, including dates and any messages. ")
	case models.ScenarioHarassment:
		b.WriteString("If you are being harassed, keep a written record of every incident and tell someone you trust. You can file a complaint at any police station, and the police cannot refuse to register it. ")
	case models.ScenarioOnlineHarassment:
		b.WriteString("If you are being harassed online, take screenshots before blocking the account, save URLs and message logs, and report the matter at cybercrime.gov.in or your local cyber cell. ")
	case models.ScenarioWorkplace:
		b.WriteString("For workplace issues, put your complaint in writing to your employer first and keep a copy. Labour authorities and legal aid services can help if the employer does not act. ")
	default:
		b.WriteString("The Constitution of India guarantees fundamental rights under Part III, including equality (Article 14) and protection of life and personal liberty (Article 21). ")
	}

	b.WriteString("For free legal help, contact your nearest District Legal Services Authority (NALSA helpline 15100). Please try again in a few minutes. ")
	b.WriteString(Disclaimer)
	return b.String()
}
