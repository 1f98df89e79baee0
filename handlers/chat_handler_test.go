package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"samvidhan-backend/models"
	"samvidhan-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

type stubGateway struct {
	result service.GenerationResult
}

func (g stubGateway) Generate(ctx context.Context, req service.GenerationRequest) service.GenerationResult {
	return g.result
}

func testRouter(t *testing.T, chunks []models.CorpusChunk, gateway service.Gateway) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pipeline, err := service.NewRAGPipeline(
		service.Config{RetrievalK: 2, ContextTokenBudget: 1000, MinSimilarity: 0.1, CacheCapacity: 8},
		service.PipelineWithIndex(service.NewVectorIndex(chunks)),
		service.PipelineWithEmbedder(stubEmbedder{}),
		service.PipelineWithGateway(gateway),
	)
	require.NoError(t, err)

	chatHandler := NewChatHandler(pipeline)
	rightsHandler := NewRightsHandler(pipeline)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/chat/constitution", chatHandler.AskConstitution)
	api.GET("/chat/suggestions", chatHandler.GetSuggestions)
	api.POST("/rights/query", rightsHandler.QueryRights)
	api.GET("/rights/categories", rightsHandler.GetCategories)
	return r
}

func corpusChunks() []models.CorpusChunk {
	return []models.CorpusChunk{{
		ID:              uuid.New(),
		Text:            "No person shall be deprived of his life or personal liberty.",
		SourceReference: "Article 21",
		PartNumber:      "Part III",
		SectionType:     "article",
		Embedding:       []float32{1, 0},
	}}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAskConstitutionSuccess(t *testing.T) {
	router := testRouter(t, corpusChunks(), stubGateway{result: service.GenerationResult{
		RawText: "Article 21 protects your life and liberty. " + service.Disclaimer,
	}})

	w := postJSON(t, router, "/api/chat/constitution", ConstitutionChatRequest{
		Question: "What is Article 21?",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    models.PipelineResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.StatusCompleted, resp.Data.Status)
	assert.NotEmpty(t, resp.Data.Citations)
}

func TestAskConstitutionRejectsShortQuestion(t *testing.T) {
	router := testRouter(t, corpusChunks(), stubGateway{})

	w := postJSON(t, router, "/api/chat/constitution", ConstitutionChatRequest{Question: "hi"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "QUERY_TOO_SHORT", resp.Error.Code)
}

func TestAskConstitutionEmptyIndexIsUnavailable(t *testing.T) {
	router := testRouter(t, nil, stubGateway{})

	w := postJSON(t, router, "/api/chat/constitution", ConstitutionChatRequest{
		Question: "What is Article 21?",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetSuggestionsPerUserType(t *testing.T) {
	router := testRouter(t, corpusChunks(), stubGateway{})

	seen := make(map[string]bool)
	for _, userType := range []string{"general_public", "legal_professional", "student"} {
		req := httptest.NewRequest("GET", "/api/chat/suggestions?user_type="+userType, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		seen[w.Body.String()] = true
	}
	assert.Len(t, seen, 3)

	req := httptest.NewRequest("GET", "/api/chat/suggestions?user_type=alien", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryRightsDegradedStillAnswers(t *testing.T) {
	router := testRouter(t, corpusChunks(), stubGateway{result: service.GenerationResult{
		ProviderError: service.ErrProviderTimeout,
	}})

	w := postJSON(t, router, "/api/rights/query", RightsQueryRequest{
		Situation: "An officer is demanding money to file my complaint",
		Scenario:  "bribe",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    models.PipelineResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.StatusDegraded, resp.Data.Status)
	assert.Zero(t, resp.Data.Confidence)
	require.NotNil(t, resp.Data.Urgency)
}

func TestQueryRightsUnknownScenario(t *testing.T) {
	router := testRouter(t, corpusChunks(), stubGateway{})

	w := postJSON(t, router, "/api/rights/query", RightsQueryRequest{
		Situation: "Something happened to me yesterday",
		Scenario:  "kidnapping",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCategoriesListsAllScenarios(t *testing.T) {
	router := testRouter(t, corpusChunks(), stubGateway{})

	req := httptest.NewRequest("GET", "/api/rights/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Categories []RightsCategory `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data.Categories, 6)
}
