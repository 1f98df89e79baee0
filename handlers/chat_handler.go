package handlers

import (
	"errors"
	"net/http"

	"samvidhan-backend/models"
	"samvidhan-backend/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles HTTP requests for constitutional questions
type ChatHandler struct {
	pipeline *service.RAGPipeline
}

// NewChatHandler creates a new chat handler
func NewChatHandler(pipeline *service.RAGPipeline) *ChatHandler {
	return &ChatHandler{pipeline: pipeline}
}

// ConstitutionChatRequest represents the request body for a constitutional
// question
type ConstitutionChatRequest struct {
	Question string `json:"question" binding:"required"`
	UserType string `json:"user_type"`
}

// AskConstitution handles POST /api/chat/constitution
func (h *ChatHandler) AskConstitution(c *gin.Context) {
	var req ConstitutionChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	audience := models.Audience(req.UserType)
	if req.UserType == "" {
		audience = models.AudienceGeneralPublic
	}

	query := models.Query{
		Text:     req.Question,
		Audience: audience,
		Scenario: models.ScenarioNone,
	}

	result, err := h.pipeline.Answer(c.Request.Context(), query)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// SuggestionsResponse groups suggested starter questions by theme
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// GetSuggestions handles GET /api/chat/suggestions. The list is tailored to
// the optional user_type query parameter.
func (h *ChatHandler) GetSuggestions(c *gin.Context) {
	audience := models.Audience(c.Query("user_type"))
	if audience == "" {
		audience = models.AudienceGeneralPublic
	}
	if !audience.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_USER_TYPE", "Unknown user_type")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    SuggestionsResponse{Suggestions: suggestionsFor(audience)},
	})
}

func suggestionsFor(audience models.Audience) []string {
	switch audience {
	case models.AudienceLegalProfessional:
		return []string{
			"What is the basic structure doctrine and which provisions does it protect?",
			"How has Article 21 been expanded through judicial interpretation?",
			"What is the relationship between Fundamental Rights and Directive Principles?",
			"Under what conditions can Article 356 be invoked?",
			"How does Article 13 treat pre-constitutional laws?",
		}
	case models.AudienceStudent:
		return []string{
			"What are the Fundamental Rights in Part III of the Constitution?",
			"What is the difference between Article 32 and Article 226?",
			"What does Article 14 guarantee and what are its exceptions?",
			"How can the Constitution be amended under Article 368?",
			"What are the Directive Principles of State Policy?",
		}
	default:
		return []string{
			"What are my fundamental rights as an Indian citizen?",
			"What can I do if the police refuse to register my complaint?",
			"What is the Right to Education?",
			"Can I practice any religion I choose?",
			"What does the right to equality mean for me?",
		}
	}
}

// respondError writes the standard error envelope
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondPipelineError maps pipeline errors onto HTTP statuses. Precondition
// failures are the caller's fault; an unloaded index is a service-side 503.
func respondPipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQueryTooShort):
		respondError(c, http.StatusBadRequest, "QUERY_TOO_SHORT", err.Error())
	case errors.Is(err, service.ErrQueryTooLong):
		respondError(c, http.StatusBadRequest, "QUERY_TOO_LONG", err.Error())
	case errors.Is(err, service.ErrInvalidAudience):
		respondError(c, http.StatusBadRequest, "INVALID_USER_TYPE", err.Error())
	case errors.Is(err, service.ErrInvalidScenario):
		respondError(c, http.StatusBadRequest, "INVALID_SCENARIO", err.Error())
	case errors.Is(err, service.ErrIndexUnavailable):
		respondError(c, http.StatusServiceUnavailable, "INDEX_UNAVAILABLE", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "PIPELINE_FAILED", err.Error())
	}
}
