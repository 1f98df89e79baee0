package handlers

import (
	"net/http"

	"samvidhan-backend/models"
	"samvidhan-backend/service"

	"github.com/gin-gonic/gin"
)

// RightsHandler handles HTTP requests for rights-advisory scenarios
type RightsHandler struct {
	pipeline *service.RAGPipeline
}

// NewRightsHandler creates a new rights handler
func NewRightsHandler(pipeline *service.RAGPipeline) *RightsHandler {
	return &RightsHandler{pipeline: pipeline}
}

// RightsQueryRequest represents the request body for a rights scenario
type RightsQueryRequest struct {
	Situation string `json:"situation" binding:"required"`
	Scenario  string `json:"scenario" binding:"required"`
	UserType  string `json:"user_type"`
}

// QueryRights handles POST /api/rights/query
func (h *RightsHandler) QueryRights(c *gin.Context) {
	var req RightsQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	audience := models.Audience(req.UserType)
	if req.UserType == "" {
		audience = models.AudienceGeneralPublic
	}

	query := models.Query{
		Text:     req.Situation,
		Audience: audience,
		Scenario: models.Scenario(req.Scenario),
	}
	if query.Scenario == models.ScenarioNone {
		respondError(c, http.StatusBadRequest, "INVALID_SCENARIO", "scenario is required for rights queries")
		return
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

// RightsCategory describes one supported scenario for client menus
type RightsCategory struct {
	Scenario    models.Scenario `json:"scenario"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
}

// GetCategories handles GET /api/rights/categories
func (h *RightsHandler) GetCategories(c *gin.Context) {
	categories := []RightsCategory{
		{
			Scenario:    models.ScenarioBribe,
			Title:       "Bribery and Corruption",
			Description: "Someone is demanding a bribe or abusing an official position",
		},
		{
			Scenario:    models.ScenarioThreat,
			Title:       "Threats and Intimidation",
			Description: "You are being threatened, intimidated or blackmailed",
		},
		{
			Scenario:    models.ScenarioHarassment,
			Title:       "Harassment",
			Description: "You are facing repeated harassment in person",
		},
		{
			Scenario:    models.ScenarioOnlineHarassment,
			Title:       "Online Harassment",
			Description: "You are facing abuse, stalking or impersonation online",
		},
		{
			Scenario:    models.ScenarioWorkplace,
			Title:       "Workplace Rights",
			Description: "Issues with your employer, wages or working conditions",
		},
		{
			Scenario:    models.ScenarioOther,
			Title:       "Other Rights Concern",
			Description: "Any other situation where your rights may be affected",
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"categories": categories},
	})
}
