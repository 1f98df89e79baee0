package service

import (
	"testing"

	"samvidhan-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPlainQuestionHasNoAssessment(t *testing.T) {
	classifier := NewScenarioClassifier()

	assessment := classifier.Classify(models.Query{
		Text:     "What does Article 14 guarantee?",
		Audience: models.AudienceGeneralPublic,
		Scenario: models.ScenarioNone,
	})
	assert.Nil(t, assessment)
}

func TestClassifyThreatWithDangerKeywordIsEmergency(t *testing.T) {
	classifier := NewScenarioClassifier()

	assessment := classifier.Classify(models.Query{
		Text:     "My neighbour said he will kill me if I go to the police",
		Audience: models.AudienceGeneralPublic,
		Scenario: models.ScenarioThreat,
	})
	require.NotNil(t, assessment)
	assert.Equal(t, models.UrgencyEmergency, assessment.Level)
	require.NotEmpty(t, assessment.RecommendedActions)
	assert.Equal(t, models.ActionCallPolice, assessment.RecommendedActions[0])
}

func TestClassifyBribeWithoutEscalationStaysLow(t *testing.T) {
	classifier := NewScenarioClassifier()

	assessment := classifier.Classify(models.Query{
		Text:     "A clerk asked me for 100 rupees to process my ration card",
		Audience: models.AudienceGeneralPublic,
		Scenario: models.ScenarioBribe,
	})
	require.NotNil(t, assessment)
	assert.Equal(t, models.UrgencyLow, assessment.Level)
	assert.Contains(t, assessment.RecommendedActions, models.ActionDocumentIncident)
}

func TestClassifyHarassmentEscalatesOnViolenceKeyword(t *testing.T) {
	classifier := NewScenarioClassifier()

	assessment := classifier.Classify(models.Query{
		Text:     "He became violent yesterday and I am scared",
		Audience: models.AudienceGeneralPublic,
		Scenario: models.ScenarioHarassment,
	})
	require.NotNil(t, assessment)
	assert.Equal(t, models.UrgencyHigh, assessment.Level)

	// High urgency puts calling the police first even for scenarios whose
	// base action list does not include it.
	require.NotEmpty(t, assessment.RecommendedActions)
	assert.Equal(t, models.ActionCallPolice, assessment.RecommendedActions[0])
}

func TestClassifyOnlineHarassmentRecommendsBlockAndReport(t *testing.T) {
	classifier := NewScenarioClassifier()

	assessment := classifier.Classify(models.Query{
		Text:     "Someone keeps posting my photos on social media",
		Audience: models.AudienceGeneralPublic,
		Scenario: models.ScenarioOnlineHarassment,
	})
	require.NotNil(t, assessment)
	assert.Equal(t, models.UrgencyMedium, assessment.Level)
	assert.Contains(t, assessment.RecommendedActions, models.ActionBlockAndReport)
	assert.Contains(t, assessment.RecommendedActions, models.ActionCollectEvidence)
}

func TestClassifyEveryScenarioHasActions(t *testing.T) {
	classifier := NewScenarioClassifier()
	scenarios := []models.Scenario{
		models.ScenarioBribe,
		models.ScenarioThreat,
		models.ScenarioHarassment,
		models.ScenarioOnlineHarassment,
		models.ScenarioWorkplace,
		models.ScenarioOther,
	}

	for _, scenario := range scenarios {
		assessment := classifier.Classify(models.Query{
			Text:     "describe my situation",
			Audience: models.AudienceGeneralPublic,
			Scenario: scenario,
		})
		require.NotNil(t, assessment, "scenario %s", scenario)
		assert.NotEmpty(t, assessment.RecommendedActions, "scenario %s", scenario)
	}
}

func TestClassifyEmergencyActionsHaveNoDuplicates(t *testing.T) {
	classifier := NewScenarioClassifier()

	// Threat already recommends calling the police; escalation must not
	// produce it twice.
	assessment := classifier.Classify(models.Query{
		Text:     "He showed me a knife",
		Audience: models.AudienceGeneralPublic,
		Scenario: models.ScenarioThreat,
	})
	require.NotNil(t, assessment)
	assert.Equal(t, models.UrgencyEmergency, assessment.Level)

	seen := make(map[models.ActionType]int)
	for _, a := range assessment.RecommendedActions {
		seen[a]++
	}
	for action, n := range seen {
		assert.Equal(t, 1, n, "action %s repeated", action)
	}
}
