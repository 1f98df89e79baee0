package service

import (
	"strings"

	"samvidhan-backend/models"
)

// ScenarioClassifier grades the urgency of a rights scenario and recommends
// next steps. Classification looks only at the scenario and the user's own
// words, never at generated output, so it works even when generation degrades.
type ScenarioClassifier struct{}

// NewScenarioClassifier creates a classifier
func NewScenarioClassifier() *ScenarioClassifier {
	return &ScenarioClassifier{}
}

// emergencyKeywords escalate any scenario straight to emergency. These signal
// danger to life or an attack in progress.
var emergencyKeywords = []string{
	"kill", "murder", "weapon", "gun", "knife", "acid",
	"kidnap", "abduct", "right now", "happening now", "suicide",
}

// highKeywords escalate to high unless already emergency
var highKeywords = []string{
	"violence", "violent", "beat", "beaten", "hurt", "attack",
	"assault", "stalking", "stalker", "follow me", "following me",
	"child", "minor", "repeated", "again and again", "every day",
}

// baseUrgency is the floor urgency for each scenario before keyword
// escalation
func baseUrgency(scenario models.Scenario) models.UrgencyLevel {
	switch scenario {
	case models.ScenarioThreat:
		return models.UrgencyHigh
	case models.ScenarioHarassment, models.ScenarioOnlineHarassment:
		return models.UrgencyMedium
	case models.ScenarioBribe, models.ScenarioWorkplace:
		return models.UrgencyLow
	default:
		return models.UrgencyLow
	}
}

// scenarioActions returns the ordered recommended actions for a scenario
func scenarioActions(scenario models.Scenario) []models.ActionType {
	switch scenario {
	case models.ScenarioBribe:
		return []models.ActionType{
			models.ActionDocumentIncident,
			models.ActionCollectEvidence,
			models.ActionContactAuthorities,
		}
	case models.ScenarioThreat:
		return []models.ActionType{
			models.ActionCallPolice,
			models.ActionDocumentIncident,
			models.ActionLegalAid,
		}
	case models.ScenarioHarassment:
		return []models.ActionType{
			models.ActionDocumentIncident,
			models.ActionCollectEvidence,
			models.ActionContactAuthorities,
			models.ActionLegalAid,
		}
	case models.ScenarioOnlineHarassment:
		return []models.ActionType{
			models.ActionCollectEvidence,
			models.ActionDocumentIncident,
			models.ActionBlockAndReport,
			models.ActionContactAuthorities,
		}
	case models.ScenarioWorkplace:
		return []models.ActionType{
			models.ActionDocumentIncident,
			models.ActionContactAuthorities,
			models.ActionLegalAid,
		}
	default:
		return []models.ActionType{
			models.ActionDocumentIncident,
			models.ActionLegalAid,
		}
	}
}

// Classify returns nil for plain constitutional questions; scenario queries
// always get an assessment with at least one recommended action
func (c *ScenarioClassifier) Classify(query models.Query) *models.UrgencyAssessment {
	if query.Scenario == models.ScenarioNone {
		return nil
	}

	text := strings.ToLower(query.Text)
	level := baseUrgency(query.Scenario)

	if containsAny(text, highKeywords) && level != models.UrgencyEmergency {
		level = models.UrgencyHigh
	}
	if containsAny(text, emergencyKeywords) {
		level = models.UrgencyEmergency
	}

	actions := scenarioActions(query.Scenario)
	if level == models.UrgencyHigh || level == models.UrgencyEmergency {
		actions = prependAction(actions, models.ActionCallPolice)
	}

	return &models.UrgencyAssessment{
		Level:              level,
		RecommendedActions: actions,
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// prependAction puts action first, dropping any later duplicate
func prependAction(actions []models.ActionType, action models.ActionType) []models.ActionType {
	out := []models.ActionType{action}
	for _, a := range actions {
		if a != action {
			out = append(out, a)
		}
	}
	return out
}
