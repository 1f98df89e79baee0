package models

// Audience identifies who is asking, which drives prompt depth and vocabulary
type Audience string

const (
	AudienceGeneralPublic     Audience = "general_public"
	AudienceLegalProfessional Audience = "legal_professional"
	AudienceStudent           Audience = "student"
)

// Valid reports whether the audience is one of the known values
func (a Audience) Valid() bool {
	switch a {
	case AudienceGeneralPublic, AudienceLegalProfessional, AudienceStudent:
		return true
	}
	return false
}

// Scenario classifies a rights-advisory situation. Empty means a plain
// constitutional question with no advisory path.
type Scenario string

const (
	ScenarioNone             Scenario = ""
	ScenarioBribe            Scenario = "bribe"
	ScenarioThreat           Scenario = "threat"
	ScenarioHarassment       Scenario = "harassment"
	ScenarioOnlineHarassment Scenario = "online_harassment"
	ScenarioWorkplace        Scenario = "workplace"
	ScenarioOther            Scenario = "other"
)

// Valid reports whether the scenario is known (empty counts as valid)
func (s Scenario) Valid() bool {
	switch s {
	case ScenarioNone, ScenarioBribe, ScenarioThreat, ScenarioHarassment,
		ScenarioOnlineHarassment, ScenarioWorkplace, ScenarioOther:
		return true
	}
	return false
}

// Query is one incoming legal question
type Query struct {
	Text     string   `json:"text"`
	Audience Audience `json:"audience"`
	Scenario Scenario `json:"scenario,omitempty"`
}
