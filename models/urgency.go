package models

// UrgencyLevel grades how quickly a rights scenario needs attention
type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "low"
	UrgencyMedium    UrgencyLevel = "medium"
	UrgencyHigh      UrgencyLevel = "high"
	UrgencyEmergency UrgencyLevel = "emergency"
)

// ActionType is a recommended step for a rights scenario
type ActionType string

const (
	ActionDocumentIncident   ActionType = "document_incident"
	ActionCollectEvidence    ActionType = "collect_evidence"
	ActionCallPolice         ActionType = "call_police"
	ActionContactAuthorities ActionType = "contact_authorities"
	ActionLegalAid           ActionType = "legal_aid"
	ActionBlockAndReport     ActionType = "block_report"
)

// UrgencyAssessment is the advisory classification attached to scenario
// queries. RecommendedActions is ordered and never empty.
type UrgencyAssessment struct {
	Level              UrgencyLevel `json:"level"`
	RecommendedActions []ActionType `json:"recommended_actions"`
}
