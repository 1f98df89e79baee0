package models

import "time"

// ResultStatus marks how a pipeline run ended
type ResultStatus string

const (
	StatusCompleted ResultStatus = "completed"
	StatusDegraded  ResultStatus = "degraded"
)

// SourceSnippet is a truncated view of a retrieved corpus chunk, returned so
// the presentation layer can show where an answer came from
type SourceSnippet struct {
	Reference  string  `json:"reference"`
	Snippet    string  `json:"snippet"`
	Similarity float64 `json:"similarity"`
}

// PipelineResult is the structured outcome of one answered query. Immutable
// once built; cached by normalized (query, audience, scenario) key.
type PipelineResult struct {
	Answer            string             `json:"answer"`
	Citations         []Citation         `json:"citations"`
	Confidence        float64            `json:"confidence"`
	Urgency           *UrgencyAssessment `json:"urgency,omitempty"`
	FollowUpQuestions []string           `json:"follow_up_questions,omitempty"`
	Sources           []SourceSnippet    `json:"sources,omitempty"`
	Disclaimer        string             `json:"disclaimer"`
	Status            ResultStatus       `json:"status"`
	ElapsedTime       time.Duration      `json:"elapsed_time"`
}
