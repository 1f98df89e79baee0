package service

import (
	"fmt"
	"strings"

	"samvidhan-backend/models"
)

// GenerationRequest is the immutable input to one generation call
type GenerationRequest struct {
	SystemInstructions string
	ContextText        string
	UserQuery          string
}

// Disclaimer closes every answer, degraded ones included
const Disclaimer = "This is informational only and not legal advice. Consult a qualified lawyer for legal advice."

// BuildPrompt produces the generation request for a query over an assembled
// context. Deterministic: identical inputs always yield identical requests.
func BuildPrompt(query models.Query, context AssembledContext) GenerationRequest {
	return GenerationRequest{
		SystemInstructions: audienceInstructions(query.Audience),
		ContextText:        renderContext(context),
		UserQuery:          renderUserQuery(query),
	}
}

// audienceInstructions selects the instruction template for a closed audience
// enum. All three templates demand enumerated citations and a closing
// disclaimer sentence; they differ in depth, vocabulary and output structure.
func audienceInstructions(audience models.Audience) string {
	switch audience {
	case models.AudienceLegalProfessional:
		return `You are a constitutional law expert assisting an Indian legal professional.

Answer with full doctrinal depth:
- Cite every constitutional article by number (e.g., "Article 21") and name relevant parts (e.g., "Part III").
- Reference applicable statutes by section (e.g., "Section 383 IPC") and landmark case law with party names.
- Discuss interpretive history and competing readings where they exist.
- Structure the answer as: issue, governing provisions, analysis, conclusion.
- Enumerate all citations relied upon at the end of the answer.
- Close with exactly this sentence: "` + Disclaimer + `"`

	case models.AudienceStudent:
		return `You are a constitutional law teacher helping an Indian law student understand the Constitution.

Answer pedagogically:
- Cite constitutional articles by number (e.g., "Article 21") and explain what each cited article establishes.
- Define legal terms of art when first used.
- Connect the answer to the broader constitutional scheme (which Part, how it relates to neighboring provisions).
- Use numbered points for the main analysis and enumerate all citations at the end.
- Close with exactly this sentence: "` + Disclaimer + `"`

	default: // general public
		return `You are a constitutional law expert helping an Indian citizen understand their rights in plain language.

Answer accessibly:
- Avoid jargon; explain any legal term you must use.
- Still cite constitutional articles by number (e.g., "Article 21") so the citizen can look them up.
- Focus on what the citizen can practically do.
- Enumerate the citations you relied on at the end of the answer.
- Close with exactly this sentence: "` + Disclaimer + `"`
	}
}

// renderContext injects chunks verbatim, each labelled with its source
// reference so the model can echo the citation
func renderContext(context AssembledContext) string {
	if context.Empty() {
		return ""
	}
	var builder strings.Builder
	builder.WriteString("CONSTITUTIONAL CONTEXT:\n\n")
	for _, sc := range context.Chunks {
		ref := sc.Chunk.SourceReference
		if ref == "" {
			ref = "Constitution of India"
		}
		builder.WriteString(fmt.Sprintf("[%s]\n%s\n\n", ref, sc.Chunk.Text))
	}
	return strings.TrimRight(builder.String(), "\n")
}

// renderUserQuery frames the question, adding scenario-specific guidance for
// rights-advisory queries
func renderUserQuery(query models.Query) string {
	preamble := scenarioPreamble(query.Scenario)
	if preamble == "" {
		return "Question: " + query.Text
	}
	return preamble + "\n\nUser's situation: " + query.Text
}

// scenarioPreamble returns the advisory framing for each rights scenario
func scenarioPreamble(scenario models.Scenario) string {
	switch scenario {
	case models.ScenarioBribe:
		return `The user is facing a corruption or bribery situation. Cover their constitutional protections (especially Article 21), the Prevention of Corruption Act and relevant IPC provisions, how to report the demand, and what evidence to preserve.`
	case models.ScenarioThreat:
		return `The user is facing threats or intimidation. Cover Article 21 protection of life and personal liberty, IPC provisions on criminal intimidation, immediate safety steps, and how to obtain police protection.`
	case models.ScenarioHarassment:
		return `The user is facing harassment. Cover Article 21 (life with dignity) and Article 14 (equality), applicable IPC provisions, documentation of incidents, and available remedies.`
	case models.ScenarioOnlineHarassment:
		return `The user is facing online or cyber harassment. Cover Article 21 privacy and dignity in digital spaces, Information Technology Act and IPC provisions, preserving digital evidence (screenshots, URLs), and reporting channels.`
	case models.ScenarioWorkplace:
		return `The user is facing a workplace rights issue. Cover Article 19(1)(g) and Article 21 (livelihood with dignity), applicable labour legislation, internal grievance mechanisms, and remedies beyond the workplace.`
	case models.ScenarioOther:
		return `The user is facing a rights concern. Identify the fundamental rights from Part III that apply, the relevant legal framework, practical protective steps, and remedies including Article 32.`
	default:
		return ""
	}
}
