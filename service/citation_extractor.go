package service

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"samvidhan-backend/models"
)

// Articles of the Constitution of India are numbered 1 through 395 (letter
// suffixes like 21A were inserted by amendment).
const (
	minArticleNumber = 1
	maxArticleNumber = 395
)

// citationRule is one (pattern, kind, validator) entry in the extraction
// chain. Rules are evaluated in precedence order; a later rule never claims
// text already matched by an earlier one. Adding a citation kind is a data
// change here, not a control-flow change.
type citationRule struct {
	kind      models.CitationKind
	pattern   *regexp.Regexp
	normalize func(groups []string) string
	validate  func(groups []string, index *VectorIndex) bool
}

var citationRules = []citationRule{
	{
		kind:    models.CitationConstitutionalArticle,
		pattern: regexp.MustCompile(`(?i)\b(?:Article|Art\.?)\s+(\d{1,3})([A-Za-z])?\b`),
		normalize: func(groups []string) string {
			return "article " + groups[1] + strings.ToLower(groups[2])
		},
		validate: func(groups []string, index *VectorIndex) bool {
			num, err := strconv.Atoi(groups[1])
			if err != nil || num < minArticleNumber || num > maxArticleNumber {
				return false
			}
			ref := "Article " + groups[1] + strings.ToUpper(groups[2])
			return index.HasReference(ref)
		},
	},
	{
		kind: models.CitationStatute,
		pattern: regexp.MustCompile(`(?i)\bSection\s+(\d+)(?:\s+of)?(?:\s+the)?\s+` +
			`(Indian\s+Penal\s+Code|IPC|Information\s+Technology\s+Act|IT\s+Act|Criminal\s+Procedure\s+Code|CrPC)\b`),
		normalize: func(groups []string) string {
			return "section " + groups[1] + " " + canonicalStatute(groups[2])
		},
		validate: func(groups []string, index *VectorIndex) bool {
			num, err := strconv.Atoi(groups[1])
			return err == nil && num > 0
		},
	},
	{
		kind: models.CitationCaseLaw,
		pattern: regexp.MustCompile(`\b([A-Z][A-Za-z.]*(?:\s+(?:of\s+)?[A-Z][A-Za-z.]*)*)` +
			`\s+v(?:s)?\.?\s+` +
			`([A-Z][A-Za-z.]*(?:\s+(?:of\s+)?[A-Z][A-Za-z.]*)*)(?:\s+\((\d{4})\))?`),
		normalize: func(groups []string) string {
			return strings.ToLower(strings.Join(strings.Fields(groups[1]), " ") +
				" v " + strings.Join(strings.Fields(groups[2]), " "))
		},
		validate: func(groups []string, index *VectorIndex) bool {
			// Both party names are required by the pattern itself.
			return groups[1] != "" && groups[2] != ""
		},
	},
}

// canonicalStatute collapses long and short statute names to one form so
// "Section 66 IT Act" and "Section 66 of the Information Technology Act"
// deduplicate
func canonicalStatute(name string) string {
	switch strings.ToLower(strings.Join(strings.Fields(name), " ")) {
	case "indian penal code", "ipc":
		return "ipc"
	case "information technology act", "it act":
		return "it act"
	case "criminal procedure code", "crpc":
		return "crpc"
	}
	return strings.ToLower(name)
}

// CitationExtractor parses generated answers for legal citations and
// validates them against corpus metadata
type CitationExtractor struct {
	index *VectorIndex
}

// NewCitationExtractor creates an extractor backed by the corpus index
func NewCitationExtractor(index *VectorIndex) *CitationExtractor {
	return &CitationExtractor{index: index}
}

type citationMatch struct {
	start, end int
	citation   models.Citation
	normalized string
}

// Extract scans raw text for citations. Zero matches yields an empty slice,
// never an error; the orchestrator treats that as a low-confidence signal.
// Citations are deduplicated by normalized reference, preserving first-seen
// order, and every ReferenceText is a verbatim substring of rawText.
func (e *CitationExtractor) Extract(rawText string) []models.Citation {
	if rawText == "" {
		return nil
	}

	var matches []citationMatch
	for _, rule := range citationRules {
		for _, loc := range rule.pattern.FindAllStringSubmatchIndex(rawText, -1) {
			if overlapsAny(matches, loc[0], loc[1]) {
				continue
			}
			groups := submatchStrings(rawText, loc)
			matches = append(matches, citationMatch{
				start: loc[0],
				end:   loc[1],
				citation: models.Citation{
					Kind:          rule.kind,
					ReferenceText: rawText[loc[0]:loc[1]],
					IsValid:       rule.validate(groups, e.index),
				},
				normalized: rule.normalize(groups),
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	seen := make(map[string]struct{}, len(matches))
	citations := make([]models.Citation, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m.normalized]; dup {
			continue
		}
		seen[m.normalized] = struct{}{}
		citations = append(citations, m.citation)
	}
	return citations
}

// NormalizedReference returns the dedup key for a citation, used by the
// confidence scorer to match citations to retrieved chunk references
func NormalizedReference(c models.Citation) string {
	for _, rule := range citationRules {
		if rule.kind != c.Kind {
			continue
		}
		loc := rule.pattern.FindStringSubmatchIndex(c.ReferenceText)
		if loc == nil || loc[0] != 0 {
			continue
		}
		return rule.normalize(submatchStrings(c.ReferenceText, loc))
	}
	return NormalizeReference(c.ReferenceText)
}

func overlapsAny(matches []citationMatch, start, end int) bool {
	for _, m := range matches {
		if start < m.end && end > m.start {
			return true
		}
	}
	return false
}

func submatchStrings(text string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := 0; i < len(loc)/2; i++ {
		if loc[2*i] < 0 {
			groups[i] = ""
			continue
		}
		groups[i] = text[loc[2*i]:loc[2*i+1]]
	}
	return groups
}
