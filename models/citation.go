package models

// CitationKind identifies the family of a legal citation
type CitationKind string

const (
	CitationConstitutionalArticle CitationKind = "constitutional_article"
	CitationStatute               CitationKind = "statute"
	CitationCaseLaw               CitationKind = "case_law"
	CitationOther                 CitationKind = "other"
)

// Citation is one legal reference extracted from a generated answer.
// ReferenceText is always a verbatim substring of the answer it was
// extracted from.
type Citation struct {
	Kind          CitationKind `json:"kind"`
	ReferenceText string       `json:"reference_text"`
	IsValid       bool         `json:"is_valid"`
}
