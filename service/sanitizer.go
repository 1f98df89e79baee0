package service

import (
	"regexp"
	"strings"
)

// dangerousPatterns are stripped from user text before it reaches retrieval
// or the prompt. The query is free text from the public internet; these
// fragments have no legitimate place in a legal question.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script[^>]*>[\s\S]*?</script>`),
	regexp.MustCompile(`(?i)<[^>]+>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on(?:error|load|click)\s*=`),
	regexp.MustCompile(`(?i)\b(?:union\s+select|drop\s+table|insert\s+into|delete\s+from)\b`),
	regexp.MustCompile(`(?i)\b(?:exec|eval)\s*\(`),
	regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f]"),
}

// SanitizeQueryText strips dangerous fragments and collapses whitespace.
// Legitimate legal text passes through unchanged apart from spacing.
func SanitizeQueryText(text string) string {
	for _, pattern := range dangerousPatterns {
		text = pattern.ReplaceAllString(text, " ")
	}
	return strings.Join(strings.Fields(text), " ")
}
