package features

import (
	"regexp"
	"strings"
)

// certificationSpanRe matches "certif" with up to 40 letters, digits, spaces
// or hyphens around it, e.g. "AWS Certified Solutions Architect".
var certificationSpanRe = regexp.MustCompile(`(?i)[A-Za-z0-9\s-]{2,40}certif[A-Za-z0-9\s-]{0,40}`)

// Certifications returns certification spans followed by the indicator
// phrases found in text. Duplicates are dropped, first occurrence wins, and
// the list is capped at CertificationLimit.
func (e *Extractor) Certifications(text string) []string {
	result := make([]string, 0)
	seen := make(map[string]struct{})

	add := func(item string) bool {
		if item == "" {
			return true
		}
		if _, ok := seen[item]; ok {
			return true
		}
		seen[item] = struct{}{}
		result = append(result, item)
		return len(result) < CertificationLimit
	}

	for _, span := range certificationSpanRe.FindAllString(text, -1) {
		if !add(strings.TrimSpace(span)) {
			return result
		}
	}

	for _, indicator := range containedKeywords(strings.ToLower(text), e.vocab.CertificationIndicators) {
		if !add(indicator) {
			return result
		}
	}

	return result
}
