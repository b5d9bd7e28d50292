package features

import "strings"

// NoDomain is the label reported by a vocabulary without domains.
const NoDomain = ""

// DomainFit counts occurrences of every domain's keywords and returns the
// domain with the most hits, earlier domains winning ties, together with its
// share of all hits as a percentage.
//
// With no keyword hits at all the first domain wins with a fit of 0. When
// hint is non-empty and is contained in the winning domain's name, the fit is
// reported as 100.
func (e *Extractor) DomainFit(text, hint string) (string, float64) {
	if len(e.vocab.Domains) == 0 {
		return NoDomain, 0
	}

	low := strings.ToLower(text)

	best := e.vocab.Domains[0].Name
	bestCount := 0
	total := 0
	for _, domain := range e.vocab.Domains {
		count := 0
		for _, kw := range domain.Keywords {
			count += strings.Count(low, kw)
		}
		if count > bestCount {
			best = domain.Name
			bestCount = count
		}
		total += count
	}

	pct := 0.0
	if total > 0 {
		pct = round2(float64(bestCount) / float64(total) * 100)
	}

	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint != "" && strings.Contains(best, hint) {
		pct = 100
	}

	return best, pct
}
