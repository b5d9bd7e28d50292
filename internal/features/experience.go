package features

import (
	"regexp"
	"strconv"
)

var (
	// "5 years", "10+ years", "3 Years".
	yearsStatedRe = regexp.MustCompile(`(?i)(\d{1,2})\+?\s+years`)
	// "2015 - 2019", "2015-2019", "2015 to 2019", "2015 – 2019".
	yearRangeRe = regexp.MustCompile(`((?:19|20)\d{2})\s*[-–—to]+\s*((?:19|20)\d{2})`)
)

// YearsOfExperience returns the largest "N years" figure stated in text.
// Without one it falls back to the longest "YYYY - YYYY" range, and to 0
// when neither is present.
func YearsOfExperience(text string) float64 {
	stated := -1
	for _, m := range yearsStatedRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > stated {
			stated = n
		}
	}
	if stated >= 0 {
		return float64(stated)
	}

	span := 0
	for _, m := range yearRangeRe.FindAllStringSubmatch(text, -1) {
		from, errFrom := strconv.Atoi(m[1])
		to, errTo := strconv.Atoi(m[2])
		if errFrom != nil || errTo != nil {
			continue
		}
		if to-from > span {
			span = to - from
		}
	}

	return float64(span)
}
