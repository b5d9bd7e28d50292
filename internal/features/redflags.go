package features

import (
	"regexp"
	"strings"
)

// Red flag identifiers.
const (
	FlagVeryShortResume       = "very_short_resume"
	FlagPossibleJobHopping    = "possible_job_hopping"
	FlagSuspiciousEmailDomain = "suspicious_email_domain"
	FlagUnrealisticExperience = "unrealistic_experience"
)

const (
	minResumeWords         = 80
	jobHoppingYearMentions = 4
	maxRealisticYears      = 50
)

var (
	fourDigitRe = regexp.MustCompile(`\d{4}`)
	emailRe     = regexp.MustCompile(`[\w.-]+@[\w.-]+`)
)

// RedFlags returns the warning signals raised by text, each at most once, in
// a fixed order: length, job hopping, e-mail domain, experience.
func (e *Extractor) RedFlags(text string) []string {
	flags := make([]string, 0)

	if len(strings.Fields(text)) < minResumeWords {
		flags = append(flags, FlagVeryShortResume)
	}

	if len(fourDigitRe.FindAllStringIndex(text, -1)) >= jobHoppingYearMentions {
		flags = append(flags, FlagPossibleJobHopping)
	}

	if e.hasSuspiciousEmail(text) {
		flags = append(flags, FlagSuspiciousEmailDomain)
	}

	if YearsOfExperience(text) > maxRealisticYears {
		flags = append(flags, FlagUnrealisticExperience)
	}

	return flags
}

func (e *Extractor) hasSuspiciousEmail(text string) bool {
	if len(e.vocab.SuspiciousEmailTLDs) == 0 {
		return false
	}
	for _, email := range emailRe.FindAllString(text, -1) {
		email = strings.ToLower(email)
		for _, tld := range e.vocab.SuspiciousEmailTLDs {
			if strings.HasSuffix(email, tld) {
				return true
			}
		}
	}
	return false
}
