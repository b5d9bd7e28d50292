// Package features turns resume text into the atomic signals the scorer
// aggregates: skills, certifications, experience, education, red flags,
// domain fit, soft-skill markers and readability.
//
// Every extractor is a pure function of its input and never fails: empty or
// malformed text yields empty lists and zero values.
package features

import (
	"math"
	"strings"

	"github.com/spigell/resume-scorer/internal/vocabulary"
)

const (
	// DefaultSkillLimit caps the number of skills reported per resume.
	DefaultSkillLimit = 40
	// CertificationLimit caps the number of certification spans reported per resume.
	CertificationLimit = 10
)

// FeatureSet holds everything extracted from a single resume.
type FeatureSet struct {
	Skills           []string
	Certifications   []string
	ExperienceYears  float64
	Education        []string
	DomainLabel      string
	DomainFitPct     float64
	RedFlags         []string
	SoftSkillMarkers []string
	Readability      float64
	WordCount        int
}

// Extractor runs the extractors against a fixed vocabulary.
// It is safe for concurrent use.
type Extractor struct {
	vocab      *vocabulary.Vocabulary
	skillLimit int
}

// New builds an extractor over a normalized copy of vocab. A nil vocab
// selects the built-in defaults.
func New(vocab *vocabulary.Vocabulary) *Extractor {
	if vocab == nil {
		vocab = vocabulary.Default()
	}
	vocab = vocab.Clone()
	vocab.Normalize()

	return &Extractor{vocab: vocab, skillLimit: DefaultSkillLimit}
}

// Vocabulary returns the version string of the vocabulary in use.
func (e *Extractor) Vocabulary() string {
	return e.vocab.Version
}

// Extract runs every extractor over text. domainHint may be empty.
func (e *Extractor) Extract(text, domainHint string) FeatureSet {
	label, fit := e.DomainFit(text, domainHint)

	return FeatureSet{
		Skills:           e.Skills(text, e.skillLimit),
		Certifications:   e.Certifications(text),
		ExperienceYears:  YearsOfExperience(text),
		Education:        e.Education(text),
		DomainLabel:      label,
		DomainFitPct:     fit,
		RedFlags:         e.RedFlags(text),
		SoftSkillMarkers: e.SoftSkills(text),
		Readability:      Readability(text),
		WordCount:        len(strings.Fields(text)),
	}
}

// Skills returns vocabulary skills found in text, in vocabulary order,
// capped at limit. A non-positive limit selects DefaultSkillLimit.
func (e *Extractor) Skills(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSkillLimit
	}

	found := containedKeywords(strings.ToLower(text), e.vocab.Skills)
	if len(found) > limit {
		found = found[:limit]
	}
	return found
}

// Education returns every education keyword contained in text.
func (e *Extractor) Education(text string) []string {
	return containedKeywords(strings.ToLower(text), e.vocab.Education)
}

// SoftSkills returns the soft-skill markers contained in text.
func (e *Extractor) SoftSkills(text string) []string {
	return containedKeywords(strings.ToLower(text), e.vocab.SoftSkills)
}

// SoftSkillMarkerCount is the size of the soft-skill marker list.
func (e *Extractor) SoftSkillMarkerCount() int {
	return len(e.vocab.SoftSkills)
}

// containedKeywords returns keywords that are substrings of low. Keywords are
// expected to be lowercased and unique already.
func containedKeywords(low string, keywords []string) []string {
	found := make([]string, 0)
	if low == "" {
		return found
	}
	for _, kw := range keywords {
		if strings.Contains(low, kw) {
			found = append(found, kw)
		}
	}
	return found
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
