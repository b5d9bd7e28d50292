package scoring

import "math"

// Recommendation labels.
const (
	Shortlist      = "Shortlist"
	ReviewManually = "Review Manually"
	Reject         = "Reject"
)

// LastUpdatedUnknown fills Record.LastUpdated; resume dates are not tracked.
const LastUpdatedUnknown = "N/A"

// ResumeInput is one decoded resume. Text may be empty when the file could
// not be read; such resumes are still scored.
type ResumeInput struct {
	Name string
	Text string
}

// JobContext describes the position resumes are scored against.
type JobContext struct {
	Description string
	DomainHint  string
}

// Record is the scored row for one resume. JSON keys keep the names the
// dashboard consumes.
type Record struct {
	Rank                int      `json:"Rank"`
	CandidateName       string   `json:"Candidate_Name"`
	MatchScorePct       float64  `json:"Match_Score_pct"`
	SkillMatchPct       float64  `json:"Skill_Match_pct"`
	ExperienceMatchPct  float64  `json:"Experience_Match_pct"`
	EducationMatchPct   float64  `json:"Education_Match_pct"`
	DomainFit           string   `json:"Domain_Fit"`
	DomainFitPct        float64  `json:"Domain_Fit_pct"`
	ATSKeywordsPct      float64  `json:"ATS_Keywords_pct"`
	SoftSkillsPct       float64  `json:"Soft_Skills_Score"`
	Certifications      []string `json:"Certifications_and_Achievements"`
	RedFlagsPct         float64  `json:"Red_Flags_pct"`
	ReadabilityPct      float64  `json:"Resume_Length_Readability"`
	LastUpdated         string   `json:"Last_Updated"`
	DiversityPct        float64  `json:"Diversity_of_Skills"`
	FinalScorePct       float64  `json:"Final_Score_pct"`
	FinalRecommendation string   `json:"Final_Recommendation"`
	Skills              []string `json:"Skills"`
	ExperienceYears     float64  `json:"Experience_Years"`
	Education           []string `json:"Education"`
	RedFlags            []string `json:"Red_Flags"`
	Similarity          float64  `json:"-"`
}

// Weights are the coefficients of the final score. Similarity applies to the
// similarity expressed as a percentage; RedFlags is subtracted.
type Weights struct {
	Similarity float64 `mapstructure:"similarity"`
	Skills     float64 `mapstructure:"skills"`
	Experience float64 `mapstructure:"experience"`
	Education  float64 `mapstructure:"education"`
	SoftSkills float64 `mapstructure:"soft-skills"`
	RedFlags   float64 `mapstructure:"red-flags"`
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{
		Similarity: 0.40,
		Skills:     0.25,
		Experience: 0.15,
		Education:  0.10,
		SoftSkills: 0.05,
		RedFlags:   0.10,
	}
}

// Thresholds are the final score boundaries of the recommendation labels.
// A score strictly above Shortlist is shortlisted, strictly above Review is
// sent to manual review, anything else is rejected.
type Thresholds struct {
	Shortlist float64 `mapstructure:"shortlist"`
	Review    float64 `mapstructure:"review"`
}

// DefaultThresholds returns the standard recommendation boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Shortlist: 75, Review: 50}
}

// Recommend maps a final score to a recommendation label.
func (t Thresholds) Recommend(final float64) string {
	switch {
	case final > t.Shortlist:
		return Shortlist
	case final > t.Review:
		return ReviewManually
	default:
		return Reject
	}
}

const (
	skillsForFullMatch    = 8.0
	yearsForFullMatch     = 5.0
	educationForFullMatch = 2.0
	skillsForFullRange    = 10.0
	pointsPerRedFlag      = 20.0
)

func ratioPct(count, full float64) float64 {
	return math.Min(count/full*100, 100)
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(v, 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
