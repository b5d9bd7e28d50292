// Package scoring ranks resumes against a job description. It combines the
// batch similarity from a similarity.Engine with per-resume features into a
// weighted final score and a recommendation.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-scorer/internal/features"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/similarity"
)

// Ranking keys.
const (
	// RankByMatch orders records by raw similarity (Match_Score_pct).
	RankByMatch = "match"
	// RankByFinal orders records by the weighted final score.
	RankByFinal = "final"
)

const previewLength = 60

// ErrEmptyJobDescription is returned when Score is called without a job description.
var ErrEmptyJobDescription = errors.New("job description is empty")

// Scorer turns a batch of resumes into ranked records.
type Scorer struct {
	engine     similarity.Engine
	extractor  *features.Extractor
	weights    Weights
	thresholds Thresholds
	rankBy     string
	workers    int
	logger     *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the final score weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithThresholds overrides the recommendation boundaries.
func WithThresholds(t Thresholds) Option {
	return func(s *Scorer) { s.thresholds = t }
}

// WithRankBy selects the ranking key, RankByMatch or RankByFinal.
func WithRankBy(key string) Option {
	return func(s *Scorer) { s.rankBy = strings.ToLower(strings.TrimSpace(key)) }
}

// WithWorkers bounds parallel feature extraction. Non-positive means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Scorer) { s.workers = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) { s.logger = l }
}

// New builds a Scorer. A nil extractor uses the built-in vocabulary.
func New(engine similarity.Engine, extractor *features.Extractor, opts ...Option) (*Scorer, error) {
	if engine == nil {
		return nil, errors.New("similarity engine is required")
	}
	if extractor == nil {
		extractor = features.New(nil)
	}

	s := &Scorer{
		engine:     engine,
		extractor:  extractor,
		weights:    DefaultWeights(),
		thresholds: DefaultThresholds(),
		rankBy:     RankByMatch,
	}
	for _, opt := range opts {
		opt(s)
	}

	switch s.rankBy {
	case "":
		s.rankBy = RankByMatch
	case RankByMatch, RankByFinal:
	default:
		return nil, fmt.Errorf("unknown ranking key %q", s.rankBy)
	}
	if s.workers <= 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	s.logger = logger.WithSimilarity(s.logger, engine.Name(), engineModel(engine))

	return s, nil
}

// RankBy returns the active ranking key.
func (s *Scorer) RankBy() string {
	return s.rankBy
}

// Score scores every resume of the batch and returns the records sorted by
// the ranking key, ranks 1..N. Ties keep input order. An empty batch yields
// an empty result.
func (s *Scorer) Score(ctx context.Context, job JobContext, resumes []ResumeInput) (*Records, error) {
	if strings.TrimSpace(job.Description) == "" {
		return nil, ErrEmptyJobDescription
	}
	if len(resumes) == 0 {
		return &Records{Items: []*Record{}}, nil
	}

	texts := make([]string, len(resumes))
	for i, r := range resumes {
		texts[i] = r.Text
	}

	sims, err := s.engine.Compute(ctx, job.Description, texts)
	if err != nil {
		return nil, fmt.Errorf("computing similarity: %w", err)
	}
	if len(sims) != len(resumes) {
		return nil, fmt.Errorf("similarity engine returned %d scores for %d resumes", len(sims), len(resumes))
	}

	items := make([]*Record, len(resumes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range resumes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = s.record(resumes[i], job.DomainHint, sims[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.rank(items)

	s.logger.Info("scored resumes",
		zap.Int("count", len(items)),
		zap.String("rank_by", s.rankBy),
	)

	return &Records{Items: items}, nil
}

func (s *Scorer) record(in ResumeInput, domainHint string, sim float64) *Record {
	fs := s.extractor.Extract(in.Text, domainHint)

	skillMatch := ratioPct(float64(len(fs.Skills)), skillsForFullMatch)
	expMatch := ratioPct(fs.ExperienceYears, yearsForFullMatch)
	eduMatch := ratioPct(float64(len(fs.Education)), educationForFullMatch)
	diversity := ratioPct(float64(countUnique(fs.Skills)), skillsForFullRange)
	redFlags := clampPct(float64(len(fs.RedFlags)) * pointsPerRedFlag)

	softSkills := 0.0
	if n := s.extractor.SoftSkillMarkerCount(); n > 0 {
		softSkills = float64(len(fs.SoftSkillMarkers)) / float64(n) * 100
	}

	w := s.weights
	final := clampPct(sim*100*w.Similarity +
		skillMatch*w.Skills +
		expMatch*w.Experience +
		eduMatch*w.Education +
		softSkills*w.SoftSkills -
		redFlags*w.RedFlags)

	rec := &Record{
		CandidateName:       in.Name,
		MatchScorePct:       round2(sim * 100),
		SkillMatchPct:       round2(skillMatch),
		ExperienceMatchPct:  round2(expMatch),
		EducationMatchPct:   round2(eduMatch),
		DomainFit:           fs.DomainLabel,
		DomainFitPct:        round2(fs.DomainFitPct),
		ATSKeywordsPct:      round2(skillMatch),
		SoftSkillsPct:       round2(clampPct(softSkills)),
		Certifications:      fs.Certifications,
		RedFlagsPct:         round2(redFlags),
		ReadabilityPct:      round2(fs.Readability),
		LastUpdated:         LastUpdatedUnknown,
		DiversityPct:        round2(diversity),
		FinalScorePct:       round2(final),
		FinalRecommendation: s.thresholds.Recommend(final),
		Skills:              fs.Skills,
		ExperienceYears:     round2(fs.ExperienceYears),
		Education:           fs.Education,
		RedFlags:            fs.RedFlags,
		Similarity:          sim,
	}

	s.logger.Debug("scored resume",
		logger.Candidate(in.Name),
		zap.String("preview", logger.TruncateForLog(in.Text, previewLength)),
		zap.Float64("match_score_pct", rec.MatchScorePct),
		zap.Float64("final_score_pct", rec.FinalScorePct),
		zap.Strings("red_flags", rec.RedFlags),
	)

	return rec
}

// rank sorts items by the ranking key, descending and stable, then assigns
// ranks 1..N in that order.
func (s *Scorer) rank(items []*Record) {
	key := func(r *Record) float64 { return r.MatchScorePct }
	if s.rankBy == RankByFinal {
		key = func(r *Record) float64 { return r.FinalScorePct }
	}

	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]) > key(items[j])
	})
	for i, r := range items {
		r.Rank = i + 1
	}
}

func engineModel(engine similarity.Engine) string {
	if m, ok := engine.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}

func countUnique(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	return len(seen)
}
