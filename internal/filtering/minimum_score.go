package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/scoring"
)

type minimumScoreFilter struct {
	disabled bool
	reason   string
	minimum  float64
}

// NewMinimumScore creates a filter that drops records below the configured final score.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_final_score" }

func (f *minimumScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minimumScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumFinalScore
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum final score must be within [0,100], got %v", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, r *scoring.Records) (*scoring.Records, Step, error) {
	initial := r.Len()
	if f.minimum == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	dropped := r.Keep(func(rec *scoring.Record) bool { return rec.FinalScorePct >= f.minimum })
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding candidates below minimum final score",
			zap.Float64("minimum_final_score", f.minimum),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_final_score": fmt.Sprintf("%.2f", f.minimum)},
	}
}
