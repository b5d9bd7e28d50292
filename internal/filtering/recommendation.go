package filtering

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/scoring"
)

var knownRecommendations = []string{scoring.Shortlist, scoring.ReviewManually, scoring.Reject}

type recommendationFilter struct {
	disabled bool
	reason   string
	allowed  []string
}

// NewRecommendation creates a filter that keeps only the configured recommendation labels.
func NewRecommendation() Filter {
	return &recommendationFilter{}
}

func (f *recommendationFilter) Name() string { return "recommendation" }

func (f *recommendationFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *recommendationFilter) IsEnabled() bool { return !f.disabled }

// Validate accepts labels case-insensitively and stores their canonical form.
func (f *recommendationFilter) Validate(cfg *Config) error {
	f.allowed = nil
	if cfg == nil {
		return nil
	}

	for _, label := range cfg.Recommendations {
		idx := slices.IndexFunc(knownRecommendations, func(known string) bool {
			return strings.EqualFold(known, strings.TrimSpace(label))
		})
		if idx < 0 {
			return fmt.Errorf("unknown recommendation %q, expected one of %v", label, knownRecommendations)
		}
		f.allowed = append(f.allowed, knownRecommendations[idx])
	}
	return nil
}

func (f *recommendationFilter) Apply(_ context.Context, deps Deps, r *scoring.Records) (*scoring.Records, Step, error) {
	initial := r.Len()
	if len(f.allowed) == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	dropped := r.Keep(func(rec *scoring.Record) bool {
		return slices.Contains(f.allowed, rec.FinalRecommendation)
	})
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding candidates by recommendation",
			zap.Strings("allowed", f.allowed),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *recommendationFilter) Status() Status {
	details := map[string]string{}
	if len(f.allowed) > 0 {
		details["recommendations"] = strings.Join(f.allowed, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
