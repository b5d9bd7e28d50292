// Package filtering narrows a ranked list of scored resumes for presentation.
// Filters only drop records; ranks always refer to the full scored batch.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/scoring"
)

// Filter represents a single filtering step applied to scored records.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, r *scoring.Records) (*scoring.Records, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	MinimumFinalScore float64  `mapstructure:"minimum-final-score"`
	Recommendations   []string `mapstructure:"recommendations"`
	ExcludeFile       string   `mapstructure:"exclude-file"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Filtering runs a fixed list of steps with a shared config.
type Filtering struct {
	cfg    *Config
	steps  []Filter
	logger *zap.Logger
}

// New creates a Filtering over steps.
func New(cfg *Config, steps []Filter, logger *zap.Logger) *Filtering {
	if cfg == nil {
		cfg = &Config{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filtering{cfg: cfg, steps: steps, logger: logger}
}

// RunFilters applies every enabled step to r.
func (f *Filtering) RunFilters(ctx context.Context, r *scoring.Records) (*scoring.Records, error) {
	return Run(ctx, f.cfg, Deps{Logger: f.logger}, f.steps, r)
}

// Describe returns the status of every step.
func (f *Filtering) Describe() []Status {
	return Describe(f.steps)
}

// DisableByName disables the step called name and reports whether it exists.
func (f *Filtering) DisableByName(name, reason string) bool {
	for _, step := range f.steps {
		if step.Name() == name {
			DisableByName(f.steps, name, reason)
			return true
		}
	}
	return false
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates all enabled steps first and then executes them sequentially.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, r *scoring.Records) (*scoring.Records, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		r = next
	}

	return r, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
