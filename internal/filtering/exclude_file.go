package filtering

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/scoring"
)

type excludeFileFilter struct {
	disabled bool
	reason   string
	path     string
}

// NewExcludeFile creates a filter that removes candidates listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

// Apply treats a missing exclude file as empty; it is created on first append.
func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, r *scoring.Records) (*scoring.Records, Step, error) {
	initial := r.Len()
	if f.path == "" {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	excluded, err := scoring.GetExcludedCandidatesFromFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}
	if err != nil {
		return r, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	removed := r.Exclude(excluded.Names())
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_candidates", removed),
			zap.Int("candidates_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
