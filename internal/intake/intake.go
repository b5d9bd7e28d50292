// Package intake reads resume files from disk and decodes them to text for
// scoring. A file that cannot be read or parsed still produces an input with
// empty text, so one bad file never sinks the batch.
package intake

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/scoring"
)

// Loader reads resume files concurrently.
type Loader struct {
	workers int
	logger  *zap.Logger
}

// New creates a Loader. Non-positive workers means GOMAXPROCS.
func New(workers int, log *zap.Logger) *Loader {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{workers: workers, logger: log}
}

// Expand resolves paths to a list of files. Directories are walked
// recursively and their files added in lexical order; hidden entries are
// skipped. A path that does not exist is an error.
func Expand(paths []string) ([]string, error) {
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("resume path %q: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			hidden := strings.HasPrefix(d.Name(), ".") && path != p
			if d.IsDir() {
				if hidden {
					return filepath.SkipDir
				}
				return nil
			}
			if !hidden {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %q: %w", p, err)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// Load expands paths and decodes every file. Results follow the expanded
// path order and are named by file base name.
func (l *Loader) Load(ctx context.Context, paths []string) ([]scoring.ResumeInput, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, err
	}

	inputs := make([]scoring.ResumeInput, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			inputs[i] = scoring.ResumeInput{
				Name: filepath.Base(file),
				Text: l.read(file),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info("loaded resumes", zap.Int("count", len(inputs)))
	return inputs, nil
}

func (l *Loader) read(path string) string {
	log := l.logger.With(logger.Candidate(filepath.Base(path)), zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("reading resume failed, scoring it as empty", zap.Error(err))
		return ""
	}

	text, err := Decode(path, data)
	if err != nil {
		log.Warn("decoding resume failed, scoring it as empty", zap.Error(err))
		return ""
	}

	if text == "" {
		log.Warn("resume has no text")
	}
	log.Debug("resume decoded", zap.Int("chars", len(text)))
	return text
}
