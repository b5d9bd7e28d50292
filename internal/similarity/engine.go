// Package similarity scores how closely each resume text matches a job
// description. Two strategies exist: an embedding engine backed by an
// external model and a lexical TF-IDF engine that needs nothing but the
// batch itself. The strategy is chosen once at startup by Select.
package similarity

import (
	"context"
	"errors"
)

const (
	// StrategyAuto prefers embeddings and falls back to lexical scoring.
	StrategyAuto = "auto"
	// StrategyEmbedding requires a working embedder.
	StrategyEmbedding = "embedding"
	// StrategyLexical always uses TF-IDF scoring.
	StrategyLexical = "lexical"
)

var (
	// ErrEmbeddingUnavailable is returned when the embedding strategy is
	// required but the embedder failed its startup check.
	ErrEmbeddingUnavailable = errors.New("embedding capability unavailable")
	// ErrDimensionMismatch is returned when the embedder produces vectors
	// of different lengths within one batch.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Engine computes one score per text, in input order, relative to job.
type Engine interface {
	Name() string
	Compute(ctx context.Context, job string, texts []string) ([]float64, error)
}
