package similarity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/logger"
)

const checkText = "resume scorer capability check"

// SelectConfig controls strategy selection.
type SelectConfig struct {
	Strategy    string
	MaxFeatures int
}

// CheckEmbedder checks that embedder can produce a usable vector. It returns nil on
// success and an error wrapping ErrEmbeddingUnavailable otherwise.
func CheckEmbedder(ctx context.Context, embedder ai.Embedder) error {
	if embedder == nil {
		return fmt.Errorf("%w: no embedder configured", ErrEmbeddingUnavailable)
	}

	vectors, err := embedder.Embed(ctx, []string{checkText})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return fmt.Errorf("%w: capability check returned no vector", ErrEmbeddingUnavailable)
	}

	return nil
}

// Select resolves the similarity engine once at startup.
//
// StrategyLexical never touches the embedder. StrategyEmbedding fails when
// the check fails. StrategyAuto (and an empty strategy) falls back to the
// lexical engine for the rest of the process lifetime when the check fails.
func Select(ctx context.Context, cfg SelectConfig, embedder ai.Embedder, log *zap.Logger) (Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	strategy := strings.ToLower(strings.TrimSpace(cfg.Strategy))
	if strategy == "" {
		strategy = StrategyAuto
	}

	switch strategy {
	case StrategyLexical:
		log.Info("similarity strategy selected", logger.SimilarityFields(StrategyLexical, "")...)
		return NewLexical(cfg.MaxFeatures), nil
	case StrategyEmbedding, StrategyAuto:
	default:
		return nil, fmt.Errorf("unknown similarity strategy %q", cfg.Strategy)
	}

	if err := CheckEmbedder(ctx, embedder); err != nil {
		if strategy == StrategyEmbedding {
			return nil, err
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		log.Warn("embedding capability unavailable, using lexical similarity",
			append(logger.SimilarityFields(StrategyLexical, ""), zap.Error(err))...,
		)
		return NewLexical(cfg.MaxFeatures), nil
	}

	engine := NewEmbedding(embedder)
	log.Info("similarity strategy selected", logger.SimilarityFields(StrategyEmbedding, engine.Model())...)
	return engine, nil
}
