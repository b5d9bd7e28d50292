package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldStrategy is the structured log field key for the similarity strategy in use.
	FieldStrategy = "similarity_strategy"
	// FieldModel is the structured log field key for the embedding model identifier.
	FieldModel = "embedding_model"
	// FieldCandidate is the structured log field key for a resume name.
	FieldCandidate = "candidate"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced by a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SimilarityFields returns the fields describing the active similarity strategy and,
// for the embedding strategy, its model. Empty values are dropped.
func SimilarityFields(strategy, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldStrategy, Value: strategy},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithSimilarity attaches the similarity fields to the provided logger.
func WithSimilarity(logger *zap.Logger, strategy, model string) *zap.Logger {
	return WithFields(logger, SimilarityFields(strategy, model)...)
}

// Candidate returns the field identifying a single resume in log entries.
func Candidate(name string) zap.Field {
	return zap.String(FieldCandidate, strings.TrimSpace(name))
}
