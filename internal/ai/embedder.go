package ai

import "context"

// Embedder turns texts into dense vectors. Implementations return exactly one
// vector per input text, in input order, all of the same dimension.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}
