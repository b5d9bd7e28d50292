package similarity

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/spigell/resume-scorer/internal/ai"
)

// Embedding scores texts by cosine similarity between model embeddings of
// the job description and each resume. Scores are not rescaled.
type Embedding struct {
	embedder ai.Embedder
}

// NewEmbedding wraps embedder as an Engine.
func NewEmbedding(embedder ai.Embedder) *Embedding {
	return &Embedding{embedder: embedder}
}

// Name implements Engine.
func (e *Embedding) Name() string {
	return StrategyEmbedding
}

// Model returns the model identifier of the underlying embedder.
func (e *Embedding) Model() string {
	return e.embedder.Model()
}

// Compute implements Engine. Blank resume texts score 0 and are never sent
// to the embedder.
func (e *Embedding) Compute(ctx context.Context, job string, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))
	if len(texts) == 0 {
		return scores, nil
	}

	batch := []string{job}
	positions := make([]int, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		batch = append(batch, text)
		positions = append(positions, i)
	}
	if len(positions) == 0 {
		return scores, nil
	}

	vectors, err := e.embedder.Embed(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("embedding %d texts: %w", len(batch), err)
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
	}

	jobVec := vectors[0]
	for k, pos := range positions {
		s, err := cosine(jobVec, vectors[k+1])
		if err != nil {
			return nil, err
		}
		scores[pos] = s
	}

	return scores, nil
}

// cosine returns the cosine similarity of a and b, 0 when either is a zero vector.
func cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}
