package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel      = "text-embedding-004"
	defaultBatchSize  = 100
	defaultMaxRetries = 3
	taskType          = "SEMANTIC_SIMILARITY"
)

// contentEmbedder is the subset of genai.Models used by the Embedder.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Config holds the Gemini embedding settings.
type Config struct {
	APIKey     string
	Model      string
	MaxRetries int
	BatchSize  int
}

// Embedder produces text embeddings through the Gemini API.
type Embedder struct {
	models     contentEmbedder
	model      string
	maxRetries int
	batchSize  int
	logger     *zap.Logger
}

// NewEmbedder creates an Embedder configured for the Gemini API backend.
func NewEmbedder(ctx context.Context, cfg Config, logger *zap.Logger) (*Embedder, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newEmbedder(client.Models, cfg, logger), nil
}

func newEmbedder(models contentEmbedder, cfg Config, logger *zap.Logger) *Embedder {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Embedder{
		models:     models,
		model:      model,
		maxRetries: maxRetries,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// Embed returns one vector per text. Texts are sent in batches of the
// configured size; each batch is retried on temporary API errors.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e == nil || e.models == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))

		batch, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func (e *Embedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, errors.New("cannot embed empty text")
		}
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: text}},
		})
	}

	cfg := &genai.EmbedContentConfig{TaskType: taskType}

	var resp *genai.EmbedContentResponse
	err := e.withRetry(ctx, func() error {
		var err error
		resp, err = e.models.EmbedContent(ctx, e.model, contents, cfg)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	got := 0
	if resp != nil {
		got = len(resp.Embeddings)
	}
	if got != len(texts) {
		return nil, fmt.Errorf("gemini api returned %d embeddings for %d texts", got, len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("gemini api returned empty embedding at position %d", i)
		}
		vectors[i] = emb.Values
	}

	e.logger.Debug("gemini embed content",
		zap.Int("texts", len(texts)),
		zap.Int("dimensions", len(vectors[0])),
	)

	return vectors, nil
}

// Model returns the embedding model name.
func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.model
}
