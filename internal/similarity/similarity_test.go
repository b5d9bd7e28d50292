package similarity

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const jobDescription = "Machine Learning Engineer with NLP and Python, 3+ years"

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   [][]string
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.calls = append(s.calls, texts)
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, ok := s.vectors[text]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *stubEmbedder) Model() string { return "stub-model" }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLexicalVerbatimCopyScoresOne(t *testing.T) {
	scores, err := NewLexical(0).Compute(context.Background(), jobDescription, []string{
		"Gardening enthusiast who grows tomatoes and roses every summer.",
		jobDescription,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if scores[1] != 1 {
		t.Fatalf("expected verbatim copy to score 1, got %v", scores[1])
	}
	if scores[0] >= 1 {
		t.Fatalf("expected unrelated text to score below 1, got %v", scores[0])
	}
}

func TestLexicalBatchRelativeNormalization(t *testing.T) {
	scores, err := NewLexical(0).Compute(context.Background(), "python nlp engineer", []string{
		"python developer",
		"python nlp engineer with python",
		"java developer",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	best := 0.0
	for _, s := range scores {
		if s < 0 || s > 1 {
			t.Fatalf("score out of range: %v", scores)
		}
		best = math.Max(best, s)
	}
	if best != 1 {
		t.Fatalf("expected best score to be 1, got %v", scores)
	}
	if scores[2] != 0 {
		t.Fatalf("expected no overlap to score 0, got %v", scores[2])
	}
	if !(scores[1] > scores[0]) {
		t.Fatalf("expected closer text to score higher: %v", scores)
	}
}

func TestLexicalAllZero(t *testing.T) {
	tests := []struct {
		name  string
		job   string
		texts []string
	}{
		{name: "no overlap", job: "python", texts: []string{"gardening", "cooking"}},
		{name: "stop words only", job: "the and of", texts: []string{"it is a", "we were"}},
		{name: "empty texts", job: jobDescription, texts: []string{"", "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := NewLexical(0).Compute(context.Background(), tt.job, tt.texts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := make([]float64, len(tt.texts)); !reflect.DeepEqual(scores, want) {
				t.Fatalf("expected zeros, got %v", scores)
			}
		})
	}
}

func TestLexicalEmptyBatch(t *testing.T) {
	scores, err := NewLexical(0).Compute(context.Background(), jobDescription, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected no scores, got %v", scores)
	}
}

func TestLexicalIsDeterministic(t *testing.T) {
	texts := []string{"python nlp aws", "java spring", "nlp research python"}
	engine := NewLexical(0)

	first, _ := engine.Compute(context.Background(), jobDescription, texts)
	second, _ := engine.Compute(context.Background(), jobDescription, texts)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical scores, got %v and %v", first, second)
	}
}

func TestLexicalRepeatedCallsAreBitIdentical(t *testing.T) {
	job := "Senior machine learning engineer: Python, PyTorch, NLP, AWS, Docker, Kubernetes, SQL and Spark pipelines"
	texts := []string{
		"Python and NLP engineer. Built PyTorch models, served them on AWS with Docker and Kubernetes.",
		"Data engineer with Spark, SQL, Airflow and Kafka pipelines. Some Python, some machine learning.",
		"Frontend developer: React, Angular, TypeScript, design systems and accessibility audits.",
		"Research scientist, deep learning, computer vision, PyTorch, CUDA kernels, published papers on NLP.",
	}
	engine := NewLexical(0)

	want, err := engine.Compute(context.Background(), job, texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 300; i++ {
		got, err := engine.Compute(context.Background(), job, texts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for j := range want {
			if math.Float64bits(got[j]) != math.Float64bits(want[j]) {
				t.Fatalf("call %d, text %d: expected %v, got %v", i, j, want[j], got[j])
			}
		}
	}
}

func TestLexicalMaxFeatures(t *testing.T) {
	engine := NewLexical(1)

	vocab := engine.buildVocabulary([][]string{{"python", "python", "nlp"}, {"python", "aws"}})
	if len(vocab) != 1 {
		t.Fatalf("expected 1 term, got %d", len(vocab))
	}
	if col, ok := vocab["python"]; !ok || col != 0 {
		t.Fatalf("expected the most frequent term to be kept, got %v", vocab)
	}
}

func TestLexicalColumnsFollowTermOrder(t *testing.T) {
	vocab := NewLexical(0).buildVocabulary([][]string{{"spark", "aws", "python", "python"}})

	want := map[string]int{"aws": 0, "python": 1, "spark": 2}
	if !reflect.DeepEqual(vocab, want) {
		t.Fatalf("expected %v, got %v", want, vocab)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("The Python/NLP engineer, a C++ dev and I: scikit_learn 2020!")
	want := []string{"python", "nlp", "engineer", "dev", "scikit_learn", "2020"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEmbeddingCompute(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"job":   {1, 0, 0},
		"same":  {2, 0, 0},
		"half":  {1, 1, 0},
		"other": {0, 1, 0},
	}}

	scores, err := NewEmbedding(embedder).Compute(context.Background(), "job", []string{"same", "", "half", "other"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{1, 0, 1 / math.Sqrt2, 0}
	for i := range want {
		if !almostEqual(scores[i], want[i]) {
			t.Fatalf("score %d: expected %v, got %v", i, want[i], scores[i])
		}
	}

	if len(embedder.calls) != 1 {
		t.Fatalf("expected a single embed call, got %d", len(embedder.calls))
	}
	if got := embedder.calls[0]; !reflect.DeepEqual(got, []string{"job", "same", "half", "other"}) {
		t.Fatalf("blank text must not be embedded, got %v", got)
	}
}

func TestEmbeddingSkipsEmbedderForBlankBatch(t *testing.T) {
	embedder := &stubEmbedder{}

	scores, err := NewEmbedding(embedder).Compute(context.Background(), "job", []string{"", " "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(scores, []float64{0, 0}) {
		t.Fatalf("expected zeros, got %v", scores)
	}
	if len(embedder.calls) != 0 {
		t.Fatalf("expected no embed calls, got %d", len(embedder.calls))
	}
}

func TestEmbeddingErrors(t *testing.T) {
	failing := &stubEmbedder{err: errors.New("quota")}
	if _, err := NewEmbedding(failing).Compute(context.Background(), "job", []string{"text"}); err == nil {
		t.Fatal("expected embedder error to propagate")
	}

	mismatched := &stubEmbedder{vectors: map[string][]float32{"job": {1, 0}, "text": {1, 0, 0}}}
	_, err := NewEmbedding(mismatched).Compute(context.Background(), "job", []string{"text"})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSelect(t *testing.T) {
	working := func() *stubEmbedder { return &stubEmbedder{} }
	broken := func() *stubEmbedder { return &stubEmbedder{err: errors.New("no model")} }

	tests := []struct {
		name       string
		strategy   string
		embedder   *stubEmbedder
		want       string
		wantErr    error
		embedCalls int
	}{
		{name: "auto with working embedder", strategy: StrategyAuto, embedder: working(), want: StrategyEmbedding, embedCalls: 1},
		{name: "empty means auto", strategy: "", embedder: working(), want: StrategyEmbedding, embedCalls: 1},
		{name: "auto falls back", strategy: StrategyAuto, embedder: broken(), want: StrategyLexical, embedCalls: 1},
		{name: "auto without embedder", strategy: StrategyAuto, want: StrategyLexical},
		{name: "lexical never calls the embedder", strategy: "Lexical", embedder: working(), want: StrategyLexical},
		{name: "embedding required", strategy: StrategyEmbedding, embedder: broken(), wantErr: ErrEmbeddingUnavailable, embedCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var embedder *stubEmbedder
			cfg := SelectConfig{Strategy: tt.strategy}

			var (
				engine Engine
				err    error
			)
			if tt.embedder != nil {
				embedder = tt.embedder
				engine, err = Select(context.Background(), cfg, embedder, zap.NewNop())
			} else {
				engine, err = Select(context.Background(), cfg, nil, nil)
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if engine.Name() != tt.want {
				t.Fatalf("expected %s engine, got %s", tt.want, engine.Name())
			}
			if embedder != nil && len(embedder.calls) != tt.embedCalls {
				t.Fatalf("expected %d embed calls, got %d", tt.embedCalls, len(embedder.calls))
			}
		})
	}
}

func TestSelectUnknownStrategy(t *testing.T) {
	if _, err := Select(context.Background(), SelectConfig{Strategy: "bm25"}, nil, nil); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestSelectLogsFallback(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)

	engine, err := Select(context.Background(), SelectConfig{}, &stubEmbedder{err: errors.New("no model")}, zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.Name() != StrategyLexical {
		t.Fatalf("expected lexical engine, got %s", engine.Name())
	}

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if ctx := entries[0].ContextMap(); ctx["similarity_strategy"] != StrategyLexical {
		t.Fatalf("expected strategy field, got %v", ctx)
	}
}
