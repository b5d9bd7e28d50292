package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  strategy  ", Value: "  lexical  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "strategy" || fields[0].String != "lexical" {
		t.Fatalf("unexpected strategy field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithFields(logger, zap.String("foo", "bar"))
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if ctx := entries[0].ContextMap(); ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	enriched.Info("another log")
}

func TestWithSimilarity(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithSimilarity(zap.New(core), "embedding", "text-embedding-004").Info("scored")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldStrategy] != "embedding" {
		t.Fatalf("expected strategy field to be embedding, got %q", ctx[FieldStrategy])
	}
	if ctx[FieldModel] != "text-embedding-004" {
		t.Fatalf("expected model field, got %q", ctx[FieldModel])
	}

	if fields := SimilarityFields("lexical", ""); len(fields) != 1 {
		t.Fatalf("expected model to be omitted, got %d fields", len(fields))
	}
}

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "returns empty when limit non-positive", input: "hello world", limit: 0, expect: ""},
		{name: "shorter than limit", input: "hello", limit: 10, expect: "hello"},
		{name: "truncates and adds ellipsis", input: "hello world", limit: 5, expect: "hello..."},
		{name: "trims surrounding whitespace", input: "  spaced  ", limit: 5, expect: "space..."},
		{name: "collapses newlines", input: "John Doe\n\nPython  developer", limit: 40, expect: "John Doe Python developer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
