package similarity

import (
	"bufio"
	"context"
	_ "embed"
	"math"
	"sort"
	"strings"
	"unicode"
)

// DefaultMaxFeatures caps the lexical vocabulary size.
const DefaultMaxFeatures = 5000

//go:embed stopwords.txt
var stopwordsText string

var stopwords = parseStopwords(stopwordsText)

func parseStopwords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words[strings.ToLower(w)] = struct{}{}
	}
	return words
}

// Lexical scores texts with TF-IDF over the batch corpus. Scores are
// divided by the batch maximum so the best match scores exactly 1.
type Lexical struct {
	maxFeatures int
}

// NewLexical returns a lexical engine. A non-positive maxFeatures selects
// DefaultMaxFeatures.
func NewLexical(maxFeatures int) *Lexical {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Lexical{maxFeatures: maxFeatures}
}

// Name implements Engine.
func (l *Lexical) Name() string {
	return StrategyLexical
}

// Compute implements Engine.
func (l *Lexical) Compute(_ context.Context, job string, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))
	if len(texts) == 0 {
		return scores, nil
	}

	docs := make([][]string, 0, len(texts)+1)
	docs = append(docs, tokenize(job))
	for _, text := range texts {
		docs = append(docs, tokenize(text))
	}

	vocab := l.buildVocabulary(docs)
	if len(vocab) == 0 {
		return scores, nil
	}

	idf := inverseDocumentFrequency(docs, vocab)
	jobVec := tfidfVector(docs[0], vocab, idf)

	maxScore := 0.0
	for i, doc := range docs[1:] {
		vec := tfidfVector(doc, vocab, idf)
		s := 0.0
		for col, w := range jobVec {
			s += w * vec[col]
		}
		scores[i] = s
		if s > maxScore {
			maxScore = s
		}
	}

	if maxScore <= 0 {
		clear(scores)
		return scores, nil
	}
	for i := range scores {
		scores[i] /= maxScore
	}
	return scores, nil
}

// buildVocabulary keeps the maxFeatures most frequent terms across docs,
// ties broken by lexical order, and maps each kept term to its column.
// Columns follow lexical term order so every sum over a vector runs in the
// same order for the same batch.
func (l *Lexical) buildVocabulary(docs [][]string) map[string]int {
	counts := make(map[string]int)
	for _, doc := range docs {
		for _, term := range doc {
			counts[term]++
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > l.maxFeatures {
		terms = terms[:l.maxFeatures]
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	for col, term := range terms {
		vocab[term] = col
	}
	return vocab
}

// inverseDocumentFrequency uses the smoothed form ln((1+n)/(1+df)) + 1.
func inverseDocumentFrequency(docs [][]string, vocab map[string]int) []float64 {
	df := make([]int, len(vocab))
	for _, doc := range docs {
		seen := make([]bool, len(vocab))
		for _, term := range doc {
			col, ok := vocab[term]
			if !ok || seen[col] {
				continue
			}
			seen[col] = true
			df[col]++
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for col := range idf {
		idf[col] = math.Log((1+n)/(1+float64(df[col]))) + 1
	}
	return idf
}

// tfidfVector returns the dense L2-normalized TF-IDF row of doc.
func tfidfVector(doc []string, vocab map[string]int, idf []float64) []float64 {
	vec := make([]float64, len(vocab))
	for _, term := range doc {
		if col, ok := vocab[term]; ok {
			vec[col]++
		}
	}

	norm := 0.0
	for col, tf := range vec {
		w := tf * idf[col]
		vec[col] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}

	norm = math.Sqrt(norm)
	for col := range vec {
		vec[col] /= norm
	}
	return vec
}

// tokenize lowercases text and returns runs of two or more letters, digits
// or underscores that are not stop words.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
