package features

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	targetWordsPerSentence = 15.0
	maxComfortableWordLen  = 6.0
	sentencePenalty        = 4.0
	wordLengthPenalty      = 3.0
)

// Readability scores text in [0,100]. Full marks go to text averaging 15
// words per sentence with words of at most 6 characters; the score drops by 4
// per word of distance from 15 and by 3 per character of average word length
// above 6. Sentences are counted as '.', '!' and '?' characters, at least one.
func Readability(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	letters := 0
	for _, w := range words {
		letters += utf8.RuneCountInString(w)
	}
	avgWordLen := float64(letters) / float64(len(words))

	sentences := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if sentences == 0 {
		sentences = 1
	}
	wordsPerSentence := float64(len(words)) / float64(sentences)

	penalty := math.Abs(targetWordsPerSentence-wordsPerSentence)*sentencePenalty +
		math.Max(0, avgWordLen-maxComfortableWordLen)*wordLengthPenalty

	return round2(math.Max(0, math.Min(100, 100-penalty)))
}
