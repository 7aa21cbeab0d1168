// Package sentiment tags review comments as positive, negative or neutral.
package sentiment

import (
	"strings"
	"unicode"
)

// Label is the three-way sentiment of a comment
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Classifier derives a sentiment label from free text
type Classifier interface {
	Classify(text string) Label
}

// LexiconClassifier counts keyword hits from fixed positive and negative lists.
// More positive hits yields Positive, more negative hits Negative, anything else Neutral.
type LexiconClassifier struct {
	positive []string
	negative []string
}

var defaultPositive = []string{
	// Vietnamese
	"tuyệt vời", "tuyệt", "đẹp", "ngon", "thích", "hài lòng", "tốt", "yêu", "xuất sắc", "thân thiện", "sạch sẽ", "đáng giá",
	// English
	"great", "amazing", "beautiful", "delicious", "love", "excellent", "friendly", "clean", "wonderful", "recommend",
}

var defaultNegative = []string{
	// Vietnamese
	"tệ", "dở", "chán", "thất vọng", "bẩn", "đắt", "kém", "xấu", "ồn ào", "lừa đảo",
	// English
	"bad", "terrible", "awful", "dirty", "disappointing", "expensive", "boring", "rude", "scam", "noisy",
}

// NewLexiconClassifier returns the default bilingual lexicon classifier
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{positive: defaultPositive, negative: defaultNegative}
}

// NewCustomLexiconClassifier builds a classifier from caller supplied word lists
func NewCustomLexiconClassifier(positive, negative []string) *LexiconClassifier {
	return &LexiconClassifier{positive: positive, negative: negative}
}

// Classify implements Classifier
func (c *LexiconClassifier) Classify(text string) Label {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Neutral
	}

	pos := countHits(tokens, c.positive)
	neg := countHits(tokens, c.negative)

	switch {
	case pos > neg:
		return Positive
	case neg > pos:
		return Negative
	default:
		return Neutral
	}
}

// tokenize lowercases the text and splits it on anything that is not part of a word
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r)
	})
}

// countHits counts keyword occurrences; multi-word keywords must match consecutive tokens
func countHits(tokens []string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		phrase := strings.Fields(kw)
		if len(phrase) == 0 {
			continue
		}
		for i := 0; i+len(phrase) <= len(tokens); i++ {
			if matchAt(tokens, i, phrase) {
				hits++
			}
		}
	}
	return hits
}

func matchAt(tokens []string, i int, phrase []string) bool {
	for j, w := range phrase {
		if tokens[i+j] != w {
			return false
		}
	}
	return true
}
