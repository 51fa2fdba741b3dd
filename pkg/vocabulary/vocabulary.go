package vocabulary

import (
	"sort"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const defaultMinWordLength = 2

// Vocabulary collects candidate terms from indexed documents. It is a plain
// word bag with occurrence counts; the evolution engine consumes it only
// through Words.
type Vocabulary struct {
	counts        map[string]int
	minWordLength int
	lower         cases.Caser
}

// Option configures a Vocabulary.
type Option func(*Vocabulary)

// WithMinWordLength sets the minimum rune count for a token to be collected.
func WithMinWordLength(n int) Option {
	return func(v *Vocabulary) {
		v.minWordLength = n
	}
}

// New creates an empty vocabulary.
func New(opts ...Option) *Vocabulary {
	v := &Vocabulary{
		counts:        make(map[string]int),
		minWordLength: defaultMinWordLength,
		lower:         cases.Lower(language.Und),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// AddWordsFrom tokenizes a document text and adds every token to the bag.
func (v *Vocabulary) AddWordsFrom(text string) {
	for _, word := range v.tokenize(text) {
		v.counts[word]++
	}
}

// Add records a single word with the given count. Used when loading a
// persisted vocabulary.
func (v *Vocabulary) Add(word string, count int) {
	if word == "" || count <= 0 {
		return
	}
	v.counts[word] += count
}

// Words returns a stable snapshot of all collected words, sorted
// lexicographically. The returned slice is owned by the caller.
func (v *Vocabulary) Words() []string {
	words := make([]string, 0, len(v.counts))
	for word := range v.counts {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// Count returns how often a word has been seen.
func (v *Vocabulary) Count(word string) int {
	return v.counts[word]
}

// Len returns the number of distinct words.
func (v *Vocabulary) Len() int {
	return len(v.counts)
}

// tokenize normalizes the text to NFKC, lowercases it and splits on anything
// that is not a letter or digit, dropping tokens shorter than the minimum.
func (v *Vocabulary) tokenize(text string) []string {
	normalized := v.lower.String(norm.NFKC.String(text))

	fields := make([]string, 0)
	start := -1

	runes := []rune(normalized)
	for i, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if i-start >= v.minWordLength {
				fields = append(fields, string(runes[start:i]))
			}
			start = -1
		}
	}
	if start >= 0 && len(runes)-start >= v.minWordLength {
		fields = append(fields, string(runes[start:]))
	}

	return fields
}
