package rag

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// LenFunc measures text length in tokens.
type LenFunc func(string) int

// WordCount is a LenFunc that counts whitespace-separated words. It is the
// fallback when no tokenizer is available and the measure used in tests.
func WordCount(s string) int { return len(strings.Fields(s)) }

// EncodingLen returns a LenFunc backed by the named tiktoken encoding.
func EncodingLen(encoding string) (LenFunc, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return func(s string) int {
		return len(enc.Encode(s, nil, nil))
	}, nil
}

// Splitter cuts text into chunks of at most maxTokens tokens, with no
// overlap between neighbours.
type Splitter struct {
	maxTokens int
	length    LenFunc
}

func NewSplitter(maxTokens int, length LenFunc) *Splitter {
	if length == nil {
		length = WordCount
	}
	return &Splitter{maxTokens: maxTokens, length: length}
}

// Split partitions text on word boundaries. Word token counts are measured
// individually, so a chunk may land slightly under the budget; it never
// exceeds it unless a single word alone does.
func (s *Splitter) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	used := 0
	for _, w := range words {
		n := s.length(w)
		if used+n > s.maxTokens && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
			used = 0
		}
		current = append(current, w)
		used += n
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
