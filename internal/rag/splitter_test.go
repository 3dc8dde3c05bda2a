package rag

import (
	"strings"
	"testing"
)

func TestSplitRespectsBudget(t *testing.T) {
	t.Parallel()
	s := NewSplitter(4, WordCount)
	text := "one two three four five six seven eight nine"
	chunks := s.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %#v", len(chunks), chunks)
	}
	for _, c := range chunks {
		if WordCount(c) > 4 {
			t.Fatalf("chunk over budget: %q", c)
		}
	}
	if joined := strings.Join(chunks, " "); joined != text {
		t.Fatalf("chunks lost content: %q", joined)
	}
}

func TestSplitNoOverlap(t *testing.T) {
	t.Parallel()
	s := NewSplitter(2, WordCount)
	chunks := s.Split("a b c d e")
	seen := map[string]bool{}
	for _, c := range chunks {
		for _, w := range strings.Fields(c) {
			if seen[w] {
				t.Fatalf("word %q appears in more than one chunk", w)
			}
			seen[w] = true
		}
	}
}

func TestSplitEmpty(t *testing.T) {
	t.Parallel()
	s := NewSplitter(10, nil)
	if got := s.Split("   \n\t "); got != nil {
		t.Fatalf("expected nil for blank text, got %#v", got)
	}
}

func TestSplitOversizedWord(t *testing.T) {
	t.Parallel()
	// Length function charges 5 per word against a budget of 3; each word
	// must still land in its own chunk rather than being dropped.
	s := NewSplitter(3, func(string) int { return 5 })
	chunks := s.Split("alpha beta")
	if len(chunks) != 2 || chunks[0] != "alpha" || chunks[1] != "beta" {
		t.Fatalf("unexpected chunks %#v", chunks)
	}
}
