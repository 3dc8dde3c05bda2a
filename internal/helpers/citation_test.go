package helpers

import "testing"

func TestSourceTag(t *testing.T) {
	t.Parallel()
	if got := SourceTag("report.pdf", 3); got != "[report.pdf, p. 3]" {
		t.Fatalf("SourceTag() = %q", got)
	}
	if got := SourceTag("notes.txt", 0); got != "[notes.txt]" {
		t.Fatalf("SourceTag() = %q", got)
	}
	if got := SourceTag("  ", 2); got != "[source, p. 2]" {
		t.Fatalf("SourceTag() = %q", got)
	}
}

func TestFormatCitation(t *testing.T) {
	t.Parallel()
	c := Citation{
		SourceID: "S1",
		Title:    "Go Memory Model",
		URL:      "https://example.com/articles/memory?ref=rss",
		Snippet:  "Describes the conditions under which reads observe writes.",
	}

	got := FormatCitation(c)
	want := `[S1] Go Memory Model "Describes the conditions under which reads observe writes." (example.com) <https://example.com/articles/memory?ref=rss>`

	if got != want {
		t.Fatalf("FormatCitation() = %q, want %q", got, want)
	}
}

func TestFormatCitationTruncatesSnippet(t *testing.T) {
	t.Parallel()
	c := Citation{
		SourceID: "S2",
		Snippet:  "A very long snippet that should be truncated for neat citation summaries and avoid overly verbose output.",
		URL:      "https://example.com/article",
	}

	got := FormatCitation(c, WithMaxSnippetLength(40))
	want := `[S2] "A very long snippet that should be trunc…" (example.com) <https://example.com/article>`

	if got != want {
		t.Fatalf("FormatCitation() = %q, want %q", got, want)
	}
}

func TestFormatCitationsBatch(t *testing.T) {
	t.Parallel()
	list := []Citation{
		{SourceID: "A", Title: "First", URL: "https://a.example.com"},
		{SourceID: "B", Title: "Second", URL: "https://b.example.com"},
	}
	items := FormatCitations(list)
	if len(items) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(items))
	}
	if items[0] == items[1] {
		t.Fatalf("expected unique entries, got %#v", items)
	}
}
