package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762</id>
    <title>Attention Is All
 You Need</title>
    <summary>We propose a new
 network architecture.</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`

func TestSearchParsesFeed(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_query"); got != "all:attention" {
			t.Errorf("search_query = %q", got)
		}
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL}
	papers, err := c.Search(context.Background(), "attention", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(papers) != 1 {
		t.Fatalf("expected 1 paper, got %d", len(papers))
	}
	p := papers[0]
	if p.Title != "Attention Is All You Need" {
		t.Fatalf("title not collapsed: %q", p.Title)
	}
	if len(p.Authors) != 2 || p.Authors[1] != "Noam Shazeer" {
		t.Fatalf("unexpected authors %#v", p.Authors)
	}
}

func TestToolCallFormatsPapers(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	tool := &Tool{Client: &Client{Endpoint: srv.URL, MaxResults: 2}}
	out, err := tool.Call(context.Background(), `{"query":"attention"}`)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !strings.Contains(out, "[A1] Attention Is All You Need") {
		t.Fatalf("missing labelled title: %q", out)
	}
	if !strings.Contains(out, "<http://arxiv.org/abs/1706.03762>") {
		t.Fatalf("missing link: %q", out)
	}
}

func TestToolCallBadArguments(t *testing.T) {
	t.Parallel()
	tool := &Tool{Client: &Client{}}
	if _, err := tool.Call(context.Background(), `{}`); err == nil {
		t.Fatal("expected error for missing query")
	}
}

func TestSearchErrorStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL}
	if _, err := c.Search(context.Background(), "q", 1); err == nil {
		t.Fatal("expected error for 503")
	}
}
