package openai_provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ragent-ai/ragent/provider"
)

func newTestClient(url string) *Client {
	return NewClient("test-key", url, "test-chat", "test-embed", 0.2, 256, 5*time.Second)
}

func TestChatWithToolsParsesToolCalls(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if _, ok := req["tools"]; !ok {
			t.Errorf("expected tools in request")
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"web_search","arguments":"{\"query\":\"go\"}"}}]}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	turn, err := c.ChatWithTools(context.Background(), []provider.Message{{Role: "user", Content: "hi"}}, []provider.ToolSpec{{Name: "web_search", Description: "search", Parameters: map[string]interface{}{"type": "object"}}})
	if err != nil {
		t.Fatalf("ChatWithTools: %v", err)
	}
	if len(turn.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(turn.ToolCalls))
	}
	tc := turn.ToolCalls[0]
	if tc.ID != "call_1" || tc.Name != "web_search" || tc.Arguments != `{"query":"go"}` {
		t.Fatalf("unexpected tool call %+v", tc)
	}
}

func TestChatNoChoices(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestEmbedPreservesInputOrder(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Return data out of order; Index must restore it.
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.2],"index":1},{"embedding":[0.1],"index":0}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	vecs, err := c.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 || vecs[0][0] != 0.1 || vecs[1][0] != 0.2 {
		t.Fatalf("unexpected vectors %v", vecs)
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	t.Parallel()
	c := newTestClient("http://unused.invalid")
	vecs, err := c.Embed(context.Background(), nil)
	if err != nil || vecs != nil {
		t.Fatalf("expected nil, nil for empty input, got %v, %v", vecs, err)
	}
}

func TestAPIErrorStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
