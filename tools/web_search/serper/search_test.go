package serper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDiscover(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "secret" {
			t.Errorf("api key header = %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["q"] != "go concurrency" {
			t.Errorf("q = %v", body["q"])
		}
		_, _ = w.Write([]byte(`{"organic":[
			{"title":"A","link":"https://a.test","snippet":"first"},
			{"title":"B","link":"https://b.test","snippet":"second"},
			{"title":"C","link":"https://c.test","snippet":"third"}
		]}`))
	}))
	defer srv.Close()

	s := Search{ApiKey: "secret", Endpoint: srv.URL}
	results, err := s.Discover(context.Background(), "go concurrency", 2)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected truncation to 2 results, got %d", len(results))
	}
	if results[0].Title != "A" || results[0].URL != "https://a.test" {
		t.Fatalf("unexpected result %+v", results[0])
	}
}

func TestDiscoverErrorStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := Search{ApiKey: "bad", Endpoint: srv.URL}
	if _, err := s.Discover(context.Background(), "q", 1); err == nil {
		t.Fatal("expected error for 403")
	}
}
