package web_search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ragent-ai/ragent/internal/helpers"
	"github.com/ragent-ai/ragent/tools"
	"github.com/ragent-ai/ragent/tools/web_search/brave"
	"github.com/ragent-ai/ragent/tools/web_search/models"
	"github.com/ragent-ai/ragent/tools/web_search/serper"
)

type WebSearcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

func NewWebSearcher(provider Provider, apiKey string) (WebSearcher, error) {
	switch provider {
	case SerperProvider:
		return serper.Search{ApiKey: apiKey}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey}, nil
	default:
		return nil, fmt.Errorf("unsupported web search provider: %s", provider)
	}
}

// Tool exposes a WebSearcher to the model.
type Tool struct {
	Searcher   WebSearcher
	MaxResults int
}

var _ tools.Tool = (*Tool)(nil)

func (t *Tool) Name() string { return "web_search" }

func (t *Tool) Description() string {
	return "Search the public web for current information. Returns titles, snippets and URLs."
}

func (t *Tool) Parameters() map[string]interface{} {
	return tools.QueryParameters("The search query.")
}

func (t *Tool) Call(ctx context.Context, args string) (string, error) {
	var params struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(args), &params); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(params.Query) == "" {
		return "", fmt.Errorf("query is required")
	}

	k := t.MaxResults
	if k <= 0 {
		k = 5
	}
	results, err := t.Searcher.Discover(ctx, params.Query, k)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "no results found", nil
	}

	citations := make([]helpers.Citation, 0, len(results))
	for i, r := range results {
		citations = append(citations, helpers.Citation{
			SourceID: fmt.Sprintf("W%d", i+1),
			Title:    r.Title,
			URL:      r.URL,
			Snippet:  r.Snippet,
		})
	}
	return strings.Join(helpers.FormatCitations(citations), "\n"), nil
}
