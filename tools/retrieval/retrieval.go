package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ragent-ai/ragent/tools"
)

// Retriever answers a question strictly from the local corpus.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// Tool exposes grounded retrieval to the model.
type Tool struct {
	Retriever Retriever
}

var _ tools.Tool = (*Tool)(nil)

func (t *Tool) Name() string { return "retrieve_information" }

func (t *Tool) Description() string {
	return "Answer a question using the local document corpus. Responses are grounded in retrieved passages and cite their sources; unanswerable questions return \"I don't know\"."
}

func (t *Tool) Parameters() map[string]interface{} {
	return tools.QueryParameters("The question to answer from the corpus.")
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
	return t.Retriever.Retrieve(ctx, params.Query)
}
