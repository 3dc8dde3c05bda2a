package arxiv

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ragent-ai/ragent/tools"
)

const defaultEndpoint = "https://export.arxiv.org/api/query"

// Paper is one arXiv result.
type Paper struct {
	ID        string
	Title     string
	Summary   string
	Authors   []string
	Published string
}

// Client queries the arXiv Atom API.
type Client struct {
	Endpoint   string // defaults to the public API
	MaxResults int
	HTTPClient *http.Client
}

func (c *Client) Search(ctx context.Context, query string, k int) ([]Paper, error) {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	u := fmt.Sprintf("%s?search_query=all:%s&start=0&max_results=%d",
		endpoint, url.QueryEscape(query), k)
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned status: %d", resp.StatusCode)
	}

	var feed struct {
		Entries []struct {
			ID        string `xml:"id"`
			Title     string `xml:"title"`
			Summary   string `xml:"summary"`
			Published string `xml:"published"`
			Authors   []struct {
				Name string `xml:"name"`
			} `xml:"author"`
		} `xml:"entry"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		p := Paper{
			ID:        strings.TrimSpace(e.ID),
			Title:     collapse(e.Title),
			Summary:   collapse(e.Summary),
			Published: strings.TrimSpace(e.Published),
		}
		for _, a := range e.Authors {
			p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// collapse flattens the newline-wrapped text arXiv feeds carry.
func collapse(s string) string { return strings.Join(strings.Fields(s), " ") }

// Tool exposes arXiv search to the model.
type Tool struct {
	Client *Client
}

var _ tools.Tool = (*Tool)(nil)

func (t *Tool) Name() string { return "arxiv_search" }

func (t *Tool) Description() string {
	return "Search arXiv for academic papers. Returns titles, abstracts, authors and links."
}

func (t *Tool) Parameters() map[string]interface{} {
	return tools.QueryParameters("Keywords or a topic to search papers for.")
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

	k := t.Client.MaxResults
	if k <= 0 {
		k = 5
	}
	papers, err := t.Client.Search(ctx, params.Query, k)
	if err != nil {
		return "", err
	}
	if len(papers) == 0 {
		return "no papers found", nil
	}

	var sb strings.Builder
	for i, p := range papers {
		fmt.Fprintf(&sb, "[A%d] %s", i+1, p.Title)
		if len(p.Authors) > 0 {
			fmt.Fprintf(&sb, " by %s", strings.Join(p.Authors, ", "))
		}
		if p.Published != "" {
			fmt.Fprintf(&sb, " (%s)", p.Published)
		}
		fmt.Fprintf(&sb, "\n%s\n<%s>\n", p.Summary, p.ID)
	}
	return strings.TrimSpace(sb.String()), nil
}
