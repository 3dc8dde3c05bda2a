package models

// Result is a single web search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}
