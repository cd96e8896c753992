package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const searchTimeout = 60 * time.Second

// SearchTool finds relevant sources via the Exa search API.
type SearchTool struct {
	client *ExaClient
	logger *slog.Logger
}

// NewSearchTool creates the web_search tool.
func NewSearchTool(client *ExaClient, logger *slog.Logger) *SearchTool {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchTool{client: client, logger: logger}
}

func (t *SearchTool) Name() string { return "web_search" }

func (t *SearchTool) Description() string {
	return "Search the web for information. Returns ranked results with titles, URLs, summaries, and highlighted excerpts. " +
		"Use include_domains to restrict the search to specific sites, and category to filter by content type."
}

func (t *SearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query",
			},
			"include_domains": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Optional list of domains to search within (e.g., [\"linkedin.com\", \"company.com\"])",
			},
			"category": map[string]any{
				"type":        "string",
				"description": "Optional content category filter: \"linkedin profile\", \"company\", \"news\", \"financial report\", or \"pdf\". Omit to get all categories.",
			},
			"search_type": map[string]any{
				"type":        "string",
				"enum":        []string{"auto", "neural", "deep"},
				"description": "Search algorithm to use (default \"auto\")",
			},
		},
		"required": []string{"query"},
	}
}

type searchArgs struct {
	Query          string   `json:"query"`
	IncludeDomains []string `json:"include_domains"`
	Category       string   `json:"category"`
	SearchType     string   `json:"search_type"`
}

type searchResult struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Author        string   `json:"author"`
	PublishedDate string   `json:"publishedDate"`
	Summary       string   `json:"summary,omitempty"`
	Highlights    []string `json:"highlights,omitempty"`
}

// Execute runs the search and returns a JSON string of ranked results.
// Failures are reported inside the payload, never as a Go error.
func (t *SearchTool) Execute(ctx context.Context, args string) (string, error) {
	var params searchArgs
	if err := json.Unmarshal([]byte(args), &params); err != nil {
		return errorJSON(fmt.Sprintf("invalid web_search arguments: %v", err)), nil
	}
	if !t.client.configured() {
		return errorJSON("EXAAI_API_KEY not configured"), nil
	}
	if params.SearchType == "" {
		params.SearchType = "auto"
	}

	payload := map[string]any{
		"query":      params.Query,
		"type":       params.SearchType,
		"numResults": 20,
		"contents": map[string]any{
			"highlights": true,
			"summary":    true,
		},
		"subpages": 5,
		"extras":   map[string]any{"links": 5},
	}
	if len(params.IncludeDomains) > 0 {
		payload["includeDomains"] = params.IncludeDomains
	}
	if params.Category != "" {
		payload["category"] = params.Category
	}

	body, status, err := t.client.postJSON(ctx, "/search", payload, searchTimeout)
	if err != nil {
		t.logger.Error("web search error", "error", err)
		return errorJSON(err.Error()), nil
	}
	if status != http.StatusOK {
		data, _ := json.Marshal(map[string]string{
			"error":   fmt.Sprintf("Exa API error: %d", status),
			"message": string(body),
		})
		return string(data), nil
	}

	var response struct {
		ResolvedSearchType string `json:"resolvedSearchType"`
		Results            []struct {
			Title         string   `json:"title"`
			URL           string   `json:"url"`
			Author        string   `json:"author"`
			PublishedDate string   `json:"publishedDate"`
			Summary       string   `json:"summary"`
			Highlights    []string `json:"highlights"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		t.logger.Error("web search error", "error", err)
		return errorJSON(err.Error()), nil
	}

	results := make([]searchResult, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, searchResult{
			Title:         r.Title,
			URL:           r.URL,
			Author:        r.Author,
			PublishedDate: r.PublishedDate,
			Summary:       r.Summary,
			Highlights:    r.Highlights,
		})
	}

	searchType := response.ResolvedSearchType
	if searchType == "" {
		searchType = "unknown"
	}

	out, err := json.MarshalIndent(map[string]any{
		"searchType":   searchType,
		"totalResults": len(results),
		"results":      results,
	}, "", "  ")
	if err != nil {
		return errorJSON(err.Error()), nil
	}
	return string(out), nil
}
