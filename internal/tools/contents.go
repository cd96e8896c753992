package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const contentsTimeout = 90 * time.Second

// ContentsTool extracts full page content from specific URLs via the Exa
// contents API. The agent uses it to deep-dive into pages found by search.
type ContentsTool struct {
	client *ExaClient
	logger *slog.Logger
}

// NewContentsTool creates the get_webpage_content tool.
func NewContentsTool(client *ExaClient, logger *slog.Logger) *ContentsTool {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentsTool{client: client, logger: logger}
}

func (t *ContentsTool) Name() string { return "get_webpage_content" }

func (t *ContentsTool) Description() string {
	return "Fetch and extract content from specific webpages, including full text, summaries, and links. " +
		"Use this after web_search to deep-dive into specific URLs you found."
}

func (t *ContentsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"urls": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "List of URLs to fetch content from (e.g., [\"https://example.com\", \"https://company.com/about\"])",
			},
		},
		"required": []string{"urls"},
	}
}

type contentsArgs struct {
	URLs []string `json:"urls"`
}

type pageContent struct {
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	PublishedDate string   `json:"publishedDate"`
	Text          string   `json:"text,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	Links         []string `json:"links,omitempty"`
}

// Execute fetches the pages and returns a JSON string of their contents.
func (t *ContentsTool) Execute(ctx context.Context, args string) (string, error) {
	var params contentsArgs
	if err := json.Unmarshal([]byte(args), &params); err != nil {
		return errorJSON(fmt.Sprintf("invalid get_webpage_content arguments: %v", err)), nil
	}
	if !t.client.configured() {
		return errorJSON("EXAAI_API_KEY not configured"), nil
	}

	payload := map[string]any{
		"ids":       params.URLs,
		"livecrawl": "preferred",
		"summary":   true,
		"subpages":  4,
		"extras":    map[string]any{"links": 5},
	}

	body, status, err := t.client.postJSON(ctx, "/contents", payload, contentsTimeout)
	if err != nil {
		t.logger.Error("webpage content fetch error", "error", err)
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
		Results []struct {
			URL           string   `json:"url"`
			Title         string   `json:"title"`
			Author        string   `json:"author"`
			PublishedDate string   `json:"publishedDate"`
			Text          string   `json:"text"`
			Summary       string   `json:"summary"`
			Links         []string `json:"links"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		t.logger.Error("webpage content fetch error", "error", err)
		return errorJSON(err.Error()), nil
	}

	pages := make([]pageContent, 0, len(response.Results))
	for _, r := range response.Results {
		pages = append(pages, pageContent{
			URL:           r.URL,
			Title:         r.Title,
			Author:        r.Author,
			PublishedDate: r.PublishedDate,
			Text:          r.Text,
			Summary:       r.Summary,
			Links:         r.Links,
		})
	}

	out, err := json.MarshalIndent(map[string]any{
		"totalPages": len(pages),
		"pages":      pages,
	}, "", "  ")
	if err != nil {
		return errorJSON(err.Error()), nil
	}
	return string(out), nil
}
