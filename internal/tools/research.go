package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	researchRequestTimeout = 30 * time.Second
	// researchFailed is the fixed result for every failure mode: the model
	// gets one unambiguous signal instead of a taxonomy of errors.
	researchFailed = "research failed"
)

// ResearchTool delegates an entire sub-investigation to the Exa research API:
// it submits instructions, then polls the job until it completes, fails, or
// the wall-clock budget runs out.
type ResearchTool struct {
	client       *ExaClient
	logger       *slog.Logger
	maxWait      time.Duration
	pollInterval time.Duration
}

// NewResearchTool creates the web_research tool with the default 5 minute
// budget and 5 second poll interval.
func NewResearchTool(client *ExaClient, logger *slog.Logger) *ResearchTool {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResearchTool{
		client:       client,
		logger:       logger,
		maxWait:      300 * time.Second,
		pollInterval: 5 * time.Second,
	}
}

func (t *ResearchTool) Name() string { return "web_research" }

func (t *ResearchTool) Description() string {
	return "Conduct deep research on a topic. Hands the instructions to a dedicated research service and waits for the " +
		"compiled findings. Slow (up to several minutes); use for broad questions that would take many searches."
}

func (t *ResearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"instructions": map[string]any{
				"type":        "string",
				"description": "The research instructions or query",
			},
		},
		"required": []string{"instructions"},
	}
}

type researchArgs struct {
	Instructions string `json:"instructions"`
}

// Execute submits the research job and polls for its result. Every failure
// mode, including timeout, yields the fixed "research failed" string.
func (t *ResearchTool) Execute(ctx context.Context, args string) (string, error) {
	var params researchArgs
	if err := json.Unmarshal([]byte(args), &params); err != nil {
		return errorJSON(fmt.Sprintf("invalid web_research arguments: %v", err)), nil
	}
	if !t.client.configured() {
		t.logger.Error("EXAAI_API_KEY not configured")
		return researchFailed, nil
	}

	t.logger.Info("initiating research", "instructions", params.Instructions)

	payload := map[string]any{
		"instructions": params.Instructions,
		"model":        "exa-research",
	}
	body, status, err := t.client.postJSON(ctx, "/research/v1", payload, researchRequestTimeout)
	if err != nil {
		t.logger.Error("web research error", "error", err)
		return researchFailed, nil
	}
	if status != http.StatusCreated {
		t.logger.Error("failed to initiate research", "status", status)
		return researchFailed, nil
	}

	var initData struct {
		ResearchID string `json:"researchId"`
	}
	if err := json.Unmarshal(body, &initData); err != nil || initData.ResearchID == "" {
		t.logger.Error("no research ID returned")
		return researchFailed, nil
	}

	t.logger.Info("research initiated", "research_id", initData.ResearchID)
	return t.poll(ctx, initData.ResearchID), nil
}

// poll checks the job every pollInterval until it reaches a terminal status
// or the maxWait budget is exhausted.
func (t *ResearchTool) poll(ctx context.Context, researchID string) string {
	deadline := time.Now().Add(t.maxWait)

	for {
		if time.Now().After(deadline) {
			t.logger.Error("research timed out", "max_wait", t.maxWait)
			return researchFailed
		}

		select {
		case <-ctx.Done():
			return researchFailed
		case <-time.After(t.pollInterval):
		}

		body, status, err := t.client.getJSON(ctx, "/research/v1/"+researchID, researchRequestTimeout)
		if err != nil || status != http.StatusOK {
			return researchFailed
		}

		var pollData struct {
			Status string `json:"status"`
			Output struct {
				Content string `json:"content"`
			} `json:"output"`
		}
		if err := json.Unmarshal(body, &pollData); err != nil {
			return researchFailed
		}

		switch pollData.Status {
		case "completed":
			return pollData.Output.Content
		case "running", "pending":
			continue
		default:
			// failed, canceled, or anything unrecognized
			return researchFailed
		}
	}
}
