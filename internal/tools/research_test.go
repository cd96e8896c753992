package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// fastResearchTool shrinks the poll timings so tests run in milliseconds.
func fastResearchTool(client *ExaClient) *ResearchTool {
	tool := NewResearchTool(client, testLogger())
	tool.maxWait = 500 * time.Millisecond
	tool.pollInterval = 5 * time.Millisecond
	return tool
}

func TestResearchToolPollsUntilCompleted(t *testing.T) {
	var polls atomic.Int32
	client := newTestExaClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/research/v1":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"researchId": "res-123"})
		case r.Method == http.MethodGet && r.URL.Path == "/research/v1/res-123":
			if polls.Add(1) < 3 {
				json.NewEncoder(w).Encode(map[string]any{"status": "running"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"status": "completed",
				"output": map[string]string{"content": "Compiled findings."},
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	result, err := fastResearchTool(client).Execute(context.Background(), `{"instructions":"investigate"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Compiled findings." {
		t.Errorf("got %q, want the job output", result)
	}
	if polls.Load() < 3 {
		t.Errorf("expected at least 3 polls, got %d", polls.Load())
	}
}

func TestResearchToolTerminalFailures(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{"failed job", "failed"},
		{"canceled job", "canceled"},
		{"unknown status", "exploded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestExaClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodPost {
					w.WriteHeader(http.StatusCreated)
					json.NewEncoder(w).Encode(map[string]string{"researchId": "res-1"})
					return
				}
				json.NewEncoder(w).Encode(map[string]any{"status": tt.status})
			}))

			result, err := fastResearchTool(client).Execute(context.Background(), `{"instructions":"x"}`)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != researchFailed {
				t.Errorf("got %q, want %q", result, researchFailed)
			}
		})
	}
}

func TestResearchToolTimesOut(t *testing.T) {
	client := newTestExaClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"researchId": "res-1"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "running"})
	}))

	tool := fastResearchTool(client)
	tool.maxWait = 20 * time.Millisecond

	result, err := tool.Execute(context.Background(), `{"instructions":"x"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != researchFailed {
		t.Errorf("got %q, want %q after timeout", result, researchFailed)
	}
}

func TestResearchToolSubmitRejected(t *testing.T) {
	client := newTestExaClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))

	result, err := fastResearchTool(client).Execute(context.Background(), `{"instructions":"x"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != researchFailed {
		t.Errorf("got %q, want %q", result, researchFailed)
	}
}

func TestResearchToolMissingAPIKey(t *testing.T) {
	tool := NewResearchTool(NewExaClient(""), testLogger())
	result, err := tool.Execute(context.Background(), `{"instructions":"x"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != researchFailed {
		t.Errorf("got %q, want %q", result, researchFailed)
	}
}
