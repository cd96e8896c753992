package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/pablasso/sonda/internal/plan"
	"github.com/pablasso/sonda/internal/tools"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedModel replays canned responses and records the message history it
// was given on each call.
type scriptedModel struct {
	responses []*llms.ContentResponse
	calls     [][]llms.MessageContent
	err       error
}

func (m *scriptedModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.calls = append(m.calls, messages)
	if len(m.calls) > len(m.responses) {
		return nil, errors.New("no scripted response available")
	}
	return m.responses[len(m.calls)-1], nil
}

func (m *scriptedModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func toolCallResponse(name, args string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{
				ID:   "call-1",
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      name,
					Arguments: args,
				},
			}},
		}},
	}
}

func textResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}
}

func TestAgentPlanThenReport(t *testing.T) {
	store := plan.NewStore(t.TempDir(), testLogger())
	registry := tools.NewRegistry(tools.NewPlanTool(store))

	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("update_research_plan",
			`{"todos":[{"id":"step-1","status":"pending","content":"Find company HQ"}],"explanation":"Initial plan"}`),
		textResponse("# Final Report\n\nEverything checks out."),
	}}

	a := New(model, registry, WithLogger(testLogger()))
	report, err := a.Run(context.Background(), "Arkel.ai french company")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(report, "Final Report") {
		t.Errorf("unexpected report: %q", report)
	}

	// The tool call actually hit the store.
	doc, err := store.Load()
	if err != nil {
		t.Fatalf("plan document not written: %v", err)
	}
	if len(doc.Todos) != 1 || doc.Todos[0].ID != "step-1" {
		t.Errorf("unexpected plan state: %+v", doc.Todos)
	}

	// The second model call sees the tool result appended to the history.
	second := model.calls[1]
	last := second[len(second)-1]
	if last.Role != llms.ChatMessageTypeTool {
		t.Fatalf("expected tool message last, got role %q", last.Role)
	}
	toolResp, ok := last.Parts[0].(llms.ToolCallResponse)
	if !ok {
		t.Fatalf("expected ToolCallResponse part, got %T", last.Parts[0])
	}
	if !strings.Contains(toolResp.Content, "Total TODOs: 1 (1 pending)") {
		t.Errorf("tool result not forwarded: %q", toolResp.Content)
	}
}

func TestAgentFirstMessagesCarryPrompts(t *testing.T) {
	registry := tools.NewRegistry()
	model := &scriptedModel{responses: []*llms.ContentResponse{textResponse("done")}}

	a := New(model, registry, WithLogger(testLogger()))
	if _, err := a.Run(context.Background(), "quantum computing startups"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := model.calls[0]
	if first[0].Role != llms.ChatMessageTypeSystem {
		t.Errorf("first message should be the system prompt, got %q", first[0].Role)
	}
	task, ok := first[1].Parts[0].(llms.TextContent)
	if !ok || !strings.Contains(task.Text, "quantum computing startups") {
		t.Errorf("task prompt missing the query: %+v", first[1].Parts)
	}
}

func TestAgentUnknownToolReportedToModel(t *testing.T) {
	registry := tools.NewRegistry()
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("teleport", `{}`),
		textResponse("recovered"),
	}}

	a := New(model, registry, WithLogger(testLogger()))
	report, err := a.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("unknown tool should not be fatal: %v", err)
	}
	if report != "recovered" {
		t.Errorf("got %q, want recovered", report)
	}

	second := model.calls[1]
	toolResp := second[len(second)-1].Parts[0].(llms.ToolCallResponse)
	if !strings.Contains(toolResp.Content, "tool teleport not found") {
		t.Errorf("unexpected tool result: %q", toolResp.Content)
	}
}

func TestAgentIterationLimit(t *testing.T) {
	registry := tools.NewRegistry(tools.NewPlanTool(plan.NewStore(t.TempDir(), testLogger())))

	// The model never stops calling tools.
	loop := toolCallResponse("update_research_plan", `{"todos":[{"id":"a"}]}`)
	model := &scriptedModel{responses: []*llms.ContentResponse{loop, loop, loop}}

	a := New(model, registry, WithMaxIterations(3), WithLogger(testLogger()))
	_, err := a.Run(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "did not converge within 3 iterations") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAgentModelFailurePropagates(t *testing.T) {
	model := &scriptedModel{err: errors.New("upstream 500")}
	a := New(model, tools.NewRegistry(), WithLogger(testLogger()))

	_, err := a.Run(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "model call failed") {
		t.Errorf("unexpected error: %v", err)
	}
}
