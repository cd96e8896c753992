// Package agent runs the research loop: a single-threaded tool-calling
// conversation with an LLM that plans the investigation, gathers sources,
// tracks its progress in the plan store, and compiles the final report.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/pablasso/sonda/internal/tools"
)

// DefaultMaxIterations caps the reasoning loop.
const DefaultMaxIterations = 50

// Agent drives one research task from query to report. Tool calls are
// dispatched sequentially from this loop, so downstream tools (the plan store
// in particular) never see concurrent invocations.
type Agent struct {
	model         llms.Model
	registry      *tools.Registry
	maxIterations int
	temperature   float64
	logger        *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithMaxIterations caps the number of model round-trips.
func WithMaxIterations(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

// WithTemperature sets the sampling temperature for every model call.
func WithTemperature(t float64) Option {
	return func(a *Agent) { a.temperature = t }
}

// WithLogger sets the agent's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New constructs an Agent over the given model and tool registry.
func New(model llms.Model, registry *tools.Registry, opts ...Option) *Agent {
	a := &Agent{
		model:         model,
		registry:      registry,
		maxIterations: DefaultMaxIterations,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the research loop for the query and returns the final report.
// It returns an error only for terminal failures: a model error, or running
// out of iterations before the model produces a report.
func (a *Agent) Run(ctx context.Context, query string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, researcherSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildTaskPrompt(query)),
	}

	var llmTools []llms.Tool
	for _, t := range a.registry.All() {
		llmTools = append(llmTools, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	for i := 0; i < a.maxIterations; i++ {
		resp, err := a.model.GenerateContent(ctx, messages,
			llms.WithTools(llmTools),
			llms.WithTemperature(a.temperature),
		)
		if err != nil {
			return "", fmt.Errorf("model call failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("model returned no choices")
		}
		choice := resp.Choices[0]

		var assistantParts []llms.ContentPart
		if choice.Content != "" {
			assistantParts = append(assistantParts, llms.TextContent{Text: choice.Content})
		}
		for _, tc := range choice.ToolCalls {
			assistantParts = append(assistantParts, tc)
		}
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeAI,
			Parts: assistantParts,
		})

		// No tool calls means the model has written the final report.
		if len(choice.ToolCalls) == 0 {
			return choice.Content, nil
		}

		for _, tc := range choice.ToolCalls {
			result := a.dispatch(ctx, i+1, tc)
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: tc.ID,
						Name:       tc.FunctionCall.Name,
						Content:    result,
					},
				},
			})
		}
	}

	return "", fmt.Errorf("research did not converge within %d iterations", a.maxIterations)
}

// dispatch runs one tool call, normalizing every failure to text so the
// conversation can continue.
func (a *Agent) dispatch(ctx context.Context, step int, tc llms.ToolCall) string {
	name := tc.FunctionCall.Name
	tool := a.registry.Get(name)
	if tool == nil {
		a.logger.Warn("model requested unknown tool", "tool", name)
		return fmt.Sprintf("Error: tool %s not found", name)
	}

	a.logger.Debug("executing tool", "step", step, "tool", name, "args", tc.FunctionCall.Arguments)
	result, err := tool.Execute(ctx, tc.FunctionCall.Arguments)
	if err != nil {
		a.logger.Error("tool execution failed", "tool", name, "error", err)
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}
