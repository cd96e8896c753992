package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pablasso/sonda/internal/plan"
)

// PlanTool exposes the plan store's upsert operation to the agent. It is the
// store's only writer during a session.
type PlanTool struct {
	store *plan.Store
}

// NewPlanTool creates the update_research_plan tool over the given store.
func NewPlanTool(store *plan.Store) *PlanTool {
	return &PlanTool{store: store}
}

func (t *PlanTool) Name() string { return "update_research_plan" }

func (t *PlanTool) Description() string {
	return "Create and manage a structured TODO list for the research session. " +
		"When updating existing TODOs, only provide the fields you want to change; the tool merges with existing data. " +
		"Create the initial plan by passing all items with status 'pending', then mark items 'in_progress' and 'completed' as you work."
}

func (t *PlanTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"todos": map[string]any{
				"type":        "array",
				"description": "Array of TODO items. Each item must have an 'id' (e.g., 'step-1'); 'status' is one of 'pending', 'in_progress', 'completed', 'cancelled'; 'content' describes the task.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":      map[string]any{"type": "string"},
						"status":  map[string]any{"type": "string", "enum": []string{"pending", "in_progress", "completed", "cancelled"}},
						"content": map[string]any{"type": "string"},
					},
					"required": []string{"id"},
				},
				"minItems": 1,
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Short description of the action (e.g., 'Creating initial plan', 'Completed step 1')",
			},
		},
		"required": []string{"todos"},
	}
}

type planArgs struct {
	Todos       []plan.TodoUpdate `json:"todos"`
	Explanation string            `json:"explanation"`
}

// Execute merges the given todos into the plan document. The result is always
// a plain string: a summary on success, a description of the failure
// otherwise.
func (t *PlanTool) Execute(_ context.Context, args string) (string, error) {
	var params planArgs
	if err := json.Unmarshal([]byte(args), &params); err != nil {
		return fmt.Sprintf("Cannot update research plan: invalid arguments: %v", err), nil
	}
	return t.store.Upsert(params.Todos, params.Explanation), nil
}
