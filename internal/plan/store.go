package plan

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// PlanFileName is the plan document location, fixed per working directory.
// The monitor and any external dashboard read the same file.
const PlanFileName = ".research_plan.json"

const timestampLayout = "2006-01-02 15:04:05"

// Store persists the research plan for one session. The agent's tool loop is
// the only writer; the monitor reads the backing file directly. Upsert never
// returns a Go error: the caller is a language model that consumes plain text,
// so every outcome is reported as a string.
type Store struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a store backed by <dir>/.research_plan.json.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   filepath.Join(dir, PlanFileName),
		logger: logger,
		now:    time.Now,
	}
}

// Path returns the location of the backing document.
func (s *Store) Path() string {
	return s.path
}

// Reset removes a plan document left over from a previous session.
// Each session starts with an empty plan.
func (s *Store) Reset() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove previous research plan: %w", err)
	}
	return nil
}

// Load reads and parses the current plan document.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse research plan: %w", err)
	}
	return &doc, nil
}

// Upsert merges the given updates into the plan document and rewrites it.
//
// Items whose ID matches an existing todo are merged field-by-field: only
// non-nil fields overwrite. Unknown IDs insert a new todo, defaulting to
// status pending and empty content. Items without an ID are skipped with a
// warning. The merged set is re-sorted by status rank (stable, so relative
// order within a rank is preserved) and written atomically via temp+rename.
//
// The returned string is either a summary of the resulting plan or a
// description of what went wrong. An empty update list is a validation
// failure and leaves the document untouched.
func (s *Store) Upsert(updates []TodoUpdate, explanation string) string {
	if len(updates) == 0 {
		msg := "Cannot update research plan: todos list is empty. You must provide at least one TODO item."
		s.logger.Error(msg)
		return msg
	}

	// A corrupt or missing prior document never blocks new writes.
	todos := s.loadExisting()

	index := make(map[string]int, len(todos))
	for i, todo := range todos {
		index[todo.ID] = i
	}

	for _, update := range updates {
		if update.ID == "" {
			s.logger.Warn("skipping TODO without ID")
			continue
		}
		if i, ok := index[update.ID]; ok {
			if update.Status != nil {
				todos[i].Status = *update.Status
			}
			if update.Content != nil {
				todos[i].Content = *update.Content
			}
			continue
		}
		todo := Todo{ID: update.ID, Status: StatusPending}
		if update.Status != nil {
			todo.Status = *update.Status
		}
		if update.Content != nil {
			todo.Content = *update.Content
		}
		index[update.ID] = len(todos)
		todos = append(todos, todo)
	}

	sort.SliceStable(todos, func(i, j int) bool {
		return statusRank(todos[i].Status) < statusRank(todos[j].Status)
	})

	doc := Document{
		Explanation: explanation,
		UpdatedAt:   s.now().Format(timestampLayout),
		Todos:       todos,
	}

	if err := s.save(&doc); err != nil {
		msg := fmt.Sprintf("Failed to save research plan: %v", err)
		s.logger.Error(msg)
		return msg
	}

	return summarize(&doc)
}

// loadExisting returns the todos of the current document, or nil when the
// document is absent or unparsable. A corrupt document is discarded, not
// surfaced as a failure.
func (s *Store) loadExisting() []Todo {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read existing research plan", "error", err)
		}
		return nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("failed to load existing research plan", "error", err)
		return nil
	}
	return doc.Todos
}

// save writes the document atomically: concurrent readers see either the old
// or the new content, never a torn write.
func (s *Store) save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal research plan: %w", err)
	}

	tmpPath := fmt.Sprintf("%s.tmp.%d", s.path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func summarize(doc *Document) string {
	var parts []string
	doc.CountByStatus().Each(func(s Status, n int) {
		parts = append(parts, fmt.Sprintf("%d %s", n, s))
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Research plan updated successfully. %s\n", doc.Explanation)
	fmt.Fprintf(&b, "Total TODOs: %d (%s)", len(doc.Todos), strings.Join(parts, ", "))
	return b.String()
}
