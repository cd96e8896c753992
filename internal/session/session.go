// Package session records research sessions and their reports under .sonda/.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Status represents the session status.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Session tracks one research run.
type Session struct {
	ID          string     `json:"id"`
	Query       string     `json:"query"`
	Model       string     `json:"model"`
	Status      Status     `json:"status"`
	ReportPath  string     `json:"reportPath,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// New creates an in-progress session for the given query and model.
func New(query, model string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Query:     query,
		Model:     model,
		Status:    StatusInProgress,
		StartedAt: time.Now(),
	}
}

// Complete marks the session finished with the given report location.
func (s *Session) Complete(reportPath string) {
	now := time.Now()
	s.Status = StatusCompleted
	s.ReportPath = reportPath
	s.CompletedAt = &now
}

// Fail marks the session as failed.
func (s *Session) Fail() {
	now := time.Now()
	s.Status = StatusFailed
	s.CompletedAt = &now
}

// Storage manages session persistence.
type Storage struct {
	dir string
}

// NewStorage creates a storage instance for the given sessions directory.
func NewStorage(sessionsDir string) *Storage {
	return &Storage{dir: sessionsDir}
}

// Save persists a session to disk with atomic writes.
func (st *Storage) Save(s *Session) error {
	s.UpdatedAt = time.Now()

	if err := os.MkdirAll(st.dir, 0755); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	filename := st.sessionFilename(s.ID)
	tmpFile := filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write session temp file: %w", err)
	}
	if err := os.Rename(tmpFile, filename); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename session temp file: %w", err)
	}
	return nil
}

// Load retrieves a session by ID.
func (st *Storage) Load(id string) (*Session, error) {
	data, err := os.ReadFile(st.sessionFilename(id))
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &s, nil
}

// List returns all sessions, unreadable files skipped.
func (st *Storage) List() ([]*Session, error) {
	matches, err := filepath.Glob(filepath.Join(st.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob sessions: %w", err)
	}

	var sessions []*Session
	for _, match := range matches {
		data, err := os.ReadFile(match)
		if err != nil {
			continue
		}
		var s Session
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		sessions = append(sessions, &s)
	}
	return sessions, nil
}

func (st *Storage) sessionFilename(id string) string {
	return filepath.Join(st.dir, id+".json")
}
