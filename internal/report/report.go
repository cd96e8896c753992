// Package report renders and stores the final research report.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const defaultWrapWidth = 100

// Render formats a markdown report for terminal display. If rendering fails,
// the raw markdown is returned so the report is never lost.
func Render(markdown string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth()),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

func wrapWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return defaultWrapWidth
	}
	cols, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 {
		return defaultWrapWidth
	}
	if cols > defaultWrapWidth {
		return defaultWrapWidth
	}
	return cols
}

// Save writes the raw markdown report under dir, named after the session ID,
// and returns the written path.
func Save(dir, sessionID, markdown string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}
	path := filepath.Join(dir, sessionID+".md")
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
