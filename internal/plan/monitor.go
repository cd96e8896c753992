package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// DefaultPollInterval is how often the monitor re-reads the plan document.
const DefaultPollInterval = 2 * time.Second

const defaultContentWidth = 70

var statusGlyphs = map[Status]string{
	StatusPending:    "⏳",
	StatusInProgress: "🔄",
	StatusCompleted:  "✅",
	StatusCancelled:  "❌",
}

func statusGlyph(s Status) string {
	if glyph, ok := statusGlyphs[s]; ok {
		return glyph
	}
	return "❓"
}

// Monitor renders the research plan to the terminal while the agent works.
// It polls the plan document on a fixed interval and redraws in place using
// cursor save/restore, so the terminal shows only the latest snapshot.
//
// The monitor is a reader only. The agent may be mid-write when a poll fires,
// so unparsable content is treated as "try again next tick", never an error.
type Monitor struct {
	path         string
	out          io.Writer
	interval     time.Duration
	logger       *slog.Logger
	contentWidth int

	lastContent string
	firstRender bool
}

// NewMonitor creates a monitor for the plan document at path, writing to out.
// When out is a terminal, the item display width adapts to the terminal size.
func NewMonitor(path string, out io.Writer, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		path:         path,
		out:          out,
		interval:     DefaultPollInterval,
		logger:       logger,
		contentWidth: displayWidth(out),
		firstRender:  true,
	}
}

// displayWidth derives the todo content width from the terminal, falling back
// to a fixed width when out is not a terminal or the size is unavailable.
func displayWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultContentWidth
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return defaultContentWidth
	}
	// Leave room for the index, glyph, and status columns.
	width := cols - 25
	if width < 30 {
		width = 30
	}
	if width > 100 {
		width = 100
	}
	return width
}

// Run polls until ctx is cancelled. Callers should allow up to one poll
// interval for the monitor to wind down after cancelling.
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info("starting real-time plan monitoring")
	fmt.Fprintf(m.out, "\n📋 Research Plan Monitor\n%s\n", strings.Repeat("=", 60))
	// Save cursor position after the header; every redraw restores to here.
	fmt.Fprint(m.out, "\033[s")

	for {
		m.tick()
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.interval):
		}
	}
}

// tick performs one poll: read, diff, parse, render.
func (m *Monitor) tick() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	content := string(data)
	if content == m.lastContent || strings.TrimSpace(content) == "" {
		return
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		// Likely a write in progress; leave lastContent unchanged so the
		// next tick retries.
		m.logger.Debug("plan monitor parse failure", "error", err)
		return
	}
	m.lastContent = content

	if len(doc.Todos) == 0 {
		return
	}
	m.render(&doc)
}

func (m *Monitor) render(doc *Document) {
	if !m.firstRender {
		// Restore cursor to the saved position and clear everything below.
		fmt.Fprint(m.out, "\033[u\033[J")
	}
	m.firstRender = false

	var b strings.Builder
	fmt.Fprintf(&b, "\n📊 Progress: %d tasks total\n", len(doc.Todos))
	doc.CountByStatus().Each(func(s Status, n int) {
		fmt.Fprintf(&b, "   %s %s: %d\n", statusGlyph(s), s, n)
	})

	b.WriteString("\n📋 Current Plan:\n")
	for i, todo := range doc.Todos {
		fmt.Fprintf(&b, "   %2d. %s [%-12s] %s\n",
			i+1, statusGlyph(todo.Status), todo.Status, truncate(todo.Content, m.contentWidth))
	}
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n")

	fmt.Fprint(m.out, b.String())
}

// truncate caps s at width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
