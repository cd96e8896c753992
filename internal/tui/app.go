// Package tui provides an interactive alternative to the plain plan monitor:
// a Bubble Tea program showing live plan progress while the agent researches,
// then the rendered report in a scrollable viewport.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pablasso/sonda/internal/plan"
	"github.com/pablasso/sonda/internal/report"
	"github.com/pablasso/sonda/internal/tui/styles"
)

// Options configures a TUI research run.
type Options struct {
	Query    string
	Model    string
	PlanPath string
	// Research runs the agent loop; it is invoked once, in the background.
	Research func(ctx context.Context) (string, error)
}

type appState int

const (
	stateResearching appState = iota
	stateDone
	stateFailed
)

// planTickMsg re-reads the plan document.
type planTickMsg struct{}

// researchDoneMsg carries the agent's final result.
type researchDoneMsg struct {
	report string
	err    error
}

type model struct {
	opts   Options
	state  appState
	cancel context.CancelFunc

	doc         *plan.Document
	lastContent string

	spinner  spinner.Model
	viewport viewport.Model
	results  chan researchDoneMsg

	reportMarkdown string
	err            error

	width  int
	height int
}

// Run executes the research with the TUI frontend and returns the report.
func Run(ctx context.Context, opts Options) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(opts, cancel)

	go func() {
		result, err := opts.Research(ctx)
		m.results <- researchDoneMsg{report: result, err: err}
	}()

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}

	fm := final.(model)
	switch fm.state {
	case stateDone:
		return fm.reportMarkdown, nil
	case stateFailed:
		return "", fm.err
	default:
		return "", errors.New("research cancelled")
	}
}

func newModel(opts Options, cancel context.CancelFunc) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.InProgressStyle

	return model{
		opts:    opts,
		state:   stateResearching,
		cancel:  cancel,
		spinner: sp,
		results: make(chan researchDoneMsg, 1),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForResult(),
		planTick(),
	)
}

func (m model) waitForResult() tea.Cmd {
	return func() tea.Msg {
		return <-m.results
	}
}

func planTick() tea.Cmd {
	return tea.Tick(plan.DefaultPollInterval, func(time.Time) tea.Msg {
		return planTickMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(msg.Width-4, max(msg.Height-10, 5))
		if m.reportMarkdown != "" {
			m.viewport.SetContent(report.Render(m.reportMarkdown))
		}

	case planTickMsg:
		m.refreshPlan()
		return m, planTick()

	case researchDoneMsg:
		if msg.err != nil {
			m.state = stateFailed
			m.err = msg.err
			return m, tea.Quit
		}
		m.state = stateDone
		m.reportMarkdown = msg.report
		m.refreshPlan()
		if m.viewport.Width > 0 {
			m.viewport.SetContent(report.Render(m.reportMarkdown))
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refreshPlan re-reads the plan document, tolerating half-written content the
// same way the plain monitor does.
func (m *model) refreshPlan() {
	data, err := os.ReadFile(m.opts.PlanPath)
	if err != nil {
		return
	}
	content := string(data)
	if content == m.lastContent || strings.TrimSpace(content) == "" {
		return
	}
	var doc plan.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return
	}
	m.lastContent = content
	m.doc = &doc
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🔍 Deep Research"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Query: %s\n", m.opts.Query))
	b.WriteString(styles.SubtleStyle.Render(fmt.Sprintf("Model: %s", m.opts.Model)))
	b.WriteString("\n\n")

	switch m.state {
	case stateResearching:
		b.WriteString(fmt.Sprintf("%s Researching...\n\n", m.spinner.View()))
		b.WriteString(m.planView())
		b.WriteString("\n")
		b.WriteString(styles.SubtleStyle.Render("q to cancel"))
	case stateDone:
		b.WriteString(m.planView())
		b.WriteString("\n")
		b.WriteString(styles.TitleStyle.Render("📄 Final Report"))
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(styles.SubtleStyle.Render("↑/↓ to scroll · q to quit"))
	case stateFailed:
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Research failed: %v", m.err)))
	}

	return b.String()
}

// planView renders the current plan as a bordered panel.
func (m model) planView() string {
	if m.doc == nil || len(m.doc.Todos) == 0 {
		return styles.SubtleStyle.Render("Waiting for the research plan...")
	}

	var b strings.Builder
	counts := m.doc.CountByStatus()
	var parts []string
	counts.Each(func(s plan.Status, n int) {
		parts = append(parts, fmt.Sprintf("%d %s", n, s))
	})
	fmt.Fprintf(&b, "Progress: %d tasks (%s)\n\n", len(m.doc.Todos), strings.Join(parts, ", "))

	for i, todo := range m.doc.Todos {
		line := fmt.Sprintf("%2d. [%-12s] %s", i+1, todo.Status, truncate(todo.Content, m.contentWidth()))
		b.WriteString(styleFor(todo.Status).Render(line))
		b.WriteString("\n")
	}
	return styles.BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) contentWidth() int {
	if m.width <= 0 {
		return 70
	}
	return max(m.width-25, 30)
}

func styleFor(s plan.Status) lipgloss.Style {
	switch s {
	case plan.StatusInProgress:
		return styles.InProgressStyle
	case plan.StatusCompleted:
		return styles.CompletedStyle
	case plan.StatusCancelled:
		return styles.CancelledStyle
	default:
		return lipgloss.NewStyle()
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
