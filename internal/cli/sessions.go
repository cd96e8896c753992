package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pablasso/sonda/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List past research sessions",
	Long:  `List research sessions recorded in this directory, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

func runSessions(cmd *cobra.Command, args []string) error {
	storage := session.NewStorage(filepath.Join(sondaDir, "sessions"))

	sessions, err := storage.List()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No research sessions yet.")
		return nil
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUERY\tMODEL\tSTATUS\tSTARTED\tREPORT")
	for _, sess := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncateQuery(sess.Query),
			sess.Model,
			sess.Status,
			formatAge(sess.StartedAt),
			sess.ReportPath,
		)
	}
	return w.Flush()
}

func truncateQuery(q string) string {
	const max = 40
	runes := []rune(q)
	if len(runes) <= max {
		return q
	}
	return string(runes[:max-3]) + "..."
}

// formatAge returns a human-readable relative time string.
func formatAge(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	}
	minutes := int(duration.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	hours := int(duration.Hours())
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	return fmt.Sprintf("%dd ago", hours/24)
}
