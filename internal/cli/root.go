// Package cli wires the sonda command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pablasso/sonda/internal/version"
)

// sondaDir holds sessions and saved reports in the working directory.
const sondaDir = ".sonda"

const defaultQuery = "Arkel.ai french company"

var flags struct {
	model       string
	maxIter     int
	temperature float64
	provider    string
	verbose     bool
	tui         bool
}

var rootCmd = &cobra.Command{
	Use:   "sonda [query]",
	Short: "Deep research agent for the terminal",
	Long: `Sonda conducts comprehensive AI-powered research on any topic: it plans the
investigation as a TODO list, searches the web, extracts page content, tracks
its own progress, and compiles a cited markdown report.`,
	Args:         cobra.MaximumNArgs(1),
	Version:      version.Version,
	SilenceUsage: true,
	RunE:         runResearch,
}

func init() {
	rootCmd.Flags().StringVar(&flags.model, "model", "", "LLM model to use (default claude-haiku-4.5)")
	rootCmd.Flags().IntVar(&flags.maxIter, "max-iter", 0, "Maximum iterations for the agent (default 50)")
	rootCmd.Flags().Float64Var(&flags.temperature, "temperature", 0, "LLM temperature (default 0)")
	rootCmd.Flags().StringVar(&flags.provider, "provider", "", "Provider(s) to prefer, comma-separated; empty for automatic selection")
	rootCmd.Flags().BoolVar(&flags.verbose, "verbose", false, "Enable verbose logging output")
	rootCmd.Flags().BoolVar(&flags.tui, "tui", false, "Run with the interactive TUI instead of the plain monitor")

	rootCmd.AddCommand(sessionsCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
