package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/pablasso/sonda/internal/agent"
	"github.com/pablasso/sonda/internal/config"
	"github.com/pablasso/sonda/internal/logging"
	"github.com/pablasso/sonda/internal/plan"
	"github.com/pablasso/sonda/internal/report"
	"github.com/pablasso/sonda/internal/session"
	"github.com/pablasso/sonda/internal/tools"
	"github.com/pablasso/sonda/internal/tui"
)

func runResearch(cmd *cobra.Command, args []string) error {
	query := defaultQuery
	if len(args) == 1 {
		query = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	logger := logging.New(os.Stderr, flags.verbose)
	if flags.verbose {
		logger.Debug("verbose logging enabled")
	}

	if cfg.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	// One session per working directory; each starts with an empty plan.
	store := plan.NewStore(cwd, logger)
	lock := plan.NewSessionLock(store.Path())
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	if err := store.Reset(); err != nil {
		logger.Warn("could not remove previous research plan", "error", err)
	} else {
		logger.Debug("removed previous research plan", "path", store.Path())
	}

	logger.Info("deep research system initialized", "query", query)
	logger.Info("configuration",
		"model", cfg.Model,
		"max_iter", cfg.MaxIterations,
		"temperature", cfg.Temperature,
		"provider", providerOrAuto(cfg.Provider),
	)

	llm, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithBaseURL(cfg.OpenAIBaseURL),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	exa := tools.NewExaClient(cfg.ExaAPIKey)
	registry := tools.NewRegistry(
		tools.NewPlanTool(store),
		tools.NewSearchTool(exa, logger),
		tools.NewContentsTool(exa, logger),
		tools.NewResearchTool(exa, logger),
	)
	researcher := agent.New(llm, registry,
		agent.WithMaxIterations(cfg.MaxIterations),
		agent.WithTemperature(cfg.Temperature),
		agent.WithLogger(logger),
	)

	sess := session.New(query, cfg.Model)
	storage := session.NewStorage(filepath.Join(sondaDir, "sessions"))
	if err := storage.Save(sess); err != nil {
		logger.Warn("could not record session", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var result string
	if flags.tui {
		result, err = tui.Run(ctx, tui.Options{
			Query:    query,
			Model:    cfg.Model,
			PlanPath: store.Path(),
			Research: func(ctx context.Context) (string, error) {
				return researcher.Run(ctx, query)
			},
		})
	} else {
		result, err = runWithMonitor(ctx, researcher, store, query, cfg, logger)
	}

	if err != nil {
		sess.Fail()
		if saveErr := storage.Save(sess); saveErr != nil {
			logger.Warn("could not record session", "error", saveErr)
		}
		return fmt.Errorf("research execution failed: %w", err)
	}

	reportPath, err := report.Save(filepath.Join(sondaDir, "reports"), sess.ID, result)
	if err != nil {
		logger.Warn("could not save report", "error", err)
	} else {
		sess.Complete(reportPath)
		if err := storage.Save(sess); err != nil {
			logger.Warn("could not record session", "error", err)
		}
	}

	if !flags.tui {
		printReport(result)
	}
	return nil
}

// runWithMonitor executes the research loop with the in-place plan monitor
// rendering progress to the terminal.
func runWithMonitor(ctx context.Context, researcher *agent.Agent, store *plan.Store, query string, cfg *config.Config, logger *slog.Logger) (string, error) {
	printBanner(query, cfg)

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	monitorDone := make(chan struct{})
	monitor := plan.NewMonitor(store.Path(), os.Stdout, logger)
	go func() {
		monitor.Run(monitorCtx)
		close(monitorDone)
	}()

	fmt.Println("\n🚀 Starting Deep Research...")
	fmt.Println(strings.Repeat("=", 60))

	logger.Info("starting research execution")
	result, err := researcher.Run(ctx, query)

	// The monitor winds down within one poll interval of cancellation.
	stopMonitor()
	<-monitorDone
	logger.Info("plan monitoring stopped")

	if err != nil {
		return "", err
	}
	logger.Info("research execution completed successfully")
	return result, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("model") {
		cfg.Model = flags.model
	}
	if cmd.Flags().Changed("max-iter") {
		cfg.MaxIterations = flags.maxIter
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature = flags.temperature
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = flags.provider
	}
}

func providerOrAuto(provider string) string {
	if provider == "" {
		return "auto"
	}
	return provider
}

func printBanner(query string, cfg *config.Config) {
	line := strings.Repeat("=", 60)
	fmt.Printf("\n%s\n", line)
	fmt.Println("🔍 Deep Research System")
	fmt.Println(line)
	fmt.Printf("Query: %s\n", query)
	fmt.Printf("Model: %s\n", cfg.Model)
	fmt.Printf("Max Iterations: %d\n", cfg.MaxIterations)
	if cfg.Provider != "" {
		fmt.Printf("Provider: %s\n", cfg.Provider)
	}
	fmt.Printf("%s\n\n", line)
}

func printReport(markdown string) {
	line := strings.Repeat("=", 60)
	fmt.Printf("\n\n%s\n", line)
	fmt.Println("✨ RESEARCH COMPLETED")
	fmt.Println(line)
	fmt.Println("\n📄 Final Report:")
	fmt.Println(report.Render(markdown))
	fmt.Println(line)
	fmt.Printf("✅ Research completed at %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(line)
}
