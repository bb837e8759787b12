package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/signalnine/tonebench/internal/config"
	"github.com/signalnine/tonebench/internal/gateway"
	"github.com/signalnine/tonebench/internal/logging"
	"github.com/signalnine/tonebench/internal/pricing"
	"github.com/signalnine/tonebench/internal/report"
	"github.com/signalnine/tonebench/internal/result"
	"github.com/signalnine/tonebench/internal/runner"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send every task with every tone pattern and write the report",
		RunE:  runExperiment,
	}
	cmd.Flags().String("model", "", "override the configured model")
	cmd.Flags().Int("runs", 0, "override runs_per_task")
	_ = settings.BindPFlag("model", cmd.Flags().Lookup("model"))
	_ = settings.BindPFlag("runs", cmd.Flags().Lookup("runs"))
	return cmd
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyOverrides(cfg)

	if cfg.Secrets.EnvFile != "" {
		if err := gateway.LoadEnvFile(cfg.Secrets.EnvFile); err != nil {
			return err
		}
	}
	client, err := gateway.New(&gateway.Opts{
		BaseURL:         cfg.API.BaseURL,
		APIKeyEnv:       cfg.API.APIKeyEnv,
		Timeout:         time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		MaxOutputTokens: cfg.API.MaxOutputTokens,
	})
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = executeRun(ctx, cfg, client, cmd.OutOrStdout())
	return err
}

// applyOverrides copies --model and --runs (or TONEBENCH_MODEL and
// TONEBENCH_RUNS) onto the loaded config.
func applyOverrides(cfg *config.Config) {
	if m := settings.GetString("model"); m != "" {
		cfg.Model = m
	}
	if n := settings.GetInt("runs"); n > 0 {
		cfg.RunsPerTask = n
	}
}

// executeRun runs the experiment into a fresh run directory and returns its
// path. Results collected before a cancellation are still written.
func executeRun(ctx context.Context, cfg *config.Config, gen runner.Generator, out io.Writer) (string, error) {
	log := logging.New("run")

	runDir, err := result.CreateRunDir(cfg.Output.Dir)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(out, "Run directory: %s\n", runDir)

	started := time.Now()
	records, runErr := runner.RunExperiment(ctx, &runner.ExperimentOpts{
		Config:    cfg,
		Generator: gen,
		Out:       out,
	})
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runDir, runErr
	}
	if runErr != nil {
		fmt.Fprintf(out, "\nInterrupted, writing %d completed record(s)\n", len(records))
	}

	runID := uuid.New().String()
	resultsPath := filepath.Join(runDir, cfg.Output.ResultsFile)
	if err := result.WriteResults(resultsPath, result.NewFile(runID, cfg.Model, started, records)); err != nil {
		return runDir, err
	}
	log.Info("results written", "path", resultsPath, "run_id", runID, "records", len(records))

	htmlPath := filepath.Join(runDir, cfg.Output.HTMLReportFile)
	err = report.WriteHTML(htmlPath, report.Group(records), report.DocumentOptions{
		Title:       cfg.Report.Title,
		Model:       cfg.Model,
		Locale:      cfg.Report.Locale,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return runDir, fmt.Errorf("writing HTML report: %w", err)
	}
	fmt.Fprintf(out, "\nResults: %s\nReport:  %s\n", resultsPath, htmlPath)

	var prices *pricing.Table
	if cfg.PricingFile != "" {
		if prices, err = pricing.Load(cfg.PricingFile); err != nil {
			log.Warn("pricing unavailable", "error", err)
		}
	}
	fmt.Fprintln(out, "\n--- Results ---")
	if err := report.Generate(records, "table", out, report.Options{
		Pricing:  prices,
		Document: report.DocumentOptions{Locale: cfg.Report.Locale},
	}); err != nil {
		return runDir, err
	}
	return runDir, runErr
}
