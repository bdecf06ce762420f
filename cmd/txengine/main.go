package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iho/txengine/internal/adapter/csvsource"
	"github.com/iho/txengine/internal/adapter/report"
	"github.com/iho/txengine/internal/domain"
	"github.com/iho/txengine/internal/infrastructure/config"
	"github.com/iho/txengine/internal/infrastructure/idgen"
	"github.com/iho/txengine/internal/infrastructure/logger"
	"github.com/iho/txengine/internal/infrastructure/metrics"
	"github.com/iho/txengine/internal/usecase"
)

var (
	errMissingInput = errors.New("missing input file")
	errNotCSV       = errors.New("expected a .csv file")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		logLevel    string
		logFormat   string
		workers     int
		rounding    string
		format      string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "txengine [flags] <transactions.csv>",
		Short: "Apply a CSV transaction stream and print client balances",
		Long: `txengine reads deposits, withdrawals, disputes, resolves and chargebacks
from a CSV file, applies them to per-client accounts and prints the final
account states to stdout. Logs go to stderr.

Flags override the LOG_LEVEL, LOG_FORMAT, WORKERS, AMOUNT_ROUNDING,
REPORT_FORMAT and METRICS_FILE environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          validateArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("rounding") {
				cfg.AmountRounding = rounding
			}
			if flags.Changed("format") {
				cfg.ReportFormat = format
			}
			if flags.Changed("metrics-file") {
				cfg.MetricsFile = metricsFile
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cmd.Context(), cfg, args[0], stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")
	cmd.Flags().IntVar(&workers, "workers", usecase.DefaultWorkers, "Number of goroutines applying transactions")
	cmd.Flags().StringVar(&rounding, "rounding", string(domain.DefaultRounding), "Amount rounding (half_even, truncate, reject)")
	cmd.Flags().StringVar(&format, "format", string(report.FormatCSV), "Report format (csv, json)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")

	return cmd
}

func validateArgs(_ *cobra.Command, args []string) error {
	if len(args) < 1 {
		return errMissingInput
	}
	if len(args) > 1 {
		return fmt.Errorf("expected one input file, got %d", len(args))
	}
	if !strings.EqualFold(filepath.Ext(args[0]), ".csv") {
		return fmt.Errorf("%w: %s", errNotCSV, args[0])
	}
	return nil
}

func run(ctx context.Context, cfg *config.Config, path string, stdout, stderr io.Writer) error {
	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "txengine",
		Output:  stderr,
	})

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	m := metrics.New()
	registry := domain.NewRegistry()
	uc := usecase.NewProcessUseCase(registry, idgen.NewRunIDGenerator(), log, m)

	log.Info().Str("input", path).Str("rounding", cfg.AmountRounding).Msg("reading transactions")

	if _, err := uc.Process(ctx, usecase.ProcessInput{
		Source:  csvsource.New(f, cfg.Rounding()),
		Workers: cfg.Workers,
	}); err != nil {
		return err
	}

	if err := report.Write(stdout, report.Format(cfg.ReportFormat), uc.Report()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Debug().Str("path", cfg.MetricsFile).Msg("metrics written")
	}

	return nil
}
