package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/txengine/internal/adapter/csvgen"
	"github.com/iho/txengine/internal/infrastructure/logger"
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		output    string
		rows      int
		clients   int
		seed      int64
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:   "testgen [flags]",
		Short: "Generate a random transaction file for txengine",
		Long: `testgen writes a header and --rows randomized transactions. About half of
the rows carry an amount regardless of their type. Amounts are float32
values printed at full precision, and line endings alternate between \n
and \r\n.

Use --output - to write to stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logger.Config{
				Level:   logLevel,
				Format:  logFormat,
				Service: "testgen",
				Output:  stderr,
			})

			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			w := stdout
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			log.Info().Str("output", output).Int("rows", rows).Int("clients", clients).Int64("seed", seed).Msg("generating test file")

			stats, err := csvgen.Write(w, csvgen.Options{Rows: rows, Clients: clients, Seed: seed})
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}

			log.Info().
				Int("rows", stats.Rows).
				Int("with_amount", stats.WithAmount).
				Int("without_amount", stats.WithoutAmount).
				Msg("test file written")

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "test.csv", "Output file, - for stdout")
	cmd.Flags().IntVar(&rows, "rows", csvgen.DefaultRows, "Number of transactions to generate")
	cmd.Flags().IntVar(&clients, "clients", csvgen.DefaultClients, "Number of distinct client ids")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (defaults to the current time)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")

	return cmd
}
