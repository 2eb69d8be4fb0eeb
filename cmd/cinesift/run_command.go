package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cinesift/internal/config"
	"cinesift/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		mainCSV     string
		extendedCSV string
		ratingsJSON string
		outputCSV   string
		noEnrich    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one reconciliation run over the configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := ctx.loadConfig(func(c *config.Config) {
				if mainCSV != "" {
					c.Sources.MainCSV = mainCSV
				}
				if extendedCSV != "" {
					c.Sources.ExtendedCSV = extendedCSV
				}
				if ratingsJSON != "" {
					c.Sources.RatingsJSON = ratingsJSON
				}
				if outputCSV != "" {
					c.Sources.OutputCSV = outputCSV
				}
				if noEnrich {
					c.Enrich.Enabled = false
				}
			})
			if err != nil {
				return err
			}

			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := pipeline.New(cfg, logger).Run(runCtx)
			if err != nil {
				return fmt.Errorf("run pipeline: %w", err)
			}

			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&mainCSV, "main", "", "Override the main movies CSV path")
	cmd.Flags().StringVar(&extendedCSV, "extended", "", "Override the extended movies CSV path")
	cmd.Flags().StringVar(&ratingsJSON, "ratings", "", "Override the ratings JSON path")
	cmd.Flags().StringVarP(&outputCSV, "output", "o", "", "Override the output CSV path")
	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "Skip the TMDB backfill stage")
	return cmd
}
