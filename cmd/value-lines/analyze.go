package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var persistPredictions bool

func init() {
	analyzeCmd.Flags().BoolVar(&persistPredictions, "persist", false, "Store recommendations as pending predictions (defaults to storage.persist_predictions)")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze FIXTURE_ID...",
	Short: "Price fixtures from the live stats API",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()

		persist := cfg.Storage.PersistPredictions
		if cmd.Flags().Changed("persist") {
			persist = persistPredictions
		}

		svc, err := a.analysisService(ctx, a.statsProvider(), persist)
		if err != nil {
			return err
		}

		for _, id := range args {
			result, err := svc.AnalyzeFixtureID(ctx, id)
			if err != nil {
				return fmt.Errorf("fixture %s: %w", id, err)
			}
			if err := renderAnalysis(cmd.OutOrStdout(), outputFormat, result); err != nil {
				return err
			}
		}
		return nil
	},
}
