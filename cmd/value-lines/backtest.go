package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/value-lines/internal/backtest"
	"github.com/yourusername/value-lines/internal/datasource"
)

var reportSince string

func init() {
	reportCmd.Flags().StringVar(&reportSince, "since", "", "Only include predictions settled on or after this date (YYYY-MM-DD)")
}

var backtestCmd = &cobra.Command{
	Use:   "backtest SNAPSHOT [FIXTURE_ID...]",
	Short: "Grade lines priced from a snapshot against the fixtures' final stats",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		snapshot, err := datasource.LoadSnapshot(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()

		analyzer, err := a.analysisService(ctx, snapshot, false)
		if err != nil {
			return err
		}
		engine, err := backtest.NewEngine(analyzer, snapshot, appLog)
		if err != nil {
			return err
		}

		ids := args[1:]
		if len(ids) == 0 {
			ids = snapshot.FixtureIDs()
		}
		result, err := engine.Run(ctx, ids)
		if err != nil {
			return err
		}

		if outputFormat == "json" {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "fixtures %d, graded %d, skipped %d\n\n", result.Fixtures, result.Graded, result.Skipped)
		fmt.Fprint(cmd.OutOrStdout(), backtest.GenerateConsoleReport(result.Metrics))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the track record of stored predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var since time.Time
		if reportSince != "" {
			var err error
			if since, err = time.Parse("2006-01-02", reportSince); err != nil {
				return fmt.Errorf("invalid --since: %w", err)
			}
		}

		a, err := newApp(cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.openDatabase(ctx); err != nil {
			return err
		}
		if a.repos == nil {
			return fmt.Errorf("report requires database.enabled")
		}

		predictions, err := a.repos.Prediction.ListSettled(ctx, since)
		if err != nil {
			return err
		}
		metrics := backtest.CalculateMetrics(predictions)
		if outputFormat == "json" {
			return writeJSON(cmd.OutOrStdout(), metrics)
		}
		fmt.Fprint(cmd.OutOrStdout(), backtest.GenerateConsoleReport(metrics))
		return nil
	},
}
