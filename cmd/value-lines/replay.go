package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/value-lines/internal/datasource"
)

var replayCmd = &cobra.Command{
	Use:   "replay SNAPSHOT [FIXTURE_ID...]",
	Short: "Price fixtures from a recorded snapshot without network access",
	Long: `Replays recorded provider responses through the aggregator and engine.
With no fixture IDs every fixture in the snapshot is priced.`,
	Args: cobra.MinimumNArgs(1),
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

		// Replays never write predictions
		svc, err := a.analysisService(ctx, snapshot, false)
		if err != nil {
			return err
		}

		ids := args[1:]
		if len(ids) == 0 {
			ids = snapshot.FixtureIDs()
		}
		for _, id := range ids {
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
