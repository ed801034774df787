package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	settleLimit  int
	settleID     string
	settleActual float64
)

func init() {
	settleCmd.Flags().IntVar(&settleLimit, "limit", 100, "Maximum pending predictions to grade")
	settleCmd.Flags().StringVar(&settleID, "id", "", "Grade a single prediction by ID")
	settleCmd.Flags().Float64Var(&settleActual, "actual", 0, "Actual match total, used with --id")
}

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Grade stored predictions against finished match stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := a.settlementService(ctx)
		if err != nil {
			return err
		}

		if settleID != "" {
			if !cmd.Flags().Changed("actual") {
				return fmt.Errorf("--actual is required with --id")
			}
			id, err := uuid.Parse(settleID)
			if err != nil {
				return fmt.Errorf("invalid prediction ID: %w", err)
			}
			status, err := svc.SettleByID(ctx, id, settleActual)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "prediction %s: %s\n", id, status)
			return nil
		}

		report, err := svc.SettlePending(ctx, settleLimit)
		if err != nil {
			return err
		}
		return renderSettlement(cmd.OutOrStdout(), outputFormat, report)
	},
}
