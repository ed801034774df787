package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/yourusername/value-lines/internal/service"
	"github.com/yourusername/value-lines/internal/valueline"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderAnalysis prints one fixture's recommendations
func renderAnalysis(w io.Writer, format string, result *service.AnalysisResult) error {
	if format == "json" {
		return writeJSON(w, result)
	}

	f := result.Fixture
	fmt.Fprintf(w, "%s vs %s (fixture %s)\n", f.Home.Name, f.Away.Name, f.ID)
	fmt.Fprintf(w, "history: home %d matches (%d failed), away %d matches (%d failed)\n",
		result.Home.SampleSize, result.Home.FailedMatches, result.Away.SampleSize, result.Away.FailedMatches)

	if len(result.Recommendations) == 0 {
		fmt.Fprintln(w, "no line in the target band")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tLINE\tSIDE\tPROB\tDECIMAL\tAMERICAN\tFRACTIONAL\tPREDICTED\tN\tCONFIDENCE")
	for _, r := range result.Recommendations {
		american := "-"
		if a, err := valueline.DecimalToAmerican(r.FairDecimalOdds); err == nil {
			american = valueline.FormatAmerican(a)
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%s\t%.3f\t%s\t%s\t%s\t%.2f ± %.2f\t%d\t%s\n",
			r.Field, r.Line, r.Side, r.Probability,
			valueline.FormatDecimal(r.FairDecimalOdds), american, valueline.DecimalToFractional(r.FairDecimalOdds),
			r.PredictedTotal, r.PredictedStdDev, r.SampleSize, r.Confidence)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if n := len(result.Predictions); n > 0 {
		fmt.Fprintf(w, "stored %d predictions\n", n)
	}
	return nil
}

func renderSettlement(w io.Writer, format string, report *service.SettlementReport) error {
	if format == "json" {
		return writeJSON(w, report)
	}
	_, err := fmt.Fprintf(w, "checked %d, settled %d (won %d, lost %d, push %d), skipped %d\n",
		report.Checked, report.Settled, report.Won, report.Lost, report.Push, report.Skipped)
	return err
}
