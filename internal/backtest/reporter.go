package backtest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/value-lines/internal/models"
)

// GenerateConsoleReport formats metrics for terminal output
func GenerateConsoleReport(m Metrics) string {
	var builder strings.Builder
	builder.WriteString("Track Record\n")
	builder.WriteString("============\n")
	builder.WriteString(fmt.Sprintf("Settled: %d (won %d, lost %d, push %d), pending %d\n", m.Settled, m.Won, m.Lost, m.Push, m.Pending))
	if m.Settled == 0 {
		return builder.String()
	}
	builder.WriteString(fmt.Sprintf("Period: %s to %s\n", m.StartDate.Format("2006-01-02"), m.EndDate.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("Hit Rate: %.2f%% (model %.2f%%)\n", m.HitRate*100, m.MeanProbability*100))
	builder.WriteString(fmt.Sprintf("Brier Score: %.4f\n", m.BrierScore))
	builder.WriteString(fmt.Sprintf("Units: %+.2f (ROI %.2f%%)\n", m.Units, m.ROI*100))
	builder.WriteString(fmt.Sprintf("Profit Factor: %.2f\n", m.ProfitFactor))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f units\n", m.MaxDrawdown))

	builder.WriteString("\nBy confidence\n")
	for _, key := range sortedKeys(m.ByConfidence) {
		writeBucket(&builder, key, m.ByConfidence[models.Confidence(key)])
	}
	builder.WriteString("\nBy field\n")
	for _, key := range sortedKeys(m.ByField) {
		writeBucket(&builder, key, m.ByField[models.FieldName(key)])
	}
	return builder.String()
}

func writeBucket(b *strings.Builder, name string, bucket *Bucket) {
	b.WriteString(fmt.Sprintf("  %-16s %4d  hit %.2f%%  model %.2f%%\n", name, bucket.Count, bucket.HitRate*100, bucket.MeanProbability*100))
}

func sortedKeys[K ~string](buckets map[K]*Bucket) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}
