package reporting

import (
	"fmt"
	"strings"
	"time"

	"token-launch-sim/internal/orchestrator"
)

// RenderComparisonMarkdown renders an isolated vs synthetic comparison.
func RenderComparisonMarkdown(cmp *orchestrator.Comparison, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Market Mode Comparison\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Seed: %d\n\n", cmp.Seed))

	// Runs
	sb.WriteString("## Runs\n\n")
	sb.WriteString("| Market | Run | Final Price | Trades | Invariants |\n")
	sb.WriteString("|--------|-----|-------------|--------|------------|\n")
	for _, m := range cmp.Modes {
		status := "PASS"
		if m.Invariants != nil && !m.Invariants.Passed() {
			status = fmt.Sprintf("FAIL (%d)", len(m.Invariants.Failed()))
		}
		sb.WriteString(fmt.Sprintf("| %s | `%s` | %s | %d | %s |\n",
			modeTitle(m.Mode), m.Result.RunID, price(m.Summary.FinalPrice), m.Summary.Trades, status))
	}
	sb.WriteString("\n")

	// Metrics
	sb.WriteString("## Isolated vs Synthetic\n\n")
	if len(cmp.Rows) > 0 {
		sb.WriteString("| Metric | Isolated | Synthetic | Delta |\n")
		sb.WriteString("|--------|----------|-----------|-------|\n")
		for _, row := range cmp.Rows {
			sb.WriteString(fmt.Sprintf("| %s | %.6f | %.6f | %+.6f |\n",
				row.Metric, row.Isolated, row.Synthetic, row.Delta))
		}
	} else {
		sb.WriteString("Both market modes are required for a comparison.\n")
	}
	sb.WriteString("\n")

	// Failed checks (only shown if present)
	for _, m := range cmp.Modes {
		if m.Invariants == nil || m.Invariants.Passed() {
			continue
		}
		sb.WriteString(fmt.Sprintf("### Failed Checks (%s)\n\n", modeTitle(m.Mode)))
		for _, c := range m.Invariants.Failed() {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", c.Name, c.Detail))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
