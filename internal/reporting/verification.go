package reporting

import (
	"fmt"
	"strings"

	"token-launch-sim/internal/verification"
)

// maxListedDivergences caps the divergent transactions listed in detail.
const maxListedDivergences = 20

// RenderVerificationMarkdown renders invariant checks and, when present,
// a replay verification report.
func RenderVerificationMarkdown(inv *verification.InvariantReport, replay *verification.VerificationReport) string {
	var sb strings.Builder

	sb.WriteString("# Verification Report\n\n")
	sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", inv.RunID))

	// Invariants
	sb.WriteString("## Invariant Checks\n\n")
	sb.WriteString("| Check | Status | Detail |\n")
	sb.WriteString("|-------|--------|--------|\n")
	for _, c := range inv.Checks {
		status := "FAIL"
		if c.Passed {
			status = "PASS"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", c.Name, status, c.Detail))
	}
	sb.WriteString("\n")

	if replay == nil {
		return sb.String()
	}

	// Replay
	sb.WriteString("## Deterministic Replay\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Stored Transactions | %d |\n", replay.TotalTransactions))
	sb.WriteString(fmt.Sprintf("| Matched | %d |\n", replay.MatchedTransactions))
	sb.WriteString(fmt.Sprintf("| Divergent | %d |\n", replay.DivergentTransactions))
	sb.WriteString(fmt.Sprintf("| Divergent Ticks | %d |\n", len(replay.PriceDivergences)))
	sb.WriteString("\n")

	if replay.Match() {
		sb.WriteString("**Replay matches the stored run.**\n\n")
		return sb.String()
	}

	sb.WriteString("### Divergences\n\n")
	listed := 0
	for _, r := range replay.Results {
		if r.Match {
			continue
		}
		if listed == maxListedDivergences {
			sb.WriteString(fmt.Sprintf("- ... %d more\n", replay.DivergentTransactions-listed))
			break
		}
		for _, d := range r.Divergences {
			sb.WriteString(fmt.Sprintf("- seq %d `%s` %s: expected %v, got %v\n", r.Seq, r.TxID, d.Field, d.Expected, d.Actual))
		}
		listed++
	}
	for _, t := range replay.PriceDivergences {
		for _, d := range t.Divergences {
			sb.WriteString(fmt.Sprintf("- tick %d %s: expected %v, got %v\n", t.Tick, d.Field, d.Expected, d.Actual))
		}
	}
	sb.WriteString("\n")

	return sb.String()
}
