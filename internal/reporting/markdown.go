package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Market Simulation (%s)\n\n", modeTitle(r.Mode)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: `%s` | Seed: %d\n\n", r.RunID, r.Seed))

	// Parameters
	sb.WriteString("## Parameters\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	for _, p := range r.Parameters {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", p.Name, p.Value))
	}
	sb.WriteString("\n")

	// Market Summary
	s := r.Summary
	sb.WriteString("## Market Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Initial Price | %s |\n", price(s.InitialPrice)))
	sb.WriteString(fmt.Sprintf("| Final Price | %s |\n", price(s.FinalPrice)))
	sb.WriteString(fmt.Sprintf("| Peak Price | %s (tick %d) |\n", price(s.PeakPrice), s.PeakTick))
	sb.WriteString(fmt.Sprintf("| Price Change | %s |\n", pct(s.PriceChange)))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %s |\n", pct(s.MaxDrawdown)))
	sb.WriteString(fmt.Sprintf("| Trades | %d |\n", s.Trades))
	sb.WriteString("\n")

	if len(s.Flows) > 0 {
		sb.WriteString("### Trade Flow\n\n")
		sb.WriteString("| Class | Buys | Sells | Bought | Sold | Buy Volume | Sell Volume |\n")
		sb.WriteString("|-------|------|-------|--------|------|------------|-------------|\n")
		for _, f := range s.Flows {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s | %s | %s |\n",
				f.Class.Label(), f.Buys, f.Sells, qty(f.BoughtQty), qty(f.SoldQty),
				money(f.BuyVolume), money(f.SellVolume)))
		}
		sb.WriteString("\n")
	}

	// Run Statistics
	st := r.Stats
	sb.WriteString("## Run Statistics\n\n")
	sb.WriteString("| Ticks | Decisions | Attempts | Buys | Sells | Rejected |\n")
	sb.WriteString("|-------|-----------|----------|------|-------|----------|\n")
	sb.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %d | %d |\n\n",
		st.Ticks, st.Decisions, st.Attempts, st.Buys, st.Sells, st.Rejected))
	if len(st.Rejections) > 0 {
		sb.WriteString("### Rejections\n\n")
		for _, rej := range st.Rejections {
			sb.WriteString(fmt.Sprintf("- %s: %d\n", rej.Reason, rej.Count))
		}
		sb.WriteString("\n")
	}

	// Class Outcomes
	sb.WriteString("## Outcomes by Class\n\n")
	if len(r.Classes) > 0 {
		sb.WriteString("| Class | Agents | Avg Profit | Median | P10 | P90 | Stddev | Min | Max | Avg Return | Win Share |\n")
		sb.WriteString("|-------|--------|------------|--------|-----|-----|--------|-----|-----|------------|-----------|\n")
		for _, c := range r.Classes {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				c.Class.Label(), c.Count, money(c.AverageProfit), money(c.MedianProfit),
				money(c.P10Profit), money(c.P90Profit), money(c.StddevProfit),
				money(c.MinProfit), money(c.MaxProfit), pct(c.AverageReturn), pct(c.WinShare)))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Insider advantage (avg profit gap): **%s**\n\n", money(r.ProfitGap)))
	} else {
		sb.WriteString("No agents.\n\n")
	}

	// Agent Outcomes
	sb.WriteString("## Final Agent Positions\n\n")
	if len(r.Agents) > 0 {
		sb.WriteString("| Agent | Class | Capital | Tokens | Realized | Unrealized | Total | Return |\n")
		sb.WriteString("|-------|-------|---------|--------|----------|------------|-------|--------|\n")
		for _, a := range r.Agents {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
				a.ID, a.Class.Label(), money(a.Capital), qty(a.Tokens),
				money(a.RealizedProfit), money(a.UnrealizedProfit), money(a.TotalProfit), pct(a.Return)))
		}
	} else {
		sb.WriteString("No agents.\n")
	}
	sb.WriteString("\n")

	// Integrity errors (only shown if present)
	if len(r.IntegrityErrors) > 0 {
		sb.WriteString("## Integrity Errors\n\n")
		for _, err := range r.IntegrityErrors {
			sb.WriteString(fmt.Sprintf("- %s\n", err))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
