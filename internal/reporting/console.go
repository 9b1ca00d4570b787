package reporting

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

// Console palette
var (
	accentColor = lipgloss.Color("#7C3AED")
	gainColor   = lipgloss.Color("#10B981")
	lossColor   = lipgloss.Color("#EF4444")
	borderColor = lipgloss.Color("#374151")
	mutedColor  = lipgloss.Color("#9CA3AF")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	labelStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// RenderConsole renders a compact terminal summary of the report.
func RenderConsole(r *Report) string {
	var sb strings.Builder
	s := r.Summary

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Market Simulation (%s)", modeTitle(r.Mode))))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render(fmt.Sprintf("run %s, seed %d", r.RunID, r.Seed)))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("%s %s -> %s (%s)\n",
		labelStyle.Render("Price:"), price(s.InitialPrice), price(s.FinalPrice), signed(pct(s.PriceChange), s.PriceChange)))
	sb.WriteString(fmt.Sprintf("%s %s at tick %d, max drawdown %s\n",
		labelStyle.Render("Peak: "), price(s.PeakPrice), s.PeakTick, pct(s.MaxDrawdown)))
	sb.WriteString(fmt.Sprintf("%s %s executed (%s buys, %s sells), %s rejected\n\n",
		labelStyle.Render("Trades:"),
		humanize.Comma(int64(s.Trades)),
		humanize.Comma(int64(r.Stats.Buys)),
		humanize.Comma(int64(r.Stats.Sells)),
		humanize.Comma(int64(r.Stats.Rejected))))

	rows := make([][]string, 0, len(r.Classes))
	for _, c := range r.Classes {
		rows = append(rows, []string{
			c.Class.Label(),
			humanize.Comma(int64(c.Count)),
			signed(humanize.CommafWithDigits(c.AverageProfit, 2), c.AverageProfit),
			humanize.CommafWithDigits(c.MedianProfit, 2),
			pct(c.AverageReturn),
			pct(c.WinShare),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers("Class", "Agents", "Avg Profit", "Median", "Avg Return", "Win Share").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	sb.WriteString(t.String())
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Insider advantage:"),
		signed(humanize.CommafWithDigits(r.ProfitGap, 2), r.ProfitGap)))

	return sb.String()
}

// signed colors text by the sign of v.
func signed(text string, v float64) string {
	switch {
	case v > 0:
		return lipgloss.NewStyle().Foreground(gainColor).Render(text)
	case v < 0:
		return lipgloss.NewStyle().Foreground(lossColor).Render(text)
	default:
		return text
	}
}
