package reporting

import (
	"fmt"
	"strings"

	"token-launch-sim/internal/analysis"
	"token-launch-sim/internal/domain"
)

// RenderTransactionsCSV renders the market log as CSV string.
func RenderTransactionsCSV(txs []domain.Transaction) string {
	var sb strings.Builder

	// Header
	sb.WriteString("seq,tx_id,time,agent_id,agent_class,action,quantity,price,profit\n")

	// Rows
	for _, tx := range txs {
		sb.WriteString(fmt.Sprintf("%d,%s,%d,%s,%s,%s,%.6f,%.10f,%.6f\n",
			tx.Seq,
			tx.TxID,
			tx.Time,
			tx.AgentID,
			tx.AgentClass,
			tx.Action,
			tx.Quantity,
			tx.Price,
			tx.Profit,
		))
	}

	return sb.String()
}

// RenderPricesCSV renders the per-tick price series as CSV string.
func RenderPricesCSV(points []domain.PricePoint) string {
	var sb strings.Builder

	sb.WriteString("tick,open,close,active_agents,trades\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%d,%.10f,%.10f,%d,%d\n",
			p.Tick, p.Open, p.Close, p.ActiveAgents, p.Trades))
	}

	return sb.String()
}

// RenderAgentsCSV renders final agent positions as CSV string.
func RenderAgentsCSV(agents []analysis.AgentOutcome) string {
	var sb strings.Builder

	sb.WriteString("agent_id,address,class,capital,tokens,realized_profit,unrealized_profit,total_profit,final_value,return\n")
	for _, a := range agents {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			a.ID,
			a.Address,
			a.Class,
			a.Capital,
			a.Tokens,
			a.RealizedProfit,
			a.UnrealizedProfit,
			a.TotalProfit,
			a.FinalValue,
			a.Return,
		))
	}

	return sb.String()
}
