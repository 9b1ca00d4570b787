package reporting

import (
	"time"

	"token-launch-sim/internal/analysis"
	"token-launch-sim/internal/domain"
)

// Report represents one simulation run, ready to render.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	Mode        domain.MarketMode
	Seed        uint64

	// Run parameters, in display order
	Parameters []ParameterRow

	// Entry ticks, used for chart markers
	InsiderEntry int
	PublicEntry  int

	// Market path and flows
	Summary analysis.MarketSummary

	// Driver counters
	Stats RunStats

	// Outcomes (classes in domain.AgentClasses order, agents in creation order)
	Classes   []analysis.ClassOutcome
	Agents    []analysis.AgentOutcome
	ProfitGap float64 // insider minus outsider average profit

	// Raw data for CSV export and charts
	Transactions []domain.Transaction
	Prices       []domain.PricePoint

	// Mismatches between the in-memory result and the stores
	IntegrityErrors []string
}

// ParameterRow is one configuration value.
type ParameterRow struct {
	Name  string
	Value string
}

// RunStats summarizes the driver counters.
type RunStats struct {
	Ticks      int
	Decisions  int
	Attempts   int
	Buys       int
	Sells      int
	Rejected   int
	Rejections []RejectionRow // domain.RejectReasons order, non-zero only
}

// RejectionRow counts rejected trades of one reason.
type RejectionRow struct {
	Reason domain.RejectReason
	Count  int
}
