package domain

// TradeStatus is the outcome of a trade execution attempt.
type TradeStatus string

// Trade statuses.
const (
	TradeExecuted TradeStatus = "executed"
	TradeRejected TradeStatus = "rejected"
)

// RejectReason explains why a trade was downgraded to hold.
type RejectReason string

// Reject reason codes.
const (
	RejectNone                RejectReason = ""
	RejectNonPositiveQuantity RejectReason = "non_positive_quantity"
	RejectInsufficientCapital RejectReason = "insufficient_capital"
	RejectInsufficientTokens  RejectReason = "insufficient_tokens"
	RejectZeroPrice           RejectReason = "zero_price"
	RejectNotATrade           RejectReason = "not_a_trade"
	RejectUnknownAction       RejectReason = "unknown_action"
)

// RejectReasons lists every non-empty reason code.
var RejectReasons = []RejectReason{
	RejectNonPositiveQuantity,
	RejectInsufficientCapital,
	RejectInsufficientTokens,
	RejectZeroPrice,
	RejectNotATrade,
	RejectUnknownAction,
}

// TradeResult is returned by every trade execution attempt.
// A rejected trade reports Action=hold and Quantity=0 and leaves all state untouched.
type TradeResult struct {
	Status   TradeStatus
	Reason   RejectReason
	Action   Action
	Quantity float64
	Price    float64 // price at execution (or evaluation, if rejected)
	Profit   float64 // realized profit of this trade, 0 for buys

	// Transaction is the appended log entry; nil when rejected.
	Transaction *Transaction
}

// Executed reports whether the trade was applied.
func (r TradeResult) Executed() bool {
	return r.Status == TradeExecuted
}

// Rejected builds a rejected result.
func Rejected(reason RejectReason, price float64) TradeResult {
	return TradeResult{
		Status: TradeRejected,
		Reason: reason,
		Action: ActionHold,
		Price:  price,
	}
}
