package domain

// TransactionStats aggregates activity over a trailing window of days.
type TransactionStats struct {
	PeriodDays         int     `json:"period_days"`
	TotalDeposits      float64 `json:"total_deposits"`
	TotalWithdrawals   float64 `json:"total_withdrawals"`
	TotalTransfers     float64 `json:"total_transfers"`
	TotalPayments      float64 `json:"total_payments"`
	TransactionCount   int     `json:"transaction_count"`
	AverageTransaction float64 `json:"average_transaction"`
}

// DailySummary lists one day's activity.
type DailySummary struct {
	Date             string        `json:"date"`
	TransactionCount int           `json:"transaction_count"`
	TotalAmount      float64       `json:"total_amount"`
	Transactions     []Transaction `json:"transactions"`
}

// SpendingBreakdown splits spend by transaction type.
type SpendingBreakdown struct {
	Deposits    float64 `json:"deposits"`
	Withdrawals float64 `json:"withdrawals"`
	Transfers   float64 `json:"transfers"`
	Payments    float64 `json:"payments"`
}
