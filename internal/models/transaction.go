package models

import "time"

type TransactionType string

const (
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeDeposit    TransactionType = "deposit"
)

// Transaction maps to table `transactions`. Rows are append-only: created
// exactly once per successful withdrawal or deposit, never updated or
// deleted. CreatedAt is assigned by the database at insert time and drives
// the rolling daily-withdrawal aggregation.
type Transaction struct {
	ID            int64           `json:"id"`
	AccountNumber string          `json:"account_number"`
	Amount        float64         `json:"amount"` // positive magnitude of the movement
	Type          TransactionType `json:"type"`
	CreatedAt     time.Time       `json:"created_at"`
}
