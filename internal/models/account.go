package models

type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCredit   AccountType = "credit"
)

// Account maps to table `accounts`. The JSON tags are the wire shape the
// dashboard UI consumes, so they stay snake_case.
//
// For checking/savings accounts Amount never drops below zero at a committed
// state. For credit accounts Amount is the (negative) amount owed, bounded
// below by -CreditLimit and above by zero.
type Account struct {
	AccountNumber string      `json:"account_number"`
	Name          string      `json:"name"`
	Amount        float64     `json:"amount"`
	Type          AccountType `json:"type"`
	CreditLimit   float64     `json:"credit_limit"`
}
