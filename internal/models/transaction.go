package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"

	PaymentCash   = "Cash"
	PaymentOnline = "Online"
	PaymentOther  = "Other"
)

// Transaction represents a single income or expense entry.
// Account holds the account name as free text; it is not a reference to Account.ID.
type Transaction struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"-"`
	Account   string          `json:"account"`
	Type      string          `json:"type"`
	Date      string          `json:"date"` // Format: YYYY-MM-DD
	Time      string          `json:"time"` // Format: HH:MM
	Amount    decimal.Decimal `json:"amount"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Remark    string          `json:"remark"`
	Payment   string          `json:"payment"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	Account   string
	Type      string
	StartDate string
	EndDate   string
	// Ordering is a comma separated list of fields, "-" prefix for descending.
	Ordering string
}

// TransactionSummary holds totals over a filtered set of transactions.
type TransactionSummary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}
