package models

import "github.com/shopspring/decimal"

// Expense is an expense record as served to clients. Amount is always
// rendered with exactly two decimal digits and Date as "YYYY-MM-DD HH:MM:SS".
type Expense struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// ExpenseInput is the create/update request body. Amount accepts both a JSON
// number and a quoted decimal string. Date is optional; when empty the store
// assigns the current time.
type ExpenseInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date,omitempty"`
}
