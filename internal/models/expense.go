package models

import "time"

// Expense is a single recorded transaction. Category and Tags are resolved
// references populated by the store; tag membership is a set.
type Expense struct {
	ID              int64        `json:"id"`
	UserID          int64        `json:"-"`
	Amount          float64      `json:"amount"`
	TransactionDate time.Time    `json:"transactionDate"`
	Description     string       `json:"description"`
	PaymentType     string       `json:"paymentType"`
	Category        *CategoryRef `json:"category,omitempty"`
	Tags            []TagRef     `json:"tags,omitempty"`
	CreatedAt       time.Time    `json:"-"`
}
