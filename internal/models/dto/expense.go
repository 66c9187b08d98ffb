package dto

import "time"

// ExpenseRequest is shared by create and update. A nil TagIDs leaves the tag
// set untouched on update; an empty slice clears it.
type ExpenseRequest struct {
	Amount          float64    `json:"amount"`
	TransactionDate *time.Time `json:"transactionDate"`
	CategoryID      *int64     `json:"categoryId"`
	TagIDs          []int64    `json:"tagIds"`
	Description     string     `json:"description"`
	PaymentType     string     `json:"paymentType"`
}
