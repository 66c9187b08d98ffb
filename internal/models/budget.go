package models

// DefaultBudgetThreshold is the alert fraction applied to new budgets.
const DefaultBudgetThreshold = 0.75

// Budget is one amount per user per calendar month, unique on
// (user, year, month).
type Budget struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"-"`
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Amount    float64 `json:"amount"`
	Threshold float64 `json:"threshold"`
}
