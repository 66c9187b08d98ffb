package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/storage"
)

// UpsertBudget inserts or overwrites the amount for (user, year, month).
// The unique key guarantees a single row; the threshold set at first insert
// survives later upserts.
func (s *Store) UpsertBudget(ctx context.Context, budget models.Budget) (models.Budget, error) {
	if budget.Threshold == 0 {
		budget.Threshold = models.DefaultBudgetThreshold
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO budgets (user_id, budget_year, budget_month, amount, threshold)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, budget_year, budget_month) DO UPDATE SET amount = excluded.amount
		RETURNING id, user_id, budget_year, budget_month, amount, threshold`,
		budget.UserID, budget.Year, budget.Month, budget.Amount, budget.Threshold)
	return scanBudget(row)
}

// BudgetByMonth fetches the budget for (user, year, month).
func (s *Store) BudgetByMonth(ctx context.Context, userID int64, year, month int) (models.Budget, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, budget_year, budget_month, amount, threshold
		FROM budgets WHERE user_id = ? AND budget_year = ? AND budget_month = ?`,
		userID, year, month)
	return scanBudget(row)
}

func scanBudget(row *sql.Row) (models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Year, &b.Month, &b.Amount, &b.Threshold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Budget{}, storage.ErrNotFound
		}
		return models.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	return b, nil
}
