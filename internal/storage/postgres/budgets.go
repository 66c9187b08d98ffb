package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/storage"
)

// UpsertBudget inserts or overwrites the amount for (user, year, month).
func (s *Store) UpsertBudget(ctx context.Context, budget models.Budget) (models.Budget, error) {
	if budget.Threshold == 0 {
		budget.Threshold = models.DefaultBudgetThreshold
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO budgets (user_id, budget_year, budget_month, amount, threshold)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, budget_year, budget_month) DO UPDATE SET amount = EXCLUDED.amount
		RETURNING id, user_id, budget_year, budget_month, amount, threshold`,
		budget.UserID, budget.Year, budget.Month, budget.Amount, budget.Threshold)
	return scanBudget(row)
}

// BudgetByMonth fetches the budget for (user, year, month).
func (s *Store) BudgetByMonth(ctx context.Context, userID int64, year, month int) (models.Budget, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, budget_year, budget_month, amount, threshold
		FROM budgets WHERE user_id = $1 AND budget_year = $2 AND budget_month = $3`,
		userID, year, month)
	return scanBudget(row)
}

func scanBudget(row pgx.Row) (models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Year, &b.Month, &b.Amount, &b.Threshold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Budget{}, storage.ErrNotFound
		}
		return models.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	return b, nil
}
