package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/storage"
)

const expenseColumns = "e.id, e.user_id, e.category_id, e.amount, e.transaction_date, e.description, e.payment_type, e.created_at"

// CreateExpense inserts an expense and attaches its tag set. Tag ids that do
// not exist are dropped; duplicates collapse through the join table key.
func (s *Store) CreateExpense(ctx context.Context, expense models.Expense, categoryID *int64, tagIDs []int64) (models.Expense, error) {
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, category_id, amount, transaction_date, description, payment_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.UserID, categoryID, expense.Amount, toMillis(expense.TransactionDate),
		expense.Description, expense.PaymentType, toMillis(expense.CreatedAt))
	if err != nil {
		return models.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Expense{}, fmt.Errorf("expense insert id: %w", err)
	}
	if err := s.replaceExpenseTags(ctx, id, tagIDs); err != nil {
		return models.Expense{}, err
	}
	return s.ExpenseByID(ctx, id)
}

// ExpenseByID fetches one expense with resolved category and tag references.
func (s *Store) ExpenseByID(ctx context.Context, id int64) (models.Expense, error) {
	rows, err := s.queryExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses e WHERE e.id = ?", id)
	if err != nil {
		return models.Expense{}, err
	}
	if len(rows) == 0 {
		return models.Expense{}, storage.ErrNotFound
	}
	return rows[0], nil
}

// UpdateExpense overwrites the mutable fields. A nil categoryID clears the
// category; a nil tagIDs slice leaves the tag set untouched, a non-nil one
// (empty included) replaces it.
func (s *Store) UpdateExpense(ctx context.Context, expense models.Expense, categoryID *int64, tagIDs []int64) (models.Expense, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET amount = ?, transaction_date = ?, description = ?, payment_type = ?, category_id = ?
		WHERE id = ?`,
		expense.Amount, toMillis(expense.TransactionDate), expense.Description,
		expense.PaymentType, categoryID, expense.ID)
	if err != nil {
		return models.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Expense{}, storage.ErrNotFound
	}
	if tagIDs != nil {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM expense_tags WHERE expense_id = ?", expense.ID); err != nil {
			return models.Expense{}, fmt.Errorf("clear expense tags: %w", err)
		}
		if err := s.replaceExpenseTags(ctx, expense.ID, tagIDs); err != nil {
			return models.Expense{}, err
		}
	}
	return s.ExpenseByID(ctx, expense.ID)
}

// DeleteExpense removes an expense; the join table cascades.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// RecentExpenses returns the user's latest expenses by identity order.
func (s *Store) RecentExpenses(ctx context.Context, userID int64, limit int) ([]models.Expense, error) {
	return s.queryExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses e WHERE e.user_id = ? ORDER BY e.id DESC LIMIT ?",
		userID, limit)
}

// FilterExpenses answers the compound search: every predicate is optional and
// the sixteen presence combinations flow through this one builder. Results
// are always owner-restricted, transaction-date descending, and DISTINCT so
// an expense matching several tags in the filter set appears once.
func (s *Store) FilterExpenses(ctx context.Context, userID int64, filter storage.ExpenseFilter) ([]models.Expense, error) {
	var b strings.Builder
	b.WriteString("SELECT DISTINCT " + expenseColumns + " FROM expenses e")
	if len(filter.TagIDs) > 0 {
		b.WriteString(" LEFT JOIN expense_tags et ON et.expense_id = e.id")
	}
	b.WriteString(" WHERE e.user_id = ?")
	args := []any{userID}

	if filter.StartDate != nil {
		b.WriteString(" AND e.transaction_date >= ?")
		args = append(args, toMillis(*filter.StartDate))
	}
	if filter.EndDate != nil {
		b.WriteString(" AND e.transaction_date <= ?")
		args = append(args, toMillis(*filter.EndDate))
	}
	if len(filter.CategoryIDs) > 0 {
		b.WriteString(" AND e.category_id IN (" + placeholders(len(filter.CategoryIDs)) + ")")
		args = append(args, int64Args(filter.CategoryIDs)...)
	}
	if len(filter.TagIDs) > 0 {
		b.WriteString(" AND et.tag_id IN (" + placeholders(len(filter.TagIDs)) + ")")
		args = append(args, int64Args(filter.TagIDs)...)
	}

	size := filter.Size
	if size <= 0 {
		size = 10
	}
	page := filter.Page
	if page < 0 {
		page = 0
	}
	b.WriteString(" ORDER BY e.transaction_date DESC LIMIT ? OFFSET ?")
	args = append(args, size, page*size)

	return s.queryExpenses(ctx, b.String(), args...)
}

func (s *Store) queryExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	var categoryIDs []sql.NullInt64
	for rows.Next() {
		var e models.Expense
		var catID sql.NullInt64
		var txDate, createdAt int64
		if err := rows.Scan(&e.ID, &e.UserID, &catID, &e.Amount, &txDate,
			&e.Description, &e.PaymentType, &createdAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.TransactionDate = fromMillis(txDate)
		e.CreatedAt = fromMillis(createdAt)
		expenses = append(expenses, e)
		categoryIDs = append(categoryIDs, catID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachCategoryRefs(ctx, expenses, categoryIDs); err != nil {
		return nil, err
	}
	if err := s.attachTagRefs(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) attachCategoryRefs(ctx context.Context, expenses []models.Expense, categoryIDs []sql.NullInt64) error {
	unique := map[int64]bool{}
	var ids []int64
	for _, catID := range categoryIDs {
		if catID.Valid && !unique[catID.Int64] {
			unique[catID.Int64] = true
			ids = append(ids, catID.Int64)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.parent_id, p.name
		FROM categories c LEFT JOIN categories p ON p.id = c.parent_id
		WHERE c.id IN (`+placeholders(len(ids))+")", int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("query category refs: %w", err)
	}
	defer rows.Close()

	refs := map[int64]models.CategoryRef{}
	for rows.Next() {
		var ref models.CategoryRef
		var parentName sql.NullString
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.ParentID, &parentName); err != nil {
			return fmt.Errorf("scan category ref: %w", err)
		}
		if parentName.Valid {
			ref.ParentName = &parentName.String
		}
		refs[ref.ID] = ref
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range expenses {
		if categoryIDs[i].Valid {
			if ref, ok := refs[categoryIDs[i].Int64]; ok {
				r := ref
				expenses[i].Category = &r
			}
		}
	}
	return nil
}

func (s *Store) attachTagRefs(ctx context.Context, expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	ids := make([]int64, len(expenses))
	index := make(map[int64]int, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
		index[e.ID] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT et.expense_id, t.id, t.name
		FROM expense_tags et JOIN tags t ON t.id = et.tag_id
		WHERE et.expense_id IN (`+placeholders(len(ids))+`)
		ORDER BY t.id`, int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("query tag refs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID int64
		var ref models.TagRef
		if err := rows.Scan(&expenseID, &ref.ID, &ref.Name); err != nil {
			return fmt.Errorf("scan tag ref: %w", err)
		}
		i := index[expenseID]
		expenses[i].Tags = append(expenses[i].Tags, ref)
	}
	return rows.Err()
}

// replaceExpenseTags attaches only tag ids that exist; the SELECT guards the
// foreign key and INSERT OR IGNORE collapses duplicates.
func (s *Store) replaceExpenseTags(ctx context.Context, expenseID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		_, err := s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO expense_tags (expense_id, tag_id)
			SELECT ?, id FROM tags WHERE id = ?`, expenseID, tagID)
		if err != nil {
			return fmt.Errorf("attach tag %d: %w", tagID, err)
		}
	}
	return nil
}
