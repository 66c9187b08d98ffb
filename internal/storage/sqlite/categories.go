package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/storage"
)

// CreateCategory inserts a category scoped to its owner (nil owner = global).
func (s *Store) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (name, parent_id, owner_id) VALUES (?, ?, ?)",
		category.Name, category.ParentID, category.OwnerID)
	if err != nil {
		return models.Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	category.ID = id
	return category, nil
}

// CategoryByID fetches a single category.
func (s *Store) CategoryByID(ctx context.Context, id int64) (models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, parent_id, owner_id FROM categories WHERE id = ?", id)
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.ParentID, &c.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, storage.ErrNotFound
		}
		return models.Category{}, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

// CategoriesVisibleTo lists categories owned by the user or global.
func (s *Store) CategoriesVisibleTo(ctx context.Context, userID int64) ([]models.Category, error) {
	return s.queryCategories(ctx,
		"SELECT id, name, parent_id, owner_id FROM categories WHERE owner_id IS NULL OR owner_id = ? ORDER BY id",
		userID)
}

// TopLevelCategories lists parentless categories owned by the user or global.
func (s *Store) TopLevelCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	return s.queryCategories(ctx,
		"SELECT id, name, parent_id, owner_id FROM categories WHERE parent_id IS NULL AND (owner_id IS NULL OR owner_id = ?) ORDER BY id",
		userID)
}

func (s *Store) queryCategories(ctx context.Context, query string, args ...any) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.OwnerID); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
