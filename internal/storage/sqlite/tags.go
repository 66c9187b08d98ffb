package sqlite

import (
	"context"
	"fmt"

	"github.com/digiwallet/wallet-be/internal/models"
)

// CreateTag inserts a user-owned tag.
func (s *Store) CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tags (name, is_system, owner_id) VALUES (?, ?, ?)",
		tag.Name, tag.IsSystem, tag.OwnerID)
	if err != nil {
		return models.Tag{}, fmt.Errorf("insert tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Tag{}, fmt.Errorf("tag insert id: %w", err)
	}
	tag.ID = id
	return tag, nil
}

// TagsVisibleTo lists the user's own tags unioned with all system tags,
// system tags first, alphabetical within each group.
func (s *Store) TagsVisibleTo(ctx context.Context, userID int64) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, is_system, owner_id FROM tags
		WHERE is_system = 1 OR owner_id = ?
		ORDER BY is_system DESC, name COLLATE NOCASE ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.IsSystem, &t.OwnerID); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SystemTagCount counts seeded system tags.
func (s *Store) SystemTagCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM tags WHERE is_system = 1").Scan(&n); err != nil {
		return 0, fmt.Errorf("count system tags: %w", err)
	}
	return n, nil
}

// InsertSystemTags bulk-inserts the shared catalog inside one transaction.
func (s *Store) InsertSystemTags(ctx context.Context, names []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO tags (name, is_system, owner_id) VALUES (?, 1, NULL)")
	if err != nil {
		return fmt.Errorf("prepare seed insert: %w", err)
	}
	defer stmt.Close()

	for _, name := range names {
		if _, err := stmt.ExecContext(ctx, name); err != nil {
			return fmt.Errorf("insert system tag %q: %w", name, err)
		}
	}
	return tx.Commit()
}
