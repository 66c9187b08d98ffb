package postgres

import (
	"context"
	"fmt"

	"github.com/digiwallet/wallet-be/internal/models"
)

// CreateTag inserts a user-owned tag.
func (s *Store) CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tags (name, is_system, owner_id) VALUES ($1, $2, $3)
		RETURNING id`, tag.Name, tag.IsSystem, tag.OwnerID)
	if err := row.Scan(&tag.ID); err != nil {
		return models.Tag{}, fmt.Errorf("insert tag: %w", err)
	}
	return tag, nil
}

// TagsVisibleTo lists the user's own tags unioned with all system tags,
// system tags first, alphabetical within each group.
func (s *Store) TagsVisibleTo(ctx context.Context, userID int64) ([]models.Tag, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, is_system, owner_id FROM tags
		WHERE is_system OR owner_id = $1
		ORDER BY is_system DESC, LOWER(name) ASC`, userID)
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
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(1) FROM tags WHERE is_system").Scan(&n); err != nil {
		return 0, fmt.Errorf("count system tags: %w", err)
	}
	return n, nil
}

// InsertSystemTags bulk-inserts the shared catalog.
func (s *Store) InsertSystemTags(ctx context.Context, names []string) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO tags (name, is_system, owner_id) SELECT unnest($1::text[]), TRUE, NULL", names)
	if err != nil {
		return fmt.Errorf("insert system tags: %w", err)
	}
	return nil
}
