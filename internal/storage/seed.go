package storage

import (
	"context"
	"fmt"

	"github.com/digiwallet/wallet-be/internal/models"
)

// SeedSystemTags bulk-inserts the shared tag catalog on first startup.
// It is a no-op when system tags already exist, so re-running is safe; the
// existence check is only a weak guard against concurrent seeding from
// multiple instances.
func SeedSystemTags(ctx context.Context, store TagStore) (int, error) {
	count, err := store.SystemTagCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count system tags: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	if err := store.InsertSystemTags(ctx, models.SystemTagCatalog); err != nil {
		return 0, fmt.Errorf("insert system tags: %w", err)
	}
	return len(models.SystemTagCatalog), nil
}
