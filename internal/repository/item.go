package repository

import (
	"context"

	"shopapi/internal/model"
)

// ItemRepository defines data access for catalog items.
type ItemRepository interface {
	Save(ctx context.Context, item *model.Item) (int64, error)

	FindByID(ctx context.Context, id int64) (*model.Item, error)

	// FindByIDs loads several items in one IN query. Missing IDs are skipped.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error)

	FindAll(ctx context.Context) ([]model.Item, error)

	// Update overwrites name, price and stock. Returns sql.ErrNoRows if missing.
	Update(ctx context.Context, item *model.Item) error

	// UpdateImageKey sets the object storage key of the item's cover image.
	UpdateImageKey(ctx context.Context, id int64, key string) error
}
