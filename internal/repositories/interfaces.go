package repositories

import (
	"context"

	"github.com/vidfriends/mediayoutube/internal/models"
)

// MediaRepository exposes data access for media items.
type MediaRepository interface {
	Create(ctx context.Context, item models.MediaItem) error
	Get(ctx context.Context, id string) (models.MediaItem, error)
	MarkThumbnailReady(ctx context.Context, itemID, uri string) error
	MarkThumbnailFailed(ctx context.Context, itemID string) error
}

// BundleRepository exposes data access for bundles and their field definitions.
type BundleRepository interface {
	Get(ctx context.Context, id string) (models.Bundle, error)
	Upsert(ctx context.Context, bundle models.Bundle) error
	UpdateSourceField(ctx context.Context, id, sourceField string) error
	SaveField(ctx context.Context, field models.FieldDefinition) error
	ListFields(ctx context.Context, bundleID string) ([]models.FieldDefinition, error)
}
