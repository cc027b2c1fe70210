package handlers

import (
	"context"

	"github.com/vidfriends/mediayoutube/internal/models"
	"github.com/vidfriends/mediayoutube/internal/youtube"
)

// MediaStore captures the persistence operations required by the media handlers.
type MediaStore interface {
	Create(ctx context.Context, item models.MediaItem) error
	Get(ctx context.Context, id string) (models.MediaItem, error)
}

// BundleStore captures the bundle operations required by the media and settings handlers.
type BundleStore interface {
	Get(ctx context.Context, id string) (models.Bundle, error)
	UpdateSourceField(ctx context.Context, id, sourceField string) error
	ListFields(ctx context.Context, bundleID string) ([]models.FieldDefinition, error)
}

// FieldResolver derives fields from YouTube references.
type FieldResolver interface {
	ExtractVideoID(reference string) (string, bool)
	ValidateSource(reference, sourceField string) error
	ResolveField(ctx context.Context, reference string, field youtube.Field) (string, error)
	ResolveAll(ctx context.Context, reference string, fields []youtube.Field) youtube.Resolution
	Thumbnail(ctx context.Context, reference string) string
}

// ThumbnailScheduler schedules background copies of media item thumbnails.
type ThumbnailScheduler interface {
	Enqueue(ctx context.Context, itemID, reference string) error
}

var _ FieldResolver = (*youtube.Resolver)(nil)
var _ ThumbnailScheduler = (*youtube.ThumbnailWarmer)(nil)
