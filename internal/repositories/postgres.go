package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vidfriends/mediayoutube/internal/db"
	"github.com/vidfriends/mediayoutube/internal/models"
	"github.com/vidfriends/mediayoutube/internal/youtube"
)

// PostgresMediaRepository provides PostgreSQL-backed persistence for media items.
type PostgresMediaRepository struct {
	pool db.Pool
}

// NewPostgresMediaRepository constructs a media repository backed by PostgreSQL.
func NewPostgresMediaRepository(pool db.Pool) *PostgresMediaRepository {
	return &PostgresMediaRepository{pool: pool}
}

// Create stores a new media item.
func (r *PostgresMediaRepository) Create(ctx context.Context, item models.MediaItem) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	status := item.ThumbnailStatus
	if strings.TrimSpace(status) == "" {
		status = models.ThumbnailStatusPending
	}
	fields := item.Fields
	if fields == nil {
		fields = map[string]string{}
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO media_items (id, bundle_id, fields, video_id, thumbnail, thumbnail_status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, item.ID, item.BundleID, fields, item.VideoID, item.Thumbnail, status, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return translateWriteError("insert media item", err)
	}

	return nil
}

// Get fetches a media item by identifier.
func (r *PostgresMediaRepository) Get(ctx context.Context, id string) (models.MediaItem, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, bundle_id, fields, video_id, thumbnail, thumbnail_status, created_at, updated_at
        FROM media_items
        WHERE id = $1
    `, id)

	var item models.MediaItem
	if err := row.Scan(&item.ID, &item.BundleID, &item.Fields, &item.VideoID, &item.Thumbnail, &item.ThumbnailStatus, &item.CreatedAt, &item.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MediaItem{}, ErrNotFound
		}
		return models.MediaItem{}, fmt.Errorf("select media item: %w", err)
	}

	return item, nil
}

// MarkThumbnailReady records the stored thumbnail location of an item.
func (r *PostgresMediaRepository) MarkThumbnailReady(ctx context.Context, itemID, uri string) error {
	return r.updateThumbnail(ctx, itemID, uri, models.ThumbnailStatusReady)
}

// MarkThumbnailFailed records a failed thumbnail warm-up.
func (r *PostgresMediaRepository) MarkThumbnailFailed(ctx context.Context, itemID string) error {
	return r.updateThumbnail(ctx, itemID, "", models.ThumbnailStatusFailed)
}

func (r *PostgresMediaRepository) updateThumbnail(ctx context.Context, itemID, uri, status string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE media_items
        SET thumbnail = $2,
            thumbnail_status = $3,
            updated_at = $4
        WHERE id = $1
    `, itemID, uri, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update media thumbnail %s: %w", status, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PostgresBundleRepository provides PostgreSQL-backed persistence for bundles.
type PostgresBundleRepository struct {
	pool db.Pool
}

// NewPostgresBundleRepository constructs a bundle repository backed by PostgreSQL.
func NewPostgresBundleRepository(pool db.Pool) *PostgresBundleRepository {
	return &PostgresBundleRepository{pool: pool}
}

// Get fetches a bundle by identifier.
func (r *PostgresBundleRepository) Get(ctx context.Context, id string) (models.Bundle, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Bundle{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, label, source_field, updated_at
        FROM bundles
        WHERE id = $1
    `, id)

	var bundle models.Bundle
	if err := row.Scan(&bundle.ID, &bundle.Label, &bundle.SourceField, &bundle.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Bundle{}, ErrNotFound
		}
		return models.Bundle{}, fmt.Errorf("select bundle: %w", err)
	}

	return bundle, nil
}

// Upsert creates the bundle or replaces its label and source field.
func (r *PostgresBundleRepository) Upsert(ctx context.Context, bundle models.Bundle) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	updatedAt := bundle.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO bundles (id, label, source_field, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE
        SET label = excluded.label,
            source_field = excluded.source_field,
            updated_at = excluded.updated_at
    `, bundle.ID, bundle.Label, bundle.SourceField, updatedAt)
	if err != nil {
		return fmt.Errorf("upsert bundle: %w", err)
	}

	return nil
}

// UpdateSourceField points the bundle at a different source field.
func (r *PostgresBundleRepository) UpdateSourceField(ctx context.Context, id, sourceField string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE bundles
        SET source_field = $2, updated_at = $3
        WHERE id = $1
    `, id, sourceField, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update bundle source field: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SaveField creates or replaces a field definition on a bundle.
func (r *PostgresBundleRepository) SaveField(ctx context.Context, field models.FieldDefinition) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO bundle_fields (bundle_id, name, field_type, label, weight)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (bundle_id, name) DO UPDATE
        SET field_type = excluded.field_type,
            label = excluded.label,
            weight = excluded.weight
    `, field.BundleID, field.Name, field.Type, field.Label, field.Weight)
	if err != nil {
		return translateWriteError("save bundle field", err)
	}

	return nil
}

// ListFields returns the field definitions of a bundle ordered by weight.
func (r *PostgresBundleRepository) ListFields(ctx context.Context, bundleID string) ([]models.FieldDefinition, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT bundle_id, name, field_type, label, weight
        FROM bundle_fields
        WHERE bundle_id = $1
        ORDER BY weight, name
    `, bundleID)
	if err != nil {
		return nil, fmt.Errorf("query bundle fields: %w", err)
	}
	defer rows.Close()

	var fields []models.FieldDefinition
	for rows.Next() {
		var f models.FieldDefinition
		if err := rows.Scan(&f.BundleID, &f.Name, &f.Type, &f.Label, &f.Weight); err != nil {
			return nil, fmt.Errorf("scan bundle field: %w", err)
		}
		fields = append(fields, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bundle fields: %w", err)
	}

	return fields, nil
}

var _ MediaRepository = (*PostgresMediaRepository)(nil)
var _ BundleRepository = (*PostgresBundleRepository)(nil)
var _ youtube.ThumbnailUpdater = (*PostgresMediaRepository)(nil)
