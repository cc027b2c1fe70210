package models

import "time"

// Field types a bundle field may carry.
const (
	FieldTypeString     = "string"
	FieldTypeStringLong = "string_long"
	FieldTypeLink       = "link"
	FieldTypeImage      = "image"
	FieldTypeInteger    = "integer"
)

// Bundle groups media items that share a source field configuration.
type Bundle struct {
	ID          string
	Label       string
	SourceField string
	UpdatedAt   time.Time
}

// FieldDefinition describes one field attached to a bundle.
type FieldDefinition struct {
	BundleID string
	Name     string
	Type     string
	Label    string
	Weight   int
}

// MediaItem is a stored media entity whose source field holds a YouTube reference.
type MediaItem struct {
	ID              string
	BundleID        string
	Fields          map[string]string
	VideoID         string
	Thumbnail       string
	ThumbnailStatus string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Reference returns the raw value of the named source field.
func (m MediaItem) Reference(sourceField string) string {
	if m.Fields == nil {
		return ""
	}
	return m.Fields[sourceField]
}

const (
	ThumbnailStatusPending = "pending"
	ThumbnailStatusReady   = "ready"
	ThumbnailStatusFailed  = "failed"
)
