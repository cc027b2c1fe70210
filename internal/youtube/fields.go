package youtube

import (
	"fmt"
	"strings"
)

// Field enumerates the derived values a YouTube reference can provide.
type Field int

const (
	FieldVideoID Field = iota + 1
	FieldLocalThumbnail
	FieldLocalThumbnailURI
	FieldRemoteThumbnail
	FieldWidth
	FieldHeight
	FieldAutoplay
	FieldPrivacyMode
)

var fieldNames = map[Field]string{
	FieldVideoID:           "video_id",
	FieldLocalThumbnail:    "local_thumbnail",
	FieldLocalThumbnailURI: "image_local_uri",
	FieldRemoteThumbnail:   "remote_thumbnail",
	FieldWidth:             "width",
	FieldHeight:            "height",
	FieldAutoplay:          "autoplay",
	FieldPrivacyMode:       "privacy_mode",
}

// image_local is the name the field carried in the first releases.
var fieldAliases = map[string]Field{
	"image_local": FieldLocalThumbnail,
}

// AllFields lists every field in catalogue order.
var AllFields = []Field{
	FieldVideoID,
	FieldLocalThumbnail,
	FieldLocalThumbnailURI,
	FieldRemoteThumbnail,
	FieldWidth,
	FieldHeight,
	FieldAutoplay,
	FieldPrivacyMode,
}

// String returns the canonical field name.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// ParseField maps a field name onto the enum. Unknown names are reported with
// ErrUnsupportedField.
func ParseField(name string) (Field, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	if f, ok := fieldAliases[name]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedField, name)
}

// FieldDescription documents one provided field.
type FieldDescription struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProvidedFields returns the catalogue of fields exposed by the media type.
func ProvidedFields() []FieldDescription {
	return []FieldDescription{
		{Name: FieldVideoID.String(), Description: "Video ID."},
		{Name: FieldLocalThumbnail.String(), Description: "Copies video thumbnail to the local filesystem and returns the URI."},
		{Name: FieldLocalThumbnailURI.String(), Description: "Gets URI of the locally saved thumbnail."},
		{Name: FieldRemoteThumbnail.String(), Description: "Link to remotely hosted video thumbnail."},
		{Name: FieldWidth.String(), Description: "Video width (extracted from embed code)."},
		{Name: FieldHeight.String(), Description: "Video height (extracted from embed code)."},
		{Name: FieldAutoplay.String(), Description: "Autoplay status (extracted from embed code)."},
		{Name: FieldPrivacyMode.String(), Description: "Privacy mode status (extracted from embed code)."},
	}
}
