package youtube

import (
	"context"
	"io"
)

// FileStore persists thumbnail images under deterministic names. Save
// returns the location the saved file is served from.
type FileStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// Locator is implemented by stores whose served location differs from the
// stored name.
type Locator interface {
	Location(name string) string
}
