package youtube

import "context"

// Thumbnail is a preview image listed by the remote metadata document.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Metadata captures the subset of remote video details the resolver uses.
type Metadata struct {
	VideoID    string      `json:"videoId"`
	Title      string      `json:"title,omitempty"`
	Thumbnails []Thumbnail `json:"thumbnails"`
}

// First returns the first listed thumbnail.
func (m Metadata) First() (Thumbnail, bool) {
	if len(m.Thumbnails) == 0 || m.Thumbnails[0].URL == "" {
		return Thumbnail{}, false
	}
	return m.Thumbnails[0], true
}

// Widest returns the thumbnail with the largest width. Ties keep the earlier entry.
func (m Metadata) Widest() (Thumbnail, bool) {
	var (
		best  Thumbnail
		found bool
	)
	for _, t := range m.Thumbnails {
		if t.URL == "" {
			continue
		}
		if !found || t.Width > best.Width {
			best = t
			found = true
		}
	}
	return best, found
}

// Provider returns metadata for the supplied video identifier.
type Provider interface {
	Lookup(ctx context.Context, videoID string) (Metadata, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, videoID string) (Metadata, error)

// Lookup implements Provider.
func (f ProviderFunc) Lookup(ctx context.Context, videoID string) (Metadata, error) {
	return f(ctx, videoID)
}
