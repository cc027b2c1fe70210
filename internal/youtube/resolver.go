package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vidfriends/mediayoutube/internal/logging"
)

// MediaSource is the capability a media library needs from a source type.
type MediaSource interface {
	ExtractVideoID(reference string) (string, bool)
	Validate(reference string) error
	ResolveField(ctx context.Context, reference string, field Field) (string, error)
}

// Config carries the media type settings.
type Config struct {
	// SourceField names the media field holding the reference.
	SourceField string
	// LocalImages is the base directory (or key prefix) for cached thumbnails.
	LocalImages string
	// IconBase is where the generic fallback icon lives.
	IconBase string
	// MaxResThumbnailURL is a {id} template tried before the metadata lookup.
	MaxResThumbnailURL string
}

// Resolver classifies YouTube references and derives fields from them.
type Resolver struct {
	cfg      Config
	metadata Provider
	files    FileStore
	fetcher  Fetcher
	logger   *slog.Logger
}

var _ MediaSource = (*Resolver)(nil)

// NewResolver wires a resolver with its collaborators. A nil fetcher falls
// back to an HTTP fetcher with default timeouts.
func NewResolver(cfg Config, metadata Provider, files FileStore, fetcher Fetcher, logger *slog.Logger) *Resolver {
	if strings.TrimSpace(cfg.MaxResThumbnailURL) == "" {
		cfg.MaxResThumbnailURL = "https://img.youtube.com/vi/{id}/maxresdefault.jpg"
	}
	if fetcher == nil {
		fetcher = NewHTTPFetcher(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		cfg:      cfg,
		metadata: metadata,
		files:    files,
		fetcher:  fetcher,
		logger:   logger,
	}
}

// ExtractVideoID returns the identifier carried by reference.
func (r *Resolver) ExtractVideoID(reference string) (string, bool) {
	return ExtractVideoID(reference)
}

// Validate succeeds when reference is a recognised YouTube URL or embed code.
// Failures name the configured source field.
func (r *Resolver) Validate(reference string) error {
	return r.ValidateSource(reference, r.cfg.SourceField)
}

// ValidateSource is Validate for a reference held in sourceField, for bundles
// that configure their own source field.
func (r *Resolver) ValidateSource(reference, sourceField string) error {
	if _, ok := ExtractVideoID(reference); ok {
		return nil
	}
	return &ValidationError{Field: sourceField, Reference: reference}
}

// ResolveField produces the value of field for reference. Fields that cannot
// be produced return an error matching ErrFieldUnavailable; fields outside the
// enum return ErrUnsupportedField.
func (r *Resolver) ResolveField(ctx context.Context, reference string, field Field) (string, error) {
	if _, ok := fieldNames[field]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedField, field)
	}

	id, ok := ExtractVideoID(reference)
	if !ok {
		return "", unavailable(field, ErrNotYouTube)
	}

	switch field {
	case FieldVideoID:
		return id, nil
	case FieldLocalThumbnail:
		return r.storeThumbnail(ctx, id)
	case FieldLocalThumbnailURI:
		return r.LocalThumbnailURI(id), nil
	case FieldRemoteThumbnail:
		meta, err := r.lookup(ctx, id)
		if err != nil {
			return "", unavailable(field, err)
		}
		thumb, ok := meta.First()
		if !ok {
			return "", unavailable(field, &FetchError{Kind: FetchNoThumbnails, URL: id})
		}
		return thumb.URL, nil
	case FieldWidth, FieldHeight:
		attrs := ParseEmbed(reference)
		value := attrs.Width
		if field == FieldHeight {
			value = attrs.Height
		}
		if !attrs.FromEmbed || value == 0 {
			return "", unavailable(field, ErrNotInReference)
		}
		return strconv.Itoa(value), nil
	case FieldAutoplay:
		return strconv.FormatBool(ParseEmbed(reference).Autoplay), nil
	case FieldPrivacyMode:
		return strconv.FormatBool(ParseEmbed(reference).PrivacyMode), nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedField, field)
}

// LocalThumbnailURI is the deterministic location of the cached thumbnail.
func (r *Resolver) LocalThumbnailURI(videoID string) string {
	return joinURI(r.cfg.LocalImages, videoID+".jpg")
}

// StoredThumbnailLocation is where a thumbnail already in the file store is
// served from. Stores that publish under another address implement Locator.
func (r *Resolver) StoredThumbnailLocation(videoID string) string {
	uri := r.LocalThumbnailURI(videoID)
	if loc, ok := r.files.(Locator); ok {
		if location := loc.Location(uri); location != "" {
			return location
		}
	}
	return uri
}

// DefaultIcon is the generic icon used when no thumbnail is available.
func (r *Resolver) DefaultIcon() string {
	return joinURI(r.cfg.IconBase, "youtube.png")
}

// Thumbnail returns the local thumbnail for reference, writing it first when
// needed, and falls back to the generic icon.
func (r *Resolver) Thumbnail(ctx context.Context, reference string) string {
	uri, err := r.ResolveField(ctx, reference, FieldLocalThumbnail)
	if err == nil {
		return uri
	}
	if errors.Is(err, ErrThumbnailStored) {
		if id, ok := ExtractVideoID(reference); ok {
			return r.StoredThumbnailLocation(id)
		}
	}
	r.logger.Debug("using default icon", "reason", err)
	return r.DefaultIcon()
}

// Resolution groups the outcome of resolving several fields at once.
type Resolution struct {
	VideoID     string            `json:"videoId,omitempty"`
	Fields      map[string]string `json:"fields"`
	Unavailable map[string]string `json:"unavailable,omitempty"`
}

// ResolveAll resolves every requested field, recording why the missing ones
// could not be produced.
func (r *Resolver) ResolveAll(ctx context.Context, reference string, fields []Field) Resolution {
	res := Resolution{Fields: make(map[string]string)}
	res.VideoID, _ = ExtractVideoID(reference)
	for _, f := range fields {
		value, err := r.ResolveField(ctx, reference, f)
		if err != nil {
			if res.Unavailable == nil {
				res.Unavailable = make(map[string]string)
			}
			res.Unavailable[f.String()] = UnavailableReason(err)
			continue
		}
		res.Fields[f.String()] = value
	}
	return res
}

func (r *Resolver) lookup(ctx context.Context, videoID string) (Metadata, error) {
	if r.metadata == nil {
		return Metadata{}, ErrProviderUnavailable
	}
	return r.metadata.Lookup(ctx, videoID)
}

// storeThumbnail copies the thumbnail of videoID into the file store once and
// returns the location reported by the store.
func (r *Resolver) storeThumbnail(ctx context.Context, videoID string) (string, error) {
	if r.files == nil {
		return "", unavailable(FieldLocalThumbnail, ErrFileStoreUnavailable)
	}

	uri := r.LocalThumbnailURI(videoID)
	exists, err := r.files.Exists(ctx, uri)
	if err != nil {
		return "", unavailable(FieldLocalThumbnail, fmt.Errorf("check %s: %w", uri, err))
	}
	if exists {
		return "", unavailable(FieldLocalThumbnail, ErrThumbnailStored)
	}

	ctx, span := logging.StartSpan(logging.EnsureLogger(ctx, r.logger), "youtube.store_thumbnail")
	defer span.End()
	logger := logging.FromContext(ctx).With("video_id", videoID)

	data, err := r.fetcher.Fetch(ctx, ExpandURL(r.cfg.MaxResThumbnailURL, videoID))
	if err != nil {
		logger.Debug("maxres thumbnail unavailable, querying metadata", "error", err)

		meta, merr := r.lookup(ctx, videoID)
		if merr != nil {
			logger.Warn("thumbnail metadata lookup failed", "error", merr)
			return "", unavailable(FieldLocalThumbnail, merr)
		}
		thumb, ok := meta.Widest()
		if !ok {
			return "", unavailable(FieldLocalThumbnail, &FetchError{Kind: FetchNoThumbnails, URL: videoID})
		}
		data, err = r.fetcher.Fetch(ctx, thumb.URL)
		if err != nil {
			logger.Warn("thumbnail download failed", "url", thumb.URL, "error", err)
			return "", unavailable(FieldLocalThumbnail, err)
		}
	}

	location, err := r.files.Save(ctx, uri, bytes.NewReader(data))
	if err != nil {
		logger.Error("thumbnail save failed", "uri", uri, "error", err)
		return "", unavailable(FieldLocalThumbnail, err)
	}
	if location == "" {
		location = uri
	}

	logger.Info("thumbnail stored", "uri", uri, "location", location, "bytes", len(data))
	return location, nil
}

// UnavailableReason condenses a ResolveField error into a short machine-readable reason.
func UnavailableReason(err error) string {
	var fetchErr *FetchError
	switch {
	case errors.Is(err, ErrUnsupportedField):
		return "unsupported"
	case errors.Is(err, ErrNotYouTube):
		return "not-youtube"
	case errors.Is(err, ErrThumbnailStored):
		return "already-stored"
	case errors.Is(err, ErrNotInReference):
		return "not-in-reference"
	case errors.As(err, &fetchErr):
		return "remote-" + fetchErr.Kind.String()
	default:
		return "unavailable"
	}
}

func joinURI(base, name string) string {
	switch {
	case base == "":
		return name
	case strings.HasSuffix(base, "/"):
		return base + name
	default:
		return base + "/" + name
	}
}
