package youtube

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldUnavailable reports that a field cannot be produced right now.
	// Callers fall back to a default, e.g. the generic icon.
	ErrFieldUnavailable = errors.New("field unavailable")
	// ErrUnsupportedField indicates a field name outside the provided set.
	ErrUnsupportedField = errors.New("unsupported field")
	// ErrNotYouTube indicates the reference matches none of the patterns.
	ErrNotYouTube = errors.New("not a youtube reference")
	// ErrThumbnailStored indicates the thumbnail was already present locally,
	// so nothing new was written.
	ErrThumbnailStored = errors.New("thumbnail already stored")
	// ErrNotInReference indicates the reference does not carry the requested
	// attribute (e.g. width of a plain URL).
	ErrNotInReference = errors.New("attribute not present in reference")
	// ErrProviderUnavailable indicates the metadata provider is not configured.
	ErrProviderUnavailable = errors.New("video metadata provider unavailable")
	// ErrFileStoreUnavailable indicates no thumbnail store is configured.
	ErrFileStoreUnavailable = errors.New("thumbnail file store unavailable")
)

// ValidationError is reported when a stored reference is not a valid YouTube
// URL or embed code.
type ValidationError struct {
	Field     string
	Reference string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: not valid URL/embed code", e.Field)
}

// Is lets errors.Is(err, ErrNotYouTube) match validation failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrNotYouTube
}

// UnavailableError explains why a field could not be produced. It always
// matches ErrFieldUnavailable; the wrapped cause keeps the detail.
type UnavailableError struct {
	Field Field
	Err   error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Field, ErrFieldUnavailable)
	}
	return fmt.Sprintf("%s: %v: %v", e.Field, ErrFieldUnavailable, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool {
	return target == ErrFieldUnavailable
}

func unavailable(field Field, err error) error {
	return &UnavailableError{Field: field, Err: err}
}

// FetchKind classifies a remote fetch failure.
type FetchKind int

const (
	FetchNetwork FetchKind = iota + 1
	FetchStatus
	FetchMalformed
	FetchNoThumbnails
)

func (k FetchKind) String() string {
	switch k {
	case FetchNetwork:
		return "network"
	case FetchStatus:
		return "status"
	case FetchMalformed:
		return "malformed"
	case FetchNoThumbnails:
		return "no-thumbnails"
	default:
		return "unknown"
	}
}

// FetchError wraps failures talking to remote YouTube endpoints.
type FetchError struct {
	Kind       FetchKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == FetchStatus:
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s (%s): %v", e.URL, e.Kind, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNotFound reports whether the remote side answered that the video or
// image does not exist, as opposed to being unreachable.
func (e *FetchError) IsNotFound() bool {
	return e.Kind == FetchStatus && (e.StatusCode == 404 || e.StatusCode == 410)
}
