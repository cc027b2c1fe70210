package youtube

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestYTDLPProviderLookup(t *testing.T) {
	provider := NewYTDLPProvider("yt-dlp", time.Second)
	provider.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		wantArgs := []string{"--dump-single-json", "--no-warnings", "--no-playlist", "--skip-download", "https://www.youtube.com/watch?v=abc123"}
		if len(args) != len(wantArgs) {
			t.Fatalf("unexpected args length: got %d want %d", len(args), len(wantArgs))
		}
		for i, arg := range wantArgs {
			if args[i] != arg {
				t.Fatalf("unexpected arg at %d: got %q want %q", i, args[i], arg)
			}
		}
		return []byte(`{"id":"abc123","title":"Example","thumbnail":"https://i.test/hq.jpg","thumbnails":[{"url":"https://i.test/default.jpg","width":120,"height":90},{"url":"https://i.test/maxres.jpg","width":1280,"height":720}]}`), nil
	}

	meta, err := provider.Lookup(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if meta.VideoID != "abc123" || meta.Title != "Example" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if len(meta.Thumbnails) != 2 {
		t.Fatalf("expected 2 thumbnails got %d", len(meta.Thumbnails))
	}
	widest, _ := meta.Widest()
	if widest.URL != "https://i.test/maxres.jpg" {
		t.Fatalf("unexpected widest thumbnail: %+v", widest)
	}
}

func TestYTDLPProviderLookupSingleThumbnail(t *testing.T) {
	provider := NewYTDLPProvider("", time.Second)
	provider.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		if binary != "yt-dlp" {
			t.Fatalf("expected default binary got %q", binary)
		}
		return []byte(`{"title":"Example","thumbnail":"https://i.test/hq.jpg"}`), nil
	}

	meta, err := provider.Lookup(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if first, ok := meta.First(); !ok || first.URL != "https://i.test/hq.jpg" {
		t.Fatalf("unexpected thumbnails: %+v", meta.Thumbnails)
	}
}

func TestYTDLPProviderLookupEmptyPayload(t *testing.T) {
	provider := NewYTDLPProvider("yt-dlp", time.Second)
	provider.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return []byte(`{"title":"","thumbnail":""}`), nil
	}

	_, err := provider.Lookup(context.Background(), "abc123")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Kind != FetchNoThumbnails {
		t.Fatalf("expected no-thumbnails fetch error, got %v", err)
	}
}

func TestYTDLPProviderLookupFailures(t *testing.T) {
	provider := NewYTDLPProvider("yt-dlp", time.Second)
	provider.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}

	_, err := provider.Lookup(context.Background(), "abc123")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Kind != FetchNetwork {
		t.Fatalf("expected network fetch error, got %v", err)
	}

	provider.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return []byte("not json"), nil
	}
	_, err = provider.Lookup(context.Background(), "abc123")
	if !errors.As(err, &fetchErr) || fetchErr.Kind != FetchMalformed {
		t.Fatalf("expected malformed fetch error, got %v", err)
	}
}

func TestYTDLPProviderNil(t *testing.T) {
	var provider *YTDLPProvider
	if _, err := provider.Lookup(context.Background(), "abc123"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
