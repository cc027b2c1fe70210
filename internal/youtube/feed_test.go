package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const mediaRSSDocument = `<?xml version="1.0" encoding="UTF-8"?>
<entry xmlns="http://www.w3.org/2005/Atom" xmlns:media="http://search.yahoo.com/mrss/">
  <title>Example video</title>
  <media:group>
    <media:title>Example video</media:title>
    <media:thumbnail url="https://i.test/abc123/0.jpg" width="480" height="360"/>
    <media:thumbnail url="https://i.test/abc123/1.jpg" width="120" height="90"/>
    <media:thumbnail url="https://i.test/abc123/hqdefault.jpg" width="640" height="480"/>
  </media:group>
</entry>`

const oembedDocument = `<?xml version="1.0" encoding="utf-8"?>
<oembed>
  <title>Example video</title>
  <thumbnail_url>https://i.test/abc123/hqdefault.jpg</thumbnail_url>
  <thumbnail_width>480</thumbnail_width>
  <thumbnail_height>360</thumbnail_height>
</oembed>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/") {
		case "rss/abc123":
			_, _ = w.Write([]byte(mediaRSSDocument))
		case "oembed/abc123":
			_, _ = w.Write([]byte(oembedDocument))
		case "rss/broken":
			_, _ = w.Write([]byte("<entry><media:group"))
		case "rss/empty":
			_, _ = w.Write([]byte(`<entry xmlns="http://www.w3.org/2005/Atom"><title>No thumbs</title></entry>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFeedProviderMediaRSS(t *testing.T) {
	srv := newFeedServer(t)
	provider := NewFeedProvider(srv.URL+"/rss/{id}", NewHTTPFetcher(time.Second))

	meta, err := provider.Lookup(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if meta.VideoID != "abc123" || meta.Title != "Example video" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if len(meta.Thumbnails) != 3 {
		t.Fatalf("expected 3 thumbnails got %d", len(meta.Thumbnails))
	}
	if first, _ := meta.First(); first.URL != "https://i.test/abc123/0.jpg" {
		t.Fatalf("unexpected first thumbnail: %+v", first)
	}
	if widest, _ := meta.Widest(); widest.URL != "https://i.test/abc123/hqdefault.jpg" {
		t.Fatalf("unexpected widest thumbnail: %+v", widest)
	}
}

func TestFeedProviderOEmbed(t *testing.T) {
	srv := newFeedServer(t)
	provider := NewFeedProvider(srv.URL+"/oembed/{id}", NewHTTPFetcher(time.Second))

	meta, err := provider.Lookup(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	first, ok := meta.First()
	if !ok || first.URL != "https://i.test/abc123/hqdefault.jpg" || first.Width != 480 {
		t.Fatalf("unexpected thumbnail: %+v", meta.Thumbnails)
	}
}

func TestFeedProviderFailures(t *testing.T) {
	srv := newFeedServer(t)
	provider := NewFeedProvider(srv.URL+"/rss/{id}", NewHTTPFetcher(time.Second))

	tests := []struct {
		id   string
		kind FetchKind
	}{
		{"missing", FetchStatus},
		{"broken", FetchMalformed},
		{"empty", FetchNoThumbnails},
	}

	for _, tt := range tests {
		_, err := provider.Lookup(context.Background(), tt.id)
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("%s: expected FetchError got %v", tt.id, err)
		}
		if fetchErr.Kind != tt.kind {
			t.Fatalf("%s: expected kind %s got %s", tt.id, tt.kind, fetchErr.Kind)
		}
	}

	_, err := provider.Lookup(context.Background(), "missing")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || !fetchErr.IsNotFound() {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFeedProviderUnconfigured(t *testing.T) {
	provider := NewFeedProvider("", NewHTTPFetcher(time.Second))
	if _, err := provider.Lookup(context.Background(), "abc123"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable got %v", err)
	}
}

func TestHTTPFetcherNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(time.Second).Fetch(context.Background(), url)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Kind != FetchNetwork {
		t.Fatalf("expected network fetch error got %v", err)
	}
}

func TestExpandURL(t *testing.T) {
	got := ExpandURL("https://img.test/vi/{id}/maxresdefault.jpg", "abc123")
	if got != "https://img.test/vi/abc123/maxresdefault.jpg" {
		t.Fatalf("unexpected url %q", got)
	}
}
