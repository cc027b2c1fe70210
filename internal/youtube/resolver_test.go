package youtube

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	maxresTemplate = "https://img.test/vi/{id}/maxresdefault.jpg"
	abcRef         = "https://www.youtube.com/watch?v=abc123"
)

func newTestResolver(provider Provider, files FileStore, fetcher Fetcher) *Resolver {
	cfg := Config{
		SourceField:        "field_media_video",
		LocalImages:        "/media/thumbs",
		IconBase:           "/icons",
		MaxResThumbnailURL: maxresTemplate,
	}
	return NewResolver(cfg, provider, files, fetcher, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolverValidate(t *testing.T) {
	r := newTestResolver(nil, nil, newStubFetcher())

	require.NoError(t, r.Validate("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))

	err := r.Validate("not a url")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "field_media_video", verr.Field)
	require.ErrorIs(t, err, ErrNotYouTube)
}

func TestResolverVideoID(t *testing.T) {
	r := newTestResolver(nil, nil, newStubFetcher())
	ctx := context.Background()

	got, err := r.ResolveField(ctx, "//www.youtube.com/v/xyz789", FieldVideoID)
	require.NoError(t, err)
	require.Equal(t, "xyz789", got)

	_, err = r.ResolveField(ctx, "not a url", FieldVideoID)
	require.ErrorIs(t, err, ErrFieldUnavailable)
	require.ErrorIs(t, err, ErrNotYouTube)
}

func TestResolverLocalThumbnailURIIsPure(t *testing.T) {
	files := newMemFileStore()
	fetcher := newStubFetcher()
	r := newTestResolver(nil, files, fetcher)
	ctx := context.Background()

	first, err := r.ResolveField(ctx, abcRef, FieldLocalThumbnailURI)
	require.NoError(t, err)
	require.Equal(t, "/media/thumbs/abc123.jpg", first)

	files.files["/media/thumbs/abc123.jpg"] = []byte("jpeg")
	second, err := r.ResolveField(ctx, abcRef, FieldLocalThumbnailURI)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Zero(t, fetcher.callCount())
}

func TestResolverLocalThumbnailURIJoinsBase(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"/media/thumbs/", "/media/thumbs/abc123.jpg"},
		{"public://youtube", "public://youtube/abc123.jpg"},
		{"", "abc123.jpg"},
	}
	for _, tt := range tests {
		r := NewResolver(Config{LocalImages: tt.base}, nil, nil, newStubFetcher(), nil)
		require.Equal(t, tt.want, r.LocalThumbnailURI("abc123"))
	}
}

func TestResolverLocalThumbnailMaxres(t *testing.T) {
	files := newMemFileStore()
	fetcher := newStubFetcher()
	fetcher.respond("https://img.test/vi/abc123/maxresdefault.jpg", "maxres-bytes")
	provider := &stubProvider{}
	r := newTestResolver(provider, files, fetcher)
	ctx := context.Background()

	uri, err := r.ResolveField(ctx, abcRef, FieldLocalThumbnail)
	require.NoError(t, err)
	require.Equal(t, "/media/thumbs/abc123.jpg", uri)

	data, ok := files.get(uri)
	require.True(t, ok)
	require.Equal(t, "maxres-bytes", string(data))
	require.Zero(t, provider.callCount(), "metadata should not be queried when maxres exists")

	calls := fetcher.callCount()
	_, err = r.ResolveField(ctx, abcRef, FieldLocalThumbnail)
	require.ErrorIs(t, err, ErrFieldUnavailable)
	require.ErrorIs(t, err, ErrThumbnailStored)
	require.Equal(t, calls, fetcher.callCount(), "stored thumbnail must not be fetched again")
}

func TestResolverLocalThumbnailUsesStoreLocation(t *testing.T) {
	files := cdnFileStore{memFileStore: newMemFileStore(), base: "https://cdn.test"}
	fetcher := newStubFetcher()
	fetcher.respond("https://img.test/vi/abc123/maxresdefault.jpg", "maxres-bytes")
	r := newTestResolver(&stubProvider{}, files, fetcher)
	ctx := context.Background()

	uri, err := r.ResolveField(ctx, abcRef, FieldLocalThumbnail)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.test/media/thumbs/abc123.jpg", uri)
	_, ok := files.get("/media/thumbs/abc123.jpg")
	require.True(t, ok)

	require.Equal(t, "https://cdn.test/media/thumbs/abc123.jpg", r.Thumbnail(ctx, abcRef))
	require.Equal(t, "https://cdn.test/media/thumbs/abc123.jpg", r.StoredThumbnailLocation("abc123"))

	local, err := r.ResolveField(ctx, abcRef, FieldLocalThumbnailURI)
	require.NoError(t, err)
	require.Equal(t, "/media/thumbs/abc123.jpg", local)
}

func TestResolverValidateSource(t *testing.T) {
	r := newTestResolver(nil, nil, nil)

	require.NoError(t, r.ValidateSource(abcRef, "field_embed_code"))

	err := r.ValidateSource("not a url", "field_embed_code")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "field_embed_code", verr.Field)

	require.ErrorAs(t, r.Validate("not a url"), &verr)
	require.Equal(t, "field_media_video", verr.Field)
}

func TestResolverLocalThumbnailFallsBackToWidest(t *testing.T) {
	files := newMemFileStore()
	fetcher := newStubFetcher()
	fetcher.respond("https://i.test/abc123/hq.jpg", "hq-bytes")
	provider := &stubProvider{metadata: map[string]Metadata{
		"abc123": {VideoID: "abc123", Thumbnails: []Thumbnail{
			{URL: "https://i.test/abc123/default.jpg", Width: 120},
			{URL: "https://i.test/abc123/hq.jpg", Width: 480},
			{URL: "https://i.test/abc123/mq.jpg", Width: 320},
		}},
	}}
	r := newTestResolver(provider, files, fetcher)

	uri, err := r.ResolveField(context.Background(), abcRef, FieldLocalThumbnail)
	require.NoError(t, err)

	data, ok := files.get(uri)
	require.True(t, ok)
	require.Equal(t, "hq-bytes", string(data))
	require.Equal(t, 1, provider.callCount())
}

func TestResolverLocalThumbnailKeepsFetchDetail(t *testing.T) {
	files := newMemFileStore()
	fetcher := newStubFetcher()
	fetcher.fail("https://img.test/vi/abc123/maxresdefault.jpg", &FetchError{Kind: FetchNetwork, URL: "maxres", Err: errors.New("connection refused")})
	provider := &stubProvider{err: &FetchError{Kind: FetchStatus, URL: "meta", StatusCode: 404}}
	r := newTestResolver(provider, files, fetcher)

	_, err := r.ResolveField(context.Background(), abcRef, FieldLocalThumbnail)
	require.ErrorIs(t, err, ErrFieldUnavailable)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.True(t, fetchErr.IsNotFound())

	_, ok := files.get("/media/thumbs/abc123.jpg")
	require.False(t, ok)
}

func TestResolverLocalThumbnailWithoutStore(t *testing.T) {
	r := newTestResolver(&stubProvider{}, nil, newStubFetcher())

	_, err := r.ResolveField(context.Background(), abcRef, FieldLocalThumbnail)
	require.ErrorIs(t, err, ErrFieldUnavailable)
	require.ErrorIs(t, err, ErrFileStoreUnavailable)
}

func TestResolverRemoteThumbnail(t *testing.T) {
	provider := &stubProvider{metadata: map[string]Metadata{
		"abc123": {VideoID: "abc123", Thumbnails: []Thumbnail{
			{URL: "https://i.test/abc123/0.jpg", Width: 480},
			{URL: "https://i.test/abc123/1.jpg", Width: 120},
		}},
	}}
	r := newTestResolver(provider, nil, newStubFetcher())
	ctx := context.Background()

	got, err := r.ResolveField(ctx, abcRef, FieldRemoteThumbnail)
	require.NoError(t, err)
	require.Equal(t, "https://i.test/abc123/0.jpg", got)

	_, err = r.ResolveField(ctx, "https://www.youtube.com/watch?v=missing", FieldRemoteThumbnail)
	require.ErrorIs(t, err, ErrFieldUnavailable)
}

func TestResolverRemoteThumbnailWithoutProvider(t *testing.T) {
	r := newTestResolver(nil, nil, newStubFetcher())

	_, err := r.ResolveField(context.Background(), abcRef, FieldRemoteThumbnail)
	require.ErrorIs(t, err, ErrFieldUnavailable)
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestResolverEmbedFields(t *testing.T) {
	r := newTestResolver(nil, nil, newStubFetcher())
	ctx := context.Background()
	snippet := `<iframe width="560" height="315" src="https://www.youtube-nocookie.com/embed/abc123?autoplay=1"></iframe>`

	width, err := r.ResolveField(ctx, snippet, FieldWidth)
	require.NoError(t, err)
	require.Equal(t, "560", width)

	height, err := r.ResolveField(ctx, snippet, FieldHeight)
	require.NoError(t, err)
	require.Equal(t, "315", height)

	autoplay, err := r.ResolveField(ctx, snippet, FieldAutoplay)
	require.NoError(t, err)
	require.Equal(t, "true", autoplay)

	privacy, err := r.ResolveField(ctx, snippet, FieldPrivacyMode)
	require.NoError(t, err)
	require.Equal(t, "true", privacy)

	_, err = r.ResolveField(ctx, abcRef, FieldWidth)
	require.ErrorIs(t, err, ErrFieldUnavailable)
	require.ErrorIs(t, err, ErrNotInReference)

	privacy, err = r.ResolveField(ctx, abcRef, FieldPrivacyMode)
	require.NoError(t, err)
	require.Equal(t, "false", privacy)
}

func TestResolverUnsupportedField(t *testing.T) {
	r := newTestResolver(nil, nil, newStubFetcher())

	_, err := r.ResolveField(context.Background(), abcRef, Field(99))
	require.ErrorIs(t, err, ErrUnsupportedField)
	require.NotErrorIs(t, err, ErrFieldUnavailable)
}

func TestResolverThumbnailFallsBackToIcon(t *testing.T) {
	files := newMemFileStore()
	fetcher := newStubFetcher()
	r := newTestResolver(&stubProvider{}, files, fetcher)
	ctx := context.Background()

	require.Equal(t, "/icons/youtube.png", r.Thumbnail(ctx, "not a url"))
	require.Equal(t, "/icons/youtube.png", r.Thumbnail(ctx, abcRef))

	fetcher.respond("https://img.test/vi/abc123/maxresdefault.jpg", "maxres-bytes")
	require.Equal(t, "/media/thumbs/abc123.jpg", r.Thumbnail(ctx, abcRef))
	require.Equal(t, "/media/thumbs/abc123.jpg", r.Thumbnail(ctx, abcRef), "already stored thumbnail is reused")
}

func TestResolverResolveAll(t *testing.T) {
	r := newTestResolver(nil, nil, newStubFetcher())

	res := r.ResolveAll(context.Background(), abcRef, []Field{FieldVideoID, FieldLocalThumbnailURI, FieldWidth, FieldRemoteThumbnail})
	require.Equal(t, "abc123", res.VideoID)
	require.Equal(t, map[string]string{
		"video_id":        "abc123",
		"image_local_uri": "/media/thumbs/abc123.jpg",
	}, res.Fields)
	require.Equal(t, "not-in-reference", res.Unavailable["width"])
	require.Equal(t, "unavailable", res.Unavailable["remote_thumbnail"])
}

func TestResolversDoNotShareMetadata(t *testing.T) {
	meta := map[string]Metadata{
		"aaa111": {VideoID: "aaa111", Thumbnails: []Thumbnail{{URL: "https://i.test/aaa111.jpg"}}},
		"bbb222": {VideoID: "bbb222", Thumbnails: []Thumbnail{{URL: "https://i.test/bbb222.jpg"}}},
	}
	shared := NewCachingProvider(&stubProvider{metadata: meta}, 0)

	type result struct {
		id  string
		url string
		err error
	}

	run := func(provider Provider) []result {
		results := make([]result, 2)
		var wg sync.WaitGroup
		for i, id := range []string{"aaa111", "bbb222"} {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				r := newTestResolver(provider, nil, newStubFetcher())
				for n := 0; n < 20; n++ {
					url, err := r.ResolveField(context.Background(), "https://www.youtube.com/embed/"+id, FieldRemoteThumbnail)
					if err != nil || url != "https://i.test/"+id+".jpg" {
						results[i] = result{id: id, url: url, err: err}
						return
					}
					results[i] = result{id: id, url: url}
				}
			}(i, id)
		}
		wg.Wait()
		return results
	}

	for _, provider := range []Provider{&stubProvider{metadata: meta}, shared} {
		for _, res := range run(provider) {
			require.NoError(t, res.err)
			require.Equal(t, "https://i.test/"+res.id+".jpg", res.url)
		}
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField("image_local")
	require.NoError(t, err)
	require.Equal(t, FieldLocalThumbnail, f)

	f, err = ParseField(" Remote_Thumbnail ")
	require.NoError(t, err)
	require.Equal(t, FieldRemoteThumbnail, f)

	for _, field := range AllFields {
		parsed, err := ParseField(field.String())
		require.NoError(t, err)
		require.Equal(t, field, parsed)
	}

	_, err = ParseField("duration")
	require.ErrorIs(t, err, ErrUnsupportedField)
}

func TestProvidedFieldsCoversEnum(t *testing.T) {
	fields := ProvidedFields()
	require.Len(t, fields, len(AllFields))
	for i, f := range AllFields {
		require.Equal(t, f.String(), fields[i].Name)
		require.NotEmpty(t, fields[i].Description)
	}
}
