package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

const mediaRSSNamespace = "http://search.yahoo.com/mrss/"

// FeedProvider looks up video metadata from an XML endpoint keyed by video
// identifier. It understands documents listing thumbnails as Media RSS
// <media:group><media:thumbnail url width height/></media:group> elements as
// well as oEmbed XML answers (thumbnail_url, thumbnail_width, thumbnail_height).
type FeedProvider struct {
	URLTemplate string
	Fetcher     Fetcher
}

// NewFeedProvider constructs a FeedProvider for the given {id} URL template.
func NewFeedProvider(urlTemplate string, fetcher Fetcher) *FeedProvider {
	return &FeedProvider{URLTemplate: urlTemplate, Fetcher: fetcher}
}

// Lookup fetches and decodes the metadata document for videoID.
func (p *FeedProvider) Lookup(ctx context.Context, videoID string) (Metadata, error) {
	if p == nil || p.Fetcher == nil || strings.TrimSpace(p.URLTemplate) == "" {
		return Metadata{}, ErrProviderUnavailable
	}

	url := ExpandURL(p.URLTemplate, videoID)
	body, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return Metadata{}, err
	}

	meta, err := parseMetadataDocument(body)
	if err != nil {
		return Metadata{}, &FetchError{Kind: FetchMalformed, URL: url, Err: err}
	}
	meta.VideoID = videoID

	if len(meta.Thumbnails) == 0 {
		return Metadata{}, &FetchError{Kind: FetchNoThumbnails, URL: url}
	}

	return meta, nil
}

type metadataDocument struct {
	Title string `xml:"title"`
	Group struct {
		Title      string          `xml:"http://search.yahoo.com/mrss/ title"`
		Thumbnails []feedThumbnail `xml:"http://search.yahoo.com/mrss/ thumbnail"`
	} `xml:"http://search.yahoo.com/mrss/ group"`
	Entries []struct {
		Group struct {
			Thumbnails []feedThumbnail `xml:"http://search.yahoo.com/mrss/ thumbnail"`
		} `xml:"http://search.yahoo.com/mrss/ group"`
	} `xml:"entry"`

	ThumbnailURL    string `xml:"thumbnail_url"`
	ThumbnailWidth  int    `xml:"thumbnail_width"`
	ThumbnailHeight int    `xml:"thumbnail_height"`
}

type feedThumbnail struct {
	URL    string `xml:"url,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

func parseMetadataDocument(data []byte) (Metadata, error) {
	var doc metadataDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata document: %w", err)
	}

	meta := Metadata{Title: strings.TrimSpace(doc.Title)}
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Group.Title)
	}

	thumbs := doc.Group.Thumbnails
	if len(thumbs) == 0 {
		for _, entry := range doc.Entries {
			thumbs = append(thumbs, entry.Group.Thumbnails...)
		}
	}
	for _, t := range thumbs {
		if strings.TrimSpace(t.URL) == "" {
			continue
		}
		meta.Thumbnails = append(meta.Thumbnails, Thumbnail{URL: strings.TrimSpace(t.URL), Width: t.Width, Height: t.Height})
	}

	if u := strings.TrimSpace(doc.ThumbnailURL); u != "" {
		meta.Thumbnails = append(meta.Thumbnails, Thumbnail{URL: u, Width: doc.ThumbnailWidth, Height: doc.ThumbnailHeight})
	}

	return meta, nil
}
