package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxFetchBytes bounds how much of a remote response is read into memory.
const maxFetchBytes = 16 << 20

// Fetcher downloads the body behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher is a Fetcher backed by net/http. Failures are reported as *FetchError.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher returns a fetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: "mediayoutube/1.0",
	}
}

// Fetch performs a GET and returns the body of a 200 response.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := http.DefaultClient
	if f != nil && f.Client != nil {
		client = f.Client
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, URL: url, Err: err}
	}
	if f != nil && f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{Kind: FetchStatus, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, URL: url, Err: err}
	}
	if len(body) > maxFetchBytes {
		return nil, &FetchError{Kind: FetchMalformed, URL: url, Err: fmt.Errorf("response exceeds %d bytes", maxFetchBytes)}
	}
	if len(body) == 0 {
		return nil, &FetchError{Kind: FetchMalformed, URL: url, Err: fmt.Errorf("empty response body")}
	}

	return body, nil
}

// ExpandURL substitutes the video identifier into a {id} URL template.
func ExpandURL(template, videoID string) string {
	return strings.ReplaceAll(template, "{id}", videoID)
}
