package youtube

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"
)

// CommandRunner executes external commands and returns stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// YTDLPProvider fetches metadata using the yt-dlp CLI tool. It is the
// alternative backend for deployments where the XML endpoint is unreachable.
type YTDLPProvider struct {
	Binary  string
	Args    []string
	Run     CommandRunner
	Timeout time.Duration
}

// NewYTDLPProvider constructs a Provider that shells out to yt-dlp.
func NewYTDLPProvider(binary string, timeout time.Duration) *YTDLPProvider {
	if strings.TrimSpace(binary) == "" {
		binary = "yt-dlp"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YTDLPProvider{
		Binary:  binary,
		Args:    []string{"--dump-single-json", "--no-warnings", "--no-playlist", "--skip-download"},
		Run:     defaultCommandRunner,
		Timeout: timeout,
	}
}

// Lookup executes yt-dlp for the watch URL of videoID and parses the JSON response.
func (p *YTDLPProvider) Lookup(ctx context.Context, videoID string) (Metadata, error) {
	if p == nil {
		return Metadata{}, ErrProviderUnavailable
	}
	run := p.Run
	if run == nil {
		run = defaultCommandRunner
	}

	execCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	url := "https://www.youtube.com/watch?v=" + videoID
	args := append([]string{}, p.Args...)
	args = append(args, url)

	out, err := run(execCtx, p.Binary, args...)
	if err != nil {
		return Metadata{}, &FetchError{Kind: FetchNetwork, URL: url, Err: err}
	}

	var payload struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		Thumbnail  string `json:"thumbnail"`
		Thumbnails []struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"thumbnails"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return Metadata{}, &FetchError{Kind: FetchMalformed, URL: url, Err: err}
	}

	meta := Metadata{VideoID: videoID, Title: payload.Title}
	for _, t := range payload.Thumbnails {
		if t.URL == "" {
			continue
		}
		meta.Thumbnails = append(meta.Thumbnails, Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height})
	}
	if len(meta.Thumbnails) == 0 && payload.Thumbnail != "" {
		meta.Thumbnails = append(meta.Thumbnails, Thumbnail{URL: payload.Thumbnail})
	}
	if len(meta.Thumbnails) == 0 {
		return Metadata{}, &FetchError{Kind: FetchNoThumbnails, URL: url}
	}

	return meta, nil
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.Output()
}
