package youtube

import (
	"context"
	"io"
	"sync"
)

type memFileStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	existsErr error
	saveErr   error
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: make(map[string][]byte)}
}

func (s *memFileStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.files[name]
	return ok, nil
}

func (s *memFileStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.files[name] = data
	s.mu.Unlock()
	return name, nil
}

func (s *memFileStore) get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

// cdnFileStore publishes saved files under a separate base address.
type cdnFileStore struct {
	*memFileStore
	base string
}

func (s cdnFileStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if _, err := s.memFileStore.Save(ctx, name, r); err != nil {
		return "", err
	}
	return s.Location(name), nil
}

func (s cdnFileStore) Location(name string) string {
	return s.base + name
}

type fetchResponse struct {
	body []byte
	err  error
}

type stubFetcher struct {
	mu        sync.Mutex
	responses map[string]fetchResponse
	calls     []string
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{responses: make(map[string]fetchResponse)}
}

func (f *stubFetcher) respond(url string, body string) {
	f.responses[url] = fetchResponse{body: []byte(body)}
}

func (f *stubFetcher) fail(url string, err error) {
	f.responses[url] = fetchResponse{err: err}
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	resp, ok := f.responses[url]
	if !ok {
		return nil, &FetchError{Kind: FetchStatus, URL: url, StatusCode: 404}
	}
	return resp.body, resp.err
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type stubProvider struct {
	mu       sync.Mutex
	metadata map[string]Metadata
	err      error
	calls    int
}

func (s *stubProvider) Lookup(_ context.Context, videoID string) (Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return Metadata{}, s.err
	}
	meta, ok := s.metadata[videoID]
	if !ok {
		return Metadata{}, &FetchError{Kind: FetchStatus, URL: videoID, StatusCode: 404}
	}
	return meta, nil
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
