package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrCorpusUnavailable indicates the corpus could not be retrieved.
// The pipeline aborts before any processing when this happens.
var ErrCorpusUnavailable = errors.New("corpus unavailable")

// Fetcher retrieves raw corpus text from some source
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches a plain-text document over HTTP GET.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with the given request timeout.
// A timeout <= 0 falls back to 60 seconds.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch performs the GET and returns the UTF-8 body.
// Any transport error or non-200 status wraps ErrCorpusUnavailable.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request for %s: %v", ErrCorpusUnavailable, url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching %s: %v", ErrCorpusUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d from %s", ErrCorpusUnavailable, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body from %s: %v", ErrCorpusUnavailable, url, err)
	}

	slog.Debug("Corpus fetched",
		"url", url,
		"bytes", len(body))

	return string(body), nil
}
