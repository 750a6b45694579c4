package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amishk599/jobwatch/internal/model"
)

// maxPageSize caps how much of a response body is read. Larger bodies are
// rejected rather than truncated, since a cut-off page extracts partially.
const maxPageSize = 10 << 20

const defaultUserAgent = "jobwatch/1.0 (+https://github.com/amishk599/jobwatch)"

// ErrPageTooLarge is returned when a response body exceeds the size cap.
var ErrPageTooLarge = errors.New("page too large")

var _ model.PageFetcher = (*HTTPFetcher)(nil)

// HTTPFetcher performs a bounded GET and returns the response body.
type HTTPFetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBytes  int64
}

// NewHTTPFetcher returns a fetcher that applies timeout to every request.
// A zero timeout leaves only the client's own timeout in effect.
func NewHTTPFetcher(client *http.Client, timeout time.Duration, userAgent string) *HTTPFetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPFetcher{
		client:    client,
		timeout:   timeout,
		userAgent: userAgent,
		maxBytes:  maxPageSize,
	}
}

// Fetch issues a GET for url. Any status outside 2xx is returned as a
// *model.HTTPError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrPageTooLarge, url, f.maxBytes)
	}
	return body, nil
}
