package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/amishk599/jobwatch/internal/model"
)

// Extractor turns a fetched page into postings. Listings missing a required
// field are skipped and counted rather than failing the page.
type Extractor interface {
	Extract(page []byte, base *url.URL) (postings []model.Posting, skipped int, err error)
}

var _ model.Source = (*Source)(nil)

// Source binds a fixed endpoint to a fetcher and an extractor.
type Source struct {
	name      string
	endpoint  *url.URL
	fetcher   model.PageFetcher
	extractor Extractor
	logger    *slog.Logger
}

// NewSource creates a source for the absolute http(s) endpoint.
func NewSource(name, endpoint string, fetcher model.PageFetcher, extractor Extractor, logger *slog.Logger) (*Source, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("source %s: parsing endpoint: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("source %s: endpoint %q must be an absolute http(s) URL", name, endpoint)
	}
	return &Source{
		name:      name,
		endpoint:  u,
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
	}, nil
}

// Name returns the configured source name.
func (s *Source) Name() string {
	return s.name
}

// Endpoint returns the URL the source fetches.
func (s *Source) Endpoint() string {
	return s.endpoint.String()
}

// FetchAndExtract fetches the endpoint and extracts its postings. It never
// fails past this boundary: fetch and parse errors are returned in the result.
func (s *Source) FetchAndExtract(ctx context.Context) model.SourceResult {
	page, err := s.fetcher.Fetch(ctx, s.endpoint.String())
	if err != nil {
		return model.SourceResult{Source: s.name, Err: err}
	}

	postings, skipped, err := s.extractor.Extract(page, s.endpoint)
	if err != nil {
		return model.SourceResult{Source: s.name, Err: fmt.Errorf("extracting: %w", err)}
	}

	for i := range postings {
		postings[i].Source = s.name
	}

	if skipped > 0 {
		s.logger.Debug("skipped incomplete listings", "source", s.name, "skipped", skipped)
	}
	return model.SourceResult{Source: s.name, Postings: postings}
}
