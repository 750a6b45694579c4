package adapter

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/amishk599/jobwatch/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// LeverEndpoint returns the public postings API URL for a Lever company.
func LeverEndpoint(companySlug string) string {
	return fmt.Sprintf("%s/%s?mode=json", leverBaseURL, url.PathEscape(companySlug))
}

// leverJob represents a single job in the Lever API response.
type leverJob struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	DescriptionPlain string `json:"descriptionPlain"`
	HostedURL        string `json:"hostedUrl"`
}

var _ Extractor = (*LeverExtractor)(nil)

// LeverExtractor decodes the Lever public postings API.
type LeverExtractor struct {
	companyName string
}

// NewLeverExtractor creates an extractor that labels postings with companyName.
func NewLeverExtractor(companyName string) *LeverExtractor {
	return &LeverExtractor{companyName: companyName}
}

// Extract normalizes Lever postings keyed by their hosted URL.
func (e *LeverExtractor) Extract(page []byte, _ *url.URL) ([]model.Posting, int, error) {
	var leverJobs []leverJob
	if err := json.Unmarshal(page, &leverJobs); err != nil {
		return nil, 0, fmt.Errorf("decoding lever response: %w", err)
	}

	postings := make([]model.Posting, 0, len(leverJobs))
	skipped := 0
	for _, lj := range leverJobs {
		title := cleanText(lj.Text)
		if title == "" || lj.HostedURL == "" {
			skipped++
			continue
		}
		postings = append(postings, model.Posting{
			ID:          lj.HostedURL,
			Title:       title,
			Company:     e.companyName,
			Description: cleanText(lj.DescriptionPlain),
		})
	}

	return postings, skipped, nil
}
