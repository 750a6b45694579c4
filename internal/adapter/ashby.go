package adapter

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/amishk599/jobwatch/internal/model"
)

const ashbyBaseURL = "https://api.ashbyhq.com/posting-api/job-board"

// AshbyEndpoint returns the public job board API URL for an Ashby board.
func AshbyEndpoint(boardToken string) string {
	return fmt.Sprintf("%s/%s", ashbyBaseURL, url.PathEscape(boardToken))
}

// ashbyJob represents a single job in the Ashby API response.
type ashbyJob struct {
	Title            string `json:"title"`
	JobURL           string `json:"jobUrl"`
	DescriptionPlain string `json:"descriptionPlain"`
	IsListed         bool   `json:"isListed"`
}

// ashbyResponse is the top-level Ashby job board API response.
type ashbyResponse struct {
	Jobs []ashbyJob `json:"jobs"`
}

var _ Extractor = (*AshbyExtractor)(nil)

// AshbyExtractor decodes the Ashby public job board API.
type AshbyExtractor struct {
	companyName string
}

// NewAshbyExtractor creates an extractor that labels postings with companyName.
func NewAshbyExtractor(companyName string) *AshbyExtractor {
	return &AshbyExtractor{companyName: companyName}
}

// Extract normalizes listed Ashby jobs keyed by their job URL. Unlisted jobs
// are not postings and are dropped without counting as skipped.
func (e *AshbyExtractor) Extract(page []byte, _ *url.URL) ([]model.Posting, int, error) {
	var ashbyResp ashbyResponse
	if err := json.Unmarshal(page, &ashbyResp); err != nil {
		return nil, 0, fmt.Errorf("decoding ashby response: %w", err)
	}

	postings := make([]model.Posting, 0, len(ashbyResp.Jobs))
	skipped := 0
	for _, aj := range ashbyResp.Jobs {
		if !aj.IsListed {
			continue
		}
		title := cleanText(aj.Title)
		if title == "" || aj.JobURL == "" {
			skipped++
			continue
		}
		postings = append(postings, model.Posting{
			ID:          aj.JobURL,
			Title:       title,
			Company:     e.companyName,
			Description: cleanText(aj.DescriptionPlain),
		})
	}

	return postings, skipped, nil
}
