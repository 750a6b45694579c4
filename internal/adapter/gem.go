package adapter

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/amishk599/jobwatch/internal/model"
)

const gemBaseURL = "https://api.gem.com/job_board/v0"

// GemEndpoint returns the public job board API URL for a Gem board.
func GemEndpoint(boardToken string) string {
	return fmt.Sprintf("%s/%s/job_posts/", gemBaseURL, url.PathEscape(boardToken))
}

type gemJob struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Location     gemLocation `json:"location"`
	AbsoluteURL  string      `json:"absolute_url"`
	Content      string      `json:"content"`
	ContentPlain string      `json:"content_plain"`
}

type gemLocation struct {
	Name string `json:"name"`
}

var _ Extractor = (*GemExtractor)(nil)

// GemExtractor decodes the Gem public job board API, a bare JSON array.
type GemExtractor struct {
	companyName string
}

// NewGemExtractor creates an extractor that labels postings with companyName.
func NewGemExtractor(companyName string) *GemExtractor {
	return &GemExtractor{companyName: companyName}
}

// Extract normalizes Gem job posts keyed by their absolute URL. The plain
// text body is preferred; the HTML body is the fallback.
func (e *GemExtractor) Extract(page []byte, _ *url.URL) ([]model.Posting, int, error) {
	var gemJobs []gemJob
	if err := json.Unmarshal(page, &gemJobs); err != nil {
		return nil, 0, fmt.Errorf("decoding gem response: %w", err)
	}

	postings := make([]model.Posting, 0, len(gemJobs))
	skipped := 0
	for _, gj := range gemJobs {
		title := cleanText(gj.Title)
		if title == "" || gj.AbsoluteURL == "" {
			skipped++
			continue
		}

		desc := cleanText(gj.ContentPlain)
		if desc == "" && gj.Content != "" {
			desc = extractText(gj.Content)
		}

		postings = append(postings, model.Posting{
			ID:          gj.AbsoluteURL,
			Title:       title,
			Company:     e.companyName,
			Description: desc,
		})
	}

	return postings, skipped, nil
}
