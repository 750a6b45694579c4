package adapter

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/amishk599/jobwatch/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// GreenhouseEndpoint returns the public jobs API URL for a board, including
// job content so descriptions can be matched.
func GreenhouseEndpoint(boardToken string) string {
	return fmt.Sprintf("%s/%s/jobs?content=true", greenhouseBaseURL, url.PathEscape(boardToken))
}

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	Content     string             `json:"content"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

var _ Extractor = (*GreenhouseExtractor)(nil)

// GreenhouseExtractor decodes the Greenhouse public boards API.
type GreenhouseExtractor struct {
	companyName string
}

// NewGreenhouseExtractor creates an extractor that labels postings with
// companyName.
func NewGreenhouseExtractor(companyName string) *GreenhouseExtractor {
	return &GreenhouseExtractor{companyName: companyName}
}

// Extract normalizes the board's jobs into postings keyed by their public URL.
func (e *GreenhouseExtractor) Extract(page []byte, _ *url.URL) ([]model.Posting, int, error) {
	var ghResp greenhouseResponse
	if err := json.Unmarshal(page, &ghResp); err != nil {
		return nil, 0, fmt.Errorf("decoding greenhouse response: %w", err)
	}

	postings := make([]model.Posting, 0, len(ghResp.Jobs))
	skipped := 0
	for _, gj := range ghResp.Jobs {
		title := cleanText(gj.Title)
		if title == "" || gj.AbsoluteURL == "" {
			skipped++
			continue
		}
		postings = append(postings, model.Posting{
			ID:          gj.AbsoluteURL,
			Title:       title,
			Company:     e.companyName,
			Description: extractText(gj.Content),
		})
	}

	return postings, skipped, nil
}
