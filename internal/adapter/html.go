package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobwatch/internal/model"
)

// Selectors locate the parts of a listing on a job board page. Card selects
// one element per listing; the others are evaluated inside each card.
type Selectors struct {
	Card        string `yaml:"card"`
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`     // optional
	Link        string `yaml:"link"`        // defaults to "a"
	Description string `yaml:"description"` // optional
}

// Validate reports missing required selectors.
func (s Selectors) Validate() error {
	if s.Card == "" {
		return errors.New("selectors.card is required")
	}
	if s.Title == "" {
		return errors.New("selectors.title is required")
	}
	return nil
}

var _ Extractor = (*HTMLExtractor)(nil)

// HTMLExtractor extracts postings from server-rendered HTML using CSS
// selectors.
type HTMLExtractor struct {
	sel Selectors
}

// NewHTMLExtractor returns an extractor for the given selectors.
func NewHTMLExtractor(sel Selectors) (*HTMLExtractor, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if sel.Link == "" {
		sel.Link = "a"
	}
	return &HTMLExtractor{sel: sel}, nil
}

// Extract returns one posting per card in page order. Cards without a title
// or a usable link are skipped.
func (e *HTMLExtractor) Extract(page []byte, base *url.URL) ([]model.Posting, int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, 0, fmt.Errorf("parsing html: %w", err)
	}

	var (
		postings []model.Posting
		skipped  int
	)
	doc.Find(e.sel.Card).Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find(e.sel.Title).First().Text())
		href, ok := card.Find(e.sel.Link).First().Attr("href")
		if title == "" || !ok {
			skipped++
			return
		}
		link, err := resolveLink(base, href)
		if err != nil {
			skipped++
			return
		}

		p := model.Posting{ID: link, Title: title}
		if e.sel.Company != "" {
			p.Company = cleanText(card.Find(e.sel.Company).First().Text())
		}
		if e.sel.Description != "" {
			p.Description = cleanText(card.Find(e.sel.Description).First().Text())
		}
		postings = append(postings, p)
	})

	return postings, skipped, nil
}
