package adapter

import (
	"net/url"
	"testing"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

const indeedPage = `<html><body>
<div class="job_seen_beacon">
  <h2>  Senior   AI Engineer </h2>
  <span class="companyName">Über GmbH</span>
  <a href="/rc/clk?jk=1">view</a>
</div>
<div class="job_seen_beacon">
  <span class="companyName">No Title AG</span>
  <a href="/rc/clk?jk=2">view</a>
</div>
<div class="job_seen_beacon">
  <h2>ML Ops</h2>
  <a href="https://other.example/jobs/3#apply">view</a>
</div>
<div class="job_seen_beacon">
  <h2>Missing link</h2>
</div>
<div class="job_seen_beacon">
  <h2>Script link</h2>
  <a href="javascript:void(0)">view</a>
</div>
</body></html>`

func TestHTMLExtractor_IndeedPreset(t *testing.T) {
	preset, ok := LookupPreset("indeed")
	if !ok {
		t.Fatal("indeed preset not registered")
	}
	ex, err := NewHTMLExtractor(preset.Selectors)
	if err != nil {
		t.Fatalf("NewHTMLExtractor: %v", err)
	}

	postings, skipped, err := ex.Extract([]byte(indeedPage), mustParseURL(t, preset.URL))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d: %+v", len(postings), postings)
	}

	first := postings[0]
	if first.ID != "https://www.indeed.de/rc/clk?jk=1" {
		t.Errorf("ID = %s", first.ID)
	}
	if first.Title != "Senior AI Engineer" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Company != "Über GmbH" {
		t.Errorf("Company = %q", first.Company)
	}

	second := postings[1]
	if second.ID != "https://other.example/jobs/3" {
		t.Errorf("absolute link should be kept without fragment, got %s", second.ID)
	}
	if second.Company != "" {
		t.Errorf("missing company should be empty, got %q", second.Company)
	}
}

func TestHTMLExtractor_StackOverflowLinkFromTitle(t *testing.T) {
	page := `<div class="-job"><a class="s-link" href="/jobs/42/llm-dev">LLM Developer</a>
	<h3 class="fc-black-700">Stack</h3></div>
	<div class="-job"><span>no title link</span></div>`

	preset, _ := LookupPreset("stackoverflow")
	ex, err := NewHTMLExtractor(preset.Selectors)
	if err != nil {
		t.Fatalf("NewHTMLExtractor: %v", err)
	}
	postings, skipped, err := ex.Extract([]byte(page), mustParseURL(t, preset.URL))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if skipped != 1 || len(postings) != 1 {
		t.Fatalf("postings = %d skipped = %d", len(postings), skipped)
	}
	if postings[0].ID != "https://stackoverflow.com/jobs/42/llm-dev" || postings[0].Company != "Stack" {
		t.Errorf("posting = %+v", postings[0])
	}
}

func TestHTMLExtractor_Description(t *testing.T) {
	page := `<ul><li class="job"><h3>Data Scientist</h3><p class="desc">Deep
	learning and Computer Vision</p><a href="jobs/7">more</a></li></ul>`

	ex, err := NewHTMLExtractor(Selectors{Card: "li.job", Title: "h3", Description: "p.desc"})
	if err != nil {
		t.Fatalf("NewHTMLExtractor: %v", err)
	}
	postings, _, err := ex.Extract([]byte(page), mustParseURL(t, "https://example.com/careers/"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}
	if postings[0].ID != "https://example.com/careers/jobs/7" {
		t.Errorf("ID = %s", postings[0].ID)
	}
	if postings[0].Description != "Deep learning and Computer Vision" {
		t.Errorf("Description = %q", postings[0].Description)
	}
}

func TestHTMLExtractor_NoListingsIsNotAnError(t *testing.T) {
	ex, err := NewHTMLExtractor(Selectors{Card: "div.job-listing", Title: "h2"})
	if err != nil {
		t.Fatalf("NewHTMLExtractor: %v", err)
	}
	postings, skipped, err := ex.Extract([]byte(`<html><body><p>Nothing here</p></body></html>`), nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(postings) != 0 || skipped != 0 {
		t.Errorf("postings = %d skipped = %d, want 0 and 0", len(postings), skipped)
	}
}

func TestNewHTMLExtractor_RequiresSelectors(t *testing.T) {
	if _, err := NewHTMLExtractor(Selectors{Title: "h2"}); err == nil {
		t.Error("expected error without card selector")
	}
	if _, err := NewHTMLExtractor(Selectors{Card: "div"}); err == nil {
		t.Error("expected error without title selector")
	}
}

func TestPresets_AllValid(t *testing.T) {
	names := PresetNames()
	want := []string{"datacareer", "glassdoor", "indeed", "stackoverflow", "stepstone"}
	if len(names) != len(want) {
		t.Fatalf("PresetNames() = %v, want %v", names, want)
	}
	for i, name := range names {
		if name != want[i] {
			t.Errorf("PresetNames()[%d] = %s, want %s", i, name, want[i])
		}
		p, _ := LookupPreset(name)
		if err := p.Selectors.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
		if u, err := url.Parse(p.URL); err != nil || u.Scheme != "https" {
			t.Errorf("preset %s: bad URL %q", name, p.URL)
		}
	}
}
