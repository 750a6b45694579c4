package model

import "context"

// Posting is one candidate job listing extracted from a source page.
type Posting struct {
	ID          string // dedup key; the listing's absolute URL
	Title       string // required
	Company     string // may be empty
	Description string // may be empty, used for keyword matching
	Source      string // name of the source that produced it
}

// SourceResult is the outcome of invoking one source. When Err is set the
// source did not produce reliable results and Postings is empty.
type SourceResult struct {
	Source   string
	Postings []Posting
	Err      error
}

// Failed reports whether the source failed.
func (r SourceResult) Failed() bool {
	return r.Err != nil
}

// SourceFailure names a source that failed during a run and why.
type SourceFailure struct {
	Source string
	Err    error
}

// RunSummary is the aggregate outcome of one pipeline run.
type RunSummary struct {
	NewPostings []Posting       // source order, then page order
	Failures    []SourceFailure // invocation order
	SeenCount   int             // dedup store size after the run
	Fetched     int
	Matched     int
}

// FailedSources returns the names of the failed sources in invocation order.
func (s RunSummary) FailedSources() []string {
	names := make([]string, 0, len(s.Failures))
	for _, f := range s.Failures {
		names = append(names, f.Source)
	}
	return names
}

// Empty reports whether the run found nothing new and nothing failed.
func (s RunSummary) Empty() bool {
	return len(s.NewPostings) == 0 && len(s.Failures) == 0
}

// Source fetches one external job site and extracts its postings.
// Implementations never return errors; failures are carried in the result.
type Source interface {
	Name() string
	FetchAndExtract(ctx context.Context) SourceResult
}

// PageFetcher retrieves the raw body at url.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchFunc adapts a function into a PageFetcher.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetchFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// Matcher decides whether a posting is relevant.
type Matcher interface {
	Match(p Posting) bool
}

// Notifier delivers one formatted text message.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
