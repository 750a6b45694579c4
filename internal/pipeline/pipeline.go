package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/store"
)

var (
	// ErrNoSources aborts a run with nothing to fetch.
	ErrNoSources = errors.New("no sources configured")
	// ErrNotify wraps a delivery failure. The dedup store has already been
	// persisted when it is returned.
	ErrNotify = errors.New("notification failed")
)

// Options tune a Pipeline.
type Options struct {
	Title       string // heading above the listed postings
	MaxListed   int    // cap on postings listed in the message; <= 0 means no cap
	SendEmpty   bool   // send a "no new postings" message instead of staying silent
	Concurrency int    // sources fetched in parallel; <= 1 fetches one at a time
}

// Pipeline owns one ingestion run:
// fetch → match → dedup → record → persist → notify.
type Pipeline struct {
	sources  []model.Source
	matcher  model.Matcher
	backend  store.Backend
	notifier model.Notifier
	opts     Options
	logger   *slog.Logger
}

// New creates a pipeline wired with all its dependencies. Sources are invoked
// in the given order.
func New(
	sources []model.Source,
	matcher model.Matcher,
	backend store.Backend,
	notifier model.Notifier,
	opts Options,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		sources:  sources,
		matcher:  matcher,
		backend:  backend,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
	}
}

// Run executes one run. Source failures are collected in the summary and
// never abort the run. Store load errors abort before anything is fetched.
// The store is persisted before the notifier is called, so a delivery
// failure never causes the same postings to be reported again.
func (p *Pipeline) Run(ctx context.Context) (model.RunSummary, error) {
	if len(p.sources) == 0 {
		return model.RunSummary{}, ErrNoSources
	}

	seen, err := store.Load(ctx, p.backend)
	if err != nil {
		return model.RunSummary{}, fmt.Errorf("loading dedup store: %w", err)
	}

	results := p.fetchAll(ctx)
	summary := p.apply(results, seen)

	if err := seen.Persist(ctx); err != nil {
		return summary, fmt.Errorf("persisting dedup store: %w", err)
	}

	p.logger.Info("run complete",
		"sources", len(p.sources),
		"failed", summary.FailedSources(),
		"fetched", summary.Fetched,
		"matched", summary.Matched,
		"new", len(summary.NewPostings),
		"seen", summary.SeenCount,
	)

	if summary.Empty() {
		if !p.opts.SendEmpty {
			p.logger.Info("nothing new, notification suppressed")
			return summary, nil
		}
		p.logger.Info("nothing new, sending empty-run notification")
	}

	msg := FormatMessage(summary, p.opts)
	if err := p.notifier.Notify(ctx, msg); err != nil {
		p.logger.Error("notification failed", "error", err)
		return summary, fmt.Errorf("%w: %w", ErrNotify, err)
	}
	return summary, nil
}

// fetchAll invokes every source and returns the results in source order.
func (p *Pipeline) fetchAll(ctx context.Context) []model.SourceResult {
	results := make([]model.SourceResult, len(p.sources))

	if p.opts.Concurrency <= 1 {
		for i, src := range p.sources {
			results[i] = src.FetchAndExtract(ctx)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for i, src := range p.sources {
		g.Go(func() error {
			results[i] = src.FetchAndExtract(ctx)
			return nil
		})
	}
	g.Wait()
	return results
}

// apply matches and dedups results in source order, recording each new
// identifier on first encounter.
func (p *Pipeline) apply(results []model.SourceResult, seen *store.DedupStore) model.RunSummary {
	var summary model.RunSummary

	for _, res := range results {
		if res.Failed() {
			p.logger.Warn("source failed", "source", res.Source, "error", res.Err)
			summary.Failures = append(summary.Failures, model.SourceFailure{Source: res.Source, Err: res.Err})
			continue
		}

		matched, fresh := 0, 0
		for _, posting := range res.Postings {
			if !p.matcher.Match(posting) {
				continue
			}
			matched++
			if posting.ID == "" || seen.Contains(posting.ID) {
				continue
			}
			seen.Record(posting.ID)
			summary.NewPostings = append(summary.NewPostings, posting)
			fresh++
		}

		summary.Fetched += len(res.Postings)
		summary.Matched += matched
		p.logger.Info("polled source",
			"source", res.Source,
			"fetched", len(res.Postings),
			"matched", matched,
			"new", fresh,
		)
	}

	summary.SeenCount = seen.Len()
	return summary
}
