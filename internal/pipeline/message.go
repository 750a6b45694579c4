package pipeline

import (
	"fmt"
	"strings"

	"github.com/amishk599/jobwatch/internal/model"
)

const defaultTitle = "Latest matching jobs"

// FormatMessage renders a run summary as one notification message: source
// failures first, then the new postings capped at opts.MaxListed, then the
// dedup store size.
func FormatMessage(summary model.RunSummary, opts Options) string {
	var sections []string

	for _, f := range summary.Failures {
		sections = append(sections, fmt.Sprintf("⚠️ Could not scrape %s: %v", f.Source, f.Err))
	}

	if n := len(summary.NewPostings); n > 0 {
		title := opts.Title
		if title == "" {
			title = defaultTitle
		}

		shown := summary.NewPostings
		if opts.MaxListed > 0 && n > opts.MaxListed {
			shown = shown[:opts.MaxListed]
		}

		var b strings.Builder
		b.WriteString("🧑‍💻 " + title + ":")
		for _, posting := range shown {
			b.WriteString("\n" + formatPosting(posting))
		}
		if hidden := n - len(shown); hidden > 0 {
			fmt.Fprintf(&b, "\n…and %d more", hidden)
		}
		sections = append(sections, b.String())
	} else if len(summary.Failures) == 0 {
		sections = append(sections, "No new postings.")
	}

	sections = append(sections, fmt.Sprintf("💾 Current sent jobs: %d", summary.SeenCount))
	return strings.Join(sections, "\n\n")
}

func formatPosting(p model.Posting) string {
	if p.Company == "" {
		return fmt.Sprintf("%s | %s", p.Title, p.ID)
	}
	return fmt.Sprintf("%s at %s | %s", p.Title, p.Company, p.ID)
}
