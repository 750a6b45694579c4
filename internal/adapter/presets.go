package adapter

import "sort"

// Preset is a known job board page with its listing selectors.
type Preset struct {
	URL       string
	Selectors Selectors
}

// Markup on these boards changes without notice; when a preset stops
// producing postings, override its selectors in config.
var presets = map[string]Preset{
	"datacareer": {
		URL: "https://www.datacareer.de/jobs/?categories%5B%5D=Artificial+Intelligence",
		Selectors: Selectors{
			Card:    "div.job-listing",
			Title:   "h2",
			Company: "div.company",
			Link:    "a",
		},
	},
	"stepstone": {
		URL: "https://www.stepstone.de/jobs/ai",
		Selectors: Selectors{
			Card:    "div.job-listing",
			Title:   "h2",
			Company: "div.company",
			Link:    "a",
		},
	},
	"indeed": {
		URL: "https://www.indeed.de/jobs?q=AI&l=Germany",
		Selectors: Selectors{
			Card:    "div.job_seen_beacon",
			Title:   "h2",
			Company: "span.companyName",
			Link:    "a",
		},
	},
	"glassdoor": {
		URL: "https://www.glassdoor.de/Job/germany-ai-jobs-SRCH_IL.0,7_IN96_KO8,10.htm",
		Selectors: Selectors{
			Card:    "li.jl",
			Title:   "a.jobLink",
			Company: "div.jobEmpolyerName", // sic, Glassdoor's class name
			Link:    "a.jobLink",
		},
	},
	"stackoverflow": {
		URL: "https://stackoverflow.com/jobs?tl=artificial-intelligence",
		Selectors: Selectors{
			Card:    "div.-job",
			Title:   "a.s-link",
			Company: "h3.fc-black-700",
			Link:    "a.s-link",
		},
	},
}

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames returns the registered preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
