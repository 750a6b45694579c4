package adapter

import (
	"testing"
)

func TestGreenhouseExtractor_Success(t *testing.T) {
	payload := `{
		"jobs": [
			{
				"id": 12345,
				"title": "Machine Learning Engineer",
				"location": {"name": "Berlin"},
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/12345",
				"content": "&lt;p&gt;Train &lt;b&gt;LLM&lt;/b&gt; models.&lt;/p&gt;"
			},
			{
				"id": 67890,
				"title": "Backend Engineer",
				"location": {"name": "Remote, EU"},
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/67890",
				"content": ""
			}
		]
	}`

	postings, skipped, err := NewGreenhouseExtractor("Acme Corp").Extract([]byte(payload), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	p := postings[0]
	if p.ID != "https://boards.greenhouse.io/acme/jobs/12345" {
		t.Errorf("ID = %s", p.ID)
	}
	if p.Title != "Machine Learning Engineer" {
		t.Errorf("Title = %s", p.Title)
	}
	if p.Company != "Acme Corp" {
		t.Errorf("Company = %s", p.Company)
	}
	if p.Description != "Train LLM models." {
		t.Errorf("Description = %q", p.Description)
	}
}

func TestGreenhouseExtractor_SkipsIncompleteJobs(t *testing.T) {
	payload := `{"jobs": [
		{"id": 1, "title": "", "absolute_url": "https://boards.greenhouse.io/acme/jobs/1"},
		{"id": 2, "title": "AI Engineer", "absolute_url": ""},
		{"id": 3, "title": "AI Engineer", "absolute_url": "https://boards.greenhouse.io/acme/jobs/3"}
	]}`

	postings, skipped, err := NewGreenhouseExtractor("Acme").Extract([]byte(payload), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(postings) != 1 || postings[0].ID != "https://boards.greenhouse.io/acme/jobs/3" {
		t.Errorf("postings = %+v", postings)
	}
}

func TestGreenhouseExtractor_EmptyBoard(t *testing.T) {
	postings, _, err := NewGreenhouseExtractor("Empty Co").Extract([]byte(`{"jobs": []}`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 0 {
		t.Fatalf("expected 0 postings, got %d", len(postings))
	}
}

func TestGreenhouseExtractor_MalformedJSON(t *testing.T) {
	_, _, err := NewGreenhouseExtractor("Bad Co").Extract([]byte(`{not valid json`), nil)
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestGreenhouseEndpoint(t *testing.T) {
	got := GreenhouseEndpoint("acme")
	want := "https://boards-api.greenhouse.io/v1/boards/acme/jobs?content=true"
	if got != want {
		t.Errorf("GreenhouseEndpoint() = %s, want %s", got, want)
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "double-encoded HTML from Greenhouse API",
			input: "This is the job description. &lt;p&gt;Any HTML included.&lt;/p&gt;",
			want:  "This is the job description. Any HTML included.",
		},
		{
			name:  "typical job description with nested tags and whitespace",
			input: "&lt;p&gt;We are hiring.&lt;/p&gt;\n&lt;ul&gt;\n  &lt;li&gt;Write code&lt;/li&gt;\n  &lt;li&gt;Review PRs&lt;/li&gt;\n&lt;/ul&gt;",
			want:  "We are hiring. Write code Review PRs",
		},
		{
			name:  "plain text with no HTML",
			input: "No tags here.",
			want:  "No tags here.",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := extractText(tc.input)
			if got != tc.want {
				t.Errorf("extractText(%q)\n got  %q\n want %q", tc.input, got, tc.want)
			}
		})
	}
}
