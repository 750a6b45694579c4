package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobwatch/internal/adapter"
	"github.com/amishk599/jobwatch/internal/scheduler"
)

// Source kinds.
const (
	KindHTML       = "html"
	KindGreenhouse = "greenhouse"
	KindLever      = "lever"
	KindAshby      = "ashby"
	KindGem        = "gem"
)

// Store types.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Notifier types.
const (
	NotifyLog      = "log"
	NotifySlack    = "slack"
	NotifyTelegram = "telegram"
)

// Config is the root configuration for jobwatch.
type Config struct {
	Interval     time.Duration
	Window       scheduler.Window
	Keywords     []string
	Store        StoreConfig
	LockPath     string
	Fetch        FetchConfig
	Sources      []SourceConfig
	Notification NotificationConfig
}

// StoreConfig selects where notified posting identifiers are persisted.
type StoreConfig struct {
	Type string `yaml:"type"` // "json" or "sqlite"
	Path string `yaml:"path"`
}

// FetchConfig holds the global HTTP and retry settings.
type FetchConfig struct {
	Timeout     time.Duration // per-attempt timeout
	Attempts    int           // total attempts per source
	RetryDelay  time.Duration // pause before a retry
	Backoff     float64       // retry delay multiplier; 1 keeps it fixed
	MinDelay    time.Duration // minimum gap between requests to one host; 0 disables
	Concurrency int           // sources fetched in parallel
	UserAgent   string
}

// SourceConfig describes one job site. After Load, Kind and URL are always
// set and html sources carry their resolved selectors.
type SourceConfig struct {
	Name       string
	Kind       string
	Preset     string
	URL        string
	BoardToken string
	Company    string
	Selectors  adapter.Selectors
	Enabled    bool

	// Per-source overrides of the global fetch settings.
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type          string `yaml:"type"`           // "log", "slack" or "telegram"
	WebhookURL    string `yaml:"webhook_url"`    // required if type is "slack"
	TelegramToken string `yaml:"telegram_token"` // required if type is "telegram"
	ChatID        string `yaml:"chat_id"`        // required if type is "telegram"
	Title         string `yaml:"title"`
	MaxListed     int    `yaml:"max_listed"`
	SendEmpty     bool   `yaml:"send_empty"`
}

// EnabledSources returns the enabled sources in config order.
func (c *Config) EnabledSources() []SourceConfig {
	var out []SourceConfig
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

const (
	defaultInterval    = time.Hour
	defaultStorePath   = "sent_jobs.json"
	defaultSQLitePath  = "jobwatch.db"
	defaultLockPath    = "jobwatch.lock"
	defaultTimeout     = 30 * time.Second
	defaultAttempts    = 2
	defaultRetryDelay  = 2 * time.Second
	defaultConcurrency = 1
	defaultMaxListed   = 20
	defaultTitle       = "Latest matching jobs"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Interval     string             `yaml:"interval"`
	Window       *scheduler.Window  `yaml:"window"`
	Keywords     []string           `yaml:"keywords"`
	Store        StoreConfig        `yaml:"store"`
	LockPath     string             `yaml:"lock_path"`
	Fetch        rawFetchConfig     `yaml:"fetch"`
	Sources      []rawSourceConfig  `yaml:"sources"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawFetchConfig struct {
	Timeout     string  `yaml:"timeout"`
	Attempts    int     `yaml:"attempts"`
	RetryDelay  string  `yaml:"retry_delay"`
	Backoff     float64 `yaml:"backoff"`
	MinDelay    string  `yaml:"min_delay"`
	Concurrency int     `yaml:"concurrency"`
	UserAgent   string  `yaml:"user_agent"`
}

type rawSourceConfig struct {
	Name       string            `yaml:"name"`
	Kind       string            `yaml:"kind"`
	Preset     string            `yaml:"preset"`
	URL        string            `yaml:"url"`
	BoardToken string            `yaml:"board_token"`
	Company    string            `yaml:"company"`
	Selectors  adapter.Selectors `yaml:"selectors"`
	Enabled    *bool             `yaml:"enabled"`
	Timeout    string            `yaml:"timeout"`
	Attempts   int               `yaml:"attempts"`
	RetryDelay string            `yaml:"retry_delay"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Expand environment variables
	expandEnv(&doc)

	var raw rawConfig
	if err := doc.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval, err := parseDuration("interval", raw.Interval, defaultInterval)
	if err != nil {
		return nil, err
	}

	window := scheduler.DefaultWindow()
	if raw.Window != nil {
		window = *raw.Window
	}

	fetch, err := buildFetch(raw.Fetch)
	if err != nil {
		return nil, err
	}

	sources := make([]SourceConfig, 0, len(raw.Sources))
	for i, rs := range raw.Sources {
		sc, err := buildSource(rs)
		if err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		sources = append(sources, sc)
	}

	store := raw.Store
	if store.Type == "" {
		store.Type = StoreJSON
	}
	if store.Path == "" {
		store.Path = defaultStorePath
		if store.Type == StoreSQLite {
			store.Path = defaultSQLitePath
		}
	}

	lockPath := raw.LockPath
	if lockPath == "" {
		lockPath = defaultLockPath
	}

	notification := raw.Notification
	if notification.Type == "" {
		notification.Type = NotifyLog
	}
	if notification.Title == "" {
		notification.Title = defaultTitle
	}
	if notification.MaxListed == 0 {
		notification.MaxListed = defaultMaxListed
	}

	cfg := &Config{
		Interval:     interval,
		Window:       window,
		Keywords:     raw.Keywords,
		Store:        store,
		LockPath:     lockPath,
		Fetch:        fetch,
		Sources:      sources,
		Notification: notification,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// expandEnv substitutes ${VAR} references inside scalar values after the
// document has been parsed, so expanded values never change its structure
// ("@channel" ids, tokens with colons). An expanded value loses its tag and
// is resolved again, which lets ${VAR} stand for numbers and booleans too.
func expandEnv(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && strings.Contains(n.Value, "$") {
		if expanded := os.ExpandEnv(n.Value); expanded != n.Value {
			n.Value = expanded
			if n.Style == 0 {
				n.Tag = ""
			}
		}
	}
	for _, c := range n.Content {
		expandEnv(c)
	}
}

func buildFetch(raw rawFetchConfig) (FetchConfig, error) {
	timeout, err := parseDuration("fetch.timeout", raw.Timeout, defaultTimeout)
	if err != nil {
		return FetchConfig{}, err
	}
	retryDelay, err := parseDuration("fetch.retry_delay", raw.RetryDelay, defaultRetryDelay)
	if err != nil {
		return FetchConfig{}, err
	}
	minDelay, err := parseDuration("fetch.min_delay", raw.MinDelay, 0)
	if err != nil {
		return FetchConfig{}, err
	}

	fc := FetchConfig{
		Timeout:     timeout,
		Attempts:    raw.Attempts,
		RetryDelay:  retryDelay,
		Backoff:     raw.Backoff,
		MinDelay:    minDelay,
		Concurrency: raw.Concurrency,
		UserAgent:   raw.UserAgent,
	}
	if fc.Attempts == 0 {
		fc.Attempts = defaultAttempts
	}
	if fc.Backoff == 0 {
		fc.Backoff = 1
	}
	if fc.Concurrency == 0 {
		fc.Concurrency = defaultConcurrency
	}
	return fc, nil
}

// buildSource resolves presets and ATS board tokens into a concrete kind,
// URL and selector set.
func buildSource(raw rawSourceConfig) (SourceConfig, error) {
	sc := SourceConfig{
		Name:       raw.Name,
		Kind:       strings.ToLower(raw.Kind),
		Preset:     strings.ToLower(raw.Preset),
		URL:        raw.URL,
		BoardToken: raw.BoardToken,
		Company:    raw.Company,
		Selectors:  raw.Selectors,
		Enabled:    raw.Enabled == nil || *raw.Enabled,
		Attempts:   raw.Attempts,
	}

	var err error
	if sc.Timeout, err = parseDuration("timeout", raw.Timeout, 0); err != nil {
		return sc, err
	}
	if sc.RetryDelay, err = parseDuration("retry_delay", raw.RetryDelay, 0); err != nil {
		return sc, err
	}

	if sc.Preset != "" {
		preset, ok := adapter.LookupPreset(sc.Preset)
		if !ok {
			return sc, fmt.Errorf("unknown preset %q (known: %s)", sc.Preset, strings.Join(adapter.PresetNames(), ", "))
		}
		if sc.Kind != "" && sc.Kind != KindHTML {
			return sc, fmt.Errorf("preset %q cannot be combined with kind %q", sc.Preset, sc.Kind)
		}
		sc.Kind = KindHTML
		if sc.URL == "" {
			sc.URL = preset.URL
		}
		sc.Selectors = mergeSelectors(preset.Selectors, sc.Selectors)
	}
	if sc.Name == "" {
		sc.Name = sc.Preset
	}

	switch sc.Kind {
	case KindHTML:
	case KindGreenhouse, KindLever, KindAshby, KindGem:
		if sc.URL == "" && sc.BoardToken != "" {
			sc.URL = boardEndpoint(sc.Kind, sc.BoardToken)
		}
		if sc.Company == "" {
			sc.Company = sc.Name
		}
	case "":
		return sc, fmt.Errorf("source %q needs a kind or a preset", sc.Name)
	default:
		return sc, fmt.Errorf("source %q has unknown kind %q", sc.Name, sc.Kind)
	}
	return sc, nil
}

func boardEndpoint(kind, token string) string {
	switch kind {
	case KindGreenhouse:
		return adapter.GreenhouseEndpoint(token)
	case KindLever:
		return adapter.LeverEndpoint(token)
	case KindGem:
		return adapter.GemEndpoint(token)
	default:
		return adapter.AshbyEndpoint(token)
	}
}

// mergeSelectors overlays the non-empty fields of override onto base.
func mergeSelectors(base, override adapter.Selectors) adapter.Selectors {
	if override.Card != "" {
		base.Card = override.Card
	}
	if override.Title != "" {
		base.Title = override.Title
	}
	if override.Company != "" {
		base.Company = override.Company
	}
	if override.Link != "" {
		base.Link = override.Link
	}
	if override.Description != "" {
		base.Description = override.Description
	}
	return base
}

func parseDuration(field, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", cfg.Interval)
	}
	if err := cfg.Window.Validate(); err != nil {
		return err
	}

	if len(cfg.Keywords) == 0 {
		return fmt.Errorf("at least one keyword is required")
	}
	for i, k := range cfg.Keywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("keywords[%d] is empty and would match every posting", i)
		}
	}

	switch cfg.Store.Type {
	case StoreJSON, StoreSQLite:
	default:
		return fmt.Errorf("store.type must be %q or %q, got %q", StoreJSON, StoreSQLite, cfg.Store.Type)
	}

	if cfg.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.Attempts < 1 {
		return fmt.Errorf("fetch.attempts must be at least 1, got %d", cfg.Fetch.Attempts)
	}
	if cfg.Fetch.RetryDelay < 0 || cfg.Fetch.MinDelay < 0 {
		return fmt.Errorf("fetch delays must not be negative")
	}
	if cfg.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch.concurrency must be at least 1, got %d", cfg.Fetch.Concurrency)
	}

	enabled := 0
	names := make(map[string]bool)
	for _, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("every source needs a name")
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate source name %q", s.Name)
		}
		names[s.Name] = true
		if !s.Enabled {
			continue
		}
		enabled++
		if s.URL == "" {
			return fmt.Errorf("source %q needs a url or board_token", s.Name)
		}
		if s.Kind == KindHTML {
			if err := s.Selectors.Validate(); err != nil {
				return fmt.Errorf("source %q: %w", s.Name, err)
			}
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	n := cfg.Notification
	switch n.Type {
	case NotifyLog:
	case NotifySlack:
		if n.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(n.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	case NotifyTelegram:
		if n.TelegramToken == "" {
			return fmt.Errorf("notification.telegram_token is required when type is \"telegram\"")
		}
		if n.ChatID == "" {
			return fmt.Errorf("notification.chat_id is required when type is \"telegram\"")
		}
	default:
		return fmt.Errorf("unknown notification.type %q", n.Type)
	}
	if n.MaxListed < 0 {
		return fmt.Errorf("notification.max_listed must not be negative, got %d", n.MaxListed)
	}

	return nil
}
