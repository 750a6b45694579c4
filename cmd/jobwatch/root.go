package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/adapter"
	"github.com/amishk599/jobwatch/internal/config"
	"github.com/amishk599/jobwatch/internal/filter"
	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/notifier"
	"github.com/amishk599/jobwatch/internal/pipeline"
	"github.com/amishk599/jobwatch/internal/ratelimit"
	"github.com/amishk599/jobwatch/internal/retry"
	"github.com/amishk599/jobwatch/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobwatch",
	Short: "Keyword job alerts from many job boards",
	Long: "jobwatch scrapes a fixed list of job boards, keeps the postings that match your keywords,\n" +
		"drops the ones it already reported and sends one summary message per run.",
	// Default to `run` so that a plain `jobwatch` from cron does one cycle.
	RunE:          runOnceCmd,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBWATCH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return loadDotEnv()
	}
}

// loadDotEnv reads a .env file from the working directory when present.
// Variables already set in the environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBWATCH_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBWATCH_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (model.Notifier, error) {
	n := cfg.Notification
	switch n.Type {
	case config.NotifySlack:
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(n.WebhookURL, httpClient, logger), nil
	case config.NotifyTelegram:
		logger.Info("using telegram notifier", "chat_id", n.ChatID)
		tg, err := notifier.NewTelegramNotifier(n.TelegramToken, n.ChatID, httpClient, logger)
		if err != nil {
			return nil, err
		}
		return tg, nil
	default:
		return notifier.NewLogNotifier(logger), nil
	}
}

// openBackend opens the configured dedup store backend. The returned close
// func is always non-nil.
func openBackend(cfg *config.Config) (store.Backend, func() error, error) {
	switch cfg.Store.Type {
	case config.StoreSQLite:
		b, err := store.NewSQLiteBackend(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	default:
		return store.NewFileBackend(cfg.Store.Path), func() error { return nil }, nil
	}
}

func createExtractor(src config.SourceConfig) (adapter.Extractor, error) {
	switch src.Kind {
	case config.KindGreenhouse:
		return adapter.NewGreenhouseExtractor(src.Company), nil
	case config.KindLever:
		return adapter.NewLeverExtractor(src.Company), nil
	case config.KindAshby:
		return adapter.NewAshbyExtractor(src.Company), nil
	case config.KindGem:
		return adapter.NewGemExtractor(src.Company), nil
	case config.KindHTML:
		return adapter.NewHTMLExtractor(src.Selectors)
	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind)
	}
}

// buildSources wires every enabled source as
// HTTP fetch → per-host rate limit → retry → extract.
// All sources share one host limiter.
func buildSources(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) ([]model.Source, error) {
	limiter := ratelimit.NewHostLimiter(cfg.Fetch.MinDelay)

	var sources []model.Source
	for _, sc := range cfg.EnabledSources() {
		timeout := cfg.Fetch.Timeout
		if sc.Timeout > 0 {
			timeout = sc.Timeout
		}
		policy := retry.Policy{
			Attempts:   cfg.Fetch.Attempts,
			Delay:      cfg.Fetch.RetryDelay,
			Multiplier: cfg.Fetch.Backoff,
		}
		if sc.Attempts > 0 {
			policy.Attempts = sc.Attempts
		}
		if sc.RetryDelay > 0 {
			policy.Delay = sc.RetryDelay
		}

		var fetcher model.PageFetcher = adapter.NewHTTPFetcher(httpClient, timeout, cfg.Fetch.UserAgent)
		if cfg.Fetch.MinDelay > 0 {
			fetcher = ratelimit.NewRateLimitedFetcher(fetcher, limiter)
		}
		fetcher = retry.NewRetryFetcher(fetcher, policy, logger)

		extractor, err := createExtractor(sc)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", sc.Name, err)
		}
		src, err := adapter.NewSource(sc.Name, sc.URL, fetcher, extractor, logger)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
		logger.Debug("registered source", "source", src.Name(), "kind", sc.Kind, "url", src.Endpoint())
	}
	return sources, nil
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Title:       cfg.Notification.Title,
		MaxListed:   cfg.Notification.MaxListed,
		SendEmpty:   cfg.Notification.SendEmpty,
		Concurrency: cfg.Fetch.Concurrency,
	}
}

func newMatcher(cfg *config.Config) model.Matcher {
	return filter.NewKeywordMatcher(cfg.Keywords)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
