package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/config"
	"github.com/amishk599/jobwatch/internal/filter"
	"github.com/amishk599/jobwatch/internal/pipeline"
	"github.com/amishk599/jobwatch/internal/runlock"
)

var respectWindow bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one ingestion cycle and exit",
	Long:  "Fetches every enabled source once, notifies about new matching postings and records them. Suitable for cron.",
	RunE:  runOnceCmd,
}

func init() {
	runCmd.Flags().BoolVar(&respectWindow, "respect-window", false, "do nothing when the current time is outside the configured window")
	rootCmd.AddCommand(runCmd)
}

func runOnceCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logConfig(cfg, logger)

	if respectWindow && !cfg.Window.Contains(time.Now()) {
		logger.Info("outside run window, nothing to do", "window", cfg.Window.String())
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runCycle(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(exitCode(err))
	}
	return nil
}

// runCycle performs one locked pipeline run. The store backend is opened and
// closed around the run so a long-lived `start` process never keeps the
// database busy between ticks.
func runCycle(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	lock, err := runlock.Acquire(cfg.LockPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("releasing run lock", "error", err)
		}
	}()

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeBackend(); err != nil {
			logger.Warn("closing store", "error", err)
		}
	}()

	httpClient := newHTTPClient()
	n, err := setupNotifier(cfg, httpClient, logger)
	if err != nil {
		return err
	}
	sources, err := buildSources(cfg, httpClient, logger)
	if err != nil {
		return err
	}

	p := pipeline.New(sources, newMatcher(cfg), backend, n, pipelineOptions(cfg), logger)
	_, err = p.Run(ctx)
	return err
}

func logConfig(cfg *config.Config, logger *slog.Logger) {
	logger.Info("config loaded",
		"sources", len(cfg.EnabledSources()),
		"keywords", filter.NewKeywordMatcher(cfg.Keywords).Keywords(),
		"store", cfg.Store.Type,
		"notifier", cfg.Notification.Type,
	)
}

// exitCode distinguishes a failed delivery, after which the store is
// already up to date, from failures that left it untouched.
func exitCode(err error) int {
	switch {
	case errors.Is(err, runlock.ErrLocked):
		return 3
	case errors.Is(err, pipeline.ErrNotify):
		return 2
	default:
		return 1
	}
}
