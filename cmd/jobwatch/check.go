package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/pipeline"
	"github.com/amishk599/jobwatch/internal/store"
)

var (
	checkHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	checkTitleStyle  = lipgloss.NewStyle().Bold(true)
	checkDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	checkErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch once, print matches, exit",
	Long:  "One-shot run against every enabled source: prints matched postings. Does not read or write the store and sends nothing.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// discardNotifier swallows the summary message; check prints its own report.
type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, string) error { return nil }

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: nothing will be recorded or sent")

	sources, err := buildSources(cfg, newHTTPClient(), logger)
	if err != nil {
		logger.Error("failed to build sources", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := pipelineOptions(cfg)
	opts.MaxListed = 0
	p := pipeline.New(sources, newMatcher(cfg), store.NewNopBackend(), discardNotifier{}, opts, logger)
	summary, err := p.Run(ctx)
	if err != nil {
		logger.Error("check failed", "error", err)
		os.Exit(1)
	}

	printCheckReport(summary)
	return nil
}

func printCheckReport(summary model.RunSummary) {
	fmt.Println()
	for _, f := range summary.Failures {
		fmt.Println(checkErrorStyle.Render(fmt.Sprintf("✗ %s: %v", f.Source, f.Err)))
	}

	fmt.Println(checkHeaderStyle.Render(fmt.Sprintf("%d matching postings (%d fetched)", len(summary.NewPostings), summary.Fetched)))
	for _, posting := range summary.NewPostings {
		line := checkTitleStyle.Render(posting.Title)
		if posting.Company != "" {
			line += " at " + posting.Company
		}
		fmt.Printf("  %s %s\n", line, checkDimStyle.Render("["+posting.Source+"]"))
		fmt.Printf("    %s\n", checkDimStyle.Render(posting.ID))
	}
}
