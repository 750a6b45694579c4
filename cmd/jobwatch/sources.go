package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/adapter"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	disabledStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List all configured sources",
	Long:  "Reads the config and prints a table of all configured sources, plus the built-in presets.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	row := func(name, kind, status, url string) string {
		return fmt.Sprintf("%-20s %-11s %-9s %s", name, kind, status, url)
	}

	fmt.Println(tableHeaderStyle.Render(row("Source", "Kind", "Status", "URL")))

	enabled, disabled := 0, 0
	for _, s := range cfg.Sources {
		if !s.Enabled {
			disabled++
			fmt.Println(disabledStyle.Render(row(s.Name, s.Kind, "disabled", s.URL)))
			continue
		}
		enabled++
		fmt.Println(row(s.Name, s.Kind, "enabled", s.URL))
	}

	fmt.Printf("\nTotal: %d sources (%d enabled, %d disabled)\n", len(cfg.Sources), enabled, disabled)
	fmt.Println(disabledStyle.Render(fmt.Sprintf("Presets: %v", adapter.PresetNames())))
	return nil
}
