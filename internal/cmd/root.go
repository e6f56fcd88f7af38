package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for projexport
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projexport",
		Short: "Export a project tree and its sources into one LLM-ready report",
		Long: `Projexport walks a project directory and writes its structure,
statistics and the content of every text file into a plain text and/or
Markdown report next to the project.

Settings are read from .projexport.yaml (or .yml, .ini) in the project
directory. CLI flags override configuration file settings.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewWatchCommand())
	cmd.AddCommand(NewNameCommand())
	cmd.AddCommand(NewToggleAutoCommand())
	cmd.AddCommand(NewVerifyCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
