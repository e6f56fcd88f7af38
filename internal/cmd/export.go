package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/projexport/internal/exporter"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Export a project into a report",
		Long: `Export the project directory (default: current directory) into a plain
text and/or Markdown report written at the top of the project.

Reports left by a previous export are removed first, and reports are never
included in later exports.

Examples:
  projexport export
  projexport export ~/src/app --format md
  projexport export --exclude 'node_modules/**' --exclude '*.log'
  projexport export --output-name '{workspaceName}-snapshot' --max-file-size 65536`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	addConfigFlags(cmd)

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	root, err := rootArg(args)
	if err != nil {
		return err
	}

	cfg, err := configLoader(cmd, root)()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx, cmd, root, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.exporter.Run(ctx, root, cfg)
	if res != nil {
		showDiagnostics(s.notifier, res)
	}
	if exporter.IsNoRoot(err) {
		return fmt.Errorf("nothing to export: %w", err)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}
