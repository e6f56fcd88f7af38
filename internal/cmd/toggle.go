package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/projexport/internal/config"
	"github.com/harrison/projexport/internal/notify"
)

// NewToggleAutoCommand creates the toggle-auto command
func NewToggleAutoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle-auto [dir]",
		Short: "Turn export on save on or off for a project",
		Long: `Flip auto_export_on_save in the project configuration file. A running
'projexport watch' picks the new value up before its next export.

The file is created (as .projexport.yaml) when the project has none.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runToggleAuto,
	}

	cmd.Flags().String("config", "", "Path to config file (default: <dir>/.projexport.yaml)")

	return cmd
}

func runToggleAuto(cmd *cobra.Command, args []string) error {
	root, err := rootArg(args)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.FindConfigFile(root)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	enabled := !cfg.AutoExportOnSave
	if err := config.SetAutoExport(path, enabled); err != nil {
		return err
	}

	n := notify.New(cmd.OutOrStdout(), notify.ParseLevel(cfg.NotificationLevel), notify.NewLocalizer(cfg.Language), nil)
	if enabled {
		n.InfoKey(notify.KeyAutoEnabled)
	} else {
		n.InfoKey(notify.KeyAutoDisabled)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "auto_export_on_save: %t (%s)\n", enabled, path)
	return nil
}
