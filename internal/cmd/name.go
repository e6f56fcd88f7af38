package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/projexport/internal/output"
)

// NewNameCommand creates the name command
func NewNameCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "name [dir]",
		Short: "Print the report file names an export would write",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runName,
	}

	cmd.Flags().String("config", "", "Path to config file (default: <dir>/.projexport.yaml)")
	cmd.Flags().String("format", "", "Output format: txt, md or both")
	cmd.Flags().String("output-name", "", "Report file name template ({workspaceName} is replaced)")

	return cmd
}

func runName(cmd *cobra.Command, args []string) error {
	root, err := rootArg(args)
	if err != nil {
		return err
	}

	cfg, err := configLoader(cmd, root)()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, ext := range cfg.OutputExtensions() {
		fmt.Fprintln(w, output.ExpectedFileName(cfg.OutputFileName, root, ext))
	}
	return nil
}
