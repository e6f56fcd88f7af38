package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/projexport/internal/report"
)

// NewVerifyCommand creates the verify command
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <report.md>",
		Short: "Check that a Markdown report parses into its expected sections",
		Long: `Parse a Markdown report with a CommonMark parser and print its outline:
title, top-level sections, fenced code blocks and table of contents links.

Fails when a table of contents link points at a missing anchor, which means
embedded content broke out of its code fence.`,
		Args: cobra.ExactArgs(1),
		RunE: runVerify,
	}

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	outline, err := report.InspectMarkdown(data)
	if err != nil {
		return fmt.Errorf("parse report: %w", err)
	}

	w := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	cyan.Fprintf(w, "%s\n", outline.Title())
	fmt.Fprintf(w, "Sections: %d\n", len(outline.Sections()))
	for _, s := range outline.Sections() {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	fmt.Fprintf(w, "Fenced blocks: %d\n", outline.FencedBlocks)
	fmt.Fprintf(w, "Links: %d, anchors: %d\n", len(outline.Links), len(outline.Anchors))

	broken := outline.BrokenLinks()
	if len(broken) == 0 {
		green.Fprintln(w, "OK")
		return nil
	}

	red.Fprintf(w, "Broken links: %d\n", len(broken))
	for _, l := range broken {
		fmt.Fprintf(w, "  - %s\n", l)
	}
	return fmt.Errorf("%d broken link(s) in %s", len(broken), args[0])
}
