package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/projexport/internal/history"
	"github.com/harrison/projexport/internal/logger"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [dir]",
		Short: "Show recent exports of a project",
		Long: `List recent exports recorded in the run history database
(history.enabled in the project configuration).

Examples:
  projexport history
  projexport history --all --limit 50
  projexport history --prune-days 30`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().String("config", "", "Path to config file (default: <dir>/.projexport.yaml)")
	cmd.Flags().Int("limit", 10, "Maximum number of runs to show (0 = all)")
	cmd.Flags().Bool("all", false, "Show runs of every project")
	cmd.Flags().Int("prune-days", 0, "Delete runs older than this many days before listing")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	root, err := rootArg(args)
	if err != nil {
		return err
	}

	cfg, err := configLoader(cmd, root)()
	if err != nil {
		return err
	}

	dbPath, err := cfg.HistoryDBPath()
	if err != nil {
		return fmt.Errorf("failed to get history database path: %w", err)
	}

	w := cmd.OutOrStdout()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(w, "No export history found")
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	if days, _ := cmd.Flags().GetInt("prune-days"); days > 0 {
		n, err := store.Prune(ctx, days)
		if err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
		fmt.Fprintf(w, "Pruned %d run(s) older than %d days\n", n, days)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	filter := root
	if all, _ := cmd.Flags().GetBool("all"); all {
		filter = ""
	}

	runs, err := store.Recent(ctx, filter, limit)
	if err != nil {
		return fmt.Errorf("get recent runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No export history found")
		return nil
	}

	printRuns(w, runs, filter == "")
	return nil
}

// printRuns prints one block per run, most recent first.
func printRuns(w io.Writer, runs []*history.Run, showRoot bool) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	gray := color.New(color.FgHiBlack)

	for _, r := range runs {
		cyan.Fprintf(w, "%s ", r.StartedAt.Local().Format("2006-01-02 15:04:05"))
		if r.Succeeded() {
			green.Fprint(w, "OK")
		} else {
			red.Fprint(w, "FAILED")
		}
		gray.Fprintf(w, " (%s, %s)\n", logger.FormatDuration(r.Duration), r.RunID)

		if showRoot {
			fmt.Fprintf(w, "  Project: %s\n", r.Root)
		}
		if len(r.Files) > 0 {
			fmt.Fprintf(w, "  Reports: %s\n", strings.Join(r.Files, ", "))
		}
		fmt.Fprintf(w, "  Files: %d (%d embedded), excluded entries: %d\n", r.FileCount, r.EmbeddedCount, r.ExcludedCount)
		if r.Diagnostics > 0 {
			fmt.Fprintf(w, "  Diagnostics: %d\n", r.Diagnostics)
		}
		for _, loc := range r.Published {
			fmt.Fprintf(w, "  Published: %s\n", loc)
		}
		if r.Error != "" {
			red.Fprintf(w, "  Error: %s\n", r.Error)
		}
		fmt.Fprintln(w, "  "+gray.Sprint(since(r.StartedAt)))
	}
}

func since(t time.Time) string {
	d := time.Since(t)
	if d < time.Minute {
		return "just now"
	}
	return logger.FormatDuration(d.Truncate(time.Minute)) + " ago"
}
