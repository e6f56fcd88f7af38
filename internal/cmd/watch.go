package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/projexport/internal/config"
	"github.com/harrison/projexport/internal/metrics"
	"github.com/harrison/projexport/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Export once, then again whenever project files change",
		Long: `Export the project, then keep watching it and export again after changes
settle for watch_delay (default 500ms).

The configuration is reloaded before every export, so edits to
.projexport.yaml apply to the next run. While auto_export_on_save is false
changes are ignored; use 'projexport toggle-auto' to switch it.

Press Ctrl+C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	addConfigFlags(cmd)
	cmd.Flags().Duration("delay", 0, "Quiet period before an export (e.g. 500ms, 2s)")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9108)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := rootArg(args)
	if err != nil {
		return err
	}

	load := configLoader(cmd, root)
	cfg, err := load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx, cmd, root, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				s.log.LogError(fmt.Sprintf("Metrics server stopped: %v", err))
			}
		}()
		s.log.LogInfo(fmt.Sprintf("Serving metrics on %s/metrics", cfg.MetricsAddr))
	}

	export := func(ctx context.Context, cfg *config.Config) {
		started := time.Now()
		res, err := s.exporter.Run(ctx, root, cfg)
		if res != nil {
			showDiagnostics(s.notifier, res)
		}
		if err != nil {
			s.log.LogError(fmt.Sprintf("Export failed after %s: %v", time.Since(started).Round(time.Millisecond), err))
		}
	}

	export(ctx, cfg)

	runner := &watch.Runner{
		Root:   root,
		Load:   load,
		Export: export,
		Logger: s.log,
	}
	return runner.Run(ctx)
}
