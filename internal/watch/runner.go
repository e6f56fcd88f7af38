package watch

import (
	"context"
	"fmt"

	"github.com/harrison/projexport/internal/config"
	"github.com/harrison/projexport/internal/metrics"
)

// Logger receives watcher progress messages.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// LoadFunc returns the configuration snapshot for the next run.
type LoadFunc func() (*config.Config, error)

// ExportFunc runs one export with cfg.
type ExportFunc func(ctx context.Context, cfg *config.Config)

// Runner triggers exports of Root after changes settle.
type Runner struct {
	Root   string
	Load   LoadFunc
	Export ExportFunc
	Logger Logger // optional
}

// Run watches Root until ctx is done. The configuration is reloaded before
// every triggered export so edits apply to the next run only; while
// auto_export_on_save is false, changes are observed but no export runs.
func (r *Runner) Run(ctx context.Context) error {
	cfg, err := r.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	w, err := NewWatcher(r.Root, NewIgnore(r.Root, cfg))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.Root, err)
	}
	defer w.Close()

	var deb *Debouncer
	deb = NewDebouncer(cfg.WatchDelay, func() {
		next, err := r.Load()
		if err != nil {
			r.logError(fmt.Sprintf("Skipping export, config could not be loaded: %v", err))
			return
		}
		w.SetIgnore(NewIgnore(w.Root(), next))
		deb.SetDelay(next.WatchDelay)

		if !next.AutoExportOnSave {
			r.logDebug("Auto-export disabled, change ignored")
			return
		}

		metrics.RecordWatchTrigger()
		r.Export(ctx, next)
	})
	defer deb.Stop()

	r.logInfo(fmt.Sprintf("Watching %s for changes", w.Root()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-w.Events():
			r.logTrace(fmt.Sprintf("%s %s", ev.Op, ev.RelPath))
			deb.Trigger()
		case err := <-w.Errors():
			r.logWarn(fmt.Sprintf("Watcher error: %v", err))
		}
	}
}

func (r *Runner) logTrace(msg string) {
	if r.Logger != nil {
		r.Logger.LogTrace(msg)
	}
}

func (r *Runner) logDebug(msg string) {
	if r.Logger != nil {
		r.Logger.LogDebug(msg)
	}
}

func (r *Runner) logInfo(msg string) {
	if r.Logger != nil {
		r.Logger.LogInfo(msg)
	}
}

func (r *Runner) logWarn(msg string) {
	if r.Logger != nil {
		r.Logger.LogWarn(msg)
	}
}

func (r *Runner) logError(msg string) {
	if r.Logger != nil {
		r.Logger.LogError(msg)
	}
}
