package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrison/projexport/internal/config"
	"github.com/harrison/projexport/internal/exporter"
	"github.com/harrison/projexport/internal/history"
	"github.com/harrison/projexport/internal/logger"
	"github.com/harrison/projexport/internal/metrics"
	"github.com/harrison/projexport/internal/notify"
	"github.com/harrison/projexport/internal/publish"
)

// addConfigFlags registers the flags shared by export and watch.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: <dir>/.projexport.yaml)")
	cmd.Flags().String("format", "", "Output format: txt, md or both")
	cmd.Flags().Int64("max-file-size", 0, "Largest file (bytes) whose content is embedded")
	cmd.Flags().Bool("include-hidden", false, "Include dot files and dot directories")
	cmd.Flags().StringArray("exclude", nil, "Exclude pattern (repeatable, added to configured patterns)")
	cmd.Flags().String("output-name", "", "Report file name template ({workspaceName} is replaced)")
	cmd.Flags().String("language", "", "Message language: en or pt-BR")
	cmd.Flags().String("notify", "", "Notification level: silent, minimal or all")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn or error")
	cmd.Flags().String("log-dir", "", "Directory for JSON run logs")
	cmd.Flags().Int("concurrency", 0, "Traversal and probe workers (0 = number of CPUs)")
	cmd.Flags().Bool("verbose", false, "Print log messages to stderr")
}

// overridesFromFlags collects the flags that were set explicitly.
func overridesFromFlags(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()

	stringFlags := map[string]**string{
		"format":       &o.OutputFormat,
		"output-name":  &o.OutputFileName,
		"language":     &o.Language,
		"notify":       &o.NotificationLevel,
		"log-level":    &o.LogLevel,
		"log-dir":      &o.LogDir,
		"metrics-addr": &o.MetricsAddr,
	}
	for name, dst := range stringFlags {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			v, _ := flags.GetString(name)
			*dst = &v
		}
	}

	if flags.Changed("max-file-size") {
		v, _ := flags.GetInt64("max-file-size")
		o.MaxFileSize = &v
	}
	if flags.Changed("include-hidden") {
		v, _ := flags.GetBool("include-hidden")
		o.IncludeHidden = &v
	}
	if flags.Changed("concurrency") {
		v, _ := flags.GetInt("concurrency")
		o.Concurrency = &v
	}
	if flags.Lookup("delay") != nil && flags.Changed("delay") {
		v, _ := flags.GetDuration("delay")
		o.WatchDelay = &v
	}
	if flags.Changed("exclude") {
		o.ExcludePatterns, _ = flags.GetStringArray("exclude")
	}

	return o
}

// configLoader returns a function loading a fresh, validated configuration
// snapshot for root: file (explicit or searched in root), then flags.
func configLoader(cmd *cobra.Command, root string) func() (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	overrides := overridesFromFlags(cmd)

	return func() (*config.Config, error) {
		var cfg *config.Config
		var err error

		if configPath != "" {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg, err = config.LoadConfigFromDir(root)
			if err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}

		cfg.MergeWithFlags(overrides)

		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}
}

// rootArg returns the absolute project directory named by args (default ".").
func rootArg(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve project directory: %w", err)
	}
	return abs, nil
}

// session holds the collaborators built for one command invocation.
type session struct {
	log      *logger.MultiLogger
	notifier *notify.Notifier
	exporter *exporter.Exporter
	closers  []func() error
}

func (s *session) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// newSession wires loggers, the notifier and the exporter for cfg. Optional
// collaborators (history, publishing) are attached when configured; failing
// to set them up is reported and the export continues without them.
func newSession(ctx context.Context, cmd *cobra.Command, root string, cfg *config.Config) (*session, error) {
	s := &session{}

	var sinks []logger.Sink
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		sinks = append(sinks, logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel))
	}
	if cfg.LogDir != "" {
		fl, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel,
			zap.String("command", cmd.Name()),
			zap.String("root", root),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create run log: %w", err)
		}
		sinks = append(sinks, fl)
		s.closers = append(s.closers, fl.Close)
	}
	s.log = logger.NewMultiLogger(sinks...)

	s.notifier = notify.New(
		cmd.OutOrStdout(),
		notify.ParseLevel(cfg.NotificationLevel),
		notify.NewLocalizer(cfg.Language),
		s.log,
	)

	opts := []exporter.Option{
		exporter.WithTool("projexport", Version),
		exporter.WithMetrics(metrics.Recorder{}),
	}

	if cfg.History.Enabled {
		store, err := openHistory(cfg)
		if err != nil {
			s.notifier.Warning(fmt.Sprintf("Run history disabled: %v", err))
		} else {
			opts = append(opts, exporter.WithRecorder(store))
			s.closers = append(s.closers, store.Close)
		}
	}

	if cfg.Publish.S3.Enabled() {
		pub, err := publish.NewS3Publisher(ctx, cfg.Publish.S3)
		if err != nil {
			s.notifier.Warning(fmt.Sprintf("Publishing disabled: %v", err))
		} else {
			opts = append(opts, exporter.WithPublisher(pub))
		}
	}

	s.exporter = exporter.New(s.notifier, s.log, opts...)
	return s, nil
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	dbPath, err := cfg.HistoryDBPath()
	if err != nil {
		return nil, err
	}
	return history.NewStore(dbPath)
}

var diagnosticTitles = map[exporter.DiagnosticKind]string{
	exporter.DiagPattern: "Some exclude patterns were ignored",
	exporter.DiagSubtree: "Some directories could not be read",
	exporter.DiagRead:    "Some files could not be read and were listed without content",
	exporter.DiagDigest:  "Some files could not be hashed",
	exporter.DiagCleanup: "Previous reports could not be removed",
	exporter.DiagWrite:   "Some reports could not be written",
	exporter.DiagPublish: "Reports could not be published",
	exporter.DiagHistory: "The run could not be recorded",
}

var diagnosticSuggestions = map[exporter.DiagnosticKind]string{
	exporter.DiagPattern: "Check exclude_patterns in the project configuration",
	exporter.DiagSubtree: "Check directory permissions or exclude these paths",
	exporter.DiagCleanup: "Remove the listed files manually",
	exporter.DiagPublish: "Check publish.s3 settings and credentials",
}

// showDiagnostics prints one warning block per diagnostic kind, in kind name order.
func showDiagnostics(n *notify.Notifier, res *exporter.Result) {
	kinds := make([]string, 0, len(diagnosticTitles))
	for k := range diagnosticTitles {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	for _, k := range kinds {
		kind := exporter.DiagnosticKind(k)
		diags := res.DiagnosticsOf(kind)
		if len(diags) == 0 {
			continue
		}

		entries := make([]string, 0, len(diags))
		for _, d := range diags {
			entry := d.Message
			if d.Path != "" && kind != exporter.DiagPattern {
				entry = d.Path
			}
			entries = append(entries, entry)
		}

		n.ShowWarning(notify.Warning{
			Title:      diagnosticTitles[kind],
			Files:      entries,
			Suggestion: diagnosticSuggestions[kind],
		})
	}
}
