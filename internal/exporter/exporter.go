// Package exporter runs one export of a project directory: it reclaims stale
// reports, builds and probes the tree, renders the requested formats and
// writes them, then hands the result to the optional history and publishing
// collaborators.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/projexport/internal/config"
	"github.com/harrison/projexport/internal/fileutil"
	"github.com/harrison/projexport/internal/history"
	"github.com/harrison/projexport/internal/logger"
	"github.com/harrison/projexport/internal/metrics"
	"github.com/harrison/projexport/internal/notify"
	"github.com/harrison/projexport/internal/output"
	"github.com/harrison/projexport/internal/pattern"
	"github.com/harrison/projexport/internal/probe"
	"github.com/harrison/projexport/internal/report"
)

// Logger receives progress messages for a run.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Notifier shows localized user-facing messages.
type Notifier interface {
	InfoKey(key string, args ...string)
	SuccessKey(key string, args ...string)
	WarningKey(key string, args ...string)
	ErrorKey(key string, args ...string)
}

// Recorder stores a finished run.
type Recorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// Publisher copies written reports to a remote location and returns where
// each one ended up.
type Publisher interface {
	Publish(ctx context.Context, project string, files []string) ([]string, error)
}

// Metrics observes runs.
type Metrics interface {
	RecordRun(status string, duration time.Duration)
	RecordFiles(embedded, listed, excluded int)
	RecordBytesWritten(format string, n int)
	RecordDiagnostic(kind string)
}

// DiagnosticKind classifies a non-fatal problem.
type DiagnosticKind string

const (
	DiagPattern DiagnosticKind = "pattern"
	DiagSubtree DiagnosticKind = "subtree"
	DiagRead    DiagnosticKind = "read"
	DiagDigest  DiagnosticKind = "digest"
	DiagCleanup DiagnosticKind = "cleanup"
	DiagWrite   DiagnosticKind = "write"
	DiagPublish DiagnosticKind = "publish"
	DiagHistory DiagnosticKind = "history"
)

// Diagnostic is a problem the run recovered from.
type Diagnostic struct {
	Kind    DiagnosticKind
	Path    string // Root-relative or absolute path involved (may be empty)
	Message string
}

// Result describes a completed run.
type Result struct {
	RunID       string
	Root        string
	Files       []string // Report file names written under Root, txt first
	Published   []string // Remote locations of the reports (publishing enabled only)
	Diagnostics []Diagnostic
	Stats       report.Stats
	Embedded    int // Files whose content was embedded
	Listed      int // Files listed without content
	Excluded    int // Entries skipped by the exclusion rules
	Duration    time.Duration
}

// Paths returns the absolute paths of the written reports.
func (r *Result) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, name := range r.Files {
		paths[i] = filepath.Join(r.Root, name)
	}
	return paths
}

// DiagnosticsOf returns the diagnostics of the given kind.
func (r *Result) DiagnosticsOf(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

type options struct {
	recorder  Recorder
	publisher Publisher
	metrics   Metrics
	now       func() time.Time
	location  *time.Location
	tool      report.ToolInfo
}

// Option configures an Exporter.
type Option func(*options)

// WithRecorder stores every run that reached the tree stage.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithPublisher uploads written reports after each successful run.
func WithPublisher(p Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

// WithMetrics records run metrics.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithClock replaces time.Now for the generated timestamp and durations.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLocation sets the zone used for report timestamps (default time.Local).
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// WithTool sets the tool name and version written in report headers.
func WithTool(name, version string) Option {
	return func(o *options) {
		o.tool = report.ToolInfo{Name: name, Version: version}
	}
}

// Exporter runs exports. It holds no per-run state and may be reused; runs
// against the same root must be serialized by the caller.
type Exporter struct {
	notifier Notifier
	logger   Logger
	opts     options
}

// New creates an Exporter. log may be nil.
func New(notifier Notifier, log Logger, opts ...Option) *Exporter {
	if notifier == nil {
		panic("notifier cannot be nil")
	}

	o := options{
		now:  time.Now,
		tool: report.ToolInfo{Name: "projexport", Version: "dev"},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Exporter{
		notifier: notifier,
		logger:   log,
		opts:     o,
	}
}

// run collects the state of a single export.
type run struct {
	ctx     context.Context
	cfg     *config.Config
	started time.Time
	result  *Result
}

func (r *run) diagnose(kind DiagnosticKind, path, message string) {
	r.result.Diagnostics = append(r.result.Diagnostics, Diagnostic{Kind: kind, Path: path, Message: message})
}

// Run exports root with the configuration snapshot cfg. It returns a
// *NoRootError when root is unusable and an *ExportError when no report could
// be written; every other problem is reported in Result.Diagnostics.
func (e *Exporter) Run(ctx context.Context, root string, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	absRoot, err := resolveRoot(root)
	if err != nil {
		e.notifier.ErrorKey(notify.KeyNoWorkspace)
		e.logError(err.Error())
		return nil, err
	}

	r := &run{
		ctx:     ctx,
		cfg:     cfg,
		started: e.opts.now(),
		result: &Result{
			RunID: uuid.NewString(),
			Root:  absRoot,
		},
	}

	e.logInfo(fmt.Sprintf("Starting export %s of %s (format %s)", r.result.RunID, absRoot, cfg.OutputFormat))
	e.notifier.InfoKey(notify.KeyExportStarting)

	extensions := cfg.OutputExtensions()
	mgr := output.NewManager(absRoot, cfg.OutputFileName, extensions)

	e.reclaim(r, mgr)

	doc, err := e.collect(r, mgr)
	if err != nil {
		return e.fail(r, extensions, err)
	}

	var writeErrs []error
	for _, ext := range extensions {
		data := render(doc, ext)
		name, err := mgr.Write(ctx, ext, data)
		if err != nil {
			writeErrs = append(writeErrs, err)
			r.diagnose(DiagWrite, mgr.Path(ext), err.Error())
			e.logError(err.Error())
			continue
		}
		r.result.Files = append(r.result.Files, name)
		e.logDebug(fmt.Sprintf("Wrote %s (%d bytes)", name, len(data)))
		if e.opts.metrics != nil {
			e.opts.metrics.RecordBytesWritten(ext, len(data))
		}
	}

	if len(r.result.Files) == 0 {
		return e.fail(r, extensions, &ExportError{Root: absRoot, Errors: writeErrs})
	}

	switch len(r.result.Files) {
	case 1:
		e.notifier.SuccessKey(notify.KeyExportSuccess, r.result.Files[0])
	default:
		e.notifier.SuccessKey(notify.KeyExportSuccessMultiple, r.result.Files[0], r.result.Files[1])
	}
	for _, werr := range writeErrs {
		e.notifier.ErrorKey(notify.KeyExportError, werr.Error())
	}

	e.publish(r)
	e.finish(r, extensions, nil)

	return r.result, nil
}

func resolveRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", &NoRootError{}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &NoRootError{Root: root, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &NoRootError{Root: abs, Err: err}
	}
	if !info.IsDir() {
		return "", &NoRootError{Root: abs}
	}
	return abs, nil
}

// reclaim deletes reports left by a previous run. Failures never block the
// write that follows.
func (e *Exporter) reclaim(r *run, mgr *output.Manager) {
	for _, ext := range mgr.Extensions() {
		removed, err := mgr.ReclaimPrevious(ext)
		if err != nil {
			e.notifier.WarningKey(notify.KeyCleanupError)
			e.logWarn(err.Error())
			r.diagnose(DiagCleanup, mgr.Path(ext), err.Error())
			continue
		}
		if removed {
			e.notifier.InfoKey(notify.KeyCleanedPrevious, mgr.FileName(ext))
		}
	}
}

// collect builds, probes and summarizes the tree into a report document.
func (e *Exporter) collect(r *run, mgr *output.Manager) (*report.Document, error) {
	cfg := r.cfg

	patterns := pattern.NewSet(cfg.ExcludePatterns)
	for _, w := range patterns.Warnings() {
		e.logWarn(fmt.Sprintf("Ignoring exclude pattern #%d: %s", w.Index+1, w.Message()))
		r.diagnose(DiagPattern, w.Pattern, w.Message())
	}
	e.logDebug(fmt.Sprintf("Compiled %d exclude pattern(s)", patterns.Len()))

	tree, err := fileutil.BuildTree(r.result.Root, fileutil.TreeOptions{
		IncludeHidden:  cfg.IncludeHiddenFiles,
		Patterns:       patterns,
		IsSelfOutput:   mgr.IsSelfOutput,
		IsLikelyOutput: output.IsLikelyOutput,
		Concurrency:    cfg.Concurrency,
	})
	if err != nil {
		return nil, err
	}
	for _, terr := range tree.Errors {
		var sae *fileutil.SubtreeAccessError
		path := ""
		if errors.As(terr, &sae) {
			path = sae.Path
		}
		e.logWarn(terr.Error())
		r.diagnose(DiagSubtree, path, terr.Error())
	}
	for _, ex := range tree.Excluded {
		e.logTrace(fmt.Sprintf("Excluded %s (%s)", ex.RelPath, ex.Reason))
	}

	files := tree.Files()
	e.logDebug(fmt.Sprintf("Tree built: %d files in %d directories, %d excluded entries",
		len(files), len(tree.Directories()), len(tree.Excluded)))

	probed, err := probe.ProbeAll(r.ctx, files, cfg.MaxFileSize, cfg.Concurrency)
	if err != nil {
		return nil, err
	}
	for i := range probed {
		m := &probed[i]
		if m.ReadErr != nil {
			e.logWarn(m.ReadErr.Error())
			r.diagnose(DiagRead, m.RelPath, m.ReadErr.Error())
		}
		if m.DigestErr != nil {
			e.logWarn(m.DigestErr.Error())
			r.diagnose(DiagDigest, m.RelPath, m.DigestErr.Error())
		}
		if m.Embedded() {
			r.result.Embedded++
		} else {
			r.result.Listed++
		}
	}
	r.result.Excluded = len(tree.Excluded)

	stats := report.ComputeStats(tree.Nodes)
	r.result.Stats = stats

	return &report.Document{
		ProjectName: output.WorkspaceName(r.result.Root),
		GeneratedAt: r.started,
		Location:    e.opts.location,
		Tool:        e.opts.tool,
		Settings: report.Settings{
			Language:          cfg.Language,
			MaxFileSize:       cfg.MaxFileSize,
			IncludeHidden:     cfg.IncludeHiddenFiles,
			OutputFormat:      cfg.OutputFormat,
			NotificationLevel: cfg.NotificationLevel,
			FileNameTemplate:  cfg.OutputFileName,
		},
		Nodes: tree.Nodes,
		Stats: stats,
		Files: probed,
	}, nil
}

func render(doc *report.Document, ext string) []byte {
	if ext == output.ExtMarkdown {
		return report.RenderMarkdown(doc)
	}
	return report.RenderText(doc)
}

// publish uploads the written reports. Failures are warnings.
func (e *Exporter) publish(r *run) {
	if e.opts.publisher == nil {
		return
	}

	locations, err := e.opts.publisher.Publish(r.ctx, output.WorkspaceName(r.result.Root), r.result.Paths())
	if err != nil {
		e.notifier.WarningKey(notify.KeyExportError, err.Error())
		e.logWarn(fmt.Sprintf("Publishing failed: %v", err))
		r.diagnose(DiagPublish, "", err.Error())
		return
	}
	r.result.Published = locations
	for _, loc := range locations {
		e.logInfo(fmt.Sprintf("Published %s", loc))
	}
}

// fail reports a run that wrote nothing.
func (e *Exporter) fail(r *run, extensions []string, err error) (*Result, error) {
	e.notifier.ErrorKey(notify.KeyExportError, err.Error())
	e.logError(fmt.Sprintf("Export %s failed: %v", r.result.RunID, err))
	r.result.Files = nil
	e.finish(r, extensions, err)
	return r.result, err
}

// finish records the run in history and metrics.
func (e *Exporter) finish(r *run, extensions []string, runErr error) {
	r.result.Duration = e.opts.now().Sub(r.started)

	if e.opts.recorder != nil {
		entry := &history.Run{
			RunID:         r.result.RunID,
			Root:          r.result.Root,
			StartedAt:     r.started,
			Duration:      r.result.Duration,
			Formats:       extensions,
			Files:         r.result.Files,
			FileCount:     r.result.Stats.TotalFiles,
			EmbeddedCount: r.result.Embedded,
			ExcludedCount: r.result.Excluded,
			Diagnostics:   len(r.result.Diagnostics),
			Published:     r.result.Published,
		}
		if runErr != nil {
			entry.Error = runErr.Error()
		}
		if err := e.opts.recorder.Record(r.ctx, entry); err != nil {
			e.logWarn(fmt.Sprintf("Failed to record run history: %v", err))
			r.diagnose(DiagHistory, "", err.Error())
		}
	}

	if m := e.opts.metrics; m != nil {
		status := metrics.StatusSuccess
		switch {
		case len(r.result.Files) == 0:
			status = metrics.StatusFailed
		case len(r.result.Files) < len(extensions):
			status = metrics.StatusPartial
		}
		m.RecordRun(status, r.result.Duration)
		m.RecordFiles(r.result.Embedded, r.result.Listed, r.result.Excluded)
		for _, d := range r.result.Diagnostics {
			m.RecordDiagnostic(string(d.Kind))
		}
	}

	e.logInfo(fmt.Sprintf("Export %s finished in %s: %d report(s), %d diagnostic(s)",
		r.result.RunID, logger.FormatDuration(r.result.Duration), len(r.result.Files), len(r.result.Diagnostics)))
}

func (e *Exporter) logTrace(msg string) {
	if e.logger != nil {
		e.logger.LogTrace(msg)
	}
}

func (e *Exporter) logDebug(msg string) {
	if e.logger != nil {
		e.logger.LogDebug(msg)
	}
}

func (e *Exporter) logInfo(msg string) {
	if e.logger != nil {
		e.logger.LogInfo(msg)
	}
}

func (e *Exporter) logWarn(msg string) {
	if e.logger != nil {
		e.logger.LogWarn(msg)
	}
}

func (e *Exporter) logError(msg string) {
	if e.logger != nil {
		e.logger.LogError(msg)
	}
}
