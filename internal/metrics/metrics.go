// Package metrics provides Prometheus metrics for export runs.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run statuses
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projexport_runs_total",
			Help: "Total number of export runs",
		},
		[]string{"status"},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "projexport_run_duration_seconds",
			Help:    "Export run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	filesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projexport_files_total",
			Help: "Files seen by export runs",
		},
		[]string{"disposition"},
	)

	bytesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projexport_report_bytes_written_total",
			Help: "Total bytes of report files written",
		},
		[]string{"format"},
	)

	diagnosticsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projexport_diagnostics_total",
			Help: "Non-fatal problems reported by export runs",
		},
		[]string{"kind"},
	)

	watchTriggers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "projexport_watch_triggers_total",
			Help: "Exports triggered by file changes",
		},
	)

	s3OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "projexport_s3_operation_duration_seconds",
			Help:    "S3 operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	s3OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projexport_s3_operations_total",
			Help: "Total S3 operations",
		},
		[]string{"operation", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is canceled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Recorder records export metrics into the default registry.
type Recorder struct{}

// RecordRun records a finished run.
func (Recorder) RecordRun(status string, duration time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.Observe(duration.Seconds())
}

// RecordFiles records how many files were embedded, listed without content,
// and excluded from the tree.
func (Recorder) RecordFiles(embedded, listed, excluded int) {
	filesTotal.WithLabelValues("embedded").Add(float64(embedded))
	filesTotal.WithLabelValues("listed").Add(float64(listed))
	filesTotal.WithLabelValues("excluded").Add(float64(excluded))
}

// RecordBytesWritten records the size of a written report.
func (Recorder) RecordBytesWritten(format string, n int) {
	bytesWritten.WithLabelValues(format).Add(float64(n))
}

// RecordDiagnostic records one non-fatal problem.
func (Recorder) RecordDiagnostic(kind string) {
	diagnosticsTotal.WithLabelValues(kind).Inc()
}

// RecordWatchTrigger records an export started by the watcher.
func RecordWatchTrigger() {
	watchTriggers.Inc()
}

// RecordS3Operation records an S3 operation.
func RecordS3Operation(operation string, duration time.Duration, success bool) {
	s3OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	status := "success"
	if !success {
		status = "error"
	}
	s3OperationsTotal.WithLabelValues(operation, status).Inc()
}
