package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var r Recorder

	before := testutil.ToFloat64(runsTotal.WithLabelValues(StatusPartial))
	r.RecordRun(StatusPartial, 120*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(runsTotal.WithLabelValues(StatusPartial)))

	embedded := testutil.ToFloat64(filesTotal.WithLabelValues("embedded"))
	excluded := testutil.ToFloat64(filesTotal.WithLabelValues("excluded"))
	r.RecordFiles(5, 2, 3)
	assert.Equal(t, embedded+5, testutil.ToFloat64(filesTotal.WithLabelValues("embedded")))
	assert.Equal(t, excluded+3, testutil.ToFloat64(filesTotal.WithLabelValues("excluded")))

	written := testutil.ToFloat64(bytesWritten.WithLabelValues("md"))
	r.RecordBytesWritten("md", 2048)
	assert.Equal(t, written+2048, testutil.ToFloat64(bytesWritten.WithLabelValues("md")))

	diags := testutil.ToFloat64(diagnosticsTotal.WithLabelValues("read"))
	r.RecordDiagnostic("read")
	assert.Equal(t, diags+1, testutil.ToFloat64(diagnosticsTotal.WithLabelValues("read")))

	triggers := testutil.ToFloat64(watchTriggers)
	RecordWatchTrigger()
	assert.Equal(t, triggers+1, testutil.ToFloat64(watchTriggers))

	failures := testutil.ToFloat64(s3OperationsTotal.WithLabelValues("put_object", "error"))
	RecordS3Operation("put_object", time.Second, false)
	assert.Equal(t, failures+1, testutil.ToFloat64(s3OperationsTotal.WithLabelValues("put_object", "error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	Recorder{}.RecordRun(StatusSuccess, time.Millisecond)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "projexport_runs_total")
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return strings.Contains(string(body), "projexport_")
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeBadAddress(t *testing.T) {
	err := Serve(context.Background(), "not-an-address")
	assert.Error(t, err)
}
