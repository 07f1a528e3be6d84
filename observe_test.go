package searchapi

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserver_Nil(t *testing.T) {
	var o *observer
	o.observe("op", time.Now(), nil)
	o.dropped("op", 1, 2)
}

func TestObserver_MetricsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := prometheus.NewRegistry()

	o, err := newObserver(logger, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o.observe("client.query", time.Now(), nil)
	o.observe("client.query", time.Now(), errors.New("boom"))
	o.dropped("results.query", 1, 2)

	if v := testutil.ToFloat64(o.metrics.operations.WithLabelValues("client.query", "ok")); v != 1 {
		t.Errorf("ok = %v, want 1", v)
	}
	if v := testutil.ToFloat64(o.metrics.operations.WithLabelValues("client.query", "error")); v != 1 {
		t.Errorf("error = %v, want 1", v)
	}
	if v := testutil.ToFloat64(o.metrics.stale.WithLabelValues("results.query")); v != 1 {
		t.Errorf("stale = %v, want 1", v)
	}

	out := buf.String()
	for _, want := range []string{"operation completed", "operation failed", "stale response dropped"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestNewSDKMetrics_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	m2, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if m1.operations != m2.operations {
		t.Error("expected the already registered collector to be reused")
	}
}
