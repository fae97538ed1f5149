package middleware

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/typedroute/pkg/router"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsMiddleware(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
		if err := renderHref(t, "/items/3", router.TriggerRequest, m.Middleware()); err != nil {
			t.Fatalf("render error: %v", err)
		}
		if got := metricCounterValue(t, m.rendersTotal.WithLabelValues("item", "request", "success")); got != 1 {
			t.Errorf("renders_total(success) = %v, want 1", got)
		}
		if got := metricCounterValue(t, m.rendersTotal.WithLabelValues("item", "request", "error")); got != 0 {
			t.Errorf("renders_total(error) = %v, want 0", got)
		}
		if got := metricHistogramCount(t, m.renderDuration.WithLabelValues("item")); got != 1 {
			t.Errorf("render_duration count = %d, want 1", got)
		}
	})

	t.Run("decode failure", func(t *testing.T) {
		m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
		if err := renderHref(t, "/items/abc", router.TriggerLocation, m.Middleware()); err == nil {
			t.Fatal("render of /items/abc should fail")
		}
		if got := metricCounterValue(t, m.rendersTotal.WithLabelValues("item", "location", "error")); got != 1 {
			t.Errorf("renders_total(error) = %v, want 1", got)
		}
		if got := metricCounterValue(t, m.decodeFailures.WithLabelValues("item", "E101")); got != 1 {
			t.Errorf("decode_failures_total(E101) = %v, want 1", got)
		}
	})
}

func TestMetricsSessions(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("app"))
	m.SessionStarted(nil)
	m.SessionStarted(nil)
	m.SessionEnded(nil)

	if got := metricGaugeValue(t, m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.sessionsTotal); got != 2 {
		t.Errorf("sessions_total = %v, want 2", got)
	}
}

func TestMetricsRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	Prometheus(WithRegistry(reg), WithNamespace("app"), WithConstLabels(prometheus.Labels{"svc": "web"}))
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	// Vectors without observations are not gathered.
	for _, want := range []string{"app_active_sessions", "app_sessions_total"} {
		if !names[want] {
			t.Errorf("metric %s not registered (got %v)", want, names)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("registering twice should panic")
		}
	}()
	NewMetrics(WithRegistry(reg), WithNamespace("app"), WithConstLabels(prometheus.Labels{"svc": "web"}))
}
