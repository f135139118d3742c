package observe

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

// collect gathers all metric data from the reader.
func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

// findMetric searches collected metrics for one with the given name.
func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestRecordToolCall(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordToolCall(context.Background(), "get_sites", "ok", 0.123)
	m.RecordToolCall(context.Background(), "get_sites", "error", 0.5)

	rm := collect(t, reader)

	calls, ok := findMetric(rm, "bingmaster.tool.calls")
	if !ok {
		t.Fatal("tool.calls metric not found")
	}
	sum, ok := calls.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("tool.calls data is %T, want Sum[int64]", calls.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 2 {
		t.Errorf("total tool calls = %d, want 2", total)
	}

	if _, ok := findMetric(rm, "bingmaster.tool.duration"); !ok {
		t.Error("tool.duration metric not found")
	}
}

func TestRecordAPIRequest(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordAPIRequest(context.Background(), "GetUserSites", "200", 0.05)

	rm := collect(t, reader)
	reqs, ok := findMetric(rm, "bingmaster.api.requests")
	if !ok {
		t.Fatal("api.requests metric not found")
	}
	sum := reqs.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 1 {
		t.Errorf("api.requests datapoints = %+v, want one with value 1", sum.DataPoints)
	}
}

func TestRecordAPIError(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordAPIError(context.Background(), "SubmitUrl", "network")

	rm := collect(t, reader)
	if _, ok := findMetric(rm, "bingmaster.api.errors"); !ok {
		t.Error("api.errors metric not found")
	}
}

func TestDefaultMetrics_SamePointer(t *testing.T) {
	a := DefaultMetrics()
	b := DefaultMetrics()
	if a != b {
		t.Error("DefaultMetrics must return the same instance")
	}
}
