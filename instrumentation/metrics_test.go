package instrumentation

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestInstrumentation(t *testing.T) (*Instrumentation, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	inst, err := New(Config{Enabled: true, MeterProvider: mp})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = inst.Shutdown(context.Background()) })

	return inst, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	return rm
}

func TestMetrics_Record(t *testing.T) {
	inst, reader := newTestInstrumentation(t)
	m := inst.Metrics()
	ctx := context.Background()

	m.RecordGrantParsed(ctx, "authorization_code")
	m.RecordGrantParsed(ctx, "authorization_code")
	m.RecordGrantRejected(ctx, "password", "invalid_request")
	m.RecordTokenIssued(ctx, "authorization_code")
	m.RecordHTTPRequest(ctx, "POST", "/token", 200, 12.5)
	m.RecordRateLimitExceeded(ctx, "ip")
	m.RecordAuditEvent(ctx, "grant_rejected")

	rm := collect(t, reader)

	tests := []struct {
		metric string
		want   int64
	}{
		{"oauth.grant.parsed", 2},
		{"oauth.grant.rejected", 1},
		{"oauth.token.issued", 1},
		{"oauth.http.requests.total", 1},
		{"oauth.ratelimit.exceeded", 1},
		{"oauth.audit.events", 1},
	}

	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			if got := findSum(rm, tt.metric); got != tt.want {
				t.Errorf("%s = %d, want %d", tt.metric, got, tt.want)
			}
		})
	}
}

func TestMetrics_GrantRejectedAttributes(t *testing.T) {
	inst, reader := newTestInstrumentation(t)
	inst.Metrics().RecordGrantRejected(context.Background(), "password", "unsupported_grant_type")

	rm := collect(t, reader)

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "oauth.grant.rejected" {
				continue
			}
			sum := m.Data.(metricdata.Sum[int64])
			for _, dp := range sum.DataPoints {
				grantType, _ := dp.Attributes.Value(attribute.Key(AttrGrantType))
				code, _ := dp.Attributes.Value(attribute.Key(AttrError))
				if grantType.AsString() == "password" && code.AsString() == "unsupported_grant_type" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("oauth.grant.rejected data point with grant type and error code not found")
	}
}

func TestMetrics_HTTPDuration(t *testing.T) {
	inst, reader := newTestInstrumentation(t)
	inst.Metrics().RecordHTTPRequest(context.Background(), "POST", "/token", 400, 3)

	rm := collect(t, reader)

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "oauth.http.request.duration" {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			if !ok {
				t.Fatalf("duration data type = %T, want Histogram[float64]", m.Data)
			}
			if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
				t.Errorf("duration data points = %+v, want one observation", hist.DataPoints)
			}
			return
		}
	}
	t.Error("oauth.http.request.duration not collected")
}

func TestMetrics_DisabledDoesNotPanic(t *testing.T) {
	inst, err := New(Config{Enabled: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	m := inst.Metrics()
	m.RecordGrantParsed(ctx, "refresh_token")
	m.RecordGrantRejected(ctx, "refresh_token", "invalid_request")
	m.RecordTokenIssued(ctx, "refresh_token")
	m.RecordHTTPRequest(ctx, "POST", "/token", 200, 1)
	m.RecordRateLimitExceeded(ctx, "ip")
	m.RecordAuditEvent(ctx, "token_issued")
}
