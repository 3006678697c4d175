package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	grcAuth "github.com/MrEthical07/grcAuth"
)

type fakeSource struct {
	snapshot grcAuth.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() grcAuth.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                     { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: grcAuth.MetricsSnapshot{
			Counters: map[grcAuth.MetricID]uint64{},
		},
		dropped: 0,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCounters(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: grcAuth.MetricsSnapshot{
			Counters: map[grcAuth.MetricID]uint64{
				grcAuth.MetricLoginSuccess: 7,
				grcAuth.MetricOTPIssued:    4,
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	if !strings.Contains(out, "grcauth_login_success_total 7") {
		t.Fatalf("expected login_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "grcauth_otp_issued_total 4") {
		t.Fatalf("expected otp_issued counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "grcauth_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE grcauth_login_success_total counter") {
		t.Fatalf("expected TYPE comment in output, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: grcAuth.MetricsSnapshot{
			Counters: map[grcAuth.MetricID]uint64{grcAuth.MetricLoginSuccess: 1},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: grcAuth.MetricsSnapshot{
			Counters: map[grcAuth.MetricID]uint64{
				grcAuth.MetricLoginSuccess:   1000,
				grcAuth.MetricLoginFailure:   40,
				grcAuth.MetricRefreshSuccess: 800,
				grcAuth.MetricRefreshFailure: 10,
				grcAuth.MetricOTPIssued:      300,
				grcAuth.MetricOTPVerified:    290,
				grcAuth.MetricAccountCreated: 25,
			},
		},
		dropped: 0,
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
