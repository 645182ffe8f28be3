package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ihdrs "github.com/ihdrs/ihdrs-client-go"
)

type fakeSource struct {
	snapshot ihdrs.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() ihdrs.MetricsSnapshot { return f.snapshot }
func (f fakeSource) NoticesDropped() uint64                 { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: ihdrs.MetricsSnapshot{
			Counters:   map[ihdrs.MetricID]uint64{},
			Histograms: map[ihdrs.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderCounters(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: ihdrs.MetricsSnapshot{
			Counters: map[ihdrs.MetricID]uint64{
				ihdrs.MetricLoginSuccess: 5,
				ihdrs.MetricForcedLogout: 2,
			},
			Histograms: map[ihdrs.MetricID][]uint64{},
		},
		dropped: 3,
	})

	out := exp.Render()
	for _, want := range []string{
		"ihdrs_login_success_total 5",
		"ihdrs_forced_logout_total 2",
		"ihdrs_notices_dropped_total 3",
		"# TYPE ihdrs_login_success_total counter",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHistogramCumulative(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: ihdrs.MetricsSnapshot{
			Counters: map[ihdrs.MetricID]uint64{ihdrs.MetricValidateSuccess: 1},
			Histograms: map[ihdrs.MetricID][]uint64{
				ihdrs.MetricValidateLatency: {1, 2, 0, 0, 0, 0, 0, 1},
			},
		},
	})

	out := exp.Render()
	for _, want := range []string{
		`ihdrs_validate_latency_seconds_bucket{le="0.005"} 1`,
		`ihdrs_validate_latency_seconds_bucket{le="0.01"} 3`,
		`ihdrs_validate_latency_seconds_bucket{le="+Inf"} 4`,
		"ihdrs_validate_latency_seconds_count 4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: ihdrs.MetricsSnapshot{
			Counters:   map[ihdrs.MetricID]uint64{ihdrs.MetricLogout: 1},
			Histograms: map[ihdrs.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "ihdrs_logout_total 1") {
		t.Fatalf("body missing counter:\n%s", rec.Body.String())
	}
}
