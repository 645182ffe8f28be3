package ihdrs

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledIsInert(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricLoginSuccess)
	m.Observe(MetricValidateLatency, time.Millisecond)

	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("disabled metrics recorded a value")
	}
	s := m.Snapshot()
	if len(s.Counters) != 0 || len(s.Histograms) != 0 {
		t.Fatalf("disabled snapshot = %+v", s)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Inc(MetricLoginSuccess)
	m.Observe(MetricValidateLatency, time.Second)
	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("nil metrics returned a value")
	}
	_ = m.Snapshot()
}

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricForcedLogout)

	if got := m.Value(MetricLoginSuccess); got != 2 {
		t.Fatalf("login success = %d, want 2", got)
	}
	s := m.Snapshot()
	if s.Counters[MetricLoginSuccess] != 2 || s.Counters[MetricForcedLogout] != 1 {
		t.Fatalf("snapshot = %+v", s.Counters)
	}
	if s.Counters[MetricLogout] != 0 {
		t.Fatal("untouched counter missing from snapshot")
	}
}

func TestMetricsLatencyBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	cases := []struct {
		d      time.Duration
		bucket int
	}{
		{3 * time.Millisecond, 0},
		{8 * time.Millisecond, 1},
		{20 * time.Millisecond, 2},
		{40 * time.Millisecond, 3},
		{90 * time.Millisecond, 4},
		{200 * time.Millisecond, 5},
		{400 * time.Millisecond, 6},
		{2 * time.Second, 7},
	}
	for _, tc := range cases {
		m.Observe(MetricValidateLatency, tc.d)
	}

	buckets := m.Snapshot().Histograms[MetricValidateLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("bucket count = %d", len(buckets))
	}
	for _, tc := range cases {
		if buckets[tc.bucket] == 0 {
			t.Fatalf("bucket %d empty for %v", tc.bucket, tc.d)
		}
	}
}

func TestMetricsLatencyDisabledByDefault(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Observe(MetricValidateLatency, time.Millisecond)

	if _, ok := m.Snapshot().Histograms[MetricValidateLatency]; ok {
		t.Fatal("histogram present without EnableLatencyHistograms")
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 16
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.Inc(MetricRequestStarted)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricRequestStarted); got != goroutines*perGoroutine {
		t.Fatalf("value = %d, want %d", got, goroutines*perGoroutine)
	}
}
