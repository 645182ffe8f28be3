package internaldefs

import (
	ihdrs "github.com/ihdrs/ihdrs-client-go"
)

// CounterDef binds a metric ID to its exported name and help text.
type CounterDef struct {
	ID   ihdrs.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram metric ID to its exported name and help text.
type HistogramDef struct {
	ID   ihdrs.MetricID
	Name string
	Help string
}

// CounterDefs is the canonical export list. Both exporters iterate it so the
// two backends always agree on names.
var CounterDefs = []CounterDef{
	{ID: ihdrs.MetricLoginSuccess, Name: "ihdrs_login_success_total", Help: "Successful logins."},
	{ID: ihdrs.MetricLoginFailure, Name: "ihdrs_login_failure_total", Help: "Failed login attempts."},
	{ID: ihdrs.MetricRegisterSuccess, Name: "ihdrs_register_success_total", Help: "Successful registrations."},
	{ID: ihdrs.MetricRegisterFailure, Name: "ihdrs_register_failure_total", Help: "Failed registration attempts."},
	{ID: ihdrs.MetricValidateSuccess, Name: "ihdrs_validate_success_total", Help: "Session validations confirmed by the backend."},
	{ID: ihdrs.MetricValidateFailure, Name: "ihdrs_validate_failure_total", Help: "Session validations that failed and forced a logout."},
	{ID: ihdrs.MetricValidateExpiredLocal, Name: "ihdrs_validate_expired_local_total", Help: "Validations failed by the local expiry check without a backend call."},
	{ID: ihdrs.MetricLogout, Name: "ihdrs_logout_total", Help: "User-initiated logouts."},
	{ID: ihdrs.MetricForcedLogout, Name: "ihdrs_forced_logout_total", Help: "Sessions cleared because the backend no longer accepted them."},
	{ID: ihdrs.MetricUnauthorizedResponse, Name: "ihdrs_unauthorized_response_total", Help: "401 responses observed by the pipeline, including redundant concurrent ones."},
	{ID: ihdrs.MetricRequestStarted, Name: "ihdrs_request_started_total", Help: "Pipeline requests issued."},
	{ID: ihdrs.MetricProfileUpdated, Name: "ihdrs_profile_updated_total", Help: "Profile refreshes and local profile updates committed."},
	{ID: ihdrs.MetricGuardAllow, Name: "ihdrs_guard_allow_total", Help: "Navigations the guard allowed."},
	{ID: ihdrs.MetricGuardRedirectLogin, Name: "ihdrs_guard_redirect_login_total", Help: "Navigations redirected to the login route."},
	{ID: ihdrs.MetricGuardRedirectDefault, Name: "ihdrs_guard_redirect_default_total", Help: "Navigations redirected to the default landing."},
}

// HistogramDefs lists exported histograms.
var HistogramDefs = []HistogramDef{
	{ID: ihdrs.MetricValidateLatency, Name: "ihdrs_validate_latency_seconds", Help: "Session validation round-trip latency."},
}

// HistogramBounds are the upper bucket bounds in seconds, Prometheus "le"
// label form. They must stay in lockstep with the core's bucket edges.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are the bound spellings usable in instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed width.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus histograms require.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
