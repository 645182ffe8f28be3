package guard

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	ihdrs "github.com/ihdrs/ihdrs-client-go"
)

// fakeAuthority scripts the session answers the guard consults.
type fakeAuthority struct {
	loggedIn    bool
	roles       map[string]bool
	validateErr error

	validateCalls int
	notices       []string
	metrics       *ihdrs.Metrics
}

func newFakeAuthority() *fakeAuthority {
	return &fakeAuthority{
		roles:   map[string]bool{},
		metrics: ihdrs.NewMetrics(ihdrs.MetricsConfig{Enabled: true}),
	}
}

func (f *fakeAuthority) IsLoggedIn() bool          { return f.loggedIn }
func (f *fakeAuthority) HasRole(role string) bool  { return f.loggedIn && f.roles[role] }
func (f *fakeAuthority) Metrics() *ihdrs.Metrics   { return f.metrics }
func (f *fakeAuthority) ValidateSession(context.Context) error {
	f.validateCalls++
	if f.validateErr != nil {
		// Real validation failure clears the session before returning.
		f.loggedIn = false
	}
	return f.validateErr
}

func (f *fakeAuthority) Notify(_ context.Context, _ ihdrs.NoticeLevel, source, message string) {
	f.notices = append(f.notices, source+": "+message)
}

func routesConfig() ihdrs.RouteConfig {
	return ihdrs.DefaultConfig().Routes
}

func testTable() *Table {
	return NewTable([]Route{
		{Path: "/login", Public: true, Entry: true},
		{Path: "/register", Public: true, Entry: true},
		{Path: "/", Public: true},
		{Path: "/dashboard"},
		{Path: "/history"},
		{Path: "/admin/", Roles: []string{"ADMIN"}},
	})
}

func TestPublicRouteAllowedLoggedOut(t *testing.T) {
	auth := newFakeAuthority()
	eval := NewEvaluator(auth, testTable(), routesConfig())

	decision := eval.Evaluate(context.Background(), "/")
	if decision.Action != Allow {
		t.Fatalf("decision = %+v, want allow", decision)
	}
	if auth.validateCalls != 0 {
		t.Fatal("public route triggered validation")
	}
}

func TestEntryRouteBouncesLoggedInUser(t *testing.T) {
	auth := newFakeAuthority()
	auth.loggedIn = true
	eval := NewEvaluator(auth, testTable(), routesConfig())

	decision := eval.Evaluate(context.Background(), "/login")
	if decision.Action != Redirect || decision.Target != "/dashboard" {
		t.Fatalf("decision = %+v, want redirect to default landing", decision)
	}
	if decision.Reason != "already-logged-in" {
		t.Fatalf("reason = %q", decision.Reason)
	}
}

func TestProtectedRouteRedirectsWithResume(t *testing.T) {
	auth := newFakeAuthority()
	eval := NewEvaluator(auth, testTable(), routesConfig())

	decision := eval.Evaluate(context.Background(), "/history?page=2")
	if decision.Action != Redirect {
		t.Fatalf("decision = %+v, want redirect", decision)
	}
	if !strings.HasPrefix(decision.Target, "/login?") {
		t.Fatalf("target = %q", decision.Target)
	}

	// The interrupted path must round-trip through the login query.
	u, err := url.Parse(decision.Target)
	if err != nil {
		t.Fatalf("parse target: %v", err)
	}
	if got := Resume(u.RawQuery, routesConfig()); got != "/history?page=2" {
		t.Fatalf("resume = %q, want original full path", got)
	}
}

func TestProtectedRouteValidatesEveryNavigation(t *testing.T) {
	auth := newFakeAuthority()
	auth.loggedIn = true
	eval := NewEvaluator(auth, testTable(), routesConfig())

	for i := 0; i < 3; i++ {
		if decision := eval.Evaluate(context.Background(), "/dashboard"); decision.Action != Allow {
			t.Fatalf("decision = %+v, want allow", decision)
		}
	}
	if auth.validateCalls != 3 {
		t.Fatalf("validate calls = %d, want one per navigation", auth.validateCalls)
	}
}

func TestValidationFailureRedirectsToLogin(t *testing.T) {
	auth := newFakeAuthority()
	auth.loggedIn = true
	auth.validateErr = errors.New("session rejected")
	eval := NewEvaluator(auth, testTable(), routesConfig())

	decision := eval.Evaluate(context.Background(), "/dashboard")
	if decision.Action != Redirect || decision.Reason != "session-invalid" {
		t.Fatalf("decision = %+v", decision)
	}
	if !strings.HasPrefix(decision.Target, "/login?") {
		t.Fatalf("target = %q", decision.Target)
	}
}

func TestRoleDeniedGoesToDefaultLandingNotLogin(t *testing.T) {
	auth := newFakeAuthority()
	auth.loggedIn = true
	auth.roles["USER"] = true
	eval := NewEvaluator(auth, testTable(), routesConfig())

	decision := eval.Evaluate(context.Background(), "/admin/users")
	if decision.Action != Redirect || decision.Target != "/dashboard" {
		t.Fatalf("decision = %+v, want redirect to default landing", decision)
	}
	if decision.Reason != "role-denied" {
		t.Fatalf("reason = %q", decision.Reason)
	}
	if len(auth.notices) == 0 {
		t.Fatal("role denial produced no notice")
	}
}

func TestRoleAllowed(t *testing.T) {
	auth := newFakeAuthority()
	auth.loggedIn = true
	auth.roles["ADMIN"] = true
	eval := NewEvaluator(auth, testTable(), routesConfig())

	if decision := eval.Evaluate(context.Background(), "/admin/users"); decision.Action != Allow {
		t.Fatalf("decision = %+v, want allow", decision)
	}
}

func TestUnknownRouteIsProtected(t *testing.T) {
	auth := newFakeAuthority()
	eval := NewEvaluator(auth, testTable(), routesConfig())

	decision := eval.Evaluate(context.Background(), "/not-registered")
	if decision.Action != Redirect || decision.Reason != "login-required" {
		t.Fatalf("decision = %+v, want login redirect", decision)
	}
}

func TestSkipValidateRoute(t *testing.T) {
	auth := newFakeAuthority()
	auth.loggedIn = true
	table := NewTable([]Route{{Path: "/settings", SkipValidate: true}})
	eval := NewEvaluator(auth, table, routesConfig())

	if decision := eval.Evaluate(context.Background(), "/settings"); decision.Action != Allow {
		t.Fatalf("decision = %+v, want allow", decision)
	}
	if auth.validateCalls != 0 {
		t.Fatal("SkipValidate route still validated")
	}
}

func TestResumeRejectsExternalTargets(t *testing.T) {
	routes := routesConfig()
	q := url.Values{}
	q.Set(routes.ResumeParam, "https://evil.example.com/phish")

	if got := Resume(q.Encode(), routes); got != "" {
		t.Fatalf("resume = %q, want empty for external target", got)
	}
}

func TestTablePrefixMatch(t *testing.T) {
	table := testTable()

	if r := table.Lookup("/admin/users/42"); len(r.Roles) == 0 {
		t.Fatal("prefix route not matched")
	}
	if r := table.Lookup("/dashboard"); r.Public {
		t.Fatal("exact route mismatch")
	}
	if r := table.Lookup("/"); !r.Public {
		t.Fatal("root route not matched exactly")
	}
}
