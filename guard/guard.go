package guard

import (
	"context"
	"net/url"
	"sort"
	"strings"

	ihdrs "github.com/ihdrs/ihdrs-client-go"
)

// Route describes one navigable destination's access policy.
type Route struct {
	// Path is the route path, e.g. "/history". Matching is exact first,
	// then longest registered prefix.
	Path string
	// Public routes never require a session.
	Public bool
	// Entry marks the login and register pages. A logged-in user navigating
	// to an entry route is bounced to the default landing instead.
	Entry bool
	// Roles, when non-empty, lists the roles of which at least one must be
	// held. Checked only after the session is validated.
	Roles []string
	// SkipValidate suppresses the backend round-trip for this route. The
	// session must still exist.
	SkipValidate bool
}

// Table is an immutable route policy lookup. Unregistered paths are treated
// as protected with no role requirement, so forgetting to register a route
// can never widen access.
type Table struct {
	exact    map[string]Route
	prefixes []Route // sorted by path length, longest first
}

// NewTable builds a lookup from the route list. A route whose path ends in
// "/" matches as a prefix; all others match exactly.
func NewTable(routes []Route) *Table {
	t := &Table{exact: make(map[string]Route, len(routes))}
	for _, r := range routes {
		if strings.HasSuffix(r.Path, "/") && r.Path != "/" {
			t.prefixes = append(t.prefixes, r)
			continue
		}
		t.exact[r.Path] = r
	}
	sort.Slice(t.prefixes, func(i, j int) bool {
		return len(t.prefixes[i].Path) > len(t.prefixes[j].Path)
	})
	return t
}

// Lookup resolves the policy for a path.
func (t *Table) Lookup(path string) Route {
	if r, ok := t.exact[path]; ok {
		return r
	}
	for _, r := range t.prefixes {
		if strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	// Unknown routes are protected.
	return Route{Path: path}
}

// Action says what the host navigation layer should do.
type Action uint8

const (
	// Allow lets the navigation proceed.
	Allow Action = iota
	// Redirect sends the user to Decision.Target instead.
	Redirect
)

// Decision is the guard's verdict for one navigation attempt.
type Decision struct {
	Action Action
	// Target is the redirect destination, including any resume query.
	Target string
	// Reason is a short machine-readable cause: "", "login-required",
	// "session-invalid", "role-denied", "already-logged-in".
	Reason string
}

// Authority is the session-side surface the guard consults. *ihdrs.Manager
// satisfies it.
type Authority interface {
	IsLoggedIn() bool
	HasRole(role string) bool
	ValidateSession(ctx context.Context) error
	Notify(ctx context.Context, level ihdrs.NoticeLevel, source, message string)
	Metrics() *ihdrs.Metrics
}

// Evaluator answers "may this navigation proceed" for the host app's router.
// It never navigates; it returns a Decision and the host's thin adapter
// applies it.
type Evaluator struct {
	auth   Authority
	table  *Table
	routes ihdrs.RouteConfig
}

// NewEvaluator wires a guard to a session authority and a route table. The
// route config supplies the login route, default landing, and resume
// parameter name.
func NewEvaluator(auth Authority, table *Table, routes ihdrs.RouteConfig) *Evaluator {
	return &Evaluator{auth: auth, table: table, routes: routes}
}

// Evaluate decides one navigation to fullPath (path plus optional query).
//
// Protected navigations re-validate the session against the backend on every
// attempt; any validation failure has already cleared the session by the
// time the redirect is returned.
func (e *Evaluator) Evaluate(ctx context.Context, fullPath string) Decision {
	path := fullPath
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	route := e.table.Lookup(path)
	loggedIn := e.auth.IsLoggedIn()

	if route.Public {
		if route.Entry && loggedIn {
			e.auth.Metrics().Inc(ihdrs.MetricGuardRedirectDefault)
			return Decision{
				Action: Redirect,
				Target: e.routes.DefaultLanding,
				Reason: "already-logged-in",
			}
		}
		e.auth.Metrics().Inc(ihdrs.MetricGuardAllow)
		return Decision{Action: Allow}
	}

	if !loggedIn {
		e.auth.Metrics().Inc(ihdrs.MetricGuardRedirectLogin)
		return Decision{
			Action: Redirect,
			Target: e.loginWithResume(fullPath),
			Reason: "login-required",
		}
	}

	if !route.SkipValidate {
		if err := e.auth.ValidateSession(ctx); err != nil {
			e.auth.Metrics().Inc(ihdrs.MetricGuardRedirectLogin)
			return Decision{
				Action: Redirect,
				Target: e.loginWithResume(fullPath),
				Reason: "session-invalid",
			}
		}
	}

	if len(route.Roles) > 0 && !e.anyRole(route.Roles) {
		e.auth.Notify(ctx, ihdrs.NoticeError, "guard", "you do not have access to that page")
		e.auth.Metrics().Inc(ihdrs.MetricGuardRedirectDefault)
		return Decision{
			Action: Redirect,
			Target: e.routes.DefaultLanding,
			Reason: "role-denied",
		}
	}

	e.auth.Metrics().Inc(ihdrs.MetricGuardAllow)
	return Decision{Action: Allow}
}

func (e *Evaluator) anyRole(roles []string) bool {
	for _, role := range roles {
		if e.auth.HasRole(role) {
			return true
		}
	}
	return false
}

// loginWithResume builds the login redirect carrying the interrupted path,
// so a successful login can land the user back where they were headed.
func (e *Evaluator) loginWithResume(fullPath string) string {
	if fullPath == "" || fullPath == e.routes.Login {
		return e.routes.Login
	}
	q := url.Values{}
	q.Set(e.routes.ResumeParam, fullPath)
	return e.routes.Login + "?" + q.Encode()
}

// Resume extracts the interrupted path from a login page query, or "" when
// none was carried.
func Resume(rawQuery string, routes ihdrs.RouteConfig) string {
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	resume := q.Get(routes.ResumeParam)
	if !strings.HasPrefix(resume, "/") {
		// Only same-app absolute paths may be resumed.
		return ""
	}
	return resume
}
