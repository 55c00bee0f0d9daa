// Package guard decides, per navigation, whether the current view may
// be shown. It is a two-state machine: while initializing (before the
// session has been reconciled) it only asks for a placeholder; once
// ready it redirects authenticated users away from the sign-in pages
// and unauthenticated users away from protected pages.
package guard

import (
	"net/url"
	"strings"
	"sync"

	"github.com/iliyamo/hotel-guest-client/internal/session"
)

// Route classes. Auth-only paths are matched exactly; protected paths
// by prefix, so /profile/settings is protected like /profile.
var (
	AuthRoutes      = []string{"/sign-in", "/sign-up"}
	ProtectedRoutes = []string{"/recent-orders", "/recent-bookings", "/profile"}
)

// Decision is the outcome of one check. Placeholder is set while the
// guard is still initializing; Redirect carries the target path when
// the guest must be moved, and is empty when the view may be shown.
type Decision struct {
	Placeholder bool
	Redirect    string
}

// Guard tracks the current location and re-evaluates it whenever the
// session changes. The check is idempotent: once the guest is on the
// redirect target, deciding again yields no further action.
type Guard struct {
	mu       sync.Mutex
	ready    bool
	location string
	sess     *session.Store
	onChange func(Decision)
}

// New builds a Guard over the session store. onChange, when non-nil,
// is invoked with a fresh decision every time the session state
// changes so the caller can act on redirects it did not ask for.
func New(sess *session.Store, onChange func(Decision)) *Guard {
	g := &Guard{sess: sess, onChange: onChange}
	sess.Subscribe(func(session.Session) {
		if g.onChange != nil {
			g.onChange(g.Recheck())
		}
	})
	return g
}

// Ready moves the guard out of its initializing state. Call it once,
// after session.InitializeAuth has run. Further calls are no-ops.
func (g *Guard) Ready() {
	g.mu.Lock()
	g.ready = true
	g.mu.Unlock()
}

// Navigate records path as the current location and decides for it.
func (g *Guard) Navigate(path string) Decision {
	g.mu.Lock()
	g.location = path
	g.mu.Unlock()
	return g.Recheck()
}

// Recheck re-evaluates the current location against the current
// session state. Following a redirect is mandatory, so a redirect
// decision also moves the guard's location to the target; a later
// session-driven recheck then evaluates where the guest actually is,
// not the path left behind.
func (g *Guard) Recheck() Decision {
	g.mu.Lock()
	ready, path := g.ready, g.location
	g.mu.Unlock()

	if !ready {
		return Decision{Placeholder: true}
	}
	authed := g.sess.IsAuthenticated()
	var d Decision
	switch {
	case authed && isAuthRoute(path):
		d = Decision{Redirect: "/"}
	case !authed && isProtectedRoute(path):
		d = Decision{Redirect: "/sign-in?redirect=" + url.QueryEscape(path)}
	}
	if d.Redirect != "" {
		g.mu.Lock()
		g.location = d.Redirect
		g.mu.Unlock()
	}
	return d
}

// Route classification looks at the path only; a sign-in page carrying
// a ?redirect= query is still the sign-in page.
func isAuthRoute(path string) bool {
	path = stripQuery(path)
	for _, r := range AuthRoutes {
		if path == r {
			return true
		}
	}
	return false
}

func isProtectedRoute(path string) bool {
	path = stripQuery(path)
	for _, r := range ProtectedRoutes {
		if strings.HasPrefix(path, r) {
			return true
		}
	}
	return false
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
