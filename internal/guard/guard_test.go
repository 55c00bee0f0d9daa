package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-guest-client/internal/model"
	"github.com/iliyamo/hotel-guest-client/internal/session"
	"github.com/iliyamo/hotel-guest-client/internal/storage"
)

func newSession(t *testing.T, authed bool) *session.Store {
	t.Helper()
	s := session.New(storage.NewMemoryKV())
	if authed {
		require.NoError(t, s.Login(model.User{ID: 1, Name: "Ada"}, "tok"))
	}
	return s
}

func TestPlaceholderWhileInitializing(t *testing.T) {
	g := New(newSession(t, false), nil)

	d := g.Navigate("/profile")

	assert.True(t, d.Placeholder)
	assert.Empty(t, d.Redirect)
}

func TestUnauthenticatedOnProtectedRedirectsToSignIn(t *testing.T) {
	g := New(newSession(t, false), nil)
	g.Ready()

	d := g.Navigate("/profile")

	assert.Equal(t, "/sign-in?redirect=%2Fprofile", d.Redirect)
}

func TestProtectedRoutesMatchByPrefix(t *testing.T) {
	g := New(newSession(t, false), nil)
	g.Ready()

	d := g.Navigate("/recent-orders/42")

	assert.Equal(t, "/sign-in?redirect=%2Frecent-orders%2F42", d.Redirect)
}

func TestAuthenticatedOnAuthRouteRedirectsHome(t *testing.T) {
	g := New(newSession(t, true), nil)
	g.Ready()

	assert.Equal(t, "/", g.Navigate("/sign-in").Redirect)
	assert.Equal(t, "/", g.Navigate("/sign-up").Redirect)
}

func TestRedirectTargetsAreStable(t *testing.T) {
	g := New(newSession(t, false), nil)
	g.Ready()

	// Following the redirect must not produce another one.
	d := g.Navigate("/profile")
	require.NotEmpty(t, d.Redirect)
	assert.Empty(t, g.Navigate("/sign-in").Redirect)

	authed := New(newSession(t, true), nil)
	authed.Ready()
	require.Equal(t, "/", authed.Navigate("/sign-in").Redirect)
	assert.Empty(t, authed.Navigate("/").Redirect)
}

func TestPublicRoutesNeedNoAuth(t *testing.T) {
	g := New(newSession(t, false), nil)
	g.Ready()

	assert.Empty(t, g.Navigate("/menu").Redirect)
	assert.Empty(t, g.Navigate("/rooms").Redirect)
	assert.Empty(t, g.Navigate("/").Redirect)
}

func TestRedirectMovesTheGuardLocation(t *testing.T) {
	sess := newSession(t, false)
	var last Decision
	g := New(sess, func(d Decision) { last = d })
	g.Ready()

	d := g.Navigate("/recent-orders")
	require.Equal(t, "/sign-in?redirect=%2Frecent-orders", d.Redirect)

	// The guest now sits on the sign-in page. Signing in must bounce
	// them off it, not re-evaluate the protected path left behind.
	require.NoError(t, sess.Login(model.User{ID: 1}, "tok"))
	assert.Equal(t, "/", last.Redirect)
}

func TestAuthRouteMatchIgnoresQuery(t *testing.T) {
	g := New(newSession(t, true), nil)
	g.Ready()

	assert.Equal(t, "/", g.Navigate("/sign-in?redirect=%2Fprofile").Redirect)
}

func TestSessionChangeReruns(t *testing.T) {
	sess := newSession(t, false)
	var last Decision
	g := New(sess, func(d Decision) { last = d })
	g.Ready()
	g.Navigate("/sign-in")

	// Signing in while parked on the sign-in view must bounce home.
	require.NoError(t, sess.Login(model.User{ID: 1}, "tok"))
	assert.Equal(t, "/", last.Redirect)

	// Logging out while on a protected view must bounce to sign-in.
	g.Navigate("/recent-bookings")
	sess.Logout()
	assert.Equal(t, "/sign-in?redirect=%2Frecent-bookings", last.Redirect)
}
