package usermgmt_test

import (
	"sync"
	"testing"

	usermgmt "github.com/goliatone/go-usermgmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *navRecorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *navRecorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestRouteGuardPublicDestination(t *testing.T) {
	nav := &navRecorder{}
	guard := usermgmt.NewRouteGuard(usermgmt.NewMemoryStore(), nav, "/profile", "/users")

	assert.Equal(t, usermgmt.GuardAllowed, guard.Navigate("/"))
	assert.Equal(t, usermgmt.GuardAllowed, guard.Navigate("/login"))
	assert.Empty(t, nav.Paths())
}

func TestRouteGuardRedirectsUnauthenticated(t *testing.T) {
	nav := &navRecorder{}
	guard := usermgmt.NewRouteGuard(usermgmt.NewMemoryStore(), nav, "/profile", "/users")

	assert.Equal(t, usermgmt.GuardRedirected, guard.Navigate("/profile"))
	assert.Equal(t, []string{"/login"}, nav.Paths())
}

func TestRouteGuardReEvaluatesEveryNavigation(t *testing.T) {
	store := usermgmt.NewMemoryStore()
	nav := &navRecorder{}
	guard := usermgmt.NewRouteGuard(store, nav, "/users")

	require.NoError(t, store.Set("tok", usermgmt.Claims{Username: "alice"}))
	assert.Equal(t, usermgmt.GuardAllowed, guard.Navigate("/users"))

	// A session cleared mid-flight redirects the very next attempt.
	require.NoError(t, store.Clear())
	assert.Equal(t, usermgmt.GuardRedirected, guard.Navigate("/users"))
	assert.Equal(t, []string{"/login"}, nav.Paths())
}

func TestRouteGuardCustomLoginPath(t *testing.T) {
	nav := &navRecorder{}
	guard := usermgmt.NewRouteGuard(usermgmt.NewMemoryStore(), nav, "/users").
		WithLoginPath("/signin")

	assert.Equal(t, usermgmt.GuardRedirected, guard.Navigate("/users"))
	assert.Equal(t, []string{"/signin"}, nav.Paths())
}
