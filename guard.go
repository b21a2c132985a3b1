package usermgmt

// GuardState is the outcome of a navigation attempt.
type GuardState string

const (
	// GuardAllowed renders the requested destination.
	GuardAllowed GuardState = "allowed"
	// GuardRedirected navigates to the login entry point instead.
	GuardRedirected GuardState = "redirected"
)

// DefaultLoginPath is the public entry point unauthenticated navigation
// lands on.
const DefaultLoginPath = "/login"

// RouteGuard gates navigation to protected destinations. The policy is
// re-evaluated on every attempt, never cached, so a session cleared by the
// gateway mid-flight redirects the very next protected navigation.
type RouteGuard struct {
	policy    *Policy
	navigator Navigator
	loginPath string
	protected map[string]bool
}

// NewRouteGuard builds a guard over the given store. Destinations passed in
// protected require an authenticated session; everything else is public.
func NewRouteGuard(store SessionStore, navigator Navigator, protected ...string) *RouteGuard {
	set := make(map[string]bool, len(protected))
	for _, path := range protected {
		set[path] = true
	}
	return &RouteGuard{
		policy:    NewPolicy(store),
		navigator: navigator,
		loginPath: DefaultLoginPath,
		protected: set,
	}
}

// WithLoginPath overrides the login entry point.
func (g *RouteGuard) WithLoginPath(path string) *RouteGuard {
	if path != "" {
		g.loginPath = path
	}
	return g
}

// Protected reports whether a destination requires authentication.
func (g *RouteGuard) Protected(path string) bool {
	return g.protected[path]
}

// Navigate evaluates a navigation attempt. Unauthenticated access to a
// protected destination signals the navigator toward the login entry point
// and reports GuardRedirected.
func (g *RouteGuard) Navigate(path string) GuardState {
	if !g.Protected(path) {
		return GuardAllowed
	}

	if g.policy.IsAuthenticated() {
		return GuardAllowed
	}

	if g.navigator != nil {
		g.navigator.Navigate(g.loginPath)
	}
	return GuardRedirected
}
