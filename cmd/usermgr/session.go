package main

import (
	"fmt"
	"os"

	usermgmt "github.com/goliatone/go-usermgmt"
)

const (
	appName      = "usermgr"
	profileRoute = "/profile"
	usersRoute   = "/users"
)

// cliNavigator maps navigation signals onto terminal hints. A forced logout
// lands here: the request itself just fails, the user only sees the
// redirect.
type cliNavigator struct{}

func (cliNavigator) Navigate(path string) {
	if path == usermgmt.DefaultLoginPath {
		fmt.Fprintln(os.Stderr, "→ redirected to login; run 'usermgr login'")
		return
	}
	fmt.Fprintf(os.Stderr, "→ redirected to %s\n", path)
}

func sessionStore() *usermgmt.FileStore {
	dir, err := usermgmt.DefaultStoreDir(appName)
	fatal(err)
	return usermgmt.NewFileStore(dir)
}

func apiClient(store usermgmt.SessionStore) *usermgmt.Client {
	baseURL := envOr("USERMGR_API_URL", usermgmt.DefaultBaseURL)
	return usermgmt.NewClient(
		baseURL,
		store,
		usermgmt.WithNavigator(cliNavigator{}),
		usermgmt.WithDebug(os.Getenv("USERMGR_DEBUG") != ""),
	)
}

// requireRoute runs the route guard for a protected destination. Commands
// behind it exit when the guard redirects, mirroring a protected view that
// never renders.
func requireRoute(store usermgmt.SessionStore, route string) {
	guard := usermgmt.NewRouteGuard(store, cliNavigator{}, profileRoute, usersRoute)
	if guard.Navigate(route) == usermgmt.GuardRedirected {
		os.Exit(1)
	}
}
