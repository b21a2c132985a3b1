package usermgmt

import "fmt"

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// SessionStore owns the persisted (credential, claims) pair. Implementations
// must keep the pair atomic: Get never observes a credential without claims
// or the other way around. All operations are synchronous and Get is safe to
// call before any network activity.
type SessionStore interface {
	Set(token string, claims Claims) error
	Get() (Session, bool)
	Clear() error
}

// Navigator receives navigation signals from the gateway and the route guard.
// Implementations map them onto whatever view layer is in use (a CLI hint, a
// browser location change, a test recorder).
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// DefaultLogger returns the stdout logger used when no Logger is injected.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] USERMGMT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] USERMGMT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] USERMGMT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
