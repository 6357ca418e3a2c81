// Package guard decides where a navigation may land given the session state.
package guard

import (
	"path"
	"strings"
)

// Routes the guard redirects to
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Public pages; every other page is protected
var publicPaths = map[string]bool{
	"/login":    true,
	"/register": true,
	"/":         true,
}

// Pages an authenticated user is steered away from
var authOnlyPaths = map[string]bool{
	"/login":    true,
	"/register": true,
}

// State is the part of the session the guard reads
type State interface {
	IsAuthenticated() bool
	HasHydrated() bool
}

// Action is what the caller should do with the navigation
type Action int

const (
	// Allow renders the requested page
	Allow Action = iota
	// Redirect sends the user to Decision.Target
	Redirect
	// Wait renders the loading indicator because the session is not hydrated yet
	Wait
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Wait:
		return "wait"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Decide
type Decision struct {
	Action Action
	Target string
}

// Normalize cleans a request path so "/login/" and "/login" classify the same
func Normalize(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// IsPublic reports whether p is on the public allow-list
func IsPublic(p string) bool {
	return publicPaths[Normalize(p)]
}

// IsAuthOnly reports whether p is a login/registration page
func IsAuthOnly(p string) bool {
	return authOnlyPaths[Normalize(p)]
}

// Decide classifies the current path against the session.
// No decision is made until the session has been hydrated.
func Decide(p string, st State) Decision {
	if !st.HasHydrated() {
		return Decision{Action: Wait}
	}

	authenticated := st.IsAuthenticated()

	switch {
	case !authenticated && !IsPublic(p):
		return Decision{Action: Redirect, Target: LoginPath}
	case authenticated && IsAuthOnly(p):
		return Decision{Action: Redirect, Target: HomePath}
	default:
		return Decision{Action: Allow}
	}
}
