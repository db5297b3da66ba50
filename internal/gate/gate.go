// Package gate decides, once per navigation, whether the current identity may
// enter a route.
package gate

import (
	"slices"

	"github.com/Rina-ui/Front-TP-JEE/internal/models"
)

// SessionReader is the read side of the session store.
type SessionReader interface {
	Current() *models.Session
}

// Decision is the outcome of a single check.
type Decision struct {
	Allowed  bool
	Redirect string
	Reason   string
}

// Check evaluates route against sess. A nil session is sent to sign-in, a role
// missing from a non-empty allow-list is sent to its landing route.
func Check(route Route, sess *models.Session) Decision {
	if route.Public {
		return Decision{Allowed: true}
	}
	if sess == nil {
		return Decision{Redirect: SignInPath, Reason: "not signed in"}
	}
	role := sess.Identity.Role
	if len(route.Roles) > 0 && !slices.Contains(route.Roles, role) {
		return Decision{Redirect: LandingRoute(role), Reason: "role " + string(role) + " not allowed on " + route.Name}
	}
	return Decision{Allowed: true}
}

// Authorize reads the session exactly once and checks route against it.
func Authorize(route Route, store SessionReader) Decision {
	var sess *models.Session
	if store != nil {
		sess = store.Current()
	}
	return Check(route, sess)
}

// LandingRoute is where an identity lands after sign-in or a denied navigation.
func LandingRoute(role models.Role) string {
	if role == models.RoleClient {
		return ClientLandingPath
	}
	return AdminLandingPath
}
