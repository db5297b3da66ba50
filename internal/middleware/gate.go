package middleware

import (
	"net/http"

	"github.com/Rina-ui/Front-TP-JEE/internal/gate"
	"github.com/Rina-ui/Front-TP-JEE/internal/http/respond"
	"github.com/Rina-ui/Front-TP-JEE/internal/logger"
	"github.com/Rina-ui/Front-TP-JEE/internal/session"
)

// Authorize runs the gate before any handler of a listed route. Paths missing
// from the table pass through untouched.
func Authorize(table *gate.Table, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, ok := table.Lookup(r.URL.Path)
		if !ok || route.Public {
			next.ServeHTTP(w, r)
			return
		}

		var reader gate.SessionReader
		if st := session.FromContext(r.Context()); st != nil {
			reader = st
		}
		decision := gate.Authorize(route, reader)
		if !decision.Allowed {
			log := logger.FromContext(r.Context())
			log.Info().
				Str("route", route.Name).
				Str("redirect", decision.Redirect).
				Msg(decision.Reason)
			respond.Redirect(w, decision.Redirect, decision.Reason)
			return
		}
		next.ServeHTTP(w, r)
	})
}
