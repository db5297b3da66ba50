package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rina-ui/Front-TP-JEE/internal/bank"
	"github.com/Rina-ui/Front-TP-JEE/internal/dashboard"
	"github.com/Rina-ui/Front-TP-JEE/internal/gql"
	"github.com/Rina-ui/Front-TP-JEE/internal/http/respond"
	"github.com/Rina-ui/Front-TP-JEE/internal/ledger"
	"github.com/Rina-ui/Front-TP-JEE/internal/logger"
	"github.com/Rina-ui/Front-TP-JEE/internal/models"
	"github.com/Rina-ui/Front-TP-JEE/internal/portal"
	"github.com/Rina-ui/Front-TP-JEE/internal/validation"
)

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler may continue.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	if err := validation.Struct(dst); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	var invalid *validation.Error
	switch {
	case errors.As(err, &invalid):
		respond.Fields(w, invalid.Fields)
	case errors.Is(err, bank.ErrAccountNotFound), errors.Is(err, ledger.ErrEntryNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, bank.ErrNoDataReturned):
		log.Warn().Err(err).Msg("banking api returned no data")
		respond.Error(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, gql.ErrTransport):
		log.Warn().Err(err).Msg("banking api call failed")
		respond.Error(w, http.StatusBadGateway, "banking service unavailable")
	case errors.Is(err, dashboard.ErrSuperseded):
		respond.Error(w, http.StatusConflict, "a newer load replaced this one")
	default:
		log.Error().Err(err).Msg("request failed")
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// workspace returns the browser context of r, answering 500 when the context
// middleware did not run.
func workspace(w http.ResponseWriter, r *http.Request) (*portal.Workspace, bool) {
	ws := portal.FromContext(r.Context())
	if ws == nil {
		respond.Error(w, http.StatusInternalServerError, "no browser context")
		return nil, false
	}
	return ws, true
}

// identity returns the signed-in identity of r.
func identity(w http.ResponseWriter, r *http.Request) (*portal.Workspace, models.Identity, bool) {
	ws, ok := workspace(w, r)
	if !ok {
		return nil, models.Identity{}, false
	}
	sess := ws.Session.Current()
	if sess == nil {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return nil, models.Identity{}, false
	}
	return ws, sess.Identity, true
}
