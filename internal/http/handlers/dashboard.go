package handlers

import (
	"errors"
	"net/http"

	"github.com/Rina-ui/Front-TP-JEE/internal/dashboard"
	"github.com/Rina-ui/Front-TP-JEE/internal/http/respond"
)

// DashboardHandler serves the admin and client dashboards. Every GET starts a new
// load cycle unless ?cached=1 asks for the last published snapshot.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Register attaches dashboard routes to the mux.
func (h *DashboardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/dashboard", h.handleAdmin)
	mux.HandleFunc("GET /client/dashboard", h.handleClient)
}

func (h *DashboardHandler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	h.serve(w, r, ws.Admin, "")
}

func (h *DashboardHandler) handleClient(w http.ResponseWriter, r *http.Request) {
	ws, id, ok := identity(w, r)
	if !ok {
		return
	}
	h.serve(w, r, ws.Client, id.ID)
}

func (h *DashboardHandler) serve(w http.ResponseWriter, r *http.Request, d *dashboard.Dashboard, ownerID string) {
	if r.URL.Query().Get("cached") != "" {
		respond.JSON(w, http.StatusOK, "dashboard snapshot", d.Snapshot())
		return
	}
	snap, err := d.Load(r.Context(), ownerID)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, "dashboard loaded", snap)
	case errors.Is(err, dashboard.ErrSuperseded):
		writeError(w, r, err)
	default:
		// The failed snapshot still tells the page what to show.
		respond.JSON(w, http.StatusBadGateway, "dashboard unavailable", snap)
	}
}
