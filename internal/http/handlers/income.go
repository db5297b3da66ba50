package handlers

import (
	"net/http"
	"time"

	"github.com/Rina-ui/Front-TP-JEE/internal/http/respond"
	"github.com/Rina-ui/Front-TP-JEE/internal/ledger"
	"github.com/Rina-ui/Front-TP-JEE/internal/models/dto"
)

// IncomeList is the local income of the signed-in client. It is kept apart from
// server balances.
type IncomeList struct {
	Entries []ledger.Entry `json:"entries"`
	Total   float64        `json:"total"`
}

// IncomeHandler manages the locally kept income lines.
type IncomeHandler struct{}

func NewIncomeHandler() *IncomeHandler {
	return &IncomeHandler{}
}

// Register attaches income routes to the mux.
func (h *IncomeHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /client/income", h.handleList)
	mux.HandleFunc("POST /client/income", h.handleAdd)
	mux.HandleFunc("DELETE /client/income/{id}", h.handleRemove)
}

func (h *IncomeHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ws, id, ok := identity(w, r)
	if !ok {
		return
	}
	entries, err := ws.Income.List(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	total, err := ws.Income.Total(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}
	respond.JSON(w, http.StatusOK, "income", IncomeList{Entries: entries, Total: total})
}

func (h *IncomeHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ws, id, ok := identity(w, r)
	if !ok {
		return
	}
	var req dto.IncomeEntryRequest
	if !decode(w, r, &req) {
		return
	}
	var date time.Time
	if req.Date != "" {
		// Already checked by the datetime validator.
		date, _ = time.Parse(time.DateOnly, req.Date)
	}
	entry, err := ws.Income.Add(r.Context(), id.ID, req.Label, req.Amount, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "income recorded", entry)
}

func (h *IncomeHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	ws, id, ok := identity(w, r)
	if !ok {
		return
	}
	if err := ws.Income.Remove(r.Context(), id.ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "income removed", nil)
}
