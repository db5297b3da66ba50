package handlers

import (
	"net/http"
	"strings"

	"github.com/Rina-ui/Front-TP-JEE/internal/bank"
	"github.com/Rina-ui/Front-TP-JEE/internal/http/respond"
	"github.com/Rina-ui/Front-TP-JEE/internal/models"
	"github.com/Rina-ui/Front-TP-JEE/internal/models/dto"
)

// AccountHandler manages comptes for staff.
type AccountHandler struct {
	accounts *bank.AccountClient
}

func NewAccountHandler(accounts *bank.AccountClient) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register attaches account routes to the mux.
func (h *AccountHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /comptes", h.handleList)
	mux.HandleFunc("POST /comptes", h.handleCreate)
	mux.HandleFunc("DELETE /comptes/{id}", h.handleDelete)
}

func (h *AccountHandler) handleList(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.URL.Query().Get("clientId"))
	var (
		list []models.Account
		err  error
	)
	if owner != "" {
		list, err = h.accounts.ListByOwner(r.Context(), owner)
	} else {
		list, err = h.accounts.ListAll(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "accounts", list)
}

func (h *AccountHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decode(w, r, &req) {
		return
	}
	created, err := h.accounts.Create(r.Context(), req.ClientID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "account created", created)
}

func (h *AccountHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.accounts.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !deleted {
		respond.Error(w, http.StatusNotFound, "account was not deleted")
		return
	}
	respond.JSON(w, http.StatusOK, "account deleted", nil)
}
