package handlers

import (
	"net/http"

	"github.com/Rina-ui/Front-TP-JEE/internal/bank"
	"github.com/Rina-ui/Front-TP-JEE/internal/http/respond"
	"github.com/Rina-ui/Front-TP-JEE/internal/models/dto"
)

// ClientHandler exposes the client directory to staff.
type ClientHandler struct {
	directory *bank.DirectoryClient
}

func NewClientHandler(directory *bank.DirectoryClient) *ClientHandler {
	return &ClientHandler{directory: directory}
}

// Register attaches directory routes to the mux.
func (h *ClientHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /clients", h.handleList)
	mux.HandleFunc("GET /clients/{id}", h.handleGet)
	mux.HandleFunc("POST /clients/register", h.handleCreate)
	mux.HandleFunc("PUT /clients/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /clients/{id}", h.handleDelete)
}

func (h *ClientHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.directory.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "clients", list)
}

func (h *ClientHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.directory.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "client", c)
}

func (h *ClientHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	created, err := h.directory.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !created {
		respond.Error(w, http.StatusBadGateway, "client was not created")
		return
	}
	respond.JSON(w, http.StatusCreated, "client created", nil)
}

func (h *ClientHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateClientRequest
	if !decode(w, r, &req) {
		return
	}
	updated, err := h.directory.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "client updated", updated)
}

func (h *ClientHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.directory.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !deleted {
		respond.Error(w, http.StatusNotFound, "client was not deleted")
		return
	}
	respond.JSON(w, http.StatusOK, "client deleted", nil)
}
