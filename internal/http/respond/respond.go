package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// RedirectData is the body of a navigation the gate turned away.
type RedirectData struct {
	Redirect string `json:"redirect"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Code: status, Message: message})
}

// Fields writes a 400 listing one message per offending field.
func Fields(w http.ResponseWriter, fields map[string]string) {
	write(w, http.StatusBadRequest, Envelope{
		Code:    http.StatusBadRequest,
		Message: "validation failed",
		Data:    map[string]any{"fields": fields},
	})
}

// Redirect sends the client to target with a 303 and says why in the envelope.
func Redirect(w http.ResponseWriter, target, reason string) {
	w.Header().Set("Location", target)
	write(w, http.StatusSeeOther, Envelope{
		Code:    http.StatusSeeOther,
		Message: reason,
		Data:    RedirectData{Redirect: target},
	})
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("respond: encode payload failed")
	}
}
