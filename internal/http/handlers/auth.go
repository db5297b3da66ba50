package handlers

import (
	"net/http"
	"strings"

	"github.com/Rina-ui/Front-TP-JEE/internal/bank"
	"github.com/Rina-ui/Front-TP-JEE/internal/gate"
	"github.com/Rina-ui/Front-TP-JEE/internal/http/respond"
	"github.com/Rina-ui/Front-TP-JEE/internal/logger"
	"github.com/Rina-ui/Front-TP-JEE/internal/middleware"
	"github.com/Rina-ui/Front-TP-JEE/internal/models"
	"github.com/Rina-ui/Front-TP-JEE/internal/models/dto"
)

// SignInResult tells the caller who signed in and where to navigate next.
type SignInResult struct {
	User     models.Identity `json:"user"`
	Redirect string          `json:"redirect"`
}

// LoginState describes the sign-in page.
type LoginState struct {
	SignedIn bool             `json:"signedIn"`
	User     *models.Identity `json:"user,omitempty"`
	Redirect string           `json:"redirect,omitempty"`
}

// AuthHandler owns sign-in, sign-out, self-registration and the current identity.
type AuthHandler struct {
	auth         *bank.AuthClient
	limitSignIns func(http.Handler) http.Handler
}

// NewAuthHandler constructs the handler. limit wraps POST /login; nil disables it.
func NewAuthHandler(auth *bank.AuthClient, limit func(http.Handler) http.Handler) *AuthHandler {
	if limit == nil {
		limit = func(h http.Handler) http.Handler { return h }
	}
	return &AuthHandler{auth: auth, limitSignIns: limit}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /login", h.handleLoginState)
	mux.Handle("POST /login", h.limitSignIns(http.HandlerFunc(h.handleLogin)))
	mux.HandleFunc("POST /logout", h.handleLogout)
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("GET /me", h.handleMe)
}

func (h *AuthHandler) handleLoginState(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	sess := ws.Session.Current()
	if sess == nil {
		respond.JSON(w, http.StatusOK, "sign in required", LoginState{})
		return
	}
	respond.JSON(w, http.StatusOK, "already signed in", LoginState{
		SignedIn: true,
		User:     &sess.Identity,
		Redirect: gate.LandingRoute(sess.Identity.Role),
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := workspace(w, r); !ok {
		return
	}
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.auth.Authenticate(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Info().Err(err).Str("email", req.Email).Msg("sign-in rejected")
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	h.signIn(w, r, resp, http.StatusOK, "login successful")
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := workspace(w, r); !ok {
		return
	}
	var req dto.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.signIn(w, r, resp, http.StatusCreated, "account registered")
}

// signIn moves the caller to a fresh browser context before storing the session,
// so a context id planted ahead of sign-in never becomes authenticated.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, resp dto.AuthResponse, status int, message string) {
	ws, err := middleware.RotateContext(w, r, resp.User.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := ws.Session.SetSession(r.Context(), models.Session{Token: resp.Token, Identity: resp.User}); err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, status, message, SignInResult{User: resp.User, Redirect: gate.LandingRoute(resp.User.Role)})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	if err := ws.Session.ClearSession(r.Context()); err != nil {
		log := logger.FromContext(r.Context())
		log.Warn().Err(err).Msg("clearing persisted session")
	}
	middleware.ReleaseContext(r)
	respond.JSON(w, http.StatusOK, "signed out", respond.RedirectData{Redirect: gate.SignInPath})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	_, id, ok := identity(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("refresh") == "" {
		respond.JSON(w, http.StatusOK, "current identity", id)
		return
	}
	fresh, err := h.auth.CurrentIdentity(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "current identity", fresh)
}
