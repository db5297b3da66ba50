package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Rina-ui/Front-TP-JEE/internal/auth"
	"github.com/Rina-ui/Front-TP-JEE/internal/gql"
	"github.com/Rina-ui/Front-TP-JEE/internal/http/respond"
	"github.com/Rina-ui/Front-TP-JEE/internal/logger"
	"github.com/Rina-ui/Front-TP-JEE/internal/portal"
	"github.com/Rina-ui/Front-TP-JEE/internal/session"
)

// ContextCookie names the cookie identifying a browser context.
const ContextCookie = "portal_ctx"

// ErrNoBrowserContext is returned by RotateContext outside BrowserContext.
var ErrNoBrowserContext = errors.New("no browser context on request")

// Workspaces resolves context ids to workspaces and moves them on sign-in.
type Workspaces interface {
	Open(ctx context.Context, contextID string) (*portal.Workspace, error)
	Rotate(ctx context.Context, old *portal.Workspace, newID, ownerID string) (*portal.Workspace, error)
	Forget(contextID string)
}

type browser struct {
	workspaces Workspaces
	tokens     *auth.TokenManager
	secure     bool
}

type browserKey struct{}

// BrowserContext resolves the caller's browser context from its cookie, minting a
// new one when the cookie is absent or invalid, and attaches the workspace, its
// session store and the bearer token source to the request context.
func BrowserContext(workspaces Workspaces, tokens *auth.TokenManager, secure bool, next http.Handler) http.Handler {
	b := &browser{workspaces: workspaces, tokens: tokens, secure: secure}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		contextID := ""
		if c, err := r.Cookie(ContextCookie); err == nil {
			id, err := tokens.Parse(c.Value)
			if err != nil {
				log.Debug().Err(err).Msg("discarding context cookie")
			}
			contextID = id
		}
		if contextID == "" {
			contextID = auth.NewContextID()
			signed, err := tokens.Issue(contextID)
			if err != nil {
				log.Error().Err(err).Msg("issue context token")
				respond.Error(w, http.StatusInternalServerError, "failed to start browser context")
				return
			}
			b.setCookie(w, signed)
		}

		ws, err := workspaces.Open(r.Context(), contextID)
		if err != nil {
			log.Error().Err(err).Str("context_id", contextID).Msg("open workspace")
			respond.Error(w, http.StatusInternalServerError, "failed to load browser context")
			return
		}

		ctx := logger.WithContext(r.Context(), log.With().Str("context_id", contextID).Logger())
		ctx = context.WithValue(ctx, browserKey{}, b)
		ctx = portal.WithWorkspace(ctx, ws)
		ctx = session.WithStore(ctx, ws.Session)
		ctx = gql.WithTokenSource(ctx, ws.Session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RotateContext moves the caller to a fresh context id carrying ownerID's income
// and re-issues the cookie. The previous id is left signed out.
func RotateContext(w http.ResponseWriter, r *http.Request, ownerID string) (*portal.Workspace, error) {
	b, _ := r.Context().Value(browserKey{}).(*browser)
	old := portal.FromContext(r.Context())
	if b == nil || old == nil {
		return nil, ErrNoBrowserContext
	}
	contextID := auth.NewContextID()
	signed, err := b.tokens.Issue(contextID)
	if err != nil {
		return nil, fmt.Errorf("issue context token: %w", err)
	}
	ws, err := b.workspaces.Rotate(r.Context(), old, contextID, ownerID)
	if err != nil {
		return nil, err
	}
	b.setCookie(w, signed)
	return ws, nil
}

// ReleaseContext drops the caller's workspace from memory.
func ReleaseContext(r *http.Request) {
	b, _ := r.Context().Value(browserKey{}).(*browser)
	ws := portal.FromContext(r.Context())
	if b != nil && ws != nil {
		b.workspaces.Forget(ws.ID)
	}
}

func (b *browser) setCookie(w http.ResponseWriter, signed string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ContextCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(b.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
