package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rina-ui/Front-TP-JEE/internal/auth"
	"github.com/Rina-ui/Front-TP-JEE/internal/bank"
	"github.com/Rina-ui/Front-TP-JEE/internal/config"
	"github.com/Rina-ui/Front-TP-JEE/internal/gate"
	"github.com/Rina-ui/Front-TP-JEE/internal/http/handlers"
	"github.com/Rina-ui/Front-TP-JEE/internal/metrics"
	"github.com/Rina-ui/Front-TP-JEE/internal/middleware"
	"github.com/Rina-ui/Front-TP-JEE/internal/portal"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage"
)

// Deps are the collaborators built by main.
type Deps struct {
	KV      storage.KV
	Clients *bank.Clients
	Routes  *gate.Table
	Metrics *metrics.Metrics
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps, log zerolog.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Handler(cfg, deps, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.HTTPTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// Handler builds the full middleware chain and route set.
func Handler(cfg config.Config, deps Deps, log zerolog.Logger) http.Handler {
	workspaces := portal.NewManager(deps.KV, deps.Clients, portal.Options{
		FanOut:   cfg.DashboardFanOut,
		Recorder: deps.Metrics,
		IdleTTL:  cfg.WorkspaceIdleTTL,
	}, log)
	tokens := auth.NewTokenManager(cfg.ContextSecret, cfg.ContextIssuer, cfg.ContextTTL)
	limiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, deps.Metrics.LoginRateLimited)

	app := http.NewServeMux()
	handlers.NewAuthHandler(deps.Clients.Auth, limiter.Wrap).Register(app)
	handlers.NewDashboardHandler().Register(app)
	handlers.NewAccountHandler(deps.Clients.Accounts).Register(app)
	handlers.NewTransactionHandler(deps.Clients.Accounts, deps.Clients.Transactions).Register(app)
	handlers.NewClientHandler(deps.Clients.Directory).Register(app)
	handlers.NewIncomeHandler().Register(app)

	browser := middleware.BrowserContext(workspaces, tokens, cfg.CookieSecure, middleware.Authorize(deps.Routes, app))

	root := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), cfg.SessionBackend).Register(root)
	root.Handle("GET /metrics", deps.Metrics.Handler())
	root.Handle("/", browser)

	handler := middleware.CORS(cfg.CORSOrigins, deps.Metrics.Instrument(root))
	return middleware.Recovery(log, middleware.Logging(log, handler))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
