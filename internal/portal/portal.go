// Package portal keeps the per-browser-context state: the session store, the
// two dashboard view-models and the local income ledger.
package portal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Rina-ui/Front-TP-JEE/internal/bank"
	"github.com/Rina-ui/Front-TP-JEE/internal/dashboard"
	"github.com/Rina-ui/Front-TP-JEE/internal/ledger"
	"github.com/Rina-ui/Front-TP-JEE/internal/session"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage"
)

// DefaultIdleTTL is how long an unused workspace stays in memory.
const DefaultIdleTTL = 30 * time.Minute

// Options tune the dashboards built for each context and how long idle
// workspaces are kept.
type Options struct {
	FanOut   int
	Recorder dashboard.Recorder
	IdleTTL  time.Duration
}

// Workspace is everything one browser context owns.
type Workspace struct {
	ID      string
	Session *session.Store
	Income  *ledger.Ledger
	Admin   *dashboard.Dashboard
	Client  *dashboard.Dashboard
}

type held struct {
	ws       *Workspace
	lastSeen time.Time
}

// Manager opens workspaces and keeps the signed-in ones in memory until they
// sit idle for longer than IdleTTL. Anonymous workspaces are rebuilt from
// storage on every request.
type Manager struct {
	kv       storage.KV
	sessions *session.Registry
	clients  *bank.Clients
	opts     Options
	log      zerolog.Logger
	now      func() time.Time

	loads singleflight.Group

	mu         sync.Mutex
	workspaces map[string]*held
	lastSweep  time.Time
}

func NewManager(kv storage.KV, clients *bank.Clients, opts Options, log zerolog.Logger) *Manager {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	return &Manager{
		kv:         kv,
		sessions:   session.NewRegistry(kv, log),
		clients:    clients,
		opts:       opts,
		log:        log,
		now:        time.Now,
		workspaces: make(map[string]*held),
	}
}

// Open returns the workspace of contextID, rehydrating its session from storage
// when it is not held in memory.
func (m *Manager) Open(ctx context.Context, contextID string) (*Workspace, error) {
	if ws := m.lookup(contextID); ws != nil {
		return ws, nil
	}
	v, err, _ := m.loads.Do(contextID, func() (any, error) {
		if ws := m.lookup(contextID); ws != nil {
			return ws, nil
		}
		ws, err := m.build(ctx, contextID)
		if err != nil {
			return nil, err
		}
		if ws.Session.Current() != nil {
			m.hold(ws)
		}
		return ws, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Workspace), nil
}

// Rotate moves a browser context to newID: the income of ownerID follows, the
// old session slots are cleared and the old workspace is dropped. The returned
// workspace is held in memory.
func (m *Manager) Rotate(ctx context.Context, old *Workspace, newID, ownerID string) (*Workspace, error) {
	fresh, err := m.build(ctx, newID)
	if err != nil {
		return nil, err
	}
	if ownerID != "" {
		if err := old.Income.MoveTo(ctx, fresh.Income, ownerID); err != nil {
			return nil, fmt.Errorf("move income: %w", err)
		}
	}
	if err := old.Session.ClearSession(ctx); err != nil {
		m.log.Warn().Err(err).Str("context_id", old.ID).Msg("clearing rotated session")
	}
	m.Forget(old.ID)
	m.hold(fresh)
	return fresh, nil
}

// Forget drops the in-memory workspace of contextID. Persisted slots stay.
func (m *Manager) Forget(contextID string) {
	m.mu.Lock()
	delete(m.workspaces, contextID)
	m.mu.Unlock()
}

// Held reports how many workspaces are kept in memory.
func (m *Manager) Held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

func (m *Manager) lookup(contextID string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweepLocked(now)
	h, ok := m.workspaces[contextID]
	if !ok {
		return nil
	}
	h.lastSeen = now
	return h.ws
}

func (m *Manager) hold(ws *Workspace) {
	m.mu.Lock()
	m.workspaces[ws.ID] = &held{ws: ws, lastSeen: m.now()}
	m.mu.Unlock()
}

// sweepLocked evicts idle workspaces, at most once per minute.
func (m *Manager) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < time.Minute {
		return
	}
	m.lastSweep = now
	for id, h := range m.workspaces {
		if now.Sub(h.lastSeen) > m.opts.IdleTTL {
			delete(m.workspaces, id)
		}
	}
}

func (m *Manager) build(ctx context.Context, contextID string) (*Workspace, error) {
	st, err := m.sessions.Open(ctx, contextID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	log := m.log.With().Str("context_id", contextID).Logger()
	income := ledger.New(session.Slots(m.kv, contextID), log)

	return &Workspace{
		ID:      contextID,
		Session: st,
		Income:  income,
		Admin: dashboard.New(dashboard.Sources{
			Accounts:     m.clients.Accounts,
			Transactions: m.clients.Transactions,
			Directory:    m.clients.Directory,
		}, dashboard.Config{Variant: dashboard.Admin, FanOut: m.opts.FanOut, Recorder: m.opts.Recorder}, log),
		Client: dashboard.New(dashboard.Sources{
			Accounts:     m.clients.Accounts,
			Transactions: m.clients.Transactions,
			Income:       income,
		}, dashboard.Config{Variant: dashboard.Client, FanOut: m.opts.FanOut, Recorder: m.opts.Recorder}, log),
	}, nil
}

type workspaceKey struct{}

// WithWorkspace attaches ws to ctx.
func WithWorkspace(ctx context.Context, ws *Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey{}, ws)
}

// FromContext returns the workspace attached by WithWorkspace, or nil.
func FromContext(ctx context.Context) *Workspace {
	ws, _ := ctx.Value(workspaceKey{}).(*Workspace)
	return ws
}
