// Package session owns the authenticated identity of a browser context.
//
// A Store is the only writer of the persisted "token" and "user" slots. Every other
// component reads through Current, Token or Subscribe.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Rina-ui/Front-TP-JEE/internal/models"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage"
)

const (
	TokenSlot = "token"
	UserSlot  = "user"
)

// ErrCorruptPersistedState reports that the stored identity could not be parsed and
// the context was forced back to anonymous.
var ErrCorruptPersistedState = errors.New("corrupt persisted session")

// Store holds the current session and fans it out to subscribers. Subscribers
// always receive the latest value, including the one current when they subscribed.
type Store struct {
	kv  storage.KV
	log zerolog.Logger

	mu      sync.RWMutex
	current *models.Session
	subs    map[int]chan *models.Session
	nextSub int
}

// NewStore creates an anonymous store over kv. Call Rehydrate to load persisted state.
func NewStore(kv storage.KV, log zerolog.Logger) *Store {
	return &Store{
		kv:   kv,
		log:  log,
		subs: make(map[int]chan *models.Session),
	}
}

// SetSession persists both slots and broadcasts the new session. Nothing is
// broadcast when persistence fails.
func (s *Store) SetSession(ctx context.Context, sess models.Session) error {
	user, err := json.Marshal(sess.Identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.kv.Set(ctx, TokenSlot, sess.Token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.kv.Set(ctx, UserSlot, string(user)); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	s.publish(&sess)
	s.log.Debug().Str("user_id", sess.Identity.ID).Str("role", string(sess.Identity.Role)).Msg("session set")
	return nil
}

// ClearSession removes both slots and broadcasts nil. The in-memory state is
// anonymous afterwards even if the storage backend reports an error.
func (s *Store) ClearSession(ctx context.Context) error {
	errToken := s.kv.Delete(ctx, TokenSlot)
	errUser := s.kv.Delete(ctx, UserSlot)
	s.publish(nil)
	s.log.Debug().Msg("session cleared")
	return errors.Join(errToken, errUser)
}

// Current returns a copy of the last broadcast session, or nil when anonymous.
func (s *Store) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Token returns the bearer token of the current session, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Rehydrate loads the persisted session. A missing identity leaves the store
// anonymous. An identity that cannot be parsed, or one without a token, clears
// the store exactly like ClearSession and returns ErrCorruptPersistedState.
func (s *Store) Rehydrate(ctx context.Context) (*models.Session, error) {
	raw, err := s.kv.Get(ctx, UserSlot)
	if errors.Is(err, storage.ErrNotFound) {
		s.publish(nil)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read identity: %w", err)
	}

	identity, parseErr := parseIdentity(raw)
	token, tokenErr := s.kv.Get(ctx, TokenSlot)
	if tokenErr != nil && !errors.Is(tokenErr, storage.ErrNotFound) {
		return nil, fmt.Errorf("read token: %w", tokenErr)
	}
	if parseErr == nil && strings.TrimSpace(token) == "" {
		parseErr = errors.New("identity persisted without token")
	}
	if parseErr != nil {
		s.log.Warn().Err(parseErr).Msg("discarding persisted session")
		if err := s.ClearSession(ctx); err != nil {
			s.log.Error().Err(err).Msg("clear corrupt session")
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptPersistedState, parseErr)
	}

	sess := &models.Session{Token: token, Identity: identity}
	s.publish(sess)
	return s.Current(), nil
}

// Subscribe registers a listener. The returned channel immediately holds the
// current value; when the listener falls behind only the newest value is kept.
// cancel closes the channel.
func (s *Store) Subscribe() (<-chan *models.Session, func()) {
	ch := make(chan *models.Session, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- copySession(s.current)
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Store) publish(sess *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = copySession(sess)
	for _, ch := range s.subs {
		// Only publish sends on ch, and it holds s.mu, so after the drain the send
		// cannot block.
		select {
		case <-ch:
		default:
		}
		ch <- copySession(sess)
	}
}

func copySession(sess *models.Session) *models.Session {
	if sess == nil {
		return nil
	}
	cp := *sess
	return &cp
}

type persistedIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func parseIdentity(raw string) (models.Identity, error) {
	var p persistedIdentity
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return models.Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	if strings.TrimSpace(p.ID) == "" {
		return models.Identity{}, errors.New("identity without id")
	}
	role, err := models.ParseRole(p.Role)
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{ID: p.ID, Email: p.Email, Role: role}, nil
}
