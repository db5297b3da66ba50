package session

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Rina-ui/Front-TP-JEE/internal/storage"
)

// Registry builds one Store per browser context, each scoped to its own key
// namespace in a shared backend. Callers decide how long a store lives.
type Registry struct {
	kv  storage.KV
	log zerolog.Logger
}

func NewRegistry(kv storage.KV, log zerolog.Logger) *Registry {
	return &Registry{kv: kv, log: log}
}

// Open returns a store for contextID rehydrated from its slots. Corrupt persisted
// state is logged and leaves the store anonymous.
func (r *Registry) Open(ctx context.Context, contextID string) (*Store, error) {
	log := r.log.With().Str("context_id", contextID).Logger()
	st := NewStore(Slots(r.kv, contextID), log)
	if _, err := st.Rehydrate(ctx); err != nil && !errors.Is(err, ErrCorruptPersistedState) {
		return nil, err
	}
	return st, nil
}

// Slots returns the key namespace owned by contextID.
func Slots(kv storage.KV, contextID string) storage.KV {
	return storage.WithPrefix(kv, "ctx:"+contextID+":")
}

type storeKey struct{}

// WithStore attaches the context's session store to ctx.
func WithStore(ctx context.Context, st *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, st)
}

// FromContext returns the store attached by WithStore, or nil.
func FromContext(ctx context.Context) *Store {
	st, _ := ctx.Value(storeKey{}).(*Store)
	return st
}
