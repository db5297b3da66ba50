package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates a slot does not exist.
var ErrNotFound = errors.New("record not found")

// KV is the persistent slot storage backing a browser context: small string values
// under string keys, the equivalent of the browser's local storage.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Namespaced prefixes every key so several contexts can share one backend.
type Namespaced struct {
	inner  KV
	prefix string
}

// WithPrefix scopes kv to keys beginning with prefix.
func WithPrefix(kv KV, prefix string) *Namespaced {
	return &Namespaced{inner: kv, prefix: prefix}
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}
