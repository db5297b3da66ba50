// Package gql issues named GraphQL operations against the banking API.
package gql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/machinebox/graphql"
	"github.com/rs/zerolog"
)

// ErrTransport is matched by every *TransportError.
var ErrTransport = errors.New("graphql transport failure")

// TransportError wraps a network or server-side failure of one operation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Kind separates reads from writes.
type Kind int

const (
	Query Kind = iota
	Mutation
)

// Operation is a named GraphQL document.
type Operation struct {
	Name     string
	Kind     Kind
	Document string
}

// TokenSource yields the bearer token for outgoing requests, "" when anonymous.
type TokenSource interface {
	Token() string
}

type tokenKey struct{}

// WithTokenSource attaches the token source used for requests made with ctx.
func WithTokenSource(ctx context.Context, src TokenSource) context.Context {
	return context.WithValue(ctx, tokenKey{}, src)
}

func tokenFrom(ctx context.Context) string {
	src, ok := ctx.Value(tokenKey{}).(TokenSource)
	if !ok || src == nil {
		return ""
	}
	return src.Token()
}

// Client sends operations to a single endpoint.
type Client struct {
	gql *graphql.Client
	log zerolog.Logger
}

// NewClient targets endpoint using httpClient (http.DefaultClient when nil).
func NewClient(endpoint string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		gql: graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		log: log,
	}
}

// Run executes op with vars and decodes the "data" member into out. Reads are sent
// with Cache-Control: no-cache. Failures are returned as *TransportError, never
// retried.
func (c *Client) Run(ctx context.Context, op Operation, vars map[string]any, out any) error {
	req := graphql.NewRequest(op.Document)
	for k, v := range vars {
		req.Var(k, v)
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if op.Kind == Query {
		req.Header.Set("Cache-Control", "no-cache")
	}

	start := time.Now()
	err := c.gql.Run(ctx, req, out)
	evt := c.log.Debug()
	if err != nil {
		evt = c.log.Warn().Err(err)
	}
	evt.Str("operation", op.Name).Dur("duration", time.Since(start)).Msg("graphql operation")
	if err != nil {
		return &TransportError{Op: op.Name, Err: err}
	}
	return nil
}
