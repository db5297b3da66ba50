// Package gqltest provides a scriptable GraphQL endpoint for tests.
package gqltest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
)

var opName = regexp.MustCompile(`(?:query|mutation)\s+(\w+)`)

// Request is one decoded call received by the server.
type Request struct {
	Op        string
	Query     string
	Variables map[string]any
	Header    http.Header
}

// Handler answers one operation with a data payload and optional error messages.
type Handler func(req Request) (data any, errs []string)

// Server records calls and dispatches them by operation name.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Request
}

// NewServer starts a server that is closed when t finishes.
func NewServer(t testing.TB) *Server {
	s := &Server{handlers: make(map[string]Handler)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle installs h for operation op, replacing any previous handler.
func (s *Server) Handle(op string, h Handler) {
	s.mu.Lock()
	s.handlers[op] = h
	s.mu.Unlock()
}

// Respond answers op with a fixed data payload.
func (s *Server) Respond(op string, data any) {
	s.Handle(op, func(Request) (any, []string) { return data, nil })
}

// Fail answers op with a GraphQL error.
func (s *Server) Fail(op, message string) {
	s.Handle(op, func(Request) (any, []string) { return nil, []string{message} })
}

// Calls returns the requests received for op.
func (s *Server) Calls(op string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, c := range s.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	req := Request{Query: body.Query, Variables: body.Variables, Header: r.Header.Clone()}
	if m := opName.FindStringSubmatch(body.Query); m != nil {
		req.Op = m[1]
	}

	s.mu.Lock()
	s.calls = append(s.calls, req)
	h := s.handlers[req.Op]
	s.mu.Unlock()

	var (
		data any
		errs []string
	)
	if h == nil {
		errs = []string{"unknown operation " + req.Op}
	} else {
		data, errs = h(req)
	}

	resp := map[string]any{"data": data}
	if len(errs) > 0 {
		list := make([]map[string]string, 0, len(errs))
		for _, e := range errs {
			list = append(list, map[string]string{"message": e})
		}
		resp["errors"] = list
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
