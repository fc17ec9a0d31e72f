// Package gatewaytest runs a fake API gateway for handler and service tests.
package gatewaytest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"rumal.store/web/internal/gateway"
)

// Call is one request seen by the fake gateway.
type Call struct {
	Method string
	Path   string
	Query  string
	Token  string
	Body   string
}

// Fake serves canned handlers keyed by "METHOD /path" and records calls.
type Fake struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []Call
	srv    *httptest.Server
}

// New starts a fake gateway and returns it with a client pointed at it.
func New(t testing.TB) (*Fake, *gateway.Client) {
	t.Helper()
	f := &Fake{routes: map[string]http.HandlerFunc{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)

	c, err := gateway.New(gateway.Config{BaseURL: f.srv.URL, Timeout: 2 * time.Second}, nil)
	if err != nil {
		t.Fatalf("gateway client: %v", err)
	}
	return f, c
}

func (f *Fake) Handle(route string, h http.HandlerFunc) {
	f.mu.Lock()
	f.routes[route] = h
	f.mu.Unlock()
}

// JSON answers route with status and v encoded as JSON.
func (f *Fake) JSON(route string, status int, v any) {
	f.Handle(route, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, v)
	})
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Count returns how many times route was called.
func (f *Fake) Count(route string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method+" "+c.Path == route {
			n++
		}
	}
	return n
}

func (f *Fake) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	route := r.Method + " " + r.URL.Path

	f.mu.Lock()
	tok := r.Header.Get("Authorization")
	if len(tok) > 7 {
		tok = tok[7:]
	}
	f.calls = append(f.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Token: tok, Body: string(body)})
	h, ok := f.routes[route]
	f.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "no route " + route})
		return
	}
	h(w, r)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
