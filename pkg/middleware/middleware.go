// Package middleware provides the HTTP middleware stack shared by the server.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mws ...Middleware)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	layers []Middleware
}

// New creates an empty middleware System.
func New() System {
	return &stack{
		layers: []Middleware{},
	}
}

// Use appends middleware. The first registered layer is the outermost.
func (s *stack) Use(mws ...Middleware) {
	s.layers = append(s.layers, mws...)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.layers) - 1; i >= 0; i-- {
		handler = s.layers[i](handler)
	}
	return handler
}
