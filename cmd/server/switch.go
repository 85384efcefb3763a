package main

import (
	"net/http"
	"sync/atomic"
)

// switchHandler serves the startup mux until the full API is installed
type switchHandler struct {
	next    http.Handler
	current atomic.Pointer[http.Handler]
}

func (s *switchHandler) Set(h http.Handler) {
	s.current.Store(&h)
}

func (s *switchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h := s.current.Load(); h != nil {
		(*h).ServeHTTP(w, r)
		return
	}
	s.next.ServeHTTP(w, r)
}
