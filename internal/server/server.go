// Package server implements the TCP acceptor and the per-connection
// request pipeline: rate check, bounded read, request-line parse, path
// resolution, hit counting and response synthesis. Every connection
// carries exactly one request and is closed after the response.
package server

import (
	"net"
	"sync"

	"github.com/FilipObrijan/LAB2-PR/internal/config"
	"github.com/FilipObrijan/LAB2-PR/internal/content"
	"github.com/FilipObrijan/LAB2-PR/internal/hits"
	"github.com/FilipObrijan/LAB2-PR/internal/obs"
	"github.com/FilipObrijan/LAB2-PR/internal/ratelimit"
)

type Server struct {
	cfg     *config.Config
	root    *content.Root
	limiter *ratelimit.Limiter
	hits    *hits.Counter
	log     obs.Logger
	meter   obs.Meter

	// slots caps the number of in-flight connection handlers at
	// cfg.MaxWorkers. Accept blocks when the cap is reached.
	slots chan struct{}

	mu sync.Mutex
	ln net.Listener
}

func New(cfg *config.Config, root *content.Root, limiter *ratelimit.Limiter, counter *hits.Counter, log obs.Logger, meter obs.Meter) *Server {
	if log == nil {
		log = obs.NopLogger{}
	}
	if meter == nil {
		meter = obs.NopMeter{}
	}
	workers := cfg.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	return &Server{
		cfg:     cfg,
		root:    root,
		limiter: limiter,
		hits:    counter,
		log:     log,
		meter:   meter,
		slots:   make(chan struct{}, workers),
	}
}

func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.ServerAddress())
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections until the listener fails or is closed and
// hands each to its own goroutine. A handler panic or error never stops
// the loop; the worker slot bounds how many handlers run at once.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	defer ln.Close()

	for {
		c, err := ln.Accept()
		if err != nil {
			return err
		}
		s.slots <- struct{}{}
		go func(c net.Conn) {
			defer func() { <-s.slots }()
			s.serveConn(c)
		}(c)
	}
}

// Shutdown closes the listener so Serve returns. In-flight handlers are
// not drained; shutdown is abrupt.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	return ln.Close()
}

// Addr returns the bound listener address, nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}
