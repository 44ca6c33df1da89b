// Package nntp implements the reader/poster NNTP command surface over
// internal/store: one accept loop, one goroutine per connection, with
// per-connection state living on the connection value, never in
// package globals.
package nntp

import (
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/lornews/lord/internal/config"
	"github.com/lornews/lord/internal/store"
)

// Server is the NNTP accept loop.
type Server struct {
	Cfg      *config.GatewayConfig
	Store    *store.Store
	Listener net.Listener

	Stats *ServerStats

	mu      sync.Mutex
	running bool
}

// NewServer creates a Server bound to cfg/store. It does not listen yet.
func NewServer(cfg *config.GatewayConfig, st *store.Store) *Server {
	return &Server{Cfg: cfg, Store: st, Stats: NewServerStats()}
}

// Start listens on cfg.NNTPPort and serves connections until the
// listener is closed or a fatal accept error occurs. There is no
// graceful shutdown; the accept loop exits only on fatal error.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.mu.Unlock()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.Cfg.NNTPPort))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.Cfg.NNTPPort, err)
	}
	s.Listener = listener
	log.Printf("lord NNTP server listening on port %d", s.Cfg.NNTPPort)

	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	s.Stats.ConnectionStarted()
	defer s.Stats.ConnectionEnded()

	cc := newClientConn(conn, s)
	if err := cc.handle(); err != nil {
		log.Printf("[NNTP] connection from %s: %v", conn.RemoteAddr(), err)
	}
}

var deadline = 120 * time.Second
