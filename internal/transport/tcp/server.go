package tcp

import (
	"fmt"
	"log"
	"net"
	"sync"

	"chat-relay/internal/chat"
)

// Server accepts raw TCP connections and runs one chat.Handler per
// connection against the shared registry.
type Server struct {
	address  string
	listener net.Listener
	registry *chat.Registry
	caster   *chat.Broadcaster
	quit     chan struct{}
	wg       sync.WaitGroup
}

// New creates a TCP server over the shared registry and broadcaster.
func New(address string, registry *chat.Registry, caster *chat.Broadcaster) *Server {
	return &Server{
		address:  address,
		registry: registry,
		caster:   caster,
		quit:     make(chan struct{}),
	}
}

// Start starts accepting TCP connections. It blocks until Stop is called
// and only fails on listener setup.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start TCP server: %w", err)
	}
	s.listener = listener

	log.Printf("TCP server started on %s", listener.Addr().String())

	for {
		select {
		case <-s.quit:
			return nil
		default:
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-s.quit:
					return nil
				default:
					log.Printf("Failed to accept TCP connection: %v", err)
					continue
				}
			}

			handler := chat.NewHandler(NewConn(conn), s.registry, s.caster)
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				handler.Run()
			}()
		}
	}
}

// Stop stops the TCP server, closes the remaining client connections, and
// waits for the per-connection handlers.
func (s *Server) Stop() {
	close(s.quit)
	if s.listener != nil {
		s.listener.Close()
	}
	for _, conn := range s.registry.SnapshotExcluding("") {
		conn.Close()
	}
	s.wg.Wait()
}

// Addr returns the listening address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
