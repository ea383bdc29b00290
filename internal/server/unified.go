// Package server provides the unified relay server: one listening socket
// accepting both raw framed TCP connections and WebSocket clients, all fed
// into the shared registry and broadcaster.
package server

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"sync"

	gobwas "github.com/gobwas/ws"

	"chat-relay/internal/chat"
	"chat-relay/internal/transport/tcp"
	"chat-relay/internal/transport/ws"
)

// Server accepts connections on a single port and routes each one to the
// matching transport adapter. One chat.Handler runs per connection; the
// registry is the only state they share.
type Server struct {
	address  string
	listener net.Listener
	registry *chat.Registry
	caster   *chat.Broadcaster
	quit     chan struct{}
	wg       sync.WaitGroup
}

// New creates a unified server.
func New(address string) *Server {
	registry := chat.NewRegistry()
	return &Server{
		address:  address,
		registry: registry,
		caster:   chat.NewBroadcaster(registry),
		quit:     make(chan struct{}),
	}
}

// Start listens and accepts until Stop is called. It only returns an error
// for listener setup failures; per-connection errors never escape their
// handler.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	log.Printf("Server started on %s (TCP and WebSocket)", listener.Addr().String())

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
					log.Printf("Failed to accept connection: %v", err)
					continue
				}
			}

			s.wg.Add(1)
			go s.route(conn)
		}
	}
}

// Stop closes the listener and the remaining client connections, then waits
// for the per-connection handlers.
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

// ClientCount returns the number of registered clients.
func (s *Server) ClientCount() int {
	return s.registry.Len()
}

// route inspects the first bytes of an accepted connection and hands it to
// the raw-TCP or WebSocket adapter.
func (s *Server) route(conn net.Conn) {
	defer s.wg.Done()

	reader := bufio.NewReader(conn)
	kind, err := detectKind(reader)
	if err != nil {
		log.Printf("Failed to peek connection from %s: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	var framed chat.Conn
	switch kind {
	case kindHTTP:
		buffered := &bufferedConn{Conn: conn, reader: reader}
		if _, err := gobwas.Upgrade(buffered); err != nil {
			log.Printf("Failed to upgrade connection from %s: %v", conn.RemoteAddr(), err)
			conn.Close()
			return
		}
		framed = ws.NewServerConnWithReader(conn, reader)
	default:
		framed = tcp.NewConnWithReader(conn, reader)
	}

	chat.NewHandler(framed, s.registry, s.caster).Run()
}

// bufferedConn replays bytes already pulled into the bufio.Reader during
// protocol detection.
type bufferedConn struct {
	net.Conn
	reader *bufio.Reader
}

func (bc *bufferedConn) Read(p []byte) (int, error) {
	return bc.reader.Read(p)
}
