// Package client provides the interactive relay client session: a send API
// used by the foreground input loop and one background goroutine that
// receives frames and delivers decoded messages on a channel.
package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"chat-relay/internal/chat"
	"chat-relay/internal/transport/tcp"
	"chat-relay/internal/transport/ws"
	"chat-relay/pkg/protocol"
)

// Transport names accepted by New.
const (
	TransportTCP = "tcp"
	TransportWS  = "ws"
)

const dialTimeout = 10 * time.Second

// Session is a connection to the relay server. Exactly two goroutines touch
// the socket: the caller's send path and the internal receive loop; the
// connection adapter serializes the writes.
type Session struct {
	address   string
	username  string
	transport string

	mu   sync.RWMutex
	conn chat.Conn

	messages chan protocol.Message
	done     chan struct{}
	wg       sync.WaitGroup
}

// New creates a session for the given server address, username, and
// transport ("tcp" or "ws").
func New(address, username, transport string) *Session {
	return &Session{
		address:   address,
		username:  username,
		transport: transport,
		messages:  make(chan protocol.Message, 10),
		done:      make(chan struct{}),
	}
}

// Connect dials the server, announces the username with a JOIN frame, and
// starts the receive loop.
func (s *Session) Connect() error {
	var (
		conn chat.Conn
		err  error
	)
	switch s.transport {
	case TransportWS:
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()
		conn, err = ws.Dial(ctx, s.address)
	case TransportTCP, "":
		var nc net.Conn
		nc, err = net.DialTimeout("tcp", s.address, dialTimeout)
		if err == nil {
			conn = tcp.NewConn(nc)
		}
	default:
		return fmt.Errorf("unknown transport %q", s.transport)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	if err := s.send(protocol.MessageTypeJoin, []byte(s.username)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to join: %w", err)
	}

	s.wg.Add(1)
	go s.receive()

	return nil
}

// Disconnect closes the connection and waits for the receive loop.
func (s *Session) Disconnect() {
	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.mu.Unlock()

	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.wg.Wait()
}

// IsConnected reports whether the session holds a live connection.
func (s *Session) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn != nil
}

// SendText broadcasts a text message to the other participants.
func (s *Session) SendText(text string) error {
	return s.send(protocol.MessageTypeText, protocol.TextPayload(s.username, text))
}

// SendFile broadcasts a file to the other participants. Reading the file
// from disk is the caller's job; the session only frames the bytes.
func (s *Session) SendFile(filename string, data []byte) error {
	return s.send(protocol.MessageTypeFile, protocol.FilePayload(s.username, filename, data))
}

// RequestUsers asks the server for the list of connected usernames. The
// reply arrives on Messages as a USERS frame.
func (s *Session) RequestUsers() error {
	return s.send(protocol.MessageTypeUsers, nil)
}

// Quit tells the server this client is leaving. The server closes the
// conversation; the receive loop ends without reporting an error.
func (s *Session) Quit() error {
	return s.send(protocol.MessageTypeLeave, []byte(s.username))
}

// Messages returns the channel of decoded inbound messages. It is closed
// when the receive loop ends.
func (s *Session) Messages() <-chan protocol.Message {
	return s.messages
}

func (s *Session) send(mt protocol.MessageType, payload []byte) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return errors.New("not connected to server")
	}

	frame, err := protocol.Message{Type: mt, Payload: payload}.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode %s message: %w", mt, err)
	}
	if err := conn.WriteFrame(frame); err != nil {
		return fmt.Errorf("failed to send %s message: %w", mt, err)
	}
	return nil
}

// receive decodes inbound frames onto the messages channel until the server
// disconnects or the session is closed locally. A boundary-aligned
// disconnect and a deliberate local close are both silent.
func (s *Session) receive() {
	defer s.wg.Done()
	defer close(s.messages)

	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn == nil {
		return
	}

	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			if !errors.Is(err, protocol.ErrConnectionClosed) && !s.closing() {
				log.Printf("Error reading from server: %v", err)
			}
			return
		}

		msg, err := protocol.Decode(frame)
		if err != nil {
			log.Printf("Failed to decode message: %v", err)
			continue
		}

		select {
		case s.messages <- msg:
		case <-s.done:
			return
		}
	}
}

func (s *Session) closing() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
