// Package ws provides the WebSocket transport for the relay using
// gobwas/ws. Every binary WebSocket message carries exactly one encoded
// frame, byte-identical to what travels over raw TCP, so both transports
// share the registry and broadcaster unchanged.
package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"chat-relay/pkg/protocol"
)

// Conn adapts a WebSocket connection to chat.Conn. The same type serves
// both sides of the protocol; ws.State selects frame masking and direction.
type Conn struct {
	conn  net.Conn
	rw    io.ReadWriter
	state ws.State
	wmu   sync.Mutex
}

// NewServerConn wraps an upgraded connection on the server side.
func NewServerConn(conn net.Conn) *Conn {
	return &Conn{conn: conn, rw: conn, state: ws.StateServerSide}
}

// NewServerConnWithReader wraps an upgraded connection whose first bytes
// were already pulled into a reader during protocol detection.
func NewServerConnWithReader(conn net.Conn, reader io.Reader) *Conn {
	return &Conn{
		conn:  conn,
		rw:    readWriter{Reader: reader, Writer: conn},
		state: ws.StateServerSide,
	}
}

// Dial connects to a relay server over WebSocket.
func Dial(ctx context.Context, address string) (*Conn, error) {
	conn, br, _, err := ws.DefaultDialer.Dial(ctx, "ws://"+address)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", address, err)
	}
	c := &Conn{conn: conn, rw: conn, state: ws.StateClientSide}
	if br != nil {
		// The handshake may have buffered the beginning of the stream.
		c.rw = readWriter{Reader: br, Writer: conn}
	}
	return c, nil
}

// ReadFrame implements chat.Conn. It skips non-binary messages and maps the
// peer's close handshake to the same boundary-aligned disconnect raw TCP
// reports.
func (c *Conn) ReadFrame() ([]byte, error) {
	for {
		data, op, err := wsutil.ReadData(c.rw, c.state)
		if err != nil {
			var closed wsutil.ClosedError
			if errors.As(err, &closed) ||
				errors.Is(err, io.EOF) ||
				errors.Is(err, net.ErrClosed) {
				return nil, protocol.ErrConnectionClosed
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("reading websocket message: %w", protocol.ErrTruncatedFrame)
			}
			return nil, fmt.Errorf("reading websocket message: %w", err)
		}
		if op == ws.OpBinary {
			return data, nil
		}
	}
}

// WriteFrame implements chat.Conn.
func (c *Conn) WriteFrame(frame []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return wsutil.WriteMessage(c.rw, c.state, ws.OpBinary, frame)
}

// Close sends a close frame and closes the underlying connection.
func (c *Conn) Close() error {
	c.wmu.Lock()
	_ = wsutil.WriteMessage(c.rw, c.state, ws.OpClose, nil)
	c.wmu.Unlock()
	return c.conn.Close()
}

// RemoteAddr implements chat.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// readWriter splits the read and write halves of a connection when reads
// must drain a buffered reader first.
type readWriter struct {
	io.Reader
	io.Writer
}
