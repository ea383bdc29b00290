// Package tcp provides the raw-TCP transport for the relay: a framed
// connection adapter and an accept-loop server.
package tcp

import (
	"bufio"
	"io"
	"net"
	"sync"

	"chat-relay/pkg/protocol"
)

// Conn adapts net.Conn to chat.Conn, framing the byte stream with the
// length-prefixed codec.
type Conn struct {
	conn net.Conn
	r    io.Reader
	wmu  sync.Mutex
}

// NewConn wraps a net.Conn.
func NewConn(conn net.Conn) *Conn {
	return &Conn{conn: conn, r: conn}
}

// NewConnWithReader wraps a net.Conn whose first bytes were already pulled
// into a buffered reader during protocol detection. Reads go through the
// reader; writes go straight to the connection.
func NewConnWithReader(conn net.Conn, reader *bufio.Reader) *Conn {
	return &Conn{conn: conn, r: reader}
}

// ReadFrame implements chat.Conn. It blocks across as many underlying reads
// as the stream needs to yield one complete frame.
func (c *Conn) ReadFrame() ([]byte, error) {
	return protocol.ReadFrame(c.r)
}

// WriteFrame implements chat.Conn. Writes are serialized so concurrent
// broadcasts and direct replies never interleave inside one frame.
func (c *Conn) WriteFrame(frame []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.conn.Write(frame)
	return err
}

// Close implements chat.Conn.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr implements chat.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
