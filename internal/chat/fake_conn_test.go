package chat_test

import (
	"errors"
	"sync"

	"chat-relay/internal/chat"
	"chat-relay/pkg/protocol"
)

// fakeConn is an in-memory chat.Conn for driving handlers and broadcasts
// without sockets. Frames pushed onto inbound are returned by ReadFrame;
// frames written by the code under test are recorded.
type fakeConn struct {
	addr    string
	inbound chan []byte

	mu         sync.Mutex
	written    [][]byte
	failWrites bool

	closeOnce sync.Once
	closed    chan struct{}
}

var _ chat.Conn = (*fakeConn)(nil)

func newFakeConn(addr string) *fakeConn {
	return &fakeConn{
		addr:    addr,
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadFrame() ([]byte, error) {
	select {
	case frame, ok := <-c.inbound:
		if !ok {
			return nil, protocol.ErrConnectionClosed
		}
		return frame, nil
	case <-c.closed:
		return nil, protocol.ErrConnectionClosed
	}
}

func (c *fakeConn) WriteFrame(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("write refused")
	}
	c.written = append(c.written, append([]byte(nil), frame...))
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) RemoteAddr() string {
	return c.addr
}

// push queues an encoded frame for ReadFrame.
func (c *fakeConn) push(mt protocol.MessageType, payload []byte) {
	frame, err := protocol.Message{Type: mt, Payload: payload}.Encode()
	if err != nil {
		panic(err)
	}
	c.inbound <- frame
}

// disconnect simulates a boundary-aligned peer disconnect.
func (c *fakeConn) disconnect() {
	close(c.inbound)
}

// writtenFrames returns a copy of everything written so far.
func (c *fakeConn) writtenFrames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	frames := make([][]byte, len(c.written))
	copy(frames, c.written)
	return frames
}

// writtenMessages decodes everything written so far.
func (c *fakeConn) writtenMessages() []protocol.Message {
	var msgs []protocol.Message
	for _, frame := range c.writtenFrames() {
		msg, err := protocol.Decode(frame)
		if err != nil {
			panic(err)
		}
		msgs = append(msgs, msg)
	}
	return msgs
}
