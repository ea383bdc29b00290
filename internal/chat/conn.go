// Package chat provides the core relay domain shared by all transports:
// the connection abstraction, the client registry, the broadcast engine,
// and the per-connection handler state machine.
package chat

// Conn abstracts a framed bidirectional connection for both TCP and
// WebSocket. Frames cross this interface fully encoded (header included) so
// the broadcaster can relay them to other connections unchanged.
type Conn interface {
	// ReadFrame reads one complete encoded frame.
	// Returns protocol.ErrConnectionClosed on a boundary-aligned disconnect.
	ReadFrame() ([]byte, error)

	// WriteFrame sends one complete encoded frame. It is safe for
	// concurrent use; a single call carries exactly one frame.
	WriteFrame(frame []byte) error

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the remote address for logging.
	RemoteAddr() string
}
