package chat

import "log"

// Broadcaster fans encoded frames out to every registered connection except
// the sender.
type Broadcaster struct {
	registry *Registry
}

// NewBroadcaster creates a Broadcaster over the registry.
func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Broadcast writes the already-encoded frame to every registered connection
// except the sender's. A write failure on one recipient is logged and
// skipped: it never aborts delivery to the rest and never surfaces to the
// sender. The failed recipient's own handler tears the connection down when
// it next touches the dead socket.
func (b *Broadcaster) Broadcast(sender Token, frame []byte) {
	for _, conn := range b.registry.SnapshotExcluding(sender) {
		if err := conn.WriteFrame(frame); err != nil {
			log.Printf("Failed to deliver to %s: %v", conn.RemoteAddr(), err)
		}
	}
}
