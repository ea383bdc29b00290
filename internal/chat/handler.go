package chat

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"chat-relay/pkg/protocol"
)

// Handler owns one accepted connection and drives it through its lifecycle:
// the first frame must be a JOIN that registers the client, then TEXT and
// FILE frames are relayed unchanged to everyone else until the client
// leaves or the connection fails. Any error terminates only this
// connection.
type Handler struct {
	conn     Conn
	registry *Registry
	caster   *Broadcaster
}

// NewHandler creates a handler for one accepted connection.
func NewHandler(conn Conn, registry *Registry, caster *Broadcaster) *Handler {
	return &Handler{
		conn:     conn,
		registry: registry,
		caster:   caster,
	}
}

// Run processes the connection until it closes. It blocks and is meant to
// be invoked in its own goroutine, one per connection.
func (h *Handler) Run() {
	defer h.conn.Close()

	username, token, ok := h.awaitJoin()
	if !ok {
		return
	}

	defer func() {
		// Unregister first so the LEAVE announcement cannot loop back to a
		// half-removed record.
		h.registry.Unregister(token)
		h.announce(token, protocol.MessageTypeLeave, username)
		log.Printf("%s (%s) left", username, h.conn.RemoteAddr())
	}()

	h.serve(username, token)
}

// awaitJoin reads the registration frame. A non-JOIN first frame, an empty
// username, or a duplicate username is answered with an ERROR frame and the
// connection is closed.
func (h *Handler) awaitJoin() (username string, token Token, ok bool) {
	frame, err := h.conn.ReadFrame()
	if err != nil {
		if !errors.Is(err, protocol.ErrConnectionClosed) {
			log.Printf("Failed to read join frame from %s: %v", h.conn.RemoteAddr(), err)
		}
		return "", "", false
	}

	msg, err := protocol.Decode(frame)
	if err != nil {
		log.Printf("Failed to decode join frame from %s: %v", h.conn.RemoteAddr(), err)
		h.reject("invalid frame")
		return "", "", false
	}
	if msg.Type != protocol.MessageTypeJoin {
		h.reject(fmt.Sprintf("expected JOIN, got %s", msg.Type))
		return "", "", false
	}
	username = string(msg.Payload)
	if username == "" {
		h.reject("username must not be empty")
		return "", "", false
	}

	token, err = h.registry.Register(username, h.conn)
	if err != nil {
		h.reject("username already taken")
		return "", "", false
	}

	log.Printf("%s (%s) joined", username, h.conn.RemoteAddr())
	h.announce(token, protocol.MessageTypeJoin, username)
	h.reply(protocol.MessageTypeText, "[Server]::Welcome! Type /help for commands.")
	return username, token, true
}

// serve relays frames until the client leaves or the connection fails.
func (h *Handler) serve(username string, token Token) {
	for {
		frame, err := h.conn.ReadFrame()
		if err != nil {
			if !errors.Is(err, protocol.ErrConnectionClosed) {
				log.Printf("Error reading from %s: %v", username, err)
			}
			return
		}

		msg, err := protocol.Decode(frame)
		if err != nil {
			log.Printf("Failed to decode frame from %s: %v", username, err)
			return
		}

		switch msg.Type {
		case protocol.MessageTypeText, protocol.MessageTypeFile:
			h.caster.Broadcast(token, frame)
		case protocol.MessageTypeUsers:
			h.reply(protocol.MessageTypeUsers, strings.Join(h.registry.Identities(), ", "))
		case protocol.MessageTypeLeave:
			return
		default:
			// A second JOIN (or a server-only type) in the active state is
			// a protocol violation.
			h.reject(fmt.Sprintf("unexpected %s frame", msg.Type))
			return
		}
	}
}

// announce broadcasts a JOIN or LEAVE notice carrying the username,
// excluding the announcing connection.
func (h *Handler) announce(token Token, mt protocol.MessageType, username string) {
	msg := protocol.Message{Type: mt, Payload: []byte(username)}
	frame, err := msg.Encode()
	if err != nil {
		log.Printf("Failed to encode %s announcement: %v", mt, err)
		return
	}
	h.caster.Broadcast(token, frame)
}

// reply writes a frame directly to this handler's own connection.
func (h *Handler) reply(mt protocol.MessageType, text string) {
	msg := protocol.Message{Type: mt, Payload: []byte(text)}
	frame, err := msg.Encode()
	if err != nil {
		log.Printf("Failed to encode %s reply: %v", mt, err)
		return
	}
	if err := h.conn.WriteFrame(frame); err != nil {
		log.Printf("Failed to write %s reply to %s: %v", mt, h.conn.RemoteAddr(), err)
	}
}

// reject sends an ERROR frame; the caller closes the connection.
func (h *Handler) reject(reason string) {
	h.reply(protocol.MessageTypeError, reason)
}
