// Package protocol implements the length-prefixed wire format shared by the
// server and the client: a 4-byte big-endian length, a 1-byte message type,
// and a raw payload. Text payload fields are joined by the two-byte
// separator "::"; file bodies are raw and never re-split.
package protocol

import (
	"bytes"
	"fmt"
)

// MessageType is the one-byte type field of a frame.
type MessageType byte

const (
	MessageTypeText  MessageType = 0x01
	MessageTypeFile  MessageType = 0x02
	MessageTypeJoin  MessageType = 0x03
	MessageTypeLeave MessageType = 0x04
	MessageTypeUsers MessageType = 0x05
	MessageTypeError MessageType = 0x06
)

// String returns the string representation of MessageType.
func (mt MessageType) String() string {
	switch mt {
	case MessageTypeText:
		return "TEXT"
	case MessageTypeFile:
		return "FILE"
	case MessageTypeJoin:
		return "JOIN"
	case MessageTypeLeave:
		return "LEAVE"
	case MessageTypeUsers:
		return "USERS"
	case MessageTypeError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (mt MessageType) known() bool {
	return mt >= MessageTypeText && mt <= MessageTypeError
}

// Message is one decoded frame.
type Message struct {
	Type    MessageType
	Payload []byte
}

// separator delimits text fields inside a payload. File bodies may contain
// the same byte sequence; SplitFile never splits past the second occurrence.
var separator = []byte("::")

// TextPayload builds the payload of a TEXT frame: "username::text".
func TextPayload(username, text string) []byte {
	p := make([]byte, 0, len(username)+len(separator)+len(text))
	p = append(p, username...)
	p = append(p, separator...)
	p = append(p, text...)
	return p
}

// SplitText splits a TEXT payload into username and message text.
func SplitText(payload []byte) (username, text string, err error) {
	parts := bytes.SplitN(payload, separator, 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("text payload: %w", ErrMalformedPayload)
	}
	return string(parts[0]), string(parts[1]), nil
}

// FilePayload builds the payload of a FILE frame:
// "username::filename::<raw bytes>".
func FilePayload(username, filename string, data []byte) []byte {
	p := make([]byte, 0, len(username)+len(filename)+2*len(separator)+len(data))
	p = append(p, username...)
	p = append(p, separator...)
	p = append(p, filename...)
	p = append(p, separator...)
	p = append(p, data...)
	return p
}

// SplitFile splits a FILE payload into username, filename, and the raw file
// body. Only the first two separator occurrences delimit fields; the body is
// returned verbatim even when it contains the separator sequence.
func SplitFile(payload []byte) (username, filename string, data []byte, err error) {
	parts := bytes.SplitN(payload, separator, 3)
	if len(parts) != 3 {
		return "", "", nil, fmt.Errorf("file payload: %w", ErrMalformedPayload)
	}
	return string(parts[0]), string(parts[1]), parts[2], nil
}
