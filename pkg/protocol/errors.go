package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionClosed reports a clean peer disconnect exactly at a
	// frame boundary. It signals orderly teardown, not a fault.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrTruncatedFrame reports a disconnect in the middle of a frame, or a
	// header announcing a length with no room for the type byte.
	ErrTruncatedFrame = errors.New("truncated frame")

	// ErrFrameTooLarge reports an encode-time payload whose framed length
	// does not fit in 32 bits.
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrMalformedPayload reports a payload missing a required "::" field
	// separator.
	ErrMalformedPayload = errors.New("malformed payload")
)

// UnknownTypeError reports a decoded type byte outside the known range.
type UnknownTypeError struct {
	Type byte
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown message type 0x%02x", e.Type)
}
