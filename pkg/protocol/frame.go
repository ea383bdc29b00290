package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// headerSize is the byte count of the length prefix.
const headerSize = 4

// Encode builds the complete frame for the message:
// [4-byte big-endian length][1-byte type][payload], where length covers the
// type byte plus the payload. The codec imposes no cap below the 32-bit
// limit of the length field itself.
func (m Message) Encode() ([]byte, error) {
	body := 1 + len(m.Payload)
	if uint64(body) > math.MaxUint32 {
		return nil, fmt.Errorf("encode %d byte payload: %w", len(m.Payload), ErrFrameTooLarge)
	}
	frame := make([]byte, headerSize+body)
	binary.BigEndian.PutUint32(frame[:headerSize], uint32(body))
	frame[headerSize] = byte(m.Type)
	copy(frame[headerSize+1:], m.Payload)
	return frame, nil
}

// Decode parses a complete encoded frame as produced by Encode or returned
// by ReadFrame. The announced length must match the buffer exactly and the
// type byte must be a known MessageType.
func Decode(frame []byte) (Message, error) {
	if len(frame) < headerSize+1 {
		return Message{}, fmt.Errorf("decode %d byte frame: %w", len(frame), ErrTruncatedFrame)
	}
	body := binary.BigEndian.Uint32(frame[:headerSize])
	if uint64(body) != uint64(len(frame)-headerSize) {
		return Message{}, fmt.Errorf("header says %d body bytes, frame has %d: %w",
			body, len(frame)-headerSize, ErrTruncatedFrame)
	}
	mt := MessageType(frame[headerSize])
	if !mt.known() {
		return Message{}, &UnknownTypeError{Type: frame[headerSize]}
	}
	return Message{Type: mt, Payload: frame[headerSize+1:]}, nil
}

// ReadFrame reads exactly one frame from the stream and returns its complete
// encoding, header included, so it can be relayed to other connections
// unchanged. TCP fragments and coalesces at will, so both the header and the
// body are accumulated with as many reads as the stream requires.
//
// An EOF before the first header byte is a boundary-aligned disconnect and
// is reported as ErrConnectionClosed; an EOF anywhere inside a frame is
// reported as ErrTruncatedFrame.
func ReadFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrConnectionClosed
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("reading header: %w", ErrTruncatedFrame)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	body := binary.BigEndian.Uint32(header)
	if body == 0 {
		// No room for the type byte.
		return nil, fmt.Errorf("zero-length body: %w", ErrTruncatedFrame)
	}

	frame := make([]byte, headerSize+int(body))
	copy(frame, header)
	if _, err := io.ReadFull(r, frame[headerSize:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("reading %d byte body: %w", body, ErrTruncatedFrame)
		}
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return frame, nil
}

// WriteFrame encodes the message and writes it to the stream in a single
// Write call, so one call carries exactly one frame.
func WriteFrame(w io.Writer, m Message) error {
	frame, err := m.Encode()
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
