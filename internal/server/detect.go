package server

import (
	"bufio"
	"bytes"
)

type connKind int

const (
	kindFramed connKind = iota
	kindHTTP
)

// httpMethodPrefixes are the first four bytes of every HTTP request line
// that could open a WebSocket handshake. Relay frames start with a 4-byte
// big-endian length, so any printable method prefix is unambiguous.
var httpMethodPrefixes = [][]byte{
	[]byte("GET "),
	[]byte("POST"),
	[]byte("PUT "),
	[]byte("HEAD"),
	[]byte("OPTI"),
	[]byte("PATC"),
	[]byte("DELE"),
	[]byte("CONN"),
}

// detectKind peeks at the first bytes of the connection to decide whether
// the peer speaks HTTP (a WebSocket upgrade) or the raw framed protocol.
// The peeked bytes stay in the returned reader.
func detectKind(reader *bufio.Reader) (connKind, error) {
	peek, err := reader.Peek(4)
	if err != nil {
		return kindFramed, err
	}
	for _, prefix := range httpMethodPrefixes {
		if bytes.HasPrefix(peek, prefix) {
			return kindHTTP, nil
		}
	}
	return kindFramed, nil
}
