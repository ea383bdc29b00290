package protocol_test

import (
	"bytes"
	"errors"
	"testing"

	"chat-relay/pkg/protocol"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name         string
		payload      []byte
		wantUsername string
		wantText     string
		wantErr      bool
	}{
		{
			name:         "plain message",
			payload:      []byte("alice::hi"),
			wantUsername: "alice",
			wantText:     "hi",
		},
		{
			name:         "message containing separator",
			payload:      []byte("alice::note:: see below"),
			wantUsername: "alice",
			wantText:     "note:: see below",
		},
		{
			name:         "empty message text",
			payload:      []byte("alice::"),
			wantUsername: "alice",
			wantText:     "",
		},
		{
			name:    "missing separator",
			payload: []byte("alice"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			username, text, err := protocol.SplitText(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, protocol.ErrMalformedPayload) {
					t.Errorf("SplitText() error = %v, want ErrMalformedPayload", err)
				}
				return
			}
			if username != tt.wantUsername {
				t.Errorf("SplitText() username = %q, want %q", username, tt.wantUsername)
			}
			if text != tt.wantText {
				t.Errorf("SplitText() text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestSplitText_RoundTrip(t *testing.T) {
	payload := protocol.TextPayload("alice", "hello there")
	username, text, err := protocol.SplitText(payload)
	if err != nil {
		t.Fatalf("SplitText() error = %v", err)
	}
	if username != "alice" || text != "hello there" {
		t.Errorf("round trip = (%q, %q), want (alice, hello there)", username, text)
	}
}

func TestSplitFile(t *testing.T) {
	// 37 raw bytes including the separator sequence and null bytes.
	body := []byte("\x00\x01::raw::\xfe\xffbinary body padding.......")
	if len(body) != 37 {
		t.Fatalf("fixture is %d bytes, want 37", len(body))
	}

	payload := protocol.FilePayload("alice", "photo.png", body)
	username, filename, data, err := protocol.SplitFile(payload)
	if err != nil {
		t.Fatalf("SplitFile() error = %v", err)
	}
	if username != "alice" {
		t.Errorf("SplitFile() username = %q, want %q", username, "alice")
	}
	if filename != "photo.png" {
		t.Errorf("SplitFile() filename = %q, want %q", filename, "photo.png")
	}
	if !bytes.Equal(data, body) {
		t.Errorf("SplitFile() data = %x, want %x", data, body)
	}
}

func TestSplitFile_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"no separators", []byte("alice")},
		{"one separator", []byte("alice::photo.png")},
		{"empty payload", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := protocol.SplitFile(tt.payload)
			if !errors.Is(err, protocol.ErrMalformedPayload) {
				t.Errorf("SplitFile() error = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestMessageType_String(t *testing.T) {
	tests := []struct {
		mt   protocol.MessageType
		want string
	}{
		{protocol.MessageTypeText, "TEXT"},
		{protocol.MessageTypeFile, "FILE"},
		{protocol.MessageTypeJoin, "JOIN"},
		{protocol.MessageTypeLeave, "LEAVE"},
		{protocol.MessageTypeUsers, "USERS"},
		{protocol.MessageTypeError, "ERROR"},
		{protocol.MessageType(0x7f), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.mt.String(); got != tt.want {
			t.Errorf("MessageType(0x%02x).String() = %q, want %q", byte(tt.mt), got, tt.want)
		}
	}
}
