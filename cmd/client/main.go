package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chat-relay/internal/client"
	"chat-relay/internal/client/filestore"
	"chat-relay/pkg/protocol"
)

const helpText = `Commands:
  /users           - List online users
  /send <filepath> - Send a file
  /help            - Show this help
  /quit            - Disconnect`

func main() {
	serverAddr := flag.String("server", "localhost:12000", "Server address (e.g. localhost:12000)")
	username := flag.String("username", "", "Username for the chat")
	transport := flag.String("transport", client.TransportTCP, "Transport to use: tcp or ws")
	downloads := flag.String("downloads", "received_files", "Directory for received files")
	flag.Parse()

	if *username == "" {
		log.Fatal("Username is required. Use -username flag")
	}

	store := filestore.New(*downloads)

	c := client.New(*serverAddr, *username, *transport)
	if err := c.Connect(); err != nil {
		log.Fatalf("Failed to connect to server: %v", err)
	}
	defer c.Disconnect()

	log.Printf("Connected to %s as %s", *serverAddr, *username)

	// Render inbound messages until the server side goes away.
	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		for msg := range c.Messages() {
			render(msg, store)
		}
	}()

	fmt.Println("You can start chatting. Type /help for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit":
			if err := c.Quit(); err != nil {
				log.Printf("Failed to send leave message: %v", err)
			}
			// Wait for the server to close the conversation.
			select {
			case <-rendered:
			case <-time.After(2 * time.Second):
			}
			log.Println("Disconnected from server")
			return

		case line == "/help":
			fmt.Println(helpText)

		case line == "/users":
			if err := c.RequestUsers(); err != nil {
				log.Printf("Failed to request user list: %v", err)
			}

		case strings.HasPrefix(line, "/send "):
			sendFile(c, strings.TrimSpace(line[len("/send "):]))

		default:
			if err := c.SendText(line); err != nil {
				log.Printf("Failed to send message: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Error reading input: %v", err)
	}

	if err := c.Quit(); err == nil {
		select {
		case <-rendered:
		case <-time.After(2 * time.Second):
		}
	}
	log.Println("Disconnected from server")
}

func sendFile(c *client.Session, path string) {
	if path == "" {
		fmt.Println("Usage: /send <path/to/your/file>")
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Failed to read file %q: %v", path, err)
		return
	}
	filename := filepath.Base(path)
	if err := c.SendFile(filename, data); err != nil {
		log.Printf("Failed to send file: %v", err)
		return
	}
	fmt.Printf("Sent file %q (%d bytes)\n", filename, len(data))
}

// render prints one inbound message with a timestamp; FILE payloads are
// persisted through the store.
func render(msg protocol.Message, store *filestore.Store) {
	ts := time.Now().Format("15:04:05")

	switch msg.Type {
	case protocol.MessageTypeText:
		username, text, err := protocol.SplitText(msg.Payload)
		if err != nil {
			fmt.Printf("[%s] %s\n", ts, msg.Payload)
			return
		}
		fmt.Printf("[%s] %s: %s\n", ts, username, text)

	case protocol.MessageTypeFile:
		username, filename, data, err := protocol.SplitFile(msg.Payload)
		if err != nil {
			fmt.Printf("[%s] [Error]: received malformed file message\n", ts)
			return
		}
		fmt.Printf("[%s] %s sent a file: %q (%d bytes)\n", ts, username, filename, len(data))
		path, err := store.Save(filename, data)
		if err != nil {
			fmt.Printf("[Error saving file %q: %v]\n", filename, err)
			return
		}
		fmt.Printf("[File saved to: %s]\n", path)

	case protocol.MessageTypeJoin:
		fmt.Printf("[%s] *** %s joined the chat ***\n", ts, msg.Payload)

	case protocol.MessageTypeLeave:
		fmt.Printf("[%s] *** %s left the chat ***\n", ts, msg.Payload)

	case protocol.MessageTypeUsers:
		fmt.Printf("[%s] Online users: %s\n", ts, msg.Payload)

	case protocol.MessageTypeError:
		fmt.Printf("[%s] [Server Error]: %s\n", ts, msg.Payload)
	}
}
