package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"chat-relay/internal/server"
)

func main() {
	addr := flag.String("addr", ":12000", "Address to listen on for both TCP and WebSocket (e.g. :12000)")
	flag.Parse()

	srv := server.New(*addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting relay server on %s...", *addr)
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
		srv.Stop()
	}

	log.Println("Server stopped")
}
