// Command client is a terminal UI for the skeleton-arena chat server. It
// connects over websocket, renders incoming chat and system messages, and
// sends whatever is typed into the input view.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "ws://127.0.0.1:8080/ws", "websocket URL of the chat server")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	ui, err := NewChatUI(conn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing terminal UI: %v\n", err)
		os.Exit(1)
	}
	defer ui.Close()

	if err := ui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "client error: %v\n", err)
		os.Exit(1)
	}
}
