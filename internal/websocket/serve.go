package websocket

import (
	"log"
	"net/http"
)

// Serve upgrades the request and runs the connection until it drops. The
// caller's goroutine is used for the read pump, so inbound events from
// one connection are dispatched strictly in order.
func Serve(s *Session, hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}

	client := NewClient(hub, conn)
	log.Printf("ws conn %s opened from %s", client.ID, r.RemoteAddr)
	go client.WritePump()
	client.ReadPump(s)
	log.Printf("ws conn %s closed", client.ID)
}
