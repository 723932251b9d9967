package socket

import (
	"log"
	"sync"

	"coupleswipe_server/auth"
	"coupleswipe_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// Hub bridges per-identity notification relays onto socket.io rooms. A
// client joins with its bearer token; the hub then forwards every
// invitationReceived / gameSessionStarted event into the room named by the
// client's email. Each connection owns at most one live relay; rejoining
// stops the previous one first.
type Hub struct {
	Server *socketio.Server

	tokens        *auth.TokenService
	notifications *services.NotificationService

	mu     sync.Mutex
	relays map[string]*services.Relay
}

// NewHub initializes the Socket.IO server and its event handlers.
func NewHub(tokens *auth.TokenService, notifications *services.NotificationService) *Hub {
	server := socketio.NewServer(nil)
	h := &Hub{
		Server:        server,
		tokens:        tokens,
		notifications: notifications,
		relays:        make(map[string]*services.Relay),
	}

	server.OnConnect("/", func(s socketio.Conn) error {
		log.Println("Socket connected:", s.ID())
		return nil
	})

	server.OnEvent("/", "join", func(s socketio.Conn, token string) {
		email, err := h.tokens.Parse(token)
		if err != nil {
			log.Printf("Socket %s: join rejected: %v", s.ID(), err)
			s.Emit("joinError", "invalid token")
			return
		}
		h.attach(s, email)
		s.Emit("joined", email)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("Socket disconnected:", s.ID(), reason)
		h.detach(s.ID())
	})

	server.OnError("/", func(s socketio.Conn, err error) {
		log.Printf("Socket error: %v", err)
	})

	return h
}

func (h *Hub) attach(conn socketio.Conn, email string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// One live relay per connection: tear the old one down on rejoin.
	if previous, ok := h.relays[conn.ID()]; ok {
		previous.Stop()
	}

	relay, err := h.notifications.StartRelay(email)
	if err != nil {
		log.Printf("Socket %s: relay start failed: %v", conn.ID(), err)
		return
	}
	h.relays[conn.ID()] = relay
	h.Server.JoinRoom("/", email, conn)
	log.Printf("Socket %s joined room %s", conn.ID(), email)

	go func() {
		for event := range relay.C {
			h.Server.BroadcastToRoom("/", email, event.Type, event)
		}
	}()
}

func (h *Hub) detach(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if relay, ok := h.relays[connID]; ok {
		relay.Stop()
		delete(h.relays, connID)
	}
}

// Close stops every relay and shuts the socket server down.
func (h *Hub) Close() error {
	h.mu.Lock()
	for id, relay := range h.relays {
		relay.Stop()
		delete(h.relays, id)
	}
	h.mu.Unlock()
	return h.Server.Close()
}
