package ws

import (
	"log"
	"net/http"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"

	"agent_console/internal/events"
)

// Server wraps the Socket.IO server and implements events.Bus.
type Server struct {
	io *socketio.Server
}

// NewServer creates the Socket.IO server and registers the room
// subscription handlers. Serve() must be started by the caller.
func NewServer() *Server {
	io := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool {
					// Dashboard origins are not restricted
					return true
				},
			},
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool {
					return true
				},
			},
		},
	})

	io.OnConnect("/", func(s socketio.Conn) error {
		log.Printf("[WebSocket] Client connected: %s", s.ID())
		s.Emit("connected", map[string]interface{}{
			"ok": true,
		})
		return nil
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Printf("[WebSocket] Client disconnected: %s, reason: %s", s.ID(), reason)
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Printf("[WebSocket] Error for client %s: %v", s.ID(), e)
	})

	// Room control events. Task and agent rooms are keyed by id; the
	// system room is a single shared scope.
	io.OnEvent("/", "subscribe:task", func(s socketio.Conn, taskID string) {
		s.Join("task:" + taskID)
		log.Printf("[WebSocket] %s subscribed to task:%s", s.ID(), taskID)
	})
	io.OnEvent("/", "subscribe:agent", func(s socketio.Conn, agentID string) {
		s.Join("agent:" + agentID)
	})
	io.OnEvent("/", "subscribe:system", func(s socketio.Conn) {
		s.Join(events.RoomSystem)
	})
	io.OnEvent("/", "unsubscribe:task", func(s socketio.Conn, taskID string) {
		s.Leave("task:" + taskID)
	})
	io.OnEvent("/", "unsubscribe:agent", func(s socketio.Conn, agentID string) {
		s.Leave("agent:" + agentID)
	})

	return &Server{io: io}
}

// Serve runs the underlying Socket.IO event loop; it blocks until Close.
func (s *Server) Serve() error {
	return s.io.Serve()
}

// Close shuts down the Socket.IO server.
func (s *Server) Close() error {
	return s.io.Close()
}

// Handler returns the HTTP handler for the /socket.io/ endpoint,
// wrapped with the JWT handshake gate when authEnabled is set.
func (s *Server) Handler(authEnabled bool) http.Handler {
	if authEnabled {
		return wrapWithAuth(s.io)
	}
	return s.io
}

// Emit broadcasts to every connected client. Fire-and-forget: delivery
// failures never surface to the caller.
func (s *Server) Emit(event string, payload interface{}) {
	s.io.BroadcastToNamespace("/", event, payload)
}

// EmitToRoom broadcasts to the clients that joined the room.
func (s *Server) EmitToRoom(room, event string, payload interface{}) {
	s.io.BroadcastToRoom("/", room, event, payload)
}

// ConnectionCount reports the number of connected clients.
func (s *Server) ConnectionCount() int {
	return s.io.Count()
}

var _ events.Bus = (*Server)(nil)
