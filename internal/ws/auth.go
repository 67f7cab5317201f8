package ws

import (
	"log"
	"net/http"
	"strings"

	socketio "github.com/googollee/go-socket.io"

	"agent_console/internal/auth"
)

// wrapWithAuth validates the JWT on the Socket.IO handshake request.
// The client sends the token either as a ?token= query parameter or as
// a Bearer Authorization header.
func wrapWithAuth(server *socketio.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			log.Printf("[WebSocket] Handshake rejected: no token from %s", r.RemoteAddr)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			log.Printf("[WebSocket] Handshake rejected: invalid token from %s: %v", r.RemoteAddr, err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		log.Printf("[WebSocket] Handshake accepted: user=%s (ID=%d)", claims.Username, claims.UID)
		server.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	return ""
}
