// Package server exposes the chat pipeline over a websocket endpoint.
// Each connection gets its own session, so concurrent clients never share
// a short-term buffer.
package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/mnemosyne-ai/mnemo/engine"
)

// Config configures the server.
type Config struct {
	Engine         *engine.Engine
	Persona        string
	BufferCapacity int
}

// Server serves chat sessions over websockets.
type Server struct {
	engine         *engine.Engine
	persona        string
	bufferCapacity int
	upgrader       websocket.Upgrader
}

// New creates a server.
func New(cfg Config) *Server {
	return &Server{
		engine:         cfg.Engine,
		persona:        cfg.Persona,
		bufferCapacity: cfg.BufferCapacity,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Router builds the HTTP routes: GET /health and GET /ws.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWS)
	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("[SERVER] listening on %s (websocket: /ws, health: /health)", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// message is the wire format in both directions.
type message struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// handleWS upgrades the connection and runs one turn per received message.
// Turns are processed sequentially per connection.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess := engine.NewSession(s.persona, s.bufferCapacity)
	log.Printf("[SERVER] session %s connected", sess.ID)

	for {
		var in message
		if err := conn.ReadJSON(&in); err != nil {
			log.Printf("[SERVER] session %s closed: %v", sess.ID, err)
			return
		}
		if in.Text == "" {
			continue
		}

		reply, err := s.engine.Run(r.Context(), sess, in.Text)
		out := message{Text: reply}
		if err != nil {
			log.Printf("[SERVER] session %s turn failed: %v", sess.ID, err)
			out = message{Error: err.Error()}
		}
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("[SERVER] session %s write failed: %v", sess.ID, err)
			return
		}
	}
}
