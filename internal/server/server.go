// Package server provides the HTTP control surface for the Mridangam
// drumkit daemon.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mridangam/internal/capture"
	"github.com/ayusman/mridangam/internal/server/api"
	"github.com/ayusman/mridangam/internal/soundbank"
	"github.com/ayusman/mridangam/internal/store"
	"github.com/ayusman/mridangam/internal/trigger"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Engine    *trigger.Engine
	Bank      *soundbank.Bank
	Camera    capture.Camera
	Events    *EventsHandler
}

// Server represents the HTTP server for the Mridangam application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Engine != nil {
		s.mux.Handle("/api/mode", api.NewModeHandler(s.config.Engine, s.config.Store))
		s.mux.Handle("/api/skill", api.NewSkillHandler(s.config.Engine, s.config.Store))

		channelsHandler := api.NewChannelsHandler(s.config.Engine, s.config.Bank, s.config.Store)
		s.mux.Handle("/api/channels", channelsHandler)
		s.mux.Handle("/api/channels/", channelsHandler)
	}

	// Register the trigger event stream if a hub is configured
	if s.config.Events != nil {
		s.mux.Handle("/api/events", s.config.Events)
	}

	// Register camera preview endpoint if Camera is configured
	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
