// Package api provides HTTP API handlers for the Mridangam drumkit daemon.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ayusman/mridangam/internal/store"
	"github.com/ayusman/mridangam/internal/trigger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ModeHandler handles requests for the active trigger mode.
type ModeHandler struct {
	engine *trigger.Engine
	store  *store.Store
}

// NewModeHandler creates a new ModeHandler.
func NewModeHandler(engine *trigger.Engine, s *store.Store) *ModeHandler {
	return &ModeHandler{engine: engine, store: s}
}

type modeResponse struct {
	Mode          string  `json:"mode"`
	DownThreshold float64 `json:"down_threshold"`
	UpThreshold   float64 `json:"up_threshold"`
}

type putModeRequest struct {
	Mode string `json:"mode"`
}

func (h *ModeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w)
	case http.MethodPut:
		h.put(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ModeHandler) get(w http.ResponseWriter) {
	mode := h.engine.Mode()
	profile, ok := trigger.ProfileFor(mode)
	if !ok {
		// Custom retains whatever profile was active; report the
		// Training values as a floor if nothing else is known.
		profile, _ = trigger.ProfileFor(trigger.ModeTraining)
	}
	writeJSON(w, http.StatusOK, modeResponse{
		Mode:          mode.String(),
		DownThreshold: profile.DownThreshold,
		UpThreshold:   profile.UpThreshold,
	})
}

func (h *ModeHandler) put(w http.ResponseWriter, r *http.Request) {
	var req putModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	mode, ok := trigger.ParseMode(req.Mode)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown mode")
		return
	}

	h.engine.SetMode(mode)

	if h.store != nil {
		if err := h.store.Settings().SetMode(mode.String()); err != nil {
			log.Printf("Failed to persist mode: %v", err)
		}
	}

	h.get(w)
}

// SkillHandler handles requests for the player skill level.
type SkillHandler struct {
	engine *trigger.Engine
	store  *store.Store
}

// NewSkillHandler creates a new SkillHandler.
func NewSkillHandler(engine *trigger.Engine, s *store.Store) *SkillHandler {
	return &SkillHandler{engine: engine, store: s}
}

type skillResponse struct {
	SkillLevel int `json:"skill_level"`
}

func (h *SkillHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, skillResponse{SkillLevel: h.engine.SkillLevel()})
	case http.MethodPut:
		var req skillResponse
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		h.engine.SetSkillLevel(req.SkillLevel)
		level := h.engine.SkillLevel()

		if h.store != nil {
			if err := h.store.Settings().SetSkillLevel(level); err != nil {
				log.Printf("Failed to persist skill level: %v", err)
			}
		}

		writeJSON(w, http.StatusOK, skillResponse{SkillLevel: level})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
