package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/ayusman/mridangam/internal/soundbank"
	"github.com/ayusman/mridangam/internal/store"
	"github.com/ayusman/mridangam/internal/trigger"
)

// ChannelsHandler handles HTTP requests for drum channel resources.
type ChannelsHandler struct {
	engine *trigger.Engine
	bank   *soundbank.Bank
	store  *store.Store
}

// NewChannelsHandler creates a new ChannelsHandler.
func NewChannelsHandler(engine *trigger.Engine, bank *soundbank.Bank, s *store.Store) *ChannelsHandler {
	return &ChannelsHandler{engine: engine, bank: bank, store: s}
}

type channelResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	SoundFile  string  `json:"sound_file"`
	SkillLevel int     `json:"skill_level"`
	Volume     float64 `json:"volume"`
	Enabled    bool    `json:"enabled"`
	Loaded     bool    `json:"loaded"`
}

type listChannelsResponse struct {
	Channels []channelResponse `json:"channels"`
}

type updateChannelRequest struct {
	Volume  *float64 `json:"volume"`
	Enabled *bool    `json:"enabled"`
}

// ServeHTTP implements the http.Handler interface and routes requests to
// the collection or item methods.
func (h *ChannelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/channels or /api/channels/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/channels")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w)
		return
	}

	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.update(w, r, path)
}

func (h *ChannelsHandler) toResponse(info trigger.ChannelInfo) channelResponse {
	loaded := false
	if h.bank != nil {
		loaded = h.bank.Loaded(info.ID)
	}
	return channelResponse{
		ID:         info.ID.String(),
		Name:       info.Name,
		SoundFile:  info.SoundFile,
		SkillLevel: info.SkillLevel,
		Volume:     info.Volume,
		Enabled:    info.Enabled,
		Loaded:     loaded,
	}
}

// list handles GET /api/channels and returns the full catalog.
func (h *ChannelsHandler) list(w http.ResponseWriter) {
	infos := h.engine.Channels()
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID.String() < infos[j].ID.String()
	})

	response := listChannelsResponse{
		Channels: make([]channelResponse, 0, len(infos)),
	}
	for _, info := range infos {
		response.Channels = append(response.Channels, h.toResponse(info))
	}

	writeJSON(w, http.StatusOK, response)
}

// update handles PUT /api/channels/{id} and adjusts volume and/or the
// enabled flag for one channel.
func (h *ChannelsHandler) update(w http.ResponseWriter, r *http.Request, name string) {
	id, ok := trigger.ParseChannelID(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Channel not found")
		return
	}

	var req updateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Volume == nil && req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	if req.Volume != nil {
		if err := h.engine.SetVolume(id, *req.Volume); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to set volume")
			return
		}
	}
	if req.Enabled != nil {
		if err := h.engine.SetEnabled(id, *req.Enabled); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to set enabled flag")
			return
		}
	}

	// Read back the clamped values before persisting.
	var current trigger.ChannelInfo
	for _, info := range h.engine.Channels() {
		if info.ID == id {
			current = info
			break
		}
	}

	if h.store != nil {
		if err := h.store.Channels().Upsert(id.String(), current.Volume, current.Enabled); err != nil {
			log.Printf("Failed to persist settings for %s: %v", id, err)
		}
	}

	writeJSON(w, http.StatusOK, h.toResponse(current))
}
