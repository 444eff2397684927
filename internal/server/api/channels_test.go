package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayusman/mridangam/internal/trigger"
)

func TestChannelsHandler_List(t *testing.T) {
	handler := NewChannelsHandler(trigger.NewEngine(nil), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/channels", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp listChannelsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Channels) != 10 {
		t.Fatalf("expected 10 channels, got %d", len(resp.Channels))
	}

	byID := make(map[string]channelResponse)
	for _, ch := range resp.Channels {
		byID[ch.ID] = ch
	}

	kick, ok := byID["RIGHT_THUMB"]
	if !ok {
		t.Fatal("expected RIGHT_THUMB in the catalog")
	}
	if kick.Name != "Kick" {
		t.Errorf("expected RIGHT_THUMB to be Kick, got %s", kick.Name)
	}
	if kick.Volume != 0.8 {
		t.Errorf("expected Kick volume 0.8, got %v", kick.Volume)
	}
	if !kick.Enabled {
		t.Error("expected channels to start enabled")
	}
	if kick.Loaded {
		t.Error("expected loaded=false without a sound bank")
	}
}

func TestChannelsHandler_Update(t *testing.T) {
	engine := trigger.NewEngine(nil)
	st := newTestStore(t)
	handler := NewChannelsHandler(engine, nil, st)

	t.Run("clamps volume and persists", func(t *testing.T) {
		body := strings.NewReader(`{"volume": 1.5}`)
		req := httptest.NewRequest(http.MethodPut, "/api/channels/LEFT_THUMB", body)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}

		var resp channelResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Volume != 1.0 {
			t.Errorf("expected clamped volume 1.0, got %v", resp.Volume)
		}

		saved, err := st.Channels().Get("LEFT_THUMB")
		if err != nil {
			t.Fatalf("failed to read persisted settings: %v", err)
		}
		if saved.Volume != 1.0 {
			t.Errorf("expected persisted volume 1.0, got %v", saved.Volume)
		}
	})

	t.Run("disables a channel", func(t *testing.T) {
		body := strings.NewReader(`{"enabled": false}`)
		req := httptest.NewRequest(http.MethodPut, "/api/channels/RIGHT_PINKY", body)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		id := trigger.ChannelID{Hand: trigger.HandRight, Finger: trigger.FingerPinky}
		for _, info := range engine.Channels() {
			if info.ID == id && info.Enabled {
				t.Error("expected RIGHT_PINKY to be disabled")
			}
		}

		saved, err := st.Channels().Get("RIGHT_PINKY")
		if err != nil {
			t.Fatalf("failed to read persisted settings: %v", err)
		}
		if saved.Enabled {
			t.Error("expected persisted enabled=false")
		}
	})

	t.Run("rejects an unknown channel", func(t *testing.T) {
		body := strings.NewReader(`{"enabled": true}`)
		req := httptest.NewRequest(http.MethodPut, "/api/channels/LEFT_ELBOW", body)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("rejects an empty update", func(t *testing.T) {
		body := strings.NewReader(`{}`)
		req := httptest.NewRequest(http.MethodPut, "/api/channels/LEFT_INDEX", body)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("rejects non-PUT methods on items", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/channels/LEFT_INDEX", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}
