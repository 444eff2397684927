package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/mridangam/internal/app"
	"github.com/ayusman/mridangam/internal/config"
	"github.com/ayusman/mridangam/internal/detector"
	"github.com/ayusman/mridangam/internal/server"
	"github.com/ayusman/mridangam/internal/store"
	"github.com/ayusman/mridangam/internal/tray"
	"github.com/ayusman/mridangam/internal/trigger"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	fmt.Println("Mridangam - Virtual Finger Drumkit")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(cfg.DataDir, "mridangam.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:        st,
		CameraID:     cfg.Camera.DeviceID,
		MotionThresh: cfg.Camera.MotionThreshold,
		SoundDir:     cfg.SoundDir,
		Detector: detector.Config{
			MaxHands:        cfg.Detector.MaxHands,
			MinConfidence:   cfg.Detector.MinConfidence,
			MinTrackingConf: cfg.Detector.MinTrackingConf,
		},
	})
	a.RestoreSettings(cfg.Startup.Mode, cfg.Startup.SkillLevel)
	a.SetEnabled(cfg.Startup.Enabled)

	// Find web directory for the overlay UI
	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir(cfg.DataDir)
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	events := server.NewEventsHandler()

	t := tray.New()
	t.SetMode(a.Engine().Mode().String())
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnQuit(func() {
		a.Stop()
	})

	// Fan frame events out to the websocket clients and the tray.
	a.OnFrame(func(now time.Time, frameEvents []trigger.Event) {
		events.Broadcast(now, frameEvents)
		for _, ev := range frameEvents {
			if ev.Fired {
				t.SetLastHit(ev.Name)
			}
		}
	})

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Engine:    a.Engine(),
		Bank:      a.SoundBank(),
		Camera:    a.Camera(),
		Events:    events,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.ListenAddr)
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := a.Start(); err != nil {
		log.Printf("Failed to start detection pipeline: %v", err)
	}

	// Blocks until Quit is selected from the tray menu.
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}
