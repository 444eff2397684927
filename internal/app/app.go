// Package app wires the capture, detection, trigger and playback
// components into the frame-driven drumkit pipeline.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mridangam/internal/capture"
	"github.com/ayusman/mridangam/internal/detector"
	"github.com/ayusman/mridangam/internal/soundbank"
	"github.com/ayusman/mridangam/internal/store"
	"github.com/ayusman/mridangam/internal/trigger"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate while hands are moving.
	ActiveFPS = 15
	// IdleTimeoutMs is how long after the last motion the pipeline
	// drops back to the idle rate.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	SoundDir     string
	Detector     detector.Config
}

// FrameFunc receives the per-channel events of one processed frame.
type FrameFunc func(now time.Time, events []trigger.Event)

// App owns the detection pipeline and the trigger engine.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	engine   *trigger.Engine
	bank     *soundbank.Bank

	enabled   bool
	mu        sync.RWMutex
	stopCh    chan struct{}
	onFrame   FrameFunc
	sessionID string
	hits      int
}

// New creates a new App instance with the given configuration. The
// sound bank is loaded eagerly so missing samples surface at startup.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	bank := soundbank.New(config.SoundDir)

	a := &App{
		config:  config,
		camera:  capture.NewCamera(config.CameraID),
		motion:  capture.NewMotionDetector(motionThreshold),
		bank:    bank,
		engine:  trigger.NewEngine(bank),
		enabled: false,
	}

	// Try MediaPipe first, fall back to the mock detector so the rest
	// of the system stays usable without the tracker.
	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables drum detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether drum detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// OnFrame registers a callback invoked with the events of every
// processed frame, fired or not. Used by the event stream.
func (a *App) OnFrame(fn FrameFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onFrame = fn
}

// Engine returns the trigger engine.
func (a *App) Engine() *trigger.Engine {
	return a.engine
}

// SoundBank returns the sound bank.
func (a *App) SoundBank() *soundbank.Bank {
	return a.bank
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// RestoreSettings loads persisted mode, skill level and channel
// settings from the database and applies them to the engine. Missing
// rows fall back to the given startup defaults.
func (a *App) RestoreSettings(defaultMode string, defaultSkill int) {
	mode, ok := trigger.ParseMode(defaultMode)
	if !ok {
		mode = trigger.ModeTraining
	}
	skill := defaultSkill

	if a.config.Store != nil {
		settings := a.config.Store.Settings()
		if name, err := settings.Mode(); err == nil {
			if m, ok := trigger.ParseMode(name); ok {
				mode = m
			}
		}
		if level, err := settings.SkillLevel(); err == nil {
			skill = level
		}

		channelSettings, err := a.config.Store.Channels().List()
		if err != nil {
			log.Printf("Failed to load channel settings: %v", err)
		}
		for _, cs := range channelSettings {
			id, ok := trigger.ParseChannelID(cs.Channel)
			if !ok {
				log.Printf("Ignoring settings for unknown channel %q", cs.Channel)
				continue
			}
			if err := a.engine.SetVolume(id, cs.Volume); err != nil {
				log.Printf("Failed to restore volume for %s: %v", id, err)
			}
			if err := a.engine.SetEnabled(id, cs.Enabled); err != nil {
				log.Printf("Failed to restore enabled flag for %s: %v", id, err)
			}
		}
	}

	a.engine.SetMode(mode)
	a.engine.SetSkillLevel(skill)
	log.Printf("Engine restored: mode=%s skill=%d", a.engine.Mode(), a.engine.SkillLevel())
}

// Start begins the detection pipeline and opens a practice session.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.hits = 0
	if a.config.Store != nil {
		id, err := a.config.Store.Sessions().Begin(a.engine.Mode().String(), a.engine.SkillLevel())
		if err != nil {
			log.Printf("Failed to open session: %v", err)
		} else {
			a.sessionID = id
		}
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline, closes the practice session and
// releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if a.sessionID != "" && a.config.Store != nil {
		if err := a.config.Store.Sessions().End(a.sessionID, a.hits); err != nil {
			log.Printf("Failed to close session: %v", err)
		}
		a.sessionID = ""
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}
