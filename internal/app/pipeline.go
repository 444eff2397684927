package app

import (
	"log"
	"time"

	"github.com/ayusman/mridangam/internal/detector"
)

// runPipeline is the main detection loop that processes frames from the camera.
// It manages the state transitions between idle and active modes based on motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS=5)
// 2. On motion detected, switch to active mode (ActiveFPS=15)
// 3. Run hand detection
// 4. Feed landmarks to the trigger engine, which plays the fired channels
// 5. After 2s no motion, switch back to idle mode
func (a *App) runPipeline() {
	// Track whether we're in active mode
	activeMode := false

	// Track the last motion detection time
	lastMotionTime := time.Now()

	// Frame interval based on current FPS
	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				// Switch to active mode if not already
				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				// Check if we should switch back to idle mode
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			d := a.Detector()

			// Skip further processing if not in active mode or no detector
			if !activeMode || d == nil {
				frame.Close()
				continue
			}

			// Step 2: Hand detection
			hands, err := d.Detect(frame)
			frame.Close() // Done with the frame

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			if len(hands) == 0 {
				continue
			}

			// Step 3: Classify strokes and fire channels
			a.processHands(hands, time.Now())
		}
	}
}

// processHands runs one frame of landmarks through the trigger engine,
// counts the hits for the session and notifies the frame callback.
func (a *App) processHands(hands []detector.HandLandmarks, now time.Time) {
	events := a.engine.ProcessFrame(hands, now)

	fired := 0
	for _, ev := range events {
		if ev.Fired {
			fired++
		}
	}

	a.mu.Lock()
	a.hits += fired
	onFrame := a.onFrame
	a.mu.Unlock()

	if onFrame != nil && len(events) > 0 {
		onFrame(now, events)
	}
}
