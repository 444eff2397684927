package trigger

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ayusman/mridangam/internal/detector"
)

// Player is the downstream audio collaborator. Play must not block
// waiting for the sound to finish; overlapping voices are the player's
// problem. It returns an error when no sound is loaded for the channel.
type Player interface {
	Play(id ChannelID) error
	SetVolume(id ChannelID, volume float64)
}

// Event reports the outcome of one channel update within a frame. The
// full per-channel event set is returned even when nothing fired so an
// overlay can render motion state.
type Event struct {
	Channel ChannelID `json:"channel"`
	Name    string    `json:"name"`
	Fired   bool      `json:"fired"`
	Motion  Motion    `json:"motion"`
}

// fingertipIndex maps each finger to its MediaPipe tip landmark.
var fingertipIndex = [NumFingers]int{
	FingerThumb:  detector.ThumbTip,
	FingerIndex:  detector.IndexTip,
	FingerMiddle: detector.MiddleTip,
	FingerRing:   detector.RingTip,
	FingerPinky:  detector.PinkyTip,
}

// Engine owns the full channel set, the active mode profile and the
// skill gate, and turns landmark frames into firing decisions. Frame
// processing is synchronous and single-threaded; the mutex only guards
// against the control surface mutating mode or channel settings from
// another goroutine between frames.
type Engine struct {
	mu           sync.Mutex
	channels     map[ChannelID]*Channel
	mode         Mode
	profile      Profile
	skillLevel   int
	lastHandFire [numHands]time.Time
	player       Player
}

// NewEngine creates an engine with the full channel catalog, Training
// mode and skill level 1. The player receives fire-and-forget playback
// requests for accepted triggers.
func NewEngine(player Player) *Engine {
	profile, _ := ProfileFor(ModeTraining)
	return &Engine{
		channels:   Catalog(),
		mode:       ModeTraining,
		profile:    profile,
		skillLevel: 1,
		player:     player,
	}
}

// SetMode selects the sensitivity profile for the given mode. Modes
// without a defined profile (Custom) keep the previously active
// thresholds; this is surfaced as a warning rather than an error.
func (e *Engine) SetMode(mode Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.mode = mode
	profile, ok := ProfileFor(mode)
	if !ok {
		log.Printf("mode %s has no profile, keeping active thresholds (down=%g up=%g)",
			mode, e.profile.DownThreshold, e.profile.UpThreshold)
		return
	}
	e.profile = profile
}

// Mode returns the current operating mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SetSkillLevel sets the skill gate, clamped to 1..3. It takes effect
// on the next processed frame.
func (e *Engine) SetSkillLevel(level int) {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.skillLevel = level
}

// SkillLevel returns the current skill level.
func (e *Engine) SkillLevel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.skillLevel
}

// SetVolume sets a channel's volume, clamped to [0, 1], and forwards it
// to the player.
func (e *Engine) SetVolume(id ChannelID, volume float64) error {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ch, ok := e.channels[id]
	if !ok {
		return fmt.Errorf("unknown channel %s", id)
	}
	ch.Volume = volume
	if e.player != nil {
		e.player.SetVolume(id, volume)
	}
	return nil
}

// SetEnabled toggles a channel. A disabled channel keeps classifying
// motion but never fires.
func (e *Engine) SetEnabled(id ChannelID, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch, ok := e.channels[id]
	if !ok {
		return fmt.Errorf("unknown channel %s", id)
	}
	ch.Enabled = enabled
	return nil
}

// ChannelInfo is a read-only snapshot of a channel's configuration.
type ChannelInfo struct {
	ID         ChannelID
	Name       string
	SoundFile  string
	SkillLevel int
	Volume     float64
	Enabled    bool
}

// Channels returns a snapshot of every channel in the catalog.
func (e *Engine) Channels() []ChannelInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	infos := make([]ChannelInfo, 0, len(e.channels))
	for _, ch := range e.channels {
		infos = append(infos, ChannelInfo{
			ID:         ch.ID,
			Name:       ch.Name,
			SoundFile:  ch.SoundFile,
			SkillLevel: ch.SkillLevel,
			Volume:     ch.Volume,
			Enabled:    ch.Enabled,
		})
	}
	return infos
}

// handSideForIndex assigns a hand side from the detector's enumeration
// order: the first detected hand is treated as LEFT, the second as
// RIGHT. The detector gives no anatomical guarantee; consulting real
// handedness would only need to touch this function.
func handSideForIndex(idx int) Hand {
	if idx == 0 {
		return HandLeft
	}
	return HandRight
}

// ProcessFrame runs one landmark frame through every mapped channel:
// wrist-relative fingertip position → history push → motion
// classification → edge latch and cooldown arbitration. All channels in
// the frame share the single now timestamp. It returns the per-channel
// events for the frame, including the ones that did not fire.
func (e *Engine) ProcessFrame(hands []detector.HandLandmarks, now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	var events []Event
	for idx := range hands {
		if idx >= 2 {
			break
		}
		hand := &hands[idx]
		if !validHand(hand) {
			log.Printf("skipping hand %d: malformed landmarks", idx)
			continue
		}

		side := handSideForIndex(idx)
		wristY := hand.Points[detector.Wrist].Y

		for finger := FingerThumb; finger < NumFingers; finger++ {
			ch, ok := e.channels[ChannelID{Hand: side, Finger: finger}]
			if !ok {
				continue
			}
			// Channels above the skill gate are inert: no history
			// update, no event.
			if ch.SkillLevel > e.skillLevel {
				continue
			}

			tipY := hand.Points[fingertipIndex[finger]].Y
			ch.history.Push(tipY - wristY)
			motion := ch.history.Classify(e.profile.DownThreshold, e.profile.UpThreshold)
			fired := e.step(ch, motion, now)

			events = append(events, Event{
				Channel: ch.ID,
				Name:    ch.Name,
				Fired:   fired,
				Motion:  motion,
			})
		}
	}
	return events
}

// step advances the channel's edge latch for one classified motion and
// reports whether this frame produced a firing. The latch is set on any
// downward motion, whether or not a sound played, so a single stroke
// cannot retrigger until an upward release re-arms the channel.
func (e *Engine) step(ch *Channel, motion Motion, now time.Time) bool {
	switch motion {
	case MotionDown:
		if ch.latched {
			return false
		}
		fired := false
		if ch.canFire(now, e.skillLevel) {
			fired = e.fire(ch, now)
		}
		ch.latched = true
		return fired
	case MotionUp:
		ch.latched = false
	}
	return false
}

// fire asks the player to sound the channel and stamps the fire time.
// Disabled channels and channels with no loaded sound do not fire; a
// missing sound degrades only this channel and is logged once per
// attempt.
func (e *Engine) fire(ch *Channel, now time.Time) bool {
	if !ch.Enabled || e.player == nil {
		return false
	}
	if err := e.player.Play(ch.ID); err != nil {
		log.Printf("channel %s: %v", ch.ID, err)
		return false
	}
	ch.lastFire = now
	log.Printf("Triggered %s", ch.Name)
	return true
}

// validHand rejects frames whose wrist or fingertip coordinates are not
// finite. Only the offending hand is skipped; the other hand's channels
// still process normally.
func validHand(hand *detector.HandLandmarks) bool {
	indices := []int{detector.Wrist, detector.ThumbTip, detector.IndexTip,
		detector.MiddleTip, detector.RingTip, detector.PinkyTip}
	for _, i := range indices {
		y := hand.Points[i].Y
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return false
		}
	}
	return true
}
