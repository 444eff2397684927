package trigger

import (
	"encoding/json"
	"strings"
	"time"
)

// Hand identifies which hand a channel belongs to.
type Hand int

// Hand sides. The upstream detector reports hands in detection order;
// side assignment from that order happens in the engine.
const (
	HandLeft Hand = iota
	HandRight
	numHands
)

// String returns the string form of the hand side.
func (h Hand) String() string {
	if h == HandLeft {
		return "LEFT"
	}
	return "RIGHT"
}

// Finger identifies one of the five tracked fingers.
type Finger int

// Fingers in MediaPipe landmark order.
const (
	FingerThumb Finger = iota
	FingerIndex
	FingerMiddle
	FingerRing
	FingerPinky
	NumFingers
)

// String returns the string form of the finger.
func (f Finger) String() string {
	switch f {
	case FingerThumb:
		return "THUMB"
	case FingerIndex:
		return "INDEX"
	case FingerMiddle:
		return "MIDDLE"
	case FingerRing:
		return "RING"
	case FingerPinky:
		return "PINKY"
	default:
		return "UNKNOWN"
	}
}

// ChannelID identifies one (hand, finger) pair. It is a small value
// type usable directly as a map key, so per-frame dispatch does not
// hash strings.
type ChannelID struct {
	Hand   Hand
	Finger Finger
}

// String returns the canonical channel name, e.g. "RIGHT_INDEX".
func (id ChannelID) String() string {
	return id.Hand.String() + "_" + id.Finger.String()
}

// MarshalJSON encodes the channel ID as its canonical name.
func (id ChannelID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// ParseChannelID converts a canonical channel name back to a ChannelID.
// Returns false if the name does not denote a known channel.
func ParseChannelID(name string) (ChannelID, bool) {
	parts := strings.SplitN(strings.ToUpper(name), "_", 2)
	if len(parts) != 2 {
		return ChannelID{}, false
	}

	var hand Hand
	switch parts[0] {
	case "LEFT":
		hand = HandLeft
	case "RIGHT":
		hand = HandRight
	default:
		return ChannelID{}, false
	}

	for f := FingerThumb; f < NumFingers; f++ {
		if f.String() == parts[1] {
			return ChannelID{Hand: hand, Finger: f}, true
		}
	}
	return ChannelID{}, false
}

// DefaultCooldown is the per-channel retrigger guard applied to every
// catalog entry.
const DefaultCooldown = 150 * time.Millisecond

// Channel is one playable drum pad bound to a fingertip. Identity and
// sound mapping are fixed at engine construction; only the runtime
// fields (history, latch, last fire time) and the user-tunable volume
// and enabled flag change afterwards.
type Channel struct {
	ID         ChannelID
	Name       string // display name, e.g. "Snare"
	SoundFile  string // sample path relative to the sound directory
	SkillLevel int    // minimum engine skill level for this channel
	Cooldown   time.Duration
	Volume     float64
	Enabled    bool

	history  History
	latched  bool // downward edge seen, waiting for an upward release
	lastFire time.Time
}

// canFire reports whether a detected downward edge may produce a
// firing at the given instant. It checks the skill gate and the
// per-channel cooldown; the per-hand cooldown is deliberately not part
// of this decision.
func (c *Channel) canFire(now time.Time, skillLevel int) bool {
	if c.SkillLevel > skillLevel {
		return false
	}
	if now.Sub(c.lastFire) < c.Cooldown {
		return false
	}
	return true
}

// Catalog returns the fixed TR-808 channel set. The right hand carries
// the beginner voices, the left hand unlocks at higher skill levels.
func Catalog() map[ChannelID]*Channel {
	channels := []*Channel{
		{ID: ChannelID{HandRight, FingerThumb}, Name: "Kick", SoundFile: "TR-808 Kit/Kick Basic.wav", SkillLevel: 1, Volume: 0.8},
		{ID: ChannelID{HandRight, FingerIndex}, Name: "Snare", SoundFile: "TR-808 Kit/Snare Mid.wav", SkillLevel: 1, Volume: 0.7},
		{ID: ChannelID{HandRight, FingerMiddle}, Name: "Hi-Hat", SoundFile: "TR-808 Kit/Hihat.wav", SkillLevel: 1, Volume: 0.7},
		{ID: ChannelID{HandRight, FingerRing}, Name: "Clap", SoundFile: "TR-808 Kit/Clap.wav", SkillLevel: 2, Volume: 0.7},
		{ID: ChannelID{HandRight, FingerPinky}, Name: "Cymbal", SoundFile: "TR-808 Kit/Cymbal.wav", SkillLevel: 2, Volume: 0.6},
		{ID: ChannelID{HandLeft, FingerIndex}, Name: "Tom Mid", SoundFile: "TR-808 Kit/Tom Mid.wav", SkillLevel: 2, Volume: 0.7},
		{ID: ChannelID{HandLeft, FingerThumb}, Name: "Tom Low", SoundFile: "TR-808 Kit/Tom Low.wav", SkillLevel: 3, Volume: 0.7},
		{ID: ChannelID{HandLeft, FingerMiddle}, Name: "Tom High", SoundFile: "TR-808 Kit/Tom High.wav", SkillLevel: 3, Volume: 0.7},
		{ID: ChannelID{HandLeft, FingerRing}, Name: "Cowbell", SoundFile: "TR-808 Kit/Cowbell.wav", SkillLevel: 3, Volume: 0.7},
		{ID: ChannelID{HandLeft, FingerPinky}, Name: "Rimshot", SoundFile: "TR-808 Kit/Rimshot.wav", SkillLevel: 3, Volume: 0.7},
	}

	catalog := make(map[ChannelID]*Channel, len(channels))
	for _, ch := range channels {
		ch.Cooldown = DefaultCooldown
		ch.Enabled = true
		catalog[ch.ID] = ch
	}
	return catalog
}
