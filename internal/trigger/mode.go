package trigger

import (
	"strings"
	"time"
)

// Mode is an operating mode selecting a sensitivity profile.
type Mode int

// Operating modes, from most forgiving to most sensitive.
const (
	ModeTraining Mode = iota
	ModePractice
	ModePerformance
	ModeExpert
	ModeCustom
)

// String returns the display name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeTraining:
		return "Training"
	case ModePractice:
		return "Practice"
	case ModePerformance:
		return "Performance"
	case ModeExpert:
		return "Expert"
	case ModeCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// ParseMode converts a mode name (case-insensitive) to a Mode.
// Returns false if the name is not recognized.
func ParseMode(name string) (Mode, bool) {
	switch strings.ToLower(name) {
	case "training":
		return ModeTraining, true
	case "practice":
		return ModePractice, true
	case "performance":
		return ModePerformance, true
	case "expert":
		return ModeExpert, true
	case "custom":
		return ModeCustom, true
	default:
		return ModeTraining, false
	}
}

// Profile bundles the sensitivity parameters selected by a mode.
// Profiles are immutable; the engine swaps its active profile when the
// mode changes.
type Profile struct {
	// DownThreshold is the minimum average per-sample downward
	// displacement (normalized units) to classify a strike.
	DownThreshold float64
	// UpThreshold is the minimum average upward displacement to
	// classify a release. Asymmetric thresholds keep a hovering finger
	// from chattering between armed and latched.
	UpThreshold float64
	// HandCooldown is a coarser per-hand cooldown. It is carried in the
	// profile and tracked per hand but does not participate in the
	// firing decision; only the per-channel cooldown gates triggers.
	HandCooldown time.Duration
}

// profiles maps each mode to its sensitivity profile. Custom has no
// entry: selecting it retains whatever profile was previously active.
var profiles = map[Mode]Profile{
	ModeTraining:    {DownThreshold: 0.002, UpThreshold: 0.001, HandCooldown: 200 * time.Millisecond},
	ModePractice:    {DownThreshold: 0.0015, UpThreshold: 0.001, HandCooldown: 150 * time.Millisecond},
	ModePerformance: {DownThreshold: 0.001, UpThreshold: 0.0008, HandCooldown: 100 * time.Millisecond},
	ModeExpert:      {DownThreshold: 0.0008, UpThreshold: 0.0005, HandCooldown: 50 * time.Millisecond},
}

// ProfileFor returns the profile for the given mode. The second return
// is false for modes without a defined profile (Custom).
func ProfileFor(mode Mode) (Profile, bool) {
	p, ok := profiles[mode]
	return p, ok
}
