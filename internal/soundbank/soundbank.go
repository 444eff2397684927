// Package soundbank loads the drum samples from disk and plays them
// fire-and-forget through the system speaker.
package soundbank

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/ayusman/mridangam/internal/trigger"
)

// speakerBufferLen is the playback buffer length. Drum triggers need
// low latency, so the buffer is kept short.
const speakerBufferLen = 25 * time.Millisecond

// sound is one decoded sample plus its per-channel volume.
type sound struct {
	buffer *beep.Buffer
	format beep.Format
	volume float64
}

// Bank maps channels to playable sounds. It implements trigger.Player.
// Playback does not block the caller; the speaker mixes overlapping
// voices on its own goroutine.
type Bank struct {
	mu         sync.Mutex
	sounds     map[trigger.ChannelID]*sound
	sampleRate beep.SampleRate
	ready      bool
}

// New loads every catalog sound found under dir. A missing or
// undecodable file is logged and leaves that channel silent; loading
// never fails the bank as a whole. The speaker is initialized from the
// first successfully decoded sample.
func New(dir string) *Bank {
	b := &Bank{
		sounds: make(map[trigger.ChannelID]*sound),
	}

	for id, ch := range trigger.Catalog() {
		path := filepath.Join(dir, ch.SoundFile)
		buffer, format, err := loadWAV(path)
		if err != nil {
			log.Printf("Warning: channel %s: %v", id, err)
			b.sounds[id] = &sound{volume: ch.Volume}
			continue
		}

		if !b.ready {
			if err := speaker.Init(format.SampleRate, format.SampleRate.N(speakerBufferLen)); err != nil {
				log.Printf("Warning: speaker init failed, playback disabled: %v", err)
			} else {
				b.sampleRate = format.SampleRate
				b.ready = true
			}
		}

		b.sounds[id] = &sound{buffer: buffer, format: format, volume: ch.Volume}
	}

	return b
}

// loadWAV decodes a WAV file into an in-memory buffer.
func loadWAV(path string) (*beep.Buffer, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("sound file not found: %s", path)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, format, nil
}

// Play sounds the channel at its current volume and returns
// immediately. It returns an error when the channel has no loaded
// sound or the speaker never came up.
func (b *Bank) Play(id trigger.ChannelID) error {
	b.mu.Lock()
	s, ok := b.sounds[id]
	ready := b.ready
	b.mu.Unlock()

	if !ok || s.buffer == nil {
		return fmt.Errorf("no sound loaded for %s", id)
	}
	if !ready {
		return fmt.Errorf("speaker not initialized")
	}

	var streamer beep.Streamer = s.buffer.Streamer(0, s.buffer.Len())
	if s.format.SampleRate != b.sampleRate {
		streamer = beep.Resample(4, s.format.SampleRate, b.sampleRate, streamer)
	}

	speaker.Play(&effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   gainToVolume(s.volume),
		Silent:   s.volume <= 0,
	})
	return nil
}

// SetVolume sets a channel's playback volume, clamped to [0, 1].
// Unknown channels are ignored.
func (b *Bank) SetVolume(id trigger.ChannelID, volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.sounds[id]; ok {
		s.volume = volume
	}
}

// Volume returns a channel's current volume.
func (b *Bank) Volume(id trigger.ChannelID) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.sounds[id]; ok {
		return s.volume
	}
	return 0
}

// Loaded reports whether the channel has a playable sound.
func (b *Bank) Loaded(id trigger.ChannelID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sounds[id]
	return ok && s.buffer != nil
}

// gainToVolume converts a linear gain in (0, 1] to the exponential
// volume expected by effects.Volume with base 2.
func gainToVolume(gain float64) float64 {
	if gain <= 0 {
		return 0
	}
	return math.Log2(gain)
}
