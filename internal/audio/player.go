// Package audio plays the round's clips through the system speaker.
// Every operation is safe to call when no audio device is available.
package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/ruff-day/internal/game"
)

// Player mixes clip voices into the speaker.
type Player struct {
	mu          sync.Mutex
	bank        *Bank
	mixer       *beep.Mixer
	logger      *log.Logger
	initialized bool
}

// NewPlayer creates a player over a clip bank. A nil logger discards output.
func NewPlayer(bank *Bank, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{
		bank:   bank,
		mixer:  &beep.Mixer{},
		logger: logger,
	}
}

// Initialize opens the speaker. Calling it again is a no-op.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup silences every voice.
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()

	// beep has no speaker close; clearing the mixer is enough to go quiet
	p.initialized = false
}

// Active reports whether the speaker is open.
func (p *Player) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Play starts one voice of a clip, stopping whatever clip was playing.
// Returns false when nothing was queued.
func (p *Player) Play(clip string, volume, pitch float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.bank == nil {
		return false
	}

	v, ok := p.bank.voice(clip, volume, pitch)
	if !ok {
		p.logger.Warn("unknown clip", "clip", clip)
		return false
	}

	speaker.Lock()
	p.swap(v)
	speaker.Unlock()
	return true
}

// swap replaces the playing voice. Callers hold the speaker lock.
func (p *Player) swap(v beep.Streamer) {
	p.mixer.Clear()
	p.mixer.Add(v)
}

// Apply plays a PlayClip command.
func (p *Player) Apply(cmd game.PlayClip) {
	p.Play(cmd.Clip, cmd.Volume, cmd.Pitch)
}
