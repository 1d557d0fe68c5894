package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/vovakirdan/ruff-day/internal/config"
)

const (
	// sampleRate is the output rate every clip is rendered at
	sampleRate = beep.SampleRate(48000)

	fadeEdge = 5 * time.Millisecond
)

var bufferFormat = beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}

// Bank holds every clip fully decoded in memory.
type Bank struct {
	clips map[string]*beep.Buffer
}

// NewBank renders the configured clips.
// Clips with a file are decoded from WAV, the rest are synthesized.
func NewBank(clips map[string]config.ClipConfig) (*Bank, error) {
	b := &Bank{clips: make(map[string]*beep.Buffer, len(clips))}

	for ref, c := range clips {
		var (
			buf *beep.Buffer
			err error
		)
		if c.File != "" {
			buf, err = decodeWAV(c.File)
		} else {
			buf, err = synthesize(c)
		}
		if err != nil {
			return nil, fmt.Errorf("audio: clip %q: %w", ref, err)
		}
		b.clips[ref] = buf
	}

	return b, nil
}

// voice returns a fresh streamer for one playback of a clip.
func (b *Bank) voice(ref string, volume, pitch float64) (beep.Streamer, bool) {
	buf, ok := b.clips[ref]
	if !ok {
		return nil, false
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if pitch > 0 && pitch != 1 {
		s = beep.ResampleRatio(4, pitch, s)
	}
	if volume != 1 {
		s = newVolume(s, volume)
	}
	return s, true
}

func synthesize(c config.ClipConfig) (*beep.Buffer, error) {
	wave, err := ParseWave(c.Wave)
	if err != nil {
		return nil, err
	}
	if c.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", c.Duration)
	}
	if c.Freq <= 0 && wave != WaveNoise {
		return nil, fmt.Errorf("freq must be positive, got %v", c.Freq)
	}

	osc := newOscillator(c.Freq, c.Duration, wave, sampleRate)
	buf := beep.NewBuffer(bufferFormat)
	buf.Append(newVolume(newFade(osc, c.Duration, fadeEdge, sampleRate), 0.4))
	return buf, nil
}

func decodeWAV(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot decode %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		s = beep.Resample(4, format.SampleRate, sampleRate, s)
	}

	buf := beep.NewBuffer(bufferFormat)
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return buf, nil
}
