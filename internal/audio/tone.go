// Package audio plays the sine tone that accompanies a running slideshow.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"
)

const (
	SampleRate    = 44100
	channelCount  = 2
	bytesPerFrame = channelCount * 2
)

var ErrBadFrequency = errors.New("tone frequency must be positive")

// Sine is an endless signed 16-bit little-endian stereo sine stream at full
// amplitude. Phase is continuous across reads.
type Sine struct {
	step  float64
	phase float64
}

func NewSine(frequencyHz float64, sampleRate int) *Sine {
	return &Sine{step: 2 * math.Pi * frequencyHz / float64(sampleRate)}
}

func (s *Sine) Read(p []byte) (int, error) {
	n := len(p) / bytesPerFrame * bytesPerFrame
	for i := 0; i < n; i += bytesPerFrame {
		v := uint16(int16(math.Sin(s.phase) * math.MaxInt16))
		binary.LittleEndian.PutUint16(p[i:], v)
		binary.LittleEndian.PutUint16(p[i+2:], v)
		s.phase += s.step
		if s.phase >= 2*math.Pi {
			s.phase -= 2 * math.Pi
		}
	}
	return n, nil
}

type player interface {
	Play()
	Pause()
	Close() error
}

// Tone plays at most one sine tone at a time.
type Tone struct {
	log       *zap.Logger
	newPlayer func(io.Reader) (player, error)

	mu  sync.Mutex
	cur player
}

// NewTone returns a tone backed by the system audio device. The device is
// opened on first use.
func NewTone(log *zap.Logger) *Tone {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tone{log: log, newPlayer: otoPlayer}
}

var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

// otoPlayer shares one context per process, which is all oto allows.
func otoPlayer(r io.Reader) (player, error) {
	otoOnce.Do(func() {
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		})
		if otoErr == nil {
			<-ready
		}
	})
	if otoErr != nil {
		return nil, fmt.Errorf("unable to open audio device: %w", otoErr)
	}
	return otoCtx.NewPlayer(r), nil
}

// StartTone replaces any playing tone with one at frequencyHz.
func (t *Tone) StartTone(frequencyHz float64) error {
	if math.IsNaN(frequencyHz) || frequencyHz <= 0 {
		return ErrBadFrequency
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	p, err := t.newPlayer(NewSine(frequencyHz, SampleRate))
	if err != nil {
		return err
	}
	p.Play()
	t.cur = p
	t.log.Debug("Tone started", zap.Float64("frequency", frequencyHz))
	return nil
}

// StopTone silences the tone. It is a no-op when nothing plays.
func (t *Tone) StopTone() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Tone) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cur != nil
}

func (t *Tone) stopLocked() {
	if t.cur == nil {
		return
	}
	t.cur.Pause()
	if err := t.cur.Close(); err != nil {
		t.log.Warn("Unable to release tone player", zap.Error(err))
	}
	t.cur = nil
	t.log.Debug("Tone stopped")
}
