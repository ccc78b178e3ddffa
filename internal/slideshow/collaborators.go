package slideshow

import (
	"context"
	"time"

	"photoreader/internal/display"
)

// Renderer receives every frame the controller wants shown. Display must not
// block; sinks that do real work hand the request off to another goroutine.
type Renderer interface {
	Display(req display.Request)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(req display.Request)

func (f RendererFunc) Display(req display.Request) { f(req) }

// AudioSink plays the continuous tone that accompanies playback.
type AudioSink interface {
	StartTone(frequencyHz float64) error
	StopTone()
}

// Fullscreen controls the presentation surface. When the user leaves
// fullscreen by other means the owner calls Controller.FullscreenExited.
type Fullscreen interface {
	Enter(ctx context.Context) error
	Exit()
	IsFullscreen() bool
}

// Ticker is the subset of time.Ticker the controller needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the production ticker factory.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

type nopAudio struct{}

func (nopAudio) StartTone(float64) error { return nil }
func (nopAudio) StopTone()               {}

type nopScreen struct{}

func (nopScreen) Enter(context.Context) error { return nil }
func (nopScreen) Exit()                       {}
func (nopScreen) IsFullscreen() bool          { return false }

const (
	DefaultToneHz = 4.0
	MaxToneHz     = 60.0
)

// AudioConfig controls the playback tone.
type AudioConfig struct {
	Enabled     bool
	FrequencyHz float64
}

// Normalize caps the frequency at MaxToneHz and replaces unusable values
// with DefaultToneHz.
func (a AudioConfig) Normalize() AudioConfig {
	switch {
	case a.FrequencyHz != a.FrequencyHz || a.FrequencyHz <= 0:
		a.FrequencyHz = DefaultToneHz
	case a.FrequencyHz > MaxToneHz:
		a.FrequencyHz = MaxToneHz
	}
	return a
}
