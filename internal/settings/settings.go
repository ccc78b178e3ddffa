// Package settings persists presentation preferences and the recent
// documents list in a BoltDB file.
package settings

import (
	"photoreader/internal/display"
	"photoreader/internal/playback"
	"photoreader/internal/slideshow"
)

// Snapshot is the persisted set of user preferences. Range bounds are not
// stored; they belong to a document.
type Snapshot struct {
	ViewMode        int     `json:"pageView"`
	CenterDot       bool    `json:"centerDot"`
	CornerDots      bool    `json:"cornerCircles"`
	GuideLine       bool    `json:"verticalGuide"`
	Reverse         bool    `json:"reverseOrder"`
	Rotate          bool    `json:"rotateContent"`
	Mirror          bool    `json:"mirrorContent"`
	IntervalSeconds float64 `json:"interval"`
	AudioEnabled    bool    `json:"audioEnabled"`
	AudioFrequency  float64 `json:"audioFrequency"`
}

// Defaults are used when nothing usable is stored.
func Defaults() Snapshot {
	return Snapshot{
		ViewMode:        1,
		IntervalSeconds: playback.DefaultIntervalSeconds,
		AudioFrequency:  slideshow.DefaultToneHz,
	}
}

// Normalize clamps every field into its valid range.
func (s Snapshot) Normalize() Snapshot {
	s.ViewMode = s.Display().Normalize().ViewMode
	s.IntervalSeconds = playback.ClampInterval(s.IntervalSeconds)
	s.AudioFrequency = s.Audio().Normalize().FrequencyHz
	return s
}

func (s Snapshot) Display() display.Config {
	return display.Config{
		ViewMode:   s.ViewMode,
		Rotate:     s.Rotate,
		Mirror:     s.Mirror,
		CenterDot:  s.CenterDot,
		CornerDots: s.CornerDots,
		GuideLine:  s.GuideLine,
	}
}

func (s Snapshot) Audio() slideshow.AudioConfig {
	return slideshow.AudioConfig{Enabled: s.AudioEnabled, FrequencyHz: s.AudioFrequency}
}

// FromController captures the preferences currently held by a controller.
func FromController(cs slideshow.Snapshot) Snapshot {
	return Snapshot{
		ViewMode:        cs.Display.ViewMode,
		CenterDot:       cs.Display.CenterDot,
		CornerDots:      cs.Display.CornerDots,
		GuideLine:       cs.Display.GuideLine,
		Reverse:         cs.Range.Reverse,
		Rotate:          cs.Display.Rotate,
		Mirror:          cs.Display.Mirror,
		IntervalSeconds: cs.Range.IntervalSeconds,
		AudioEnabled:    cs.Audio.Enabled,
		AudioFrequency:  cs.Audio.FrequencyHz,
	}
}

// Apply pushes the preferences into a controller.
func (s Snapshot) Apply(c *slideshow.Controller) {
	s = s.Normalize()
	c.SetDisplay(s.Display())
	c.SetReverse(s.Reverse)
	c.SetInterval(s.IntervalSeconds)
	c.SetAudio(s.Audio())
}
