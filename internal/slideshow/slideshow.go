// Package slideshow drives timed playback through a document. The Controller
// is the single owner of playback state; timers, key handlers and window
// events all go through its methods.
package slideshow

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"photoreader/internal/content"
	"photoreader/internal/display"
	"photoreader/internal/playback"
)

// State of the playback lifecycle.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options wires a Controller to its collaborators. Only Renderer is required.
type Options struct {
	Renderer   Renderer
	Audio      AudioSink
	Fullscreen Fullscreen
	Logger     *zap.Logger
	NewTicker  func(time.Duration) Ticker
}

type armedTimer struct {
	ticker Ticker
	stop   chan struct{}
}

// Controller handles the slideshow functionality.
type Controller struct {
	renderer  Renderer
	audio     AudioSink
	screen    Fullscreen
	log       *zap.Logger
	newTicker func(time.Duration) Ticker

	toneMu sync.Mutex // held around tone start and stop

	mu       sync.Mutex
	doc      content.Document
	rng      playback.Range
	disp     display.Config
	audioCfg AudioConfig
	state    State
	current  int
	seq      uint64
	epoch    uint64 // bumped by every Start and Stop
	gen      uint64 // identifies the armed timer
	timer    *armedTimer
	toneOn   bool
}

// NewController creates a stopped controller with no document.
func NewController(opts Options) *Controller {
	c := &Controller{
		renderer:  opts.Renderer,
		audio:     opts.Audio,
		screen:    opts.Fullscreen,
		log:       opts.Logger,
		newTicker: opts.NewTicker,
		rng:       playback.NewRange(1),
		disp:      display.DefaultConfig(),
		audioCfg:  AudioConfig{FrequencyHz: DefaultToneHz},
		current:   1,
	}
	if c.renderer == nil {
		c.renderer = RendererFunc(func(display.Request) {})
	}
	if c.audio == nil {
		c.audio = nopAudio{}
	}
	if c.screen == nil {
		c.screen = nopScreen{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.newTicker == nil {
		c.newTicker = NewTimeTicker
	}
	return c
}

// Load replaces the document. A running slideshow is stopped first. The range
// is reset for the new document and the first unit is shown.
func (c *Controller) Load(doc content.Document) {
	c.Stop()

	c.mu.Lock()
	c.doc = doc
	c.current = 1
	if doc != nil {
		if doc.Kind() == content.KindImagePaged {
			c.rng = c.rng.ResetForPages(doc.UnitCount())
		} else {
			c.rng = c.rng.ResetForWords(doc.UnitCount())
		}
		c.log.Info("Document loaded",
			zap.String("title", doc.Title()),
			zap.Stringer("kind", doc.Kind()),
			zap.Int("units", doc.UnitCount()))
	}
	req := c.requestLocked()
	c.mu.Unlock()

	c.renderer.Display(req)
}

// Start enters fullscreen, starts the tone when enabled, shows the initial
// unit and arms the timer, in that order. It does nothing without a playable
// document or when a slideshow is already running. A Stop that lands while a
// side effect is in progress ends the Start at that point.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.doc == nil || c.doc.UnitCount() == 0 || c.state != Stopped {
		c.mu.Unlock()
		return
	}
	c.state = Playing
	c.epoch++
	epoch := c.epoch
	c.mu.Unlock()

	// collaborators are called without the lock; they may call back in
	if err := c.screen.Enter(ctx); err != nil {
		c.log.Warn("Unable to enter fullscreen", zap.Error(err))
	}

	if !c.startTone(epoch) {
		return
	}

	c.mu.Lock()
	if !c.currentLocked(epoch) {
		c.mu.Unlock()
		return
	}
	c.current = playback.InitialIndex(c.rng)
	req := c.requestLocked()
	c.mu.Unlock()

	c.renderer.Display(req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.currentLocked(epoch) {
		return
	}
	c.armLocked()
	c.log.Info("Slideshow started",
		zap.Int("index", c.current),
		zap.Int("start", c.rng.Start),
		zap.Int("end", c.rng.End),
		zap.Bool("reverse", c.rng.Reverse),
		zap.Duration("interval", c.rng.Interval()))
}

// currentLocked reports whether the Start that took epoch is still the
// running one.
func (c *Controller) currentLocked(epoch uint64) bool {
	return c.epoch == epoch && c.state == Playing
}

// startTone turns the tone on for the Start that took epoch. It holds toneMu
// across the call so a concurrent Stop silences the tone after it started,
// never before. It returns false when that Start was already stopped.
func (c *Controller) startTone(epoch uint64) bool {
	c.toneMu.Lock()
	defer c.toneMu.Unlock()

	c.mu.Lock()
	if !c.currentLocked(epoch) {
		// stopped while fullscreen was being entered
		c.mu.Unlock()
		return false
	}
	c.toneOn = c.audioCfg.Enabled
	tone, freq := c.toneOn, c.audioCfg.FrequencyHz
	c.mu.Unlock()

	if tone {
		if err := c.audio.StartTone(freq); err != nil {
			c.log.Warn("Unable to start tone", zap.Float64("frequency", freq), zap.Error(err))
		}
	}
	return true
}

// Stop ends playback from Playing or Paused. It is safe to call from inside a
// tick or render callback.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state == Stopped {
		c.mu.Unlock()
		return
	}
	c.state = Stopped
	c.epoch++
	c.disarmLocked()
	tone := c.toneOn
	c.toneOn = false
	c.log.Info("Slideshow stopped", zap.Int("index", c.current))
	c.mu.Unlock()

	if tone {
		c.toneMu.Lock()
		c.audio.StopTone()
		c.toneMu.Unlock()
	}
	if c.screen.IsFullscreen() {
		c.screen.Exit()
	}
}

// FullscreenExited is the notification that the presentation surface left
// fullscreen outside of Stop. Playback cannot continue without it.
func (c *Controller) FullscreenExited() {
	c.Stop()
}

// Toggle starts a stopped slideshow and stops a running one.
func (c *Controller) Toggle(ctx context.Context) {
	if c.State() == Stopped {
		c.Start(ctx)
		return
	}
	c.Stop()
}

// Pause keeps the position and the tone but disarms the timer.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Playing {
		return
	}
	c.state = Paused
	c.disarmLocked()
	c.log.Debug("Slideshow paused", zap.Int("index", c.current))
}

// Resume re-arms the timer using the interval configured now.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Paused {
		return
	}
	c.state = Playing
	c.armLocked()
	c.log.Debug("Slideshow resumed", zap.Int("index", c.current), zap.Duration("interval", c.rng.Interval()))
}

// TogglePause flips between Playing and Paused.
func (c *Controller) TogglePause() {
	switch c.State() {
	case Playing:
		c.Pause()
	case Paused:
		c.Resume()
	}
}

// Tick advances playback by one step. The timer calls it; tests and headless
// drivers may call it directly. Outside Playing it does nothing.
func (c *Controller) Tick() {
	c.mu.Lock()
	if c.state != Playing {
		c.mu.Unlock()
		return
	}
	req := c.advanceLocked()
	c.mu.Unlock()
	c.renderer.Display(req)
}

// tick is the timer callback. Ticks from a timer that has since been
// replaced or disarmed are dropped.
func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.timer == nil || c.state != Playing {
		c.mu.Unlock()
		return
	}
	req := c.advanceLocked()
	c.mu.Unlock()
	c.renderer.Display(req)
}

func (c *Controller) advanceLocked() display.Request {
	c.current = playback.Advance(c.current, c.rng, c.stepLocked())
	return c.requestLocked()
}

// GoBack steps backward regardless of the playback direction.
func (c *Controller) GoBack() {
	c.navigate(func(cur int, r playback.Range, step int) int {
		return playback.Retreat(cur, r, step)
	})
}

// GoForward is the manual skip. It follows the playback direction when
// playing forward, and moves forward anyway when the range is reversed.
func (c *Controller) GoForward() {
	c.navigate(func(cur int, r playback.Range, step int) int {
		if r.Reverse {
			return playback.SkipForward(cur, r, step)
		}
		return playback.Advance(cur, r, step)
	})
}

func (c *Controller) navigate(move func(int, playback.Range, int) int) {
	c.mu.Lock()
	if c.doc == nil || c.doc.UnitCount() == 0 {
		c.mu.Unlock()
		return
	}
	c.current = move(c.current, c.rng, c.stepLocked())
	req := c.requestLocked()
	c.mu.Unlock()
	c.renderer.Display(req)
}

// PreviewBack browses backward while stopped, clamping at the first unit.
func (c *Controller) PreviewBack() {
	c.preview(func(cur, _, step int) int { return playback.PreviewBack(cur, step) })
}

// PreviewForward browses forward while stopped, clamping at the last full
// view.
func (c *Controller) PreviewForward() {
	c.preview(playback.PreviewForward)
}

func (c *Controller) preview(move func(cur, count, step int) int) {
	c.mu.Lock()
	if c.state != Stopped || c.doc == nil || c.doc.UnitCount() == 0 || c.doc.Kind() == content.KindWordStream {
		c.mu.Unlock()
		return
	}
	next := move(c.current, c.doc.UnitCount(), c.stepLocked())
	if next == c.current {
		c.mu.Unlock()
		return
	}
	c.current = next
	req := c.requestLocked()
	c.mu.Unlock()
	c.renderer.Display(req)
}

// SetStart changes the range start. Out-of-range values are clamped.
func (c *Controller) SetStart(start int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rng = c.rng.WithStart(start, c.boundLocked())
}

// SetEnd changes the range end. Out-of-range values are clamped.
func (c *Controller) SetEnd(end int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rng = c.rng.WithEnd(end, c.boundLocked())
}

// SetReverse changes the playback direction for subsequent steps.
func (c *Controller) SetReverse(reverse bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rng.Reverse = reverse
}

// SetInterval changes the auto-advance interval. A running timer keeps its
// period; the new value applies from the next start or resume.
func (c *Controller) SetInterval(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rng = c.rng.WithInterval(seconds)
}

// SetDisplay changes the presentation settings and redraws when they differ.
func (c *Controller) SetDisplay(cfg display.Config) {
	cfg = cfg.Normalize()
	c.mu.Lock()
	if cfg == c.disp {
		c.mu.Unlock()
		return
	}
	c.disp = cfg
	if c.doc == nil {
		c.mu.Unlock()
		return
	}
	req := c.requestLocked()
	c.mu.Unlock()
	c.renderer.Display(req)
}

// SetAudio changes the tone settings. They apply from the next start.
func (c *Controller) SetAudio(cfg AudioConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audioCfg = cfg.Normalize()
}

// Redraw re-emits the current frame, for example after the stage resized.
func (c *Controller) Redraw() {
	c.mu.Lock()
	if c.doc == nil {
		c.mu.Unlock()
		return
	}
	req := c.requestLocked()
	c.mu.Unlock()
	c.renderer.Display(req)
}

// Snapshot is a consistent read-only view of the controller.
type Snapshot struct {
	State     State
	Index     int
	Range     playback.Range
	Display   display.Config
	Audio     AudioConfig
	HasDoc    bool
	Kind      content.Kind
	Title     string
	UnitCount int
	Step      int
	Nav       playback.NavState
}

// Snapshot returns a consistent copy of the controller state and settings.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		State:   c.state,
		Index:   c.current,
		Range:   c.rng,
		Display: c.disp,
		Audio:   c.audioCfg,
		Step:    c.stepLocked(),
	}
	if c.doc != nil {
		s.HasDoc = true
		s.Kind = c.doc.Kind()
		s.Title = c.doc.Title()
		s.UnitCount = c.doc.UnitCount()
		if s.Kind != content.KindWordStream {
			s.Nav = playback.Nav(c.current, s.UnitCount, s.Step)
		}
	}
	return s
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Document returns the loaded document, or nil.
func (c *Controller) Document() content.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

func (c *Controller) stepLocked() int {
	return content.StepSize(c.doc, c.disp.ViewMode)
}

func (c *Controller) boundLocked() int {
	if c.doc == nil || c.doc.UnitCount() == 0 {
		return math.MaxInt32
	}
	return c.doc.UnitCount()
}

func (c *Controller) requestLocked() display.Request {
	c.seq++
	req := display.Build(c.doc, c.current, c.disp)
	req.Seq = c.seq
	return req
}

// armLocked replaces any armed timer with a new one at the current interval.
func (c *Controller) armLocked() {
	c.disarmLocked()
	c.gen++
	gen := c.gen
	t := &armedTimer{ticker: c.newTicker(c.rng.Interval()), stop: make(chan struct{})}
	c.timer = t
	go func() {
		for {
			select {
			case <-t.stop:
				return
			case <-t.ticker.C():
				c.tick(gen)
			}
		}
	}()
}

func (c *Controller) disarmLocked() {
	if c.timer == nil {
		return
	}
	c.timer.ticker.Stop()
	close(c.timer.stop)
	c.timer = nil
}
