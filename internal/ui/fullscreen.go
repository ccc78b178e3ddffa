package ui

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
)

// windowScreen drives window fullscreen for the slideshow controller.
type windowScreen struct {
	win fyne.Window

	mu     sync.Mutex
	active bool // fullscreen was entered for a slideshow and not yet left
}

func (s *windowScreen) Enter(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fyne.Do(func() {
		s.win.SetFullScreen(true)
		s.setActive(true)
	})
	return nil
}

func (s *windowScreen) Exit() {
	s.setActive(false)
	fyne.Do(func() { s.win.SetFullScreen(false) })
}

func (s *windowScreen) IsFullscreen() bool {
	return s.win.FullScreen()
}

func (s *windowScreen) setActive(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = v
}

// left reports once that the window dropped out of fullscreen on its own,
// through the window manager rather than Exit.
func (s *windowScreen) left() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.win.FullScreen() {
		return false
	}
	s.active = false
	return true
}
