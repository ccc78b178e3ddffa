package ui

import (
	"context"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoreader/internal/content"
	"photoreader/internal/slideshow"
)

func playingApp(t *testing.T) (*App, fyne.Window) {
	t.Helper()
	test.NewTempApp(t)
	win := test.NewTempWindow(t, widget.NewLabel("stage"))

	a := &App{screen: &windowScreen{win: win}}
	a.UI.MainWin = win
	a.ctrl = slideshow.NewController(slideshow.Options{Fullscreen: a.screen})
	a.ctrl.Load(content.NewWordStream("words", "one two three four"))
	a.ctrl.Start(context.Background())
	require.Equal(t, slideshow.Playing, a.ctrl.State())
	require.Eventually(t, win.FullScreen, time.Second, time.Millisecond)
	return a, win
}

func TestWindowManagerFullscreenExitStops(t *testing.T) {
	a, win := playingApp(t)

	// the window manager takes the window out of fullscreen
	win.SetFullScreen(false)
	a.onStageResize(fyne.NewSize(640, 480))
	assert.Equal(t, slideshow.Stopped, a.ctrl.State())
}

func TestResizeWhileFullscreenKeepsPlaying(t *testing.T) {
	a, _ := playingApp(t)

	a.onStageResize(fyne.NewSize(1920, 1080))
	assert.Equal(t, slideshow.Playing, a.ctrl.State())

	a.ctrl.Stop()
	require.Eventually(t, func() bool { return !a.screen.win.FullScreen() }, time.Second, time.Millisecond)
	assert.False(t, a.screen.left(), "an Exit from Stop is not reported again")
}
