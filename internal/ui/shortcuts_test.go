package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"

	"photoreader/internal/slideshow"
)

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key   fyne.KeyName
		state slideshow.State
		want  action
	}{
		{fyne.KeyEscape, slideshow.Playing, actStop},
		{fyne.KeyEscape, slideshow.Paused, actStop},
		{fyne.KeyP, slideshow.Playing, actTogglePause},
		{fyne.KeyP, slideshow.Paused, actTogglePause},
		{fyne.KeyReturn, slideshow.Paused, actResume},
		{fyne.KeyEnter, slideshow.Paused, actResume},
		{fyne.KeyReturn, slideshow.Playing, actNone},
		{fyne.KeyLeft, slideshow.Playing, actBack},
		{fyne.KeyUp, slideshow.Paused, actBack},
		{fyne.KeyRight, slideshow.Playing, actForward},
		{fyne.KeyDown, slideshow.Playing, actForward},
		{fyne.KeySpace, slideshow.Playing, actForward},
		{fyne.KeyA, slideshow.Playing, actNone},

		{fyne.KeyLeft, slideshow.Stopped, actPreviewBack},
		{fyne.KeyRight, slideshow.Stopped, actPreviewForward},
		{fyne.KeyUp, slideshow.Stopped, actNone},
		{fyne.KeySpace, slideshow.Stopped, actNone},
		{fyne.KeyP, slideshow.Stopped, actNone},
		{fyne.KeyEscape, slideshow.Stopped, actCloseOverlay},
	}
	for _, tt := range tests {
		t.Run(string(tt.key)+"/"+tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, keyAction(tt.key, tt.state))
		})
	}
}

func TestClickAction(t *testing.T) {
	assert.Equal(t, actBack, clickAction(false, slideshow.Playing))
	assert.Equal(t, actForward, clickAction(true, slideshow.Playing))
	assert.Equal(t, actBack, clickAction(false, slideshow.Paused))
	assert.Equal(t, actNone, clickAction(false, slideshow.Stopped))
	assert.Equal(t, actNone, clickAction(true, slideshow.Stopped))
}

func TestTernaryRow(t *testing.T) {
	rows := []string{"a", "b"}
	assert.Equal(t, "", ternaryRow(rows, -1))
	assert.Equal(t, "b", ternaryRow(rows, 1))
	assert.Equal(t, "", ternaryRow(rows, 2))
}
