package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"photoreader/internal/slideshow"
)

type action int

const (
	actNone action = iota
	actStop
	actTogglePause
	actResume
	actBack
	actForward
	actPreviewBack
	actPreviewForward
	actCloseOverlay
)

// keyAction maps a key press to what it does in the given state.
func keyAction(key fyne.KeyName, st slideshow.State) action {
	if st == slideshow.Stopped {
		switch key {
		case fyne.KeyLeft:
			return actPreviewBack
		case fyne.KeyRight:
			return actPreviewForward
		case fyne.KeyEscape:
			return actCloseOverlay
		}
		return actNone
	}
	switch key {
	case fyne.KeyEscape:
		return actStop
	case fyne.KeyP:
		return actTogglePause
	case fyne.KeyReturn, fyne.KeyEnter:
		if st == slideshow.Paused {
			return actResume
		}
	case fyne.KeyLeft, fyne.KeyUp:
		return actBack
	case fyne.KeyRight, fyne.KeyDown, fyne.KeySpace:
		return actForward
	}
	return actNone
}

// clickAction maps a mouse button on the stage. Clicks only navigate while a
// slideshow runs.
func clickAction(secondary bool, st slideshow.State) action {
	if st == slideshow.Stopped {
		return actNone
	}
	if secondary {
		return actForward
	}
	return actBack
}

func (a *App) perform(act action) {
	switch act {
	case actStop:
		a.ctrl.Stop()
	case actTogglePause:
		a.ctrl.TogglePause()
	case actResume:
		a.ctrl.Resume()
	case actBack:
		a.ctrl.GoBack()
	case actForward:
		a.ctrl.GoForward()
	case actPreviewBack:
		a.ctrl.PreviewBack()
	case actPreviewForward:
		a.ctrl.PreviewForward()
	case actCloseOverlay:
		if top := a.UI.MainWin.Canvas().Overlays().Top(); top != nil {
			top.Hide()
		}
		return
	default:
		return
	}
	a.refreshControls()
}

func (a *App) buildKeyboardShortcuts() {
	c := a.UI.MainWin.Canvas()

	c.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyQ,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.app.Quit() })

	c.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyO,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.showOpenFile() })

	c.SetOnTypedKey(func(key *fyne.KeyEvent) {
		a.perform(keyAction(key.Name, a.ctrl.State()))
	})
}

func (a *App) showShortcuts() {
	shortcuts := []string{
		"Ctrl+Q", "Ctrl+O",
		"Escape", "P", "Enter",
		"Left or Up", "Right, Down or Space",
		"Left click", "Right click",
		"Left / Right (stopped)",
	}
	descriptions := []string{
		"Quit Application", "Open Document",
		"Stop Slideshow", "Pause or Resume", "Resume When Paused",
		"Step Back", "Step Forward",
		"Step Back", "Step Forward",
		"Browse Pages",
	}

	win := a.app.NewWindow("Keyboard Shortcuts")
	table := widget.NewTable(
		func() (int, int) { return len(descriptions) + 1, 2 },
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			isHeader := id.Row == 0
			dataRowIndex := id.Row - 1

			if id.Col == 0 {
				label.SetText(ternary(isHeader, "Description", ternaryRow(descriptions, dataRowIndex)))
			} else {
				label.SetText(ternary(isHeader, "Shortcut", ternaryRow(shortcuts, dataRowIndex)))
			}
			label.TextStyle.Bold = isHeader
		},
	)
	table.SetColumnWidth(0, 250)
	table.SetColumnWidth(1, 250)
	win.SetContent(table)
	win.Resize(fyne.NewSize(500, 420))
	win.Show()
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// ternaryRow indexes rows, tolerating the header's -1.
func ternaryRow(rows []string, i int) string {
	if i < 0 || i >= len(rows) {
		return ""
	}
	return rows[i]
}
