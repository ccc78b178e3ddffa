package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"photoreader/internal/content"
	"photoreader/internal/display"
	"photoreader/internal/extract"
	"photoreader/internal/service"
	"photoreader/internal/slideshow"
)

// settingsForm holds the editable presentation settings.
type settingsForm struct {
	start, end, interval, frequency                 *widget.Entry
	view                                            *widget.Select
	reverse, rotate, mirror, center, corners, guide *widget.Check
	audio                                           *widget.Check

	// loading suppresses change callbacks while values are pushed in.
	loading bool
}

func (a *App) buildToolbar() *widget.Toolbar {
	a.UI.playAction = widget.NewToolbarAction(theme.MediaPlayIcon(), a.togglePlay)
	a.UI.pauseAction = widget.NewToolbarAction(theme.MediaPauseIcon(), a.togglePause)

	a.UI.toolBar = widget.NewToolbar(
		widget.NewToolbarAction(theme.FileIcon(), a.showOpenFile),
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.showOpenFolder),
		widget.NewToolbarAction(theme.HistoryIcon(), a.showRecent),
		widget.NewToolbarSeparator(),
		a.UI.playAction,
		a.UI.pauseAction,
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.InfoIcon(), a.showPageInfo),
		widget.NewToolbarAction(theme.HelpIcon(), a.showShortcuts),
	)
	return a.UI.toolBar
}

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	f := &settingsForm{}
	a.UI.form = f

	intEntry := func(apply func(int)) *widget.Entry {
		e := widget.NewEntry()
		e.OnSubmitted = func(s string) {
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				apply(n)
			}
			a.settingsChanged()
		}
		return e
	}
	floatEntry := func(apply func(float64)) *widget.Entry {
		e := widget.NewEntry()
		e.OnSubmitted = func(s string) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				apply(v)
			}
			a.settingsChanged()
		}
		return e
	}
	check := func(label string, apply func(bool)) *widget.Check {
		return widget.NewCheck(label, func(on bool) {
			if f.loading {
				return
			}
			apply(on)
			a.settingsChanged()
		})
	}
	displayCheck := func(label string, set func(*display.Config, bool)) *widget.Check {
		return check(label, func(on bool) {
			cfg := a.ctrl.Snapshot().Display
			set(&cfg, on)
			a.ctrl.SetDisplay(cfg)
		})
	}

	f.start = intEntry(a.ctrl.SetStart)
	f.end = intEntry(a.ctrl.SetEnd)
	f.interval = floatEntry(a.ctrl.SetInterval)
	f.frequency = floatEntry(func(v float64) {
		cfg := a.ctrl.Snapshot().Audio
		cfg.FrequencyHz = v
		a.ctrl.SetAudio(cfg)
	})
	f.view = widget.NewSelect([]string{"1", "2", "3"}, func(s string) {
		if f.loading {
			return
		}
		n, _ := strconv.Atoi(s)
		cfg := a.ctrl.Snapshot().Display
		cfg.ViewMode = n
		a.ctrl.SetDisplay(cfg)
		a.settingsChanged()
	})
	f.reverse = check("Reverse order", a.ctrl.SetReverse)
	f.rotate = displayCheck("Rotate 180°", func(c *display.Config, on bool) { c.Rotate = on })
	f.mirror = displayCheck("Mirror", func(c *display.Config, on bool) { c.Mirror = on })
	f.center = displayCheck("Center dot", func(c *display.Config, on bool) { c.CenterDot = on })
	f.corners = displayCheck("Corner dots", func(c *display.Config, on bool) { c.CornerDots = on })
	f.guide = displayCheck("Guide line", func(c *display.Config, on bool) { c.GuideLine = on })
	f.audio = check("Tone", func(on bool) {
		cfg := a.ctrl.Snapshot().Audio
		cfg.Enabled = on
		a.ctrl.SetAudio(cfg)
	})

	form := widget.NewForm(
		widget.NewFormItem("Start", f.start),
		widget.NewFormItem("End", f.end),
		widget.NewFormItem("Interval (s)", f.interval),
		widget.NewFormItem("Page view", f.view),
		widget.NewFormItem("Tone (Hz)", f.frequency),
	)
	a.UI.infoText = widget.NewRichTextFromMarkdown("## Document\n---\nNothing loaded.")
	return container.NewVScroll(container.NewVBox(
		form,
		f.reverse, f.rotate, f.mirror, f.center, f.corners, f.guide, f.audio,
		widget.NewSeparator(),
		a.UI.infoText,
	))
}

// load pushes a controller snapshot into the widgets.
func (f *settingsForm) load(s slideshow.Snapshot) {
	f.loading = true
	defer func() { f.loading = false }()

	f.start.SetText(strconv.Itoa(s.Range.Start))
	f.end.SetText(strconv.Itoa(s.Range.End))
	f.interval.SetText(strconv.FormatFloat(s.Range.IntervalSeconds, 'f', -1, 64))
	f.frequency.SetText(strconv.FormatFloat(s.Audio.FrequencyHz, 'f', -1, 64))
	f.view.SetSelected(strconv.Itoa(s.Display.ViewMode))
	f.reverse.SetChecked(s.Range.Reverse)
	f.rotate.SetChecked(s.Display.Rotate)
	f.mirror.SetChecked(s.Display.Mirror)
	f.center.SetChecked(s.Display.CenterDot)
	f.corners.SetChecked(s.Display.CornerDots)
	f.guide.SetChecked(s.Display.GuideLine)
	f.audio.SetChecked(s.Audio.Enabled)
}

func (a *App) settingsChanged() {
	a.persist()
	a.refreshControls()
}

func (a *App) buildStatusBar() fyne.CanvasObject {
	a.UI.leftArrow = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { a.perform(actPreviewBack) })
	a.UI.rightArrow = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { a.perform(actPreviewForward) })
	a.UI.statusLabel = widget.NewLabel("Ready")
	logLabel := widget.NewLabel("")
	logLabel.Truncation = fyne.TextTruncateEllipsis
	up := widget.NewButtonWithIcon("", theme.MoveUpIcon(), a.logUIManager.ShowPreviousLogMessage)
	down := widget.NewButtonWithIcon("", theme.MoveDownIcon(), a.logUIManager.ShowNextLogMessage)
	a.logUIManager.Attach(logLabel, up, down)

	return container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil,
			container.NewHBox(a.UI.leftArrow, a.UI.rightArrow, a.UI.statusLabel),
			container.NewHBox(up, down),
			logLabel,
		),
	)
}

func (a *App) buildMainUI() fyne.CanvasObject {
	a.UI.MainWin.SetMaster()

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Open File...", a.showOpenFile),
			fyne.NewMenuItem("Open Folder...", a.showOpenFolder),
			fyne.NewMenuItem("Recent...", a.showRecent),
		),
		fyne.NewMenu("Slideshow",
			fyne.NewMenuItem("Play / Stop", a.togglePlay),
			fyne.NewMenuItem("Pause / Resume", a.togglePause),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Keyboard Shortcuts", a.showShortcuts),
			fyne.NewMenuItem("About", a.showAbout),
		),
	)
	a.UI.MainWin.SetMainMenu(mainMenu)
	a.buildKeyboardShortcuts()

	a.stage.onPrimary = func() { a.perform(clickAction(false, a.ctrl.State())) }
	a.stage.onSecondary = func() { a.perform(clickAction(true, a.ctrl.State())) }
	a.stage.onResize = a.onStageResize

	split := container.NewHSplit(a.stage, a.buildSettingsPanel())
	split.SetOffset(0.78)
	return container.NewBorder(
		a.buildToolbar(),
		a.buildStatusBar(),
		nil,
		nil,
		split,
	)
}

// refreshControls brings every control in line with the controller.
func (a *App) refreshControls() {
	snap := a.ctrl.Snapshot()
	if a.UI.form != nil {
		a.UI.form.load(snap)
	}
	if a.UI.playAction != nil {
		a.UI.playAction.SetIcon(ternaryIcon(snap.State == slideshow.Stopped, theme.MediaPlayIcon(), theme.MediaStopIcon()))
		a.UI.pauseAction.SetIcon(ternaryIcon(snap.State == slideshow.Paused, theme.MediaPlayIcon(), theme.MediaPauseIcon()))
		a.UI.toolBar.Refresh()
	}
	if a.UI.leftArrow != nil {
		setEnabled(a.UI.leftArrow, snap.State == slideshow.Stopped && snap.Nav.CanBack)
		setEnabled(a.UI.rightArrow, snap.State == slideshow.Stopped && snap.Nav.CanForward)
	}
	a.refreshStatus()
	a.updateInfoText(snap)
}

func (a *App) refreshStatus() {
	if a.UI.statusLabel == nil {
		return
	}
	snap := a.ctrl.Snapshot()
	if !snap.HasDoc {
		a.UI.statusLabel.SetText("Ready")
		return
	}
	last := min(snap.Index+snap.Step-1, snap.UnitCount)
	pos := strconv.Itoa(snap.Index)
	if last > snap.Index {
		pos = fmt.Sprintf("%d-%d", snap.Index, last)
	}
	a.UI.statusLabel.SetText(fmt.Sprintf("%s  |  %s %s / %d  |  %s",
		snap.Title, unitName(snap.Kind), pos, snap.UnitCount, snap.State))
}

func (a *App) updateInfoText(snap slideshow.Snapshot) {
	if a.UI.infoText == nil {
		return
	}
	if !snap.HasDoc {
		a.UI.infoText.ParseMarkdown("## Document\n---\nNothing loaded.")
		return
	}
	format := "-"
	if a.loaded != nil {
		format = a.loaded.Format.String()
	}
	a.UI.infoText.ParseMarkdown(fmt.Sprintf(`## Document
---
**Title:** %s

**Format:** %s

**%s:** %d

**Range:** %d - %d %s
`, snap.Title, format, ternary(snap.Kind == content.KindWordStream, "Words", "Pages"), snap.UnitCount,
		snap.Range.Start, snap.Range.End, ternary(snap.Range.Reverse, "(reversed)", "")))
}

func unitName(k content.Kind) string {
	if k == content.KindWordStream {
		return "word"
	}
	return "page"
}

func (a *App) showOpenFile() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError(err)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		a.open(path)
	}, a.UI.MainWin)
	d.Show()
}

func (a *App) showOpenFolder() {
	d := dialog.NewFolderOpen(func(lu fyne.ListableURI, err error) {
		if err != nil {
			a.showError(err)
			return
		}
		if lu == nil {
			return
		}
		a.open(lu.Path())
	}, a.UI.MainWin)
	d.Show()
}

func (a *App) showRecent() {
	items := a.svc.Recent()
	if len(items) == 0 {
		dialog.ShowInformation("Recent", "No recent documents.", a.UI.MainWin)
		return
	}
	var d dialog.Dialog
	list := widget.NewList(
		func() int { return len(items) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) { obj.(*widget.Label).SetText(items[id]) },
	)
	list.OnSelected = func(id widget.ListItemID) {
		d.Hide()
		a.open(items[id])
	}
	clearBtn := widget.NewButton("Clear", func() {
		a.svc.ClearRecent()
		d.Hide()
	})
	body := container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), clearBtn), nil, nil, list)
	d = dialog.NewCustom("Recent", "Close", body, a.UI.MainWin)
	d.Resize(fyne.NewSize(520, 360))
	d.Show()
}

func (a *App) showPageInfo() {
	snap := a.ctrl.Snapshot()
	if a.loaded == nil || a.loaded.Pages == nil || !snap.HasDoc {
		dialog.ShowInformation("Page info", "Page information is available for image documents.", a.UI.MainWin)
		return
	}
	info, err := a.loaded.Pages.Info(context.Background(), snap.Index)
	if err != nil {
		a.showError(err)
		return
	}
	exifString := "(not available)"
	if len(info.EXIFData) > 0 {
		keys := make([]string, 0, len(info.EXIFData))
		for k := range info.EXIFData {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s**: %s\n\n", k, info.EXIFData[k])
		}
		exifString = b.String()
	}
	md := fmt.Sprintf("**Name:** %s\n\n**Size:** %d bytes\n\n**Width:** %d px\n\n**Height:** %d px\n\n## EXIF\n%s",
		info.Name, info.Size, info.Width, info.Height, exifString)
	dialog.ShowCustom("Page info", "Ok", container.NewVScroll(widget.NewRichTextFromMarkdown(md)), a.UI.MainWin)
}

// showError reports a failure. Load failures name the document.
func (a *App) showError(err error) {
	var le *service.LoadError
	var ee *extract.ExtractionError
	switch {
	case errors.As(err, &ee):
		a.log.Warn("Insufficient content", zap.Error(err))
	case errors.As(err, &le):
		a.log.Warn("Load failed", zap.String("source", le.Source), zap.Error(err))
	default:
		a.log.Warn("Operation failed", zap.Error(err))
	}
	dialog.ShowError(err, a.UI.MainWin)
}

func ternaryIcon(cond bool, a, b fyne.Resource) fyne.Resource {
	if cond {
		return a
	}
	return b
}

func setEnabled(w fyne.Disableable, on bool) {
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}

func (a *App) showAbout() {
	facts := [][2]string{
		{"Settings", a.store.Path()},
		{"Stage", fmt.Sprintf("%dx%d", a.cfg.Stage.Width, a.cfg.Stage.Height)},
	}
	if a.loaded != nil {
		facts = append(facts, [2]string{"Session", a.loaded.ID.String()})
	}
	NewAbout(a.UI.MainWin, "About PhotoReader", facts).Show()
}
