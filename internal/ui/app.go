// Package ui is the Fyne front end of photoreader.
package ui

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"photoreader/internal/audio"
	"photoreader/internal/config"
	"photoreader/internal/render"
	"photoreader/internal/service"
	"photoreader/internal/settings"
	"photoreader/internal/slideshow"
)

const appID = "io.github.photoreader"

// Options configure CreateApplication.
type Options struct {
	Config *config.Config
	// DBPath overrides the configured settings directory.
	DBPath string
	// Path is opened on start when set.
	Path string
}

// UI holds the widgets the application updates.
type UI struct {
	MainWin    fyne.Window
	mainModKey fyne.KeyModifier

	toolBar     *widget.Toolbar
	playAction  *widget.ToolbarAction
	pauseAction *widget.ToolbarAction
	leftArrow   *widget.Button
	rightArrow  *widget.Button

	statusLabel *widget.Label
	infoText    *widget.RichText
	form        *settingsForm
}

// App represents the whole application with its windows, widgets and the
// presentation engine behind them.
type App struct {
	app fyne.App
	UI  UI

	cfg   *config.Config
	log   *zap.Logger
	store *settings.Store
	svc   *service.Service
	ctrl  *slideshow.Controller
	pipe  *render.Pipeline
	stage  *stage
	screen *windowScreen

	loaded       *service.Loaded
	logUIManager *LogUIManager
}

// CreateApplication is the GUI entrypoint. It returns when the window closes.
func CreateApplication(opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.LoadConfiguration(""); err != nil {
			return err
		}
	}

	fa := app.NewWithID(appID)
	fa.Settings().SetTheme(NewCompactTheme(fa.Settings().Theme()))

	a := &App{app: fa, cfg: cfg, logUIManager: NewLogUIManager(DefaultMaxLogMessages)}

	log, err := cfg.Logging.Prepare(newStatusCore(zapcore.InfoLevel, a.logUIManager.postToUI))
	if err != nil {
		return fmt.Errorf("unable to prepare logs: %w", err)
	}
	a.log = log

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = cfg.Storage.Path
	}
	if a.store, err = settings.Open(dbPath, log.Named("settings")); err != nil {
		return err
	}
	a.svc = service.NewService(service.Options{
		PageLength: cfg.Extraction.PageLength,
		Store:      a.store,
		Logger:     log.Named("service"),
	})

	composer, err := render.NewComposer(log.Named("render"))
	if err != nil {
		a.store.Close()
		return err
	}

	a.UI.MainWin = fa.NewWindow("PhotoReader")
	a.stage = newStage()
	a.screen = &windowScreen{win: a.UI.MainWin}
	a.pipe = render.NewPipeline(composer, image.Pt(cfg.Stage.Width, cfg.Stage.Height), log.Named("render"), a.onFrame)
	a.ctrl = slideshow.NewController(slideshow.Options{
		Renderer:   a.pipe,
		Audio:      audio.NewTone(log.Named("audio")),
		Fullscreen: a.screen,
		Logger:     log.Named("controller"),
	})

	prefs, ok := a.store.Load()
	if !ok {
		prefs = cfg.Preferences()
	}
	prefs.Apply(a.ctrl)

	if runtime.GOOS == "darwin" {
		a.UI.mainModKey = fyne.KeyModifierSuper
	} else {
		a.UI.mainModKey = fyne.KeyModifierControl
	}
	a.UI.MainWin.SetContent(a.buildMainUI())
	a.UI.MainWin.SetCloseIntercept(func() {
		if err := a.shutdown(); err != nil {
			a.log.Error("Shutdown incomplete", zap.Error(err))
		}
		a.UI.MainWin.Close()
	})
	a.UI.MainWin.Resize(fyne.NewSize(float32(cfg.Stage.Width), float32(cfg.Stage.Height)))
	a.UI.MainWin.CenterOnScreen()

	if opts.Path != "" {
		a.open(opts.Path)
	}
	a.refreshControls()
	a.UI.MainWin.ShowAndRun()
	return nil
}

// open loads a document off the UI goroutine and hands it to the controller.
func (a *App) open(path string) {
	a.log.Info("Opening", zap.String("path", path))
	go func() {
		loaded, err := a.svc.Open(context.Background(), path)
		fyne.Do(func() {
			if err != nil {
				a.showError(err)
				return
			}
			a.loaded = loaded
			a.ctrl.Load(loaded.Document)
			a.UI.MainWin.SetTitle(fmt.Sprintf("PhotoReader - %s", loaded.Document.Title()))
			a.refreshControls()
		})
	}()
}

func (a *App) onFrame(f render.Frame) {
	fyne.Do(func() {
		a.stage.SetFrame(f.Image)
		a.refreshStatus()
	})
}

func (a *App) onStageResize(size fyne.Size) {
	// leaving fullscreen resizes the stage
	if a.screen != nil && a.screen.left() {
		a.ctrl.FullscreenExited()
		a.refreshControls()
	}
	if a.pipe == nil {
		return
	}
	a.pipe.SetSize(pixelSize(size, a.UI.MainWin.Canvas().Scale()))
	a.ctrl.Redraw()
}

func (a *App) togglePlay() {
	a.ctrl.Toggle(context.Background())
	a.refreshControls()
}

func (a *App) togglePause() {
	a.ctrl.TogglePause()
	a.refreshControls()
}

// persist stores the controller's current preferences.
func (a *App) persist() {
	if err := a.store.Save(settings.FromController(a.ctrl.Snapshot())); err != nil {
		a.log.Warn("Unable to save settings", zap.Error(err))
	}
}

func (a *App) shutdown() error {
	a.ctrl.Stop()
	a.pipe.Close()
	err := multierr.Combine(
		a.store.Save(settings.FromController(a.ctrl.Snapshot())),
		a.store.Close(),
	)
	// Sync on a console may fail harmlessly.
	_ = a.log.Sync()
	return err
}
