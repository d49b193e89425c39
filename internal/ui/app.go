// Package ui is the desktop front-end of the gallery.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"lensgallery/internal/catalog"
	"lensgallery/internal/config"
	"lensgallery/internal/scroll"
	"lensgallery/internal/service"
	"lensgallery/internal/titles"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// UI holds the widgets the App updates after each view change.
type UI struct {
	MainWin    fyne.Window
	mainModKey fyne.KeyModifier

	grid        *fyne.Container
	scroller    *container.Scroll
	loadMoreBtn *widget.Button
	modeLabel   *widget.Label
	countLabel  *widget.Label

	statusLogLabel   *widget.Label
	statusLogUpBtn   *widget.Button
	statusLogDownBtn *widget.Button

	lightbox *lightboxView
}

// App is the gallery window: one mounted view plus the widgets drawing it.
type App struct {
	app fyne.App
	UI  UI

	cfg     config.Config
	catalog *catalog.Catalog
	view    *service.View
	feed    *scroll.Feed
	cancel  context.CancelFunc
	closeDB func() error

	tiles        map[string]*galleryTile
	thumbnails   *ThumbnailManager
	logUIManager *LogUIManager
	logger       *slog.Logger

	Service      *service.Service
	ImageService *service.ImageService
}

// CreateApplication is the GUI entrypoint
func CreateApplication() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	a := app.NewWithID("io.lensgallery.desktop")
	a.Settings().SetTheme(NewCompactTheme(a.Settings().Theme()))

	ui := &App{app: a, cfg: cfg, tiles: map[string]*galleryTile{}}
	ui.UI.MainWin = a.NewWindow("Lens Gallery")

	// Records go to stderr and, once the status bar exists, to the log strip.
	ui.logger = slog.New(newStatusHandler(slog.NewTextHandler(os.Stderr, nil), ui.addLogRecord))
	slog.SetDefault(ui.logger)

	tdb, err := titles.NewTitleDB(cfg.DBPath, ui.logger)
	if err != nil {
		// Titles are optional; the gallery still runs on file names.
		ui.logger.Warn("Title database unavailable", "err", err)
		ui.Service = service.NewService(nil, ui.logger)
	} else {
		ui.Service = service.NewService(tdb, ui.logger)
		ui.closeDB = tdb.Close
	}
	ui.catalog, err = ui.Service.LoadCatalog(cfg)
	if err != nil {
		ui.logger.Error("Failed to load catalog", "err", err)
		ui.catalog = catalog.New(cfg.Folder, nil)
	}
	ui.ImageService = service.NewImageService(cfg.Dir)
	ui.thumbnails = NewThumbnailManager(ui.ImageService, func(msg string) { ui.logger.Warn(msg) })
	ui.newView()

	ui.UI.MainWin.SetContent(ui.buildMainUI())
	ui.UI.MainWin.SetCloseIntercept(func() {
		ui.shutdown()
		ui.UI.MainWin.Close()
	})
	ui.UI.MainWin.Resize(fyne.NewSize(1100, 800))
	ui.UI.MainWin.CenterOnScreen()

	a.Lifecycle().SetOnStarted(ui.mount)
	ui.UI.MainWin.ShowAndRun()
}

// newView creates the unmounted gallery view the window drives.
func (a *App) newView() {
	a.feed = scroll.NewFeed()
	a.view = service.NewView(a.catalog, service.ViewOptions{
		InitialDisplay:   a.cfg.InitialDisplay,
		RotationInterval: a.cfg.RotationInterval,
		LoadThreshold:    a.cfg.LoadThreshold,
		LoadBatch:        a.cfg.LoadBatch,
		OnChange: func(snap service.Snapshot) {
			// Rotation ticks arrive on the timer goroutine.
			fyne.Do(func() { a.render(snap) })
		},
	}, a.logger)
	a.view.Subscribe(a.feed)
}

// mount samples the first images and starts rotation once the app runs.
func (a *App) mount() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.view.Mount(ctx)
}

// shutdown stops rotation, detaches the scroll feed and closes the title DB.
func (a *App) shutdown() {
	if a.view != nil {
		a.view.Teardown()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.closeDB != nil {
		a.logger.Info("Closing title database")
		if err := a.closeDB(); err != nil {
			a.logger.Error("Error closing title database", "err", err)
		}
		a.closeDB = nil
	}
}

// addLogRecord shows a log record in the status bar log strip.
func (a *App) addLogRecord(level slog.Level, at time.Time, text string) {
	if a.logUIManager == nil {
		return
	}
	fyne.Do(func() { a.logUIManager.Add(level, at, text) })
}
