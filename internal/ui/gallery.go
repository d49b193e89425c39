package ui

import (
	"fmt"
	"runtime"

	"lensgallery/internal/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	// TileSize is the edge length of a gallery tile's image area.
	TileSize = 220
	// tileLabelHeight leaves room for the title under each tile.
	tileLabelHeight = 36
)

func (a *App) buildMainUI() fyne.CanvasObject {
	// set main mod key to super on darwin hosts, else set it to ctrl
	if runtime.GOOS == "darwin" {
		a.UI.mainModKey = fyne.KeyModifierSuper
	} else {
		a.UI.mainModKey = fyne.KeyModifierControl
	}

	a.UI.grid = container.NewGridWrap(fyne.NewSize(TileSize, TileSize+tileLabelHeight))
	a.UI.loadMoreBtn = widget.NewButtonWithIcon("Load More Images", theme.ContentAddIcon(), a.requestExpand)
	a.UI.loadMoreBtn.Importance = widget.HighImportance
	a.UI.loadMoreBtn.Hide()

	content := container.NewVBox(
		a.UI.grid,
		container.NewHBox(layout.NewSpacer(), a.UI.loadMoreBtn, layout.NewSpacer()),
	)
	a.UI.scroller = container.NewVScroll(content)
	a.UI.scroller.OnScrolled = a.onScrolled

	a.UI.lightbox = newLightboxView(a)

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu("Gallery",
			fyne.NewMenuItem("Load More Images", a.requestExpand),
			fyne.NewMenuItem("Keyboard Shortcuts", a.showShortcuts),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("About", func() {
				NewAbout(a.UI.MainWin, "About Lens Gallery", a.catalog.Len()).Show()
			}),
		),
	)
	a.UI.MainWin.SetMainMenu(mainMenu)
	a.buildKeyboardShortcuts()

	return container.NewStack(
		container.NewBorder(nil, a.buildStatusBar(), nil, nil, a.UI.scroller),
		a.UI.lightbox.overlay,
	)
}

func (a *App) buildStatusBar() fyne.CanvasObject {
	a.UI.modeLabel = widget.NewLabel("")
	a.UI.countLabel = widget.NewLabel("")
	a.UI.statusLogLabel = widget.NewLabel("")
	a.UI.statusLogLabel.Truncation = fyne.TextTruncateEllipsis
	a.UI.statusLogUpBtn = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() { a.logUIManager.Older() })
	a.UI.statusLogDownBtn = widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() { a.logUIManager.Newer() })
	a.logUIManager = NewLogUIManager(a.UI.statusLogLabel, a.UI.statusLogUpBtn, a.UI.statusLogDownBtn, DefaultMaxLogMessages)
	a.logUIManager.refresh()

	return container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil,
			container.NewHBox(a.UI.modeLabel, widget.NewSeparator(), a.UI.countLabel, widget.NewSeparator()),
			container.NewHBox(a.UI.statusLogUpBtn, a.UI.statusLogDownBtn),
			a.UI.statusLogLabel,
		),
	)
}

// render redraws the window from a view snapshot. It runs on the fyne goroutine.
func (a *App) render(snap service.Snapshot) {
	objects := make([]fyne.CanvasObject, 0, len(snap.Images))
	live := make(map[string]bool, len(snap.Images))
	for i, img := range snap.Images {
		tile, ok := a.tiles[img.Path]
		if !ok {
			tile = newGalleryTile()
			a.tiles[img.Path] = tile
			path := img.Path
			res := a.thumbnails.GetThumbnail(img, func(r fyne.Resource) {
				if t, ok := a.tiles[path]; ok {
					t.SetResource(r)
				}
			})
			tile.SetResource(res)
		}
		index := i
		tile.SetCaption(img.Title)
		tile.onTapped = func() { a.view.OpenLightboxAt(index) }
		live[img.Path] = true
		objects = append(objects, tile)
	}
	for p := range a.tiles {
		if !live[p] {
			delete(a.tiles, p)
		}
	}
	a.UI.grid.Objects = objects
	a.UI.grid.Refresh()

	if snap.ShowLoadMore {
		a.UI.loadMoreBtn.Show()
	} else {
		a.UI.loadMoreBtn.Hide()
	}
	a.UI.modeLabel.SetText(modeText(snap))
	a.UI.countLabel.SetText(fmt.Sprintf("%d of %d images", len(snap.Images), snap.CatalogSize))

	a.UI.lightbox.render(snap.Lightbox)
}

func modeText(snap service.Snapshot) string {
	switch {
	case snap.CatalogSize == 0:
		return "No images"
	case snap.Rotating:
		return "Rotating"
	default:
		return "All images"
	}
}

func (a *App) requestExpand() {
	if !a.view.RequestExpand() {
		return
	}
	a.logger.Info("Showing the full catalog")
}

// onScrolled feeds the scroll position to the view's loader.
func (a *App) onScrolled(pos fyne.Position) {
	viewport := a.UI.scroller.Size().Height
	content := a.UI.scroller.Content.MinSize().Height
	a.feed.PublishPosition(float64(pos.Y), float64(viewport), float64(content))
}
