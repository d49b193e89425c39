// Package ui  Shortcuts for keyboard actions
package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

func (a *App) buildKeyboardShortcuts() {
	// ctrl+q to quit application
	a.UI.MainWin.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyQ,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.quit() })

	a.UI.MainWin.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyRight:
			a.view.LightboxNext()
		case fyne.KeyLeft:
			a.view.LightboxPrevious()
		case fyne.KeyM:
			a.requestExpand()
		case fyne.KeyEscape:
			// close dialogs first, then the lightbox
			if len(a.UI.MainWin.Canvas().Overlays().List()) > 0 {
				a.UI.MainWin.Canvas().Overlays().Top().Hide()
				return
			}
			a.view.CloseLightbox()
		}
	})
}

func (a *App) quit() {
	a.shutdown()
	a.app.Quit()
}

var shortcutRows = [][2]string{
	{"Quit Application", "Ctrl+Q"},
	{"Next Image (lightbox)", "Arrow Right"},
	{"Previous Image (lightbox)", "Arrow Left"},
	{"Close Lightbox", "Esc"},
	{"Load More Images", "M"},
}

func (a *App) showShortcuts() {
	win := a.app.NewWindow("Keyboard Shortcuts")
	table := widget.NewTable(
		func() (int, int) { return len(shortcutRows) + 1, 2 }, // +1 for header row
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id.Row == 0 {
				label.TextStyle.Bold = true
				label.SetText([2]string{"Description", "Shortcut"}[id.Col])
				return
			}
			label.TextStyle.Bold = false
			label.SetText(shortcutRows[id.Row-1][id.Col])
		},
	)
	table.SetColumnWidth(0, 250)
	table.SetColumnWidth(1, 150)
	win.SetContent(table)
	win.Resize(fyne.NewSize(420, 260))
	win.Show()
}
