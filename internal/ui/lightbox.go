package ui

import (
	"fmt"
	"image/color"
	"strings"

	"lensgallery/internal/catalog"
	"lensgallery/internal/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// lightboxView is the full-size viewer drawn over the grid.
type lightboxView struct {
	app     *App
	overlay *fyne.Container
	image   *canvas.Image
	title   *widget.Label
	details *widget.Label

	// shown is the display path currently loaded; loads for any other path are stale.
	shown string
}

func newLightboxView(a *App) *lightboxView {
	lb := &lightboxView{
		app:     a,
		image:   canvas.NewImageFromResource(theme.FileImageIcon()),
		title:   widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		details: widget.NewLabel(""),
	}
	lb.image.FillMode = canvas.ImageFillContain
	lb.details.Alignment = fyne.TextAlignCenter
	lb.details.Wrapping = fyne.TextWrapWord

	backdrop := canvas.NewRectangle(color.NRGBA{A: 0xe0})
	prev := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { a.view.LightboxPrevious() })
	next := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { a.view.LightboxNext() })
	closeBtn := widget.NewButtonWithIcon("", theme.CancelIcon(), func() { a.view.CloseLightbox() })

	lb.overlay = container.NewStack(
		backdrop,
		container.NewBorder(
			container.NewHBox(layout.NewSpacer(), closeBtn),
			container.NewVBox(lb.title, lb.details),
			container.NewCenter(prev),
			container.NewCenter(next),
			lb.image,
		),
	)
	lb.overlay.Hide()
	return lb
}

// render shows, hides or retargets the viewer.
func (lb *lightboxView) render(state service.LightboxSnapshot) {
	if !state.Open || state.Image == nil {
		lb.shown = ""
		lb.overlay.Hide()
		return
	}
	img := *state.Image
	lb.title.SetText(fmt.Sprintf("%s  (%d)", img.Title, *state.ActiveIndex+1))
	lb.overlay.Show()
	if lb.shown == img.Path {
		return
	}
	lb.shown = img.Path
	lb.image.Image = nil
	lb.image.Resource = theme.FileImageIcon()
	lb.image.Refresh()
	lb.details.SetText("")
	if lb.app.ImageService.Available() {
		go lb.load(img)
	}
}

// load decodes the full image and its metadata off the fyne goroutine.
func (lb *lightboxView) load(img catalog.Image) {
	images := lb.app.ImageService
	decoded, err := images.DecodeImage(img)
	info, infoErr := images.GetImageInfo(img)
	fyne.Do(func() {
		if lb.shown != img.Path {
			return
		}
		if err != nil {
			lb.details.SetText(err.Error())
			return
		}
		lb.image.Resource = nil
		lb.image.Image = decoded
		lb.image.Refresh()
		if infoErr == nil {
			lb.details.SetText(describe(info))
		}
	})
}

// describe summarizes image metadata in one line.
func describe(info *service.ImageInfo) string {
	parts := []string{fmt.Sprintf("%d x %d", info.Width, info.Height)}
	for _, field := range []string{"Model", "ExposureTime", "FNumber", "ISOSpeedRatings", "FocalLength", "DateTime"} {
		if v, ok := info.EXIFData[field]; ok {
			parts = append(parts, field+" "+strings.Trim(v, `"`))
		}
	}
	return strings.Join(parts, "  |  ")
}
