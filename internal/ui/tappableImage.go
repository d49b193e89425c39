package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// galleryTile is one grid cell: a thumbnail with its title underneath.
// Tapping it opens the lightbox.
type galleryTile struct {
	widget.BaseWidget
	image    *canvas.Image
	caption  *widget.Label
	onTapped func()
}

func newGalleryTile() *galleryTile {
	t := &galleryTile{
		image:   canvas.NewImageFromResource(theme.FileImageIcon()),
		caption: widget.NewLabel(""),
	}
	t.image.FillMode = canvas.ImageFillContain
	t.image.SetMinSize(fyne.NewSize(TileSize, TileSize))
	t.caption.Alignment = fyne.TextAlignCenter
	t.caption.Truncation = fyne.TextTruncateEllipsis
	t.ExtendBaseWidget(t)
	return t
}

func (t *galleryTile) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, t.caption, nil, nil, t.image))
}

// Tapped is called when the widget is tapped.
func (t *galleryTile) Tapped(_ *fyne.PointEvent) {
	if t.onTapped != nil {
		t.onTapped()
	}
}

// SetResource swaps the thumbnail.
func (t *galleryTile) SetResource(res fyne.Resource) {
	t.image.Resource = res
	t.image.Image = nil
	canvas.Refresh(t.image)
}

// SetCaption updates the title shown under the image.
func (t *galleryTile) SetCaption(text string) {
	if t.caption.Text != text {
		t.caption.SetText(text)
	}
}
