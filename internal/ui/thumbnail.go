package ui

import (
	"bytes"
	"image"
	"image/png"
	"sync"

	"lensgallery/internal/catalog"
	"lensgallery/internal/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ThumbnailManager handles generation and caching of tile thumbnails.
type ThumbnailManager struct {
	cache      map[string]fyne.Resource
	attempted  map[string]bool // builds started; a failed one is not retried
	cacheMutex sync.RWMutex
	images     *service.ImageService
	logf       func(string)
}

// NewThumbnailManager creates a new thumbnail manager. logf receives load failures.
func NewThumbnailManager(images *service.ImageService, logf func(string)) *ThumbnailManager {
	return &ThumbnailManager{
		cache:     make(map[string]fyne.Resource),
		attempted: make(map[string]bool),
		images:    images,
		logf:      logf,
	}
}

// imageToBytes is a helper to convert image.Image to []byte for Fyne resources.
func imageToBytes(img image.Image) []byte {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// GetThumbnail returns the cached thumbnail of img, or a placeholder while
// the thumbnail is built in the background. onComplete then receives the
// real resource on the fyne goroutine. Images that failed once, and every
// image when there is no image directory, keep the placeholder.
func (tm *ThumbnailManager) GetThumbnail(img catalog.Image, onComplete func(fyne.Resource)) fyne.Resource {
	if !tm.images.Available() {
		return theme.FileImageIcon()
	}
	tm.cacheMutex.Lock()
	if res, ok := tm.cache[img.Path]; ok {
		tm.cacheMutex.Unlock()
		return res
	}
	if tm.attempted[img.Path] {
		tm.cacheMutex.Unlock()
		return theme.FileImageIcon()
	}
	tm.attempted[img.Path] = true
	tm.cacheMutex.Unlock()

	go func() {
		thumb, err := tm.images.Thumbnail(img, TileSize, TileSize)
		if err != nil {
			if tm.logf != nil {
				tm.logf("Thumbnail error for " + img.Name + ": " + err.Error())
			}
			return
		}
		thumbBytes := imageToBytes(thumb)
		if thumbBytes == nil {
			return
		}
		res := fyne.NewStaticResource(img.Name, thumbBytes)

		tm.cacheMutex.Lock()
		tm.cache[img.Path] = res
		tm.cacheMutex.Unlock()

		if onComplete != nil {
			fyne.Do(func() {
				onComplete(res)
			})
		}
	}()

	return theme.FileImageIcon()
}

// Cached reports whether a thumbnail for path is ready.
func (tm *ThumbnailManager) Cached(path string) bool {
	tm.cacheMutex.RLock()
	defer tm.cacheMutex.RUnlock()
	_, ok := tm.cache[path]
	return ok
}
