package service

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"lensgallery/internal/catalog"

	"github.com/nfnt/resize"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

// ImageInfo holds metadata about an image file.
type ImageInfo struct {
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Size     int64             `json:"size"`
	ModTime  time.Time         `json:"modTime"`
	EXIFData map[string]string `json:"exif,omitempty"`
}

// ImageService reads image files of a catalog from disk.
type ImageService struct {
	dir string
}

// NewImageService creates an ImageService rooted at dir, the directory that
// holds the catalog's files.
func NewImageService(dir string) *ImageService {
	return &ImageService{dir: dir}
}

// Available reports whether the service has a directory to read images from.
func (is *ImageService) Available() bool {
	return is.dir != ""
}

// FilePath returns where the bytes of img live on disk.
func (is *ImageService) FilePath(img catalog.Image) string {
	return filepath.Join(is.dir, filepath.FromSlash(img.Name))
}

// GetEXIF extracts a few common EXIF fields. Images without EXIF yield an empty map.
func (is *ImageService) GetEXIF(r io.Reader) map[string]string {
	result := make(map[string]string)
	x, err := exif.Decode(r)
	if err != nil {
		return result
	}
	for _, field := range []exif.FieldName{
		exif.DateTime, exif.Model, exif.Make, exif.ExposureTime, exif.FNumber, exif.ISOSpeedRatings, exif.FocalLength,
	} {
		tag, err := x.Get(field)
		if err == nil && tag != nil {
			result[string(field)] = tag.String()
		}
	}
	return result
}

// GetImageInfo returns dimensions, file size, mod time and EXIF data of a catalog image.
func (is *ImageService) GetImageInfo(img catalog.Image) (*ImageInfo, error) {
	if is.dir == "" {
		return nil, fmt.Errorf("no image directory configured")
	}
	p := is.FilePath(img)
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open image for info: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}

	exifData := is.GetEXIF(f)

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek in image file: %w", err)
	}

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header for %s: %w", img.Name, err)
	}

	return &ImageInfo{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Size:     fi.Size(),
		ModTime:  fi.ModTime(),
		EXIFData: exifData,
	}, nil
}

// DecodeImage reads and decodes the full image.
func (is *ImageService) DecodeImage(img catalog.Image) (image.Image, error) {
	if is.dir == "" {
		return nil, fmt.Errorf("no image directory configured")
	}
	f, err := os.Open(is.FilePath(img))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", img.Name, err)
	}
	return decoded, nil
}

// Thumbnail decodes img and scales it to fit within maxWidth x maxHeight,
// keeping the aspect ratio. Images already small enough are returned as is.
func (is *ImageService) Thumbnail(img catalog.Image, maxWidth, maxHeight uint) (image.Image, error) {
	decoded, err := is.DecodeImage(img)
	if err != nil {
		return nil, err
	}
	return resize.Thumbnail(maxWidth, maxHeight, decoded, resize.Lanczos3), nil
}
