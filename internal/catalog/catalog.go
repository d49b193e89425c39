// Package catalog holds the fixed, ordered list of images the gallery can show.
package catalog

import (
	"path"
	"strings"
)

// DefaultFolder is the display prefix images are served under.
const DefaultFolder = "/Gallery"

// Image is one entry of the catalog. It is never mutated after the catalog is built.
type Image struct {
	Name  string `json:"name"` // file name as listed in the catalog
	Path  string `json:"path"` // display path: folder prefix + name
	Title string `json:"title"`
}

// TitleSource resolves a display title for an image path.
// ok is false when no title is recorded and the file name should be used.
type TitleSource interface {
	Title(imagePath string) (title string, ok bool, err error)
}

// Catalog is an immutable ordered list of images, unique by path.
type Catalog struct {
	folder string
	images []Image
	index  map[string]int
}

// New builds a catalog from an ordered list of file names. Duplicate and empty
// names are dropped, keeping the first occurrence.
func New(folder string, names []string) *Catalog {
	c := &Catalog{
		folder: folder,
		images: make([]Image, 0, len(names)),
		index:  make(map[string]int, len(names)),
	}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		c.add(Image{Name: n, Path: DisplayPath(folder, n), Title: n})
	}
	return c
}

// NewFromImages builds a catalog from already populated images. Images with an
// empty Path get one derived from folder and Name.
func NewFromImages(folder string, images []Image) *Catalog {
	c := &Catalog{
		folder: folder,
		images: make([]Image, 0, len(images)),
		index:  make(map[string]int, len(images)),
	}
	for _, img := range images {
		if img.Name == "" {
			continue
		}
		if img.Path == "" {
			img.Path = DisplayPath(folder, img.Name)
		}
		if img.Title == "" {
			img.Title = img.Name
		}
		c.add(img)
	}
	return c
}

func (c *Catalog) add(img Image) {
	if _, dup := c.index[img.Path]; dup {
		return
	}
	c.index[img.Path] = len(c.images)
	c.images = append(c.images, img)
}

// WithTitles returns a copy of the catalog whose titles are resolved through ts.
// Lookup failures keep the existing title and are reported through the returned error
// (the first one encountered).
func (c *Catalog) WithTitles(ts TitleSource) (*Catalog, error) {
	out := make([]Image, len(c.images))
	copy(out, c.images)
	var firstErr error
	for i := range out {
		title, ok, err := ts.Title(out[i].Path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok && title != "" {
			out[i].Title = title
		}
	}
	return NewFromImages(c.folder, out), firstErr
}

// DisplayPath joins the folder prefix and a file name the way the gallery references it.
func DisplayPath(folder, name string) string {
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

// Folder returns the display prefix.
func (c *Catalog) Folder() string { return c.folder }

// Len returns the number of images.
func (c *Catalog) Len() int { return len(c.images) }

// At returns the image at position i in catalog order.
func (c *Catalog) At(i int) Image { return c.images[i] }

// Images returns a copy of the images in catalog order.
func (c *Catalog) Images() []Image {
	out := make([]Image, len(c.images))
	copy(out, c.images)
	return out
}

// IndexOf returns the catalog position of the image with the given display path, or -1.
func (c *Catalog) IndexOf(imagePath string) int {
	if i, ok := c.index[imagePath]; ok {
		return i
	}
	return -1
}

// Lookup finds an image by display path or by file name.
func (c *Catalog) Lookup(key string) (Image, bool) {
	if i, ok := c.index[key]; ok {
		return c.images[i], true
	}
	if i, ok := c.index[DisplayPath(c.folder, key)]; ok {
		return c.images[i], true
	}
	return Image{}, false
}
