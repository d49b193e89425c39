// Package display owns the sequence of images the gallery currently shows.
package display

import (
	"lensgallery/internal/catalog"
	"lensgallery/internal/sampler"
)

// DefaultInitialSize is the number of images shown before the gallery is expanded.
const DefaultInitialSize = 6

// Mode is the rotation state of a display set.
type Mode int

const (
	// Rotating shows a fixed-size subset and swaps one image per rotation tick.
	Rotating Mode = iota
	// Expanded shows the whole catalog. It is terminal.
	Expanded
)

func (m Mode) String() string {
	switch m {
	case Rotating:
		return "rotating"
	case Expanded:
		return "expanded"
	default:
		return "unknown"
	}
}

// Controller is the only writer of the displayed sequence.
// It is not safe for concurrent use; callers serialize access.
type Controller struct {
	catalog *catalog.Catalog
	rand    *sampler.Sampler
	size    int
	seq     []catalog.Image
	shown   map[string]bool
	mode    Mode
}

// NewController creates a controller over cat. size <= 0 selects DefaultInitialSize.
// A nil sampler gets a randomly seeded one.
func NewController(cat *catalog.Catalog, size int, s *sampler.Sampler) *Controller {
	if size <= 0 {
		size = DefaultInitialSize
	}
	if s == nil {
		s = sampler.NewRandom()
	}
	if cat == nil {
		cat = catalog.New("", nil)
	}
	return &Controller{
		catalog: cat,
		rand:    s,
		size:    size,
		shown:   map[string]bool{},
	}
}

// Initialize shows a random subset of min(N, size) catalog images in rotating mode.
// Expansion is one-way, so an expanded controller is left unchanged and false is returned.
func (c *Controller) Initialize() bool {
	if c.mode == Expanded {
		return false
	}
	c.reseed()
	return true
}

// reseed replaces the sequence with a fresh sample of the catalog.
func (c *Controller) reseed() {
	shuffled := sampler.Shuffle(c.rand, c.catalog.Images())
	if len(shuffled) > c.size {
		shuffled = shuffled[:c.size]
	}
	c.seq = shuffled
	c.shown = make(map[string]bool, len(shuffled))
	for _, img := range shuffled {
		c.shown[img.Path] = true
	}
}

// Rotate swaps one displayed image for a catalog image that is not displayed.
// When every catalog image is already displayed the sequence is re-sampled instead.
// It reports whether the sequence changed; it has no effect once expanded.
func (c *Controller) Rotate() bool {
	if c.mode != Rotating || len(c.seq) == 0 {
		return false
	}
	unused := c.unused()
	if len(unused) == 0 {
		c.reseed()
		return true
	}
	slot := c.rand.Intn(len(c.seq))
	img, _ := sampler.Pick(c.rand, unused)

	delete(c.shown, c.seq[slot].Path)
	c.seq[slot] = img
	c.shown[img.Path] = true
	return true
}

// unused returns catalog images not currently displayed, in catalog order.
func (c *Controller) unused() []catalog.Image {
	var pool []catalog.Image
	for i := 0; i < c.catalog.Len(); i++ {
		img := c.catalog.At(i)
		if !c.shown[img.Path] {
			pool = append(pool, img)
		}
	}
	return pool
}

// Expand switches to expanded mode and appends every catalog image not yet
// displayed, in catalog order, after the current sequence. It reports false
// when the controller was already expanded.
func (c *Controller) Expand() bool {
	if c.mode == Expanded {
		return false
	}
	c.mode = Expanded
	c.seq = append(c.seq, c.unused()...)
	for _, img := range c.seq {
		c.shown[img.Path] = true
	}
	return true
}

// Append adds up to n catalog images that are not displayed yet, in catalog order,
// and returns how many were added. It only acts in expanded mode.
func (c *Controller) Append(n int) int {
	if c.mode != Expanded || n <= 0 {
		return 0
	}
	added := 0
	for i := 0; i < c.catalog.Len() && added < n; i++ {
		img := c.catalog.At(i)
		if c.shown[img.Path] {
			continue
		}
		c.seq = append(c.seq, img)
		c.shown[img.Path] = true
		added++
	}
	return added
}

// Mode returns the rotation state.
func (c *Controller) Mode() Mode { return c.mode }

// Len returns the length of the displayed sequence.
func (c *Controller) Len() int { return len(c.seq) }

// Complete reports whether every catalog image is displayed.
func (c *Controller) Complete() bool { return len(c.seq) >= c.catalog.Len() }

// At returns the displayed image at i.
func (c *Controller) At(i int) (catalog.Image, bool) {
	if i < 0 || i >= len(c.seq) {
		return catalog.Image{}, false
	}
	return c.seq[i], true
}

// Sequence returns a copy of the displayed sequence.
func (c *Controller) Sequence() []catalog.Image {
	out := make([]catalog.Image, len(c.seq))
	copy(out, c.seq)
	return out
}

// Size returns the configured subset size.
func (c *Controller) Size() int { return c.size }

// Catalog returns the catalog the controller draws from.
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }
