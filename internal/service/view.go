package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lensgallery/internal/catalog"
	"lensgallery/internal/display"
	"lensgallery/internal/lightbox"
	"lensgallery/internal/rotation"
	"lensgallery/internal/sampler"
	"lensgallery/internal/scroll"
)

// ViewOptions tunes a gallery view. Zero values select the package defaults.
type ViewOptions struct {
	InitialDisplay   int
	RotationInterval time.Duration
	LoadThreshold    float64
	LoadBatch        int
	Sampler          *sampler.Sampler
	// OnChange runs after every state transition, outside the view lock.
	OnChange func(Snapshot)
}

// LightboxSnapshot is the render state of the lightbox.
type LightboxSnapshot struct {
	Open        bool           `json:"open"`
	ActiveIndex *int           `json:"activeIndex"`
	Image       *catalog.Image `json:"image,omitempty"`
}

// Snapshot is everything the presentation layer needs to draw a gallery view.
type Snapshot struct {
	Images       []catalog.Image  `json:"images"`
	Mode         string           `json:"mode"`
	Rotating     bool             `json:"rotating"`
	ShowLoadMore bool             `json:"showLoadMore"`
	CatalogSize  int              `json:"catalogSize"`
	Lightbox     LightboxSnapshot `json:"lightbox"`
}

// View is one mounted gallery: the display set, its rotation timer, the scroll
// loader and the lightbox. Every transition is serialized behind one lock, so
// the rotation goroutine and user input never interleave.
type View struct {
	mu       sync.Mutex
	ctrl     *display.Controller
	lightbox *lightbox.Lightbox
	loader   *scroll.Loader
	rotator  *rotation.Rotator
	onChange func(Snapshot)
	logger   *slog.Logger

	mounted     bool
	torn        bool
	unsubscribe func()
}

// NewView builds an unmounted view over cat.
func NewView(cat *catalog.Catalog, opts ViewOptions, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{
		ctrl:     display.NewController(cat, opts.InitialDisplay, opts.Sampler),
		lightbox: lightbox.New(),
		loader:   scroll.NewLoader(opts.LoadThreshold, opts.LoadBatch),
		rotator:  rotation.NewRotator(opts.RotationInterval),
		onChange: opts.OnChange,
		logger:   logger,
	}
}

// Mount samples the initial images and starts rotation. An empty catalog
// mounts with nothing displayed and no rotation. Mounting twice is a no-op.
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	if v.mounted || v.torn {
		v.mu.Unlock()
		return
	}
	v.mounted = true
	v.ctrl.Initialize()
	if v.ctrl.Len() > 0 {
		// Start only spawns the goroutine; ticks take v.mu themselves.
		v.rotator.Start(ctx, func() { v.Rotate() })
	} else {
		v.logger.Info("Gallery catalog is empty, rotation not scheduled")
	}
	snap := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(snap)
}

// Rotate performs one rotation step. It is what the timer calls.
func (v *View) Rotate() bool {
	v.mu.Lock()
	if v.torn || !v.ctrl.Rotate() {
		v.mu.Unlock()
		return false
	}
	snap := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(snap)
	return true
}

// RequestExpand reveals the whole catalog and cancels rotation for good.
func (v *View) RequestExpand() bool {
	v.mu.Lock()
	if v.torn || !v.ctrl.Expand() {
		v.mu.Unlock()
		return false
	}
	snap := v.snapshotLocked()
	v.mu.Unlock()

	// Stop waits for the timer goroutine, which may be blocked on v.mu; it must run unlocked.
	v.rotator.Stop()
	v.logger.Debug("Gallery expanded", "images", len(snap.Images))
	v.notify(snap)
	return true
}

// MaybeLoadMore is the scroll handler: it appends the next batch when the view
// is expanded and the reader is within the threshold of the bottom.
func (v *View) MaybeLoadMore(distanceFromBottom float64) int {
	v.mu.Lock()
	if v.torn {
		v.mu.Unlock()
		return 0
	}
	added := v.loader.MaybeLoadMore(controllerTarget{v.ctrl}, distanceFromBottom)
	if added == 0 {
		v.mu.Unlock()
		return 0
	}
	snap := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(snap)
	return added
}

// Subscribe attaches the view to a scroll feed until Teardown. A torn down
// view does not subscribe.
func (v *View) Subscribe(feed *scroll.Feed) {
	unsub := feed.Subscribe(func(d float64) { v.MaybeLoadMore(d) })
	v.mu.Lock()
	if v.torn {
		v.mu.Unlock()
		unsub()
		return
	}
	prev := v.unsubscribe
	v.unsubscribe = unsub
	v.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// OpenLightboxAt opens the viewer on the displayed image at index.
// Indices outside the displayed sequence are rejected.
func (v *View) OpenLightboxAt(index int) bool {
	v.mu.Lock()
	if v.torn || !v.lightbox.Open(index, v.ctrl.Len()) {
		v.mu.Unlock()
		return false
	}
	snap := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(snap)
	return true
}

// CloseLightbox hides the viewer.
func (v *View) CloseLightbox() {
	v.mu.Lock()
	wasOpen := v.lightbox.IsOpen()
	v.lightbox.Close()
	snap := v.snapshotLocked()
	v.mu.Unlock()

	if wasOpen {
		v.notify(snap)
	}
}

// LightboxNext shows the following image, wrapping around the live sequence.
func (v *View) LightboxNext() (int, bool) {
	return v.stepLightbox(v.lightbox.Next)
}

// LightboxPrevious shows the preceding image, wrapping around the live sequence.
func (v *View) LightboxPrevious() (int, bool) {
	return v.stepLightbox(v.lightbox.Previous)
}

func (v *View) stepLightbox(step func(length int) (int, bool)) (int, bool) {
	v.mu.Lock()
	if v.torn {
		v.mu.Unlock()
		return -1, false
	}
	idx, ok := step(v.ctrl.Len())
	if !ok {
		v.mu.Unlock()
		return -1, false
	}
	snap := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(snap)
	return idx, true
}

// Snapshot returns the current render state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// RotationActive reports whether the rotation timer is running.
func (v *View) RotationActive() bool {
	return v.rotator.Running()
}

// Teardown cancels rotation and the scroll subscription. The view ignores
// every later call.
func (v *View) Teardown() {
	v.mu.Lock()
	if v.torn {
		v.mu.Unlock()
		return
	}
	v.torn = true
	unsub := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()

	v.rotator.Stop()
	if unsub != nil {
		unsub()
	}
}

func (v *View) snapshotLocked() Snapshot {
	cat := v.ctrl.Catalog()
	mode := v.ctrl.Mode()
	snap := Snapshot{
		Images:       v.ctrl.Sequence(),
		Mode:         mode.String(),
		Rotating:     mode == display.Rotating && v.ctrl.Len() > 0,
		ShowLoadMore: mode == display.Rotating && cat.Len() > v.ctrl.Size(),
		CatalogSize:  cat.Len(),
	}
	if idx, ok := v.lightbox.Active(v.ctrl.Len()); ok {
		img := snap.Images[idx]
		snap.Lightbox = LightboxSnapshot{Open: true, ActiveIndex: &idx, Image: &img}
	}
	return snap
}

func (v *View) notify(snap Snapshot) {
	if v.onChange != nil {
		v.onChange(snap)
	}
}

// controllerTarget exposes a display controller to the scroll loader.
type controllerTarget struct {
	c *display.Controller
}

func (t controllerTarget) Expanded() bool   { return t.c.Mode() == display.Expanded }
func (t controllerTarget) Len() int         { return t.c.Len() }
func (t controllerTarget) CatalogLen() int  { return t.c.Catalog().Len() }
func (t controllerTarget) Append(n int) int { return t.c.Append(n) }
