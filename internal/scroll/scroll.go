// Package scroll turns scroll positions into lazy-load requests.
package scroll

import "sync"

const (
	// DefaultThreshold is how close to the bottom, in content units, loading starts.
	DefaultThreshold = 1000
	// DefaultBatch is how many images each load appends.
	DefaultBatch = 6
)

// DistanceFromBottom returns how far the bottom edge of the viewport is from
// the end of the content. It is never negative.
func DistanceFromBottom(offset, viewport, content float64) float64 {
	d := content - (offset + viewport)
	if d < 0 {
		return 0
	}
	return d
}

// NearBottom reports whether the viewport is within threshold of the end of the content.
func NearBottom(offset, viewport, content, threshold float64) bool {
	return DistanceFromBottom(offset, viewport, content) < threshold
}

// Target is the sequence a Loader grows.
type Target interface {
	Expanded() bool
	Len() int
	CatalogLen() int
	Append(n int) int
}

// Loader appends batches to a Target when the user scrolls near the bottom.
type Loader struct {
	Threshold float64
	Batch     int
}

// NewLoader returns a Loader; non-positive arguments select the defaults.
func NewLoader(threshold float64, batch int) *Loader {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if batch <= 0 {
		batch = DefaultBatch
	}
	return &Loader{Threshold: threshold, Batch: batch}
}

// MaybeLoadMore appends the next batch when t is expanded, incomplete and the
// distance is under the threshold. It checks the live length on every call, so
// repeated events for the same position never append the same batch twice.
func (l *Loader) MaybeLoadMore(t Target, distanceFromBottom float64) int {
	if !t.Expanded() || distanceFromBottom >= l.Threshold {
		return 0
	}
	if t.Len() >= t.CatalogLen() {
		return 0
	}
	return t.Append(l.Batch)
}

// Feed fans scroll distances out to subscribers.
type Feed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(distanceFromBottom float64)
}

// NewFeed returns an empty Feed.
func NewFeed() *Feed {
	return &Feed{subs: map[int]func(float64){}}
}

// Subscribe registers fn and returns the function that removes it.
// Calling the returned function more than once is harmless.
func (f *Feed) Subscribe(fn func(distanceFromBottom float64)) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Publish delivers a distance to every current subscriber.
func (f *Feed) Publish(distanceFromBottom float64) {
	f.mu.Lock()
	fns := make([]func(float64), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(distanceFromBottom)
	}
}

// PublishPosition converts a raw scroll position and publishes it.
func (f *Feed) PublishPosition(offset, viewport, content float64) {
	f.Publish(DistanceFromBottom(offset, viewport, content))
}

// Subscribers returns the number of active subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
